package service

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidRange       = errors.New("start port is greater than end port")
	ErrInvalidConcurrency = errors.New("concurrency must be at least 1")
)

// BatchObserver 每个批次结束后回调，done 为已完成的端口数
type BatchObserver func(done, total int)

// BatchScanner 按批次扫描端口范围
// 每个批次内的端口并发探测，批次之间严格串行：上一个批次全部结束后才开始下一个
type BatchScanner struct {
	prober   *Prober
	observer BatchObserver
}

// NewBatchScanner 创建新的 BatchScanner
func NewBatchScanner(prober *Prober) *BatchScanner {
	return &BatchScanner{prober: prober}
}

// OnBatch 设置批次完成的回调
func (s *BatchScanner) OnBatch(observer BatchObserver) *BatchScanner {
	s.observer = observer
	return s
}

// Scan 按请求扫描，请求需要事先通过 Validate
func (s *BatchScanner) Scan(req ScanRequest) (*ScanOutcome, error) {
	return s.ScanRange(req.Host, req.StartPort, req.EndPort, time.Duration(req.Timeout)*time.Millisecond, req.Concurrency)
}

// ScanRange 扫描 [startPort, endPort]，结果按端口升序排列
// 单个端口的失败不会中断扫描，只有参数让扫描无法开始时才返回错误
func (s *BatchScanner) ScanRange(host string, startPort, endPort uint, timeout time.Duration, concurrency uint) (*ScanOutcome, error) {
	if startPort > endPort {
		return nil, fmt.Errorf("%w: %d > %d", ErrInvalidRange, startPort, endPort)
	}
	if concurrency == 0 {
		return nil, ErrInvalidConcurrency
	}

	scanID := uuid.NewString()
	tag := fmt.Sprintf("[BatchScanner-%s]", scanID[:8])
	logger.Infof("%s Scan %s:%d-%d, timeout: %s, concurrency: %d", tag, host, startPort, endPort, timeout, concurrency)

	start := time.Now()

	ports := make([]uint, 0, endPort-startPort+1)
	for p := startPort; p <= endPort; p++ {
		ports = append(ports, p)
	}

	results := make([]PortResult, 0, len(ports))
	batchSize := int(concurrency)
	for i := 0; i < len(ports); i += batchSize {
		end := i + batchSize
		if end > len(ports) {
			end = len(ports)
		}
		results = append(results, s.runBatch(host, ports[i:end], timeout)...)
		logger.Debugf("%s batch %d-%d done", tag, ports[i], ports[end-1])

		if s.observer != nil {
			s.observer(len(results), len(ports))
		}
	}

	elapsed := time.Since(start)

	openPorts := 0
	for _, r := range results {
		if r.Status == StatusOpen {
			openPorts += 1
		}
	}

	logger.Infof("%s Scan completed in %dms. Found %d open ports", tag, elapsed.Milliseconds(), openPorts)

	return &ScanOutcome{
		ScanID:            scanID,
		Host:              host,
		StartPort:         startPort,
		EndPort:           endPort,
		TotalTimeMs:       elapsed.Milliseconds(),
		TotalPortsScanned: len(results),
		OpenPorts:         openPorts,
		Results:           results,
	}, nil
}

// runBatch 并发探测一个批次，等待全部结束后按输入顺序返回
func (s *BatchScanner) runBatch(host string, batch []uint, timeout time.Duration) []PortResult {
	// 每个协程只写自己下标的位置，汇总在 Wait 之后进行
	out := make([]PortResult, len(batch))

	var waitGroup sync.WaitGroup
	for idx, port := range batch {
		waitGroup.Add(1)
		go func(idx int, port uint) {
			defer waitGroup.Done()
			out[idx] = s.prober.Probe(host, port, timeout)
		}(idx, port)
	}
	waitGroup.Wait()

	return out
}
