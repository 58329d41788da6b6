package service

import (
	"context"
	"errors"
	"net"
	"strconv"
	"time"
)

// DialFunc 建立 TCP 连接的函数，和 net.Dialer.DialContext 签名一致
type DialFunc func(ctx context.Context, network, address string) (net.Conn, error)

// Prober 对单个端口发起一次 TCP 连接并判断端口状态
type Prober struct {
	dial DialFunc
}

// NewProber 使用系统 Dialer 创建 Prober
func NewProber() *Prober {
	d := &net.Dialer{
		KeepAlive: -1, // 扫描不需要保持连接
	}
	return NewProberWithDialer(d.DialContext)
}

// NewProberWithDialer 使用自定义的 dial 函数创建 Prober
func NewProberWithDialer(dial DialFunc) *Prober {
	return &Prober{dial: dial}
}

// Probe 对 host:port 只尝试一次连接，连接和超时计时器赛跑：
//   - 先连上：立即关闭连接，open
//   - 先超时：filtered
//   - 其他错误（被拒绝、域名解析失败等）：closed
func (p *Prober) Probe(host string, port uint, timeout time.Duration) PortResult {
	address := net.JoinHostPort(host, strconv.FormatUint(uint64(port), 10))
	logger.Debugf("Scanning %s", address)

	deadline := time.Now().Add(timeout)
	ctx, cancel := context.WithDeadline(context.Background(), deadline)
	defer cancel()

	conn, err := p.dial(ctx, "tcp", address)

	// 只有自己的截止时间到了才算 filtered，超时之后才返回的连接不改变结果，但要释放掉
	if deadlinePassed(ctx, deadline, err) {
		if conn != nil {
			_ = conn.Close()
		}
		logger.Debugf("%s timeout, filtered", address)
		return PortResult{Port: port, Status: StatusFiltered}
	}

	// 其他错误（包括系统层面的 ETIMEDOUT）一律 closed
	if err != nil {
		logger.Debugf("%s closed, error: %+v", address, err)
		return PortResult{Port: port, Status: StatusClosed}
	}

	_ = conn.Close()
	result := PortResult{Port: port, Status: StatusOpen}
	if name, ok := LookupService(port); ok {
		result.Service = name
	}
	logger.Debugf("%s open", address)
	return result
}

// deadlinePassed ctx 的定时器可能比 socket 的超时晚一点触发，所以同时比较时间
func deadlinePassed(ctx context.Context, deadline time.Time, err error) bool {
	if ctx.Err() != nil || !time.Now().Before(deadline) {
		return true
	}
	return err != nil && errors.Is(err, context.DeadlineExceeded)
}
