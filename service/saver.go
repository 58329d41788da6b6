package service

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// Saver 把扫描结果导出为 CSV 文件
type Saver struct {
	outputFile string
}

// NewSaver 创建一个新的 Saver
func NewSaver(outputFile string) *Saver {
	return &Saver{outputFile: outputFile}
}

// DefaultOutputFile 根据目标生成默认的输出文件名
func DefaultOutputFile(host string, timestamp int64) string {
	return fmt.Sprintf("port-scan-%s-%d.csv", host, timestamp)
}

// Save 写出 Port,Status,Service 三列，先写临时文件再 rename，失败时不破坏已有文件
func (s *Saver) Save(outcome *ScanOutcome) error {
	tag := "[Saver]"

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	_ = writer.Write([]string{"Port", "Status", "Service"})
	for _, r := range outcome.Results {
		service := r.Service
		if service == "" {
			service = "Unknown"
		}
		_ = writer.Write([]string{strconv.FormatUint(uint64(r.Port), 10), string(r.Status), service})
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("encode csv: %w", err)
	}

	if err := writeAtomic(s.outputFile, buf.Bytes()); err != nil {
		logger.Errorf("%s Cannot write output file: %s, error: %+v", tag, s.outputFile, err)
		return err
	}
	logger.Debugf("%s %d results written to %s", tag, len(outcome.Results), s.outputFile)
	return nil
}

func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}

	tmpF, err := os.CreateTemp(dir, "port-scan-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmpF.Name()

	if _, err := tmpF.Write(data); err != nil {
		_ = tmpF.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmpF.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename temp -> final: %w", err)
	}
	return nil
}
