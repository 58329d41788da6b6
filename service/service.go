package service

import "port-scanner/logging"

var logger = logging.GetSugar()

// PortStatus 端口状态
type PortStatus string

const (
	StatusOpen     PortStatus = "open"
	StatusClosed   PortStatus = "closed"
	StatusFiltered PortStatus = "filtered"
)

// ScanRequest 表示一次扫描请求，校验通过之后只读
type ScanRequest struct {
	Host        string `json:"host"`
	StartPort   uint   `json:"start_port"`
	EndPort     uint   `json:"end_port"`
	Timeout     uint   `json:"timeout"` // 毫秒
	Concurrency uint   `json:"concurrency"`
}

// PortResult 表示单个端口的扫描结果
// Service 只有在端口开放并且在服务表中时才有值
type PortResult struct {
	Port    uint       `json:"port"`
	Status  PortStatus `json:"status"`
	Service string     `json:"service,omitempty"`
}

// ScanOutcome 表示整个端口范围的扫描结果，Results 按端口升序排列
type ScanOutcome struct {
	ScanID            string       `json:"scan_id"`
	Host              string       `json:"host"`
	StartPort         uint         `json:"start_port"`
	EndPort           uint         `json:"end_port"`
	TotalTimeMs       int64        `json:"total_time_ms"`
	TotalPortsScanned int          `json:"total_ports_scanned"`
	OpenPorts         int          `json:"open_ports"`
	Results           []PortResult `json:"results"`
}

// ScanResponse 是 HTTP 接口返回给前端的结构
type ScanResponse struct {
	Success bool `json:"success"`
	*ScanOutcome
}
