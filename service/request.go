package service

import (
	"errors"
	"fmt"
	"net"
	"regexp"

	"port-scanner/config"
	"port-scanner/config/constant"
)

var (
	ErrHostRequired          = errors.New("host is required")
	ErrPortOutOfRange        = errors.New("ports must be between 1 and 65535")
	ErrStartAfterEnd         = errors.New("start port must be less than or equal to end port")
	ErrRangeTooLarge         = errors.New("port range too large")
	ErrTimeoutOutOfRange     = errors.New("timeout out of range")
	ErrConcurrencyOutOfRange = errors.New("concurrency out of range")
)

const maxPort = 65535

// ApplyDefaults 补全请求中缺省的字段
func (r *ScanRequest) ApplyDefaults() {
	if r.Host == "" {
		r.Host = constant.DefaultHost
	}
	if r.Timeout == 0 {
		r.Timeout = constant.DefaultTimeout
	}
	if r.Concurrency == 0 {
		r.Concurrency = constant.DefaultConcurrency
	}
}

// Validate 按 limits 检查请求，任何一项不满足都会在扫描开始前拒绝
func (r *ScanRequest) Validate(limits config.Limits) error {
	if r.Host == "" {
		return ErrHostRequired
	}
	if r.StartPort < 1 || r.StartPort > maxPort || r.EndPort < 1 || r.EndPort > maxPort {
		return ErrPortOutOfRange
	}
	if r.StartPort > r.EndPort {
		return ErrStartAfterEnd
	}
	if size := r.EndPort - r.StartPort + 1; size > limits.MaxRangeSize {
		return fmt.Errorf("%w: maximum port range is %d ports", ErrRangeTooLarge, limits.MaxRangeSize)
	}
	if r.Timeout < limits.MinTimeout || r.Timeout > limits.MaxTimeout {
		return fmt.Errorf("%w: timeout must be between %d and %d ms", ErrTimeoutOutOfRange, limits.MinTimeout, limits.MaxTimeout)
	}
	if r.Concurrency < 1 || r.Concurrency > limits.MaxConcurrency {
		return fmt.Errorf("%w: concurrency must be between 1 and %d", ErrConcurrencyOutOfRange, limits.MaxConcurrency)
	}
	return nil
}

var privateHostPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^127\.`),
	regexp.MustCompile(`^10\.`),
	regexp.MustCompile(`^172\.(1[6-9]|2[0-9]|3[0-1])\.`),
	regexp.MustCompile(`^192\.168\.`),
	regexp.MustCompile(`^169\.254\.`),
	regexp.MustCompile(`(?i)^localhost$`),
}

// IsPrivateHost 判断目标是否为内网或本机地址，只用于日志记录
func IsPrivateHost(host string) bool {
	if ip := net.ParseIP(host); ip != nil {
		return ip.IsLoopback() || ip.IsPrivate() || ip.IsLinkLocalUnicast()
	}
	for _, pattern := range privateHostPatterns {
		if pattern.MatchString(host) {
			return true
		}
	}
	return false
}
