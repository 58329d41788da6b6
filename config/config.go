package config

import "port-scanner/config/constant"

// Limits 请求校验使用的策略上限，扫描引擎本身不关心这些值
type Limits struct {
	MaxRangeSize   uint
	MaxConcurrency uint
	MinTimeout     uint
	MaxTimeout     uint
}

type AppConfig struct {
	Host        string
	StartPort   uint
	EndPort     uint
	Timeout     uint
	Concurrency uint

	OutputFile string
	CSV        bool
	JSON       bool

	Listen  string
	LogFile string

	Limits Limits

	Debug bool
}

var appConfig = AppConfig{
	Host:        constant.DefaultHost,
	Timeout:     constant.DefaultTimeout,
	Concurrency: constant.DefaultConcurrency,
	Listen:      constant.DefaultListen,
	Limits:      DefaultLimits(),
}

func GetAppConfig() *AppConfig {
	return &appConfig
}

// DefaultLimits 返回默认的校验上限
func DefaultLimits() Limits {
	return Limits{
		MaxRangeSize:   constant.DefaultMaxRangeSize,
		MaxConcurrency: constant.DefaultMaxConcurrency,
		MinTimeout:     constant.DefaultMinTimeout,
		MaxTimeout:     constant.DefaultMaxTimeout,
	}
}
