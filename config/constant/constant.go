package constant

type EngineStatus int8

const (
	EngineInit    EngineStatus = 0
	EngineRunning EngineStatus = 1
	EngineStop    EngineStatus = 2
)

const (
	DefaultHost        string = "localhost"
	DefaultTimeout     uint   = 2000
	DefaultConcurrency uint   = 50
	DefaultListen      string = ":8080"
)

// 校验用的策略上限，可以通过命令行覆盖
const (
	DefaultMaxRangeSize   uint = 1000
	DefaultMaxConcurrency uint = 100
	DefaultMinTimeout     uint = 100
	DefaultMaxTimeout     uint = 10000
)
