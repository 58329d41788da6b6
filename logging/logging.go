package logging

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// InitLogger 调用之前先用 nop logger 占位，避免库代码和单元测试拿到空的 core
var logger = *zap.NewNop()
var sugarLogger = *zap.NewNop().Sugar()

func GetLogger() *zap.Logger {
	return &logger
}

func GetSugar() *zap.SugaredLogger {
	return &sugarLogger
}

// DefaultLogFile 默认将日志文件放到可执行文件同级
func DefaultLogFile() string {
	file, _ := exec.LookPath(os.Args[0])
	execPath, _ := filepath.Abs(file)
	execPath = execPath[:strings.LastIndex(execPath, string(os.PathSeparator))]
	return fmt.Sprintf("%s%clog.log", execPath, os.PathSeparator)
}

func InitLogger(debug bool, logFile string) {
	if logFile == "" {
		logFile = DefaultLogFile()
	}

	lumberjackLogger := &lumberjack.Logger{
		Filename:   logFile,
		MaxSize:    10,
		MaxBackups: 5,
		MaxAge:     28,
		Compress:   false,
	}

	encoderConfig := zapcore.EncoderConfig{
		TimeKey:          "time",
		LevelKey:         "level",
		NameKey:          "name",
		CallerKey:        "caller",
		FunctionKey:      "function",
		MessageKey:       "message",
		StacktraceKey:    zapcore.OmitKey,
		ConsoleSeparator: "|",
		LineEnding:       zapcore.DefaultLineEnding,
		EncodeLevel:      zapcore.CapitalLevelEncoder,
		EncodeTime: func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
			enc.AppendString(t.Format(time.RFC3339Nano))
		},
		EncodeName:     zapcore.FullNameEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	// 非 debug 模式下逐端口的日志太多，只输出 info 以上
	level := zapcore.InfoLevel
	if debug {
		encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoderConfig.ConsoleSeparator = " "
		level = zapcore.DebugLevel
	}
	encoder := zapcore.NewConsoleEncoder(encoderConfig)

	// 控制台输出走 stderr，stdout 留给扫描结果（表格 / JSON）
	syncer := zapcore.NewMultiWriteSyncer(zapcore.AddSync(lumberjackLogger), zapcore.AddSync(os.Stderr))
	core := zapcore.NewCore(encoder, syncer, level)

	l := zap.New(core, zap.AddCaller())

	logger = *l
	sugarLogger = *l.Sugar()
}

// Sync 刷新日志缓冲
func Sync() {
	_ = logger.Sync()
}
