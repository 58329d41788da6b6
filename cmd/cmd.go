package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v2"

	"port-scanner/config"
	"port-scanner/config/constant"
	"port-scanner/logging"
	"port-scanner/service"
)

var logger = logging.GetSugar()
var appConfig = config.GetAppConfig()

func RunApp() error {
	return NewApp().Run(os.Args)
}

// NewApp 构造命令行程序，不带子命令时执行扫描
func NewApp() *cli.App {
	globalFlags := []cli.Flag{
		&cli.BoolFlag{
			Name:        "debug",
			Usage:       "Debug mode",
			Value:       false,
			Destination: &appConfig.Debug,
		},

		&cli.StringFlag{
			Name:        "log",
			Usage:       "Log filename",
			Destination: &appConfig.LogFile,
			DefaultText: "<executable dir>/log.log",
		},

		&cli.UintFlag{
			Name:        "maxRange",
			Usage:       "Maximum number of ports in one scan",
			Value:       constant.DefaultMaxRangeSize,
			Destination: &appConfig.Limits.MaxRangeSize,
		},

		&cli.UintFlag{
			Name:        "maxConcurrency",
			Usage:       "Maximum concurrency accepted in one scan",
			Value:       constant.DefaultMaxConcurrency,
			Destination: &appConfig.Limits.MaxConcurrency,
		},
	}

	return &cli.App{
		Name:    "port-scanner",
		Usage:   "TCP port range scanner",
		Action:  ScanAction,
		Version: "0.1.0",
		Flags:   append(globalFlags, scanFlags(appConfig)...),
		Commands: []*cli.Command{
			{
				Name:  "scan",
				Usage: "Scan a port range on one host",
				// 子命令的默认值不能覆盖根命令上已经给出的参数
				Flags:  scanFlags(&config.AppConfig{}),
				Action: scanCommandAction,
			},
			{
				Name:  "serve",
				Usage: "Serve the scan API over HTTP",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:        "listen",
						Usage:       "HTTP listen address",
						Value:       constant.DefaultListen,
						Destination: &appConfig.Listen,
						Aliases:     []string{"l"},
					},
				},
				Action: ServeAction,
			},
		},
		Before: func(context *cli.Context) error {
			// 初始化日志系统
			logging.InitLogger(appConfig.Debug, appConfig.LogFile)
			return nil
		},
		After: func(context *cli.Context) error {
			logging.Sync()
			return nil
		},
	}
}

// scanFlags 根命令和 scan 子命令各自需要一份，cfg 为参数写入的位置
func scanFlags(cfg *config.AppConfig) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "host",
			Usage:       "Target hostname or IP",
			Value:       constant.DefaultHost,
			Destination: &cfg.Host,
			Aliases:     []string{"t"},
		},

		&cli.UintFlag{
			Name:        "start",
			Usage:       "First port of the range",
			Value:       1,
			Destination: &cfg.StartPort,
			Aliases:     []string{"s"},
		},

		&cli.UintFlag{
			Name:        "end",
			Usage:       "Last port of the range",
			Value:       1000,
			Destination: &cfg.EndPort,
			Aliases:     []string{"e"},
		},

		&cli.UintFlag{
			Name:        "timeout",
			Usage:       "Per-port connect timeout in milliseconds",
			Value:       constant.DefaultTimeout,
			Destination: &cfg.Timeout,
			Aliases:     []string{"w"},
		},

		&cli.UintFlag{
			Name:        "concurrency",
			Usage:       "Ports probed concurrently in each batch",
			Value:       constant.DefaultConcurrency,
			Destination: &cfg.Concurrency,
			Aliases:     []string{"c"},
		},

		&cli.BoolFlag{
			Name:        "json",
			Usage:       "Output in JSON format",
			Destination: &cfg.JSON,
		},

		&cli.BoolFlag{
			Name:        "csv",
			Usage:       "Export results to CSV",
			Destination: &cfg.CSV,
		},

		&cli.StringFlag{
			Name:        "output",
			Usage:       "CSV output filename, implies --csv",
			Aliases:     []string{"o"},
			Destination: &cfg.OutputFile,
			DefaultText: "./port-scan-<host>-<timestamp>.csv",
		},
	}
}

// scanCommandAction 只把 scan 子命令上显式给出的参数写回 appConfig，再执行扫描
func scanCommandAction(c *cli.Context) error {
	if c.IsSet("host") {
		appConfig.Host = c.String("host")
	}
	if c.IsSet("start") {
		appConfig.StartPort = c.Uint("start")
	}
	if c.IsSet("end") {
		appConfig.EndPort = c.Uint("end")
	}
	if c.IsSet("timeout") {
		appConfig.Timeout = c.Uint("timeout")
	}
	if c.IsSet("concurrency") {
		appConfig.Concurrency = c.Uint("concurrency")
	}
	if c.IsSet("json") {
		appConfig.JSON = c.Bool("json")
	}
	if c.IsSet("csv") {
		appConfig.CSV = c.Bool("csv")
	}
	if c.IsSet("output") {
		appConfig.OutputFile = c.String("output")
	}
	return ScanAction(c)
}

// ScanAction 扫描一个端口范围并输出结果
func ScanAction(c *cli.Context) error {
	logger.Debugf("appConfig: %+v", appConfig)

	req := service.ScanRequest{
		Host:        appConfig.Host,
		StartPort:   appConfig.StartPort,
		EndPort:     appConfig.EndPort,
		Timeout:     appConfig.Timeout,
		Concurrency: appConfig.Concurrency,
	}
	req.ApplyDefaults()
	if err := req.Validate(appConfig.Limits); err != nil {
		logger.Error(err)
		return fmt.Errorf("invalid scan request: %w", err)
	}

	// 输出文件名为空时按目标生成
	if appConfig.OutputFile == "" && appConfig.CSV {
		appConfig.OutputFile = service.DefaultOutputFile(req.Host, time.Now().UnixMilli())
	}

	scanner := service.NewBatchScanner(service.NewProber())

	// 只有在终端下输出表格时才显示进度条
	var bar *progressbar.ProgressBar
	if !appConfig.JSON && isatty.IsTerminal(os.Stdout.Fd()) {
		bar = newProgressBar(int(req.EndPort - req.StartPort + 1))
		scanner.OnBatch(func(done, total int) {
			_ = bar.Set(done)
		})
	}

	outcome, err := scanner.Scan(req)
	if bar != nil {
		_ = bar.Clear()
	}
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	if appConfig.OutputFile != "" {
		if err := service.NewSaver(appConfig.OutputFile).Save(outcome); err != nil {
			return fmt.Errorf("export csv: %w", err)
		}
		logger.Infof("Write result to file: %s", appConfig.OutputFile)
	}

	if appConfig.JSON {
		return printJSON(os.Stdout, outcome)
	}
	return printTable(os.Stdout, outcome)
}

// ServeAction 启动 HTTP 服务，收到 SIGINT / SIGTERM 后退出
func ServeAction(c *cli.Context) error {
	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	scanner := service.NewBatchScanner(service.NewProber())
	server := service.NewServer(appConfig.Listen, scanner, appConfig.Limits)
	return server.Run(ctx)
}
