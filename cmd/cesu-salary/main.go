package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/username/cesu-salary/internal/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	configPath string
	logLevel   string
	logger     *zap.Logger = zap.NewNop()
	out        io.Writer   = os.Stdout
)

func main() {
	calc := &calculateOptions{}

	rootCmd := &cobra.Command{
		Use:   "cesu-salary",
		Short: "CESU monthly salary calculator",
		Long: "Compute the monthly salary of a home employee paid through the CESU scheme: " +
			"worked days, Sunday and public holiday bonuses, Thursday extra hours, " +
			"the 10% paid leave bonus and the transport allowance.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Config errors are reported by the command itself
			level := logLevel
			logFile := ""
			if cfg, err := config.Load(configPath); err == nil {
				logFile = cfg.Log.File
				if level == "" {
					level = cfg.Log.Level
				}
			}

			if logFile != "" {
				l, err := initFileLogger(logFile, level)
				if err == nil {
					logger = l
					return
				}
			}
			logger = initLogger(level)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCalculate(cmd, calc)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file path (default: ./cesu.yaml if present)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
	bindCalculateFlags(rootCmd, calc)

	rootCmd.AddCommand(calculateCmd())
	rootCmd.AddCommand(holidaysCmd())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	_ = logger.Sync()

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printf(format string, a ...interface{}) {
	fmt.Fprintf(out, format, a...)
}

func parseLevel(level string) zapcore.Level {
	var zapLevel zapcore.Level
	if err := zapLevel.UnmarshalText([]byte(level)); err != nil {
		return zapcore.InfoLevel
	}
	return zapLevel
}

// initLogger builds the console logger. It writes to stderr so stdout only carries the report.
func initLogger(level string) *zap.Logger {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.Level = zap.NewAtomicLevelAt(parseLevel(level))
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}

	l, err := cfg.Build()
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	return l
}

func initFileLogger(logFile string, level string) (*zap.Logger, error) {
	logWriter := &lumberjack.Logger{
		Filename:   logFile,
		MaxSize:    10, // MB
		MaxBackups: 3,
		MaxAge:     28, // days
		Compress:   true,
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.AddSync(logWriter),
		parseLevel(level),
	)

	return zap.New(core), nil
}
