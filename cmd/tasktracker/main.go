package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/mauzec/tasktracker/internal/cli"
	"github.com/mauzec/tasktracker/internal/config"
	"github.com/mauzec/tasktracker/internal/core"
	"github.com/mauzec/tasktracker/internal/service"
	"github.com/mauzec/tasktracker/internal/storage"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	configAppName = "tasktracker"
	configExt     = "env"
	configDir     = "config"
)

var version = "dev"

func newLogger(cfg *config.AppConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(level)
	zcfg.EncoderConfig.TimeKey = "ts"
	zcfg.EncoderConfig.MessageKey = "msg"
	zcfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	// stdout belongs to the cli
	zcfg.OutputPaths = []string{"stderr"}
	zcfg.ErrorOutputPaths = []string{"stderr"}
	if cfg.LogFile != "" {
		zcfg.OutputPaths = append(zcfg.OutputPaths, cfg.LogFile)
		zcfg.ErrorOutputPaths = append(zcfg.ErrorOutputPaths, cfg.LogFile)
	}
	return zcfg.Build()
}

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := readConfig()
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "cant read config: %v\n", err)
		return 1
	}

	zapLogger, err := newLogger(cfg)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "cant init logger: %v\n", err)
		return 1
	}
	defer func() {
		_ = zapLogger.Sync()
	}()
	logger := zapLogger.Named("tasktracker")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	store, err := setupStore(ctx, cfg, logger.Named("store"))
	if err != nil {
		logger.Error("cant open task store", zap.Error(err), zap.String("storage_mode", cfg.StorageMode))
		return 1
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("cant close store", zap.Error(err))
		}
	}()

	svc, err := service.NewTaskService(store, logger.Named("service"))
	if err != nil {
		logger.Error("cant create task service", zap.Error(err))
		return 1
	}

	err = cli.Execute(ctx, cli.Options{
		Service:      svc,
		Logger:       logger.Named("cli"),
		OutputFormat: cfg.OutputFormat,
		Version:      version,
	})
	if err == nil {
		return 0
	}
	if appErr, ok := core.AsAppError(err); ok {
		prefix := "Error:"
		if appErr.Code == core.ErrorCodeStorage {
			prefix = "Warning:"
		}
		_, _ = fmt.Fprintln(os.Stderr, prefix, appErr.PublicMessage())
		if appErr.Code == core.ErrorCodeInternal {
			logger.Error("command failed", zap.String("op", appErr.Operation), zap.Error(err))
		}
		return appErr.ExitCode()
	}
	_, _ = fmt.Fprintln(os.Stderr, "Error:", err)
	return 1
}

func readConfig() (*config.AppConfig, error) {
	return config.LoadAppConfig(configAppName, configExt, configDir)
}

func setupStore(ctx context.Context, cfg *config.AppConfig, logger *zap.Logger) (storage.TaskStore, error) {
	switch strings.ToLower(cfg.StorageMode) {
	case config.StorageModeFile:
		return storage.NewFileTaskStore(ctx, cfg.DataFile, logger)
	case config.StorageModeBolt:
		return storage.NewBoltTaskStore(cfg.BoltPath, cfg.BoltOpenTimeout, logger)
	case config.StorageModeSQLite:
		return storage.NewSQLiteTaskStore(ctx, cfg.SQLitePath, logger)
	default:
		return nil, errors.New("unknown storage mode")
	}
}
