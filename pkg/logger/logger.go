package logger

import (
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/labstack/echo"
	"github.com/sirupsen/logrus"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	appLogger     *logrus.Logger
	appLoggerOnce sync.Once
)

// LogConfig holds file logger settings
type LogConfig struct {
	BaseDir    string
	MaxSize    int
	MaxBackups int
	MaxAge     int
	Compress   bool
	Level      string
	Format     string
}

// DefaultLogConfig returns the production defaults
func DefaultLogConfig() LogConfig {
	return LogConfig{
		BaseDir:    "./logs",
		MaxSize:    100,
		MaxBackups: 30,
		MaxAge:     90,
		Compress:   true,
		Level:      "info",
		Format:     "json",
	}
}

// GetLogger returns a singleton logrus.Logger writing to a rotated file and
// stdout
func GetLogger() *logrus.Logger {
	appLoggerOnce.Do(func() {
		config := DefaultLogConfig()

		if format := os.Getenv("LOG_FORMAT"); format != "" {
			config.Format = format
		}
		if level := os.Getenv("LOG_LEVEL"); level != "" {
			config.Level = level
		}
		if dir := os.Getenv("LOG_DIR"); dir != "" {
			config.BaseDir = dir
		}

		appLogger = initLoggerWithConfig(config)
	})
	return appLogger
}

func initLoggerWithConfig(config LogConfig) *logrus.Logger {
	logger := logrus.New()

	level, err := logrus.ParseLevel(config.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	switch config.Format {
	case "text":
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
		})
	default:
		logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
		})
	}

	if config.BaseDir != "" {
		if err := os.MkdirAll(config.BaseDir, 0755); err != nil {
			logger.WithError(err).Error("Failed to create log directory")
			logger.SetOutput(os.Stdout)
			return logger
		}
		lumber := &lumberjack.Logger{
			Filename:   filepath.Join(config.BaseDir, "bridge.log"),
			MaxSize:    config.MaxSize,
			MaxBackups: config.MaxBackups,
			MaxAge:     config.MaxAge,
			Compress:   config.Compress,
		}
		logger.SetOutput(io.MultiWriter(lumber, os.Stdout))
	} else {
		logger.SetOutput(os.Stdout)
	}

	return logger
}

// NewZap builds the structured logger handed to the services.
func NewZap(env string) *zap.Logger {
	var config zap.Config
	if env == "production" {
		config = zap.NewProductionConfig()
		config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	} else {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	log, err := config.Build()
	if err != nil {
		panic(err)
	}
	return log
}

// LoggingMiddleware logs every request on the status server
func LoggingMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		req := c.Request()
		log := GetLogger()

		err := next(c)
		duration := time.Since(start)

		logFields := logrus.Fields{
			"method":      req.Method,
			"path":        req.URL.Path,
			"status":      c.Response().Status,
			"duration_ms": duration.Milliseconds(),
		}

		switch {
		case c.Response().Status >= 500:
			log.WithFields(logFields).Error("Request completed")
		case c.Response().Status >= 400:
			log.WithFields(logFields).Warn("Request completed")
		default:
			log.WithFields(logFields).Info("Request completed")
		}

		return err
	}
}
