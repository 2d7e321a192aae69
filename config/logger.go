package config

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// NewLogger builds a console logger for development and JSON for production.
// When LOG_FILE is set a rotating JSON file sink is teed alongside stdout.
func NewLogger(cfg *Config) *zap.Logger {
	var zapConfig zap.Config
	if cfg.IsProduction() {
		zapConfig = zap.NewProductionConfig()
		zapConfig.EncoderConfig.TimeKey = "timestamp"
		zapConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	} else {
		zapConfig = zap.NewDevelopmentConfig()
		zapConfig.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	zapConfig.OutputPaths = []string{"stdout"}

	if cfg.LogFile == "" {
		log, err := zapConfig.Build()
		if err != nil {
			panic("failed to create logger: " + err.Error())
		}
		return log
	}

	rotating := &lumberjack.Logger{
		Filename:   cfg.LogFile,
		MaxSize:    64,
		MaxBackups: 7,
		MaxAge:     7,
	}
	consoleEncoder := zapcore.NewConsoleEncoder(zapConfig.EncoderConfig)
	if cfg.IsProduction() {
		consoleEncoder = zapcore.NewJSONEncoder(zapConfig.EncoderConfig)
	}
	core := zapcore.NewTee(
		zapcore.NewCore(zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()), zapcore.AddSync(rotating), zapConfig.Level),
		zapcore.NewCore(consoleEncoder, zapcore.AddSync(os.Stdout), zapConfig.Level),
	)
	return zap.New(core, zap.AddCaller())
}
