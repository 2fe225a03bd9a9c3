package logger

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Messages receives every encoded log entry, somebody has to drain it.
var Messages = make(chan []byte, 128)

const (
	ErrorLvl    = 0
	WarningLvl  = 1
	InfoLvl     = 2
	DebugLvl    = 3
	RegisterLvl = 4
)

var (
	Error    = zap.Int("level", ErrorLvl)
	Warning  = zap.Int("level", WarningLvl)
	Info     = zap.Int("level", InfoLvl)
	Debug    = zap.Int("level", DebugLvl)
	Register = zap.Int("level", RegisterLvl) // single register transfers
)

type chanWriter struct {
	sync.Mutex
}

func (w *chanWriter) Write(p []byte) (n int, err error) {
	w.Lock()
	var newSlice = make([]byte, len(p))
	copy(newSlice, p)
	Messages <- newSlice
	w.Unlock()
	return len(p), nil
}

func (w *chanWriter) Sync() error {
	return nil
}

// GetLogger returns a logger emitting JSON entries into Messages.
func GetLogger() *zap.Logger {
	cfg := zap.NewProductionEncoderConfig()
	cfg.SkipLineEnding = true
	cfg.EncodeTime = zapcore.EpochNanosTimeEncoder
	cfg.LevelKey = ""
	encoder := zapcore.NewJSONEncoder(cfg)

	return zap.New(
		zapcore.NewCore(encoder, zapcore.Lock(&chanWriter{}), zap.DebugLevel),
		zap.AddCaller(),
	)
}
