package logger

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetLogger(t *testing.T) {
	log := GetLogger()
	log.Info("hello", Warning)

	var data []byte
	select {
	case data = <-Messages:
	case <-time.After(time.Second):
		t.Fatal("no message emitted")
	}

	var entry struct {
		Msg    string `json:"msg"`
		Level  int    `json:"level"`
		Caller string `json:"caller"`
		Ts     int64  `json:"ts"`
	}
	require.NoError(t, json.Unmarshal(data, &entry))
	assert.Equal(t, "hello", entry.Msg)
	assert.Equal(t, WarningLvl, entry.Level)
	assert.Contains(t, entry.Caller, "log_test.go")
	assert.NotZero(t, entry.Ts)
}
