package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"vindecoder/pkg/log"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func Test_initLogger(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "vindecoder.log")
	tests := []struct {
		name        string
		noTUI       bool
		logFile     string
		wantEnabled bool
	}{
		{"Test TUI without log file stays silent", false, "", false},
		{"Test TUI with log file", false, logFile, true},
		{"Test headless logs to stderr", true, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			viper.Set("no-tui", tt.noTUI)
			viper.Set("log-file", tt.logFile)
			t.Cleanup(func() {
				viper.Set("no-tui", false)
				viper.Set("log-file", "")
				log.Disable()
			})

			initLogger()
			assert.Equal(t, tt.wantEnabled, log.L().Core().Enabled(zapcore.InfoLevel))
		})
	}
}

func Test_initLoggerWritesFile(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "vindecoder.log")
	viper.Set("log-file", logFile)
	t.Cleanup(func() {
		viper.Set("log-file", "")
		log.Disable()
	})

	initLogger()
	log.Info("decoded VIN")
	log.Sync()

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "decoded VIN")
}
