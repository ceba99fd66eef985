// hab/pkg/logging/logging_test.go

package logging

import (
	"os"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestConfigureLogger(t *testing.T) {
	tests := []struct {
		name      string
		logLevel  string
		logOutput string
		wantErr   bool
		checkFunc func(t *testing.T)
	}{
		{
			name:      "Debug level to console",
			logLevel:  "debug",
			logOutput: "console",
			checkFunc: func(t *testing.T) {
				assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())
			},
		},
		{
			name:      "Info level to console",
			logLevel:  "info",
			logOutput: "console",
			checkFunc: func(t *testing.T) {
				assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
			},
		},
		{
			name:      "Warn level to file",
			logLevel:  "warn",
			logOutput: "file",
			checkFunc: func(t *testing.T) {
				assert.Equal(t, zerolog.WarnLevel, zerolog.GlobalLevel())
				_, err := os.Stat("hab.log")
				assert.NoError(t, err)
			},
		},
		{
			name:      "Invalid level",
			logLevel:  "loud",
			logOutput: "console",
			wantErr:   true,
		},
		{
			name:      "Invalid output",
			logLevel:  "info",
			logOutput: "syslog",
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ConfigureLogger(tt.logLevel, tt.logOutput)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			if tt.checkFunc != nil {
				tt.checkFunc(t)
			}
		})
	}

	os.Remove("hab.log")
}

func TestLoggerInitialized(t *testing.T) {
	assert.NotNil(t, Logger)
}
