package logging

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLogFilePath(t *testing.T) {
	sessionStart := time.Date(2026, 8, 30, 14, 5, 9, 0, time.UTC)

	tests := []struct {
		name    string
		logsDir string
		appName string
		want    string
	}{
		{
			name:    "basic path",
			logsDir: "replaylogs",
			appName: "mrdarcy",
			want:    filepath.Join("replaylogs", "mrdarcy.20260830_140509.log"),
		},
		{
			name:    "relative path with dot",
			logsDir: "./replaylogs",
			appName: "mrdarcy",
			want:    filepath.Join(".", "replaylogs", "mrdarcy.20260830_140509.log"),
		},
		{
			name:    "absolute path",
			logsDir: filepath.Join("/var", "log", "mrdarcy"),
			appName: "mrdarcy",
			want:    filepath.Join("/var", "log", "mrdarcy", "mrdarcy.20260830_140509.log"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LogFilePath(tt.logsDir, tt.appName, sessionStart)
			assert.Equal(t, tt.want, got)
		})
	}
}
