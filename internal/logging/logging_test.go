package logging

import (
	"testing"

	"go.uber.org/zap"
)

func TestNew(t *testing.T) {
	tests := []struct {
		env       string
		debug     bool
		wantDebug bool
	}{
		{"development", false, true},
		{"production", false, false},
		{"production", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			logger, err := New(tt.env, tt.debug)
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			if got := logger.Core().Enabled(zap.DebugLevel); got != tt.wantDebug {
				t.Errorf("debug enabled = %v, want %v", got, tt.wantDebug)
			}
		})
	}
}
