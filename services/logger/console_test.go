package logsvc

import (
	"bytes"
	"errors"
	"log"
	"strings"
	"testing"
)

func TestConsoleLogger(t *testing.T) {
	tests := []struct {
		name    string
		debug   bool
		log     func(l *ConsoleLogger)
		want    []string
		notWant string
	}{
		{
			name: "info",
			log:  func(l *ConsoleLogger) { l.Info("server started") },
			want: []string{"[INFO] server started"},
		},
		{
			name: "error with args",
			log:  func(l *ConsoleLogger) { l.Error("persisting session", errors.New("disk full")) },
			want: []string{"[ERROR] persisting session", "disk full"},
		},
		{
			name:    "debug dropped",
			log:     func(l *ConsoleLogger) { l.Debug("noise") },
			notWant: "noise",
		},
		{
			name:  "debug kept",
			debug: true,
			log:   func(l *ConsoleLogger) { l.Debug("noise") },
			want:  []string{"[DEBUG] noise"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.log(NewConsoleLogger(log.New(&buf, "", 0), tt.debug))

			out := buf.String()
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("output = %q; want it to contain %q", out, w)
				}
			}
			if tt.notWant != "" && strings.Contains(out, tt.notWant) {
				t.Errorf("output = %q; want it not to contain %q", out, tt.notWant)
			}
		})
	}
}
