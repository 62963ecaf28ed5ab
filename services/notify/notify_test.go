package notify

import (
	"bytes"
	"log"
	"strings"
	"testing"

	"github.com/smartgrade/smartgrade/core"
	logsvc "github.com/smartgrade/smartgrade/services/logger"
)

func TestRecorder(t *testing.T) {
	r := NewRecorder()
	if _, ok := r.Last(); ok {
		t.Fatal("Last() ok = true on empty recorder")
	}

	r.Notify(core.NoticeSuccess, "Registration successful!")
	r.Notify(core.NoticeInfo, "Logged out successfully")

	last, ok := r.Last()
	if !ok || last.Message != "Logged out successfully" || last.Level != core.NoticeInfo {
		t.Errorf("Last() = %+v, %v", last, ok)
	}
	if got := r.Drain(); len(got) != 2 {
		t.Errorf("len(Drain()) = %d; want 2", len(got))
	}
	if got := r.Notices(); len(got) != 0 {
		t.Errorf("len(Notices()) after Drain = %d; want 0", len(got))
	}
}

func TestLogNotifier(t *testing.T) {
	var buf bytes.Buffer
	n := NewLogNotifier(logsvc.NewConsoleLogger(log.New(&buf, "", 0), false))

	n.Notify(core.NoticeError, "Invalid credentials")
	if out := buf.String(); !strings.Contains(out, "[WARN] notice: Invalid credentials") {
		t.Errorf("output = %q", out)
	}
}
