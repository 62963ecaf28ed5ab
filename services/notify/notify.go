package notify

import (
	"sync"

	"github.com/smartgrade/smartgrade/core"
)

// LogNotifier forwards notices to a logger; error notices are logged as warnings
// since the failure itself is logged by whoever produced it.
type LogNotifier struct {
	logger core.Logger
}

var _ core.Notifier = (*LogNotifier)(nil)

func NewLogNotifier(logger core.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Notify(level core.NoticeLevel, msg string) {
	switch level {
	case core.NoticeError, core.NoticeWarning:
		n.logger.Warn("notice: "+msg, map[string]interface{}{"level": level})
	default:
		n.logger.Info("notice: "+msg, map[string]interface{}{"level": level})
	}
}

// Recorder keeps notices in memory until drained.
type Recorder struct {
	mu      sync.Mutex
	notices []core.Notice
}

var _ core.Notifier = (*Recorder)(nil)

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Notify(level core.NoticeLevel, msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, core.Notice{Level: level, Message: msg})
}

// Notices returns a copy of the recorded notices.
func (r *Recorder) Notices() []core.Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]core.Notice(nil), r.notices...)
}

// Drain returns the recorded notices and forgets them.
func (r *Recorder) Drain() []core.Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	notices := r.notices
	r.notices = nil
	return notices
}

// Last returns the most recent notice.
func (r *Recorder) Last() (core.Notice, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.notices) == 0 {
		return core.Notice{}, false
	}
	return r.notices[len(r.notices)-1], true
}
