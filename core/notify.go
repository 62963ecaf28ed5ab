package core

// NoticeLevel mirrors the transient notifications shown to the user.
type NoticeLevel string

const (
	NoticeSuccess NoticeLevel = "success"
	NoticeError   NoticeLevel = "error"
	NoticeWarning NoticeLevel = "warning"
	NoticeInfo    NoticeLevel = "info"
)

type Notice struct {
	Level   NoticeLevel `json:"level"`
	Message string      `json:"message"`
}

// Notifier delivers user-facing notices. It is a side channel only:
// operations report their outcome through their returned errors.
type Notifier interface {
	Notify(level NoticeLevel, msg string)
}

type nopNotifier struct{}

func (nopNotifier) Notify(NoticeLevel, string) {}

// NopNotifier discards every notice.
var NopNotifier Notifier = nopNotifier{}
