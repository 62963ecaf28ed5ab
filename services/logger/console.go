package logsvc

import (
	"io/ioutil"
	"log"

	"github.com/smartgrade/smartgrade/core"
)

// ConsoleLogger only writes to a std logger. Debug messages are dropped unless debug is set.
type ConsoleLogger struct {
	std   *log.Logger
	debug bool
}

var _ core.Logger = (*ConsoleLogger)(nil)

func NewConsoleLogger(std *log.Logger, debug bool) *ConsoleLogger {
	return &ConsoleLogger{std: std, debug: debug}
}

// NewNopLogger discards everything.
func NewNopLogger() *ConsoleLogger {
	return NewConsoleLogger(log.New(ioutil.Discard, "", 0), false)
}

func printTo(std *log.Logger, level, msg string, args []interface{}) {
	std.Printf("[%s] %s", level, msg)
	for _, arg := range args {
		std.Printf("%+v\n", arg)
	}
}

func (l ConsoleLogger) Debug(msg string, args ...interface{}) {
	if l.debug {
		printTo(l.std, "DEBUG", msg, args)
	}
}

func (l ConsoleLogger) Info(msg string, args ...interface{}) {
	printTo(l.std, "INFO", msg, args)
}

func (l ConsoleLogger) Warn(msg string, args ...interface{}) {
	printTo(l.std, "WARN", msg, args)
}

func (l ConsoleLogger) Error(msg string, args ...interface{}) {
	printTo(l.std, "ERROR", msg, args)
}

func (l ConsoleLogger) Fatal(msg string, args ...interface{}) {
	printTo(l.std, "FATAL", msg, args)
	l.std.Fatal(msg)
}
