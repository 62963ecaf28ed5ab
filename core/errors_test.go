package core

import (
	"testing"

	"github.com/pkg/errors"
)

func TestNewFieldError(t *testing.T) {
	errShort := errors.New("too short")
	err := errors.Wrap(NewFieldError("text", errShort), "grading")

	if !errors.Is(err, errShort) {
		t.Errorf("errors.Is(%v, %v) = false", err, errShort)
	}
	vErr, ok := errors.Cause(err).(*ValidationError)
	if !ok {
		t.Fatalf("Cause() = %T; want *ValidationError", errors.Cause(err))
	}
	if len(vErr.Fields) != 1 || vErr.Fields[0] != (FieldError{Field: "text", Error: "too short"}) {
		t.Errorf("Fields = %+v", vErr.Fields)
	}
	if vErr.Error() != "too short" {
		t.Errorf("Error() = %q", vErr.Error())
	}
}

func TestIsShutdown(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "plain", err: errors.New("boom"), want: false},
		{name: "shutdown", err: NewShutdownError("boom"), want: true},
		{name: "wrapped", err: errors.Wrap(ErrStoreClosed, "clearing stored session"), want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsShutdown(tt.err); got != tt.want {
				t.Errorf("IsShutdown(%v) = %v; want %v", tt.err, got, tt.want)
			}
		})
	}
}
