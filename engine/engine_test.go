package engine

import (
	"errors"
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestError(t *testing.T) {
	if ErrPropertyNotFound.Error() != "property not found" {
		t.Errorf("got %q", ErrPropertyNotFound.Error())
	}
	if Error(-99).Error() != "unknown error -99" {
		t.Errorf("got %q", Error(-99).Error())
	}
	if Status(0) != nil || Status(3) != nil {
		t.Error("non-negative status should be nil")
	}

	var e Error
	if !errors.As(Status(-12), &e) || e != ErrCommand {
		t.Errorf("Status(-12) = %v", e)
	}
}

func TestEventID(t *testing.T) {
	if EventPropertyChange.String() != "property-change" {
		t.Errorf("got %s", EventPropertyChange)
	}
	if EventID(99).String() != "event(99)" {
		t.Errorf("got %s", EventID(99))
	}

	id, ok := EventByName("file-loaded")
	if !ok || id != EventFileLoaded {
		t.Errorf("EventByName = %v, %v", id, ok)
	}
	if _, ok := EventByName("nope"); ok {
		t.Error("unknown name resolved")
	}

	if !EventFileLoaded.Lifecycle() || EventLogMessage.Lifecycle() || EventPropertyChange.Lifecycle() {
		t.Error("Lifecycle classification wrong")
	}
}

func TestLogLevel(t *testing.T) {
	tests := map[string]zapcore.Level{
		"fatal": zapcore.ErrorLevel,
		"error": zapcore.ErrorLevel,
		"warn":  zapcore.WarnLevel,
		"info":  zapcore.InfoLevel,
		"v":     zapcore.DebugLevel,
		"trace": zapcore.DebugLevel,
		"bogus": zapcore.DebugLevel,
	}
	for name, want := range tests {
		if got := LogLevel(name); got != want {
			t.Errorf("LogLevel(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestEndFileReason(t *testing.T) {
	if EndFileError.String() != "error" || EndFileReason(42).String() != "unknown" {
		t.Error("bad reason names")
	}
}
