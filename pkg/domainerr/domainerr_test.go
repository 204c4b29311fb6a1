package domainerr

import (
	"errors"
	"fmt"
	"testing"
)

var errWidgetMissing = New(KindNotFound, "widget not found")

func TestViolation_MatchesBothSentinels(t *testing.T) {
	err := Violation(errWidgetMissing, "widget %d does not exist", 7)

	if !errors.Is(err, errWidgetMissing) {
		t.Error("expected errors.Is to match the context sentinel")
	}
	if !errors.Is(err, ErrNotFound) {
		t.Error("expected errors.Is to match the kind sentinel")
	}
	if errors.Is(err, ErrConflict) {
		t.Error("did not expect a match on another kind")
	}
	if err.Error() != "widget 7 does not exist" {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestWrap_KeepsCause(t *testing.T) {
	cause := errors.New("name too long")
	err := Wrap(New(KindInvalidArgument, "invalid name"), cause)

	if !errors.Is(err, cause) {
		t.Error("expected errors.Is to match the cause")
	}
	if !errors.Is(err, ErrInvalidArgument) {
		t.Error("expected errors.Is to match the kind sentinel")
	}
	if err.Error() != "name too long" {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"direct", New(KindConflict, "dup"), KindConflict},
		{"wrapped", fmt.Errorf("create: %w", New(KindCapacityExceeded, "full")), KindCapacityExceeded},
		{"violation", Violation(errWidgetMissing, "x"), KindNotFound},
		{"plain error", errors.New("db down"), KindUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.want {
				t.Errorf("KindOf() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDetail(t *testing.T) {
	err := fmt.Errorf("create: %w", Violation(errWidgetMissing, "widget 1 does not exist"))
	if got := Detail(err); got != "widget 1 does not exist" {
		t.Errorf("Detail() = %q", got)
	}
	if got := Detail(errors.New("boom")); got != "boom" {
		t.Errorf("Detail() = %q", got)
	}
}

func TestKind_String(t *testing.T) {
	if KindAllocationFailed.String() != "allocation_failed" {
		t.Errorf("unexpected %q", KindAllocationFailed.String())
	}
	if Kind(99).String() != "unknown" {
		t.Errorf("unexpected %q", Kind(99).String())
	}
}
