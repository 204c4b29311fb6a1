package auth

import (
	"context"
	"errors"
	"testing"
)

func TestWithOperatorID_OperatorIDFromCtx(t *testing.T) {
	ctx := WithOperatorID(context.Background(), "planner-1")

	got, err := OperatorIDFromCtx(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "planner-1" {
		t.Fatalf("expected planner-1, got %q", got)
	}
	if OperatorIDOrEmpty(ctx) != "planner-1" {
		t.Fatal("OperatorIDOrEmpty disagrees with OperatorIDFromCtx")
	}
}

func TestOperatorIDFromCtx_Missing(t *testing.T) {
	_, err := OperatorIDFromCtx(context.Background())
	if !errors.Is(err, ErrOperatorNotFound) {
		t.Fatalf("expected ErrOperatorNotFound, got %v", err)
	}
	if OperatorIDOrEmpty(context.Background()) != "" {
		t.Fatal("expected empty operator")
	}
}

func TestOperatorIDFromCtx_EmptyString(t *testing.T) {
	_, err := OperatorIDFromCtx(WithOperatorID(context.Background(), ""))
	if !errors.Is(err, ErrOperatorNotFound) {
		t.Fatalf("expected ErrOperatorNotFound, got %v", err)
	}
}
