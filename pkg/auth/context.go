package auth

import (
	"context"
	"errors"

	"github.com/ghuser/mrpcapacity/pkg/logger"
)

type contextKey string

const operatorIDKey contextKey = "operator_id"

// ErrOperatorNotFound is returned when the request carries no authenticated
// operator.
var ErrOperatorNotFound = errors.New("operator not found in context")

// OperatorIDFromCtx returns the planner or service account that issued the
// request.
func OperatorIDFromCtx(ctx context.Context) (string, error) {
	id, ok := ctx.Value(operatorIDKey).(string)
	if !ok || id == "" {
		return "", ErrOperatorNotFound
	}
	return id, nil
}

// OperatorIDOrEmpty is OperatorIDFromCtx for callers that treat the operator
// as optional, such as event audit fields.
func OperatorIDOrEmpty(ctx context.Context) string {
	id, _ := OperatorIDFromCtx(ctx)
	return id
}

// WithOperatorID attaches the authenticated operator to ctx. Log records
// written with the returned context carry operator_id.
func WithOperatorID(ctx context.Context, id string) context.Context {
	return context.WithValue(logger.ContextWith(ctx, "operator_id", id), operatorIDKey, id)
}
