package http

import (
	"context"
	"errors"
)

type contextKey string

const subjectContextKey contextKey = "subject"

var errNoSubject = errors.New("no subject on request context")

// WithSubject attaches the verified caller subject to the context.
func WithSubject(ctx context.Context, sub string) context.Context {
	return context.WithValue(ctx, subjectContextKey, sub)
}

// SubjectFromContext extracts the verified caller subject. It is only set
// after the auth middleware has run.
func SubjectFromContext(ctx context.Context) (string, error) {
	sub, ok := ctx.Value(subjectContextKey).(string)
	if !ok || sub == "" {
		return "", errNoSubject
	}
	return sub, nil
}
