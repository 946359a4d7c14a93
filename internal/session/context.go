package session

import "context"

type contextKey string

const sessionKey contextKey = "session"

// Session carries the caller's credential token through a request.
// It is set once by the middleware and read by the backend client when
// attaching the bearer header. There is no package-level session state.
type Session struct {
	Token   string
	Profile *Profile
}

// WithSession returns a context carrying the given session.
func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionKey, s)
}

// FromContext retrieves the session from the context, if any.
func FromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(sessionKey).(*Session)
	return s, ok && s != nil
}

// Token returns the credential token from the context, or "" when the
// request is unauthenticated.
func Token(ctx context.Context) string {
	if s, ok := FromContext(ctx); ok {
		return s.Token
	}
	return ""
}
