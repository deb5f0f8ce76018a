package requestid

import "context"

type contextKey string

const key contextKey = "request_id"

// Header is the HTTP header used to carry the request id in and out.
const Header = "X-Request-ID"

func With(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, key, id)
}

// From returns the request id stored in ctx, or "" when none was set.
func From(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(key).(string)
	return id
}
