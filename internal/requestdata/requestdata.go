package requestdata

import "context"

type contextKey struct{}

// RequestData carries the authenticated caller through the request context.
type RequestData struct {
	UserID uint
	Email  string
	Role   string
}

func WithRequestData(ctx context.Context, rd *RequestData) context.Context {
	return context.WithValue(ctx, contextKey{}, rd)
}

func GetRequestData(ctx context.Context) *RequestData {
	rd, ok := ctx.Value(contextKey{}).(*RequestData)
	if !ok {
		return nil
	}
	return rd
}
