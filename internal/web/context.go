package web

import (
	"context"
	"net/http"

	"github.com/JonMunkholm/bizcards/internal/core"
)

// WithRequestMetadata attaches the request origin to ctx so recorded runs
// show where an upload came from. RemoteAddr is already resolved by
// TrustedRealIP.
func WithRequestMetadata(ctx context.Context, r *http.Request) context.Context {
	return core.WithOrigin(ctx, core.Origin{
		ClientIP:  clientIP(r),
		UserAgent: r.UserAgent(),
	})
}
