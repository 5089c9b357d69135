package core

import (
	"context"

	"github.com/JonMunkholm/bizcards/internal/store"
)

// maxUserAgent caps the stored User-Agent in runes.
const maxUserAgent = 256

// Origin identifies who submitted a contact list. Convert stores it with the
// recorded run.
type Origin struct {
	ClientIP  string
	UserAgent string
}

type originKey struct{}

// WithOrigin attaches o to ctx.
func WithOrigin(ctx context.Context, o Origin) context.Context {
	return context.WithValue(ctx, originKey{}, o)
}

// OriginFrom returns the Origin attached to ctx, or the zero Origin.
func OriginFrom(ctx context.Context) Origin {
	o, _ := ctx.Value(originKey{}).(Origin)
	return o
}

// stamp copies the origin onto run.
func (o Origin) stamp(run store.Run) store.Run {
	run.ClientIP = o.ClientIP
	run.UserAgent = o.UserAgent
	if r := []rune(run.UserAgent); len(r) > maxUserAgent {
		run.UserAgent = string(r[:maxUserAgent])
	}
	return run
}
