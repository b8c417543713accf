package repository

import (
	"context"
	"time"
)

// ReplyCache stores generated chat replies so repeated freeform questions
// do not hit the language model twice. Implementations must be safe for
// concurrent use.
type ReplyCache interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}
