package ports

import (
	"context"
	"time"
)

// ReportCache stores rendered report payloads for a short period so repeated
// dashboard requests do not rescan the collection. A cache miss is a nil
// payload with a nil error; cache failures are never fatal to the request.
type ReportCache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, payload []byte, ttl time.Duration) error
}
