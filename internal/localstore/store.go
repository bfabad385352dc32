package localstore

import (
	"context"
	"time"

	"github.com/morislaflame/clo-client/internal/domain"
)

// DefaultExpiry is how long a guest basket survives without being rewritten.
const DefaultExpiry = 30 * 24 * time.Hour

// Store persists a guest basket between sessions.
// Consumers define this interface, not the file/redis implementations.
//
// Load never fails on a missing, expired or corrupt envelope: all three
// resolve to an empty basket. Only I/O problems surface as errors.
type Store interface {
	Load(ctx context.Context) ([]domain.BasketLine, error)
	Save(ctx context.Context, lines []domain.BasketLine) error
	Clear(ctx context.Context) error
}

// envelope is the persisted form: the lines plus the write time used for
// expiry. Timestamp is epoch millis.
type envelope struct {
	Items     []domain.BasketLine `json:"items"`
	Timestamp int64               `json:"timestamp"`
}

func (e envelope) expired(now time.Time, window time.Duration) bool {
	age := now.UnixMilli() - e.Timestamp
	return age > window.Milliseconds()
}
