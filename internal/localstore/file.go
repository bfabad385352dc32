package localstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/morislaflame/clo-client/internal/domain"
)

const basketFileName = "local_basket.json"

// FileStore keeps the basket envelope as a JSON file in the data directory.
// Writes go through a temp file and rename, so a crash mid-write never
// leaves a half-written envelope behind.
type FileStore struct {
	path   string
	expiry time.Duration
	now    func() time.Time
}

func NewFileStore(dataDir string) *FileStore {
	return &FileStore{
		path:   filepath.Join(dataDir, basketFileName),
		expiry: DefaultExpiry,
		now:    time.Now,
	}
}

// WithExpiry overrides the default 30 day window.
func (s *FileStore) WithExpiry(d time.Duration) *FileStore {
	s.expiry = d
	return s
}

func (s *FileStore) Load(ctx context.Context) ([]domain.BasketLine, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read basket file: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		// Corrupt envelope reads as an empty basket, not an error.
		slog.Warn("discarding unreadable local basket", "path", s.path, "error", err)
		_ = s.Clear(ctx)
		return nil, nil
	}

	if env.expired(s.now(), s.expiry) {
		_ = s.Clear(ctx)
		return nil, nil
	}

	return env.Items, nil
}

func (s *FileStore) Save(_ context.Context, lines []domain.BasketLine) error {
	env := envelope{Items: lines, Timestamp: s.now().UnixMilli()}
	data, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal basket failed: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write basket file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace basket file: %w", err)
	}
	return nil
}

func (s *FileStore) Clear(context.Context) error {
	err := os.Remove(s.path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove basket file: %w", err)
	}
	return nil
}
