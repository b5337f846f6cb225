package store

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"
)

// Export writes every stored record to w as JSON lines, oldest first.
func (s *SQLiteStore) Export(ctx context.Context, w io.Writer) (int, error) {
	recs, err := s.Since(ctx, time.Time{})
	if err != nil {
		return 0, err
	}

	enc := json.NewEncoder(w)
	for _, r := range recs {
		if err := enc.Encode(r); err != nil {
			return 0, fmt.Errorf("encode record %s: %w", r.ID, err)
		}
	}
	return len(recs), nil
}
