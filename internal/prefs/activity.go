package prefs

import (
	"context"
	"strconv"

	"go.uber.org/zap"
)

// UpdateLastActivity records the current time in epoch milliseconds.
func (s *Store) UpdateLastActivity(ctx context.Context) Outcome {
	return s.writeRaw(ctx, "UpdateLastActivity", KeyLastActivity, strconv.FormatInt(s.now().UnixMilli(), 10))
}

// GetLastActivity returns the last recorded activity in epoch milliseconds.
// With nothing stored, or on any failure, it returns the current time so a
// fresh or corrupt store never looks idle.
func (s *Store) GetLastActivity(ctx context.Context) Result[int64] {
	raw, ok, err := s.readRaw(ctx, "GetLastActivity", KeyLastActivity)
	if err != nil {
		s.log.Warn("read failed, using now", zap.String("key", KeyLastActivity), zap.Error(err))
		return Result[int64]{Value: s.now().UnixMilli(), Source: SourceDefault, Err: err}
	}
	if !ok {
		return Result[int64]{Value: s.now().UnixMilli(), Source: SourceDefault}
	}
	ms, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		serr := &StorageError{Op: "GetLastActivity", Key: KeyLastActivity, Kind: ErrRead, Err: err}
		s.log.Warn("malformed payload, using now", zap.String("key", KeyLastActivity), zap.Error(err))
		return Result[int64]{Value: s.now().UnixMilli(), Source: SourceDefault, Err: serr}
	}
	return Result[int64]{Value: ms, Source: SourceStored}
}
