// Package prefs is the launcher's local preference store: typed, fail-soft
// accessors for the service catalog, admin settings, video resume positions,
// the current video index and the last-activity timestamp.
//
// Every operation is an independent request against the medium. Reads that
// fail fall back to documented defaults and writes that fail are logged and
// dropped; no operation returns an error. Mutations of a collection read the
// whole collection, change it in memory and write it back, so two concurrent
// mutations of the same key can lose one update.
package prefs

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"kiosk/internal/logging"
	"kiosk/internal/medium"

	"go.uber.org/zap"
)

var errNullPayload = errors.New("stored value is null")

// Store is the preference store handle. Construct one per process with
// NewStore and pass it to callers.
type Store struct {
	medium medium.Medium
	log    *zap.Logger
	now    func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for swallowed failures.
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// NewStore returns a store over m.
func NewStore(m medium.Medium, opts ...Option) *Store {
	s := &Store{
		medium: m,
		log:    logging.Get(logging.CategoryStore),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Close releases the underlying medium.
func (s *Store) Close() error {
	return s.medium.Close()
}

// readRaw fetches key. An empty stored string counts as absent.
func (s *Store) readRaw(ctx context.Context, op, key string) (string, bool, error) {
	v, ok, err := s.medium.Get(ctx, key)
	if err != nil {
		return "", false, &StorageError{Op: op, Key: key, Kind: ErrRead, Err: err}
	}
	if !ok || v == "" {
		return "", false, nil
	}
	return v, true, nil
}

func (s *Store) writeRaw(ctx context.Context, op, key, value string) Outcome {
	if err := s.medium.Set(ctx, key, value); err != nil {
		serr := &StorageError{Op: op, Key: key, Kind: ErrWrite, Err: err}
		s.log.Warn("write failed, dropping", zap.String("op", op), zap.String("key", key), zap.Error(err))
		return Outcome{Key: key, Err: serr}
	}
	return Outcome{Key: key}
}

func (s *Store) writeJSON(ctx context.Context, op, key string, v any) Outcome {
	data, err := json.Marshal(v)
	if err != nil {
		serr := &StorageError{Op: op, Key: key, Kind: ErrWrite, Err: err}
		s.log.Warn("encode failed, dropping", zap.String("op", op), zap.String("key", key), zap.Error(err))
		return Outcome{Key: key, Err: serr}
	}
	return s.writeRaw(ctx, op, key, string(data))
}

// readJSON decodes key into T. When the key is absent and seed is set, the
// fallback is persisted and returned; a failed seed write is logged and the
// fallback is still returned. A stored null, or a value check rejects, is a
// malformed payload.
func readJSON[T any](ctx context.Context, s *Store, op, key string, fallback func() T, seed bool, check func(T) error) Result[T] {
	raw, ok, err := s.readRaw(ctx, op, key)
	if err != nil {
		s.log.Warn("read failed, using default", zap.String("op", op), zap.String("key", key), zap.Error(err))
		return Result[T]{Value: fallback(), Source: SourceDefault, Err: err}
	}
	if !ok {
		v := fallback()
		if !seed {
			return Result[T]{Value: v, Source: SourceDefault}
		}
		s.log.Debug("seeding default", zap.String("key", key))
		s.writeJSON(ctx, op, key, v)
		return Result[T]{Value: fallback(), Source: SourceSeeded}
	}

	var v T
	err = errNullPayload
	if strings.TrimSpace(raw) != "null" {
		err = json.Unmarshal([]byte(raw), &v)
	}
	if err == nil && check != nil {
		err = check(v)
	}
	if err != nil {
		serr := &StorageError{Op: op, Key: key, Kind: ErrRead, Err: err}
		s.log.Warn("malformed payload, using default", zap.String("op", op), zap.String("key", key), zap.Error(err))
		return Result[T]{Value: fallback(), Source: SourceDefault, Err: serr}
	}
	return Result[T]{Value: v, Source: SourceStored}
}
