package prefs

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"
)

// GetVideoPositions returns every stored resume position. Absent or
// unreadable data yields an empty list; nothing is seeded. Entries that fail
// VideoPosition.Validate are dropped and reported through Err, so the next
// save keeps the valid ones.
func (s *Store) GetVideoPositions(ctx context.Context) Result[[]VideoPosition] {
	r := readJSON(ctx, s, "GetVideoPositions", KeyVideoPositions, func() []VideoPosition { return []VideoPosition{} }, false, nil)
	if r.Value == nil {
		r.Value = []VideoPosition{}
	}

	kept := r.Value[:0]
	var bad []error
	for _, p := range r.Value {
		if err := p.Validate(); err != nil {
			bad = append(bad, err)
			continue
		}
		kept = append(kept, p)
	}
	if len(bad) > 0 {
		err := errors.Join(bad...)
		s.log.Warn("dropping invalid video positions", zap.Int("dropped", len(bad)), zap.Error(err))
		r.Value = kept
		r.Err = &StorageError{Op: "GetVideoPositions", Key: KeyVideoPositions, Kind: ErrRead, Err: err}
	}
	return r
}

// SaveVideoPosition upserts the position for videoName and stamps UpdatedAt.
func (s *Store) SaveVideoPosition(ctx context.Context, videoName string, positionSeconds float64) Outcome {
	if err := (VideoPosition{VideoName: videoName, PositionSeconds: positionSeconds}).Validate(); err != nil {
		s.log.Warn("rejecting video position", zap.Error(err))
		return Outcome{Key: KeyVideoPositions, Err: &StorageError{Op: "SaveVideoPosition", Key: KeyVideoPositions, Kind: ErrInvalid, Err: err}}
	}

	positions := s.GetVideoPositions(ctx).Value
	now := s.now().UTC().Truncate(time.Millisecond)

	found := false
	for i := range positions {
		if positions[i].VideoName == videoName {
			positions[i].PositionSeconds = positionSeconds
			positions[i].UpdatedAt = now
			found = true
			break
		}
	}
	if !found {
		positions = append(positions, VideoPosition{
			VideoName:       videoName,
			PositionSeconds: positionSeconds,
			UpdatedAt:       now,
		})
	}
	return s.writeJSON(ctx, "SaveVideoPosition", KeyVideoPositions, positions)
}

// GetVideoPosition returns the resume position for videoName, or 0.
func (s *Store) GetVideoPosition(ctx context.Context, videoName string) Result[float64] {
	r := s.GetVideoPositions(ctx)
	for _, p := range r.Value {
		if p.VideoName == videoName {
			return Result[float64]{Value: p.PositionSeconds, Source: SourceStored}
		}
	}
	return Result[float64]{Value: 0, Source: SourceDefault, Err: r.Err}
}

// GetCurrentVideoIndex returns the stored playlist index, 0 when absent,
// unparsable or negative.
func (s *Store) GetCurrentVideoIndex(ctx context.Context) Result[int] {
	raw, ok, err := s.readRaw(ctx, "GetCurrentVideoIndex", KeyCurrentVideoIndex)
	if err != nil {
		s.log.Warn("read failed, using default", zap.String("key", KeyCurrentVideoIndex), zap.Error(err))
		return Result[int]{Source: SourceDefault, Err: err}
	}
	if !ok {
		return Result[int]{Source: SourceDefault}
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		if err == nil {
			err = fmt.Errorf("negative index %d", n)
		}
		serr := &StorageError{Op: "GetCurrentVideoIndex", Key: KeyCurrentVideoIndex, Kind: ErrRead, Err: err}
		s.log.Warn("malformed payload, using default", zap.String("key", KeyCurrentVideoIndex), zap.Error(err))
		return Result[int]{Source: SourceDefault, Err: serr}
	}
	return Result[int]{Value: n, Source: SourceStored}
}

// SetCurrentVideoIndex stores the playlist index. Negative values are rejected.
func (s *Store) SetCurrentVideoIndex(ctx context.Context, index int) Outcome {
	if index < 0 {
		err := fmt.Errorf("negative index %d", index)
		s.log.Warn("rejecting video index", zap.Error(err))
		return Outcome{Key: KeyCurrentVideoIndex, Err: &StorageError{Op: "SetCurrentVideoIndex", Key: KeyCurrentVideoIndex, Kind: ErrInvalid, Err: err}}
	}
	return s.writeRaw(ctx, "SetCurrentVideoIndex", KeyCurrentVideoIndex, strconv.Itoa(index))
}
