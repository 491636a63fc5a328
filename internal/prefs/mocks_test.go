package prefs

import (
	"context"
	"errors"
	"sync"

	"kiosk/internal/medium"
)

var (
	errUnreachable = errors.New("medium unreachable")
	// errPassThrough tells MockMedium to forward the call to the wrapped memory.
	errPassThrough = errors.New("pass through")
)

// MockMedium wraps an in-memory medium. GetFunc and SetFunc intercept calls;
// returning errPassThrough forwards the call unchanged.
type MockMedium struct {
	*medium.Memory

	GetFunc func(ctx context.Context, key string) (string, bool, error)
	SetFunc func(ctx context.Context, key, value string) error

	mu   sync.Mutex
	sets map[string]int
}

func newMockMedium() *MockMedium {
	return &MockMedium{Memory: medium.NewMemory(), sets: make(map[string]int)}
}

func (m *MockMedium) Get(ctx context.Context, key string) (string, bool, error) {
	if m.GetFunc != nil {
		v, ok, err := m.GetFunc(ctx, key)
		if !errors.Is(err, errPassThrough) {
			return v, ok, err
		}
	}
	return m.Memory.Get(ctx, key)
}

func (m *MockMedium) Set(ctx context.Context, key, value string) error {
	m.mu.Lock()
	m.sets[key]++
	m.mu.Unlock()
	if m.SetFunc != nil {
		if err := m.SetFunc(ctx, key, value); !errors.Is(err, errPassThrough) {
			return err
		}
	}
	return m.Memory.Set(ctx, key, value)
}

// SetCount reports how many writes reached key, including failed ones.
func (m *MockMedium) SetCount(key string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sets[key]
}

// raw reads key straight from the wrapped memory medium.
func (m *MockMedium) raw(key string) (string, bool) {
	v, ok, _ := m.Memory.Get(context.Background(), key)
	return v, ok
}

// put writes key straight into the wrapped memory medium.
func (m *MockMedium) put(key, value string) {
	_ = m.Memory.Set(context.Background(), key, value)
}

// failReads makes every Get of the listed keys (all keys when empty) fail.
func failReads(keys ...string) func(context.Context, string) (string, bool, error) {
	return func(_ context.Context, key string) (string, bool, error) {
		if len(keys) == 0 || contains(keys, key) {
			return "", false, errUnreachable
		}
		return "", false, errPassThrough
	}
}

// failWrites makes every Set of the listed keys (all keys when empty) fail.
func failWrites(keys ...string) func(context.Context, string, string) error {
	return func(_ context.Context, key, _ string) error {
		if len(keys) == 0 || contains(keys, key) {
			return errUnreachable
		}
		return errPassThrough
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
