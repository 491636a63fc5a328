package prefs

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// GetServices returns the service catalog, seeding the four defaults when
// the key is absent. A failed read returns the defaults without persisting.
func (s *Store) GetServices(ctx context.Context) Result[[]ServiceDescriptor] {
	r := readJSON(ctx, s, "GetServices", KeyServices, DefaultServices, true, nil)
	if r.Value == nil {
		r.Value = []ServiceDescriptor{}
	}
	return r
}

// SaveServices replaces the whole catalog. Lists with duplicate or empty IDs
// are rejected without touching the medium.
func (s *Store) SaveServices(ctx context.Context, list []ServiceDescriptor) Outcome {
	if err := checkUniqueIDs(list); err != nil {
		s.log.Warn("rejecting service list", zap.Error(err))
		return Outcome{Key: KeyServices, Err: &StorageError{Op: "SaveServices", Key: KeyServices, Kind: ErrInvalid, Err: err}}
	}
	if list == nil {
		list = []ServiceDescriptor{}
	}
	return s.writeJSON(ctx, "SaveServices", KeyServices, list)
}

// AddService appends d to the catalog. An ID already in the catalog is
// rejected so IDs stay unique.
func (s *Store) AddService(ctx context.Context, d ServiceDescriptor) Outcome {
	list := s.GetServices(ctx).Value
	if indexOfService(list, d.ID) >= 0 {
		err := fmt.Errorf("service id %q already exists", d.ID)
		s.log.Warn("rejecting service", zap.Error(err))
		return Outcome{Key: KeyServices, Err: &StorageError{Op: "AddService", Key: KeyServices, Kind: ErrInvalid, Err: err}}
	}
	list = append(list, d)
	return s.SaveServices(ctx, list)
}

// UpdateService replaces the entry whose ID matches d.ID in place. With no
// match the list is written back unchanged.
//
// A stored catalog that already repeats an ID (older launchers never checked)
// makes AddService and UpdateService fail with ErrInvalid. RemoveService on
// the repeated ID drops every copy and clears the condition; SaveServices
// with a clean list does too.
func (s *Store) UpdateService(ctx context.Context, d ServiceDescriptor) Outcome {
	list := s.GetServices(ctx).Value
	if i := indexOfService(list, d.ID); i >= 0 {
		list[i] = d
	} else {
		s.log.Debug("update for unknown service id", zap.String("id", d.ID))
	}
	return s.SaveServices(ctx, list)
}

// RemoveService drops every entry with the given ID and persists the rest.
func (s *Store) RemoveService(ctx context.Context, id string) Outcome {
	list := s.GetServices(ctx).Value
	kept := make([]ServiceDescriptor, 0, len(list))
	for _, d := range list {
		if d.ID != id {
			kept = append(kept, d)
		}
	}
	return s.SaveServices(ctx, kept)
}

func indexOfService(list []ServiceDescriptor, id string) int {
	for i, d := range list {
		if d.ID == id {
			return i
		}
	}
	return -1
}

func checkUniqueIDs(list []ServiceDescriptor) error {
	seen := make(map[string]struct{}, len(list))
	for _, d := range list {
		if d.ID == "" {
			return fmt.Errorf("service %q has an empty id", d.Name)
		}
		if _, dup := seen[d.ID]; dup {
			return fmt.Errorf("duplicate service id %q", d.ID)
		}
		seen[d.ID] = struct{}{}
	}
	return nil
}
