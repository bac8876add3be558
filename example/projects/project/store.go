// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package project

import (
	"context"
	"sync"
	"time"

	"github.com/z5labs/typedroutes"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
)

// Store is an in-memory project store. Projects are addressable both by
// their numeric id and by their key.
type Store struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]*Project
	byKey  map[uuid.UUID]int64
}

func NewStore() *Store {
	return &Store{
		nextID: 1,
		byID:   make(map[int64]*Project),
		byKey:  make(map[uuid.UUID]int64),
	}
}

func (s *Store) Add(ctx context.Context, name string) *Project {
	_, span := otel.Tracer("project").Start(ctx, "Store.Add")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	p := &Project{
		ID:      s.nextID,
		Key:     uuid.New(),
		Name:    name,
		Created: time.Now().UTC(),
	}
	s.nextID += 1

	s.byID[p.ID] = p
	s.byKey[p.Key] = p.ID
	return p
}

func (s *Store) GetByID(ctx context.Context, id int64) (*Project, bool) {
	_, span := otel.Tracer("project").Start(ctx, "Store.GetByID")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	p, exists := s.byID[id]
	return p, exists
}

func (s *Store) GetByKey(ctx context.Context, key uuid.UUID) (*Project, bool) {
	_, span := otel.Tracer("project").Start(ctx, "Store.GetByKey")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	id, exists := s.byKey[key]
	if !exists {
		return nil, false
	}
	p, exists := s.byID[id]
	return p, exists
}

func (s *Store) Delete(ctx context.Context, id int64) {
	_, span := otel.Tracer("project").Start(ctx, "Store.Delete")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	p, exists := s.byID[id]
	if !exists {
		return
	}
	delete(s.byKey, p.Key)
	delete(s.byID, id)
}

func (s *Store) List(ctx context.Context) []*Project {
	_, span := otel.Tracer("project").Start(ctx, "Store.List")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	projects := make([]*Project, 0, len(s.byID))
	for _, p := range s.byID {
		projects = append(projects, p)
	}
	return projects
}

func (s *Store) SetArchived(ctx context.Context, id int64, archived bool) bool {
	_, span := otel.Tracer("project").Start(ctx, "Store.SetArchived")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	p, exists := s.byID[id]
	if !exists {
		return false
	}
	p.Archived = archived
	return true
}

// ActivityOn reports the project's activity for one calendar day. The
// store keeps no event log, so the count is derived from the id and day
// to keep the example self-contained.
func (s *Store) ActivityOn(ctx context.Context, id int64, day typedroutes.Date) (*Activity, bool) {
	_, span := otel.Tracer("project").Start(ctx, "Store.ActivityOn")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	_, exists := s.byID[id]
	if !exists {
		return nil, false
	}
	return &Activity{
		ProjectID: id,
		Day:       day.String(),
		Events:    int(id) + day.Day,
	}, true
}
