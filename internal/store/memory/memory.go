// Package memory provides an in-process Store backed by maps. It is the
// default driver for local development and tests.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/permissionhub/server/internal/model"
	"github.com/permissionhub/server/internal/store"
)

// Store holds all records behind a single RWMutex. Sequential ids start at 1
// and are never reused within a process lifetime.
type Store struct {
	mu         sync.RWMutex
	perms      map[int]*model.Permission
	requests   map[int]*model.PermissionRequest
	nextPermID int
	nextReqID  int
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		perms:      make(map[int]*model.Permission),
		requests:   make(map[int]*model.PermissionRequest),
		nextPermID: 1,
		nextReqID:  1,
	}
}

func (s *Store) Permissions() store.Permissions { return &permissions{s} }
func (s *Store) Requests() store.Requests       { return &requests{s} }

// --- Permissions ---

type permissions struct{ s *Store }

func (p *permissions) Create(ctx context.Context, in *model.Permission) (*model.Permission, error) {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()

	rec := *in
	rec.ID = p.s.nextPermID
	p.s.nextPermID++
	rec.CreatedAt = time.Now().UTC()
	rec.CallsUsed = 0
	p.s.perms[rec.ID] = &rec

	out := rec
	return &out, nil
}

func (p *permissions) Get(ctx context.Context, id int) (*model.Permission, error) {
	p.s.mu.RLock()
	defer p.s.mu.RUnlock()
	rec, ok := p.s.perms[id]
	if !ok {
		return nil, model.ErrNotFound
	}
	out := *rec
	return &out, nil
}

func (p *permissions) List(ctx context.Context, userID int) ([]*model.Permission, error) {
	p.s.mu.RLock()
	defer p.s.mu.RUnlock()
	var out []*model.Permission
	for _, rec := range p.s.perms {
		if rec.UserID == userID {
			cp := *rec
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (p *permissions) Update(ctx context.Context, id int, patch model.PermissionPatch) (*model.Permission, error) {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()
	rec, ok := p.s.perms[id]
	if !ok {
		return nil, model.ErrNotFound
	}
	patch.Apply(rec)
	out := *rec
	return &out, nil
}

func (p *permissions) Delete(ctx context.Context, id int) (bool, error) {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()
	if _, ok := p.s.perms[id]; !ok {
		return false, nil
	}
	delete(p.s.perms, id)
	return true, nil
}

// --- Requests ---

type requests struct{ s *Store }

func (r *requests) Create(ctx context.Context, in *model.PermissionRequest) (*model.PermissionRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	rec := *in
	rec.ID = r.s.nextReqID
	r.s.nextReqID++
	rec.RequestedAt = time.Now().UTC()
	r.s.requests[rec.ID] = &rec

	out := rec
	return &out, nil
}

func (r *requests) Get(ctx context.Context, id int) (*model.PermissionRequest, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	rec, ok := r.s.requests[id]
	if !ok {
		return nil, model.ErrNotFound
	}
	out := *rec
	return &out, nil
}

func (r *requests) List(ctx context.Context, userID int) ([]*model.PermissionRequest, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []*model.PermissionRequest
	for _, rec := range r.s.requests {
		if rec.UserID == userID {
			cp := *rec
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *requests) Delete(ctx context.Context, id int) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.requests[id]; !ok {
		return false, nil
	}
	delete(r.s.requests, id)
	return true, nil
}
