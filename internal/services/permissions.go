package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/permissionhub/server/internal/gamification"
	"github.com/permissionhub/server/internal/model"
	"github.com/permissionhub/server/internal/store"
)

// PermissionService owns the permission lifecycle: CRUD against the store
// plus usage accounting writes, with a gamification recompute after every
// mutation. Mutations on the same user are serialized.
type PermissionService struct {
	store  store.Store
	engine *gamification.Engine
	locks  *userLocks
	log    zerolog.Logger
}

func NewPermissionService(s store.Store, engine *gamification.Engine, log zerolog.Logger) *PermissionService {
	return &PermissionService{store: s, engine: engine, locks: newUserLocks(), log: log}
}

// sharedLocks lets the request service join the same per-user pipeline.
func (s *PermissionService) sharedLocks() *userLocks { return s.locks }

func (s *PermissionService) Create(ctx context.Context, p *model.Permission) (*model.Permission, error) {
	unlock := s.locks.lock(p.UserID)
	defer unlock()

	out, err := s.store.Permissions().Create(ctx, p)
	if err != nil {
		return nil, err
	}
	s.recompute(ctx, out.UserID)
	return out, nil
}

func (s *PermissionService) Get(ctx context.Context, id int) (*model.Permission, error) {
	return s.store.Permissions().Get(ctx, id)
}

func (s *PermissionService) List(ctx context.Context, userID int) ([]*model.Permission, error) {
	return s.store.Permissions().List(ctx, userID)
}

func (s *PermissionService) Update(ctx context.Context, id int, patch model.PermissionPatch) (*model.Permission, error) {
	existing, err := s.store.Permissions().Get(ctx, id)
	if err != nil {
		return nil, err
	}
	unlock := s.locks.lock(existing.UserID)
	defer unlock()

	out, err := s.store.Permissions().Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	s.recompute(ctx, out.UserID)
	return out, nil
}

func (s *PermissionService) Delete(ctx context.Context, id int) error {
	existing, err := s.store.Permissions().Get(ctx, id)
	if err != nil {
		return err
	}
	unlock := s.locks.lock(existing.UserID)
	defer unlock()

	existed, err := s.store.Permissions().Delete(ctx, id)
	if err != nil {
		return err
	}
	if !existed {
		return model.ErrNotFound
	}
	s.recompute(ctx, existing.UserID)
	return nil
}

// Revoke flips the permission inactive. Schema-wise this is an ordinary
// field update; nothing in the service ever flips it back.
func (s *PermissionService) Revoke(ctx context.Context, id int) (*model.Permission, error) {
	inactive := false
	return s.Update(ctx, id, model.PermissionPatch{IsActive: &inactive})
}

// RecordUsage adds delta to callsUsed. The count is capped at maxCalls when
// the bound is set, so the invariant callsUsed <= maxCalls holds under any
// sequence of increments.
func (s *PermissionService) RecordUsage(ctx context.Context, id int, delta int) (*model.Permission, error) {
	if delta <= 0 {
		return nil, fmt.Errorf("%w: usage delta must be positive", model.ErrValidation)
	}
	existing, err := s.store.Permissions().Get(ctx, id)
	if err != nil {
		return nil, err
	}
	unlock := s.locks.lock(existing.UserID)
	defer unlock()

	// Re-read under the lock: a concurrent increment may have landed.
	existing, err = s.store.Permissions().Get(ctx, id)
	if err != nil {
		return nil, err
	}
	used := existing.CallsUsed + delta
	if existing.MaxCalls != nil && used > *existing.MaxCalls {
		used = *existing.MaxCalls
	}
	out, err := s.store.Permissions().Update(ctx, id, model.PermissionPatch{CallsUsed: &used})
	if err != nil {
		return nil, err
	}
	s.recompute(ctx, out.UserID)
	return out, nil
}

// recompute replays the user's permission population through the engine.
// Failures here are logged, not surfaced: derived state is a cache and the
// next mutation recomputes it from scratch anyway.
func (s *PermissionService) recompute(ctx context.Context, userID int) {
	perms, err := s.store.Permissions().List(ctx, userID)
	if err != nil {
		s.log.Error().Err(err).Int("user_id", userID).Msg("listing permissions for recompute failed")
		return
	}
	if err := s.engine.Recompute(ctx, perms); err != nil {
		s.log.Error().Err(err).Int("user_id", userID).Msg("gamification recompute failed")
	}
}
