// Package sweep flips expired-but-active permissions inactive on a fixed
// interval. The derivation layer never mutates records, so without the sweep
// an expired permission stays isActive=true in storage while already
// reporting expired to clients.
package sweep

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/permissionhub/server/internal/model"
	"github.com/permissionhub/server/internal/services"
	"github.com/permissionhub/server/internal/usage"
)

// Sweeper walks one user's permissions each tick. Mutations go through the
// permission service, so they share the per-user serialization and trigger
// the same gamification recompute as foreground writes.
type Sweeper struct {
	svc      *services.PermissionService
	userID   int
	interval time.Duration
	log      zerolog.Logger
}

func New(svc *services.PermissionService, userID int, interval time.Duration, log zerolog.Logger) *Sweeper {
	return &Sweeper{svc: svc, userID: userID, interval: interval, log: log}
}

// Start blocks until ctx is cancelled, sweeping once per interval.
func (s *Sweeper) Start(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep(ctx)
		}
	}
}

// Sweep performs one pass. Exported so tests and operators can run it on
// demand.
func (s *Sweeper) Sweep(ctx context.Context) {
	perms, err := s.svc.List(ctx, s.userID)
	if err != nil {
		s.log.Error().Err(err).Msg("sweep: listing permissions failed")
		return
	}
	now := time.Now().UTC()
	for _, p := range perms {
		if !p.IsActive {
			continue
		}
		if usage.Derive(p, now).Status != usage.StatusExpired {
			continue
		}
		inactive := false
		if _, err := s.svc.Update(ctx, p.ID, model.PermissionPatch{IsActive: &inactive}); err != nil {
			s.log.Error().Err(err).Int("permission_id", p.ID).Msg("sweep: deactivation failed")
			continue
		}
		s.log.Info().Int("permission_id", p.ID).Str("name", p.Name).Msg("permission expired, deactivated")
	}
}
