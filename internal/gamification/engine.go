package gamification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/permissionhub/server/internal/kv"
	"github.com/permissionhub/server/internal/model"
)

// Persisted state keys. Kept compatible with the web client's local-storage
// names so existing demo state carries over.
const (
	keyFactors = "permissionHub_healthFactors"
	keyBadges  = "permissionHub_badges"
)

// Engine holds the derived gamification state for the demo user and keeps it
// in sync with the permission population. All mutations funnel through the
// internal mutex; persistence goes through the injected kv port after every
// recomputation.
type Engine struct {
	state kv.Store
	log   zerolog.Logger

	mu      sync.Mutex
	factors []Factor
	badges  []Badge
	recent  []Badge
}

// NewEngine builds an engine seeded from persisted state, falling back to
// the defaults for anything absent or unreadable.
func NewEngine(state kv.Store, log zerolog.Logger) *Engine {
	e := &Engine{
		state:   state,
		log:     log,
		factors: DefaultFactors(),
		badges:  DefaultBadges(),
	}
	e.restore(context.Background())
	return e
}

// restore merges persisted values onto the compiled-in defaults by id, so
// achieved flags and factor values survive restarts while definitions stay
// owned by the code.
func (e *Engine) restore(ctx context.Context) {
	if raw, err := e.state.Get(ctx, keyFactors); err == nil {
		var stored []Factor
		if err := json.Unmarshal(raw, &stored); err != nil {
			e.log.Warn().Err(err).Msg("discarding unreadable persisted factors")
		} else {
			for i := range e.factors {
				for _, s := range stored {
					if s.ID == e.factors[i].ID {
						e.factors[i].Value = clampFactor(s.Value)
					}
				}
			}
		}
	} else if !errors.Is(err, model.ErrNotFound) {
		e.log.Warn().Err(err).Msg("failed to read persisted factors")
	}

	if raw, err := e.state.Get(ctx, keyBadges); err == nil {
		var stored []Badge
		if err := json.Unmarshal(raw, &stored); err != nil {
			e.log.Warn().Err(err).Msg("discarding unreadable persisted badges")
		} else {
			for i := range e.badges {
				for _, s := range stored {
					// Monotonic: persisted achievements are honored, never cleared.
					if s.ID == e.badges[i].ID && s.Achieved {
						e.badges[i].Achieved = true
					}
				}
			}
		}
	} else if !errors.Is(err, model.ErrNotFound) {
		e.log.Warn().Err(err).Msg("failed to read persisted badges")
	}
}

// Recompute refreshes factors from the permission population, evaluates
// not-yet-achieved badges, and persists the result. Newly flipped badges
// accumulate as recent achievements until ResetRecentAchievements is called.
// Recomputing on unchanged input is a no-op apart from rewriting identical
// state.
func (e *Engine) Recompute(ctx context.Context, perms []*model.Permission) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	counts := CountPermissions(perms)
	e.factors = ApplyCounts(e.factors, counts)
	e.evaluateBadgesLocked()

	e.log.Debug().
		Int("total", counts.Total).
		Int("active", counts.Active).
		Int("score", Score(e.factors)).
		Msg("gamification state recomputed")

	return e.persistLocked(ctx)
}

// evaluateBadgesLocked checks every badge that has not unlocked yet.
// Already-achieved badges are skipped entirely, which is what makes the
// ratchet monotonic.
func (e *Engine) evaluateBadgesLocked() {
	for i := range e.badges {
		if e.badges[i].Achieved {
			continue
		}
		if e.badges[i].Condition.Met(e.factors) {
			e.badges[i].Achieved = true
			e.recent = append(e.recent, e.badges[i])
		}
	}
}

func (e *Engine) persistLocked(ctx context.Context) error {
	rawFactors, err := json.Marshal(e.factors)
	if err != nil {
		return fmt.Errorf("marshal factors: %w", err)
	}
	if err := e.state.Set(ctx, keyFactors, rawFactors); err != nil {
		return fmt.Errorf("persist factors: %w", err)
	}
	rawBadges, err := json.Marshal(e.badges)
	if err != nil {
		return fmt.Errorf("marshal badges: %w", err)
	}
	if err := e.state.Set(ctx, keyBadges, rawBadges); err != nil {
		return fmt.Errorf("persist badges: %w", err)
	}
	return nil
}

// SetProtection sets the manually configured protection factor, clamped to
// [0,10], then re-evaluates badges and persists.
func (e *Engine) SetProtection(ctx context.Context, value int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	for i := range e.factors {
		if e.factors[i].ID == FactorProtection {
			e.factors[i].Value = clampFactor(value)
		}
	}
	e.evaluateBadgesLocked()
	return e.persistLocked(ctx)
}

// Factors returns a copy of the current factor set.
func (e *Engine) Factors() []Factor {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]Factor, len(e.factors))
	copy(out, e.factors)
	return out
}

// Badges returns a copy of the current badge set.
func (e *Engine) Badges() []Badge {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]Badge, len(e.badges))
	copy(out, e.badges)
	return out
}

// HealthScore returns the current aggregate score.
func (e *Engine) HealthScore() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return Score(e.factors)
}

// RecentAchievements returns badges that flipped since the last reset.
func (e *Engine) RecentAchievements() []Badge {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]Badge, len(e.recent))
	copy(out, e.recent)
	return out
}

// ResetRecentAchievements clears the pending notification set so repeated
// recomputation does not re-announce the same badges.
func (e *Engine) ResetRecentAchievements() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.recent = nil
}
