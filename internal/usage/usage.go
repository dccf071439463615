// Package usage derives a permission's runtime view from its stored fields
// and a point in time. Derivation is pure: it never mutates the record, and
// flipping IsActive on expiry is the sweeper's job, not this package's.
package usage

import (
	"math"
	"strconv"
	"time"

	"github.com/permissionhub/server/internal/model"
)

// Status classifies a permission's remaining runway.
type Status string

const (
	StatusActive  Status = "active"
	StatusLimited Status = "limited"
	StatusExpired Status = "expired"
)

// headroomThreshold is the fraction of a call or amount bound below which a
// still-usable permission is reported as limited. Presentation hint only.
const headroomThreshold = 0.2

// Snapshot is the derived view of one permission at one instant.
// TimeRemaining is nil when the permission has no expiry; ProgressPercent is
// nil when the permission is neither call- nor amount-bounded.
type Snapshot struct {
	Status          Status         `json:"status"`
	TimeRemaining   *time.Duration `json:"timeRemaining,omitempty"`
	ProgressPercent *int           `json:"progressPercent,omitempty"`
}

// Derive computes the snapshot of p at now.
func Derive(p *model.Permission, now time.Time) Snapshot {
	snap := Snapshot{Status: StatusActive}

	if p.ExpiryTime != nil {
		remaining := p.ExpiryTime.Sub(now)
		if remaining < 0 {
			remaining = 0
		}
		snap.TimeRemaining = &remaining
	}

	callBounded := p.MaxCalls != nil && *p.MaxCalls > 0
	usedFrac, amountBounded := amountFraction(p)

	switch {
	case p.ExpiryTime != nil && !now.Before(*p.ExpiryTime):
		snap.Status = StatusExpired
	case callBounded && p.CallsUsed >= *p.MaxCalls:
		snap.Status = StatusExpired
	case callBounded && 1-float64(p.CallsUsed)/float64(*p.MaxCalls) < headroomThreshold:
		snap.Status = StatusLimited
	case amountBounded && 1-usedFrac < headroomThreshold:
		snap.Status = StatusLimited
	}

	if callBounded {
		pct := roundPercent(float64(p.CallsUsed) / float64(*p.MaxCalls))
		snap.ProgressPercent = &pct
	} else if amountBounded {
		pct := roundPercent(usedFrac)
		snap.ProgressPercent = &pct
	}
	return snap
}

// amountFraction returns totalAmount/maxAmount for amount-bounded streams.
// The bound applies only when both decimal strings parse and maxAmount > 0.
func amountFraction(p *model.Permission) (float64, bool) {
	if p.MaxAmount == nil || p.TotalAmount == nil {
		return 0, false
	}
	max, err := strconv.ParseFloat(*p.MaxAmount, 64)
	if err != nil || max <= 0 {
		return 0, false
	}
	total, err := strconv.ParseFloat(*p.TotalAmount, 64)
	if err != nil {
		return 0, false
	}
	return total / max, true
}

func roundPercent(frac float64) int {
	pct := int(math.Round(frac * 100))
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}
