// Package gamification computes the security health score, its weighted
// factors, and the achievement badges derived from a user's permission set.
// It owns no source of truth: everything here is recomputed from store
// contents and persisted only as a cache of derived state.
package gamification

import (
	"math"

	"github.com/permissionhub/server/internal/model"
)

// Factor ids. The set is fixed; values move, ids never do.
const (
	FactorExpiry     = "expiry"
	FactorLimitation = "limitation"
	FactorRegulation = "regulation"
	FactorProtection = "protection"
)

// Factor is one normalized dimension of security posture. Value stays within
// [0, MaxValue]; the score is the unweighted mean of Value/MaxValue across
// all factors.
type Factor struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Value       int    `json:"value"`
	MaxValue    int    `json:"maxValue"`
	Description string `json:"description"`
}

// DefaultFactors returns the initial factor set used before any
// recomputation has run.
func DefaultFactors() []Factor {
	return []Factor{
		{
			ID:          FactorExpiry,
			Name:        "Time-Bound Permissions",
			Value:       7,
			MaxValue:    10,
			Description: "Share of permissions with an expiry date. Time-bound permissions expire on their own, reducing risk.",
		},
		{
			ID:          FactorLimitation,
			Name:        "Resource Limits",
			Value:       5,
			MaxValue:    10,
			Description: "Share of permissions with spending limits or maximum call restrictions.",
		},
		{
			ID:          FactorRegulation,
			Name:        "Active Management",
			Value:       6,
			MaxValue:    10,
			Description: "Level of active permission management, including reviews and revocations.",
		},
		{
			ID:          FactorProtection,
			Name:        "Security Practices",
			Value:       8,
			MaxValue:    10,
			Description: "General security practices, including prompt reviews of permission requests.",
		},
	}
}

// Counts aggregates a permission population for factor recomputation.
type Counts struct {
	Total     int `json:"total"`
	Active    int `json:"active"`
	Expired   int `json:"expired"`
	Revoked   int `json:"revoked"`
	Unlimited int `json:"unlimited"`
	TimeBound int `json:"timeBound"`
}

// CountPermissions classifies records: time-bound means an expiry is set,
// limited means an amount or call bound is set, an inactive permission counts
// as expired when it had an expiry and as revoked otherwise.
func CountPermissions(perms []*model.Permission) Counts {
	var c Counts
	c.Total = len(perms)
	for _, p := range perms {
		if p.IsActive {
			c.Active++
		}
		timeBound := p.ExpiryTime != nil
		limited := p.MaxAmount != nil || p.MaxCalls != nil
		if timeBound {
			c.TimeBound++
		}
		if !limited {
			c.Unlimited++
		}
		if !p.IsActive {
			if timeBound {
				c.Expired++
			} else {
				c.Revoked++
			}
		}
	}
	return c
}

// ApplyCounts returns a new factor slice with count-derived values. With an
// empty population the expiry and limitation values are left untouched (no
// divide-by-zero mutation); regulation is recomputed unconditionally. The
// protection factor is never derived from counts.
func ApplyCounts(factors []Factor, c Counts) []Factor {
	out := make([]Factor, len(factors))
	copy(out, factors)
	for i := range out {
		switch out[i].ID {
		case FactorExpiry:
			if c.Total > 0 {
				out[i].Value = clampFactor(round10(float64(c.TimeBound) / float64(c.Total)))
			}
		case FactorLimitation:
			if c.Total > 0 {
				out[i].Value = clampFactor(round10(float64(c.Total-c.Unlimited) / float64(c.Total)))
			}
		case FactorRegulation:
			v := 5 + int(math.Round(float64(c.Expired+c.Revoked)/2))
			if v > 10 {
				v = 10
			}
			out[i].Value = v
		}
	}
	return out
}

// Score is the aggregate health score: the unweighted mean of each factor's
// normalized completion, expressed 0–100. An empty factor set scores 0.
func Score(factors []Factor) int {
	if len(factors) == 0 {
		return 0
	}
	var sum float64
	for _, f := range factors {
		sum += float64(f.Value) / float64(f.MaxValue)
	}
	return int(math.Round(sum / float64(len(factors)) * 100))
}

func round10(frac float64) int { return int(math.Round(frac * 10)) }

func clampFactor(v int) int {
	if v < 0 {
		return 0
	}
	if v > 10 {
		return 10
	}
	return v
}
