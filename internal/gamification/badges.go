package gamification

// ConditionKind selects the predicate variant a badge unlocks on. Conditions
// are data, not closures, so badge definitions round-trip through JSON and
// can be evaluated without any captured runtime state.
type ConditionKind string

const (
	// CondAlways unlocks on the first evaluation.
	CondAlways ConditionKind = "always"
	// CondFactorAtLeast unlocks when the named factor's value reaches Threshold.
	CondFactorAtLeast ConditionKind = "factor-at-least"
	// CondScoreAtLeast unlocks when the aggregate score reaches Threshold.
	CondScoreAtLeast ConditionKind = "score-at-least"
)

// Condition is a pure predicate over the current factor set.
type Condition struct {
	Kind      ConditionKind `json:"kind"`
	FactorID  string        `json:"factorId,omitempty"`
	Threshold int           `json:"threshold,omitempty"`
}

// Met evaluates the condition against factors. Unknown kinds and missing
// factors evaluate false rather than erroring; a misconfigured badge simply
// never unlocks.
func (c Condition) Met(factors []Factor) bool {
	switch c.Kind {
	case CondAlways:
		return true
	case CondFactorAtLeast:
		for _, f := range factors {
			if f.ID == c.FactorID {
				return f.Value >= c.Threshold
			}
		}
		return false
	case CondScoreAtLeast:
		return Score(factors) >= c.Threshold
	}
	return false
}

// Badge is a monotonic achievement: once Achieved flips true it never
// reverts, regardless of later factor regressions.
type Badge struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Condition   Condition `json:"condition"`
	Achieved    bool      `json:"achieved"`
}

// DefaultBadges returns the fixed badge set. The starter badge ships already
// achieved.
func DefaultBadges() []Badge {
	return []Badge{
		{
			ID:          "starter",
			Name:        "Permission Novice",
			Description: "Started managing wallet permissions with PermissionHub",
			Condition:   Condition{Kind: CondAlways},
			Achieved:    true,
		},
		{
			ID:          "revoker",
			Name:        "Cleanup Crew",
			Description: "Revoked at least 3 unnecessary permissions",
			Condition:   Condition{Kind: CondFactorAtLeast, FactorID: FactorRegulation, Threshold: 5},
		},
		{
			ID:          "time-master",
			Name:        "Time Master",
			Description: "Set expiry times for at least 80% of your permissions",
			Condition:   Condition{Kind: CondFactorAtLeast, FactorID: FactorExpiry, Threshold: 8},
		},
		{
			ID:          "secure-stream",
			Name:        "Stream Secure",
			Description: "Created a financial stream with both time and amount limits",
			Condition:   Condition{Kind: CondFactorAtLeast, FactorID: FactorLimitation, Threshold: 7},
		},
		{
			ID:          "sentinel",
			Name:        "Permission Sentinel",
			Description: "Achieved a health score of at least 80",
			Condition:   Condition{Kind: CondScoreAtLeast, Threshold: 80},
		},
		{
			ID:          "guardian",
			Name:        "Wallet Guardian",
			Description: "Maintained perfect security practices for at least a week",
			Condition:   Condition{Kind: CondFactorAtLeast, FactorID: FactorProtection, Threshold: 9},
		},
	}
}
