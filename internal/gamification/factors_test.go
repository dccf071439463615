package gamification

import (
	"testing"
	"time"

	"github.com/permissionhub/server/internal/model"
)

func strPtr(s string) *string        { return &s }
func intPtr(i int) *int              { return &i }
func timePtr(t time.Time) *time.Time { return &t }

func TestScoreEmptyFactorsIsZero(t *testing.T) {
	if got := Score(nil); got != 0 {
		t.Fatalf("Score(nil) = %d, want 0", got)
	}
}

func TestScoreDefaults(t *testing.T) {
	// 7/10 + 5/10 + 6/10 + 8/10 averaged is 0.65.
	if got := Score(DefaultFactors()); got != 65 {
		t.Fatalf("Score(defaults) = %d, want 65", got)
	}
}

func TestScoreScenario(t *testing.T) {
	factors := []Factor{
		{ID: FactorExpiry, Value: 8, MaxValue: 10},
		{ID: FactorLimitation, Value: 7, MaxValue: 10},
		{ID: FactorRegulation, Value: 6, MaxValue: 10},
		{ID: FactorProtection, Value: 9, MaxValue: 10},
	}
	if got := Score(factors); got != 75 {
		t.Fatalf("Score = %d, want 75", got)
	}
}

func TestScoreBounds(t *testing.T) {
	all := []Factor{{ID: "a", Value: 10, MaxValue: 10}, {ID: "b", Value: 10, MaxValue: 10}}
	if got := Score(all); got != 100 {
		t.Fatalf("full marks = %d, want 100", got)
	}
	none := []Factor{{ID: "a", Value: 0, MaxValue: 10}}
	if got := Score(none); got != 0 {
		t.Fatalf("zero marks = %d, want 0", got)
	}
}

func TestCountPermissions(t *testing.T) {
	expiry := time.Now().Add(24 * time.Hour)
	perms := []*model.Permission{
		{IsActive: true, ExpiryTime: timePtr(expiry), MaxAmount: strPtr("1.0")},
		{IsActive: true, ExpiryTime: timePtr(expiry), MaxCalls: intPtr(50)},
		{IsActive: true, ExpiryTime: timePtr(expiry)},
		{IsActive: false, ExpiryTime: timePtr(expiry)},
		{IsActive: false},
	}
	c := CountPermissions(perms)
	if c.Total != 5 || c.Active != 3 || c.TimeBound != 4 {
		t.Fatalf("counts = %+v", c)
	}
	if c.Expired != 1 || c.Revoked != 1 {
		t.Fatalf("inactive classification = %+v", c)
	}
	if c.Unlimited != 3 {
		t.Fatalf("unlimited = %d, want 3", c.Unlimited)
	}
}

func TestApplyCounts(t *testing.T) {
	c := Counts{Total: 5, TimeBound: 4, Unlimited: 3, Expired: 1, Revoked: 1}
	out := ApplyCounts(DefaultFactors(), c)

	want := map[string]int{
		FactorExpiry:     8, // round(10*4/5)
		FactorLimitation: 4, // round(10*2/5)
		FactorRegulation: 6, // 5 + round(2/2)
		FactorProtection: 8, // never derived from counts
	}
	for _, f := range out {
		if f.Value != want[f.ID] {
			t.Fatalf("factor %s = %d, want %d", f.ID, f.Value, want[f.ID])
		}
	}
}

func TestApplyCountsEmptyPopulation(t *testing.T) {
	out := ApplyCounts(DefaultFactors(), Counts{})
	for _, f := range out {
		switch f.ID {
		case FactorExpiry:
			if f.Value != 7 {
				t.Fatalf("expiry mutated on empty population: %d", f.Value)
			}
		case FactorLimitation:
			if f.Value != 5 {
				t.Fatalf("limitation mutated on empty population: %d", f.Value)
			}
		case FactorRegulation:
			if f.Value != 5 {
				t.Fatalf("regulation = %d, want 5 with no inactive records", f.Value)
			}
		}
	}
}

func TestApplyCountsRegulationCap(t *testing.T) {
	c := Counts{Total: 30, Expired: 10, Revoked: 10}
	out := ApplyCounts(DefaultFactors(), c)
	for _, f := range out {
		if f.ID == FactorRegulation && f.Value != 10 {
			t.Fatalf("regulation = %d, want cap at 10", f.Value)
		}
	}
}

func TestApplyCountsDoesNotMutateInput(t *testing.T) {
	in := DefaultFactors()
	_ = ApplyCounts(in, Counts{Total: 2, TimeBound: 2})
	if in[0].Value != 7 {
		t.Fatalf("input slice mutated: %+v", in[0])
	}
}

func TestApplyCountsIdempotent(t *testing.T) {
	c := Counts{Total: 4, TimeBound: 2, Unlimited: 1, Revoked: 1}
	once := ApplyCounts(DefaultFactors(), c)
	twice := ApplyCounts(once, c)
	for i := range once {
		if once[i].Value != twice[i].Value {
			t.Fatalf("factor %s drifted: %d then %d", once[i].ID, once[i].Value, twice[i].Value)
		}
	}
}
