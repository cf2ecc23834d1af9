package domain

import "testing"

func TestPlanValid(t *testing.T) {
	for _, p := range []Plan{PlanFree, PlanPro, PlanEnterprise} {
		if !p.Valid() {
			t.Errorf("plan %q should be valid", p)
		}
	}
	// Tier names are lowercase; anything else is not a known plan.
	for _, p := range []Plan{"", "trial", "Free", "PRO"} {
		if p.Valid() {
			t.Errorf("plan %q should not be valid", p)
		}
	}
}
