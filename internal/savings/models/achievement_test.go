package models

import "testing"

func TestDefaultCatalog(t *testing.T) {
	want := []struct {
		id     string
		title  string
		points int
		typ    AchievementType
	}{
		{"first_deposit", "First Step", 50, TypeFirstDeposit},
		{"saver_100", "Century Saver", 100, TypeSavingsMilestone},
		{"saver_500", "Half Grand", 250, TypeSavingsMilestone},
		{"saver_1000", "Grand Saver", 500, TypeSavingsMilestone},
		{"first_goal", "Goal Crusher", 200, TypeGoalCompletion},
		{"level_5", "Rising Star", 300, TypeLevelUp},
		{"level_10", "Savings Master", 500, TypeLevelUp},
	}
	all := DefaultCatalog().All()
	if len(all) != len(want) {
		t.Fatalf("expected %d entries got %d", len(want), len(all))
	}
	for i, w := range want {
		a := all[i]
		if a.ID != w.id || a.Title != w.title || a.PointsReward != w.points || a.Type != w.typ {
			t.Fatalf("entry %d: got %+v", i, a)
		}
	}
	if a, _ := DefaultCatalog().Get("saver_500"); a.Requirement.Amount.IntPart() != 500 {
		t.Fatalf("saver_500 threshold %s", a.Requirement.Amount)
	}
	if a, _ := DefaultCatalog().Get("level_10"); a.Requirement.Level != 10 {
		t.Fatalf("level_10 threshold %d", a.Requirement.Level)
	}
}

func TestCatalogGet(t *testing.T) {
	if _, ok := DefaultCatalog().Get("nope"); ok {
		t.Fatalf("unknown id should not be found")
	}
	a, ok := DefaultCatalog().Get("first_goal")
	if !ok || a.Title != "Goal Crusher" {
		t.Fatalf("lookup failed: %+v %v", a, ok)
	}
}

func TestCatalogAllReturnsCopy(t *testing.T) {
	all := DefaultCatalog().All()
	all[0].PointsReward = 0
	if a, _ := DefaultCatalog().Get(all[0].ID); a.PointsReward != 50 {
		t.Fatalf("catalog mutated through All()")
	}
}
