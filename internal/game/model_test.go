package game

import "testing"

func TestValidateTicker(t *testing.T) {
	valid := []string{"OMNI", "ZTEK", "DOGE", "ABC", "ABCDE"}
	for _, s := range valid {
		if err := ValidateTicker(s); err != nil {
			t.Fatalf("expected ticker %q to be valid: %v", s, err)
		}
	}

	invalid := []string{"AB", "ABCDEF", "omni", "OM1", ""}
	for _, s := range invalid {
		if err := ValidateTicker(s); err == nil {
			t.Fatalf("expected ticker %q to fail", s)
		}
	}
}

func TestPersonnelCost(t *testing.T) {
	tests := []struct {
		owned int
		want  float64
	}{
		{owned: 0, want: 100_000},
		{owned: 1, want: 125_000},
		{owned: 2, want: 156_250},
	}
	for _, tc := range tests {
		got := PersonnelCost(Personnel{Cost: 100_000, CostMultiplier: 1.25, Owned: tc.owned})
		if !approx(got, tc.want) {
			t.Fatalf("owned=%d got=%f want=%f", tc.owned, got, tc.want)
		}
	}
}

func TestUpgradeCost(t *testing.T) {
	repeatable := Upgrade{Cost: 10_000, CostMultiplier: 3, Owned: 2}
	if got := UpgradeCost(repeatable); !approx(got, 90_000) {
		t.Fatalf("repeatable cost got %f want 90000", got)
	}
	single := Upgrade{Cost: 200, MaxOwned: 1}
	if got := UpgradeCost(single); got != 200 {
		t.Fatalf("single cost got %f want 200", got)
	}
}

func TestPropertyValuation(t *testing.T) {
	p := FlippableProperty{
		AuctionPrice: 50_000,
		Improvements: map[ImprovementType]Improvement{
			Cosmetics: {Level: 2, MaxLevel: 5, BaseCost: 800},
			Tech:      {Level: 1, MaxLevel: 5, BaseCost: 2000},
		},
	}
	// 800 + 1200 + 2000
	if got := PropertyInvestment(p); !approx(got, 4000) {
		t.Fatalf("investment got %f want 4000", got)
	}
	if got := PropertySaleValue(p); !approx(got, 81_000) {
		t.Fatalf("sale value got %f want 81000", got)
	}
	if got := ImprovementCost(p.Improvements[Cosmetics]); !approx(got, 1800) {
		t.Fatalf("next cosmetics level got %f want 1800", got)
	}
}

func TestConditionForNeverDowngrades(t *testing.T) {
	imps := map[ImprovementType]Improvement{}
	for _, track := range ImprovementTracks {
		imps[track] = Improvement{Level: 5, MaxLevel: 5, BaseCost: 1}
	}
	full := FlippableProperty{Condition: Derelict, Improvements: imps}
	if got := ConditionFor(full); got != Pristine {
		t.Fatalf("fully improved got %s want %s", got, Pristine)
	}

	bare := FlippableProperty{Condition: Good, Improvements: map[ImprovementType]Improvement{
		Plumbing: {Level: 0, MaxLevel: 5},
	}}
	if got := ConditionFor(bare); got != Good {
		t.Fatalf("unimproved good property got %s want %s", got, Good)
	}
}

func TestNextClickerUpgrade(t *testing.T) {
	tests := []struct {
		level    int
		increase float64
		cost     float64
	}{
		{level: 1, increase: 1, cost: 12},       // floor(10*1.2)
		{level: 4, increase: 6, cost: 20},       // level 5 is a fifth level: floor(4*1.5)
		{level: 11, increase: 6, cost: 743},     // tier 1: floor(10*1.2^11*10)
		{level: 24, increase: 240, cost: 79496}, // level 25: 24*10, tier 2
	}
	for _, tc := range tests {
		got := NextClickerUpgrade(tc.level)
		if got.Level != tc.level+1 {
			t.Fatalf("level=%d next level got %d", tc.level, got.Level)
		}
		if got.Increase != tc.increase {
			t.Fatalf("level=%d increase got %f want %f", tc.level, got.Increase, tc.increase)
		}
		if got.Cost != tc.cost {
			t.Fatalf("level=%d cost got %f want %f", tc.level, got.Cost, tc.cost)
		}
	}
}
