package loot

import (
	"math/rand"
	"testing"
)

func TestGenerateZeroWhenLootersNotExceedingLoot(t *testing.T) {
	g := New(1000, 0.5, rand.New(rand.NewSource(1)))
	if n := g.Generate(1000, 5, 5); n != 0 {
		t.Errorf("expected 0 when looterCount == lootCount, got %d", n)
	}
	if n := g.Generate(1000, 10, 3); n != 0 {
		t.Errorf("expected 0 when looterCount < lootCount, got %d", n)
	}
}

func TestGenerateNeverExceedsCapacity(t *testing.T) {
	g := New(100, 0.99, rand.New(rand.NewSource(2)))
	for i := 0; i < 1000; i++ {
		n := g.Generate(1000, 0, 5)
		if n > 5 {
			t.Fatalf("spawned %d, exceeds capacity 5", n)
		}
	}
}

func TestGenerateExpectedRateOverManyPeriods(t *testing.T) {
	g := New(1000, 0.5, rand.New(rand.NewSource(3)))
	total := 0
	const k = 4000
	for i := 0; i < k; i++ {
		total += g.Generate(1000, 0, 1)
	}
	// Expected total ~= k*probability*1 = 2000; allow generous tolerance.
	expected := float64(k) * 0.5
	if float64(total) < expected*0.85 || float64(total) > expected*1.15 {
		t.Errorf("total spawns %d far from expected ~%v", total, expected)
	}
}

func TestGenerateZeroPeriodDisabled(t *testing.T) {
	g := New(0, 0.5, rand.New(rand.NewSource(4)))
	if n := g.Generate(1000, 0, 5); n != 0 {
		t.Errorf("expected 0 with zero period, got %d", n)
	}
}
