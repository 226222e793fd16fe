package simulate

import (
	"testing"

	"github.com/talgya/iso-citysim/internal/cityworld"
)

func tinyCity() *cityworld.World {
	w := cityworld.NewWorld(10, 1, 1)
	set := func(x int, o cityworld.Overlay, level uint8, occ uint16) {
		t := w.At(x, 0)
		t.Terrain = cityworld.Grass
		t.Overlay = o
		t.Level = level
		t.Occupants = occ
		w.Set(x, 0, t)
	}
	set(0, cityworld.Residential, 1, 10)
	for x := 1; x < 9; x++ {
		set(x, cityworld.Road, uint8(cityworld.Street), 0)
	}
	set(9, cityworld.Commercial, 1, 0)
	w.Stats.Money = 10000
	w.RecomputeRoadMasks()
	return w
}

func TestStepOnceAdvancesDay(t *testing.T) {
	w := tinyCity()
	st := NewState(w)
	cfg := Default()
	StepOnce(w, cfg, st)
	if w.Stats.Day != 1 {
		t.Fatalf("expected day=1 after one StepOnce, got %d", w.Stats.Day)
	}
}

func TestStepOnceDeterministic(t *testing.T) {
	cfg := Default()

	w1 := tinyCity()
	st1 := NewState(w1)
	w2 := tinyCity()
	st2 := NewState(w2)

	for i := 0; i < 10; i++ {
		StepOnce(w1, cfg, st1)
		StepOnce(w2, cfg, st2)
	}
	if cityworld.HashWorld(w1, true) != cityworld.HashWorld(w2, true) {
		t.Fatal("identical initial worlds must produce identical hashes after N identical ticks")
	}
}

func TestStepOnceHappinessStaysInUnitRange(t *testing.T) {
	w := tinyCity()
	st := NewState(w)
	cfg := Default()
	for i := 0; i < 30; i++ {
		StepOnce(w, cfg, st)
		if w.Stats.Happiness < 0 || w.Stats.Happiness > 1 {
			t.Fatalf("day %d: happiness out of [0,1]: %f", i, w.Stats.Happiness)
		}
	}
}

func TestStepOnceNeverPanicsOnEmptyWorld(t *testing.T) {
	w := cityworld.NewWorld(3, 3, 1)
	st := NewState(w)
	cfg := Default()
	for i := 0; i < 5; i++ {
		StepOnce(w, cfg, st)
	}
	if w.Stats.Day != 5 {
		t.Fatalf("expected day=5, got %d", w.Stats.Day)
	}
}
