package simulate

import "github.com/talgya/iso-citysim/internal/cityworld"

// State is the simulator's cross-tick cache: the caller owns it (alongside
// a World) and passes the same *State into every StepOnce call. It holds
// nothing that affects HashWorld — purely memoized derived fields and
// per-tile vacancy counters used by the upgrade/downgrade phase.
type State struct {
	LandValueField   []float64
	ServicesOverall  float64
	LastLandValueDay int
	LastServicesDay  int

	VacancyDays []int // per-tile consecutive days below occupancy threshold

	initialized bool
}

// NewState returns a zero-valued State sized for world.
func NewState(w *cityworld.World) *State {
	n := w.Width * w.Height
	return &State{
		LandValueField: make([]float64, n),
		VacancyDays:    make([]int, n),
		initialized:    true,
	}
}

func (s *State) ensureSized(w *cityworld.World) {
	n := w.Width * w.Height
	if !s.initialized || len(s.VacancyDays) != n {
		s.LandValueField = make([]float64, n)
		s.VacancyDays = make([]int, n)
		s.initialized = true
	}
}
