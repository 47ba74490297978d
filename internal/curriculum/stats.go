package curriculum

import "github.com/alexanderramin/syllabus/internal/domain"

// ModuleStats summarizes one module for display.
type ModuleStats struct {
	ModuleID  string
	Title     string
	Completed int
	Total     int
	Done      bool
	Locked    bool
}

// Stats summarizes a snapshot against the whole program.
type Stats struct {
	Completed int
	Total     int
	Modules   []ModuleStats
}

// Pct returns completion as a fraction in [0,1].
func (s Stats) Pct() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Completed) / float64(s.Total)
}

// Stats computes per-module and overall completion counts.
func (x *Index) Stats(e *domain.Enrollment) Stats {
	out := Stats{Total: x.program.TotalLessons}
	for i := range x.program.Modules {
		m := &x.program.Modules[i]
		ms := ModuleStats{
			ModuleID: m.ID,
			Title:    m.Title,
			Total:    len(m.Lessons),
			Done:     x.ModuleCompleted(e, m.ID),
			Locked:   x.ModuleLocked(e, i),
		}
		if !e.IsPreview() {
			for _, l := range m.Lessons {
				if e.HasCompleted(l.ID) {
					ms.Completed++
				}
			}
		}
		out.Completed += ms.Completed
		out.Modules = append(out.Modules, ms)
	}
	return out
}
