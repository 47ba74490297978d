// Package curriculum resolves a learner's position in a program: which lesson
// to show first, what comes next, and which modules are gated.
//
// Every function here is pure. Given the same program and snapshot the
// answers never change, so callers may evaluate them as often as they render.
package curriculum

import (
	"errors"

	"github.com/alexanderramin/syllabus/internal/domain"
)

// ErrLessonNotFound indicates a lesson id that is not part of the program,
// usually a stale reference held by a caller.
var ErrLessonNotFound = errors.New("lesson not found in program")

// Position locates a lesson inside the program structure.
type Position struct {
	ModuleIndex int
	LessonIndex int
}

// Index is a lookup table built once per loaded program.
type Index struct {
	program   *domain.Program
	positions map[string]Position
	last      *domain.Lesson
}

// NewIndex precomputes lesson positions for p. The program must not be
// modified afterwards.
func NewIndex(p *domain.Program) *Index {
	idx := &Index{
		program:   p,
		positions: make(map[string]Position, p.TotalLessons),
	}
	for mi := range p.Modules {
		for li := range p.Modules[mi].Lessons {
			l := &p.Modules[mi].Lessons[li]
			idx.positions[l.ID] = Position{ModuleIndex: mi, LessonIndex: li}
			idx.last = l
		}
	}
	return idx
}

// Program returns the indexed program.
func (x *Index) Program() *domain.Program { return x.program }

// Locate returns the position of lessonID.
func (x *Index) Locate(lessonID string) (Position, bool) {
	pos, ok := x.positions[lessonID]
	return pos, ok
}

// Lesson returns the lesson with the given id, or nil.
func (x *Index) Lesson(lessonID string) *domain.Lesson {
	pos, ok := x.positions[lessonID]
	if !ok {
		return nil
	}
	return &x.program.Modules[pos.ModuleIndex].Lessons[pos.LessonIndex]
}

// ModuleOf returns the module containing lessonID, or nil.
func (x *Index) ModuleOf(lessonID string) *domain.Module {
	pos, ok := x.positions[lessonID]
	if !ok {
		return nil
	}
	return &x.program.Modules[pos.ModuleIndex]
}

// TotalParts returns the number of parts of lessonID, 0 when it has none or
// is unknown.
func (x *Index) TotalParts(lessonID string) int {
	if l := x.Lesson(lessonID); l != nil {
		return len(l.Parts)
	}
	return 0
}

// Empty reports whether the program has no lessons at all.
func (x *Index) Empty() bool { return x.last == nil }
