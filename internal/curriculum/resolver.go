package curriculum

import "github.com/alexanderramin/syllabus/internal/domain"

// InitialLesson picks the lesson to open when a learner enters the program.
// Preview snapshots start at the top. Otherwise the first lesson not yet
// completed is returned, or the final lesson when everything is done so a
// finisher lands on the completion view. Nil means the program is empty.
func (x *Index) InitialLesson(e *domain.Enrollment) *domain.Lesson {
	if x.Empty() {
		return nil
	}
	lessons := x.program.Lessons()
	if e.IsPreview() {
		return lessons[0]
	}
	for _, l := range lessons {
		if !e.HasCompleted(l.ID) {
			return l
		}
	}
	return x.last
}

// ModuleCompleted reports whether every lesson of moduleID is completed.
// Modules without lessons are vacuously complete; previews never complete
// anything. Unknown modules report false.
func (x *Index) ModuleCompleted(e *domain.Enrollment, moduleID string) bool {
	if e.IsPreview() {
		return false
	}
	for i := range x.program.Modules {
		m := &x.program.Modules[i]
		if m.ID != moduleID {
			continue
		}
		for _, l := range m.Lessons {
			if !e.HasCompleted(l.ID) {
				return false
			}
		}
		return true
	}
	return false
}

// ModuleLocked reports whether the module at moduleIndex is gated behind an
// incomplete predecessor. The first module and every module in preview are
// always open.
func (x *Index) ModuleLocked(e *domain.Enrollment, moduleIndex int) bool {
	if moduleIndex <= 0 || moduleIndex >= len(x.program.Modules) {
		return false
	}
	if e.IsPreview() {
		return false
	}
	if !x.program.Modules[moduleIndex].IsGated {
		return false
	}
	return !x.ModuleCompleted(e, x.program.Modules[moduleIndex-1].ID)
}

// LessonLocked reports whether lessonID sits in a locked module. Unknown
// lessons are reported as locked.
func (x *Index) LessonLocked(e *domain.Enrollment, lessonID string) bool {
	pos, ok := x.positions[lessonID]
	if !ok {
		return true
	}
	return x.ModuleLocked(e, pos.ModuleIndex)
}

// NextLesson returns the lesson after currentLessonID: the next one in the
// same module, else the first lesson of the following module. It returns
// (nil, nil) on the terminal lesson and ErrLessonNotFound for unknown ids.
func (x *Index) NextLesson(currentLessonID string) (*domain.Lesson, error) {
	pos, ok := x.positions[currentLessonID]
	if !ok {
		return nil, ErrLessonNotFound
	}
	m := &x.program.Modules[pos.ModuleIndex]
	if pos.LessonIndex+1 < len(m.Lessons) {
		return &m.Lessons[pos.LessonIndex+1], nil
	}
	if pos.ModuleIndex+1 < len(x.program.Modules) {
		next := &x.program.Modules[pos.ModuleIndex+1]
		if len(next.Lessons) > 0 {
			return &next.Lessons[0], nil
		}
	}
	return nil, nil
}

// IsLastLesson reports whether lessonID is the final lesson of the last
// module that has lessons.
func (x *Index) IsLastLesson(lessonID string) bool {
	return x.last != nil && x.last.ID == lessonID
}

// ProgramCompleted reports whether every lesson is completed. Empty programs
// and previews are never complete.
func (x *Index) ProgramCompleted(e *domain.Enrollment) bool {
	if x.Empty() || e.IsPreview() {
		return false
	}
	for id := range x.positions {
		if !e.HasCompleted(id) {
			return false
		}
	}
	return true
}
