package domain

import "time"

type Part struct {
	ID    string
	Title string
}

type Lesson struct {
	ID          string
	Title       string
	ContentType ContentType
	Parts       []Part
}

// IsMultiPart reports whether completion is tracked per part.
func (l *Lesson) IsMultiPart() bool {
	return len(l.Parts) > 1
}

// HasPart reports whether partID names one of the lesson's parts.
func (l *Lesson) HasPart(partID string) bool {
	for _, p := range l.Parts {
		if p.ID == partID {
			return true
		}
	}
	return false
}

// PartIDs returns the lesson's part ids in order.
func (l *Lesson) PartIDs() []string {
	ids := make([]string, len(l.Parts))
	for i, p := range l.Parts {
		ids[i] = p.ID
	}
	return ids
}

type Module struct {
	ID      string
	Title   string
	IsGated bool
	Lessons []Lesson
}

// LessonIDs returns the module's lesson ids in curriculum order.
func (m *Module) LessonIDs() []string {
	ids := make([]string, len(m.Lessons))
	for i, l := range m.Lessons {
		ids[i] = l.ID
	}
	return ids
}

// Program is the immutable curriculum structure loaded for a session.
// Module order defines both the lesson sequence and the gating chain.
type Program struct {
	ID           string
	OwnerID      string
	Title        string
	Modules      []Module
	TotalLessons int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Normalize recomputes derived fields. Call it after building a Program by hand.
func (p *Program) Normalize() *Program {
	total := 0
	for _, m := range p.Modules {
		total += len(m.Lessons)
	}
	p.TotalLessons = total
	return p
}

// Lessons flattens the program into curriculum order.
func (p *Program) Lessons() []*Lesson {
	out := make([]*Lesson, 0, p.TotalLessons)
	for mi := range p.Modules {
		for li := range p.Modules[mi].Lessons {
			out = append(out, &p.Modules[mi].Lessons[li])
		}
	}
	return out
}

// IsOwnedBy reports whether userID authored the program.
func (p *Program) IsOwnedBy(userID string) bool {
	return userID != "" && p.OwnerID == userID
}
