package contract

import (
	"time"

	"github.com/alexanderramin/syllabus/internal/domain"
)

// PartDTO is the wire form of domain.Part.
type PartDTO struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// LessonDTO is the wire form of domain.Lesson.
type LessonDTO struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	ContentType string    `json:"content_type"`
	Parts       []PartDTO `json:"parts"`
}

// ModuleDTO is the wire form of domain.Module.
type ModuleDTO struct {
	ID      string      `json:"id"`
	Title   string      `json:"title"`
	IsGated bool        `json:"is_gated"`
	Lessons []LessonDTO `json:"lessons"`
}

// ProgramDTO is the program-loading contract: the full structure in
// curriculum order.
type ProgramDTO struct {
	ID           string      `json:"id"`
	OwnerID      string      `json:"owner_id"`
	Title        string      `json:"title"`
	TotalLessons int         `json:"total_lessons"`
	Modules      []ModuleDTO `json:"modules"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

func FromProgram(p *domain.Program) ProgramDTO {
	dto := ProgramDTO{
		ID:           p.ID,
		OwnerID:      p.OwnerID,
		Title:        p.Title,
		TotalLessons: p.TotalLessons,
		Modules:      make([]ModuleDTO, 0, len(p.Modules)),
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
	for _, m := range p.Modules {
		md := ModuleDTO{ID: m.ID, Title: m.Title, IsGated: m.IsGated, Lessons: make([]LessonDTO, 0, len(m.Lessons))}
		for _, l := range m.Lessons {
			ld := LessonDTO{ID: l.ID, Title: l.Title, ContentType: string(l.ContentType), Parts: make([]PartDTO, 0, len(l.Parts))}
			for _, part := range l.Parts {
				ld.Parts = append(ld.Parts, PartDTO{ID: part.ID, Title: part.Title})
			}
			md.Lessons = append(md.Lessons, ld)
		}
		dto.Modules = append(dto.Modules, md)
	}
	return dto
}

// ToDomain rebuilds the program. TotalLessons is recomputed rather than
// trusted.
func (dto ProgramDTO) ToDomain() *domain.Program {
	p := &domain.Program{
		ID:        dto.ID,
		OwnerID:   dto.OwnerID,
		Title:     dto.Title,
		Modules:   make([]domain.Module, 0, len(dto.Modules)),
		CreatedAt: dto.CreatedAt,
		UpdatedAt: dto.UpdatedAt,
	}
	for _, md := range dto.Modules {
		m := domain.Module{ID: md.ID, Title: md.Title, IsGated: md.IsGated}
		for _, ld := range md.Lessons {
			l := domain.Lesson{ID: ld.ID, Title: ld.Title, ContentType: domain.ContentType(ld.ContentType)}
			for _, pd := range ld.Parts {
				l.Parts = append(l.Parts, domain.Part{ID: pd.ID, Title: pd.Title})
			}
			m.Lessons = append(m.Lessons, l)
		}
		p.Modules = append(p.Modules, m)
	}
	return p.Normalize()
}
