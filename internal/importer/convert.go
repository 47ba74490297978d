package importer

import (
	"strings"
	"time"

	"github.com/alexanderramin/syllabus/internal/domain"
	"github.com/google/uuid"
)

// Convert transforms a validated ProgramSchema into a program ready for
// persistence. Modules and lessons get fresh ids; part refs are kept since
// parts are keyed by their lesson. Call ValidateSchema first; Convert assumes
// the schema is valid.
func Convert(schema *ProgramSchema) *domain.Program {
	now := time.Now().UTC()

	p := &domain.Program{
		ID:        uuid.New().String(),
		OwnerID:   strings.TrimSpace(schema.Program.OwnerID),
		Title:     strings.TrimSpace(schema.Program.Title),
		Modules:   make([]domain.Module, 0, len(schema.Modules)),
		CreatedAt: now,
		UpdatedAt: now,
	}

	for _, m := range schema.Modules {
		module := domain.Module{
			ID:      uuid.New().String(),
			Title:   strings.TrimSpace(m.Title),
			IsGated: m.Gated,
			Lessons: make([]domain.Lesson, 0, len(m.Lessons)),
		}
		for _, l := range m.Lessons {
			lesson := domain.Lesson{
				ID:          uuid.New().String(),
				Title:       strings.TrimSpace(l.Title),
				ContentType: domain.ContentType(l.Type),
			}
			for _, part := range l.Parts {
				title := strings.TrimSpace(part.Title)
				if title == "" {
					title = part.Ref
				}
				lesson.Parts = append(lesson.Parts, domain.Part{ID: part.Ref, Title: title})
			}
			module.Lessons = append(module.Lessons, lesson)
		}
		p.Modules = append(p.Modules, module)
	}

	return p.Normalize()
}
