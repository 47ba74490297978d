package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/syllabus/internal/curriculum"
	"github.com/alexanderramin/syllabus/internal/domain"
)

// resolveProgram finds a program by exact id, case-insensitive title, or a
// unique id prefix, in that order.
func resolveProgram(ctx context.Context, app *App, input string) (*domain.Program, error) {
	if input == "" {
		return nil, fmt.Errorf("program is required")
	}

	programs, err := app.Backend.ListPrograms(ctx)
	if err != nil {
		return nil, err
	}

	for _, p := range programs {
		if p.ID == input {
			return p, nil
		}
	}
	for _, p := range programs {
		if strings.EqualFold(p.Title, input) {
			return p, nil
		}
	}

	var matches []*domain.Program
	for _, p := range programs {
		if strings.HasPrefix(p.ID, input) {
			matches = append(matches, p)
		}
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("program not found: %q", input)
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("program ID prefix %q is ambiguous (%d matches)", input, len(matches))
	}
}

// resolveLesson finds a lesson by exact id, by its #seq in curriculum
// order, or by a unique id prefix.
func resolveLesson(x *curriculum.Index, input string) (*domain.Lesson, error) {
	if input == "" {
		return nil, fmt.Errorf("lesson is required")
	}
	if l := x.Lesson(input); l != nil {
		return l, nil
	}

	lessons := x.Program().Lessons()
	if seq, err := strconv.Atoi(strings.TrimPrefix(input, "#")); err == nil {
		if seq < 1 || seq > len(lessons) {
			return nil, fmt.Errorf("lesson #%d not found (program has %d lessons)", seq, len(lessons))
		}
		return lessons[seq-1], nil
	}

	var matches []*domain.Lesson
	for _, l := range lessons {
		if strings.HasPrefix(l.ID, input) {
			matches = append(matches, l)
		}
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("lesson not found: %q", input)
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("lesson ID prefix %q is ambiguous (%d matches)", input, len(matches))
	}
}

// resolvePart finds a part of l by id or by 1-based position.
func resolvePart(l *domain.Lesson, input string) (*domain.Part, error) {
	if !l.IsMultiPart() {
		return nil, fmt.Errorf("lesson %q has no parts", l.Title)
	}
	for i := range l.Parts {
		if l.Parts[i].ID == input {
			return &l.Parts[i], nil
		}
	}
	if n, err := strconv.Atoi(input); err == nil && n >= 1 && n <= len(l.Parts) {
		return &l.Parts[n-1], nil
	}
	return nil, fmt.Errorf("part %q not found in lesson %q", input, l.Title)
}
