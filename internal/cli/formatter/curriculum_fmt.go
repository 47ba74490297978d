package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/syllabus/internal/curriculum"
	"github.com/alexanderramin/syllabus/internal/domain"
)

// CurriculumItems builds the module/lesson tree for a snapshot. Lessons are
// numbered in curriculum order; currentID marks the lesson on screen.
func CurriculumItems(x *curriculum.Index, e *domain.Enrollment, currentID string) []TreeItem {
	p := x.Program()
	var items []TreeItem
	seq := 0
	for mi := range p.Modules {
		m := &p.Modules[mi]
		locked := x.ModuleLocked(e, mi)

		mState := StateOpen
		switch {
		case locked:
			mState = StateLocked
		case len(m.Lessons) > 0 && x.ModuleCompleted(e, m.ID):
			mState = StateDone
		}
		done := 0
		for _, l := range m.Lessons {
			if !e.IsPreview() && e.HasCompleted(l.ID) {
				done++
			}
		}
		detail := fmt.Sprintf("%d/%d", done, len(m.Lessons))
		if locked {
			detail = "locked"
		} else if m.IsGated && mi > 0 {
			detail += " gated"
		}
		items = append(items, TreeItem{Title: Bold(m.Title), State: mState, Detail: detail})

		for li := range m.Lessons {
			l := &m.Lessons[li]
			seq++
			items = append(items, TreeItem{
				Title:  l.Title,
				Seq:    seq,
				Level:  1,
				IsLast: li == len(m.Lessons)-1,
				State:  lessonState(e, l, locked, currentID),
				Detail: lessonDetail(e, l),
			})
		}
	}
	return items
}

func lessonState(e *domain.Enrollment, l *domain.Lesson, locked bool, currentID string) LessonState {
	switch {
	case locked:
		return StateLocked
	case l.ID == currentID:
		return StateCurrent
	case !e.IsPreview() && e.HasCompleted(l.ID):
		return StateDone
	}
	if d, ok := e.Detail(l.ID); ok && !e.IsPreview() {
		if d.Status == domain.LessonInProgress || len(d.CompletedParts) > 0 {
			return StateInProgress
		}
	}
	return StateOpen
}

func lessonDetail(e *domain.Enrollment, l *domain.Lesson) string {
	if !l.IsMultiPart() {
		return string(l.ContentType)
	}
	d, _ := e.Detail(l.ID)
	done := 0
	if !e.IsPreview() {
		done = len(d.CompletedParts)
	}
	return fmt.Sprintf("%s %d/%d parts", l.ContentType, done, len(l.Parts))
}

// FormatStatus renders the status view: progress summary, the lesson the
// learner would resume at, and the curriculum tree.
func FormatStatus(x *curriculum.Index, e *domain.Enrollment) string {
	p := x.Program()
	var b strings.Builder

	b.WriteString(Header(p.Title) + "\n")
	b.WriteString(KindPill(e.Kind) + "\n\n")

	stats := x.Stats(e)
	b.WriteString(RenderLessonProgress(stats.Completed, stats.Total, 24) + "\n")

	currentID := ""
	next := x.InitialLesson(e)
	switch {
	case next == nil:
		b.WriteString(Dim("This program has no lessons yet.") + "\n")
	case x.ProgramCompleted(e):
		b.WriteString(StyleGreen.Render("Program complete.") + "\n")
	default:
		currentID = next.ID
		b.WriteString(fmt.Sprintf("%s %s\n", Dim("Up next:"), Bold(next.Title)))
	}
	b.WriteString("\n")
	b.WriteString(RenderTree(CurriculumItems(x, e, currentID)))
	return b.String()
}

// FormatProgramList renders programs as a table.
func FormatProgramList(programs []*domain.Program) string {
	rows := make([][]string, 0, len(programs))
	for _, p := range programs {
		rows = append(rows, []string{
			TruncID(p.ID),
			p.Title,
			fmt.Sprint(len(p.Modules)),
			fmt.Sprint(p.TotalLessons),
			p.OwnerID,
		})
	}
	return RenderTable([]string{"ID", "TITLE", "MODULES", "LESSONS", "OWNER"}, rows)
}

// FormatProgramDetail renders a program's structure without progress.
func FormatProgramDetail(p *domain.Program) string {
	var b strings.Builder
	b.WriteString(Header(p.Title) + "\n")
	b.WriteString(fmt.Sprintf("%s %s   %s %s\n\n",
		Dim("id"), p.ID, Dim("owner"), p.OwnerID))

	var items []TreeItem
	seq := 0
	for mi, m := range p.Modules {
		detail := Plural(len(m.Lessons), "lesson")
		if m.IsGated && mi > 0 {
			detail += " gated"
		}
		items = append(items, TreeItem{Title: Bold(m.Title), Detail: detail})
		for li := range m.Lessons {
			l := &m.Lessons[li]
			seq++
			d := string(l.ContentType)
			if l.IsMultiPart() {
				d = fmt.Sprintf("%s, %s", d, Plural(len(l.Parts), "part"))
			}
			items = append(items, TreeItem{
				Title:  fmt.Sprintf("%s %s", l.Title, Dim(shortID(l.ID))),
				Seq:    seq,
				Level:  1,
				IsLast: li == len(m.Lessons)-1,
				Detail: d,
			})
		}
	}
	b.WriteString(RenderTree(items))
	return b.String()
}

// EnrollmentRow pairs an enrollment with its program for listing.
type EnrollmentRow struct {
	Program    *domain.Program
	Enrollment *domain.Enrollment
}

// FormatEnrollmentList renders a learner's enrollments with progress bars.
func FormatEnrollmentList(rows []EnrollmentRow, now time.Time) string {
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		x := curriculum.NewIndex(r.Program)
		stats := x.Stats(r.Enrollment)
		last := Dim("--")
		if l := x.Lesson(r.Enrollment.LastViewed()); l != nil {
			last = l.Title
		}
		out = append(out, []string{
			TruncID(r.Enrollment.ID),
			r.Program.Title,
			RenderCompactBar(stats.Pct(), 12),
			fmt.Sprintf("%d/%d", stats.Completed, stats.Total),
			last,
			HumanTimestamp(r.Enrollment.UpdatedAt, now),
		})
	}
	return RenderTable([]string{"ID", "PROGRAM", "PROGRESS", "DONE", "LAST VIEWED", "UPDATED"}, out)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
