package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/syllabus/internal/cli/formatter"
	"github.com/alexanderramin/syllabus/internal/curriculum"
	"github.com/alexanderramin/syllabus/internal/domain"
	"github.com/alexanderramin/syllabus/internal/progress"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type playerKeys struct {
	Next    key.Binding
	Back    key.Binding
	Outline key.Binding
	Up      key.Binding
	Down    key.Binding
	Open    key.Binding
	Close   key.Binding
	Quit    key.Binding
}

func defaultPlayerKeys() playerKeys {
	return playerKeys{
		Next:    key.NewBinding(key.WithKeys("enter", " ", "right", "n"), key.WithHelp("enter", "next")),
		Back:    key.NewBinding(key.WithKeys("left", "p"), key.WithHelp("←", "previous part")),
		Outline: key.NewBinding(key.WithKeys("o", "tab"), key.WithHelp("o", "outline")),
		Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Open:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open lesson")),
		Close:   key.NewBinding(key.WithKeys("esc", "o", "tab"), key.WithHelp("esc", "back")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// commitDoneMsg reports the end of one server round-trip.
type commitDoneMsg struct {
	err error
}

// playerModel is the bubbletea lesson player. Navigation and optimistic
// updates happen synchronously in Update; only the server call runs in a Cmd.
type playerModel struct {
	ctx     context.Context
	session *learnerSession
	nav     *progress.Navigator
	lessons []*domain.Lesson

	keys    playerKeys
	help    help.Model
	spinner spinner.Model

	width    int
	outline  bool
	selected int
	pending  int
	message  string
	isError  bool
	quitting bool
}

func newPlayerModel(ctx context.Context, s *learnerSession, nav *progress.Navigator) playerModel {
	sp := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(formatter.ColorPurple)),
	)
	m := playerModel{
		ctx:     ctx,
		session: s,
		nav:     nav,
		lessons: s.program.Lessons(),
		keys:    defaultPlayerKeys(),
		help:    help.New(),
		spinner: sp,
	}
	if nav.Start() == nil {
		m.message = "This program has no lessons yet."
	}
	return m
}

func (m playerModel) Init() tea.Cmd {
	return nil
}

func (m playerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case commitDoneMsg:
		m.pending--
		if msg.err != nil {
			m.setError(msg.err)
			m.nav.Revalidate()
		}
		if m.quitting && m.pending == 0 {
			return m, tea.Quit
		}
		return m, nil

	case spinner.TickMsg:
		if m.pending == 0 {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if key.Matches(msg, m.keys.Quit) {
			m.quitting = true
			if m.pending == 0 {
				return m, tea.Quit
			}
			m.setInfo("Waiting for progress to save...")
			return m, nil
		}
		if m.outline {
			return m.updateOutline(msg)
		}
		return m.updateLesson(msg)
	}
	return m, nil
}

func (m playerModel) updateLesson(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Next):
		return m.advance()
	case key.Matches(msg, m.keys.Back):
		m.nav.Back()
		m.clearMessage()
	case key.Matches(msg, m.keys.Outline):
		m.outline = true
		m.selected = m.currentIndex()
		m.clearMessage()
	}
	return m, nil
}

func (m playerModel) updateOutline(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.selected > 0 {
			m.selected--
		}
	case key.Matches(msg, m.keys.Down):
		if m.selected < len(m.lessons)-1 {
			m.selected++
		}
	case key.Matches(msg, m.keys.Open):
		if len(m.lessons) == 0 {
			return m, nil
		}
		if err := m.nav.Select(m.lessons[m.selected].ID); err != nil {
			m.setError(err)
			return m, nil
		}
		m.outline = false
		m.clearMessage()
	case key.Matches(msg, m.keys.Close):
		m.outline = false
	}
	return m, nil
}

// advance applies the optimistic update now and commits it in the background.
func (m playerModel) advance() (tea.Model, tea.Cmd) {
	step, err := m.nav.Advance()
	if err != nil {
		m.setError(err)
		return m, nil
	}

	switch step.Outcome {
	case progress.OutcomeGated:
		m.setInfo("Finish every lesson in this module to unlock the next one.")
	case progress.OutcomeFinished:
		m.setInfo("You reached the end of the program.")
	default:
		m.clearMessage()
	}

	if step.Mutation == nil {
		return m, nil
	}
	m.pending++
	return m, tea.Batch(commitCmd(m.ctx, m.session.engine, step.Mutation), m.spinner.Tick)
}

func commitCmd(ctx context.Context, engine *progress.Engine, mu *progress.Mutation) tea.Cmd {
	return func() tea.Msg {
		return commitDoneMsg{err: engine.Commit(ctx, mu)}
	}
}

func (m *playerModel) setError(err error) {
	var pe *progress.ProgressError
	switch {
	case errors.As(err, &pe):
		m.message = pe.Message
	case errors.Is(err, progress.ErrModuleLocked):
		m.message = "That module is locked until the previous module is completed."
	default:
		m.message = err.Error()
	}
	m.isError = true
}

func (m *playerModel) setInfo(msg string) {
	m.message = msg
	m.isError = false
}

func (m *playerModel) clearMessage() {
	m.message = ""
	m.isError = false
}

func (m playerModel) currentIndex() int {
	cur := m.nav.Current()
	if cur == nil {
		return 0
	}
	for i, l := range m.lessons {
		if l.ID == cur.ID {
			return i
		}
	}
	return 0
}

func (m playerModel) View() string {
	if m.quitting && m.pending == 0 {
		return ""
	}

	snap := m.session.store.Snapshot()
	index := m.session.index

	var b strings.Builder
	b.WriteString(formatter.Header(m.session.program.Title) + "\n")
	b.WriteString(formatter.KindPill(snap.Kind) + "\n")
	stats := index.Stats(snap)
	b.WriteString(formatter.RenderLessonProgress(stats.Completed, stats.Total, 24))
	if m.pending > 0 {
		b.WriteString("  " + m.spinner.View() + formatter.Dim(" saving"))
	}
	b.WriteString("\n\n")

	if m.outline {
		selectedID := ""
		if len(m.lessons) > 0 {
			selectedID = m.lessons[m.selected].ID
		}
		b.WriteString(formatter.RenderTree(formatter.CurriculumItems(index, snap, selectedID)))
	} else {
		b.WriteString(renderLesson(index, snap, m.nav))
	}

	if m.message != "" {
		b.WriteString("\n")
		if m.isError {
			b.WriteString(formatter.StyleRed.Render(m.message))
		} else {
			b.WriteString(formatter.StyleYellow.Render(m.message))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n" + m.help.ShortHelpView(m.helpBindings()))
	return b.String()
}

func (m playerModel) helpBindings() []key.Binding {
	if m.outline {
		return []key.Binding{m.keys.Up, m.keys.Down, m.keys.Open, m.keys.Close, m.keys.Quit}
	}
	return []key.Binding{m.keys.Next, m.keys.Back, m.keys.Outline, m.keys.Quit}
}

func renderLesson(index *curriculum.Index, snap *domain.Enrollment, nav *progress.Navigator) string {
	l := nav.Current()
	if l == nil {
		return formatter.Dim("Nothing to show.") + "\n"
	}

	var b strings.Builder
	if mod := index.ModuleOf(l.ID); mod != nil {
		b.WriteString(formatter.Dim(mod.Title) + "\n")
	}
	title := formatter.Bold(l.Title) + "  " + formatter.ContentBadge(l.ContentType)
	if !snap.IsPreview() && snap.HasCompleted(l.ID) {
		title += "  " + formatter.StyleGreen.Render("✔ completed")
	}
	b.WriteString(title + "\n")

	if part := nav.CurrentPart(); part != nil && l.IsMultiPart() {
		d, _ := snap.Detail(l.ID)
		b.WriteString(fmt.Sprintf("\nPart %d of %d: %s\n", nav.PartIndex()+1, len(l.Parts), part.Title))
		b.WriteString(formatter.RenderPartDots(len(l.Parts), nav.PartIndex(), func(i int) bool {
			return !snap.IsPreview() && d.CompletedParts.Has(l.Parts[i].ID)
		}) + "\n")
	}
	return b.String()
}
