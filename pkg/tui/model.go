// Package tui is the interactive terminal front end of the planner.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/harrisonrobin/studyplan/pkg/model"
	"github.com/harrisonrobin/studyplan/pkg/planner"
	"github.com/harrisonrobin/studyplan/pkg/render"
)

type mode int

const (
	modeList mode = iota
	modeForm
	modeConfirmDelete
)

const refreshInterval = time.Second

type tickMsg time.Time

type formState struct {
	values [6]string
	index  int
}

var formLabels = [...]string{
	"title",
	"description",
	"subject",
	"due (YYYY-MM-DD HH:MM)",
	"priority (low/medium/high)",
	"duration (minutes)",
}

func newForm() *formState {
	f := &formState{}
	f.values[4] = string(model.PriorityMedium)
	f.values[5] = "30"
	return f
}

func (f *formState) formValues() model.FormValues {
	return model.FormValues{
		Title:       f.values[0],
		Description: f.values[1],
		Subject:     f.values[2],
		Due:         f.values[3],
		Priority:    f.values[4],
		Duration:    f.values[5],
	}
}

type Model struct {
	ctx        context.Context
	planner    *planner.Planner
	loc        *time.Location
	view       planner.View
	cursor     int
	mode       mode
	input      textinput.Model
	form       *formState
	pendingDel *model.Task
	status     string
}

func New(ctx context.Context, p *planner.Planner) Model {
	ti := textinput.New()
	ti.CharLimit = 256
	ti.Width = 40

	m := Model{
		ctx:     ctx,
		planner: p,
		loc:     time.Local,
		input:   ti,
		mode:    modeList,
		status:  "Press 'a' to add, space to toggle, 'd' to delete, 1-4 to filter.",
	}
	m.refresh()
	return m
}

// Run blocks until the user quits.
func Run(ctx context.Context, p *planner.Planner) error {
	program := tea.NewProgram(New(ctx, p), tea.WithContext(ctx))
	_, err := program.Run()
	return err
}

func tick() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		m.refresh()
		return m, tick()
	case tea.KeyMsg:
		switch m.mode {
		case modeForm:
			return m.updateForm(msg)
		case modeConfirmDelete:
			return m.updateDeleteConfirm(msg.String())
		}
		return m.updateList(msg.String())
	case tea.WindowSizeMsg:
		if msg.Width > 20 {
			m.input.Width = msg.Width - 10
		}
	}
	return m, nil
}

func (m *Model) refresh() {
	m.view = m.planner.View()
	m.cursor = clampCursor(m.cursor, len(m.view.Rows))
}

func (m Model) selected() (planner.Row, bool) {
	if len(m.view.Rows) == 0 {
		return planner.Row{}, false
	}
	return m.view.Rows[clampCursor(m.cursor, len(m.view.Rows))], true
}

func (m Model) updateList(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "down", "j":
		m.cursor = clampCursor(m.cursor+1, len(m.view.Rows))
	case "up", "k":
		m.cursor = clampCursor(m.cursor-1, len(m.view.Rows))
	case "1", "2", "3", "4":
		f := planner.Filters[key[0]-'1']
		m.planner.SetFilter(f)
		m.cursor = 0
		m.status = fmt.Sprintf("Showing %s tasks", f)
	case "a":
		m.form = newForm()
		m.mode = modeForm
		m.loadField()
		m.input.Focus()
		m.status = m.formPrompt()
	case " ":
		row, ok := m.selected()
		if !ok {
			return m, nil
		}
		if _, err := m.planner.Toggle(m.ctx, row.ID); err != nil {
			m.status = fmt.Sprintf("toggle failed: %v", err)
		} else {
			m.status = ""
		}
	case "d":
		row, ok := m.selected()
		if !ok {
			return m, nil
		}
		t := row.Task
		m.pendingDel = &t
		m.mode = modeConfirmDelete
		m.status = fmt.Sprintf("Delete \"%s\"? y/n", t.Title)
	}
	m.refresh()
	return m, nil
}

func (m Model) updateDeleteConfirm(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "y", "Y":
		if m.pendingDel != nil {
			if _, err := m.planner.Delete(m.ctx, m.pendingDel.ID, planner.Always); err != nil {
				m.status = fmt.Sprintf("delete failed: %v", err)
			} else {
				m.status = ""
			}
		}
	case "n", "N", "esc":
		m.status = "Delete cancelled"
	default:
		return m, nil
	}
	m.pendingDel = nil
	m.mode = modeList
	m.refresh()
	return m, nil
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.form = nil
		m.mode = modeList
		m.input.Blur()
		m.input.SetValue("")
		m.status = "Cancelled"
		return m, nil
	case "tab", "down":
		m.storeField()
		m.form.index = wrapIndex(m.form.index+1, len(formLabels))
		m.loadField()
		m.status = m.formPrompt()
		return m, nil
	case "shift+tab", "up":
		m.storeField()
		m.form.index = wrapIndex(m.form.index-1, len(formLabels))
		m.loadField()
		m.status = m.formPrompt()
		return m, nil
	case "enter":
		m.storeField()
		return m.submitForm()
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
}

func (m Model) submitForm() (tea.Model, tea.Cmd) {
	draft, err := model.ParseForm(m.form.formValues(), m.loc)
	if err == nil {
		_, err = m.planner.Add(m.ctx, draft)
	}
	if err != nil {
		m.status = fmt.Sprintf("Cannot add task: %v", err)
		return m, nil
	}
	m.form = nil
	m.mode = modeList
	m.input.Blur()
	m.input.SetValue("")
	m.status = ""
	m.refresh()
	return m, nil
}

func (m *Model) storeField() {
	m.form.values[m.form.index] = m.input.Value()
}

func (m *Model) loadField() {
	m.input.SetValue(m.form.values[m.form.index])
	m.input.Placeholder = formLabels[m.form.index]
	if m.form.index == 3 && m.form.values[3] == "" {
		m.input.Placeholder = m.planner.MinDue().Format(model.DueLayout)
	}
}

func (m Model) formPrompt() string {
	return fmt.Sprintf("New task: %s (field %d of %d). Tab to move, Enter to save, Esc to cancel.",
		formLabels[m.form.index], m.form.index+1, len(formLabels))
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString("Study Planner\n\n")
	b.WriteString(renderFilters(m.view.Filter))
	b.WriteString("\n\n")

	if len(m.view.Rows) == 0 {
		b.WriteString("No tasks found in this category.\n")
	}
	for i, r := range m.view.Rows {
		cursor := " "
		if m.cursor == i && m.mode != modeForm {
			cursor = ">"
		}
		b.WriteString(cursor + " " + render.TextRow(r) + "\n")
	}

	b.WriteString("\n")
	render.TextStats(&b, m.view.Stats)
	b.WriteString("\nToday\n")
	render.TextTimeline(&b, m.view.Timeline)

	if m.mode == modeForm {
		b.WriteString("\n")
		b.WriteString(m.renderForm())
		b.WriteString(m.input.View())
		b.WriteString("\n")
	}

	for _, n := range m.planner.Notices().Active() {
		b.WriteString("\n")
		if n.Title != "" {
			b.WriteString(n.Title + ": ")
		}
		b.WriteString(n.Message)
	}

	b.WriteString("\n\n")
	b.WriteString(m.status)
	b.WriteString("\n")
	b.WriteString("j/k move • 1-4 filter • a add • space toggle • d delete • q quit")
	return b.String()
}

func renderFilters(current planner.Filter) string {
	parts := make([]string, len(planner.Filters))
	for i, f := range planner.Filters {
		label := fmt.Sprintf("%d %s", i+1, f)
		if f == current {
			label = "[" + label + "]"
		}
		parts[i] = label
	}
	return strings.Join(parts, "  ")
}

func (m Model) renderForm() string {
	var b strings.Builder
	for i, name := range formLabels {
		prefix := " "
		if i == m.form.index {
			prefix = ">"
		}
		val := m.form.values[i]
		if strings.TrimSpace(val) == "" {
			val = "(empty)"
		}
		b.WriteString(fmt.Sprintf("%s %-26s : %s\n", prefix, name, val))
	}
	return b.String()
}

func wrapIndex(idx, n int) int {
	if n <= 0 {
		return 0
	}
	idx %= n
	if idx < 0 {
		idx += n
	}
	return idx
}

func clampCursor(cur, n int) int {
	if n <= 0 || cur < 0 {
		return 0
	}
	if cur >= n {
		return n - 1
	}
	return cur
}
