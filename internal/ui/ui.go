package ui

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"haru/internal/config"
	"haru/internal/storage"
)

type mode int

const (
	modeList mode = iota
	modeForm
	modeDatePick
	modeTimePick
)

type formField int

const (
	fieldTitle formField = iota
	fieldDescription
)

// formState is the transient value behind an open add/edit dialog. One
// value per dialog instance; nothing touches the store until confirm.
type formState struct {
	taskID     int64 // 0 while adding
	completed  bool
	due        sql.NullTime
	pickedDate time.Time // held between the date and time picking steps
	field      formField
}

type Model struct {
	store   *storage.Store
	cfg     config.Config
	log     *zap.Logger
	tasks   []storage.Task
	loadErr error
	cursor  int
	mode    mode
	form    *formState
	title   textinput.Model
	desc    textinput.Model
	picker  textinput.Model
	status  string
	now     func() time.Time
}

func New(store *storage.Store, cfg config.Config, log *zap.Logger) Model {
	title := textinput.New()
	title.Placeholder = "Task title"
	title.CharLimit = 256
	title.Width = 40

	desc := textinput.New()
	desc.Placeholder = "Description (optional)"
	desc.CharLimit = 512
	desc.Width = 40

	picker := textinput.New()
	picker.CharLimit = 16
	picker.Width = 16

	m := Model{
		store:  store,
		cfg:    cfg,
		log:    log,
		status: "Press 'a' to add, space to toggle, 'd' to delete.",
		title:  title,
		desc:   desc,
		picker: picker,
		mode:   modeList,
		now:    time.Now,
	}
	m.reload()
	return m
}

func Run(store *storage.Store, cfg config.Config, log *zap.Logger) error {
	program := tea.NewProgram(New(store, cfg, log))
	_, err := program.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch m.mode {
		case modeForm:
			return m.updateForm(msg.String(), msg)
		case modeDatePick:
			return m.updateDatePick(msg.String(), msg)
		case modeTimePick:
			return m.updateTimePick(msg.String(), msg)
		default:
			return m.updateList(msg.String())
		}
	case tea.WindowSizeMsg:
		w := msg.Width - 10
		if w > 0 {
			m.title.Width = w
			m.desc.Width = w
		}
	}
	return m, nil
}

func (m Model) updateList(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "ctrl+c", m.cfg.Keys.Quit:
		return m, tea.Quit
	case m.cfg.Keys.Down, "down":
		if len(m.tasks) > 0 {
			m.cursor = clampCursor(m.cursor+1, len(m.tasks))
		}
	case m.cfg.Keys.Up, "up":
		if m.cursor > 0 {
			m.cursor = clampCursor(m.cursor-1, len(m.tasks))
		}
	case m.cfg.Keys.Add:
		return m.openForm(nil)
	case m.cfg.Keys.Edit:
		if len(m.tasks) == 0 {
			m.status = "No tasks to edit"
			return m, nil
		}
		t := m.tasks[m.cursor]
		return m.openForm(&t)
	case m.cfg.Keys.Toggle:
		if len(m.tasks) == 0 {
			return m, nil
		}
		t := m.tasks[m.cursor]
		if err := m.store.SetCompleted(t.ID, !t.Completed); err != nil {
			return m.writeFailed("toggle", err)
		}
		m.reload()
		m.status = "Toggled task"
	case m.cfg.Keys.Delete:
		if len(m.tasks) == 0 {
			return m, nil
		}
		t := m.tasks[m.cursor]
		if err := m.store.Delete(t.ID); err != nil {
			return m.writeFailed("delete", err)
		}
		m.reload()
		m.cursor = clampCursor(m.cursor, len(m.tasks))
		m.status = fmt.Sprintf("Deleted %q", t.Title)
	}
	return m, nil
}

// openForm starts a fresh dialog. A nil task means add; otherwise the
// fields are pre-filled from the selected task.
func (m Model) openForm(t *storage.Task) (tea.Model, tea.Cmd) {
	form := &formState{}
	m.title.SetValue("")
	m.desc.SetValue("")
	if t != nil {
		form.taskID = t.ID
		form.completed = t.Completed
		form.due = t.Due
		m.title.SetValue(t.Title)
		m.desc.SetValue(t.Description)
	}
	m.form = form
	m.mode = modeForm
	m.desc.Blur()
	m.title.Focus()
	m.title.CursorEnd()
	if t == nil {
		m.status = "Add task: enter to save, esc to cancel, ctrl+d for due date"
	} else {
		m.status = "Edit task: enter to save, esc to cancel, ctrl+d for due date"
	}
	return m, nil
}

func (m Model) updateForm(key string, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key {
	case m.cfg.Keys.Cancel:
		return m.closeForm("Cancelled")
	case m.cfg.Keys.Next, "down":
		return m.focusField(fieldDescription)
	case m.cfg.Keys.Prev, "up":
		return m.focusField(fieldTitle)
	case m.cfg.Keys.DueDate:
		m.mode = modeDatePick
		m.picker.Placeholder = "YYYY-MM-DD"
		m.picker.SetValue("")
		if m.form.due.Valid {
			m.picker.SetValue(m.form.due.Time.Format("2006-01-02"))
		}
		m.picker.Focus()
		m.picker.CursorEnd()
		m.status = "Pick a date (empty clears the due date)"
		return m, nil
	case m.cfg.Keys.Confirm:
		return m.saveForm()
	default:
		var cmd tea.Cmd
		if m.form.field == fieldTitle {
			m.title, cmd = m.title.Update(msg)
		} else {
			m.desc, cmd = m.desc.Update(msg)
		}
		return m, cmd
	}
}

func (m Model) focusField(f formField) (tea.Model, tea.Cmd) {
	m.form.field = f
	if f == fieldTitle {
		m.desc.Blur()
		m.title.Focus()
	} else {
		m.title.Blur()
		m.desc.Focus()
	}
	return m, nil
}

func (m Model) saveForm() (tea.Model, tea.Cmd) {
	title := strings.TrimSpace(m.title.Value())
	if title == "" {
		m.status = "Title cannot be empty"
		return m, nil
	}
	task := storage.Task{
		ID:          m.form.taskID,
		Title:       title,
		Description: strings.TrimSpace(m.desc.Value()),
		Due:         m.form.due,
		Completed:   m.form.completed,
	}

	var err error
	if task.ID == 0 {
		err = m.store.Insert(&task)
	} else {
		err = m.store.Update(&task)
	}
	if err != nil {
		// Keep the dialog open so the input is not lost.
		return m.writeFailed("save", err)
	}

	model, cmd := m.closeForm("Saved task")
	mm := model.(Model)
	mm.reload()
	for i, t := range mm.tasks {
		if t.ID == task.ID {
			mm.cursor = clampCursor(i, len(mm.tasks))
			break
		}
	}
	return mm, cmd
}

func (m Model) closeForm(status string) (tea.Model, tea.Cmd) {
	m.form = nil
	m.mode = modeList
	m.title.Blur()
	m.desc.Blur()
	m.title.SetValue("")
	m.desc.SetValue("")
	m.status = status
	return m, nil
}

func (m Model) updateDatePick(key string, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key {
	case m.cfg.Keys.Cancel:
		return m.backToForm("Date pick cancelled")
	case m.cfg.Keys.Confirm:
		value := strings.TrimSpace(m.picker.Value())
		if value == "" {
			// Clearing the due date skips the time step entirely.
			m.form.due = sql.NullTime{}
			return m.backToForm("Due date cleared")
		}
		day, err := time.ParseInLocation("2006-01-02", value, time.Local)
		if err != nil {
			m.status = fmt.Sprintf("invalid date %q, want YYYY-MM-DD", value)
			return m, nil
		}
		m.form.pickedDate = day
		m.mode = modeTimePick
		m.picker.Placeholder = "HH:MM"
		m.picker.SetValue("")
		if m.form.due.Valid {
			m.picker.SetValue(m.form.due.Time.Format("15:04"))
		}
		m.picker.CursorEnd()
		m.status = "Pick a time"
		return m, nil
	default:
		var cmd tea.Cmd
		m.picker, cmd = m.picker.Update(msg)
		return m, cmd
	}
}

func (m Model) updateTimePick(key string, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key {
	case m.cfg.Keys.Cancel:
		// Due date stays whatever it was before the picker opened.
		return m.backToForm("Time pick cancelled")
	case m.cfg.Keys.Confirm:
		value := strings.TrimSpace(m.picker.Value())
		clock, err := time.Parse("15:04", value)
		if err != nil {
			m.status = fmt.Sprintf("invalid time %q, want HH:MM", value)
			return m, nil
		}
		day := m.form.pickedDate
		due := time.Date(day.Year(), day.Month(), day.Day(), clock.Hour(), clock.Minute(), 0, 0, time.Local)
		m.form.due = sql.NullTime{Time: due, Valid: true}
		return m.backToForm("Due " + due.Format("2-Jan-2006 15:04"))
	default:
		var cmd tea.Cmd
		m.picker, cmd = m.picker.Update(msg)
		return m, cmd
	}
}

func (m Model) backToForm(status string) (tea.Model, tea.Cmd) {
	m.mode = modeForm
	m.picker.Blur()
	m.picker.SetValue("")
	m.status = status
	return m, nil
}

// reload re-reads the full list; read failures replace the list view
// until a later reload succeeds.
func (m *Model) reload() {
	tasks, err := m.store.ListAll()
	if err != nil {
		m.log.Error("reload failed", zap.Error(err))
		m.loadErr = err
		return
	}
	m.loadErr = nil
	m.tasks = tasks
	m.cursor = clampCursor(m.cursor, len(m.tasks))
}

func (m Model) writeFailed(op string, err error) (tea.Model, tea.Cmd) {
	m.log.Error("write failed", zap.String("op", op), zap.Error(err))
	m.status = fmt.Sprintf("%s failed: %v", op, err)
	return m, nil
}

func clampCursor(cur, n int) int {
	if n <= 0 {
		return 0
	}
	if cur < 0 {
		return 0
	}
	if cur >= n {
		return n - 1
	}
	return cur
}
