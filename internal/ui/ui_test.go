package ui

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"haru/internal/config"
	"haru/internal/logging"
	"haru/internal/storage"
)

var (
	enter = tea.KeyMsg{Type: tea.KeyEnter}
	esc   = tea.KeyMsg{Type: tea.KeyEsc}
	space = tea.KeyMsg{Type: tea.KeySpace}
	ctrlD = tea.KeyMsg{Type: tea.KeyCtrlD}
	tab   = tea.KeyMsg{Type: tea.KeyTab}
)

func key(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func newTestModel(t *testing.T) (Model, *storage.Store) {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "haru.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	cfg, err := config.LoadOrCreate(filepath.Join(t.TempDir(), "config.toml"))
	require.NoError(t, err)

	return New(store, cfg, logging.NewNop()), store
}

func press(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	updated, _ := m.Update(msg)
	return updated.(Model)
}

func typeText(t *testing.T, m Model, s string) Model {
	t.Helper()
	for _, r := range s {
		m = press(t, m, key(r))
	}
	return m
}

func TestAddFlow(t *testing.T) {
	m, store := newTestModel(t)

	m = press(t, m, key('a'))
	assert.Equal(t, modeForm, m.mode)

	m = typeText(t, m, "Buy milk")
	m = press(t, m, tab)
	m = typeText(t, m, "two liters")
	m = press(t, m, enter)

	assert.Equal(t, modeList, m.mode)
	require.Len(t, m.tasks, 1)
	assert.Equal(t, "Buy milk", m.tasks[0].Title)
	assert.Equal(t, "two liters", m.tasks[0].Description)

	tasks, err := store.ListAll()
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.False(t, tasks[0].Completed)
	assert.False(t, tasks[0].Due.Valid)
}

func TestAddCancelDiscards(t *testing.T) {
	m, store := newTestModel(t)

	m = press(t, m, key('a'))
	m = typeText(t, m, "Never saved")
	m = press(t, m, esc)

	assert.Equal(t, modeList, m.mode)
	assert.Nil(t, m.form)

	tasks, err := store.ListAll()
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestAddRejectsEmptyTitle(t *testing.T) {
	m, _ := newTestModel(t)

	m = press(t, m, key('a'))
	m = typeText(t, m, "   ")
	m = press(t, m, enter)

	assert.Equal(t, modeForm, m.mode)
	assert.Equal(t, "Title cannot be empty", m.status)
}

func TestEditFlow(t *testing.T) {
	m, store := newTestModel(t)
	seed := &storage.Task{Title: "Draft", Description: "rough"}
	require.NoError(t, store.Insert(seed))
	m.reload()

	m = press(t, m, key('e'))
	assert.Equal(t, modeForm, m.mode)
	assert.Equal(t, "Draft", m.title.Value())
	assert.Equal(t, "rough", m.desc.Value())
	assert.Equal(t, seed.ID, m.form.taskID)

	m = typeText(t, m, " v2")
	m = press(t, m, enter)

	assert.Equal(t, modeList, m.mode)
	tasks, err := store.ListAll()
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, seed.ID, tasks[0].ID)
	assert.Equal(t, "Draft v2", tasks[0].Title)
	assert.Equal(t, "rough", tasks[0].Description)
}

func TestDatePickerFlow(t *testing.T) {
	m, store := newTestModel(t)

	m = press(t, m, key('a'))
	m = typeText(t, m, "Dentist")
	m = press(t, m, ctrlD)
	assert.Equal(t, modeDatePick, m.mode)

	m = typeText(t, m, "2026-09-01")
	m = press(t, m, enter)
	assert.Equal(t, modeTimePick, m.mode)

	m = typeText(t, m, "14:30")
	m = press(t, m, enter)
	assert.Equal(t, modeForm, m.mode)
	require.True(t, m.form.due.Valid)

	want := time.Date(2026, time.September, 1, 14, 30, 0, 0, time.Local)
	assert.Equal(t, want, m.form.due.Time)

	m = press(t, m, enter)
	tasks, err := store.ListAll()
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	require.True(t, tasks[0].Due.Valid)
	assert.Equal(t, want.UnixMilli(), tasks[0].Due.Time.UnixMilli())
}

func TestDatePickerRejectsGarbage(t *testing.T) {
	m, _ := newTestModel(t)

	m = press(t, m, key('a'))
	m = press(t, m, ctrlD)
	m = typeText(t, m, "tomorrow")
	m = press(t, m, enter)

	assert.Equal(t, modeDatePick, m.mode)
	assert.Contains(t, m.status, "invalid date")
}

func TestEmptyDateClearsDue(t *testing.T) {
	m, _ := newTestModel(t)

	m = press(t, m, key('a'))
	m.form.due = sql.NullTime{Time: time.Now().Add(time.Hour), Valid: true}

	m = press(t, m, ctrlD)
	m.picker.SetValue("")
	m = press(t, m, enter)

	// Straight back to the form, no time step.
	assert.Equal(t, modeForm, m.mode)
	assert.False(t, m.form.due.Valid)
}

func TestCancelledPickerLeavesDueUnchanged(t *testing.T) {
	m, _ := newTestModel(t)
	due := time.Date(2026, time.October, 5, 9, 0, 0, 0, time.Local)

	m = press(t, m, key('a'))
	m.form.due = sql.NullTime{Time: due, Valid: true}

	// Cancel at the date step.
	m = press(t, m, ctrlD)
	m = press(t, m, esc)
	assert.Equal(t, modeForm, m.mode)
	assert.Equal(t, due, m.form.due.Time)

	// Cancel at the time step.
	m = press(t, m, ctrlD)
	m = press(t, m, enter)
	require.Equal(t, modeTimePick, m.mode)
	m = press(t, m, esc)
	assert.Equal(t, modeForm, m.mode)
	assert.Equal(t, due, m.form.due.Time)
}

func TestToggleCompletion(t *testing.T) {
	m, store := newTestModel(t)
	require.NoError(t, store.Insert(&storage.Task{Title: "Flip me"}))
	m.reload()

	m = press(t, m, space)
	require.Len(t, m.tasks, 1)
	assert.True(t, m.tasks[0].Completed)

	m = press(t, m, space)
	require.Len(t, m.tasks, 1)
	assert.False(t, m.tasks[0].Completed)
}

func TestDeleteImmediate(t *testing.T) {
	m, store := newTestModel(t)
	require.NoError(t, store.Insert(&storage.Task{Title: "first"}))
	require.NoError(t, store.Insert(&storage.Task{Title: "second"}))
	m.reload()

	m = press(t, m, key('d'))

	// No confirmation step; the row is gone at once.
	assert.Equal(t, modeList, m.mode)
	require.Len(t, m.tasks, 1)
	assert.Equal(t, "second", m.tasks[0].Title)

	tasks, err := store.ListAll()
	require.NoError(t, err)
	assert.Len(t, tasks, 1)
}

func TestCursorMovement(t *testing.T) {
	m, store := newTestModel(t)
	for _, title := range []string{"one", "two", "three"} {
		require.NoError(t, store.Insert(&storage.Task{Title: title}))
	}
	m.reload()

	m = press(t, m, key('j'))
	m = press(t, m, key('j'))
	assert.Equal(t, 2, m.cursor)
	m = press(t, m, key('j'))
	assert.Equal(t, 2, m.cursor)
	m = press(t, m, key('k'))
	assert.Equal(t, 1, m.cursor)
}

func TestReadErrorReplacesList(t *testing.T) {
	m, store := newTestModel(t)
	require.NoError(t, store.Insert(&storage.Task{Title: "stranded"}))
	require.NoError(t, store.Close())

	m.reload()
	require.Error(t, m.loadErr)
	assert.True(t, storage.IsKind(m.loadErr, storage.KindRead))
	assert.Contains(t, m.View(), "Could not load tasks")
}

func TestWriteErrorShowsNotification(t *testing.T) {
	m, store := newTestModel(t)
	require.NoError(t, store.Insert(&storage.Task{Title: "doomed"}))
	m.reload()
	require.NoError(t, store.Close())

	m = press(t, m, key('d'))
	assert.Contains(t, m.status, "delete failed")
	require.Len(t, m.tasks, 1, "list stays as-is on a failed write")
}

func TestSubtitleShownInList(t *testing.T) {
	m, store := newTestModel(t)
	now := time.Date(2026, time.March, 14, 10, 0, 0, 0, time.Local)
	require.NoError(t, store.Insert(&storage.Task{
		Title:       "Pay rent",
		Description: "bank transfer",
		Due:         sql.NullTime{Time: now.Add(48 * time.Hour), Valid: true},
	}))
	m.reload()
	m.now = func() time.Time { return now }

	view := m.View()
	assert.Contains(t, view, "Pay rent")
	assert.Contains(t, view, "bank transfer")
	assert.Contains(t, view, "2 days remaining")
}
