// Package ui is the terminal front end: a task list for one user plus a chat
// with the assistant. All state changes follow a successful API response,
// except the user's own chat messages, which are shown immediately.
package ui

import (
	"context"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"todochat/dto"
	"todochat/model"
)

// API is the subset of the HTTP client the UI calls.
type API interface {
	ListTasks(ctx context.Context, email string) ([]model.Task, error)
	CreateTask(ctx context.Context, title, email string, name *string) (model.Task, error)
	UpdateTask(ctx context.Context, id string, update dto.UpdateTaskRequest) (model.Task, error)
	DeleteTask(ctx context.Context, id string) error
	Chat(ctx context.Context, email, message string) (string, error)
}

type mode int

const (
	modeList mode = iota
	modeAdd
	modeEdit
	modeChat
	modeEmail
)

type ChatRole string

const (
	RoleUser ChatRole = "user"
	RoleBot  ChatRole = "bot"
)

type ChatMessage struct {
	Role ChatRole
	Text string
}

type (
	tasksLoadedMsg struct {
		email string
		tasks []model.Task
		err   error
	}
	taskCreatedMsg struct {
		task model.Task
		err  error
	}
	taskUpdatedMsg struct {
		task model.Task
		err  error
	}
	taskDeletedMsg struct {
		id  string
		err error
	}
	chatReplyMsg struct {
		reply string
		err   error
	}
)

type Model struct {
	ctx    context.Context
	api    API
	logger *log.Logger
	keys   KeyMap
	help   help.Model

	email string
	name  *string

	tasks     []model.Task
	cursor    int
	loading   bool
	editingID string // at most one task is editable at a time

	chat        []ChatMessage
	chatPending int

	banner string

	mode  mode
	input textinput.Model

	width int
}

// NewModel returns the UI for the given user. name may be nil.
func NewModel(ctx context.Context, api API, email string, name *string, logger *log.Logger) Model {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	input := textinput.New()
	input.CharLimit = 500

	m := Model{
		ctx:    ctx,
		api:    api,
		logger: logger,
		keys:   DefaultKeyMap,
		help:   help.New(),
		email:  email,
		name:   name,
		tasks:  []model.Task{},
		input:  input,
	}
	m.loading = email != ""
	if email == "" {
		m.openInput(modeEmail, "", "you@example.com")
	}
	return m
}

func (m Model) Init() tea.Cmd {
	if m.email == "" {
		return textinput.Blink
	}
	return m.loadTasks()
}

// Tasks returns the tasks currently shown.
func (m Model) Tasks() []model.Task { return m.tasks }

// Transcript returns the chat messages in the order they were added.
func (m Model) Transcript() []ChatMessage { return m.chat }

// Banner returns the error banner text, empty when none is shown.
func (m Model) Banner() string { return m.banner }

// EditingID returns the id of the task being edited, if any.
func (m Model) EditingID() string { return m.editingID }

func (m Model) Email() string { return m.email }

func (m *Model) loadTasks() tea.Cmd {
	m.loading = true
	ctx, api, email := m.ctx, m.api, m.email
	return func() tea.Msg {
		tasks, err := api.ListTasks(ctx, email)
		return tasksLoadedMsg{email: email, tasks: tasks, err: err}
	}
}

func (m Model) createTask(title string) tea.Cmd {
	ctx, api, email, name := m.ctx, m.api, m.email, m.name
	return func() tea.Msg {
		task, err := api.CreateTask(ctx, title, email, name)
		return taskCreatedMsg{task: task, err: err}
	}
}

func (m Model) updateTask(id string, update dto.UpdateTaskRequest) tea.Cmd {
	ctx, api := m.ctx, m.api
	return func() tea.Msg {
		task, err := api.UpdateTask(ctx, id, update)
		return taskUpdatedMsg{task: task, err: err}
	}
}

func (m Model) deleteTask(id string) tea.Cmd {
	ctx, api := m.ctx, m.api
	return func() tea.Msg {
		err := api.DeleteTask(ctx, id)
		return taskDeletedMsg{id: id, err: err}
	}
}

func (m Model) sendChat(message string) tea.Cmd {
	ctx, api, email := m.ctx, m.api, m.email
	return func() tea.Msg {
		reply, err := api.Chat(ctx, email, message)
		return chatReplyMsg{reply: reply, err: err}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case tasksLoadedMsg:
		if msg.email != m.email {
			// A load for a previous user finished late.
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			m.logger.Error("failed to load tasks", "email", msg.email, "err", msg.err)
			m.banner = msg.err.Error()
			return m, nil
		}
		m.tasks = msg.tasks
		if m.tasks == nil {
			m.tasks = []model.Task{}
		}
		m.clampCursor()
		return m, nil

	case taskCreatedMsg:
		if msg.err != nil {
			m.logger.Error("failed to create task", "err", msg.err)
			return m, nil
		}
		if msg.task.UserEmail != m.email {
			return m, nil
		}
		m.tasks = append([]model.Task{msg.task}, m.tasks...)
		m.cursor = 0
		return m, nil

	case taskUpdatedMsg:
		if msg.err != nil {
			m.logger.Error("failed to update task", "err", msg.err)
			return m, nil
		}
		for i := range m.tasks {
			if m.tasks[i].ID == msg.task.ID {
				m.tasks[i] = msg.task
			}
		}
		if m.editingID == msg.task.ID {
			m.editingID = ""
			if m.mode == modeEdit {
				m.closeInput()
			}
		}
		return m, nil

	case taskDeletedMsg:
		if msg.err != nil {
			m.logger.Error("failed to delete task", "task", msg.id, "err", msg.err)
			return m, nil
		}
		kept := m.tasks[:0:0]
		for _, task := range m.tasks {
			if task.ID != msg.id {
				kept = append(kept, task)
			}
		}
		m.tasks = kept
		if m.editingID == msg.id {
			m.editingID = ""
			if m.mode == modeEdit {
				m.closeInput()
			}
		}
		m.clampCursor()
		return m, nil

	case chatReplyMsg:
		m.chatPending--
		if msg.err != nil {
			m.logger.Error("chat failed", "err", msg.err)
			return m, nil
		}
		m.chat = append(m.chat, ChatMessage{Role: RoleBot, Text: msg.reply})
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.ForceQuit) {
			return m, tea.Quit
		}
		if m.mode == modeList {
			return m.updateList(msg)
		}
		return m.updateInput(msg)
	}

	if m.mode != modeList {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Cancel):
		m.banner = ""

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.tasks)-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.Add):
		cmd := m.openInput(modeAdd, "", "Add a task...")
		return m, cmd

	case key.Matches(msg, m.keys.Edit):
		task, ok := m.selected()
		if !ok {
			return m, nil
		}
		m.editingID = task.ID
		cmd := m.openInput(modeEdit, task.Title, "")
		return m, cmd

	case key.Matches(msg, m.keys.Toggle):
		task, ok := m.selected()
		if !ok {
			return m, nil
		}
		completed := !task.Completed
		return m, m.updateTask(task.ID, dto.UpdateTaskRequest{Completed: &completed})

	case key.Matches(msg, m.keys.Delete):
		task, ok := m.selected()
		if !ok {
			return m, nil
		}
		return m, m.deleteTask(task.ID)

	case key.Matches(msg, m.keys.Chat):
		cmd := m.openInput(modeChat, "", "Ask about your tasks...")
		return m, cmd

	case key.Matches(msg, m.keys.Email):
		cmd := m.openInput(modeEmail, m.email, "you@example.com")
		return m, cmd

	case key.Matches(msg, m.keys.Reload):
		if m.email != "" {
			cmd := m.loadTasks()
			return m, cmd
		}
	}
	return m, nil
}

func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		if m.mode == modeEdit {
			m.editingID = ""
		}
		if m.mode == modeEmail && m.email == "" {
			return m, nil
		}
		m.closeInput()
		return m, nil

	case key.Matches(msg, m.keys.Submit):
		return m.submit()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	value := m.input.Value()
	trimmed := strings.TrimSpace(value)

	switch m.mode {
	case modeAdd:
		if trimmed == "" {
			return m, nil
		}
		m.closeInput()
		return m, m.createTask(trimmed)

	case modeEdit:
		if trimmed == "" || m.editingID == "" {
			return m, nil
		}
		// Edit state is cleared when the update succeeds.
		return m, m.updateTask(m.editingID, dto.UpdateTaskRequest{Title: &trimmed})

	case modeChat:
		if trimmed == "" {
			return m, nil
		}
		m.chat = append(m.chat, ChatMessage{Role: RoleUser, Text: trimmed})
		m.chatPending++
		m.input.Reset()
		return m, m.sendChat(trimmed)

	case modeEmail:
		if trimmed == "" {
			return m, nil
		}
		m.closeInput()
		if trimmed == m.email {
			return m, nil
		}
		m.email = trimmed
		m.editingID = ""
		m.banner = ""
		cmd := m.loadTasks()
		return m, cmd
	}
	return m, nil
}

func (m *Model) openInput(next mode, value, placeholder string) tea.Cmd {
	m.mode = next
	m.input.Reset()
	m.input.SetValue(value)
	m.input.CursorEnd()
	m.input.Placeholder = placeholder
	return m.input.Focus()
}

func (m *Model) closeInput() {
	m.mode = modeList
	m.input.Blur()
	m.input.Reset()
}

func (m Model) selected() (model.Task, bool) {
	if m.cursor < 0 || m.cursor >= len(m.tasks) {
		return model.Task{}, false
	}
	return m.tasks[m.cursor], true
}

func (m *Model) clampCursor() {
	if m.cursor >= len(m.tasks) {
		m.cursor = len(m.tasks) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}
