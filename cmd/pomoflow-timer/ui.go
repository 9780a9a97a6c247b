package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/terraincognita07/pomoflow/internal/client"
	"github.com/terraincognita07/pomoflow/internal/models"
)

const opTimeout = 15 * time.Second

var (
	focusColor  = lipgloss.Color("9")
	breakColor  = lipgloss.Color("10")
	pausedColor = lipgloss.Color("11")
	subtleColor = lipgloss.Color("8")

	titleStyle    = lipgloss.NewStyle().Bold(true).MarginBottom(1)
	selectedStyle = lipgloss.NewStyle().Bold(true).Reverse(true)
	doneStyle     = lipgloss.NewStyle().Foreground(subtleColor).Strikethrough(true)
	hintStyle     = lipgloss.NewStyle().Foreground(subtleColor).MarginTop(1)
	errStyle      = lipgloss.NewStyle().Foreground(focusColor).MarginTop(1)
)

type model struct {
	resolver *client.Resolver
	tasks    *client.TaskStore
	cycles   *client.CycleCounter
	projects *client.ProjectStore
	session  *client.Session

	list   []models.Task
	cursor int

	input  textinput.Model
	adding bool

	width   int
	height  int
	lastErr string
}

func newModel(resolver *client.Resolver, tasks *client.TaskStore, cycles *client.CycleCounter, projects *client.ProjectStore, session *client.Session) model {
	input := textinput.New()
	input.Placeholder = "What are you working on?"
	input.CharLimit = 200
	return model{
		resolver: resolver,
		tasks:    tasks,
		cycles:   cycles,
		projects: projects,
		session:  session,
		list:     tasks.Tasks(),
		input:    input,
	}
}

type tickMsg struct{}
type advancedMsg struct{}
type tasksChangedMsg struct{ err error }

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg { return tickMsg{} })
}

// advanceCmd runs the session tick off the event loop so an interval
// boundary's network calls never freeze the ui.
func advanceCmd(session *client.Session) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()
		session.Tick(ctx)
		return advancedMsg{}
	}
}

func taskCmd(op func(context.Context) error) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()
		return tasksChangedMsg{err: op(ctx)}
	}
}

func (m model) Init() tea.Cmd {
	return tickCmd()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tickMsg:
		return m, tea.Batch(advanceCmd(m.session), tickCmd())

	case advancedMsg:
		m.list = m.tasks.Tasks()
		if err := m.session.Err(); err != nil {
			m.lastErr = err.Error()
		}
		return m, nil

	case tasksChangedMsg:
		m.list = m.tasks.Tasks()
		if m.cursor >= len(m.list) {
			m.cursor = len(m.list) - 1
		}
		if m.cursor < 0 {
			m.cursor = 0
		}
		if msg.err != nil {
			m.lastErr = msg.err.Error()
		} else {
			m.lastErr = ""
		}
		return m, nil

	case tea.KeyMsg:
		if m.adding {
			return m.updateAdding(msg)
		}
		return m.updateBrowsing(msg)
	}

	return m, nil
}

func (m model) updateAdding(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		text := strings.TrimSpace(m.input.Value())
		m.adding = false
		m.input.Reset()
		m.input.Blur()
		if text == "" {
			return m, nil
		}
		return m, taskCmd(func(ctx context.Context) error {
			_, err := m.tasks.Create(ctx, text, 1, nil)
			return err
		})
	case "esc":
		m.adding = false
		m.input.Reset()
		m.input.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m model) updateBrowsing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "j", "down":
		if m.cursor < len(m.list)-1 {
			m.cursor++
		}

	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}

	case "a":
		m.adding = true
		m.input.Focus()
		return m, textinput.Blink

	case " ", "s":
		if m.session.Running() {
			m.session.Pause()
		} else {
			m.session.Start()
		}

	case "f":
		m.session.SwitchMode(client.StateFocus)

	case "b":
		m.session.SwitchMode(client.StateShortBreak)

	case "B":
		m.session.SwitchMode(client.StateLongBreak)

	case "enter":
		if len(m.list) > 0 {
			m.session.SelectTask(m.list[m.cursor].ID)
		}

	case "c":
		m.session.SelectTask("")

	case "x":
		if len(m.list) > 0 {
			id := m.list[m.cursor].ID
			return m, taskCmd(func(ctx context.Context) error {
				return m.tasks.ToggleCompleted(ctx, id)
			})
		}

	case "d":
		if len(m.list) > 0 {
			id := m.list[m.cursor].ID
			return m, taskCmd(func(ctx context.Context) error {
				return m.tasks.Delete(ctx, id)
			})
		}
	}
	return m, nil
}

func (m model) View() string {
	var sections []string

	header := "Pomoflow"
	if m.resolver.IsAuthenticated() {
		if _, principal := m.resolver.State(); principal != nil {
			header += " · " + principal.Username
		}
	} else {
		header += " · guest"
	}
	sections = append(sections, titleStyle.Render(header))

	sections = append(sections, m.renderTimer())
	sections = append(sections, fmt.Sprintf("Cycles today: %d", m.cycles.Cycles()))
	sections = append(sections, m.renderTasks())

	if m.adding {
		sections = append(sections, "\nNew task: "+m.input.View())
	}

	if m.lastErr != "" {
		sections = append(sections, errStyle.Render(m.lastErr))
	}

	hint := "space start/pause · f/b/B mode · a add · enter pick · x done · d delete · q quit"
	if m.adding {
		hint = "enter save · esc cancel"
	}
	sections = append(sections, hintStyle.Render(hint))

	return strings.Join(sections, "\n")
}

func (m model) renderTimer() string {
	remaining := m.session.Remaining()
	minutes := int(remaining.Minutes())
	seconds := int(remaining.Seconds()) % 60

	color := focusColor
	label := strings.ToUpper(m.session.State().String())
	if m.session.State() != client.StateFocus {
		color = breakColor
	}
	if !m.session.Running() {
		color = pausedColor
		label += " · paused"
	}

	clock := lipgloss.NewStyle().
		Bold(true).
		Foreground(color).
		Padding(0, 3).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(color).
		Render(fmt.Sprintf("%02d:%02d", minutes, seconds))

	return lipgloss.JoinVertical(lipgloss.Center,
		lipgloss.NewStyle().Bold(true).Foreground(color).Render(label),
		clock,
	)
}

func (m model) projectName(projectID *string) string {
	if projectID == nil {
		return ""
	}
	for _, project := range m.projects.Projects() {
		if project.ID == *projectID {
			return project.Name
		}
	}
	return ""
}

func (m model) renderTasks() string {
	if len(m.list) == 0 {
		return hintStyle.Render("No tasks yet. Press a to add one.")
	}

	var lines []string
	for index, task := range m.list {
		marker := "[ ]"
		if task.Completed {
			marker = "[x]"
		}
		line := fmt.Sprintf("%s %s (%d/%d)", marker, task.Text, task.PomodorosCompleted, task.Pomodoros)
		if name := m.projectName(task.ProjectID); name != "" {
			line += " · " + name
		}

		style := lipgloss.NewStyle()
		if task.Completed {
			style = doneStyle
		}
		if index == m.cursor {
			style = selectedStyle
		}

		cursor := "  "
		if index == m.cursor {
			cursor = "> "
		}
		lines = append(lines, cursor+style.Render(line))
	}
	return strings.Join(lines, "\n")
}
