// Package tui is the terminal front end of the workout builder. It waits for
// the API, then walks the user through the selection flow in internal/wizard.
package tui

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"muscledynamics/workout-builder/internal/client"
	"muscledynamics/workout-builder/internal/domain"
	"muscledynamics/workout-builder/internal/wizard"
)

// API is the part of *client.Client the front end needs.
type API interface {
	wizard.Fetcher
	WaitReady(ctx context.Context, policy client.HealthPolicy, onAttempt func(attempt int, err error)) error
	Equipment(ctx context.Context) ([]string, error)
	Muscles(ctx context.Context) ([]string, error)
}

type phase int

const (
	phaseSplash phase = iota
	phaseUnavailable
	phaseReady
)

// maxCategoryTabs caps the category tabs shown above the exercise list.
const maxCategoryTabs = 5

type (
	readyMsg struct{ err error }
	vocabMsg struct {
		equipment []string
		muscles   []string
	}
	wizardMsg struct{ action wizard.Action }
)

// Model is the bubbletea model.
type Model struct {
	ctx    context.Context
	api    API
	ctrl   *wizard.Controller
	policy client.HealthPolicy
	logger *zap.Logger
	styles Styles

	spinner spinner.Model
	phase   phase
	err     error

	equipmentOptions []string
	muscleOptions    []string
	cursor           int
	state            wizard.State
	width            int
}

// New builds the front end. pageLimit is the number of exercises requested
// per query.
func New(ctx context.Context, api API, policy client.HealthPolicy, pageLimit int, logger *zap.Logger) Model {
	if logger == nil {
		logger = zap.NewNop()
	}
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(accent)

	ctrl := wizard.NewController(api, pageLimit, logger)
	return Model{
		ctx:     ctx,
		api:     api,
		ctrl:    ctrl,
		policy:  policy,
		logger:  logger,
		styles:  DefaultStyles(),
		spinner: sp,
		state:   ctrl.State(),
	}
}

// Init starts the spinner and the readiness probe.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.waitReady())
}

// Close cancels any exercise query still running.
func (m Model) Close() {
	m.ctrl.Close()
}

func (m Model) waitReady() tea.Cmd {
	api, ctx, policy, logger := m.api, m.ctx, m.policy, m.logger
	return func() tea.Msg {
		err := api.WaitReady(ctx, policy, func(attempt int, err error) {
			logger.Debug("Waiting for API", zap.Int("attempt", attempt), zap.Error(err))
		})
		return readyMsg{err: err}
	}
}

// loadVocabulary fetches both option lists, falling back to the built-in
// vocabulary for any list that cannot be loaded.
func (m Model) loadVocabulary() tea.Cmd {
	api, ctx, logger := m.api, m.ctx, m.logger
	return func() tea.Msg {
		equipment, err := api.Equipment(ctx)
		if err != nil || len(equipment) == 0 {
			logger.Warn("Using built-in equipment list", zap.Error(err))
			equipment = domain.EquipmentNames()
		}
		muscles, err := api.Muscles(ctx)
		if err != nil || len(muscles) == 0 {
			logger.Warn("Using built-in muscle list", zap.Error(err))
			muscles = domain.MuscleNames()
		}
		return vocabMsg{equipment: equipment, muscles: muscles}
	}
}

// dispatch feeds an action to the controller and schedules any query it issues.
func (m Model) dispatch(a wizard.Action) (Model, tea.Cmd) {
	prevStep := m.state.Step
	state, req := m.ctrl.Dispatch(a)
	m.state = state
	if state.Step != prevStep {
		m.cursor = 0
	}
	m.clampCursor()
	return m, m.execute(req)
}

func (m Model) execute(req *wizard.Request) tea.Cmd {
	if req == nil {
		return nil
	}
	ctrl := m.ctrl
	return func() tea.Msg {
		return wizardMsg{action: ctrl.Execute(req)}
	}
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case readyMsg:
		if msg.err != nil {
			m.phase = phaseUnavailable
			m.err = msg.err
			return m, nil
		}
		m.phase = phaseReady
		m.err = nil
		return m, m.loadVocabulary()

	case vocabMsg:
		m.equipmentOptions = msg.equipment
		m.muscleOptions = msg.muscles
		return m, nil

	case wizardMsg:
		return m.dispatch(msg.action)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" || key == "q" {
		m.ctrl.Close()
		return m, tea.Quit
	}

	switch m.phase {
	case phaseSplash:
		return m, nil
	case phaseUnavailable:
		if key == "r" {
			m.phase = phaseSplash
			m.err = nil
			return m, m.waitReady()
		}
		return m, nil
	}

	switch key {
	case "up", "k":
		m.cursor--
		m.clampCursor()
		return m, nil
	case "down", "j":
		m.cursor++
		m.clampCursor()
		return m, nil
	case "n", "right", "tab":
		return m.dispatch(wizard.Next{})
	case "b", "left", "shift+tab":
		return m.dispatch(wizard.Back{})
	case "x":
		return m.dispatch(wizard.Reset{})
	}

	switch m.state.Step {
	case wizard.StepEquipment:
		if key == " " || key == "enter" {
			if opt, ok := at(m.equipmentOptions, m.cursor); ok {
				return m.dispatch(wizard.SelectEquipment{Equipment: wizard.Toggle(m.state.Equipment, opt)})
			}
		}
	case wizard.StepMuscles:
		if key == " " || key == "enter" {
			if opt, ok := at(m.muscleOptions, m.cursor); ok {
				return m.dispatch(wizard.SelectMuscles{Muscles: wizard.Toggle(m.state.Muscles, opt)})
			}
		}
	case wizard.StepExercises:
		switch key {
		case "s":
			return m.dispatch(wizard.Shuffle{})
		case "c":
			return m.dispatch(wizard.FilterCategory{Category: nextCategory(m.state)})
		case "d", "delete":
			if ex, ok := at(m.state.Visible(), m.cursor); ok {
				return m.dispatch(wizard.RemoveExercise{ID: ex.Key()})
			}
		case "g":
			return m.dispatch(wizard.GenerateWorkout{})
		case "r":
			state, req := m.ctrl.Retry()
			m.state = state
			return m, m.execute(req)
		}
	}
	return m, nil
}

func (m *Model) clampCursor() {
	n := m.optionCount()
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m Model) optionCount() int {
	switch m.state.Step {
	case wizard.StepEquipment:
		return len(m.equipmentOptions)
	case wizard.StepMuscles:
		return len(m.muscleOptions)
	default:
		return len(m.state.Visible())
	}
}

func at[T any](list []T, i int) (T, bool) {
	var zero T
	if i < 0 || i >= len(list) {
		return zero, false
	}
	return list[i], true
}

// nextCategory cycles through the first few category tabs.
func nextCategory(s wizard.State) string {
	tabs := s.Categories()
	if len(tabs) > maxCategoryTabs {
		tabs = tabs[:maxCategoryTabs]
	}
	i := slices.IndexFunc(tabs, func(c string) bool { return strings.EqualFold(c, s.Category) })
	return tabs[(i+1)%len(tabs)]
}

// View renders the current screen.
func (m Model) View() string {
	switch m.phase {
	case phaseSplash:
		return fmt.Sprintf("\n  %s Connecting to the exercise API...\n", m.spinner.View())
	case phaseUnavailable:
		return "\n  " + m.styles.Error.Render("The exercise API is not reachable.") + "\n  " +
			m.styles.Muted.Render(m.err.Error()) + "\n" +
			m.styles.Help.Render("  r retry • q quit") + "\n"
	}

	var b strings.Builder
	b.WriteString(m.styles.Title.Render("Muscle Dynamics Workout Builder"))
	b.WriteString("\n")
	b.WriteString(m.renderSteps())
	b.WriteString("\n\n")

	switch m.state.Step {
	case wizard.StepEquipment:
		b.WriteString("Select your equipment:\n\n")
		b.WriteString(m.renderOptions(m.equipmentOptions, m.state.Equipment))
	case wizard.StepMuscles:
		b.WriteString("Select target muscles:\n\n")
		b.WriteString(m.renderOptions(m.muscleOptions, m.state.Muscles))
	case wizard.StepExercises:
		b.WriteString(m.renderExercises())
	}

	if m.state.Notice != "" {
		b.WriteString("\n")
		b.WriteString(m.styles.Notice.Render(m.state.Notice))
		b.WriteString("\n")
	}
	b.WriteString(m.styles.Help.Render(m.helpLine()))
	b.WriteString("\n")
	return b.String()
}

func (m Model) renderSteps() string {
	steps := []wizard.Step{wizard.StepEquipment, wizard.StepMuscles, wizard.StepExercises}
	parts := make([]string, len(steps))
	for i, step := range steps {
		label := fmt.Sprintf("%d %s", i+1, step)
		switch {
		case step < m.state.Step:
			parts[i] = m.styles.StepDone.Render("✓ " + label)
		case step == m.state.Step:
			parts[i] = m.styles.StepNow.Render(label)
		default:
			parts[i] = m.styles.StepTodo.Render(label)
		}
	}
	return strings.Join(parts, m.styles.Muted.Render("  ›  "))
}

func (m Model) renderOptions(options, selected []string) string {
	if len(options) == 0 {
		return "  " + m.spinner.View() + " Loading options...\n"
	}
	var b strings.Builder
	for i, opt := range options {
		cursor := "  "
		if i == m.cursor {
			cursor = m.styles.Cursor.Render("> ")
		}
		box := "[ ]"
		if slices.Contains(selected, opt) {
			box = m.styles.Checked.Render("[x]")
		}
		fmt.Fprintf(&b, "%s%s %s\n", cursor, box, opt)
	}
	return b.String()
}

func (m Model) renderExercises() string {
	var b strings.Builder
	s := m.state

	if s.Status == wizard.StatusLoading {
		fmt.Fprintf(&b, "  %s Loading exercises...\n", m.spinner.View())
		return b.String()
	}
	if s.Fallback {
		b.WriteString(m.styles.Error.Render("Could not load exercises: " + errString(s.Err)))
		b.WriteString("\n")
		b.WriteString(m.styles.Muted.Render("Showing a sample workout. Press r to retry."))
		b.WriteString("\n\n")
	}

	visible := s.Visible()
	tabs := s.Categories()
	if len(tabs) > maxCategoryTabs {
		tabs = tabs[:maxCategoryTabs]
	}
	for i, tab := range tabs {
		if strings.EqualFold(tab, s.Category) {
			tabs[i] = m.styles.StepNow.Render(tab)
		} else {
			tabs[i] = m.styles.Muted.Render(tab)
		}
	}
	fmt.Fprintf(&b, "%d Exercises  Filter: %s\n\n", len(visible), strings.Join(tabs, " "))

	if len(visible) == 0 {
		b.WriteString(m.styles.Muted.Render("No exercises match this selection. Go back to adjust it, or press r to retry."))
		b.WriteString("\n")
	}
	for i, ex := range visible {
		cursor := "  "
		if i == m.cursor {
			cursor = m.styles.Cursor.Render("> ")
		}
		detail := strings.Join(ex.PrimaryMuscles, ", ")
		if ex.Equipment != "" {
			detail += " • " + ex.Equipment
		}
		if ex.Level != "" {
			detail += " • " + ex.Level
		}
		fmt.Fprintf(&b, "%s%s  %s\n", cursor, ex.Name, m.styles.Muted.Render(detail))
	}

	if s.Summary != nil {
		b.WriteString("\n")
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
			m.styles.Stat.Render(fmt.Sprintf("Exercises\n%d", s.Summary.TotalExercises)),
			m.styles.Stat.Render(fmt.Sprintf("Total Sets\n%d", s.Summary.TotalSets)),
			m.styles.Stat.Render(fmt.Sprintf("Est. Time\n%d min", s.Summary.EstimatedTimeMinutes)),
			m.styles.Stat.Render(fmt.Sprintf("Calories\n%d", s.Summary.CaloriesEstimate)),
		))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) helpLine() string {
	switch m.state.Step {
	case wizard.StepExercises:
		return "↑/↓ move • s shuffle • c category • d remove • g generate • r retry • b back • x reset • q quit"
	default:
		return "↑/↓ move • space toggle • n next • b back • x reset • q quit"
	}
}

func errString(err error) string {
	if err == nil {
		return "unknown error"
	}
	return err.Error()
}
