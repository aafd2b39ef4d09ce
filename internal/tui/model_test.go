package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"muscledynamics/workout-builder/internal/client"
	"muscledynamics/workout-builder/internal/domain"
	"muscledynamics/workout-builder/internal/wizard"
)

type fakeAPI struct {
	readyErr  error
	vocabErr  error
	listErr   error
	exercises []domain.Exercise
	queries   int
}

func (f *fakeAPI) WaitReady(context.Context, client.HealthPolicy, func(int, error)) error {
	return f.readyErr
}

func (f *fakeAPI) Equipment(context.Context) ([]string, error) {
	if f.vocabErr != nil {
		return nil, f.vocabErr
	}
	return []string{"barbell", "dumbbell"}, nil
}

func (f *fakeAPI) Muscles(context.Context) ([]string, error) {
	if f.vocabErr != nil {
		return nil, f.vocabErr
	}
	return []string{"biceps", "chest"}, nil
}

func (f *fakeAPI) ListExercises(context.Context, domain.ExerciseFilter, int, int) (*domain.ExercisePage, error) {
	f.queries++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return &domain.ExercisePage{Exercises: f.exercises}, nil
}

func key(s string) tea.KeyMsg {
	switch s {
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// send applies msg and then runs any returned command whose message the
// model handles synchronously.
func send(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, cmd := m.Update(msg)
	m = next.(Model)
	for cmd != nil {
		out := cmd()
		switch out.(type) {
		case readyMsg, vocabMsg, wizardMsg:
			next, cmd = m.Update(out)
			m = next.(Model)
		default:
			return m
		}
	}
	return m
}

func startedModel(t *testing.T, api *fakeAPI) Model {
	t.Helper()
	m := New(context.Background(), api, client.HealthPolicy{}, 50, nil)
	return send(t, m, readyMsg{})
}

func TestSplashUntilReady(t *testing.T) {
	m := New(context.Background(), &fakeAPI{}, client.HealthPolicy{}, 50, nil)
	assert.Contains(t, m.View(), "Connecting")

	m = send(t, m, key("n"))
	assert.Equal(t, phaseSplash, m.phase)

	m = send(t, m, readyMsg{})
	assert.Equal(t, phaseReady, m.phase)
	assert.Equal(t, []string{"barbell", "dumbbell"}, m.equipmentOptions)
	assert.Contains(t, m.View(), "Select your equipment")
}

func TestUnavailableIsTerminalUntilRetry(t *testing.T) {
	api := &fakeAPI{readyErr: client.ErrNotReady}
	m := New(context.Background(), api, client.HealthPolicy{}, 50, nil)
	m = send(t, m, readyMsg{err: api.readyErr})

	assert.Equal(t, phaseUnavailable, m.phase)
	assert.Contains(t, m.View(), "not reachable")

	api.readyErr = nil
	m = send(t, m, key("r"))
	assert.Equal(t, phaseReady, m.phase)
}

func TestVocabularyFallsBackToBuiltIn(t *testing.T) {
	m := startedModel(t, &fakeAPI{vocabErr: errors.New("boom")})
	assert.Equal(t, domain.EquipmentNames(), m.equipmentOptions)
	assert.Equal(t, domain.MuscleNames(), m.muscleOptions)
}

func TestSelectionFlow(t *testing.T) {
	api := &fakeAPI{exercises: []domain.Exercise{
		{ID: "Barbell_Bench_Press", Name: "Barbell Bench Press", Category: "strength", PrimaryMuscles: []string{"chest"}},
		{ID: "Chest_Stretch", Name: "Chest Stretch", Category: "stretching", PrimaryMuscles: []string{"chest"}},
	}}
	m := startedModel(t, api)

	m = send(t, m, key("n"))
	assert.Equal(t, wizard.StepEquipment, m.state.Step)
	assert.Contains(t, m.View(), wizard.NoticeNeedEquipment)

	m = send(t, m, key(" "))
	assert.Equal(t, []string{"barbell"}, m.state.Equipment)
	m = send(t, m, key("n"))
	assert.Equal(t, wizard.StepMuscles, m.state.Step)

	m = send(t, m, key("down"))
	m = send(t, m, key(" "))
	assert.Equal(t, []string{"chest"}, m.state.Muscles)
	assert.Equal(t, 1, api.queries)
	assert.Equal(t, wizard.StatusLoaded, m.state.Status)

	m = send(t, m, key("n"))
	assert.Equal(t, wizard.StepExercises, m.state.Step)
	view := m.View()
	assert.Contains(t, view, "2 Exercises")
	assert.Contains(t, view, "Barbell Bench Press")

	m = send(t, m, key("c"))
	assert.Equal(t, "strength", m.state.Category)
	assert.Len(t, m.state.Visible(), 1)

	m = send(t, m, key("d"))
	assert.Len(t, m.state.Exercises, 1)
	assert.Equal(t, "Chest Stretch", m.state.Exercises[0].Name)

	m = send(t, m, key("g"))
	require.NotNil(t, m.state.Summary)
	assert.Contains(t, m.View(), "Total Sets")

	m = send(t, m, key("x"))
	assert.Equal(t, wizard.StepEquipment, m.state.Step)
	assert.Empty(t, m.state.Equipment)
	assert.Equal(t, 1, api.queries)
}

func TestQueryFailureShowsSampleWorkout(t *testing.T) {
	api := &fakeAPI{listErr: errors.New("connection refused")}
	m := startedModel(t, api)

	m = send(t, m, key(" "))
	m = send(t, m, key("n"))
	m = send(t, m, key(" "))
	m = send(t, m, key("n"))

	assert.True(t, m.state.Fallback)
	view := m.View()
	assert.Contains(t, view, "connection refused")
	assert.Contains(t, view, "Push Ups")
	assert.True(t, strings.Contains(view, "press r to retry") || strings.Contains(view, "Press r to retry"))

	api.listErr = nil
	m = send(t, m, key("r"))
	assert.Equal(t, 2, api.queries)
	assert.False(t, m.state.Fallback)
	assert.Equal(t, wizard.StatusLoaded, m.state.Status)
}

func TestQuitCancels(t *testing.T) {
	m := startedModel(t, &fakeAPI{})
	_, cmd := m.Update(key("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}
