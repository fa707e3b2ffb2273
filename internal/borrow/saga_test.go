package borrow

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunSaga_AllStepsSucceed(t *testing.T) {
	var order []string
	err := runSaga(context.Background(), []sagaStep{
		{name: "first", run: func(context.Context) error { order = append(order, "first"); return nil }},
		{name: "second", run: func(context.Context) error { order = append(order, "second"); return nil }},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second"}, order)
}

func TestRunSaga_FailureCompensatesCompletedStepsInReverse(t *testing.T) {
	var order []string
	boom := errors.New("boom")
	err := runSaga(context.Background(), []sagaStep{
		{
			name:       "a",
			run:        func(context.Context) error { order = append(order, "run a"); return nil },
			compensate: func(context.Context) error { order = append(order, "undo a"); return nil },
		},
		{
			name:       "b",
			run:        func(context.Context) error { order = append(order, "run b"); return nil },
			compensate: func(context.Context) error { order = append(order, "undo b"); return nil },
		},
		{
			name: "c",
			run:  func(context.Context) error { return boom },
		},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "c:")
	assert.Equal(t, []string{"run a", "run b", "undo b", "undo a"}, order)
}

func TestRunSaga_FirstStepFailureCompensatesNothing(t *testing.T) {
	var compensated bool
	err := runSaga(context.Background(), []sagaStep{
		{
			name:       "only",
			run:        func(context.Context) error { return errors.New("no") },
			compensate: func(context.Context) error { compensated = true; return nil },
		},
	})
	require.Error(t, err)
	assert.False(t, compensated, "a failed step must not compensate itself")
}

func TestRunSaga_StepsWithoutCompensatorAreSkipped(t *testing.T) {
	var order []string
	err := runSaga(context.Background(), []sagaStep{
		{name: "a", run: func(context.Context) error { return nil }},
		{
			name:       "b",
			run:        func(context.Context) error { return nil },
			compensate: func(context.Context) error { order = append(order, "undo b"); return nil },
		},
		{name: "c", run: func(context.Context) error { return errors.New("late failure") }},
	})
	require.Error(t, err)
	assert.Equal(t, []string{"undo b"}, order)
}

func TestRunSaga_CompensatorErrorIsSwallowed(t *testing.T) {
	boom := errors.New("boom")
	err := runSaga(context.Background(), []sagaStep{
		{
			name:       "a",
			run:        func(context.Context) error { return nil },
			compensate: func(context.Context) error { return errors.New("undo failed") },
		},
		{name: "b", run: func(context.Context) error { return boom }},
	})
	// The original failure surfaces, not the compensator's
	assert.ErrorIs(t, err, boom)
}

func TestRunSaga_PreservesDomainErrors(t *testing.T) {
	err := runSaga(context.Background(), []sagaStep{
		{name: "check", run: func(context.Context) error { return NewConflictError("taken") }},
	})
	var de *DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, ErrCodeConflict, de.Code)
}
