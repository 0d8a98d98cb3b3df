package draft

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorMatchesKindAndReason(t *testing.T) {
	err := fmt.Errorf("save picks: %w", ValidationError(ErrWrongCount, "got=3 want=4"))

	assert.ErrorIs(t, err, ErrWrongCount)
	assert.ErrorIs(t, err, ErrValidation)
	assert.NotErrorIs(t, err, ErrBasketDuplicate)
	assert.NotErrorIs(t, err, ErrState)

	kind, reason, ok := ReasonOf(err)
	require.True(t, ok)
	assert.Equal(t, KindValidation, kind)
	assert.Equal(t, ReasonWrongCount, reason)
}

func TestBudgetExceededReportsOverage(t *testing.T) {
	err := BudgetExceeded(100, 115)

	var de *Error
	require.ErrorAs(t, err, &de)
	assert.Equal(t, int64(15), de.Overage)
	assert.Contains(t, err.Error(), "budget exceeded by 15")
	assert.Contains(t, err.Error(), "budget=100 spent=115")
}

func TestPersistenceErrorKeepsCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := PersistenceError(cause)

	assert.ErrorIs(t, err, ErrPersistence)
	assert.ErrorIs(t, err, cause)
	assert.Nil(t, PersistenceError(nil))

	typed := ValidationError(ErrWrongCount, "x")
	assert.Same(t, typed, PersistenceError(typed))
}
