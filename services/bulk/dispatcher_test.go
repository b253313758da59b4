package bulk

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/elevateacademy/portal-api/utils/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTarget records every Apply call and fails the ids listed in failOn.
type fakeTarget struct {
	applied []uint
	failOn  map[uint]error
}

func (f *fakeTarget) Apply(_ context.Context, _ Action, id uint) error {
	f.applied = append(f.applied, id)
	if err, ok := f.failOn[id]; ok {
		return err
	}
	return nil
}

func TestRunAppliesActionToEveryID(t *testing.T) {
	target := &fakeTarget{}

	summary, err := Run(context.Background(), ActionApprove, []uint{1, 2, 3}, target, false)

	require.NoError(t, err)
	assert.Equal(t, 3, summary.SuccessCount)
	assert.Empty(t, summary.Failures)
	assert.Equal(t, []uint{1, 2, 3}, target.applied)
}

func TestRunContinuesPastFailures(t *testing.T) {
	target := &fakeTarget{
		failOn: map[uint]error{
			2: fmt.Errorf("%w: review not found", errs.ErrNotFound),
		},
	}

	summary, err := Run(context.Background(), ActionApprove, []uint{1, 2, 3}, target, false)

	require.NoError(t, err)
	assert.Equal(t, 2, summary.SuccessCount)
	require.Len(t, summary.Failures, 1)
	assert.Equal(t, uint(2), summary.Failures[0].ID)
	assert.NotEmpty(t, summary.Failures[0].Reason)
	assert.Equal(t, []uint{1, 2, 3}, target.applied, "the item after a failure is still attempted")
}

func TestRunUnconfirmedDeleteMutatesNothing(t *testing.T) {
	target := &fakeTarget{}

	summary, err := Run(context.Background(), ActionDelete, []uint{1, 2, 3}, target, false)

	assert.Nil(t, summary)
	assert.ErrorIs(t, err, errs.ErrConfirmationRequired)
	assert.Empty(t, target.applied, "confirmation gate must run before any Apply call")
}

func TestRunConfirmedDeleteProceeds(t *testing.T) {
	target := &fakeTarget{}

	summary, err := Run(context.Background(), ActionDelete, []uint{4, 5}, target, true)

	require.NoError(t, err)
	assert.Equal(t, 2, summary.SuccessCount)
	assert.Equal(t, []uint{4, 5}, target.applied)
}

func TestRunNonDestructiveIgnoresConfirmedFlag(t *testing.T) {
	target := &fakeTarget{}

	summary, err := Run(context.Background(), ActionPublish, []uint{1}, target, false)

	require.NoError(t, err)
	assert.Equal(t, 1, summary.SuccessCount)
}

func TestRunRejectsUnknownAction(t *testing.T) {
	target := &fakeTarget{}

	summary, err := Run(context.Background(), Action("explode"), []uint{1}, target, true)

	assert.Nil(t, summary)
	assert.ErrorIs(t, err, errs.ErrValidation)
	assert.Empty(t, target.applied)
}

func TestRunEmptySelection(t *testing.T) {
	target := &fakeTarget{}

	summary, err := Run(context.Background(), ActionArchive, []uint{}, target, false)

	require.NoError(t, err)
	assert.Equal(t, 0, summary.SuccessCount)
	assert.Empty(t, summary.Failures)
}

func TestRunSummaryCarriesAction(t *testing.T) {
	target := &fakeTarget{}

	summary, err := Run(context.Background(), ActionExport, []uint{1}, target, false)

	require.NoError(t, err)
	assert.Equal(t, ActionExport, summary.Action)
}

func TestRunNormalizesFailureReasons(t *testing.T) {
	target := &fakeTarget{
		failOn: map[uint]error{
			1: errors.New("driver: bad connection"),
		},
	}

	summary, err := Run(context.Background(), ActionApprove, []uint{1}, target, false)

	require.NoError(t, err)
	require.Len(t, summary.Failures, 1)
	assert.Equal(t, errs.Normalize(errors.New("driver: bad connection")).Error(), summary.Failures[0].Reason)
}
