package workout

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDayNumber(t *testing.T) {
	for i, name := range []string{"sunday", "monday", "tuesday", "wednesday", "thursday", "friday", "saturday"} {
		n, ok := DayNumber(name)
		assert.True(t, ok)
		assert.Equal(t, i, n)
		assert.Equal(t, name, DayName(i))
	}

	n, ok := DayNumber("MONDAY")
	assert.True(t, ok)
	assert.Equal(t, 1, n)

	_, ok = DayNumber("someday")
	assert.False(t, ok)

	assert.Equal(t, "", DayName(-1))
	assert.Equal(t, "", DayName(7))
}

func TestValidateBounds(t *testing.T) {
	assert.NoError(t, ValidateReps(1))
	assert.NoError(t, ValidateReps(100))
	assert.Error(t, ValidateReps(0))
	assert.Error(t, ValidateReps(101))

	assert.NoError(t, ValidateLoad(0))
	assert.NoError(t, ValidateLoad(2000))
	assert.Error(t, ValidateLoad(-0.5))
	assert.Error(t, ValidateLoad(2000.5))

	assert.NoError(t, ValidateRest(0))
	assert.NoError(t, ValidateRest(600))
	assert.Error(t, ValidateRest(-1))
	assert.Error(t, ValidateRest(601))

	assert.NoError(t, ValidateHistoryDays(1))
	assert.NoError(t, ValidateHistoryDays(365))
	assert.Error(t, ValidateHistoryDays(0))
	assert.Error(t, ValidateHistoryDays(366))
}

func TestValidatePlanItem(t *testing.T) {
	assert.NoError(t, ValidatePlanItem(PlanSetItem{Exercise: "bench press", Reps: 5, Load: 185, Rest: 120}))
	assert.Error(t, ValidatePlanItem(PlanSetItem{Exercise: "", Reps: 5, Load: 185}))
	assert.Error(t, ValidatePlanItem(PlanSetItem{Exercise: "bench press", Reps: 5, Load: 185, Rest: 700}))
}

func TestValidateSplitItem(t *testing.T) {
	assert.NoError(t, ValidateSplitItem(SplitSetItem{Exercise: "squat", Reps: 5, Load: 0.85, Relative: true}))
	assert.Error(t, ValidateSplitItem(SplitSetItem{Exercise: "", Reps: 5, Load: 100}))
}
