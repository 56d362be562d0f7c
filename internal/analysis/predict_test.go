package analysis

import (
	"testing"

	"github.com/dmitrijs2005/sleepdiary/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func retarget(at, target uint64) models.Entry {
	return models.Entry{Timestamp: at, Event: models.Retarget, Related: target}
}

func TestTargetTimestamp(t *testing.T) {
	assert.Equal(t, uint64(0), TargetTimestamp(nil))
	assert.Equal(t, uint64(0), TargetTimestamp([]models.Entry{entry(models.Wake, t0)}))

	entries := []models.Entry{
		retarget(t0, t0+day),
		entry(models.Wake, t0+hour),
		retarget(t0+2*hour, t0+2*day),
		entry(models.Sleep, t0+3*hour),
	}
	assert.Equal(t, t0+2*day, TargetTimestamp(entries))

	cleared := append(entries, retarget(t0+4*hour, 0))
	assert.Equal(t, uint64(0), TargetTimestamp(cleared))
}

func TestMode(t *testing.T) {
	_, ok := Mode(nil)
	assert.False(t, ok)

	_, ok = Mode([]models.Entry{entry(models.Food, t0)})
	assert.False(t, ok)

	kind, ok := Mode([]models.Entry{
		entry(models.Wake, t0),
		entry(models.Sleep, t0+hour),
		entry(models.Food, t0+2*hour),
	})
	assert.True(t, ok)
	assert.Equal(t, models.Sleep, kind)
}

func TestSuggestedDayLengths_NewUserWithTarget(t *testing.T) {
	got := SuggestedDayLengths(PredictionInput{
		Entries:            []models.Entry{retarget(t0, t0+10*day)},
		PreferredDayLength: day,
		Now:                t0,
	})

	require.Len(t, got, 1)
	assert.InDelta(t, 10.0, got[0].DaysRemaining, 1e-9)
	assert.Equal(t, float64(day), got[0].DayLength)
	assert.Equal(t, t0, got[0].BedTime)
}

func TestSuggestedDayLengths_NothingToSay(t *testing.T) {
	tests := []struct {
		name string
		in   PredictionInput
	}{
		{name: "empty diary", in: PredictionInput{Now: t0}},
		{
			name: "no target and no day length",
			in:   PredictionInput{Entries: []models.Entry{entry(models.Wake, t0)}, Now: t0 + hour},
		},
		{
			name: "target before latest event",
			in: PredictionInput{
				Entries:            []models.Entry{entry(models.Wake, t0), retarget(t0+hour, t0-hour)},
				PreferredDayLength: day,
				Now:                t0 + 3*hour,
			},
		},
		{
			name: "new user target in the past",
			in: PredictionInput{
				Entries:            []models.Entry{retarget(t0, t0-day)},
				PreferredDayLength: day,
				Now:                t0,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Nil(t, SuggestedDayLengths(tt.in))
		})
	}
}

func TestSuggestedDayLengths_NoTarget(t *testing.T) {
	got := SuggestedDayLengths(PredictionInput{
		Entries:            []models.Entry{entry(models.Wake, t0)},
		PreferredDayLength: day,
		Now:                t0 + hour,
	})

	require.Len(t, got, 1)
	assert.Equal(t, Suggestion{BedTime: t0 + day, DayLength: float64(day)}, got[0])
}

func TestSuggestedDayLengths_LatestAsleepAddsSleepDuration(t *testing.T) {
	got := SuggestedDayLengths(PredictionInput{
		Entries: []models.Entry{
			entry(models.Wake, t0),
			entry(models.Sleep, t0+16*hour),
			entry(models.Wake, t0+24*hour),
			entry(models.Sleep, t0+40*hour),
		},
		PreferredDayLength: day,
		Now:                t0 + 41*hour,
	})

	require.Len(t, got, 1)
	// latest = 40h + 8h sleep; bed time = latest + 24h - 8h.
	assert.Equal(t, t0+64*hour, got[0].BedTime)
}

func TestSuggestedDayLengths_FloorAndCeiling(t *testing.T) {
	got := SuggestedDayLengths(PredictionInput{
		Entries: []models.Entry{
			entry(models.Wake, t0),
			retarget(t0+hour, t0+3*day+12*hour),
		},
		PreferredDayLength: day,
		Now:                t0 + 2*hour,
	})

	require.Len(t, got, 2)
	remaining := float64(3*day + 12*hour)

	assert.Equal(t, 3.0, got[0].DaysRemaining)
	assert.InDelta(t, remaining/3, got[0].DayLength, 1e-6)
	assert.Equal(t, t0+uint64(remaining/3+0.5), got[0].BedTime)

	assert.Equal(t, 4.0, got[1].DaysRemaining)
	assert.InDelta(t, remaining/4, got[1].DayLength, 1e-6)
}

func TestSuggestedDayLengths_WholeDaysDeduplicated(t *testing.T) {
	got := SuggestedDayLengths(PredictionInput{
		Entries: []models.Entry{
			entry(models.Wake, t0),
			retarget(t0+hour, t0+3*day),
		},
		PreferredDayLength: day,
		Now:                t0 + 2*hour,
	})

	require.Len(t, got, 1)
	assert.Equal(t, 3.0, got[0].DaysRemaining)
	assert.Equal(t, float64(day), got[0].DayLength)
	assert.Equal(t, t0+day, got[0].BedTime)
}

func TestSuggestedDayLengths_LessThanOneDayExcludesZero(t *testing.T) {
	got := SuggestedDayLengths(PredictionInput{
		Entries: []models.Entry{
			entry(models.Wake, t0),
			retarget(t0+hour, t0+12*hour),
		},
		PreferredDayLength: day,
		Now:                t0 + 2*hour,
	})

	require.Len(t, got, 1)
	assert.Equal(t, 1.0, got[0].DaysRemaining)
	assert.Equal(t, float64(12*hour), got[0].DayLength)
}

func TestSuggestedDayLengths_UsesMeasuredDayLength(t *testing.T) {
	got := SuggestedDayLengths(PredictionInput{
		Entries: []models.Entry{
			entry(models.Wake, t0),
			entry(models.Sleep, t0+16*hour),
			entry(models.Wake, t0+25*hour),
		},
		Now: t0 + 26*hour,
	})

	require.Len(t, got, 1)
	assert.Equal(t, float64(25*hour), got[0].DayLength)
	// latest = 25h (awake), sleep = 9h: 25h + 25h - 9h.
	assert.Equal(t, t0+41*hour, got[0].BedTime)
}

func TestAnalyse(t *testing.T) {
	entries := []models.Entry{
		entry(models.Wake, t0),
		entry(models.Sleep, t0+16*hour),
		entry(models.Wake, t0+24*hour),
	}
	r := Analyse(entries, day, t0+25*hour)

	assert.Len(t, r.Periods, 3)
	assert.True(t, r.HasMode)
	assert.Equal(t, models.Wake, r.Mode)
	assert.Equal(t, float64(24*hour), r.Day.RecommendedAverage)
	assert.Equal(t, float64(8*hour), r.Sleep.RecommendedAverage)
	require.Len(t, r.Suggestions, 1)
}
