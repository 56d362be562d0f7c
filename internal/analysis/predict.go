package analysis

import (
	"math"
	"time"

	"github.com/dmitrijs2005/sleepdiary/internal/models"
)

// SuggestionWindow is how far back SuggestedDayLengths looks.
const SuggestionWindow = uint64(180 * 24 * time.Hour / time.Millisecond)

// Suggestion is one way of reaching the target wake time. DayLength and
// DaysRemaining are fractional; BedTime is in milliseconds since the epoch.
type Suggestion struct {
	DaysRemaining float64
	BedTime       uint64
	DayLength     float64
}

// PredictionInput is everything SuggestedDayLengths needs from a diary.
type PredictionInput struct {
	Entries            []models.Entry
	PreferredDayLength uint64
	Now                uint64
}

// TargetTimestamp returns the wake time requested by the most recent
// RETARGET entry, or 0 when there is none or it was cleared.
func TargetTimestamp(entries []models.Entry) uint64 {
	for i := len(entries) - 1; i >= 0; i-- {
		if entries[i].Event == models.Retarget {
			return entries[i].Related
		}
	}
	return 0
}

// Mode returns the most recent WAKE or SLEEP event. ok is false when the log
// has neither.
func Mode(entries []models.Entry) (kind models.EventKind, ok bool) {
	for i := len(entries) - 1; i >= 0; i-- {
		if e := entries[i].Event; e == models.Wake || e == models.Sleep {
			return e, true
		}
	}
	return 0, false
}

// SuggestedDayLengths proposes bed times that reach the target wake time.
//
// With a target, the remaining time is split into floor and ceiling whole
// days, each with its own exact day length. Without a target, a single bed
// time one day length after the latest event is suggested. nil means there
// is nothing useful to suggest.
func SuggestedDayLengths(in PredictionInput) []Suggestion {
	var minimumDate uint64
	if in.Now > SuggestionWindow {
		minimumDate = in.Now - SuggestionWindow
	}
	res := Reconstruct(in.Entries, minimumDate)

	dayLength := float64(in.PreferredDayLength)
	if dayLength == 0 {
		dayLength = Summarise(res.DayDurations, DaySummary).RecommendedAverage
	}
	sleepDuration := Summarise(res.SleepDurations, SleepSummary).RecommendedAverage
	target := float64(TargetTimestamp(in.Entries))

	if target == 0 && dayLength == 0 {
		return nil
	}

	var last *Period
	for i := len(res.Periods) - 1; i >= 0; i-- {
		if res.Periods[i].StartEntry != nil {
			last = &res.Periods[i]
			break
		}
	}

	if last == nil {
		now := float64(in.Now)
		if target <= now || dayLength == 0 {
			return nil
		}
		remaining := target - now
		return []Suggestion{{
			DaysRemaining: remaining / dayLength,
			BedTime:       toMillis(now + math.Mod(remaining, dayLength) - sleepDuration),
			DayLength:     dayLength,
		}}
	}

	latest := float64(last.StartTime)
	if last.Status == Asleep {
		latest += sleepDuration
	}

	if target == 0 {
		return []Suggestion{{
			BedTime:   toMillis(latest + dayLength - sleepDuration),
			DayLength: dayLength,
		}}
	}
	if target <= latest || dayLength == 0 {
		return nil
	}

	remaining := target - latest
	days := remaining / dayLength

	var out []Suggestion
	for _, d := range []float64{math.Floor(days), math.Ceil(days)} {
		if d <= 0 || (len(out) > 0 && out[len(out)-1].DaysRemaining == d) {
			continue
		}
		dl := remaining / d
		out = append(out, Suggestion{
			DaysRemaining: d,
			BedTime:       toMillis(latest + dl - sleepDuration),
			DayLength:     dl,
		})
	}
	return out
}

func toMillis(v float64) uint64 {
	if v <= 0 {
		return 0
	}
	return uint64(math.Round(v))
}
