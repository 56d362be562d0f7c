package analysis

import "github.com/dmitrijs2005/sleepdiary/internal/models"

// Report bundles everything the CLI and the sync server show about a diary.
type Report struct {
	Periods     []Period
	Day         Summary
	Sleep       Summary
	Suggestions []Suggestion
	Target      uint64
	Mode        models.EventKind
	HasMode     bool
}

// Analyse reconstructs periods over the whole log and computes summaries and
// suggestions as of now.
func Analyse(entries []models.Entry, preferredDayLength, now uint64) Report {
	res := Reconstruct(entries, 0)
	mode, ok := Mode(entries)
	return Report{
		Periods: res.Periods,
		Day:     Summarise(res.DayDurations, DaySummary),
		Sleep:   Summarise(res.SleepDurations, SleepSummary),
		Suggestions: SuggestedDayLengths(PredictionInput{
			Entries:            entries,
			PreferredDayLength: preferredDayLength,
			Now:                now,
		}),
		Target:  TargetTimestamp(entries),
		Mode:    mode,
		HasMode: ok,
	}
}
