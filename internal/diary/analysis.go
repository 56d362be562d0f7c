package diary

import (
	"github.com/dmitrijs2005/sleepdiary/internal/analysis"
	"github.com/dmitrijs2005/sleepdiary/internal/models"
)

func (d *Diary) Periods(minimumDate uint64) analysis.Result {
	return analysis.Reconstruct(d.Entries(), minimumDate)
}

func (d *Diary) TargetTimestamp() uint64 {
	return analysis.TargetTimestamp(d.Entries())
}

func (d *Diary) Mode() (models.EventKind, bool) {
	return analysis.Mode(d.Entries())
}

func (d *Diary) SuggestedDayLengths() []analysis.Suggestion {
	snap := d.Snapshot()
	return analysis.SuggestedDayLengths(analysis.PredictionInput{
		Entries:            snap.Entries,
		PreferredDayLength: snap.PreferredDayLength,
		Now:                d.nowMillis(),
	})
}

// Report analyses the whole log as of the diary's clock.
func (d *Diary) Report() analysis.Report {
	snap := d.Snapshot()
	return analysis.Analyse(snap.Entries, snap.PreferredDayLength, d.nowMillis())
}
