package analysis

import (
	"slices"
	"time"

	"github.com/dmitrijs2005/sleepdiary/internal/models"
)

const (
	// DupeDuration is how close two related events must be to count as one.
	DupeDuration = uint64(30 * time.Second / time.Millisecond)

	MinimumDayDuration   = uint64(20 * time.Hour / time.Millisecond)
	MaximumSleepDuration = uint64(15 * time.Hour / time.Millisecond)
	MaximumWakeDuration  = uint64(30 * time.Hour / time.Millisecond)

	// MaximumNewUserLength is the period count above which the leading
	// events recorded before the first WAKE or SLEEP are ignored.
	MaximumNewUserLength = 14
)

type Status string

const (
	Awake  Status = "awake"
	Asleep Status = "asleep"
)

func (s Status) opposite() Status {
	if s == Awake {
		return Asleep
	}
	return Awake
}

func (s Status) maximumDuration() uint64 {
	if s == Asleep {
		return MaximumSleepDuration
	}
	return MaximumWakeDuration
}

// Period is a stretch of time spent awake or asleep.
//
// StartEntry is nil only for the leading period of a new user, which has no
// recorded start. EndEntry is nil when the end time was inferred or when the
// period is still in progress (EndTime == 0).
type Period struct {
	Status     Status
	StartTime  uint64
	EndTime    uint64
	StartEntry *models.Entry
	EndEntry   *models.Entry
	MidEntries []models.Entry

	DayNumber     int
	StartOfNewDay bool
	// Target is the requested wake time as of the end of this period.
	Target uint64

	MissingEventAfter bool
	IsFirstEvent      bool
}

// InProgress reports whether the period has no successor yet.
func (p Period) InProgress() bool {
	return p.EndTime == 0
}

// Duration is zero for a period in progress and for a new user's leading
// period, which has no recorded start.
func (p Period) Duration() uint64 {
	if p.InProgress() || p.StartEntry == nil || p.EndTime < p.StartTime {
		return 0
	}
	return p.EndTime - p.StartTime
}

// Result is the output of Reconstruct. DayDurations and SleepDurations are
// indexed by day number; Known is false for days without a measurement.
type Result struct {
	Periods        []Period
	DayDurations   []Sample
	SleepDurations []Sample
}

// Dedup drops entries that repeat, or immediately reverse, a later entry.
// Entries are walked newest first; an entry is dropped when it falls within
// DupeDuration before the previous entry and its event is the same as, or
// the inverse of, that entry's event. The result is in ascending time order.
func Dedup(entries []models.Entry) []models.Entry {
	sorted := slices.Clone(entries)
	slices.SortStableFunc(sorted, func(a, b models.Entry) int {
		switch {
		case a.Timestamp > b.Timestamp:
			return -1
		case a.Timestamp < b.Timestamp:
			return 1
		default:
			return 0
		}
	})

	kept := make([]models.Entry, 0, len(sorted))
	var (
		havePrev  bool
		dupeUntil uint64
		prevEvent models.EventKind
	)
	for _, e := range sorted {
		if !havePrev || e.Timestamp < dupeUntil || !e.Event.Related(prevEvent) {
			kept = append(kept, e)
		}
		havePrev = true
		if e.Timestamp >= DupeDuration {
			dupeUntil = e.Timestamp - DupeDuration
		} else {
			dupeUntil = 0
		}
		prevEvent = e.Event
	}

	slices.Reverse(kept)
	return kept
}

// Reconstruct builds periods from entries newer than or equal to
// minimumDate (0 keeps everything).
func Reconstruct(entries []models.Entry, minimumDate uint64) Result {
	deduped := Dedup(entries)
	filtered := deduped[:0]
	for _, e := range deduped {
		if e.Timestamp >= minimumDate {
			filtered = append(filtered, e)
		}
	}

	periods := buildPeriods(filtered)
	periods = trimNewUser(periods)

	var res Result
	res.Periods = periods
	res.DayDurations = numberDays(periods)
	res.SleepDurations = inferEnds(periods)
	return res
}

func buildPeriods(entries []models.Entry) []Period {
	periods := []Period{{Status: Awake}}

	for i := range entries {
		e := &entries[i]
		current := &periods[len(periods)-1]

		switch e.Event {
		case models.Wake, models.Sleep:
			status := Awake
			if e.Event == models.Sleep {
				status = Asleep
			}
			periods = append(periods, Period{
				Status:     status,
				StartTime:  e.Timestamp,
				StartEntry: e,
				Target:     current.Target,
			})
		default:
			current.MidEntries = append(current.MidEntries, *e)
			if e.Event == models.Retarget {
				current.Target = e.Related
			}
		}
	}
	return periods
}

func trimNewUser(periods []Period) []Period {
	if len(periods[0].MidEntries) == 0 || len(periods) > MaximumNewUserLength {
		return periods[1:]
	}
	if len(periods) > 1 {
		periods[0].Status = periods[1].Status.opposite()
		periods[0].IsFirstEvent = true
	}
	return periods
}

// numberDays assigns day numbers and returns the length of each completed day.
func numberDays(periods []Period) []Sample {
	var (
		days      []Sample
		dayStart  uint64
		dayNumber int
	)
	for i := range periods {
		p := &periods[i]
		if p.Status == Awake && p.StartEntry != nil && p.StartTime > dayStart+MinimumDayDuration {
			dayNumber++
			if p.StartTime > dayStart+2*MinimumDayDuration {
				dayNumber++
			} else {
				days = setSample(days, dayNumber, p.StartTime-dayStart)
			}
			dayStart = p.StartTime
			p.StartOfNewDay = true
		}
		p.DayNumber = dayNumber
	}
	return days
}

// inferEnds fills in end times and returns the longest clean sleep per day.
func inferEnds(periods []Period) []Sample {
	var sleeps []Sample
	for i := 0; i+1 < len(periods); i++ {
		p, next := &periods[i], &periods[i+1]

		if p.StartEntry == nil {
			p.EndTime = next.StartTime
			p.EndEntry = next.StartEntry
			continue
		}

		limit := p.StartTime + p.Status.maximumDuration()
		switch {
		case p.Status == next.Status:
			p.MissingEventAfter = true
			p.EndTime = min(next.StartTime, limit)
		case next.StartTime < limit:
			p.EndTime = next.StartTime
			p.EndEntry = next.StartEntry
			if p.Status == Asleep {
				d := next.StartTime - p.StartTime
				if p.DayNumber >= len(sleeps) || !sleeps[p.DayNumber].Known || sleeps[p.DayNumber].Value < d {
					sleeps = setSample(sleeps, p.DayNumber, d)
				}
			}
		default:
			p.EndTime = limit
		}
	}
	return sleeps
}

func setSample(samples []Sample, index int, value uint64) []Sample {
	for len(samples) <= index {
		samples = append(samples, Sample{})
	}
	samples[index] = Sample{Value: value, Known: true}
	return samples
}
