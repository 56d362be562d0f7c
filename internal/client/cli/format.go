package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/sleepdiary/internal/models"
	"github.com/dmitrijs2005/sleepdiary/internal/timex"
	"github.com/fatih/color"
)

// Colours switch themselves off when stdout is not a terminal.
var (
	accent  = color.New(color.FgCyan, color.Bold).SprintFunc()
	success = color.New(color.FgGreen).SprintFunc()
	warn    = color.New(color.FgYellow).SprintFunc()
	failure = color.New(color.FgRed).SprintFunc()
	dim     = color.New(color.FgHiBlack).SprintFunc()
)

var eventColors = map[models.EventKind]*color.Color{
	models.Wake:     color.New(color.FgYellow, color.Bold),
	models.Sleep:    color.New(color.FgBlue, color.Bold),
	models.Retarget: color.New(color.FgMagenta),
}

func eventName(k models.EventKind) string {
	name := fmt.Sprintf("%-9s", k.String())
	if c, ok := eventColors[k]; ok {
		return c.Sprint(name)
	}
	return name
}

func modeName(k models.EventKind) string {
	if k == models.Sleep {
		return "asleep"
	}
	return "awake"
}

const timeLayout = "Mon 2006-01-02 15:04"

func (a *App) formatTime(ms uint64) string {
	if ms == 0 {
		return "-"
	}
	return timex.FromMillis(ms).In(a.loc).Format(timeLayout)
}

// formatDuration renders milliseconds rounded to the minute, e.g. "24h10m".
func formatDuration(ms float64) string {
	d := time.Duration(ms * float64(time.Millisecond)).Round(time.Minute)
	if d == 0 {
		return "0m"
	}
	return strings.TrimSuffix(d.String(), "0s")
}

// parseWhen reads a time given as RFC 3339, "2006-01-02T15:04" or "15:04",
// the last two in loc. A bare clock time is resolved relative to now: to the
// most recent such time when past is set, otherwise to the next one.
func parseWhen(s string, now time.Time, loc *time.Location, past bool) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation("2006-01-02T15:04", s, loc); err == nil {
		return t, nil
	}
	clock, err := time.ParseInLocation("15:04", s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("cannot read time %q: use 15:04, 2006-01-02T15:04 or RFC 3339", s)
	}

	local := now.In(loc)
	t := time.Date(local.Year(), local.Month(), local.Day(), clock.Hour(), clock.Minute(), 0, 0, loc)
	switch {
	case past && t.After(now):
		t = t.AddDate(0, 0, -1)
	case !past && !t.After(now):
		t = t.AddDate(0, 0, 1)
	}
	return t, nil
}
