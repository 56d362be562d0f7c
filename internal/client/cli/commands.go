package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/sleepdiary/internal/analysis"
	"github.com/dmitrijs2005/sleepdiary/internal/export"
	"github.com/dmitrijs2005/sleepdiary/internal/filter"
	"github.com/dmitrijs2005/sleepdiary/internal/models"
	"github.com/dmitrijs2005/sleepdiary/internal/timex"
)

const defaultPeriods = 7

// await reports the outcome of a queued sync. A failed sync is not an error
// for the command itself: the change is saved locally and resent later.
func (a *App) await(ctx context.Context, ch <-chan error) {
	select {
	case err := <-ch:
		if err != nil {
			printlnFn(warn("Saved locally; not sent to the server yet (" + err.Error() + ")"))
		}
	case <-ctx.Done():
	}
}

func wait(ctx context.Context, ch <-chan error) error {
	select {
	case err := <-ch:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (a *App) Add(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("usage: add <event> [@time] [comment]")
	}

	var opts []models.EntryOption
	rest := args[1:]
	if len(rest) > 0 && strings.HasPrefix(rest[0], "@") {
		t, err := parseWhen(rest[0][1:], a.now(), a.loc, true)
		if err != nil {
			return err
		}
		opts = append(opts, models.WithTime(t))
		rest = rest[1:]
	}
	if len(rest) > 0 {
		opts = append(opts, models.WithComment(strings.Join(rest, " ")))
	}

	ch, err := a.diary.Append(ctx, args[0], opts...)
	if err != nil {
		return err
	}
	entries := a.diary.Entries()
	last := entries[len(entries)-1]
	printlnFn(success(fmt.Sprintf("Recorded %s at %s", last.Event, a.formatTime(last.Timestamp))))
	a.await(ctx, ch)
	return nil
}

func (a *App) Retarget(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: retarget <time>|off")
	}

	var target uint64
	if !strings.EqualFold(args[0], "off") {
		t, err := parseWhen(args[0], a.now(), a.loc, false)
		if err != nil {
			return err
		}
		target = timex.Millis(t)
	}

	e, err := models.NewEntry(models.Retarget, models.WithTime(a.now()), models.WithRelated(target))
	if err != nil {
		return err
	}
	ch, err := a.diary.AppendEntries(ctx, e)
	if err != nil {
		return err
	}
	if target == 0 {
		printlnFn(success("Target cleared"))
	} else {
		printlnFn(success("Target wake time: " + a.formatTime(target)))
	}
	a.await(ctx, ch)
	return nil
}

func (a *App) List(ctx context.Context, args []string) error {
	f, err := filter.Compile(strings.Join(args, " "), a.loc)
	if err != nil {
		return err
	}
	entries := a.diary.Entries()
	idx, err := f.Indices(entries)
	if err != nil {
		return err
	}
	if len(idx) == 0 {
		printlnFn(dim("No entries."))
		return nil
	}

	for _, i := range idx {
		e := entries[i]
		line := fmt.Sprintf("%4d  %s  %s", i, a.formatTime(e.Timestamp), eventName(e.Event))
		if e.Event == models.Retarget {
			line += " -> " + a.formatTime(e.Related)
		}
		if e.Comment != "" {
			line += "  " + dim(e.Comment)
		}
		printlnFn(line)
	}
	return nil
}

func (a *App) Delete(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: delete <index>")
	}
	i, err := strconv.Atoi(args[0])
	entries := a.diary.Entries()
	if err != nil || i < 0 || i >= len(entries) {
		return fmt.Errorf("no entry %q", args[0])
	}

	e := entries[i]
	prompt := fmt.Sprintf("Delete %s at %s?", e.Event, a.formatTime(e.Timestamp))
	if isTerminal() && !Confirm(a.reader, prompt, a.out) {
		return nil
	}

	if err := wait(ctx, a.diary.Splice(ctx, uint64(i), 1)); err != nil {
		return fmt.Errorf("entry not deleted: %w", err)
	}
	printlnFn(success("Deleted"))
	return nil
}

func (a *App) Periods(ctx context.Context, args []string) error {
	n := defaultPeriods
	if len(args) > 0 {
		v, err := strconv.Atoi(args[0])
		if err != nil || v < 1 {
			return errors.New("usage: periods [n]")
		}
		n = v
	}

	periods := a.diary.Periods(0).Periods
	if len(periods) == 0 {
		printlnFn(dim("No periods yet: record a wake or sleep event."))
		return nil
	}
	if len(periods) > n {
		periods = periods[len(periods)-n:]
	}

	for _, p := range periods {
		end := "now"
		switch {
		case !p.InProgress() && p.EndEntry != nil:
			end = a.formatTime(p.EndTime)
		case !p.InProgress():
			end = "~" + a.formatTime(p.EndTime)
		}
		line := fmt.Sprintf("day %3d  %-6s  %s -> %s", p.DayNumber, p.Status, a.formatTime(p.StartTime), end)
		if d := p.Duration(); d > 0 {
			line += "  " + dim(formatDuration(float64(d)))
		}
		if p.MissingEventAfter {
			line += "  " + warn("(missing event)")
		}
		printlnFn(line)
	}
	return nil
}

func (a *App) printSummary(title string, s analysis.Summary) {
	if s.Count == 0 {
		printlnFn(accent(title) + dim(": not enough data"))
		return
	}
	printlnFn(accent(title))
	printlnFn(fmt.Sprintf("  days measured     %d", s.Count))
	printlnFn(fmt.Sprintf("  average           %s (± %s)", formatDuration(s.Mean), formatDuration(s.StandardDeviation)))
	printlnFn(fmt.Sprintf("  median            %s (IQR %s)", formatDuration(s.Median), formatDuration(s.InterquartileRange)))
	printlnFn(fmt.Sprintf("  typical           %s (± %s)", formatDuration(s.TrimmedMean), formatDuration(s.TrimmedStandardDeviation)))
}

func (a *App) Stats(ctx context.Context, args []string) error {
	r := a.diary.Report()
	a.printSummary("Day length", r.Day)
	a.printSummary("Sleep length", r.Sleep)
	return nil
}

func (a *App) Suggest(ctx context.Context, args []string) error {
	r := a.diary.Report()
	if r.Target != 0 {
		printlnFn("Target wake time: " + a.formatTime(r.Target))
	}
	if len(r.Suggestions) == 0 {
		printlnFn(dim("No suggestion: set a target with retarget, or record a few more days."))
		return nil
	}
	for _, s := range r.Suggestions {
		line := fmt.Sprintf("Go to bed at %s (day length %s", a.formatTime(s.BedTime), formatDuration(s.DayLength))
		if s.DaysRemaining > 0 {
			line += fmt.Sprintf(", %g days to target", s.DaysRemaining)
		}
		printlnFn(success(line + ")"))
	}
	return nil
}

func (a *App) Mode(ctx context.Context, args []string) error {
	kind, ok := a.diary.Mode()
	if !ok {
		printlnFn("unknown")
		return nil
	}
	printlnFn(modeName(kind))
	return nil
}

func (a *App) Server(ctx context.Context, args []string) error {
	if len(args) == 0 {
		snap := a.diary.Snapshot()
		if snap.Server == "" {
			printlnFn("No server set")
			return nil
		}
		printlnFn(fmt.Sprintf("%s (%d of %d entries sent)", snap.Server,
			snap.ServerEntriesSent-snap.ServerEntriesOffset, uint64(len(snap.Entries))-snap.ServerEntriesOffset))
		return nil
	}

	url := args[0]
	if strings.EqualFold(url, "off") {
		url = ""
	}
	sendAll := len(args) > 1 && strings.EqualFold(args[1], "all")

	if err := wait(ctx, a.diary.SetServer(ctx, url, sendAll)); err != nil {
		return fmt.Errorf("server not changed: %w", err)
	}
	if url == "" {
		printlnFn(success("Server removed"))
	} else {
		printlnFn(success("Syncing with " + url))
	}
	return nil
}

func (a *App) Sync(ctx context.Context, args []string) error {
	if err := wait(ctx, a.diary.Sync(ctx)); err != nil {
		return err
	}
	printlnFn(success("Up to date"))
	return nil
}

func (a *App) DayLength(ctx context.Context, args []string) error {
	if len(args) == 0 {
		if ms := a.diary.Snapshot().PreferredDayLength; ms != 0 {
			printlnFn(formatDuration(float64(ms)))
		} else {
			printlnFn("auto")
		}
		return nil
	}

	var ms uint64
	if !strings.EqualFold(args[0], "auto") {
		d, err := time.ParseDuration(args[0])
		if err != nil || d <= 0 {
			return fmt.Errorf("usage: daylength <duration>|auto, e.g. daylength 24h30m")
		}
		ms = uint64(d / time.Millisecond)
	}
	return a.diary.SetPreferredDayLength(ctx, ms)
}

func (a *App) Export(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("usage: export <diary|json|csv|calendar> [analyse]")
	}
	f, err := export.ParseFormat(strings.ToLower(args[0]))
	if err != nil {
		return err
	}
	analyse := len(args) > 1 && (strings.EqualFold(args[1], "analyse") || strings.EqualFold(args[1], "analyze"))
	return export.Write(a.out, f, a.diary.Snapshot(), analyse, timex.Millis(a.now()))
}
