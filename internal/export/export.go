// Package export renders diaries and their analyses as CSV and JSON for
// spreadsheets and other tools.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/dmitrijs2005/sleepdiary/internal/analysis"
	"github.com/dmitrijs2005/sleepdiary/internal/codec"
	"github.com/dmitrijs2005/sleepdiary/internal/models"
)

// Format names an output format accepted by Write.
type Format string

const (
	FormatDiary    Format = "diary"
	FormatJSON     Format = "json"
	FormatCSV      Format = "csv"
	FormatCalendar Format = "calendar"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatDiary, FormatJSON, FormatCSV, FormatCalendar:
		return f, nil
	}
	return "", fmt.Errorf("unknown format %q", s)
}

var (
	entryHeader    = []string{"time", "event", "related time", "comment"}
	calendarHeader = []string{"Status", "Start time", "End time", "Is the end time accurate?"}
)

func optional(v uint64) string {
	if v == 0 {
		return ""
	}
	return strconv.FormatUint(v, 10)
}

// EntriesCSV writes one row per entry, timestamps in milliseconds.
func EntriesCSV(w io.Writer, entries []models.Entry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(entryHeader); err != nil {
		return err
	}
	for _, e := range entries {
		row := []string{strconv.FormatUint(e.Timestamp, 10), e.Event.String(), optional(e.Related), e.Comment}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// CalendarCSV writes one row per sleep/wake period. The end time is blank
// for the period in progress and marked inaccurate when it was inferred.
// A new user's leading period has no recorded start, so its start is blank.
func CalendarCSV(w io.Writer, periods []analysis.Period) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(calendarHeader); err != nil {
		return err
	}
	for _, p := range periods {
		accurate := "NO"
		if p.EndEntry != nil {
			accurate = "YES"
		}
		row := []string{string(p.Status), optional(p.StartTime), optional(p.EndTime), accurate}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// DiaryJSON writes the diary's entries and settings. Server bookkeeping is
// left out.
func DiaryJSON(w io.Writer, d *models.Diary) error {
	out := struct {
		Entries            []models.Entry `json:"entries"`
		PreferredDayLength uint64         `json:"preferred_day_length,omitempty"`
	}{d.Entries, d.PreferredDayLength}
	if out.Entries == nil {
		out.Entries = []models.Entry{}
	}
	return encode(w, out)
}

// ReportJSON writes an analysis report.
func ReportJSON(w io.Writer, r analysis.Report) error {
	return encode(w, newReportDTO(r))
}

func encode(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

// Write renders d in format f. With analyse, JSON output is the full report
// and CSV output becomes the calendar view; the diary format has no analysed
// form.
func Write(w io.Writer, f Format, d *models.Diary, analyse bool, now uint64) error {
	if analyse && f == FormatCSV {
		f = FormatCalendar
	}
	switch f {
	case FormatDiary:
		if analyse {
			return fmt.Errorf("the %s format cannot be analysed", f)
		}
		_, err := fmt.Fprintln(w, codec.Serialise(d))
		return err
	case FormatJSON:
		if analyse {
			return ReportJSON(w, analysis.Analyse(d.Entries, d.PreferredDayLength, now))
		}
		return DiaryJSON(w, d)
	case FormatCSV:
		return EntriesCSV(w, d.Entries)
	case FormatCalendar:
		return CalendarCSV(w, analysis.Reconstruct(d.Entries, 0).Periods)
	}
	return fmt.Errorf("unknown format %q", f)
}
