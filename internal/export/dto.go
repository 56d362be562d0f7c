package export

import (
	"github.com/dmitrijs2005/sleepdiary/internal/analysis"
	"github.com/dmitrijs2005/sleepdiary/internal/models"
)

type PeriodDTO struct {
	Status            analysis.Status `json:"status"`
	StartTime         uint64          `json:"start_time"`
	EndTime           uint64          `json:"end_time,omitempty"`
	EndAccurate       bool            `json:"end_accurate"`
	DayNumber         int             `json:"day_number"`
	StartOfNewDay     bool            `json:"start_of_new_day,omitempty"`
	Target            uint64          `json:"target,omitempty"`
	MissingEventAfter bool            `json:"missing_event_after,omitempty"`
	Events            []models.Entry  `json:"events,omitempty"`
}

type SummaryDTO struct {
	Count                    int     `json:"count"`
	Mean                     float64 `json:"mean"`
	StandardDeviation        float64 `json:"standard_deviation"`
	Median                   float64 `json:"median"`
	InterquartileRange       float64 `json:"interquartile_range"`
	TrimmedMean              float64 `json:"trimmed_mean"`
	TrimmedStandardDeviation float64 `json:"trimmed_standard_deviation"`
	RecommendedAverage       float64 `json:"recommended_average"`
}

type SuggestionDTO struct {
	DaysRemaining float64 `json:"days_remaining"`
	BedTime       uint64  `json:"bed_time"`
	DayLength     float64 `json:"day_length"`
}

type ReportDTO struct {
	Periods     []PeriodDTO       `json:"periods"`
	Day         SummaryDTO        `json:"day"`
	Sleep       SummaryDTO        `json:"sleep"`
	Suggestions []SuggestionDTO   `json:"suggestions"`
	Target      uint64            `json:"target,omitempty"`
	Mode        *models.EventKind `json:"mode,omitempty"`
}

func newSummaryDTO(s analysis.Summary) SummaryDTO {
	return SummaryDTO{
		Count:                    s.Count,
		Mean:                     s.Mean,
		StandardDeviation:        s.StandardDeviation,
		Median:                   s.Median,
		InterquartileRange:       s.InterquartileRange,
		TrimmedMean:              s.TrimmedMean,
		TrimmedStandardDeviation: s.TrimmedStandardDeviation,
		RecommendedAverage:       s.RecommendedAverage,
	}
}

func newReportDTO(r analysis.Report) ReportDTO {
	out := ReportDTO{
		Periods:     make([]PeriodDTO, 0, len(r.Periods)),
		Day:         newSummaryDTO(r.Day),
		Sleep:       newSummaryDTO(r.Sleep),
		Suggestions: make([]SuggestionDTO, 0, len(r.Suggestions)),
		Target:      r.Target,
	}
	if r.HasMode {
		mode := r.Mode
		out.Mode = &mode
	}
	for _, p := range r.Periods {
		events := make([]models.Entry, 0, len(p.MidEntries)+1)
		if p.StartEntry != nil {
			events = append(events, *p.StartEntry)
		}
		events = append(events, p.MidEntries...)
		out.Periods = append(out.Periods, PeriodDTO{
			Status:            p.Status,
			StartTime:         p.StartTime,
			EndTime:           p.EndTime,
			EndAccurate:       p.EndEntry != nil,
			DayNumber:         p.DayNumber,
			StartOfNewDay:     p.StartOfNewDay,
			Target:            p.Target,
			MissingEventAfter: p.MissingEventAfter,
			Events:            events,
		})
	}
	for _, s := range r.Suggestions {
		out.Suggestions = append(out.Suggestions, SuggestionDTO(s))
	}
	return out
}
