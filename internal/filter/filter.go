// Package filter selects diary entries with expr-lang boolean expressions,
// for example:
//
//	Event == "SLEEP" && Hour >= 20
//	Comment contains "coffee"
package filter

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/sleepdiary/internal/models"
	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Env is what an expression can see of one entry. Hour and Weekday are in
// the filter's location.
type Env struct {
	Index     int
	Timestamp int64
	Event     string
	Related   int64
	Comment   string
	Hour      int
	Weekday   string
}

type Filter struct {
	src     string
	program *vm.Program
	loc     *time.Location
}

// Compile parses src. An empty expression matches every entry. A nil loc
// means UTC.
func Compile(src string, loc *time.Location) (*Filter, error) {
	if loc == nil {
		loc = time.UTC
	}
	f := &Filter{src: src, loc: loc}
	if src == "" {
		return f, nil
	}
	program, err := expr.Compile(src, expr.Env(Env{}), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("compile filter %q: %w", src, err)
	}
	f.program = program
	return f, nil
}

func (f *Filter) env(i int, e models.Entry) Env {
	t := e.Time().In(f.loc)
	return Env{
		Index:     i,
		Timestamp: int64(e.Timestamp),
		Event:     e.Event.String(),
		Related:   int64(e.Related),
		Comment:   e.Comment,
		Hour:      t.Hour(),
		Weekday:   t.Weekday().String(),
	}
}

// Match reports whether entry e, at position i in its log, passes.
func (f *Filter) Match(i int, e models.Entry) (bool, error) {
	if f.program == nil {
		return true, nil
	}
	out, err := expr.Run(f.program, f.env(i, e))
	if err != nil {
		return false, fmt.Errorf("evaluate filter %q: %w", f.src, err)
	}
	ok, isBool := out.(bool)
	if !isBool {
		return false, fmt.Errorf("filter %q returned %T, not bool", f.src, out)
	}
	return ok, nil
}

// Indices returns the positions of the matching entries.
func (f *Filter) Indices(entries []models.Entry) ([]int, error) {
	var out []int
	for i, e := range entries {
		ok, err := f.Match(i, e)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, i)
		}
	}
	return out, nil
}

// Entries returns the matching entries in order.
func (f *Filter) Entries(entries []models.Entry) ([]models.Entry, error) {
	idx, err := f.Indices(entries)
	if err != nil {
		return nil, err
	}
	out := make([]models.Entry, 0, len(idx))
	for _, i := range idx {
		out = append(out, entries[i])
	}
	return out, nil
}
