package models

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/sleepdiary/internal/common"
	"golang.org/x/text/cases"
)

// EventKind is the closed set of things a diary entry can record. The numeric
// values are part of the wire format.
type EventKind int32

const (
	Wake EventKind = iota
	Sleep
	Disruption
	Food
	Drink
	Caffeine
	Alcohol
	Bathroom
	Bath
	Retarget
	Other
)

var eventNames = [...]string{
	Wake:       "WAKE",
	Sleep:      "SLEEP",
	Disruption: "DISRUPTION",
	Food:       "FOOD",
	Drink:      "DRINK",
	Caffeine:   "CAFFEINE",
	Alcohol:    "ALCOHOL",
	Bathroom:   "BATHROOM",
	Bath:       "BATH",
	Retarget:   "RETARGET",
	Other:      "OTHER",
}

var eventsByFoldedName = func() map[string]EventKind {
	m := make(map[string]EventKind, len(eventNames))
	for k, name := range eventNames {
		m[strings.ToLower(name)] = EventKind(k)
	}
	return m
}()

// EventKinds lists every kind in wire order.
func EventKinds() []EventKind {
	kinds := make([]EventKind, len(eventNames))
	for i := range eventNames {
		kinds[i] = EventKind(i)
	}
	return kinds
}

func (k EventKind) Valid() bool {
	return k >= Wake && int(k) < len(eventNames)
}

func (k EventKind) String() string {
	if !k.Valid() {
		return fmt.Sprintf("EventKind(%d)", int32(k))
	}
	return eventNames[k]
}

// Inverse reports the kind that cancels k. Only WAKE and SLEEP have one.
func (k EventKind) Inverse() (EventKind, bool) {
	switch k {
	case Wake:
		return Sleep, true
	case Sleep:
		return Wake, true
	default:
		return k, false
	}
}

// Related reports whether a and b are equal or inverses of each other.
func (k EventKind) Related(other EventKind) bool {
	if k == other {
		return true
	}
	inv, ok := k.Inverse()
	return ok && inv == other
}

// ParseEventKind resolves an event name case-insensitively.
func ParseEventKind(name string) (EventKind, error) {
	folded := cases.Fold().String(strings.TrimSpace(name))
	if k, ok := eventsByFoldedName[folded]; ok {
		return k, nil
	}
	return 0, fmt.Errorf("%w: %q", common.ErrInvalidEventKind, name)
}

func (k EventKind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("%w: %d", common.ErrInvalidEventKind, int32(k))
	}
	return []byte(k.String()), nil
}

func (k *EventKind) UnmarshalText(b []byte) error {
	parsed, err := ParseEventKind(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
