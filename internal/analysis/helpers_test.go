package analysis

import (
	"time"

	"github.com/dmitrijs2005/sleepdiary/internal/models"
)

const (
	sec  = uint64(1000)
	hour = 60 * 60 * sec
	day  = 24 * hour
)

// t0 is 2024-01-01T00:00:00Z.
var t0 = uint64(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).UnixMilli())

func entry(kind models.EventKind, at uint64) models.Entry {
	return models.Entry{Timestamp: at, Event: kind}
}
