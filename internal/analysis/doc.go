// Package analysis turns a diary's raw event log into sleep/wake periods,
// summarises the resulting day and sleep durations, and predicts bed times.
//
// Every function here is pure: it works on a snapshot of entries and never
// mutates its input.
//
// # Reconstruction
//
// Entries are first deduplicated. A WAKE logged twice within 30 seconds, or a
// SLEEP immediately cancelled by a WAKE, collapses to the later entry. The
// survivors are walked in time order: WAKE opens an awake period, SLEEP opens
// an asleep period, and everything else attaches to the current period.
//
// Days are numbered by awake periods. A wake more than 20 hours after the
// previous day start begins a new day; more than 40 hours means a day was
// skipped, and the day number advances by two without recording a length.
//
// # Statistics
//
// Durations are sparse: a day with no clean measurement is a hole, not a
// zero. Summaries report mean, population standard deviation, median,
// interquartile range and an 80% trimmed mean and deviation over the known
// values only.
package analysis
