// Package task defines the task model and the date resolver.
//
// A [Task] is anchored either to an absolute calendar date or to an offset
// from the single event date of a [Snapshot]. The [DateSpec] sum type has
// exactly two implementations, [Absolute] and [Relative]; a Relative spec
// can only be obtained through [NewRelative], so a relative task without a
// unit or direction cannot exist.
//
// # Resolving dates
//
//	anchor := snap.Anchor.Time()          // nil when no event date is set
//	if d, ok := task.Resolve(t, anchor); ok {
//	    // d is a UTC midnight calendar date
//	}
//
// Resolution is cheap and never cached. Days and weeks are exact, months use
// calendar arithmetic clamped to the last day of the target month, so
// Jan 31 + 1 month is Feb 28 (or 29).
//
// # Validation
//
// The layout engine accepts any snapshot and silently drops what it cannot
// place. [Snapshot.Validate] is the stricter check applied when snapshots are
// imported or written: unique IDs, valid titles and dates, and no dependency
// cycles.
package task
