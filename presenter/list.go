// Package presenter turns controller state into view models the console and
// mobile surfaces render. Presenters never touch the network themselves.
package presenter

import (
	"github.com/linesmerrill/civicdesk/listsync"
)

// Indicator is the activity marker a list shows
type Indicator int

// Indicators
const (
	IndicatorNone Indicator = iota
	IndicatorSpinner
	IndicatorRefreshing
)

// ListView is the common shape of every list screen. An empty list and a failed
// list never render the same way: Empty and Error are mutually exclusive.
type ListView[R any] struct {
	Title     string
	Indicator Indicator
	Rows      []R
	// Empty is set only when the list loaded successfully with nothing to show
	Empty string
	// Error is set when the last fetch failed; Rows may still hold the previous data
	Error string
}

// buildList fills the non-row parts of a view from a snapshot
func buildList[T, R any](title, emptyText string, snap listsync.Snapshot[T], row func(T) R, keep func(T) bool) ListView[R] {
	v := ListView[R]{Title: title}

	switch snap.State {
	case listsync.Loading:
		v.Indicator = IndicatorSpinner
	case listsync.Refreshing:
		v.Indicator = IndicatorRefreshing
	}

	for _, it := range snap.Items {
		if keep != nil && !keep(it) {
			continue
		}
		v.Rows = append(v.Rows, row(it))
	}

	if snap.State == listsync.Failed {
		msg := "Could not load " + title
		if snap.Err != nil {
			msg += ": " + snap.Err.Error()
		}
		v.Error = msg
		return v
	}
	if snap.State == listsync.Loaded && len(v.Rows) == 0 {
		v.Empty = emptyText
	}
	return v
}
