// Package period computes recurrence windows for period-scoped activity
// types. Quarters are calendar quarters evaluated in a single reference
// timezone so that a member editing their profile near midnight cannot land
// in two different quarters depending on the worker's host clock.
package period

import (
	"fmt"
	"time"
)

// Reference is the timezone all period windows are evaluated in.
var Reference = time.UTC

// QuarterWindow returns the inclusive start and exclusive end of the calendar
// quarter containing t.
func QuarterWindow(t time.Time) (start, end time.Time) {
	t = t.In(Reference)
	q := (int(t.Month()) - 1) / 3
	start = time.Date(t.Year(), time.Month(q*3+1), 1, 0, 0, 0, 0, Reference)
	end = start.AddDate(0, 3, 0)
	return start, end
}

// QuarterKey renders the quarter bucket containing t as a stable label, e.g.
// "2026Q3". It participates in the dedup key of quarterly activity types so
// the uniqueness constraint itself enforces one credit per quarter.
func QuarterKey(t time.Time) string {
	t = t.In(Reference)
	return fmt.Sprintf("%dQ%d", t.Year(), (int(t.Month())-1)/3+1)
}
