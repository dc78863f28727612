package domain

import "time"

// CalendarDay is one cell in a dense day-by-day projection of a trip.
// Day is nil for dates that have no stored row yet — the projector never
// creates rows, it only fills gaps for rendering and export.
type CalendarDay struct {
	Date time.Time `json:"date"`
	Day  *Day      `json:"day,omitempty"`
}

// Month is one calendar-month bucket of a projected day sequence.
type Month struct {
	Year  int           `json:"year"`
	Month time.Month    `json:"month"`
	Days  []CalendarDay `json:"days"`
}

// DaysInRange returns every calendar date from start to end inclusive, each
// normalized to midnight UTC. Both bounds are normalized first, so the
// time-of-day and zone of the inputs never cause an off-by-one. Returns an
// empty slice when end precedes start.
func DaysInRange(start, end time.Time) []time.Time {
	first := NormalizeDate(start)
	last := NormalizeDate(end)

	var dates []time.Time
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d)
	}
	return dates
}

// ProjectDays turns a trip's date range plus its sparse day rows into a
// dense, gap-filled cell sequence.
func ProjectDays(trip Trip, days []Day) []CalendarDay {
	return ProjectRange(trip.StartDate, trip.EndDate, days)
}

// ProjectRange is ProjectDays for an arbitrary inclusive date range.
// Pure function: no store access, and the input slice is never mutated.
func ProjectRange(start, end time.Time, days []Day) []CalendarDay {
	byDate := make(map[time.Time]*Day, len(days))
	for i := range days {
		byDate[NormalizeDate(days[i].Date)] = &days[i]
	}

	dates := DaysInRange(start, end)
	cells := make([]CalendarDay, len(dates))
	for i, date := range dates {
		cells[i] = CalendarDay{Date: date, Day: byDate[date]}
	}
	return cells
}

// GroupByMonth buckets a chronological cell sequence by (year, month),
// preserving order within and across buckets.
func GroupByMonth(cells []CalendarDay) []Month {
	var months []Month
	for _, c := range cells {
		y, m := c.Date.Year(), c.Date.Month()
		if n := len(months); n == 0 || months[n-1].Year != y || months[n-1].Month != m {
			months = append(months, Month{Year: y, Month: m})
		}
		months[len(months)-1].Days = append(months[len(months)-1].Days, c)
	}
	return months
}

// MonthGrid lays a month bucket out as rows of seven cells with the week
// starting on Monday. Leading cells before the first date's weekday column
// and trailing cells after the last are zero-valued (Date.IsZero() reports
// true), so templates can render them as blanks.
func MonthGrid(m Month) [][]CalendarDay {
	if len(m.Days) == 0 {
		return nil
	}

	// Monday-first column index: Monday=0 .. Sunday=6.
	offset := (int(m.Days[0].Date.Weekday()) + 6) % 7

	row := make([]CalendarDay, offset, 7)
	var grid [][]CalendarDay
	for _, c := range m.Days {
		row = append(row, c)
		if len(row) == 7 {
			grid = append(grid, row)
			row = make([]CalendarDay, 0, 7)
		}
	}
	if len(row) > 0 {
		for len(row) < 7 {
			row = append(row, CalendarDay{})
		}
		grid = append(grid, row)
	}
	return grid
}
