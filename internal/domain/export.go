package domain

// BookRow is a single row in the printable trip-book export.
// It is a flat, denormalized view of the dense calendar projection: one row
// per item, with day fields repeated for every item on that day. Days with
// no items (including dates that have no stored row at all) yield one row
// with zero values for all item fields, so the book always covers every
// calendar date of the trip.
//
// Attachments is the list of file names attached to the day, repeated on
// each of the day's rows. Callers that need a joined string (e.g. CSV)
// should join with "|".
type BookRow struct {
	// Trip fields — repeated on every row.
	TripID   string
	TripName string

	// Day fields — repeated for every item on the day.
	Date    string // "2006-01-02" formatted date
	City    string
	Summary string
	Journal string

	// Item fields — zero values when the day has no items.
	Block       string
	ItemType    string
	Title       string
	Description string

	// Attachments — file names stored against this day.
	Attachments []string
}
