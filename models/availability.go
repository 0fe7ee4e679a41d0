package models

// BookableSlot is one discrete offering inside an availability window.
// Start and End are minutes from midnight (e.g. 540 for 9:00 AM).
type BookableSlot struct {
	ID        string `bson:"id" json:"id"`
	Start     int    `bson:"start" json:"start"`
	End       int    `bson:"end" json:"end"`
	Booked    bool   `bson:"booked" json:"booked"`
	BookingID string `bson:"booking_id,omitempty" json:"booking_id,omitempty"`
}

// AvailabilityWindow is a teacher-declared block of bookable time. A window is
// either recurring (Weekday set, Date empty) or date-specific (Date set in
// "2006-01-02" form); a date-specific window overrides the recurring window for
// the same calendar date. Slots are kept sorted and non-overlapping.
type AvailabilityWindow struct {
	ID         string         `bson:"id" json:"id"`
	TeacherID  string         `bson:"teacher_id" json:"teacher_id"`
	Weekday    *int           `bson:"weekday,omitempty" json:"weekday,omitempty"` // 0 = Sunday
	Date       string         `bson:"date,omitempty" json:"date,omitempty"`
	Slots      []BookableSlot `bson:"slots" json:"slots"`
	Timezone   string         `bson:"timezone" json:"timezone"`
	Active     bool           `bson:"active" json:"active"`
	ValidFrom  string         `bson:"valid_from,omitempty" json:"valid_from,omitempty"`
	ValidUntil string         `bson:"valid_until,omitempty" json:"valid_until,omitempty"`
}

// IsRecurring reports whether the window repeats weekly rather than applying
// to a single calendar date.
func (w *AvailabilityWindow) IsRecurring() bool {
	return w.Date == "" && w.Weekday != nil
}
