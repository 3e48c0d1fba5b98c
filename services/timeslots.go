package services

// bookingTimeSlots is the fixed catalogue shown on the reservation form.
// Walk-ins bypass it and book the current clock time instead.
var bookingTimeSlots = []string{
	"Sáng 07:00 - 09:00",
	"Sáng 09:00 - 11:00",
	"Trưa 11:00 - 13:00",
	"Chiều 13:00 - 15:00",
	"Chiều 15:00 - 17:00",
	"Tối 17:00 - 19:00",
	"Tối 19:00 - 21:00",
}

// BookingTimeSlots returns a copy of the reservation time slot labels.
func BookingTimeSlots() []string {
	out := make([]string, len(bookingTimeSlots))
	copy(out, bookingTimeSlots)
	return out
}
