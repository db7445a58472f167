package domain

// Default reservation policy applied when the settings row has never been written
const (
	DefaultMaxDaysInAdvance        = 30
	DefaultMinHoursInAdvance       = 2
	DefaultTimeSlotIntervalMinutes = 30
	DefaultDurationMinutes         = 90
)

// Business validation constants
const (
	MaxDaysInAdvanceLimit       = 365
	MaxMinHoursInAdvance        = 24 * 7
	MinSlotIntervalMinutes      = 5
	MinReservationDuration      = 15
	MaxReservationDuration      = 12 * 60
	MaxTableCapacity            = 50
	MaxPartySize                = MaxTableCapacity
	MaxLocationLength           = 100
	MaxContactNameLength        = 100
	MaxContactPhoneLength       = 32
	MaxContactEmailLength       = 254
	MaxNotesLength              = 500
	MaxCancellationReasonLength = 500
	MaxIdempotencyKeyLength     = 128
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)
