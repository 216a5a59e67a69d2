package session

import "time"

func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

func (s Status) Valid() bool {
	switch s {
	case StatusOpen, StatusFull, StatusAwaitingConfirmation, StatusCompleted, StatusCancelled:
		return true
	default:
		return false
	}
}

// EffectiveStatus derives the status a reader should see. An open or full
// session whose start has passed is awaiting confirmation; nothing ever
// stores that state, so it cannot drift from the clock.
func EffectiveStatus(stored Status, scheduledStart, now time.Time) Status {
	if stored.IsTerminal() {
		return stored
	}
	if !now.Before(scheduledStart) {
		return StatusAwaitingConfirmation
	}
	return stored
}

func (s Session) EffectiveStatus(now time.Time) Status {
	return EffectiveStatus(s.Status, s.ScheduledStart, now)
}

// seatStatus is the stored status implied by the seat counter.
func seatStatus(seatsAvailable int) Status {
	if seatsAvailable == 0 {
		return StatusFull
	}
	return StatusOpen
}
