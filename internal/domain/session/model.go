package session

import "time"

type Status string

const (
	StatusOpen                 Status = "open"
	StatusFull                 Status = "full"
	StatusAwaitingConfirmation Status = "awaiting_confirmation"
	StatusCompleted            Status = "completed"
	StatusCancelled            Status = "cancelled"
)

type MembershipStatus string

const (
	MembershipConfirmed MembershipStatus = "confirmed"
	MembershipWithdrawn MembershipStatus = "withdrawn"
)

type Attendance string

const (
	AttendanceUnset   Attendance = "unset"
	AttendancePresent Attendance = "present"
	AttendanceAbsent  Attendance = "absent"
)

// SetScore is a single set result, sides in recording order.
type SetScore struct {
	First  int `json:"first"`
	Second int `json:"second"`
}

type Outcome struct {
	WinningSide string
	SetScores   []SetScore
}

type Metadata struct {
	Title string
	Sport string
	Venue string
}

type Session struct {
	ID                  string
	OrganizerID         string
	Metadata            Metadata
	SeatsTotal          int
	SeatsAvailable      int
	ScheduledStart      time.Time
	Status              Status
	AttendanceConfirmed bool
	Outcome             *Outcome
	Version             int64
	CreatedAt           time.Time
	UpdatedAt           time.Time
	CancelledAt         *time.Time
}

type Participant struct {
	SessionID            string
	UserID               string
	MembershipStatus     MembershipStatus
	IsOrganizer          bool
	Side                 string
	Attendance           Attendance
	AttendanceRecordedAt *time.Time
	// PenaltyApplied sums the late-withdrawal deltas booked on this row.
	// It survives a rejoin, so a later no-show is not charged twice.
	PenaltyApplied int
	JoinedAt       time.Time
	WithdrawnAt    *time.Time
	UpdatedAt      time.Time
}

func (p Participant) Active() bool {
	return p.MembershipStatus == MembershipConfirmed
}

// Aggregate is a session together with its full membership history; it is
// the unit the store reads and writes atomically.
type Aggregate struct {
	Session      Session
	Participants []Participant
}

// View is the read projection handed to callers, with the status derived
// for the moment of the read.
type View struct {
	Session      Session
	Participants []Participant
}

func (a Aggregate) Clone() Aggregate {
	out := Aggregate{Session: a.Session}
	if a.Session.Outcome != nil {
		outcome := *a.Session.Outcome
		outcome.SetScores = append([]SetScore(nil), a.Session.Outcome.SetScores...)
		out.Session.Outcome = &outcome
	}
	if a.Session.CancelledAt != nil {
		at := *a.Session.CancelledAt
		out.Session.CancelledAt = &at
	}
	out.Participants = make([]Participant, len(a.Participants))
	for i, p := range a.Participants {
		if p.AttendanceRecordedAt != nil {
			at := *p.AttendanceRecordedAt
			p.AttendanceRecordedAt = &at
		}
		if p.WithdrawnAt != nil {
			at := *p.WithdrawnAt
			p.WithdrawnAt = &at
		}
		out.Participants[i] = p
	}
	return out
}

// View projects the aggregate as seen at now.
func (a Aggregate) View(now time.Time) View {
	cloned := a.Clone()
	cloned.Session.Status = cloned.Session.EffectiveStatus(now)
	return View{Session: cloned.Session, Participants: cloned.Participants}
}
