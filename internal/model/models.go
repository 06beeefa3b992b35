package model

import "time"

type ID = uint

// PauseReason is the closed set of reasons a shift can be suspended.
type PauseReason string

const (
	PauseReasonBreak PauseReason = "break"
	PauseReasonOther PauseReason = "other"
)

func (r PauseReason) Valid() bool {
	switch r {
	case PauseReasonBreak, PauseReasonOther:
		return true
	}
	return false
}

// ActivityKind is the closed set of annotations inside a work session.
type ActivityKind string

const (
	ActivityKindWork     ActivityKind = "work"
	ActivityKindBreak    ActivityKind = "break"
	ActivityKindMeeting  ActivityKind = "meeting"
	ActivityKindTraining ActivityKind = "training"
	ActivityKindOther    ActivityKind = "other"
)

func (k ActivityKind) Valid() bool {
	switch k {
	case ActivityKindWork, ActivityKindBreak, ActivityKindMeeting, ActivityKindTraining, ActivityKindOther:
		return true
	}
	return false
}

// WorkSession is one explicit shift, bounded by check-in and check-out.
// At most one session per user is active at any instant; closed sessions
// are the permanent historical record and are never deleted.
type WorkSession struct {
	ID        ID        `json:"id" db:"id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`

	User ID        `json:"userId" db:"user_id"`
	Date time.Time `json:"date" db:"session_date"`

	CheckIn  time.Time  `json:"checkInTime" db:"checkin_at"`
	CheckOut *time.Time `json:"checkOutTime" db:"checkout_at"`

	TotalSeconds *int64 `json:"totalDuration" db:"total_seconds"`
	NetSeconds   *int64 `json:"netDuration" db:"net_seconds"`

	Active bool    `json:"isActive" db:"is_active"`
	Notes  *string `json:"notes,omitempty" db:"notes"`

	// ClosedBy is set when someone other than the owner closed the
	// session (admin force-end, orphan cleanup). Nil means a normal
	// owner check-out.
	ClosedBy *ID `json:"closedBy,omitempty" db:"closed_by"`
}

// Pause is a sub-interval of one WorkSession during which work is
// suspended but the shift stays open. Its lifetime is bounded by the
// parent session.
type Pause struct {
	ID        ID        `json:"id" db:"id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`

	Session ID `json:"sessionId" db:"session_id"`

	Start time.Time  `json:"pauseStart" db:"started_at"`
	End   *time.Time `json:"pauseEnd" db:"ended_at"`

	Reason          PauseReason `json:"reason" db:"reason"`
	DurationSeconds *int64      `json:"duration" db:"duration_seconds"`
	Active          bool        `json:"isActive" db:"is_active"`
}

// Activity is a finer-grained annotation inside a WorkSession. It does
// not participate in the duration invariants; open rows are closed as a
// side effect of check-out.
type Activity struct {
	ID        ID        `json:"id" db:"id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`

	Session ID           `json:"sessionId" db:"session_id"`
	Kind    ActivityKind `json:"kind" db:"kind"`

	Start time.Time  `json:"startTime" db:"started_at"`
	End   *time.Time `json:"endTime" db:"ended_at"`

	Project *ID     `json:"projectId,omitempty" db:"project_id"`
	Note    *string `json:"note,omitempty" db:"note"`
}

// ActivitySession is a presence interval inferred from heartbeat pings,
// independent of explicit shift tracking. While active, LastSeen doubles
// as the interval end.
type ActivitySession struct {
	ID        ID        `json:"id" db:"id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`

	User ID `json:"userId" db:"user_id"`

	Start    time.Time `json:"startTime" db:"started_at"`
	LastSeen time.Time `json:"lastSeen" db:"last_seen_at"`

	Active          bool   `json:"isActive" db:"is_active"`
	DurationMinutes *int64 `json:"durationMinutes" db:"duration_minutes"`
}

// Presence is the lightweight "user last seen" record the heartbeat
// maintains unconditionally, for display only.
type Presence struct {
	User     ID        `json:"userId" db:"user_id"`
	LastSeen time.Time `json:"lastSeen" db:"last_seen_at"`
}
