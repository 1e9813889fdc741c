package models

import "time"

// Kind selects one of the three punishment collections.
type Kind string

const (
	KindBans  Kind = "bans"
	KindMutes Kind = "mutes"
	KindWarns Kind = "warns"
)

// Punishment is a single ban, mute or warn record. The JSON field names and
// the epoch-seconds float timestamps match the snapshot file layout.
type Punishment struct {
	UserID    int64    `json:"user_id"`
	AdminID   int64    `json:"admin_id"`
	AdminName string   `json:"admin_name"`
	Reason    string   `json:"reason"`
	UntilDate *float64 `json:"until_date"`
	Date      float64  `json:"date"`
	WarnNum   int      `json:"warn_num,omitempty"`
}

// Expired reports whether the record's expiry has passed. Records without an
// expiry are permanent and never expire.
func (p Punishment) Expired(now time.Time) bool {
	if p.UntilDate == nil {
		return false
	}
	return *p.UntilDate <= float64(now.Unix())
}

// Until returns the expiry time and whether one is set.
func (p Punishment) Until() (time.Time, bool) {
	if p.UntilDate == nil {
		return time.Time{}, false
	}
	return time.Unix(int64(*p.UntilDate), 0), true
}

// Epoch converts a time to the snapshot's float timestamp representation.
func Epoch(t time.Time) float64 {
	return float64(t.Unix())
}

// EpochPtr is Epoch for optional expiry fields.
func EpochPtr(t time.Time) *float64 {
	v := Epoch(t)
	return &v
}

// Snapshot is the full persisted punishment state.
type Snapshot struct {
	Bans  []Punishment `json:"bans"`
	Mutes []Punishment `json:"mutes"`
	Warns []Punishment `json:"warns"`
}

// EmptySnapshot returns a snapshot with three empty collections.
func EmptySnapshot() Snapshot {
	return Snapshot{
		Bans:  []Punishment{},
		Mutes: []Punishment{},
		Warns: []Punishment{},
	}
}

// Collection returns the records of one kind.
func (s Snapshot) Collection(kind Kind) []Punishment {
	switch kind {
	case KindBans:
		return s.Bans
	case KindMutes:
		return s.Mutes
	case KindWarns:
		return s.Warns
	}
	return nil
}

// SetCollection replaces the records of one kind.
func (s *Snapshot) SetCollection(kind Kind, records []Punishment) {
	switch kind {
	case KindBans:
		s.Bans = records
	case KindMutes:
		s.Mutes = records
	case KindWarns:
		s.Warns = records
	}
}

// Clone returns a deep copy so callers can mutate freely.
func (s Snapshot) Clone() Snapshot {
	out := Snapshot{
		Bans:  make([]Punishment, len(s.Bans)),
		Mutes: make([]Punishment, len(s.Mutes)),
		Warns: make([]Punishment, len(s.Warns)),
	}
	copy(out.Bans, s.Bans)
	copy(out.Mutes, s.Mutes)
	copy(out.Warns, s.Warns)
	return out
}

// CommandEvent is one handled command, recorded for usage statistics.
type CommandEvent struct {
	UserID  int64
	Command string
	At      time.Time
}

// UsageSummary aggregates the command log for the /stat report.
type UsageSummary struct {
	TotalUsers    int
	CoinRequests  int
	CommandsToday int
}
