package models

import "time"

type MatchStatus string

const (
	MatchPending   MatchStatus = "pending"
	MatchScheduled MatchStatus = "scheduled"
	MatchLive      MatchStatus = "live"
	MatchCompleted MatchStatus = "completed"
	MatchBye       MatchStatus = "bye"
)

// Open reports whether the match still has to be played.
func (s MatchStatus) Open() bool {
	return s == MatchPending || s == MatchScheduled || s == MatchLive
}

// BracketSide places a match in the winners bracket, the losers bracket, or
// outside both (grand finals, round-robin pairings, exhibition matches).
type BracketSide string

const (
	SideWinners BracketSide = "winners"
	SideLosers  BracketSide = "losers"
	SideOneOff  BracketSide = "one_off"
)

func (s BracketSide) Valid() bool {
	switch s {
	case SideWinners, SideLosers, SideOneOff:
		return true
	}
	return false
}

// Match is one node of a bracket's match graph. The two participant slots
// are either both unset, both set, or (bye) one set. Forward links route the
// winner (and, in double elimination, the loser) into a downstream slot.
type Match struct {
	ID           int         `json:"id" db:"id"`
	TournamentID int         `json:"tournament_id" db:"tournament_id"`
	BracketID    int         `json:"bracket_id" db:"bracket_id"`
	UID          string      `json:"uid" db:"uid"`
	Round        int         `json:"round" db:"round"`
	MatchNumber  int         `json:"match_number" db:"match_number"`
	Side         BracketSide `json:"side" db:"side"`

	Participant1ID *int `json:"participant1_id,omitempty" db:"participant1_id"`
	Participant2ID *int `json:"participant2_id,omitempty" db:"participant2_id"`

	Score1 int `json:"score1" db:"score1"`
	Score2 int `json:"score2" db:"score2"`

	Status      MatchStatus `json:"status" db:"status"`
	Court       *string     `json:"court,omitempty" db:"court"`
	ScheduledAt *time.Time  `json:"scheduled_at,omitempty" db:"scheduled_at"`
	StartedAt   *time.Time  `json:"started_at,omitempty" db:"started_at"`
	CompletedAt *time.Time  `json:"completed_at,omitempty" db:"completed_at"`

	WinnerID *int `json:"winner_id,omitempty" db:"winner_id"`

	NextMatchID        *int `json:"next_match_id,omitempty" db:"next_match_id"`
	NextMatchSlot      *int `json:"next_match_slot,omitempty" db:"next_match_slot"`
	LoserNextMatchID   *int `json:"loser_next_match_id,omitempty" db:"loser_next_match_id"`
	LoserNextMatchSlot *int `json:"loser_next_match_slot,omitempty" db:"loser_next_match_slot"`

	// Present only for tennis matches once scoring has been initialised.
	Tennis *TennisState `json:"tennis_state,omitempty" db:"tennis_state"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Slot returns the participant id occupying the given slot (1 or 2).
func (m *Match) Slot(slot int) *int {
	if slot == 1 {
		return m.Participant1ID
	}
	return m.Participant2ID
}

// SetSlot writes a participant id (or nil) into the given slot (1 or 2).
func (m *Match) SetSlot(slot int, participantID *int) {
	if slot == 1 {
		m.Participant1ID = participantID
		return
	}
	m.Participant2ID = participantID
}

// LoserID derives the losing participant from the winner, if both slots are
// filled and a winner is recorded.
func (m *Match) LoserID() *int {
	if m.WinnerID == nil || m.Participant1ID == nil || m.Participant2ID == nil {
		return nil
	}
	if *m.WinnerID == *m.Participant1ID {
		return m.Participant2ID
	}
	return m.Participant1ID
}

// HasParticipant reports whether the given participant occupies a slot.
func (m *Match) HasParticipant(participantID int) bool {
	return (m.Participant1ID != nil && *m.Participant1ID == participantID) ||
		(m.Participant2ID != nil && *m.Participant2ID == participantID)
}
