package models

import "time"

type BracketStatus string

const (
	BracketDraft     BracketStatus = "draft"
	BracketActive    BracketStatus = "active"
	BracketCompleted BracketStatus = "completed"
)

// Bracket is one self-contained draw within a tournament (main draw,
// consolation draw, ...). Format and arity default to the tournament's
// values unless overridden.
type Bracket struct {
	ID           int               `json:"id" db:"id"`
	TournamentID int               `json:"tournament_id" db:"tournament_id"`
	Name         string            `json:"name" db:"name"`
	Format       *TournamentFormat `json:"format,omitempty" db:"format"`
	Arity        *ParticipantArity `json:"participant_arity,omitempty" db:"participant_arity"`
	Status       BracketStatus     `json:"status" db:"status"`
	CreatedAt    time.Time         `json:"created_at" db:"created_at"`

	Participants []Participant `json:"participants,omitempty" db:"-"`
	Matches      []Match       `json:"matches,omitempty" db:"-"`
}

// EffectiveFormat resolves the bracket's format against its tournament.
func (b *Bracket) EffectiveFormat(t *Tournament) TournamentFormat {
	if b.Format != nil {
		return *b.Format
	}
	return t.Format
}
