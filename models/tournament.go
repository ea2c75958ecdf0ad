package models

import "time"

// TournamentFormat describes how a bracket's match graph is built.
type TournamentFormat string

const (
	FormatSingleElimination TournamentFormat = "single_elimination"
	FormatDoubleElimination TournamentFormat = "double_elimination"
	FormatRoundRobin        TournamentFormat = "round_robin"
)

func (f TournamentFormat) Valid() bool {
	switch f {
	case FormatSingleElimination, FormatDoubleElimination, FormatRoundRobin:
		return true
	}
	return false
}

// IsElimination reports whether a tied score is unacceptable for the format.
func (f TournamentFormat) IsElimination() bool {
	return f == FormatSingleElimination || f == FormatDoubleElimination
}

// ParticipantArity describes what kind of entrant fills a bracket slot.
type ParticipantArity string

const (
	ArityIndividual ParticipantArity = "individual"
	ArityDoubles    ParticipantArity = "doubles"
	ArityTeam       ParticipantArity = "team"
)

func (a ParticipantArity) Valid() bool {
	switch a {
	case ArityIndividual, ArityDoubles, ArityTeam:
		return true
	}
	return false
}

// Sport selects the scoring path for a tournament's matches.
type Sport string

const (
	SportGeneric Sport = "generic"
	SportTennis  Sport = "tennis"
)

func (s Sport) Valid() bool {
	return s == SportGeneric || s == SportTennis
}

type TournamentStatus string

const (
	TournamentDraft     TournamentStatus = "draft"
	TournamentActive    TournamentStatus = "active"
	TournamentCompleted TournamentStatus = "completed"
	TournamentCancelled TournamentStatus = "cancelled"
)

func (s TournamentStatus) Valid() bool {
	switch s {
	case TournamentDraft, TournamentActive, TournamentCompleted, TournamentCancelled:
		return true
	}
	return false
}

// Tournament owns zero or more brackets. The tennis config, when present, is
// an immutable value copied into each match's scoring state at init time.
type Tournament struct {
	ID          int              `json:"id" db:"id"`
	Name        string           `json:"name" db:"name"`
	Format      TournamentFormat `json:"format" db:"format"`
	Arity       ParticipantArity `json:"participant_arity" db:"participant_arity"`
	Sport       Sport            `json:"sport" db:"sport"`
	Status      TournamentStatus `json:"status" db:"status"`
	Tennis      *TennisConfig    `json:"tennis_config,omitempty" db:"tennis_config"`
	CreatedAt   time.Time        `json:"created_at" db:"created_at"`
	CompletedAt *time.Time       `json:"completed_at,omitempty" db:"completed_at"`

	// Loaded on demand, not mapped directly.
	Brackets []Bracket `json:"brackets,omitempty" db:"-"`
}
