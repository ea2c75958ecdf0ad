package models

import "time"

// Participant is an entrant in one bracket: an individual, a doubles pair or
// a team, depending on the bracket's arity. The running aggregates are
// mutated only when a match completes (or a completion is undone).
type Participant struct {
	ID        int     `json:"id" db:"id"`
	BracketID int     `json:"bracket_id" db:"bracket_id"`
	Name      string  `json:"name" db:"name"`
	Partner   *string `json:"partner,omitempty" db:"partner"`
	Seed      *int    `json:"seed,omitempty" db:"seed"`

	Wins          int `json:"wins" db:"wins"`
	Losses        int `json:"losses" db:"losses"`
	Draws         int `json:"draws" db:"draws"`
	PointsFor     int `json:"points_for" db:"points_for"`
	PointsAgainst int `json:"points_against" db:"points_against"`

	// Placeholders reserve a slot in a pre-sized draw before real entrants
	// are known. PlaceholderKey keeps a stable identity until the name is
	// filled in.
	IsPlaceholder  bool    `json:"is_placeholder" db:"is_placeholder"`
	PlaceholderKey *string `json:"placeholder_key,omitempty" db:"placeholder_key"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// DisplayName renders the participant for scoreboards.
func (p *Participant) DisplayName() string {
	if p.Partner != nil && *p.Partner != "" {
		return p.Name + " / " + *p.Partner
	}
	return p.Name
}
