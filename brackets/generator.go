// Package brackets builds match graphs for the supported tournament
// formats. Builders are pure: they take an ordered participant list and
// return linked Match nodes keyed by string UIDs; persisting them and
// resolving UIDs into row ids is the service layer's job.
package brackets

import (
	"context"
	"errors"
	"fmt"

	"github.com/courtside/tournament-engine/models"
)

// MaxBracketSize caps pre-sized (blank) draws.
const MaxBracketSize = 128

var (
	ErrNotEnoughParticipants = errors.New("brackets: at least 2 participants required")
	ErrBracketTooLarge       = fmt.Errorf("brackets: draw size exceeds maximum of %d", MaxBracketSize)
)

// Match is one builder output node, not yet persisted. Forward links use the
// UIDs of downstream matches; an empty NextUID means the match feeds nothing
// (final, or round robin).
type Match struct {
	UID          string
	Round        int
	OrderInRound int
	Side         models.BracketSide

	Participant1ID *int
	Participant2ID *int

	// Byes are emitted with Status = bye; WinnerID is pre-set when the
	// advancing participant is already known at build time.
	Status   models.MatchStatus
	WinnerID *int

	NextUID       string
	NextSlot      int
	LoserNextUID  string
	LoserNextSlot int
}

type GenerateParams struct {
	Bracket      *models.Bracket
	Participants []*models.Participant
}

type Generator interface {
	Generate(ctx context.Context, params GenerateParams) ([]*Match, error)
	Name() string
}

// ForFormat returns the builder for a format. Unknown formats are an error
// so new variants cannot slip through undispatched.
func ForFormat(format models.TournamentFormat) (Generator, error) {
	switch format {
	case models.FormatSingleElimination:
		return NewSingleEliminationGenerator(), nil
	case models.FormatDoubleElimination:
		return NewDoubleEliminationGenerator(), nil
	case models.FormatRoundRobin:
		return NewRoundRobinGenerator(), nil
	default:
		return nil, fmt.Errorf("brackets: unsupported format %q", format)
	}
}

// BlankSize rounds a requested draw size up to the next power of two and
// validates it against the bounds.
func BlankSize(requested int) (int, error) {
	if requested < 2 {
		return 0, ErrNotEnoughParticipants
	}
	if requested > MaxBracketSize {
		return 0, ErrBracketTooLarge
	}
	size := 2
	for size < requested {
		size *= 2
	}
	return size, nil
}
