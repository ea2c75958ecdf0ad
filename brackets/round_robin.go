package brackets

import (
	"context"
	"fmt"

	"github.com/courtside/tournament-engine/models"
)

type RoundRobinGenerator struct{}

func NewRoundRobinGenerator() Generator {
	return &RoundRobinGenerator{}
}

func (g *RoundRobinGenerator) Name() string {
	return "RoundRobin"
}

// Generate creates one match per unordered pair of participants using the
// circle method: the first entrant stays fixed while the rest rotate, giving
// n-1 rounds (a dummy fills in for odd fields and its pairings are skipped).
// Round-robin matches carry no forward links; standings are computed from
// participant aggregates.
func (g *RoundRobinGenerator) Generate(ctx context.Context, params GenerateParams) ([]*Match, error) {
	n := len(params.Participants)
	if n < 2 {
		return nil, ErrNotEnoughParticipants
	}
	if n > MaxBracketSize {
		return nil, ErrBracketTooLarge
	}

	ring := make([]*models.Participant, 0, n+1)
	ring = append(ring, seedSort(params.Participants)...)
	if len(ring)%2 == 1 {
		ring = append(ring, nil)
	}

	rounds := len(ring) - 1
	half := len(ring) / 2
	var matches []*Match

	for round := 1; round <= rounds; round++ {
		num := 0
		for i := 0; i < half; i++ {
			p1 := ring[i]
			p2 := ring[len(ring)-1-i]
			if p1 == nil || p2 == nil {
				continue
			}
			num++
			id1, id2 := p1.ID, p2.ID
			matches = append(matches, &Match{
				UID:            fmt.Sprintf("RR%dM%d", round, num),
				Round:          round,
				OrderInRound:   num,
				Side:           models.SideOneOff,
				Status:         models.MatchPending,
				Participant1ID: &id1,
				Participant2ID: &id2,
			})
		}

		// Rotate everyone but the first entrant one position clockwise.
		last := ring[len(ring)-1]
		copy(ring[2:], ring[1:len(ring)-1])
		ring[1] = last
	}

	return matches, nil
}
