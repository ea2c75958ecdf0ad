package brackets

import (
	"context"
	"fmt"

	"github.com/courtside/tournament-engine/models"
)

// node is one occupant of a draw slot while the rounds are walked: a known
// participant, the future winner of an earlier match, or an empty slot
// (bye).
type node struct {
	participantID *int
	sourceUID     string
	bye           bool
}

type SingleEliminationGenerator struct{}

func NewSingleEliminationGenerator() Generator {
	return &SingleEliminationGenerator{}
}

func (g *SingleEliminationGenerator) Name() string {
	return "SingleElimination"
}

// Generate builds a seeded single-elimination graph. Bye pairings produce no
// match: the participant is pre-advanced into the next round, so a field of
// n yields exactly n-1 matches.
func (g *SingleEliminationGenerator) Generate(ctx context.Context, params GenerateParams) ([]*Match, error) {
	n := len(params.Participants)
	if n < 2 {
		return nil, ErrNotEnoughParticipants
	}
	if n > MaxBracketSize {
		return nil, ErrBracketTooLarge
	}

	size := fullDrawSize(n)
	slots := seedSlots(seedSort(params.Participants), size)

	current := make([]*node, size)
	for i, p := range slots {
		if p == nil {
			current[i] = &node{bye: true}
		} else {
			pid := p.ID
			current[i] = &node{participantID: &pid}
		}
	}

	var matches []*Match
	byUID := make(map[string]*Match)

	for round := 1; len(current) > 1; round++ {
		next := make([]*node, 0, len(current)/2)
		num := 0

		for i := 0; i < len(current); i += 2 {
			n1, n2 := current[i], current[i+1]

			if n1.bye || n2.bye {
				adv := n1
				if n1.bye {
					adv = n2
				}
				if adv.bye {
					// Cannot happen with a minimal power-of-two draw.
					return nil, fmt.Errorf("brackets: two byes paired in round %d", round)
				}
				next = append(next, adv)
				continue
			}

			num++
			uid := fmt.Sprintf("R%dM%d", round, num)
			m := &Match{
				UID:          uid,
				Round:        round,
				OrderInRound: num,
				Side:         models.SideWinners,
				Status:       models.MatchPending,
			}
			fillSlot(byUID, m, 1, n1)
			fillSlot(byUID, m, 2, n2)

			byUID[uid] = m
			matches = append(matches, m)
			next = append(next, &node{sourceUID: uid})
		}
		current = next
	}

	return matches, nil
}

// fillSlot either seats a known participant or wires the feeding match's
// winner link into the slot.
func fillSlot(byUID map[string]*Match, m *Match, slot int, from *node) {
	if from.participantID != nil {
		if slot == 1 {
			m.Participant1ID = from.participantID
		} else {
			m.Participant2ID = from.participantID
		}
		return
	}
	source := byUID[from.sourceUID]
	source.NextUID = m.UID
	source.NextSlot = slot
}
