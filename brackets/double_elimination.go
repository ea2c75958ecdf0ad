package brackets

import (
	"context"
	"fmt"

	"github.com/courtside/tournament-engine/models"
)

type DoubleEliminationGenerator struct{}

func NewDoubleEliminationGenerator() Generator {
	return &DoubleEliminationGenerator{}
}

func (g *DoubleEliminationGenerator) Name() string {
	return "DoubleElimination"
}

// Generate builds a winners bracket, a losers bracket fed by every winners
// match's loser, and a grand final between the two bracket winners.
//
// Unlike single elimination the losers bracket needs the structural slots of
// a full power-of-two draw, so short fields keep their bye matches as
// status=bye records: winners-round-1 byes have the advancing participant
// pre-seated, and losers matches left with a single feeder become byes whose
// occupant is auto-advanced when it arrives. Losers matches with no live
// feeder at all are not created.
func (g *DoubleEliminationGenerator) Generate(ctx context.Context, params GenerateParams) ([]*Match, error) {
	n := len(params.Participants)
	if n < 2 {
		return nil, ErrNotEnoughParticipants
	}
	if n > MaxBracketSize {
		return nil, ErrBracketTooLarge
	}

	size := fullDrawSize(n)
	rounds := 0
	for s := size; s > 1; s /= 2 {
		rounds++
	}
	slots := seedSlots(seedSort(params.Participants), size)

	grandFinal := &Match{
		UID:          "GF",
		Round:        1,
		OrderInRound: 1,
		Side:         models.SideOneOff,
		Status:       models.MatchPending,
	}

	// Winners bracket. Round 1 pairs the seeded slots; byes are kept as
	// records with the winner pre-seated and propagated.
	winners := make([][]*Match, rounds+1)
	for r := 1; r <= rounds; r++ {
		count := size >> uint(r)
		winners[r] = make([]*Match, count)
		for i := 0; i < count; i++ {
			winners[r][i] = &Match{
				UID:          fmt.Sprintf("WR%dM%d", r, i+1),
				Round:        r,
				OrderInRound: i + 1,
				Side:         models.SideWinners,
				Status:       models.MatchPending,
			}
		}
	}
	for i := 0; i < size/2; i++ {
		m := winners[1][i]
		p1, p2 := slots[2*i], slots[2*i+1]
		if p1 != nil {
			id := p1.ID
			m.Participant1ID = &id
		}
		if p2 != nil {
			id := p2.ID
			m.Participant2ID = &id
		}
		if p1 == nil || p2 == nil {
			m.Status = models.MatchBye
			m.WinnerID = firstFilled(m.Participant1ID, m.Participant2ID)
		}
	}
	for r := 1; r <= rounds; r++ {
		for i, m := range winners[r] {
			if r == rounds {
				m.NextUID = grandFinal.UID
				m.NextSlot = 1
				continue
			}
			target := winners[r+1][i/2]
			m.NextUID = target.UID
			m.NextSlot = i%2 + 1
			if m.Status == models.MatchBye && m.WinnerID != nil {
				seat(target, m.NextSlot, *m.WinnerID)
			}
		}
	}

	if rounds == 1 {
		// Two entrants: the loser of the only winners match gets a second
		// chance directly in the grand final.
		winners[1][0].LoserNextUID = grandFinal.UID
		winners[1][0].LoserNextSlot = 2
		return append([]*Match{winners[1][0]}, grandFinal), nil
	}

	// Losers bracket: for stage j (1..rounds-1) a minor round 2j-1 pairs the
	// bracket's survivors and a major round 2j drops in the losers of
	// winners round j+1.
	losersRounds := 2*rounds - 2
	losers := make([][]*Match, losersRounds+1)
	for j := 1; j <= rounds-1; j++ {
		count := size >> uint(j+1)
		for _, lr := range []int{2*j - 1, 2 * j} {
			losers[lr] = make([]*Match, count)
			for i := 0; i < count; i++ {
				losers[lr][i] = &Match{
					UID:          fmt.Sprintf("LR%dM%d", lr, i+1),
					Round:        lr,
					OrderInRound: i + 1,
					Side:         models.SideLosers,
					Status:       models.MatchPending,
				}
			}
		}
	}

	// Minor round 1 receives the losers of winners round 1. A bye winners
	// match produces no loser, so its slot stays dead; one dead slot makes
	// the match a bye, two dead slots void it.
	for t, m := range losers[1] {
		f1, f2 := winners[1][2*t], winners[1][2*t+1]
		alive := 0
		for slot, f := range map[int]*Match{1: f1, 2: f2} {
			if f.Status == models.MatchBye {
				continue
			}
			f.LoserNextUID = m.UID
			f.LoserNextSlot = slot
			alive++
		}
		switch alive {
		case 0:
			losers[1][t] = nil
		case 1:
			m.Status = models.MatchBye
		}
	}

	for j := 1; j <= rounds-1; j++ {
		count := size >> uint(j+1)
		for t := 0; t < count; t++ {
			major := losers[2*j][t]

			// Winners losers drop in with alternating order per stage to
			// push early rematches apart.
			src := t
			if j%2 == 1 {
				src = count - 1 - t
			}
			winners[j+1][src].LoserNextUID = major.UID
			winners[j+1][src].LoserNextSlot = 2

			minor := losers[2*j-1][t]
			if minor == nil {
				major.Status = models.MatchBye
			} else {
				minor.NextUID = major.UID
				minor.NextSlot = 1
			}

			if j >= 2 {
				// Pair the previous stage's major winners into this minor.
				if minor != nil {
					losers[2*j-2][2*t].NextUID = minor.UID
					losers[2*j-2][2*t].NextSlot = 1
					losers[2*j-2][2*t+1].NextUID = minor.UID
					losers[2*j-2][2*t+1].NextSlot = 2
				}
			}
		}
	}

	losersFinal := losers[losersRounds][0]
	losersFinal.NextUID = grandFinal.UID
	losersFinal.NextSlot = 2

	var out []*Match
	for r := 1; r <= rounds; r++ {
		out = append(out, winners[r]...)
	}
	for lr := 1; lr <= losersRounds; lr++ {
		for _, m := range losers[lr] {
			if m != nil {
				out = append(out, m)
			}
		}
	}
	out = append(out, grandFinal)
	return out, nil
}

func firstFilled(ids ...*int) *int {
	for _, id := range ids {
		if id != nil {
			return id
		}
	}
	return nil
}

func seat(m *Match, slot int, participantID int) {
	id := participantID
	if slot == 1 {
		m.Participant1ID = &id
	} else {
		m.Participant2ID = &id
	}
}
