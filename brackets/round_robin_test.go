package brackets

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courtside/tournament-engine/models"
)

func TestRoundRobinEveryPairOnce(t *testing.T) {
	matches := generate(t, NewRoundRobinGenerator(), testField(4))
	require.Len(t, matches, 6)

	pairs := make(map[string]int)
	for _, m := range matches {
		a, b := *m.Participant1ID, *m.Participant2ID
		if a > b {
			a, b = b, a
		}
		pairs[fmt.Sprintf("%d-%d", a, b)]++
		assert.Equal(t, models.SideOneOff, m.Side)
		assert.Empty(t, m.NextUID, "round robin has no forward links")
		assert.Empty(t, m.LoserNextUID)
	}
	assert.Len(t, pairs, 6)
	for pair, count := range pairs {
		assert.Equal(t, 1, count, "pair %s scheduled more than once", pair)
	}
}

func TestRoundRobinOddFieldSitsOneOutPerRound(t *testing.T) {
	matches := generate(t, NewRoundRobinGenerator(), testField(5))
	require.Len(t, matches, 10)

	perRound := make(map[int][]*Match)
	for _, m := range matches {
		perRound[m.Round] = append(perRound[m.Round], m)
	}
	require.Len(t, perRound, 5)
	for round, rm := range perRound {
		assert.Len(t, rm, 2, "round %d", round)

		seen := make(map[int]bool)
		for _, m := range rm {
			assert.False(t, seen[*m.Participant1ID])
			assert.False(t, seen[*m.Participant2ID])
			seen[*m.Participant1ID] = true
			seen[*m.Participant2ID] = true
		}
	}
}

func TestRoundRobinUIDsAndStatus(t *testing.T) {
	matches := generate(t, NewRoundRobinGenerator(), testField(2))
	require.Len(t, matches, 1)
	assert.Equal(t, "RR1M1", matches[0].UID)
	assert.Equal(t, models.MatchPending, matches[0].Status)
}
