package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courtside/tournament-engine/models"
)

func intPtr(v int) *int { return &v }

func newTestState(t *testing.T, cfg models.TennisConfig, firstServer int) *models.TennisState {
	t.Helper()
	st, err := NewState(cfg, firstServer)
	require.NoError(t, err)
	return st
}

func scorePoints(t *testing.T, st *models.TennisState, winner, count int) {
	t.Helper()
	for i := 0; i < count; i++ {
		require.NoError(t, ScorePoint(st, winner))
	}
}

// winGames wins the given number of games for one participant, 4 clean
// points each.
func winGames(t *testing.T, st *models.TennisState, winner, games int) {
	t.Helper()
	for i := 0; i < games; i++ {
		scorePoints(t, st, winner, 4)
	}
}

func TestNewStateValidation(t *testing.T) {
	_, err := NewState(models.TennisConfig{SetsToWin: 2}, 3)
	assert.ErrorIs(t, err, ErrInvalidServer)

	_, err = NewState(models.TennisConfig{SetsToWin: 0}, 1)
	assert.ErrorIs(t, err, ErrInvalidConfig)

	st := newTestState(t, models.TennisConfig{SetsToWin: 2}, 2)
	assert.Equal(t, 2, st.Serving)
	assert.Equal(t, 2, st.FirstServerOfSet)
	assert.Empty(t, st.Sets)
	assert.False(t, st.IsMatchComplete)
}

func TestGamePointProgression(t *testing.T) {
	st := newTestState(t, models.TennisConfig{AdScoring: true, SetsToWin: 2}, 1)

	scorePoints(t, st, 1, 3)
	assert.Equal(t, [2]int{3, 0}, st.CurrentGamePoints)
	assert.Equal(t, "40", PointLabel(st.CurrentGamePoints[0]))
	assert.Equal(t, 1, st.Serving)

	scorePoints(t, st, 1, 1)
	assert.Equal(t, [2]int{0, 0}, st.CurrentGamePoints)
	assert.Equal(t, [2]int{1, 0}, st.CurrentSetGames)
	assert.Equal(t, 2, st.Serving, "service alternates after every game")
}

func TestDeuceAdvantageScoring(t *testing.T) {
	st := newTestState(t, models.TennisConfig{AdScoring: true, SetsToWin: 2}, 1)

	scorePoints(t, st, 1, 3)
	scorePoints(t, st, 2, 3)
	assert.Equal(t, [2]int{3, 3}, st.CurrentGamePoints)

	scorePoints(t, st, 1, 1)
	assert.Equal(t, [2]int{4, 3}, st.CurrentGamePoints)
	assert.Equal(t, "AD", PointLabel(st.CurrentGamePoints[0]))

	// The other side regains: straight back to deuce.
	scorePoints(t, st, 2, 1)
	assert.Equal(t, [2]int{3, 3}, st.CurrentGamePoints)

	scorePoints(t, st, 2, 1)
	scorePoints(t, st, 2, 1)
	assert.Equal(t, [2]int{0, 1}, st.CurrentSetGames)
}

func TestNoAdDeuceDecidesGame(t *testing.T) {
	st := newTestState(t, models.TennisConfig{AdScoring: false, SetsToWin: 2}, 1)

	scorePoints(t, st, 1, 3)
	scorePoints(t, st, 2, 3)
	scorePoints(t, st, 2, 1)
	assert.Equal(t, [2]int{0, 1}, st.CurrentSetGames)
	assert.Equal(t, [2]int{0, 0}, st.CurrentGamePoints)
}

func TestSetWonSixLoveAndServerFlip(t *testing.T) {
	st := newTestState(t, models.TennisConfig{AdScoring: true, SetsToWin: 2}, 1)

	winGames(t, st, 1, 6)
	require.Equal(t, [][2]int{{6, 0}}, st.Sets)
	assert.Equal(t, [2]int{0, 0}, st.CurrentSetGames)
	assert.False(t, st.IsMatchComplete)

	// After an odd-numbered set the opening server of the next set flips.
	assert.Equal(t, 2, st.FirstServerOfSet)
	assert.Equal(t, 2, st.Serving)
}

func TestSetWonSevenFive(t *testing.T) {
	st := newTestState(t, models.TennisConfig{AdScoring: true, SetsToWin: 2}, 1)

	for i := 0; i < 5; i++ {
		winGames(t, st, 1, 1)
		winGames(t, st, 2, 1)
	}
	winGames(t, st, 1, 1)
	require.Equal(t, [2]int{6, 5}, st.CurrentSetGames)
	assert.False(t, st.IsTiebreak, "6-5 is not a tiebreak")

	winGames(t, st, 1, 1)
	assert.Equal(t, [][2]int{{7, 5}}, st.Sets)
}

func TestTiebreakEntryRotationAndResult(t *testing.T) {
	st := newTestState(t, models.TennisConfig{AdScoring: true, SetsToWin: 2}, 1)

	for i := 0; i < 6; i++ {
		winGames(t, st, 1, 1)
		winGames(t, st, 2, 1)
	}
	require.Equal(t, [2]int{6, 6}, st.CurrentSetGames)
	require.True(t, st.IsTiebreak)
	assert.Equal(t, models.TiebreakSet, st.TiebreakMode)
	assert.Equal(t, 7, st.TiebreakTarget)

	// Opening server serves one point, then service alternates every two.
	opener := st.Serving
	scorePoints(t, st, 1, 1)
	assert.NotEqual(t, opener, st.Serving)
	scorePoints(t, st, 1, 1)
	assert.NotEqual(t, opener, st.Serving)
	scorePoints(t, st, 1, 1)
	assert.Equal(t, opener, st.Serving)

	scorePoints(t, st, 1, 4)
	require.Equal(t, [][2]int{{7, 6}}, st.Sets, "tiebreak set records as 7-6")
	assert.False(t, st.IsTiebreak)
}

func TestTiebreakNeedsTwoPointMargin(t *testing.T) {
	st := newTestState(t, models.TennisConfig{AdScoring: true, SetsToWin: 2, SetTiebreakTarget: intPtr(7)}, 1)

	for i := 0; i < 6; i++ {
		winGames(t, st, 1, 1)
		winGames(t, st, 2, 1)
	}
	require.True(t, st.IsTiebreak)

	scorePoints(t, st, 1, 6)
	scorePoints(t, st, 2, 6)
	scorePoints(t, st, 1, 1)
	assert.True(t, st.IsTiebreak, "7-6 does not end the tiebreak")
	assert.Equal(t, [2]int{7, 6}, st.TiebreakPoints)

	scorePoints(t, st, 1, 1)
	assert.False(t, st.IsTiebreak)
	assert.Equal(t, [][2]int{{7, 6}}, st.Sets)
}

func TestMatchTiebreakReplacesDecidingSet(t *testing.T) {
	st := newTestState(t, models.TennisConfig{
		AdScoring:        true,
		SetsToWin:        2,
		UseMatchTiebreak: true,
	}, 1)

	winGames(t, st, 1, 6)
	winGames(t, st, 2, 6)
	require.Equal(t, [][2]int{{6, 0}, {0, 6}}, st.Sets)
	require.True(t, st.IsTiebreak)
	assert.Equal(t, models.TiebreakMatch, st.TiebreakMode)
	assert.Equal(t, 10, st.TiebreakTarget)

	scorePoints(t, st, 1, 10)
	assert.True(t, st.IsMatchComplete)
	assert.Equal(t, [][2]int{{6, 0}, {0, 6}, {10, 0}}, st.Sets, "match tiebreak records as a pseudo-set")
	assert.Equal(t, 1, Winner(st))
}

func TestMatchCompleteInStraightSets(t *testing.T) {
	st := newTestState(t, models.TennisConfig{AdScoring: true, SetsToWin: 2}, 1)

	winGames(t, st, 2, 12)
	assert.True(t, st.IsMatchComplete)
	assert.Equal(t, 2, Winner(st))

	a, b := SetsWon(st)
	assert.Equal(t, 0, a)
	assert.Equal(t, 2, b)

	err := ScorePoint(st, 1)
	assert.ErrorIs(t, err, ErrMatchComplete)
}

func TestScorePointRejectsBadWinner(t *testing.T) {
	st := newTestState(t, models.TennisConfig{AdScoring: true, SetsToWin: 2}, 1)
	assert.ErrorIs(t, ScorePoint(st, 0), ErrInvalidWinner)
	assert.ErrorIs(t, ScorePoint(st, 3), ErrInvalidWinner)
	assert.Empty(t, st.History, "a rejected point leaves no history entry")
}

func TestUndoIsExactInverse(t *testing.T) {
	st := newTestState(t, models.TennisConfig{AdScoring: true, SetsToWin: 2}, 1)
	scorePoints(t, st, 1, 2)
	scorePoints(t, st, 2, 1)

	before := st.Snapshot()
	require.NoError(t, ScorePoint(st, 1))
	require.True(t, Undo(st))
	assert.Equal(t, before, st.Snapshot())
}

func TestUndoAcrossSetBoundary(t *testing.T) {
	st := newTestState(t, models.TennisConfig{AdScoring: true, SetsToWin: 2}, 1)
	winGames(t, st, 1, 5)
	scorePoints(t, st, 1, 3)

	before := st.Snapshot()
	scorePoints(t, st, 1, 1)
	require.Len(t, st.Sets, 1)

	require.True(t, Undo(st))
	assert.Equal(t, before, st.Snapshot())
	assert.Empty(t, st.Sets)
	assert.Equal(t, [2]int{5, 0}, st.CurrentSetGames)
}

func TestUndoMatchWinningPointReopensMatch(t *testing.T) {
	st := newTestState(t, models.TennisConfig{AdScoring: true, SetsToWin: 2}, 1)
	winGames(t, st, 1, 11)
	scorePoints(t, st, 1, 3)
	require.False(t, st.IsMatchComplete)

	scorePoints(t, st, 1, 1)
	require.True(t, st.IsMatchComplete)

	require.True(t, Undo(st))
	assert.False(t, st.IsMatchComplete)
	assert.Equal(t, 0, Winner(st))
}

func TestUndoOnEmptyHistory(t *testing.T) {
	st := newTestState(t, models.TennisConfig{AdScoring: true, SetsToWin: 2}, 1)
	assert.False(t, Undo(st))
}

func TestHistoryIsBounded(t *testing.T) {
	st := newTestState(t, models.TennisConfig{AdScoring: true, SetsToWin: 2}, 1)

	// Alternating points cycle between deuce and advantage forever.
	for i := 0; i < MaxHistory+20; i++ {
		winner := 1 + i%2
		require.NoError(t, ScorePoint(st, winner))
	}
	assert.Len(t, st.History, MaxHistory)
}

func TestFinalSetTiebreakTargetOverride(t *testing.T) {
	st := newTestState(t, models.TennisConfig{
		AdScoring:              true,
		SetsToWin:              2,
		FinalSetTiebreakTarget: intPtr(10),
	}, 1)

	winGames(t, st, 1, 6)
	winGames(t, st, 2, 6)
	for i := 0; i < 6; i++ {
		winGames(t, st, 1, 1)
		winGames(t, st, 2, 1)
	}
	require.True(t, st.IsTiebreak)
	assert.Equal(t, models.TiebreakSet, st.TiebreakMode)
	assert.Equal(t, 10, st.TiebreakTarget, "deciding set uses its own tiebreak target")
}

func TestSetServer(t *testing.T) {
	st := newTestState(t, models.TennisConfig{AdScoring: true, SetsToWin: 2}, 1)
	require.NoError(t, SetServer(st, 2))
	assert.Equal(t, 2, st.Serving)
	assert.ErrorIs(t, SetServer(st, 5), ErrInvalidServer)
}
