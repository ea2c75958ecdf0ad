// Package scoring implements the tennis point-level state machine: game,
// set, tiebreak and match-tiebreak rules, server rotation and undo history.
// It operates on in-memory state only; persistence and match lifecycle are
// the caller's concern.
package scoring

import (
	"errors"

	"github.com/courtside/tournament-engine/models"
)

const (
	// MaxHistory bounds the undo stack. Oldest snapshots are dropped first.
	MaxHistory = 128

	defaultSetTiebreakTarget   = 7
	defaultMatchTiebreakTarget = 10

	gamesToWinSet    = 6
	pointDeuce       = 3
	pointAdvantage   = 4
	tiebreakEntryAll = 6
)

var (
	ErrMatchComplete = errors.New("tennis: match is already complete")
	ErrInvalidWinner = errors.New("tennis: point winner must be 1 or 2")
	ErrInvalidServer = errors.New("tennis: server must be 1 or 2")
	ErrInvalidConfig = errors.New("tennis: sets_to_win must be at least 1")
)

// NewState builds a fresh state for a match: empty sets, love-all, the given
// participant serving first. The config is copied in and never mutated.
func NewState(cfg models.TennisConfig, firstServer int) (*models.TennisState, error) {
	if firstServer != 1 && firstServer != 2 {
		return nil, ErrInvalidServer
	}
	if cfg.SetsToWin < 1 {
		return nil, ErrInvalidConfig
	}
	return &models.TennisState{
		Sets:             [][2]int{},
		Serving:          firstServer,
		FirstServerOfSet: firstServer,
		Config:           cfg,
		History:          []models.TennisSnapshot{},
	}, nil
}

// ScorePoint applies one point for the given participant (1 or 2). The
// pre-point snapshot is pushed onto the history before any mutation so that
// Undo is its exact inverse.
func ScorePoint(st *models.TennisState, winner int) error {
	if st.IsMatchComplete {
		return ErrMatchComplete
	}
	if winner != 1 && winner != 2 {
		return ErrInvalidWinner
	}

	pushHistory(st)

	w := winner - 1
	l := 1 - w
	if st.IsTiebreak {
		scoreTiebreakPoint(st, w, l)
	} else {
		scoreGamePoint(st, w, l)
	}
	return nil
}

// Undo restores the state preceding the most recent point. It reports false
// when there is nothing to undo.
func Undo(st *models.TennisState) bool {
	n := len(st.History)
	if n == 0 {
		return false
	}
	snap := st.History[n-1]
	st.History = st.History[:n-1]
	st.Restore(snap)
	return true
}

// SetServer overwrites the serving participant without touching any other
// field.
func SetServer(st *models.TennisState, participant int) error {
	if participant != 1 && participant != 2 {
		return ErrInvalidServer
	}
	st.Serving = participant
	return nil
}

// SetsWon counts completed sets (including match-tiebreak pseudo-sets) won
// by each side.
func SetsWon(st *models.TennisState) (int, int) {
	var a, b int
	for _, set := range st.Sets {
		if set[0] > set[1] {
			a++
		} else {
			b++
		}
	}
	return a, b
}

// Winner returns 1 or 2 once the match is complete, 0 otherwise.
func Winner(st *models.TennisState) int {
	if !st.IsMatchComplete {
		return 0
	}
	a, b := SetsWon(st)
	if a > b {
		return 1
	}
	return 2
}

// PointLabel renders a game-point counter as a scoreboard value
// (0, 15, 30, 40 or AD).
func PointLabel(points int) string {
	switch points {
	case 0:
		return "0"
	case 1:
		return "15"
	case 2:
		return "30"
	case 3:
		return "40"
	default:
		return "AD"
	}
}

func pushHistory(st *models.TennisState) {
	if len(st.History) >= MaxHistory {
		st.History = st.History[1:]
	}
	st.History = append(st.History, st.Snapshot())
}

func other(participant int) int {
	if participant == 1 {
		return 2
	}
	return 1
}

func scoreGamePoint(st *models.TennisState, w, l int) {
	pw := st.CurrentGamePoints[w]
	pl := st.CurrentGamePoints[l]

	switch {
	case pw == pointDeuce && pl == pointDeuce:
		if st.Config.AdScoring {
			st.CurrentGamePoints[w] = pointAdvantage
		} else {
			winGame(st, w, l)
		}
	case pw == pointDeuce && pl == pointAdvantage:
		// Advantage regained: back to deuce.
		st.CurrentGamePoints[l] = pointDeuce
	case pw == pointAdvantage, pw == pointDeuce:
		winGame(st, w, l)
	default:
		st.CurrentGamePoints[w]++
	}
}

func winGame(st *models.TennisState, w, l int) {
	st.CurrentSetGames[w]++
	st.CurrentGamePoints = [2]int{}
	st.Serving = other(st.Serving)

	gw := st.CurrentSetGames[w]
	gl := st.CurrentSetGames[l]
	switch {
	case gw >= gamesToWinSet && gw-gl >= 2:
		// Covers 6-0 through 6-4 and 7-5.
		recordSet(st, st.CurrentSetGames)
	case gw == tiebreakEntryAll && gl == tiebreakEntryAll:
		enterSetTiebreak(st)
	}
}

func enterSetTiebreak(st *models.TennisState) {
	st.IsTiebreak = true
	st.TiebreakPoints = [2]int{}
	st.TiebreakMode = models.TiebreakSet
	st.TiebreakTarget = setTiebreakTarget(st)
}

// setTiebreakTarget resolves the target for a 6-6 tiebreak; a deciding set
// may carry its own target.
func setTiebreakTarget(st *models.TennisState) int {
	cfg := st.Config
	if len(st.Sets) == 2*cfg.SetsToWin-2 && cfg.FinalSetTiebreakTarget != nil {
		return *cfg.FinalSetTiebreakTarget
	}
	if cfg.SetTiebreakTarget != nil {
		return *cfg.SetTiebreakTarget
	}
	return defaultSetTiebreakTarget
}

func scoreTiebreakPoint(st *models.TennisState, w, l int) {
	st.TiebreakPoints[w]++

	tw := st.TiebreakPoints[w]
	tl := st.TiebreakPoints[l]
	if tw >= st.TiebreakTarget && tw-tl >= 2 {
		if st.TiebreakMode == models.TiebreakMatch {
			// The whole tiebreak stands in for the deciding set.
			points := st.TiebreakPoints
			clearTiebreak(st)
			recordSet(st, points)
			return
		}
		// 7-6 style set: the winner takes one extra game.
		st.CurrentSetGames[w]++
		games := st.CurrentSetGames
		clearTiebreak(st)
		recordSet(st, games)
		return
	}

	// The opening server serves one point, then service alternates every
	// two points.
	if (tw+tl)%2 == 1 {
		st.Serving = other(st.Serving)
	}
}

func clearTiebreak(st *models.TennisState) {
	st.IsTiebreak = false
	st.TiebreakPoints = [2]int{}
	st.TiebreakMode = ""
	st.TiebreakTarget = 0
}

func recordSet(st *models.TennisState, set [2]int) {
	st.Sets = append(st.Sets, set)
	st.CurrentSetGames = [2]int{}
	st.CurrentGamePoints = [2]int{}

	a, b := SetsWon(st)
	if a == st.Config.SetsToWin || b == st.Config.SetsToWin {
		st.IsMatchComplete = true
		return
	}

	// After an odd-numbered set first service flips; after an even-numbered
	// set it stays.
	if len(st.Sets)%2 == 1 {
		st.FirstServerOfSet = other(st.FirstServerOfSet)
	}
	st.Serving = st.FirstServerOfSet

	if st.Config.UseMatchTiebreak && a == st.Config.SetsToWin-1 && b == st.Config.SetsToWin-1 {
		enterMatchTiebreak(st)
	}
}

func enterMatchTiebreak(st *models.TennisState) {
	st.IsTiebreak = true
	st.TiebreakPoints = [2]int{}
	st.TiebreakMode = models.TiebreakMatch
	if st.Config.MatchTiebreakTarget != nil {
		st.TiebreakTarget = *st.Config.MatchTiebreakTarget
	} else {
		st.TiebreakTarget = defaultMatchTiebreakTarget
	}
}
