package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// TiebreakMode distinguishes a 6-6 set tiebreak from a match tiebreak played
// in place of a deciding set.
type TiebreakMode string

const (
	TiebreakSet   TiebreakMode = "set"
	TiebreakMatch TiebreakMode = "match"
)

// TennisConfig is the immutable scoring configuration for a tournament's
// tennis matches. It is copied into each match's TennisState at init time
// and never mutated by scoring commands.
type TennisConfig struct {
	AdScoring              bool `json:"is_ad_scoring"`
	SetsToWin              int  `json:"sets_to_win"`
	SetTiebreakTarget      *int `json:"set_tiebreak_target,omitempty"`
	FinalSetTiebreakTarget *int `json:"final_set_tiebreak_target,omitempty"`
	UseMatchTiebreak       bool `json:"use_match_tiebreak"`
	MatchTiebreakTarget    *int `json:"match_tiebreak_target,omitempty"`
}

// TennisSnapshot is one undo-history entry: the full per-point state minus
// the config (immutable) and the history itself.
type TennisSnapshot struct {
	Sets              [][2]int     `json:"sets"`
	CurrentSetGames   [2]int       `json:"current_set_games"`
	CurrentGamePoints [2]int       `json:"current_game_points"`
	Serving           int          `json:"serving_participant"`
	FirstServerOfSet  int          `json:"first_server_of_set"`
	IsTiebreak        bool         `json:"is_tiebreak"`
	TiebreakPoints    [2]int       `json:"tiebreak_points"`
	TiebreakMode      TiebreakMode `json:"tiebreak_mode,omitempty"`
	TiebreakTarget    int          `json:"tiebreak_target,omitempty"`
	IsMatchComplete   bool         `json:"is_match_complete"`
}

// TennisState is the live point-level state of one tennis match. Game points
// run 0..3 (0/15/30/40) with 4 meaning advantage under ad scoring. Completed
// sets are stored as [gamesA, gamesB] pairs; a match tiebreak is stored as a
// pseudo-set holding the tiebreak points.
type TennisState struct {
	Sets              [][2]int     `json:"sets"`
	CurrentSetGames   [2]int       `json:"current_set_games"`
	CurrentGamePoints [2]int       `json:"current_game_points"`
	Serving           int          `json:"serving_participant"`
	FirstServerOfSet  int          `json:"first_server_of_set"`
	Config            TennisConfig `json:"config"`
	IsTiebreak        bool         `json:"is_tiebreak"`
	TiebreakPoints    [2]int       `json:"tiebreak_points"`
	TiebreakMode      TiebreakMode `json:"tiebreak_mode,omitempty"`
	TiebreakTarget    int          `json:"tiebreak_target,omitempty"`
	IsMatchComplete   bool         `json:"is_match_complete"`

	// Bounded undo stack, one entry per applied point, oldest dropped first.
	History []TennisSnapshot `json:"history"`
}

// Snapshot captures the restorable portion of the state.
func (s *TennisState) Snapshot() TennisSnapshot {
	sets := make([][2]int, len(s.Sets))
	copy(sets, s.Sets)
	return TennisSnapshot{
		Sets:              sets,
		CurrentSetGames:   s.CurrentSetGames,
		CurrentGamePoints: s.CurrentGamePoints,
		Serving:           s.Serving,
		FirstServerOfSet:  s.FirstServerOfSet,
		IsTiebreak:        s.IsTiebreak,
		TiebreakPoints:    s.TiebreakPoints,
		TiebreakMode:      s.TiebreakMode,
		TiebreakTarget:    s.TiebreakTarget,
		IsMatchComplete:   s.IsMatchComplete,
	}
}

// Restore overwrites the restorable portion of the state from a snapshot.
func (s *TennisState) Restore(snap TennisSnapshot) {
	sets := make([][2]int, len(snap.Sets))
	copy(sets, snap.Sets)
	s.Sets = sets
	s.CurrentSetGames = snap.CurrentSetGames
	s.CurrentGamePoints = snap.CurrentGamePoints
	s.Serving = snap.Serving
	s.FirstServerOfSet = snap.FirstServerOfSet
	s.IsTiebreak = snap.IsTiebreak
	s.TiebreakPoints = snap.TiebreakPoints
	s.TiebreakMode = snap.TiebreakMode
	s.TiebreakTarget = snap.TiebreakTarget
	s.IsMatchComplete = snap.IsMatchComplete
}

// Value and Scan store the state as a JSONB column on the match row.

func (s TennisState) Value() (driver.Value, error) {
	return json.Marshal(s)
}

func (s *TennisState) Scan(src interface{}) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	case nil:
		return nil
	default:
		return fmt.Errorf("cannot scan %T into TennisState", src)
	}
}

func (c TennisConfig) Value() (driver.Value, error) {
	return json.Marshal(c)
}

func (c *TennisConfig) Scan(src interface{}) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, c)
	case string:
		return json.Unmarshal([]byte(v), c)
	case nil:
		return nil
	default:
		return fmt.Errorf("cannot scan %T into TennisConfig", src)
	}
}
