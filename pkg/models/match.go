package models

// MatchRecord is the canonical normalized representation of one
// scoresheet. Every field is always present after normalization: strings
// default to "", counters to 0, rosters and event lists to empty slices,
// period arrays to four zeros and pointsPerColumn to 40.
type MatchRecord struct {
	// Identity / metadata
	TeamAName   string `json:"teamAName"`
	TeamBName   string `json:"teamBName"`
	Competition string `json:"competition"`
	Date        string `json:"date"` // YYYY-MM-DD
	Time        string `json:"time"` // HH:MM
	Place       string `json:"place"`
	Referee1    string `json:"referee1"`
	Referee2    string `json:"referee2"`

	// Per-team timeout counters
	TimeoutsFirstHalfTeamA  int `json:"timeoutsFirstHalfTeamA"`
	TimeoutsSecondHalfTeamA int `json:"timeoutsSecondHalfTeamA"`
	TimeoutsExtraTeamA      int `json:"timeoutsExtraTeamA"`
	TimeoutsFirstHalfTeamB  int `json:"timeoutsFirstHalfTeamB"`
	TimeoutsSecondHalfTeamB int `json:"timeoutsSecondHalfTeamB"`
	TimeoutsExtraTeamB      int `json:"timeoutsExtraTeamB"`

	// Per-team team-foul counters, periods 1-4
	FoulsPeriod1TeamA int `json:"foulsPeriod1TeamA"`
	FoulsPeriod2TeamA int `json:"foulsPeriod2TeamA"`
	FoulsPeriod3TeamA int `json:"foulsPeriod3TeamA"`
	FoulsPeriod4TeamA int `json:"foulsPeriod4TeamA"`
	FoulsPeriod1TeamB int `json:"foulsPeriod1TeamB"`
	FoulsPeriod2TeamB int `json:"foulsPeriod2TeamB"`
	FoulsPeriod3TeamB int `json:"foulsPeriod3TeamB"`
	FoulsPeriod4TeamB int `json:"foulsPeriod4TeamB"`

	// Rosters, insertion order is roster order, at most 12 rows each
	TeamAPlayers []PlayerRow `json:"teamAPlayers"`
	TeamBPlayers []PlayerRow `json:"teamBPlayers"`

	// Running score timeline, unique per (point, team), sorted by point
	RunningScoreEvents []ScoreEvent `json:"runningScoreEvents"`

	// Period scores, always exactly four entries
	PeriodScoresTeamA   []int `json:"periodScoresTeamA"`
	PeriodScoresTeamB   []int `json:"periodScoresTeamB"`
	R2PeriodScoresTeamA []int `json:"r2PeriodScoresTeamA"`
	R2PeriodScoresTeamB []int `json:"r2PeriodScoresTeamB"`

	// Final scores
	FinalScoreTeamA   int    `json:"finalScoreTeamA"`
	FinalScoreTeamB   int    `json:"finalScoreTeamB"`
	R3FinalScoreTeamA int    `json:"r3FinalScoreTeamA"`
	R3FinalScoreTeamB int    `json:"r3FinalScoreTeamB"`
	R3WinningTeamName string `json:"r3WinningTeamName"`

	// Display config: 40 or 60 points per running-score column
	PointsPerColumn int `json:"pointsPerColumn"`

	// Per-player scoring overrides keyed by jersey number
	PlayerScoringOverrides ScoringOverrides `json:"playerScoringOverrides"`
}

// PlayerRow is one roster line. All fields are free-form strings copied
// verbatim (trimmed) from the sheet; missing values stay "".
type PlayerRow struct {
	SlotNumber string `json:"slotNumber"`
	PlayedQ1   string `json:"playedQ1"`
	PlayedQ2   string `json:"playedQ2"`
	PlayedQ3   string `json:"playedQ3"`
	PlayedQ4   string `json:"playedQ4"`
	Name       string `json:"name"`
	KitNumber  string `json:"kitNumber"`
	Foul1      string `json:"foul1"`
	Foul2      string `json:"foul2"`
	Foul3      string `json:"foul3"`
	Foul4      string `json:"foul4"`
	Foul5      string `json:"foul5"`
}

// ScoreEvent is one scoring play, keyed by the cumulative point total it
// produced and the team that scored it.
type ScoreEvent struct {
	Point  int    `json:"point"` // cumulative total, 1-120
	Team   string `json:"team"`  // "A" or "B"
	Type   string `json:"type"`  // "1", "2" or "3"
	Jersey string `json:"jersey"`
}

// PeriodPoints holds a player's points for the first three periods.
type PeriodPoints struct {
	P1 int `json:"p1"`
	P2 int `json:"p2"`
	P3 int `json:"p3"`
}

// ScoringOverrides maps jersey numbers to per-period point overrides,
// split by team.
type ScoringOverrides struct {
	A map[string]PeriodPoints `json:"A"`
	B map[string]PeriodPoints `json:"B"`
}

// DefaultMatchRecord returns the canonical all-default record. Slices and
// maps are allocated so the JSON form never contains null.
func DefaultMatchRecord() MatchRecord {
	return MatchRecord{
		TeamAPlayers:        []PlayerRow{},
		TeamBPlayers:        []PlayerRow{},
		RunningScoreEvents:  []ScoreEvent{},
		PeriodScoresTeamA:   []int{0, 0, 0, 0},
		PeriodScoresTeamB:   []int{0, 0, 0, 0},
		R2PeriodScoresTeamA: []int{0, 0, 0, 0},
		R2PeriodScoresTeamB: []int{0, 0, 0, 0},
		PointsPerColumn:     40,
		PlayerScoringOverrides: ScoringOverrides{
			A: map[string]PeriodPoints{},
			B: map[string]PeriodPoints{},
		},
	}
}

// ErrorResponse is the standard error payload returned by the API.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}
