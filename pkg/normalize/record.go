// Package normalize turns arbitrary, possibly malformed JSON — whether
// hallucinated by the extraction model or hand-edited by a client —
// into a canonical MatchRecord. Every function here is total: bad input
// degrades field by field to defaults, never to an error.
package normalize

import (
	"github.com/vivantaneja/Scoresheet-Analyser/pkg/models"
)

type stringField struct {
	name    string
	aliases []string
	dst     *string
	canon   func(string) string
}

type intField struct {
	name    string
	aliases []string
	dst     *int
}

// stringFields enumerates the metadata fields driven by the alias table.
// Alias order is priority order: the first alias carrying a usable value
// wins and later aliases are ignored for that field.
func stringFields(r *models.MatchRecord) []stringField {
	return []stringField{
		{"teamAName", []string{"teamAName", "team_a_name", "teamA", "team_a"}, &r.TeamAName, nil},
		{"teamBName", []string{"teamBName", "team_b_name", "teamB", "team_b"}, &r.TeamBName, nil},
		{"competition", []string{"competition", "competitionName", "competition_name"}, &r.Competition, nil},
		{"date", []string{"date", "matchDate", "match_date"}, &r.Date, CanonicalDate},
		{"time", []string{"time", "matchTime", "match_time"}, &r.Time, nil},
		{"place", []string{"place", "venue", "location"}, &r.Place, nil},
		{"referee1", []string{"referee1", "referee_1", "referee1Name", "referee_1_name"}, &r.Referee1, nil},
		{"referee2", []string{"referee2", "referee_2", "referee2Name", "referee_2_name"}, &r.Referee2, nil},
	}
}

// intFields enumerates the per-team counters driven by the alias table.
func intFields(r *models.MatchRecord) []intField {
	return []intField{
		{"timeoutsFirstHalfTeamA", []string{"timeoutsFirstHalfTeamA", "timeouts_first_half_team_a", "timeoutsFirstHalfA"}, &r.TimeoutsFirstHalfTeamA},
		{"timeoutsSecondHalfTeamA", []string{"timeoutsSecondHalfTeamA", "timeouts_second_half_team_a", "timeoutsSecondHalfA"}, &r.TimeoutsSecondHalfTeamA},
		{"timeoutsExtraTeamA", []string{"timeoutsExtraTeamA", "timeouts_extra_team_a", "timeoutsExtraPeriodsTeamA", "timeoutsExtraA"}, &r.TimeoutsExtraTeamA},
		{"timeoutsFirstHalfTeamB", []string{"timeoutsFirstHalfTeamB", "timeouts_first_half_team_b", "timeoutsFirstHalfB"}, &r.TimeoutsFirstHalfTeamB},
		{"timeoutsSecondHalfTeamB", []string{"timeoutsSecondHalfTeamB", "timeouts_second_half_team_b", "timeoutsSecondHalfB"}, &r.TimeoutsSecondHalfTeamB},
		{"timeoutsExtraTeamB", []string{"timeoutsExtraTeamB", "timeouts_extra_team_b", "timeoutsExtraPeriodsTeamB", "timeoutsExtraB"}, &r.TimeoutsExtraTeamB},
		{"foulsPeriod1TeamA", []string{"foulsPeriod1TeamA", "fouls_period_1_team_a", "foulsP1TeamA", "fouls_p1_team_a"}, &r.FoulsPeriod1TeamA},
		{"foulsPeriod2TeamA", []string{"foulsPeriod2TeamA", "fouls_period_2_team_a", "foulsP2TeamA", "fouls_p2_team_a"}, &r.FoulsPeriod2TeamA},
		{"foulsPeriod3TeamA", []string{"foulsPeriod3TeamA", "fouls_period_3_team_a", "foulsP3TeamA", "fouls_p3_team_a"}, &r.FoulsPeriod3TeamA},
		{"foulsPeriod4TeamA", []string{"foulsPeriod4TeamA", "fouls_period_4_team_a", "foulsP4TeamA", "fouls_p4_team_a"}, &r.FoulsPeriod4TeamA},
		{"foulsPeriod1TeamB", []string{"foulsPeriod1TeamB", "fouls_period_1_team_b", "foulsP1TeamB", "fouls_p1_team_b"}, &r.FoulsPeriod1TeamB},
		{"foulsPeriod2TeamB", []string{"foulsPeriod2TeamB", "fouls_period_2_team_b", "foulsP2TeamB", "fouls_p2_team_b"}, &r.FoulsPeriod2TeamB},
		{"foulsPeriod3TeamB", []string{"foulsPeriod3TeamB", "fouls_period_3_team_b", "foulsP3TeamB", "fouls_p3_team_b"}, &r.FoulsPeriod3TeamB},
		{"foulsPeriod4TeamB", []string{"foulsPeriod4TeamB", "fouls_period_4_team_b", "foulsP4TeamB", "fouls_p4_team_b"}, &r.FoulsPeriod4TeamB},
	}
}

// Normalize coerces any decoded JSON value into a complete MatchRecord.
// It never fails: non-object input yields the all-default record, and
// within an object every field degrades independently. The same rules
// apply to extraction output and client edits; in both cases the base
// is the global default record, never previously stored state.
func Normalize(raw interface{}) models.MatchRecord {
	rec := models.DefaultMatchRecord()

	obj, ok := raw.(map[string]interface{})
	if !ok {
		return rec
	}

	for _, f := range stringFields(&rec) {
		for _, alias := range f.aliases {
			v, present := obj[alias]
			if !present {
				continue
			}
			s, usable := CleanString(f.name, v)
			if !usable {
				continue
			}
			if f.canon != nil {
				s = f.canon(s)
			}
			*f.dst = s
			break
		}
	}

	for _, f := range intFields(&rec) {
		for _, alias := range f.aliases {
			if !hasValue(obj[alias]) {
				continue
			}
			*f.dst = CoerceInt(obj[alias])
			break
		}
	}

	rec.TeamAPlayers = NormalizeRoster(pick(obj, "teamAPlayers", "team_a_players"))
	rec.TeamBPlayers = NormalizeRoster(pick(obj, "teamBPlayers", "team_b_players"))
	rec.RunningScoreEvents = NormalizeScoreEvents(pick(obj, "runningScoreEvents", "running_score_events"))

	rec.PeriodScoresTeamA = NormalizePeriodScores(pick(obj, "periodScoresTeamA", "period_scores_team_a"))
	rec.PeriodScoresTeamB = NormalizePeriodScores(pick(obj, "periodScoresTeamB", "period_scores_team_b"))
	rec.R2PeriodScoresTeamA = NormalizePeriodScores(pick(obj, "r2PeriodScoresTeamA", "r2_period_scores_team_a"))
	rec.R2PeriodScoresTeamB = NormalizePeriodScores(pick(obj, "r2PeriodScoresTeamB", "r2_period_scores_team_b"))

	rec.FinalScoreTeamA = CoerceInt(pick(obj, "finalScoreTeamA", "final_score_team_a"))
	rec.FinalScoreTeamB = CoerceInt(pick(obj, "finalScoreTeamB", "final_score_team_b"))
	rec.R3FinalScoreTeamA = CoerceInt(pick(obj, "r3FinalScoreTeamA", "r3_final_score_team_a"))
	rec.R3FinalScoreTeamB = CoerceInt(pick(obj, "r3FinalScoreTeamB", "r3_final_score_team_b"))
	if s, usable := CleanString("r3WinningTeamName", pick(obj, "r3WinningTeamName", "r3_winning_team_name")); usable {
		rec.R3WinningTeamName = s
	}

	rec.PointsPerColumn = CoercePointsPerColumn(pick(obj, "pointsPerColumn", "points_per_column"))
	rec.PlayerScoringOverrides = NormalizeOverrides(pick(obj, "playerScoringOverrides", "player_scoring_overrides"))

	return rec
}
