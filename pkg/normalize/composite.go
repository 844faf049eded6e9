package normalize

import (
	"sort"
	"strings"

	"github.com/vivantaneja/Scoresheet-Analyser/pkg/models"
)

const (
	maxRosterSize  = 12
	maxScorePoints = 120
	periodCount    = 4
)

// NormalizePlayerRow builds a roster row from any value. Non-object
// input yields an all-default row. Known fields are copied trimmed when
// present and non-blank; unknown fields are ignored so extra
// hallucinated keys cannot break a row.
func NormalizePlayerRow(v interface{}) models.PlayerRow {
	var row models.PlayerRow

	obj, ok := v.(map[string]interface{})
	if !ok {
		return row
	}

	fields := []struct {
		dst  *string
		keys []string
	}{
		{&row.SlotNumber, []string{"slotNumber", "slot_number"}},
		{&row.PlayedQ1, []string{"playedQ1", "played_q1"}},
		{&row.PlayedQ2, []string{"playedQ2", "played_q2"}},
		{&row.PlayedQ3, []string{"playedQ3", "played_q3"}},
		{&row.PlayedQ4, []string{"playedQ4", "played_q4"}},
		{&row.Name, []string{"name", "playerName", "player_name"}},
		{&row.KitNumber, []string{"kitNumber", "kit_number"}},
		{&row.Foul1, []string{"foul1", "foul_1"}},
		{&row.Foul2, []string{"foul2", "foul_2"}},
		{&row.Foul3, []string{"foul3", "foul_3"}},
		{&row.Foul4, []string{"foul4", "foul_4"}},
		{&row.Foul5, []string{"foul5", "foul_5"}},
	}

	for _, f := range fields {
		for _, key := range f.keys {
			s := strings.TrimSpace(stringify(obj[key]))
			if s != "" {
				*f.dst = s
				break
			}
		}
	}

	return row
}

// NormalizeRoster builds an ordered roster from any value, truncated to
// the first 12 entries. Non-sequence input yields an empty roster.
func NormalizeRoster(v interface{}) []models.PlayerRow {
	rows := []models.PlayerRow{}

	arr, ok := v.([]interface{})
	if !ok {
		return rows
	}
	if len(arr) > maxRosterSize {
		arr = arr[:maxRosterSize]
	}

	for _, entry := range arr {
		rows = append(rows, NormalizePlayerRow(entry))
	}
	return rows
}

// NormalizeScoreEvent validates one scoring play. Events are rejected,
// not defaulted: the second return is false unless the point is in
// 1-120, the team normalizes to A or B, and the type is exactly the
// string "1", "2" or "3". The jersey is free-form and defaults to "".
func NormalizeScoreEvent(v interface{}) (models.ScoreEvent, bool) {
	obj, ok := v.(map[string]interface{})
	if !ok {
		return models.ScoreEvent{}, false
	}

	point, ok := parseLeadingInt(obj["point"])
	if !ok || point < 1 || point > maxScorePoints {
		return models.ScoreEvent{}, false
	}

	team := TeamLetter(obj["team"])
	if team == "" {
		return models.ScoreEvent{}, false
	}

	typ, ok := obj["type"].(string)
	if !ok || (typ != "1" && typ != "2" && typ != "3") {
		return models.ScoreEvent{}, false
	}

	return models.ScoreEvent{
		Point:  point,
		Team:   team,
		Type:   typ,
		Jersey: strings.TrimSpace(stringify(obj["jersey"])),
	}, true
}

// NormalizeScoreEvents builds the running-score timeline from any value:
// invalid events are dropped, duplicates on the (point, team) key keep
// the first occurrence in input order, and the result is stable-sorted
// ascending by point.
func NormalizeScoreEvents(v interface{}) []models.ScoreEvent {
	events := []models.ScoreEvent{}

	arr, ok := v.([]interface{})
	if !ok {
		return events
	}

	type eventKey struct {
		point int
		team  string
	}
	seen := map[eventKey]bool{}

	for _, entry := range arr {
		event, ok := NormalizeScoreEvent(entry)
		if !ok {
			continue
		}
		key := eventKey{event.Point, event.Team}
		if seen[key] {
			continue
		}
		seen[key] = true
		events = append(events, event)
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Point < events[j].Point
	})
	return events
}

// NormalizeBoundedInts coerces a sequence of values to non-negative
// integers, truncated to max entries. Non-sequence input yields an
// empty result.
func NormalizeBoundedInts(v interface{}, max int) []int {
	out := []int{}

	arr, ok := v.([]interface{})
	if !ok {
		return out
	}
	if len(arr) > max {
		arr = arr[:max]
	}

	for _, entry := range arr {
		out = append(out, CoerceInt(entry))
	}
	return out
}

// NormalizePeriodScores coerces any value into exactly four non-negative
// quarter scores. Missing positions floor to 0.
func NormalizePeriodScores(v interface{}) []int {
	out := NormalizeBoundedInts(v, periodCount)
	for len(out) < periodCount {
		out = append(out, 0)
	}
	return out
}

// NormalizeOverrides builds per-player scoring overrides. Jersey keys
// are trimmed and kept verbatim; blank keys are dropped. A jersey whose
// value is not an object is dropped entirely rather than zero-filled,
// removing that player's override.
func NormalizeOverrides(v interface{}) models.ScoringOverrides {
	out := models.ScoringOverrides{
		A: map[string]models.PeriodPoints{},
		B: map[string]models.PeriodPoints{},
	}

	obj, ok := v.(map[string]interface{})
	if !ok {
		return out
	}

	out.A = normalizeTeamOverrides(pick(obj, "A", "a"))
	out.B = normalizeTeamOverrides(pick(obj, "B", "b"))
	return out
}

func normalizeTeamOverrides(v interface{}) map[string]models.PeriodPoints {
	out := map[string]models.PeriodPoints{}

	obj, ok := v.(map[string]interface{})
	if !ok {
		return out
	}

	for key, raw := range obj {
		jersey := strings.TrimSpace(key)
		if jersey == "" {
			continue
		}
		entry, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}
		out[jersey] = models.PeriodPoints{
			P1: CoerceInt(entry["p1"]),
			P2: CoerceInt(entry["p2"]),
			P3: CoerceInt(entry["p3"]),
		}
	}
	return out
}

// pick returns the first key present with a non-nil value, so camelCase
// spellings win over snake_case when both appear.
func pick(obj map[string]interface{}, keys ...string) interface{} {
	for _, key := range keys {
		if v, ok := obj[key]; ok && v != nil {
			return v
		}
	}
	return nil
}
