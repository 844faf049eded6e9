package extract

import (
	"os"
	"strings"
)

// defaultSchemaDescription tells the model the exact JSON shape the
// normalizer expects. Field names here match the canonical record so
// well-behaved responses need no alias resolution at all.
const defaultSchemaDescription = `Return a single JSON object with these fields:
- teamAName, teamBName, competition, date (YYYY-MM-DD), time (HH:MM), place, referee1, referee2: strings, "" when unreadable
- timeoutsFirstHalfTeamA, timeoutsSecondHalfTeamA, timeoutsExtraTeamA (and the TeamB variants): non-negative integers
- foulsPeriod1TeamA .. foulsPeriod4TeamA (and the TeamB variants): non-negative integers
- teamAPlayers, teamBPlayers: arrays of at most 12 objects with string fields slotNumber, playedQ1..playedQ4, name, kitNumber, foul1..foul5
- runningScoreEvents: array of {point: 1-120, team: "A"|"B", type: "1"|"2"|"3", jersey: string}
- periodScoresTeamA, periodScoresTeamB, r2PeriodScoresTeamA, r2PeriodScoresTeamB: arrays of exactly 4 non-negative integers
- finalScoreTeamA, finalScoreTeamB, r3FinalScoreTeamA, r3FinalScoreTeamB: non-negative integers
- r3WinningTeamName: string
- pointsPerColumn: 40 or 60
- playerScoringOverrides: {"A": {jersey: {p1, p2, p3}}, "B": {...}}`

const defaultInstructions = `You are reading a filled-in basketball scoresheet.
Transcribe exactly what is written on the sheet. Do not invent values:
leave a field empty ("" or 0) when the sheet does not show it.
Respond with JSON only, no commentary.`

const plainTextPreamble = `The document below is plain text rather than a scanned sheet.
Extract whatever scoresheet data it contains.`

// Prompts holds the instruction text sent alongside a document.
type Prompts struct {
	// Structured is used for recognized image and PDF uploads.
	Structured string
	// PlainText is the fallback for every other document type.
	PlainText string
}

// LoadPrompts assembles the prompt pair, preferring override files when
// they exist and are readable, and falling back to the built-in text.
func LoadPrompts(instructionsPath, schemaPath string) Prompts {
	instructions := readOrDefault(instructionsPath, defaultInstructions)
	schema := readOrDefault(schemaPath, defaultSchemaDescription)

	return Prompts{
		Structured: instructions + "\n\n" + schema,
		PlainText:  plainTextPreamble + "\n\n" + instructions + "\n\n" + schema,
	}
}

func readOrDefault(path, fallback string) string {
	if path == "" {
		return fallback
	}
	data, err := os.ReadFile(path)
	if err != nil || strings.TrimSpace(string(data)) == "" {
		return fallback
	}
	return string(data)
}
