package predictor

import (
	"math"
	"strings"

	"github.com/spf13/cast"

	"github.com/yourusername/win-predictor/internal/dataset"
	"github.com/yourusername/win-predictor/internal/models"
)

// Request field names.
const (
	FieldBattingTeam = "batting_team"
	FieldBowlingTeam = "bowling_team"
	FieldCity        = "city"
	FieldTarget      = "target"
	FieldScore       = "score"
	FieldOvers       = "overs"
	FieldWickets     = "wickets"
)

// parseSnapshot validates raw request fields in a fixed order so the first
// offending field is always the one reported.
func parseSnapshot(raw map[string]any) (models.MatchSnapshot, error) {
	var snap models.MatchSnapshot
	var err error

	if snap.BattingTeam, err = requireString(raw, FieldBattingTeam); err != nil {
		return snap, err
	}
	if snap.BowlingTeam, err = requireString(raw, FieldBowlingTeam); err != nil {
		return snap, err
	}
	if snap.City, err = requireString(raw, FieldCity); err != nil {
		return snap, err
	}
	if snap.Target, err = requireNumber(raw, FieldTarget); err != nil {
		return snap, err
	}
	if snap.Score, err = requireNumber(raw, FieldScore); err != nil {
		return snap, err
	}
	if snap.Overs, err = requireNumber(raw, FieldOvers); err != nil {
		return snap, err
	}
	if snap.Wickets, err = requireNumber(raw, FieldWickets); err != nil {
		return snap, err
	}

	snap.BattingTeam = dataset.CanonicalTeam(snap.BattingTeam)
	snap.BowlingTeam = dataset.CanonicalTeam(snap.BowlingTeam)
	if snap.BattingTeam == snap.BowlingTeam {
		return snap, &InvalidInputError{Field: FieldBowlingTeam, Reason: "must differ from batting_team"}
	}

	return snap, nil
}

func requireString(raw map[string]any, field string) (string, error) {
	v, ok := raw[field]
	if !ok || v == nil {
		return "", &InvalidInputError{Field: field, Reason: "is required"}
	}
	s, ok := v.(string)
	if !ok {
		return "", &InvalidInputError{Field: field, Reason: "must be a string"}
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return "", &InvalidInputError{Field: field, Reason: "is required"}
	}
	return s, nil
}

func requireNumber(raw map[string]any, field string) (float64, error) {
	v, ok := raw[field]
	if !ok || v == nil {
		return 0, &InvalidInputError{Field: field, Reason: "is required"}
	}
	if _, isBool := v.(bool); isBool {
		return 0, &InvalidInputError{Field: field, Reason: "must be numeric"}
	}
	if s, isString := v.(string); isString {
		v = strings.TrimSpace(s)
	}
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return 0, &InvalidInputError{Field: field, Reason: "must be numeric"}
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, &InvalidInputError{Field: field, Reason: "must be finite"}
	}
	return f, nil
}
