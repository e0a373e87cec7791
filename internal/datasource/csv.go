package datasource

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/yourusername/win-predictor/internal/models"
)

// columnIndex maps lower-cased header names to their position.
type columnIndex map[string]int

func readHeader(r *csv.Reader, required []string) (columnIndex, error) {
	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty table", ErrInvalidData)
		}
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	idx := make(columnIndex, len(header))
	for i, name := range header {
		idx[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))] = i
	}

	var missing []string
	for _, col := range required {
		if _, ok := idx[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing columns %s", ErrInvalidData, strings.Join(missing, ", "))
	}
	return idx, nil
}

func (c columnIndex) get(row []string, col string) string {
	i, ok := c[col]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func (c columnIndex) int(row []string, col string) (int, error) {
	v := c.get(row, col)
	if v == "" {
		return 0, fmt.Errorf("%s is empty", col)
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", col, err)
	}
	return n, nil
}

func newReader(r io.Reader) *csv.Reader {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	return cr
}

// ParseMatches reads the matches table. Rows without an id or either team
// are skipped and counted.
func ParseMatches(r io.Reader) ([]models.MatchRecord, ParseStats, error) {
	var stats ParseStats
	cr := newReader(r)

	idx, err := readHeader(cr, []string{"id", "team1", "team2", "winner"})
	if err != nil {
		return nil, stats, err
	}

	var matches []models.MatchRecord
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		stats.Rows++
		if err != nil {
			stats.Skipped++
			continue
		}

		m := models.MatchRecord{
			ID:     idx.get(row, "id"),
			Season: idx.get(row, "season"),
			City:   idx.get(row, "city"),
			Team1:  idx.get(row, "team1"),
			Team2:  idx.get(row, "team2"),
			Winner: idx.get(row, "winner"),
			Result: idx.get(row, "result"),
		}
		if m.ID == "" || m.Team1 == "" || m.Team2 == "" {
			stats.Skipped++
			continue
		}
		matches = append(matches, m)
	}

	return matches, stats, nil
}

// ParseDeliveries reads the deliveries table, preserving row order. Rows
// with a missing key or a non-numeric count are skipped and counted.
func ParseDeliveries(r io.Reader) ([]models.DeliveryRecord, ParseStats, error) {
	var stats ParseStats
	cr := newReader(r)

	idx, err := readHeader(cr, []string{"match_id", "inning", "over", "ball", "batting_team", "total_runs"})
	if err != nil {
		return nil, stats, err
	}

	var deliveries []models.DeliveryRecord
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		stats.Rows++
		if err != nil {
			stats.Skipped++
			continue
		}

		d, err := parseDelivery(idx, row)
		if err != nil {
			stats.Skipped++
			continue
		}
		deliveries = append(deliveries, d)
	}

	return deliveries, stats, nil
}

func parseDelivery(idx columnIndex, row []string) (models.DeliveryRecord, error) {
	d := models.DeliveryRecord{
		MatchID:         idx.get(row, "match_id"),
		BattingTeam:     idx.get(row, "batting_team"),
		BowlingTeam:     idx.get(row, "bowling_team"),
		PlayerDismissed: idx.get(row, "player_dismissed"),
	}
	if d.MatchID == "" || d.BattingTeam == "" {
		return d, errors.New("match_id and batting_team are required")
	}
	if strings.EqualFold(d.PlayerDismissed, "nan") || d.PlayerDismissed == "NA" {
		d.PlayerDismissed = ""
	}

	var err error
	if d.Inning, err = idx.int(row, "inning"); err != nil {
		return d, err
	}
	if d.Over, err = idx.int(row, "over"); err != nil {
		return d, err
	}
	if d.Ball, err = idx.int(row, "ball"); err != nil {
		return d, err
	}
	if d.TotalRuns, err = idx.int(row, "total_runs"); err != nil {
		return d, err
	}
	if d.TotalRuns < 0 || d.Inning < 1 {
		return d, fmt.Errorf("out of range values in row")
	}
	return d, nil
}
