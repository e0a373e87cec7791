package dataset

import "fmt"

// Report summarises a dataset build for operator inspection.
type Report struct {
	Matches              int `json:"matches"`
	QualifyingMatches    int `json:"qualifying_matches"`
	SkippedMatches       int `json:"skipped_matches"`
	NonQualifyingMatches int `json:"non_qualifying_matches"`
	NoResultMatches      int `json:"no_result_matches"`
	Deliveries           int `json:"deliveries"`
	SkippedDeliveries    int `json:"skipped_deliveries"`
	Examples             int `json:"examples"`
	Dropped              int `json:"dropped"`
	Wins                 int `json:"wins"`
	Losses               int `json:"losses"`
}

// WinRate returns the share of examples labeled as a chase win.
func (r *Report) WinRate() float64 {
	if r.Examples == 0 {
		return 0
	}
	return float64(r.Wins) / float64(r.Examples)
}

func (r *Report) String() string {
	return fmt.Sprintf(
		"Matches: %d (qualifying %d, skipped %d, other teams %d, no result %d), Deliveries: %d (skipped %d), Examples: %d (dropped %d), Wins: %d, Losses: %d, WinRate: %.3f",
		r.Matches, r.QualifyingMatches, r.SkippedMatches, r.NonQualifyingMatches, r.NoResultMatches,
		r.Deliveries, r.SkippedDeliveries, r.Examples, r.Dropped, r.Wins, r.Losses, r.WinRate(),
	)
}
