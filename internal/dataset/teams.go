package dataset

import (
	"sort"
	"strings"
)

// KnownTeams is the fixed team enumeration the model is trained on.
var KnownTeams = []string{
	"Sunrisers Hyderabad",
	"Mumbai Indians",
	"Royal Challengers Bangalore",
	"Kolkata Knight Riders",
	"Kings XI Punjab",
	"Chennai Super Kings",
	"Rajasthan Royals",
	"Delhi Capitals",
}

var (
	teamNameMap = buildTeamNameMap()
	knownTeams  = buildKnownTeamSet()
)

// buildTeamNameMap maps upper-cased provider names to canonical names.
func buildTeamNameMap() map[string]string {
	m := map[string]string{
		// Renamed franchises
		"DELHI DAREDEVILS":            "Delhi Capitals",
		"PUNJAB KINGS":                "Kings XI Punjab",
		"ROYAL CHALLENGERS BENGALURU": "Royal Challengers Bangalore",
	}
	for _, team := range KnownTeams {
		m[strings.ToUpper(team)] = team
	}
	return m
}

func buildKnownTeamSet() map[string]struct{} {
	set := make(map[string]struct{}, len(KnownTeams))
	for _, team := range KnownTeams {
		set[team] = struct{}{}
	}
	return set
}

// CanonicalTeam returns the current name for a team, merging renamed
// franchises. Unknown names are returned trimmed but otherwise unchanged.
func CanonicalTeam(name string) string {
	name = strings.Join(strings.Fields(name), " ")
	if canonical, ok := teamNameMap[strings.ToUpper(name)]; ok {
		return canonical
	}
	return name
}

// IsKnownTeam reports whether the canonical form of name is a known team.
func IsKnownTeam(name string) bool {
	_, ok := knownTeams[CanonicalTeam(name)]
	return ok
}

// SortedTeams returns KnownTeams in alphabetical order.
func SortedTeams() []string {
	teams := append([]string(nil), KnownTeams...)
	sort.Strings(teams)
	return teams
}
