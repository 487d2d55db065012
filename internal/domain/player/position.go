package player

import "strings"

// Position is a player's coarse position label.
type Position string

const (
	PositionGoalkeeper Position = "Goalkeeper"
	PositionDefender   Position = "Defender"
	PositionMidfielder Position = "Midfielder"
	PositionForward    Position = "Forward"
	PositionUnknown    Position = "Unknown"
)

// positionKeywords classifies raw position tags by case-insensitive
// substring occurrence. A tag may match several labels and contributes to
// each of them.
var positionKeywords = map[Position][]string{
	PositionGoalkeeper: {"G", "GK", "GOALKEEPER"},
	PositionDefender:   {"D", "DEFENDER"},
	PositionMidfielder: {"M", "MIDFIELDER"},
	PositionForward:    {"F", "FORWARD"},
}

// tieBreakOrder is consulted only when plurality counts tie.
var tieBreakOrder = []Position{
	PositionGoalkeeper,
	PositionDefender,
	PositionMidfielder,
	PositionForward,
	PositionUnknown,
}

// MatchCounts returns, per label, how many keyword occurrences the raw tag
// contains. A blank tag or a tag matching nothing counts once as Unknown.
func MatchCounts(tag string) map[Position]int {
	counts := make(map[Position]int, len(positionKeywords)+1)
	up := strings.ToUpper(strings.TrimSpace(tag))
	if up == "" {
		counts[PositionUnknown] = 1
		return counts
	}

	total := 0
	for label, keys := range positionKeywords {
		n := 0
		for _, key := range keys {
			n += strings.Count(up, key)
		}
		if n > 0 {
			counts[label] = n
			total += n
		}
	}
	if total == 0 {
		counts[PositionUnknown] = 1
	}

	return counts
}

// VoteDominant picks the plurality label over every raw tag observed,
// breaking ties by the fixed priority order.
func VoteDominant(tags []string) Position {
	if len(tags) == 0 {
		return PositionUnknown
	}

	totals := make(map[Position]int, len(tieBreakOrder))
	for _, tag := range tags {
		for label, n := range MatchCounts(tag) {
			totals[label] += n
		}
	}

	best := PositionUnknown
	bestCount := -1
	for _, label := range tieBreakOrder {
		if count := totals[label]; count > bestCount {
			best = label
			bestCount = count
		}
	}

	return best
}
