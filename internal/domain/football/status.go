package football

import "strings"

type MatchStatus string

const (
	StatusUpcoming MatchStatus = "upcoming"
	StatusLive     MatchStatus = "live"
	StatusHalftime MatchStatus = "halftime"
	StatusFinished MatchStatus = "finished"
)

// MapStatus folds a provider short status code into a MatchStatus.
// Unrecognized codes fall back to StatusUpcoming.
func MapStatus(short string) MatchStatus {
	switch strings.ToUpper(strings.TrimSpace(short)) {
	case "NS", "TBD":
		return StatusUpcoming
	case "1H", "2H", "ET", "P", "LIVE":
		return StatusLive
	case "HT":
		return StatusHalftime
	case "FT", "AET", "PEN":
		return StatusFinished
	default:
		return StatusUpcoming
	}
}

func (s MatchStatus) IsLive() bool {
	return s == StatusLive || s == StatusHalftime
}
