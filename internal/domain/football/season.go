package football

import "time"

const (
	MinSeason = 1900
	MaxSeason = 2100

	DateLayout = "2006-01-02"
)

// DefaultPopularLeagueIDs lists Premier League, La Liga, Bundesliga,
// Ligue 1, Serie A and Primeira Liga.
var DefaultPopularLeagueIDs = []int64{39, 140, 78, 61, 135, 94}

// CurrentSeason returns the starting year of the season running at now.
// Seasons roll over in July.
func CurrentSeason(now time.Time) int {
	now = now.UTC()
	if now.Month() >= time.July {
		return now.Year()
	}
	return now.Year() - 1
}

func ValidSeason(season int) bool {
	return season >= MinSeason && season <= MaxSeason
}

// ParseDate accepts a calendar day in YYYY-MM-DD form.
func ParseDate(raw string) (time.Time, bool) {
	parsed, err := time.Parse(DateLayout, raw)
	if err != nil {
		return time.Time{}, false
	}
	return parsed, true
}
