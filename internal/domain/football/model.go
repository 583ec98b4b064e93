package football

// League is the normalized competition view served to clients.
type League struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Country string `json:"country"`
	Logo    string `json:"logo"`
	Flag    string `json:"flag,omitempty"`
	Season  int    `json:"season"`
	Current bool   `json:"current"`
}

type Venue struct {
	Name     string `json:"name"`
	City     string `json:"city,omitempty"`
	Capacity int    `json:"capacity,omitempty"`
}

type Team struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Code    string `json:"code,omitempty"`
	Logo    string `json:"logo"`
	Country string `json:"country,omitempty"`
	Founded *int   `json:"founded,omitempty"`
	Venue   *Venue `json:"venue,omitempty"`
}

type Score struct {
	Home int `json:"home"`
	Away int `json:"away"`
}

// MatchEvent is the display-ready form of one fixture.
type MatchEvent struct {
	ID           string      `json:"id"`
	HomeTeam     string      `json:"homeTeam"`
	AwayTeam     string      `json:"awayTeam"`
	HomeTeamLogo string      `json:"homeTeamLogo,omitempty"`
	AwayTeamLogo string      `json:"awayTeamLogo,omitempty"`
	League       string      `json:"league"`
	LeagueLogo   string      `json:"leagueLogo,omitempty"`
	StartTime    string      `json:"startTime"`
	Date         string      `json:"date"`
	Status       MatchStatus `json:"status"`
	Score        *Score      `json:"score,omitempty"`
	Minute       *int        `json:"minute,omitempty"`
	Venue        string      `json:"venue,omitempty"`
	// Round carries the league name, not the provider's round label.
	Round string `json:"round,omitempty"`
}

type HomePageData struct {
	LiveMatches    []MatchEvent `json:"liveMatches"`
	TodayMatches   []MatchEvent `json:"todayMatches"`
	PopularLeagues []League     `json:"popularLeagues"`
}
