package apisports

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	sonic "github.com/bytedance/sonic"
)

// Envelope is the wrapper every api-sports endpoint responds with.
type Envelope[T any] struct {
	Get        string         `json:"get"`
	Parameters Parameters     `json:"parameters"`
	Errors     ProviderErrors `json:"errors"`
	Results    int            `json:"results"`
	Paging     Paging         `json:"paging"`
	Response   []T            `json:"response"`
}

type Paging struct {
	Current int `json:"current"`
	Total   int `json:"total"`
}

// Parameters echoes the query the provider received. An empty query is
// sent back as [] instead of {}.
type Parameters map[string]string

func (p *Parameters) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		*p = Parameters{}
		return nil
	}

	var raw map[string]any
	if err := sonic.Unmarshal(trimmed, &raw); err != nil {
		return err
	}
	out := make(Parameters, len(raw))
	for key, value := range raw {
		out[key] = fmt.Sprint(value)
	}
	*p = out
	return nil
}

// ProviderErrors flattens the errors field, which the provider sends as
// an empty array on success and as an object keyed by cause on failure.
type ProviderErrors []string

func (e *ProviderErrors) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*e = nil
		return nil
	}

	switch trimmed[0] {
	case '[':
		var items []any
		if err := sonic.Unmarshal(trimmed, &items); err != nil {
			return err
		}
		out := make(ProviderErrors, 0, len(items))
		for _, item := range items {
			if text := strings.TrimSpace(fmt.Sprint(item)); text != "" {
				out = append(out, text)
			}
		}
		*e = out
	case '{':
		var items map[string]any
		if err := sonic.Unmarshal(trimmed, &items); err != nil {
			return err
		}
		out := make(ProviderErrors, 0, len(items))
		for key, value := range items {
			out = append(out, key+": "+fmt.Sprint(value))
		}
		sort.Strings(out)
		*e = out
	default:
		var text string
		if err := sonic.Unmarshal(trimmed, &text); err != nil {
			return err
		}
		if strings.TrimSpace(text) != "" {
			*e = ProviderErrors{text}
		}
	}
	return nil
}

// LeagueRecord is one item of the /leagues response.
type LeagueRecord struct {
	League  LeagueInfo   `json:"league"`
	Country CountryInfo  `json:"country"`
	Seasons []SeasonInfo `json:"seasons"`
}

type LeagueInfo struct {
	ID   int64  `json:"id" validate:"gt=0"`
	Name string `json:"name" validate:"required"`
	Type string `json:"type"`
	Logo string `json:"logo"`
}

type CountryInfo struct {
	Name string `json:"name"`
	Code string `json:"code"`
	Flag string `json:"flag"`
}

type SeasonInfo struct {
	Year    int    `json:"year"`
	Start   string `json:"start"`
	End     string `json:"end"`
	Current bool   `json:"current"`
}

// CurrentSeason returns the season flagged current, else the latest one.
func (r LeagueRecord) CurrentSeason() (SeasonInfo, bool) {
	if len(r.Seasons) == 0 {
		return SeasonInfo{}, false
	}
	latest := r.Seasons[0]
	for _, season := range r.Seasons {
		if season.Current {
			return season, true
		}
		if season.Year > latest.Year {
			latest = season
		}
	}
	return latest, false
}

// TeamRecord is one item of the /teams response.
type TeamRecord struct {
	Team  TeamInfo  `json:"team"`
	Venue TeamVenue `json:"venue"`
}

type TeamInfo struct {
	ID       int64  `json:"id" validate:"gt=0"`
	Name     string `json:"name" validate:"required"`
	Code     string `json:"code"`
	Country  string `json:"country"`
	Founded  *int   `json:"founded"`
	National bool   `json:"national"`
	Logo     string `json:"logo"`
}

type TeamVenue struct {
	ID       *int64 `json:"id"`
	Name     string `json:"name"`
	Address  string `json:"address"`
	City     string `json:"city"`
	Capacity int    `json:"capacity"`
	Surface  string `json:"surface"`
	Image    string `json:"image"`
}

// Fixture is one item of the /fixtures response. The provider nests
// id, date, status and venue under a "fixture" object; a flat layout is
// accepted as well.
type Fixture struct {
	ID        int64         `json:"id" validate:"gt=0"`
	Referee   string        `json:"referee,omitempty"`
	Timezone  string        `json:"timezone,omitempty"`
	Date      string        `json:"date" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	Timestamp int64         `json:"timestamp,omitempty" validate:"required_without=Date"`
	Venue     *FixtureVenue `json:"venue,omitempty"`
	Status    FixtureStatus `json:"status"`
	League    FixtureLeague `json:"league"`
	Teams     FixtureTeams  `json:"teams"`
	Goals     Goals         `json:"goals"`
	Score     FixtureScore  `json:"score"`
}

type fixtureCore struct {
	ID        int64         `json:"id"`
	Referee   string        `json:"referee"`
	Timezone  string        `json:"timezone"`
	Date      string        `json:"date"`
	Timestamp int64         `json:"timestamp"`
	Venue     *FixtureVenue `json:"venue"`
	Status    FixtureStatus `json:"status"`
}

func (f *Fixture) UnmarshalJSON(data []byte) error {
	type plain Fixture
	if err := sonic.Unmarshal(data, (*plain)(f)); err != nil {
		return err
	}

	var nested struct {
		Core *fixtureCore `json:"fixture"`
	}
	if err := sonic.Unmarshal(data, &nested); err != nil {
		return err
	}
	core := nested.Core
	if core == nil {
		return nil
	}

	if core.ID != 0 {
		f.ID = core.ID
	}
	if core.Referee != "" {
		f.Referee = core.Referee
	}
	if core.Timezone != "" {
		f.Timezone = core.Timezone
	}
	if core.Date != "" {
		f.Date = core.Date
	}
	if core.Timestamp != 0 {
		f.Timestamp = core.Timestamp
	}
	if core.Venue != nil {
		f.Venue = core.Venue
	}
	if core.Status != (FixtureStatus{}) {
		f.Status = core.Status
	}
	return nil
}

type FixtureVenue struct {
	ID   *int64 `json:"id"`
	Name string `json:"name"`
	City string `json:"city"`
}

type FixtureStatus struct {
	Long    string `json:"long"`
	Short   string `json:"short" validate:"required"`
	Elapsed *int   `json:"elapsed"`
}

type FixtureLeague struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Country string `json:"country"`
	Logo    string `json:"logo"`
	Flag    string `json:"flag"`
	Season  int    `json:"season"`
	Round   string `json:"round"`
}

type FixtureTeams struct {
	Home FixtureTeam `json:"home"`
	Away FixtureTeam `json:"away"`
}

type FixtureTeam struct {
	ID     int64  `json:"id"`
	Name   string `json:"name" validate:"required"`
	Logo   string `json:"logo"`
	Winner *bool  `json:"winner"`
}

// Goals holds the current score; both sides are null before kickoff.
type Goals struct {
	Home *int `json:"home"`
	Away *int `json:"away"`
}

type FixtureScore struct {
	Halftime  Goals `json:"halftime"`
	Fulltime  Goals `json:"fulltime"`
	Extratime Goals `json:"extratime"`
	Penalty   Goals `json:"penalty"`
}
