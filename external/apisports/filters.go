package apisports

import (
	"net/url"
	"strconv"
)

// Filters use pointers so that an unset field is left out of the query
// while an explicitly empty one is still sent.

type LeagueFilter struct {
	ID      *int64
	Name    *string
	Country *string
	Code    *string
	Season  *int
	Team    *int64
	Type    *string
	Current *bool
	Search  *string
	Last    *int
}

func (f LeagueFilter) values() url.Values {
	q := url.Values{}
	setInt64(q, "id", f.ID)
	setString(q, "name", f.Name)
	setString(q, "country", f.Country)
	setString(q, "code", f.Code)
	setInt(q, "season", f.Season)
	setInt64(q, "team", f.Team)
	setString(q, "type", f.Type)
	setBool(q, "current", f.Current)
	setString(q, "search", f.Search)
	setInt(q, "last", f.Last)
	return q
}

type TeamFilter struct {
	ID      *int64
	Name    *string
	League  *int64
	Season  *int
	Country *string
	Code    *string
	Venue   *int64
	Search  *string
}

func (f TeamFilter) values() url.Values {
	q := url.Values{}
	setInt64(q, "id", f.ID)
	setString(q, "name", f.Name)
	setInt64(q, "league", f.League)
	setInt(q, "season", f.Season)
	setString(q, "country", f.Country)
	setString(q, "code", f.Code)
	setInt64(q, "venue", f.Venue)
	setString(q, "search", f.Search)
	return q
}

type FixtureFilter struct {
	ID       *int64
	Live     *string
	Date     *string
	League   *int64
	Season   *int
	Team     *int64
	Last     *int
	Next     *int
	From     *string
	To       *string
	Round    *string
	Status   *string
	Venue    *int64
	Timezone *string
}

func (f FixtureFilter) values() url.Values {
	q := url.Values{}
	setInt64(q, "id", f.ID)
	setString(q, "live", f.Live)
	setString(q, "date", f.Date)
	setInt64(q, "league", f.League)
	setInt(q, "season", f.Season)
	setInt64(q, "team", f.Team)
	setInt(q, "last", f.Last)
	setInt(q, "next", f.Next)
	setString(q, "from", f.From)
	setString(q, "to", f.To)
	setString(q, "round", f.Round)
	setString(q, "status", f.Status)
	setInt64(q, "venue", f.Venue)
	setString(q, "timezone", f.Timezone)
	return q
}

func setString(q url.Values, key string, value *string) {
	if value != nil {
		q.Set(key, *value)
	}
}

func setInt(q url.Values, key string, value *int) {
	if value != nil {
		q.Set(key, strconv.Itoa(*value))
	}
}

func setInt64(q url.Values, key string, value *int64) {
	if value != nil {
		q.Set(key, strconv.FormatInt(*value, 10))
	}
}

func setBool(q url.Values, key string, value *bool) {
	if value != nil {
		q.Set(key, strconv.FormatBool(*value))
	}
}

func String(v string) *string { return &v }
func Int(v int) *int          { return &v }
func Int64(v int64) *int64    { return &v }
func Bool(v bool) *bool       { return &v }
