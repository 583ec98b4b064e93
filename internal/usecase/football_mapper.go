package usecase

import (
	"strconv"
	"time"

	"github.com/riskibarqy/spores-football/external/apisports"
	"github.com/riskibarqy/spores-football/internal/domain/football"
)

const kickoffLayout = "15:04"

func mapLeague(record apisports.LeagueRecord) football.League {
	season, _ := record.CurrentSeason()
	return football.League{
		ID:      record.League.ID,
		Name:    record.League.Name,
		Country: record.Country.Name,
		Logo:    record.League.Logo,
		Flag:    record.Country.Flag,
		Season:  season.Year,
		Current: season.Current,
	}
}

func mapTeam(record apisports.TeamRecord) football.Team {
	team := football.Team{
		ID:      record.Team.ID,
		Name:    record.Team.Name,
		Code:    record.Team.Code,
		Logo:    record.Team.Logo,
		Country: record.Team.Country,
		Founded: record.Team.Founded,
	}
	if record.Venue.Name != "" {
		team.Venue = &football.Venue{
			Name:     record.Venue.Name,
			City:     record.Venue.City,
			Capacity: record.Venue.Capacity,
		}
	}
	return team
}

func mapFixtures(fixtures []apisports.Fixture, location *time.Location) []football.MatchEvent {
	out := make([]football.MatchEvent, 0, len(fixtures))
	for _, fixture := range fixtures {
		out = append(out, mapFixture(fixture, location))
	}
	return out
}

// mapFixture builds the display view of a fixture. startTime is the
// kickoff clock in location; date is the kickoff day in UTC.
func mapFixture(fixture apisports.Fixture, location *time.Location) football.MatchEvent {
	event := football.MatchEvent{
		ID:           strconv.FormatInt(fixture.ID, 10),
		HomeTeam:     fixture.Teams.Home.Name,
		AwayTeam:     fixture.Teams.Away.Name,
		HomeTeamLogo: fixture.Teams.Home.Logo,
		AwayTeamLogo: fixture.Teams.Away.Logo,
		League:       fixture.League.Name,
		LeagueLogo:   fixture.League.Logo,
		Status:       football.MapStatus(fixture.Status.Short),
		Minute:       fixture.Status.Elapsed,
		// The provider's round label is not modeled; clients read the league name here.
		Round: fixture.League.Name,
	}

	if kickoff, ok := kickoffTime(fixture); ok {
		if location == nil {
			location = time.UTC
		}
		event.StartTime = kickoff.In(location).Format(kickoffLayout)
		event.Date = kickoff.UTC().Format(football.DateLayout)
	}

	if fixture.Goals.Home != nil && fixture.Goals.Away != nil {
		event.Score = &football.Score{Home: *fixture.Goals.Home, Away: *fixture.Goals.Away}
	}

	if fixture.Venue != nil {
		event.Venue = fixture.Venue.Name
	}

	return event
}

func kickoffTime(fixture apisports.Fixture) (time.Time, bool) {
	if fixture.Date != "" {
		if parsed, err := time.Parse(time.RFC3339, fixture.Date); err == nil {
			return parsed, true
		}
	}
	if fixture.Timestamp > 0 {
		return time.Unix(fixture.Timestamp, 0), true
	}
	return time.Time{}, false
}
