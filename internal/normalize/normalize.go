package normalize

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/onnwee/scorebook/backend/internal/metrics"
	"github.com/onnwee/scorebook/backend/internal/mlb"
)

// Schedule maps a raw schedule payload into game summaries for one date.
// Games are returned in feed order with composite ids.
func Schedule(resp *mlb.ScheduleResponse, date string) []Game {
	start := time.Now()
	defer func() {
		metrics.NormalizeDuration.Observe(time.Since(start).Seconds())
	}()

	out := []Game{}
	for _, d := range resp.Dates {
		for _, g := range d.Games {
			out = append(out, scheduleGame(&g, date))
		}
	}
	return out
}

func scheduleGame(g *mlb.ScheduleGame, date string) Game {
	away := teamOf(&g.Teams.Away.Team)
	home := teamOf(&g.Teams.Home.Team)
	n := g.GameNumber
	if n < 1 {
		n = 1
	}
	game := Game{
		ID:         mlb.ComposeGameID(date, away.Abbreviation, home.Abbreviation, n),
		GamePk:     g.GamePk,
		Date:       date,
		GameNumber: n,
		Status:     statusOf(&g.Status),
		Detail:     g.Status.DetailedState,
		Away:       away,
		Home:       home,
		Venue:      g.Venue.Name,
	}
	if g.Teams.Away.Score != nil {
		game.AwayScore = *g.Teams.Away.Score
	}
	if g.Teams.Home.Score != nil {
		game.HomeScore = *g.Teams.Home.Score
	}
	return game
}

// Details maps a raw live feed into the full normalized document.
// Supplementary data (umpires, managers, weather) degrades to empty when
// absent; a feed with no usable game record at all is an error.
func Details(feed *mlb.LiveFeed, id string) (*GameDetails, error) {
	start := time.Now()
	defer func() {
		metrics.NormalizeDuration.Observe(time.Since(start).Seconds())
	}()

	if feed == nil || feed.GamePk == 0 {
		return nil, fmt.Errorf("live feed has no game record")
	}

	away := teamOf(&feed.GameData.Teams.Away)
	home := teamOf(&feed.GameData.Teams.Home)
	status := statusOf(&feed.GameData.Status)

	game := Game{
		ID:     id,
		GamePk: feed.GamePk,
		Date:   feed.GameData.Datetime.OfficialDate,
		Status: status,
		Detail: feed.GameData.Status.DetailedState,
		Away:   away,
		Home:   home,
		Venue:  feed.GameData.Venue.Name,
	}
	if ls := feed.LiveData.Linescore; ls != nil {
		game.AwayScore = ls.Teams.Away.Runs
		game.HomeScore = ls.Teams.Home.Runs
	}

	subs := inferSubstitutions(feed)

	details := &GameDetails{
		Game:    game,
		Innings: reconstructInnings(feed, status),
		Plays:   normalizePlays(feed, away, home),
		Info:    gameInfo(feed),
	}
	if bs := feed.LiveData.Boxscore; bs != nil {
		details.AwayBatters = batterStats(&bs.Teams.Away, subs)
		details.HomeBatters = batterStats(&bs.Teams.Home, subs)
		details.AwayPitchers = pitcherStats(&bs.Teams.Away)
		details.HomePitchers = pitcherStats(&bs.Teams.Home)
	}
	return details, nil
}

func normalizePlays(feed *mlb.LiveFeed, away, home Team) []PlateAppearance {
	if feed.LiveData.Plays == nil {
		return nil
	}
	raw := feed.LiveData.Plays.AllPlays
	out := make([]PlateAppearance, 0, len(raw))
	for i := range raw {
		p := &raw[i]
		if isSubstitutionPlay(p) {
			continue
		}
		half := halfOf(&p.About)
		pa := PlateAppearance{
			Inning:      p.About.Inning,
			Half:        half,
			Batter:      p.Matchup.Batter.FullName,
			BatterID:    p.Matchup.Batter.ID,
			Pitcher:     p.Matchup.Pitcher.FullName,
			PitcherID:   p.Matchup.Pitcher.ID,
			Event:       p.Result.Event,
			Description: p.Result.Description,
			Notation:    Notation(p.Result.Event, p.Result.EventType, p.Result.Description),
			RBI:         p.Result.RBI,
			IsOut:       p.Result.IsOut,
			AwayScore:   p.Result.AwayScore,
			HomeScore:   p.Result.HomeScore,
			Pitches:     pitchEvents(p.PlayEvents),
		}
		if isErrorPlay(p.Result.EventType, p.Result.Event, p.Result.Description) {
			pa.IsError = true
			pa.ErrorTeam = errorTeam(half, away, home)
		}
		out = append(out, pa)
	}
	return out
}

func pitchEvents(events []mlb.PlayEvent) []PitchEvent {
	var out []PitchEvent
	for _, ev := range events {
		if !ev.IsPitch {
			continue
		}
		pe := PitchEvent{Call: ev.Details.Description}
		if ev.Details.Type != nil {
			pe.Type = ev.Details.Type.Description
		}
		if ev.Details.Call != nil && ev.Details.Call.Description != "" {
			pe.Call = ev.Details.Call.Description
		}
		if ev.PitchData != nil {
			pe.Speed = ev.PitchData.StartSpeed
		}
		out = append(out, pe)
	}
	return out
}

func batterStats(side *mlb.BoxTeam, subs map[int64]SubstitutionInfo) []BatterStat {
	var out []BatterStat
	for _, bp := range side.Players {
		b := bp.Stats.Batting
		if b == nil {
			continue
		}
		stat := BatterStat{
			PlayerID:     bp.Person.ID,
			Name:         bp.Person.FullName,
			Position:     bp.Position.Abbreviation,
			BattingOrder: bp.BattingOrder,
			IsStarter:    bp.IsStarter,
			AtBats:       b.AtBats,
			Hits:         b.Hits,
			Runs:         b.Runs,
			RBI:          b.RBI,
			Walks:        b.BaseOnBalls,
			Strikeouts:   b.StrikeOuts,
			Average:      battingAverage(b.Hits, b.AtBats),
			OBP:          onBasePct(b),
			Slugging:     slugging(b),
		}
		if info, ok := subs[bp.Person.ID]; ok {
			s := info
			stat.Substitution = &s
		}
		out = append(out, stat)
	}
	// batting order first, then id, for a stable lineup ordering
	sort.Slice(out, func(i, j int) bool {
		if out[i].BattingOrder != out[j].BattingOrder {
			if out[i].BattingOrder == "" {
				return false
			}
			if out[j].BattingOrder == "" {
				return true
			}
			return out[i].BattingOrder < out[j].BattingOrder
		}
		return out[i].PlayerID < out[j].PlayerID
	})
	return out
}

func pitcherStats(side *mlb.BoxTeam) []PitcherStat {
	byID := make(map[int64]*mlb.BoxPlayer)
	for key := range side.Players {
		bp := side.Players[key]
		if bp.Stats.Pitching != nil {
			byID[bp.Person.ID] = &bp
		}
	}

	var out []PitcherStat
	appendPitcher := func(bp *mlb.BoxPlayer) {
		p := bp.Stats.Pitching
		ip := parseInningsPitched(p.InningsPitched)
		out = append(out, PitcherStat{
			PlayerID:       bp.Person.ID,
			Name:           bp.Person.FullName,
			InningsPitched: p.InningsPitched,
			Hits:           p.Hits,
			Runs:           p.Runs,
			EarnedRuns:     p.EarnedRuns,
			Walks:          p.BaseOnBalls,
			Strikeouts:     p.StrikeOuts,
			ERA:            earnedRunAverage(p.EarnedRuns, ip),
			WHIP:           walksHitsPerInning(p.Hits, p.BaseOnBalls, ip),
		})
	}

	// the Pitchers list carries appearance order; anyone missing from it
	// is appended afterwards by id
	seen := make(map[int64]bool)
	for _, id := range side.Pitchers {
		if bp, ok := byID[id]; ok && !seen[id] {
			appendPitcher(bp)
			seen[id] = true
		}
	}
	var rest []int64
	for id := range byID {
		if !seen[id] {
			rest = append(rest, id)
		}
	}
	sort.Slice(rest, func(i, j int) bool { return rest[i] < rest[j] })
	for _, id := range rest {
		appendPitcher(byID[id])
	}
	return out
}

func gameInfo(feed *mlb.LiveFeed) GameInfo {
	info := GameInfo{}
	if bs := feed.LiveData.Boxscore; bs != nil {
		for _, o := range bs.Officials {
			if o.Official.FullName == "" {
				continue
			}
			label := o.Official.FullName
			if o.OfficialType != "" {
				label = o.OfficialType + ": " + o.Official.FullName
			}
			info.Umpires = append(info.Umpires, label)
		}
		if m := bs.Teams.Away.Manager; m != nil {
			info.AwayManager = m.FullName
		}
		if m := bs.Teams.Home.Manager; m != nil {
			info.HomeManager = m.FullName
		}
	}
	if w := feed.GameData.Weather; w != nil {
		parts := []string{}
		if w.Condition != "" {
			parts = append(parts, w.Condition)
		}
		if w.Temp != "" {
			parts = append(parts, w.Temp+"F")
		}
		if w.Wind != "" {
			parts = append(parts, "wind "+w.Wind)
		}
		info.Weather = strings.Join(parts, ", ")
	}
	return info
}

func teamOf(t *mlb.Team) Team {
	return Team{ID: t.ID, Name: t.Name, Abbreviation: abbrFor(t)}
}

// abbrFor prefers the provider abbreviation, then the team code, then the
// first three letters of the club name.
func abbrFor(t *mlb.Team) string {
	if t.Abbreviation != "" {
		return strings.ToUpper(t.Abbreviation)
	}
	if t.TeamCode != "" {
		return strings.ToUpper(t.TeamCode)
	}
	name := strings.ReplaceAll(t.Name, " ", "")
	if len(name) > 3 {
		name = name[:3]
	}
	return strings.ToUpper(name)
}

// statusOf maps provider state onto the coarse status enum. Postponed and
// suspended games report an abstract state of "Final", so the coded and
// detailed states are checked first.
func statusOf(s *mlb.Status) GameStatus {
	switch s.CodedGameState {
	case "D", "C":
		return StatusPostponed
	case "U", "T":
		return StatusSuspended
	}
	switch {
	case strings.HasPrefix(s.DetailedState, "Postponed"),
		strings.HasPrefix(s.DetailedState, "Cancelled"):
		return StatusPostponed
	case strings.HasPrefix(s.DetailedState, "Suspended"):
		return StatusSuspended
	}
	switch s.AbstractGameState {
	case "Final":
		return StatusFinal
	case "Live":
		return StatusLive
	case "Preview":
		return StatusScheduled
	}
	switch s.CodedGameState {
	case "F", "O":
		return StatusFinal
	case "I":
		return StatusLive
	case "S", "P":
		return StatusScheduled
	}
	return StatusUnknown
}
