// Package mlb talks to the MLB Stats API and defines the loosely-typed
// shapes of its JSON. Both endpoints may be partially populated for
// in-progress or very old games, so every field here is optional; these
// types never escape the normalizer.
package mlb

// ScheduleResponse is the schedule-by-date payload.
type ScheduleResponse struct {
	TotalGames int            `json:"totalGames"`
	Dates      []ScheduleDate `json:"dates"`
}

// ScheduleDate groups the games of one calendar date.
type ScheduleDate struct {
	Date  string         `json:"date"`
	Games []ScheduleGame `json:"games"`
}

// ScheduleGame is one game summary in the schedule feed.
type ScheduleGame struct {
	GamePk     int64  `json:"gamePk"`
	GameDate   string `json:"gameDate"`
	GameNumber int    `json:"gameNumber"`
	Status     Status `json:"status"`
	Teams      struct {
		Away ScheduleTeamSide `json:"away"`
		Home ScheduleTeamSide `json:"home"`
	} `json:"teams"`
	Venue     Venue           `json:"venue"`
	Linescore *Linescore      `json:"linescore,omitempty"`
}

// ScheduleTeamSide is one side (away or home) of a scheduled game.
type ScheduleTeamSide struct {
	Score    *int  `json:"score,omitempty"`
	IsWinner *bool `json:"isWinner,omitempty"`
	Team     Team  `json:"team"`
}

// Team identifies a club.
type Team struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Abbreviation string `json:"abbreviation"`
	TeamCode     string `json:"teamCode"`
}

// Venue is where a game is played.
type Venue struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Status carries the provider's game state strings.
type Status struct {
	AbstractGameState string `json:"abstractGameState"`
	DetailedState     string `json:"detailedState"`
	CodedGameState    string `json:"codedGameState"`
}

// LiveFeed is the per-game live feed payload.
type LiveFeed struct {
	GamePk   int64    `json:"gamePk"`
	GameData GameData `json:"gameData"`
	LiveData LiveData `json:"liveData"`
}

// GameData holds the static game information.
type GameData struct {
	Teams struct {
		Away Team `json:"away"`
		Home Team `json:"home"`
	} `json:"teams"`
	Venue    Venue  `json:"venue"`
	Status   Status `json:"status"`
	Datetime struct {
		OfficialDate string `json:"officialDate"`
	} `json:"datetime"`
	Weather *Weather `json:"weather,omitempty"`
}

// Weather is supplementary and frequently absent.
type Weather struct {
	Condition string `json:"condition"`
	Temp      string `json:"temp"`
	Wind      string `json:"wind"`
}

// LiveData holds the mutable game state.
type LiveData struct {
	Linescore *Linescore `json:"linescore,omitempty"`
	Boxscore  *Boxscore  `json:"boxscore,omitempty"`
	Plays     *Plays     `json:"plays,omitempty"`
}

// Linescore is the per-inning line score.
type Linescore struct {
	CurrentInning int               `json:"currentInning"`
	Innings       []LinescoreInning `json:"innings"`
	Teams         struct {
		Away LinescoreTotals `json:"away"`
		Home LinescoreTotals `json:"home"`
	} `json:"teams"`
}

// LinescoreInning carries one inning's runs per side. Runs is a pointer
// because the provider omits it for halves not yet played.
type LinescoreInning struct {
	Num  int `json:"num"`
	Away struct {
		Runs *int `json:"runs,omitempty"`
	} `json:"away"`
	Home struct {
		Runs *int `json:"runs,omitempty"`
	} `json:"home"`
}

// LinescoreTotals is a team's game totals.
type LinescoreTotals struct {
	Runs   int `json:"runs"`
	Hits   int `json:"hits"`
	Errors int `json:"errors"`
}

// Boxscore holds the per-team box score.
type Boxscore struct {
	Teams struct {
		Away BoxTeam `json:"away"`
		Home BoxTeam `json:"home"`
	} `json:"teams"`
	Innings   []BoxInning `json:"innings,omitempty"`
	Officials []Official  `json:"officials,omitempty"`
}

// BoxInning is the box-score innings array, present on some feeds.
type BoxInning struct {
	Num      int  `json:"num"`
	AwayRuns *int `json:"awayRuns,omitempty"`
	HomeRuns *int `json:"homeRuns,omitempty"`
}

// Official is an umpire assignment.
type Official struct {
	Official struct {
		ID       int64  `json:"id"`
		FullName string `json:"fullName"`
	} `json:"official"`
	OfficialType string `json:"officialType"`
}

// BoxTeam is one team's box score.
type BoxTeam struct {
	Team     Team                 `json:"team"`
	Players  map[string]BoxPlayer `json:"players"`
	Batters  []int64              `json:"batters"`
	Pitchers []int64              `json:"pitchers"`
	Manager  *Person              `json:"manager,omitempty"`
}

// Person is a bare player/coach identity.
type Person struct {
	ID       int64  `json:"id"`
	FullName string `json:"fullName"`
}

// BoxPlayer is one player's box-score record.
type BoxPlayer struct {
	Person       Person     `json:"person"`
	JerseyNumber string     `json:"jerseyNumber"`
	Position     Position   `json:"position"`
	AllPositions []Position `json:"allPositions,omitempty"`
	IsStarter    bool       `json:"isStarter"`
	BattingOrder string     `json:"battingOrder,omitempty"`
	Stats        struct {
		Batting  *BattingStats  `json:"batting,omitempty"`
		Pitching *PitchingStats `json:"pitching,omitempty"`
	} `json:"stats"`
}

// Position names a fielding position.
type Position struct {
	Code         string `json:"code"`
	Name         string `json:"name"`
	Abbreviation string `json:"abbreviation"`
}

// BattingStats are raw batting counts.
type BattingStats struct {
	AtBats      int `json:"atBats"`
	Hits        int `json:"hits"`
	Runs        int `json:"runs"`
	RBI         int `json:"rbi"`
	BaseOnBalls int `json:"baseOnBalls"`
	StrikeOuts  int `json:"strikeOuts"`
	HitByPitch  int `json:"hitByPitch"`
	SacFlies    int `json:"sacFlies"`
	Doubles     int `json:"doubles"`
	Triples     int `json:"triples"`
	HomeRuns    int `json:"homeRuns"`
}

// PitchingStats are raw pitching counts.
type PitchingStats struct {
	InningsPitched string `json:"inningsPitched"`
	Hits           int    `json:"hits"`
	Runs           int    `json:"runs"`
	EarnedRuns     int    `json:"earnedRuns"`
	BaseOnBalls    int    `json:"baseOnBalls"`
	StrikeOuts     int    `json:"strikeOuts"`
}

// Plays holds the flat chronological play-by-play list.
type Plays struct {
	AllPlays []Play `json:"allPlays"`
}

// Play is one play-by-play entry.
type Play struct {
	About          PlayAbout     `json:"about"`
	Result         PlayResult    `json:"result"`
	Matchup        PlayMatchup   `json:"matchup"`
	Players        []PlayActor   `json:"players,omitempty"`
	IsSubstitution bool          `json:"isSubstitution,omitempty"`
	Substitution   *Substitution `json:"substitution,omitempty"`
	PlayEvents     []PlayEvent   `json:"playEvents,omitempty"`
}

// PlayAbout locates a play within the game.
type PlayAbout struct {
	Inning      int    `json:"inning"`
	HalfInning  string `json:"halfInning"` // "top" or "bottom"
	IsTopInning bool   `json:"isTopInning"`
	AtBatIndex  int    `json:"atBatIndex"`
}

// PlayResult is the outcome of a play, including score-after.
type PlayResult struct {
	Event       string `json:"event"`
	EventType   string `json:"eventType"`
	Description string `json:"description"`
	AwayScore   int    `json:"awayScore"`
	HomeScore   int    `json:"homeScore"`
	RBI         int    `json:"rbi"`
	IsOut       bool   `json:"isOut"`
}

// PlayMatchup is the batter/pitcher pairing.
type PlayMatchup struct {
	Batter  Person `json:"batter"`
	Pitcher Person `json:"pitcher"`
}

// PlayActor is an auxiliary participant (runner, fielder, substitute).
type PlayActor struct {
	Player     Person `json:"player"`
	PlayerType string `json:"playerType"`
}

// Substitution is the provider's structured substitution object, present
// on some feeds.
type Substitution struct {
	Player   Person `json:"player"`
	SubType  string `json:"subType"`
	Position string `json:"position"`
}

// PlayEvent is one pitch (or pickoff/step-off) within a plate appearance.
type PlayEvent struct {
	IsPitch bool `json:"isPitch"`
	Details struct {
		Type *struct {
			Description string `json:"description"`
		} `json:"type,omitempty"`
		Description string `json:"description"`
		Call        *struct {
			Description string `json:"description"`
		} `json:"call,omitempty"`
	} `json:"details"`
	PitchData *struct {
		StartSpeed float64 `json:"startSpeed"`
	} `json:"pitchData,omitempty"`
}
