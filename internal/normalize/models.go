// Package normalize converts raw provider feeds into the stable internal
// game model. All output is built fresh on every pass; nothing in the
// input is mutated and identical input yields structurally identical
// output.
package normalize

// GameStatus is the coarse state of a game.
type GameStatus string

const (
	StatusScheduled GameStatus = "scheduled"
	StatusLive      GameStatus = "live"
	StatusFinal     GameStatus = "final"
	StatusPostponed GameStatus = "postponed"
	StatusSuspended GameStatus = "suspended"
	StatusUnknown   GameStatus = "unknown"
)

// Team is a normalized club identity.
type Team struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Abbreviation string `json:"abbreviation"`
}

// Game is one game summary.
type Game struct {
	ID         string     `json:"id"`
	GamePk     int64      `json:"gamePk"`
	Date       string     `json:"date"`
	GameNumber int        `json:"gameNumber"`
	Status     GameStatus `json:"status"`
	Detail     string     `json:"detail,omitempty"`
	Away       Team       `json:"away"`
	Home       Team       `json:"home"`
	AwayScore  int        `json:"awayScore"`
	HomeScore  int        `json:"homeScore"`
	Venue      string     `json:"venue,omitempty"`
}

// Inning holds the runs scored per half. A nil half was not played.
type Inning struct {
	Num  int  `json:"num"`
	Away *int `json:"away"`
	Home *int `json:"home"`
}

// PitchEvent is one pitch within a plate appearance.
type PitchEvent struct {
	Type   string  `json:"type,omitempty"`
	Call   string  `json:"call,omitempty"`
	Speed  float64 `json:"speed,omitempty"`
}

// PlateAppearance is one normalized play-by-play entry.
type PlateAppearance struct {
	Inning      int          `json:"inning"`
	Half        string       `json:"half"` // "top" or "bottom"
	Batter      string       `json:"batter"`
	BatterID    int64        `json:"batterId"`
	Pitcher     string       `json:"pitcher"`
	PitcherID   int64        `json:"pitcherId"`
	Event       string       `json:"event"`
	Description string       `json:"description"`
	Notation    string       `json:"notation"`
	RBI         int          `json:"rbi"`
	IsOut       bool         `json:"isOut"`
	IsError     bool         `json:"isError"`
	ErrorTeam   string       `json:"errorTeam,omitempty"` // abbreviation of the charged (fielding) team
	AwayScore   int          `json:"awayScore"`
	HomeScore   int          `json:"homeScore"`
	Pitches     []PitchEvent `json:"pitches,omitempty"`
}

// SubType classifies how a substitute entered the game.
type SubType string

const (
	SubPinchHit  SubType = "pinch-hit"
	SubPinchRun  SubType = "pinch-run"
	SubDefensive SubType = "defensive"
)

// SubstitutionInfo describes an inferred or explicit substitution.
type SubstitutionInfo struct {
	Type   SubType `json:"type"`
	Inning int     `json:"inning"`
	Half   string  `json:"half"`
}

// BatterStat is one batter's line, with derived rates.
type BatterStat struct {
	PlayerID     int64             `json:"playerId"`
	Name         string            `json:"name"`
	Position     string            `json:"position"`
	BattingOrder string            `json:"battingOrder,omitempty"`
	IsStarter    bool              `json:"isStarter"`
	AtBats       int               `json:"atBats"`
	Hits         int               `json:"hits"`
	Runs         int               `json:"runs"`
	RBI          int               `json:"rbi"`
	Walks        int               `json:"walks"`
	Strikeouts   int               `json:"strikeouts"`
	Average      float64           `json:"average"`
	OBP          float64           `json:"obp"`
	Slugging     float64           `json:"slugging"`
	Substitution *SubstitutionInfo `json:"substitution,omitempty"`
}

// PitcherStat is one pitcher's line, with derived rates.
type PitcherStat struct {
	PlayerID       int64   `json:"playerId"`
	Name           string  `json:"name"`
	InningsPitched string  `json:"inningsPitched"`
	Hits           int     `json:"hits"`
	Runs           int     `json:"runs"`
	EarnedRuns     int     `json:"earnedRuns"`
	Walks          int     `json:"walks"`
	Strikeouts     int     `json:"strikeouts"`
	ERA            float64 `json:"era"`
	WHIP           float64 `json:"whip"`
}

// GameInfo is supplementary game information, best-effort.
type GameInfo struct {
	Umpires     []string `json:"umpires,omitempty"`
	AwayManager string   `json:"awayManager,omitempty"`
	HomeManager string   `json:"homeManager,omitempty"`
	Weather     string   `json:"weather,omitempty"`
}

// GameDetails is the full normalized game document.
type GameDetails struct {
	Game         Game              `json:"game"`
	Innings      []Inning          `json:"innings"`
	Plays        []PlateAppearance `json:"plays"`
	AwayBatters  []BatterStat      `json:"awayBatters"`
	HomeBatters  []BatterStat      `json:"homeBatters"`
	AwayPitchers []PitcherStat     `json:"awayPitchers"`
	HomePitchers []PitcherStat     `json:"homePitchers"`
	Info         GameInfo          `json:"info"`
}
