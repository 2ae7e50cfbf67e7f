package domain

// BadgeLevel is an ordered tier summarizing a composite profile score
type BadgeLevel string

const (
	BadgeStardust  BadgeLevel = "stardust"
	BadgeNebula    BadgeLevel = "nebula"
	BadgeSupernova BadgeLevel = "supernova"
	BadgeGalaxy    BadgeLevel = "galaxy"
)

// Title returns the display title shown next to the badge
func (b BadgeLevel) Title() string {
	switch b {
	case BadgeGalaxy:
		return "Galactic Pioneer"
	case BadgeSupernova:
		return "Rising Star"
	case BadgeNebula:
		return "Cosmic Explorer"
	default:
		return "Stellar Newcomer"
	}
}

// SubScores holds the three component scores, each clamped to [0, 100]
type SubScores struct {
	Activity   int `json:"activity"`
	Engagement int `json:"engagement"`
	Authority  int `json:"authority"`
}

// ScoreResult is the full derived scoring payload for a profile. Like the
// snapshot it is computed from, it lives only for the duration of a request.
type ScoreResult struct {
	Profile         ProfileCard `json:"profile"`
	Scores          SubScores   `json:"scores"`
	TotalScore      int         `json:"totalScore"`
	Badge           BadgeLevel  `json:"badge"`
	Title           string      `json:"title"`
	Recommendations []string    `json:"recommendations"`
}
