// Package model contains domain models passed between layers.
package model

// ActivityEvent is one reconstructed day of player activity. Events are
// emitted by the timeline engine in ascending calendar order, at most one
// per UTC day.
type ActivityEvent struct {
	// Date is the UTC calendar day, formatted YYYY-MM-DD.
	Date string `json:"date"`

	// Resolved (carry-forward) values as of this day.
	Trophies          int `json:"trophies"`
	RankedTrophies    int `json:"rankedTrophies"`
	Donations         int `json:"donations"`
	DonationsReceived int `json:"donationsReceived"`

	// ActivityScore is the day's raw reported score; nil when unreported.
	ActivityScore *int `json:"activityScore"`

	Deltas Deltas `json:"deltas"`

	HeroUpgrades      []HeroUpgrade      `json:"heroUpgrades"`
	PetUpgrades       []PetUpgrade       `json:"petUpgrades"`
	EquipmentUpgrades []EquipmentUpgrade `json:"equipmentUpgrades"`

	SuperTroopsActivated   []string `json:"superTroopsActivated"`
	SuperTroopsDeactivated []string `json:"superTroopsDeactivated"`

	// Summary is the ordered human-readable description of the day.
	Summary string `json:"summary"`
}

// Deltas carries per-metric day-over-day changes, computed against the most
// recent reported raw value. A zero means "no change or no report".
type Deltas struct {
	Trophies             int `json:"trophies"`
	RankedTrophies       int `json:"rankedTrophies"`
	Donations            int `json:"donations"`
	DonationsReceived    int `json:"donationsReceived"`
	WarStars             int `json:"warStars"`
	AttackWins           int `json:"attackWins"`
	DefenseWins          int `json:"defenseWins"`
	CapitalContributions int `json:"capitalContributions"`
	BuilderHall          int `json:"builderHall"`
	VersusBattleWins     int `json:"versusBattleWins"`
	MaxTroopCount        int `json:"maxTroopCount"`
	MaxSpellCount        int `json:"maxSpellCount"`
	AchievementCount     int `json:"achievementCount"`
	ExpLevel             int `json:"expLevel"`
}

// HeroUpgrade records a detected hero level increase. From is nil only in
// theory for heroes (the key set is fixed), but the shape matches the
// dynamic upgrade types for consistency.
type HeroUpgrade struct {
	Hero string `json:"hero"`
	From *int   `json:"from"`
	To   int    `json:"to"`
}

// PetUpgrade records a pet level increase or first appearance.
type PetUpgrade struct {
	Pet  string `json:"pet"`
	From *int   `json:"from"`
	To   int    `json:"to"`
}

// EquipmentUpgrade records an equipment level increase or first appearance.
type EquipmentUpgrade struct {
	Equipment string `json:"equipment"`
	From      *int   `json:"from"`
	To        int    `json:"to"`
}
