// Package model contains domain models passed between layers.
package model

// RawSnapshot is one periodic observation of a player, exactly as delivered
// by the ingestion feed. The feed is occasionally inconsistent: any scalar
// may be absent or encoded as a numeric string, the date may be missing or
// unparseable, and the dynamic maps may carry keys that appear and disappear
// between game releases. Scalars are therefore kept loosely typed here and
// normalized by the timeline engine.
type RawSnapshot struct {
	// ID uniquely identifies the row for ingest idempotency. Assigned
	// server-side when the feed omits it.
	ID string `json:"id,omitempty"`

	// Date is the observation timestamp, ISO-8601 when well-formed.
	Date any `json:"date,omitempty"`

	Trophies                 any `json:"trophies,omitempty"`
	RankedTrophies           any `json:"rankedTrophies,omitempty"`
	Donations                any `json:"donations,omitempty"`
	DonationsReceived        any `json:"donationsReceived,omitempty"`
	ActivityScore            any `json:"activityScore,omitempty"`
	WarStars                 any `json:"warStars,omitempty"`
	AttackWins               any `json:"attackWins,omitempty"`
	DefenseWins              any `json:"defenseWins,omitempty"`
	ClanCapitalContributions any `json:"clanCapitalContributions,omitempty"`
	BuilderHallLevel         any `json:"builderHallLevel,omitempty"`
	VersusBattleWins         any `json:"versusBattleWins,omitempty"`
	MaxTroopCount            any `json:"maxTroopCount,omitempty"`
	MaxSpellCount            any `json:"maxSpellCount,omitempty"`
	AchievementCount         any `json:"achievementCount,omitempty"`
	ExpLevel                 any `json:"expLevel,omitempty"`

	// Heroes is the fixed-key hero level map (bk, aq, gw, rc, mp).
	Heroes map[string]any `json:"heroes,omitempty"`

	// Pets and Equipment are dynamic-key level maps; their key sets grow
	// as new types are introduced. A present-but-empty map means "reported
	// empty" and is distinct from an absent (nil) map.
	Pets      map[string]any `json:"pets,omitempty"`
	Equipment map[string]any `json:"equipment,omitempty"`

	// SuperTroops lists the names of currently active super troops.
	SuperTroops []string `json:"superTroops,omitempty"`
}
