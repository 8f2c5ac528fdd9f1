// Package types holds shared read-model shapes returned by service queries.
package types

import "github.com/warfroggy/clashlens/internal/domain/model"

// History is the reconstructed event timeline for one player.
type History struct {
	PlayerTag      string                `json:"playerTag"`
	Days           int                   `json:"days"`
	SnapshotsFound int                   `json:"snapshotsFound"`
	Events         []model.ActivityEvent `json:"events"`
}

// Activity is the scored activity view for one player.
type Activity struct {
	PlayerTag    string             `json:"playerTag"`
	Score        float64            `json:"score"`
	Level        string             `json:"level"`
	Breakdown    map[string]float64 `json:"breakdown"`
	LookbackDays int                `json:"lookbackDays"`
	Events       int                `json:"events"`
}
