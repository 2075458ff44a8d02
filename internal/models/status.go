package models

import "time"

// Status represents a task status. A nil ProjectID means the status is
// shared across all projects and personal tasks; that is the only scope the
// current schema generation uses for new statuses.
type Status struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	DisplayName string    `json:"display_name"`
	Order       int       `json:"order"`
	Color       string    `json:"color"`
	ProjectID   *int64    `json:"project_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// DefaultStatusColor is applied when a status is created without a color.
const DefaultStatusColor = "#667eea"

// DefaultTaskStatus is the status name assigned to tasks created without one.
const DefaultTaskStatus = "not_started"

// StatusSeed describes one of the seven canonical shared statuses.
type StatusSeed struct {
	Name        string
	DisplayName string
	Order       int
	Color       string
}

// DefaultStatusSeeds are the canonical shared statuses, in display order.
// They are seeded into a fresh store and also served as a synthetic fallback
// when the statuses table is still empty.
var DefaultStatusSeeds = []StatusSeed{
	{Name: "considering", DisplayName: "検討中", Order: 0, Color: "#9e9e9e"},
	{Name: "not_started", DisplayName: "未実行", Order: 1, Color: "#667eea"},
	{Name: "in_progress", DisplayName: "実行中", Order: 2, Color: "#ffa726"},
	{Name: "review_pending", DisplayName: "レビュー待ち", Order: 3, Color: "#9c27b0"},
	{Name: "staging_deployed", DisplayName: "検証環境反映済み", Order: 4, Color: "#ffeb3b"},
	{Name: "production_deployed", DisplayName: "本番環境反映済み", Order: 5, Color: "#51cf66"},
	{Name: "cancelled", DisplayName: "中止", Order: 6, Color: "#dc3545"},
}

// FallbackStatuses returns the canonical statuses as unsaved Status values
// with synthetic sequential ids, for clients hitting a not-yet-seeded store.
func FallbackStatuses(now time.Time) []*Status {
	statuses := make([]*Status, 0, len(DefaultStatusSeeds))
	for i, seed := range DefaultStatusSeeds {
		statuses = append(statuses, &Status{
			ID:          int64(i),
			Name:        seed.Name,
			DisplayName: seed.DisplayName,
			Order:       seed.Order,
			Color:       seed.Color,
			CreatedAt:   now,
		})
	}
	return statuses
}
