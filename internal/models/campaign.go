package models

import "time"

type Campaign struct {
	ID            int        `json:"id"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	ImageURL      string     `json:"image_url,omitempty"`
	GoalAmount    int64      `json:"goal_amount"`
	CurrentAmount int64      `json:"current_amount"`
	Status        string     `json:"status"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     *time.Time `json:"updated_at,omitempty"`
}

const (
	CampaignActive   = "active"
	CampaignPaused   = "paused"
	CampaignFinished = "finished"
)

// AcceptsDonations reports whether new payment intents may be issued
// against the campaign.
func (c Campaign) AcceptsDonations() bool {
	return c.Status == CampaignActive
}
