package models

import (
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CampaignStatus string

const (
	CampaignActive    CampaignStatus = "active"
	CampaignCompleted CampaignStatus = "completed"
	CampaignCancelled CampaignStatus = "cancelled"
)

func (s CampaignStatus) Valid() bool {
	switch s {
	case CampaignActive, CampaignCompleted, CampaignCancelled:
		return true
	}
	return false
}

// DefaultCampaignDuration is how long a campaign runs when no end date is given.
const DefaultCampaignDuration = 30 * 24 * time.Hour

type Campaign struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	NGOID           primitive.ObjectID `bson:"ngo_id" json:"ngo_id"` // Owner
	Title           string             `bson:"title" json:"title"`
	Description     string             `bson:"description" json:"description"`
	LongDescription string             `bson:"long_description,omitempty" json:"long_description"`
	Category        string             `bson:"category" json:"category"`
	GoalAmount      float64            `bson:"goal_amount" json:"goal_amount"`
	RaisedAmount    float64            `bson:"raised_amount" json:"raised_amount"`
	ImageURL        string             `bson:"image_url,omitempty" json:"image_url"`
	Location        string             `bson:"location,omitempty" json:"location"`
	Status          CampaignStatus     `bson:"status" json:"status"`
	StartDate       time.Time          `bson:"start_date" json:"start_date"`
	EndDate         *time.Time         `bson:"end_date,omitempty" json:"end_date"`
	CreatedAt       time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt       time.Time          `bson:"updated_at" json:"updated_at"`
}

// ProgressPercentage is raised/goal as a percentage, capped at 100.
// Over-funding is allowed, so raised may exceed goal.
func (c Campaign) ProgressPercentage() float64 {
	return Progress(c.RaisedAmount, c.GoalAmount)
}

// DaysLeft returns whole days until the end date, never negative, or nil
// when the campaign has no end date.
func (c Campaign) DaysLeft(now time.Time) *int {
	if c.EndDate == nil {
		return nil
	}
	days := int(c.EndDate.Sub(now) / (24 * time.Hour))
	if c.EndDate.Before(now) {
		days = 0
	}
	return &days
}

// Progress is min(raised/goal*100, 100), or 0 when goal is not positive.
func Progress(raised, goal float64) float64 {
	if goal <= 0 {
		return 0
	}
	return math.Max(0, math.Min(raised/goal*100, 100))
}

type CampaignView struct {
	Campaign
	NGOName            string  `json:"ngo_name,omitempty"`
	ProgressPercentage float64 `json:"progress_percentage"`
	DaysLeft           *int    `json:"days_left"`
}

func NewCampaignView(c Campaign, ngo *NGO, now time.Time) CampaignView {
	view := CampaignView{
		Campaign:           c,
		ProgressPercentage: c.ProgressPercentage(),
		DaysLeft:           c.DaysLeft(now),
	}
	if ngo != nil {
		view.NGOName = ngo.Name
	}
	return view
}

type CampaignDetail struct {
	CampaignView
	Updates         []CampaignUpdate `json:"updates"`
	RecentDonations []DonationView   `json:"recent_donations"`
}

// --- Update posts ---
type CampaignUpdate struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CampaignID primitive.ObjectID `bson:"campaign_id" json:"campaign_id"`
	Title      string             `bson:"title" json:"title"`
	Content    string             `bson:"content" json:"content"`
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
}

type CampaignCategory struct {
	Value string `json:"value"`
	Label string `json:"label"`
	Icon  string `json:"icon"`
}

var CampaignCategories = []CampaignCategory{
	{Value: "scholarship", Label: "Scholarships", Icon: "🎓"},
	{Value: "infrastructure", Label: "Infrastructure", Icon: "🏗️"},
	{Value: "mentorship", Label: "Mentorship", Icon: "🤝"},
	{Value: "education", Label: "Education", Icon: "📚"},
}

func ValidCategory(value string) bool {
	for _, c := range CampaignCategories {
		if c.Value == value {
			return true
		}
	}
	return false
}

type CampaignStats struct {
	TotalCampaigns  int64   `json:"total_campaigns"`
	ActiveCampaigns int64   `json:"active_campaigns"`
	TotalGoal       float64 `json:"total_goal"`
	TotalRaised     float64 `json:"total_raised"`
	OverallProgress float64 `json:"overall_progress"`
}
