package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DonationStatus keeps the full gateway state space even though only
// DonationCompleted is written today.
type DonationStatus string

const (
	DonationPending   DonationStatus = "pending"
	DonationCompleted DonationStatus = "completed"
	DonationFailed    DonationStatus = "failed"
	DonationRefunded  DonationStatus = "refunded"
)

const DefaultPaymentMethod = "online"

type Donation struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Amount        float64            `bson:"amount" json:"amount"`
	DonorID       primitive.ObjectID `bson:"donor_id" json:"donor_id"`
	CampaignID    primitive.ObjectID `bson:"campaign_id" json:"campaign_id"`
	PaymentMethod string             `bson:"payment_method" json:"payment_method"` // online, bank_transfer, ...
	TransactionID string             `bson:"transaction_id" json:"transaction_id"`
	Status        DonationStatus     `bson:"status" json:"status"`
	IsAnonymous   bool               `bson:"is_anonymous" json:"is_anonymous"`
	Message       string             `bson:"message,omitempty" json:"message"`
	CreatedAt     time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time          `bson:"updated_at" json:"updated_at"`
}

type DonationView struct {
	Donation
	DonorName     string  `json:"donor_name"`
	CampaignTitle *string `json:"campaign_title"`
}

// NewDonationView resolves display fields. Either reference may be nil when
// the target document has been deleted.
func NewDonationView(d Donation, donor *User, campaign *Campaign) DonationView {
	view := DonationView{Donation: d}
	switch {
	case d.IsAnonymous:
		view.DonorName = "Anonymous"
	case donor != nil:
		view.DonorName = donor.FullName()
	default:
		view.DonorName = "Unknown"
	}
	if campaign != nil {
		title := campaign.Title
		view.CampaignTitle = &title
	}
	return view
}

type DonationStats struct {
	TotalDonations  int64   `json:"total_donations"`
	TotalAmount     float64 `json:"total_amount"`
	RecentDonations int64   `json:"recent_donations"`
	RecentAmount    float64 `json:"recent_amount"`
}
