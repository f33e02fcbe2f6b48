package services

import (
	"context"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	apperrors "github.com/phillip/edubridge-go/apperrors"
	models "github.com/phillip/edubridge-go/models"
	store "github.com/phillip/edubridge-go/store"
	utils "github.com/phillip/edubridge-go/utils"
)

const (
	CampaignDonationsPageSize = 20
	DonorDonationsPageSize    = 10
	RecentDonationsLimit      = 5
	recentWindow              = 30 * 24 * time.Hour
)

// DonationLedger records donations and keeps campaign totals in step.
type DonationLedger struct {
	store  store.Store
	mailer utils.Mailer
	now    func() time.Time
}

func NewDonationLedger(st store.Store, mailer utils.Mailer, now func() time.Time) *DonationLedger {
	return &DonationLedger{store: st, mailer: mailer, now: now}
}

type DonationRequest struct {
	CampaignID    string `json:"campaignId"`
	Amount        any    `json:"amount"` // number or numeric string
	PaymentMethod string `json:"paymentMethod"`
	IsAnonymous   bool   `json:"isAnonymous"`
	Message       string `json:"message"`
}

// ParseAmount accepts a JSON number or a numeric string and requires a
// finite value above zero.
func ParseAmount(v any) (float64, error) {
	var amount float64
	switch x := v.(type) {
	case nil:
		return 0, apperrors.New(apperrors.InvalidArgument, "Amount is required")
	case float64:
		amount = x
	case int:
		amount = float64(x)
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return 0, apperrors.New(apperrors.InvalidArgument, "Amount must be a number")
		}
		amount = f
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return 0, apperrors.New(apperrors.InvalidArgument, "Amount is required")
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, apperrors.New(apperrors.InvalidArgument, "Amount must be a number")
		}
		amount = f
	default:
		return 0, apperrors.New(apperrors.InvalidArgument, "Amount must be a number")
	}
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return 0, apperrors.New(apperrors.InvalidArgument, "Amount must be a number")
	}
	if amount <= 0 {
		return 0, apperrors.New(apperrors.InvalidArgument, "Amount must be greater than 0")
	}
	return amount, nil
}

// Record validates and stores a completed donation, then adds its amount to
// the campaign with an atomic increment. The amount is checked before any
// lookup. If the increment fails the donation stays recorded and the call
// reports an internal error.
func (l *DonationLedger) Record(ctx context.Context, donorID primitive.ObjectID, in DonationRequest) (*models.DonationView, error) {
	amount, err := ParseAmount(in.Amount)
	if err != nil {
		return nil, err
	}
	campaignID, err := parseID(in.CampaignID, "campaignId")
	if err != nil {
		return nil, err
	}

	campaign, err := l.store.FindCampaign(ctx, campaignID)
	if err != nil {
		return nil, storeErr(err, "Campaign not found")
	}
	donor, err := l.store.FindUser(ctx, donorID)
	if err != nil {
		return nil, storeErr(err, "User not found")
	}
	if !donor.IsActive {
		return nil, apperrors.New(apperrors.Forbidden, "Account is deactivated")
	}

	now := nowUTC(l.now)
	donation := models.Donation{
		Amount:        amount,
		DonorID:       donor.ID,
		CampaignID:    campaign.ID,
		PaymentMethod: orDefault(in.PaymentMethod, models.DefaultPaymentMethod),
		TransactionID: uuid.NewString(),
		Status:        models.DonationCompleted,
		IsAnonymous:   in.IsAnonymous,
		Message:       in.Message,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := l.store.CreateDonation(ctx, &donation); err != nil {
		return nil, apperrors.Wrap(apperrors.Internal, "could not record donation", err)
	}

	if err := l.store.IncrementRaised(ctx, campaign.ID, amount, now); err != nil {
		logf("donation %s recorded but campaign %s total not updated: %v",
			donation.TransactionID, campaign.ID.Hex(), err)
		return nil, apperrors.Wrap(apperrors.Internal, "could not update campaign total", err)
	}
	campaign.RaisedAmount += amount

	subject, body := receiptEmail(*donor, *campaign, donation)
	notify(l.mailer, donor.Email, donor.FullName(), subject, body)

	view := models.NewDonationView(donation, donor, campaign)
	return &view, nil
}

// ListByCampaign pages through a campaign's donations, newest first.
func (l *DonationLedger) ListByCampaign(ctx context.Context, campaignID string, page models.PageRequest) (*models.Page[models.DonationView], error) {
	cid, err := primitive.ObjectIDFromHex(campaignID)
	if err != nil {
		return nil, apperrors.New(apperrors.NotFound, "Campaign not found")
	}
	if _, err := l.store.FindCampaign(ctx, cid); err != nil {
		return nil, storeErr(err, "Campaign not found")
	}
	return l.list(ctx, store.DonationFilter{CampaignID: &cid}, page)
}

// ListByDonor pages through the donor's own donations, newest first.
func (l *DonationLedger) ListByDonor(ctx context.Context, donorID primitive.ObjectID, page models.PageRequest) (*models.Page[models.DonationView], error) {
	return l.list(ctx, store.DonationFilter{DonorID: &donorID}, page)
}

// Recent returns the latest completed donations of a campaign.
func (l *DonationLedger) Recent(ctx context.Context, campaignID primitive.ObjectID, limit int) ([]models.DonationView, error) {
	p, err := l.list(ctx, store.DonationFilter{
		CampaignID: &campaignID,
		Status:     models.DonationCompleted,
	}, models.PageRequest{Page: 1, Size: limit})
	if err != nil {
		return nil, err
	}
	return p.Items, nil
}

func (l *DonationLedger) list(ctx context.Context, f store.DonationFilter, page models.PageRequest) (*models.Page[models.DonationView], error) {
	donations, total, err := l.store.ListDonations(ctx, f, page)
	if err != nil {
		return nil, storeErr(err, "")
	}
	views, err := l.views(ctx, donations)
	if err != nil {
		return nil, err
	}
	p := models.NewPage(views, total, page)
	return &p, nil
}

// views resolves donors and campaigns with one batch lookup each.
func (l *DonationLedger) views(ctx context.Context, donations []models.Donation) ([]models.DonationView, error) {
	donorIDs := make([]primitive.ObjectID, 0, len(donations))
	campaignIDs := make([]primitive.ObjectID, 0, len(donations))
	for _, d := range donations {
		donorIDs = append(donorIDs, d.DonorID)
		campaignIDs = append(campaignIDs, d.CampaignID)
	}
	donors, err := l.store.FindUsers(ctx, donorIDs)
	if err != nil {
		return nil, storeErr(err, "")
	}
	campaigns, err := l.store.FindCampaigns(ctx, campaignIDs)
	if err != nil {
		return nil, storeErr(err, "")
	}

	views := make([]models.DonationView, 0, len(donations))
	for _, d := range donations {
		var donor *models.User
		if u, ok := donors[d.DonorID]; ok {
			donor = &u
		}
		var campaign *models.Campaign
		if c, ok := campaigns[d.CampaignID]; ok {
			campaign = &c
		}
		views = append(views, models.NewDonationView(d, donor, campaign))
	}
	return views, nil
}

// Stats counts and sums completed donations, overall and for the last 30 days.
func (l *DonationLedger) Stats(ctx context.Context) (models.DonationStats, error) {
	var stats models.DonationStats
	count, total, err := l.store.SumDonations(ctx, store.DonationFilter{Status: models.DonationCompleted})
	if err != nil {
		return stats, storeErr(err, "")
	}
	since := nowUTC(l.now).Add(-recentWindow)
	recent, recentTotal, err := l.store.SumDonations(ctx, store.DonationFilter{
		Status: models.DonationCompleted,
		Since:  &since,
	})
	if err != nil {
		return stats, storeErr(err, "")
	}
	stats.TotalDonations, stats.TotalAmount = count, total
	stats.RecentDonations, stats.RecentAmount = recent, recentTotal
	return stats, nil
}
