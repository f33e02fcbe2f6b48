package mongostore

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	models "github.com/phillip/edubridge-go/models"
	store "github.com/phillip/edubridge-go/store"
)

// ---------------- DONATIONS ----------------
func (s *Store) CreateDonation(ctx context.Context, d *models.Donation) error {
	return insert(ctx, s.col(colDonations), &d.ID, d)
}

func donationFilter(f store.DonationFilter) bson.M {
	filter := bson.M{}
	if f.CampaignID != nil {
		filter["campaign_id"] = *f.CampaignID
	}
	if f.DonorID != nil {
		filter["donor_id"] = *f.DonorID
	}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.Since != nil {
		filter["created_at"] = bson.M{"$gte": *f.Since}
	}
	return filter
}

func (s *Store) ListDonations(ctx context.Context, f store.DonationFilter, page models.PageRequest) ([]models.Donation, int64, error) {
	return list[models.Donation](ctx, s.col(colDonations), donationFilter(f), page)
}

func (s *Store) SumDonations(ctx context.Context, f store.DonationFilter) (int64, float64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: donationFilter(f)}},
		{{Key: "$group", Value: bson.M{
			"_id":   nil,
			"count": bson.M{"$sum": 1},
			"total": bson.M{"$sum": "$amount"},
		}}},
	}
	cursor, err := s.col(colDonations).Aggregate(ctx, pipeline)
	if err != nil {
		return 0, 0, err
	}
	var rows []struct {
		Count int64   `bson:"count"`
		Total float64 `bson:"total"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return 0, 0, err
	}
	if len(rows) == 0 {
		return 0, 0, nil
	}
	return rows[0].Count, rows[0].Total, nil
}
