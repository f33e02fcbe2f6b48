package mongostore

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	models "github.com/phillip/edubridge-go/models"
	store "github.com/phillip/edubridge-go/store"
)

// ---------------- CAMPAIGNS ----------------
func (s *Store) CreateCampaign(ctx context.Context, c *models.Campaign) error {
	return insert(ctx, s.col(colCampaigns), &c.ID, c)
}

func (s *Store) FindCampaign(ctx context.Context, id primitive.ObjectID) (*models.Campaign, error) {
	return findOne[models.Campaign](ctx, s.col(colCampaigns), bson.M{"_id": id})
}

func (s *Store) FindCampaigns(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Campaign, error) {
	return findByIDs(ctx, s.col(colCampaigns), ids, func(c models.Campaign) primitive.ObjectID { return c.ID })
}

func campaignFilter(f store.CampaignFilter) bson.M {
	filter := bson.M{}
	if f.Category != "" {
		filter["category"] = f.Category
	}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.NGOID != nil {
		filter["ngo_id"] = *f.NGOID
	}
	if f.Search != "" {
		filter["$or"] = bson.A{
			bson.M{"title": containsFold(f.Search)},
			bson.M{"description": containsFold(f.Search)},
		}
	}
	return filter
}

func (s *Store) ListCampaigns(ctx context.Context, f store.CampaignFilter, page models.PageRequest) ([]models.Campaign, int64, error) {
	return list[models.Campaign](ctx, s.col(colCampaigns), campaignFilter(f), page)
}

func (s *Store) CountCampaigns(ctx context.Context, f store.CampaignFilter) (int64, error) {
	return s.col(colCampaigns).CountDocuments(ctx, campaignFilter(f))
}

func (s *Store) UpdateCampaign(ctx context.Context, c *models.Campaign) error {
	return updateByID(ctx, s.col(colCampaigns), c.ID, bson.M{"$set": bson.M{
		"title":            c.Title,
		"description":      c.Description,
		"long_description": c.LongDescription,
		"category":         c.Category,
		"goal_amount":      c.GoalAmount,
		"image_url":        c.ImageURL,
		"location":         c.Location,
		"status":           c.Status,
		"end_date":         c.EndDate,
		"updated_at":       c.UpdatedAt,
	}})
}

func (s *Store) DeleteCampaign(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.col(colCampaigns).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) IncrementRaised(ctx context.Context, id primitive.ObjectID, amount float64, at time.Time) error {
	return updateByID(ctx, s.col(colCampaigns), id, bson.M{
		"$inc": bson.M{"raised_amount": amount},
		"$set": bson.M{"updated_at": at},
	})
}

func (s *Store) CampaignTotals(ctx context.Context) (models.CampaignStats, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":          nil,
			"total":        bson.M{"$sum": 1},
			"active":       bson.M{"$sum": bson.M{"$cond": bson.A{bson.M{"$eq": bson.A{"$status", models.CampaignActive}}, 1, 0}}},
			"total_goal":   bson.M{"$sum": "$goal_amount"},
			"total_raised": bson.M{"$sum": "$raised_amount"},
		}}},
	}
	cursor, err := s.col(colCampaigns).Aggregate(ctx, pipeline)
	if err != nil {
		return models.CampaignStats{}, err
	}
	var rows []struct {
		Total       int64   `bson:"total"`
		Active      int64   `bson:"active"`
		TotalGoal   float64 `bson:"total_goal"`
		TotalRaised float64 `bson:"total_raised"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return models.CampaignStats{}, err
	}
	if len(rows) == 0 {
		return models.CampaignStats{}, nil
	}
	return models.CampaignStats{
		TotalCampaigns:  rows[0].Total,
		ActiveCampaigns: rows[0].Active,
		TotalGoal:       rows[0].TotalGoal,
		TotalRaised:     rows[0].TotalRaised,
	}, nil
}

// ---------------- UPDATE POSTS ----------------
func (s *Store) CreateCampaignUpdate(ctx context.Context, u *models.CampaignUpdate) error {
	return insert(ctx, s.col(colCampaignUpdates), &u.ID, u)
}

func (s *Store) ListCampaignUpdates(ctx context.Context, campaignID primitive.ObjectID) ([]models.CampaignUpdate, error) {
	items, _, err := list[models.CampaignUpdate](ctx, s.col(colCampaignUpdates), bson.M{"campaign_id": campaignID}, models.PageRequest{})
	return items, err
}
