package mongostore

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	models "github.com/phillip/edubridge-go/models"
	store "github.com/phillip/edubridge-go/store"
)

// ---------------- MENTORS ----------------
func (s *Store) CreateMentor(ctx context.Context, m *models.Mentor) error {
	return insert(ctx, s.col(colMentors), &m.ID, m)
}

func (s *Store) FindMentor(ctx context.Context, id primitive.ObjectID) (*models.Mentor, error) {
	return findOne[models.Mentor](ctx, s.col(colMentors), bson.M{"_id": id})
}

func (s *Store) FindMentorByUser(ctx context.Context, userID primitive.ObjectID) (*models.Mentor, error) {
	return findOne[models.Mentor](ctx, s.col(colMentors), bson.M{"user_id": userID})
}

func (s *Store) FindMentors(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Mentor, error) {
	return findByIDs(ctx, s.col(colMentors), ids, func(m models.Mentor) primitive.ObjectID { return m.ID })
}

func (s *Store) ListMentors(ctx context.Context, f store.MentorFilter, page models.PageRequest) ([]models.Mentor, int64, error) {
	filter := bson.M{}
	if f.AvailableOnly {
		filter["is_available"] = true
	}
	if f.Expertise != "" {
		filter["expertise"] = containsFold(f.Expertise)
	}
	return list[models.Mentor](ctx, s.col(colMentors), filter, page)
}

// UpdateMentor only matches while current_students fits under the new max_students.
func (s *Store) UpdateMentor(ctx context.Context, m *models.Mentor) error {
	filter := bson.M{"_id": m.ID, "current_students": bson.M{"$lte": m.MaxStudents}}
	res, err := s.col(colMentors).UpdateOne(ctx, filter, bson.M{"$set": bson.M{
		"company":          m.Company,
		"position":         m.Position,
		"expertise":        m.Expertise,
		"experience_years": m.ExperienceYears,
		"bio":              m.Bio,
		"linkedin_url":     m.LinkedinURL,
		"github_url":       m.GithubURL,
		"is_available":     m.IsAvailable,
		"max_students":     m.MaxStudents,
		"rating":           m.Rating,
		"total_reviews":    m.TotalReviews,
		"updated_at":       m.UpdatedAt,
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 1 {
		return nil
	}
	if _, err := s.FindMentor(ctx, m.ID); err != nil {
		return err
	}
	return store.ErrNoCapacity
}

// ClaimMentorSlot is a single conditional $inc, so concurrent accepts can
// never push current_students past max_students.
func (s *Store) ClaimMentorSlot(ctx context.Context, id primitive.ObjectID, at time.Time) error {
	filter := bson.M{
		"_id":          id,
		"is_available": true,
		"$expr":        bson.M{"$lt": bson.A{"$current_students", "$max_students"}},
	}
	update := bson.M{
		"$inc": bson.M{"current_students": 1},
		"$set": bson.M{"updated_at": at},
	}
	res, err := s.col(colMentors).UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 1 {
		return nil
	}
	if _, err := s.FindMentor(ctx, id); err != nil {
		return err
	}
	return store.ErrNoCapacity
}

func (s *Store) ReleaseMentorSlot(ctx context.Context, id primitive.ObjectID, at time.Time) error {
	filter := bson.M{"_id": id, "current_students": bson.M{"$gt": 0}}
	update := bson.M{
		"$inc": bson.M{"current_students": -1},
		"$set": bson.M{"updated_at": at},
	}
	res, err := s.col(colMentors).UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		// Either missing or already at zero.
		_, err := s.FindMentor(ctx, id)
		return err
	}
	return nil
}

// ---------------- MENTORSHIPS ----------------
func (s *Store) CreateMentorship(ctx context.Context, m *models.Mentorship) error {
	return insert(ctx, s.col(colMentorships), &m.ID, m)
}

func (s *Store) FindMentorship(ctx context.Context, id primitive.ObjectID) (*models.Mentorship, error) {
	return findOne[models.Mentorship](ctx, s.col(colMentorships), bson.M{"_id": id})
}

func mentorshipFilter(f store.MentorshipFilter) bson.M {
	filter := bson.M{}
	if f.MentorID != nil {
		filter["mentor_id"] = *f.MentorID
	}
	if f.StudentID != nil {
		filter["student_id"] = *f.StudentID
	}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	return filter
}

func (s *Store) ListMentorships(ctx context.Context, f store.MentorshipFilter) ([]models.Mentorship, error) {
	items, _, err := list[models.Mentorship](ctx, s.col(colMentorships), mentorshipFilter(f), models.PageRequest{})
	return items, err
}

func (s *Store) CountMentorships(ctx context.Context, f store.MentorshipFilter) (int64, error) {
	return s.col(colMentorships).CountDocuments(ctx, mentorshipFilter(f))
}

func (s *Store) TransitionMentorship(ctx context.Context, id primitive.ObjectID, t store.MentorshipTransition) (*models.Mentorship, error) {
	set := bson.M{"status": t.To, "updated_at": t.At}
	if t.StartDate != nil {
		set["start_date"] = *t.StartDate
	}
	if t.EndDate != nil {
		set["end_date"] = *t.EndDate
	}

	var out models.Mentorship
	err := s.col(colMentorships).FindOneAndUpdate(ctx,
		bson.M{"_id": id, "status": t.From},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&out)
	if err == nil {
		return &out, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}
	if _, err := s.FindMentorship(ctx, id); err != nil {
		return nil, err
	}
	return nil, store.ErrStaleState
}
