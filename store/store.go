// Package store defines the document persistence used by the API. The
// mongostore package backs it with MongoDB and memstore keeps everything in
// process memory.
package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	models "github.com/phillip/edubridge-go/models"
)

var (
	ErrNotFound  = errors.New("document not found")
	ErrDuplicate = errors.New("duplicate key")

	// ErrNoCapacity is returned when a mentor slot cannot be claimed.
	ErrNoCapacity = errors.New("mentor has no free slot")

	// ErrStaleState is returned when a conditional transition finds the
	// document in a different state than expected.
	ErrStaleState = errors.New("document state changed")
)

type CampaignFilter struct {
	Category string
	Search   string // case-insensitive substring of title or description
	Status   models.CampaignStatus
	NGOID    *primitive.ObjectID
}

type DonationFilter struct {
	CampaignID *primitive.ObjectID
	DonorID    *primitive.ObjectID
	Status     models.DonationStatus
	Since      *time.Time // inclusive lower bound on created_at
}

type MentorFilter struct {
	Expertise     string // case-insensitive substring
	AvailableOnly bool
}

type MentorshipFilter struct {
	MentorID  *primitive.ObjectID
	StudentID *primitive.ObjectID
	Status    models.MentorshipStatus
}

// MentorshipTransition moves a mentorship from one status to another only
// if it is still in From.
type MentorshipTransition struct {
	From      models.MentorshipStatus
	To        models.MentorshipStatus
	StartDate *time.Time
	EndDate   *time.Time
	At        time.Time
}

type UserStore interface {
	CreateUser(ctx context.Context, u *models.User) error
	FindUser(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	FindUsers(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.User, error)
	UpdateUser(ctx context.Context, u *models.User) error
	DeleteUser(ctx context.Context, id primitive.ObjectID) error
}

type ProfileStore interface {
	CreateStudent(ctx context.Context, s *models.Student) error
	FindStudent(ctx context.Context, id primitive.ObjectID) (*models.Student, error)
	FindStudentByUser(ctx context.Context, userID primitive.ObjectID) (*models.Student, error)
	FindStudents(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Student, error)
	UpdateStudent(ctx context.Context, s *models.Student) error

	CreateNGO(ctx context.Context, n *models.NGO) error
	FindNGO(ctx context.Context, id primitive.ObjectID) (*models.NGO, error)
	FindNGOByUser(ctx context.Context, userID primitive.ObjectID) (*models.NGO, error)
	FindNGOs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.NGO, error)
	UpdateNGO(ctx context.Context, n *models.NGO) error
}

type MentorStore interface {
	CreateMentor(ctx context.Context, m *models.Mentor) error
	FindMentor(ctx context.Context, id primitive.ObjectID) (*models.Mentor, error)
	FindMentorByUser(ctx context.Context, userID primitive.ObjectID) (*models.Mentor, error)
	FindMentors(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Mentor, error)
	ListMentors(ctx context.Context, f MentorFilter, page models.PageRequest) ([]models.Mentor, int64, error)
	// UpdateMentor writes profile fields. It never touches current_students,
	// which only ClaimMentorSlot and ReleaseMentorSlot change, and returns
	// ErrNoCapacity when m.MaxStudents is below the stored current_students.
	UpdateMentor(ctx context.Context, m *models.Mentor) error
	// ClaimMentorSlot atomically increments current_students if the mentor
	// is available and below max_students, else returns ErrNoCapacity.
	ClaimMentorSlot(ctx context.Context, id primitive.ObjectID, at time.Time) error
	// ReleaseMentorSlot atomically decrements current_students, never
	// below zero.
	ReleaseMentorSlot(ctx context.Context, id primitive.ObjectID, at time.Time) error

	CreateMentorship(ctx context.Context, m *models.Mentorship) error
	FindMentorship(ctx context.Context, id primitive.ObjectID) (*models.Mentorship, error)
	ListMentorships(ctx context.Context, f MentorshipFilter) ([]models.Mentorship, error)
	CountMentorships(ctx context.Context, f MentorshipFilter) (int64, error)
	TransitionMentorship(ctx context.Context, id primitive.ObjectID, t MentorshipTransition) (*models.Mentorship, error)
}

type CampaignStore interface {
	CreateCampaign(ctx context.Context, c *models.Campaign) error
	FindCampaign(ctx context.Context, id primitive.ObjectID) (*models.Campaign, error)
	FindCampaigns(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Campaign, error)
	ListCampaigns(ctx context.Context, f CampaignFilter, page models.PageRequest) ([]models.Campaign, int64, error)
	// UpdateCampaign writes editable fields. It never touches raised_amount,
	// which only IncrementRaised changes.
	UpdateCampaign(ctx context.Context, c *models.Campaign) error
	DeleteCampaign(ctx context.Context, id primitive.ObjectID) error
	// IncrementRaised atomically adds amount to raised_amount.
	IncrementRaised(ctx context.Context, id primitive.ObjectID, amount float64, at time.Time) error
	CampaignTotals(ctx context.Context) (models.CampaignStats, error)
	CountCampaigns(ctx context.Context, f CampaignFilter) (int64, error)

	CreateCampaignUpdate(ctx context.Context, u *models.CampaignUpdate) error
	ListCampaignUpdates(ctx context.Context, campaignID primitive.ObjectID) ([]models.CampaignUpdate, error)
}

type DonationStore interface {
	CreateDonation(ctx context.Context, d *models.Donation) error
	ListDonations(ctx context.Context, f DonationFilter, page models.PageRequest) ([]models.Donation, int64, error)
	SumDonations(ctx context.Context, f DonationFilter) (count int64, total float64, err error)
}

type Store interface {
	UserStore
	ProfileStore
	MentorStore
	CampaignStore
	DonationStore

	Ping(ctx context.Context) error
	// Clear drops every document. Used by the clear-db command and seeding.
	Clear(ctx context.Context) error
	Close(ctx context.Context) error
}
