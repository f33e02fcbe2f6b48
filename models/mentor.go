package models

import (
	"sort"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const DefaultMaxStudents = 5

type Mentor struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID          primitive.ObjectID `bson:"user_id" json:"user_id"`
	Company         string             `bson:"company,omitempty" json:"company"`
	Position        string             `bson:"position,omitempty" json:"position"`
	Expertise       string             `bson:"expertise,omitempty" json:"expertise"` // comma-separated
	ExperienceYears *int               `bson:"experience_years,omitempty" json:"experience_years"`
	Bio             string             `bson:"bio,omitempty" json:"bio"`
	LinkedinURL     string             `bson:"linkedin_url,omitempty" json:"linkedin_url"`
	GithubURL       string             `bson:"github_url,omitempty" json:"github_url"`
	IsAvailable     bool               `bson:"is_available" json:"is_available"`
	MaxStudents     int                `bson:"max_students" json:"max_students"`
	CurrentStudents int                `bson:"current_students" json:"current_students"`
	Rating          float64            `bson:"rating" json:"rating"`
	TotalReviews    int                `bson:"total_reviews" json:"total_reviews"`
	CreatedAt       time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt       time.Time          `bson:"updated_at" json:"updated_at"`
}

// CanAcceptStudent reports whether the mentor has a free slot.
func (m Mentor) CanAcceptStudent() bool {
	return m.IsAvailable && m.CurrentStudents < m.MaxStudents
}

// ExpertiseTags splits the free-text expertise field on commas.
func (m Mentor) ExpertiseTags() []string {
	var tags []string
	for _, area := range strings.Split(m.Expertise, ",") {
		if area = strings.TrimSpace(area); area != "" {
			tags = append(tags, area)
		}
	}
	return tags
}

// ExpertiseAreas unions the tags of all given mentors. The result is sorted
// only so responses are stable; callers must not rely on any order.
func ExpertiseAreas(mentors []Mentor) []string {
	seen := map[string]struct{}{}
	areas := []string{}
	for _, m := range mentors {
		for _, tag := range m.ExpertiseTags() {
			if _, ok := seen[tag]; ok {
				continue
			}
			seen[tag] = struct{}{}
			areas = append(areas, tag)
		}
	}
	sort.Strings(areas)
	return areas
}

type MentorView struct {
	Mentor
	User *User `json:"user"`
}

type MentorshipStatus string

const (
	MentorshipPending   MentorshipStatus = "pending"
	MentorshipActive    MentorshipStatus = "active"
	MentorshipRejected  MentorshipStatus = "rejected"
	MentorshipCompleted MentorshipStatus = "completed"
	MentorshipCancelled MentorshipStatus = "cancelled"
)

// CanTransition reports whether the lifecycle allows moving from s to next.
func (s MentorshipStatus) CanTransition(next MentorshipStatus) bool {
	switch s {
	case MentorshipPending:
		return next == MentorshipActive || next == MentorshipRejected
	case MentorshipActive:
		return next == MentorshipCompleted || next == MentorshipCancelled
	}
	return false
}

func (s MentorshipStatus) Terminal() bool {
	return s == MentorshipRejected || s == MentorshipCompleted || s == MentorshipCancelled
}

type Mentorship struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	MentorID  primitive.ObjectID `bson:"mentor_id" json:"mentor_id"`
	StudentID primitive.ObjectID `bson:"student_id" json:"student_id"`
	Status    MentorshipStatus   `bson:"status" json:"status"`
	StartDate *time.Time         `bson:"start_date,omitempty" json:"start_date"`
	EndDate   *time.Time         `bson:"end_date,omitempty" json:"end_date"`
	Goals     string             `bson:"goals,omitempty" json:"goals"`
	Notes     string             `bson:"notes,omitempty" json:"notes"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}

// MentorshipView carries the resolved counterpart of a mentorship.
type MentorshipView struct {
	Mentorship
	Student *StudentView `json:"student,omitempty"`
	Mentor  *MentorView  `json:"mentor,omitempty"`
}
