package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Student struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID       primitive.ObjectID `bson:"user_id" json:"user_id"`
	School       string             `bson:"school,omitempty" json:"school"`
	Grade        string             `bson:"grade,omitempty" json:"grade"`
	Age          *int               `bson:"age,omitempty" json:"age"`
	Interests    string             `bson:"interests,omitempty" json:"interests"`
	Goals        string             `bson:"goals,omitempty" json:"goals"`
	Background   string             `bson:"background,omitempty" json:"background"`
	FamilyIncome string             `bson:"family_income" json:"family_income"` // low, medium, high
	Location     string             `bson:"location,omitempty" json:"location"`
	IsVerified   bool               `bson:"is_verified" json:"is_verified"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at" json:"updated_at"`
}

type NGO struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID             primitive.ObjectID `bson:"user_id" json:"user_id"`
	Name               string             `bson:"name" json:"name"`
	Description        string             `bson:"description,omitempty" json:"description"`
	Website            string             `bson:"website,omitempty" json:"website"`
	Phone              string             `bson:"phone,omitempty" json:"phone"`
	Address            string             `bson:"address,omitempty" json:"address"`
	City               string             `bson:"city,omitempty" json:"city"`
	State              string             `bson:"state,omitempty" json:"state"`
	Country            string             `bson:"country,omitempty" json:"country"`
	RegistrationNumber string             `bson:"registration_number" json:"registration_number"`
	LogoURL            string             `bson:"logo_url,omitempty" json:"logo_url"`
	IsVerified         bool               `bson:"is_verified" json:"is_verified"`
	CreatedAt          time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt          time.Time          `bson:"updated_at" json:"updated_at"`
}

// Profile is the role-specific half of an account, resolved once when the
// caller is identified. At most one of Student, Mentor and NGO is set, and
// only when Role says so; donors and admins have no profile document.
type Profile struct {
	Role    Role
	Student *Student
	Mentor  *Mentor
	NGO     *NGO
}

// ProfileView is a user plus its embedded role profile, as served by the
// profile endpoints.
type ProfileView struct {
	User
	StudentProfile *StudentView `json:"student_profile,omitempty"`
	MentorProfile  *MentorView  `json:"mentor_profile,omitempty"`
	NGOProfile     *NGO         `json:"ngo_profile,omitempty"`
}

func NewProfileView(u User, p Profile) ProfileView {
	view := ProfileView{User: u}
	switch {
	case p.Student != nil:
		view.StudentProfile = &StudentView{Student: *p.Student, User: &u}
	case p.Mentor != nil:
		view.MentorProfile = &MentorView{Mentor: *p.Mentor, User: &u}
	case p.NGO != nil:
		view.NGOProfile = p.NGO
	}
	return view
}

type StudentView struct {
	Student
	User *User `json:"user"`
}
