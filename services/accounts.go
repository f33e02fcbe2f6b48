package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	apperrors "github.com/phillip/edubridge-go/apperrors"
	auth "github.com/phillip/edubridge-go/auth"
	models "github.com/phillip/edubridge-go/models"
	store "github.com/phillip/edubridge-go/store"
	utils "github.com/phillip/edubridge-go/utils"
)

const (
	defaultCountry      = "India"
	defaultFamilyIncome = "medium"
)

// Accounts registers users, authenticates them and edits their profiles.
type Accounts struct {
	store  store.Store
	tokens *auth.TokenIssuer
	mailer utils.Mailer
	now    func() time.Time
}

func NewAccounts(st store.Store, tokens *auth.TokenIssuer, mailer utils.Mailer, now func() time.Time) *Accounts {
	return &Accounts{store: st, tokens: tokens, mailer: mailer, now: now}
}

// Registration is the register payload. Role-specific fields are ignored for
// other roles.
type Registration struct {
	Email     string      `json:"email"`
	Password  string      `json:"password"`
	FirstName string      `json:"firstName"`
	LastName  string      `json:"lastName"`
	Role      models.Role `json:"role"`
	Phone     string      `json:"phone"`

	// ngo, mentor (company)
	Organization string `json:"organization"`
	Description  string `json:"description"`
	Website      string `json:"website"`
	Address      string `json:"address"`
	City         string `json:"city"`
	State        string `json:"state"`
	Country      string `json:"country"`

	// student
	School       string `json:"school"`
	Grade        string `json:"grade"`
	Age          *int   `json:"age"`
	Interests    string `json:"interests"`
	Goals        string `json:"goals"`
	Background   string `json:"background"`
	FamilyIncome string `json:"familyIncome"`
	Location     string `json:"location"`

	// mentor
	Position        string `json:"position"`
	Expertise       string `json:"expertise"`
	ExperienceYears *int   `json:"experienceYears"`
	Bio             string `json:"bio"`
	LinkedinURL     string `json:"linkedinUrl"`
	GithubURL       string `json:"githubUrl"`
}

func (r Registration) validate() error {
	required := []struct{ name, value string }{
		{"email", r.Email},
		{"password", r.Password},
		{"firstName", r.FirstName},
		{"lastName", r.LastName},
		{"role", string(r.Role)},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return apperrors.Newf(apperrors.InvalidArgument, "%s is required", f.name)
		}
	}
	if !r.Role.Valid() {
		return apperrors.Newf(apperrors.InvalidArgument, "invalid role %q", r.Role)
	}
	return nil
}

type Session struct {
	User models.User `json:"user"`
	auth.TokenPair
}

// Register creates the user and its role profile. There is no transaction:
// when the profile insert fails the user is deleted again.
func (a *Accounts) Register(ctx context.Context, r Registration) (*Session, error) {
	if err := r.validate(); err != nil {
		return nil, err
	}
	email := models.NormalizeEmail(r.Email)
	if _, err := a.store.FindUserByEmail(ctx, email); err == nil {
		return nil, apperrors.New(apperrors.Conflict, "Email already registered")
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, storeErr(err, "")
	}

	hash, err := auth.HashPassword(r.Password)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.Internal, "could not hash password", err)
	}

	now := nowUTC(a.now)
	user := models.User{
		Email:        email,
		PasswordHash: hash,
		FirstName:    strings.TrimSpace(r.FirstName),
		LastName:     strings.TrimSpace(r.LastName),
		Phone:        r.Phone,
		Role:         r.Role,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := a.store.CreateUser(ctx, &user); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, apperrors.New(apperrors.Conflict, "Email already registered")
		}
		return nil, storeErr(err, "")
	}

	if err := a.createProfile(ctx, user, r, now); err != nil {
		if delErr := a.store.DeleteUser(ctx, user.ID); delErr != nil {
			logf("register: could not roll back user %s: %v", user.ID.Hex(), delErr)
		}
		return nil, apperrors.Wrap(apperrors.Internal, "could not create profile", err)
	}

	tokens, err := a.tokens.IssuePair(user.ID.Hex(), string(user.Role))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.Internal, "could not issue tokens", err)
	}

	subject, body := welcomeEmail(user)
	notify(a.mailer, user.Email, user.FullName(), subject, body)

	return &Session{User: user, TokenPair: tokens}, nil
}

func (a *Accounts) createProfile(ctx context.Context, u models.User, r Registration, now time.Time) error {
	switch u.Role {
	case models.RoleNGO:
		ngo := models.NGO{
			UserID:      u.ID,
			Name:        r.Organization,
			Description: r.Description,
			Website:     r.Website,
			Phone:       r.Phone,
			Address:     r.Address,
			City:        r.City,
			State:       r.State,
			Country:     orDefault(r.Country, defaultCountry),
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		// Registration numbers are 8 hex chars; retry the rare collision.
		var err error
		for attempt := 0; attempt < 3; attempt++ {
			ngo.ID = primitive.NilObjectID
			ngo.RegistrationNumber = strings.ToUpper(uuid.NewString()[:8])
			if err = a.store.CreateNGO(ctx, &ngo); !errors.Is(err, store.ErrDuplicate) {
				break
			}
		}
		return err
	case models.RoleStudent:
		return a.store.CreateStudent(ctx, &models.Student{
			UserID:       u.ID,
			School:       r.School,
			Grade:        r.Grade,
			Age:          r.Age,
			Interests:    r.Interests,
			Goals:        r.Goals,
			Background:   r.Background,
			FamilyIncome: orDefault(r.FamilyIncome, defaultFamilyIncome),
			Location:     r.Location,
			CreatedAt:    now,
			UpdatedAt:    now,
		})
	case models.RoleMentor:
		return a.store.CreateMentor(ctx, &models.Mentor{
			UserID:          u.ID,
			Company:         r.Organization,
			Position:        r.Position,
			Expertise:       r.Expertise,
			ExperienceYears: r.ExperienceYears,
			Bio:             r.Bio,
			LinkedinURL:     r.LinkedinURL,
			GithubURL:       r.GithubURL,
			IsAvailable:     true,
			MaxStudents:     models.DefaultMaxStudents,
			CreatedAt:       now,
			UpdatedAt:       now,
		})
	}
	return nil
}

// Authenticate checks credentials and returns a fresh token pair.
func (a *Accounts) Authenticate(ctx context.Context, email, password string) (*Session, error) {
	if email == "" || password == "" {
		return nil, apperrors.New(apperrors.InvalidArgument, "Email and password are required")
	}
	user, err := a.store.FindUserByEmail(ctx, models.NormalizeEmail(email))
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperrors.New(apperrors.Unauthenticated, "Invalid email or password")
	}
	if err != nil {
		return nil, storeErr(err, "")
	}
	if err := auth.CheckPassword(user.PasswordHash, password); err != nil {
		return nil, apperrors.New(apperrors.Unauthenticated, "Invalid email or password")
	}
	if !user.IsActive {
		return nil, apperrors.New(apperrors.Unauthenticated, "Account is deactivated")
	}

	tokens, err := a.tokens.IssuePair(user.ID.Hex(), string(user.Role))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.Internal, "could not issue tokens", err)
	}
	return &Session{User: *user, TokenPair: tokens}, nil
}

// Refresh issues a new access token for the subject of a refresh token.
func (a *Accounts) Refresh(ctx context.Context, userID string) (string, error) {
	id, err := ResolveIdentity(ctx, a.store, userID)
	if err != nil {
		return "", err
	}
	if !id.User.IsActive {
		return "", apperrors.New(apperrors.Unauthenticated, "Account is deactivated")
	}
	token, err := a.tokens.Issue(id.User.ID.Hex(), string(id.User.Role), auth.AccessToken)
	if err != nil {
		return "", apperrors.Wrap(apperrors.Internal, "could not issue token", err)
	}
	return token, nil
}

// ---------------- PROFILE ----------------

type StudentUpdate struct {
	School       string `json:"school"`
	Grade        string `json:"grade"`
	Age          *int   `json:"age"`
	Interests    string `json:"interests"`
	Goals        string `json:"goals"`
	Background   string `json:"background"`
	FamilyIncome string `json:"familyIncome"`
	Location     string `json:"location"`
}

type MentorUpdate struct {
	Company         string `json:"company"`
	Position        string `json:"position"`
	Expertise       string `json:"expertise"`
	ExperienceYears *int   `json:"experienceYears"`
	Bio             string `json:"bio"`
	LinkedinURL     string `json:"linkedinUrl"`
	GithubURL       string `json:"githubUrl"`
	IsAvailable     *bool  `json:"isAvailable"`
	MaxStudents     *int   `json:"maxStudents"`
}

type NGOUpdate struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Website     string `json:"website"`
	Phone       string `json:"phone"`
	Address     string `json:"address"`
	City        string `json:"city"`
	State       string `json:"state"`
	Country     string `json:"country"`
}

// ProfileUpdate only overwrites fields that are present and non-empty. The
// sub-profile matching the caller's role is applied; the others are ignored.
type ProfileUpdate struct {
	FirstName      string         `json:"firstName"`
	LastName       string         `json:"lastName"`
	Phone          string         `json:"phone"`
	StudentProfile *StudentUpdate `json:"studentProfile"`
	MentorProfile  *MentorUpdate  `json:"mentorProfile"`
	NGOProfile     *NGOUpdate     `json:"ngoProfile"`
}

func (a *Accounts) Profile(id *Identity) models.ProfileView {
	return models.NewProfileView(id.User, id.Profile)
}

func (a *Accounts) UpdateProfile(ctx context.Context, id *Identity, in ProfileUpdate) (*models.ProfileView, error) {
	now := nowUTC(a.now)
	user := id.User
	setIf(&user.FirstName, in.FirstName)
	setIf(&user.LastName, in.LastName)
	setIf(&user.Phone, in.Phone)
	user.UpdatedAt = now
	if err := a.store.UpdateUser(ctx, &user); err != nil {
		return nil, storeErr(err, "User not found")
	}

	profile := id.Profile
	switch {
	case user.Role == models.RoleStudent && in.StudentProfile != nil && profile.Student != nil:
		s := *profile.Student
		u := in.StudentProfile
		setIf(&s.School, u.School)
		setIf(&s.Grade, u.Grade)
		if u.Age != nil {
			s.Age = u.Age
		}
		setIf(&s.Interests, u.Interests)
		setIf(&s.Goals, u.Goals)
		setIf(&s.Background, u.Background)
		setIf(&s.FamilyIncome, u.FamilyIncome)
		setIf(&s.Location, u.Location)
		s.UpdatedAt = now
		if err := a.store.UpdateStudent(ctx, &s); err != nil {
			return nil, storeErr(err, "Student profile not found")
		}
		profile.Student = &s

	case user.Role == models.RoleMentor && in.MentorProfile != nil && profile.Mentor != nil:
		m := *profile.Mentor
		u := in.MentorProfile
		setIf(&m.Company, u.Company)
		setIf(&m.Position, u.Position)
		setIf(&m.Expertise, u.Expertise)
		if u.ExperienceYears != nil {
			m.ExperienceYears = u.ExperienceYears
		}
		setIf(&m.Bio, u.Bio)
		setIf(&m.LinkedinURL, u.LinkedinURL)
		setIf(&m.GithubURL, u.GithubURL)
		if u.IsAvailable != nil {
			m.IsAvailable = *u.IsAvailable
		}
		if u.MaxStudents != nil {
			if *u.MaxStudents < 1 || *u.MaxStudents < m.CurrentStudents {
				return nil, apperrors.Newf(apperrors.InvalidArgument,
					"maxStudents must be at least 1 and not below the %d current students", m.CurrentStudents)
			}
			m.MaxStudents = *u.MaxStudents
		}
		m.UpdatedAt = now
		if err := a.store.UpdateMentor(ctx, &m); err != nil {
			if errors.Is(err, store.ErrNoCapacity) {
				return nil, apperrors.New(apperrors.InvalidArgument,
					"maxStudents cannot be below the current number of students")
			}
			return nil, storeErr(err, "Mentor profile not found")
		}
		profile.Mentor = &m

	case user.Role == models.RoleNGO && in.NGOProfile != nil && profile.NGO != nil:
		n := *profile.NGO
		u := in.NGOProfile
		setIf(&n.Name, u.Name)
		setIf(&n.Description, u.Description)
		setIf(&n.Website, u.Website)
		setIf(&n.Phone, u.Phone)
		setIf(&n.Address, u.Address)
		setIf(&n.City, u.City)
		setIf(&n.State, u.State)
		setIf(&n.Country, u.Country)
		n.UpdatedAt = now
		if err := a.store.UpdateNGO(ctx, &n); err != nil {
			return nil, storeErr(err, "NGO profile not found")
		}
		profile.NGO = &n
	}

	view := models.NewProfileView(user, profile)
	return &view, nil
}

// Stats summarises the caller's activity according to role.
func (a *Accounts) Stats(ctx context.Context, id *Identity) (models.UserStats, error) {
	var stats models.UserStats
	switch {
	case id.Is(models.RoleDonor):
		count, total, err := a.store.SumDonations(ctx, store.DonationFilter{
			DonorID: &id.User.ID,
			Status:  models.DonationCompleted,
		})
		if err != nil {
			return stats, storeErr(err, "")
		}
		stats.TotalDonations, stats.TotalAmountDonated = count, total
	case id.Is(models.RoleNGO) && id.Profile.NGO != nil:
		count, err := a.store.CountCampaigns(ctx, store.CampaignFilter{NGOID: &id.Profile.NGO.ID})
		if err != nil {
			return stats, storeErr(err, "")
		}
		stats.CampaignsCreated = count
	case id.Is(models.RoleMentor) && id.Profile.Mentor != nil:
		count, err := a.store.CountMentorships(ctx, store.MentorshipFilter{MentorID: &id.Profile.Mentor.ID})
		if err != nil {
			return stats, storeErr(err, "")
		}
		stats.StudentsMentored = count
	}
	return stats, nil
}

func setIf(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
