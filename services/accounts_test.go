package services

import (
	"context"
	"errors"
	"testing"

	apperrors "github.com/phillip/edubridge-go/apperrors"
	models "github.com/phillip/edubridge-go/models"
	store "github.com/phillip/edubridge-go/store"
)

func registration(email string, role models.Role) Registration {
	return Registration{
		Email:     email,
		Password:  "pa55word",
		FirstName: "Asha",
		LastName:  "Rao",
		Role:      role,
	}
}

func TestRegisterCreatesRoleProfile(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		role  models.Role
		check func(t *testing.T, p models.Profile)
	}{
		{models.RoleStudent, func(t *testing.T, p models.Profile) {
			if p.Student == nil || p.Student.FamilyIncome != "medium" {
				t.Fatalf("student profile = %+v", p.Student)
			}
		}},
		{models.RoleMentor, func(t *testing.T, p models.Profile) {
			if p.Mentor == nil || !p.Mentor.IsAvailable || p.Mentor.MaxStudents != models.DefaultMaxStudents || p.Mentor.CurrentStudents != 0 {
				t.Fatalf("mentor profile = %+v", p.Mentor)
			}
		}},
		{models.RoleNGO, func(t *testing.T, p models.Profile) {
			if p.NGO == nil || p.NGO.Country != "India" || len(p.NGO.RegistrationNumber) != 8 {
				t.Fatalf("ngo profile = %+v", p.NGO)
			}
		}},
		{models.RoleDonor, func(t *testing.T, p models.Profile) {
			if p.Student != nil || p.Mentor != nil || p.NGO != nil {
				t.Fatalf("donor should have no profile: %+v", p)
			}
		}},
	}
	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			sess, err := f.accounts.Register(f.ctx, registration(string(tt.role)+"@Example.com ", tt.role))
			if err != nil {
				t.Fatalf("register: %v", err)
			}
			if sess.AccessToken == "" || sess.RefreshToken == "" {
				t.Fatal("expected a token pair")
			}
			if sess.User.Email != string(tt.role)+"@example.com" {
				t.Fatalf("email = %q, want normalized", sess.User.Email)
			}
			if !sess.User.IsActive || sess.User.PasswordHash == "pa55word" {
				t.Fatalf("user = %+v", sess.User)
			}
			tt.check(t, f.identity(t, sess.User).Profile)
		})
	}
}

func TestRegisterValidation(t *testing.T) {
	f := newFixture(t)
	if _, err := f.accounts.Register(f.ctx, registration("taken@example.com", models.RoleDonor)); err != nil {
		t.Fatal(err)
	}

	missing := registration("x@example.com", models.RoleDonor)
	missing.LastName = ""

	tests := []struct {
		name string
		in   Registration
		kind apperrors.Kind
	}{
		{"missing field", missing, apperrors.InvalidArgument},
		{"unknown role", registration("y@example.com", "pirate"), apperrors.InvalidArgument},
		{"duplicate email", registration("TAKEN@example.com", models.RoleStudent), apperrors.Conflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.accounts.Register(f.ctx, tt.in)
			wantKind(t, err, tt.kind)
		})
	}
}

type failingStudents struct {
	store.Store
}

func (failingStudents) CreateStudent(context.Context, *models.Student) error {
	return errors.New("disk full")
}

func TestRegisterRollsBackUserWhenProfileFails(t *testing.T) {
	f := newFixture(t)
	accounts := NewAccounts(failingStudents{f.st}, f.accounts.tokens, nil, nil)

	_, err := accounts.Register(f.ctx, registration("kid@example.com", models.RoleStudent))
	wantKind(t, err, apperrors.Internal)

	if _, err := f.st.FindUserByEmail(f.ctx, "kid@example.com"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("user should have been removed, got %v", err)
	}
}

func TestAuthenticate(t *testing.T) {
	f := newFixture(t)
	sess, err := f.accounts.Register(f.ctx, registration("donor@example.com", models.RoleDonor))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := f.accounts.Authenticate(f.ctx, "Donor@example.com", "pa55word"); err != nil {
		t.Fatalf("login: %v", err)
	}
	_, err = f.accounts.Authenticate(f.ctx, "donor@example.com", "nope")
	wantKind(t, err, apperrors.Unauthenticated)
	_, err = f.accounts.Authenticate(f.ctx, "ghost@example.com", "pa55word")
	wantKind(t, err, apperrors.Unauthenticated)
	_, err = f.accounts.Authenticate(f.ctx, "", "")
	wantKind(t, err, apperrors.InvalidArgument)

	u := sess.User
	u.IsActive = false
	if err := f.st.UpdateUser(f.ctx, &u); err != nil {
		t.Fatal(err)
	}
	_, err = f.accounts.Authenticate(f.ctx, "donor@example.com", "pa55word")
	wantKind(t, err, apperrors.Unauthenticated)
	_, err = f.accounts.Refresh(f.ctx, u.ID.Hex())
	wantKind(t, err, apperrors.Unauthenticated)
}

func TestUpdateProfile(t *testing.T) {
	f := newFixture(t)
	id := f.mentor(t, "mira", 3, 2)

	avail := false
	max := 4
	view, err := f.accounts.UpdateProfile(f.ctx, id, ProfileUpdate{
		Phone: "+91 98765 43210",
		MentorProfile: &MentorUpdate{
			Company:     "Acme",
			IsAvailable: &avail,
			MaxStudents: &max,
		},
		NGOProfile: &NGOUpdate{Name: "ignored"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if view.Phone != "+91 98765 43210" || view.FirstName != "mira" {
		t.Fatalf("user = %+v", view.User)
	}
	if view.MentorProfile == nil || view.MentorProfile.Company != "Acme" || view.MentorProfile.IsAvailable || view.MentorProfile.MaxStudents != 4 {
		t.Fatalf("mentor = %+v", view.MentorProfile)
	}
	if view.NGOProfile != nil {
		t.Fatal("ngo profile must be ignored for mentors")
	}
	if m := f.mentorRecord(t, id); m.CurrentStudents != 2 {
		t.Fatalf("current_students = %d, want untouched 2", m.CurrentStudents)
	}

	tooFew := 1
	_, err = f.accounts.UpdateProfile(f.ctx, id, ProfileUpdate{MentorProfile: &MentorUpdate{MaxStudents: &tooFew}})
	wantKind(t, err, apperrors.InvalidArgument)
}

func TestUpdateProfileMaxStudentsUsesStoredCount(t *testing.T) {
	f := newFixture(t)
	id := f.mentor(t, "mira", 2, 0)

	// Both slots are taken after the identity was resolved.
	for i := 0; i < 2; i++ {
		if err := f.st.ClaimMentorSlot(f.ctx, id.Profile.Mentor.ID, testNow); err != nil {
			t.Fatal(err)
		}
	}

	one := 1
	_, err := f.accounts.UpdateProfile(f.ctx, id, ProfileUpdate{MentorProfile: &MentorUpdate{MaxStudents: &one}})
	wantKind(t, err, apperrors.InvalidArgument)

	m := f.mentorRecord(t, id)
	if m.MaxStudents != 2 || m.CurrentStudents != 2 {
		t.Fatalf("mentor = %d/%d, want 2/2", m.CurrentStudents, m.MaxStudents)
	}
}

func TestStats(t *testing.T) {
	f := newFixture(t)
	c := f.campaign(t, 1000)
	donor := f.identity(t, f.user(t, models.RoleDonor, "dan"))
	for _, amount := range []float64{100, 250.5} {
		if _, err := f.ledger.Record(f.ctx, donor.User.ID, DonationRequest{CampaignID: c.ID.Hex(), Amount: amount}); err != nil {
			t.Fatal(err)
		}
	}

	stats, err := f.accounts.Stats(f.ctx, donor)
	if err != nil {
		t.Fatal(err)
	}
	if stats.TotalDonations != 2 || stats.TotalAmountDonated != 350.5 {
		t.Fatalf("donor stats = %+v", stats)
	}

	mentor := f.mentor(t, "mo", 2, 0)
	student := f.student(t, "sam")
	if _, err := f.flow.Request(f.ctx, student, MentorshipRequest{MentorID: mentor.Profile.Mentor.ID.Hex()}); err != nil {
		t.Fatal(err)
	}
	stats, err = f.accounts.Stats(f.ctx, mentor)
	if err != nil {
		t.Fatal(err)
	}
	if stats.StudentsMentored != 1 || stats.TotalDonations != 0 {
		t.Fatalf("mentor stats = %+v", stats)
	}
}
