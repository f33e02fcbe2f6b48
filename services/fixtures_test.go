package services

import (
	"context"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	apperrors "github.com/phillip/edubridge-go/apperrors"
	auth "github.com/phillip/edubridge-go/auth"
	models "github.com/phillip/edubridge-go/models"
	"github.com/phillip/edubridge-go/store/memstore"
	utils "github.com/phillip/edubridge-go/utils"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	ctx      context.Context
	st       *memstore.Store
	accounts *Accounts
	ledger   *DonationLedger
	flow     *MentorshipFlow
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	clock := func() time.Time { return testNow }
	tokens, err := auth.NewTokenIssuer("test-secret", time.Hour, 24*time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	st := memstore.New()
	return &fixture{
		ctx:      context.Background(),
		st:       st,
		accounts: NewAccounts(st, tokens, utils.NopMailer{}, clock),
		ledger:   NewDonationLedger(st, utils.NopMailer{}, clock),
		flow:     NewMentorshipFlow(st, clock),
	}
}

func (f *fixture) user(t *testing.T, role models.Role, first string) models.User {
	t.Helper()
	u := models.User{
		Email:     first + "@example.com",
		FirstName: first,
		LastName:  "Test",
		Role:      role,
		IsActive:  true,
		CreatedAt: testNow,
		UpdatedAt: testNow,
	}
	if err := f.st.CreateUser(f.ctx, &u); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func (f *fixture) identity(t *testing.T, u models.User) *Identity {
	t.Helper()
	id, err := ResolveIdentity(f.ctx, f.st, u.ID.Hex())
	if err != nil {
		t.Fatalf("resolve identity: %v", err)
	}
	return id
}

func (f *fixture) student(t *testing.T, name string) *Identity {
	t.Helper()
	u := f.user(t, models.RoleStudent, name)
	s := models.Student{UserID: u.ID, FamilyIncome: "medium", CreatedAt: testNow, UpdatedAt: testNow}
	if err := f.st.CreateStudent(f.ctx, &s); err != nil {
		t.Fatal(err)
	}
	return f.identity(t, u)
}

func (f *fixture) mentor(t *testing.T, name string, max, current int) *Identity {
	t.Helper()
	u := f.user(t, models.RoleMentor, name)
	m := models.Mentor{
		UserID:          u.ID,
		Expertise:       "Go, Databases",
		IsAvailable:     true,
		MaxStudents:     max,
		CurrentStudents: current,
		CreatedAt:       testNow,
		UpdatedAt:       testNow,
	}
	if err := f.st.CreateMentor(f.ctx, &m); err != nil {
		t.Fatal(err)
	}
	return f.identity(t, u)
}

func (f *fixture) campaign(t *testing.T, goal float64) models.Campaign {
	t.Helper()
	u := f.user(t, models.RoleNGO, "ngo-"+primitive.NewObjectID().Hex())
	n := models.NGO{UserID: u.ID, Name: "Bright Futures", RegistrationNumber: u.ID.Hex()[16:]}
	if err := f.st.CreateNGO(f.ctx, &n); err != nil {
		t.Fatal(err)
	}
	end := testNow.Add(models.DefaultCampaignDuration)
	c := models.Campaign{
		NGOID:      n.ID,
		Title:      "Books for Rural Schools",
		Category:   "education",
		GoalAmount: goal,
		Status:     models.CampaignActive,
		StartDate:  testNow,
		EndDate:    &end,
		CreatedAt:  testNow,
		UpdatedAt:  testNow,
	}
	if err := f.st.CreateCampaign(f.ctx, &c); err != nil {
		t.Fatal(err)
	}
	return c
}

func (f *fixture) mentorRecord(t *testing.T, id *Identity) models.Mentor {
	t.Helper()
	m, err := f.st.FindMentor(f.ctx, id.Profile.Mentor.ID)
	if err != nil {
		t.Fatal(err)
	}
	return *m
}

func wantKind(t *testing.T, err error, kind apperrors.Kind) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", kind)
	}
	if got := apperrors.KindOf(err); got != kind {
		t.Fatalf("kind = %s, want %s (err: %v)", got, kind, err)
	}
}
