package services

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	apperrors "github.com/phillip/edubridge-go/apperrors"
	models "github.com/phillip/edubridge-go/models"
	store "github.com/phillip/edubridge-go/store"
)

// Identity is the authenticated caller: the user and its role profile.
type Identity struct {
	User    models.User
	Profile models.Profile
}

func (i *Identity) Is(role models.Role) bool {
	return i != nil && i.User.Role == role
}

// ResolveIdentity loads the user behind a token subject and, for roles that
// have one, its profile document. A missing profile is not an error here;
// each workflow decides whether it needs one.
func ResolveIdentity(ctx context.Context, st store.Store, userID string) (*Identity, error) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, apperrors.New(apperrors.Unauthenticated, "invalid user id")
	}
	user, err := st.FindUser(ctx, oid)
	if err != nil {
		return nil, storeErr(err, "User not found")
	}

	id := &Identity{User: *user, Profile: models.Profile{Role: user.Role}}
	switch user.Role {
	case models.RoleStudent:
		id.Profile.Student, err = st.FindStudentByUser(ctx, oid)
	case models.RoleMentor:
		id.Profile.Mentor, err = st.FindMentorByUser(ctx, oid)
	case models.RoleNGO:
		id.Profile.NGO, err = st.FindNGOByUser(ctx, oid)
	}
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, storeErr(err, "")
	}
	return id, nil
}

func (i *Identity) requireStudent() (*models.Student, error) {
	if !i.Is(models.RoleStudent) {
		return nil, apperrors.New(apperrors.Forbidden, "Only students can do this")
	}
	if i.Profile.Student == nil {
		return nil, apperrors.New(apperrors.NotFound, "Student profile not found")
	}
	return i.Profile.Student, nil
}

func (i *Identity) requireMentor() (*models.Mentor, error) {
	if !i.Is(models.RoleMentor) {
		return nil, apperrors.New(apperrors.Forbidden, "Only mentors can do this")
	}
	if i.Profile.Mentor == nil {
		return nil, apperrors.New(apperrors.NotFound, "Mentor profile not found")
	}
	return i.Profile.Mentor, nil
}

// RequireNGO returns the caller's NGO profile.
func (i *Identity) RequireNGO() (*models.NGO, error) {
	if !i.Is(models.RoleNGO) {
		return nil, apperrors.New(apperrors.Forbidden, "Only NGOs can manage campaigns")
	}
	if i.Profile.NGO == nil {
		return nil, apperrors.New(apperrors.NotFound, "NGO profile not found")
	}
	return i.Profile.NGO, nil
}
