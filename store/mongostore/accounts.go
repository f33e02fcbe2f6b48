package mongostore

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	models "github.com/phillip/edubridge-go/models"
	store "github.com/phillip/edubridge-go/store"
)

// ---------------- USERS ----------------
func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	return insert(ctx, s.col(colUsers), &u.ID, u)
}

func (s *Store) FindUser(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return findOne[models.User](ctx, s.col(colUsers), bson.M{"_id": id})
}

func (s *Store) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return findOne[models.User](ctx, s.col(colUsers), bson.M{"email": email})
}

func (s *Store) FindUsers(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.User, error) {
	return findByIDs(ctx, s.col(colUsers), ids, func(u models.User) primitive.ObjectID { return u.ID })
}

func (s *Store) UpdateUser(ctx context.Context, u *models.User) error {
	return updateByID(ctx, s.col(colUsers), u.ID, bson.M{"$set": bson.M{
		"first_name":  u.FirstName,
		"last_name":   u.LastName,
		"phone":       u.Phone,
		"is_active":   u.IsActive,
		"is_verified": u.IsVerified,
		"updated_at":  u.UpdatedAt,
	}})
}

func (s *Store) DeleteUser(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.col(colUsers).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

// ---------------- STUDENTS ----------------
func (s *Store) CreateStudent(ctx context.Context, st *models.Student) error {
	return insert(ctx, s.col(colStudents), &st.ID, st)
}

func (s *Store) FindStudent(ctx context.Context, id primitive.ObjectID) (*models.Student, error) {
	return findOne[models.Student](ctx, s.col(colStudents), bson.M{"_id": id})
}

func (s *Store) FindStudentByUser(ctx context.Context, userID primitive.ObjectID) (*models.Student, error) {
	return findOne[models.Student](ctx, s.col(colStudents), bson.M{"user_id": userID})
}

func (s *Store) FindStudents(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Student, error) {
	return findByIDs(ctx, s.col(colStudents), ids, func(st models.Student) primitive.ObjectID { return st.ID })
}

func (s *Store) UpdateStudent(ctx context.Context, st *models.Student) error {
	return updateByID(ctx, s.col(colStudents), st.ID, bson.M{"$set": bson.M{
		"school":        st.School,
		"grade":         st.Grade,
		"age":           st.Age,
		"interests":     st.Interests,
		"goals":         st.Goals,
		"background":    st.Background,
		"family_income": st.FamilyIncome,
		"location":      st.Location,
		"is_verified":   st.IsVerified,
		"updated_at":    st.UpdatedAt,
	}})
}

// ---------------- NGOS ----------------
func (s *Store) CreateNGO(ctx context.Context, n *models.NGO) error {
	return insert(ctx, s.col(colNGOs), &n.ID, n)
}

func (s *Store) FindNGO(ctx context.Context, id primitive.ObjectID) (*models.NGO, error) {
	return findOne[models.NGO](ctx, s.col(colNGOs), bson.M{"_id": id})
}

func (s *Store) FindNGOByUser(ctx context.Context, userID primitive.ObjectID) (*models.NGO, error) {
	return findOne[models.NGO](ctx, s.col(colNGOs), bson.M{"user_id": userID})
}

func (s *Store) FindNGOs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.NGO, error) {
	return findByIDs(ctx, s.col(colNGOs), ids, func(n models.NGO) primitive.ObjectID { return n.ID })
}

func (s *Store) UpdateNGO(ctx context.Context, n *models.NGO) error {
	return updateByID(ctx, s.col(colNGOs), n.ID, bson.M{"$set": bson.M{
		"name":        n.Name,
		"description": n.Description,
		"website":     n.Website,
		"phone":       n.Phone,
		"address":     n.Address,
		"city":        n.City,
		"state":       n.State,
		"country":     n.Country,
		"logo_url":    n.LogoURL,
		"is_verified": n.IsVerified,
		"updated_at":  n.UpdatedAt,
	}})
}
