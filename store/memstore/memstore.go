// Package memstore is an in-process store.Store. It is selected with
// STORE_DRIVER=memory for local runs and backs the test suites. Conditional
// updates follow the same rules as the MongoDB queries in mongostore.
package memstore

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	models "github.com/phillip/edubridge-go/models"
	store "github.com/phillip/edubridge-go/store"
)

type Store struct {
	mu sync.Mutex

	users           map[primitive.ObjectID]models.User
	students        map[primitive.ObjectID]models.Student
	ngos            map[primitive.ObjectID]models.NGO
	mentors         map[primitive.ObjectID]models.Mentor
	mentorships     map[primitive.ObjectID]models.Mentorship
	campaigns       map[primitive.ObjectID]models.Campaign
	campaignUpdates map[primitive.ObjectID]models.CampaignUpdate
	donations       map[primitive.ObjectID]models.Donation
}

var _ store.Store = (*Store)(nil)

func New() *Store {
	s := &Store{}
	s.reset()
	return s
}

func (s *Store) reset() {
	s.users = map[primitive.ObjectID]models.User{}
	s.students = map[primitive.ObjectID]models.Student{}
	s.ngos = map[primitive.ObjectID]models.NGO{}
	s.mentors = map[primitive.ObjectID]models.Mentor{}
	s.mentorships = map[primitive.ObjectID]models.Mentorship{}
	s.campaigns = map[primitive.ObjectID]models.Campaign{}
	s.campaignUpdates = map[primitive.ObjectID]models.CampaignUpdate{}
	s.donations = map[primitive.ObjectID]models.Donation{}
}

func (s *Store) Ping(ctx context.Context) error  { return ctx.Err() }
func (s *Store) Close(ctx context.Context) error { return nil }

func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset()
	return nil
}

func assignID(id *primitive.ObjectID) {
	if id.IsZero() {
		*id = primitive.NewObjectID()
	}
}

func find[T any](m map[primitive.ObjectID]T, id primitive.ObjectID) (*T, error) {
	v, ok := m[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &v, nil
}

func findMany[T any](m map[primitive.ObjectID]T, ids []primitive.ObjectID) map[primitive.ObjectID]T {
	out := make(map[primitive.ObjectID]T, len(ids))
	for _, id := range ids {
		if v, ok := m[id]; ok {
			out[id] = v
		}
	}
	return out
}

// newestFirst orders by created_at then _id, both descending.
func newestFirst[T any](items []T, key func(T) (time.Time, primitive.ObjectID)) {
	sort.Slice(items, func(i, j int) bool {
		ti, idi := key(items[i])
		tj, idj := key(items[j])
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return idi.Hex() > idj.Hex()
	})
}

func paginate[T any](items []T, page models.PageRequest) []T {
	if page.Size <= 0 {
		return items
	}
	skip := page.Skip()
	if skip < 0 || skip >= int64(len(items)) {
		return []T{}
	}
	start := int(skip)
	end := len(items)
	if page.Size < end-start {
		end = start + page.Size
	}
	return items[start:end]
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// ---------------- USERS ----------------
func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Email == u.Email {
			return store.ErrDuplicate
		}
	}
	assignID(&u.ID)
	s.users[u.ID] = *u
	return nil
}

func (s *Store) FindUser(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return find(s.users, id)
}

func (s *Store) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) FindUsers(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return findMany(s.users, ids), nil
}

func (s *Store) UpdateUser(ctx context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[u.ID]; !ok {
		return store.ErrNotFound
	}
	s.users[u.ID] = *u
	return nil
}

func (s *Store) DeleteUser(ctx context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.users, id)
	return nil
}

// ---------------- STUDENTS ----------------
func (s *Store) CreateStudent(ctx context.Context, st *models.Student) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	assignID(&st.ID)
	s.students[st.ID] = *st
	return nil
}

func (s *Store) FindStudent(ctx context.Context, id primitive.ObjectID) (*models.Student, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return find(s.students, id)
}

func (s *Store) FindStudentByUser(ctx context.Context, userID primitive.ObjectID) (*models.Student, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, st := range s.students {
		if st.UserID == userID {
			return &st, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) FindStudents(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Student, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return findMany(s.students, ids), nil
}

func (s *Store) UpdateStudent(ctx context.Context, st *models.Student) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.students[st.ID]; !ok {
		return store.ErrNotFound
	}
	s.students[st.ID] = *st
	return nil
}

// ---------------- NGOS ----------------
func (s *Store) CreateNGO(ctx context.Context, n *models.NGO) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.ngos {
		if existing.RegistrationNumber == n.RegistrationNumber {
			return store.ErrDuplicate
		}
	}
	assignID(&n.ID)
	s.ngos[n.ID] = *n
	return nil
}

func (s *Store) FindNGO(ctx context.Context, id primitive.ObjectID) (*models.NGO, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return find(s.ngos, id)
}

func (s *Store) FindNGOByUser(ctx context.Context, userID primitive.ObjectID) (*models.NGO, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, n := range s.ngos {
		if n.UserID == userID {
			return &n, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) FindNGOs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.NGO, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return findMany(s.ngos, ids), nil
}

func (s *Store) UpdateNGO(ctx context.Context, n *models.NGO) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.ngos[n.ID]; !ok {
		return store.ErrNotFound
	}
	s.ngos[n.ID] = *n
	return nil
}

// ---------------- MENTORS ----------------
func (s *Store) CreateMentor(ctx context.Context, m *models.Mentor) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	assignID(&m.ID)
	s.mentors[m.ID] = *m
	return nil
}

func (s *Store) FindMentor(ctx context.Context, id primitive.ObjectID) (*models.Mentor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return find(s.mentors, id)
}

func (s *Store) FindMentorByUser(ctx context.Context, userID primitive.ObjectID) (*models.Mentor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.mentors {
		if m.UserID == userID {
			return &m, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) FindMentors(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Mentor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return findMany(s.mentors, ids), nil
}

func (s *Store) ListMentors(ctx context.Context, f store.MentorFilter, page models.PageRequest) ([]models.Mentor, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.Mentor
	for _, m := range s.mentors {
		if f.AvailableOnly && !m.IsAvailable {
			continue
		}
		if f.Expertise != "" && !containsFold(m.Expertise, f.Expertise) {
			continue
		}
		out = append(out, m)
	}
	newestFirst(out, func(m models.Mentor) (time.Time, primitive.ObjectID) { return m.CreatedAt, m.ID })
	return paginate(out, page), int64(len(out)), nil
}

func (s *Store) UpdateMentor(ctx context.Context, m *models.Mentor) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.mentors[m.ID]
	if !ok {
		return store.ErrNotFound
	}
	if existing.CurrentStudents > m.MaxStudents {
		return store.ErrNoCapacity
	}
	updated := *m
	updated.CurrentStudents = existing.CurrentStudents
	s.mentors[m.ID] = updated
	m.CurrentStudents = existing.CurrentStudents
	return nil
}

func (s *Store) ClaimMentorSlot(ctx context.Context, id primitive.ObjectID, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.mentors[id]
	if !ok {
		return store.ErrNotFound
	}
	if !m.CanAcceptStudent() {
		return store.ErrNoCapacity
	}
	m.CurrentStudents++
	m.UpdatedAt = at
	s.mentors[id] = m
	return nil
}

func (s *Store) ReleaseMentorSlot(ctx context.Context, id primitive.ObjectID, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.mentors[id]
	if !ok {
		return store.ErrNotFound
	}
	if m.CurrentStudents > 0 {
		m.CurrentStudents--
		m.UpdatedAt = at
		s.mentors[id] = m
	}
	return nil
}

// ---------------- MENTORSHIPS ----------------
func (s *Store) CreateMentorship(ctx context.Context, m *models.Mentorship) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	assignID(&m.ID)
	s.mentorships[m.ID] = *m
	return nil
}

func (s *Store) FindMentorship(ctx context.Context, id primitive.ObjectID) (*models.Mentorship, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return find(s.mentorships, id)
}

func matchMentorship(m models.Mentorship, f store.MentorshipFilter) bool {
	if f.MentorID != nil && m.MentorID != *f.MentorID {
		return false
	}
	if f.StudentID != nil && m.StudentID != *f.StudentID {
		return false
	}
	if f.Status != "" && m.Status != f.Status {
		return false
	}
	return true
}

func (s *Store) ListMentorships(ctx context.Context, f store.MentorshipFilter) ([]models.Mentorship, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.Mentorship{}
	for _, m := range s.mentorships {
		if matchMentorship(m, f) {
			out = append(out, m)
		}
	}
	newestFirst(out, func(m models.Mentorship) (time.Time, primitive.ObjectID) { return m.CreatedAt, m.ID })
	return out, nil
}

func (s *Store) CountMentorships(ctx context.Context, f store.MentorshipFilter) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, m := range s.mentorships {
		if matchMentorship(m, f) {
			n++
		}
	}
	return n, nil
}

func (s *Store) TransitionMentorship(ctx context.Context, id primitive.ObjectID, t store.MentorshipTransition) (*models.Mentorship, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.mentorships[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	if m.Status != t.From {
		return nil, store.ErrStaleState
	}
	m.Status = t.To
	m.UpdatedAt = t.At
	if t.StartDate != nil {
		m.StartDate = t.StartDate
	}
	if t.EndDate != nil {
		m.EndDate = t.EndDate
	}
	s.mentorships[id] = m
	return &m, nil
}

// ---------------- CAMPAIGNS ----------------
func (s *Store) CreateCampaign(ctx context.Context, c *models.Campaign) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	assignID(&c.ID)
	s.campaigns[c.ID] = *c
	return nil
}

func (s *Store) FindCampaign(ctx context.Context, id primitive.ObjectID) (*models.Campaign, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return find(s.campaigns, id)
}

func (s *Store) FindCampaigns(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Campaign, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return findMany(s.campaigns, ids), nil
}

func matchCampaign(c models.Campaign, f store.CampaignFilter) bool {
	if f.Category != "" && c.Category != f.Category {
		return false
	}
	if f.Status != "" && c.Status != f.Status {
		return false
	}
	if f.NGOID != nil && c.NGOID != *f.NGOID {
		return false
	}
	if f.Search != "" && !containsFold(c.Title, f.Search) && !containsFold(c.Description, f.Search) {
		return false
	}
	return true
}

func (s *Store) ListCampaigns(ctx context.Context, f store.CampaignFilter, page models.PageRequest) ([]models.Campaign, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Campaign
	for _, c := range s.campaigns {
		if matchCampaign(c, f) {
			out = append(out, c)
		}
	}
	newestFirst(out, func(c models.Campaign) (time.Time, primitive.ObjectID) { return c.CreatedAt, c.ID })
	return paginate(out, page), int64(len(out)), nil
}

func (s *Store) CountCampaigns(ctx context.Context, f store.CampaignFilter) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, c := range s.campaigns {
		if matchCampaign(c, f) {
			n++
		}
	}
	return n, nil
}

func (s *Store) UpdateCampaign(ctx context.Context, c *models.Campaign) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.campaigns[c.ID]
	if !ok {
		return store.ErrNotFound
	}
	updated := *c
	updated.RaisedAmount = existing.RaisedAmount
	s.campaigns[c.ID] = updated
	c.RaisedAmount = existing.RaisedAmount
	return nil
}

func (s *Store) DeleteCampaign(ctx context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.campaigns[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.campaigns, id)
	return nil
}

func (s *Store) IncrementRaised(ctx context.Context, id primitive.ObjectID, amount float64, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.campaigns[id]
	if !ok {
		return store.ErrNotFound
	}
	c.RaisedAmount += amount
	c.UpdatedAt = at
	s.campaigns[id] = c
	return nil
}

func (s *Store) CampaignTotals(ctx context.Context) (models.CampaignStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var stats models.CampaignStats
	for _, c := range s.campaigns {
		stats.TotalCampaigns++
		if c.Status == models.CampaignActive {
			stats.ActiveCampaigns++
		}
		stats.TotalGoal += c.GoalAmount
		stats.TotalRaised += c.RaisedAmount
	}
	return stats, nil
}

func (s *Store) CreateCampaignUpdate(ctx context.Context, u *models.CampaignUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	assignID(&u.ID)
	s.campaignUpdates[u.ID] = *u
	return nil
}

func (s *Store) ListCampaignUpdates(ctx context.Context, campaignID primitive.ObjectID) ([]models.CampaignUpdate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.CampaignUpdate{}
	for _, u := range s.campaignUpdates {
		if u.CampaignID == campaignID {
			out = append(out, u)
		}
	}
	newestFirst(out, func(u models.CampaignUpdate) (time.Time, primitive.ObjectID) { return u.CreatedAt, u.ID })
	return out, nil
}

// ---------------- DONATIONS ----------------
func (s *Store) CreateDonation(ctx context.Context, d *models.Donation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.donations {
		if existing.TransactionID == d.TransactionID {
			return store.ErrDuplicate
		}
	}
	assignID(&d.ID)
	s.donations[d.ID] = *d
	return nil
}

func matchDonation(d models.Donation, f store.DonationFilter) bool {
	if f.CampaignID != nil && d.CampaignID != *f.CampaignID {
		return false
	}
	if f.DonorID != nil && d.DonorID != *f.DonorID {
		return false
	}
	if f.Status != "" && d.Status != f.Status {
		return false
	}
	if f.Since != nil && d.CreatedAt.Before(*f.Since) {
		return false
	}
	return true
}

func (s *Store) ListDonations(ctx context.Context, f store.DonationFilter, page models.PageRequest) ([]models.Donation, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Donation
	for _, d := range s.donations {
		if matchDonation(d, f) {
			out = append(out, d)
		}
	}
	newestFirst(out, func(d models.Donation) (time.Time, primitive.ObjectID) { return d.CreatedAt, d.ID })
	return paginate(out, page), int64(len(out)), nil
}

func (s *Store) SumDonations(ctx context.Context, f store.DonationFilter) (int64, float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var (
		count int64
		total float64
	)
	for _, d := range s.donations {
		if matchDonation(d, f) {
			count++
			total += d.Amount
		}
	}
	return count, total, nil
}
