package services

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	apperrors "github.com/phillip/edubridge-go/apperrors"
	models "github.com/phillip/edubridge-go/models"
	store "github.com/phillip/edubridge-go/store"
)

type Decision string

const (
	Accept Decision = "accept"
	Reject Decision = "reject"
)

// MentorshipFlow drives mentorships through
// pending -> {active, rejected} and active -> {completed, cancelled}, keeping
// each mentor's current_students equal to its active mentorships.
type MentorshipFlow struct {
	store store.Store
	now   func() time.Time
}

func NewMentorshipFlow(st store.Store, now func() time.Time) *MentorshipFlow {
	return &MentorshipFlow{store: st, now: now}
}

type MentorshipRequest struct {
	MentorID string `json:"mentorId"`
	Goals    string `json:"goals"`
}

// ---------------- REQUEST ----------------
func (f *MentorshipFlow) Request(ctx context.Context, id *Identity, in MentorshipRequest) (*models.Mentorship, error) {
	student, err := id.requireStudent()
	if err != nil {
		return nil, err
	}
	if in.MentorID == "" {
		return nil, apperrors.New(apperrors.InvalidArgument, "Mentor ID is required")
	}
	mentorID, err := primitive.ObjectIDFromHex(in.MentorID)
	if err != nil {
		return nil, apperrors.New(apperrors.NotFound, "Mentor not found")
	}
	mentor, err := f.store.FindMentor(ctx, mentorID)
	if err != nil {
		return nil, storeErr(err, "Mentor not found")
	}
	if !mentor.CanAcceptStudent() {
		return nil, apperrors.New(apperrors.Conflict, "Mentor is not available")
	}

	pending, err := f.store.CountMentorships(ctx, store.MentorshipFilter{
		MentorID:  &mentor.ID,
		StudentID: &student.ID,
		Status:    models.MentorshipPending,
	})
	if err != nil {
		return nil, storeErr(err, "")
	}
	if pending > 0 {
		return nil, apperrors.New(apperrors.Conflict, "Mentorship request already pending")
	}

	now := nowUTC(f.now)
	m := models.Mentorship{
		MentorID:  mentor.ID,
		StudentID: student.ID,
		Status:    models.MentorshipPending,
		Goals:     in.Goals,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := f.store.CreateMentorship(ctx, &m); err != nil {
		return nil, storeErr(err, "")
	}
	return &m, nil
}

// ---------------- RESPOND ----------------

// Respond accepts or rejects a pending request addressed to the caller.
// Accepting claims a mentor slot first and gives it back if the request was
// answered concurrently.
func (f *MentorshipFlow) Respond(ctx context.Context, id *Identity, mentorshipID string, decision Decision) (*models.Mentorship, error) {
	mentor, err := id.requireMentor()
	if err != nil {
		return nil, err
	}
	m, err := f.ownedMentorship(ctx, mentorshipID, func(m *models.Mentorship) bool {
		return m.MentorID == mentor.ID
	})
	if err != nil {
		return nil, err
	}
	if decision != Accept && decision != Reject {
		return nil, apperrors.New(apperrors.InvalidArgument, "response must be accept or reject")
	}
	if m.Status != models.MentorshipPending {
		return nil, apperrors.Newf(apperrors.Conflict, "Mentorship is already %s", m.Status)
	}

	now := nowUTC(f.now)
	if decision == Reject {
		return f.transition(ctx, m.ID, store.MentorshipTransition{
			From: models.MentorshipPending,
			To:   models.MentorshipRejected,
			At:   now,
		})
	}

	if err := f.store.ClaimMentorSlot(ctx, mentor.ID, now); err != nil {
		if errors.Is(err, store.ErrNoCapacity) {
			return nil, apperrors.New(apperrors.Conflict, "Cannot accept more students")
		}
		return nil, storeErr(err, "Mentor profile not found")
	}
	updated, err := f.transition(ctx, m.ID, store.MentorshipTransition{
		From:      models.MentorshipPending,
		To:        models.MentorshipActive,
		StartDate: &now,
		At:        now,
	})
	if err != nil {
		if relErr := f.store.ReleaseMentorSlot(ctx, mentor.ID, now); relErr != nil {
			logf("accept %s failed and slot of mentor %s was not released: %v",
				m.ID.Hex(), mentor.ID.Hex(), relErr)
		}
		return nil, err
	}
	return updated, nil
}

// ---------------- COMPLETE / CANCEL ----------------

// Complete ends an active mentorship. Only its mentor may complete it.
func (f *MentorshipFlow) Complete(ctx context.Context, id *Identity, mentorshipID string) (*models.Mentorship, error) {
	mentor, err := id.requireMentor()
	if err != nil {
		return nil, err
	}
	m, err := f.ownedMentorship(ctx, mentorshipID, func(m *models.Mentorship) bool {
		return m.MentorID == mentor.ID
	})
	if err != nil {
		return nil, err
	}
	return f.finish(ctx, m, models.MentorshipCompleted)
}

// Cancel ends an active mentorship on behalf of its mentor or its student.
func (f *MentorshipFlow) Cancel(ctx context.Context, id *Identity, mentorshipID string) (*models.Mentorship, error) {
	var owns func(*models.Mentorship) bool
	switch {
	case id.Is(models.RoleMentor):
		mentor, err := id.requireMentor()
		if err != nil {
			return nil, err
		}
		owns = func(m *models.Mentorship) bool { return m.MentorID == mentor.ID }
	case id.Is(models.RoleStudent):
		student, err := id.requireStudent()
		if err != nil {
			return nil, err
		}
		owns = func(m *models.Mentorship) bool { return m.StudentID == student.ID }
	default:
		return nil, apperrors.New(apperrors.Forbidden, "Only the mentor or the student can cancel")
	}

	m, err := f.ownedMentorship(ctx, mentorshipID, owns)
	if err != nil {
		return nil, err
	}
	return f.finish(ctx, m, models.MentorshipCancelled)
}

func (f *MentorshipFlow) finish(ctx context.Context, m *models.Mentorship, to models.MentorshipStatus) (*models.Mentorship, error) {
	if !m.Status.CanTransition(to) {
		return nil, apperrors.Newf(apperrors.Conflict, "cannot move a %s mentorship to %s", m.Status, to)
	}
	now := nowUTC(f.now)
	updated, err := f.transition(ctx, m.ID, store.MentorshipTransition{
		From:    m.Status,
		To:      to,
		EndDate: &now,
		At:      now,
	})
	if err != nil {
		return nil, err
	}
	if err := f.store.ReleaseMentorSlot(ctx, m.MentorID, now); err != nil {
		logf("mentorship %s is %s but slot of mentor %s was not released: %v",
			m.ID.Hex(), to, m.MentorID.Hex(), err)
		return nil, apperrors.Wrap(apperrors.Internal, "could not release mentor slot", err)
	}
	return updated, nil
}

func (f *MentorshipFlow) ownedMentorship(ctx context.Context, rawID string, owns func(*models.Mentorship) bool) (*models.Mentorship, error) {
	oid, err := primitive.ObjectIDFromHex(rawID)
	if err != nil {
		return nil, apperrors.New(apperrors.NotFound, "Mentorship not found")
	}
	m, err := f.store.FindMentorship(ctx, oid)
	if err != nil {
		return nil, storeErr(err, "Mentorship not found")
	}
	if !owns(m) {
		return nil, apperrors.New(apperrors.Forbidden, "Unauthorized")
	}
	return m, nil
}

func (f *MentorshipFlow) transition(ctx context.Context, id primitive.ObjectID, t store.MentorshipTransition) (*models.Mentorship, error) {
	m, err := f.store.TransitionMentorship(ctx, id, t)
	if errors.Is(err, store.ErrStaleState) {
		return nil, apperrors.New(apperrors.Conflict, "Mentorship was updated concurrently")
	}
	if err != nil {
		return nil, storeErr(err, "Mentorship not found")
	}
	return m, nil
}

// ---------------- LISTS ----------------

// RequestsForMentor lists every mentorship addressed to the caller, newest
// first, with the requesting students resolved.
func (f *MentorshipFlow) RequestsForMentor(ctx context.Context, id *Identity) ([]models.MentorshipView, error) {
	mentor, err := id.requireMentor()
	if err != nil {
		return nil, err
	}
	items, err := f.store.ListMentorships(ctx, store.MentorshipFilter{MentorID: &mentor.ID})
	if err != nil {
		return nil, storeErr(err, "")
	}
	return f.views(ctx, items, true, false)
}

// MentorshipsForStudent lists the caller's mentorships with mentors resolved.
func (f *MentorshipFlow) MentorshipsForStudent(ctx context.Context, id *Identity) ([]models.MentorshipView, error) {
	student, err := id.requireStudent()
	if err != nil {
		return nil, err
	}
	items, err := f.store.ListMentorships(ctx, store.MentorshipFilter{StudentID: &student.ID})
	if err != nil {
		return nil, storeErr(err, "")
	}
	return f.views(ctx, items, false, true)
}

func (f *MentorshipFlow) views(ctx context.Context, items []models.Mentorship, withStudent, withMentor bool) ([]models.MentorshipView, error) {
	views := make([]models.MentorshipView, 0, len(items))
	var (
		students = map[primitive.ObjectID]models.Student{}
		mentors  = map[primitive.ObjectID]models.Mentor{}
		users    = map[primitive.ObjectID]models.User{}
		err      error
	)

	var userIDs []primitive.ObjectID
	if withStudent {
		ids := make([]primitive.ObjectID, 0, len(items))
		for _, m := range items {
			ids = append(ids, m.StudentID)
		}
		if students, err = f.store.FindStudents(ctx, ids); err != nil {
			return nil, storeErr(err, "")
		}
		for _, s := range students {
			userIDs = append(userIDs, s.UserID)
		}
	}
	if withMentor {
		ids := make([]primitive.ObjectID, 0, len(items))
		for _, m := range items {
			ids = append(ids, m.MentorID)
		}
		if mentors, err = f.store.FindMentors(ctx, ids); err != nil {
			return nil, storeErr(err, "")
		}
		for _, m := range mentors {
			userIDs = append(userIDs, m.UserID)
		}
	}
	if len(userIDs) > 0 {
		if users, err = f.store.FindUsers(ctx, userIDs); err != nil {
			return nil, storeErr(err, "")
		}
	}

	for _, m := range items {
		view := models.MentorshipView{Mentorship: m}
		if s, ok := students[m.StudentID]; ok {
			view.Student = &models.StudentView{Student: s, User: userRef(users, s.UserID)}
		}
		if mt, ok := mentors[m.MentorID]; ok {
			view.Mentor = &models.MentorView{Mentor: mt, User: userRef(users, mt.UserID)}
		}
		views = append(views, view)
	}
	return views, nil
}

// ---------------- DIRECTORY ----------------

type MentorQuery struct {
	Expertise     string
	AvailableOnly bool
}

func (f *MentorshipFlow) ListMentors(ctx context.Context, q MentorQuery, page models.PageRequest) (*models.Page[models.MentorView], error) {
	mentors, total, err := f.store.ListMentors(ctx, store.MentorFilter{
		Expertise:     q.Expertise,
		AvailableOnly: q.AvailableOnly,
	}, page)
	if err != nil {
		return nil, storeErr(err, "")
	}
	views, err := f.mentorViews(ctx, mentors)
	if err != nil {
		return nil, err
	}
	p := models.NewPage(views, total, page)
	return &p, nil
}

func (f *MentorshipFlow) GetMentor(ctx context.Context, rawID string) (*models.MentorView, error) {
	oid, err := primitive.ObjectIDFromHex(rawID)
	if err != nil {
		return nil, apperrors.New(apperrors.NotFound, "Mentor not found")
	}
	mentor, err := f.store.FindMentor(ctx, oid)
	if err != nil {
		return nil, storeErr(err, "Mentor not found")
	}
	views, err := f.mentorViews(ctx, []models.Mentor{*mentor})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// ExpertiseAreas is the union of expertise tags over available mentors.
func (f *MentorshipFlow) ExpertiseAreas(ctx context.Context) ([]string, error) {
	mentors, _, err := f.store.ListMentors(ctx, store.MentorFilter{AvailableOnly: true}, models.PageRequest{})
	if err != nil {
		return nil, storeErr(err, "")
	}
	return models.ExpertiseAreas(mentors), nil
}

func (f *MentorshipFlow) mentorViews(ctx context.Context, mentors []models.Mentor) ([]models.MentorView, error) {
	ids := make([]primitive.ObjectID, 0, len(mentors))
	for _, m := range mentors {
		ids = append(ids, m.UserID)
	}
	users, err := f.store.FindUsers(ctx, ids)
	if err != nil {
		return nil, storeErr(err, "")
	}
	views := make([]models.MentorView, 0, len(mentors))
	for _, m := range mentors {
		views = append(views, models.MentorView{Mentor: m, User: userRef(users, m.UserID)})
	}
	return views, nil
}

func userRef(users map[primitive.ObjectID]models.User, id primitive.ObjectID) *models.User {
	if u, ok := users[id]; ok {
		return &u
	}
	return nil
}
