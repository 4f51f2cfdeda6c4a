package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/Kwanddwo/conflow-service/internal/models"
	"github.com/Kwanddwo/conflow-service/internal/repositories"
)

// mockRepository is an in-memory Repository implementation shared by the
// service tests. It honors the same contracts as the PostgreSQL layer:
// not-found lookups return repositories.ErrNotFound, Grant is idempotent,
// and assignment getters hydrate the role, submission and artifact fields.
type mockRepository struct {
	mu sync.Mutex

	users               map[string]*models.User
	conferences         map[string]*models.Conference
	roles               map[string]*models.ConferenceRoleEntry
	submissions         map[string]*models.Submission
	reviewAssignments   map[string]*models.ReviewAssignment
	reviews             map[string]*models.Review
	decisionAssignments map[string]*models.DecisionAssignment
	decisions           map[string]*models.Decision
	notifications       map[string]*models.Notification
	invitations         map[string]*models.Invitation

	nextID int

	// inTx is set while WithTransaction runs its callback; write paths that
	// must be transactional record it so tests can assert the routing.
	inTx              bool
	authorReplaceInTx bool
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		users:               make(map[string]*models.User),
		conferences:         make(map[string]*models.Conference),
		roles:               make(map[string]*models.ConferenceRoleEntry),
		submissions:         make(map[string]*models.Submission),
		reviewAssignments:   make(map[string]*models.ReviewAssignment),
		reviews:             make(map[string]*models.Review),
		decisionAssignments: make(map[string]*models.DecisionAssignment),
		decisions:           make(map[string]*models.Decision),
		notifications:       make(map[string]*models.Notification),
		invitations:         make(map[string]*models.Invitation),
	}
}

func (m *mockRepository) genID(prefix string) string {
	m.nextID++
	return fmt.Sprintf("%s-%d", prefix, m.nextID)
}

// ===== fixtures =====

func (m *mockRepository) addUser(id string, role models.UserRole, verified bool) *models.User {
	user := &models.User{
		ID:         id,
		FullName:   "User " + id,
		Email:      id + "@example.org",
		Role:       role,
		IsVerified: verified,
	}
	m.users[id] = user
	return user
}

func (m *mockRepository) addConference(id string, status models.ConferenceStatus) *models.Conference {
	conference := &models.Conference{
		ID:                  id,
		Title:               "Conference " + id,
		Acronym:             "CONF",
		Status:              status,
		IsPublic:            true,
		SubmissionDeadline:  time.Now().Add(30 * 24 * time.Hour),
		CameraReadyDeadline: time.Now().Add(60 * 24 * time.Hour),
		StartDate:           time.Now().Add(90 * 24 * time.Hour),
		EndDate:             time.Now().Add(93 * 24 * time.Hour),
	}
	m.conferences[id] = conference
	return conference
}

func (m *mockRepository) addRole(userID, conferenceID string, role models.ConferenceRole) *models.ConferenceRoleEntry {
	entry := &models.ConferenceRoleEntry{
		ID:           m.genID("role"),
		UserID:       userID,
		ConferenceID: conferenceID,
		Role:         role,
	}
	m.roles[entry.ID] = entry
	return entry
}

func (m *mockRepository) addSubmission(id, conferenceID, submitterID string, status models.SubmissionStatus) *models.Submission {
	submission := &models.Submission{
		ID:            id,
		Title:         "Submission " + id,
		Abstract:      "An abstract.",
		Status:        status,
		SubmittedByID: submitterID,
		ConferenceID:  conferenceID,
	}
	m.submissions[id] = submission
	return submission
}

// ===== Repository =====

func (m *mockRepository) Conference() repositories.ConferenceRepository   { return &mockConferenceRepo{m} }
func (m *mockRepository) Role() repositories.RoleRepository               { return &mockRoleRepo{m} }
func (m *mockRepository) Submission() repositories.SubmissionRepository   { return &mockSubmissionRepo{m} }
func (m *mockRepository) Review() repositories.ReviewRepository           { return &mockReviewRepo{m} }
func (m *mockRepository) Decision() repositories.DecisionRepository       { return &mockDecisionRepo{m} }
func (m *mockRepository) Notification() repositories.NotificationRepository {
	return &mockNotificationRepo{m}
}
func (m *mockRepository) Invitation() repositories.InvitationRepository { return &mockInvitationRepo{m} }
func (m *mockRepository) User() repositories.UserRepository             { return &mockUserRepo{m} }

func (m *mockRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	m.mu.Lock()
	m.inTx = true
	m.mu.Unlock()
	defer func() {
		m.mu.Lock()
		m.inTx = false
		m.mu.Unlock()
	}()
	return fn(m)
}

func (m *mockRepository) Ping(ctx context.Context) error { return nil }
func (m *mockRepository) Close() error                   { return nil }

// ===== ConferenceRepository =====

type mockConferenceRepo struct{ m *mockRepository }

func (r *mockConferenceRepo) Create(ctx context.Context, tx *gorm.DB, conference *models.Conference) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if conference.ID == "" {
		conference.ID = r.m.genID("conf")
	}
	r.m.conferences[conference.ID] = conference
	return nil
}

func (r *mockConferenceRepo) GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.Conference, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if conference, ok := r.m.conferences[id]; ok {
		return conference, nil
	}
	return nil, repositories.ErrNotFound
}

func (r *mockConferenceRepo) GetByIDWithDetails(ctx context.Context, tx *gorm.DB, id string) (*models.Conference, error) {
	return r.GetByID(ctx, tx, id)
}

func (r *mockConferenceRepo) Update(ctx context.Context, tx *gorm.DB, conference *models.Conference) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.conferences[conference.ID]; !ok {
		return repositories.ErrNotFound
	}
	r.m.conferences[conference.ID] = conference
	return nil
}

func (r *mockConferenceRepo) UpdateStatus(ctx context.Context, tx *gorm.DB, id string, status models.ConferenceStatus) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	conference, ok := r.m.conferences[id]
	if !ok {
		return repositories.ErrNotFound
	}
	conference.Status = status
	return nil
}

func (r *mockConferenceRepo) List(ctx context.Context, tx *gorm.DB, filters repositories.ConferenceFilters) ([]*models.Conference, int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []*models.Conference
	for _, c := range r.m.conferences {
		if filters.Status != nil && c.Status != *filters.Status {
			continue
		}
		if filters.IsPublic != nil && c.IsPublic != *filters.IsPublic {
			continue
		}
		out = append(out, c)
	}
	return out, int64(len(out)), nil
}

func (r *mockConferenceRepo) GetByCreator(ctx context.Context, tx *gorm.DB, creatorID string, filters repositories.ConferenceFilters) ([]*models.Conference, int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []*models.Conference
	for _, c := range r.m.conferences {
		if c.CreatedByID == creatorID {
			out = append(out, c)
		}
	}
	return out, int64(len(out)), nil
}

func (r *mockConferenceRepo) GetByParticipant(ctx context.Context, tx *gorm.DB, userID string, filters repositories.ConferenceFilters) ([]*models.Conference, int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	seen := make(map[string]bool)
	var out []*models.Conference
	for _, entry := range r.m.roles {
		if entry.UserID != userID || seen[entry.ConferenceID] {
			continue
		}
		if c, ok := r.m.conferences[entry.ConferenceID]; ok {
			seen[c.ID] = true
			out = append(out, c)
		}
	}
	return out, int64(len(out)), nil
}

func (r *mockConferenceRepo) GetStats(ctx context.Context, tx *gorm.DB, id string) (*repositories.ConferenceStats, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.conferences[id]; !ok {
		return nil, repositories.ErrNotFound
	}
	stats := &repositories.ConferenceStats{StatusBreakdown: make(map[models.SubmissionStatus]int)}
	for _, s := range r.m.submissions {
		if s.ConferenceID == id {
			stats.SubmissionCount++
			stats.StatusBreakdown[s.Status]++
		}
	}
	return stats, nil
}

// ===== RoleRepository =====

type mockRoleRepo struct{ m *mockRepository }

func (r *mockRoleRepo) Grant(ctx context.Context, tx *gorm.DB, entry *models.ConferenceRoleEntry) (bool, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, e := range r.m.roles {
		if e.UserID == entry.UserID && e.ConferenceID == entry.ConferenceID && e.Role == entry.Role {
			return false, nil
		}
	}
	if entry.ID == "" {
		entry.ID = r.m.genID("role")
	}
	r.m.roles[entry.ID] = entry
	return true, nil
}

func (r *mockRoleRepo) Revoke(ctx context.Context, tx *gorm.DB, entryID string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.roles[entryID]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.m.roles, entryID)
	return nil
}

func (r *mockRoleRepo) GetByID(ctx context.Context, tx *gorm.DB, entryID string) (*models.ConferenceRoleEntry, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if entry, ok := r.m.roles[entryID]; ok {
		return entry, nil
	}
	return nil, repositories.ErrNotFound
}

func (r *mockRoleRepo) GetByUserAndConference(ctx context.Context, tx *gorm.DB, userID, conferenceID string) ([]*models.ConferenceRoleEntry, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []*models.ConferenceRoleEntry
	for _, entry := range r.m.roles {
		if entry.UserID == userID && entry.ConferenceID == conferenceID {
			out = append(out, entry)
		}
	}
	return out, nil
}

func (r *mockRoleRepo) GetEntry(ctx context.Context, tx *gorm.DB, userID, conferenceID string, role models.ConferenceRole) (*models.ConferenceRoleEntry, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, entry := range r.m.roles {
		if entry.UserID == userID && entry.ConferenceID == conferenceID && entry.Role == role {
			return entry, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *mockRoleRepo) HasRole(ctx context.Context, tx *gorm.DB, userID, conferenceID string, role models.ConferenceRole) (bool, error) {
	_, err := r.GetEntry(ctx, tx, userID, conferenceID, role)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (r *mockRoleRepo) HasAnyRole(ctx context.Context, tx *gorm.DB, userID, conferenceID string) (bool, error) {
	entries, err := r.GetByUserAndConference(ctx, tx, userID, conferenceID)
	if err != nil {
		return false, err
	}
	return len(entries) > 0, nil
}

func (r *mockRoleRepo) ListByConference(ctx context.Context, tx *gorm.DB, conferenceID string) ([]*models.ConferenceRoleEntry, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []*models.ConferenceRoleEntry
	for _, entry := range r.m.roles {
		if entry.ConferenceID == conferenceID {
			out = append(out, entry)
		}
	}
	return out, nil
}

func (r *mockRoleRepo) ListByConferenceAndRoles(ctx context.Context, tx *gorm.DB, conferenceID string, roles ...models.ConferenceRole) ([]*models.ConferenceRoleEntry, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []*models.ConferenceRoleEntry
	for _, entry := range r.m.roles {
		if entry.ConferenceID != conferenceID {
			continue
		}
		for _, role := range roles {
			if entry.Role == role {
				out = append(out, entry)
				break
			}
		}
	}
	return out, nil
}

func (r *mockRoleRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID string) ([]*models.ConferenceRoleEntry, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []*models.ConferenceRoleEntry
	for _, entry := range r.m.roles {
		if entry.UserID == userID {
			out = append(out, entry)
		}
	}
	return out, nil
}

// ===== SubmissionRepository =====

type mockSubmissionRepo struct{ m *mockRepository }

func (r *mockSubmissionRepo) Create(ctx context.Context, tx *gorm.DB, submission *models.Submission) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if submission.ID == "" {
		submission.ID = r.m.genID("sub")
	}
	for i := range submission.Authors {
		if submission.Authors[i].ID == "" {
			submission.Authors[i].ID = r.m.genID("author")
		}
		submission.Authors[i].SubmissionID = submission.ID
	}
	r.m.submissions[submission.ID] = submission
	return nil
}

func (r *mockSubmissionRepo) GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.Submission, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if submission, ok := r.m.submissions[id]; ok {
		return submission, nil
	}
	return nil, repositories.ErrNotFound
}

func (r *mockSubmissionRepo) GetByIDWithDetails(ctx context.Context, tx *gorm.DB, id string) (*models.Submission, error) {
	return r.GetByID(ctx, tx, id)
}

func (r *mockSubmissionRepo) Update(ctx context.Context, tx *gorm.DB, submission *models.Submission) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.submissions[submission.ID]; !ok {
		return repositories.ErrNotFound
	}
	r.m.submissions[submission.ID] = submission
	return nil
}

func (r *mockSubmissionRepo) UpdateStatus(ctx context.Context, tx *gorm.DB, id string, status models.SubmissionStatus) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	submission, ok := r.m.submissions[id]
	if !ok {
		return repositories.ErrNotFound
	}
	submission.Status = status
	return nil
}

func (r *mockSubmissionRepo) GetByConference(ctx context.Context, tx *gorm.DB, conferenceID string, filters repositories.SubmissionFilters) ([]*models.Submission, int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []*models.Submission
	for _, s := range r.m.submissions {
		if s.ConferenceID == conferenceID {
			out = append(out, s)
		}
	}
	return out, int64(len(out)), nil
}

func (r *mockSubmissionRepo) GetBySubmitter(ctx context.Context, tx *gorm.DB, userID string, filters repositories.SubmissionFilters) ([]*models.Submission, int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []*models.Submission
	for _, s := range r.m.submissions {
		if s.SubmittedByID == userID {
			out = append(out, s)
		}
	}
	return out, int64(len(out)), nil
}

func (r *mockSubmissionRepo) ReplaceAuthors(ctx context.Context, tx *gorm.DB, submissionID string, authors []models.SubmissionAuthor) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	submission, ok := r.m.submissions[submissionID]
	if !ok {
		return repositories.ErrNotFound
	}
	r.m.authorReplaceInTx = r.m.inTx
	for i := range authors {
		if authors[i].ID == "" {
			authors[i].ID = r.m.genID("author")
		}
		authors[i].SubmissionID = submissionID
	}
	submission.Authors = authors
	return nil
}

func (r *mockSubmissionRepo) GetAuthors(ctx context.Context, tx *gorm.DB, submissionID string) ([]*models.SubmissionAuthor, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	submission, ok := r.m.submissions[submissionID]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	out := make([]*models.SubmissionAuthor, 0, len(submission.Authors))
	for i := range submission.Authors {
		out = append(out, &submission.Authors[i])
	}
	return out, nil
}

func (r *mockSubmissionRepo) CorrespondingUserIDs(ctx context.Context, tx *gorm.DB, submissionID string) ([]string, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	submission, ok := r.m.submissions[submissionID]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	var out []string
	for _, author := range submission.Authors {
		if author.IsCorresponding && author.UserID != nil {
			out = append(out, *author.UserID)
		}
	}
	return out, nil
}

// ===== ReviewRepository =====

type mockReviewRepo struct{ m *mockRepository }

func (r *mockReviewRepo) CreateAssignment(ctx context.Context, tx *gorm.DB, assignment *models.ReviewAssignment) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, a := range r.m.reviewAssignments {
		if a.SubmissionID == assignment.SubmissionID && a.ReviewerRoleID == assignment.ReviewerRoleID {
			return gorm.ErrDuplicatedKey
		}
	}
	if assignment.ID == "" {
		assignment.ID = r.m.genID("rassign")
	}
	r.m.reviewAssignments[assignment.ID] = assignment
	return nil
}

func (r *mockReviewRepo) GetAssignmentByID(ctx context.Context, tx *gorm.DB, id string) (*models.ReviewAssignment, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	assignment, ok := r.m.reviewAssignments[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	if entry, ok := r.m.roles[assignment.ReviewerRoleID]; ok {
		assignment.ReviewerRole = *entry
	}
	if submission, ok := r.m.submissions[assignment.SubmissionID]; ok {
		assignment.Submission = *submission
	}
	assignment.Review = nil
	for _, review := range r.m.reviews {
		if review.AssignmentID == assignment.ID {
			assignment.Review = review
			break
		}
	}
	assignment.IsReviewed = assignment.Review != nil
	return assignment, nil
}

func (r *mockReviewRepo) DeleteAssignment(ctx context.Context, tx *gorm.DB, id string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.reviewAssignments[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.m.reviewAssignments, id)
	return nil
}

func (r *mockReviewRepo) UpdateDueDate(ctx context.Context, tx *gorm.DB, id string, dueDate time.Time) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	assignment, ok := r.m.reviewAssignments[id]
	if !ok {
		return repositories.ErrNotFound
	}
	assignment.DueDate = dueDate
	return nil
}

func (r *mockReviewRepo) AssignmentExists(ctx context.Context, tx *gorm.DB, submissionID, reviewerRoleID string) (bool, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, a := range r.m.reviewAssignments {
		if a.SubmissionID == submissionID && a.ReviewerRoleID == reviewerRoleID {
			return true, nil
		}
	}
	return false, nil
}

func (r *mockReviewRepo) ListByConference(ctx context.Context, tx *gorm.DB, conferenceID string, filters repositories.AssignmentFilters) ([]*models.ReviewAssignment, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []*models.ReviewAssignment
	for _, a := range r.m.reviewAssignments {
		if s, ok := r.m.submissions[a.SubmissionID]; ok && s.ConferenceID == conferenceID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *mockReviewRepo) ListByAssignee(ctx context.Context, tx *gorm.DB, conferenceID, userID string) ([]*models.ReviewAssignment, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []*models.ReviewAssignment
	for _, a := range r.m.reviewAssignments {
		entry, ok := r.m.roles[a.ReviewerRoleID]
		if ok && entry.UserID == userID && entry.ConferenceID == conferenceID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *mockReviewRepo) CreateReview(ctx context.Context, tx *gorm.DB, review *models.Review) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, existing := range r.m.reviews {
		if existing.AssignmentID == review.AssignmentID {
			return gorm.ErrDuplicatedKey
		}
	}
	if review.ID == "" {
		review.ID = r.m.genID("review")
	}
	r.m.reviews[review.ID] = review
	return nil
}

func (r *mockReviewRepo) GetReviewByID(ctx context.Context, tx *gorm.DB, id string) (*models.Review, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if review, ok := r.m.reviews[id]; ok {
		return review, nil
	}
	return nil, repositories.ErrNotFound
}

func (r *mockReviewRepo) GetReviewByAssignment(ctx context.Context, tx *gorm.DB, assignmentID string) (*models.Review, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, review := range r.m.reviews {
		if review.AssignmentID == assignmentID {
			return review, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *mockReviewRepo) UpdateReview(ctx context.Context, tx *gorm.DB, review *models.Review) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.reviews[review.ID]; !ok {
		return repositories.ErrNotFound
	}
	r.m.reviews[review.ID] = review
	return nil
}

// ===== DecisionRepository =====

type mockDecisionRepo struct{ m *mockRepository }

func (r *mockDecisionRepo) CreateAssignment(ctx context.Context, tx *gorm.DB, assignment *models.DecisionAssignment) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, a := range r.m.decisionAssignments {
		if a.SubmissionID == assignment.SubmissionID && a.ChairRoleID == assignment.ChairRoleID {
			return gorm.ErrDuplicatedKey
		}
	}
	if assignment.ID == "" {
		assignment.ID = r.m.genID("dassign")
	}
	r.m.decisionAssignments[assignment.ID] = assignment
	return nil
}

func (r *mockDecisionRepo) GetAssignmentByID(ctx context.Context, tx *gorm.DB, id string) (*models.DecisionAssignment, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	assignment, ok := r.m.decisionAssignments[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	if entry, ok := r.m.roles[assignment.ChairRoleID]; ok {
		assignment.ChairRole = *entry
	}
	if submission, ok := r.m.submissions[assignment.SubmissionID]; ok {
		assignment.Submission = *submission
	}
	assignment.Decision = nil
	for _, decision := range r.m.decisions {
		if decision.AssignmentID == assignment.ID {
			assignment.Decision = decision
			break
		}
	}
	assignment.IsDecided = assignment.Decision != nil
	return assignment, nil
}

func (r *mockDecisionRepo) DeleteAssignment(ctx context.Context, tx *gorm.DB, id string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.decisionAssignments[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.m.decisionAssignments, id)
	return nil
}

func (r *mockDecisionRepo) UpdateDueDate(ctx context.Context, tx *gorm.DB, id string, dueDate time.Time) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	assignment, ok := r.m.decisionAssignments[id]
	if !ok {
		return repositories.ErrNotFound
	}
	assignment.DueDate = dueDate
	return nil
}

func (r *mockDecisionRepo) AssignmentExists(ctx context.Context, tx *gorm.DB, submissionID, chairRoleID string) (bool, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, a := range r.m.decisionAssignments {
		if a.SubmissionID == submissionID && a.ChairRoleID == chairRoleID {
			return true, nil
		}
	}
	return false, nil
}

func (r *mockDecisionRepo) ListByConference(ctx context.Context, tx *gorm.DB, conferenceID string, filters repositories.AssignmentFilters) ([]*models.DecisionAssignment, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []*models.DecisionAssignment
	for _, a := range r.m.decisionAssignments {
		if s, ok := r.m.submissions[a.SubmissionID]; ok && s.ConferenceID == conferenceID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *mockDecisionRepo) ListByAssignee(ctx context.Context, tx *gorm.DB, conferenceID, userID string) ([]*models.DecisionAssignment, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []*models.DecisionAssignment
	for _, a := range r.m.decisionAssignments {
		entry, ok := r.m.roles[a.ChairRoleID]
		if ok && entry.UserID == userID && entry.ConferenceID == conferenceID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *mockDecisionRepo) CreateDecision(ctx context.Context, tx *gorm.DB, decision *models.Decision) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, existing := range r.m.decisions {
		if existing.AssignmentID == decision.AssignmentID {
			return gorm.ErrDuplicatedKey
		}
	}
	if decision.ID == "" {
		decision.ID = r.m.genID("decision")
	}
	r.m.decisions[decision.ID] = decision
	return nil
}

func (r *mockDecisionRepo) GetDecisionByID(ctx context.Context, tx *gorm.DB, id string) (*models.Decision, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if decision, ok := r.m.decisions[id]; ok {
		return decision, nil
	}
	return nil, repositories.ErrNotFound
}

func (r *mockDecisionRepo) GetDecisionByAssignment(ctx context.Context, tx *gorm.DB, assignmentID string) (*models.Decision, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, decision := range r.m.decisions {
		if decision.AssignmentID == assignmentID {
			return decision, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *mockDecisionRepo) UpdateDecision(ctx context.Context, tx *gorm.DB, decision *models.Decision) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.decisions[decision.ID]; !ok {
		return repositories.ErrNotFound
	}
	r.m.decisions[decision.ID] = decision
	return nil
}

// ===== NotificationRepository =====

type mockNotificationRepo struct{ m *mockRepository }

func (r *mockNotificationRepo) Create(ctx context.Context, tx *gorm.DB, notification *models.Notification) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if notification.ID == "" {
		notification.ID = r.m.genID("notif")
	}
	r.m.notifications[notification.ID] = notification
	return nil
}

func (r *mockNotificationRepo) GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.Notification, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if notification, ok := r.m.notifications[id]; ok {
		return notification, nil
	}
	return nil, repositories.ErrNotFound
}

func (r *mockNotificationRepo) Update(ctx context.Context, tx *gorm.DB, notification *models.Notification) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.notifications[notification.ID]; !ok {
		return repositories.ErrNotFound
	}
	r.m.notifications[notification.ID] = notification
	return nil
}

func (r *mockNotificationRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID string, filters repositories.NotificationFilters) ([]*models.Notification, int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []*models.Notification
	for _, n := range r.m.notifications {
		if n.UserID != userID || n.IsDeleted {
			continue
		}
		if filters.IsRead != nil && n.IsRead != *filters.IsRead {
			continue
		}
		if filters.IsArchived != nil && n.IsArchived != *filters.IsArchived {
			continue
		}
		if filters.Type != nil && n.Type != *filters.Type {
			continue
		}
		out = append(out, n)
	}
	return out, int64(len(out)), nil
}

// ===== InvitationRepository =====

type mockInvitationRepo struct{ m *mockRepository }

func (r *mockInvitationRepo) Create(ctx context.Context, tx *gorm.DB, invitation *models.Invitation) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if invitation.ID == "" {
		invitation.ID = r.m.genID("invite")
	}
	r.m.invitations[invitation.ID] = invitation
	return nil
}

func (r *mockInvitationRepo) GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.Invitation, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if invitation, ok := r.m.invitations[id]; ok {
		return invitation, nil
	}
	return nil, repositories.ErrNotFound
}

func (r *mockInvitationRepo) Update(ctx context.Context, tx *gorm.DB, invitation *models.Invitation) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.invitations[invitation.ID]; !ok {
		return repositories.ErrNotFound
	}
	r.m.invitations[invitation.ID] = invitation
	return nil
}

// ===== UserRepository =====

type mockUserRepo struct{ m *mockRepository }

func (r *mockUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if user, ok := r.m.users[id]; ok {
		return user, nil
	}
	return nil, repositories.ErrNotFound
}

func (r *mockUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, user := range r.m.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *mockUserRepo) Search(ctx context.Context, query string, limit int) ([]*models.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []*models.User
	for _, user := range r.m.users {
		out = append(out, user)
		if len(out) >= limit {
			break
		}
	}
	return out, nil
}

// testLogger discards output; tests assert behavior, not log lines.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
