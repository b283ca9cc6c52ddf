package app

import (
	"context"
	"sync"
	"time"

	"github.com/JoeYatesss/educonnect-api/internal/common"
	"github.com/JoeYatesss/educonnect-api/internal/domain/application"
	"github.com/JoeYatesss/educonnect-api/internal/domain/event"
	"github.com/JoeYatesss/educonnect-api/internal/domain/job"
	"github.com/JoeYatesss/educonnect-api/internal/domain/match"
	"github.com/JoeYatesss/educonnect-api/internal/domain/payment"
	"github.com/JoeYatesss/educonnect-api/internal/domain/school"
	"github.com/JoeYatesss/educonnect-api/internal/domain/teacher"
	"github.com/JoeYatesss/educonnect-api/internal/domain/workflow"
)

type fakeTeacherRepo struct {
	mu   sync.Mutex
	byID map[common.UUID]*teacher.Teacher

	history []teacher.StatusHistory
}

func newFakeTeacherRepo() *fakeTeacherRepo {
	return &fakeTeacherRepo{byID: make(map[common.UUID]*teacher.Teacher)}
}

func (r *fakeTeacherRepo) Create(ctx context.Context, t teacher.Teacher) (*teacher.Teacher, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t.ID = common.NewUUID()
	now := time.Now().UTC()
	t.CreatedAt = now
	t.UpdatedAt = now
	r.byID[t.ID] = &t
	return cloneTeacher(&t), nil
}

func (r *fakeTeacherRepo) Update(ctx context.Context, t teacher.Teacher) (*teacher.Teacher, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.byID[t.ID] == nil {
		return nil, common.NewError(common.CodeNotFound, "teacher not found", nil)
	}
	t.UpdatedAt = time.Now().UTC()
	r.byID[t.ID] = &t
	return cloneTeacher(&t), nil
}

func (r *fakeTeacherRepo) GetByID(ctx context.Context, id common.UUID) (*teacher.Teacher, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t := r.byID[id]
	if t == nil {
		return nil, common.NewError(common.CodeNotFound, "teacher not found", nil)
	}
	return cloneTeacher(t), nil
}

func (r *fakeTeacherRepo) GetByAccountID(ctx context.Context, accountID common.UUID) (*teacher.Teacher, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.byID {
		if t.AccountID == accountID {
			return cloneTeacher(t), nil
		}
	}
	return nil, common.NewError(common.CodeNotFound, "teacher not found", nil)
}

func (r *fakeTeacherRepo) ListActive(ctx context.Context) ([]teacher.Teacher, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []teacher.Teacher
	for _, t := range r.byID {
		if t.IsActive {
			out = append(out, *cloneTeacher(t))
		}
	}
	return out, nil
}

func (r *fakeTeacherRepo) ListByIDs(ctx context.Context, ids []common.UUID) ([]teacher.Teacher, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []teacher.Teacher
	for _, id := range ids {
		if t := r.byID[id]; t != nil {
			out = append(out, *cloneTeacher(t))
		}
	}
	return out, nil
}

func (r *fakeTeacherRepo) UpdateStatusWithHistory(ctx context.Context, id common.UUID, status workflow.Status, history teacher.StatusHistory) (*teacher.Teacher, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t := r.byID[id]
	if t == nil {
		return nil, common.NewError(common.CodeNotFound, "teacher not found", nil)
	}
	t.Status = status
	t.UpdatedAt = time.Now().UTC()
	history.ID = common.NewUUID()
	history.TeacherID = id
	history.CreatedAt = t.UpdatedAt
	r.history = append(r.history, history)
	return cloneTeacher(t), nil
}

func (r *fakeTeacherRepo) ListHistory(ctx context.Context, teacherID common.UUID) ([]teacher.StatusHistory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []teacher.StatusHistory
	for _, h := range r.history {
		if h.TeacherID == teacherID {
			out = append(out, h)
		}
	}
	return out, nil
}

func (r *fakeTeacherRepo) SetPaid(ctx context.Context, id common.UUID, paid bool, paymentRef string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t := r.byID[id]
	if t == nil {
		return common.NewError(common.CodeNotFound, "teacher not found", nil)
	}
	t.HasPaid = paid
	t.CustomerRef = paymentRef
	return nil
}

func cloneTeacher(t *teacher.Teacher) *teacher.Teacher {
	copy := *t
	copy.SubjectSpecialty = append([]string(nil), t.SubjectSpecialty...)
	copy.PreferredLocations = append([]string(nil), t.PreferredLocations...)
	copy.PreferredAgeGroups = append([]string(nil), t.PreferredAgeGroups...)
	return &copy
}

type fakeSchoolRepo struct {
	mu   sync.Mutex
	byID map[common.UUID]*school.School
}

func newFakeSchoolRepo() *fakeSchoolRepo {
	return &fakeSchoolRepo{byID: make(map[common.UUID]*school.School)}
}

func (r *fakeSchoolRepo) Create(ctx context.Context, s school.School) (*school.School, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s.ID = common.NewUUID()
	now := time.Now().UTC()
	s.CreatedAt = now
	s.UpdatedAt = now
	r.byID[s.ID] = &s
	copy := s
	return &copy, nil
}

func (r *fakeSchoolRepo) Update(ctx context.Context, s school.School) (*school.School, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.byID[s.ID] == nil {
		return nil, common.NewError(common.CodeNotFound, "school not found", nil)
	}
	s.UpdatedAt = time.Now().UTC()
	r.byID[s.ID] = &s
	copy := s
	return &copy, nil
}

func (r *fakeSchoolRepo) GetByID(ctx context.Context, id common.UUID) (*school.School, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := r.byID[id]
	if s == nil {
		return nil, common.NewError(common.CodeNotFound, "school not found", nil)
	}
	copy := *s
	return &copy, nil
}

func (r *fakeSchoolRepo) ListActive(ctx context.Context) ([]school.School, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []school.School
	for _, s := range r.byID {
		if s.IsActive {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *fakeSchoolRepo) ListByIDs(ctx context.Context, ids []common.UUID) ([]school.School, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []school.School
	for _, id := range ids {
		if s := r.byID[id]; s != nil {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *fakeSchoolRepo) SetActive(ctx context.Context, id common.UUID, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := r.byID[id]
	if s == nil {
		return common.NewError(common.CodeNotFound, "school not found", nil)
	}
	s.IsActive = active
	return nil
}

type fakeAccountRepo struct {
	mu   sync.Mutex
	byID map[common.UUID]*school.Account
}

func newFakeAccountRepo() *fakeAccountRepo {
	return &fakeAccountRepo{byID: make(map[common.UUID]*school.Account)}
}

func (r *fakeAccountRepo) Create(ctx context.Context, a school.Account) (*school.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a.ID = common.NewUUID()
	now := time.Now().UTC()
	a.CreatedAt = now
	a.UpdatedAt = now
	r.byID[a.ID] = &a
	copy := a
	return &copy, nil
}

func (r *fakeAccountRepo) Update(ctx context.Context, a school.Account) (*school.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.byID[a.ID] == nil {
		return nil, common.NewError(common.CodeNotFound, "school account not found", nil)
	}
	a.UpdatedAt = time.Now().UTC()
	r.byID[a.ID] = &a
	copy := a
	return &copy, nil
}

func (r *fakeAccountRepo) GetByID(ctx context.Context, id common.UUID) (*school.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a := r.byID[id]
	if a == nil {
		return nil, common.NewError(common.CodeNotFound, "school account not found", nil)
	}
	copy := *a
	return &copy, nil
}

func (r *fakeAccountRepo) GetByEmail(ctx context.Context, email string) (*school.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.byID {
		if a.Email == email {
			copy := *a
			return &copy, nil
		}
	}
	return nil, common.NewError(common.CodeNotFound, "school account not found", nil)
}

func (r *fakeAccountRepo) SetPaid(ctx context.Context, id common.UUID, paid bool, paymentRef string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a := r.byID[id]
	if a == nil {
		return common.NewError(common.CodeNotFound, "school account not found", nil)
	}
	a.HasPaid = paid
	a.CustomerRef = paymentRef
	return nil
}

type fakeJobRepo struct {
	mu   sync.Mutex
	byID map[common.UUID]*job.Job
}

func newFakeJobRepo() *fakeJobRepo {
	return &fakeJobRepo{byID: make(map[common.UUID]*job.Job)}
}

func (r *fakeJobRepo) Create(ctx context.Context, j job.Job) (*job.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if j.ExternalID != "" {
		for _, existing := range r.byID {
			if existing.Source == j.Source && existing.ExternalID == j.ExternalID {
				return nil, common.NewError(common.CodeConflict, "job already imported", nil)
			}
		}
	}
	j.ID = common.NewUUID()
	now := time.Now().UTC()
	j.CreatedAt = now
	j.UpdatedAt = now
	r.byID[j.ID] = &j
	copy := j
	return &copy, nil
}

func (r *fakeJobRepo) Update(ctx context.Context, j job.Job) (*job.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.byID[j.ID] == nil {
		return nil, common.NewError(common.CodeNotFound, "job not found", nil)
	}
	j.UpdatedAt = time.Now().UTC()
	r.byID[j.ID] = &j
	copy := j
	return &copy, nil
}

func (r *fakeJobRepo) GetByID(ctx context.Context, id common.UUID) (*job.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	j := r.byID[id]
	if j == nil {
		return nil, common.NewError(common.CodeNotFound, "job not found", nil)
	}
	copy := *j
	return &copy, nil
}

func (r *fakeJobRepo) GetBySourceExternalID(ctx context.Context, source, externalID string) (*job.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, j := range r.byID {
		if j.Source == source && j.ExternalID == externalID {
			copy := *j
			return &copy, nil
		}
	}
	return nil, common.NewError(common.CodeNotFound, "job not found", nil)
}

func (r *fakeJobRepo) ListActive(ctx context.Context) ([]job.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []job.Job
	for _, j := range r.byID {
		if j.IsActive {
			out = append(out, *j)
		}
	}
	return out, nil
}

func (r *fakeJobRepo) ListByIDs(ctx context.Context, ids []common.UUID) ([]job.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []job.Job
	for _, id := range ids {
		if j := r.byID[id]; j != nil {
			out = append(out, *j)
		}
	}
	return out, nil
}

func (r *fakeJobRepo) ListBySchoolAccount(ctx context.Context, accountID common.UUID) ([]job.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []job.Job
	for _, j := range r.byID {
		if j.SchoolAccountID == accountID {
			out = append(out, *j)
		}
	}
	return out, nil
}

func (r *fakeJobRepo) SetActive(ctx context.Context, id common.UUID, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	j := r.byID[id]
	if j == nil {
		return common.NewError(common.CodeNotFound, "job not found", nil)
	}
	j.IsActive = active
	return nil
}

type fakeMatchRepo struct {
	mu   sync.Mutex
	byID map[common.UUID]*match.Match

	createCalls int
	updateCalls int
}

func newFakeMatchRepo() *fakeMatchRepo {
	return &fakeMatchRepo{byID: make(map[common.UUID]*match.Match)}
}

func (r *fakeMatchRepo) Create(ctx context.Context, m match.Match) (*match.Match, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.createCalls++
	for _, existing := range r.byID {
		if existing.TeacherID == m.TeacherID && existing.Target == m.Target {
			return nil, common.NewError(common.CodeConflict, "match already exists", nil)
		}
	}
	m.ID = common.NewUUID()
	now := time.Now().UTC()
	m.MatchedAt = now
	m.UpdatedAt = now
	r.byID[m.ID] = &m
	return cloneMatch(&m), nil
}

func (r *fakeMatchRepo) UpdateScore(ctx context.Context, id common.UUID, score float64, reasons []string) (*match.Match, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updateCalls++
	m := r.byID[id]
	if m == nil {
		return nil, common.NewError(common.CodeNotFound, "match not found", nil)
	}
	m.Score = score
	m.Reasons = append([]string(nil), reasons...)
	m.UpdatedAt = time.Now().UTC()
	return cloneMatch(m), nil
}

func (r *fakeMatchRepo) GetByID(ctx context.Context, id common.UUID) (*match.Match, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m := r.byID[id]
	if m == nil {
		return nil, common.NewError(common.CodeNotFound, "match not found", nil)
	}
	return cloneMatch(m), nil
}

func (r *fakeMatchRepo) GetByPair(ctx context.Context, teacherID common.UUID, target match.Target) (*match.Match, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.byID {
		if m.TeacherID == teacherID && m.Target == target {
			return cloneMatch(m), nil
		}
	}
	return nil, common.NewError(common.CodeNotFound, "match not found", nil)
}

func (r *fakeMatchRepo) ListByTeacher(ctx context.Context, teacherID common.UUID) ([]match.Match, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []match.Match
	for _, m := range r.byID {
		if m.TeacherID == teacherID {
			out = append(out, *cloneMatch(m))
		}
	}
	return out, nil
}

func (r *fakeMatchRepo) ListByTarget(ctx context.Context, target match.Target) ([]match.Match, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []match.Match
	for _, m := range r.byID {
		if m.Target == target {
			out = append(out, *cloneMatch(m))
		}
	}
	return out, nil
}

func (r *fakeMatchRepo) MarkSubmitted(ctx context.Context, id common.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m := r.byID[id]
	if m == nil {
		return common.NewError(common.CodeNotFound, "match not found", nil)
	}
	m.IsSubmitted = true
	return nil
}

func cloneMatch(m *match.Match) *match.Match {
	copy := *m
	copy.Reasons = append([]string(nil), m.Reasons...)
	return &copy
}

type fakeApplicationRepo struct {
	mu   sync.Mutex
	byID map[common.UUID]*application.Application

	history []application.StatusHistory
}

func newFakeApplicationRepo() *fakeApplicationRepo {
	return &fakeApplicationRepo{byID: make(map[common.UUID]*application.Application)}
}

func (r *fakeApplicationRepo) Create(ctx context.Context, app application.Application) (*application.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.byID {
		if existing.TeacherID == app.TeacherID && existing.Target == app.Target && existing.Status != workflow.StatusDeclined {
			return nil, common.NewError(common.CodeConflict, "application already exists for this pair", nil)
		}
	}
	app.ID = common.NewUUID()
	now := time.Now().UTC()
	app.CreatedAt = now
	app.UpdatedAt = now
	r.byID[app.ID] = &app
	r.history = append(r.history, application.StatusHistory{
		ID:            common.NewUUID(),
		ApplicationID: app.ID,
		FromStatus:    nil,
		ToStatus:      app.Status,
		ChangedBy:     app.SubmittedBy,
		Notes:         app.Notes,
		CreatedAt:     now,
	})
	copy := app
	return &copy, nil
}

func (r *fakeApplicationRepo) GetByID(ctx context.Context, id common.UUID) (*application.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	app := r.byID[id]
	if app == nil {
		return nil, common.NewError(common.CodeNotFound, "application not found", nil)
	}
	copy := *app
	return &copy, nil
}

func (r *fakeApplicationRepo) FindOpenByPair(ctx context.Context, teacherID common.UUID, target match.Target) (*application.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, app := range r.byID {
		if app.TeacherID == teacherID && app.Target == target && app.Status != workflow.StatusDeclined {
			copy := *app
			return &copy, nil
		}
	}
	return nil, common.NewError(common.CodeNotFound, "application not found", nil)
}

func (r *fakeApplicationRepo) ListByTeacher(ctx context.Context, teacherID common.UUID) ([]application.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []application.Application
	for _, app := range r.byID {
		if app.TeacherID == teacherID {
			out = append(out, *app)
		}
	}
	return out, nil
}

func (r *fakeApplicationRepo) ListByTarget(ctx context.Context, target match.Target) ([]application.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []application.Application
	for _, app := range r.byID {
		if app.Target == target {
			out = append(out, *app)
		}
	}
	return out, nil
}

func (r *fakeApplicationRepo) UpdateStatusWithHistory(ctx context.Context, id common.UUID, status workflow.Status, history application.StatusHistory) (*application.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	app := r.byID[id]
	if app == nil {
		return nil, common.NewError(common.CodeNotFound, "application not found", nil)
	}
	app.Status = status
	app.UpdatedAt = time.Now().UTC()
	history.ID = common.NewUUID()
	history.ApplicationID = id
	history.CreatedAt = app.UpdatedAt
	r.history = append(r.history, history)
	copy := *app
	return &copy, nil
}

func (r *fakeApplicationRepo) ListHistory(ctx context.Context, applicationID common.UUID) ([]application.StatusHistory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []application.StatusHistory
	for _, h := range r.history {
		if h.ApplicationID == applicationID {
			out = append(out, h)
		}
	}
	return out, nil
}

type fakePaymentRepo struct {
	mu   sync.Mutex
	byID map[common.UUID]*payment.Payment
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{byID: make(map[common.UUID]*payment.Payment)}
}

func (r *fakePaymentRepo) Create(ctx context.Context, p payment.Payment) (*payment.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.byID {
		if existing.TransactionID == p.TransactionID {
			return nil, common.NewError(common.CodeConflict, "payment already recorded", nil)
		}
		if p.Status == payment.StatusSucceeded && existing.Payer == p.Payer && existing.Status == payment.StatusSucceeded {
			return nil, common.NewError(common.CodeConflict, "payer already has a succeeded payment", nil)
		}
	}
	p.ID = common.NewUUID()
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	r.byID[p.ID] = &p
	copy := p
	return &copy, nil
}

func (r *fakePaymentRepo) UpdateStatus(ctx context.Context, id common.UUID, status payment.Status) (*payment.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := r.byID[id]
	if p == nil {
		return nil, common.NewError(common.CodeNotFound, "payment not found", nil)
	}
	p.Status = status
	p.UpdatedAt = time.Now().UTC()
	copy := *p
	return &copy, nil
}

func (r *fakePaymentRepo) GetByID(ctx context.Context, id common.UUID) (*payment.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := r.byID[id]
	if p == nil {
		return nil, common.NewError(common.CodeNotFound, "payment not found", nil)
	}
	copy := *p
	return &copy, nil
}

func (r *fakePaymentRepo) GetByTransactionID(ctx context.Context, transactionID string) (*payment.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.byID {
		if p.TransactionID == transactionID {
			copy := *p
			return &copy, nil
		}
	}
	return nil, common.NewError(common.CodeNotFound, "payment not found", nil)
}

func (r *fakePaymentRepo) FindSucceededByPayer(ctx context.Context, payer payment.Payer) (*payment.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.byID {
		if p.Payer == payer && p.Status == payment.StatusSucceeded {
			copy := *p
			return &copy, nil
		}
	}
	return nil, common.NewError(common.CodeNotFound, "payment not found", nil)
}

func (r *fakePaymentRepo) ListByPayer(ctx context.Context, payer payment.Payer) ([]payment.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []payment.Payment
	for _, p := range r.byID {
		if p.Payer == payer {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakePaymentRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byID)
}

type capturePublisher struct {
	mu     sync.Mutex
	events []event.Event
}

func (p *capturePublisher) Publish(ctx context.Context, e event.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *capturePublisher) named(name string) []event.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []event.Event
	for _, e := range p.events {
		if e.Name == name {
			out = append(out, e)
		}
	}
	return out
}
