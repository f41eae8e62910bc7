// Package memstore implementa los puertos de repositorio en memoria.
// Lo usan los tests de casos de uso y handlers; TxRunner restaura el estado si fn falla.
package memstore

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jhoicas/logicielhub-api/internal/domain"
	"github.com/jhoicas/logicielhub-api/internal/domain/entity"
	"github.com/jhoicas/logicielhub-api/internal/domain/repository"
)

type data struct {
	companies     map[string]entity.Company
	departments   map[string]entity.Department
	users         map[string]entity.User
	software      map[string]entity.Software
	contracts     map[string]entity.Contract
	reviews       map[string]entity.Review
	usage         map[string]entity.Usage
	requests      map[string]entity.SoftwareRequest
	votes         map[string]entity.Vote
	notifications map[string]entity.Notification
	seq           int64
	order         map[string]int64 // orden de inserción por id
}

func newData() data {
	return data{
		companies:     map[string]entity.Company{},
		departments:   map[string]entity.Department{},
		users:         map[string]entity.User{},
		software:      map[string]entity.Software{},
		contracts:     map[string]entity.Contract{},
		reviews:       map[string]entity.Review{},
		usage:         map[string]entity.Usage{},
		requests:      map[string]entity.SoftwareRequest{},
		votes:         map[string]entity.Vote{},
		notifications: map[string]entity.Notification{},
		order:         map[string]int64{},
	}
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (d data) clone() data {
	return data{
		companies:     cloneMap(d.companies),
		departments:   cloneMap(d.departments),
		users:         cloneMap(d.users),
		software:      cloneMap(d.software),
		contracts:     cloneMap(d.contracts),
		reviews:       cloneMap(d.reviews),
		usage:         cloneMap(d.usage),
		requests:      cloneMap(d.requests),
		votes:         cloneMap(d.votes),
		notifications: cloneMap(d.notifications),
		seq:           d.seq,
		order:         cloneMap(d.order),
	}
}

// Store base de datos en memoria.
type Store struct {
	mu sync.Mutex
	d  data

	// ListErr, si no es nil, lo devuelven todas las lecturas (simula caída de la DB).
	ListErr error
	// FailOn hace fallar la escritura indicada ("contracts.create", "usage.create", ...).
	FailOn map[string]error
}

// New crea un store vacío.
func New() *Store {
	return &Store{d: newData(), FailOn: map[string]error{}}
}

func (s *Store) track(id string) {
	s.d.seq++
	s.d.order[id] = s.d.seq
}

func (s *Store) failWrite(op string) error {
	if err, ok := s.FailOn[op]; ok {
		return err
	}
	return nil
}

func (s *Store) readErr() error {
	return s.ListErr
}

// Repos devuelve todos los repositorios sobre el store.
func (s *Store) Repos() repository.TxRepos {
	return repository.TxRepos{
		Companies:     companyRepo{s},
		Departments:   departmentRepo{s},
		Users:         userRepo{s},
		Software:      softwareRepo{s},
		Contracts:     contractRepo{s},
		Reviews:       reviewRepo{s},
		Usage:         usageRepo{s},
		Requests:      requestRepo{s},
		Votes:         voteRepo{s},
		Notifications: notificationRepo{s},
	}
}

var _ repository.TxRunner = (*Store)(nil)

// Run ejecuta fn; si devuelve error se restaura el estado previo.
func (s *Store) Run(_ context.Context, fn func(repos repository.TxRepos) error) error {
	s.mu.Lock()
	snapshot := s.d.clone()
	s.mu.Unlock()

	if err := fn(s.Repos()); err != nil {
		s.mu.Lock()
		s.d = snapshot
		s.mu.Unlock()
		return err
	}
	return nil
}

// sortedBy ordena por clave y, a igualdad, por orden de inserción.
func sortedBy[T any](s *Store, items []T, id func(T) string, less func(a, b T) bool) []T {
	sort.SliceStable(items, func(i, j int) bool {
		if less(items[i], items[j]) {
			return true
		}
		if less(items[j], items[i]) {
			return false
		}
		return s.d.order[id(items[i])] < s.d.order[id(items[j])]
	})
	return items
}

func limitN[T any](items []T, n int) []T {
	if n > 0 && len(items) > n {
		return items[:n]
	}
	return items
}

func ptr[T any](v T) *T { return &v }

// ── companies / departments ─────────────────────────────────────────────────

type companyRepo struct{ s *Store }

func (r companyRepo) Create(_ context.Context, c *entity.Company) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failWrite("companies.create"); err != nil {
		return err
	}
	r.s.d.companies[c.ID] = *c
	r.s.track(c.ID)
	return nil
}

func (r companyRepo) GetByID(_ context.Context, id string) (*entity.Company, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.readErr(); err != nil {
		return nil, err
	}
	c, ok := r.s.d.companies[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r companyRepo) List(_ context.Context, limit, offset int) ([]*entity.Company, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.readErr(); err != nil {
		return nil, err
	}
	var items []entity.Company
	for _, c := range r.s.d.companies {
		items = append(items, c)
	}
	items = sortedBy(r.s, items, func(c entity.Company) string { return c.ID },
		func(a, b entity.Company) bool { return a.CreatedAt.Before(b.CreatedAt) })
	if offset >= len(items) {
		return nil, nil
	}
	items = limitN(items[offset:], limit)
	out := make([]*entity.Company, 0, len(items))
	for _, c := range items {
		out = append(out, ptr(c))
	}
	return out, nil
}

type departmentRepo struct{ s *Store }

func (r departmentRepo) Create(_ context.Context, d *entity.Department) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failWrite("departments.create"); err != nil {
		return err
	}
	for _, existing := range r.s.d.departments {
		if existing.CompanyID == d.CompanyID && strings.EqualFold(existing.Name, d.Name) {
			return domain.ErrDuplicate
		}
	}
	r.s.d.departments[d.ID] = *d
	r.s.track(d.ID)
	return nil
}

func (r departmentRepo) ListByCompany(_ context.Context, companyID string) ([]*entity.Department, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.readErr(); err != nil {
		return nil, err
	}
	var items []entity.Department
	for _, d := range r.s.d.departments {
		if d.CompanyID == companyID {
			items = append(items, d)
		}
	}
	items = sortedBy(r.s, items, func(d entity.Department) string { return d.ID },
		func(a, b entity.Department) bool { return a.Name < b.Name })
	out := make([]*entity.Department, 0, len(items))
	for _, d := range items {
		out = append(out, ptr(d))
	}
	return out, nil
}

// ── users ───────────────────────────────────────────────────────────────────

type userRepo struct{ s *Store }

func (r userRepo) Create(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failWrite("users.create"); err != nil {
		return err
	}
	for _, existing := range r.s.d.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return domain.ErrEmailAlreadyExists
		}
	}
	cp := *u
	cp.Email = strings.ToLower(cp.Email)
	r.s.d.users[u.ID] = cp
	r.s.track(u.ID)
	return nil
}

func (r userRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.readErr(); err != nil {
		return nil, err
	}
	u, ok := r.s.d.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r userRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.readErr(); err != nil {
		return nil, err
	}
	for _, u := range r.s.d.users {
		if strings.EqualFold(u.Email, email) {
			return ptr(u), nil
		}
	}
	return nil, nil
}

func (r userRepo) Update(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failWrite("users.update"); err != nil {
		return err
	}
	existing, ok := r.s.d.users[u.ID]
	if !ok {
		return domain.ErrUserNotFound
	}
	existing.DisplayName = u.DisplayName
	existing.Role = u.Role
	existing.CompanyID = u.CompanyID
	existing.DepartmentID = u.DepartmentID
	existing.UpdatedAt = u.UpdatedAt
	r.s.d.users[u.ID] = existing
	return nil
}

func (r userRepo) list(companyID string, admins bool, limit int) ([]*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.readErr(); err != nil {
		return nil, err
	}
	var items []entity.User
	for _, u := range r.s.d.users {
		if u.CompanyID == companyID && (!admins || u.IsAdmin()) {
			items = append(items, u)
		}
	}
	items = sortedBy(r.s, items, func(u entity.User) string { return u.ID },
		func(a, b entity.User) bool { return a.CreatedAt.Before(b.CreatedAt) })
	items = limitN(items, limit)
	out := make([]*entity.User, 0, len(items))
	for _, u := range items {
		out = append(out, ptr(u))
	}
	return out, nil
}

func (r userRepo) ListByCompany(_ context.Context, companyID string, limit int) ([]*entity.User, error) {
	return r.list(companyID, false, limit)
}

func (r userRepo) ListAdmins(_ context.Context, companyID string) ([]*entity.User, error) {
	return r.list(companyID, true, 0)
}

// ── software / contracts / reviews / usage ──────────────────────────────────

type softwareRepo struct{ s *Store }

func (r softwareRepo) Create(_ context.Context, sw *entity.Software) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failWrite("software.create"); err != nil {
		return err
	}
	r.s.d.software[sw.ID] = *sw
	r.s.track(sw.ID)
	return nil
}

func (r softwareRepo) GetByID(_ context.Context, id string) (*entity.Software, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.readErr(); err != nil {
		return nil, err
	}
	sw, ok := r.s.d.software[id]
	if !ok {
		return nil, nil
	}
	return &sw, nil
}

func (r softwareRepo) Update(_ context.Context, sw *entity.Software) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failWrite("software.update"); err != nil {
		return err
	}
	if _, ok := r.s.d.software[sw.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.d.software[sw.ID] = *sw
	return nil
}

func (r softwareRepo) ListByCompany(_ context.Context, companyID, orderBy string, limit int) ([]*entity.Software, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.readErr(); err != nil {
		return nil, err
	}
	var items []entity.Software
	for _, sw := range r.s.d.software {
		if sw.CompanyID == companyID {
			items = append(items, sw)
		}
	}
	less := func(a, b entity.Software) bool { return a.Name < b.Name }
	if orderBy == repository.OrderByCreatedAtDesc {
		less = func(a, b entity.Software) bool { return a.CreatedAt.After(b.CreatedAt) }
	}
	items = limitN(sortedBy(r.s, items, func(sw entity.Software) string { return sw.ID }, less), limit)
	out := make([]*entity.Software, 0, len(items))
	for _, sw := range items {
		out = append(out, ptr(sw))
	}
	return out, nil
}

func (s *Store) companyOfSoftware(softwareID string) string {
	return s.d.software[softwareID].CompanyID
}

type contractRepo struct{ s *Store }

func (r contractRepo) Create(_ context.Context, c *entity.Contract) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failWrite("contracts.create"); err != nil {
		return err
	}
	r.s.d.contracts[c.ID] = *c
	r.s.track(c.ID)
	return nil
}

func (r contractRepo) Update(_ context.Context, c *entity.Contract) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failWrite("contracts.update"); err != nil {
		return err
	}
	if _, ok := r.s.d.contracts[c.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.d.contracts[c.ID] = *c
	return nil
}

func (r contractRepo) list(match func(entity.Contract) bool, limit int) ([]*entity.Contract, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.readErr(); err != nil {
		return nil, err
	}
	var items []entity.Contract
	for _, c := range r.s.d.contracts {
		if match(c) {
			items = append(items, c)
		}
	}
	items = limitN(sortedBy(r.s, items, func(c entity.Contract) string { return c.ID },
		func(a, b entity.Contract) bool { return a.CreatedAt.Before(b.CreatedAt) }), limit)
	out := make([]*entity.Contract, 0, len(items))
	for _, c := range items {
		out = append(out, ptr(c))
	}
	return out, nil
}

func (r contractRepo) ListBySoftware(_ context.Context, softwareID string) ([]*entity.Contract, error) {
	return r.list(func(c entity.Contract) bool { return c.SoftwareID == softwareID }, 0)
}

func (r contractRepo) ListByCompany(_ context.Context, companyID string, limit int) ([]*entity.Contract, error) {
	return r.list(func(c entity.Contract) bool { return r.s.companyOfSoftware(c.SoftwareID) == companyID }, limit)
}

type reviewRepo struct{ s *Store }

func (r reviewRepo) Create(_ context.Context, rv *entity.Review) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failWrite("reviews.create"); err != nil {
		return err
	}
	for _, existing := range r.s.d.reviews {
		if existing.UserID == rv.UserID && existing.SoftwareID == rv.SoftwareID {
			return domain.ErrDuplicate
		}
	}
	r.s.d.reviews[rv.ID] = *rv
	r.s.track(rv.ID)
	return nil
}

func (r reviewRepo) Update(_ context.Context, rv *entity.Review) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.d.reviews[rv.ID]
	if !ok {
		return domain.ErrNotFound
	}
	existing.Rating = rv.Rating
	existing.Comment = rv.Comment
	existing.UpdatedAt = rv.UpdatedAt
	r.s.d.reviews[rv.ID] = existing
	return nil
}

func (r reviewRepo) GetByUserAndSoftware(_ context.Context, userID, softwareID string) (*entity.Review, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.readErr(); err != nil {
		return nil, err
	}
	for _, rv := range r.s.d.reviews {
		if rv.UserID == userID && rv.SoftwareID == softwareID {
			return ptr(rv), nil
		}
	}
	return nil, nil
}

func (r reviewRepo) list(match func(entity.Review) bool, limit int) ([]*entity.Review, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.readErr(); err != nil {
		return nil, err
	}
	var items []entity.Review
	for _, rv := range r.s.d.reviews {
		if match(rv) {
			items = append(items, rv)
		}
	}
	items = limitN(sortedBy(r.s, items, func(rv entity.Review) string { return rv.ID },
		func(a, b entity.Review) bool { return a.CreatedAt.After(b.CreatedAt) }), limit)
	out := make([]*entity.Review, 0, len(items))
	for _, rv := range items {
		out = append(out, ptr(rv))
	}
	return out, nil
}

func (r reviewRepo) ListBySoftware(_ context.Context, softwareID string) ([]*entity.Review, error) {
	return r.list(func(rv entity.Review) bool { return rv.SoftwareID == softwareID }, 0)
}

func (r reviewRepo) ListByCompany(_ context.Context, companyID string, limit int) ([]*entity.Review, error) {
	return r.list(func(rv entity.Review) bool { return r.s.companyOfSoftware(rv.SoftwareID) == companyID }, limit)
}

type usageRepo struct{ s *Store }

func (r usageRepo) Create(_ context.Context, u *entity.Usage) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failWrite("usage.create"); err != nil {
		return err
	}
	r.s.d.usage[u.ID] = *u
	r.s.track(u.ID)
	return nil
}

func (r usageRepo) ListByCompany(_ context.Context, companyID string, limit int) ([]*entity.Usage, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.readErr(); err != nil {
		return nil, err
	}
	var items []entity.Usage
	for _, u := range r.s.d.usage {
		if r.s.companyOfSoftware(u.SoftwareID) == companyID {
			items = append(items, u)
		}
	}
	items = limitN(sortedBy(r.s, items, func(u entity.Usage) string { return u.ID },
		func(a, b entity.Usage) bool { return a.CreatedAt.Before(b.CreatedAt) }), limit)
	out := make([]*entity.Usage, 0, len(items))
	for _, u := range items {
		out = append(out, ptr(u))
	}
	return out, nil
}

// ── requests / votes ────────────────────────────────────────────────────────

type requestRepo struct{ s *Store }

func (r requestRepo) Create(_ context.Context, req *entity.SoftwareRequest) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failWrite("requests.create"); err != nil {
		return err
	}
	r.s.d.requests[req.ID] = *req
	r.s.track(req.ID)
	return nil
}

func (r requestRepo) GetByID(_ context.Context, id string) (*entity.SoftwareRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.readErr(); err != nil {
		return nil, err
	}
	req, ok := r.s.d.requests[id]
	if !ok {
		return nil, nil
	}
	return &req, nil
}

func (r requestRepo) UpdateStatus(_ context.Context, id, status string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	req, ok := r.s.d.requests[id]
	if !ok {
		return domain.ErrNotFound
	}
	req.Status = status
	req.UpdatedAt = time.Now()
	r.s.d.requests[id] = req
	return nil
}

func (r requestRepo) SetVoteCount(_ context.Context, id string, count int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failWrite("requests.set_vote_count"); err != nil {
		return err
	}
	req, ok := r.s.d.requests[id]
	if !ok {
		return domain.ErrNotFound
	}
	req.VoteCount = count
	r.s.d.requests[id] = req
	return nil
}

func (r requestRepo) ListByCompany(_ context.Context, companyID string, limit int) ([]*entity.SoftwareRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.readErr(); err != nil {
		return nil, err
	}
	var items []entity.SoftwareRequest
	for _, req := range r.s.d.requests {
		if req.CompanyID == companyID {
			items = append(items, req)
		}
	}
	// más reciente primero; a igualdad, la última insertada primero
	sort.SliceStable(items, func(i, j int) bool {
		if !items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].CreatedAt.After(items[j].CreatedAt)
		}
		return r.s.d.order[items[i].ID] > r.s.d.order[items[j].ID]
	})
	items = limitN(items, limit)
	out := make([]*entity.SoftwareRequest, 0, len(items))
	for _, req := range items {
		out = append(out, ptr(req))
	}
	return out, nil
}

type voteRepo struct{ s *Store }

func (r voteRepo) Create(_ context.Context, v *entity.Vote) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.d.votes {
		if existing.RequestID == v.RequestID && existing.VoterID == v.VoterID {
			return false, nil
		}
	}
	r.s.d.votes[v.ID] = *v
	r.s.track(v.ID)
	return true, nil
}

func (r voteRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.d.votes, id)
	return nil
}

func (r voteRepo) list(match func(entity.Vote) bool) ([]*entity.Vote, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.readErr(); err != nil {
		return nil, err
	}
	var items []entity.Vote
	for _, v := range r.s.d.votes {
		if match(v) {
			items = append(items, v)
		}
	}
	items = sortedBy(r.s, items, func(v entity.Vote) string { return v.ID },
		func(a, b entity.Vote) bool { return a.CreatedAt.Before(b.CreatedAt) })
	out := make([]*entity.Vote, 0, len(items))
	for _, v := range items {
		out = append(out, ptr(v))
	}
	return out, nil
}

func (r voteRepo) ListByRequest(_ context.Context, requestID string) ([]*entity.Vote, error) {
	return r.list(func(v entity.Vote) bool { return v.RequestID == requestID })
}

func (r voteRepo) ListByCompany(_ context.Context, companyID string) ([]*entity.Vote, error) {
	return r.list(func(v entity.Vote) bool { return r.s.d.requests[v.RequestID].CompanyID == companyID })
}

// ── notifications ───────────────────────────────────────────────────────────

type notificationRepo struct{ s *Store }

func (r notificationRepo) Create(_ context.Context, n *entity.Notification) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failWrite("notifications.create"); err != nil {
		return err
	}
	r.s.d.notifications[n.ID] = *n
	r.s.track(n.ID)
	return nil
}

func (r notificationRepo) ListByUser(_ context.Context, userID string, unreadOnly bool, limit int) ([]*entity.Notification, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.readErr(); err != nil {
		return nil, err
	}
	var items []entity.Notification
	for _, n := range r.s.d.notifications {
		if n.TargetUserID == userID && (!unreadOnly || n.ReadAt == nil) {
			items = append(items, n)
		}
	}
	sort.SliceStable(items, func(i, j int) bool {
		if !items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].CreatedAt.After(items[j].CreatedAt)
		}
		return r.s.d.order[items[i].ID] > r.s.d.order[items[j].ID]
	})
	items = limitN(items, limit)
	out := make([]*entity.Notification, 0, len(items))
	for _, n := range items {
		out = append(out, ptr(n))
	}
	return out, nil
}

func (r notificationRepo) MarkRead(_ context.Context, id, userID string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n, ok := r.s.d.notifications[id]
	if !ok || n.TargetUserID != userID {
		return false, nil
	}
	if n.ReadAt == nil {
		n.ReadAt = ptr(time.Now())
		r.s.d.notifications[id] = n
	}
	return true, nil
}

func (r notificationRepo) ExistsForContract(_ context.Context, userID, contractID string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.readErr(); err != nil {
		return false, err
	}
	needle := `"contract_id":"` + contractID + `"`
	for _, n := range r.s.d.notifications {
		if n.TargetUserID == userID && n.Type == entity.NotificationContractExpiry &&
			strings.Contains(string(n.Payload), needle) {
			return true, nil
		}
	}
	return false, nil
}
