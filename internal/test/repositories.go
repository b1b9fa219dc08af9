package test

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	domainErrors "github.com/polkiloo/leatherdesk/internal/domain/errors"
	"github.com/polkiloo/leatherdesk/internal/domain/model"
	"github.com/polkiloo/leatherdesk/internal/domain/repository"
)

// AdminRepositoryStub stores admins in-memory for tests.
type AdminRepositoryStub struct {
	ByEmail map[string]*model.Admin
	Next    int64
	Err     error
}

// NewAdminRepositoryStub constructs stub repository with initialized maps.
func NewAdminRepositoryStub() *AdminRepositoryStub {
	return &AdminRepositoryStub{ByEmail: make(map[string]*model.Admin), Next: 1}
}

// Create registers admin unless already exists or stub has explicit error.
func (s *AdminRepositoryStub) Create(ctx context.Context, email, passwordHash string) (*model.Admin, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if s.ByEmail == nil {
		s.ByEmail = make(map[string]*model.Admin)
	}
	if _, exists := s.ByEmail[email]; exists {
		return nil, domainErrors.ErrAlreadyExists
	}
	if s.Next == 0 {
		s.Next = 1
	}
	admin := &model.Admin{ID: s.Next, Email: email, PasswordHash: passwordHash, CreatedAt: time.Unix(0, 0)}
	s.Next++
	s.ByEmail[email] = admin
	return admin, nil
}

// GetByEmail fetches admin by email or returns not found.
func (s *AdminRepositoryStub) GetByEmail(ctx context.Context, email string) (*model.Admin, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if admin, ok := s.ByEmail[email]; ok {
		return admin, nil
	}
	return nil, domainErrors.ErrNotFound
}

// GetByID fetches admin by identifier or returns not found.
func (s *AdminRepositoryStub) GetByID(ctx context.Context, id int64) (*model.Admin, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	for _, admin := range s.ByEmail {
		if admin.ID == id {
			return admin, nil
		}
	}
	return nil, domainErrors.ErrNotFound
}

// RequestRepositoryStub keeps requests in memory and enforces the
// (kind, request number) uniqueness the real table has.
type RequestRepositoryStub struct {
	mu    sync.Mutex
	items []*model.Request
	next  int

	// InsertErrs are returned by successive Insert calls before normal behaviour resumes.
	InsertErrs []error
	GetErr     error
	LookupErr  error
	UpdateErr  error
	DeleteErr  error
	ListErr    error
	CountErr   error

	Lookups   int
	Inserts   int
	Updates   int
	LastQuery model.ListQuery
}

// Put seeds a stored request and returns its copy.
func (s *RequestRepositoryStub) Put(req model.Request) *model.Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	if req.ID == "" {
		s.next++
		req.ID = fmt.Sprintf("req-%d", s.next)
	}
	s.items = append(s.items, req.Clone())
	return req.Clone()
}

// Stored returns a copy of the persisted request with id.
func (s *RequestRepositoryStub) Stored(id string) (*model.Request, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.items {
		if r.ID == id {
			return r.Clone(), true
		}
	}
	return nil, false
}

// Len reports the number of stored requests.
func (s *RequestRepositoryStub) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

func (s *RequestRepositoryStub) Insert(ctx context.Context, req *model.Request) (*model.Request, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Inserts++
	if len(s.InsertErrs) > 0 {
		err := s.InsertErrs[0]
		s.InsertErrs = s.InsertErrs[1:]
		return nil, err
	}
	for _, r := range s.items {
		if r.Kind == req.Kind && r.RequestNumber == req.RequestNumber {
			return nil, domainErrors.ErrAlreadyExists
		}
	}
	stored := req.Clone()
	if stored.ID == "" {
		s.next++
		stored.ID = fmt.Sprintf("req-%d", s.next)
	}
	s.items = append(s.items, stored)
	return stored.Clone(), nil
}

func (s *RequestRepositoryStub) GetByID(ctx context.Context, kind model.Kind, id string) (*model.Request, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.GetErr != nil {
		return nil, s.GetErr
	}
	for _, r := range s.items {
		if r.Kind == kind && r.ID == id {
			return r.Clone(), nil
		}
	}
	return nil, domainErrors.ErrNotFound
}

func (s *RequestRepositoryStub) GetByNumber(ctx context.Context, kind model.Kind, number string) (*model.Request, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Lookups++
	if s.LookupErr != nil {
		return nil, s.LookupErr
	}
	for _, r := range s.items {
		if r.Kind == kind && r.RequestNumber == number {
			return r.Clone(), nil
		}
	}
	return nil, domainErrors.ErrNotFound
}

func (s *RequestRepositoryStub) Update(ctx context.Context, req *model.Request) (*model.Request, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Updates++
	if s.UpdateErr != nil {
		return nil, s.UpdateErr
	}
	for i, r := range s.items {
		if r.Kind == req.Kind && r.ID == req.ID {
			s.items[i] = req.Clone()
			return req.Clone(), nil
		}
	}
	return nil, domainErrors.ErrNotFound
}

func (s *RequestRepositoryStub) Delete(ctx context.Context, kind model.Kind, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.DeleteErr != nil {
		return false, s.DeleteErr
	}
	for i, r := range s.items {
		if r.Kind == kind && r.ID == id {
			s.items = slices.Delete(s.items, i, i+1)
			return true, nil
		}
	}
	return false, nil
}

// List applies the filter and limit but keeps insertion order.
func (s *RequestRepositoryStub) List(ctx context.Context, q model.ListQuery) ([]model.Request, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.LastQuery = q
	if s.ListErr != nil {
		return nil, s.ListErr
	}
	var out []model.Request
	for _, r := range s.items {
		if !matches(r, q.Filter) {
			continue
		}
		if q.Limit > 0 && len(out) == q.Limit {
			break
		}
		out = append(out, *r.Clone())
	}
	return out, nil
}

func (s *RequestRepositoryStub) Count(ctx context.Context, filter model.RequestFilter) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.CountErr != nil {
		return 0, s.CountErr
	}
	n := 0
	for _, r := range s.items {
		if matches(r, filter) {
			n++
		}
	}
	return n, nil
}

func matches(r *model.Request, f model.RequestFilter) bool {
	if r.Kind != f.Kind {
		return false
	}
	if len(f.Statuses) > 0 && !slices.Contains(f.Statuses, r.Status) {
		return false
	}
	if f.WithPaymentReference && r.PaymentReference == "" {
		return false
	}
	return true
}

// NotificationRepositoryStub records staff notifications.
type NotificationRepositoryStub struct {
	mu    sync.Mutex
	items []model.Notification

	CreateFn func(context.Context, *model.Notification) error
	Err      error
}

// Created returns a snapshot of stored notifications.
func (s *NotificationRepositoryStub) Created() []model.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.items)
}

func (s *NotificationRepositoryStub) Create(ctx context.Context, n *model.Notification) error {
	if s.CreateFn != nil {
		if err := s.CreateFn(ctx, n); err != nil {
			return err
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	stored := *n
	stored.ID = int64(len(s.items) + 1)
	s.items = append(s.items, stored)
	return nil
}

func (s *NotificationRepositoryStub) List(ctx context.Context, unreadOnly bool, limit int) ([]model.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	var out []model.Notification
	for i := len(s.items) - 1; i >= 0 && len(out) < limit; i-- {
		if unreadOnly && s.items[i].Read {
			continue
		}
		out = append(out, s.items[i])
	}
	return out, nil
}

func (s *NotificationRepositoryStub) MarkRead(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	for i := range s.items {
		if s.items[i].ID == id {
			s.items[i].Read = true
			return nil
		}
	}
	return domainErrors.ErrNotFound
}

func (s *NotificationRepositoryStub) MarkAllRead(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return 0, s.Err
	}
	var n int64
	for i := range s.items {
		if !s.items[i].Read {
			s.items[i].Read = true
			n++
		}
	}
	return n, nil
}

var (
	_ repository.AdminRepository        = (*AdminRepositoryStub)(nil)
	_ repository.RequestRepository      = (*RequestRepositoryStub)(nil)
	_ repository.NotificationRepository = (*NotificationRepositoryStub)(nil)
)
