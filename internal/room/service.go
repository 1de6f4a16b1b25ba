package room

import (
	"context"
	"strings"
	"time"
)

type CreateRequest struct {
	Number    string
	Name      string
	Capacity  int
	Equipment *string
}

type UpdateRequest struct {
	Name      *string
	Status    *string
	Capacity  *int
	Equipment *string
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Room, error)
	GetByID(ctx context.Context, id string) (*Room, error)
	List(ctx context.Context, filter Filter) ([]*Room, int, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*Room, error)

	// ListFree returns available rooms with no non-cancelled booking
	// overlapping [startTime, endTime) on the given date.
	ListFree(ctx context.Context, date time.Time, startTime, endTime string) ([]*Room, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Room, error) {
	if strings.TrimSpace(req.Number) == "" {
		return nil, ErrEmptyNumber
	}
	if strings.TrimSpace(req.Name) == "" {
		return nil, ErrEmptyName
	}
	if req.Capacity < 1 {
		req.Capacity = 1
	}

	r := &Room{
		Number:    req.Number,
		Name:      req.Name,
		Status:    StatusAvailable,
		Capacity:  req.Capacity,
		Equipment: req.Equipment,
	}

	if err := s.repo.Create(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Room, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Room, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) Update(ctx context.Context, id string, req UpdateRequest) (*Room, error) {
	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, ErrEmptyName
		}
		r.Name = *req.Name
	}
	if req.Status != nil {
		st := Status(*req.Status)
		if !st.Valid() {
			return nil, ErrInvalidStatus
		}
		r.Status = st
	}
	if req.Capacity != nil && *req.Capacity > 0 {
		r.Capacity = *req.Capacity
	}
	if req.Equipment != nil {
		r.Equipment = req.Equipment
	}

	if err := s.repo.Update(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *service) ListFree(ctx context.Context, date time.Time, startTime, endTime string) ([]*Room, error) {
	return s.repo.ListFree(ctx, date, startTime, endTime)
}
