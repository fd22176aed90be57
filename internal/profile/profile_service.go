package profile

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"leavedesk/internal/shared/apperror"
)

//go:generate mockgen -source=profile_service.go -destination=mock/profile_service_mock.go -package=mock
type Service interface {
	GetAll(ctx context.Context) ([]ProfileResponse, error)
	GetAllWithRoles(ctx context.Context) ([]ProfileWithRolesResponse, error)
	GetByID(ctx context.Context, id string) (ProfileResponse, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) GetAll(ctx context.Context) ([]ProfileResponse, error) {
	profiles, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	resp := make([]ProfileResponse, len(profiles))
	for i, p := range profiles {
		resp[i] = ProfileResponse{
			ID:       p.ID.String(),
			FullName: p.FullName,
			Email:    p.Email,
		}
	}
	return resp, nil
}

func (s *service) GetAllWithRoles(ctx context.Context) ([]ProfileWithRolesResponse, error) {
	rows, err := s.repo.FindAllWithRoles(ctx)
	if err != nil {
		return nil, err
	}

	resp := make([]ProfileWithRolesResponse, 0, len(rows))
	for _, row := range rows {
		roles := []string{}
		if strings.TrimSpace(row.RolesRaw) != "" {
			roles = strings.Split(row.RolesRaw, ",")
		}
		resp = append(resp, ProfileWithRolesResponse{
			ID:       row.ID,
			FullName: row.FullName,
			Email:    row.Email,
			Roles:    roles,
		})
	}
	return resp, nil
}

func (s *service) GetByID(ctx context.Context, id string) (ProfileResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ProfileResponse{}, apperror.ErrNotFound
		}
		return ProfileResponse{}, err
	}
	return ProfileResponse{
		ID:       p.ID.String(),
		FullName: p.FullName,
		Email:    p.Email,
	}, nil
}
