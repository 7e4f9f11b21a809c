package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"

	doctorerrors "docportal/internal/doctors/errors"
	"docportal/internal/doctors/repository"
	"docportal/pkg/config"
	apperrors "docportal/pkg/errors"
	"docportal/pkg/model"
)

type DoctorService interface {
	List(ctx context.Context) ([]*model.Doctor, error)
	Add(ctx context.Context, doctor *model.Doctor) (*model.InsertResult, error)
	Remove(ctx context.Context, id string) (*model.DeleteResult, error)
}

type doctorService struct {
	repo     repository.DoctorRepository
	validate *validator.Validate
	cfg      *config.Config
}

func NewDoctorService(repo repository.DoctorRepository, cfg *config.Config) DoctorService {
	return &doctorService{
		repo:     repo,
		validate: validator.New(),
		cfg:      cfg,
	}
}

func (s *doctorService) List(ctx context.Context) ([]*model.Doctor, error) {
	doctors, err := s.repo.FindAll(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to list doctors", "error", err)
		return nil, apperrors.Internal("Failed to retrieve doctors", err)
	}
	return doctors, nil
}

func (s *doctorService) Add(ctx context.Context, doctor *model.Doctor) (*model.InsertResult, error) {
	if err := s.validate.Struct(doctor); err != nil {
		s.cfg.Log.Warn("Doctor validation failed", "error", err)
		return nil, apperrors.Validation("Invalid doctor input", map[string]any{"error": err.Error()})
	}

	result, err := s.repo.Create(ctx, doctor)
	if err != nil {
		s.cfg.Log.Error("Failed to add doctor", "error", err)
		return nil, apperrors.Internal("Failed to add doctor", err)
	}

	s.cfg.Log.Info("Doctor added", "id", result.InsertedID, "specialty", doctor.Specialty)
	return result, nil
}

func (s *doctorService) Remove(ctx context.Context, id string) (*model.DeleteResult, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Doctor ID cannot be empty")
	}

	result, err := s.repo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, doctorerrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Doctor", id)
		}
		if errors.Is(err, doctorerrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid doctor ID format")
		}
		s.cfg.Log.Error("Failed to remove doctor", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to remove doctor", err)
	}

	s.cfg.Log.Info("Doctor removed", "id", id)
	return result, nil
}
