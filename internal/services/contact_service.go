package services

import (
	"context"

	"shapagatBack/internal/models"
	"shapagatBack/internal/repositories"
)

type ContactService struct {
	ContactRepo *repositories.ContactRepository
}

func (s *ContactService) CreateSubmission(ctx context.Context, sub models.ContactSubmission) (models.ContactSubmission, error) {
	return s.ContactRepo.CreateSubmission(ctx, sub)
}

func (s *ContactService) GetSubmissions(ctx context.Context) ([]models.ContactSubmission, error) {
	return s.ContactRepo.GetSubmissions(ctx)
}

func (s *ContactService) DeleteSubmission(ctx context.Context, id int) error {
	return s.ContactRepo.DeleteSubmission(ctx, id)
}
