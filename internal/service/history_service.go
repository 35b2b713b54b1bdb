package service

import (
	"context"

	"dynotest/internal/apperr"
	"dynotest/internal/models"
	"dynotest/internal/repository"
)

type HistoryService interface {
	// List returns the caller's usage history, or everyone's when the
	// caller is an admin asking for all.
	List(ctx context.Context, session models.UserSession, all bool, limit int) ([]models.History, error)
	Record(ctx context.Context, history *models.History) error
}

type historyService struct {
	histories repository.HistoryRepository
}

func NewHistoryService(histories repository.HistoryRepository) HistoryService {
	return &historyService{histories: histories}
}

func (s *historyService) List(ctx context.Context, session models.UserSession, all bool, limit int) ([]models.History, error) {
	if all {
		if !session.Role.IsAdmin() {
			return nil, apperr.Forbidden("listing all histories requires admin access")
		}
		return s.histories.ListAll(ctx, limit)
	}
	return s.histories.ListByUser(ctx, session.ID, limit)
}

func (s *historyService) Record(ctx context.Context, history *models.History) error {
	return s.histories.Create(ctx, history)
}
