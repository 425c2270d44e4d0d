package service

import (
	"coursehub_backend/internal/model"
	"coursehub_backend/internal/repository"
	"coursehub_backend/internal/util"
)

type WishlistService struct {
	Repo *repository.WishlistRepository
}

func NewWishlistService(repo *repository.WishlistRepository) *WishlistService {
	return &WishlistService{Repo: repo}
}

func (s *WishlistService) List(userID uint) ([]model.WishlistItem, error) {
	return s.Repo.ListByUser(userID)
}

func (s *WishlistService) Add(userID uint, courseID string) (*model.WishlistItem, error) {
	exists, err := s.Repo.Exists(userID, courseID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, util.ErrAlreadyWishlisted
	}

	item := &model.WishlistItem{
		UserID:   userID,
		CourseID: courseID,
	}
	if err := s.Repo.Add(item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *WishlistService) Remove(userID uint, courseID string) error {
	err := s.Repo.Remove(userID, courseID)
	if repository.IsNotFound(err) {
		return util.ErrWishlistItemNotFound
	}
	return err
}
