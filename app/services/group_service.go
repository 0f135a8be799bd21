package services

import (
	"fmt"

	"yatube/app/models"
	"yatube/app/repositories"
)

// GroupService manages the topical groups posts are filed under
type GroupService struct {
	groupRepo repositories.GroupRepository
}

// NewGroupService creates a new GroupService
func NewGroupService(groupRepo repositories.GroupRepository) *GroupService {
	return &GroupService{groupRepo: groupRepo}
}

// CreateGroup validates and stores a new group. A taken slug returns
// repositories.ErrDuplicate.
func (s *GroupService) CreateGroup(slug, title, description string) (*models.Group, error) {
	group := &models.Group{
		Slug:        slug,
		Title:       title,
		Description: description,
	}
	if err := group.Validate(); err != nil {
		return nil, fmt.Errorf("invalid group: %w", err)
	}

	if err := s.groupRepo.Create(group); err != nil {
		return nil, err
	}
	return group, nil
}

// GetGroup retrieves a group by slug
func (s *GroupService) GetGroup(slug string) (*models.Group, error) {
	return s.groupRepo.GetBySlug(slug)
}

// ListGroups returns every group ordered by title
func (s *GroupService) ListGroups() ([]*models.Group, error) {
	return s.groupRepo.List()
}

// DeleteGroup removes a group. Its posts stay, without a group.
func (s *GroupService) DeleteGroup(slug string) error {
	group, err := s.groupRepo.GetBySlug(slug)
	if err != nil {
		return err
	}
	return s.groupRepo.Delete(group.ID)
}
