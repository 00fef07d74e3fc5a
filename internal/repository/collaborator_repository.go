package repository

import (
	"context"
	"errors"

	"github.com/johnobriendev/tremendoServer/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CollaboratorRepository is the board-membership gate: every board-scoped
// operation asks it whether the caller is the owner or a collaborator.
type CollaboratorRepository struct {
	db *gorm.DB
}

type CollaboratorRepositoryInterface interface {
	Add(ctx context.Context, boardID, userID uuid.UUID) error
	Remove(ctx context.Context, boardID, userID uuid.UUID) error
	GetBoardCollaborators(ctx context.Context, boardID uuid.UUID) ([]model.Collaborator, error)
	GetSharedBoards(ctx context.Context, userID uuid.UUID) ([]model.Board, error)
	CheckAccess(ctx context.Context, boardID, userID uuid.UUID) (bool, error)
	IsOwner(ctx context.Context, boardID, userID uuid.UUID) (bool, error)
}

var _ CollaboratorRepositoryInterface = (*CollaboratorRepository)(nil)

func NewCollaboratorRepository(db *gorm.DB) *CollaboratorRepository {
	return &CollaboratorRepository{db: db}
}

// Add records userID as a collaborator on boardID. Adding an existing
// collaborator is a no-op, so invitation acceptance is idempotent.
func (r *CollaboratorRepository) Add(ctx context.Context, boardID, userID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing model.Collaborator
		err := tx.Where("board_id = ? AND user_id = ?", boardID, userID).First(&existing).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		return tx.Create(&model.Collaborator{BoardID: boardID, UserID: userID}).Error
	})
}

func (r *CollaboratorRepository) Remove(ctx context.Context, boardID, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("board_id = ? AND user_id = ?", boardID, userID).
		Delete(&model.Collaborator{}).Error
}

// GetBoardCollaborators returns the users sharing the board.
func (r *CollaboratorRepository) GetBoardCollaborators(ctx context.Context, boardID uuid.UUID) ([]model.Collaborator, error) {
	var collaborators []model.Collaborator

	err := r.db.WithContext(ctx).
		Preload("User").
		Where("board_id = ?", boardID).
		Find(&collaborators).Error

	return collaborators, err
}

// GetSharedBoards returns the boards shared with the user.
func (r *CollaboratorRepository) GetSharedBoards(ctx context.Context, userID uuid.UUID) ([]model.Board, error) {
	var boards []model.Board

	err := r.db.WithContext(ctx).
		Joins("JOIN collaborators ON collaborators.board_id = boards.id").
		Where("collaborators.user_id = ?", userID).
		Find(&boards).Error

	return boards, err
}

// CheckAccess reports whether the user may read and write the board,
// which is true for the owner and for any collaborator.
func (r *CollaboratorRepository) CheckAccess(ctx context.Context, boardID, userID uuid.UUID) (bool, error) {
	// The owner always has full access
	var board model.Board
	err := r.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", boardID, userID).
		First(&board).Error
	if err == nil {
		return true, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}

	var collaborator model.Collaborator
	err = r.db.WithContext(ctx).
		Where("board_id = ? AND user_id = ?", boardID, userID).
		First(&collaborator).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// IsOwner reports whether the user owns the board. Deleting a board and
// inviting collaborators are owner-only operations.
func (r *CollaboratorRepository) IsOwner(ctx context.Context, boardID, userID uuid.UUID) (bool, error) {
	var board model.Board
	err := r.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", boardID, userID).
		First(&board).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
