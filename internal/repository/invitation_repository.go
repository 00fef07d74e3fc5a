package repository

import (
	"context"
	"errors"

	"github.com/johnobriendev/tremendoServer/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type InvitationRepository struct {
	db *gorm.DB
}

type InvitationRepositoryInterface interface {
	Create(ctx context.Context, invitation *model.Invitation) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Invitation, error)
	GetPendingForBoard(ctx context.Context, boardID, inviteeID uuid.UUID) (*model.Invitation, error)
	GetPendingForUser(ctx context.Context, inviteeID uuid.UUID) ([]model.Invitation, error)
	Respond(ctx context.Context, id uuid.UUID, accept bool) (*model.Invitation, error)
}

var _ InvitationRepositoryInterface = (*InvitationRepository)(nil)

func NewInvitationRepository(db *gorm.DB) *InvitationRepository {
	return &InvitationRepository{db: db}
}

func (r *InvitationRepository) Create(ctx context.Context, invitation *model.Invitation) error {
	return r.db.WithContext(ctx).Create(invitation).Error
}

func (r *InvitationRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Invitation, error) {
	var invitation model.Invitation
	if err := r.db.WithContext(ctx).First(&invitation, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvitationNotFound
		}
		return nil, err
	}
	return &invitation, nil
}

// GetPendingForBoard returns the pending invitation for invitee on the
// board, or nil if there is none. Used to reject duplicate invites.
func (r *InvitationRepository) GetPendingForBoard(ctx context.Context, boardID, inviteeID uuid.UUID) (*model.Invitation, error) {
	var invitation model.Invitation
	err := r.db.WithContext(ctx).
		Where("board_id = ? AND invitee_id = ? AND status = ?", boardID, inviteeID, model.InvitationPending).
		First(&invitation).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &invitation, nil
}

// GetPendingForUser returns the invitations awaiting the user's response,
// with board and inviter info for display.
func (r *InvitationRepository) GetPendingForUser(ctx context.Context, inviteeID uuid.UUID) ([]model.Invitation, error) {
	var invitations []model.Invitation
	err := r.db.WithContext(ctx).
		Preload("Board").
		Preload("Inviter").
		Where("invitee_id = ? AND status = ?", inviteeID, model.InvitationPending).
		Order("created_at").
		Find(&invitations).Error
	return invitations, err
}

// Respond settles a pending invitation. The status change and the
// collaborator insert on acceptance happen in one transaction, and a
// decided invitation is never reopened.
func (r *InvitationRepository) Respond(ctx context.Context, id uuid.UUID, accept bool) (*model.Invitation, error) {
	var invitation model.Invitation
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&invitation, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrInvitationNotFound
			}
			return err
		}
		if invitation.Status != model.InvitationPending {
			return ErrInvitationDecided
		}

		if accept {
			invitation.Status = model.InvitationAccepted
		} else {
			invitation.Status = model.InvitationRejected
		}
		if err := tx.Save(&invitation).Error; err != nil {
			return err
		}

		if !accept {
			return nil
		}

		// Idempotent collaborator insert
		var existing model.Collaborator
		err := tx.Where("board_id = ? AND user_id = ?", invitation.BoardID, invitation.InviteeID).
			First(&existing).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		return tx.Create(&model.Collaborator{
			BoardID: invitation.BoardID,
			UserID:  invitation.InviteeID,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return &invitation, nil
}
