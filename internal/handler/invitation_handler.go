package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/johnobriendev/tremendoServer/internal/middleware"
	"github.com/johnobriendev/tremendoServer/internal/model"
	"github.com/johnobriendev/tremendoServer/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type InvitationHandler struct {
	invitationRepo repository.InvitationRepositoryInterface
	userRepo       repository.UserRepositoryInterface
	boardRepo      repository.BoardRepositoryInterface
	collRepo       repository.CollaboratorRepositoryInterface
}

func NewInvitationHandler(
	invitationRepo repository.InvitationRepositoryInterface,
	userRepo repository.UserRepositoryInterface,
	boardRepo repository.BoardRepositoryInterface,
	collRepo repository.CollaboratorRepositoryInterface,
) *InvitationHandler {
	return &InvitationHandler{
		invitationRepo: invitationRepo,
		userRepo:       userRepo,
		boardRepo:      boardRepo,
		collRepo:       collRepo,
	}
}

type InviteRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type RespondRequest struct {
	Accept *bool `json:"accept" binding:"required"`
}

type InvitationResponse struct {
	ID          string `json:"id"`
	BoardID     string `json:"board_id"`
	BoardName   string `json:"board_name,omitempty"`
	InviterID   string `json:"inviter_id"`
	InviterName string `json:"inviter_name,omitempty"`
	Status      string `json:"status"`
	CreatedAt   string `json:"created_at"`
}

// Invite sends a board invitation to a user identified by email. Owner
// only.
func (h *InvitationHandler) Invite(c *gin.Context) {
	userID, exists := c.Get(middleware.UserIDKey)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	authenticatedUserID, ok := userID.(uuid.UUID)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Invalid user ID format"})
		return
	}

	boardID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid board ID format"})
		return
	}

	var req InviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": bindingErrors(err)})
		return
	}

	board, err := h.boardRepo.GetByID(c.Request.Context(), boardID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve board"})
		return
	}
	if board == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Board not found"})
		return
	}

	isOwner, err := h.collRepo.IsOwner(c.Request.Context(), boardID, authenticatedUserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check ownership"})
		return
	}
	if !isOwner {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not authorized to invite users to this board"})
		return
	}

	invitee, err := h.userRepo.FindByEmail(c.Request.Context(), strings.ToLower(req.Email))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to look up user"})
		return
	}
	if invitee == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	pending, err := h.invitationRepo.GetPendingForBoard(c.Request.Context(), boardID, invitee.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check existing invitations"})
		return
	}
	if pending != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invitation already sent to this user"})
		return
	}

	invitation := &model.Invitation{
		BoardID:   boardID,
		InviterID: authenticatedUserID,
		InviteeID: invitee.ID,
		Status:    model.InvitationPending,
	}
	if err := h.invitationRepo.Create(c.Request.Context(), invitation); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create invitation"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Invitation sent successfully"})
}

// GetPending returns the caller's pending invitations.
func (h *InvitationHandler) GetPending(c *gin.Context) {
	userID, exists := c.Get(middleware.UserIDKey)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	authenticatedUserID, ok := userID.(uuid.UUID)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Invalid user ID format"})
		return
	}

	invitations, err := h.invitationRepo.GetPendingForUser(c.Request.Context(), authenticatedUserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve invitations"})
		return
	}

	response := make([]InvitationResponse, len(invitations))
	for i, invitation := range invitations {
		response[i] = InvitationResponse{
			ID:          invitation.ID.String(),
			BoardID:     invitation.BoardID.String(),
			BoardName:   invitation.Board.Name,
			InviterID:   invitation.InviterID.String(),
			InviterName: invitation.Inviter.Name,
			Status:      invitation.Status,
			CreatedAt:   invitation.CreatedAt.Format(time.RFC3339),
		}
	}
	c.JSON(http.StatusOK, response)
}

// Respond accepts or rejects an invitation. Invitee only; a decided
// invitation cannot be reopened.
func (h *InvitationHandler) Respond(c *gin.Context) {
	userID, exists := c.Get(middleware.UserIDKey)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	authenticatedUserID, ok := userID.(uuid.UUID)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Invalid user ID format"})
		return
	}

	invitationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid invitation ID format"})
		return
	}

	var req RespondRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": bindingErrors(err)})
		return
	}

	invitation, err := h.invitationRepo.GetByID(c.Request.Context(), invitationID)
	if err != nil {
		if errors.Is(err, repository.ErrInvitationNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Invitation not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve invitation"})
		}
		return
	}

	if invitation.InviteeID != authenticatedUserID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not authorized to respond to this invitation"})
		return
	}

	accept := *req.Accept
	if _, err := h.invitationRepo.Respond(c.Request.Context(), invitationID, accept); err != nil {
		switch {
		case errors.Is(err, repository.ErrInvitationDecided):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invitation has already been responded to"})
		case errors.Is(err, repository.ErrInvitationNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Invitation not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to respond to invitation"})
		}
		return
	}

	if accept {
		c.JSON(http.StatusOK, gin.H{"message": "Invitation accepted successfully"})
	} else {
		c.JSON(http.StatusOK, gin.H{"message": "Invitation rejected successfully"})
	}
}
