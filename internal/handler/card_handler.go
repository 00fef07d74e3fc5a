package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/johnobriendev/tremendoServer/internal/middleware"
	"github.com/johnobriendev/tremendoServer/internal/model"
	"github.com/johnobriendev/tremendoServer/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CardHandler struct {
	cardRepo repository.CardRepositoryInterface
	collRepo repository.CollaboratorRepositoryInterface
}

func NewCardHandler(
	cardRepo repository.CardRepositoryInterface,
	collRepo repository.CollaboratorRepositoryInterface,
) *CardHandler {
	return &CardHandler{
		cardRepo: cardRepo,
		collRepo: collRepo,
	}
}

type CardRequest struct {
	ListID      string `json:"list_id" binding:"required,uuid"`
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Position    *int   `json:"position"`
}

// CardUpdateRequest carries partial field updates. A position or list
// change triggers the reposition path.
type CardUpdateRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Position    *int    `json:"position"`
	ListID      *string `json:"list_id" binding:"omitempty,uuid"`
}

// BatchCardMove is one move of a batch reposition request.
type BatchCardMove struct {
	ID       string  `json:"id" binding:"required,uuid"`
	Position *int    `json:"position" binding:"required"`
	ListID   *string `json:"list_id" binding:"omitempty,uuid"`
}

// BatchCardsRequest is a whole-board position assignment: every affected
// card with its final position and list.
type BatchCardsRequest struct {
	BoardID string          `json:"board_id" binding:"required,uuid"`
	Cards   []BatchCardMove `json:"cards" binding:"required,min=1,dive"`
}

type CommentResponse struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	UserID    string `json:"user_id"`
	UserName  string `json:"user_name,omitempty"`
	CreatedAt string `json:"created_at"`
}

type CardResponse struct {
	ID          string            `json:"id"`
	BoardID     string            `json:"board_id"`
	ListID      string            `json:"list_id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Position    int               `json:"position"`
	Comments    []CommentResponse `json:"comments"`
	CreatedAt   string            `json:"created_at"`
	UpdatedAt   string            `json:"updated_at"`
}

func cardResponse(card *model.Card) CardResponse {
	comments := make([]CommentResponse, len(card.Comments))
	for i, comment := range card.Comments {
		comments[i] = CommentResponse{
			ID:        comment.ID.String(),
			Text:      comment.Text,
			UserID:    comment.UserID.String(),
			UserName:  comment.User.Name,
			CreatedAt: comment.CreatedAt.Format(time.RFC3339),
		}
	}
	return CardResponse{
		ID:          card.ID.String(),
		BoardID:     card.BoardID.String(),
		ListID:      card.ListID.String(),
		Name:        card.Name,
		Description: card.Description,
		Position:    card.Position,
		Comments:    comments,
		CreatedAt:   card.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   card.UpdatedAt.Format(time.RFC3339),
	}
}

// Create adds a card to a list of the board.
func (h *CardHandler) Create(c *gin.Context) {
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

	var req CardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": bindingErrors(err)})
		return
	}

	hasAccess, err := h.collRepo.CheckAccess(c.Request.Context(), boardID, authenticatedUserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check access"})
		return
	}
	if !hasAccess {
		c.JSON(http.StatusForbidden, gin.H{"error": "You don't have permission to create cards on this board"})
		return
	}

	listID, err := uuid.Parse(req.ListID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid list ID format"})
		return
	}

	position := 0
	if req.Position != nil {
		position = *req.Position
	} else {
		// Append at the end of the list
		existing, err := h.cardRepo.GetByListID(c.Request.Context(), listID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve cards"})
			return
		}
		position = len(existing)
	}

	card := &model.Card{
		BoardID:     boardID,
		ListID:      listID,
		Name:        req.Name,
		Description: req.Description,
		Position:    position,
	}

	if err := h.cardRepo.Create(c.Request.Context(), card); err != nil {
		switch {
		case errors.Is(err, repository.ErrListNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "List not found"})
		case errors.Is(err, repository.ErrListNotInBoard):
			c.JSON(http.StatusBadRequest, gin.H{"error": "List does not belong to this board"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create card"})
		}
		return
	}

	c.JSON(http.StatusCreated, cardResponse(card))
}

// GetByBoardID returns every card of a board with comments.
func (h *CardHandler) GetByBoardID(c *gin.Context) {
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

	hasAccess, err := h.collRepo.CheckAccess(c.Request.Context(), boardID, authenticatedUserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check access"})
		return
	}
	if !hasAccess {
		c.JSON(http.StatusForbidden, gin.H{"error": "You don't have permission to view this board"})
		return
	}

	cards, err := h.cardRepo.GetByBoardID(c.Request.Context(), boardID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve cards"})
		return
	}

	response := make([]CardResponse, len(cards))
	for i := range cards {
		response[i] = cardResponse(&cards[i])
	}
	c.JSON(http.StatusOK, response)
}

// GetByID returns one card with its comments.
func (h *CardHandler) GetByID(c *gin.Context) {
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

	cardID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid card ID format"})
		return
	}

	card, err := h.cardRepo.GetByID(c.Request.Context(), cardID)
	if err != nil {
		if errors.Is(err, repository.ErrCardNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Card not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve card"})
		}
		return
	}

	hasAccess, err := h.collRepo.CheckAccess(c.Request.Context(), card.BoardID, authenticatedUserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check access"})
		return
	}
	if !hasAccess {
		c.JSON(http.StatusForbidden, gin.H{"error": "You don't have permission to view this card"})
		return
	}

	c.JSON(http.StatusOK, cardResponse(card))
}

// Update applies field changes to one card. When the request carries a
// position or list change the card is repositioned and every touched list
// is renumbered to a dense 0-based ordering.
func (h *CardHandler) Update(c *gin.Context) {
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

	cardID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid card ID format"})
		return
	}

	var req CardUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": bindingErrors(err)})
		return
	}

	card, err := h.cardRepo.GetByID(c.Request.Context(), cardID)
	if err != nil {
		if errors.Is(err, repository.ErrCardNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Card not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve card"})
		}
		return
	}

	hasAccess, err := h.collRepo.CheckAccess(c.Request.Context(), card.BoardID, authenticatedUserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check access"})
		return
	}
	if !hasAccess {
		c.JSON(http.StatusForbidden, gin.H{"error": "You don't have permission to modify this card"})
		return
	}

	if req.Name != nil || req.Description != nil {
		if req.Name != nil {
			card.Name = *req.Name
		}
		if req.Description != nil {
			card.Description = *req.Description
		}
		if err := h.cardRepo.Update(c.Request.Context(), card); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update card"})
			return
		}
	}

	if req.Position != nil || req.ListID != nil {
		position := card.Position
		if req.Position != nil {
			position = *req.Position
		}

		var listID *uuid.UUID
		if req.ListID != nil {
			parsed, err := uuid.Parse(*req.ListID)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid list ID format"})
				return
			}
			listID = &parsed
		}

		card, err = h.cardRepo.Reposition(c.Request.Context(), cardID, position, listID)
		if err != nil {
			switch {
			case errors.Is(err, repository.ErrCardNotFound):
				c.JSON(http.StatusNotFound, gin.H{"error": "Card not found"})
			case errors.Is(err, repository.ErrListNotFound):
				c.JSON(http.StatusNotFound, gin.H{"error": "List not found"})
			case errors.Is(err, repository.ErrListNotInBoard):
				c.JSON(http.StatusBadRequest, gin.H{"error": "List does not belong to the card's board"})
			default:
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reposition card"})
			}
			return
		}
	}

	c.JSON(http.StatusOK, cardResponse(card))
}

// UpdateBatch applies a set of card moves for one board as a single
// all-or-nothing transaction and returns the updated cards in request
// order.
func (h *CardHandler) UpdateBatch(c *gin.Context) {
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

	var req BatchCardsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": bindingErrors(err)})
		return
	}

	boardID, err := uuid.Parse(req.BoardID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid board ID format"})
		return
	}

	hasAccess, err := h.collRepo.CheckAccess(c.Request.Context(), boardID, authenticatedUserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check access"})
		return
	}
	if !hasAccess {
		c.JSON(http.StatusForbidden, gin.H{"error": "You don't have permission to modify this board"})
		return
	}

	moves := make([]repository.CardMove, len(req.Cards))
	for i, entry := range req.Cards {
		cardID, err := uuid.Parse(entry.ID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid card ID format"})
			return
		}
		moves[i] = repository.CardMove{ID: cardID, Position: *entry.Position}
		if entry.ListID != nil {
			listID, err := uuid.Parse(*entry.ListID)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid list ID format"})
				return
			}
			moves[i].ListID = &listID
		}
	}

	cards, err := h.cardRepo.RepositionBatch(c.Request.Context(), boardID, moves)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrCardsNotInBoard), errors.Is(err, repository.ErrListNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, repository.ErrListNotInBoard):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"message": "Error updating cards",
				"error":   err.Error(),
			})
		}
		return
	}

	response := make([]CardResponse, len(cards))
	for i := range cards {
		response[i] = cardResponse(&cards[i])
	}
	c.JSON(http.StatusOK, response)
}

// Delete removes a card and renumbers its list.
func (h *CardHandler) Delete(c *gin.Context) {
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

	cardID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid card ID format"})
		return
	}

	card, err := h.cardRepo.GetByID(c.Request.Context(), cardID)
	if err != nil {
		if errors.Is(err, repository.ErrCardNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Card not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve card"})
		}
		return
	}

	hasAccess, err := h.collRepo.CheckAccess(c.Request.Context(), card.BoardID, authenticatedUserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check access"})
		return
	}
	if !hasAccess {
		c.JSON(http.StatusForbidden, gin.H{"error": "You don't have permission to delete this card"})
		return
	}

	if err := h.cardRepo.Delete(c.Request.Context(), cardID); err != nil {
		if errors.Is(err, repository.ErrCardNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Card not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete card"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Card removed"})
}

type commentRequest struct {
	Text string `json:"text" binding:"required"`
}

// AddComment appends a comment to a card, attributed to the caller.
func (h *CardHandler) AddComment(c *gin.Context) {
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

	cardID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid card ID format"})
		return
	}

	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": bindingErrors(err)})
		return
	}

	card, err := h.cardRepo.GetByID(c.Request.Context(), cardID)
	if err != nil {
		if errors.Is(err, repository.ErrCardNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Card not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve card"})
		}
		return
	}

	hasAccess, err := h.collRepo.CheckAccess(c.Request.Context(), card.BoardID, authenticatedUserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check access"})
		return
	}
	if !hasAccess {
		c.JSON(http.StatusForbidden, gin.H{"error": "You don't have permission to comment on this card"})
		return
	}

	card, err = h.cardRepo.AddComment(c.Request.Context(), cardID, authenticatedUserID, req.Text)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add comment"})
		return
	}

	c.JSON(http.StatusOK, cardResponse(card))
}

// DeleteComment removes a comment. Only the comment's author or the board
// owner may do this.
func (h *CardHandler) DeleteComment(c *gin.Context) {
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

	cardID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid card ID format"})
		return
	}

	commentID, err := uuid.Parse(c.Param("commentId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid comment ID format"})
		return
	}

	card, err := h.cardRepo.GetByID(c.Request.Context(), cardID)
	if err != nil {
		if errors.Is(err, repository.ErrCardNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Card not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve card"})
		}
		return
	}

	hasAccess, err := h.collRepo.CheckAccess(c.Request.Context(), card.BoardID, authenticatedUserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check access"})
		return
	}
	if !hasAccess {
		c.JSON(http.StatusForbidden, gin.H{"error": "You don't have permission to access this card"})
		return
	}

	comment, err := h.cardRepo.GetComment(c.Request.Context(), commentID)
	if err != nil {
		if errors.Is(err, repository.ErrCommentNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Comment not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve comment"})
		}
		return
	}

	isOwner, err := h.collRepo.IsOwner(c.Request.Context(), card.BoardID, authenticatedUserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check ownership"})
		return
	}
	if comment.UserID != authenticatedUserID && !isOwner {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not authorized to delete this comment"})
		return
	}

	if err := h.cardRepo.DeleteComment(c.Request.Context(), cardID, commentID); err != nil {
		if errors.Is(err, repository.ErrCommentNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Comment not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete comment"})
		}
		return
	}

	card, err = h.cardRepo.GetByID(c.Request.Context(), cardID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve card"})
		return
	}

	c.JSON(http.StatusOK, cardResponse(card))
}
