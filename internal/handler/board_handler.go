package handler

import (
	"net/http"
	"time"

	"github.com/johnobriendev/tremendoServer/internal/middleware"
	"github.com/johnobriendev/tremendoServer/internal/model"
	"github.com/johnobriendev/tremendoServer/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type BoardHandler struct {
	boardRepo repository.BoardRepositoryInterface
	collRepo  repository.CollaboratorRepositoryInterface
}

func NewBoardHandler(boardRepo repository.BoardRepositoryInterface, collRepo repository.CollaboratorRepositoryInterface) *BoardHandler {
	return &BoardHandler{boardRepo: boardRepo, collRepo: collRepo}
}

type BoardRequest struct {
	Name            string  `json:"name" binding:"required"`
	Description     string  `json:"description"`
	IsPrivate       *bool   `json:"is_private"`
	BackgroundColor *string `json:"background_color"`
}

type BoardResponse struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Description     string `json:"description"`
	IsPrivate       bool   `json:"is_private"`
	BackgroundColor string `json:"background_color"`
	OwnerID         string `json:"owner_id"`
	CreatedAt       string `json:"created_at"`
	UpdatedAt       string `json:"updated_at"`
}

func boardResponse(board *model.Board) BoardResponse {
	return BoardResponse{
		ID:              board.ID.String(),
		Name:            board.Name,
		Description:     board.Description,
		IsPrivate:       board.IsPrivate,
		BackgroundColor: board.BackgroundColor,
		OwnerID:         board.OwnerID.String(),
		CreatedAt:       board.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       board.UpdatedAt.Format(time.RFC3339),
	}
}

// Create creates a board owned by the caller.
func (h *BoardHandler) Create(c *gin.Context) {
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

	var req BoardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": bindingErrors(err)})
		return
	}

	board := &model.Board{
		Name:        req.Name,
		Description: req.Description,
		OwnerID:     authenticatedUserID,
		IsPrivate:   true,
	}
	if req.IsPrivate != nil {
		board.IsPrivate = *req.IsPrivate
	}
	if req.BackgroundColor != nil {
		board.BackgroundColor = *req.BackgroundColor
	} else {
		board.BackgroundColor = "#ffffff"
	}

	if err := h.boardRepo.Create(c.Request.Context(), board); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create board"})
		return
	}

	c.JSON(http.StatusCreated, boardResponse(board))
}

// GetAll returns the boards the caller owns plus the boards shared with
// them.
func (h *BoardHandler) GetAll(c *gin.Context) {
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

	owned, err := h.boardRepo.GetOwned(c.Request.Context(), authenticatedUserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve boards"})
		return
	}

	shared, err := h.collRepo.GetSharedBoards(c.Request.Context(), authenticatedUserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve shared boards"})
		return
	}

	response := make([]BoardResponse, 0, len(owned)+len(shared))
	for i := range owned {
		response = append(response, boardResponse(&owned[i]))
	}
	for i := range shared {
		response = append(response, boardResponse(&shared[i]))
	}

	c.JSON(http.StatusOK, response)
}

// GetByID returns one board; the caller must be its owner or a
// collaborator.
func (h *BoardHandler) GetByID(c *gin.Context) {
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

	board, err := h.boardRepo.GetByID(c.Request.Context(), boardID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve board"})
		return
	}
	if board == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Board not found"})
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

	c.JSON(http.StatusOK, boardResponse(board))
}

// Update modifies board fields; the caller must be its owner or a
// collaborator. Ownership never changes.
func (h *BoardHandler) Update(c *gin.Context) {
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

	var req BoardRequest
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

	hasAccess, err := h.collRepo.CheckAccess(c.Request.Context(), boardID, authenticatedUserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check access"})
		return
	}
	if !hasAccess {
		c.JSON(http.StatusForbidden, gin.H{"error": "You don't have permission to update this board"})
		return
	}

	board.Name = req.Name
	board.Description = req.Description
	if req.IsPrivate != nil {
		board.IsPrivate = *req.IsPrivate
	}
	if req.BackgroundColor != nil {
		board.BackgroundColor = *req.BackgroundColor
	}

	if err := h.boardRepo.Update(c.Request.Context(), board); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update board"})
		return
	}

	c.JSON(http.StatusOK, boardResponse(board))
}

// Delete removes a board and everything under it. Owner only.
func (h *BoardHandler) Delete(c *gin.Context) {
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
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the board owner can delete a board"})
		return
	}

	if err := h.boardRepo.Delete(c.Request.Context(), boardID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete board"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Board removed"})
}
