package repository

import (
	"context"
	"errors"
	"time"

	"github.com/johnobriendev/tremendoServer/internal/encryption"
	"github.com/johnobriendev/tremendoServer/internal/model"
	"github.com/johnobriendev/tremendoServer/internal/ordering"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CardMove is one entry of a batch reposition: the card, its new position
// and, when the card changes lists, the destination list.
type CardMove struct {
	ID       uuid.UUID
	Position int
	ListID   *uuid.UUID
}

type CardRepository struct {
	db  *gorm.DB
	enc *encryption.Encryptor
}

type CardRepositoryInterface interface {
	Create(ctx context.Context, card *model.Card) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Card, error)
	GetByBoardID(ctx context.Context, boardID uuid.UUID) ([]model.Card, error)
	GetByListID(ctx context.Context, listID uuid.UUID) ([]model.Card, error)
	Update(ctx context.Context, card *model.Card) error
	Reposition(ctx context.Context, id uuid.UUID, position int, listID *uuid.UUID) (*model.Card, error)
	RepositionBatch(ctx context.Context, boardID uuid.UUID, moves []CardMove) ([]model.Card, error)
	Delete(ctx context.Context, id uuid.UUID) error
	AddComment(ctx context.Context, cardID, userID uuid.UUID, text string) (*model.Card, error)
	GetComment(ctx context.Context, commentID uuid.UUID) (*model.Comment, error)
	DeleteComment(ctx context.Context, cardID, commentID uuid.UUID) error
}

var _ CardRepositoryInterface = (*CardRepository)(nil)

func NewCardRepository(db *gorm.DB, enc *encryption.Encryptor) *CardRepository {
	return &CardRepository{db: db, enc: enc}
}

// Create inserts the card at its requested position (clamped) in its list
// and renumbers that list. The list/board pairing is verified first so a
// card can never reference a list of another board.
func (r *CardRepository) Create(ctx context.Context, card *model.Card) error {
	if err := r.checkListInBoard(r.db.WithContext(ctx), card.ListID, card.BoardID); err != nil {
		return err
	}

	encrypted, err := r.enc.Encrypt(card.Description)
	if err != nil {
		return err
	}
	stored := *card
	stored.Description = encrypted

	if err := r.db.WithContext(ctx).Create(&stored).Error; err != nil {
		return err
	}
	card.ID = stored.ID
	card.CreatedAt = stored.CreatedAt
	card.UpdatedAt = stored.UpdatedAt

	if err := r.placeInList(ctx, card.ListID, stored); err != nil {
		return err
	}

	updated, err := r.GetByID(ctx, card.ID)
	if err != nil {
		return err
	}
	*card = *updated
	return nil
}

// GetByID retrieves a card with its comments, in comment creation order.
func (r *CardRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Card, error) {
	var card model.Card
	result := r.db.WithContext(ctx).
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at, id")
		}).
		Preload("Comments.User").
		First(&card, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrCardNotFound
		}
		return nil, result.Error
	}
	r.decryptCard(&card)
	return &card, nil
}

// GetByBoardID retrieves every card of a board with comments, the shape
// the client needs to render a full board.
func (r *CardRepository) GetByBoardID(ctx context.Context, boardID uuid.UUID) ([]model.Card, error) {
	var cards []model.Card
	result := r.db.WithContext(ctx).
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at, id")
		}).
		Preload("Comments.User").
		Where("board_id = ?", boardID).
		Order("position, created_at, id").
		Find(&cards)
	if result.Error != nil {
		return nil, result.Error
	}
	for i := range cards {
		r.decryptCard(&cards[i])
	}
	return cards, nil
}

// GetByListID retrieves all cards in a list in display order.
func (r *CardRepository) GetByListID(ctx context.Context, listID uuid.UUID) ([]model.Card, error) {
	var cards []model.Card
	result := r.db.WithContext(ctx).
		Where("list_id = ?", listID).
		Order("position, created_at, id").
		Find(&cards)
	if result.Error != nil {
		return nil, result.Error
	}
	for i := range cards {
		r.decryptCard(&cards[i])
	}
	return cards, nil
}

// Update saves the card's fields. Position and list changes go through
// Reposition, not here.
func (r *CardRepository) Update(ctx context.Context, card *model.Card) error {
	encrypted, err := r.enc.Encrypt(card.Description)
	if err != nil {
		return err
	}
	stored := *card
	stored.Description = encrypted
	stored.Comments = nil
	stored.UpdatedAt = time.Now()

	result := r.db.WithContext(ctx).Omit("Comments", "Board", "List").Save(&stored)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCardNotFound
	}
	card.UpdatedAt = stored.UpdatedAt
	return nil
}

// Reposition moves one card to a new position and optionally a new list,
// then renumbers every list it touched. The card's own write lands first
// and is never rolled back; the per-list renumbering that follows is a
// sequence of independent writes, so a failure partway can leave one list
// renumbered and the other not. The batch path is the atomic one.
func (r *CardRepository) Reposition(ctx context.Context, id uuid.UUID, position int, listID *uuid.UUID) (*model.Card, error) {
	var card model.Card
	if err := r.db.WithContext(ctx).First(&card, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCardNotFound
		}
		return nil, err
	}

	originListID := card.ListID
	destinationListID := originListID
	if listID != nil {
		destinationListID = *listID
	}

	// A card may only move to a list of its own board, checked before
	// the primary write so a mismatch mutates nothing.
	if destinationListID != originListID {
		if err := r.checkListInBoard(r.db.WithContext(ctx), destinationListID, card.BoardID); err != nil {
			return nil, err
		}
	}

	// Primary write: the card's new slot.
	card.ListID = destinationListID
	card.Position = position
	card.UpdatedAt = time.Now()
	if err := r.db.WithContext(ctx).Omit("Comments", "Board", "List").Save(&card).Error; err != nil {
		return nil, err
	}

	// Renumber the destination list with the moved card at the clamped
	// requested index, then the origin list if the card left it.
	if err := r.placeInList(ctx, destinationListID, card); err != nil {
		return nil, err
	}
	if originListID != destinationListID {
		if err := r.resequenceList(ctx, originListID); err != nil {
			return nil, err
		}
	}

	return r.GetByID(ctx, id)
}

// RepositionBatch applies a full set of card moves for one board
// atomically. Every referenced card must belong to the board and every
// target list must belong to the board; any violation, or any failed
// write, aborts the whole transaction and no partial state becomes
// visible. Unlike Reposition this path does not renumber lists: the
// caller supplies the complete position assignment for every affected
// list, typically from a whole-board drag-and-drop.
func (r *CardRepository) RepositionBatch(ctx context.Context, boardID uuid.UUID, moves []CardMove) ([]model.Card, error) {
	ids := make([]uuid.UUID, len(moves))
	for i, move := range moves {
		ids[i] = move.ID
	}

	updated := make([]model.Card, len(moves))
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cards []model.Card
		if err := tx.Where("board_id = ? AND id IN ?", boardID, ids).Find(&cards).Error; err != nil {
			return err
		}
		if len(cards) != len(moves) {
			return ErrCardsNotInBoard
		}

		byID := make(map[uuid.UUID]model.Card, len(cards))
		for _, card := range cards {
			byID[card.ID] = card
		}

		now := time.Now()
		for i, move := range moves {
			card := byID[move.ID]
			card.Position = move.Position
			if move.ListID != nil && *move.ListID != card.ListID {
				if err := r.checkListInBoard(tx, *move.ListID, boardID); err != nil {
					return err
				}
				card.ListID = *move.ListID
			}
			card.UpdatedAt = now

			if err := tx.Model(&model.Card{}).Where("id = ?", card.ID).
				Updates(map[string]interface{}{
					"position":   card.Position,
					"list_id":    card.ListID,
					"updated_at": card.UpdatedAt,
				}).Error; err != nil {
				return err
			}
			updated[i] = card
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for i := range updated {
		r.decryptCard(&updated[i])
	}
	return updated, nil
}

// Delete removes the card and its comments, then renumbers its list.
func (r *CardRepository) Delete(ctx context.Context, id uuid.UUID) error {
	var card model.Card
	if err := r.db.WithContext(ctx).First(&card, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCardNotFound
		}
		return err
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("card_id = ?", id).Delete(&model.Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Card{}, "id = ?", id).Error
	})
	if err != nil {
		return err
	}

	return r.resequenceList(ctx, card.ListID)
}

// AddComment appends a comment authored by userID and returns the card
// with its comments.
func (r *CardRepository) AddComment(ctx context.Context, cardID, userID uuid.UUID, text string) (*model.Card, error) {
	var card model.Card
	if err := r.db.WithContext(ctx).First(&card, "id = ?", cardID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCardNotFound
		}
		return nil, err
	}

	encrypted, err := r.enc.Encrypt(text)
	if err != nil {
		return nil, err
	}
	comment := model.Comment{
		CardID: cardID,
		UserID: userID,
		Text:   encrypted,
	}
	if err := r.db.WithContext(ctx).Create(&comment).Error; err != nil {
		return nil, err
	}

	if err := r.db.WithContext(ctx).Model(&model.Card{}).
		Where("id = ?", cardID).
		Update("updated_at", time.Now()).Error; err != nil {
		return nil, err
	}

	return r.GetByID(ctx, cardID)
}

func (r *CardRepository) GetComment(ctx context.Context, commentID uuid.UUID) (*model.Comment, error) {
	var comment model.Comment
	if err := r.db.WithContext(ctx).First(&comment, "id = ?", commentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, err
	}
	comment.Text = r.enc.Decrypt(comment.Text)
	return &comment, nil
}

// DeleteComment removes one comment from a card. Authorization (author or
// board owner) is the handler's concern.
func (r *CardRepository) DeleteComment(ctx context.Context, cardID, commentID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND card_id = ?", commentID, cardID).
		Delete(&model.Comment{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCommentNotFound
	}
	return nil
}

// checkListInBoard enforces the cross-entity invariant: a card's list
// must belong to the card's board.
func (r *CardRepository) checkListInBoard(db *gorm.DB, listID, boardID uuid.UUID) error {
	var list model.List
	if err := db.Select("id", "board_id").First(&list, "id = ?", listID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrListNotFound
		}
		return err
	}
	if list.BoardID != boardID {
		return ErrListNotInBoard
	}
	return nil
}

// placeInList rewrites the list's card positions with moved at its
// clamped requested index; existing members shift down.
func (r *CardRepository) placeInList(ctx context.Context, listID uuid.UUID, moved model.Card) error {
	refs, err := r.listRefs(ctx, listID)
	if err != nil {
		return err
	}
	positions := ordering.Place(refs, ordering.Ref{ID: moved.ID, Position: moved.Position, CreatedAt: moved.CreatedAt}, moved.Position)
	return r.applyPositions(ctx, refs, positions, moved.ID)
}

// resequenceList rewrites the list's card positions to a dense 0-based
// ordering.
func (r *CardRepository) resequenceList(ctx context.Context, listID uuid.UUID) error {
	refs, err := r.listRefs(ctx, listID)
	if err != nil {
		return err
	}
	return r.applyPositions(ctx, refs, ordering.Normalize(refs), uuid.Nil)
}

func (r *CardRepository) listRefs(ctx context.Context, listID uuid.UUID) ([]ordering.Ref, error) {
	var cards []model.Card
	if err := r.db.WithContext(ctx).
		Select("id", "position", "created_at").
		Where("list_id = ?", listID).
		Find(&cards).Error; err != nil {
		return nil, err
	}

	refs := make([]ordering.Ref, len(cards))
	for i, card := range cards {
		refs[i] = ordering.Ref{ID: card.ID, Position: card.Position, CreatedAt: card.CreatedAt}
	}
	return refs, nil
}

// applyPositions writes the positions that changed, one update per card.
func (r *CardRepository) applyPositions(ctx context.Context, refs []ordering.Ref, positions map[uuid.UUID]int, moved uuid.UUID) error {
	current := make(map[uuid.UUID]int, len(refs))
	for _, ref := range refs {
		current[ref.ID] = ref.Position
	}

	for id, position := range positions {
		if id != moved {
			if existing, ok := current[id]; ok && existing == position {
				continue
			}
		}
		if err := r.db.WithContext(ctx).Model(&model.Card{}).
			Where("id = ?", id).
			Update("position", position).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *CardRepository) decryptCard(card *model.Card) {
	card.Description = r.enc.Decrypt(card.Description)
	for i := range card.Comments {
		card.Comments[i].Text = r.enc.Decrypt(card.Comments[i].Text)
	}
}
