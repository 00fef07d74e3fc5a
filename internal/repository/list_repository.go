package repository

import (
	"context"
	"errors"
	"time"

	"github.com/johnobriendev/tremendoServer/internal/model"
	"github.com/johnobriendev/tremendoServer/internal/ordering"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ListRepository struct {
	db *gorm.DB
}

type ListRepositoryInterface interface {
	Create(ctx context.Context, list *model.List) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.List, error)
	GetByBoardID(ctx context.Context, boardID uuid.UUID) ([]model.List, error)
	Update(ctx context.Context, list *model.List) error
	Reposition(ctx context.Context, id uuid.UUID, position int) (*model.List, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

var _ ListRepositoryInterface = (*ListRepository)(nil)

func NewListRepository(db *gorm.DB) *ListRepository {
	return &ListRepository{db: db}
}

// Create inserts the list at its requested position (clamped) and
// renumbers the board's lists to a dense ordering.
func (r *ListRepository) Create(ctx context.Context, list *model.List) error {
	if err := r.db.WithContext(ctx).Create(list).Error; err != nil {
		return err
	}
	return r.placeInBoard(ctx, list.BoardID, *list)
}

func (r *ListRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.List, error) {
	var list model.List
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&list).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrListNotFound
		}
		return nil, err
	}
	return &list, nil
}

// GetByBoardID returns the board's lists in display order.
func (r *ListRepository) GetByBoardID(ctx context.Context, boardID uuid.UUID) ([]model.List, error) {
	var lists []model.List
	err := r.db.WithContext(ctx).
		Where("board_id = ?", boardID).
		Order("position, created_at, id").
		Find(&lists).Error
	return lists, err
}

func (r *ListRepository) Update(ctx context.Context, list *model.List) error {
	return r.db.WithContext(ctx).Save(list).Error
}

// Reposition moves the list to the requested index within its board and
// renumbers the board's lists.
func (r *ListRepository) Reposition(ctx context.Context, id uuid.UUID, position int) (*model.List, error) {
	list, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	list.Position = position
	list.UpdatedAt = time.Now()
	if err := r.db.WithContext(ctx).Save(list).Error; err != nil {
		return nil, err
	}

	if err := r.placeInBoard(ctx, list.BoardID, *list); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

// Delete removes the list and cascades to its cards and their comments,
// then renumbers the board's remaining lists.
func (r *ListRepository) Delete(ctx context.Context, id uuid.UUID) error {
	list, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cardIDs := tx.Model(&model.Card{}).Select("id").Where("list_id = ?", id)
		if err := tx.Where("card_id IN (?)", cardIDs).Delete(&model.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("list_id = ?", id).Delete(&model.Card{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.List{}, "id = ?", id).Error
	})
	if err != nil {
		return err
	}

	return r.resequenceBoard(ctx, list.BoardID)
}

// placeInBoard rewrites the board's list positions with moved at its
// requested (clamped) index.
func (r *ListRepository) placeInBoard(ctx context.Context, boardID uuid.UUID, moved model.List) error {
	refs, err := r.boardRefs(ctx, boardID)
	if err != nil {
		return err
	}
	positions := ordering.Place(refs, ordering.Ref{ID: moved.ID, Position: moved.Position, CreatedAt: moved.CreatedAt}, moved.Position)
	return r.applyPositions(ctx, refs, positions, moved.ID)
}

// resequenceBoard rewrites the board's list positions to a dense 0-based
// ordering.
func (r *ListRepository) resequenceBoard(ctx context.Context, boardID uuid.UUID) error {
	refs, err := r.boardRefs(ctx, boardID)
	if err != nil {
		return err
	}
	return r.applyPositions(ctx, refs, ordering.Normalize(refs), uuid.Nil)
}

func (r *ListRepository) boardRefs(ctx context.Context, boardID uuid.UUID) ([]ordering.Ref, error) {
	var lists []model.List
	if err := r.db.WithContext(ctx).
		Select("id", "position", "created_at").
		Where("board_id = ?", boardID).
		Find(&lists).Error; err != nil {
		return nil, err
	}

	refs := make([]ordering.Ref, len(lists))
	for i, list := range lists {
		refs[i] = ordering.Ref{ID: list.ID, Position: list.Position, CreatedAt: list.CreatedAt}
	}
	return refs, nil
}

// applyPositions writes only the positions that changed. moved is always
// written because Place computes its index relative to the others.
func (r *ListRepository) applyPositions(ctx context.Context, refs []ordering.Ref, positions map[uuid.UUID]int, moved uuid.UUID) error {
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
		if err := r.db.WithContext(ctx).Model(&model.List{}).
			Where("id = ?", id).
			Update("position", position).Error; err != nil {
			return err
		}
	}
	return nil
}
