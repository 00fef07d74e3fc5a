package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/johnobriendev/tremendoServer/internal/encryption"
	"github.com/johnobriendev/tremendoServer/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		DSN:                  "sqlmock_db_0",
		DriverName:           "postgres",
		Conn:                 db,
		PreferSimpleProtocol: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{})
	assert.NoError(t, err)

	return gormDB, mock
}

func testEncryptor(t *testing.T) *encryption.Encryptor {
	enc, err := encryption.New("test-encryption-key")
	assert.NoError(t, err)
	return enc
}

func cardColumns() []string {
	return []string{"id", "board_id", "list_id", "name", "description", "position", "created_at", "updated_at"}
}

func TestCardRepository_RepositionBatch_AbortsOnCountMismatch(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	cardRepo := repository.NewCardRepository(gormDB, testEncryptor(t))

	boardID := uuid.New()
	listID := uuid.New()
	cardA := uuid.New()
	cardB := uuid.New() // belongs to another board, the fetch won't return it
	now := time.Now()

	moves := []repository.CardMove{
		{ID: cardA, Position: 0},
		{ID: cardB, Position: 1},
	}

	// Only one of the two requested cards is found on this board, so the
	// transaction must roll back before any UPDATE
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "cards" WHERE board_id = (.+) AND id IN`).
		WillReturnRows(sqlmock.NewRows(cardColumns()).
			AddRow(cardA.String(), boardID.String(), listID.String(), "Card A", "", 0, now, now))
	mock.ExpectRollback()

	// Act
	updated, err := cardRepo.RepositionBatch(context.Background(), boardID, moves)

	// Assert
	assert.ErrorIs(t, err, repository.ErrCardsNotInBoard)
	assert.Nil(t, updated)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCardRepository_RepositionBatch_AppliesAllMovesInOneTransaction(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	cardRepo := repository.NewCardRepository(gormDB, testEncryptor(t))

	boardID := uuid.New()
	listID := uuid.New()
	cardA := uuid.New()
	cardB := uuid.New()
	now := time.Now()

	// Swap the two cards' positions
	moves := []repository.CardMove{
		{ID: cardA, Position: 1},
		{ID: cardB, Position: 0},
	}

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "cards" WHERE board_id = (.+) AND id IN`).
		WillReturnRows(sqlmock.NewRows(cardColumns()).
			AddRow(cardA.String(), boardID.String(), listID.String(), "Card A", "", 0, now, now).
			AddRow(cardB.String(), boardID.String(), listID.String(), "Card B", "", 1, now, now))
	mock.ExpectExec(`UPDATE "cards" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "cards" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	// Act
	updated, err := cardRepo.RepositionBatch(context.Background(), boardID, moves)

	// Assert
	assert.NoError(t, err)
	assert.Len(t, updated, 2)
	// Results come back in request order with the requested positions
	assert.Equal(t, cardA, updated[0].ID)
	assert.Equal(t, 1, updated[0].Position)
	assert.Equal(t, cardB, updated[1].ID)
	assert.Equal(t, 0, updated[1].Position)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCardRepository_RepositionBatch_AbortsWhenListOnAnotherBoard(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	cardRepo := repository.NewCardRepository(gormDB, testEncryptor(t))

	boardID := uuid.New()
	otherBoardID := uuid.New()
	listID := uuid.New()
	foreignListID := uuid.New()
	cardA := uuid.New()
	now := time.Now()

	moves := []repository.CardMove{
		{ID: cardA, Position: 0, ListID: &foreignListID},
	}

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "cards" WHERE board_id = (.+) AND id IN`).
		WillReturnRows(sqlmock.NewRows(cardColumns()).
			AddRow(cardA.String(), boardID.String(), listID.String(), "Card A", "", 0, now, now))
	mock.ExpectQuery(`SELECT (.+) FROM "lists" WHERE id = (.+)`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "board_id"}).
			AddRow(foreignListID.String(), otherBoardID.String()))
	mock.ExpectRollback()

	// Act
	updated, err := cardRepo.RepositionBatch(context.Background(), boardID, moves)

	// Assert
	assert.ErrorIs(t, err, repository.ErrListNotInBoard)
	assert.Nil(t, updated)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func commentColumns() []string {
	return []string{"id", "card_id", "user_id", "text", "created_at"}
}

func refColumns() []string {
	return []string{"id", "position", "created_at"}
}

func TestCardRepository_Reposition_WithinListRenumbersDensely(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	cardRepo := repository.NewCardRepository(gormDB, testEncryptor(t))

	boardID := uuid.New()
	listID := uuid.New()
	cardX := uuid.New()
	cardY := uuid.New()
	cardZ := uuid.New()
	now := time.Now()

	// List holds X@0, Y@1, Z@2; Y moves to the front
	mock.ExpectQuery(`SELECT (.+) FROM "cards" WHERE id = (.+)`).
		WillReturnRows(sqlmock.NewRows(cardColumns()).
			AddRow(cardY.String(), boardID.String(), listID.String(), "Card Y", "", 1, now, now))

	// Primary write: the moved card's new slot
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "cards" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	// Renumbering reads the list and writes only the changed rows: Y at
	// the requested slot and X shifted down. Z keeps position 2 and must
	// not be rewritten.
	mock.ExpectQuery(`SELECT (.+) FROM "cards" WHERE list_id = (.+)`).
		WillReturnRows(sqlmock.NewRows(refColumns()).
			AddRow(cardX.String(), 0, now.Add(-2*time.Hour)).
			AddRow(cardY.String(), 0, now.Add(-time.Hour)).
			AddRow(cardZ.String(), 2, now))
	for i := 0; i < 2; i++ {
		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE "cards" SET "position"`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()
	}

	// Re-read of the moved card with its comments
	mock.ExpectQuery(`SELECT (.+) FROM "cards" WHERE id = (.+)`).
		WillReturnRows(sqlmock.NewRows(cardColumns()).
			AddRow(cardY.String(), boardID.String(), listID.String(), "Card Y", "", 0, now, now))
	mock.ExpectQuery(`SELECT (.+) FROM "comments"`).
		WillReturnRows(sqlmock.NewRows(commentColumns()))

	// Act
	moved, err := cardRepo.Reposition(context.Background(), cardY, 0, nil)

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, cardY, moved.ID)
	assert.Equal(t, 0, moved.Position)
	assert.Equal(t, listID, moved.ListID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCardRepository_Reposition_AcrossListsResequencesOrigin(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	cardRepo := repository.NewCardRepository(gormDB, testEncryptor(t))

	boardID := uuid.New()
	originListID := uuid.New()
	destListID := uuid.New()
	cardX := uuid.New()
	cardY := uuid.New()
	cardZ := uuid.New()
	now := time.Now()

	// Y@0 and X@1 sit in the origin list, Z@0 in the destination.
	// Y moves to the head of the destination list.
	mock.ExpectQuery(`SELECT (.+) FROM "cards" WHERE id = (.+)`).
		WillReturnRows(sqlmock.NewRows(cardColumns()).
			AddRow(cardY.String(), boardID.String(), originListID.String(), "Card Y", "", 0, now, now))

	// Destination list must belong to the card's board
	mock.ExpectQuery(`SELECT (.+) FROM "lists" WHERE id = (.+)`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "board_id"}).
			AddRow(destListID.String(), boardID.String()))

	// Primary write
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "cards" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	// Destination renumbering: Y takes slot 0, Z shifts to 1
	mock.ExpectQuery(`SELECT (.+) FROM "cards" WHERE list_id = (.+)`).
		WillReturnRows(sqlmock.NewRows(refColumns()).
			AddRow(cardZ.String(), 0, now.Add(-time.Hour)).
			AddRow(cardY.String(), 0, now))
	for i := 0; i < 2; i++ {
		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE "cards" SET "position"`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()
	}

	// Origin renumbering: X left at 1 collapses to 0
	mock.ExpectQuery(`SELECT (.+) FROM "cards" WHERE list_id = (.+)`).
		WillReturnRows(sqlmock.NewRows(refColumns()).
			AddRow(cardX.String(), 1, now))
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "cards" SET "position"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	// Re-read of the moved card
	mock.ExpectQuery(`SELECT (.+) FROM "cards" WHERE id = (.+)`).
		WillReturnRows(sqlmock.NewRows(cardColumns()).
			AddRow(cardY.String(), boardID.String(), destListID.String(), "Card Y", "", 0, now, now))
	mock.ExpectQuery(`SELECT (.+) FROM "comments"`).
		WillReturnRows(sqlmock.NewRows(commentColumns()))

	// Act
	moved, err := cardRepo.Reposition(context.Background(), cardY, 0, &destListID)

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, destListID, moved.ListID)
	assert.Equal(t, 0, moved.Position)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCardRepository_Reposition_RejectsListOnAnotherBoardBeforeWriting(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	cardRepo := repository.NewCardRepository(gormDB, testEncryptor(t))

	boardID := uuid.New()
	otherBoardID := uuid.New()
	listID := uuid.New()
	foreignListID := uuid.New()
	cardY := uuid.New()
	now := time.Now()

	mock.ExpectQuery(`SELECT (.+) FROM "cards" WHERE id = (.+)`).
		WillReturnRows(sqlmock.NewRows(cardColumns()).
			AddRow(cardY.String(), boardID.String(), listID.String(), "Card Y", "", 0, now, now))
	mock.ExpectQuery(`SELECT (.+) FROM "lists" WHERE id = (.+)`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "board_id"}).
			AddRow(foreignListID.String(), otherBoardID.String()))

	// Act
	moved, err := cardRepo.Reposition(context.Background(), cardY, 0, &foreignListID)

	// Assert: the guard fires before the primary write, nothing mutated
	assert.ErrorIs(t, err, repository.ErrListNotInBoard)
	assert.Nil(t, moved)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCardRepository_Reposition_CardNotFound(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	cardRepo := repository.NewCardRepository(gormDB, testEncryptor(t))

	mock.ExpectQuery(`SELECT (.+) FROM "cards" WHERE id = (.+)`).
		WillReturnRows(sqlmock.NewRows(cardColumns()))

	// Act
	moved, err := cardRepo.Reposition(context.Background(), uuid.New(), 0, nil)

	// Assert
	assert.ErrorIs(t, err, repository.ErrCardNotFound)
	assert.Nil(t, moved)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCardRepository_GetByListID_OrdersByPosition(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	cardRepo := repository.NewCardRepository(gormDB, testEncryptor(t))

	listID := uuid.New()
	boardID := uuid.New()
	now := time.Now()
	first := uuid.New()
	second := uuid.New()

	mock.ExpectQuery(`SELECT (.+) FROM "cards" WHERE list_id = (.+) ORDER BY position`).
		WillReturnRows(sqlmock.NewRows(cardColumns()).
			AddRow(first.String(), boardID.String(), listID.String(), "First", "plain description", 0, now, now).
			AddRow(second.String(), boardID.String(), listID.String(), "Second", "", 1, now, now))

	// Act
	cards, err := cardRepo.GetByListID(context.Background(), listID)

	// Assert
	assert.NoError(t, err)
	assert.Len(t, cards, 2)
	assert.Equal(t, first, cards[0].ID)
	assert.Equal(t, "plain description", cards[0].Description)
	assert.Equal(t, second, cards[1].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCardRepository_DeleteComment_NotFound(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	cardRepo := repository.NewCardRepository(gormDB, testEncryptor(t))

	cardID := uuid.New()
	commentID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "comments"`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	// Act
	err := cardRepo.DeleteComment(context.Background(), cardID, commentID)

	// Assert
	assert.ErrorIs(t, err, repository.ErrCommentNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
