package repositories_test

import (
	"context"
	"testing"

	"github.com/booklabs/book-catalog-api/pkg/catalog_api/models"
	"github.com/booklabs/book-catalog-api/pkg/catalog_api/repositories"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Book{},
		&models.QRCodeArtifact{},
	))
	return db
}

func newArtifact(bookID uint) *models.QRCodeArtifact {
	return &models.QRCodeArtifact{
		ID:       uuid.New().String(),
		BookID:   bookID,
		Payload:  models.Payload(bookID),
		Image:    []byte{0x89, 'P', 'N', 'G'},
		Format:   "png",
		Width:    500,
		Height:   500,
		ByteSize: 4,
		Filename: models.ArtifactFilename(bookID, "png"),
	}
}

func TestBookRepository_SaveAndGet(t *testing.T) {
	db := setupDB(t)
	repo := repositories.NewBookRepository(db)

	isbn := "9780134190440"
	book := &models.Book{Title: "The Go Programming Language", Author: "Alan Donovan, Brian Kernighan", Isbn: &isbn}
	require.NoError(t, repo.Save(context.Background(), book))
	require.NotZero(t, book.ID)

	got, err := repo.GetBookByID(context.Background(), book.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "The Go Programming Language", got.Title)
	require.NotNil(t, got.Isbn)
	assert.Equal(t, isbn, *got.Isbn)
}

func TestBookRepository_GetMissingReturnsNil(t *testing.T) {
	db := setupDB(t)
	repo := repositories.NewBookRepository(db)

	got, err := repo.GetBookByID(context.Background(), 999)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestBookRepository_FindByIsbnAndTitleAuthor(t *testing.T) {
	db := setupDB(t)
	repo := repositories.NewBookRepository(db)

	isbn := "9781111111111"
	require.NoError(t, repo.Save(context.Background(), &models.Book{Title: "T", Author: "A", Isbn: &isbn}))
	require.NoError(t, repo.Save(context.Background(), &models.Book{Title: "T", Author: "A"}))

	byIsbn, err := repo.FindByIsbn(context.Background(), isbn)
	require.NoError(t, err)
	require.NotNil(t, byIsbn)

	byPair, err := repo.FindByTitleAuthor(context.Background(), "T", "A")
	require.NoError(t, err)
	require.NotNil(t, byPair)
	// first match wins
	assert.Equal(t, byIsbn.ID, byPair.ID)

	missing, err := repo.FindByIsbn(context.Background(), "none")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestBookRepository_Pagination(t *testing.T) {
	db := setupDB(t)
	repo := repositories.NewBookRepository(db)

	for i := 0; i < 5; i++ {
		require.NoError(t, repo.Save(context.Background(), &models.Book{Title: "B", Author: "A"}))
	}

	books, pag, err := repo.GetBooks(context.Background(), 2, 2)
	require.NoError(t, err)
	assert.Len(t, books, 2)
	assert.Equal(t, 5, pag.TotalRecords)
	assert.Equal(t, 3, pag.TotalPages)
	require.NotNil(t, pag.Next)
	assert.Equal(t, 3, *pag.Next)
	require.NotNil(t, pag.Previous)
	assert.Equal(t, 1, *pag.Previous)
}

func TestBookRepository_ReplaceArtifactIsAtomicUpsert(t *testing.T) {
	db := setupDB(t)
	repo := repositories.NewBookRepository(db)

	book := &models.Book{Title: "B", Author: "A"}
	require.NoError(t, repo.Save(context.Background(), book))

	first := newArtifact(book.ID)
	require.NoError(t, repo.ReplaceArtifact(context.Background(), first))

	second := newArtifact(book.ID)
	second.Image = []byte("replaced")
	second.Format = "webp"
	require.NoError(t, repo.ReplaceArtifact(context.Background(), second))

	got, err := repo.GetArtifact(context.Background(), book.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	// last writer wins, still exactly one artifact per book
	assert.Equal(t, []byte("replaced"), got.Image)
	assert.Equal(t, "webp", got.Format)
	assert.Equal(t, models.Payload(book.ID), got.Payload)

	var count int64
	require.NoError(t, db.Model(&models.QRCodeArtifact{}).Where("book_id = ?", book.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestBookRepository_DeleteCascadesArtifact(t *testing.T) {
	db := setupDB(t)
	repo := repositories.NewBookRepository(db)

	book := &models.Book{Title: "B", Author: "A"}
	require.NoError(t, repo.Save(context.Background(), book))
	require.NoError(t, repo.ReplaceArtifact(context.Background(), newArtifact(book.ID)))

	require.NoError(t, repo.DeleteBook(context.Background(), book.ID))

	gotBook, err := repo.GetBookByID(context.Background(), book.ID)
	require.NoError(t, err)
	assert.Nil(t, gotBook)

	gotArtifact, err := repo.GetArtifact(context.Background(), book.ID)
	require.NoError(t, err)
	assert.Nil(t, gotArtifact)
}
