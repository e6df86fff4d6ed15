package services_test

import (
	"context"
	"testing"

	problem "github.com/booklabs/book-catalog-api/pkg/catalog_api/helpers/problem"
	"github.com/booklabs/book-catalog-api/pkg/catalog_api/models"
	"github.com/booklabs/book-catalog-api/pkg/catalog_api/repositories"
	"github.com/booklabs/book-catalog-api/pkg/catalog_api/services"
	"github.com/booklabs/book-catalog-api/pkg/qrimage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupRepo(t *testing.T) repositories.BookRepository {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Book{}, &models.QRCodeArtifact{}))
	return repositories.NewBookRepository(db)
}

func newService(t *testing.T) (*services.BookService, repositories.BookRepository) {
	repo := setupRepo(t)
	return services.NewBookService(repo, qrimage.NewDecoder()), repo
}

func TestCreateBookGeneratesArtifact(t *testing.T) {
	svc, repo := newService(t)

	book, err := svc.CreateBook(context.Background(), &models.BookInput{Title: "T", Author: "A"})
	require.NoError(t, err)
	require.NotZero(t, book.ID)
	require.NotNil(t, book.QRCode)
	assert.Equal(t, models.Payload(book.ID), book.QRCode.Payload)
	assert.Equal(t, "png", book.QRCode.Format)
	assert.Equal(t, models.ArtifactFilename(book.ID, "png"), book.QRCode.Filename)
	assert.NotEmpty(t, book.QRCode.Image)

	stored, err := repo.GetArtifact(context.Background(), book.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, book.QRCode.ID, stored.ID)
}

func TestCreateBookParsesPublicationDate(t *testing.T) {
	svc, _ := newService(t)

	date := "2020-05"
	book, err := svc.CreateBook(context.Background(), &models.BookInput{Title: "T", Author: "A", PublicationDate: &date})
	require.NoError(t, err)
	require.NotNil(t, book.PublicationDate)
	assert.Equal(t, 2020, book.PublicationDate.Year())
	assert.Equal(t, 5, int(book.PublicationDate.Month()))

	bad := "not-a-date"
	book, err = svc.CreateBook(context.Background(), &models.BookInput{Title: "T2", Author: "A", PublicationDate: &bad})
	require.NoError(t, err)
	assert.Nil(t, book.PublicationDate)
}

func TestGetArtifactCreatesLazily(t *testing.T) {
	svc, repo := newService(t)

	book := &models.Book{Title: "T", Author: "A"}
	require.NoError(t, repo.Save(context.Background(), book))

	artifact, err := svc.GetArtifact(context.Background(), book.ID)
	require.NoError(t, err)
	require.NotNil(t, artifact)
	assert.Equal(t, models.Payload(book.ID), artifact.Payload)

	// second call returns the stored artifact, not a new one
	again, err := svc.GetArtifact(context.Background(), book.ID)
	require.NoError(t, err)
	assert.Equal(t, artifact.ID, again.ID)
}

func TestRegenerateKeepsPayload(t *testing.T) {
	svc, _ := newService(t)

	book, err := svc.CreateBook(context.Background(), &models.BookInput{Title: "T", Author: "A"})
	require.NoError(t, err)
	original := book.QRCode

	regenerated, err := svc.RegenerateArtifact(context.Background(), &models.RegenerateInput{
		Id:     book.ID,
		Level:  "H",
		Width:  300,
		Height: 300,
		Format: "jpeg",
	})
	require.NoError(t, err)
	assert.Equal(t, original.Payload, regenerated.Payload, "payload is a derived view of the book id")
	assert.NotEqual(t, original.Image, regenerated.Image)
	assert.Equal(t, "jpeg", regenerated.Format)
	assert.Equal(t, 300, regenerated.Width)
	assert.Equal(t, 300, regenerated.Height)
}

func TestRegenerateWithBrokenLogoStillSucceeds(t *testing.T) {
	svc, _ := newService(t)

	book, err := svc.CreateBook(context.Background(), &models.BookInput{Title: "T", Author: "A"})
	require.NoError(t, err)

	artifact, err := svc.RegenerateArtifact(context.Background(), &models.RegenerateInput{
		Id:       book.ID,
		LogoPath: "/nonexistent/logo.png",
	})
	require.NoError(t, err, "a broken logo must never prevent code generation")
	assert.NotEmpty(t, artifact.Image)
}

func TestRenderArtifactAtTranscodes(t *testing.T) {
	svc, _ := newService(t)

	book, err := svc.CreateBook(context.Background(), &models.BookInput{Title: "T", Author: "A"})
	require.NoError(t, err)

	data, contentType, filename, err := svc.RenderArtifactAt(context.Background(), &models.QRCodeImageParams{
		Id:      book.ID,
		Format:  "webp",
		Size:    300,
		Quality: 80,
	})
	require.NoError(t, err)
	assert.Equal(t, "image/webp", contentType)
	assert.Equal(t, models.ArtifactFilename(book.ID, "webp"), filename)

	info, err := qrimage.Inspect(data)
	require.NoError(t, err)
	assert.Equal(t, 300, info.Width)
	assert.Equal(t, 300, info.Height)
}

func TestRenderArtifactAtServesStoredBytesUnchanged(t *testing.T) {
	svc, repo := newService(t)

	book, err := svc.CreateBook(context.Background(), &models.BookInput{Title: "T", Author: "A"})
	require.NoError(t, err)
	stored, err := repo.GetArtifact(context.Background(), book.ID)
	require.NoError(t, err)

	data, contentType, _, err := svc.RenderArtifactAt(context.Background(), &models.QRCodeImageParams{Id: book.ID})
	require.NoError(t, err)
	assert.Equal(t, "image/png", contentType)
	assert.Equal(t, stored.Image, data)
}

func TestScanPayload(t *testing.T) {
	svc, _ := newService(t)

	book, err := svc.CreateBook(context.Background(), &models.BookInput{Title: "T", Author: "A"})
	require.NoError(t, err)

	found, err := svc.ScanPayload(context.Background(), models.Payload(book.ID))
	require.NoError(t, err)
	assert.Equal(t, book.ID, found.ID)

	_, err = svc.ScanPayload(context.Background(), "book:999")
	var apiErr problem.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 404, apiErr.Status)

	_, err = svc.ScanPayload(context.Background(), "isbn:123")
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 400, apiErr.Status)

	_, err = svc.ScanPayload(context.Background(), "book:notanumber")
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 400, apiErr.Status)
}

func TestValidateArtifactRoundTrip(t *testing.T) {
	svc, _ := newService(t)

	book, err := svc.CreateBook(context.Background(), &models.BookInput{Title: "T", Author: "A"})
	require.NoError(t, err)

	result, err := svc.ValidateArtifact(context.Background(), book.ID)
	require.NoError(t, err)
	assert.Equal(t, qrimage.StatusValid, result.Status)
	assert.Equal(t, models.Payload(book.ID), result.Decoded)
}

func TestValidateArtifactDecoderUnavailable(t *testing.T) {
	repo := setupRepo(t)
	svc := services.NewBookService(repo, nil)

	book, err := svc.CreateBook(context.Background(), &models.BookInput{Title: "T", Author: "A"})
	require.NoError(t, err)

	result, err := svc.ValidateArtifact(context.Background(), book.ID)
	require.NoError(t, err)
	assert.Equal(t, qrimage.StatusUnknown, result.Status, "missing decoder capability is not a failed validation")
}

func TestDeleteBookRemovesArtifact(t *testing.T) {
	svc, repo := newService(t)

	book, err := svc.CreateBook(context.Background(), &models.BookInput{Title: "T", Author: "A"})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteBook(context.Background(), book.ID))

	artifact, err := repo.GetArtifact(context.Background(), book.ID)
	require.NoError(t, err)
	assert.Nil(t, artifact)

	err = svc.DeleteBook(context.Background(), book.ID)
	var apiErr problem.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 404, apiErr.Status)
}

func TestRegenerateMissingArtifacts(t *testing.T) {
	svc, repo := newService(t)

	var ids []uint
	for i := 0; i < 3; i++ {
		book := &models.Book{Title: "T", Author: "A"}
		require.NoError(t, repo.Save(context.Background(), book))
		ids = append(ids, book.ID)
	}

	require.NoError(t, svc.RegenerateMissingArtifacts(context.Background()))

	for _, id := range ids {
		artifact, err := repo.GetArtifact(context.Background(), id)
		require.NoError(t, err)
		require.NotNil(t, artifact)
		assert.Equal(t, models.Payload(id), artifact.Payload)
	}
}
