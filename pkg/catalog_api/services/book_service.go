package services

import (
	"context"
	"fmt"
	"log"
	"time"

	problem "github.com/booklabs/book-catalog-api/pkg/catalog_api/helpers/problem"
	util "github.com/booklabs/book-catalog-api/pkg/catalog_api/helpers/util"
	"github.com/booklabs/book-catalog-api/pkg/catalog_api/models"
	"github.com/booklabs/book-catalog-api/pkg/catalog_api/repositories"
	"github.com/booklabs/book-catalog-api/pkg/qrimage"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// BookService owns book CRUD and the QR artifact lifecycle. Artifact
// generation is an explicit service step, not a side effect hidden in the
// persistence call, so a render failure is never masked as a save failure.
type BookService struct {
	repo    repositories.BookRepository
	decoder qrimage.Decoder
}

func NewBookService(repo repositories.BookRepository, decoder qrimage.Decoder) *BookService {
	return &BookService{repo: repo, decoder: decoder}
}

func (s *BookService) CreateBook(ctx context.Context, input *models.BookInput) (*models.Book, error) {
	book := &models.Book{
		Title:       input.Title,
		Author:      input.Author,
		Isbn:        input.Isbn,
		Description: input.Description,
	}
	if input.PublicationDate != nil {
		book.PublicationDate = util.ParsePublishedDate(*input.PublicationDate)
	}
	if err := s.repo.Save(ctx, book); err != nil {
		return nil, err
	}

	// Explicit, observable step. A render failure does not roll back the
	// book; GetArtifact recreates lazily on first access.
	artifact, err := s.generateArtifact(ctx, book.ID, models.RegenerateInput{})
	if err != nil {
		log.Printf("[qr] initial artifact for book=%d failed: %v", book.ID, err)
	} else {
		book.QRCode = artifact
	}
	return book, nil
}

func (s *BookService) ListBooks(ctx context.Context, p *models.ListBooksParams) ([]models.Book, models.Pagination, error) {
	return s.repo.GetBooks(ctx, p.Page, p.PerPage)
}

func (s *BookService) RetrieveBook(ctx context.Context, id uint) (*models.Book, error) {
	return s.repo.GetBookByID(ctx, id)
}

func (s *BookService) UpdateBook(ctx context.Context, input *models.UpdateBookInput) (*models.Book, error) {
	book, err := s.repo.GetBookByID(ctx, input.Id)
	if err != nil {
		return nil, err
	}
	if book == nil {
		return nil, problem.NewNotFound(fmt.Sprintf("%d", input.Id), "Book not found")
	}

	book.Title = input.Title
	book.Author = input.Author
	book.Description = input.Description
	if input.Isbn != nil {
		book.Isbn = input.Isbn
	}
	if input.PublicationDate != nil {
		book.PublicationDate = util.ParsePublishedDate(*input.PublicationDate)
	}
	if err := s.repo.UpdateBook(ctx, book); err != nil {
		return nil, err
	}
	return book, nil
}

func (s *BookService) DeleteBook(ctx context.Context, id uint) error {
	book, err := s.repo.GetBookByID(ctx, id)
	if err != nil {
		return err
	}
	if book == nil {
		return problem.NewNotFound(fmt.Sprintf("%d", id), "Book not found")
	}
	// The artifact cascades with the book.
	return s.repo.DeleteBook(ctx, id)
}

// GetArtifact returns the stored QR artifact, generating one with default
// render parameters when the book has none yet.
func (s *BookService) GetArtifact(ctx context.Context, bookID uint) (*models.QRCodeArtifact, error) {
	book, err := s.repo.GetBookByID(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if book == nil {
		return nil, problem.NewNotFound(fmt.Sprintf("%d", bookID), "Book not found")
	}
	if book.QRCode != nil {
		return book.QRCode, nil
	}
	return s.generateArtifact(ctx, bookID, models.RegenerateInput{})
}

// RegenerateArtifact replaces the stored bytes with a new rendering. The
// payload never changes; it is a derived view of the book id.
func (s *BookService) RegenerateArtifact(ctx context.Context, input *models.RegenerateInput) (*models.QRCodeArtifact, error) {
	book, err := s.repo.GetBookByID(ctx, input.Id)
	if err != nil {
		return nil, err
	}
	if book == nil {
		return nil, problem.NewNotFound(fmt.Sprintf("%d", input.Id), "Book not found")
	}
	return s.generateArtifact(ctx, input.Id, *input)
}

// generateArtifact runs the full pipeline: encode, render, composite,
// transcode, and atomically replace the stored artifact.
func (s *BookService) generateArtifact(ctx context.Context, bookID uint, spec models.RegenerateInput) (*models.QRCodeArtifact, error) {
	payload := models.Payload(bookID)

	sym, err := qrimage.Encode(payload, qrimage.ParseLevel(spec.Level))
	if err != nil {
		return nil, err
	}

	opts := qrimage.RenderOptions{
		FillColor: qrimage.ParseColor(spec.FillColor, nil),
		BackColor: qrimage.ParseColor(spec.BackColor, nil),
		Width:     spec.Width,
		Height:    spec.Height,
		AddBorder: spec.AddBorder,
	}
	if spec.AddBorder {
		opts.BorderSize = spec.BorderSize
	}
	img := qrimage.Render(sym, opts)
	width, height := img.Bounds().Dx(), img.Bounds().Dy()

	// Best effort: a broken logo never prevents code generation.
	composed, logoRes := qrimage.ApplyLogo(img, spec.LogoPath, spec.LogoRatio)
	if logoRes.Err != nil {
		log.Printf("[qr] logo composite failed for book=%d, continuing without logo: %v", bookID, logoRes.Err)
	}

	if len(spec.Filters) > 0 {
		composed = qrimage.ApplyFilters(composed, spec.Filters)
	}
	if spec.Brightness > 0 || spec.Contrast > 0 {
		composed = qrimage.AdjustBrightnessContrast(composed, spec.Brightness, spec.Contrast)
	}

	format := qrimage.NormalizeFormat(spec.Format)
	data, _, err := qrimage.EncodeImage(composed, qrimage.EncodeOptions{
		Format:   format,
		Quality:  spec.Quality,
		Optimize: true,
	})
	if err != nil {
		return nil, err
	}

	artifact := &models.QRCodeArtifact{
		ID:        uuid.New().String(),
		BookID:    bookID,
		Payload:   payload,
		Image:     data,
		Format:    format,
		Width:     width,
		Height:    height,
		ByteSize:  len(data),
		Filename:  models.ArtifactFilename(bookID, format),
		CreatedAt: time.Now(),
	}
	if err := s.repo.ReplaceArtifact(ctx, artifact); err != nil {
		return nil, err
	}
	return artifact, nil
}

// RenderArtifactAt serves the stored artifact transcoded and resized per
// request without persisting the result.
func (s *BookService) RenderArtifactAt(ctx context.Context, p *models.QRCodeImageParams) ([]byte, string, string, error) {
	artifact, err := s.GetArtifact(ctx, p.Id)
	if err != nil {
		return nil, "", "", err
	}

	format := qrimage.NormalizeFormat(p.Format)
	if p.Size <= 0 && format == artifact.Format {
		return artifact.Image, qrimage.ContentType(artifact.Format), artifact.Filename, nil
	}

	img, err := qrimage.DecodeImage(artifact.Image)
	if err != nil {
		return nil, "", "", problem.NewInternalServerError("stored artifact is unreadable: " + err.Error())
	}
	if p.Size > 0 {
		img = qrimage.ResizeToFit(img, p.Size)
	}
	data, contentType, err := qrimage.EncodeImage(img, qrimage.EncodeOptions{
		Format:   format,
		Quality:  p.Quality,
		Optimize: true,
	})
	if err != nil {
		return nil, "", "", err
	}
	return data, contentType, models.ArtifactFilename(p.Id, format), nil
}

// ScanPayload resolves a scanned "book:<id>" payload back to its book.
func (s *BookService) ScanPayload(ctx context.Context, qrData string) (*models.Book, error) {
	id, err := models.ParsePayload(qrData)
	if err != nil {
		return nil, problem.NewBadRequest(qrData, "Invalid QR payload",
			problem.InvalidParam{Name: "qrData", Reason: err.Error()})
	}
	book, err := s.repo.GetBookByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if book == nil {
		return nil, problem.NewNotFound(qrData, "Book not found")
	}
	return book, nil
}

// ValidateArtifact decodes the stored bytes and checks the round trip.
func (s *BookService) ValidateArtifact(ctx context.Context, bookID uint) (*models.ValidationResult, error) {
	artifact, err := s.GetArtifact(ctx, bookID)
	if err != nil {
		return nil, err
	}
	v := qrimage.Validate(s.decoder, artifact.Image, artifact.Payload)
	result := &models.ValidationResult{
		Status:  v.Status,
		Payload: artifact.Payload,
		Decoded: v.Decoded,
	}
	if v.Err != nil {
		result.Detail = v.Err.Error()
	}
	return result, nil
}

// RegenerateMissingArtifacts backfills books without a stored artifact.
// One broken book must not block the rest.
func (s *BookService) RegenerateMissingArtifacts(ctx context.Context) error {
	books, err := s.repo.AllBooks(ctx)
	if err != nil {
		return err
	}

	const maxConcurrent = 2
	sem := semaphore.NewWeighted(int64(maxConcurrent))
	g, ctx := errgroup.WithContext(ctx)

	for _, book := range books {
		if book.QRCode != nil {
			continue
		}
		if err := sem.Acquire(ctx, 1); err != nil {
			return err
		}
		id := book.ID
		g.Go(func() error {
			defer sem.Release(1)
			if _, err := s.generateArtifact(ctx, id, models.RegenerateInput{}); err != nil {
				log.Printf("[audit] regenerate book=%d failed: %v", id, err)
			}
			return nil
		})
	}

	return g.Wait()
}
