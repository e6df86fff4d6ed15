package repositories

import (
	"context"
	"errors"
	"math"

	"github.com/booklabs/book-catalog-api/pkg/catalog_api/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BookRepository interface {
	GetBooks(ctx context.Context, page, perPage int) ([]models.Book, models.Pagination, error)
	GetBookByID(ctx context.Context, id uint) (*models.Book, error)
	FindByIsbn(ctx context.Context, isbn string) (*models.Book, error)
	FindByTitleAuthor(ctx context.Context, title, author string) (*models.Book, error)
	AllBooks(ctx context.Context) ([]models.Book, error)
	Save(ctx context.Context, book *models.Book) error
	UpdateBook(ctx context.Context, book *models.Book) error
	DeleteBook(ctx context.Context, id uint) error

	GetArtifact(ctx context.Context, bookID uint) (*models.QRCodeArtifact, error)
	ReplaceArtifact(ctx context.Context, artifact *models.QRCodeArtifact) error
}

type bookRepository struct {
	db *gorm.DB
}

func NewBookRepository(db *gorm.DB) BookRepository {
	return &bookRepository{db: db}
}

func (r *bookRepository) GetBooks(ctx context.Context, page, perPage int) ([]models.Book, models.Pagination, error) {
	offset := (page - 1) * perPage

	var totalRecords int64
	if err := r.db.WithContext(ctx).Model(&models.Book{}).Count(&totalRecords).Error; err != nil {
		return nil, models.Pagination{}, err
	}

	var books []models.Book
	if err := r.db.WithContext(ctx).
		Preload("QRCode").
		Order("created_at DESC, id DESC").
		Limit(perPage).
		Offset(offset).
		Find(&books).Error; err != nil {
		return nil, models.Pagination{}, err
	}

	totalPages := int(math.Ceil(float64(totalRecords) / float64(perPage)))
	pagination := models.Pagination{
		CurrentPage:    page,
		RecordsPerPage: perPage,
		TotalPages:     totalPages,
		TotalRecords:   int(totalRecords),
	}
	if page < totalPages {
		next := page + 1
		pagination.Next = &next
	}
	if page > 1 {
		prev := page - 1
		pagination.Previous = &prev
	}

	return books, pagination, nil
}

func (r *bookRepository) GetBookByID(ctx context.Context, id uint) (*models.Book, error) {
	var book models.Book
	err := r.db.WithContext(ctx).Preload("QRCode").First(&book, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	return &book, nil
}

func (r *bookRepository) FindByIsbn(ctx context.Context, isbn string) (*models.Book, error) {
	var book models.Book
	err := r.db.WithContext(ctx).Where("isbn = ?", isbn).First(&book).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	return &book, nil
}

// FindByTitleAuthor returns the first match on the (title, author) pair.
// Duplicates are possible without an ISBN; the oldest row wins.
func (r *bookRepository) FindByTitleAuthor(ctx context.Context, title, author string) (*models.Book, error) {
	var book models.Book
	err := r.db.WithContext(ctx).
		Where("title = ? AND author = ?", title, author).
		Order("id ASC").
		First(&book).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	return &book, nil
}

func (r *bookRepository) AllBooks(ctx context.Context) ([]models.Book, error) {
	var books []models.Book
	if err := r.db.WithContext(ctx).Preload("QRCode").Find(&books).Error; err != nil {
		return nil, err
	}
	return books, nil
}

func (r *bookRepository) Save(ctx context.Context, book *models.Book) error {
	return r.db.WithContext(ctx).Create(book).Error
}

func (r *bookRepository) UpdateBook(ctx context.Context, book *models.Book) error {
	return r.db.WithContext(ctx).Save(book).Error
}

func (r *bookRepository) DeleteBook(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Explicit artifact delete keeps the cascade working on
		// databases where the FK constraint is not enforced.
		if err := tx.Where("book_id = ?", id).Delete(&models.QRCodeArtifact{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Book{}, id).Error
	})
}

func (r *bookRepository) GetArtifact(ctx context.Context, bookID uint) (*models.QRCodeArtifact, error) {
	var artifact models.QRCodeArtifact
	err := r.db.WithContext(ctx).Where("book_id = ?", bookID).First(&artifact).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	return &artifact, nil
}

// ReplaceArtifact upserts on the unique book id: a single atomic replace,
// so concurrent regenerations serialize as last-writer-wins.
func (r *bookRepository) ReplaceArtifact(ctx context.Context, artifact *models.QRCodeArtifact) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "book_id"}},
			UpdateAll: true,
		}).
		Create(artifact).Error
}
