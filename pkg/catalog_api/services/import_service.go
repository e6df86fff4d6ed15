package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	problem "github.com/booklabs/book-catalog-api/pkg/catalog_api/helpers/problem"
	util "github.com/booklabs/book-catalog-api/pkg/catalog_api/helpers/util"
	"github.com/booklabs/book-catalog-api/pkg/catalog_api/models"
	"github.com/booklabs/book-catalog-api/pkg/catalog_api/repositories"
)

// Bibliographic is the external search collaborator.
type Bibliographic interface {
	Search(ctx context.Context, query string, maxResults int) ([]models.ExternalBook, int, error)
	Fetch(ctx context.Context, externalID string) (*models.ExternalBook, error)
}

// ImportService proxies bibliographic search and merges external records
// into the catalog.
type ImportService struct {
	repo   repositories.BookRepository
	client Bibliographic
	books  *BookService
}

func NewImportService(repo repositories.BookRepository, client Bibliographic, books *BookService) *ImportService {
	return &ImportService{repo: repo, client: client, books: books}
}

func (s *ImportService) Search(ctx context.Context, query string, maxResults int) (*models.SearchResult, error) {
	records, total, err := s.client.Search(ctx, query, maxResults)
	if err != nil {
		return nil, err
	}
	return &models.SearchResult{
		Query:        query,
		TotalResults: total,
		Count:        len(records),
		Books:        records,
	}, nil
}

func (s *ImportService) FetchExternal(ctx context.Context, externalID string) (*models.ExternalBook, error) {
	return s.client.Fetch(ctx, externalID)
}

// Import resolves an external record, either directly by id or as the n-th
// search result, and merges it into the catalog.
func (s *ImportService) Import(ctx context.Context, input *models.ImportInput) (*models.ImportResult, error) {
	var record *models.ExternalBook
	switch {
	case input.ExternalId != "":
		rec, err := s.client.Fetch(ctx, input.ExternalId)
		if err != nil {
			return nil, err
		}
		record = rec
	case input.Query != "":
		records, _, err := s.client.Search(ctx, input.Query, input.Index+1)
		if err != nil {
			return nil, err
		}
		if len(records) == 0 {
			return nil, problem.NewNotFound(input.Query, "No books found for the given query")
		}
		if input.Index >= len(records) {
			return nil, problem.NewBadRequest(input.Query,
				fmt.Sprintf("Index %d is out of range, found %d books", input.Index, len(records)))
		}
		record = &records[input.Index]
	default:
		return nil, problem.NewBadRequest("", "Either externalId or query is required",
			problem.InvalidParam{Name: "externalId", Reason: "one of externalId or query must be set"})
	}

	book, created, err := s.merge(ctx, record)
	if err != nil {
		return nil, err
	}
	return &models.ImportResult{Book: book, Created: created}, nil
}

// merge deduplicates by ISBN first, then by the (title, author) pair, and
// creates a new book otherwise. The title+author fallback can misfire on
// common titles; inherited behavior, kept on purpose.
func (s *ImportService) merge(ctx context.Context, record *models.ExternalBook) (*models.Book, bool, error) {
	title := record.Title
	if title == "" {
		title = "Untitled"
	}
	author := strings.Join(record.Authors, ", ")
	if author == "" {
		author = "Unknown Author"
	}
	// Prefer ISBN-13 over ISBN-10.
	isbn := record.Isbn13
	if isbn == "" {
		isbn = record.Isbn10
	}
	pubDate := util.ParsePublishedDate(record.PublishedDate)

	var book *models.Book
	var err error
	if isbn != "" {
		book, err = s.repo.FindByIsbn(ctx, isbn)
		if err != nil {
			return nil, false, err
		}
	}
	if book == nil {
		book, err = s.repo.FindByTitleAuthor(ctx, title, author)
		if err != nil {
			return nil, false, err
		}
	}

	if book != nil {
		book.Title = title
		book.Author = author
		if record.Description != "" {
			book.Description = record.Description
		}
		if pubDate != nil {
			book.PublicationDate = pubDate
		}
		if isbn != "" && book.Isbn == nil {
			book.Isbn = &isbn
		}
		if err := s.repo.UpdateBook(ctx, book); err != nil {
			return nil, false, err
		}
		return book, false, nil
	}

	book = &models.Book{
		Title:           title,
		Author:          author,
		Description:     record.Description,
		PublicationDate: pubDate,
	}
	if isbn != "" {
		book.Isbn = &isbn
	}
	if err := s.repo.Save(ctx, book); err != nil {
		return nil, false, err
	}

	if artifact, err := s.books.GetArtifact(ctx, book.ID); err != nil {
		log.Printf("[import] artifact for book=%d failed: %v", book.ID, err)
	} else {
		book.QRCode = artifact
	}
	return book, true, nil
}
