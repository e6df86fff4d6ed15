package handler

import (
	"errors"
	"fmt"
	"net/http"

	problem "github.com/booklabs/book-catalog-api/pkg/catalog_api/helpers/problem"
	"github.com/booklabs/book-catalog-api/pkg/catalog_api/helpers/util"
	"github.com/booklabs/book-catalog-api/pkg/catalog_api/models"
	"github.com/booklabs/book-catalog-api/pkg/catalog_api/services"
	"github.com/booklabs/book-catalog-api/pkg/qrimage"
	"github.com/gin-gonic/gin"
)

// BooksAPIController binds HTTP requests to the BookService
type BooksAPIController struct {
	Service *services.BookService
}

// NewBooksAPIController creates a new controller
func NewBooksAPIController(s *services.BookService) *BooksAPIController {
	return &BooksAPIController{Service: s}
}

// ListBooks handles GET /books
func (c *BooksAPIController) ListBooks(ctx *gin.Context, p *models.ListBooksParams) ([]models.Book, error) {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PerPage < 1 {
		p.PerPage = 10
	}
	p.BaseURL = ctx.FullPath()
	books, pagination, err := c.Service.ListBooks(ctx.Request.Context(), p)
	if err != nil {
		return nil, err
	}
	util.SetPaginationHeaders(ctx.Request, ctx.Header, pagination)

	return books, nil
}

// CreateBook handles POST /books
func (c *BooksAPIController) CreateBook(ctx *gin.Context, body *models.BookInput) (*models.Book, error) {
	return c.Service.CreateBook(ctx.Request.Context(), body)
}

// RetrieveBook handles GET /books/:id
func (c *BooksAPIController) RetrieveBook(ctx *gin.Context, params *models.BookParams) (*models.Book, error) {
	book, err := c.Service.RetrieveBook(ctx.Request.Context(), params.Id)
	if err != nil {
		return nil, err
	}
	if book == nil {
		return nil, problem.NewNotFound(fmt.Sprintf("%d", params.Id), "Book not found")
	}
	return book, nil
}

// UpdateBook handles PUT /books/:id
func (c *BooksAPIController) UpdateBook(ctx *gin.Context, body *models.UpdateBookInput) (*models.Book, error) {
	return c.Service.UpdateBook(ctx.Request.Context(), body)
}

// DeleteBook handles DELETE /books/:id
func (c *BooksAPIController) DeleteBook(ctx *gin.Context, params *models.BookParams) error {
	return c.Service.DeleteBook(ctx.Request.Context(), params.Id)
}

// GetQRCodeImage handles GET /books/:id/qrcode. Optional format, size and
// quality query parameters feed the codec and resize operations; the bytes
// are served inline under the qrcode_<id>.<ext> blob name.
func (c *BooksAPIController) GetQRCodeImage(ctx *gin.Context, params *models.QRCodeImageParams) error {
	data, contentType, filename, err := c.Service.RenderArtifactAt(ctx.Request.Context(), params)
	if err != nil {
		if errors.Is(err, qrimage.ErrCapacityExceeded) {
			return problem.NewBadRequest(fmt.Sprintf("%d", params.Id), err.Error())
		}
		return err
	}
	ctx.Header("Content-Disposition", fmt.Sprintf("inline; filename=%s", filename))
	ctx.Data(http.StatusOK, contentType, data)
	return nil
}

// RegenerateQRCode handles POST /books/:id/qrcode
func (c *BooksAPIController) RegenerateQRCode(ctx *gin.Context, body *models.RegenerateInput) (*models.QRCodeArtifact, error) {
	artifact, err := c.Service.RegenerateArtifact(ctx.Request.Context(), body)
	if err != nil {
		if errors.Is(err, qrimage.ErrCapacityExceeded) {
			return nil, problem.NewBadRequest(fmt.Sprintf("%d", body.Id), err.Error())
		}
		return nil, err
	}
	return artifact, nil
}

// ValidateQRCode handles GET /books/:id/qrcode/validate
func (c *BooksAPIController) ValidateQRCode(ctx *gin.Context, params *models.ValidateParams) (*models.ValidationResult, error) {
	return c.Service.ValidateArtifact(ctx.Request.Context(), params.Id)
}

// ScanQRCode handles POST /books/scan
func (c *BooksAPIController) ScanQRCode(ctx *gin.Context, body *models.ScanInput) (*models.Book, error) {
	return c.Service.ScanPayload(ctx.Request.Context(), body.QrData)
}
