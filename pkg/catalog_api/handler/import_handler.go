package handler

import (
	"errors"

	"github.com/booklabs/book-catalog-api/pkg/catalog_api/helpers/googlebooks"
	problem "github.com/booklabs/book-catalog-api/pkg/catalog_api/helpers/problem"
	"github.com/booklabs/book-catalog-api/pkg/catalog_api/models"
	"github.com/booklabs/book-catalog-api/pkg/catalog_api/services"
	"github.com/gin-gonic/gin"
)

// ImportAPIController binds HTTP requests to the ImportService
type ImportAPIController struct {
	Service *services.ImportService
}

// NewImportAPIController creates a new controller
func NewImportAPIController(s *services.ImportService) *ImportAPIController {
	return &ImportAPIController{Service: s}
}

// SearchBooks handles GET /search
func (c *ImportAPIController) SearchBooks(ctx *gin.Context, params *models.SearchParams) (*models.SearchResult, error) {
	if params.Query == "" {
		return nil, problem.NewBadRequest("query", "query parameter is required",
			problem.InvalidParam{Name: "query", Reason: "must not be empty"})
	}
	result, err := c.Service.Search(ctx.Request.Context(), params.Query, params.MaxResults)
	if err != nil {
		return nil, upstreamProblem(err, params.Query)
	}
	return result, nil
}

// ImportBook handles POST /books/import
func (c *ImportAPIController) ImportBook(ctx *gin.Context, body *models.ImportInput) (*models.ImportResult, error) {
	result, err := c.Service.Import(ctx.Request.Context(), body)
	if err != nil {
		return nil, upstreamProblem(err, body.ExternalId)
	}
	return result, nil
}

// upstreamProblem maps collaborator failures to distinct status codes.
// Timeouts and connection failures are surfaced immediately, never retried.
func upstreamProblem(err error, location string) error {
	switch {
	case errors.Is(err, googlebooks.ErrVolumeNotFound):
		return problem.NewNotFound(location, "Volume not found in bibliographic API")
	case errors.Is(err, googlebooks.ErrUpstreamTimeout):
		return problem.NewGatewayTimeout(location, err.Error())
	case errors.Is(err, googlebooks.ErrUpstreamUnavailable):
		return problem.NewBadGateway(location, err.Error())
	default:
		return err
	}
}
