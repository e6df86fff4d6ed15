package catalog_api

import (
	"github.com/booklabs/book-catalog-api/pkg/catalog_api/handler"
	"github.com/booklabs/book-catalog-api/pkg/catalog_api/middleware"
	"github.com/gin-gonic/gin"
	"github.com/loopfz/gadgeto/tonic"
	"github.com/wI2L/fizz"
	"github.com/wI2L/fizz/openapi"
)

var (
	apiVersionHeader = fizz.Header(
		"API-Version",
		"The API version of the response",
		"", // empty string means: primitive string in the OpenAPI doc
	)

	notFoundResponse = fizz.Response(
		"404",
		"Not Found",
		nil, // no inline schema
		nil, // no content media type
		nil, // no extra headers
	)
)

func NewRouter(apiVersion string, books *handler.BooksAPIController, imports *handler.ImportAPIController) *fizz.Fizz {
	g := gin.Default()
	g.Use(APIVersionMiddleware(apiVersion))
	f := fizz.NewFromEngine(g)

	f.Generator().SetServers([]*openapi.Server{
		{
			URL:         "https://api.booklabs.dev/v1",
			Description: "Production",
		},
	})

	gen := f.Generator()
	gen.API().Components.Headers["API-Version"] = &openapi.HeaderOrRef{
		Header: &openapi.Header{
			Description: "The API version of the response",
			Schema: &openapi.SchemaOrRef{
				Schema: &openapi.Schema{
					Type: "string",
				},
			},
		},
	}

	info := &openapi.Info{
		Title:       "Book catalog API v1",
		Description: "Book catalog with per-book QR code generation, customization and scanning",
		Version:     apiVersion,
	}

	root := f.Group("/v1", "Catalog v1", "Book catalog V1 routes")

	read := root.Group("", "Read", "Read-only endpoints", middleware.RequireAccess("books:read"))
	read.GET("/books",
		[]fizz.OperationOption{
			fizz.Summary("List all books"),
			apiVersionHeader,
			notFoundResponse,
		},
		tonic.Handler(books.ListBooks, 200),
	)

	read.GET("/books/:id",
		[]fizz.OperationOption{
			fizz.Summary("Retrieve a specific book"),
			apiVersionHeader,
			notFoundResponse,
		},
		tonic.Handler(books.RetrieveBook, 200),
	)

	read.GET("/books/:id/qrcode",
		[]fizz.OperationOption{
			fizz.Summary("Serve the QR code image of a book"),
			fizz.Description("Optional format, size and quality query parameters transcode and resize the stored image on the fly."),
			apiVersionHeader,
			notFoundResponse,
		},
		tonic.Handler(books.GetQRCodeImage, 200),
	)

	read.GET("/books/:id/qrcode/validate",
		[]fizz.OperationOption{
			fizz.Summary("Decode the stored QR image and verify the round trip"),
			apiVersionHeader,
			notFoundResponse,
		},
		tonic.Handler(books.ValidateQRCode, 200),
	)

	read.POST("/books/scan",
		[]fizz.OperationOption{
			fizz.Summary("Resolve a scanned QR payload back to its book"),
			apiVersionHeader,
			notFoundResponse,
		},
		tonic.Handler(books.ScanQRCode, 200),
	)

	read.GET("/search",
		[]fizz.OperationOption{
			fizz.Summary("Search the bibliographic API"),
			apiVersionHeader,
			notFoundResponse,
		},
		tonic.Handler(imports.SearchBooks, 200),
	)

	write := root.Group("", "Write", "Catalog mutations", middleware.RequireAccess("books:write"))
	write.POST("/books",
		[]fizz.OperationOption{
			fizz.Summary("Create a book with its QR code artifact"),
			apiVersionHeader,
			notFoundResponse,
		},
		tonic.Handler(books.CreateBook, 201),
	)

	write.PUT("/books/:id",
		[]fizz.OperationOption{
			fizz.Summary("Update a book"),
			apiVersionHeader,
			notFoundResponse,
		},
		tonic.Handler(books.UpdateBook, 200),
	)

	write.DELETE("/books/:id",
		[]fizz.OperationOption{
			fizz.Summary("Delete a book and its QR code artifact"),
			apiVersionHeader,
			notFoundResponse,
		},
		tonic.Handler(books.DeleteBook, 204),
	)

	write.POST("/books/:id/qrcode",
		[]fizz.OperationOption{
			fizz.Summary("Regenerate the QR code with new render parameters"),
			apiVersionHeader,
			notFoundResponse,
		},
		tonic.Handler(books.RegenerateQRCode, 201),
	)

	write.POST("/books/import",
		[]fizz.OperationOption{
			fizz.Summary("Import a book from the bibliographic API"),
			apiVersionHeader,
			notFoundResponse,
		},
		tonic.Handler(imports.ImportBook, 201),
	)

	f.GET("/v1/openapi.json", []fizz.OperationOption{}, f.OpenAPI(info, "json"))

	return f
}

type apiVersionWriter struct {
	gin.ResponseWriter
	version string
}

func (w *apiVersionWriter) WriteHeader(code int) {
	if code >= 200 && code < 300 {
		w.Header().Set("API-Version", w.version)
	}
	w.ResponseWriter.WriteHeader(code)
}

func APIVersionMiddleware(version string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer = &apiVersionWriter{c.Writer, version}
		c.Next()
	}
}
