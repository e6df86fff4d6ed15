package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"reflect"
	"strings"

	"github.com/booklabs/book-catalog-api/pkg/catalog_api/handler"
	"github.com/booklabs/book-catalog-api/pkg/catalog_api/helpers/googlebooks"
	problem "github.com/booklabs/book-catalog-api/pkg/catalog_api/helpers/problem"
	"github.com/booklabs/book-catalog-api/pkg/catalog_api/models"
	"github.com/booklabs/book-catalog-api/pkg/jobs"
	"github.com/booklabs/book-catalog-api/pkg/qrimage"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/loopfz/gadgeto/tonic"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	api "github.com/booklabs/book-catalog-api/pkg/catalog_api"
	"github.com/booklabs/book-catalog-api/pkg/catalog_api/database"
	"github.com/booklabs/book-catalog-api/pkg/catalog_api/repositories"
	"github.com/booklabs/book-catalog-api/pkg/catalog_api/services"
)

const apiVersion = "1.0.0"

func invalidParamsFromBinding(err error, sample any) []problem.InvalidParam {
	// Match directly on validator.ValidationErrors when possible.
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		// No validator errors? Report generically.
		return []problem.InvalidParam{{Name: "body", Reason: err.Error()}}
	}

	t := reflect.TypeOf(sample)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	out := make([]problem.InvalidParam, 0, len(verrs))
	for _, fe := range verrs {
		name := fe.Field()
		// StructField -> json tag
		if f, ok := t.FieldByName(fe.StructField()); ok {
			if tag := f.Tag.Get("json"); tag != "" && tag != "-" {
				name = strings.Split(tag, ",")[0]
			}
		}
		out = append(out, problem.InvalidParam{
			Name:   name,
			Reason: humanReason(fe),
		})
	}
	return out
}

func humanReason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "url":
		return "must be a valid URL (e.g. https://…)"
	default:
		return fe.Error()
	}
}

func init() {
	tonic.SetErrorHook(func(c *gin.Context, err error) (int, interface{}) {
		// 1) Bind/validate errors → 400 with proper invalidParams
		var be tonic.BindError
		if errors.As(err, &be) || isValidationErr(err) {
			invalids := invalidParamsFromBinding(err, models.BookInput{})
			apiErr := problem.NewBadRequest("body", "Invalid input", invalids...)
			c.Header("Content-Type", "application/problem+json")
			return apiErr.Status, apiErr
		}

		// 2) Our own APIError → pass-through
		if apiErr, ok := err.(problem.APIError); ok {
			c.Header("Content-Type", "application/problem+json")
			return apiErr.Status, apiErr
		}

		// 3) Everything else → 500
		internal := problem.NewInternalServerError(err.Error())
		c.Header("Content-Type", "application/problem+json")
		return internal.Status, internal
	})
}

func isValidationErr(err error) bool {
	var verrs validator.ValidationErrors
	return errors.As(err, &verrs)
}

func main() {
	_ = godotenv.Load()

	dbcon := "postgres://" +
		os.Getenv("DB_USERNAME") + ":" +
		os.Getenv("DB_PASSWORD") + "@" +
		os.Getenv("DB_HOSTNAME") + "/" +
		os.Getenv("DB_DBNAME") + "?search_path=" +
		os.Getenv("DB_SCHEMA")
	db, err := database.Connect(dbcon)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	bookRepo := repositories.NewBookRepository(db)
	bookService := services.NewBookService(bookRepo, qrimage.NewDecoder())
	importService := services.NewImportService(bookRepo, googlebooks.NewClient(), bookService)
	booksController := handler.NewBooksAPIController(bookService)
	importController := handler.NewImportAPIController(importService)
	jobs.ScheduleDailyArtifactAudit(context.Background(), bookService)

	// Start server
	router := api.NewRouter(apiVersion, booksController, importController)

	addr := ":" + os.Getenv("PORT")
	if addr == ":" {
		addr = ":1337"
	}
	log.Printf("Server is running on %s", addr)
	log.Fatal(http.ListenAndServe(addr, router))
}
