package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/schoolmate/backend/core"
	"github.com/schoolmate/backend/core/user"
	bookssvc "github.com/schoolmate/backend/services/books"
)

type bookApi struct {
	books   *bookssvc.Client
	userSvc user.Service
}

func registerBookAPI(g *echo.Group, jwt echo.MiddlewareFunc, books *bookssvc.Client, userSvc user.Service) {
	api := bookApi{books: books, userSvc: userSvc}

	bg := g.Group("/books", jwt)

	bg.GET("/search", api.search)
	bg.GET("/recommended", api.recommended)
}

// Handlers

func (api *bookApi) search(ctx echo.Context) error {
	query := core.CleanString(ctx.QueryParam("query"))
	if query == "" {
		return core.NewValidationError(nil, core.FieldError{Field: "query", Error: "search query is required"})
	}

	books, err := api.books.Search(ctx.Request().Context(), query)
	if err != nil {
		return errors.Wrap(err, "searching books")
	}
	return ctx.JSON(http.StatusOK, books)
}

func (api *bookApi) recommended(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.userSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	gradeLevel := usr.GradeLevel
	if gradeLevel == 0 {
		gradeLevel = 1
	}
	books, err := api.books.Recommended(ctx.Request().Context(), gradeLevel)
	if err != nil {
		return errors.Wrap(err, "fetching recommended books")
	}
	return ctx.JSON(http.StatusOK, books)
}
