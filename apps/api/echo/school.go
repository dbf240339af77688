package echoapi

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/schoolmate/backend/core"
	"github.com/schoolmate/backend/core/user"
	neissvc "github.com/schoolmate/backend/services/neis"
)

type schoolApi struct {
	neis    *neissvc.Client
	userSvc user.Service
}

func registerSchoolAPI(g *echo.Group, jwt echo.MiddlewareFunc, neis *neissvc.Client, userSvc user.Service) {
	api := schoolApi{neis: neis, userSvc: userSvc}

	sg := g.Group("/schools", jwt)

	sg.GET("/search", api.search)
	sg.GET("/meals", api.meals)
}

// Handlers

func (api *schoolApi) search(ctx echo.Context) error {
	name := core.CleanString(ctx.QueryParam("name"))
	if name == "" {
		return core.NewValidationError(nil, core.FieldError{Field: "name", Error: "school name is required"})
	}

	schools, err := api.neis.SearchSchools(ctx.Request().Context(), name)
	if err != nil {
		return errors.Wrap(err, "searching schools")
	}
	return ctx.JSON(http.StatusOK, schools)
}

// meals returns the menu of the caller's registered school for the given date
// (today by default).
func (api *schoolApi) meals(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.userSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	if usr.OfficeCode == "" || usr.SchoolCode == "" {
		return core.NewValidationError(nil, core.FieldError{Field: "school_code", Error: "no school registered for this account"})
	}

	date := timeNow()
	if val := ctx.QueryParam("date"); val != "" {
		date, err = time.Parse("2006-01-02", val)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		}
	}

	meals, err := api.neis.Meals(ctx.Request().Context(), usr.OfficeCode, usr.SchoolCode, date)
	if err != nil {
		return errors.Wrap(err, "fetching meals")
	}
	return ctx.JSON(http.StatusOK, meals)
}
