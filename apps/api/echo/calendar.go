package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/schoolmate/backend/core/schedule"
	"github.com/schoolmate/backend/core/user"
)

type calendarApi struct {
	svc     schedule.Service
	userSvc user.Service
}

func registerCalendarAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc schedule.Service, userSvc user.Service) {
	api := calendarApi{svc: svc, userSvc: userSvc}

	cg := g.Group("/calendar", jwt)

	cg.GET("/month", api.month)
	cg.GET("/events", api.events)
	cg.GET("/upcoming", api.upcoming)
	cg.GET("/periods", api.periods)
	cg.POST("/periods", api.addPeriod)
	cg.DELETE("/periods/:id", api.deletePeriod)
	cg.PUT("/view", api.setView)
	cg.PUT("/selected-date", api.setSelectedDate)
	cg.PUT("/context-date", api.setContextDate)

	dg := cg.Group("/days/:date")
	dg.GET("", api.day)
	dg.POST("/entries", api.addEntry)
	dg.PUT("/entries/:index", api.updateEntry)
	dg.DELETE("/entries/:index", api.deleteEntry)
	dg.PUT("/color", api.setColor)
	dg.POST("/wipe", api.requestWipe)
	dg.POST("/wipe/confirm", api.confirmWipe)
	dg.DELETE("/wipe", api.cancelWipe)
}

// Handlers

func (api *calendarApi) day(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.userSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	date, err := dateParam(ctx, "date")
	if err != nil {
		return err
	}

	view, err := api.svc.Day(ctx.Request().Context(), usr.ID, date, usr.OfficeCode, usr.SchoolCode)
	if err != nil {
		return errors.Wrap(err, "getting day view")
	}
	return ctx.JSON(http.StatusOK, view)
}

func (api *calendarApi) month(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.userSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	year, month := yearMonthParams(ctx)

	views, err := api.svc.Month(ctx.Request().Context(), usr.ID, year, month, usr.OfficeCode, usr.SchoolCode)
	if err != nil {
		return errors.Wrap(err, "getting month views")
	}
	return ctx.JSON(http.StatusOK, views)
}

func (api *calendarApi) events(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	events, err := api.svc.Events(claims.UserID())
	if err != nil {
		return errors.Wrap(err, "listing events")
	}
	return ctx.JSON(http.StatusOK, events)
}

func (api *calendarApi) upcoming(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	days, err := api.svc.Upcoming(claims.UserID(), timeNow())
	if err != nil {
		return errors.Wrap(err, "listing upcoming days")
	}
	return ctx.JSON(http.StatusOK, days)
}

func (api *calendarApi) addEntry(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	date, err := dateParam(ctx, "date")
	if err != nil {
		return err
	}

	var data schedule.NewEntry
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewEntry")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	view, err := api.svc.AddEntry(claims.UserID(), date, data)
	if err != nil {
		return errors.Wrap(err, "adding entry")
	}
	return ctx.JSON(http.StatusCreated, view)
}

func (api *calendarApi) updateEntry(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	date, err := dateParam(ctx, "date")
	if err != nil {
		return err
	}
	index := intParam(ctx.Param("index"), -1)

	var data schedule.NewEntry
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewEntry")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	view, err := api.svc.UpdateEntry(claims.UserID(), date, index, data)
	if err != nil {
		if errors.Cause(err) == schedule.ErrEntryNotFound {
			return errHTTPNotFound
		}
		return errors.Wrap(err, "updating entry")
	}
	return ctx.JSON(http.StatusOK, view)
}

func (api *calendarApi) deleteEntry(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	date, err := dateParam(ctx, "date")
	if err != nil {
		return err
	}
	index := intParam(ctx.Param("index"), -1)

	view, err := api.svc.DeleteEntry(claims.UserID(), date, index)
	if err != nil {
		if errors.Cause(err) == schedule.ErrEntryNotFound {
			return errHTTPNotFound
		}
		return errors.Wrap(err, "deleting entry")
	}
	return ctx.JSON(http.StatusOK, view)
}

func (api *calendarApi) setColor(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	date, err := dateParam(ctx, "date")
	if err != nil {
		return err
	}

	var data struct {
		Color string `json:"color"`
	}
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding color")
	}

	if err := api.svc.SetColor(claims.UserID(), date, data.Color); err != nil {
		return errors.Wrap(err, "setting color")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// requestWipe issues a single-use token; the deletion only happens once the
// token is posted back to the confirm endpoint.
func (api *calendarApi) requestWipe(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	date, err := dateParam(ctx, "date")
	if err != nil {
		return err
	}

	token, err := api.svc.RequestWipe(claims.UserID(), date)
	if err != nil {
		return errors.Wrap(err, "requesting wipe")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"token": token})
}

func (api *calendarApi) confirmWipe(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}

	var data struct {
		Token string `json:"token"`
	}
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding wipe token")
	}

	if err := api.svc.ConfirmWipe(claims.UserID(), data.Token); err != nil {
		if errors.Cause(err) == schedule.ErrWipeNotFound {
			return errHTTPNotFound
		}
		return errors.Wrap(err, "confirming wipe")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *calendarApi) cancelWipe(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}

	var data struct {
		Token string `json:"token"`
	}
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding wipe token")
	}

	if err := api.svc.CancelWipe(claims.UserID(), data.Token); err != nil {
		if errors.Cause(err) == schedule.ErrWipeNotFound {
			return errHTTPNotFound
		}
		return errors.Wrap(err, "cancelling wipe")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *calendarApi) periods(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	periods, err := api.svc.Periods(claims.UserID())
	if err != nil {
		return errors.Wrap(err, "listing periods")
	}
	return ctx.JSON(http.StatusOK, periods)
}

func (api *calendarApi) addPeriod(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}

	var data schedule.NewPeriod
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewPeriod")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	period, err := api.svc.AddPeriod(claims.UserID(), data)
	if err != nil {
		return errors.Wrap(err, "adding period")
	}
	return ctx.JSON(http.StatusCreated, period)
}

func (api *calendarApi) deletePeriod(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	if err := api.svc.DeletePeriod(claims.UserID(), ctx.Param("id")); err != nil {
		if errors.Cause(err) == schedule.ErrPeriodNotFound {
			return errHTTPNotFound
		}
		return errors.Wrap(err, "deleting period")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *calendarApi) setView(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	year, month := yearMonthParams(ctx)
	if err := api.svc.SetView(claims.UserID(), year, month); err != nil {
		return errors.Wrap(err, "setting view")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *calendarApi) setSelectedDate(ctx echo.Context) error {
	return api.setDate(ctx, api.svc.SetSelectedDate)
}

func (api *calendarApi) setContextDate(ctx echo.Context) error {
	return api.setDate(ctx, api.svc.SetContextDate)
}

func (api *calendarApi) setDate(ctx echo.Context, set func(int, schedule.DateKey) error) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	date, err := dateParam(ctx, "date")
	if err != nil {
		return err
	}
	if err := set(claims.UserID(), date); err != nil {
		return errors.Wrap(err, "setting date")
	}
	return ctx.NoContent(http.StatusNoContent)
}
