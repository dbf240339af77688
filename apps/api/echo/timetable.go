package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/schoolmate/backend/core/timetable"
)

type timetableApi struct {
	svc timetable.Service
}

func registerTimetableAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc timetable.Service) {
	api := timetableApi{svc: svc}

	tg := g.Group("/timetable", jwt)

	tg.GET("", api.retrieve)
	tg.PUT("/slots", api.setSlot)
	tg.DELETE("/slots/:weekday/:period", api.clearSlot)
	tg.DELETE("", api.clearAll)
}

// Handlers

func (api *timetableApi) retrieve(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	tt, err := api.svc.Get(claims.UserID())
	if err != nil {
		return errors.Wrap(err, "getting timetable")
	}
	return ctx.JSON(http.StatusOK, tt)
}

func (api *timetableApi) setSlot(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}

	var data timetable.NewSlot
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewSlot")
	}

	slot, err := api.svc.Set(claims.UserID(), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, slot)
}

func (api *timetableApi) clearSlot(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}

	weekday := intParam(ctx.Param("weekday"), 0)
	period := intParam(ctx.Param("period"), 0)
	if err := api.svc.Clear(claims.UserID(), weekday, period); err != nil {
		if errors.Cause(err) == timetable.ErrSlotNotFound {
			return errHTTPNotFound
		}
		return errors.Wrap(err, "clearing slot")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *timetableApi) clearAll(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	if err := api.svc.ClearAll(claims.UserID()); err != nil {
		return errors.Wrap(err, "clearing timetable")
	}
	return ctx.NoContent(http.StatusNoContent)
}
