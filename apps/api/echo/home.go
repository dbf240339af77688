package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/schoolmate/backend/core/schedule"
	"github.com/schoolmate/backend/core/timetable"
	"github.com/schoolmate/backend/core/user"
	neissvc "github.com/schoolmate/backend/services/neis"
)

type homeApi struct {
	scheduleSvc  schedule.Service
	timetableSvc timetable.Service
	userSvc      user.Service
	neis         *neissvc.Client
}

// Dashboard aggregates everything the home screen shows for today.
type Dashboard struct {
	Today     schedule.DayView       `json:"today"`
	Upcoming  []schedule.UpcomingDay `json:"upcoming"`
	Meals     []neissvc.Meal         `json:"meals"`
	Timetable []timetable.Slot       `json:"timetable"`
}

func registerHomeAPI(g *echo.Group, jwt echo.MiddlewareFunc, scheduleSvc schedule.Service, timetableSvc timetable.Service, userSvc user.Service, neis *neissvc.Client) {
	api := homeApi{scheduleSvc: scheduleSvc, timetableSvc: timetableSvc, userSvc: userSvc, neis: neis}

	g.GET("/home", api.dashboard, jwt)
}

func (api *homeApi) dashboard(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.userSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	now := timeNow()
	today := schedule.NewDateKey(now)

	day, err := api.scheduleSvc.Day(ctx.Request().Context(), usr.ID, today, usr.OfficeCode, usr.SchoolCode)
	if err != nil {
		return errors.Wrap(err, "getting day view")
	}
	upcoming, err := api.scheduleSvc.Upcoming(usr.ID, now)
	if err != nil {
		return errors.Wrap(err, "listing upcoming days")
	}

	dash := Dashboard{Today: day, Upcoming: upcoming}

	// meals require a registered school; skip quietly when there is none or
	// the upstream is unavailable
	if usr.OfficeCode != "" && usr.SchoolCode != "" {
		if meals, err := api.neis.Meals(ctx.Request().Context(), usr.OfficeCode, usr.SchoolCode, now); err == nil {
			dash.Meals = meals
		}
	}

	if weekday := int(now.Weekday()); weekday >= timetable.MinWeekday && weekday <= timetable.MaxWeekday {
		tt, err := api.timetableSvc.Get(usr.ID)
		if err != nil {
			return errors.Wrap(err, "getting timetable")
		}
		for _, slot := range tt.Slots {
			if slot.Weekday == weekday {
				dash.Timetable = append(dash.Timetable, slot)
			}
		}
	}

	return ctx.JSON(http.StatusOK, dash)
}
