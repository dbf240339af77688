package echoapi

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/schoolmate/backend/core/schedule"
)

// timeNow is swapped out in tests.
var timeNow = time.Now

// intParam parses an integer path or query parameter, with a fallback when
// absent or malformed.
func intParam(val string, fallback int) int {
	if n, err := strconv.Atoi(val); err == nil {
		return n
	}
	return fallback
}

// dateParam parses a YYYY-MM-DD path or query parameter.
func dateParam(ctx echo.Context, name string) (schedule.DateKey, error) {
	val := ctx.Param(name)
	if val == "" {
		val = ctx.QueryParam(name)
	}
	date, err := schedule.ParseDateKey(val)
	if err != nil {
		return "", echo.NewHTTPError(400, "invalid date, expected YYYY-MM-DD")
	}
	return date, nil
}

// yearMonthParams parses year/month query parameters, defaulting to the
// current month.
func yearMonthParams(ctx echo.Context) (year, month int) {
	now := timeNow()
	year = intParam(ctx.QueryParam("year"), now.Year())
	month = intParam(ctx.QueryParam("month"), int(now.Month()))
	return year, month
}
