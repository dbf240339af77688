package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/schoolmate/backend/core/grade"
)

type scoreApi struct {
	svc grade.Service
}

func registerScoreAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc grade.Service) {
	api := scoreApi{svc: svc}

	sg := g.Group("/scores", jwt)

	sg.POST("/exams", api.create)
	sg.GET("/exams", api.query)
	sg.GET("/exams/:id", api.retrieve)
	sg.PUT("/exams/:id", api.update)
	sg.DELETE("/exams/:id", api.destroy)
	sg.GET("/exams/:id/report", api.report)
	sg.GET("/reports", api.reports)
	sg.GET("/series", api.series)
}

// Handlers

func (api *scoreApi) create(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}

	var data grade.NewExam
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewExam")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	exam, err := api.svc.Create(claims.UserID(), data)
	if err != nil {
		return errors.Wrap(err, "creating exam")
	}
	return ctx.JSON(http.StatusCreated, exam)
}

func (api *scoreApi) query(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	exams, err := api.svc.Query(claims.UserID())
	if err != nil {
		return errors.Wrap(err, "querying exams")
	}
	return ctx.JSON(http.StatusOK, exams)
}

func (api *scoreApi) retrieve(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	exam, err := api.svc.Get(claims.UserID(), intParam(ctx.Param("id"), 0))
	if err != nil {
		if errors.Cause(err) == grade.ErrNotFound {
			return errHTTPNotFound
		}
		return errors.Wrap(err, "finding exam by ID")
	}
	return ctx.JSON(http.StatusOK, exam)
}

func (api *scoreApi) update(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}

	var data grade.NewExam
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewExam")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	exam, err := api.svc.Update(claims.UserID(), intParam(ctx.Param("id"), 0), data)
	if err != nil {
		if errors.Cause(err) == grade.ErrNotFound {
			return errHTTPNotFound
		}
		return errors.Wrap(err, "updating exam")
	}
	return ctx.JSON(http.StatusOK, exam)
}

func (api *scoreApi) destroy(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	if err := api.svc.Delete(claims.UserID(), intParam(ctx.Param("id"), 0)); err != nil {
		if errors.Cause(err) == grade.ErrNotFound {
			return errHTTPNotFound
		}
		return errors.Wrap(err, "deleting exam")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *scoreApi) report(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	report, err := api.svc.Report(claims.UserID(), intParam(ctx.Param("id"), 0))
	if err != nil {
		if errors.Cause(err) == grade.ErrNotFound {
			return errHTTPNotFound
		}
		return errors.Wrap(err, "building exam report")
	}
	return ctx.JSON(http.StatusOK, report)
}

func (api *scoreApi) reports(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	reports, err := api.svc.Reports(claims.UserID())
	if err != nil {
		return errors.Wrap(err, "building exam reports")
	}
	return ctx.JSON(http.StatusOK, reports)
}

func (api *scoreApi) series(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	series, err := api.svc.SubjectSeries(claims.UserID())
	if err != nil {
		return errors.Wrap(err, "building subject series")
	}
	return ctx.JSON(http.StatusOK, series)
}
