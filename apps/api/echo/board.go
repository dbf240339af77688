package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/schoolmate/backend/core/board"
	"github.com/schoolmate/backend/core/user"
)

type boardApi struct {
	svc     board.Service
	userSvc user.Service
}

func registerBoardAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc board.Service, userSvc user.Service) {
	api := boardApi{svc: svc, userSvc: userSvc}

	bg := g.Group("/board", jwt)

	bg.GET("/categories", api.categories)
	bg.POST("/posts", api.create)
	bg.GET("/posts", api.query)
	bg.GET("/posts/:id", api.retrieve)
	bg.PUT("/posts/:id", api.update)
	bg.DELETE("/posts/:id", api.destroy)
	bg.POST("/posts/:id/comments", api.createComment)
	bg.DELETE("/comments/:id", api.destroyComment)
	bg.POST("/posts/:id/vote", api.toggleVote)
	bg.POST("/posts/:id/scrap", api.toggleScrap)
	bg.GET("/scraps", api.scraps)
}

// Handlers

func (api *boardApi) categories(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, board.Categories)
}

func (api *boardApi) create(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.userSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	var data board.NewPost
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewPost")
	}

	post, err := api.svc.CreatePost(usr.ID, usr.Name, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, post)
}

func (api *boardApi) query(ctx echo.Context) error {
	var filter board.QueryFilter
	if err := ctx.Bind(&filter); err != nil {
		return errors.Wrap(err, "binding to QueryFilter")
	}
	posts, err := api.svc.QueryPosts(filter)
	if err != nil {
		return errors.Wrap(err, "querying posts")
	}
	return ctx.JSON(http.StatusOK, posts)
}

func (api *boardApi) scraps(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	posts, err := api.svc.QueryPosts(board.QueryFilter{ScrappedBy: claims.UserID()})
	if err != nil {
		return errors.Wrap(err, "querying scrapped posts")
	}
	return ctx.JSON(http.StatusOK, posts)
}

func (api *boardApi) retrieve(ctx echo.Context) error {
	post, err := api.svc.GetPost(ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == board.ErrPostNotFound {
			return errHTTPNotFound
		}
		return errors.Wrap(err, "finding post by ID")
	}
	return ctx.JSON(http.StatusOK, post)
}

func (api *boardApi) update(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}

	var data board.UpdatePost
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdatePost")
	}

	post, err := api.svc.UpdatePost(claims.UserID(), ctx.Param("id"), data)
	if err != nil {
		switch errors.Cause(err) {
		case board.ErrPostNotFound:
			return errHTTPNotFound
		case board.ErrNotOwner:
			return errHTTPForbidden
		}
		return err
	}
	return ctx.JSON(http.StatusOK, post)
}

func (api *boardApi) destroy(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}

	if err := api.svc.DeletePost(claims.UserID(), claims.IsAdmin, ctx.Param("id")); err != nil {
		switch errors.Cause(err) {
		case board.ErrPostNotFound:
			return errHTTPNotFound
		case board.ErrNotOwner:
			return errHTTPForbidden
		}
		return errors.Wrap(err, "deleting post")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *boardApi) createComment(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.userSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	var data board.NewComment
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewComment")
	}

	comment, err := api.svc.CreateComment(usr.ID, usr.Name, ctx.Param("id"), data)
	if err != nil {
		if errors.Cause(err) == board.ErrPostNotFound {
			return errHTTPNotFound
		}
		return err
	}
	return ctx.JSON(http.StatusCreated, comment)
}

func (api *boardApi) destroyComment(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}

	if err := api.svc.DeleteComment(claims.UserID(), claims.IsAdmin, ctx.Param("id")); err != nil {
		switch errors.Cause(err) {
		case board.ErrCommentNotFound:
			return errHTTPNotFound
		case board.ErrNotOwner:
			return errHTTPForbidden
		}
		return errors.Wrap(err, "deleting comment")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *boardApi) toggleVote(ctx echo.Context) error {
	return api.toggle(ctx, api.svc.ToggleVote, "voted")
}

func (api *boardApi) toggleScrap(ctx echo.Context) error {
	return api.toggle(ctx, api.svc.ToggleScrap, "scrapped")
}

func (api *boardApi) toggle(ctx echo.Context, do func(int, string) (bool, int, error), key string) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}

	on, count, err := do(claims.UserID(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == board.ErrPostNotFound {
			return errHTTPNotFound
		}
		return err
	}
	return ctx.JSON(http.StatusOK, echo.Map{key: on, "count": count})
}
