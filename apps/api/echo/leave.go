package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core/leave"
)

type leaveApi struct {
	svc      *leave.Service
	validate *validator.Validate
}

func registerLeaveAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *leave.Service, validate *validator.Validate) {
	api := leaveApi{svc: svc, validate: validate}

	lg := g.Group("/leave-requests", jwt)
	lg.POST("", api.create)
	lg.GET("", api.query)
	lg.POST("/:id/approve", api.approve, adminMiddleware())
	lg.POST("/:id/reject", api.reject, adminMiddleware())
}

// Handlers

func (api *leaveApi) create(ctx echo.Context) error {
	idn, err := getContextIdentity(ctx)
	if err != nil {
		return err
	}

	var data leave.NewRequest
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewRequest")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	req, err := api.svc.Create(idn, data)
	if err != nil {
		return errors.Wrap(err, "filing leave request")
	}
	return ctx.JSON(http.StatusCreated, req)
}

func (api *leaveApi) query(ctx echo.Context) error {
	idn, err := getContextIdentity(ctx)
	if err != nil {
		return err
	}

	reqs, err := api.svc.Query(idn)
	if err != nil {
		return errors.Wrap(err, "querying leave requests")
	}
	if reqs == nil {
		reqs = []leave.Request{}
	}
	return ctx.JSON(http.StatusOK, reqs)
}

func (api *leaveApi) approve(ctx echo.Context) error {
	return api.resolve(ctx, leave.StatusApproved)
}

func (api *leaveApi) reject(ctx echo.Context) error {
	return api.resolve(ctx, leave.StatusRejected)
}

func (api *leaveApi) resolve(ctx echo.Context, status string) error {
	idn, err := getContextIdentity(ctx)
	if err != nil {
		return err
	}

	req, err := api.svc.Resolve(idn, ctx.Param("id"), status)
	if err != nil {
		return errors.Wrap(err, "resolving leave request")
	}
	return ctx.JSON(http.StatusOK, req)
}
