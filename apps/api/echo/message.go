package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core/message"
	"github.com/trezcool/shule/core/user"
)

type messageApi struct {
	svc      *message.Service
	validate *validator.Validate
}

func registerMessageAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *message.Service, validate *validator.Validate) {
	api := messageApi{svc: svc, validate: validate}

	mg := g.Group("/messages", jwt)
	mg.POST("", api.send)
	mg.GET("", api.query)
	mg.GET("/staff", api.queryStaff, roleMiddleware(user.RoleAdmin, user.RoleStaff))
	mg.GET("/classes/:id", api.queryByClass)
}

// Handlers

func (api *messageApi) send(ctx echo.Context) error {
	idn, err := getContextIdentity(ctx)
	if err != nil {
		return err
	}

	var data message.NewMessage
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewMessage")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	msg, err := api.svc.Send(idn, data)
	if err != nil {
		return errors.Wrap(err, "sending message")
	}
	return ctx.JSON(http.StatusCreated, msg)
}

func (api *messageApi) query(ctx echo.Context) error {
	idn, err := getContextIdentity(ctx)
	if err != nil {
		return err
	}

	msgs, err := api.svc.Query(idn)
	if err != nil {
		return errors.Wrap(err, "querying messages")
	}
	if msgs == nil {
		msgs = []message.Message{}
	}
	return ctx.JSON(http.StatusOK, msgs)
}

func (api *messageApi) queryStaff(ctx echo.Context) error {
	idn, err := getContextIdentity(ctx)
	if err != nil {
		return err
	}

	msgs, err := api.svc.QueryStaff(idn)
	if err != nil {
		return errors.Wrap(err, "querying staff messages")
	}
	if msgs == nil {
		msgs = []message.Message{}
	}
	return ctx.JSON(http.StatusOK, msgs)
}

func (api *messageApi) queryByClass(ctx echo.Context) error {
	idn, err := getContextIdentity(ctx)
	if err != nil {
		return err
	}

	msgs, err := api.svc.QueryByClass(idn, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "querying class messages")
	}
	if msgs == nil {
		msgs = []message.Message{}
	}
	return ctx.JSON(http.StatusOK, msgs)
}
