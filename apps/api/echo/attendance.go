package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core/attendance"
	"github.com/trezcool/shule/core/user"
)

type attendanceApi struct {
	svc      *attendance.Service
	validate *validator.Validate
}

func registerAttendanceAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *attendance.Service, validate *validator.Validate) {
	api := attendanceApi{svc: svc, validate: validate}

	ag := g.Group("/attendance", jwt)
	ag.POST("", api.mark, roleMiddleware(user.RoleAdmin, user.RoleTeacher))
	ag.GET("", api.query)
	ag.GET("/classes/:id", api.queryByClass)
}

// Handlers

func (api *attendanceApi) mark(ctx echo.Context) error {
	idn, err := getContextIdentity(ctx)
	if err != nil {
		return err
	}

	var data attendance.NewAttendance
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewAttendance")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	att, err := api.svc.Mark(idn, data)
	if err != nil {
		return errors.Wrap(err, "marking attendance")
	}
	return ctx.JSON(http.StatusCreated, att)
}

func (api *attendanceApi) query(ctx echo.Context) error {
	idn, err := getContextIdentity(ctx)
	if err != nil {
		return err
	}

	atts, err := api.svc.Query(idn)
	if err != nil {
		return errors.Wrap(err, "querying attendance")
	}
	if atts == nil {
		atts = []attendance.Attendance{}
	}
	return ctx.JSON(http.StatusOK, atts)
}

// queryByClass lists a class's attendance; ?date= narrows to one day.
func (api *attendanceApi) queryByClass(ctx echo.Context) error {
	idn, err := getContextIdentity(ctx)
	if err != nil {
		return err
	}

	atts, err := api.svc.QueryByClass(idn, ctx.Param("id"), ctx.QueryParam("date"))
	if err != nil {
		return errors.Wrap(err, "querying class attendance")
	}
	if atts == nil {
		atts = []attendance.Attendance{}
	}
	return ctx.JSON(http.StatusOK, atts)
}
