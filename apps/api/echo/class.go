package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core/class"
	"github.com/trezcool/shule/core/user"
)

type classApi struct {
	svc      *class.Service
	validate *validator.Validate
}

func registerClassAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *class.Service, validate *validator.Validate) {
	api := classApi{svc: svc, validate: validate}

	cg := g.Group("/classes", jwt)
	cg.POST("", api.create, roleMiddleware(user.RoleAdmin, user.RoleTeacher))
	cg.GET("", api.query)

	dg := cg.Group("/:id")
	dg.GET("", api.retrieve)
	dg.PUT("", api.update)
	dg.DELETE("", api.destroy)
	dg.GET("/students", api.students)
	dg.POST("/students", api.enroll)
	dg.DELETE("/students/:studentID", api.unenroll)
}

// Handlers

func (api *classApi) create(ctx echo.Context) error {
	idn, err := getContextIdentity(ctx)
	if err != nil {
		return err
	}

	var data class.NewClass
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewClass")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	cls, err := api.svc.Create(idn, data)
	if err != nil {
		return errors.Wrap(err, "creating class")
	}
	return ctx.JSON(http.StatusCreated, cls)
}

func (api *classApi) query(ctx echo.Context) error {
	idn, err := getContextIdentity(ctx)
	if err != nil {
		return err
	}

	classes, err := api.svc.Query(idn)
	if err != nil {
		return errors.Wrap(err, "querying classes")
	}
	if classes == nil {
		classes = []class.Class{}
	}
	return ctx.JSON(http.StatusOK, classes)
}

func (api *classApi) retrieve(ctx echo.Context) error {
	idn, err := getContextIdentity(ctx)
	if err != nil {
		return err
	}

	cls, err := api.svc.GetByID(idn, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding class by ID")
	}
	return ctx.JSON(http.StatusOK, cls)
}

func (api *classApi) update(ctx echo.Context) error {
	idn, err := getContextIdentity(ctx)
	if err != nil {
		return err
	}

	var data class.UpdateClass
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateClass")
	}

	orig, err := api.svc.GetByID(idn, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding class by ID")
	}
	if err = data.Validate(orig, api.validate); err != nil {
		return err
	}

	cls, err := api.svc.Update(idn, orig.ID, data)
	if err != nil {
		return errors.Wrap(err, "updating class")
	}
	return ctx.JSON(http.StatusOK, cls)
}

func (api *classApi) destroy(ctx echo.Context) error {
	idn, err := getContextIdentity(ctx)
	if err != nil {
		return err
	}

	if err = api.svc.Delete(idn, ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting class")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *classApi) students(ctx echo.Context) error {
	idn, err := getContextIdentity(ctx)
	if err != nil {
		return err
	}

	students, err := api.svc.Students(idn, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "querying class roster")
	}
	if students == nil {
		students = []user.User{}
	}
	return ctx.JSON(http.StatusOK, students)
}

func (api *classApi) enroll(ctx echo.Context) error {
	idn, err := getContextIdentity(ctx)
	if err != nil {
		return err
	}

	var data EnrollRequest
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to EnrollRequest")
	}
	if err = api.validate.Struct(&data); err != nil {
		return err
	}

	enr, err := api.svc.Enroll(idn, ctx.Param("id"), data.StudentID)
	if err != nil {
		return errors.Wrap(err, "enrolling student")
	}
	return ctx.JSON(http.StatusCreated, enr)
}

func (api *classApi) unenroll(ctx echo.Context) error {
	idn, err := getContextIdentity(ctx)
	if err != nil {
		return err
	}

	if err = api.svc.Unenroll(idn, ctx.Param("id"), ctx.Param("studentID")); err != nil {
		return errors.Wrap(err, "unenrolling student")
	}
	return ctx.NoContent(http.StatusNoContent)
}

type EnrollRequest struct {
	StudentID string `json:"student_id" validate:"required"`
}
