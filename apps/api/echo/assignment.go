package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core/assignment"
	"github.com/trezcool/shule/core/user"
)

type assignmentApi struct {
	svc      *assignment.Service
	validate *validator.Validate
}

func registerAssignmentAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *assignment.Service, validate *validator.Validate) {
	api := assignmentApi{svc: svc, validate: validate}

	ag := g.Group("/assignments", jwt)
	ag.POST("", api.create, roleMiddleware(user.RoleAdmin, user.RoleTeacher))
	ag.GET("", api.query)

	dg := ag.Group("/:id")
	dg.GET("", api.retrieve)
	dg.PUT("", api.update)
	dg.DELETE("", api.destroy)
	dg.GET("/submissions", api.submissionsByAssignment)
	dg.POST("/submissions", api.submit, roleMiddleware(user.RoleStudent))
	dg.POST("/submissions/:subID/grade", api.grade, roleMiddleware(user.RoleAdmin, user.RoleTeacher))

	g.GET("/submissions", api.querySubmissions, jwt)
}

// Handlers

func (api *assignmentApi) create(ctx echo.Context) error {
	idn, err := getContextIdentity(ctx)
	if err != nil {
		return err
	}

	var data assignment.NewAssignment
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewAssignment")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	asg, err := api.svc.Create(idn, data)
	if err != nil {
		return errors.Wrap(err, "creating assignment")
	}
	return ctx.JSON(http.StatusCreated, asg)
}

// query lists assignments visible to the identity; ?class= narrows to one class.
func (api *assignmentApi) query(ctx echo.Context) error {
	idn, err := getContextIdentity(ctx)
	if err != nil {
		return err
	}

	var asgs []assignment.Assignment
	if classID := ctx.QueryParam("class"); classID != "" {
		asgs, err = api.svc.QueryByClass(idn, classID)
	} else {
		asgs, err = api.svc.Query(idn)
	}
	if err != nil {
		return errors.Wrap(err, "querying assignments")
	}
	if asgs == nil {
		asgs = []assignment.Assignment{}
	}
	return ctx.JSON(http.StatusOK, asgs)
}

func (api *assignmentApi) retrieve(ctx echo.Context) error {
	idn, err := getContextIdentity(ctx)
	if err != nil {
		return err
	}

	asg, err := api.svc.GetByID(idn, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding assignment by ID")
	}
	return ctx.JSON(http.StatusOK, asg)
}

func (api *assignmentApi) update(ctx echo.Context) error {
	idn, err := getContextIdentity(ctx)
	if err != nil {
		return err
	}

	var data assignment.UpdateAssignment
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateAssignment")
	}

	orig, err := api.svc.GetByID(idn, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding assignment by ID")
	}
	if err = data.Validate(orig, api.validate); err != nil {
		return err
	}

	asg, err := api.svc.Update(idn, orig.ID, data)
	if err != nil {
		return errors.Wrap(err, "updating assignment")
	}
	return ctx.JSON(http.StatusOK, asg)
}

func (api *assignmentApi) destroy(ctx echo.Context) error {
	idn, err := getContextIdentity(ctx)
	if err != nil {
		return err
	}

	if err = api.svc.Delete(idn, ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting assignment")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *assignmentApi) submit(ctx echo.Context) error {
	idn, err := getContextIdentity(ctx)
	if err != nil {
		return err
	}

	var data assignment.NewSubmission
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewSubmission")
	}
	data.AssignmentID = ctx.Param("id")
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	sub, err := api.svc.Submit(idn, data)
	if err != nil {
		return errors.Wrap(err, "submitting assignment")
	}
	return ctx.JSON(http.StatusCreated, sub)
}

func (api *assignmentApi) submissionsByAssignment(ctx echo.Context) error {
	idn, err := getContextIdentity(ctx)
	if err != nil {
		return err
	}

	subs, err := api.svc.SubmissionsByAssignment(idn, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "querying submissions")
	}
	if subs == nil {
		subs = []assignment.Submission{}
	}
	return ctx.JSON(http.StatusOK, subs)
}

func (api *assignmentApi) querySubmissions(ctx echo.Context) error {
	idn, err := getContextIdentity(ctx)
	if err != nil {
		return err
	}

	subs, err := api.svc.QuerySubmissions(idn)
	if err != nil {
		return errors.Wrap(err, "querying submissions")
	}
	if subs == nil {
		subs = []assignment.Submission{}
	}
	return ctx.JSON(http.StatusOK, subs)
}

func (api *assignmentApi) grade(ctx echo.Context) error {
	idn, err := getContextIdentity(ctx)
	if err != nil {
		return err
	}

	var data assignment.GradeSubmission
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to GradeSubmission")
	}

	asg, err := api.svc.GetByID(idn, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding assignment by ID")
	}
	if err = data.Validate(asg.MaxPoints, api.validate); err != nil {
		return err
	}

	sub, err := api.svc.Grade(idn, ctx.Param("subID"), data)
	if err != nil {
		return errors.Wrap(err, "grading submission")
	}
	return ctx.JSON(http.StatusOK, sub)
}
