package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core/dashboard"
)

type dashboardApi struct {
	svc *dashboard.Service
}

func registerDashboardAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *dashboard.Service) {
	api := dashboardApi{svc: svc}

	g.GET("/dashboard/stats", api.stats, jwt, adminMiddleware())
}

func (api *dashboardApi) stats(ctx echo.Context) error {
	idn, err := getContextIdentity(ctx)
	if err != nil {
		return err
	}

	stats, err := api.svc.Stats(idn)
	if err != nil {
		return errors.Wrap(err, "aggregating dashboard stats")
	}
	return ctx.JSON(http.StatusOK, stats)
}
