package echoapi

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core/content"
	"github.com/trezcool/shule/core/user"
)

type contentApi struct {
	svc      *content.Service
	validate *validator.Validate
}

func registerContentAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *content.Service, validate *validator.Validate) {
	api := contentApi{svc: svc, validate: validate}

	rg := g.Group("/resources", jwt)
	rg.POST("", api.uploadResource, roleMiddleware(user.RoleAdmin, user.RoleTeacher))
	rg.GET("", api.queryResources)
	rg.DELETE("/:id", api.destroyResource)

	bg := g.Group("/blog-posts", jwt)
	bg.POST("", api.createBlogPost, adminMiddleware())
	bg.GET("", api.queryBlogPosts)
	bg.GET("/:id", api.retrieveBlogPost)
	bg.PUT("/:id", api.updateBlogPost, adminMiddleware())
	bg.DELETE("/:id", api.destroyBlogPost, adminMiddleware())

	hg := g.Group("/honor-rolls", jwt)
	hg.POST("", api.addHonorRoll, adminMiddleware())
	hg.GET("", api.queryHonorRolls)
}

// Resources

func (api *contentApi) uploadResource(ctx echo.Context) error {
	idn, err := getContextIdentity(ctx)
	if err != nil {
		return err
	}

	var data content.NewResource
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewResource")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	res, err := api.svc.UploadResource(idn, data)
	if err != nil {
		return errors.Wrap(err, "uploading resource")
	}
	return ctx.JSON(http.StatusCreated, res)
}

func (api *contentApi) queryResources(ctx echo.Context) error {
	idn, err := getContextIdentity(ctx)
	if err != nil {
		return err
	}

	recs, err := api.svc.QueryResources(idn, ctx.QueryParam("class"))
	if err != nil {
		return errors.Wrap(err, "querying resources")
	}
	if recs == nil {
		recs = []content.Resource{}
	}
	return ctx.JSON(http.StatusOK, recs)
}

func (api *contentApi) destroyResource(ctx echo.Context) error {
	idn, err := getContextIdentity(ctx)
	if err != nil {
		return err
	}

	if err = api.svc.DeleteResource(idn, ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting resource")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// Blog posts

func (api *contentApi) createBlogPost(ctx echo.Context) error {
	idn, err := getContextIdentity(ctx)
	if err != nil {
		return err
	}

	var data content.NewBlogPost
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewBlogPost")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	post, err := api.svc.CreateBlogPost(idn, data)
	if err != nil {
		return errors.Wrap(err, "creating blog post")
	}
	return ctx.JSON(http.StatusCreated, post)
}

// queryBlogPosts lists posts; admins may pass ?published= to filter drafts.
func (api *contentApi) queryBlogPosts(ctx echo.Context) error {
	idn, err := getContextIdentity(ctx)
	if err != nil {
		return err
	}

	var published *bool
	if p := ctx.QueryParam("published"); p != "" {
		if b, err := strconv.ParseBool(p); err == nil {
			published = &b
		}
	}

	posts, err := api.svc.QueryBlogPosts(idn, published)
	if err != nil {
		return errors.Wrap(err, "querying blog posts")
	}
	if posts == nil {
		posts = []content.BlogPost{}
	}
	return ctx.JSON(http.StatusOK, posts)
}

func (api *contentApi) retrieveBlogPost(ctx echo.Context) error {
	idn, err := getContextIdentity(ctx)
	if err != nil {
		return err
	}

	post, err := api.svc.GetBlogPost(idn, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding blog post by ID")
	}
	return ctx.JSON(http.StatusOK, post)
}

func (api *contentApi) updateBlogPost(ctx echo.Context) error {
	idn, err := getContextIdentity(ctx)
	if err != nil {
		return err
	}

	var data content.UpdateBlogPost
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateBlogPost")
	}

	orig, err := api.svc.GetBlogPost(idn, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding blog post by ID")
	}
	if err = data.Validate(orig, api.validate); err != nil {
		return err
	}

	post, err := api.svc.UpdateBlogPost(idn, orig.ID, data)
	if err != nil {
		return errors.Wrap(err, "updating blog post")
	}
	return ctx.JSON(http.StatusOK, post)
}

func (api *contentApi) destroyBlogPost(ctx echo.Context) error {
	idn, err := getContextIdentity(ctx)
	if err != nil {
		return err
	}

	if err = api.svc.DeleteBlogPosts(idn, ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting blog post")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// Honor roll

func (api *contentApi) addHonorRoll(ctx echo.Context) error {
	idn, err := getContextIdentity(ctx)
	if err != nil {
		return err
	}

	var data content.NewHonorRoll
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewHonorRoll")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	hr, err := api.svc.AddHonorRoll(idn, data)
	if err != nil {
		return errors.Wrap(err, "adding honor roll entry")
	}
	return ctx.JSON(http.StatusCreated, hr)
}

func (api *contentApi) queryHonorRolls(ctx echo.Context) error {
	idn, err := getContextIdentity(ctx)
	if err != nil {
		return err
	}

	var filter content.HonorRollFilter
	if err = ctx.Bind(&filter); err != nil {
		return errors.Wrap(err, "binding to HonorRollFilter")
	}

	hrs, err := api.svc.QueryHonorRolls(idn, filter)
	if err != nil {
		return errors.Wrap(err, "querying honor rolls")
	}
	if hrs == nil {
		hrs = []content.HonorRoll{}
	}
	return ctx.JSON(http.StatusOK, hrs)
}
