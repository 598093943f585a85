package content

import (
	"errors"
	"time"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/store"
	"github.com/trezcool/shule/core/user"
)

var (
	// errors
	ErrResourceNotFound = errors.New("resource not found")
	ErrPostNotFound     = errors.New("blog post not found")
)

type (
	Repository interface {
		CreateResource(res Resource) (Resource, error)
		GetResourceByID(id string) (Resource, error)
		FilterResources(qry store.Query) ([]Resource, error)
		DeleteResourcesByID(ids ...string) error

		CreateBlogPost(post BlogPost) (BlogPost, error)
		GetBlogPostByID(id string) (BlogPost, error)
		FilterBlogPosts(qry store.Query) ([]BlogPost, error)
		// UpdateBlogPost merges set fields of post over the stored record.
		UpdateBlogPost(post BlogPost) (BlogPost, error)
		DeleteBlogPostsByID(ids ...string) error

		CreateHonorRoll(hr HonorRoll) (HonorRoll, error)
		FilterHonorRolls(qry store.Query) ([]HonorRoll, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Resources

func (svc *Service) UploadResource(idn user.Identity, nr NewResource) (Resource, error) {
	if idn.IsZero() {
		return Resource{}, core.ErrAuthRequired
	}
	if !(idn.IsAdmin() || idn.IsTeacher()) {
		return Resource{}, core.ErrPermissionDenied
	}

	res := Resource{
		ID:          core.NewID("resource"),
		Title:       nr.Title,
		Description: nr.Description,
		FileURL:     nr.FileURL,
		FileType:    nr.FileType,
		ClassID:     nr.ClassID,
		UploadedBy:  idn.ID,
		CreatedAt:   time.Now().UTC(),
	}
	return svc.repo.CreateResource(res)
}

// QueryResources lists shared resources, optionally narrowed to one class.
func (svc *Service) QueryResources(idn user.Identity, classID string) ([]Resource, error) {
	if idn.IsZero() {
		return nil, core.ErrAuthRequired
	}

	var where store.Expr
	if classID != "" {
		where = store.Eq{Field: "class_id", Value: classID}
	}
	return svc.repo.FilterResources(store.Query{Where: where})
}

func (svc *Service) DeleteResource(idn user.Identity, id string) error {
	if idn.IsZero() {
		return core.ErrAuthRequired
	}
	res, err := svc.repo.GetResourceByID(id)
	if err != nil {
		return err
	}
	if !(idn.IsAdmin() || res.UploadedBy == idn.ID) {
		return core.ErrPermissionDenied
	}
	return svc.repo.DeleteResourcesByID(id)
}

// Blog posts

func (svc *Service) CreateBlogPost(idn user.Identity, np NewBlogPost) (BlogPost, error) {
	if idn.IsZero() {
		return BlogPost{}, core.ErrAuthRequired
	}
	if !idn.IsAdmin() {
		return BlogPost{}, core.ErrPermissionDenied
	}

	now := time.Now().UTC()
	post := BlogPost{
		ID:        core.NewID("post"),
		Title:     np.Title,
		Content:   np.Content,
		Category:  np.Category,
		AuthorID:  idn.ID,
		Published: np.Published,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return svc.repo.CreateBlogPost(post)
}

func (svc *Service) GetBlogPost(idn user.Identity, id string) (BlogPost, error) {
	if idn.IsZero() {
		return BlogPost{}, core.ErrAuthRequired
	}
	post, err := svc.repo.GetBlogPostByID(id)
	if err != nil {
		return BlogPost{}, err
	}
	if !post.Published && !idn.IsAdmin() {
		return BlogPost{}, ErrPostNotFound
	}
	return post, nil
}

// QueryBlogPosts lists posts; non-admins only ever see published ones.
func (svc *Service) QueryBlogPosts(idn user.Identity, published *bool) ([]BlogPost, error) {
	if idn.IsZero() {
		return nil, core.ErrAuthRequired
	}

	if !idn.IsAdmin() {
		t := true
		published = &t
	}
	var where store.Expr
	if published != nil {
		where = store.Eq{Field: "published", Value: *published}
	}
	return svc.repo.FilterBlogPosts(store.Query{Where: where})
}

func (svc *Service) UpdateBlogPost(idn user.Identity, id string, up UpdateBlogPost) (BlogPost, error) {
	if idn.IsZero() {
		return BlogPost{}, core.ErrAuthRequired
	}
	if !idn.IsAdmin() {
		return BlogPost{}, core.ErrPermissionDenied
	}

	post, err := svc.repo.GetBlogPostByID(id)
	if err != nil {
		return BlogPost{}, err
	}
	post.Title = up.Title
	post.Content = up.Content
	post.Category = up.Category
	if up.Published != nil {
		post.Published = *up.Published
	}
	post.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateBlogPost(post)
}

func (svc *Service) DeleteBlogPosts(idn user.Identity, ids ...string) error {
	if idn.IsZero() {
		return core.ErrAuthRequired
	}
	if !idn.IsAdmin() {
		return core.ErrPermissionDenied
	}
	return svc.repo.DeleteBlogPostsByID(ids...)
}

// Honor roll

func (svc *Service) AddHonorRoll(idn user.Identity, nh NewHonorRoll) (HonorRoll, error) {
	if idn.IsZero() {
		return HonorRoll{}, core.ErrAuthRequired
	}
	if !idn.IsAdmin() {
		return HonorRoll{}, core.ErrPermissionDenied
	}

	hr := HonorRoll{
		ID:        core.NewID("honor"),
		StudentID: nh.StudentID,
		Semester:  nh.Semester,
		Year:      nh.Year,
		HonorType: nh.HonorType,
		GPA:       nh.GPA,
		CreatedAt: time.Now().UTC(),
	}
	return svc.repo.CreateHonorRoll(hr)
}

func (svc *Service) QueryHonorRolls(idn user.Identity, filter HonorRollFilter) ([]HonorRoll, error) {
	if idn.IsZero() {
		return nil, core.ErrAuthRequired
	}

	var exprs store.And
	if filter.Semester != "" {
		exprs = append(exprs, store.Eq{Field: "semester", Value: filter.Semester})
	}
	if filter.Year != 0 {
		exprs = append(exprs, store.Eq{Field: "year", Value: filter.Year})
	}
	var where store.Expr
	if len(exprs) > 0 {
		where = exprs
	}
	return svc.repo.FilterHonorRolls(store.Query{Where: where})
}
