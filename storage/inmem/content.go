package inmem

import (
	"sort"

	"github.com/trezcool/shule/core/content"
	"github.com/trezcool/shule/core/store"
)

type contentRepository struct {
	resources  *resourceTable
	blogPosts  *blogPostTable
	honorRolls *honorRollTable
}

var _ content.Repository = (*contentRepository)(nil) // interface compliance check

func NewContentRepository(db *DB) content.Repository {
	return &contentRepository{
		resources:  db.resource,
		blogPosts:  db.blogPost,
		honorRolls: db.honorRoll,
	}
}

// Resources

func resourceFields(res content.Resource) func(string) interface{} {
	return func(field string) interface{} {
		switch field {
		case "id":
			return res.ID
		case "class_id":
			return res.ClassID
		case "uploaded_by":
			return res.UploadedBy
		case "file_type":
			return res.FileType
		default:
			return nil
		}
	}
}

func (repo *contentRepository) queryResources(where store.Expr) []content.Resource {
	recs := make([]content.Resource, 0, len(repo.resources.table))
	for _, res := range repo.resources.table {
		if store.Match(where, resourceFields(*res)) {
			recs = append(recs, *res)
		}
	}
	return recs
}

func (repo *contentRepository) CreateResource(res content.Resource) (content.Resource, error) {
	repo.resources.Lock()
	defer repo.resources.Unlock()

	repo.resources.table[res.ID] = &res
	return res, nil
}

func (repo *contentRepository) GetResourceByID(id string) (content.Resource, error) {
	repo.resources.RLock()
	defer repo.resources.RUnlock()

	if res, ok := repo.resources.table[id]; ok {
		return *res, nil
	}
	return content.Resource{}, content.ErrResourceNotFound
}

func (repo *contentRepository) FilterResources(qry store.Query) ([]content.Resource, error) {
	repo.resources.RLock()
	defer repo.resources.RUnlock()

	recs := repo.queryResources(qry.Where)
	sort.SliceStable(recs, func(i, j int) bool { return recs[i].CreatedAt.After(recs[j].CreatedAt) })
	return capped(recs, qry.Limit), nil
}

func (repo *contentRepository) DeleteResourcesByID(ids ...string) error {
	repo.resources.Lock()
	defer repo.resources.Unlock()

	for _, id := range ids {
		delete(repo.resources.table, id)
	}
	return nil
}

// Blog posts

func blogPostFields(post content.BlogPost) func(string) interface{} {
	return func(field string) interface{} {
		switch field {
		case "id":
			return post.ID
		case "category":
			return post.Category
		case "author_id":
			return post.AuthorID
		case "published":
			return post.Published
		default:
			return nil
		}
	}
}

func (repo *contentRepository) queryBlogPosts(where store.Expr) []content.BlogPost {
	recs := make([]content.BlogPost, 0, len(repo.blogPosts.table))
	for _, post := range repo.blogPosts.table {
		if store.Match(where, blogPostFields(*post)) {
			recs = append(recs, *post)
		}
	}
	return recs
}

func (repo *contentRepository) CreateBlogPost(post content.BlogPost) (content.BlogPost, error) {
	repo.blogPosts.Lock()
	defer repo.blogPosts.Unlock()

	repo.blogPosts.table[post.ID] = &post
	return post, nil
}

func (repo *contentRepository) GetBlogPostByID(id string) (content.BlogPost, error) {
	repo.blogPosts.RLock()
	defer repo.blogPosts.RUnlock()

	if post, ok := repo.blogPosts.table[id]; ok {
		return *post, nil
	}
	return content.BlogPost{}, content.ErrPostNotFound
}

func (repo *contentRepository) FilterBlogPosts(qry store.Query) ([]content.BlogPost, error) {
	repo.blogPosts.RLock()
	defer repo.blogPosts.RUnlock()

	recs := repo.queryBlogPosts(qry.Where)
	sort.SliceStable(recs, func(i, j int) bool { return recs[i].CreatedAt.After(recs[j].CreatedAt) })
	return capped(recs, qry.Limit), nil
}

func (repo *contentRepository) UpdateBlogPost(post content.BlogPost) (content.BlogPost, error) {
	repo.blogPosts.Lock()
	defer repo.blogPosts.Unlock()

	orig, ok := repo.blogPosts.table[post.ID]
	if !ok {
		return content.BlogPost{}, content.ErrPostNotFound
	}
	if post.CreatedAt.IsZero() {
		post.CreatedAt = orig.CreatedAt
	}
	repo.blogPosts.table[post.ID] = &post
	return post, nil
}

func (repo *contentRepository) DeleteBlogPostsByID(ids ...string) error {
	repo.blogPosts.Lock()
	defer repo.blogPosts.Unlock()

	for _, id := range ids {
		delete(repo.blogPosts.table, id)
	}
	return nil
}

// Honor roll

func honorRollFields(hr content.HonorRoll) func(string) interface{} {
	return func(field string) interface{} {
		switch field {
		case "id":
			return hr.ID
		case "student_id":
			return hr.StudentID
		case "semester":
			return hr.Semester
		case "year":
			return hr.Year
		case "honor_type":
			return hr.HonorType
		default:
			return nil
		}
	}
}

func (repo *contentRepository) CreateHonorRoll(hr content.HonorRoll) (content.HonorRoll, error) {
	repo.honorRolls.Lock()
	defer repo.honorRolls.Unlock()

	repo.honorRolls.table[hr.ID] = &hr
	return hr, nil
}

func (repo *contentRepository) FilterHonorRolls(qry store.Query) ([]content.HonorRoll, error) {
	repo.honorRolls.RLock()
	defer repo.honorRolls.RUnlock()

	recs := make([]content.HonorRoll, 0, len(repo.honorRolls.table))
	for _, hr := range repo.honorRolls.table {
		if store.Match(qry.Where, honorRollFields(*hr)) {
			recs = append(recs, *hr)
		}
	}
	sort.SliceStable(recs, func(i, j int) bool { return recs[i].CreatedAt.After(recs[j].CreatedAt) })
	return capped(recs, qry.Limit), nil
}
