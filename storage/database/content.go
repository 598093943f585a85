package database

import (
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core/content"
	"github.com/trezcool/shule/core/store"
)

const (
	resourceColumns  = `id, title, description, file_url, file_type, class_id, uploaded_by, created_at`
	blogPostColumns  = `id, title, content, category, author_id, published, created_at, updated_at`
	honorRollColumns = `id, student_id, semester, year, honor_type, gpa, created_at`
)

type contentRepository struct {
	db *sqlx.DB
}

var _ content.Repository = (*contentRepository)(nil) // interface compliance check

func NewContentRepository(db *sqlx.DB) content.Repository {
	return &contentRepository{db: db}
}

// Resources

func (repo *contentRepository) CreateResource(res content.Resource) (content.Resource, error) {
	_, err := repo.db.NamedExec(`
		INSERT INTO resource (id, title, description, file_url, file_type, class_id, uploaded_by, created_at)
		VALUES (:id, :title, :description, :file_url, :file_type, :class_id, :uploaded_by, :created_at)
	`, res)
	if err != nil {
		return content.Resource{}, errors.Wrap(err, "creating resource")
	}
	return res, nil
}

func (repo *contentRepository) GetResourceByID(id string) (content.Resource, error) {
	var res content.Resource
	err := repo.db.Get(&res, `SELECT `+resourceColumns+` FROM resource WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return content.Resource{}, content.ErrResourceNotFound
	}
	if err != nil {
		return content.Resource{}, errors.Wrap(err, "getting resource")
	}
	return res, nil
}

func (repo *contentRepository) FilterResources(qry store.Query) ([]content.Resource, error) {
	q, args := buildSelect(resourceColumns, "resource", qry, "created_at")
	recs := []content.Resource{}
	if err := repo.db.Select(&recs, q, args...); err != nil {
		return nil, errors.Wrap(err, "filtering resources")
	}
	return recs, nil
}

func (repo *contentRepository) DeleteResourcesByID(ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	q, args, err := sqlx.In(`DELETE FROM resource WHERE id IN (?)`, ids)
	if err != nil {
		return errors.Wrap(err, "deleting resources")
	}
	if _, err = repo.db.Exec(repo.db.Rebind(q), args...); err != nil {
		return errors.Wrap(err, "deleting resources")
	}
	return nil
}

// Blog posts

func (repo *contentRepository) CreateBlogPost(post content.BlogPost) (content.BlogPost, error) {
	_, err := repo.db.NamedExec(`
		INSERT INTO blog_post (id, title, content, category, author_id, published, created_at, updated_at)
		VALUES (:id, :title, :content, :category, :author_id, :published, :created_at, :updated_at)
	`, post)
	if err != nil {
		return content.BlogPost{}, errors.Wrap(err, "creating blog post")
	}
	return post, nil
}

func (repo *contentRepository) GetBlogPostByID(id string) (content.BlogPost, error) {
	var post content.BlogPost
	err := repo.db.Get(&post, `SELECT `+blogPostColumns+` FROM blog_post WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return content.BlogPost{}, content.ErrPostNotFound
	}
	if err != nil {
		return content.BlogPost{}, errors.Wrap(err, "getting blog post")
	}
	return post, nil
}

func (repo *contentRepository) FilterBlogPosts(qry store.Query) ([]content.BlogPost, error) {
	q, args := buildSelect(blogPostColumns, "blog_post", qry, "created_at")
	posts := []content.BlogPost{}
	if err := repo.db.Select(&posts, q, args...); err != nil {
		return nil, errors.Wrap(err, "filtering blog posts")
	}
	return posts, nil
}

func (repo *contentRepository) UpdateBlogPost(post content.BlogPost) (content.BlogPost, error) {
	res, err := repo.db.NamedExec(`
		UPDATE blog_post
		SET title = :title, content = :content, category = :category,
		    published = :published, updated_at = :updated_at
		WHERE id = :id
	`, post)
	if err != nil {
		return content.BlogPost{}, errors.Wrap(err, "updating blog post")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return content.BlogPost{}, content.ErrPostNotFound
	}
	return post, nil
}

func (repo *contentRepository) DeleteBlogPostsByID(ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	q, args, err := sqlx.In(`DELETE FROM blog_post WHERE id IN (?)`, ids)
	if err != nil {
		return errors.Wrap(err, "deleting blog posts")
	}
	if _, err = repo.db.Exec(repo.db.Rebind(q), args...); err != nil {
		return errors.Wrap(err, "deleting blog posts")
	}
	return nil
}

// Honor roll

func (repo *contentRepository) CreateHonorRoll(hr content.HonorRoll) (content.HonorRoll, error) {
	_, err := repo.db.NamedExec(`
		INSERT INTO honor_roll (id, student_id, semester, year, honor_type, gpa, created_at)
		VALUES (:id, :student_id, :semester, :year, :honor_type, :gpa, :created_at)
	`, hr)
	if err != nil {
		return content.HonorRoll{}, errors.Wrap(err, "creating honor roll entry")
	}
	return hr, nil
}

func (repo *contentRepository) FilterHonorRolls(qry store.Query) ([]content.HonorRoll, error) {
	q, args := buildSelect(honorRollColumns, "honor_roll", qry, "created_at")
	hrs := []content.HonorRoll{}
	if err := repo.db.Select(&hrs, q, args...); err != nil {
		return nil, errors.Wrap(err, "filtering honor roll entries")
	}
	return hrs, nil
}
