package content

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/shule/core"
)

// BlogPost categories
const (
	CategoryEvents        = "events"
	CategoryNews          = "news"
	CategoryAcademics     = "academics"
	CategoryAnnouncements = "announcements"
)

// HonorRoll types
const (
	HonorPrincipalsList = "principals_list"
	HonorHighHonor      = "high_honor"
	HonorHonorList      = "honor_list"
)

// Resource is a shared file, optionally attached to a class.
type Resource struct {
	ID          string    `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description,omitempty" db:"description"`
	FileURL     string    `json:"file_url" db:"file_url"`
	FileType    string    `json:"file_type" db:"file_type"`
	ClassID     string    `json:"class_id,omitempty" db:"class_id"`
	UploadedBy  string    `json:"uploaded_by" db:"uploaded_by"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"` // UTC
}

type BlogPost struct {
	ID        string    `json:"id" db:"id"`
	Title     string    `json:"title" db:"title"`
	Content   string    `json:"content" db:"content"`
	Category  string    `json:"category" db:"category"`
	AuthorID  string    `json:"author_id" db:"author_id"`
	Published bool      `json:"published" db:"published"`
	CreatedAt time.Time `json:"created_at" db:"created_at"` // UTC
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"` // UTC
}

type HonorRoll struct {
	ID        string    `json:"id" db:"id"`
	StudentID string    `json:"student_id" db:"student_id"`
	Semester  string    `json:"semester" db:"semester"`
	Year      int       `json:"year" db:"year"`
	HonorType string    `json:"honor_type" db:"honor_type"`
	GPA       *float64  `json:"gpa,omitempty" db:"gpa"`
	CreatedAt time.Time `json:"created_at" db:"created_at"` // UTC
}

// NewResource contains information needed to share a new Resource.
type NewResource struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	FileURL     string `json:"file_url" validate:"required,url"`
	FileType    string `json:"file_type" validate:"required"`
	ClassID     string `json:"class_id"`
}

func (nr *NewResource) Validate(validate *validator.Validate) error {
	nr.Title = core.CleanString(nr.Title)
	nr.Description = core.CleanString(nr.Description)
	nr.FileType = core.CleanString(nr.FileType, true /* lower */)
	return validate.Struct(nr)
}

// NewBlogPost contains information needed to publish a new BlogPost.
type NewBlogPost struct {
	Title     string `json:"title" validate:"required"`
	Content   string `json:"content" validate:"required"`
	Category  string `json:"category" validate:"required,oneof=events news academics announcements"`
	Published bool   `json:"published"`
}

func (np *NewBlogPost) Validate(validate *validator.Validate) error {
	np.Title = core.CleanString(np.Title)
	np.Category = core.CleanString(np.Category, true /* lower */)
	return validate.Struct(np)
}

// UpdateBlogPost defines what information may be provided to modify an
// existing BlogPost.
type UpdateBlogPost struct {
	Title     string `json:"title"`
	Content   string `json:"content"`
	Category  string `json:"category" validate:"omitempty,oneof=events news academics announcements"`
	Published *bool  `json:"published"`
}

func (up *UpdateBlogPost) Validate(origPost BlogPost, validate *validator.Validate) error {
	if title := core.CleanString(up.Title); title != "" {
		up.Title = title
	} else {
		up.Title = origPost.Title
	}
	if content := core.CleanString(up.Content); content != "" {
		up.Content = content
	} else {
		up.Content = origPost.Content
	}
	if cat := core.CleanString(up.Category, true /* lower */); cat != "" {
		up.Category = cat
	} else {
		up.Category = origPost.Category
	}
	return validate.Struct(up)
}

// NewHonorRoll contains information needed to add a student to the honor roll.
type NewHonorRoll struct {
	StudentID string   `json:"student_id" validate:"required"`
	Semester  string   `json:"semester" validate:"required"`
	Year      int      `json:"year" validate:"required,gt=0"`
	HonorType string   `json:"honor_type" validate:"required,oneof=principals_list high_honor honor_list"`
	GPA       *float64 `json:"gpa" validate:"omitempty,gte=0,lte=4"`
}

func (nh *NewHonorRoll) Validate(validate *validator.Validate) error {
	nh.Semester = core.CleanString(nh.Semester)
	nh.HonorType = core.CleanString(nh.HonorType, true /* lower */)
	return validate.Struct(nh)
}

// HonorRollFilter narrows honor roll queries.
type HonorRollFilter struct {
	Semester string `query:"semester"`
	Year     int    `query:"year"`
}
