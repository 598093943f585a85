package content_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/content"
	"github.com/trezcool/shule/core/user"
	"github.com/trezcool/shule/storage/inmem"
	testutil "github.com/trezcool/shule/tests"
)

func setup(t *testing.T) (*content.Service, user.Repository) {
	db := testutil.OpenDB(t)
	usrRepo := inmem.NewUserRepository(db)
	return content.NewService(inmem.NewContentRepository(db)), usrRepo
}

func TestService_Resources(t *testing.T) {
	svc, usrRepo := setup(t)

	admin := testutil.CreateUser(t, usrRepo, "Admin", "admin@test.cd", user.RoleAdmin, "", true)
	teacher := testutil.CreateUser(t, usrRepo, "Teacher", "teacher@test.cd", user.RoleTeacher, "", true)
	other := testutil.CreateUser(t, usrRepo, "Other", "other@test.cd", user.RoleTeacher, "", true)
	student := testutil.CreateUser(t, usrRepo, "Student", "student@test.cd", user.RoleStudent, "", true)

	nr := content.NewResource{
		Title:    "Syllabus",
		FileURL:  "https://files.test.cd/syllabus.pdf",
		FileType: "pdf",
		ClassID:  "class_1",
	}

	if _, err := svc.UploadResource(student.Identity(), nr); err != core.ErrPermissionDenied {
		t.Errorf("UploadResource() error = %v; want %v", err, core.ErrPermissionDenied)
	}

	res, err := svc.UploadResource(teacher.Identity(), nr)
	if err != nil {
		t.Fatalf("UploadResource() failed: %v", err)
	}
	assert.Equal(t, teacher.ID, res.UploadedBy)

	general, err := svc.UploadResource(admin.Identity(), content.NewResource{
		Title: "Handbook", FileURL: "https://files.test.cd/handbook.pdf", FileType: "pdf",
	})
	if err != nil {
		t.Fatalf("UploadResource() failed: %v", err)
	}

	// everyone authenticated can browse
	all, err := svc.QueryResources(student.Identity(), "")
	if err != nil {
		t.Fatalf("QueryResources() failed: %v", err)
	}
	assert.ElementsMatch(t, []content.Resource{res, general}, all)

	byClass, err := svc.QueryResources(student.Identity(), "class_1")
	if err != nil {
		t.Fatalf("QueryResources() failed: %v", err)
	}
	assert.ElementsMatch(t, []content.Resource{res}, byClass)

	// only the uploader or an admin may delete
	if err = svc.DeleteResource(other.Identity(), res.ID); err != core.ErrPermissionDenied {
		t.Errorf("DeleteResource() error = %v; want %v", err, core.ErrPermissionDenied)
	}
	if err = svc.DeleteResource(teacher.Identity(), res.ID); err != nil {
		t.Fatalf("DeleteResource() failed: %v", err)
	}
	if err = svc.DeleteResource(admin.Identity(), general.ID); err != nil {
		t.Fatalf("DeleteResource() failed: %v", err)
	}
	if err = svc.DeleteResource(admin.Identity(), general.ID); err != content.ErrResourceNotFound {
		t.Errorf("DeleteResource() error = %v; want %v", err, content.ErrResourceNotFound)
	}
}

func TestService_BlogPosts(t *testing.T) {
	svc, usrRepo := setup(t)

	admin := testutil.CreateUser(t, usrRepo, "Admin", "admin@test.cd", user.RoleAdmin, "", true)
	student := testutil.CreateUser(t, usrRepo, "Student", "student@test.cd", user.RoleStudent, "", true)

	if _, err := svc.CreateBlogPost(student.Identity(), content.NewBlogPost{}); err != core.ErrPermissionDenied {
		t.Errorf("CreateBlogPost() error = %v; want %v", err, core.ErrPermissionDenied)
	}

	published, err := svc.CreateBlogPost(admin.Identity(), content.NewBlogPost{
		Title: "Spring Fair", Content: "Details inside.", Category: content.CategoryEvents, Published: true,
	})
	if err != nil {
		t.Fatalf("CreateBlogPost() failed: %v", err)
	}
	draft, err := svc.CreateBlogPost(admin.Identity(), content.NewBlogPost{
		Title: "Draft", Content: "WIP.", Category: content.CategoryNews,
	})
	if err != nil {
		t.Fatalf("CreateBlogPost() failed: %v", err)
	}

	// non-admins only ever see published posts
	got, err := svc.QueryBlogPosts(student.Identity(), nil)
	if err != nil {
		t.Fatalf("QueryBlogPosts() failed: %v", err)
	}
	assert.ElementsMatch(t, []content.BlogPost{published}, got)

	f := false
	got, err = svc.QueryBlogPosts(student.Identity(), &f)
	if err != nil {
		t.Fatalf("QueryBlogPosts() failed: %v", err)
	}
	assert.ElementsMatch(t, []content.BlogPost{published}, got)

	got, err = svc.QueryBlogPosts(admin.Identity(), nil)
	if err != nil {
		t.Fatalf("QueryBlogPosts() failed: %v", err)
	}
	assert.ElementsMatch(t, []content.BlogPost{published, draft}, got)

	got, err = svc.QueryBlogPosts(admin.Identity(), &f)
	if err != nil {
		t.Fatalf("QueryBlogPosts() failed: %v", err)
	}
	assert.ElementsMatch(t, []content.BlogPost{draft}, got)

	// a draft reads as missing to non-admins
	if _, err = svc.GetBlogPost(student.Identity(), draft.ID); err != content.ErrPostNotFound {
		t.Errorf("GetBlogPost() error = %v; want %v", err, content.ErrPostNotFound)
	}
	if _, err = svc.GetBlogPost(admin.Identity(), draft.ID); err != nil {
		t.Errorf("GetBlogPost() failed: %v", err)
	}

	pub := true
	updated, err := svc.UpdateBlogPost(admin.Identity(), draft.ID, content.UpdateBlogPost{
		Title: "Draft", Content: "Done.", Category: content.CategoryNews, Published: &pub,
	})
	if err != nil {
		t.Fatalf("UpdateBlogPost() failed: %v", err)
	}
	assert.True(t, updated.Published)
	assert.Equal(t, "Done.", updated.Content)

	if err = svc.DeleteBlogPosts(student.Identity(), draft.ID); err != core.ErrPermissionDenied {
		t.Errorf("DeleteBlogPosts() error = %v; want %v", err, core.ErrPermissionDenied)
	}
	if err = svc.DeleteBlogPosts(admin.Identity(), draft.ID, published.ID); err != nil {
		t.Fatalf("DeleteBlogPosts() failed: %v", err)
	}
	got, err = svc.QueryBlogPosts(admin.Identity(), nil)
	if err != nil {
		t.Fatalf("QueryBlogPosts() failed: %v", err)
	}
	assert.Empty(t, got)
}

func TestService_HonorRolls(t *testing.T) {
	svc, usrRepo := setup(t)

	admin := testutil.CreateUser(t, usrRepo, "Admin", "admin@test.cd", user.RoleAdmin, "", true)
	student := testutil.CreateUser(t, usrRepo, "Student", "student@test.cd", user.RoleStudent, "", true)

	if _, err := svc.AddHonorRoll(student.Identity(), content.NewHonorRoll{}); err != core.ErrPermissionDenied {
		t.Errorf("AddHonorRoll() error = %v; want %v", err, core.ErrPermissionDenied)
	}

	gpa := 3.9
	fall, err := svc.AddHonorRoll(admin.Identity(), content.NewHonorRoll{
		StudentID: student.ID, Semester: "Fall", Year: 2025, HonorType: content.HonorHighHonor, GPA: &gpa,
	})
	if err != nil {
		t.Fatalf("AddHonorRoll() failed: %v", err)
	}
	spring, err := svc.AddHonorRoll(admin.Identity(), content.NewHonorRoll{
		StudentID: student.ID, Semester: "Spring", Year: 2026, HonorType: content.HonorPrincipalsList,
	})
	if err != nil {
		t.Fatalf("AddHonorRoll() failed: %v", err)
	}

	tests := []struct {
		name   string
		filter content.HonorRollFilter
		want   []content.HonorRoll
	}{
		{name: "all", want: []content.HonorRoll{fall, spring}},
		{name: "by semester", filter: content.HonorRollFilter{Semester: "Fall"}, want: []content.HonorRoll{fall}},
		{name: "by year", filter: content.HonorRollFilter{Year: 2026}, want: []content.HonorRoll{spring}},
		{
			name:   "by semester and year",
			filter: content.HonorRollFilter{Semester: "Spring", Year: 2026},
			want:   []content.HonorRoll{spring},
		},
		{name: "no match", filter: content.HonorRollFilter{Semester: "Summer"}, want: []content.HonorRoll{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.QueryHonorRolls(student.Identity(), tt.filter)
			if err != nil {
				t.Fatalf("QueryHonorRolls() failed: %v", err)
			}
			assert.ElementsMatch(t, tt.want, got)
		})
	}
}
