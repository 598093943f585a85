package inmem

import (
	"sort"

	"github.com/trezcool/shule/core/class"
	"github.com/trezcool/shule/core/store"
)

type classRepository struct {
	classes     *classTable
	enrollments *enrollmentTable
}

var _ class.Repository = (*classRepository)(nil) // interface compliance check

func NewClassRepository(db *DB) class.Repository {
	return &classRepository{classes: db.class, enrollments: db.enrollment}
}

func classFields(cls class.Class) func(string) interface{} {
	return func(field string) interface{} {
		switch field {
		case "id":
			return cls.ID
		case "name":
			return cls.Name
		case "subject":
			return cls.Subject
		case "grade_level":
			return cls.GradeLevel
		case "teacher_id":
			return cls.TeacherID
		default:
			return nil
		}
	}
}

func enrollmentFields(enr class.Enrollment) func(string) interface{} {
	return func(field string) interface{} {
		switch field {
		case "id":
			return enr.ID
		case "class_id":
			return enr.ClassID
		case "student_id":
			return enr.StudentID
		default:
			return nil
		}
	}
}

func (repo *classRepository) queryClasses(where store.Expr) []class.Class {
	classes := make([]class.Class, 0, len(repo.classes.table))
	for _, cls := range repo.classes.table {
		if store.Match(where, classFields(*cls)) {
			classes = append(classes, *cls)
		}
	}
	return classes
}

func (repo *classRepository) queryEnrollments(where store.Expr) []class.Enrollment {
	enrs := make([]class.Enrollment, 0, len(repo.enrollments.table))
	for _, enr := range repo.enrollments.table {
		if store.Match(where, enrollmentFields(*enr)) {
			enrs = append(enrs, *enr)
		}
	}
	return enrs
}

func (repo *classRepository) CreateClass(cls class.Class) (class.Class, error) {
	repo.classes.Lock()
	defer repo.classes.Unlock()

	repo.classes.table[cls.ID] = &cls
	return cls, nil
}

func (repo *classRepository) GetClassByID(id string) (class.Class, error) {
	repo.classes.RLock()
	defer repo.classes.RUnlock()

	if cls, ok := repo.classes.table[id]; ok {
		return *cls, nil
	}
	return class.Class{}, class.ErrNotFound
}

func (repo *classRepository) FilterClasses(qry store.Query) ([]class.Class, error) {
	repo.classes.RLock()
	defer repo.classes.RUnlock()

	classes := repo.queryClasses(qry.Where)
	sort.SliceStable(classes, func(i, j int) bool { return classes[i].CreatedAt.After(classes[j].CreatedAt) })
	return capped(classes, qry.Limit), nil
}

func (repo *classRepository) CountClasses(where store.Expr) (int, error) {
	repo.classes.RLock()
	defer repo.classes.RUnlock()
	return len(repo.queryClasses(where)), nil
}

func (repo *classRepository) UpdateClass(cls class.Class) (class.Class, error) {
	repo.classes.Lock()
	defer repo.classes.Unlock()

	origCls, ok := repo.classes.table[cls.ID]
	if !ok {
		return class.Class{}, class.ErrNotFound
	}
	if cls.CreatedAt.IsZero() {
		cls.CreatedAt = origCls.CreatedAt
	}
	repo.classes.table[cls.ID] = &cls
	return cls, nil
}

func (repo *classRepository) DeleteClassesByID(ids ...string) error {
	repo.classes.Lock()
	defer repo.classes.Unlock()
	for _, id := range ids {
		delete(repo.classes.table, id)
	}
	return nil
}

func (repo *classRepository) CreateEnrollment(enr class.Enrollment) (class.Enrollment, error) {
	repo.enrollments.Lock()
	defer repo.enrollments.Unlock()

	repo.enrollments.table[enr.ID] = &enr
	return enr, nil
}

func (repo *classRepository) FilterEnrollments(qry store.Query) ([]class.Enrollment, error) {
	repo.enrollments.RLock()
	defer repo.enrollments.RUnlock()

	enrs := repo.queryEnrollments(qry.Where)
	sort.SliceStable(enrs, func(i, j int) bool { return enrs[i].EnrolledAt.After(enrs[j].EnrolledAt) })
	return capped(enrs, qry.Limit), nil
}

func (repo *classRepository) DeleteEnrollmentsByID(ids ...string) error {
	repo.enrollments.Lock()
	defer repo.enrollments.Unlock()
	for _, id := range ids {
		delete(repo.enrollments.table, id)
	}
	return nil
}
