package inmem

import (
	"sort"

	"github.com/trezcool/shule/core/assignment"
	"github.com/trezcool/shule/core/store"
)

type assignmentRepository struct {
	assignments *assignmentTable
	submissions *submissionTable
}

var _ assignment.Repository = (*assignmentRepository)(nil) // interface compliance check

func NewAssignmentRepository(db *DB) assignment.Repository {
	return &assignmentRepository{assignments: db.assignment, submissions: db.submission}
}

func assignmentFields(asg assignment.Assignment) func(string) interface{} {
	return func(field string) interface{} {
		switch field {
		case "id":
			return asg.ID
		case "title":
			return asg.Title
		case "class_id":
			return asg.ClassID
		case "teacher_id":
			return asg.TeacherID
		default:
			return nil
		}
	}
}

func submissionFields(sub assignment.Submission) func(string) interface{} {
	return func(field string) interface{} {
		switch field {
		case "id":
			return sub.ID
		case "assignment_id":
			return sub.AssignmentID
		case "student_id":
			return sub.StudentID
		case "graded_by":
			return sub.GradedBy
		case "grade":
			if sub.Grade == nil {
				return nil
			}
			return *sub.Grade
		default:
			return nil
		}
	}
}

func (repo *assignmentRepository) queryAssignments(where store.Expr) []assignment.Assignment {
	asgs := make([]assignment.Assignment, 0, len(repo.assignments.table))
	for _, asg := range repo.assignments.table {
		if store.Match(where, assignmentFields(*asg)) {
			asgs = append(asgs, *asg)
		}
	}
	return asgs
}

func (repo *assignmentRepository) querySubmissions(where store.Expr) []assignment.Submission {
	subs := make([]assignment.Submission, 0, len(repo.submissions.table))
	for _, sub := range repo.submissions.table {
		if store.Match(where, submissionFields(*sub)) {
			subs = append(subs, *sub)
		}
	}
	return subs
}

func (repo *assignmentRepository) CreateAssignment(asg assignment.Assignment) (assignment.Assignment, error) {
	repo.assignments.Lock()
	defer repo.assignments.Unlock()

	repo.assignments.table[asg.ID] = &asg
	return asg, nil
}

func (repo *assignmentRepository) GetAssignmentByID(id string) (assignment.Assignment, error) {
	repo.assignments.RLock()
	defer repo.assignments.RUnlock()

	if asg, ok := repo.assignments.table[id]; ok {
		return *asg, nil
	}
	return assignment.Assignment{}, assignment.ErrNotFound
}

func (repo *assignmentRepository) FilterAssignments(qry store.Query) ([]assignment.Assignment, error) {
	repo.assignments.RLock()
	defer repo.assignments.RUnlock()

	asgs := repo.queryAssignments(qry.Where)
	sort.SliceStable(asgs, func(i, j int) bool { return asgs[i].DueDate.After(asgs[j].DueDate) })
	return capped(asgs, qry.Limit), nil
}

func (repo *assignmentRepository) CountAssignments(where store.Expr) (int, error) {
	repo.assignments.RLock()
	defer repo.assignments.RUnlock()
	return len(repo.queryAssignments(where)), nil
}

func (repo *assignmentRepository) UpdateAssignment(asg assignment.Assignment) (assignment.Assignment, error) {
	repo.assignments.Lock()
	defer repo.assignments.Unlock()

	origAsg, ok := repo.assignments.table[asg.ID]
	if !ok {
		return assignment.Assignment{}, assignment.ErrNotFound
	}
	if asg.CreatedAt.IsZero() {
		asg.CreatedAt = origAsg.CreatedAt
	}
	repo.assignments.table[asg.ID] = &asg
	return asg, nil
}

func (repo *assignmentRepository) DeleteAssignmentsByID(ids ...string) error {
	repo.assignments.Lock()
	defer repo.assignments.Unlock()
	for _, id := range ids {
		delete(repo.assignments.table, id)
	}
	return nil
}

func (repo *assignmentRepository) CreateSubmission(sub assignment.Submission) (assignment.Submission, error) {
	repo.submissions.Lock()
	defer repo.submissions.Unlock()

	repo.submissions.table[sub.ID] = &sub
	return sub, nil
}

func (repo *assignmentRepository) GetSubmissionByID(id string) (assignment.Submission, error) {
	repo.submissions.RLock()
	defer repo.submissions.RUnlock()

	if sub, ok := repo.submissions.table[id]; ok {
		return *sub, nil
	}
	return assignment.Submission{}, assignment.ErrSubmissionNotFound
}

func (repo *assignmentRepository) FilterSubmissions(qry store.Query) ([]assignment.Submission, error) {
	repo.submissions.RLock()
	defer repo.submissions.RUnlock()

	subs := repo.querySubmissions(qry.Where)
	sort.SliceStable(subs, func(i, j int) bool { return subs[i].SubmittedAt.After(subs[j].SubmittedAt) })
	return capped(subs, qry.Limit), nil
}

func (repo *assignmentRepository) CountSubmissions(where store.Expr) (int, error) {
	repo.submissions.RLock()
	defer repo.submissions.RUnlock()
	return len(repo.querySubmissions(where)), nil
}

func (repo *assignmentRepository) UpdateSubmission(sub assignment.Submission) (assignment.Submission, error) {
	repo.submissions.Lock()
	defer repo.submissions.Unlock()

	if _, ok := repo.submissions.table[sub.ID]; !ok {
		return assignment.Submission{}, assignment.ErrSubmissionNotFound
	}
	repo.submissions.table[sub.ID] = &sub
	return sub, nil
}
