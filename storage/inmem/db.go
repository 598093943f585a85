// Package inmem provides an in-memory record store used in DEV mode and in
// tests. Filtering agrees with store.Match; writes are mutex-serialized, so
// the services' read-then-write upserts are deterministic here.
package inmem

import (
	"sync"

	"github.com/trezcool/shule/core/assignment"
	"github.com/trezcool/shule/core/attendance"
	"github.com/trezcool/shule/core/class"
	"github.com/trezcool/shule/core/content"
	"github.com/trezcool/shule/core/leave"
	"github.com/trezcool/shule/core/message"
	"github.com/trezcool/shule/core/user"
)

type (
	DB struct {
		user       *userTable
		class      *classTable
		enrollment *enrollmentTable
		assignment *assignmentTable
		submission *submissionTable
		attendance *attendanceTable
		leave      *leaveTable
		message    *messageTable
		resource   *resourceTable
		blogPost   *blogPostTable
		honorRoll  *honorRollTable
	}

	userTable struct {
		sync.RWMutex
		table map[string]*user.User
	}
	classTable struct {
		sync.RWMutex
		table map[string]*class.Class
	}
	enrollmentTable struct {
		sync.RWMutex
		table map[string]*class.Enrollment
	}
	assignmentTable struct {
		sync.RWMutex
		table map[string]*assignment.Assignment
	}
	submissionTable struct {
		sync.RWMutex
		table map[string]*assignment.Submission
	}
	attendanceTable struct {
		sync.RWMutex
		table map[string]*attendance.Attendance
	}
	leaveTable struct {
		sync.RWMutex
		table map[string]*leave.Request
	}
	messageTable struct {
		sync.RWMutex
		table map[string]*message.Message
	}
	resourceTable struct {
		sync.RWMutex
		table map[string]*content.Resource
	}
	blogPostTable struct {
		sync.RWMutex
		table map[string]*content.BlogPost
	}
	honorRollTable struct {
		sync.RWMutex
		table map[string]*content.HonorRoll
	}
)

func Open() (*DB, error) {
	db := &DB{
		user:       &userTable{table: make(map[string]*user.User)},
		class:      &classTable{table: make(map[string]*class.Class)},
		enrollment: &enrollmentTable{table: make(map[string]*class.Enrollment)},
		assignment: &assignmentTable{table: make(map[string]*assignment.Assignment)},
		submission: &submissionTable{table: make(map[string]*assignment.Submission)},
		attendance: &attendanceTable{table: make(map[string]*attendance.Attendance)},
		leave:      &leaveTable{table: make(map[string]*leave.Request)},
		message:    &messageTable{table: make(map[string]*message.Message)},
		resource:   &resourceTable{table: make(map[string]*content.Resource)},
		blogPost:   &blogPostTable{table: make(map[string]*content.BlogPost)},
		honorRoll:  &honorRollTable{table: make(map[string]*content.HonorRoll)},
	}
	return db, nil
}

// Reset empties all tables; for tests.
func (db *DB) Reset() {
	db.user.Lock()
	db.user.table = make(map[string]*user.User)
	db.user.Unlock()

	db.class.Lock()
	db.class.table = make(map[string]*class.Class)
	db.class.Unlock()

	db.enrollment.Lock()
	db.enrollment.table = make(map[string]*class.Enrollment)
	db.enrollment.Unlock()

	db.assignment.Lock()
	db.assignment.table = make(map[string]*assignment.Assignment)
	db.assignment.Unlock()

	db.submission.Lock()
	db.submission.table = make(map[string]*assignment.Submission)
	db.submission.Unlock()

	db.attendance.Lock()
	db.attendance.table = make(map[string]*attendance.Attendance)
	db.attendance.Unlock()

	db.leave.Lock()
	db.leave.table = make(map[string]*leave.Request)
	db.leave.Unlock()

	db.message.Lock()
	db.message.table = make(map[string]*message.Message)
	db.message.Unlock()

	db.resource.Lock()
	db.resource.table = make(map[string]*content.Resource)
	db.resource.Unlock()

	db.blogPost.Lock()
	db.blogPost.table = make(map[string]*content.BlogPost)
	db.blogPost.Unlock()

	db.honorRoll.Lock()
	db.honorRoll.table = make(map[string]*content.HonorRoll)
	db.honorRoll.Unlock()
}
