package dashboard

import (
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/assignment"
	"github.com/trezcool/shule/core/attendance"
	"github.com/trezcool/shule/core/class"
	"github.com/trezcool/shule/core/leave"
	"github.com/trezcool/shule/core/message"
	"github.com/trezcool/shule/core/store"
	"github.com/trezcool/shule/core/user"
)

// recentMessagesCap bounds the "recent messages" metric.
const recentMessagesCap = 10

type (
	Stats struct {
		TotalStudents        int `json:"total_students"`
		TotalTeachers        int `json:"total_teachers"`
		TotalClasses         int `json:"total_classes"`
		TotalAssignments     int `json:"total_assignments"`
		PendingSubmissions   int `json:"pending_submissions"`
		PendingLeaveRequests int `json:"pending_leave_requests"`
		RecentMessages       int `json:"recent_messages"`
		AttendanceRate       int `json:"attendance_rate"` // whole percent
	}

	// Cache is an optional read-through cache for computed stats.
	Cache interface {
		GetStats() (Stats, bool)
		SetStats(stats Stats)
	}

	Service struct {
		usrRepo   user.Repository
		clsRepo   class.Repository
		asgRepo   assignment.Repository
		attRepo   attendance.Repository
		leaveRepo leave.Repository
		msgRepo   message.Repository
		cache     Cache // may be nil
	}
)

func NewService(
	usrRepo user.Repository,
	clsRepo class.Repository,
	asgRepo assignment.Repository,
	attRepo attendance.Repository,
	leaveRepo leave.Repository,
	msgRepo message.Repository,
	cache Cache,
) *Service {
	return &Service{
		usrRepo:   usrRepo,
		clsRepo:   clsRepo,
		asgRepo:   asgRepo,
		attRepo:   attRepo,
		leaveRepo: leaveRepo,
		msgRepo:   msgRepo,
		cache:     cache,
	}
}

// Stats computes the dashboard summary as one composed read: the independent
// sub-queries run concurrently and any single failure fails the whole call.
// Admin only.
func (svc *Service) Stats(idn user.Identity) (Stats, error) {
	if idn.IsZero() {
		return Stats{}, core.ErrAuthRequired
	}
	if !idn.IsAdmin() {
		return Stats{}, core.ErrPermissionDenied
	}

	if svc.cache != nil {
		if stats, ok := svc.cache.GetStats(); ok {
			return stats, nil
		}
	}

	var (
		stats        Stats
		presentCount int
		totalCount   int
		g            errgroup.Group
	)

	g.Go(func() (err error) {
		stats.TotalStudents, err = svc.usrRepo.CountUsers(store.Eq{Field: "role", Value: user.RoleStudent})
		return
	})
	g.Go(func() (err error) {
		stats.TotalTeachers, err = svc.usrRepo.CountUsers(store.Eq{Field: "role", Value: user.RoleTeacher})
		return
	})
	g.Go(func() (err error) {
		stats.TotalClasses, err = svc.clsRepo.CountClasses(nil)
		return
	})
	g.Go(func() (err error) {
		stats.TotalAssignments, err = svc.asgRepo.CountAssignments(nil)
		return
	})
	g.Go(func() (err error) {
		stats.PendingSubmissions, err = svc.asgRepo.CountSubmissions(store.Eq{Field: "grade", Value: nil})
		return
	})
	g.Go(func() (err error) {
		stats.PendingLeaveRequests, err = svc.leaveRepo.CountLeaveRequests(store.Eq{Field: "status", Value: leave.StatusPending})
		return
	})
	g.Go(func() error {
		msgs, err := svc.msgRepo.FilterMessages(store.Query{Limit: recentMessagesCap})
		stats.RecentMessages = len(msgs)
		return err
	})
	g.Go(func() (err error) {
		presentCount, err = svc.attRepo.CountAttendance(store.Eq{Field: "status", Value: attendance.StatusPresent})
		return
	})
	g.Go(func() (err error) {
		totalCount, err = svc.attRepo.CountAttendance(nil)
		return
	})

	if err := g.Wait(); err != nil {
		return Stats{}, err
	}
	stats.AttendanceRate = attendanceRate(presentCount, totalCount)

	if svc.cache != nil {
		svc.cache.SetStats(stats)
	}
	return stats, nil
}

// attendanceRate is the percentage of present records, rounded;
// 0 when there are no records at all.
func attendanceRate(present, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(present) / float64(total) * 100))
}
