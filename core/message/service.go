package message

import (
	"errors"
	"net/mail"
	"time"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/class"
	"github.com/trezcool/shule/core/store"
	"github.com/trezcool/shule/core/user"
)

var ErrNotFound = errors.New("message not found")

type (
	Repository interface {
		CreateMessage(msg Message) (Message, error)
		// FilterMessages returns matching messages, newest-first by
		// created_at unless overridden.
		FilterMessages(qry store.Query) ([]Message, error)
		CountMessages(where store.Expr) (int, error)
	}

	Service struct {
		repo    Repository
		usrRepo user.Repository
		clsSvc  *class.Service
		mailSvc core.EmailService
	}
)

func NewService(repo Repository, usrRepo user.Repository, clsSvc *class.Service, mailSvc core.EmailService) *Service {
	return &Service{repo: repo, usrRepo: usrRepo, clsSvc: clsSvc, mailSvc: mailSvc}
}

// Send records a message; staff broadcasts are additionally fanned out by
// email to every staff user.
func (svc *Service) Send(idn user.Identity, nm NewMessage) (Message, error) {
	if idn.IsZero() {
		return Message{}, core.ErrAuthRequired
	}

	msg := Message{
		ID:            core.NewID("message"),
		SenderID:      idn.ID,
		RecipientType: nm.RecipientType,
		RecipientID:   nm.RecipientID,
		Subject:       nm.Subject,
		Content:       nm.Content,
		CreatedAt:     time.Now().UTC(),
	}
	msg, err := svc.repo.CreateMessage(msg)
	if err != nil {
		return Message{}, err
	}
	if msg.RecipientType == RecipientStaff {
		svc.notifyStaff(msg)
	}
	return msg, nil
}

// Query lists the messages the requesting identity may see: admins all;
// teachers and students those addressed to them, to their classes, or sent by
// them; staff the staff broadcasts plus their own.
func (svc *Service) Query(idn user.Identity) ([]Message, error) {
	if idn.IsZero() {
		return nil, core.ErrAuthRequired
	}

	if idn.IsAdmin() {
		return svc.repo.FilterMessages(store.Query{})
	}

	toSelf := store.And{
		store.Eq{Field: "recipient_type", Value: RecipientIndividual},
		store.Eq{Field: "recipient_id", Value: idn.ID},
	}
	fromSelf := store.Eq{Field: "sender_id", Value: idn.ID}
	visible := store.Or{toSelf, fromSelf}

	switch {
	case idn.IsStaff():
		visible = append(visible, store.Eq{Field: "recipient_type", Value: RecipientStaff})
	case idn.IsTeacher(), idn.IsStudent():
		classIDs, err := svc.visibleClassIDs(idn)
		if err != nil {
			return nil, err
		}
		if len(classIDs) > 0 {
			visible = append(visible, store.And{
				store.Eq{Field: "recipient_type", Value: RecipientClass},
				store.AnyOf("recipient_id", classIDs...),
			})
		}
	}
	return svc.repo.FilterMessages(store.Query{Where: visible})
}

// QueryByClass lists a class's message board.
func (svc *Service) QueryByClass(idn user.Identity, classID string) ([]Message, error) {
	if idn.IsZero() {
		return nil, core.ErrAuthRequired
	}
	return svc.repo.FilterMessages(store.Query{
		Where: store.And{
			store.Eq{Field: "recipient_type", Value: RecipientClass},
			store.Eq{Field: "recipient_id", Value: classID},
		},
	})
}

// QueryStaff lists the staff broadcast board; staff and admins only.
func (svc *Service) QueryStaff(idn user.Identity) ([]Message, error) {
	if idn.IsZero() {
		return nil, core.ErrAuthRequired
	}
	if !(idn.IsAdmin() || idn.IsStaff()) {
		return nil, core.ErrPermissionDenied
	}
	return svc.repo.FilterMessages(store.Query{
		Where: store.Eq{Field: "recipient_type", Value: RecipientStaff},
	})
}

func (svc *Service) visibleClassIDs(idn user.Identity) ([]string, error) {
	if idn.IsTeacher() {
		return svc.clsSvc.OwnedClassIDs(idn.ID)
	}
	return svc.clsSvc.EnrolledClassIDs(idn.ID)
}

func (svc *Service) notifyStaff(msg Message) {
	if svc.mailSvc == nil {
		return
	}
	staff, err := svc.usrRepo.FilterUsers(store.Query{
		Where: store.Eq{Field: "role", Value: user.RoleStaff},
	})
	if err != nil || len(staff) == 0 {
		return
	}
	to := make([]mail.Address, 0, len(staff))
	for _, usr := range staff {
		to = append(to, mail.Address{Name: usr.DisplayName, Address: usr.Email})
	}
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:      to,
		Subject: msg.Subject,
		Body:    msg.Content,
	})
}
