package database

import (
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core/message"
	"github.com/trezcool/shule/core/store"
)

const messageColumns = `id, sender_id, recipient_type, recipient_id, subject, content, created_at`

type messageRepository struct {
	db *sqlx.DB
}

var _ message.Repository = (*messageRepository)(nil) // interface compliance check

func NewMessageRepository(db *sqlx.DB) message.Repository {
	return &messageRepository{db: db}
}

func (repo *messageRepository) CreateMessage(msg message.Message) (message.Message, error) {
	_, err := repo.db.NamedExec(`
		INSERT INTO message (id, sender_id, recipient_type, recipient_id, subject, content, created_at)
		VALUES (:id, :sender_id, :recipient_type, :recipient_id, :subject, :content, :created_at)
	`, msg)
	if err != nil {
		return message.Message{}, errors.Wrap(err, "creating message")
	}
	return msg, nil
}

func (repo *messageRepository) FilterMessages(qry store.Query) ([]message.Message, error) {
	q, args := buildSelect(messageColumns, "message", qry, "created_at")
	msgs := []message.Message{}
	if err := repo.db.Select(&msgs, q, args...); err != nil {
		return nil, errors.Wrap(err, "filtering messages")
	}
	return msgs, nil
}

func (repo *messageRepository) CountMessages(where store.Expr) (int, error) {
	q, args := buildCount("message", where)
	var count int
	if err := repo.db.Get(&count, q, args...); err != nil {
		return 0, errors.Wrap(err, "counting messages")
	}
	return count, nil
}
