package inmem

import (
	"sort"

	"github.com/trezcool/shule/core/message"
	"github.com/trezcool/shule/core/store"
)

type messageRepository struct {
	db *messageTable
}

var _ message.Repository = (*messageRepository)(nil) // interface compliance check

func NewMessageRepository(db *DB) message.Repository {
	return &messageRepository{db: db.message}
}

func messageFields(msg message.Message) func(string) interface{} {
	return func(field string) interface{} {
		switch field {
		case "id":
			return msg.ID
		case "sender_id":
			return msg.SenderID
		case "recipient_type":
			return msg.RecipientType
		case "recipient_id":
			return msg.RecipientID
		default:
			return nil
		}
	}
}

func (repo *messageRepository) query(where store.Expr) []message.Message {
	msgs := make([]message.Message, 0, len(repo.db.table))
	for _, msg := range repo.db.table {
		if store.Match(where, messageFields(*msg)) {
			msgs = append(msgs, *msg)
		}
	}
	return msgs
}

func (repo *messageRepository) CreateMessage(msg message.Message) (message.Message, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.table[msg.ID] = &msg
	return msg, nil
}

func (repo *messageRepository) FilterMessages(qry store.Query) ([]message.Message, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	msgs := repo.query(qry.Where)
	sort.SliceStable(msgs, func(i, j int) bool { return msgs[i].CreatedAt.After(msgs[j].CreatedAt) })
	return capped(msgs, qry.Limit), nil
}

func (repo *messageRepository) CountMessages(where store.Expr) (int, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return len(repo.query(where)), nil
}
