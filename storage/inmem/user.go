package inmem

import (
	"sort"

	"github.com/trezcool/shule/core/store"
	"github.com/trezcool/shule/core/user"
)

type userRepository struct {
	db *userTable
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(db *DB) user.Repository {
	return &userRepository{db: db.user}
}

func userFields(usr user.User) func(string) interface{} {
	return func(field string) interface{} {
		switch field {
		case "id":
			return usr.ID
		case "email":
			return usr.Email
		case "display_name":
			return usr.DisplayName
		case "role":
			return usr.Role
		case "is_active":
			return usr.IsActive
		default:
			return nil
		}
	}
}

func (repo *userRepository) query(where store.Expr) []user.User {
	users := make([]user.User, 0, len(repo.db.table))
	for _, u := range repo.db.table {
		if store.Match(where, userFields(*u)) {
			users = append(users, *u)
		}
	}
	return users
}

func (repo *userRepository) CheckEmailUniqueness(email string, excludedUsers ...user.User) error {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, usr := range repo.query(nil) {
		if usr.Email == email && !isExcluded(usr.ID, excludedUsers) {
			return user.ErrEmailExists
		}
	}
	return nil
}

func (repo *userRepository) CreateUser(usr user.User) (user.User, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.table[usr.ID] = &usr
	return usr, nil
}

func (repo *userRepository) GetUserByID(id string) (user.User, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if usr, ok := repo.db.table[id]; ok {
		return *usr, nil
	}
	return user.User{}, user.ErrNotFound
}

func (repo *userRepository) GetUserByEmail(email string) (user.User, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, usr := range repo.query(nil) {
		if usr.Email == email {
			return usr, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (repo *userRepository) FilterUsers(qry store.Query) ([]user.User, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	users := repo.query(qry.Where)
	sort.SliceStable(users, func(i, j int) bool { return users[i].CreatedAt.After(users[j].CreatedAt) })
	return capped(users, qry.Limit), nil
}

func (repo *userRepository) CountUsers(where store.Expr) (int, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return len(repo.query(where)), nil
}

func (repo *userRepository) UpdateUser(usr user.User, isActive *bool) (user.User, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	// only save set fields
	origUsr, ok := repo.db.table[usr.ID]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	if usr.PasswordHash != nil {
		origUsr.PasswordHash = usr.PasswordHash
	}
	if usr.AvatarURL != "" {
		origUsr.AvatarURL = usr.AvatarURL
	}
	if isActive != nil {
		origUsr.IsActive = *isActive
	}
	origUsr.Email = usr.Email
	origUsr.DisplayName = usr.DisplayName
	origUsr.UpdatedAt = usr.UpdatedAt

	repo.db.table[usr.ID] = origUsr
	return *origUsr, nil
}

func (repo *userRepository) DeleteUsersByID(ids ...string) error {
	repo.db.Lock()
	defer repo.db.Unlock()
	for _, id := range ids {
		delete(repo.db.table, id)
	}
	return nil
}

func isExcluded(id string, excludedUsers []user.User) bool {
	for _, usr := range excludedUsers {
		if usr.ID == id {
			return true
		}
	}
	return false
}

// capped applies a query's result cap after ordering.
func capped[T any](recs []T, limit int) []T {
	if limit > 0 && len(recs) > limit {
		return recs[:limit]
	}
	return recs
}
