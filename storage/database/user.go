package database

import (
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core/store"
	"github.com/trezcool/shule/core/user"
)

const userColumns = `id, email, display_name, role, avatar_url, is_active, password_hash, created_at, updated_at`

type userRepository struct {
	db *sqlx.DB
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(db *sqlx.DB) user.Repository {
	return &userRepository{db: db}
}

func (repo *userRepository) CheckEmailUniqueness(email string, excludedUsers ...user.User) error {
	q := `SELECT COUNT(*) FROM "user" WHERE email = ?`
	args := []interface{}{email}
	if len(excludedUsers) > 0 {
		ids := make([]string, 0, len(excludedUsers))
		for _, usr := range excludedUsers {
			ids = append(ids, usr.ID)
		}
		q += ` AND id NOT IN (?)`
		var err error
		if q, args, err = sqlx.In(q, email, ids); err != nil {
			return errors.Wrap(err, "checking email uniqueness")
		}
	}

	var count int
	if err := repo.db.Get(&count, repo.db.Rebind(q), args...); err != nil {
		return errors.Wrap(err, "checking email uniqueness")
	}
	if count > 0 {
		return user.ErrEmailExists
	}
	return nil
}

func (repo *userRepository) CreateUser(usr user.User) (user.User, error) {
	_, err := repo.db.NamedExec(`
		INSERT INTO "user" (id, email, display_name, role, avatar_url, is_active, password_hash, created_at, updated_at)
		VALUES (:id, :email, :display_name, :role, :avatar_url, :is_active, :password_hash, :created_at, :updated_at)
	`, usr)
	if err != nil {
		return user.User{}, errors.Wrap(err, "creating user")
	}
	return usr, nil
}

func (repo *userRepository) GetUserByID(id string) (user.User, error) {
	var usr user.User
	err := repo.db.Get(&usr, `SELECT `+userColumns+` FROM "user" WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return user.User{}, user.ErrNotFound
	}
	if err != nil {
		return user.User{}, errors.Wrap(err, "getting user")
	}
	return usr, nil
}

func (repo *userRepository) GetUserByEmail(email string) (user.User, error) {
	var usr user.User
	err := repo.db.Get(&usr, `SELECT `+userColumns+` FROM "user" WHERE email = $1`, email)
	if err == sql.ErrNoRows {
		return user.User{}, user.ErrNotFound
	}
	if err != nil {
		return user.User{}, errors.Wrap(err, "getting user")
	}
	return usr, nil
}

func (repo *userRepository) FilterUsers(qry store.Query) ([]user.User, error) {
	q, args := buildSelect(userColumns, "user", qry, "created_at")
	usrs := []user.User{}
	if err := repo.db.Select(&usrs, q, args...); err != nil {
		return nil, errors.Wrap(err, "filtering users")
	}
	return usrs, nil
}

func (repo *userRepository) CountUsers(where store.Expr) (int, error) {
	q, args := buildCount("user", where)
	var count int
	if err := repo.db.Get(&count, q, args...); err != nil {
		return 0, errors.Wrap(err, "counting users")
	}
	return count, nil
}

func (repo *userRepository) UpdateUser(usr user.User, isActive *bool) (user.User, error) {
	orig, err := repo.GetUserByID(usr.ID)
	if err != nil {
		return user.User{}, err
	}

	orig.Email = usr.Email
	orig.DisplayName = usr.DisplayName
	orig.UpdatedAt = usr.UpdatedAt
	if usr.PasswordHash != nil {
		orig.PasswordHash = usr.PasswordHash
	}
	if usr.AvatarURL != "" {
		orig.AvatarURL = usr.AvatarURL
	}
	if isActive != nil {
		orig.IsActive = *isActive
	}

	_, err = repo.db.NamedExec(`
		UPDATE "user"
		SET email = :email, display_name = :display_name, avatar_url = :avatar_url,
		    is_active = :is_active, password_hash = :password_hash, updated_at = :updated_at
		WHERE id = :id
	`, orig)
	if err != nil {
		return user.User{}, errors.Wrap(err, "updating user")
	}
	return orig, nil
}

func (repo *userRepository) DeleteUsersByID(ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	q, args, err := sqlx.In(`DELETE FROM "user" WHERE id IN (?)`, ids)
	if err != nil {
		return errors.Wrap(err, "deleting users")
	}
	if _, err = repo.db.Exec(repo.db.Rebind(q), args...); err != nil {
		return errors.Wrap(err, "deleting users")
	}
	return nil
}
