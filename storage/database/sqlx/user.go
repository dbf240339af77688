package sqlxrepos

import (
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/schoolmate/backend/core/user"
)

type userRepository struct {
	db *sqlx.DB
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(db *sql.DB) user.Repository {
	return &userRepository{db: sqlx.NewDb(db, "postgres")}
}

// userRow maps the users table; converted to/from user.User at the
// repository boundary so the domain type stays tag-free.
type userRow struct {
	ID            int            `db:"id"`
	Name          string         `db:"name"`
	Username      string         `db:"username"`
	Email         string         `db:"email"`
	EmailVerified bool           `db:"email_verified"`
	IsActive      bool           `db:"is_active"`
	Roles         pq.StringArray `db:"roles"`
	PasswordHash  []byte         `db:"password_hash"`
	OfficeCode    string         `db:"office_code"`
	SchoolCode    string         `db:"school_code"`
	SchoolName    string         `db:"school_name"`
	GradeLevel    int            `db:"grade_level"`
	CreatedAt     time.Time      `db:"created_at"`
	UpdatedAt     time.Time      `db:"updated_at"`
	LastLogin     sql.NullTime   `db:"last_login"`
}

func (r userRow) user() user.User {
	usr := user.User{
		ID:            r.ID,
		Name:          r.Name,
		Username:      r.Username,
		Email:         r.Email,
		EmailVerified: r.EmailVerified,
		IsActive:      r.IsActive,
		Roles:         r.Roles,
		PasswordHash:  r.PasswordHash,
		OfficeCode:    r.OfficeCode,
		SchoolCode:    r.SchoolCode,
		SchoolName:    r.SchoolName,
		GradeLevel:    r.GradeLevel,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
	if r.LastLogin.Valid {
		usr.LastLogin = r.LastLogin.Time
	}
	return usr
}

const userColumns = `id, name, username, email, email_verified, is_active, roles, password_hash,
office_code, school_code, school_name, grade_level, created_at, updated_at, last_login`

func (repo *userRepository) CheckUsernameUniqueness(username, email string, excludedUsers ...user.User) error {
	exclIDs := make([]int, 0, len(excludedUsers))
	for _, u := range excludedUsers {
		exclIDs = append(exclIDs, u.ID)
	}

	var rows []userRow
	err := repo.db.Select(&rows,
		`SELECT `+userColumns+` FROM users
		 WHERE (username = $1 AND username <> '') OR (email = $2 AND email <> '')`,
		username, email,
	)
	if err != nil {
		return errors.Wrap(err, "checking uniqueness")
	}
	for _, r := range rows {
		if contains(exclIDs, r.ID) {
			continue
		}
		if r.Username == username && username != "" {
			return user.ErrUsernameExists
		}
		if r.Email == email && email != "" {
			return user.ErrEmailExists
		}
	}
	return nil
}

func (repo *userRepository) CreateUser(usr user.User) (user.User, error) {
	err := repo.db.QueryRow(
		`INSERT INTO users (name, username, email, email_verified, is_active, roles, password_hash,
		                    office_code, school_code, school_name, grade_level, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		 RETURNING id`,
		usr.Name, usr.Username, usr.Email, usr.EmailVerified, usr.IsActive,
		pq.StringArray(usr.Roles), usr.PasswordHash,
		usr.OfficeCode, usr.SchoolCode, usr.SchoolName, usr.GradeLevel,
		usr.CreatedAt, usr.UpdatedAt,
	).Scan(&usr.ID)
	if err != nil {
		return user.User{}, errors.Wrap(err, "inserting user")
	}
	return usr, nil
}

func (repo *userRepository) QueryAllUsers() ([]user.User, error) {
	var rows []userRow
	if err := repo.db.Select(&rows, `SELECT `+userColumns+` FROM users`); err != nil {
		return nil, errors.Wrap(err, "querying users")
	}
	return repo.users(rows), nil
}

func (repo *userRepository) GetUserByID(id int) (user.User, error) {
	return repo.get(`SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (repo *userRepository) GetUserByUsername(username string) (user.User, error) {
	return repo.get(`SELECT `+userColumns+` FROM users WHERE username = $1`, username)
}

func (repo *userRepository) GetUserByEmail(email string) (user.User, error) {
	return repo.get(`SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

func (repo *userRepository) GetUserByUsernameOrEmail(username string) (user.User, error) {
	return repo.get(`SELECT `+userColumns+` FROM users WHERE username = $1 OR email = $1`, username)
}

func (repo *userRepository) FilterUsers(filter user.QueryFilter) ([]user.User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE 1=1`
	var args []interface{}

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		q += ` AND (username ILIKE ? OR email ILIKE ? OR name ILIKE ?)`
		args = append(args, pattern, pattern, pattern)
	}
	if len(filter.Roles) > 0 {
		prefixes := make([]string, 0, len(filter.Roles))
		for _, r := range filter.Roles {
			prefixes = append(prefixes, r+"%")
		}
		q += ` AND EXISTS (SELECT 1 FROM unnest(roles) role WHERE role LIKE ANY (?))`
		args = append(args, pq.Array(prefixes))
	}
	if filter.IsActive != nil {
		q += ` AND is_active = ?`
		args = append(args, *filter.IsActive)
	}
	if !filter.CreatedFrom.IsZero() {
		q += ` AND created_at >= ?`
		args = append(args, filter.CreatedFrom.UTC())
	}
	if !filter.CreatedTo.IsZero() {
		q += ` AND created_at <= ?`
		args = append(args, filter.CreatedTo.UTC())
	}

	var rows []userRow
	if err := repo.db.Select(&rows, repo.db.Rebind(q), args...); err != nil {
		return nil, errors.Wrap(err, "filtering users")
	}
	return repo.users(rows), nil
}

func (repo *userRepository) UpdateUser(usr user.User, isActive *bool) (user.User, error) {
	orig, err := repo.GetUserByID(usr.ID)
	if err != nil {
		return user.User{}, err
	}

	// only save set fields
	if usr.Roles == nil {
		usr.Roles = orig.Roles
	}
	if usr.PasswordHash == nil {
		usr.PasswordHash = orig.PasswordHash
	}
	active := orig.IsActive
	if isActive != nil {
		active = *isActive
	}
	verified := orig.EmailVerified || usr.EmailVerified
	lastLogin := orig.LastLogin
	if !usr.LastLogin.IsZero() {
		lastLogin = usr.LastLogin
	}

	var ll sql.NullTime
	if !lastLogin.IsZero() {
		ll = sql.NullTime{Time: lastLogin, Valid: true}
	}

	_, err = repo.db.Exec(
		`UPDATE users SET name = $1, username = $2, email = $3, email_verified = $4, is_active = $5,
		                  roles = $6, password_hash = $7, office_code = $8, school_code = $9,
		                  school_name = $10, grade_level = $11, updated_at = $12, last_login = $13
		 WHERE id = $14`,
		usr.Name, usr.Username, usr.Email, verified, active,
		pq.StringArray(usr.Roles), usr.PasswordHash,
		usr.OfficeCode, usr.SchoolCode, usr.SchoolName, usr.GradeLevel,
		usr.UpdatedAt, ll, usr.ID,
	)
	if err != nil {
		return user.User{}, errors.Wrap(err, "updating user")
	}
	return repo.GetUserByID(usr.ID)
}

func (repo *userRepository) DeleteUsersByID(ids ...int) error {
	if len(ids) == 0 {
		return nil
	}
	q, args, err := sqlx.In(`DELETE FROM users WHERE id IN (?)`, ids)
	if err != nil {
		return errors.Wrap(err, "deleting users")
	}
	if _, err = repo.db.Exec(repo.db.Rebind(q), args...); err != nil {
		return errors.Wrap(err, "deleting users")
	}
	return nil
}

func (repo *userRepository) SaveEmailVerification(v user.EmailVerification) error {
	_, err := repo.db.Exec(
		`INSERT INTO email_verifications (email, code, expires_at) VALUES ($1, $2, $3)
		 ON CONFLICT (email) DO UPDATE SET code = $2, expires_at = $3`,
		v.Email, v.Code, v.ExpiresAt,
	)
	return errors.Wrap(err, "saving email verification")
}

func (repo *userRepository) GetEmailVerification(email string) (user.EmailVerification, error) {
	var v user.EmailVerification
	err := repo.db.QueryRow(
		`SELECT email, code, expires_at FROM email_verifications WHERE email = $1`, email,
	).Scan(&v.Email, &v.Code, &v.ExpiresAt)
	if err == sql.ErrNoRows {
		return user.EmailVerification{}, user.ErrInvalidCode
	}
	if err != nil {
		return user.EmailVerification{}, errors.Wrap(err, "querying email verification")
	}
	return v, nil
}

func (repo *userRepository) DeleteEmailVerification(email string) error {
	_, err := repo.db.Exec(`DELETE FROM email_verifications WHERE email = $1`, email)
	return errors.Wrap(err, "deleting email verification")
}

func (repo *userRepository) get(query string, arg interface{}) (user.User, error) {
	var r userRow
	err := repo.db.Get(&r, query, arg)
	if err == sql.ErrNoRows {
		return user.User{}, user.ErrNotFound
	}
	if err != nil {
		return user.User{}, errors.Wrap(err, "querying user")
	}
	return r.user(), nil
}

func (repo *userRepository) users(rows []userRow) []user.User {
	users := make([]user.User, 0, len(rows))
	for _, r := range rows {
		users = append(users, r.user())
	}
	return users
}

func contains(ids []int, id int) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
