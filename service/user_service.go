package service

import (
	"errors"

	"kraft/dao"
	"kraft/model"

	"github.com/go-sql-driver/mysql"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// ErrBadCredentials is returned for every form-login failure. The message is
// deliberately the same whether the email or the password was wrong.
var ErrBadCredentials = errors.New("invalid email or password")

// UserService persists provider identities and checks form-login credentials.
type UserService struct {
	users *dao.UserDAO
}

func NewUserService(users *dao.UserDAO) *UserService {
	return &UserService{users: users}
}

// SaveOrUpdate is the post-OAuth-login hook: a known email gets its name and
// picture refreshed, an unknown one becomes a new GUEST user.
func (s *UserService) SaveOrUpdate(name, email, picture string) (*model.User, error) {
	user, err := s.users.FindByEmail(email)
	if err == nil {
		if err := user.Update(name, picture); err != nil {
			return nil, err
		}
		if err := s.users.Save(user); err != nil {
			return nil, err
		}
		return user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	user, err = model.NewUser(name, email, picture, model.RoleGuest)
	if err != nil {
		return nil, err
	}
	if err := s.users.CreateUser(user); err != nil {
		// Two first logins can race on the unique email index; the loser
		// retries as an update.
		if isDuplicateKey(err) {
			return s.SaveOrUpdate(name, email, picture)
		}
		return nil, err
	}
	return user, nil
}

// Authenticate verifies form-login credentials. Accounts without a password
// hash (provider-created users) can never form-login.
func (s *UserService) Authenticate(email, password string) (*model.User, error) {
	user, err := s.users.FindByEmail(email)
	if err != nil {
		return nil, ErrBadCredentials
	}
	if user.PasswordHash == "" {
		return nil, ErrBadCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, ErrBadCredentials
	}
	return user, nil
}

// SeedAdmin creates the configured admin account if it does not exist yet.
// Called once at startup; a no-op when the email is already taken or the
// configuration is incomplete.
func (s *UserService) SeedAdmin(email, password string) error {
	if email == "" || password == "" {
		return nil
	}
	if _, err := s.users.FindByEmail(email); err == nil {
		return nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	admin, err := model.NewUser("admin", email, "", model.RoleAdmin)
	if err != nil {
		return err
	}
	admin.PasswordHash = string(hash)
	if err := s.users.CreateUser(admin); err != nil {
		if isDuplicateKey(err) {
			return nil
		}
		return err
	}
	zap.L().Info("seeded admin user", zap.String("email", email))
	return nil
}

func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == 1062
}
