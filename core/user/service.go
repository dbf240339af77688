package user

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"net/mail"
	"time"

	"github.com/schoolmate/backend/core"
)

var (
	// errors
	ErrNotFound       = errors.New("user not found")
	ErrEmailExists    = errors.New("a user with this email already exists")
	ErrUsernameExists = errors.New("a user with this username already exists")
	ErrInvalidCode    = errors.New("invalid verification code")
	ErrCodeExpired    = errors.New("verification code expired")
)

type (
	Repository interface {
		CheckUsernameUniqueness(username, email string, excludedUsers ...User) error
		CreateUser(user User) (User, error)
		QueryAllUsers() ([]User, error)
		GetUserByID(id int) (User, error)
		GetUserByUsername(username string) (User, error)
		GetUserByEmail(email string) (User, error)
		GetUserByUsernameOrEmail(username string) (User, error)
		// FilterUsers applies AND operation on available QueryFilter fields.
		// QueryFilter.Search does a case-insensitive match on one of User.Name, User.Username or User.Email.
		FilterUsers(filter QueryFilter) ([]User, error)
		UpdateUser(user User, isActive *bool) (User, error)
		DeleteUsersByID(ids ...int) error

		SaveEmailVerification(v EmailVerification) error
		GetEmailVerification(email string) (EmailVerification, error)
		DeleteEmailVerification(email string) error
	}

	Service interface {
		CheckUniqueness(uname, email string, exclUsers ...User) error
		Create(nu NewUser) (User, error)
		Register(nu NewUser) (User, error)
		QueryAll() ([]User, error)
		GetByID(id int) (User, error)
		GetByUsername(uname string) (User, error)
		GetByEmail(email string) (User, error)
		GetByUsernameOrEmail(uname string) (User, error)
		Filter(filter QueryFilter) ([]User, error)
		Update(id int, uu UpdateUser) (User, error)
		SetLastLogin(usr User) (User, error)
		Delete(ids ...int) error
		RequestPasswordReset(email string) error
		ResetPassword(rp ResetUserPassword) error
		RequestEmailVerification(email string) error
		VerifyEmail(ve VerifyUserEmail) (User, error)
	}

	service struct {
		repo    Repository
		mailSvc core.EmailService
		conf    *core.Config
	}
)

var _ Service = (*service)(nil)

func NewService(conf *core.Config, repo Repository, mailSvc core.EmailService) Service {
	secretKey = conf.SecretKey
	passwordResetTimeoutDelta = conf.PasswordResetTimeoutDelta
	return &service{
		repo:    repo,
		mailSvc: mailSvc,
		conf:    conf,
	}
}

func (svc *service) CheckUniqueness(uname, email string, exclUsers ...User) error {
	if err := svc.repo.CheckUsernameUniqueness(uname, email, exclUsers...); err != nil {
		var field string
		switch err {
		case ErrUsernameExists:
			field = "username"
		case ErrEmailExists:
			field = "email"
		default:
			return err
		}
		return core.NewValidationError(err, core.FieldError{Field: field, Error: err.Error()})
	}
	return nil
}

// Create makes an active account right away; it backs the admin and CLI
// flows where the operator vouches for the address.
func (svc *service) Create(nu NewUser) (User, error) {
	return svc.create(nu, true)
}

// Register makes a self-service account: it stays inactive until the email
// verification code is confirmed.
func (svc *service) Register(nu NewUser) (User, error) {
	return svc.create(nu, false)
}

func (svc *service) create(nu NewUser, isActive bool) (User, error) {
	now := time.Now().UTC()
	usr := User{
		Name:       nu.Name,
		Username:   nu.Username,
		Email:      nu.Email,
		IsActive:   isActive,
		Roles:      nu.Roles,
		OfficeCode: nu.OfficeCode,
		SchoolCode: nu.SchoolCode,
		SchoolName: nu.SchoolName,
		GradeLevel: nu.GradeLevel,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := usr.SetPassword(nu.Password); err != nil {
		return User{}, err
	}
	return svc.repo.CreateUser(usr)
}

func (svc *service) QueryAll() ([]User, error) {
	return svc.repo.QueryAllUsers()
}

func (svc *service) GetByID(id int) (User, error) {
	return svc.repo.GetUserByID(id)
}

func (svc *service) GetByUsername(uname string) (User, error) {
	return svc.repo.GetUserByUsername(core.CleanString(uname, true /* lower */))
}

func (svc *service) GetByEmail(email string) (User, error) {
	return svc.repo.GetUserByEmail(core.CleanString(email, true /* lower */))
}

func (svc *service) GetByUsernameOrEmail(uname string) (User, error) {
	return svc.repo.GetUserByUsernameOrEmail(core.CleanString(uname, true /* lower */))
}

func (svc *service) Filter(filter QueryFilter) ([]User, error) {
	return svc.repo.FilterUsers(filter)
}

func (svc *service) Update(id int, uu UpdateUser) (User, error) {
	usr := User{
		ID:         id,
		Name:       uu.Name,
		Username:   uu.Username,
		Email:      uu.Email,
		Roles:      uu.Roles,
		OfficeCode: uu.OfficeCode,
		SchoolCode: uu.SchoolCode,
		SchoolName: uu.SchoolName,
		GradeLevel: uu.GradeLevel,
		UpdatedAt:  time.Now().UTC(),
	}
	if uu.Password != "" {
		if err := usr.SetPassword(uu.Password); err != nil {
			return User{}, err
		}
	}
	return svc.repo.UpdateUser(usr, uu.IsActive)
}

func (svc *service) SetLastLogin(usr User) (User, error) {
	usr.LastLogin = time.Now().UTC()
	return svc.repo.UpdateUser(usr, nil)
}

func (svc *service) Delete(ids ...int) error {
	return svc.repo.DeleteUsersByID(ids...)
}

func (svc *service) RequestPasswordReset(email string) error {
	usr, err := svc.GetByEmail(email)
	if err != nil {
		return err
	}
	go svc.sendPasswordResetMail(usr)
	return nil
}

func (svc *service) sendPasswordResetMail(usr User) {
	token := MakeToken(usr)
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:           []mail.Address{{Name: usr.Name, Address: usr.Email}},
		Subject:      "Password Reset",
		TemplateName: "password-reset",
		TemplateData: struct {
			User  User
			UID   string
			Token string
		}{usr, EncodeUID(usr), token},
	})
}

func (svc *service) ResetPassword(rp ResetUserPassword) error {
	uid, err := decodeUID(rp.UID)
	if err != nil {
		return core.NewValidationError(errInvalidToken)
	}
	usr, err := svc.repo.GetUserByID(uid)
	if err != nil {
		return core.NewValidationError(errInvalidToken)
	}
	if err = verifyToken(usr, rp.Token); err != nil {
		return core.NewValidationError(err)
	}

	if err = usr.SetPassword(rp.Password); err != nil {
		return err
	}
	usr.UpdatedAt = time.Now().UTC()
	_, err = svc.repo.UpdateUser(usr, nil)
	return err
}

func (svc *service) RequestEmailVerification(email string) error {
	email = core.CleanString(email, true /* lower */)
	code, err := makeVerificationCode()
	if err != nil {
		return err
	}
	v := EmailVerification{
		Email:     email,
		Code:      code,
		ExpiresAt: time.Now().UTC().Add(svc.conf.EmailVerificationTimeoutDelta),
	}
	if err := svc.repo.SaveEmailVerification(v); err != nil {
		return err
	}
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:      []mail.Address{{Address: email}},
		Subject: "Email Verification",
		BodyStr: fmt.Sprintf("Your %s verification code is %s", svc.conf.AppName, code),
	})
	return nil
}

func (svc *service) VerifyEmail(ve VerifyUserEmail) (User, error) {
	v, err := svc.repo.GetEmailVerification(ve.Email)
	if err != nil {
		return User{}, core.NewValidationError(ErrInvalidCode, core.FieldError{Field: "code", Error: ErrInvalidCode.Error()})
	}
	if v.Expired(time.Now().UTC()) {
		return User{}, core.NewValidationError(ErrCodeExpired, core.FieldError{Field: "code", Error: ErrCodeExpired.Error()})
	}
	if v.Code != ve.Code {
		return User{}, core.NewValidationError(ErrInvalidCode, core.FieldError{Field: "code", Error: ErrInvalidCode.Error()})
	}
	_ = svc.repo.DeleteEmailVerification(ve.Email)

	usr, err := svc.GetByEmail(ve.Email)
	if err != nil {
		return User{}, err
	}
	usr.EmailVerified = true
	usr.UpdatedAt = time.Now().UTC()
	active := true // verifying the address activates the account
	return svc.repo.UpdateUser(usr, &active)
}

func makeVerificationCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
