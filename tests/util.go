package testutil

import (
	"net/mail"
	"testing"
	"time"

	"github.com/schoolmate/backend/core"
	"github.com/schoolmate/backend/core/user"
)

// NewConfig returns a self-contained test configuration; no .env file or
// environment variables are consulted.
func NewConfig() *core.Config {
	return &core.Config{
		Env:      "TEST",
		TestMode: true,
		WorkDir:  core.Getwd(),

		AppName:          "SchoolMate",
		SecretKey:        []byte("secret-test-key-do-not-use"),
		FrontendBaseURL:  "http://localhost:3000",
		DefaultFromEmail: mail.Address{Address: "noreply@test.local"},

		PasswordResetTimeoutDelta:     3 * 24 * time.Hour,
		EmailVerificationTimeoutDelta: 10 * time.Minute,

		Server: core.ServerConfig{
			JWTExpirationDelta:        7 * 24 * time.Hour,
			JWTRefreshExpirationDelta: 4 * time.Hour,
		},
	}
}

func CreateUser(
	t *testing.T,
	repo user.Repository,
	name, uname, email, pwd string,
	roles []string,
	isActive bool,
	createdAt ...time.Time,
) user.User {
	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	usr := user.User{
		Name:      name,
		Username:  uname,
		Email:     email,
		Roles:     roles,
		IsActive:  isActive,
		CreatedAt: tstamp,
		UpdatedAt: tstamp,
	}
	if pwd != "" {
		if err := usr.SetPassword(pwd); err != nil {
			t.Fatalf("CreateUser() failed: %v", err)
		}
	}
	usr, err := repo.CreateUser(usr)
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}
