package main

import (
	"time"

	"github.com/schoolmate/backend/core"
	"github.com/schoolmate/backend/core/user"
)

// addUser updates or creates a user.User
func (cli *commandLine) addUser(name, uname, email, pwd string, isAdmin bool) error {
	uname = core.CleanString(uname, true /* lower */)
	email = core.CleanString(email, true /* lower */)

	usr, err := cli.usrRepo.GetUserByUsernameOrEmail(uname)
	if err == user.ErrNotFound {
		usr, err = cli.usrRepo.GetUserByUsernameOrEmail(email)
	}
	if err != nil && err != user.ErrNotFound {
		return err
	}

	now := time.Now().UTC()
	if usr.ID == 0 {
		usr = user.User{
			Name:          name,
			Username:      uname,
			Email:         email,
			EmailVerified: true,
			Roles:         user.StudentRoles,
			CreatedAt:     now,
		}
	} else if name != "" {
		usr.Name = name
	}
	if isAdmin {
		usr.Roles = user.AllRoles
	}
	usr.UpdatedAt = now
	if err := usr.SetPassword(pwd); err != nil {
		return err
	}

	isActive := true
	if usr.ID == 0 {
		usr.IsActive = true
		_, err = cli.usrRepo.CreateUser(usr)
		return err
	}
	_, err = cli.usrRepo.UpdateUser(usr, &isActive)
	return err
}
