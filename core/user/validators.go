package user

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/pmezard/go-difflib/difflib"

	"github.com/schoolmate/backend/core"
)

var (
	allRolesTag  = "allroles"
	allRolesText = "invalid roles"

	usernameOrEmailTag  = "username_or_email"
	usernameOrEmailText = "one of username or email is required"

	// password policy
	pwdMinLen     = 8
	pwdMinLenTag  = "pwdminlen"
	pwdMinLenText = fmt.Sprintf("password must contain at least %d characters", pwdMinLen)

	pwdNoSpaceTag  = "pwdnospace"
	pwdNoSpaceText = "password must not contain whitespace"

	pwdNotAllNumTag  = "pwdnotallnum"
	pwdNotAllNumText = "password cannot be entirely numeric"

	pwdMaxSim      = .7
	pwdAttrSimTag  = "pwdtoosim"
	pwdAttrSimText = "password cannot be similar to user attributes"
)

func init() {
	// register validators
	_ = core.Validate.RegisterValidation(allRolesTag, allRolesValidation)
	core.RegisterCustomTranslation(allRolesTag, allRolesText)

	core.Validate.RegisterStructValidation(userStructValidation, NewUser{})
	core.Validate.RegisterStructValidation(userStructValidation, UpdateUser{})
	core.RegisterCustomTranslation(usernameOrEmailTag, usernameOrEmailText)
	core.RegisterCustomTranslation(pwdMinLenTag, pwdMinLenText)
	core.RegisterCustomTranslation(pwdNoSpaceTag, pwdNoSpaceText)
	core.RegisterCustomTranslation(pwdNotAllNumTag, pwdNotAllNumText)
	core.RegisterCustomTranslation(pwdAttrSimTag, pwdAttrSimText)
}

// allRolesValidation checks that all provided roles are known.
func allRolesValidation(fl validator.FieldLevel) bool {
	if roles, ok := fl.Field().Interface().([]string); ok {
		sorted := make([]string, len(AllRoles))
		copy(sorted, AllRoles)
		sort.Strings(sorted)
		for _, role := range roles {
			i := sort.SearchStrings(sorted, role)
			if i >= len(sorted) || sorted[i] != role {
				return false
			}
		}
		return true
	}
	return false
}

// userStructValidation applies cross-field rules for NewUser and UpdateUser:
// at least one of username/email must be set, and the password must satisfy
// the password policy.
func userStructValidation(sl validator.StructLevel) {
	var uname, email, pwd string
	var userAttrs []string

	switch u := sl.Current().Interface().(type) {
	case NewUser:
		uname, email, pwd = u.Username, u.Email, u.Password
		userAttrs = []string{u.Name, u.Username, u.Email}
	case UpdateUser:
		uname, email, pwd = u.Username, u.Email, u.Password
		userAttrs = []string{u.Name, u.Username, u.Email}
	default:
		return
	}

	if uname == "" && email == "" {
		sl.ReportError(uname, "username", "Username", usernameOrEmailTag, "")
		sl.ReportError(email, "email", "Email", usernameOrEmailTag, "")
	}
	if pwd != "" {
		validatePassword(sl, pwd, userAttrs)
	}
}

func validatePassword(sl validator.StructLevel, pwd string, userAttrs []string) {
	if len(pwd) < pwdMinLen {
		sl.ReportError(pwd, "password", "Password", pwdMinLenTag, "")
	}
	if strings.IndexFunc(pwd, unicode.IsSpace) >= 0 {
		sl.ReportError(pwd, "password", "Password", pwdNoSpaceTag, "")
	}
	if isAllNumeric(pwd) {
		sl.ReportError(pwd, "password", "Password", pwdNotAllNumTag, "")
	}
	for _, attr := range userAttrs {
		if attr == "" {
			continue
		}
		m := difflib.NewMatcher(
			difflib.SplitLines(strings.ToLower(pwd)),
			difflib.SplitLines(strings.ToLower(attr)),
		)
		if m.Ratio() > pwdMaxSim {
			sl.ReportError(pwd, "password", "Password", pwdAttrSimTag, "")
			break
		}
	}
}

func isAllNumeric(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return len(s) > 0
}
