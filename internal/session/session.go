// Package session signs an operator in and decides which parts of the
// registry their role may open. There is no credential check.
package session

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"

	"ohsurveil/pkg/domain"
)

var (
	// ErrUnknownRole is returned for roles other than Admin, Clinician and Company HR.
	ErrUnknownRole = errors.New("session: unknown role")
	// ErrEmptyEmail is returned when no email is given.
	ErrEmptyEmail = errors.New("session: email is required")
)

// Roles lists the known roles in display order.
func Roles() []domain.UserRole {
	return []domain.UserRole{domain.RoleAdmin, domain.RoleClinician, domain.RoleCompanyHR}
}

// ParseRole matches s against the known roles, ignoring case and
// surrounding space.
func ParseRole(s string) (domain.UserRole, error) {
	for _, r := range Roles() {
		if strings.EqualFold(strings.TrimSpace(s), string(r)) {
			return r, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownRole, s)
}

// DisplayName derives a name from an email: the local part with its first
// dot replaced by a space.
func DisplayName(email string) string {
	local, _, _ := strings.Cut(email, "@")
	return strings.Replace(local, ".", " ", 1)
}

// Login returns the signed-in user.
func Login(email string, role domain.UserRole) (domain.User, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return domain.User{}, ErrEmptyEmail
	}
	if !slices.Contains(Roles(), role) {
		return domain.User{}, fmt.Errorf("%w: %q", ErrUnknownRole, role)
	}
	return domain.User{
		ID:    uuid.NewString(),
		Email: email,
		Role:  role,
		Name:  DisplayName(email),
	}, nil
}

// MenuItem is one entry of the navigation sidebar.
type MenuItem struct {
	ID    string
	Label string
	roles []domain.UserRole
}

var everyone = []domain.UserRole{domain.RoleAdmin, domain.RoleClinician, domain.RoleCompanyHR}
var clinical = []domain.UserRole{domain.RoleAdmin, domain.RoleClinician}

var menu = []MenuItem{
	{ID: "dashboard", Label: "Dashboard", roles: everyone},
	{ID: "companies", Label: "Companies", roles: everyone},
	{ID: "workers", Label: "Workers", roles: everyone},
	{ID: "report", Label: "Medical Records", roles: clinical},
	{ID: "patients", Label: "Registry", roles: everyone},
	{ID: "ai", Label: "Health Trends", roles: clinical},
}

// Navigation returns the menu items visible to role, in sidebar order.
func Navigation(role domain.UserRole) []MenuItem {
	var items []MenuItem
	for _, item := range menu {
		if slices.Contains(item.roles, role) {
			items = append(items, MenuItem{ID: item.ID, Label: item.Label})
		}
	}
	return items
}

// CanAccess reports whether role may open the menu item id.
func CanAccess(role domain.UserRole, id string) bool {
	return slices.ContainsFunc(Navigation(role), func(m MenuItem) bool { return m.ID == id })
}
