package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ohsurveil/pkg/domain"
)

func TestLoginDerivesName(t *testing.T) {
	u, err := Login("  sarah.lee.tan@clinic.my ", domain.RoleClinician)
	require.NoError(t, err)
	assert.Equal(t, "sarah lee.tan", u.Name)
	assert.Equal(t, "sarah.lee.tan@clinic.my", u.Email)
	assert.Equal(t, domain.RoleClinician, u.Role)
	assert.NotEmpty(t, u.ID)

	other, err := Login("admin@clinic.my", domain.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, "admin", other.Name)
	assert.NotEqual(t, u.ID, other.ID)
}

func TestLoginRejectsBadInput(t *testing.T) {
	_, err := Login("a@b.c", domain.UserRole("Auditor"))
	assert.ErrorIs(t, err, ErrUnknownRole)
	_, err = Login("   ", domain.RoleAdmin)
	assert.ErrorIs(t, err, ErrEmptyEmail)
}

func TestParseRole(t *testing.T) {
	r, err := ParseRole("company hr")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleCompanyHR, r)
	_, err = ParseRole("root")
	assert.ErrorIs(t, err, ErrUnknownRole)
}

func TestNavigationByRole(t *testing.T) {
	ids := func(role domain.UserRole) []string {
		var out []string
		for _, item := range Navigation(role) {
			out = append(out, item.ID)
		}
		return out
	}
	assert.Equal(t, []string{"dashboard", "companies", "workers", "report", "patients", "ai"}, ids(domain.RoleAdmin))
	assert.Equal(t, ids(domain.RoleAdmin), ids(domain.RoleClinician))
	assert.Equal(t, []string{"dashboard", "companies", "workers", "patients"}, ids(domain.RoleCompanyHR))
	assert.Empty(t, Navigation("Guest"))

	assert.False(t, CanAccess(domain.RoleCompanyHR, "report"))
	assert.True(t, CanAccess(domain.RoleCompanyHR, "patients"))
	assert.Equal(t, "Health Trends", Navigation(domain.RoleAdmin)[5].Label)
}
