package auth

import (
	"salonbook-backend/models"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func staffUser() *models.User {
	salonID := uuid.New()
	return &models.User{ID: uuid.New(), Role: models.RoleStaff, SalonID: &salonID}
}

func TestIssueAndParse(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Hour, 15*time.Minute)
	user := staffUser()

	token, err := issuer.Issue(user)
	require.NoError(t, err)

	actor, err := issuer.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, actor.UserID)
	assert.Equal(t, *user.SalonID, actor.SalonID)
	assert.Equal(t, models.RoleStaff, actor.Role)
	assert.False(t, actor.IsImpersonating())
	assert.Equal(t, Capabilities{Book: true}, actor.Can)
}

func TestPlatformAdminTokenHasNoSalon(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Hour, 15*time.Minute)
	admin := &models.User{ID: uuid.New(), Role: models.RoleAdmin}

	token, err := issuer.Issue(admin)
	require.NoError(t, err)
	actor, err := issuer.Parse(token)
	require.NoError(t, err)
	assert.False(t, actor.HasSalon())
	assert.True(t, actor.Can.ManagePlatform)
}

func TestImpersonationToken(t *testing.T) {
	issued := time.Date(2030, time.January, 7, 9, 0, 0, 0, time.UTC)
	issuer := NewTokenIssuer("secret", time.Hour, 15*time.Minute)
	issuer.now = func() time.Time { return issued }
	adminID := uuid.New()
	user := staffUser()
	user.Role = models.RoleSalonAdmin

	token, err := issuer.IssueImpersonation(user, adminID)
	require.NoError(t, err)

	actor, err := issuer.Parse(token)
	require.NoError(t, err)
	require.True(t, actor.IsImpersonating())
	assert.Equal(t, adminID, *actor.ImpersonatedBy)
	assert.True(t, actor.Can.ManageSalon)
	assert.False(t, actor.Can.ManagePlatform)

	issuer.now = func() time.Time { return issued.Add(16 * time.Minute) }
	_, err = issuer.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken, "impersonation tokens are short-lived")
}

func TestParseRejectsBadTokens(t *testing.T) {
	issued := time.Date(2030, time.January, 7, 9, 0, 0, 0, time.UTC)
	issuer := NewTokenIssuer("secret", time.Hour, 15*time.Minute)
	issuer.now = func() time.Time { return issued }

	token, err := issuer.Issue(staffUser())
	require.NoError(t, err)

	other := NewTokenIssuer("another-secret", time.Hour, 15*time.Minute)
	other.now = issuer.now
	_, err = other.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = issuer.Parse("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	issuer.now = func() time.Time { return issued.Add(2 * time.Hour) }
	_, err = issuer.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
