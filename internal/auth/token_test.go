package auth_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akram-999/doctor-booking-app/internal/auth"
)

func TestIssueAndVerify(t *testing.T) {
	m := auth.NewManager("test-secret", 24*time.Hour)

	doctorID := uuid.New()
	token, err := m.Issue(doctorID, "doc@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	gotID, gotEmail, err := m.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, doctorID, gotID)
	assert.Equal(t, "doc@example.com", gotEmail)
}

func TestVerifyExpiredToken(t *testing.T) {
	m := auth.NewManager("test-secret", -time.Minute)

	token, err := m.Issue(uuid.New(), "doc@example.com")
	require.NoError(t, err)

	_, _, err = m.Verify(token)
	require.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestVerifyGarbledToken(t *testing.T) {
	m := auth.NewManager("test-secret", time.Hour)

	for _, token := range []string{
		"",
		"not-a-token",
		"aaaa.bbbb.cccc",
	} {
		_, _, err := m.Verify(token)
		assert.ErrorIs(t, err, auth.ErrInvalidToken, "token %q", token)
	}
}

func TestVerifyForeignSecret(t *testing.T) {
	issuer := auth.NewManager("secret-one", time.Hour)
	verifier := auth.NewManager("secret-two", time.Hour)

	token, err := issuer.Issue(uuid.New(), "doc@example.com")
	require.NoError(t, err)

	_, _, err = verifier.Verify(token)
	require.ErrorIs(t, err, auth.ErrInvalidToken)
}
