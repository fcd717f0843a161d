package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndParse(t *testing.T) {
	sess, err := Issue("user-1", "Sangavi", "student", "attendhub", "secret", time.Hour)
	require.NoError(t, err)
	assert.NotEmpty(t, sess.Token)
	assert.NotEmpty(t, sess.TokenID)

	claims, err := Parse(sess.Token, "secret", "attendhub")
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, "student", claims.Role)
	assert.Equal(t, "Sangavi", claims.Name)
	assert.Equal(t, sess.TokenID, claims.ID)
}

func TestParseRejectsExpiredToken(t *testing.T) {
	sess, err := Issue("user-1", "Sangavi", "student", "attendhub", "secret", -time.Minute)
	require.NoError(t, err)

	_, err = Parse(sess.Token, "secret", "attendhub")
	assert.Error(t, err)
}

func TestParseRejectsWrongKey(t *testing.T) {
	sess, err := Issue("user-1", "Sangavi", "student", "attendhub", "secret", time.Hour)
	require.NoError(t, err)

	_, err = Parse(sess.Token, "other-secret", "attendhub")
	assert.Error(t, err)
}

func TestParseRejectsIssuerMismatch(t *testing.T) {
	sess, err := Issue("user-1", "Sangavi", "student", "someone-else", "secret", time.Hour)
	require.NoError(t, err)

	_, err = Parse(sess.Token, "secret", "attendhub")
	assert.ErrorContains(t, err, "issuer")
}

func TestSessionTTLBoundsExpiry(t *testing.T) {
	ttl := 8 * time.Hour
	sess, err := Issue("user-1", "Sangavi", "student", "attendhub", "secret", ttl)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(ttl), sess.ExpiresAt, 5*time.Second)
}
