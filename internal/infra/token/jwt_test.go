package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTIssuer_RoundTrip(t *testing.T) {
	iss := NewJWTIssuer("secret", time.Hour)
	id := uuid.NewString()

	raw, exp, err := iss.Issue(id, time.Now())
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	got, err := Parse(raw, "secret")
	require.NoError(t, err)
	assert.Equal(t, id, got)
}

func TestParse_Rejects(t *testing.T) {
	id := uuid.NewString()

	expired, _, err := NewJWTIssuer("secret", time.Minute).Issue(id, time.Now().Add(-time.Hour))
	require.NoError(t, err)

	wrongSecret, _, err := NewJWTIssuer("other", time.Hour).Issue(id, time.Now())
	require.NoError(t, err)

	notDevice, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": id,
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	badSub, _, err := NewJWTIssuer("secret", time.Hour).Issue("not-a-uuid", time.Now())
	require.NoError(t, err)

	for name, raw := range map[string]string{
		"expired":      expired,
		"wrong secret": wrongSecret,
		"not device":   notDevice,
		"bad sub":      badSub,
		"garbage":      "abc.def.ghi",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Parse(raw, "secret")
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestUUIDGenerator(t *testing.T) {
	a := UUIDGenerator{}.NewID()
	b := UUIDGenerator{}.NewID()
	assert.NotEqual(t, a, b)
	_, err := uuid.Parse(a)
	assert.NoError(t, err)
}
