package security

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chat-group-service/config/common"
)

func newTestJWT(secret string) *JWT {
	v := viper.New()
	v.Set("JWT_SECRET", secret)
	return NewJWT(&common.Config{Viper: v})
}

func TestTokenRoundTrip(t *testing.T) {
	j := newTestJWT("test-secret")

	token, err := j.GenerateToken("alice")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := j.VerifyJwtToken(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims["user_id"])
	assert.Equal(t, "chat-group-service", claims["iss"])

	userID, err := j.GetUserIdFromToken(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", userID)
}

func TestTokenWrongSecretRejected(t *testing.T) {
	token, err := newTestJWT("secret-a").GenerateToken("alice")
	require.NoError(t, err)

	_, err = newTestJWT("secret-b").VerifyJwtToken(token)
	assert.Error(t, err)
}

func TestTokenGarbageRejected(t *testing.T) {
	j := newTestJWT("test-secret")

	_, err := j.VerifyJwtToken("not.a.token")
	assert.Error(t, err)

	_, err = j.GetUserIdFromToken("")
	assert.Error(t, err)
}
