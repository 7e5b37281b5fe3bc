package utils

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCallbackToken_RoundTrip(t *testing.T) {
	token, err := CreateCallbackToken("s3cret")
	require.NoError(t, err)

	assert.NoError(t, ValidateCallbackToken(token, "s3cret"))
	assert.ErrorIs(t, ValidateCallbackToken(token, "other"), ErrInvalidCallbackToken)
	assert.ErrorIs(t, ValidateCallbackToken("", "s3cret"), ErrInvalidCallbackToken)
	assert.ErrorIs(t, ValidateCallbackToken("garbage", "s3cret"), ErrInvalidCallbackToken)
}

func TestSignedCallbackURL(t *testing.T) {
	raw := "https://example.com/api/callback?source=mpesa"

	unsigned, err := SignedCallbackURL(raw, "")
	require.NoError(t, err)
	assert.Equal(t, raw, unsigned)

	signed, err := SignedCallbackURL(raw, "s3cret")
	require.NoError(t, err)

	u, err := url.Parse(signed)
	require.NoError(t, err)
	assert.Equal(t, "/api/callback", u.Path)
	assert.Equal(t, "mpesa", u.Query().Get("source"))
	assert.NoError(t, ValidateCallbackToken(u.Query().Get("token"), "s3cret"))
}
