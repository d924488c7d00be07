package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCodec_RoundTrip(t *testing.T) {
	codec, err := NewCodec("0123456789abcdef0123456789abcdef")
	require.NoError(t, err)

	sess := Session{
		User:         UserInfo{ID: 3, Email: "user@example.com", DisplayName: "Doc Writer"},
		AccessToken:  "access",
		RefreshToken: "refresh",
		ExpiresAt:    time.Now().Add(time.Hour).UTC().Truncate(time.Second),
	}

	encoded, err := codec.Encode(sess)
	require.NoError(t, err)
	require.NotContains(t, encoded, "access")

	decoded, err := codec.Decode(encoded)
	require.NoError(t, err)
	require.Equal(t, sess, decoded)
}

func TestCodec_TamperedPayload(t *testing.T) {
	codec, err := NewCodec("0123456789abcdef")
	require.NoError(t, err)

	encoded, err := codec.Encode(Session{AccessToken: "access"})
	require.NoError(t, err)

	tampered := encoded[:len(encoded)-2] + "xx"
	_, err = codec.Decode(tampered)
	require.Error(t, err)

	_, err = codec.Decode("")
	require.Error(t, err)
}

func TestCodec_RejectsBadKeyLength(t *testing.T) {
	_, err := NewCodec("too-short")
	require.Error(t, err)
}

func TestCodec_DistinctNoncePerEncode(t *testing.T) {
	codec, err := NewCodec("0123456789abcdef")
	require.NoError(t, err)

	sess := Session{AccessToken: "access"}
	first, err := codec.Encode(sess)
	require.NoError(t, err)
	second, err := codec.Encode(sess)
	require.NoError(t, err)
	require.NotEqual(t, first, second)
}
