package session_test

import (
	"encoding/base64"
	"encoding/json"
	"testing"
	"time"

	"github.com/intellidoc/console-gateway/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildToken assembles a compact token with the given payload claims and a
// garbage signature. The claims reader must not care about the signature.
func buildToken(t *testing.T, claims map[string]interface{}) string {
	t.Helper()

	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"HS256","typ":"JWT"}`))
	payloadJSON, err := json.Marshal(claims)
	require.NoError(t, err)
	payload := base64.RawURLEncoding.EncodeToString(payloadJSON)

	return header + "." + payload + ".not-a-real-signature"
}

func TestDecodeProfile_EmptyToken(t *testing.T) {
	assert.Nil(t, session.DecodeProfile(""))
}

func TestDecodeProfile_SingleSegment(t *testing.T) {
	assert.Nil(t, session.DecodeProfile("justonesegment"))
}

func TestDecodeProfile_InvalidPayloadJSON(t *testing.T) {
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"HS256"}`))
	payload := base64.RawURLEncoding.EncodeToString([]byte(`not json at all`))

	assert.Nil(t, session.DecodeProfile(header+"."+payload+".sig"))
}

func TestDecodeProfile_InvalidBase64Payload(t *testing.T) {
	assert.Nil(t, session.DecodeProfile("header.!!!not-base64!!!.sig"))
}

func TestDecodeProfile_StandardClaims(t *testing.T) {
	token := buildToken(t, map[string]interface{}{
		"sub":   "user-42",
		"name":  "Jane Doe",
		"email": "jane@example.com",
		"role":  "Reviewer",
	})

	profile := session.DecodeProfile(token)
	require.NotNil(t, profile)
	assert.Equal(t, "user-42", profile.UserID)
	assert.Equal(t, "Jane Doe", profile.FullName)
	assert.Equal(t, "jane@example.com", profile.Email)
	assert.Equal(t, "Reviewer", profile.Role)
}

func TestDecodeProfile_ClaimNamePrecedence(t *testing.T) {
	t.Run("sub wins over userId and id", func(t *testing.T) {
		token := buildToken(t, map[string]interface{}{
			"sub":    "from-sub",
			"userId": "from-userId",
			"id":     "from-id",
		})

		profile := session.DecodeProfile(token)
		require.NotNil(t, profile)
		assert.Equal(t, "from-sub", profile.UserID)
	})

	t.Run("userId used when sub absent", func(t *testing.T) {
		token := buildToken(t, map[string]interface{}{
			"userId": "from-userId",
			"id":     "from-id",
		})

		profile := session.DecodeProfile(token)
		require.NotNil(t, profile)
		assert.Equal(t, "from-userId", profile.UserID)
	})

	t.Run("FullName wins over name", func(t *testing.T) {
		token := buildToken(t, map[string]interface{}{
			"FullName": "Pascal Case",
			"name":     "lower name",
		})

		profile := session.DecodeProfile(token)
		require.NotNil(t, profile)
		assert.Equal(t, "Pascal Case", profile.FullName)
	})
}

func TestDecodeProfile_XMLSoapClaims(t *testing.T) {
	token := buildToken(t, map[string]interface{}{
		"sub": "user-7",
		"http://schemas.xmlsoap.org/ws/2005/05/identity/claims/name":         "Soap Name",
		"http://schemas.xmlsoap.org/ws/2005/05/identity/claims/emailaddress": "soap@example.com",
		"http://schemas.microsoft.com/ws/2008/06/identity/claims/role":       "Admin",
	})

	profile := session.DecodeProfile(token)
	require.NotNil(t, profile)
	assert.Equal(t, "Soap Name", profile.FullName)
	assert.Equal(t, "soap@example.com", profile.Email)
	assert.Equal(t, "Admin", profile.Role)
}

func TestDecodeProfile_EmailFallbackForName(t *testing.T) {
	token := buildToken(t, map[string]interface{}{
		"sub":   "user-9",
		"email": "fallback@example.com",
	})

	profile := session.DecodeProfile(token)
	require.NotNil(t, profile)
	assert.Equal(t, "fallback@example.com", profile.FullName)
}

func TestDecodeProfile_ExpiryDecodedNotEnforced(t *testing.T) {
	expired := time.Now().Add(-2 * time.Hour)
	token := buildToken(t, map[string]interface{}{
		"sub": "user-1",
		"exp": float64(expired.Unix()),
	})

	// An expired token still decodes; the reader is display-only.
	profile := session.DecodeProfile(token)
	require.NotNil(t, profile)
	assert.WithinDuration(t, expired, profile.ExpiresAt, time.Second)
}
