package session

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Profile is a display-oriented view of the caller, derived from the
// credential token's payload segment without any backend round-trip.
//
// It is never authorization-authoritative: the signature and expiry are
// not checked here, and every privileged action is re-validated by the
// document backend.
type Profile struct {
	UserID    string    `json:"userId"`
	FullName  string    `json:"fullName"`
	Email     string    `json:"email,omitempty"`
	Role      string    `json:"role,omitempty"`
	ExpiresAt time.Time `json:"expiresAt,omitempty"`
}

// Candidate claim names per profile attribute, tried in order, first
// non-empty wins. Kept as data so new identity providers only need a new
// entry here.
var (
	userIDClaims   = []string{"sub", "userId", "id"}
	fullNameClaims = []string{
		"FullName",
		"fullName",
		"name",
		"http://schemas.xmlsoap.org/ws/2005/05/identity/claims/name",
		"email",
	}
	emailClaims = []string{
		"email",
		"http://schemas.xmlsoap.org/ws/2005/05/identity/claims/emailaddress",
	}
	roleClaims = []string{
		"role",
		"http://schemas.microsoft.com/ws/2008/06/identity/claims/role",
	}
)

var segmentDecoder = jwt.NewParser()

// DecodeProfile decodes the middle segment of a compact token into a
// Profile. It returns nil when no token is given, the token has fewer
// than two dot-delimited segments, or the payload is not valid JSON.
func DecodeProfile(token string) *Profile {
	if token == "" {
		return nil
	}

	parts := strings.Split(token, ".")
	if len(parts) < 2 {
		return nil
	}

	payload, err := segmentDecoder.DecodeSegment(parts[1])
	if err != nil {
		return nil
	}

	claims := jwt.MapClaims{}
	if err := json.Unmarshal(payload, &claims); err != nil {
		return nil
	}

	profile := &Profile{
		UserID:   firstString(claims, userIDClaims),
		FullName: firstString(claims, fullNameClaims),
		Email:    firstString(claims, emailClaims),
		Role:     firstString(claims, roleClaims),
	}

	// Expiry is decoded for display only ("session expires at ..."), never
	// enforced here.
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		profile.ExpiresAt = exp.Time
	}

	return profile
}

func firstString(claims jwt.MapClaims, names []string) string {
	for _, name := range names {
		if v, ok := claims[name].(string); ok && v != "" {
			return v
		}
	}
	return ""
}
