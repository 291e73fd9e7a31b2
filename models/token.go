package models

import (
	"fmt"
	"strconv"

	"github.com/golang-jwt/jwt/v5"
)

// SyncClaims is the claim set carried by access tokens. On top of the
// registered claims it scopes the caller to a family and pins the device,
// so push and pull never need identifiers from the request body that the
// token has not vouched for.
type SyncClaims struct {
	jwt.RegisteredClaims

	// FamilyID is the family the subject belongs to. All record access
	// is scoped to it.
	FamilyID int64 `json:"fam"`

	// DeviceID is the device the token was issued to.
	DeviceID string `json:"dev"`
}

// Token wraps a parsed JWT with convenience accessors for the sync flows.
//
// SignedString holds the compact serialized form (header.payload.signature)
// ready to be transmitted in the Authorization header or stored client side.
//
// UserID is a cached, parsed copy of the "sub" claim converted to int64,
// populated during validation to avoid repeated string-to-int parsing.
type Token struct {
	// Token is the underlying JWT used for signing and claim inspection.
	// Excluded from JSON serialization because only the compact string
	// form is meaningful outside the server process.
	*jwt.Token `json:"-"`

	// SyncClaims provides access to the standard claim set plus the
	// family and device claims.
	SyncClaims

	// SignedString is the compact JWS representation of the token.
	SignedString string `json:"-"`

	// UserID is the subject identifier extracted from the "sub" claim.
	UserID int64 `json:"-"`
}

// GetUserID extracts the user identifier from the token's "sub" claim,
// parses it as a base-10 int64, and returns the result.
//
// Returns an error if the subject claim is missing, empty, or cannot be
// converted to int64.
func (t *Token) GetUserID() (int64, error) {
	userIDString, err := t.GetSubject()
	if err != nil {
		return 0, fmt.Errorf("error extracting UserID from token: %w", err)
	}

	userID, err := strconv.ParseInt(userIDString, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("error converting UserID from token to int64: %w", err)
	}

	return userID, nil
}

// String returns the compact JWS serialization of the token.
// It implements the [fmt.Stringer] interface.
func (t *Token) String() string {
	return t.SignedString
}
