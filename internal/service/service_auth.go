package service

import (
	"context"
	"fmt"
	"time"

	"github.com/MKhiriev/go-nest-keeper/internal/config"
	"github.com/MKhiriev/go-nest-keeper/internal/logger"
	"github.com/MKhiriev/go-nest-keeper/internal/store"
	"github.com/MKhiriev/go-nest-keeper/internal/utils"
	"github.com/MKhiriev/go-nest-keeper/models"
)

// authService is the concrete implementation of AuthService.
// It verifies device refresh credentials against the session store and
// handles the JWT access token lifecycle. Refresh tokens themselves are
// provisioned during device enrollment and never issued here.
type authService struct {
	// sessions is the store of device refresh sessions used to validate
	// presented refresh tokens.
	sessions store.SessionStore

	// tokenSignKey is the HMAC secret used to sign and verify JWT tokens.
	tokenSignKey string

	// tokenIssuer is the "iss" claim embedded in every issued JWT.
	// Tokens whose issuer does not match this value are rejected during parsing.
	tokenIssuer string

	// tokenDuration controls how long a newly issued JWT remains valid.
	tokenDuration time.Duration

	// logger is the structured logger used for diagnostic and error output.
	logger *logger.Logger
}

// NewAuthService constructs a new AuthService wired to the given SessionStore
// and populated with security parameters from cfg.
//
// The returned service is safe for concurrent use; all state is read-only after
// construction.
func NewAuthService(sessions store.SessionStore, cfg config.App, logger *logger.Logger) AuthService {
	return &authService{
		sessions:      sessions,
		tokenSignKey:  cfg.TokenSignKey,
		tokenIssuer:   cfg.TokenIssuer,
		tokenDuration: cfg.TokenDuration,
		logger:        logger,
	}
}

// Refresh exchanges a valid device refresh token for a fresh access token.
//
// The presented token is checked against the device's stored session; the new
// access token carries the user, family and device identities recorded there.
//
// Returns the new token and its expiry or:
//   - ErrInvalidDataProvided if DeviceID or RefreshToken is empty.
//   - ErrRefreshRejected if the session is unknown, expired, or the token
//     does not match (the caller must not learn which).
//   - ErrTokenCreationFailed if JWT generation fails.
func (a *authService) Refresh(ctx context.Context, request models.RefreshRequest) (models.RefreshResponse, error) {
	log := logger.FromContext(ctx)

	if request.DeviceID == "" || request.RefreshToken == "" {
		log.Error().Str("device_id", request.DeviceID).Msg("invalid refresh request provided")
		return models.RefreshResponse{}, ErrInvalidDataProvided
	}

	session, err := a.sessions.Validate(ctx, request.DeviceID, request.RefreshToken)
	if err != nil {
		log.Warn().Err(err).Str("device_id", request.DeviceID).Msg("refresh rejected")
		return models.RefreshResponse{}, fmt.Errorf("%w: %w", ErrRefreshRejected, err)
	}

	token, err := utils.GenerateJWTToken(a.tokenIssuer, session.UserID, session.FamilyID, session.DeviceID, a.tokenDuration, a.tokenSignKey)
	if err != nil {
		log.Err(err).Str("device_id", request.DeviceID).Msg("token creation failed")
		return models.RefreshResponse{}, fmt.Errorf("%w: %w", ErrTokenCreationFailed, err)
	}

	return models.RefreshResponse{
		AccessToken: token.SignedString,
		ExpiresAt:   token.ExpiresAt.Time,
	}, nil
}

// ParseToken validates and parses a raw JWT string.
//
// It delegates to utils.ValidateAndParseJWTToken, verifying the signature and
// the issuer claim. Any validation failure (expired, wrong issuer, malformed)
// is normalised to ErrTokenIsExpiredOrInvalid so that callers do not need to
// inspect low-level JWT errors.
//
// Returns the decoded token model on success or ErrTokenIsExpiredOrInvalid on
// any validation failure.
func (a *authService) ParseToken(ctx context.Context, tokenString string) (models.Token, error) {
	token, err := utils.ValidateAndParseJWTToken(tokenString, a.tokenSignKey, a.tokenIssuer)
	if err != nil {
		return models.Token{}, ErrTokenIsExpiredOrInvalid
	}

	return token, nil
}
