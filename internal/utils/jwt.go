package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("invalid token")
)

// TokenAudience tags every token minted by this service.
const TokenAudience = "user"

type TokenClaims struct {
	UserID    string `json:"userId,omitempty"`
	SessionID string `json:"sessionId"`
	jwt.RegisteredClaims
}

// SignOptions selects the secret, lifetime and audience for one token
// kind. Access and refresh tokens carry distinct secrets; the caller
// always supplies the expected one, there is no auto-detection.
type SignOptions struct {
	Secret    []byte
	ExpiresIn time.Duration
	Audience  string
}

// SignToken mints a signed token for the given identifiers. userID may be
// empty for refresh tokens, which only identify the session.
func SignToken(userID string, sessionID string, now time.Time, opts SignOptions) (string, error) {
	claims := TokenClaims{
		UserID:    userID,
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			Audience:  jwt.ClaimStrings{opts.Audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(opts.ExpiresIn)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(opts.Secret)
}

// VerifyToken checks the signature, expiry and audience. It returns
// ErrTokenExpired when only the expiry has elapsed and ErrTokenInvalid for
// anything else; on expiry the parsed claims are still returned so callers
// can clean up state tied to the embedded session.
func VerifyToken(tokenString string, opts SignOptions) (*TokenClaims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &TokenClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return opts.Secret, nil
	}, jwt.WithAudience(opts.Audience))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			if parsed != nil {
				if claims, ok := parsed.Claims.(*TokenClaims); ok {
					return claims, ErrTokenExpired
				}
			}
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}
	claims, ok := parsed.Claims.(*TokenClaims)
	if !ok || !parsed.Valid {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}
