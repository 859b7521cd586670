package auth

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	// TokenTTL is the session lifetime for a normal login.
	TokenTTL = 24 * time.Hour
	// RememberTokenTTL is the session lifetime when the client asked to
	// stay signed in.
	RememberTokenTTL = 7 * 24 * time.Hour

	// clockSkewLeeway absorbs small clock drift between the issuing and
	// verifying hosts when checking expiry.
	clockSkewLeeway = 30 * time.Second
)

var (
	// ErrTokenExpired indicates a well-formed token past its expiry.
	ErrTokenExpired = errors.New("token expired")
	// ErrTokenInvalid indicates a token that fails signature, issuer or
	// claim validation.
	ErrTokenInvalid = errors.New("token invalid")
	// ErrTokenMalformed indicates input that is not a compact JWT at all.
	ErrTokenMalformed = errors.New("token malformed")
)

// Claims is the session token payload. Subject carries the user id.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// TokenIssuer issues and verifies RS256-signed session tokens. It is
// stateless: any instance holding the public key can verify a token
// issued by any other, with no shared session table.
//
// Key material is injected configuration only. There is deliberately no
// fallback key baked into the binary; a compiled-in signing key would
// defeat the point of asymmetric signing.
type TokenIssuer struct {
	privateKey *rsa.PrivateKey
	publicKey  *rsa.PublicKey
	issuer     string
}

// NewTokenIssuer builds an issuer around an externally supplied key pair.
// The private key may be nil for verify-only deployments.
func NewTokenIssuer(privateKey *rsa.PrivateKey, publicKey *rsa.PublicKey, issuer string) (*TokenIssuer, error) {
	if publicKey == nil {
		return nil, errors.New("public key is required")
	}
	if issuer == "" {
		return nil, errors.New("issuer is required")
	}
	return &TokenIssuer{
		privateKey: privateKey,
		publicKey:  publicKey,
		issuer:     issuer,
	}, nil
}

// Issue signs a session token for the given user. The ttl is threaded in
// from the caller so that login can extend it for remembered sessions.
func (t *TokenIssuer) Issue(userID, email string, ttl time.Duration) (string, error) {
	if t.privateKey == nil {
		return "", errors.New("issuer has no private key")
	}

	now := time.Now()
	claims := Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    t.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	signed, err := token.SignedString(t.privateKey)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a session token. Only RS256 is accepted,
// which closes off downgrade to symmetric or unsigned algorithms. Expiry
// is checked with a small leeway for clock skew.
func (t *TokenIssuer) Verify(tokenStr string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(
		tokenStr,
		&Claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
			}
			return t.publicKey, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithIssuer(t.issuer),
		jwt.WithLeeway(clockSkewLeeway),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, fmt.Errorf("%w: %v", ErrTokenMalformed, err)
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		default:
			return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
		}
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrTokenInvalid
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrTokenInvalid)
	}
	return claims, nil
}
