package security

import (
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// ErrUnauthorized is returned when an admin credential is missing or wrong
var ErrUnauthorized = errors.New("unauthorized")

const (
	// PasswordHeader carries the shared admin secret
	PasswordHeader = "X-Admin-Password"
	tokenIssuer    = "chorechart"
	adminSubject   = "admin"
)

// AdminAuth checks the shared admin secret and issues short-lived admin tokens
type AdminAuth struct {
	password     string
	passwordHash []byte
	secret       []byte
	ttl          time.Duration
	now          func() time.Time
}

// NewAdminAuth creates an admin authenticator. When passwordHash is set it is
// used instead of the plain password. An empty tokenSecret gets a random one,
// so issued tokens stop working on restart.
func NewAdminAuth(password, passwordHash, tokenSecret string, ttl time.Duration) (*AdminAuth, error) {
	a := &AdminAuth{
		password: password,
		ttl:      ttl,
		now:      time.Now,
	}
	if passwordHash != "" {
		if _, err := bcrypt.Cost([]byte(passwordHash)); err != nil {
			return nil, fmt.Errorf("invalid ADMIN_PASSWORD_HASH: %w", err)
		}
		a.passwordHash = []byte(passwordHash)
	}
	if a.password == "" && a.passwordHash == nil {
		return nil, errors.New("an admin password or password hash is required")
	}

	if tokenSecret != "" {
		a.secret = []byte(tokenSecret)
	} else {
		a.secret = make([]byte, 32)
		if _, err := rand.Read(a.secret); err != nil {
			return nil, fmt.Errorf("failed to generate token secret: %w", err)
		}
		log.Warn("ADMIN_TOKEN_SECRET not set; admin tokens will not survive a restart")
	}
	if a.ttl <= 0 {
		a.ttl = 12 * time.Hour
	}
	return a, nil
}

// CheckPassword reports whether candidate is the admin secret
func (a *AdminAuth) CheckPassword(candidate string) bool {
	if candidate == "" {
		return false
	}
	if a.passwordHash != nil {
		return bcrypt.CompareHashAndPassword(a.passwordHash, []byte(candidate)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(candidate), []byte(a.password)) == 1
}

// IssueToken exchanges a correct admin password for a signed token
func (a *AdminAuth) IssueToken(password string) (string, time.Time, error) {
	if !a.CheckPassword(password) {
		return "", time.Time{}, ErrUnauthorized
	}

	now := a.now()
	expiresAt := now.Add(a.ttl)
	claims := jwt.RegisteredClaims{
		Issuer:    tokenIssuer,
		Subject:   adminSubject,
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// ValidateToken checks an admin token's signature, issuer and expiry
func (a *AdminAuth) ValidateToken(token string) error {
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims,
		func(t *jwt.Token) (interface{}, error) { return a.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithSubject(adminSubject),
		jwt.WithTimeFunc(a.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !parsed.Valid {
		return fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	return nil
}

// Authorize accepts either the X-Admin-Password header or an
// "Authorization: Bearer" admin token.
func (a *AdminAuth) Authorize(r *http.Request) error {
	if password := r.Header.Get(PasswordHeader); password != "" {
		if a.CheckPassword(password) {
			return nil
		}
		return ErrUnauthorized
	}

	if auth := r.Header.Get("Authorization"); auth != "" {
		scheme, token, ok := strings.Cut(auth, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			return a.ValidateToken(strings.TrimSpace(token))
		}
	}
	return ErrUnauthorized
}
