// Package service provides the identity service implementation
package service

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"pincast/internal/modkit/repokit"
	perr "pincast/internal/platform/errors"
	"pincast/internal/services/identity/domain"
	"pincast/internal/services/identity/keys"
)

// audRe extracts the app id from an app-scoped audience claim
var audRe = regexp.MustCompile(`(?i)^app:([a-f0-9-]+)$`)

// Config carries the verification knobs
type Config struct {
	// Issuer is the identity provider issuer URL expected on ID tokens
	Issuer string

	// AppSecret signs and verifies HS256 app session tokens
	AppSecret []byte
}

// Svc implements domain.VerifierPort and domain.IssuerPort
type Svc struct {
	db     repokit.TxRunner
	binder repokit.Binder[domain.Repo]
	jwks   *keys.Cache
	cfg    Config
}

// New constructs the identity service
func New(db repokit.TxRunner, binder repokit.Binder[domain.Repo], jwks *keys.Cache, cfg Config) *Svc {
	if db == nil {
		panic("identity.Service requires a non-nil TxRunner")
	}
	if binder == nil {
		panic("identity.Service requires a non-nil Repo binder")
	}
	if jwks == nil {
		panic("identity.Service requires a JWKS cache")
	}
	if len(cfg.AppSecret) == 0 {
		panic("identity.Service requires an app token secret")
	}
	return &Svc{db: db, binder: binder, jwks: jwks, cfg: cfg}
}

// VerifyIDToken checks an RS256 provider token against the cached JWKS
func (s *Svc) VerifyIDToken(ctx context.Context, token string) (domain.IDClaims, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		kid, _ := t.Header["kid"].(string)
		return s.jwks.Key(ctx, kid)
	}, jwt.WithExpirationRequired())
	if err != nil || !parsed.Valid {
		return domain.IDClaims{}, perr.Unauthorizedf("Invalid token")
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return domain.IDClaims{}, perr.Unauthorizedf("Invalid token")
	}
	sub, _ := claims.GetSubject()
	if sub == "" {
		return domain.IDClaims{}, perr.Unauthorizedf("Invalid token: missing subject ID")
	}
	iss, _ := claims.GetIssuer()
	if s.cfg.Issuer != "" && iss != s.cfg.Issuer {
		return domain.IDClaims{}, perr.Unauthorizedf("Invalid token")
	}

	out := domain.IDClaims{Subject: sub, Issuer: iss}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		out.ExpiresAt = exp.Time
	}
	return out, nil
}

// Resolve maps a provider subject to the local account. Unknown subjects get
// a player row on first sight so sign-in needs no separate provisioning call
func (s *Svc) Resolve(ctx context.Context, subject string) (domain.User, error) {
	if subject == "" {
		return domain.User{}, perr.Unauthorizedf("Invalid token: missing subject ID")
	}
	r := s.binder.Bind(s.db)
	u, err := r.BySubject(ctx, subject)
	if err == nil {
		return u, nil
	}
	if !perr.IsCode(err, perr.ErrorCodeNotFound) {
		return domain.User{}, err
	}
	return r.Ensure(ctx, subject, "")
}

// MintAppToken issues an HS256 session token scoped to one app
func (s *Svc) MintAppToken(_ context.Context, userID, appID string, role domain.Role, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = time.Hour
	}
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   userID,
		"appId": appID,
		"aud":   "app:" + appID,
		"role":  string(role),
		"iat":   now.Unix(),
		"exp":   now.Add(ttl).Unix(),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(s.cfg.AppSecret)
	if err != nil {
		return "", perr.Wrap(err, perr.ErrorCodeUnknown, "sign app token")
	}
	return signed, nil
}

// VerifyAppToken checks an HS256 app session token and extracts its scope
func (s *Svc) VerifyAppToken(_ context.Context, token string) (domain.AppClaims, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.cfg.AppSecret, nil
	}, jwt.WithExpirationRequired())
	if err != nil || !parsed.Valid {
		return domain.AppClaims{}, perr.Unauthorizedf("Invalid token")
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return domain.AppClaims{}, perr.Unauthorizedf("Invalid token")
	}

	out := domain.AppClaims{}
	out.UserID, _ = claims.GetSubject()
	if v, ok := claims["role"].(string); ok {
		out.Role = domain.Role(v)
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		out.ExpiresAt = exp.Time
	}

	// the audience pins the token to exactly one app
	auds, err := claims.GetAudience()
	if err != nil || len(auds) != 1 {
		return domain.AppClaims{}, perr.Unauthorizedf("Invalid token audience")
	}
	m := audRe.FindStringSubmatch(auds[0])
	if m == nil {
		return domain.AppClaims{}, perr.Unauthorizedf("Invalid token audience")
	}
	out.AppID = m[1]
	return out, nil
}
