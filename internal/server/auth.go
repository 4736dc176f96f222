package server

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// ScopeWrite is required on every mutating route.
const ScopeWrite = "tasks:write"

var (
	errMissingAuthorization = errors.New("missing authorization header")
	errBadAuthorization     = errors.New("bad auth header")
	errInvalidToken         = errors.New("invalid token")
	ErrForbidden            = errors.New("token lacks the tasks:write scope")
)

// Principal is the verified identity behind a request.
type Principal struct {
	Subject string
	Scopes  []string
}

func (p Principal) CanWrite() bool {
	return slices.Contains(p.Scopes, ScopeWrite)
}

// Auth verifies HS256 bearer tokens signed with a shared secret.
type Auth struct {
	secret []byte
	parser *jwt.Parser
}

// NewAuth returns nil for an empty secret; a nil *Auth lets every request through.
func NewAuth(secret string) *Auth {
	if secret == "" {
		return nil
	}
	return &Auth{
		secret: []byte(secret),
		parser: jwt.NewParser(jwt.WithValidMethods([]string{"HS256"})),
	}
}

// Verify checks an Authorization header value.
func (a *Auth) Verify(header string) (Principal, error) {
	token, err := bearerToken(header)
	if err != nil {
		return Principal{}, err
	}

	parsed, err := a.parser.Parse(token, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return a.secret, nil
	})
	if err != nil {
		return Principal{}, fmt.Errorf("%w: %v", errInvalidToken, err)
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return Principal{}, errInvalidToken
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return Principal{}, fmt.Errorf("%w: missing sub", errInvalidToken)
	}
	return Principal{Subject: sub, Scopes: scopes(claims)}, nil
}

// IssueToken signs a token for subject with the given scopes. A zero ttl
// issues a token without expiry.
func IssueToken(secret, subject string, scopes []string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", errors.New("no signing secret configured")
	}
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   subject,
		"scope": strings.Join(scopes, " "),
		"iat":   now.Unix(),
	}
	if ttl > 0 {
		claims["exp"] = now.Add(ttl).Unix()
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

func bearerToken(header string) (string, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", errMissingAuthorization
	}
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return "", errBadAuthorization
	}
	token = strings.TrimSpace(token)
	if strings.Count(token, ".") != 2 {
		return "", errBadAuthorization
	}
	return token, nil
}

// scopes reads the space separated "scope" claim or a "scopes" array
func scopes(claims jwt.MapClaims) []string {
	if s, ok := claims["scope"].(string); ok {
		return strings.Fields(s)
	}
	list, ok := claims["scopes"].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(list))
	for _, v := range list {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
