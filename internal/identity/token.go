package identity

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the bearer-token payload. Role is a snapshot taken at
// issue time; the users collection stays authoritative and the role
// middleware re-resolves it per request.
type Claims struct {
	jwt.RegisteredClaims
	Role string `json:"role"`
}

type TokenIssuer struct {
	secret   []byte
	issuer   string
	audience string
	ttl      time.Duration
}

func NewTokenIssuer(secret, issuer, audience string, ttl time.Duration) *TokenIssuer {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &TokenIssuer{secret: []byte(secret), issuer: issuer, audience: audience, ttl: ttl}
}

func (t *TokenIssuer) Issue(uid string, role string) (string, error) {
	now := time.Now().UTC()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   uid,
			Issuer:    t.issuer,
			Audience:  jwt.ClaimStrings{t.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
		Role: role,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}

func (t *TokenIssuer) Parse(raw string) (*Claims, error) {
	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(raw, claims, func(tk *jwt.Token) (any, error) {
		if tk.Method != jwt.SigningMethodHS256 {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return t.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || tok == nil || !tok.Valid {
		if err == nil {
			err = jwt.ErrTokenUnverifiable
		}
		return nil, err
	}
	if t.issuer != "" && claims.Issuer != t.issuer {
		return nil, jwt.ErrTokenInvalidIssuer
	}
	if t.audience != "" {
		ok := false
		for _, aud := range claims.Audience {
			if aud == t.audience {
				ok = true
				break
			}
		}
		if !ok {
			return nil, jwt.ErrTokenInvalidAudience
		}
	}
	if claims.Subject == "" {
		return nil, jwt.ErrTokenInvalidSubject
	}
	return claims, nil
}
