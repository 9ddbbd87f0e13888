// Package auth guards the SMS intake with a shared API key and issues the per-transaction
// tokens embedded in chat notification links.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var ErrUnauthorized = errors.New("unauthorized")

const tokenSubject = "mini_app_user"

// Claims scope a token to exactly one transaction.
type Claims struct {
	TxnHash string `json:"txn_hash"`
	jwt.RegisteredClaims
}

type Tokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokens(secret string, ttl time.Duration) (*Tokens, error) {
	if secret == "" {
		return nil, errors.New("token secret is empty")
	}

	return &Tokens{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// Issue signs an HS256 token that grants access to the transaction with the given hash.
func (t *Tokens) Issue(txnHash string) (string, error) {
	now := t.now()
	claims := Claims{
		TxnHash: txnHash,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   tokenSubject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}

	return signed, nil
}

// Verify returns the transaction hash a valid token grants access to.
func (t *Tokens) Verify(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(tok *jwt.Token) (any, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", tok.Header["alg"])
		}

		return t.secret, nil
	}, jwt.WithTimeFunc(t.now), jwt.WithSubject(tokenSubject))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUnauthorized, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.TxnHash == "" {
		return "", ErrUnauthorized
	}

	return claims.TxnHash, nil
}

// APIKey checks the shared key sent by the SMS forwarder against its bcrypt hash.
type APIKey struct {
	hash []byte
}

func NewAPIKey(bcryptHash string) (*APIKey, error) {
	if _, err := bcrypt.Cost([]byte(bcryptHash)); err != nil {
		return nil, fmt.Errorf("invalid API key hash: %w", err)
	}

	return &APIKey{hash: []byte(bcryptHash)}, nil
}

func (k *APIKey) Check(key string) bool {
	return key != "" && bcrypt.CompareHashAndPassword(k.hash, []byte(key)) == nil
}
