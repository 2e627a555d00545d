// Package auth vérifie les ID tokens Firebase via le SDK admin.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	fbauth "firebase.google.com/go/v4/auth"
)

var ErrInvalidToken = errors.New("auth: invalid id token")

// Token est l'identité extraite d'un ID token vérifié
type Token struct {
	UID           string
	Email         string
	EmailVerified bool
	Name          string
	Picture       string
	PhoneNumber   string
	AuthTime      time.Time
	Expires       time.Time
}

// Verifier est implémenté par IDTokenVerifier et par les faux des tests
type Verifier interface {
	VerifyIDToken(ctx context.Context, raw string) (*Token, error)
}

// idTokenChecker est la partie de *fbauth.Client utilisée ici
type idTokenChecker interface {
	VerifyIDToken(ctx context.Context, idToken string) (*fbauth.Token, error)
}

// IDTokenVerifier adapte le client auth Firebase au Token du domaine
type IDTokenVerifier struct {
	client idTokenChecker
}

func NewIDTokenVerifier(client *fbauth.Client) *IDTokenVerifier {
	return &IDTokenVerifier{client: client}
}

// VerifyIDToken délègue signature, aud, iss, exp, iat et sub au SDK
func (v *IDTokenVerifier) VerifyIDToken(ctx context.Context, raw string) (*Token, error) {
	if raw == "" {
		return nil, fmt.Errorf("%w: empty token", ErrInvalidToken)
	}
	decoded, err := v.client.VerifyIDToken(ctx, raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return fromFirebase(decoded), nil
}

func fromFirebase(t *fbauth.Token) *Token {
	tok := &Token{
		UID:      t.UID,
		AuthTime: time.Unix(t.AuthTime, 0),
		Expires:  time.Unix(t.Expires, 0),
	}
	if tok.UID == "" {
		tok.UID = t.Subject
	}
	tok.Email, _ = t.Claims["email"].(string)
	tok.EmailVerified, _ = t.Claims["email_verified"].(bool)
	tok.Name, _ = t.Claims["name"].(string)
	tok.Picture, _ = t.Claims["picture"].(string)
	tok.PhoneNumber, _ = t.Claims["phone_number"].(string)
	return tok
}
