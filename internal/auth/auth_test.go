package auth

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"errors"
	"strings"
	"testing"
	"time"

	fbauth "firebase.google.com/go/v4/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testProject = "demo-store"

var testNow = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

type fakeChecker struct {
	tok  *fbauth.Token
	err  error
	seen string
}

func (f *fakeChecker) VerifyIDToken(_ context.Context, raw string) (*fbauth.Token, error) {
	f.seen = raw
	return f.tok, f.err
}

func decodedToken() *fbauth.Token {
	return &fbauth.Token{
		AuthTime: testNow.Add(-time.Minute).Unix(),
		Issuer:   "https://securetoken.google.com/" + testProject,
		Audience: testProject,
		Expires:  testNow.Add(time.Hour).Unix(),
		IssuedAt: testNow.Add(-time.Minute).Unix(),
		Subject:  "firebase-uid-1",
		UID:      "firebase-uid-1",
		Claims: map[string]interface{}{
			"email":          "jane@example.com",
			"email_verified": true,
			"name":           "Jane",
			"picture":        "https://example.com/jane.png",
			"phone_number":   "+33600000000",
		},
	}
}

func TestVerifyIDToken(t *testing.T) {
	fake := &fakeChecker{tok: decodedToken()}
	v := &IDTokenVerifier{client: fake}

	tok, err := v.VerifyIDToken(context.Background(), "raw-token")
	require.NoError(t, err)
	assert.Equal(t, "raw-token", fake.seen)
	assert.Equal(t, "firebase-uid-1", tok.UID)
	assert.Equal(t, "jane@example.com", tok.Email)
	assert.True(t, tok.EmailVerified)
	assert.Equal(t, "Jane", tok.Name)
	assert.Equal(t, "https://example.com/jane.png", tok.Picture)
	assert.Equal(t, "+33600000000", tok.PhoneNumber)
	assert.Equal(t, testNow.Add(-time.Minute).Unix(), tok.AuthTime.Unix())
	assert.Equal(t, testNow.Add(time.Hour).Unix(), tok.Expires.Unix())
}

func TestVerifyIDTokenMissingClaims(t *testing.T) {
	decoded := decodedToken()
	decoded.UID = ""
	decoded.Claims = map[string]interface{}{"email": 42}
	v := &IDTokenVerifier{client: &fakeChecker{tok: decoded}}

	tok, err := v.VerifyIDToken(context.Background(), "raw-token")
	require.NoError(t, err)
	assert.Equal(t, "firebase-uid-1", tok.UID)
	assert.Empty(t, tok.Email)
	assert.False(t, tok.EmailVerified)
	assert.Empty(t, tok.Name)
}

func TestVerifyIDTokenRejects(t *testing.T) {
	fake := &fakeChecker{err: errors.New("ID token has expired")}
	v := &IDTokenVerifier{client: fake}

	_, err := v.VerifyIDToken(context.Background(), "raw-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.Contains(t, err.Error(), "expired")

	fake.seen = ""
	_, err = v.VerifyIDToken(context.Background(), "")
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.Empty(t, fake.seen)
}

func privatePEM(t *testing.T) string {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	der := x509.MarshalPKCS1PrivateKey(key)
	return string(pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: der}))
}

func TestServiceAccountJSON(t *testing.T) {
	p := privatePEM(t)
	// forme .env: retours à la ligne échappés
	escaped := strings.ReplaceAll(p, "\n", `\n`)

	raw, err := serviceAccountJSON(Credentials{ProjectID: testProject, ClientEmail: "svc@demo-store.iam.gserviceaccount.com", PrivateKey: escaped})
	require.NoError(t, err)

	var out map[string]string
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Equal(t, "service_account", out["type"])
	assert.Equal(t, testProject, out["project_id"])
	assert.Equal(t, "svc@demo-store.iam.gserviceaccount.com", out["client_email"])
	assert.Equal(t, p, out["private_key"])
	assert.Equal(t, googleTokenURI, out["token_uri"])

	_, err = serviceAccountJSON(Credentials{ProjectID: testProject, ClientEmail: "svc@x", PrivateKey: "garbage"})
	assert.Error(t, err)
}

func TestClientOptionsWithoutServiceAccount(t *testing.T) {
	opts, err := clientOptions(Credentials{ProjectID: testProject})
	require.NoError(t, err)
	assert.Len(t, opts, 1)

	opts, err = clientOptions(Credentials{ProjectID: testProject, ClientEmail: "svc@x", PrivateKey: privatePEM(t)})
	require.NoError(t, err)
	assert.Len(t, opts, 1)
}

func TestNewFirebaseApp(t *testing.T) {
	ctx := context.Background()

	_, err := NewFirebaseApp(ctx, Credentials{})
	assert.Error(t, err)

	_, err = NewFirebaseApp(ctx, Credentials{ProjectID: testProject, ClientEmail: "svc@x", PrivateKey: "garbage"})
	assert.Error(t, err)

	app, err := NewFirebaseApp(ctx, Credentials{
		ProjectID:   testProject,
		ClientEmail: "svc@demo-store.iam.gserviceaccount.com",
		PrivateKey:  privatePEM(t),
	})
	require.NoError(t, err)
	assert.Equal(t, testProject, app.ProjectID())
	assert.NotNil(t, app.Verifier())
}
