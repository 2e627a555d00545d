package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	firebase "firebase.google.com/go/v4"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

const googleTokenURI = "https://oauth2.googleapis.com/token"

// Credentials du compte de service Firebase
type Credentials struct {
	ProjectID   string
	ClientEmail string
	PrivateKey  string
}

// App remplace le singleton du SDK admin: un handle créé au démarrage et passé aux routes
type App struct {
	projectID string
	verifier  *IDTokenVerifier
}

// NewFirebaseApp initialise le SDK admin à partir des trois variables d'environnement
func NewFirebaseApp(ctx context.Context, cred Credentials) (*App, error) {
	if cred.ProjectID == "" {
		return nil, errors.New("firebase: project id is required")
	}
	opts, err := clientOptions(cred)
	if err != nil {
		return nil, err
	}

	fb, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cred.ProjectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("firebase: init app: %w", err)
	}
	client, err := fb.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("firebase: auth client: %w", err)
	}

	zap.L().Info("✅ Firebase initialisé", zap.String("project", cred.ProjectID))
	return &App{projectID: cred.ProjectID, verifier: NewIDTokenVerifier(client)}, nil
}

func (a *App) ProjectID() string { return a.projectID }

func (a *App) Verifier() Verifier { return a.verifier }

// sans compte de service, la vérification des tokens n'a besoin que des certificats publics
func clientOptions(cred Credentials) ([]option.ClientOption, error) {
	if cred.ClientEmail == "" || cred.PrivateKey == "" {
		return []option.ClientOption{option.WithoutAuthentication()}, nil
	}
	raw, err := serviceAccountJSON(cred)
	if err != nil {
		return nil, err
	}
	return []option.ClientOption{option.WithCredentialsJSON(raw)}, nil
}

func serviceAccountJSON(cred Credentials) ([]byte, error) {
	// la clé de .env arrive souvent avec des \n littéraux
	pem := strings.ReplaceAll(cred.PrivateKey, `\n`, "\n")
	if _, err := jwt.ParseRSAPrivateKeyFromPEM([]byte(pem)); err != nil {
		return nil, fmt.Errorf("firebase: private key: %w", err)
	}
	return json.Marshal(map[string]string{
		"type":         "service_account",
		"project_id":   cred.ProjectID,
		"private_key":  pem,
		"client_email": cred.ClientEmail,
		"token_uri":    googleTokenURI,
	})
}
