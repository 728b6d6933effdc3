package auth

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/ahscorp/hiring-hive-platform/internal/config"
	"github.com/ahscorp/hiring-hive-platform/internal/database"
	"github.com/ahscorp/hiring-hive-platform/internal/utilities"
)

// TestSecretKey signs tokens issued by NewTestTokenIssuer.
const TestSecretKey = "test-secret-key"

// NewTestTokenIssuer returns an issuer with a fixed key for tests.
func NewTestTokenIssuer() *TokenIssuer {
	t, _ := NewTokenIssuer(config.AuthConfig{SecretKey: TestSecretKey, TokenTTL: time.Hour})
	return t
}

// GetAccessToken is a helper function to obtain an access token for a user by simulating a login API call.
// It takes the testing object, database connection, token issuer, email, and password as parameters.
// It returns the access token as a string and any error encountered during the process.
func GetAccessToken(
	t *testing.T,
	db *database.DBinstanceStruct,
	tokens *TokenIssuer,
	email string,
	password string,
) (string, error) {
	t.Helper()
	handler := NewHandler(db, tokens, NewInMemoryBlacklistStore(), nil)
	rec, resp, err := utilities.SimulateAPICall(handler.LoginHandler, "/login", http.MethodPost, map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return "", err
	}
	if rec.Code != http.StatusOK {
		return "", fmt.Errorf("login Failed: status %d, body: %s", rec.Code, rec.Body.String())
	}
	if resp["access_token"] == nil {
		return "", fmt.Errorf("login Failed: no access_token in response: %s", rec.Body.String())
	}
	return resp["access_token"].(string), nil
}
