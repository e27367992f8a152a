package identity

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campusbarter/apperr"
)

const testClientID = "test-app-client"

type testKeys struct {
	key  *rsa.PrivateKey
	kid  string
	jwks *httptest.Server
}

func newTestKeys(t *testing.T) *testKeys {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	tk := &testKeys{key: key, kid: "test-key-1"}

	doc := map[string]interface{}{
		"keys": []map[string]string{{
			"kid": tk.kid,
			"kty": "RSA",
			"alg": "RS256",
			"use": "sig",
			"n":   base64.RawURLEncoding.EncodeToString(key.PublicKey.N.Bytes()),
			"e":   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(key.PublicKey.E)).Bytes()),
		}},
	}

	tk.jwks = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(doc)
	}))
	t.Cleanup(tk.jwks.Close)

	return tk
}

func (tk *testKeys) sign(t *testing.T, claims jwt.MapClaims, kid string) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	token.Header["kid"] = kid
	signed, err := token.SignedString(tk.key)
	require.NoError(t, err)
	return signed
}

func validClaims() jwt.MapClaims {
	return jwt.MapClaims{
		"aud":     testClientID,
		"exp":     time.Now().Add(time.Hour).Unix(),
		"email":   "student@campus.test",
		"name":    "Test Student",
		"picture": "https://example.com/avatar.png",
	}
}

func TestVerifyValidToken(t *testing.T) {
	tk := newTestKeys(t)
	provider := NewCognitoProviderFromURL(tk.jwks.URL, testClientID)

	identity, err := provider.Verify(context.Background(), tk.sign(t, validClaims(), tk.kid))
	require.NoError(t, err)

	assert.Equal(t, "student@campus.test", identity.Email)
	assert.Equal(t, "Test Student", identity.Name)
	assert.Equal(t, "https://example.com/avatar.png", identity.AvatarURL)
}

func TestVerifyDefaultsMissingName(t *testing.T) {
	tk := newTestKeys(t)
	provider := NewCognitoProviderFromURL(tk.jwks.URL, testClientID)

	claims := validClaims()
	delete(claims, "name")
	delete(claims, "picture")

	identity, err := provider.Verify(context.Background(), tk.sign(t, claims, tk.kid))
	require.NoError(t, err)
	assert.Equal(t, "Unknown User", identity.Name)
	assert.Empty(t, identity.AvatarURL)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	tk := newTestKeys(t)
	provider := NewCognitoProviderFromURL(tk.jwks.URL, testClientID)

	claims := validClaims()
	claims["exp"] = time.Now().Add(-time.Hour).Unix()

	_, err := provider.Verify(context.Background(), tk.sign(t, claims, tk.kid))
	assert.Equal(t, apperr.InvalidCredential, apperr.KindOf(err))
}

func TestVerifyRejectsWrongAudience(t *testing.T) {
	tk := newTestKeys(t)
	provider := NewCognitoProviderFromURL(tk.jwks.URL, testClientID)

	claims := validClaims()
	claims["aud"] = "someone-elses-app"

	_, err := provider.Verify(context.Background(), tk.sign(t, claims, tk.kid))
	assert.Equal(t, apperr.InvalidCredential, apperr.KindOf(err))
}

func TestVerifyRejectsUnknownKid(t *testing.T) {
	tk := newTestKeys(t)
	provider := NewCognitoProviderFromURL(tk.jwks.URL, testClientID)

	_, err := provider.Verify(context.Background(), tk.sign(t, validClaims(), "rotated-away"))
	assert.Equal(t, apperr.InvalidCredential, apperr.KindOf(err))
}

func TestVerifyRejectsMissingEmail(t *testing.T) {
	tk := newTestKeys(t)
	provider := NewCognitoProviderFromURL(tk.jwks.URL, testClientID)

	claims := validClaims()
	delete(claims, "email")

	_, err := provider.Verify(context.Background(), tk.sign(t, claims, tk.kid))
	assert.Equal(t, apperr.InvalidCredential, apperr.KindOf(err))
}

func TestVerifyRejectsGarbage(t *testing.T) {
	tk := newTestKeys(t)
	provider := NewCognitoProviderFromURL(tk.jwks.URL, testClientID)

	_, err := provider.Verify(context.Background(), "not-a-jwt")
	assert.Equal(t, apperr.InvalidCredential, apperr.KindOf(err))
}

func TestJWKSFetchedOnce(t *testing.T) {
	tk := newTestKeys(t)

	fetches := 0
	counting := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fetches++
		resp, err := http.Get(tk.jwks.URL)
		require.NoError(t, err)
		defer resp.Body.Close()
		w.Header().Set("Content-Type", "application/json")
		var doc json.RawMessage
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&doc))
		w.Write(doc)
	}))
	defer counting.Close()

	provider := NewCognitoProviderFromURL(counting.URL, testClientID)
	for i := 0; i < 3; i++ {
		_, err := provider.Verify(context.Background(), tk.sign(t, validClaims(), tk.kid))
		require.NoError(t, err)
	}
	assert.Equal(t, 1, fetches, "JWKS must be cached after the first fetch")
}
