package identity

import (
	"context"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log"
	"math/big"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"campusbarter/apperr"
)

// CognitoProvider verifies AWS Cognito id tokens (RS256) against the user
// pool's published JWKS. Public keys are fetched lazily on first use and
// cached for the lifetime of the process.
type CognitoProvider struct {
	jwksURL  string
	clientID string
	client   *http.Client

	mu   sync.RWMutex
	keys map[string]*rsa.PublicKey
}

func NewCognitoProvider(region, userPoolID, appClientID string) *CognitoProvider {
	jwksURL := fmt.Sprintf(
		"https://cognito-idp.%s.amazonaws.com/%s/.well-known/jwks.json",
		region, userPoolID,
	)
	return NewCognitoProviderFromURL(jwksURL, appClientID)
}

// NewCognitoProviderFromURL builds a provider against an explicit JWKS URL
func NewCognitoProviderFromURL(jwksURL, appClientID string) *CognitoProvider {
	log.Printf("[IDENTITY] Cognito provider initialized (jwks: %s)", jwksURL)
	return &CognitoProvider{
		jwksURL:  jwksURL,
		clientID: appClientID,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

// Verify checks the token signature, expiry and audience, and extracts the
// identity claims
func (p *CognitoProvider) Verify(ctx context.Context, credential string) (*Identity, error) {
	if err := p.ensureKeys(ctx); err != nil {
		return nil, err
	}

	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(credential, claims, p.keyFor,
		jwt.WithValidMethods([]string{"RS256"}),
		jwt.WithAudience(p.clientID),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		log.Printf("[IDENTITY] Token verification failed: %v", err)
		return nil, apperr.Wrap(apperr.InvalidCredential, "token verification failed", err)
	}

	email, _ := claims["email"].(string)
	if email == "" {
		return nil, apperr.E(apperr.InvalidCredential, "token is missing the email claim")
	}

	name, _ := claims["name"].(string)
	if name == "" {
		name = "Unknown User"
	}
	avatarURL, _ := claims["picture"].(string)

	log.Printf("[IDENTITY] Verified token for %s", email)
	return &Identity{Email: email, Name: name, AvatarURL: avatarURL}, nil
}

func (p *CognitoProvider) keyFor(token *jwt.Token) (interface{}, error) {
	kid, _ := token.Header["kid"].(string)
	if kid == "" {
		return nil, fmt.Errorf("token header has no kid")
	}

	p.mu.RLock()
	key, ok := p.keys[kid]
	p.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("public key %s not found in JWKS", kid)
	}
	return key, nil
}

type jwksDocument struct {
	Keys []struct {
		Kid string `json:"kid"`
		Kty string `json:"kty"`
		N   string `json:"n"`
		E   string `json:"e"`
	} `json:"keys"`
}

// ensureKeys populates the key cache on first use. The cache is never
// invalidated afterwards.
func (p *CognitoProvider) ensureKeys(ctx context.Context) error {
	p.mu.RLock()
	loaded := p.keys != nil
	p.mu.RUnlock()
	if loaded {
		return nil
	}

	log.Printf("[IDENTITY] Fetching JWKS from %s", p.jwksURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.jwksURL, nil)
	if err != nil {
		return apperr.Wrap(apperr.InvalidCredential, "building JWKS request", err)
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return apperr.Wrap(apperr.InvalidCredential, "fetching JWKS", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return apperr.Ef(apperr.InvalidCredential, "JWKS endpoint returned %d", resp.StatusCode)
	}

	var doc jwksDocument
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return apperr.Wrap(apperr.InvalidCredential, "decoding JWKS", err)
	}

	keys := make(map[string]*rsa.PublicKey, len(doc.Keys))
	for _, k := range doc.Keys {
		if k.Kty != "RSA" {
			continue
		}
		key, err := parseRSAKey(k.N, k.E)
		if err != nil {
			log.Printf("[IDENTITY] Skipping unparsable JWKS key %s: %v", k.Kid, err)
			continue
		}
		keys[k.Kid] = key
	}
	if len(keys) == 0 {
		return apperr.E(apperr.InvalidCredential, "JWKS contains no usable keys")
	}

	p.mu.Lock()
	p.keys = keys
	p.mu.Unlock()

	log.Printf("[IDENTITY] Cached %d JWKS keys", len(keys))
	return nil
}

func parseRSAKey(n, e string) (*rsa.PublicKey, error) {
	nBytes, err := base64.RawURLEncoding.DecodeString(n)
	if err != nil {
		return nil, fmt.Errorf("decoding modulus: %w", err)
	}
	eBytes, err := base64.RawURLEncoding.DecodeString(e)
	if err != nil {
		return nil, fmt.Errorf("decoding exponent: %w", err)
	}

	exponent := 0
	for _, b := range eBytes {
		exponent = exponent<<8 | int(b)
	}
	if exponent == 0 {
		return nil, fmt.Errorf("zero exponent")
	}

	return &rsa.PublicKey{
		N: new(big.Int).SetBytes(nBytes),
		E: exponent,
	}, nil
}
