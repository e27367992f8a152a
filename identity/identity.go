// Package identity resolves bearer credentials to a stable user identity.
// The marketplace treats verification as an external collaborator: one
// implementation per environment (Cognito in production, a stub in tests).
package identity

import "context"

// Identity is the verified data extracted from a credential.
type Identity struct {
	Email     string
	Name      string
	AvatarURL string
}

// Provider verifies a bearer credential. Verification failures surface as
// apperr.InvalidCredential.
type Provider interface {
	Verify(ctx context.Context, credential string) (*Identity, error)
}
