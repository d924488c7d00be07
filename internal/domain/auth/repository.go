package auth

import "context"

// Repository abstracts user and external account persistence.
type Repository interface {
	Create(ctx context.Context, email, displayName, passwordHash, avatarURL string) (User, error)
	GetByEmail(ctx context.Context, email string) (User, bool, error)
	GetByID(ctx context.Context, id int64) (User, bool, error)
	GetAccount(ctx context.Context, provider, providerAccountID string) (ExternalAccount, bool, error)
	LinkAccount(ctx context.Context, account ExternalAccount) (ExternalAccount, error)
}

// AvatarStore uploads avatar images and returns their public URL.
type AvatarStore interface {
	Upload(ctx context.Context, fileName, contentType string, data []byte) (string, error)
}

// IdentityVerifier checks a raw provider ID token and returns the asserted
// identity. Implementations exist per provider; a nil verifier skips the
// check and trusts the normalized profile.
type IdentityVerifier interface {
	Verify(ctx context.Context, provider, rawIDToken string) (ProviderIdentity, error)
}

// IdentityLookup resolves an identity through the provider's userinfo
// endpoint using an access token. Verifiers implement it when the provider
// supports callbacks that carry no ID token.
type IdentityLookup interface {
	Identity(ctx context.Context, accessToken string) (ProviderIdentity, error)
}
