package auth

import (
	"fmt"
	"strings"

	apperrors "github.com/nduongg04/live-docs/pkg/errors"
)

// Provider names accepted by ExchangeProvider.
const (
	ProviderGoogle   = "google"
	ProviderFacebook = "facebook"
)

type providerProfile struct {
	Email       string
	DisplayName string
	Avatar      string
	SubjectID   string
}

// normalizeProviderProfile maps the provider-specific profile shape onto the
// fields the exchange needs. Google uses {email, name, picture, sub};
// Facebook uses {email, name, picture.data.url, id}.
func normalizeProviderProfile(provider string, profile map[string]any) (providerProfile, error) {
	switch provider {
	case ProviderGoogle:
		out := providerProfile{
			Email:       stringField(profile, "email"),
			DisplayName: stringField(profile, "name"),
			Avatar:      stringField(profile, "picture"),
			SubjectID:   stringField(profile, "sub"),
		}
		return validateProfile(provider, out)
	case ProviderFacebook:
		out := providerProfile{
			Email:       stringField(profile, "email"),
			DisplayName: stringField(profile, "name"),
			SubjectID:   stringField(profile, "id"),
		}
		if picture, ok := profile["picture"].(map[string]any); ok {
			if data, ok := picture["data"].(map[string]any); ok {
				out.Avatar = stringField(data, "url")
			}
		}
		return validateProfile(provider, out)
	default:
		return providerProfile{}, apperrors.Wrap("invalid_input", fmt.Sprintf("unsupported provider: %s", provider), nil)
	}
}

func validateProfile(provider string, profile providerProfile) (providerProfile, error) {
	if strings.TrimSpace(profile.SubjectID) == "" {
		return providerProfile{}, apperrors.Wrap("invalid_input", provider+" profile missing subject", nil)
	}
	if strings.TrimSpace(profile.Email) == "" {
		return providerProfile{}, apperrors.Wrap("invalid_input", provider+" profile missing email", nil)
	}
	if strings.TrimSpace(profile.DisplayName) == "" {
		profile.DisplayName = strings.Split(profile.Email, "@")[0]
	}
	return profile, nil
}

func stringField(m map[string]any, key string) string {
	if m == nil {
		return ""
	}
	value, _ := m[key].(string)
	return strings.TrimSpace(value)
}
