package trovochat

import (
	"slices"
	"strings"
)

// AnonymousLogin is the nick/token pair the server accepts for read-only,
// unauthenticated sessions.
const AnonymousLogin = "justinfan1234"

// UserConfig holds everything the registration handshake needs. Build it
// once with NewUserConfig before connecting; it is never mutated after.
type UserConfig struct {
	Nick  string
	Token string
	Caps  []Capability
}

// UserOption customizes a UserConfig under construction.
type UserOption func(*UserConfig) error

// WithCapabilities replaces the default capability request set.
func WithCapabilities(caps ...Capability) UserOption {
	return func(uc *UserConfig) error {
		uc.Caps = slices.Clone(caps)
		return nil
	}
}

// NewUserConfig builds an immutable UserConfig. The nick is lowercased to
// match what the server will assign. By default all of Membership,
// Commands and Tags are requested.
func NewUserConfig(nick, token string, opts ...UserOption) (*UserConfig, error) {
	if nick == "" || token == "" {
		return nil, ErrInvalidUserConfig
	}
	uc := &UserConfig{
		Nick:  strings.ToLower(nick),
		Token: token,
		Caps:  []Capability{CapMembership, CapCommands, CapTags},
	}
	for _, opt := range opts {
		if err := opt(uc); err != nil {
			return nil, err
		}
	}
	return uc, nil
}

// AnonymousConfig returns a configuration for a read-only session that
// needs no account token.
func AnonymousConfig() *UserConfig {
	uc, _ := NewUserConfig(AnonymousLogin, AnonymousLogin)
	return uc
}

// RegisteredUser is the identity the server confirmed at the end of
// registration. Immutable once produced.
type RegisteredUser struct {
	// ID is the provider-side user id when the Tags capability was
	// granted, otherwise the server-assigned name.
	ID          string
	Name        string
	DisplayName string
	Color       Color
	Caps        []Capability
}
