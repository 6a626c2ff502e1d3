package entity

import "github.com/google/uuid"

// ProviderType identifies how a user logged in.
type ProviderType string

const (
	// ProviderTypeLocal is the ID/password form.
	ProviderTypeLocal ProviderType = "local"
	// ProviderTypeKakao is the Kakao social login.
	ProviderTypeKakao ProviderType = "kakao"
)

// ownerNamespace seeds the deterministic owner IDs derived from login identities.
var ownerNamespace = uuid.MustParse("9b1d6f4e-6a43-4f0e-b1a8-3c1e0c2f7d55")

// OwnerIDFor derives the stable owner ID for a login identity.
func OwnerIDFor(provider ProviderType, subject string) uuid.UUID {
	return uuid.NewSHA1(ownerNamespace, []byte(string(provider)+":"+subject))
}

// Session is the persisted login state of an owner.
type Session struct {
	OwnerID  uuid.UUID    `json:"owner_id"`
	LoggedIn bool         `json:"logged_in"`
	Provider ProviderType `json:"provider,omitempty"`
	UserID   string       `json:"user_id,omitempty"`  // Set by the ID/password login.
	Nickname string       `json:"nickname,omitempty"` // Set by the social login.
}

// SocialProfile is what the social-login collaborator returns for an access token.
type SocialProfile struct {
	ID       string
	Nickname string
	Email    string
}
