package domain

import "time"

// Claim is the identity carried inside a local token. It is rebuilt on every
// verification and never persisted.
type Claim struct {
	SubjectID   string `json:"uid"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName,omitempty"`
	AvatarURI   string `json:"photoURL,omitempty"`
}

// ExternalIdentity is what an external identity provider vouches for
type ExternalIdentity struct {
	SubjectID     string
	Email         string
	EmailVerified bool
	Name          string
	Picture       string
	Provider      string
}

// Claim maps provider field names onto the local claim shape
func (e *ExternalIdentity) Claim() Claim {
	return Claim{
		SubjectID:   e.SubjectID,
		Email:       e.Email,
		DisplayName: e.Name,
		AvatarURI:   e.Picture,
	}
}

// IssuedToken is a signed local token and its expiry
type IssuedToken struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// LoginRequest represents the body of POST /auth/firebase-login
type LoginRequest struct {
	IDToken string `json:"idToken"`
}
