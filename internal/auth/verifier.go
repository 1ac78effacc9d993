package auth

import (
	"crypto/subtle"
)

// Admin is the single principal allowed to log in. It is read from the
// environment once at startup and never changes afterwards.
type Admin struct {
	Username string
	Password string
}

type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// CredentialsVerifier checks submitted credentials against the configured Admin.
type CredentialsVerifier struct {
	admin Admin
}

func NewCredentialsVerifier(admin Admin) *CredentialsVerifier {
	return &CredentialsVerifier{
		admin: admin,
	}
}

// Verify returns true iff both username and password exactly equal the
// configured ones. Both comparisons always run, in constant time.
func (v *CredentialsVerifier) Verify(username, password string) bool {
	if v.admin.Username == "" || v.admin.Password == "" {
		return false
	}

	usernameOK := subtle.ConstantTimeCompare([]byte(username), []byte(v.admin.Username))
	passwordOK := subtle.ConstantTimeCompare([]byte(password), []byte(v.admin.Password))
	return usernameOK&passwordOK == 1
}

func (v *CredentialsVerifier) VerifyCredentials(credentials Credentials) bool {
	return v.Verify(credentials.Username, credentials.Password)
}
