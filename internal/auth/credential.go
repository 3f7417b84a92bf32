package auth

// Credential is the configured admin secret, held as an argon2id hash.
// It is loaded once at startup and immutable for the process lifetime.
type Credential struct {
	phc string
}

// NewCredential parses and retains an argon2id PHC string. A malformed hash
// is rejected at startup rather than at the first login attempt.
func NewCredential(phc string) (*Credential, error) {
	if _, _, _, err := decodeHash(phc); err != nil {
		return nil, err
	}
	return &Credential{phc: phc}, nil
}

// Validate reports whether the submitted secret matches the credential.
// Fails closed: an empty secret or any verification error is a mismatch.
func (c *Credential) Validate(secret string) bool {
	if secret == "" {
		return false
	}
	ok, err := VerifyPassword(secret, c.phc)
	return err == nil && ok
}
