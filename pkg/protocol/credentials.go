// ABOUTME: Session identity shared by the RAC and WRAC clients
// ABOUTME: Password presence, not value, selects the authenticated branch
package protocol

// Credentials identifies the user a client speaks for. Password is
// optional: a nil Password keeps the client on the anonymous RAC
// paths, while a non-nil Password (even an empty one) routes sends
// and registration through the authenticated RACv2 opcodes.
type Credentials struct {
	Username string
	Password *string
}

// Authenticated reports whether a password is configured.
func (c Credentials) Authenticated() bool {
	return c.Password != nil
}

// PasswordValue returns the configured password or "" when absent.
func (c Credentials) PasswordValue() string {
	if c.Password == nil {
		return ""
	}
	return *c.Password
}
