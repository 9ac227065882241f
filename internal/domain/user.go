package domain

// User is an API account. The API only ever reads users to resolve a bearer
// token; they are created by the bootstrap seed.
type User struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
	Token        string `json:"-"`
}

// NewUser creates a User with the given credentials.
// The ID is left at zero until the store assigns one.
func NewUser(username, passwordHash, token string) (*User, error) {
	user := &User{
		Username:     username,
		PasswordHash: passwordHash,
		Token:        token,
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// Validate checks that all credentials are present.
func (u *User) Validate() error {
	if u.Username == "" {
		return ErrEmptyUsername
	}
	if u.PasswordHash == "" {
		return ErrEmptyPasswordHash
	}
	if u.Token == "" {
		return ErrEmptyToken
	}
	return nil
}
