package auth

// Repository defines the interface for user persistence
type Repository interface {
	// GetUser retrieves a user by id
	GetUser(userID string) (*User, error)

	// GetUserByUsername retrieves a user by their unique username
	GetUserByUsername(username string) (*User, error)

	// CreateUser creates a new user, failing with ErrUserExists on a taken username
	CreateUser(user *User) error

	// UpdateUser updates an existing user
	UpdateUser(user *User) error

	// ListUsers retrieves all users, oldest first
	ListUsers() ([]*User, error)

	// GetFirstUser returns the first user (for initial admin setup)
	GetFirstUser() (*User, error)
}
