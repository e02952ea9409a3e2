package memory

import (
	"sort"
	"sync"

	"topoplan/internal/domain/auth"
)

// UserRepository is an in-memory implementation of the auth repository
type UserRepository struct {
	mu              sync.RWMutex
	users           map[string]*auth.User // userID -> User
	usersByUsername map[string]*auth.User // username -> User
}

// NewUserRepository creates a new in-memory user repository
func NewUserRepository() *UserRepository {
	return &UserRepository{
		users:           make(map[string]*auth.User),
		usersByUsername: make(map[string]*auth.User),
	}
}

// GetUser retrieves a user by id
func (r *UserRepository) GetUser(userID string) (*auth.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, exists := r.users[userID]
	if !exists {
		return nil, auth.ErrUserNotFound
	}
	return user, nil
}

// GetUserByUsername retrieves a user by username
func (r *UserRepository) GetUserByUsername(username string) (*auth.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, exists := r.usersByUsername[username]
	if !exists {
		return nil, auth.ErrUserNotFound
	}
	return user, nil
}

// CreateUser creates a new user
func (r *UserRepository) CreateUser(user *auth.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.usersByUsername[user.Username]; exists {
		return auth.ErrUserExists
	}
	if _, exists := r.users[user.ID]; exists {
		return auth.ErrUserExists
	}

	r.users[user.ID] = user
	r.usersByUsername[user.Username] = user
	return nil
}

// UpdateUser updates an existing user
func (r *UserRepository) UpdateUser(user *auth.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	old, exists := r.users[user.ID]
	if !exists {
		return auth.ErrUserNotFound
	}

	// Update username index if username changed
	if old.Username != user.Username {
		if _, taken := r.usersByUsername[user.Username]; taken {
			return auth.ErrUserExists
		}
		delete(r.usersByUsername, old.Username)
	}

	r.users[user.ID] = user
	r.usersByUsername[user.Username] = user
	return nil
}

// ListUsers retrieves all users, oldest first
func (r *UserRepository) ListUsers() ([]*auth.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]*auth.User, 0, len(r.users))
	for _, user := range r.users {
		users = append(users, user)
	}
	sort.Slice(users, func(i, j int) bool {
		if !users[i].CreatedAt.Equal(users[j].CreatedAt) {
			return users[i].CreatedAt.Before(users[j].CreatedAt)
		}
		return users[i].ID < users[j].ID
	})
	return users, nil
}

// GetFirstUser returns the oldest user (for initial admin setup)
func (r *UserRepository) GetFirstUser() (*auth.User, error) {
	users, _ := r.ListUsers()
	if len(users) == 0 {
		return nil, auth.ErrNoUsers
	}
	return users[0], nil
}

// Interface compliance assertion
var _ auth.Repository = (*UserRepository)(nil)
