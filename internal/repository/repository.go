package repository

import (
	"github.com/Balraj7906/todo/internal/models"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(email string) (*models.User, error)

	// FindByUsernameOrEmail finds a user matching either the username or the email
	FindByUsernameOrEmail(username, email string) (*models.User, error)
}

// TodoRepository defines the interface for todo data access
type TodoRepository interface {
	// Create creates a new todo
	Create(todo *models.Todo) error

	// FindByIDAndUser finds a todo by ID owned by the given user
	FindByIDAndUser(id, userID uint64) (*models.Todo, error)

	// ListByUser retrieves all todos owned by the given user, newest first
	ListByUser(userID uint64) ([]models.Todo, error)

	// Update updates a todo
	Update(todo *models.Todo) error

	// DeleteByIDAndUser soft deletes a todo owned by the given user
	DeleteByIDAndUser(id, userID uint64) error
}
