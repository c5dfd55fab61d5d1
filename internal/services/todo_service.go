package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Balraj7906/todo/internal/models"
	"github.com/Balraj7906/todo/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrTodoNotFound  = errors.New("todo not found")
	ErrTitleRequired = errors.New("title is required")
	ErrTitleEmpty    = errors.New("title cannot be empty")
)

// TodoService handles todo business logic. Every operation is scoped to
// the owning user; a todo owned by someone else is indistinguishable
// from one that does not exist.
type TodoService struct {
	todoRepo repository.TodoRepository
}

// NewTodoService creates a new TodoService.
func NewTodoService(todoRepo repository.TodoRepository) *TodoService {
	return &TodoService{
		todoRepo: todoRepo,
	}
}

// CreateTodoInput represents input for creating a todo.
type CreateTodoInput struct {
	Title       string
	Description string
	DueDate     *time.Time
	UserID      uint64
}

// UpdateTodoInput represents a partial update. Only non-nil fields are
// applied; the rest are left unchanged.
type UpdateTodoInput struct {
	Title       *string
	Description *string
	Completed   *bool
	DueDate     *time.Time
}

// List returns all todos owned by the user, newest first.
func (s *TodoService) List(userID uint64) ([]models.Todo, error) {
	todos, err := s.todoRepo.ListByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list todos: %w", err)
	}

	return todos, nil
}

// Create creates a new todo owned by the user.
func (s *TodoService) Create(input CreateTodoInput) (*models.Todo, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}

	todo := &models.Todo{
		Title:       title,
		Description: input.Description,
		DueDate:     input.DueDate,
		UserID:      input.UserID,
	}

	if err := s.todoRepo.Create(todo); err != nil {
		return nil, fmt.Errorf("failed to create todo: %w", err)
	}

	return todo, nil
}

// Update applies the provided fields to a todo owned by the user.
func (s *TodoService) Update(userID, todoID uint64, input UpdateTodoInput) (*models.Todo, error) {
	todo, err := s.findOwned(userID, todoID)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, ErrTitleEmpty
		}
		todo.Title = title
	}
	if input.Description != nil {
		todo.Description = *input.Description
	}
	if input.Completed != nil {
		todo.Completed = *input.Completed
	}
	if input.DueDate != nil {
		todo.DueDate = input.DueDate
	}

	if err := s.todoRepo.Update(todo); err != nil {
		return nil, fmt.Errorf("failed to update todo: %w", err)
	}

	return todo, nil
}

// Toggle flips the completed flag of a todo owned by the user.
func (s *TodoService) Toggle(userID, todoID uint64) (*models.Todo, error) {
	todo, err := s.findOwned(userID, todoID)
	if err != nil {
		return nil, err
	}

	todo.Completed = !todo.Completed

	if err := s.todoRepo.Update(todo); err != nil {
		return nil, fmt.Errorf("failed to update todo: %w", err)
	}

	return todo, nil
}

// Delete removes a todo owned by the user.
func (s *TodoService) Delete(userID, todoID uint64) error {
	if err := s.todoRepo.DeleteByIDAndUser(todoID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTodoNotFound
		}
		return fmt.Errorf("failed to delete todo: %w", err)
	}

	return nil
}

func (s *TodoService) findOwned(userID, todoID uint64) (*models.Todo, error) {
	todo, err := s.todoRepo.FindByIDAndUser(todoID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTodoNotFound
		}
		return nil, fmt.Errorf("failed to find todo: %w", err)
	}

	return todo, nil
}
