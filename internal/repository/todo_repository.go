package repository

import (
	"github.com/Balraj7906/todo/internal/models"
	"gorm.io/gorm"
)

// GormTodoRepository is a GORM implementation of TodoRepository
type GormTodoRepository struct {
	db *gorm.DB
}

// NewTodoRepository creates a new TodoRepository
func NewTodoRepository(db *gorm.DB) TodoRepository {
	return &GormTodoRepository{db: db}
}

// Create creates a new todo
func (r *GormTodoRepository) Create(todo *models.Todo) error {
	return r.db.Create(todo).Error
}

// FindByIDAndUser finds a todo by ID owned by the given user
func (r *GormTodoRepository) FindByIDAndUser(id, userID uint64) (*models.Todo, error) {
	var todo models.Todo
	if err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&todo).Error; err != nil {
		return nil, err
	}
	return &todo, nil
}

// ListByUser retrieves all todos owned by the given user, newest first
func (r *GormTodoRepository) ListByUser(userID uint64) ([]models.Todo, error) {
	todos := []models.Todo{}
	if err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&todos).Error; err != nil {
		return nil, err
	}
	return todos, nil
}

// Update updates a todo
func (r *GormTodoRepository) Update(todo *models.Todo) error {
	return r.db.Save(todo).Error
}

// DeleteByIDAndUser soft deletes a todo owned by the given user
func (r *GormTodoRepository) DeleteByIDAndUser(id, userID uint64) error {
	result := r.db.Where("id = ? AND user_id = ?", id, userID).Delete(&models.Todo{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
