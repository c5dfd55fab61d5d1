package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/Balraj7906/todo/internal/dto"
	apierrors "github.com/Balraj7906/todo/internal/errors"
	"github.com/Balraj7906/todo/internal/middleware"
	"github.com/Balraj7906/todo/internal/services"
	"github.com/gin-gonic/gin"
)

// TodoHandler coordinates todo-related HTTP handlers. Every route is
// behind the auth middleware, so the user ID is always in context.
type TodoHandler struct {
	todoService *services.TodoService
}

// NewTodoHandler creates a new TodoHandler.
func NewTodoHandler(todoService *services.TodoService) *TodoHandler {
	return &TodoHandler{
		todoService: todoService,
	}
}

// ListTodos returns all todos of the current user, newest first.
func (h *TodoHandler) ListTodos(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	todos, err := h.todoService.List(userID)
	if err != nil {
		respondTodoError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTodoDTOs(todos))
}

// CreateTodo creates a new todo owned by the current user.
func (h *TodoHandler) CreateTodo(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type CreateTodoRequest struct {
		Title       string     `json:"title" binding:"required"`
		Description string     `json:"description"`
		DueDate     *time.Time `json:"dueDate"`
	}

	var req CreateTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequestWithDetails(c, "Invalid request body", err.Error())
		return
	}

	todo, err := h.todoService.Create(services.CreateTodoInput{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		UserID:      userID,
	})
	if err != nil {
		respondTodoError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTodoDTO(*todo))
}

// UpdateTodo applies the provided fields to a todo of the current user.
func (h *TodoHandler) UpdateTodo(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	todoID, ok := todoIDParam(c)
	if !ok {
		return
	}

	type UpdateTodoRequest struct {
		Title       *string    `json:"title"`
		Description *string    `json:"description"`
		Completed   *bool      `json:"completed"`
		DueDate     *time.Time `json:"dueDate"`
	}

	var req UpdateTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequestWithDetails(c, "Invalid request body", err.Error())
		return
	}

	todo, err := h.todoService.Update(userID, todoID, services.UpdateTodoInput{
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed,
		DueDate:     req.DueDate,
	})
	if err != nil {
		respondTodoError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTodoDTO(*todo))
}

// ToggleTodo flips the completed flag of a todo of the current user.
func (h *TodoHandler) ToggleTodo(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	todoID, ok := todoIDParam(c)
	if !ok {
		return
	}

	todo, err := h.todoService.Toggle(userID, todoID)
	if err != nil {
		respondTodoError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTodoDTO(*todo))
}

// DeleteTodo removes a todo of the current user.
func (h *TodoHandler) DeleteTodo(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	todoID, ok := todoIDParam(c)
	if !ok {
		return
	}

	if err := h.todoService.Delete(userID, todoID); err != nil {
		respondTodoError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Todo deleted",
	})
}

// todoIDParam parses the :id route parameter. A malformed ID cannot
// address an existing todo, so it is reported as not found.
func todoIDParam(c *gin.Context) (uint64, bool) {
	todoID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.NotFound(c, "Todo not found")
		return 0, false
	}
	return todoID, true
}

func respondTodoError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTitleRequired), errors.Is(err, services.ErrTitleEmpty):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrTodoNotFound):
		apierrors.NotFound(c, "Todo not found")
	default:
		log.Printf("todos: %v", err)
		apierrors.InternalError(c, "")
	}
}
