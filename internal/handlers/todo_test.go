package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Balraj7906/todo/internal/dto"
	"github.com/Balraj7906/todo/internal/middleware"
	"github.com/Balraj7906/todo/internal/models"
	"github.com/Balraj7906/todo/internal/repository"
	"github.com/Balraj7906/todo/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// TodoHandlerTestSuite defines the test suite for TodoHandler
type TodoHandlerTestSuite struct {
	suite.Suite
	db           *gorm.DB
	router       *gin.Engine
	authService  *services.AuthService
	tokenService *services.TokenService
}

// SetupTest runs before each test
func (suite *TodoHandlerTestSuite) SetupTest() {
	var err error

	// Create in-memory SQLite database
	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	// Run migrations
	err = suite.db.AutoMigrate(
		&models.User{},
		&models.Todo{},
	)
	suite.Require().NoError(err)

	userRepo := repository.NewUserRepository(suite.db)
	todoRepo := repository.NewTodoRepository(suite.db)

	suite.authService = services.NewAuthService(userRepo)
	suite.tokenService = services.NewTokenService("test-secret")
	todoService := services.NewTodoService(todoRepo)
	handler := NewTodoHandler(todoService)

	// Set Gin to test mode
	gin.SetMode(gin.TestMode)

	// Build the router with the real auth middleware in front
	suite.router = gin.New()
	todos := suite.router.Group("/api/todos")
	todos.Use(middleware.RequireAuth(suite.tokenService))
	{
		todos.GET("", handler.ListTodos)
		todos.POST("", handler.CreateTodo)
		todos.PUT("/:id", handler.UpdateTodo)
		todos.PATCH("/:id/toggle", handler.ToggleTodo)
		todos.DELETE("/:id", handler.DeleteTodo)
	}
}

// TearDownTest runs after each test
func (suite *TodoHandlerTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

// Helper to create a registered user and a valid bearer token for it
func (suite *TodoHandlerTestSuite) createTestUser(username, email string) (*models.User, string) {
	user, err := suite.authService.Register(services.RegisterInput{
		Username: username,
		Email:    email,
		Password: "supersecret",
	})
	suite.Require().NoError(err)

	token, err := suite.tokenService.Issue(user.ID)
	suite.Require().NoError(err)

	return user, token
}

// Helper to seed a todo directly with a fixed creation time
func (suite *TodoHandlerTestSuite) createTestTodo(title string, userID uint64, createdAt time.Time) *models.Todo {
	todo := &models.Todo{
		Title:     title,
		UserID:    userID,
		CreatedAt: createdAt,
	}
	suite.Require().NoError(suite.db.Create(todo).Error)
	return todo
}

// Helper to perform an authenticated request
func (suite *TodoHandlerTestSuite) request(method, url, token string, payload interface{}) *httptest.ResponseRecorder {
	var req *http.Request
	if payload != nil {
		body, err := json.Marshal(payload)
		suite.Require().NoError(err)
		req = httptest.NewRequest(method, url, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, url, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *TodoHandlerTestSuite) TestRequiresBearerToken() {
	w := suite.request(http.MethodGet, "/api/todos", "", nil)
	suite.Equal(http.StatusUnauthorized, w.Code)

	w = suite.request(http.MethodGet, "/api/todos", "garbage-token", nil)
	suite.Equal(http.StatusUnauthorized, w.Code)
}

func (suite *TodoHandlerTestSuite) TestCreateTodo() {
	_, token := suite.createTestUser("alice", "alice@x.com")

	due := time.Date(2026, 9, 15, 12, 0, 0, 0, time.UTC)
	w := suite.request(http.MethodPost, "/api/todos", token, map[string]interface{}{
		"title":       "buy milk",
		"description": "two liters",
		"dueDate":     due.Format(time.RFC3339),
	})
	suite.Equal(http.StatusCreated, w.Code)

	var todo dto.TodoDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &todo))
	suite.Equal("buy milk", todo.Title)
	suite.Equal("two liters", todo.Description)
	suite.False(todo.Completed)
	suite.Require().NotNil(todo.DueDate)
	suite.True(due.Equal(*todo.DueDate))
}

func (suite *TodoHandlerTestSuite) TestCreateTodoValidation() {
	_, token := suite.createTestUser("alice", "alice@x.com")

	// Missing title
	w := suite.request(http.MethodPost, "/api/todos", token, map[string]interface{}{
		"description": "no title",
	})
	suite.Equal(http.StatusBadRequest, w.Code)

	// Unparseable due date
	w = suite.request(http.MethodPost, "/api/todos", token, map[string]interface{}{
		"title":   "buy milk",
		"dueDate": "not-a-date",
	})
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *TodoHandlerTestSuite) TestListTodosNewestFirst() {
	user, token := suite.createTestUser("alice", "alice@x.com")

	base := time.Now().Add(-time.Hour)
	suite.createTestTodo("first", user.ID, base)
	suite.createTestTodo("second", user.ID, base.Add(time.Minute))

	w := suite.request(http.MethodGet, "/api/todos", token, nil)
	suite.Equal(http.StatusOK, w.Code)

	var todos []dto.TodoDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &todos))
	suite.Require().Len(todos, 2)
	suite.Equal("second", todos[0].Title)
	suite.Equal("first", todos[1].Title)
}

func (suite *TodoHandlerTestSuite) TestListTodosEmpty() {
	_, token := suite.createTestUser("alice", "alice@x.com")

	w := suite.request(http.MethodGet, "/api/todos", token, nil)
	suite.Equal(http.StatusOK, w.Code)
	suite.Equal("[]", w.Body.String())
}

func (suite *TodoHandlerTestSuite) TestUpdateTodoPartial() {
	user, token := suite.createTestUser("alice", "alice@x.com")
	todo := suite.createTestTodo("buy milk", user.ID, time.Now())

	w := suite.request(http.MethodPut, fmt.Sprintf("/api/todos/%d", todo.ID), token, map[string]interface{}{
		"completed": true,
	})
	suite.Equal(http.StatusOK, w.Code)

	var updated dto.TodoDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &updated))
	suite.True(updated.Completed)
	suite.Equal("buy milk", updated.Title)

	// Empty update leaves everything unchanged
	w = suite.request(http.MethodPut, fmt.Sprintf("/api/todos/%d", todo.ID), token, map[string]interface{}{})
	suite.Equal(http.StatusOK, w.Code)

	var unchanged dto.TodoDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &unchanged))
	suite.Equal(updated.Title, unchanged.Title)
	suite.Equal(updated.Completed, unchanged.Completed)

	// An explicitly empty title is rejected
	w = suite.request(http.MethodPut, fmt.Sprintf("/api/todos/%d", todo.ID), token, map[string]interface{}{
		"title": "",
	})
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *TodoHandlerTestSuite) TestToggleTodoTwice() {
	user, token := suite.createTestUser("alice", "alice@x.com")
	todo := suite.createTestTodo("buy milk", user.ID, time.Now())

	w := suite.request(http.MethodPatch, fmt.Sprintf("/api/todos/%d/toggle", todo.ID), token, nil)
	suite.Equal(http.StatusOK, w.Code)

	var toggled dto.TodoDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &toggled))
	suite.True(toggled.Completed)

	w = suite.request(http.MethodPatch, fmt.Sprintf("/api/todos/%d/toggle", todo.ID), token, nil)
	suite.Equal(http.StatusOK, w.Code)

	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &toggled))
	suite.False(toggled.Completed)
}

func (suite *TodoHandlerTestSuite) TestDeleteTodo() {
	user, token := suite.createTestUser("alice", "alice@x.com")
	todo := suite.createTestTodo("buy milk", user.ID, time.Now())

	w := suite.request(http.MethodDelete, fmt.Sprintf("/api/todos/%d", todo.ID), token, nil)
	suite.Equal(http.StatusOK, w.Code)
	suite.Contains(w.Body.String(), "Todo deleted")

	// The deleted todo is gone on every path
	w = suite.request(http.MethodPatch, fmt.Sprintf("/api/todos/%d/toggle", todo.ID), token, nil)
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *TodoHandlerTestSuite) TestOwnershipIsolation() {
	alice, _ := suite.createTestUser("alice", "alice@x.com")
	_, bobToken := suite.createTestUser("bob", "bob@x.com")
	todo := suite.createTestTodo("alice's todo", alice.ID, time.Now())

	w := suite.request(http.MethodPut, fmt.Sprintf("/api/todos/%d", todo.ID), bobToken, map[string]interface{}{
		"title": "hijacked",
	})
	suite.Equal(http.StatusNotFound, w.Code)

	w = suite.request(http.MethodPatch, fmt.Sprintf("/api/todos/%d/toggle", todo.ID), bobToken, nil)
	suite.Equal(http.StatusNotFound, w.Code)

	w = suite.request(http.MethodDelete, fmt.Sprintf("/api/todos/%d", todo.ID), bobToken, nil)
	suite.Equal(http.StatusNotFound, w.Code)

	// Bob's list does not include Alice's todo
	w = suite.request(http.MethodGet, "/api/todos", bobToken, nil)
	suite.Equal(http.StatusOK, w.Code)
	suite.Equal("[]", w.Body.String())
}

func (suite *TodoHandlerTestSuite) TestMalformedID() {
	_, token := suite.createTestUser("alice", "alice@x.com")

	w := suite.request(http.MethodPatch, "/api/todos/abc/toggle", token, nil)
	suite.Equal(http.StatusNotFound, w.Code)
}

func TestTodoHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(TodoHandlerTestSuite))
}
