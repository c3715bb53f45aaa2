package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/yusimeilanyy/intern-project/model"
	"github.com/yusimeilanyy/intern-project/service"
)

func newUserRouter(users *service.MemoryUserStore, callerID string) *gin.Engine {
	handler := NewUserHandler(users)

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("user_id", callerID)
	})
	router.GET("/users", handler.List)
	router.POST("/users", handler.Register)
	router.DELETE("/users/:id", handler.Delete)
	return router
}

func TestUserHandlerRegister(t *testing.T) {
	users := service.NewMemoryUserStore()
	router := newUserRouter(users, "admin-id")

	body, _ := json.Marshal(RegisterRequest{
		Username: "sari",
		Email:    "sari@kominfo.go.id",
		FullName: "Sari Wulandari",
		Password: "rahasia123",
		Role:     model.RoleManager,
		TeamID:   2,
	})
	req := httptest.NewRequest("POST", "/users", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", w.Code, w.Body.String())
	}

	created, err := users.FindByCredential(context.Background(), "sari")
	if err != nil {
		t.Fatalf("Expected user to be stored: %v", err)
	}
	if created.Role != model.RoleManager {
		t.Errorf("Expected role manager, got %s", created.Role)
	}
	if !created.IsActive {
		t.Error("Expected new account to be active")
	}
	if created.PasswordHash == "rahasia123" {
		t.Error("Expected password to be hashed, not stored as plain text")
	}
	if bytes.Contains(w.Body.Bytes(), []byte("rahasia123")) {
		t.Error("Expected password to not appear in the response")
	}
}

func TestUserHandlerRegisterValidation(t *testing.T) {
	tests := []struct {
		name           string
		body           RegisterRequest
		expectedStatus int
	}{
		{
			name:           "missing username",
			body:           RegisterRequest{Email: "x@y.id", FullName: "X", Password: "password1"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "invalid email",
			body:           RegisterRequest{Username: "x", Email: "not-an-email", FullName: "X", Password: "password1"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "short password",
			body:           RegisterRequest{Username: "x", Email: "x@y.id", FullName: "X", Password: "short"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "invalid role",
			body:           RegisterRequest{Username: "x", Email: "x@y.id", FullName: "X", Password: "password1", Role: "superuser"},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newUserRouter(service.NewMemoryUserStore(), "admin-id")

			body, _ := json.Marshal(tt.body)
			req := httptest.NewRequest("POST", "/users", bytes.NewBuffer(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, w.Code)
			}
		})
	}
}

func TestUserHandlerRegisterDuplicate(t *testing.T) {
	users := service.NewMemoryUserStore()
	users.Create(context.Background(), &model.User{Username: "sari", Email: "sari@kominfo.go.id"})
	router := newUserRouter(users, "admin-id")

	body, _ := json.Marshal(RegisterRequest{
		Username: "sari",
		Email:    "sari@kominfo.go.id",
		FullName: "Sari",
		Password: "rahasia123",
	})
	req := httptest.NewRequest("POST", "/users", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusConflict {
		t.Errorf("Expected status 409 for duplicate, got %d", w.Code)
	}
}

func TestUserHandlerDelete(t *testing.T) {
	users := service.NewMemoryUserStore()
	users.Create(context.Background(), &model.User{ID: "victim", Username: "victim", Email: "v@y.id"})
	router := newUserRouter(users, "admin-id")

	req := httptest.NewRequest("DELETE", "/users/victim", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	req = httptest.NewRequest("DELETE", "/users/victim", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404 for already-deleted user, got %d", w.Code)
	}
}

func TestUserHandlerDeleteSelf(t *testing.T) {
	users := service.NewMemoryUserStore()
	users.Create(context.Background(), &model.User{ID: "admin-id", Username: "admin", Email: "a@y.id"})
	router := newUserRouter(users, "admin-id")

	req := httptest.NewRequest("DELETE", "/users/admin-id", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 for self delete, got %d", w.Code)
	}
	if _, err := users.FindByID(context.Background(), "admin-id"); err != nil {
		t.Error("Expected account to still exist after refused self delete")
	}
}

func TestUserHandlerList(t *testing.T) {
	users := service.NewMemoryUserStore()
	users.Create(context.Background(), &model.User{Username: "a", Email: "a@y.id"})
	users.Create(context.Background(), &model.User{Username: "b", Email: "b@y.id"})
	router := newUserRouter(users, "admin-id")

	req := httptest.NewRequest("GET", "/users", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var response struct {
		Users []model.User `json:"users"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if len(response.Users) != 2 {
		t.Errorf("Expected 2 users, got %d", len(response.Users))
	}
}
