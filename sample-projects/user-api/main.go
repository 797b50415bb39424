package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"sync"

	jsonschema "github.com/reoring/jsonschema"
)

// User represents a user in our system.
type User struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Age    int    `json:"age"`
	Active bool   `json:"active"`
}

// UserStore is a simple in-memory store.
type UserStore struct {
	mu     sync.RWMutex
	users  map[int]User
	nextID int
}

func NewUserStore() *UserStore {
	return &UserStore{
		users:  make(map[int]User),
		nextID: 1,
	}
}

func (s *UserStore) Create(user User) User {
	s.mu.Lock()
	defer s.mu.Unlock()

	user.ID = s.nextID
	s.nextID++
	s.users[user.ID] = user

	return user
}

func (s *UserStore) GetAll() []User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]User, 0, len(s.users))
	for _, user := range s.users {
		users = append(users, user)
	}
	return users
}

func (s *UserStore) GetByID(id int) (User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, exists := s.users[id]
	return user, exists
}

func (s *UserStore) Update(id int, user User) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[id]; !exists {
		return false
	}

	user.ID = id
	s.users[id] = user
	return true
}

func (s *UserStore) Delete(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[id]; !exists {
		return false
	}

	delete(s.users, id)
	return true
}

// userSchemaDoc is the JSON Schema this API validates create/patch request
// bodies against. age/active carry server-side defaults applied after
// validation, since assigning schema defaults is out of scope for a pure
// validator (see DESIGN.md).
var userSchemaDoc = map[string]any{
	"$schema": "https://json-schema.org/draft/2020-12/schema",
	"type":    "object",
	"properties": map[string]any{
		"name":   map[string]any{"type": "string", "minLength": 1},
		"email":  map[string]any{"type": "string", "format": "email"},
		"age":    map[string]any{"type": "integer", "minimum": 0},
		"active": map[string]any{"type": "boolean"},
	},
	"required":             []any{"name", "email"},
	"additionalProperties": false,
}

// patchSchemaDoc relaxes "required" for PATCH requests, where any subset of
// fields may be present.
var patchSchemaDoc = map[string]any{
	"$schema":              "https://json-schema.org/draft/2020-12/schema",
	"type":                 "object",
	"properties":           userSchemaDoc["properties"],
	"additionalProperties": false,
}

// Server holds our application state.
type Server struct {
	store       *UserStore
	userSchema  *jsonschema.CompiledSchema
	patchSchema *jsonschema.CompiledSchema
}

func NewServer() *Server {
	userSchema, err := jsonschema.CompileSchema(userSchemaDoc)
	if err != nil {
		log.Fatalf("compile user schema: %v", err)
	}
	patchSchema, err := jsonschema.CompileSchema(patchSchemaDoc)
	if err != nil {
		log.Fatalf("compile patch schema: %v", err)
	}

	return &Server{
		store:       NewUserStore(),
		userSchema:  userSchema,
		patchSchema: patchSchema,
	}
}

func (s *Server) handleUsers(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleGetUsers(w, r)
	case http.MethodPost:
		s.handleCreateUser(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleUserByID(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/users/")
	id, err := strconv.Atoi(path)
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusBadRequest)
		return
	}

	switch r.Method {
	case http.MethodGet:
		s.handleGetUser(w, r, id)
	case http.MethodPatch:
		s.handlePatchUser(w, r, id)
	case http.MethodDelete:
		s.handleDeleteUser(w, r, id)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleGetUsers(w http.ResponseWriter, _ *http.Request) {
	users := s.store.GetAll()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"users": users,
		"count": len(users),
	})
}

func (s *Server) handleGetUser(w http.ResponseWriter, _ *http.Request, id int) {
	user, exists := s.store.GetByID(id)
	if !exists {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(user)
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	instance, err := jsonschema.DecodeJSONReader(r.Body)
	if err != nil {
		http.Error(w, fmt.Sprintf("invalid JSON: %v", err), http.StatusBadRequest)
		return
	}

	issues, err := s.userSchema.Validate(instance)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if len(issues) > 0 {
		s.handleValidationError(w, issues)
		return
	}

	user := userFromInstance(instance, User{Age: 18, Active: true})
	createdUser := s.store.Create(user)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(createdUser)
}

func (s *Server) handlePatchUser(w http.ResponseWriter, r *http.Request, id int) {
	existingUser, exists := s.store.GetByID(id)
	if !exists {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}

	instance, err := jsonschema.DecodeJSONReader(r.Body)
	if err != nil {
		http.Error(w, fmt.Sprintf("invalid JSON: %v", err), http.StatusBadRequest)
		return
	}

	issues, err := s.patchSchema.Validate(instance)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if len(issues) > 0 {
		s.handleValidationError(w, issues)
		return
	}

	fields, ok := instance.(map[string]any)
	if !ok {
		http.Error(w, "request body must be a JSON object", http.StatusBadRequest)
		return
	}

	updatedUser := existingUser
	var updated []string
	if v, present := fields["name"]; present {
		updatedUser.Name = v.(string)
		updated = append(updated, "name")
	}
	if v, present := fields["email"]; present {
		updatedUser.Email = v.(string)
		updated = append(updated, "email")
	}
	if v, present := fields["age"]; present {
		updatedUser.Age = intFromAny(v)
		updated = append(updated, "age")
	}
	if v, present := fields["active"]; present {
		updatedUser.Active = v.(bool)
		updated = append(updated, "active")
	}

	s.store.Update(id, updatedUser)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"user":           updatedUser,
		"updated_fields": updated,
	})
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, _ *http.Request, id int) {
	if !s.store.Delete(id) {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSchema(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(userSchemaDoc)
}

func (s *Server) handleValidationError(w http.ResponseWriter, issues jsonschema.Issues) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)

	json.NewEncoder(w).Encode(map[string]any{
		"error":  "Validation failed",
		"issues": issues,
	})
}

// userFromInstance maps a validated JSON object instance onto a User,
// applying defaults for fields absent from the instance.
func userFromInstance(instance any, defaults User) User {
	m, _ := instance.(map[string]any)
	u := defaults
	if v, ok := m["name"].(string); ok {
		u.Name = v
	}
	if v, ok := m["email"].(string); ok {
		u.Email = v
	}
	if v, present := m["age"]; present {
		u.Age = intFromAny(v)
	}
	if v, ok := m["active"].(bool); ok {
		u.Active = v
	}
	return u
}

func intFromAny(v any) int {
	switch n := v.(type) {
	case json.Number:
		i, _ := n.Int64()
		return int(i)
	case float64:
		return int(n)
	case int:
		return n
	default:
		return 0
	}
}

func main() {
	server := NewServer()

	server.store.Create(User{Name: "Taro", Email: "taro@example.com", Age: 30, Active: true})
	server.store.Create(User{Name: "Hanako", Email: "hanako@example.com", Age: 25, Active: true})

	http.HandleFunc("/users", server.handleUsers)
	http.HandleFunc("/users/", server.handleUserByID)
	http.HandleFunc("/schema", server.handleSchema)

	http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	http.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"message": "jsonschema User API Sample",
			"endpoints": map[string]string{
				"GET /users":         "Get all users",
				"POST /users":        "Create a new user",
				"GET /users/{id}":    "Get user by ID",
				"PATCH /users/{id}":  "Partially update user",
				"DELETE /users/{id}": "Delete user",
				"GET /schema":        "Get JSON Schema for User",
				"GET /health":        "Health check",
			},
		})
	})

	log.Println("User API server starting on :8080")
	log.Println("Visit http://localhost:8080 for usage instructions")
	log.Println("Visit http://localhost:8080/schema to see the JSON Schema")

	if err := http.ListenAndServe(":8080", nil); err != nil {
		log.Fatal("Server failed to start:", err)
	}
}
