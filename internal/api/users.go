package api

import (
	"database/sql"
	"fmt"
	"net/http"
	"strconv"

	"golang.org/x/crypto/bcrypt"

	"github.com/erazmer/lekarna/internal/auth"
	"github.com/erazmer/lekarna/internal/model"
	"github.com/erazmer/lekarna/internal/store"
)

// UsersHandler handles pharmacist account management (admin only).
type UsersHandler struct {
	DB *sql.DB
}

type createUserRequest struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      string `json:"role"`
}

type updateUserRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      string `json:"role"`
}

// List handles GET /api/users.
func (h *UsersHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := store.ListUsers(r.Context(), h.DB)
	if err != nil {
		storeError(w, err)
		return
	}
	if users == nil {
		users = []model.User{}
	}
	jsonResponse(w, http.StatusOK, users)
}

// Create handles POST /api/users. The initial password is generated and
// returned once in the response; it cannot be recovered afterwards.
func (h *UsersHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())

	var req createUserRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Email == "" {
		jsonError(w, http.StatusBadRequest, "email required")
		return
	}
	if req.Role == "" {
		req.Role = model.RolePharmacist
	}
	if req.Role != model.RoleAdmin && req.Role != model.RolePharmacist {
		jsonError(w, http.StatusBadRequest, "invalid role")
		return
	}

	existing, err := store.GetUserByEmail(r.Context(), h.DB, req.Email)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if existing != nil && existing.DeletedAt == nil {
		jsonError(w, http.StatusConflict, "email already in use")
		return
	}

	password, err := auth.GeneratePassword(12)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to generate password")
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to hash password")
		return
	}

	user, err := store.CreateUser(r.Context(), h.DB, req.Email, string(hash), req.FirstName, req.LastName, req.Role)
	if err != nil {
		storeError(w, err)
		return
	}

	if !recordAudit(w, r, h.DB, model.AuditEntry{
		EntityType:  model.EntityUser,
		EntityID:    strconv.FormatInt(user.ID, 10),
		Action:      model.ActionCreate,
		Details:     fmt.Sprintf("Created %s account: %s", user.Role, user.Email),
		PerformedBy: claims.Email,
	}) {
		return
	}

	jsonResponse(w, http.StatusCreated, map[string]any{
		"user":             user,
		"initial_password": password,
	})
}

// Get handles GET /api/users/{id}.
func (h *UsersHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	user, err := store.GetUser(r.Context(), h.DB, id)
	if err != nil {
		storeError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, user)
}

// Update handles PUT /api/users/{id}.
func (h *UsersHandler) Update(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	var req updateUserRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Role != model.RoleAdmin && req.Role != model.RolePharmacist {
		jsonError(w, http.StatusBadRequest, "invalid role")
		return
	}

	if err := store.UpdateUser(r.Context(), h.DB, id, req.FirstName, req.LastName, req.Role); err != nil {
		storeError(w, err)
		return
	}

	if !recordAudit(w, r, h.DB, model.AuditEntry{
		EntityType:  model.EntityUser,
		EntityID:    strconv.FormatInt(id, 10),
		Action:      model.ActionUpdate,
		Details:     fmt.Sprintf("Updated account: role %s", req.Role),
		PerformedBy: claims.Email,
	}) {
		return
	}

	user, _ := store.GetUser(r.Context(), h.DB, id)
	jsonResponse(w, http.StatusOK, user)
}

// ResetPassword handles PUT /api/users/{id}/password. Generates a fresh
// password and returns it once.
func (h *UsersHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	password, err := auth.GeneratePassword(12)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to generate password")
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to hash password")
		return
	}

	if err := store.UpdateUserPassword(r.Context(), h.DB, id, string(hash)); err != nil {
		storeError(w, err)
		return
	}

	if !recordAudit(w, r, h.DB, model.AuditEntry{
		EntityType:  model.EntityUser,
		EntityID:    strconv.FormatInt(id, 10),
		Action:      model.ActionUpdate,
		Details:     "Password reset",
		PerformedBy: claims.Email,
	}) {
		return
	}

	jsonResponse(w, http.StatusOK, map[string]string{"password": password})
}

// Delete handles DELETE /api/users/{id}.
func (h *UsersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid user id")
		return
	}
	if id == claims.UserID {
		jsonError(w, http.StatusBadRequest, "cannot delete your own account")
		return
	}

	user, err := store.GetUser(r.Context(), h.DB, id)
	if err != nil {
		storeError(w, err)
		return
	}

	if err := store.DeleteUser(r.Context(), h.DB, id); err != nil {
		storeError(w, err)
		return
	}

	if !recordAudit(w, r, h.DB, model.AuditEntry{
		EntityType:  model.EntityUser,
		EntityID:    strconv.FormatInt(id, 10),
		Action:      model.ActionDelete,
		Details:     fmt.Sprintf("Deleted account: %s", user.Email),
		PerformedBy: claims.Email,
	}) {
		return
	}

	jsonResponse(w, http.StatusOK, map[string]string{"message": "user deleted"})
}
