package api

import (
	"database/sql"
	"net/http"

	"github.com/erazmer/lekarna/internal/model"
)

// NewRouter creates the API router with all endpoints registered.
func NewRouter(db *sql.DB, jwtSecret string) http.Handler {
	mux := http.NewServeMux()

	authHandler := &AuthHandler{DB: db, JWTSecret: jwtSecret}
	usersHandler := &UsersHandler{DB: db}
	productsHandler := &ProductsHandler{DB: db}
	salesHandler := &SalesHandler{DB: db}
	adminHandler := &AdminHandler{DB: db}

	authMW := AuthMiddleware(jwtSecret, db)
	requireAdmin := RequireRole(model.RoleAdmin)

	// Public: login.
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)

	// Authenticated routes.
	mux.Handle("PUT /api/auth/password", authMW(http.HandlerFunc(authHandler.ChangePassword)))
	mux.Handle("POST /api/auth/logout", authMW(http.HandlerFunc(authHandler.Logout)))

	// Users (admin only).
	mux.Handle("GET /api/users", authMW(requireAdmin(http.HandlerFunc(usersHandler.List))))
	mux.Handle("POST /api/users", authMW(requireAdmin(http.HandlerFunc(usersHandler.Create))))
	mux.Handle("GET /api/users/{id}", authMW(requireAdmin(http.HandlerFunc(usersHandler.Get))))
	mux.Handle("PUT /api/users/{id}", authMW(requireAdmin(http.HandlerFunc(usersHandler.Update))))
	mux.Handle("PUT /api/users/{id}/password", authMW(requireAdmin(http.HandlerFunc(usersHandler.ResetPassword))))
	mux.Handle("DELETE /api/users/{id}", authMW(requireAdmin(http.HandlerFunc(usersHandler.Delete))))

	// Products: read (all roles), write (admin only).
	mux.Handle("GET /api/products", authMW(http.HandlerFunc(productsHandler.List)))
	mux.Handle("POST /api/products", authMW(requireAdmin(http.HandlerFunc(productsHandler.Create))))
	mux.Handle("GET /api/products/categories", authMW(http.HandlerFunc(productsHandler.Categories)))
	mux.Handle("GET /api/products/{id}", authMW(http.HandlerFunc(productsHandler.Get)))
	mux.Handle("PUT /api/products/{id}", authMW(requireAdmin(http.HandlerFunc(productsHandler.Update))))
	mux.Handle("DELETE /api/products/{id}", authMW(requireAdmin(http.HandlerFunc(productsHandler.Delete))))
	mux.Handle("PATCH /api/products/{id}/stock", authMW(requireAdmin(http.HandlerFunc(productsHandler.UpdateStock))))
	mux.Handle("PUT /api/products/{id}/image", authMW(requireAdmin(http.HandlerFunc(productsHandler.UploadImage))))
	mux.Handle("GET /api/products/{id}/image", authMW(http.HandlerFunc(productsHandler.GetImage)))

	// Sales (all roles).
	mux.Handle("POST /api/sales", authMW(http.HandlerFunc(salesHandler.Create)))
	mux.Handle("POST /api/sales/draft", authMW(http.HandlerFunc(salesHandler.Draft)))
	mux.Handle("GET /api/sales", authMW(http.HandlerFunc(salesHandler.List)))
	mux.Handle("GET /api/sales/{id}", authMW(http.HandlerFunc(salesHandler.Get)))
	mux.Handle("GET /api/sales/{id}/receipt", authMW(http.HandlerFunc(salesHandler.Receipt)))

	// Admin: audit trail and settings.
	mux.Handle("GET /api/admin/audit", authMW(requireAdmin(http.HandlerFunc(adminHandler.AuditLog))))
	mux.Handle("GET /api/admin/settings/low-stock-threshold", authMW(requireAdmin(http.HandlerFunc(adminHandler.GetThreshold))))
	mux.Handle("PUT /api/admin/settings/low-stock-threshold", authMW(requireAdmin(http.HandlerFunc(adminHandler.SetThreshold))))

	return mux
}
