package handler

import (
	"net/http"

	"github.com/koverin/shopstore/internal/service"
)

// RegisterRoutes sets up all HTTP routes on the given mux. Product mutations
// and the current-account endpoint require authentication; browsing and the
// session snapshot are public.
func RegisterRoutes(mux *http.ServeMux, auth *service.AuthService, authH *AuthHandler, productH *ProductHandler, imageH *ImageHandler, watchH *WatchHandler) {
	mux.HandleFunc("GET /healthz", HandleHealthz)

	mux.HandleFunc("POST /api/auth/login", authH.HandleLogin)
	mux.HandleFunc("POST /api/auth/register", authH.HandleRegister)
	mux.HandleFunc("POST /api/auth/logout", authH.HandleLogout)
	mux.Handle("GET /api/auth/me", RequireAuth(auth, http.HandlerFunc(authH.HandleMe)))
	mux.HandleFunc("GET /api/session", authH.HandleSession)

	mux.HandleFunc("GET /api/products", productH.HandleList)
	mux.Handle("POST /api/products", RequireAuth(auth, http.HandlerFunc(productH.HandleCreate)))
	mux.HandleFunc("GET /api/products/facets", productH.HandleFacets)
	mux.HandleFunc("GET /api/products/watch", watchH.HandleWatch)
	mux.HandleFunc("GET /api/products/{sku}", productH.HandleGet)

	mux.HandleFunc("GET /api/images/{id}", imageH.HandleGet)
}
