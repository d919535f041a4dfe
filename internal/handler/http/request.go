package http

import (
	"net/http"
	"strconv"

	"github.com/dayflow-hr/dayflow-backend/internal/handler/http/middleware"
	"github.com/dayflow-hr/dayflow-backend/internal/handler/http/response"
	"github.com/dayflow-hr/dayflow-backend/internal/pkg/jwt"
	"github.com/dayflow-hr/dayflow-backend/internal/pkg/validator"
)

// requireClaims writes 401 and returns false when the request carries no verified claims.
func requireClaims(w http.ResponseWriter, r *http.Request) (jwt.Claims, bool) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return jwt.Claims{}, false
	}
	return claims, true
}

// queryInt parses an optional integer query parameter into errs.
func queryInt(r *http.Request, key string, errs *validator.ValidationErrors) *int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		errs.Add(key, "must be a number")
		return nil
	}
	return &v
}
