package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"github.com/oxagroupe/oxa-crm/auth"
	"github.com/oxagroupe/oxa-crm/httpx"
	"github.com/oxagroupe/oxa-crm/internal/models"
	"github.com/oxagroupe/oxa-crm/view"
)

// Explicit constant for 303 See Other (Post/Redirect/Get)
const statusSeeOther = 303

// renderTemplate uses the shared view.Render to ensure layout, funcs and caching.
func renderTemplate(w http.ResponseWriter, r *http.Request, name string, data map[string]any) {
	if err := view.Render(w, r, name+".html", data); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		if _, werr := w.Write([]byte("template error")); werr != nil {
			_ = werr
		}
	}
}

// currentUser loads the authenticated user from the session context.
func currentUser(db *gorm.DB, r *http.Request) (models.User, bool) {
	uid, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		return models.User{}, false
	}
	var user models.User
	if err := db.First(&user, uid).Error; err != nil {
		return models.User{}, false
	}
	return user, true
}

// queryID parses the id query parameter.
func queryID(r *http.Request) (uint, bool) {
	v := strings.TrimSpace(r.URL.Query().Get("id"))
	if v == "" {
		return 0, false
	}
	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil || n == 0 {
		return 0, false
	}
	return uint(n), true
}

// requireID extracts id or answers 400.
func requireID(w http.ResponseWriter, r *http.Request) (uint, bool) {
	id, ok := queryID(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
	}
	return id, ok
}

func methodNotAllowed(w http.ResponseWriter, allow string) {
	w.Header().Set("Allow", allow)
	httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
}

// pagination reads limit/page query params, capped at 200 per page.
func pagination(r *http.Request) (limit, offset int) {
	limit = 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}
	if v := r.URL.Query().Get("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 1 {
			offset = (n - 1) * limit
		}
	}
	return limit, offset
}
