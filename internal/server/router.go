package server

import (
	"context"
	"net/http"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/oxagroupe/oxa-crm/auth"
	"github.com/oxagroupe/oxa-crm/httpx"
	"github.com/oxagroupe/oxa-crm/internal/handlers"
	"github.com/oxagroupe/oxa-crm/internal/logging"
	"github.com/oxagroupe/oxa-crm/internal/middleware"
	"github.com/oxagroupe/oxa-crm/internal/models"
	"github.com/oxagroupe/oxa-crm/view"
)

// New constructs the root http.Handler with all routes and middlewares applied.
func New(db *gorm.DB, log *zap.Logger) http.Handler {
	mux := http.NewServeMux()

	// RequireAuth vérifie que le compte existe toujours et reste actif.
	auth.SetUserVerifier(func(_ context.Context, uid uint) bool {
		var count int64
		if err := db.Model(&models.User{}).Where("id = ? AND actif = ?", uid, true).Limit(1).Count(&count).Error; err != nil {
			return false
		}
		return count > 0
	})

	view.SetLangResolver(middleware.LangFrom)
	view.SetThemeResolver(middleware.ThemeFrom)

	protected := func(h http.HandlerFunc) http.Handler {
		return auth.Middleware(auth.RequireAuth(h))
	}
	methods := func(routes map[string]http.HandlerFunc) http.HandlerFunc {
		allow := ""
		for m := range routes {
			if allow != "" {
				allow += ","
			}
			allow += m
		}
		return func(w http.ResponseWriter, r *http.Request) {
			if h, ok := routes[r.Method]; ok {
				h(w, r)
				return
			}
			w.Header().Set("Allow", allow)
			httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		}
	}

	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.Dir("static"))))

	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		if err := db.Exec("SELECT 1").Error; err != nil {
			httpx.JSONError(w, http.StatusServiceUnavailable, "degraded", nil)
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	handlers.NewAuthHandler(db).Register(mux)

	ch := handlers.NewClientHandler(db)
	mux.Handle("/clients", protected(methods(map[string]http.HandlerFunc{
		http.MethodGet:  ch.List,
		http.MethodPost: ch.Create,
	})))
	mux.Handle("/clients/show", protected(ch.Get))
	mux.Handle("/clients/update", protected(ch.Update))
	mux.Handle("/clients/delete", protected(ch.Delete))

	ah := handlers.NewArticleHandler(db)
	mux.Handle("/articles", protected(methods(map[string]http.HandlerFunc{
		http.MethodGet:  ah.List,
		http.MethodPost: ah.Create,
	})))
	mux.Handle("/articles/update", protected(ah.Update))
	mux.Handle("/articles/delete", protected(ah.Delete))

	dh := handlers.NewDevisHandler(db)
	mux.Handle("/devis", protected(methods(map[string]http.HandlerFunc{
		http.MethodGet:  dh.List,
		http.MethodPost: dh.Create,
	})))
	mux.Handle("/devis/show", protected(dh.Get))
	mux.Handle("/devis/update", protected(dh.Update))
	mux.Handle("/devis/delete", protected(dh.Delete))
	mux.Handle("/devis/statut", protected(dh.Statut))
	mux.Handle("/devis/convert", protected(dh.Convert))
	mux.Handle("/devis/history", protected(dh.Historique))
	mux.Handle("/devis/comment", protected(dh.Commenter))
	mux.Handle("/devis/comments", protected(dh.Commentaires))

	ceeh := handlers.NewCEEHandler()
	mux.Handle("/cee/simulate", protected(ceeh.Simulate))

	cmdh := handlers.NewCommandeHandler(db)
	mux.Handle("/commandes", protected(methods(map[string]http.HandlerFunc{
		http.MethodGet:  cmdh.List,
		http.MethodPost: cmdh.Create,
	})))
	mux.Handle("/commandes/show", protected(cmdh.Get))
	mux.Handle("/commandes/update", protected(cmdh.Update))
	mux.Handle("/commandes/statut", protected(cmdh.Statut))
	mux.Handle("/commandes/delete", protected(cmdh.Delete))

	fh := handlers.NewFactureHandler(db)
	mux.Handle("/factures", protected(methods(map[string]http.HandlerFunc{
		http.MethodGet:  fh.List,
		http.MethodPost: fh.Create,
	})))
	mux.Handle("/factures/update", protected(fh.Update))
	mux.Handle("/factures/delete", protected(fh.Delete))
	mux.Handle("/factures/statut", protected(fh.Statut))

	eh := handlers.NewExportHandler(db)
	mux.Handle("/clients/export", protected(eh.Clients))
	mux.Handle("/devis/export", protected(eh.Devis))
	mux.Handle("/devis/pdf", protected(eh.DevisPDF))

	dash := handlers.NewDashboardHandler(db)
	mux.Handle("/dashboard", protected(dash.Show))
	mux.Handle("/", protected(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		dash.Show(w, r)
	}))

	return middleware.Prefs(withRecover(logging.Middleware(log)(mux)))
}

func withRecover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
