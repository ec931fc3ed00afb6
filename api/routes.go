package api

import (
	"net/http"

	"log/slog"

	"github.com/garnizeh/sitecms/internal/assets"
	"github.com/garnizeh/sitecms/internal/auth"
	"github.com/garnizeh/sitecms/internal/config"
	"github.com/garnizeh/sitecms/internal/db"
	"github.com/garnizeh/sitecms/internal/repository/sqlite"
	"github.com/gorilla/mux"
)

func SetupRoutes(cfg *config.Config, version, buildTime string, db *db.DB, catalog *assets.Catalog, initializer Initializer) *mux.Router {
	r := mux.NewRouter()

	// Middleware chain
	r.Use(LoggingMiddleware)
	r.Use(CORSMiddleware)
	r.Use(RecoveryMiddleware)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "Not found")
	})
	// no route registers OPTIONS, so preflight requests land here and CORSMiddleware answers them
	r.MethodNotAllowedHandler = CORSMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}))

	// Repository
	repo := sqlite.New(db, logger.With(slog.String("component", "repository")))

	tokens := auth.NewTokenIssuer(cfg.JWTSecret, cfg.TokenDuration)
	authSvc := auth.NewService(repo, tokens)
	protect := JWTAuthMiddleware(tokens)

	// Create handlers
	systemHandler := NewSystemHandler(initializer)
	authHandler := NewAuthHandler(authSvc)
	productsHandler := NewProductsHandler(repo)
	categoriesHandler := NewCategoriesHandler(repo)
	jobsHandler := NewJobOpeningsHandler(repo)
	translationsHandler := NewTranslationsHandler(repo)
	catalogHandler := NewCatalogHandler(catalog, cfg.MaxUploadBytes)

	// Open endpoints
	r.HandleFunc("/version", systemHandler.VersionHandler(version, buildTime)).Methods("GET")
	r.HandleFunc("/health", systemHandler.HealthHandler).Methods("GET")

	// subrouters do not inherit the root fallbacks
	api := r.PathPrefix("/api").Subrouter()
	api.NotFoundHandler = r.NotFoundHandler
	api.MethodNotAllowedHandler = r.MethodNotAllowedHandler
	api.HandleFunc("/init-db", systemHandler.InitDB).Methods("POST")
	api.HandleFunc("/auth", authHandler.Login).Methods("POST")
	api.Handle("/user", protect(http.HandlerFunc(authHandler.ChangePassword))).Methods("PUT")

	resources := []struct {
		path                        string
		get, create, update, remove http.HandlerFunc
	}{
		{"/products", productsHandler.Get, productsHandler.Create, productsHandler.Update, productsHandler.Delete},
		{"/categories", categoriesHandler.Get, categoriesHandler.Create, categoriesHandler.Update, categoriesHandler.Delete},
		{"/job-openings", jobsHandler.Get, jobsHandler.Create, jobsHandler.Update, jobsHandler.Delete},
	}
	for _, res := range resources {
		// both "/products?id=N" and "/products/N" address a single row
		for _, p := range []string{res.path, res.path + "/{id:[0-9]+}"} {
			api.HandleFunc(p, res.get).Methods("GET")
			api.Handle(p, protect(res.update)).Methods("PUT")
			api.Handle(p, protect(res.remove)).Methods("DELETE")
		}
		api.Handle(res.path, protect(res.create)).Methods("POST")
	}

	api.HandleFunc("/translations", translationsHandler.Get).Methods("GET")
	api.HandleFunc("/translations/locales", translationsHandler.Locales).Methods("GET")
	api.Handle("/translations", protect(http.HandlerFunc(translationsHandler.Put))).Methods("PUT")
	api.Handle("/translations", protect(http.HandlerFunc(translationsHandler.Delete))).Methods("DELETE")

	api.Handle("/catalog/upload", protect(http.HandlerFunc(catalogHandler.Upload))).Methods("POST")
	api.HandleFunc("/catalog/status", catalogHandler.Status).Methods("GET")
	api.HandleFunc("/catalog/download", catalogHandler.Download).Methods("GET")
	api.Handle("/catalog", protect(http.HandlerFunc(catalogHandler.Delete))).Methods("DELETE")

	return r
}
