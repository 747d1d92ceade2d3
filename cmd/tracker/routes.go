package main

import (
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"production-tracker/http-server/auth/login"
	"production-tracker/http-server/auth/logout"
	"production-tracker/http-server/auth/me"
	"production-tracker/http-server/auth/register"
	getdashboard "production-tracker/http-server/dashboard/get"
	getrecords "production-tracker/http-server/records/get"
	removerecord "production-tracker/http-server/records/remove"
	saverecord "production-tracker/http-server/records/save"
	updaterecord "production-tracker/http-server/records/update"
	getreference "production-tracker/http-server/reference/get"
	"production-tracker/http-server/report/export"
	"production-tracker/http-server/stream"
	getusers "production-tracker/http-server/users/get"
	"production-tracker/http-server/users/bulk"
	removeuser "production-tracker/http-server/users/remove"
	updateuser "production-tracker/http-server/users/update"
	"production-tracker/internal/config"
	"production-tracker/internal/identity"
	"production-tracker/internal/live"
	"production-tracker/internal/middleware/auth"
	"production-tracker/internal/service/records"
	"production-tracker/internal/service/reference"
	"production-tracker/internal/service/report"
	"production-tracker/internal/service/users"
)

type app struct {
	cfg *config.Config
	log *slog.Logger
	loc *time.Location
	hub *live.Hub

	sessions  *identity.Sessions
	provider  *identity.Provider
	resolver  *identity.Resolver
	reference *reference.Loader
	records   *records.Service
	users     *users.Service
	report    *report.Service
}

func (a *app) routes() *chi.Mux {
	log := a.log
	router := chi.NewRouter()

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   a.cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	router.Use(corsHandler.Handler)
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	// static assets skip the identity lookup
	resolve := auth.Resolve(a.resolver, a.sessions)
	gate := auth.NewChecker(a.resolver, a.sessions)

	router.Route("/api", func(r chi.Router) {
		r.Use(resolve)

		r.Post("/auth/register", register.Register(log, a.provider, a.sessions))
		r.Post("/auth/login", login.Login(log, a.provider, a.sessions))
		r.Post("/auth/logout", logout.Logout(log, a.provider, a.sessions))
		r.Get("/auth/me", me.Me())

		r.Group(func(r chi.Router) {
			r.Use(auth.API(auth.Signed))

			r.Get("/reference", getreference.GetAllReference(log, a.reference))
			r.Get("/reference/{kind}", getreference.GetReference(log, a.reference))

			r.Get("/records", getrecords.GetRecords(log, a.records))
			r.Post("/records", saverecord.SaveRecord(log, a.records))
			r.Get("/records/stream", stream.Records(log, a.hub, gate, auth.Signed))
			r.Get("/records/{id}", getrecords.GetRecord(log, a.records))

			r.Get("/dashboard", getdashboard.GetDashboard(log, a.records, a.loc))
			r.Get("/dashboard/stream", stream.Dashboard(log, a.hub, gate, auth.Signed))

			r.Get("/report/{format}", export.ExportRecords(log, a.records, a.report))
		})

		r.Group(func(r chi.Router) {
			r.Use(auth.API(auth.Staff))

			r.Put("/records/{id}", updaterecord.UpdateRecord(log, a.records))
			r.Delete("/records/{id}", removerecord.DeleteRecord(log, a.records))

			r.Get("/users", getusers.GetUsers(log, a.users))
			r.Post("/users/bulk/role", bulk.BulkRole(log, a.users))
			r.Post("/users/bulk/delete", bulk.BulkDelete(log, a.users))
			r.Put("/users/{uid}/role", updateuser.UpdateRole(log, a.users))
			r.Put("/users/{uid}/active", updateuser.UpdateActive(log, a.users))
			r.Delete("/users/{uid}", removeuser.DeleteUser(log, a.users))
		})
	})

	frontendDir := a.cfg.FrontendDir
	if _, err := os.Stat(frontendDir); os.IsNotExist(err) {
		log.Warn("frontend directory not found, serving the API only", slog.String("path", frontendDir))
		return router
	}

	fileServer := http.FileServer(http.Dir(frontendDir))
	router.Handle("/assets/*", fileServer)
	router.Handle("/favicon.ico", fileServer)

	index := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, filepath.Join(frontendDir, "index.html"))
	})

	pages := map[string]auth.Rule{
		"/login":             auth.Public,
		"/register":          auth.Public,
		"/":                  auth.Signed,
		"/dashboard":         auth.Signed,
		"/records":           auth.Signed,
		"/add-record":        auth.Signed,
		"/records/{id}/edit": auth.Signed,
		"/edit/{id}":         auth.StaffOnly,
		"/settings":          auth.Staff,
	}
	for path, rule := range pages {
		router.With(resolve, auth.Page(rule)).Get(path, index)
	}

	// unknown paths fall back to the landing page the way the client router does
	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/api/") {
			http.NotFound(w, r)
			return
		}
		http.Redirect(w, r, auth.LandingPath, http.StatusFound)
	})

	return router
}
