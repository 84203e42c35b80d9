package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"toolcrib-backend/internal/dispatcher"
	"toolcrib-backend/internal/repository"
	"toolcrib-backend/internal/security"
	"toolcrib-backend/internal/service"
)

// RouterDeps bundles everything the HTTP surface needs.
type RouterDeps struct {
	AuthService         service.AuthService
	ToolService         service.ToolService
	OrderService        service.OrderService
	UsageService        service.UsageService
	DashboardService    service.DashboardService
	NotificationService service.NotificationService
	UserRepo            repository.UserRepository
	Tokens              security.TokenManager
	Hub                 *dispatcher.Hub
	AllowedOrigins      []string
}

func NewRouter(deps RouterDeps) *mux.Router {
	router := mux.NewRouter()
	router.Use(CORSMiddleware(deps.AllowedOrigins))

	authHandler := NewAuthHandler(deps.AuthService)
	toolHandler := NewToolHandler(deps.ToolService)
	orderHandler := NewOrderHandler(deps.OrderService)
	usageHandler := NewUsageHandler(deps.UsageService, deps.DashboardService)
	noteHandler := NewNotificationHandler(deps.NotificationService)
	wsHandler := NewWSHandler(deps.Hub, deps.AllowedOrigins)

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	public := router.PathPrefix("/api/auth").Subrouter()
	public.HandleFunc("/register", authHandler.Register).Methods(http.MethodPost)
	public.HandleFunc("/login", authHandler.Login).Methods(http.MethodPost)
	public.HandleFunc("/companies", authHandler.ListCompanies).Methods(http.MethodGet)
	public.HandleFunc("/supervisors/{company}", authHandler.ListSupervisors).Methods(http.MethodGet)

	auth := NewAuthenticator(deps.Tokens, deps.UserRepo)
	private := router.PathPrefix("/api").Subrouter()
	private.Use(auth.Middleware)

	private.HandleFunc("/auth/me", authHandler.Me).Methods(http.MethodGet)

	private.HandleFunc("/tools", toolHandler.List).Methods(http.MethodGet)
	private.HandleFunc("/tools", toolHandler.Create).Methods(http.MethodPost)
	private.HandleFunc("/tools/{id:[0-9]+}", toolHandler.Get).Methods(http.MethodGet)
	private.HandleFunc("/tools/{id:[0-9]+}", toolHandler.Update).Methods(http.MethodPut)
	private.HandleFunc("/tools/{id:[0-9]+}", toolHandler.Delete).Methods(http.MethodDelete)
	private.HandleFunc("/tools/{id:[0-9]+}/start-usage", toolHandler.StartUsage).Methods(http.MethodPost)
	private.HandleFunc("/tools/{id:[0-9]+}/stop-usage", toolHandler.StopUsage).Methods(http.MethodPost)

	private.HandleFunc("/orders", orderHandler.List).Methods(http.MethodGet)
	private.HandleFunc("/orders", orderHandler.Create).Methods(http.MethodPost)
	private.HandleFunc("/orders/{id:[0-9]+}/status", orderHandler.SetStatus).Methods(http.MethodPut)

	private.HandleFunc("/usage", usageHandler.ListSessions).Methods(http.MethodGet)
	private.HandleFunc("/usage/analytics", usageHandler.Analytics).Methods(http.MethodGet)

	private.HandleFunc("/dashboard/stats", usageHandler.DashboardStats).Methods(http.MethodGet)

	private.HandleFunc("/notifications", noteHandler.List).Methods(http.MethodGet)
	private.HandleFunc("/notifications/{id:[0-9]+}/read", noteHandler.MarkAsRead).Methods(http.MethodPost)

	private.HandleFunc("/ws", wsHandler.Serve).Methods(http.MethodGet)

	return router
}
