package routes

import (
	"net/http"
	"time"

	"github.com/templui/datanexus/internal/app"
	"github.com/templui/datanexus/internal/handler"
	"github.com/templui/datanexus/internal/middleware"
)

func SetupRoutes(app *app.App) http.Handler {
	// Handlers
	health := handler.NewHealthHandler()
	auth := handler.NewAuthHandler(app.AuthService)
	inquiry := handler.NewInquiryHandler(app.InquiryService)
	assistant := handler.NewAssistantHandler(app.AssistantService)
	table := handler.NewTableHandler(app.TableService)
	image := handler.NewImageHandler(app.ImageService, app.Cfg.UploadMaxBytes)
	audit := handler.NewAuditHandler(app.AuditService)

	// Login attempts (rate limited per IP)
	loginLimiter := middleware.NewRateLimiter(app.Cfg.LoginRateLimit, app.Cfg.LoginRateWindow)
	go loginLimiter.Run(5*time.Minute, app.Done())
	rateLimited := func(h http.HandlerFunc) http.Handler {
		return middleware.RateLimit(loginLimiter)(h)
	}

	// Bearer token with admin role
	admin := func(h http.HandlerFunc) http.Handler {
		return middleware.Chain(h, middleware.RequireBearer(app.AuthService), middleware.RequireAdmin)
	}

	mux := http.NewServeMux()

	// ============================================================================
	// PUBLIC ROUTES
	// ============================================================================

	mux.HandleFunc("GET /api/health", health.Health)
	mux.Handle("POST /api/auth/login", rateLimited(auth.Login))
	mux.HandleFunc("POST /api/inquiries", inquiry.Submit)
	mux.HandleFunc("POST /api/assistant/query", assistant.Query)

	// Image files, one directory per category
	for _, category := range app.Catalog.Categories {
		prefix := category.PublicPath() + "/"
		mux.Handle("GET "+prefix, http.StripPrefix(prefix, handler.NewImageFileServer(category.Path)))
	}

	// ============================================================================
	// ADMIN ROUTES (/api/admin/*)
	// ============================================================================

	// Tables
	mux.Handle("GET /api/admin/tables", admin(table.List))
	mux.Handle("GET /api/admin/tables/{tableID}", admin(table.Get))
	mux.Handle("POST /api/admin/tables/{tableID}", admin(table.Create))
	mux.Handle("PUT /api/admin/tables/{tableID}/{recordID}", admin(table.Update))
	mux.Handle("DELETE /api/admin/tables/{tableID}/{recordID}", admin(table.Delete))

	// Images
	mux.Handle("GET /api/admin/images", admin(image.List))
	mux.Handle("POST /api/admin/images", admin(image.Upload))
	mux.Handle("DELETE /api/admin/images/{category}/{filename}", admin(image.Delete))

	// Audit trail
	mux.Handle("GET /api/admin/audit", admin(audit.List))

	// ============================================================================
	// FALLBACK
	// ============================================================================

	// 404
	mux.HandleFunc("/api/", health.NotFound)

	// Global middleware - executed in order (top to bottom)
	handler := middleware.Chain(
		mux,
		middleware.RequestLogging, // Request id + access log, outermost so recovered panics are logged
		middleware.Recover,
		middleware.CORS(app.Cfg.CORSAllowedOrigins),
	)

	return handler
}
