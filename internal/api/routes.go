package api

import (
	"net/http"

	"genstudio/internal/auth"
	"genstudio/internal/metrics"
	"genstudio/internal/middleware"
)

// Routes registers every API endpoint on mux. Routes other than the template
// catalogue require a bearer token; /api/admin/ also requires admin rights.
func (h *Handler) Routes(mux *http.ServeMux, signingKey string, admins auth.AdminChecker, m *metrics.Metrics) {
	public := func(route string, fn http.HandlerFunc) {
		mux.Handle(route, middleware.CORSMiddleware(m.Instrument(route, fn)))
	}
	private := func(route string, fn http.HandlerFunc) {
		mux.Handle(route, middleware.CORSMiddleware(m.Instrument(route, auth.JWTMiddleware(fn, signingKey))))
	}
	admin := func(route string, fn http.HandlerFunc) {
		mux.Handle(route, middleware.CORSMiddleware(m.Instrument(route, auth.JWTMiddleware(auth.RequireAdmin(fn, admins), signingKey))))
	}

	public("/api/templates", h.TemplatesHandler)
	public("/api/templates/expand", h.ExpandTemplateHandler)
	public("/api/images/models", h.ImageModelsHandler)

	private("/api/generate/text", h.GenerateTextHandler)
	private("/api/generate/image", h.GenerateImageHandler)
	private("/api/history", h.HistoryHandler)
	private("/api/history/summary", h.SummaryHandler)
	private("/api/favorites", h.FavoritesHandler)
	private("/api/users/me", h.ProfileHandler)
	private("/api/users/me/link-telegram", h.GenerateTelegramLinkHandler)

	admin("/api/admin/instructions", h.InstructionsHandler)
	admin("/api/admin/instructions/history", h.InstructionsHistoryHandler)
	admin("/api/admin/instructions/restore", h.RestoreInstructionsHandler)
}
