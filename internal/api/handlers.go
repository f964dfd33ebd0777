package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"genstudio/internal/auth"
	"genstudio/internal/generation"
	"genstudio/internal/history"
	"genstudio/internal/images"
	"genstudio/internal/instructions"
	"genstudio/internal/prompts"
	"genstudio/internal/users"

	"github.com/sirupsen/logrus"
)

// CredentialHeader carries the caller's own Gemini API key.
const CredentialHeader = "X-Gemini-Api-Key"

type TextGenerator interface {
	GenerateText(ctx context.Context, sess generation.Session, req generation.Request) (generation.Outcome, error)
}

type ImageGenerator interface {
	Generate(ctx context.Context, userID string, req images.Request) (images.Image, error)
}

type HistoryService interface {
	Recent(ctx context.Context, userID string, t history.Type, limit int) ([]history.Record, error)
	Summaries(ctx context.Context, userID string) ([]history.Summary, error)
	SaveFavorite(ctx context.Context, userID string, r history.Result) (history.Record, error)
}

type InstructionsService interface {
	Load(ctx context.Context) (instructions.Instructions, error)
	Save(ctx context.Context, ins instructions.Instructions, updatedBy string) (instructions.Instructions, error)
	Revisions(ctx context.Context, limit int) ([]instructions.Revision, error)
	Restore(ctx context.Context, revisionID, updatedBy string) (instructions.Instructions, error)
}

type ProfileService interface {
	EnsureProfile(ctx context.Context, userID string, email *string) (*users.Profile, error)
}

type LinkTokenIssuer interface {
	GenerateLinkToken(userID string) (string, error)
}

type Handler struct {
	text              TextGenerator
	images            ImageGenerator
	history           HistoryService
	instructions      InstructionsService
	profiles          ProfileService
	linking           LinkTokenIssuer
	defaultCredential string
	telegramBotName   string
}

func NewHandler(
	text TextGenerator,
	img ImageGenerator,
	hist HistoryService,
	ins InstructionsService,
	profiles ProfileService,
	linkService LinkTokenIssuer,
	defaultCredential string,
	tgBotName string,
) *Handler {
	return &Handler{
		text:              text,
		images:            img,
		history:           hist,
		instructions:      ins,
		profiles:          profiles,
		linking:           linkService,
		defaultCredential: defaultCredential,
		telegramBotName:   tgBotName,
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logrus.Errorf("Failed to encode response: %v", err)
	}
}

func requireMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method != method {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return false
	}
	return true
}

func userID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
	}
	return id, ok
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func (h *Handler) credential(r *http.Request) string {
	if key := r.Header.Get(CredentialHeader); key != "" {
		return key
	}
	return h.defaultCredential
}

func (h *Handler) GenerateTextHandler(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	uid, ok := userID(w, r)
	if !ok {
		return
	}

	var req generation.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	out, err := h.text.GenerateText(r.Context(), generation.Session{UserID: uid, Credential: h.credential(r)}, req)
	if err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, generation.ErrEmptyPrompt) || errors.Is(err, generation.ErrMissingCredential) {
			status = http.StatusBadRequest
		}
		writeJSON(w, status, ErrorResponse{Error: generation.UserMessage(err)})
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) GenerateImageHandler(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	uid, ok := userID(w, r)
	if !ok {
		return
	}

	var req images.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	img, err := h.images.Generate(r.Context(), uid, req)
	switch {
	case errors.Is(err, images.ErrEmptyPrompt):
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Please enter an image prompt"})
	case errors.Is(err, images.ErrUnknownModel):
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Unknown image model"})
	case err != nil:
		writeJSON(w, http.StatusBadGateway, ErrorResponse{Error: "Failed to generate image. Please try again with a different prompt."})
	default:
		writeJSON(w, http.StatusOK, img)
	}
}

func (h *Handler) ImageModelsHandler(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	writeJSON(w, http.StatusOK, images.Models())
}

func (h *Handler) TemplatesHandler(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	writeJSON(w, http.StatusOK, prompts.Templates())
}

type ExpandTemplateRequest struct {
	Template string         `json:"template"`
	Values   prompts.Values `json:"values"`
}

type ExpandTemplateResponse struct {
	Prompt string `json:"prompt"`
}

func (h *Handler) ExpandTemplateHandler(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	var req ExpandTemplateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	prompt, err := prompts.Expand(req.Template, req.Values)
	if err != nil {
		http.Error(w, fmt.Sprintf("Unknown template %q", req.Template), http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, ExpandTemplateResponse{Prompt: prompt})
}

func (h *Handler) HistoryHandler(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	uid, ok := userID(w, r)
	if !ok {
		return
	}

	t := history.Type(r.URL.Query().Get("type"))
	if t == "" {
		t = history.TypeText
	}

	recs, err := h.history.Recent(r.Context(), uid, t, 0)
	if err != nil {
		if errors.Is(err, history.ErrInvalidType) {
			http.Error(w, "type must be text or image", http.StatusBadRequest)
			return
		}
		logrus.Errorf("Failed to load history for user %s: %v", uid, err)
		http.Error(w, "Failed to load history", http.StatusInternalServerError)
		return
	}
	if recs == nil {
		recs = []history.Record{}
	}
	writeJSON(w, http.StatusOK, recs)
}

func (h *Handler) SummaryHandler(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	uid, ok := userID(w, r)
	if !ok {
		return
	}

	sums, err := h.history.Summaries(r.Context(), uid)
	if err != nil {
		logrus.Errorf("Failed to load summaries for user %s: %v", uid, err)
		http.Error(w, "Failed to load history", http.StatusInternalServerError)
		return
	}
	if sums == nil {
		sums = []history.Summary{}
	}
	writeJSON(w, http.StatusOK, sums)
}

type FavoriteRequest struct {
	Type   history.Type `json:"type"`
	Prompt string       `json:"prompt"`
	Result string       `json:"result"`
	Model  string       `json:"model,omitempty"`
}

func (h *Handler) FavoritesHandler(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	uid, ok := userID(w, r)
	if !ok {
		return
	}

	var req FavoriteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Result == "" {
		http.Error(w, "Nothing to save", http.StatusBadRequest)
		return
	}

	rec, err := h.history.SaveFavorite(r.Context(), uid, history.Result{
		Type:   req.Type,
		Prompt: req.Prompt,
		Result: req.Result,
		Model:  req.Model,
	})
	if err != nil {
		if errors.Is(err, history.ErrInvalidType) {
			http.Error(w, "type must be text or image", http.StatusBadRequest)
			return
		}
		http.Error(w, "Failed to save to favorites", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

type ProfileRequest struct {
	Email *string `json:"email,omitempty"`
}

// ProfileHandler returns the caller's profile, creating it on first call.
// POST may carry the email to store.
func (h *Handler) ProfileHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	uid, ok := userID(w, r)
	if !ok {
		return
	}

	var req ProfileRequest
	if r.Method == http.MethodPost {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
	}

	p, err := h.profiles.EnsureProfile(r.Context(), uid, req.Email)
	if err != nil {
		http.Error(w, "Failed to load profile", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

type GenerateTelegramLinkResponse struct {
	Link string `json:"link"`
}

func (h *Handler) GenerateTelegramLinkHandler(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	uid, ok := userID(w, r)
	if !ok {
		return
	}

	if h.telegramBotName == "" {
		logrus.Error("Telegram bot name is not configured")
		http.Error(w, "Telegram linking is unavailable", http.StatusServiceUnavailable)
		return
	}

	token, err := h.linking.GenerateLinkToken(uid)
	if err != nil {
		logrus.Errorf("Failed to generate link token for user %s: %v", uid, err)
		http.Error(w, "Failed to generate link", http.StatusInternalServerError)
		return
	}

	link := fmt.Sprintf("https://t.me/%s?start=%s", h.telegramBotName, token)
	writeJSON(w, http.StatusOK, GenerateTelegramLinkResponse{Link: link})
}
