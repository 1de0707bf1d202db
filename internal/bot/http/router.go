package http

import (
	"io"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/fundedhub/backend/internal/auth/session"
	"github.com/fundedhub/backend/internal/bot/domain"
	"github.com/fundedhub/backend/internal/bot/service"
	"github.com/fundedhub/backend/internal/common/config"
	"github.com/fundedhub/backend/internal/common/constants"
	commonhttp "github.com/fundedhub/backend/internal/common/http"
	"github.com/fundedhub/backend/internal/common/logger"
)

type createBotForm struct {
	Name        string `validate:"required,min=1,max=64"`
	Description string `validate:"required,max=512"`
	Tone        string `validate:"required,max=64"`
	Personality string `validate:"required,max=128"`
}

type botResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Tone        string `json:"tone"`
	Personality string `json:"personality"`
}

type updateBotRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=64"`
	Description string `json:"description" validate:"required,max=512"`
	Tone        string `json:"tone" validate:"required,max=64"`
	Personality string `json:"personality" validate:"required,max=128"`
}

type askRequest struct {
	Question string `json:"question" validate:"required,max=2048"`
}

type askResponse struct {
	Answer string `json:"answer"`
}

type Handler struct {
	bots     *service.BotService
	validate *validator.Validate
	log      *logger.Logger
}

func NewHandler(bots *service.BotService, resolver *session.Resolver, cfg config.AppConfig, log *logger.Logger) http.Handler {
	h := &Handler{
		bots:     bots,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		log:      log,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/bots", commonhttp.WithTimeout(cfg.RequestTimeout)(h.collection))
	mux.HandleFunc("/api/bots/", h.byID(cfg))

	return resolver.Middleware(mux)
}

func (h *Handler) collection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.create(w, r)
	case http.MethodGet:
		h.list(w, r)
	default:
		commonhttp.WriteErrorEnvelope(w, http.StatusMethodNotAllowed, commonhttp.CodeMethodNotAllowed, "method not allowed", "")
	}
}

func (h *Handler) byID(cfg config.AppConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rest := strings.TrimPrefix(r.URL.Path, "/api/bots/")
		parts := strings.Split(rest, "/")
		if len(parts) == 0 || parts[0] == "" {
			commonhttp.WriteErrorEnvelope(w, http.StatusBadRequest, commonhttp.CodeInvalidPath, "bot id required", "")
			return
		}
		id := domain.ID(parts[0])

		switch {
		case len(parts) == 1 && r.Method == http.MethodGet:
			commonhttp.WithTimeout(cfg.RequestTimeout)(func(w http.ResponseWriter, r *http.Request) {
				h.get(w, r, id)
			})(w, r)
		case len(parts) == 1 && r.Method == http.MethodPut:
			commonhttp.WithTimeout(cfg.RequestTimeout)(func(w http.ResponseWriter, r *http.Request) {
				h.update(w, r, id)
			})(w, r)
		case len(parts) == 1 && r.Method == http.MethodDelete:
			commonhttp.WithTimeout(cfg.RequestTimeout)(func(w http.ResponseWriter, r *http.Request) {
				h.delete(w, r, id)
			})(w, r)
		case len(parts) == 2 && parts[1] == "ask" && r.Method == http.MethodPost:
			// answer generation can outlive the default request timeout
			h.ask(w, r, id)
		case len(parts) == 2 && parts[1] == "chat" && r.Method == http.MethodGet:
			h.chat(w, r, id)
		default:
			commonhttp.WriteErrorEnvelope(w, http.StatusMethodNotAllowed, commonhttp.CodeMethodNotAllowed, "method not allowed", "")
		}
	}
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	principal, ok := session.PrincipalFromContext(r.Context())
	if !ok {
		commonhttp.WriteErrorEnvelope(w, http.StatusUnauthorized, commonhttp.CodeUnauthorized, "unauthorized", "")
		return
	}

	if err := r.ParseMultipartForm(constants.MaxBotDocumentBytes); err != nil {
		h.log.Warnf("bot create failed: invalid multipart form: %v", err)
		commonhttp.WriteErrorEnvelope(w, http.StatusBadRequest, commonhttp.CodeBadRequest, "invalid form", "")
		return
	}

	form := createBotForm{
		Name:        r.FormValue("name"),
		Description: r.FormValue("description"),
		Tone:        r.FormValue("tone"),
		Personality: r.FormValue("personality"),
	}

	if err := h.validate.Struct(form); err != nil {
		commonhttp.WriteErrorEnvelope(w, http.StatusBadRequest, commonhttp.CodeBadRequest, "missing or invalid bot fields", "")
		return
	}

	file, _, err := r.FormFile("document")
	if err != nil {
		commonhttp.WriteErrorEnvelope(w, http.StatusBadRequest, commonhttp.CodeBadRequest, "knowledge document required", "")
		return
	}
	defer file.Close()

	document, err := io.ReadAll(io.LimitReader(file, constants.MaxBotDocumentBytes))
	if err != nil {
		commonhttp.WriteErrorEnvelope(w, http.StatusBadRequest, commonhttp.CodeBadRequest, "failed to read document", "")
		return
	}

	bot, err := h.bots.Create(r.Context(), service.CreateInput{
		OwnerID:     principal.ID,
		Name:        form.Name,
		Description: form.Description,
		Tone:        form.Tone,
		Personality: form.Personality,
		Document:    string(document),
	})
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	commonhttp.WriteJSON(w, http.StatusCreated, toBotResponse(bot))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	principal, ok := session.PrincipalFromContext(r.Context())
	if !ok {
		commonhttp.WriteErrorEnvelope(w, http.StatusUnauthorized, commonhttp.CodeUnauthorized, "unauthorized", "")
		return
	}

	bots, err := h.bots.ListByOwner(r.Context(), principal.ID)
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	out := make([]botResponse, 0, len(bots))
	for _, bot := range bots {
		out = append(out, toBotResponse(bot))
	}
	commonhttp.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request, id domain.ID) {
	bot, err := h.bots.Get(r.Context(), id)
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}
	commonhttp.WriteJSON(w, http.StatusOK, toBotResponse(bot))
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request, id domain.ID) {
	principal, ok := session.PrincipalFromContext(r.Context())
	if !ok {
		commonhttp.WriteErrorEnvelope(w, http.StatusUnauthorized, commonhttp.CodeUnauthorized, "unauthorized", "")
		return
	}

	var req updateBotRequest
	if err := commonhttp.DecodeJSON(r, &req); err != nil {
		commonhttp.WriteErrorEnvelope(w, http.StatusBadRequest, commonhttp.CodeInvalidJSON, "invalid json", "")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		commonhttp.WriteErrorEnvelope(w, http.StatusBadRequest, commonhttp.CodeBadRequest, "missing or invalid bot fields", "")
		return
	}

	err := h.bots.Update(r.Context(), id, principal.ID, service.UpdateInput{
		Name:        req.Name,
		Description: req.Description,
		Tone:        req.Tone,
		Personality: req.Personality,
	})
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, map[string]string{"message": "Bot updated"})
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request, id domain.ID) {
	principal, ok := session.PrincipalFromContext(r.Context())
	if !ok {
		commonhttp.WriteErrorEnvelope(w, http.StatusUnauthorized, commonhttp.CodeUnauthorized, "unauthorized", "")
		return
	}

	if err := h.bots.Delete(r.Context(), id, principal.ID); err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, map[string]string{"message": "Bot deleted"})
}

func (h *Handler) ask(w http.ResponseWriter, r *http.Request, id domain.ID) {
	var req askRequest
	if err := commonhttp.DecodeJSON(r, &req); err != nil {
		commonhttp.WriteErrorEnvelope(w, http.StatusBadRequest, commonhttp.CodeInvalidJSON, "invalid json", "")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		commonhttp.WriteErrorEnvelope(w, http.StatusBadRequest, commonhttp.CodeBadRequest, "question required", "")
		return
	}

	answer, err := h.bots.Ask(r.Context(), id, req.Question, nil)
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, askResponse{Answer: answer})
}

func toBotResponse(bot domain.Bot) botResponse {
	return botResponse{
		ID:          string(bot.ID),
		Name:        bot.Name,
		Description: bot.Description,
		Tone:        bot.Tone,
		Personality: bot.Personality,
	}
}
