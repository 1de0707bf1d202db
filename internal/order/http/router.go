package http

import (
	"io"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/fundedhub/backend/internal/auth/session"
	"github.com/fundedhub/backend/internal/common/config"
	"github.com/fundedhub/backend/internal/common/constants"
	commonhttp "github.com/fundedhub/backend/internal/common/http"
	"github.com/fundedhub/backend/internal/common/logger"
	"github.com/fundedhub/backend/internal/order/domain"
	"github.com/fundedhub/backend/internal/order/service"
)

type createOrderForm struct {
	Username      string `validate:"required,min=3,max=32"`
	Email         string `validate:"required,email"`
	ChallengeType string `validate:"required,max=64"`
	AccountSize   string `validate:"required,max=32"`
	Platform      string `validate:"required,max=32"`
	PaymentMethod string `validate:"required,max=64"`
	TxID          string `validate:"required,max=128"`
}

type createOrderResponse struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

type orderResponse struct {
	ID            string `json:"id"`
	Username      string `json:"username"`
	Email         string `json:"email"`
	ChallengeType string `json:"challenge_type"`
	AccountSize   string `json:"account_size"`
	Platform      string `json:"platform"`
	PaymentMethod string `json:"payment_method"`
	TxID          string `json:"txid"`
	Status        string `json:"status"`
}

type updateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type Handler struct {
	orders   *service.OrderService
	validate *validator.Validate
	log      *logger.Logger
}

func NewHandler(orders *service.OrderService, resolver *session.Resolver, cfg config.AppConfig, log *logger.Logger) http.Handler {
	h := &Handler{
		orders:   orders,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		log:      log,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/orders",
		commonhttp.RequireMethod(http.MethodPost)(commonhttp.WithTimeout(cfg.RequestTimeout)(h.create)))
	mux.HandleFunc("/api/orders/", commonhttp.WithTimeout(cfg.RequestTimeout)(h.byID))

	return resolver.Middleware(mux)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(constants.MaxPaymentProofBytes); err != nil {
		h.log.Warnf("order create failed: invalid multipart form: %v", err)
		commonhttp.WriteErrorEnvelope(w, http.StatusBadRequest, commonhttp.CodeBadRequest, "invalid form", "")
		return
	}

	form := createOrderForm{
		Username:      r.FormValue("username"),
		Email:         r.FormValue("email"),
		ChallengeType: r.FormValue("challenge_type"),
		AccountSize:   r.FormValue("account_size"),
		Platform:      r.FormValue("platform"),
		PaymentMethod: r.FormValue("payment_method"),
		TxID:          r.FormValue("txid"),
	}

	if err := h.validate.Struct(form); err != nil {
		commonhttp.WriteErrorEnvelope(w, http.StatusBadRequest, commonhttp.CodeBadRequest, "missing or invalid order fields", "")
		return
	}

	file, _, err := r.FormFile("img")
	if err != nil {
		commonhttp.WriteErrorEnvelope(w, http.StatusBadRequest, commonhttp.CodeBadRequest, "payment proof image required", "")
		return
	}
	defer file.Close()

	proof, err := io.ReadAll(io.LimitReader(file, constants.MaxPaymentProofBytes))
	if err != nil {
		commonhttp.WriteErrorEnvelope(w, http.StatusBadRequest, commonhttp.CodeBadRequest, "failed to read payment proof", "")
		return
	}

	result, err := h.orders.Create(r.Context(), service.CreateInput{
		Username:      form.Username,
		Email:         form.Email,
		ChallengeType: form.ChallengeType,
		AccountSize:   form.AccountSize,
		Platform:      form.Platform,
		PaymentMethod: form.PaymentMethod,
		TxID:          form.TxID,
		PaymentProof:  proof,
	})
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	commonhttp.WriteJSON(w, http.StatusCreated, createOrderResponse{
		ID:      result.PublicID,
		Message: "Order created successfully",
	})
}

func (h *Handler) byID(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/orders/")
	parts := strings.Split(rest, "/")
	if len(parts) == 0 || parts[0] == "" {
		commonhttp.WriteErrorEnvelope(w, http.StatusBadRequest, commonhttp.CodeInvalidPath, "order id required", "")
		return
	}
	publicID := parts[0]

	switch {
	case len(parts) == 1 && r.Method == http.MethodGet:
		h.get(w, r, publicID)
	case len(parts) == 2 && parts[1] == "status" && r.Method == http.MethodPatch:
		h.updateStatus(w, r, publicID)
	default:
		commonhttp.WriteErrorEnvelope(w, http.StatusMethodNotAllowed, commonhttp.CodeMethodNotAllowed, "method not allowed", "")
	}
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request, publicID string) {
	order, err := h.orders.Get(r.Context(), publicID)
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, orderResponse{
		ID:            order.PublicID(),
		Username:      order.Username,
		Email:         order.Email,
		ChallengeType: order.ChallengeType,
		AccountSize:   order.AccountSize,
		Platform:      order.Platform,
		PaymentMethod: order.PaymentMethod,
		TxID:          order.TxID,
		Status:        string(order.Status),
	})
}

func (h *Handler) updateStatus(w http.ResponseWriter, r *http.Request, publicID string) {
	var req updateStatusRequest
	if err := commonhttp.DecodeJSON(r, &req); err != nil {
		commonhttp.WriteErrorEnvelope(w, http.StatusBadRequest, commonhttp.CodeInvalidJSON, "invalid json", "")
		return
	}

	if err := h.validate.Struct(req); err != nil || !domain.ValidStatus(req.Status) {
		commonhttp.WriteErrorEnvelope(w, http.StatusBadRequest, commonhttp.CodeBadRequest, "invalid status", "")
		return
	}

	if err := h.orders.UpdateStatus(r.Context(), publicID, domain.Status(req.Status)); err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, map[string]string{"message": "Order status updated"})
}
