package http

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/fundedhub/backend/internal/auth/session"
	commonhttp "github.com/fundedhub/backend/internal/common/http"
	"github.com/fundedhub/backend/internal/common/logger"
	"github.com/fundedhub/backend/internal/trading/service"
	"github.com/fundedhub/backend/internal/trading/terminal"
)

type accountDetailsForm struct {
	AccountNumber int64  `validate:"required,gt=0"`
	Password      string `validate:"required"`
	Server        string `validate:"required,max=128"`
}

type Handler struct {
	trading  *service.TradingService
	validate *validator.Validate
	log      *logger.Logger
}

func NewHandler(trading *service.TradingService, resolver *session.Resolver, log *logger.Logger) http.Handler {
	h := &Handler{
		trading:  trading,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		log:      log,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/meta/account-details",
		commonhttp.RequireMethod(http.MethodPost)(h.accountDetails))

	return resolver.Middleware(mux)
}

func (h *Handler) accountDetails(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(1 << 20); err != nil {
		commonhttp.WriteErrorEnvelope(w, http.StatusBadRequest, commonhttp.CodeBadRequest, "invalid form", "")
		return
	}

	accountNumber, err := strconv.ParseInt(r.FormValue("account_number"), 10, 64)
	if err != nil {
		commonhttp.WriteErrorEnvelope(w, http.StatusBadRequest, commonhttp.CodeBadRequest, "account_number must be numeric", "")
		return
	}

	form := accountDetailsForm{
		AccountNumber: accountNumber,
		Password:      r.FormValue("password"),
		Server:        r.FormValue("server"),
	}
	if err := h.validate.Struct(form); err != nil {
		commonhttp.WriteErrorEnvelope(w, http.StatusBadRequest, commonhttp.CodeBadRequest, "missing or invalid terminal credentials", "")
		return
	}

	report, err := h.trading.AccountReport(r.Context(), terminal.Credentials{
		AccountNumber: form.AccountNumber,
		Password:      form.Password,
		Server:        form.Server,
	})
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, report)
}
