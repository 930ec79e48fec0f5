package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shopspring/decimal"

	"github.com/api-sage/deposit-sweeper/internal/adapter/http/models"
	"github.com/api-sage/deposit-sweeper/internal/commons"
	"github.com/api-sage/deposit-sweeper/internal/logger"
)

var (
	webhookTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sweeper_webhook_requests_total",
		Help: "Balance-update webhook deliveries by outcome",
	}, []string{"outcome"})

	sweepTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sweeper_sweeps_total",
		Help: "Sweep workflow runs by result",
	}, []string{"result"})
)

type SweepService interface {
	Sweep(ctx context.Context, amount decimal.Decimal) error
}

type WebhookController struct {
	service        SweepService
	sourceCurrency string
	minimumDeposit decimal.Decimal
}

func NewWebhookController(service SweepService, sourceCurrency string, minimumDeposit decimal.Decimal) *WebhookController {
	return &WebhookController{
		service:        service,
		sourceCurrency: sourceCurrency,
		minimumDeposit: minimumDeposit,
	}
}

func (c *WebhookController) RegisterRoutes(mux *http.ServeMux, authMiddleware func(http.Handler) http.Handler) {
	handler := http.Handler(http.HandlerFunc(c.balanceUpdate))
	if authMiddleware != nil {
		handler = authMiddleware(handler)
	}

	mux.Handle("POST /{secret}/balance-update", handler)
}

// balanceUpdate acknowledges the delivery immediately; a qualifying deposit
// dispatches the sweep in its own goroutine and does not hold up the response.
func (c *WebhookController) balanceUpdate(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req models.BalanceUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logError(r, err)
		webhookTotal.WithLabelValues("bad_request").Inc()
		response := commons.ErrorResponse("invalid request body", err.Error())
		writeJSON(w, http.StatusBadRequest, response)
		logResponse(r, http.StatusBadRequest, response, start)
		return
	}

	deposit := req.Deposit()
	if !deposit.Qualifies(c.sourceCurrency, c.minimumDeposit) {
		logger.Info("deposit ignored, does not meet criteria", logger.Fields{
			"amount":          deposit.Amount.String(),
			"currency":        deposit.Currency,
			"transactionType": deposit.TransactionType,
		})
		webhookTotal.WithLabelValues("ignored").Inc()
		response := commons.SuccessResponse("ignored")
		writeJSON(w, http.StatusOK, response)
		logResponse(r, http.StatusOK, response, start)
		return
	}

	logger.Info("amount credited, starting transfer", logger.Fields{
		"amount":   deposit.Amount.String(),
		"currency": deposit.Currency,
	})
	webhookTotal.WithLabelValues("accepted").Inc()

	go c.runSweep(deposit.Amount)

	response := commons.SuccessResponse("accepted")
	writeJSON(w, http.StatusOK, response)
	logResponse(r, http.StatusOK, response, start)
}

// runSweep is the fire-and-forget side of the webhook: outcomes surface only
// in logs and metrics, never to the webhook sender.
func (c *WebhookController) runSweep(amount decimal.Decimal) {
	if err := c.service.Sweep(context.Background(), amount); err != nil {
		logger.Error("transfer error", err, logger.Fields{
			"amount": amount.String(),
		})
		sweepTotal.WithLabelValues("failed").Inc()
		return
	}
	sweepTotal.WithLabelValues("completed").Inc()
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
