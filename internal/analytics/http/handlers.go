package analytichttp

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"github.com/debtwatch/debtwatch/internal/analytics"
	"github.com/debtwatch/debtwatch/internal/platform/httpx"
)

const requestTimeout = 5 * time.Second

// AnalyticsService defines the report contract used by the handler.
type AnalyticsService interface {
	GetCustomerReport(ctx context.Context, customerID int64, asOf time.Time) (analytics.CustomerReport, error)
	GetPortfolioAging(ctx context.Context, asOf time.Time) ([]analytics.AgingBucket, error)
	GetAbcReport(ctx context.Context, asOf time.Time) (analytics.AbcReport, error)
	GetConcentration(ctx context.Context, asOf time.Time, filter analytics.ConcentrationFilter) (analytics.ConcentrationReport, error)
	GetRiskRanking(ctx context.Context, asOf time.Time) ([]analytics.CustomerRiskSummary, error)
	GetTurnover(ctx context.Context, from, to time.Time) (analytics.TurnoverReport, error)
}

// Handler coordinates HTTP requests for the receivables analytics reports.
type Handler struct {
	logger  *slog.Logger
	service AnalyticsService
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service AnalyticsService) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers analytics routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/aging", h.aging)
	r.Get("/abc", h.abc)
	r.Get("/concentration", h.concentration)
	r.Get("/risk", h.riskRanking)
	r.Get("/turnover", h.turnover)
	r.Get("/dashboard", h.dashboard)
	r.Get("/customers/{customerID}", h.customerReport)
}

func (h *Handler) customerReport(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	customerID, err := strconv.ParseInt(chi.URLParam(r, "customerID"), 10, 64)
	if err != nil || customerID <= 0 {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Parameter", "customerID must be a positive integer")
		return
	}
	asOf, ok := h.asOfParam(w, r)
	if !ok {
		return
	}

	report, err := h.service.GetCustomerReport(ctx, customerID, asOf)
	if err != nil {
		h.logger.Error("customer report", slog.Any("error", err), slog.Int64("customer_id", customerID))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, report)
}

func (h *Handler) aging(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	asOf, ok := h.asOfParam(w, r)
	if !ok {
		return
	}

	buckets, err := h.service.GetPortfolioAging(ctx, asOf)
	if err != nil {
		h.logger.Error("portfolio aging", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"buckets": buckets})
}

func (h *Handler) abc(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	asOf, ok := h.asOfParam(w, r)
	if !ok {
		return
	}

	report, err := h.service.GetAbcReport(ctx, asOf)
	if err != nil {
		h.logger.Error("abc report", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, report)
}

func (h *Handler) concentration(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	asOf, ok := h.asOfParam(w, r)
	if !ok {
		return
	}

	var filter analytics.ConcentrationFilter
	if v := strings.TrimSpace(r.URL.Query().Get("min_percentage")); v != "" {
		min, err := strconv.ParseFloat(v, 64)
		if err != nil || min < 0 {
			httpx.Problem(w, http.StatusBadRequest, "Invalid Parameter", "min_percentage must be a non-negative number")
			return
		}
		filter.MinPercentage = min
	}
	if v := strings.TrimSpace(r.URL.Query().Get("limit")); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 0 {
			httpx.Problem(w, http.StatusBadRequest, "Invalid Parameter", "limit must be a non-negative integer")
			return
		}
		filter.Limit = limit
	}

	report, err := h.service.GetConcentration(ctx, asOf, filter)
	if err != nil {
		h.logger.Error("concentration report", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, report)
}

func (h *Handler) riskRanking(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	asOf, ok := h.asOfParam(w, r)
	if !ok {
		return
	}

	ranking, err := h.service.GetRiskRanking(ctx, asOf)
	if err != nil {
		h.logger.Error("risk ranking", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if ranking == nil {
		ranking = []analytics.CustomerRiskSummary{}
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"customers": ranking})
}

func (h *Handler) turnover(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	from, ok := h.dateParam(w, r, "from")
	if !ok {
		return
	}
	to, ok := h.dateParam(w, r, "to")
	if !ok {
		return
	}

	report, err := h.service.GetTurnover(ctx, from, to)
	if err != nil {
		h.logger.Error("turnover report", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, report)
}

type dashboardResponse struct {
	AsOf          time.Time                       `json:"as_of"`
	Aging         []analytics.AgingBucket         `json:"aging"`
	Abc           analytics.AbcReport             `json:"abc"`
	Concentration analytics.ConcentrationReport   `json:"concentration"`
	TopRisk       []analytics.CustomerRiskSummary `json:"top_risk"`
}

// dashboard aggregates the portfolio reports in one response. The reports
// are independent, so they load concurrently.
func (h *Handler) dashboard(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	asOf, ok := h.asOfParam(w, r)
	if !ok {
		return
	}
	if asOf.IsZero() {
		asOf = time.Now()
	}

	var resp dashboardResponse
	resp.AsOf = asOf

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		buckets, err := h.service.GetPortfolioAging(ctx, asOf)
		if err != nil {
			return err
		}
		resp.Aging = buckets
		return nil
	})

	g.Go(func() error {
		report, err := h.service.GetAbcReport(ctx, asOf)
		if err != nil {
			return err
		}
		resp.Abc = report
		return nil
	})

	g.Go(func() error {
		report, err := h.service.GetConcentration(ctx, asOf, analytics.ConcentrationFilter{})
		if err != nil {
			return err
		}
		resp.Concentration = report
		return nil
	})

	g.Go(func() error {
		ranking, err := h.service.GetRiskRanking(ctx, asOf)
		if err != nil {
			return err
		}
		if len(ranking) > 10 {
			ranking = ranking[:10]
		}
		resp.TopRisk = ranking
		return nil
	})

	if err := g.Wait(); err != nil {
		h.logger.Error("dashboard", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if resp.TopRisk == nil {
		resp.TopRisk = []analytics.CustomerRiskSummary{}
	}
	httpx.JSON(w, http.StatusOK, resp)
}

// asOfParam parses the optional as_of query parameter. A zero time means
// "now" and is resolved by the service.
func (h *Handler) asOfParam(w http.ResponseWriter, r *http.Request) (time.Time, bool) {
	raw := strings.TrimSpace(r.URL.Query().Get("as_of"))
	if raw == "" {
		return time.Time{}, true
	}
	asOf, err := time.Parse("2006-01-02", raw)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Parameter", "as_of must be formatted YYYY-MM-DD")
		return time.Time{}, false
	}
	return asOf, true
}

func (h *Handler) dateParam(w http.ResponseWriter, r *http.Request, name string) (time.Time, bool) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Parameter", name+" is required, formatted YYYY-MM-DD")
		return time.Time{}, false
	}
	value, err := time.Parse("2006-01-02", raw)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Parameter", name+" must be formatted YYYY-MM-DD")
		return time.Time{}, false
	}
	return value, true
}
