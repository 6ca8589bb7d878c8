package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	domain "github.com/Frontier-Dental/repricer-monorepo-sub006/internal/domain"
	"github.com/Frontier-Dental/repricer-monorepo-sub006/internal/platform/httpx"
	"github.com/Frontier-Dental/repricer-monorepo-sub006/internal/platform/requestctx"
	"github.com/Frontier-Dental/repricer-monorepo-sub006/internal/repositories"
	"github.com/Frontier-Dental/repricer-monorepo-sub006/internal/services"
)

const (
	maxRepriceBodySize = 1 << 20
	defaultAuditLimit  = 20
)

type priceBreakPayload struct {
	MinQty    int    `json:"minQty"`
	UnitPrice int64  `json:"unitPrice"`
	PromoDesc string `json:"promoDesc,omitempty"`
}

type offerPayload struct {
	VendorID              int64               `json:"vendorId"`
	VendorName            string              `json:"vendorName"`
	InStock               bool                `json:"inStock"`
	StandardShipping      int64               `json:"standardShipping"`
	ShippingTimeDays      int                 `json:"shippingTimeDays"`
	BadgeID               int64               `json:"badgeId,omitempty"`
	BadgeName             string              `json:"badgeName,omitempty"`
	PriceBreaks           []priceBreakPayload `json:"priceBreaks"`
	FreeShippingGap       int64               `json:"freeShippingGap,omitempty"`
	FreeShippingThreshold int64               `json:"freeShippingThreshold,omitempty"`
	Inventory             int                 `json:"inventory"`
}

type repriceRequest struct {
	RunID    string                       `json:"runId"`
	Offers   []offerPayload               `json:"offers"`
	Settings []domain.VendorSettingRecord `json:"settings"`
	SlowRun  bool                         `json:"slowRun"`
	DryRun   bool                         `json:"dryRun"`
}

type snapshotRequest struct {
	Offers     []offerPayload `json:"offers"`
	CapturedAt *time.Time     `json:"capturedAt"`
}

type runRequest struct {
	ProductIDs []string `json:"productIds"`
	SlowRun    bool     `json:"slowRun"`
	Limit      int      `json:"limit"`
}

type decisionPayload struct {
	VendorID        int64               `json:"vendorId"`
	Quantity        int                 `json:"quantity"`
	CompeteQuantity int                 `json:"competeQuantity,omitempty"`
	Result          string              `json:"result"`
	ExistingPrice   *int64              `json:"existingPrice"`
	SuggestedPrice  *int64              `json:"suggestedPrice"`
	BestPrice       *int64              `json:"bestPrice,omitempty"`
	BuyBoxRank      int                 `json:"buyBoxRank"`
	TriggeredBy     *int64              `json:"triggeredBy"`
	Rationale       string              `json:"rationale"`
	Valid           bool                `json:"valid"`
	Board           []boardEntryPayload `json:"board,omitempty"`
}

type boardEntryPayload struct {
	VendorID  int64  `json:"vendorId"`
	Kind      string `json:"kind"`
	UnitPrice int64  `json:"unitPrice"`
	TotalCost int64  `json:"totalCost"`
	Rank      int    `json:"rank"`
}

type productRunPayload struct {
	ProductID string            `json:"productId"`
	Status    string            `json:"status"`
	Published int               `json:"published"`
	Error     string            `json:"error,omitempty"`
	Decisions []decisionPayload `json:"decisions"`
}

type batchRunPayload struct {
	RunID      string              `json:"runId"`
	SlowRun    bool                `json:"slowRun"`
	StartedAt  time.Time           `json:"startedAt"`
	FinishedAt time.Time           `json:"finishedAt"`
	Failed     int                 `json:"failed"`
	Products   []productRunPayload `json:"products"`
}

type auditPayload struct {
	ID         string            `json:"id"`
	RunID      string            `json:"runId"`
	SlowRun    bool              `json:"slowRun"`
	Failure    string            `json:"failure,omitempty"`
	RecordedAt time.Time         `json:"recordedAt"`
	Decisions  []decisionPayload `json:"decisions"`
}

// RepricingHandlers exposes the repricing engine over HTTP.
type RepricingHandlers struct {
	repricing services.RepricingService
}

// NewRepricingHandlers constructs the repricing handlers.
func NewRepricingHandlers(repricing services.RepricingService) *RepricingHandlers {
	return &RepricingHandlers{repricing: repricing}
}

// Routes registers the product and run endpoints.
func (h *RepricingHandlers) Routes(r chi.Router) {
	r.Post("/products/{productId}:reprice", h.repriceProduct)
	r.Put("/products/{productId}/offers", h.saveOffers)
	r.Put("/products/{productId}/vendor-settings/{vendorId}", h.saveVendorSetting)
	r.Get("/products/{productId}/audits", h.listAudits)
	r.Post("/runs", h.runBatch)
}

func (h *RepricingHandlers) repriceProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req repriceRequest
	if !decodeBody(w, r, &req) {
		return
	}

	result, err := h.repricing.RepriceProduct(ctx, services.RepriceProductCommand{
		ProductID: chi.URLParam(r, "productId"),
		Offers:    offersFromPayload(req.Offers),
		Settings:  req.Settings,
		RunID:     strings.TrimSpace(req.RunID),
		SlowRun:   req.SlowRun,
		DryRun:    req.DryRun,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, productRunToPayload(result, true))
}

func (h *RepricingHandlers) saveOffers(w http.ResponseWriter, r *http.Request) {
	var req snapshotRequest
	if !decodeBody(w, r, &req) {
		return
	}
	snapshot := services.OfferSnapshot{
		ProductID: chi.URLParam(r, "productId"),
		Offers:    offersFromPayload(req.Offers),
	}
	if req.CapturedAt != nil {
		snapshot.CapturedAt = req.CapturedAt.UTC()
	}
	if err := h.repricing.SaveOfferSnapshot(r.Context(), snapshot); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *RepricingHandlers) saveVendorSetting(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	vendorID, err := strconv.ParseInt(chi.URLParam(r, "vendorId"), 10, 64)
	if err != nil || vendorID <= 0 {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "vendorId must be a positive integer", http.StatusBadRequest))
		return
	}
	var record domain.VendorSettingRecord
	if !decodeBody(w, r, &record) {
		return
	}
	if record.VendorID != 0 && record.VendorID != vendorID {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "vendorId in body does not match path", http.StatusBadRequest))
		return
	}
	record.VendorID = vendorID

	setting, err := h.repricing.SaveVendorSetting(ctx, chi.URLParam(r, "productId"), record)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, setting)
}

func (h *RepricingHandlers) listAudits(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	limit := defaultAuditLimit
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "limit must be a positive integer", http.StatusBadRequest))
			return
		}
		limit = parsed
	}

	audits, err := h.repricing.ListDecisionAudits(ctx, chi.URLParam(r, "productId"), limit)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	items := make([]auditPayload, 0, len(audits))
	for _, audit := range audits {
		items = append(items, auditPayload{
			ID:         audit.ID,
			RunID:      audit.RunID,
			SlowRun:    audit.SlowRun,
			Failure:    audit.Failure,
			RecordedAt: audit.RecordedAt,
			Decisions:  decisionsToPayload(audit.Decisions, false),
		})
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (h *RepricingHandlers) runBatch(w http.ResponseWriter, r *http.Request) {
	var req runRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Limit < 0 {
		httpx.WriteError(r.Context(), w, httpx.NewError("invalid_request", "limit must not be negative", http.StatusBadRequest))
		return
	}

	run, err := h.repricing.RunBatch(r.Context(), services.RunBatchCommand{
		ProductIDs: req.ProductIDs,
		SlowRun:    req.SlowRun,
		Limit:      req.Limit,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	products := make([]productRunPayload, 0, len(run.Products))
	for _, product := range run.Products {
		products = append(products, productRunToPayload(product, false))
	}
	httpx.WriteJSON(w, http.StatusOK, batchRunPayload{
		RunID:      run.RunID,
		SlowRun:    run.SlowRun,
		StartedAt:  run.StartedAt,
		FinishedAt: run.FinishedAt,
		Failed:     run.Failed(),
		Products:   products,
	})
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRepriceBodySize))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		httpx.WriteError(r.Context(), w, httpx.NewError("invalid_request", fmt.Sprintf("invalid JSON body: %v", err), http.StatusBadRequest))
		return false
	}
	return true
}

func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	ctx := r.Context()
	var repoErr repositories.RepositoryError
	switch {
	case errors.Is(err, services.ErrRepricingInvalidInput):
		httpx.WriteError(ctx, w, httpx.NewError("invalid_input", err.Error(), http.StatusBadRequest))
	case errors.Is(err, services.ErrRepricingMissingVendorSetting):
		httpx.WriteError(ctx, w, httpx.NewError("missing_vendor_setting", err.Error(), http.StatusUnprocessableEntity))
	case errors.Is(err, services.ErrRepricingMissingTrigger):
		httpx.WriteError(ctx, w, httpx.NewError("missing_trigger", err.Error(), http.StatusUnprocessableEntity))
	case errors.Is(err, services.ErrRepricingLogicDefect):
		requestctx.Logger(ctx).Error("repricing logic defect", zap.Error(err))
		httpx.WriteError(ctx, w, httpx.NewError("repricing_logic_defect", err.Error(), http.StatusInternalServerError))
	case errors.Is(err, services.ErrRepricingStoreMissing),
		errors.Is(err, services.ErrRepricingSnapshotStoreMissing),
		errors.Is(err, services.ErrRepricingAuditStoreMissing):
		httpx.WriteError(ctx, w, httpx.NewError("store_unavailable", err.Error(), http.StatusServiceUnavailable))
	case errors.As(err, &repoErr) && repoErr.IsNotFound():
		httpx.WriteError(ctx, w, httpx.NewError("not_found", err.Error(), http.StatusNotFound))
	case errors.As(err, &repoErr) && repoErr.IsUnavailable():
		httpx.WriteError(ctx, w, httpx.NewError("store_unavailable", err.Error(), http.StatusServiceUnavailable))
	default:
		requestctx.Logger(ctx).Error("repricing request failed", zap.Error(err))
		httpx.WriteError(ctx, w, httpx.NewError("internal_server_error", "internal server error", http.StatusInternalServerError))
	}
}

func offersFromPayload(payload []offerPayload) []services.Offer {
	if len(payload) == 0 {
		return nil
	}
	offers := make([]services.Offer, 0, len(payload))
	for _, p := range payload {
		breaks := make([]services.PriceBreak, 0, len(p.PriceBreaks))
		for _, pb := range p.PriceBreaks {
			breaks = append(breaks, services.PriceBreak{MinQty: pb.MinQty, UnitPrice: pb.UnitPrice, PromoDesc: pb.PromoDesc})
		}
		offers = append(offers, services.Offer{
			VendorID:              p.VendorID,
			VendorName:            p.VendorName,
			InStock:               p.InStock,
			StandardShipping:      p.StandardShipping,
			ShippingTimeDays:      p.ShippingTimeDays,
			Badge:                 services.Badge{ID: p.BadgeID, Name: p.BadgeName},
			PriceBreaks:           breaks,
			FreeShippingGap:       p.FreeShippingGap,
			FreeShippingThreshold: p.FreeShippingThreshold,
			Inventory:             p.Inventory,
		})
	}
	return offers
}

func productRunToPayload(result services.ProductRunResult, withBoard bool) productRunPayload {
	return productRunPayload{
		ProductID: result.ProductID,
		Status:    string(result.Status),
		Published: result.Published,
		Error:     result.Error,
		Decisions: decisionsToPayload(result.Decisions, withBoard),
	}
}

func decisionsToPayload(decisions []services.Decision, withBoard bool) []decisionPayload {
	out := make([]decisionPayload, 0, len(decisions))
	for _, d := range decisions {
		item := decisionPayload{
			VendorID:        d.VendorID(),
			Quantity:        d.Quantity(),
			CompeteQuantity: d.Solution.CompeteQuantity,
			Result:          string(d.Result),
			ExistingPrice:   d.ExistingPrice,
			SuggestedPrice:  d.SuggestedPrice,
			BestPrice:       d.Solution.BestPrice,
			BuyBoxRank:      d.Solution.BuyBoxRank,
			TriggeredBy:     d.TriggeredBy,
			Rationale:       d.Rationale,
			Valid:           d.Valid,
		}
		if withBoard {
			for _, entry := range d.Solution.Board {
				item.Board = append(item.Board, boardEntryPayload{
					VendorID:  entry.VendorID,
					Kind:      string(entry.Kind),
					UnitPrice: entry.UnitPrice,
					TotalCost: entry.TotalCost,
					Rank:      entry.Rank,
				})
			}
		}
		out = append(out, item)
	}
	return out
}
