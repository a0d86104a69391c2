package training

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/pacelog/pacelog/internal/auth"
	"github.com/pacelog/pacelog/internal/telemetry/metrics"
	"github.com/pacelog/pacelog/internal/telemetry/tracing"
	"github.com/pacelog/pacelog/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=training_test

type entriesRepo interface {
	Add(ctx context.Context, entry Entry) (*Entry, error)
	Get(ctx context.Context, ownerID, id string) (*Entry, error)
	Update(ctx context.Context, entry *Entry) error
	Delete(ctx context.Context, ownerID, id string) error
	List(ctx context.Context, params ListParams) ([]Entry, int, error)
	ListAll(ctx context.Context, params EntryParams) ([]Entry, error)
}

type Handler struct {
	repo     entriesRepo
	analyzer *Analyzer
	metrics  *metrics.Manager
	now      func() time.Time
}

func NewHandler(repo entriesRepo, analyzer *Analyzer, metrics *metrics.Manager) *Handler {
	return &Handler{
		repo:     repo,
		analyzer: analyzer,
		metrics:  metrics,
		now:      time.Now,
	}
}

type ListResponse struct {
	Entries    []Entry    `json:"entries"`
	Pagination Pagination `json:"pagination"`
}

type Pagination struct {
	Current int `json:"current"`
	Pages   int `json:"pages"`
	Total   int `json:"total"`
}

type StreakResponse struct {
	CurrentStreak int `json:"currentStreak"`
}

func (h *Handler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.training.add")
	defer span.End()

	ownerID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	var req NewEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Errorf("add training entry, unmarshal json params: %s", err)
		http.Error(w, "add entry failed", http.StatusBadRequest)
		return
	}

	entry, err := req.ToEntry(ownerID, h.now())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	added, err := h.repo.Add(ctx, *entry)
	if err != nil {
		log.Errorf("failed to add training entry: %s", err)
		writeDomainError(w, err)
		return
	}

	span.SetAttributes(attribute.String("entry.id", added.ID))
	h.metrics.CounterEntriesAdded.WithLabelValues(string(added.Type)).Inc()

	entryJson, err := json.Marshal(added)
	if err != nil {
		log.Errorf("marshal added training entry: %s", err)
		http.Error(w, "unexpected error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, entryJson, http.StatusCreated)
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.training.list")
	defer span.End()

	ownerID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	page := 1
	if pageStr := r.URL.Query().Get("page"); pageStr != "" {
		var err error
		page, err = strconv.Atoi(pageStr)
		if err != nil {
			http.Error(w, "invalid page", http.StatusBadRequest)
			return
		}
	}
	size := 20
	if sizeStr := r.URL.Query().Get("limit"); sizeStr != "" {
		var err error
		size, err = strconv.Atoi(sizeStr)
		if err != nil {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
	}

	params := ListParams{
		EntryParams: EntryParams{
			UserID: ownerID,
		},
		Page: page,
		Size: size,
	}

	if typeStr := r.URL.Query().Get("type"); typeStr != "" {
		activityType := ActivityType(typeStr)
		if !activityType.Valid() {
			http.Error(w, "invalid type", http.StatusBadRequest)
			return
		}
		params.Type = activityType
	}
	from, to, err := dateRangeFromQuery(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	params.From = from
	params.To = to

	entries, total, err := h.repo.List(ctx, params)
	if err != nil {
		log.Errorf("list training entries: %s", err)
		writeDomainError(w, err)
		return
	}

	pages := 0
	if total > 0 {
		pages = int(math.Ceil(float64(total) / float64(size)))
	}

	if entries == nil {
		entries = []Entry{}
	}
	respJson, err := json.Marshal(ListResponse{
		Entries: entries,
		Pagination: Pagination{
			Current: page,
			Pages:   pages,
			Total:   total,
		},
	})
	if err != nil {
		log.Errorf("marshal training entries list: %s", err)
		http.Error(w, "unexpected error", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSONResponseOK(w, string(respJson))
}

func (h *Handler) HandleWeeklySummary(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.training.weeklySummary")
	defer span.End()

	ownerID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	now := h.now()
	from := now.AddDate(0, 0, -7)
	to := now
	qFrom, qTo, err := dateRangeFromQuery(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if qFrom != nil {
		from = *qFrom
	}
	if qTo != nil {
		to = *qTo
	}

	summary, err := h.analyzer.WeeklySummary(ctx, ownerID, from, to)
	if err != nil {
		log.Errorf("weekly training summary: %s", err)
		writeDomainError(w, err)
		return
	}

	summaryJson, err := json.Marshal(summary)
	if err != nil {
		log.Errorf("marshal weekly training summary: %s", err)
		http.Error(w, "unexpected error", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSONResponseOK(w, string(summaryJson))
}

func (h *Handler) HandleStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.training.stats")
	defer span.End()

	ownerID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	periodDays := 30
	if periodStr := r.URL.Query().Get("period"); periodStr != "" {
		var err error
		periodDays, err = strconv.Atoi(periodStr)
		if err != nil || periodDays <= 0 {
			http.Error(w, "invalid period", http.StatusBadRequest)
			return
		}
	}

	stats, err := h.analyzer.PeriodStats(ctx, ownerID, periodDays, h.now())
	if err != nil {
		log.Errorf("training period stats: %s", err)
		writeDomainError(w, err)
		return
	}

	statsJson, err := json.Marshal(stats)
	if err != nil {
		log.Errorf("marshal training period stats: %s", err)
		http.Error(w, "unexpected error", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSONResponseOK(w, string(statsJson))
}

func (h *Handler) HandleStreak(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.training.streak")
	defer span.End()

	ownerID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	streak, err := h.analyzer.CurrentStreak(ctx, ownerID, h.now())
	if err != nil {
		log.Errorf("training streak: %s", err)
		writeDomainError(w, err)
		return
	}

	streakJson, err := json.Marshal(StreakResponse{CurrentStreak: streak})
	if err != nil {
		log.Errorf("marshal training streak: %s", err)
		http.Error(w, "unexpected error", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSONResponseOK(w, string(streakJson))
}

func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.training.update")
	defer span.End()

	ownerID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	vars := mux.Vars(r)
	id := vars["id"]
	if id == "" {
		http.Error(w, "entry id is empty", http.StatusBadRequest)
		return
	}
	span.SetAttributes(attribute.String("entry.id", id))

	var req UpdateEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Errorf("update training entry, unmarshal json params: %s", err)
		http.Error(w, "update entry failed", http.StatusBadRequest)
		return
	}

	existing, err := h.repo.Get(ctx, ownerID, id)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	updated, err := req.Apply(*existing, h.now())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	if err := h.repo.Update(ctx, updated); err != nil {
		log.Errorf("failed to update training entry %s: %s", id, err)
		writeDomainError(w, err)
		return
	}

	updatedJson, err := json.Marshal(updated)
	if err != nil {
		log.Errorf("marshal updated training entry: %s", err)
		http.Error(w, "unexpected error", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSONResponseOK(w, string(updatedJson))
}

func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.training.delete")
	defer span.End()

	ownerID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	vars := mux.Vars(r)
	id := vars["id"]
	if id == "" {
		http.Error(w, "entry id is empty", http.StatusBadRequest)
		return
	}
	span.SetAttributes(attribute.String("entry.id", id))

	if err := h.repo.Delete(ctx, ownerID, id); err != nil {
		log.Errorf("failed to delete training entry %s: %s", id, err)
		writeDomainError(w, err)
		return
	}

	pkg.WriteTextResponseOK(w, fmt.Sprintf("deleted:%s", id))
}

// writeDomainError maps repo and validation errors to status codes without
// leaking whether a foreign entry exists.
func writeDomainError(w http.ResponseWriter, err error) {
	var valErr *ValidationError
	switch {
	case errors.As(err, &valErr):
		http.Error(w, valErr.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrEntryNotFound):
		http.Error(w, "entry not found", http.StatusNotFound)
	default:
		http.Error(w, "unexpected error", http.StatusInternalServerError)
	}
}

// dateRangeFromQuery reads the optional startDate / endDate query params,
// accepting RFC3339 or plain YYYY-MM-DD values.
func dateRangeFromQuery(r *http.Request) (from, to *time.Time, err error) {
	if fromStr := r.URL.Query().Get("startDate"); fromStr != "" {
		parsed, err := parseDate(fromStr)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid startDate")
		}
		from = &parsed
	}
	if toStr := r.URL.Query().Get("endDate"); toStr != "" {
		parsed, err := parseDate(toStr)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid endDate")
		}
		to = &parsed
	}
	return from, to, nil
}

func parseDate(val string) (time.Time, error) {
	if parsed, err := time.Parse(time.RFC3339, val); err == nil {
		return parsed, nil
	}
	return time.Parse("2006-01-02", val)
}
