package coach

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/pacelog/pacelog/internal/auth"
	"github.com/pacelog/pacelog/internal/races"
	"github.com/pacelog/pacelog/internal/telemetry/metrics"
	"github.com/pacelog/pacelog/internal/telemetry/tracing"
	"github.com/pacelog/pacelog/internal/training"
	"github.com/pacelog/pacelog/pkg"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=coach_test

const statsPeriodDays = 30

// TextGenerator is the model behind the coach. The real implementation is
// Client, tests and the no-api-key mode plug in their own.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

type statsProvider interface {
	PeriodStats(ctx context.Context, ownerID string, periodDays int, now time.Time) (*training.PeriodStats, error)
}

type racesCatalog interface {
	ListUpcoming(ctx context.Context, after time.Time) ([]races.Race, error)
}

type Handler struct {
	generator TextGenerator
	stats     statsProvider
	catalog   racesCatalog
	tips      *TipsManager
	metrics   *metrics.Manager
	now       func() time.Time
}

func NewHandler(
	generator TextGenerator,
	stats statsProvider,
	catalog racesCatalog,
	tips *TipsManager,
	metricsManager *metrics.Manager,
) *Handler {
	return &Handler{
		generator: generator,
		stats:     stats,
		catalog:   catalog,
		tips:      tips,
		metrics:   metricsManager,
		now:       time.Now,
	}
}

type AskRequest struct {
	Query    string `json:"query"`
	UserName string `json:"userName"`
}

type AskResponse struct {
	Response  string    `json:"response"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
}

type Preferences struct {
	PreferredDistances  []string `json:"preferredDistances"`
	PreferredDifficulty []string `json:"preferredDifficulty"`
	PreferredTerrain    []string `json:"preferredTerrain"`
	BudgetMin           float64  `json:"budgetMin"`
	BudgetMax           float64  `json:"budgetMax"`
}

type Recommendation struct {
	RaceID   string      `json:"raceId"`
	Score    int         `json:"score"`
	Reasons  []string    `json:"reasons"`
	Warnings []string    `json:"warnings,omitempty"`
	Race     *races.Race `json:"race,omitempty"`
}

type RecommendationsResponse struct {
	Recommendations []Recommendation `json:"recommendations"`
	Analysis        string           `json:"analysis,omitempty"`
	Message         string           `json:"message,omitempty"`
}

func (h *Handler) HandleAsk(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.coach.ask")
	defer span.End()

	ownerID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	var req AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Errorf("coach ask, unmarshal json params: %s", err)
		http.Error(w, "coach ask failed", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		http.Error(w, "error, query empty", http.StatusBadRequest)
		return
	}
	if req.UserName == "" {
		req.UserName = "runner"
	}

	stats, err := h.stats.PeriodStats(ctx, ownerID, statsPeriodDays, h.now())
	if err != nil {
		log.Errorf("coach ask, period stats: %s", err)
		http.Error(w, "unexpected error", http.StatusInternalServerError)
		return
	}

	h.metrics.CounterCoachPrompts.Inc()

	prompt := buildAskPrompt(req.UserName, h.now(), req.Query, stats)
	answer, err := h.generator.GenerateText(ctx, prompt)
	if err != nil {
		log.Errorf("coach ask, generate: %s", err)
		span.SetStatus(codes.Error, "generate-failed, fallback tip sent")
		h.metrics.CounterCoachFallbacks.Inc()
		h.writeAskResponse(w, AskResponse{
			Response:  h.tips.RandomTip().Text,
			Type:      "info",
			Timestamp: h.now(),
		})
		return
	}

	h.writeAskResponse(w, AskResponse{
		Response:  answer,
		Type:      classifyResponse(answer),
		Timestamp: h.now(),
	})
}

func (h *Handler) writeAskResponse(w http.ResponseWriter, resp AskResponse) {
	respJson, err := json.Marshal(resp)
	if err != nil {
		log.Errorf("marshal coach response: %s", err)
		http.Error(w, "unexpected error", http.StatusInternalServerError)
		return
	}
	pkg.WriteJSONResponseOK(w, string(respJson))
}

func (h *Handler) HandleRecommendations(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.coach.recommendations")
	defer span.End()

	ownerID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	var req struct {
		Preferences Preferences `json:"preferences"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Errorf("coach recommendations, unmarshal json params: %s", err)
		http.Error(w, "recommendations failed", http.StatusBadRequest)
		return
	}

	catalog, err := h.catalog.ListUpcoming(ctx, h.now())
	if err != nil {
		log.Errorf("coach recommendations, list races: %s", err)
		http.Error(w, "unexpected error", http.StatusInternalServerError)
		return
	}

	if len(catalog) == 0 {
		h.writeRecommendations(w, RecommendationsResponse{
			Recommendations: []Recommendation{},
			Message:         "no races available for recommendations",
		})
		return
	}

	stats, err := h.stats.PeriodStats(ctx, ownerID, statsPeriodDays, h.now())
	if err != nil {
		log.Errorf("coach recommendations, period stats: %s", err)
		http.Error(w, "unexpected error", http.StatusInternalServerError)
		return
	}

	h.metrics.CounterCoachPrompts.Inc()

	prompt := buildRecommendationsPrompt(req.Preferences, stats, catalog)
	resp := h.recommendationsFromModel(ctx, prompt, catalog)

	// attach full race data to each recommendation
	id2race := make(map[string]races.Race, len(catalog))
	for _, race := range catalog {
		id2race[race.ID] = race
	}
	enhanced := resp.Recommendations[:0]
	for _, rec := range resp.Recommendations {
		race, ok := id2race[rec.RaceID]
		if !ok {
			// model hallucinated an id, skip it
			continue
		}
		rec.Race = &race
		enhanced = append(enhanced, rec)
	}
	resp.Recommendations = enhanced

	h.writeRecommendations(w, resp)
}

func (h *Handler) recommendationsFromModel(
	ctx context.Context,
	prompt string,
	catalog []races.Race,
) RecommendationsResponse {
	answer, err := h.generator.GenerateText(ctx, prompt)
	if err != nil {
		log.Errorf("coach recommendations, generate: %s", err)
		h.metrics.CounterCoachFallbacks.Inc()
		return fallbackRecommendations(catalog)
	}

	var resp RecommendationsResponse
	if err := json.Unmarshal([]byte(extractJSON(answer)), &resp); err != nil {
		log.Errorf("coach recommendations, parse model response: %s", err)
		h.metrics.CounterCoachFallbacks.Inc()
		return fallbackRecommendations(catalog)
	}

	return resp
}

func (h *Handler) writeRecommendations(w http.ResponseWriter, resp RecommendationsResponse) {
	respJson, err := json.Marshal(resp)
	if err != nil {
		log.Errorf("marshal recommendations: %s", err)
		http.Error(w, "unexpected error", http.StatusInternalServerError)
		return
	}
	pkg.WriteJSONResponseOK(w, string(respJson))
}

// fallbackRecommendations suggests the soonest races with a neutral score,
// used when the model cannot be reached or returns garbage.
func fallbackRecommendations(catalog []races.Race) RecommendationsResponse {
	count := 3
	if len(catalog) < count {
		count = len(catalog)
	}

	recommendations := make([]Recommendation, 0, count)
	for _, race := range catalog[:count] {
		recommendations = append(recommendations, Recommendation{
			RaceID:  race.ID,
			Score:   75,
			Reasons: []string{"good race option", "matches basic preferences", "coming up soon"},
		})
	}

	return RecommendationsResponse{
		Recommendations: recommendations,
		Analysis:        "fallback recommendations, model unavailable",
	}
}

// classifyResponse buckets a model answer by its wording.
func classifyResponse(text string) string {
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "warning") || strings.Contains(lower, "caution"):
		return "warning"
	case strings.Contains(lower, "great") ||
		strings.Contains(lower, "excellent") ||
		strings.Contains(lower, "keep it up"):
		return "motivation"
	case strings.Contains(lower, "advice") ||
		strings.Contains(lower, "suggest") ||
		strings.Contains(lower, "recommend"):
		return "advice"
	default:
		return "info"
	}
}

// extractJSON cuts the first top-level JSON object out of a model answer,
// which often comes wrapped in prose or a markdown fence.
func extractJSON(text string) string {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end < start {
		return text
	}
	return text[start : end+1]
}
