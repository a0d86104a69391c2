package races

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/pacelog/pacelog/internal/telemetry/tracing"
	"github.com/pacelog/pacelog/pkg"

	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=races_test

type racesRepo interface {
	ListUpcoming(ctx context.Context, after time.Time) ([]Race, error)
}

type Handler struct {
	repo racesRepo
	now  func() time.Time
}

func NewHandler(repo racesRepo) *Handler {
	return &Handler{
		repo: repo,
		now:  time.Now,
	}
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.races.list")
	defer span.End()

	upcoming, err := h.repo.ListUpcoming(ctx, h.now())
	if err != nil {
		log.Errorf("list races: %s", err)
		http.Error(w, "unexpected error", http.StatusInternalServerError)
		return
	}

	if upcoming == nil {
		upcoming = []Race{}
	}
	racesJson, err := json.Marshal(upcoming)
	if err != nil {
		log.Errorf("marshal races: %s", err)
		http.Error(w, "unexpected error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, racesJson)
}
