package races

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pacelog/pacelog/internal/telemetry/tracing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

var ErrRaceNotFound = errors.New("race not found")

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

const raceColumns = `
	id, title, location, description, distance_km, difficulty,
	terrain, price_usd, starts_at, created_at`

// ListUpcoming returns races starting at or after the given moment,
// soonest first.
func (r *Repo) ListUpcoming(ctx context.Context, after time.Time) (_ []Race, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.races.listUpcoming")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(
		ctx,
		`SELECT `+raceColumns+`
			FROM race
			WHERE starts_at >= $1
			ORDER BY starts_at;`,
		after,
	)
	if err != nil {
		return nil, fmt.Errorf("query races: %w", err)
	}
	defer rows.Close()

	races, err := rows2races(rows)
	if err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.Int("races.count", len(races)))
	return races, nil
}

func (r *Repo) Get(ctx context.Context, id string) (_ *Race, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.races.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("race.id", id))

	rows, err := r.db.Query(
		ctx,
		`SELECT `+raceColumns+`
			FROM race
			WHERE id = $1;`,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("query race: %w", err)
	}
	defer rows.Close()

	races, err := rows2races(rows)
	if err != nil {
		return nil, err
	}
	if len(races) == 0 {
		return nil, ErrRaceNotFound
	}

	return &races[0], nil
}

func (r *Repo) Add(ctx context.Context, race Race) (_ *Race, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.races.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	race.ID = uuid.NewString()
	race.CreatedAt = time.Now()

	_, err = r.db.Exec(
		ctx,
		`INSERT INTO race (`+raceColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);`,
		race.ID, race.Title, race.Location, race.Description, race.DistanceKm,
		race.Difficulty, race.Terrain, race.PriceUSD, race.StartsAt, race.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert race: %w", err)
	}

	return &race, nil
}

func rows2races(rows pgx.Rows) ([]Race, error) {
	var races []Race
	for rows.Next() {
		var race Race
		var description *string
		if err := rows.Scan(
			&race.ID, &race.Title, &race.Location, &description, &race.DistanceKm,
			&race.Difficulty, &race.Terrain, &race.PriceUSD, &race.StartsAt, &race.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan race row: %w", err)
		}
		if description != nil {
			race.Description = *description
		}
		races = append(races, race)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("race rows: %w", err)
	}
	return races, nil
}
