package training

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
	"go.opentelemetry.io/otel/trace"
)

var (
	// ErrEntryNotFound is returned when no entry with the given ID exists
	// for the given owner. An entry owned by somebody else is reported the
	// same way, so the existence of other users' data never leaks.
	ErrEntryNotFound = errors.New("training entry not found")

	// ErrStoreUnavailable wraps persistence failures. The details are
	// logged server-side, never surfaced to the caller.
	ErrStoreUnavailable = errors.New("training store unavailable")
)

// EntryParams filters entries of one owner. Date bounds are inclusive.
type EntryParams struct {
	UserID          string
	Type            ActivityType
	From            *time.Time
	To              *time.Time
	ExcludeRestDays bool
}

type ListParams struct {
	EntryParams
	Page int
	Size int
}

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

const entryColumns = `
	id, user_id, date, type, distance_km, duration_min, pace_min_per_km,
	notes, weather, difficulty, mood, is_rest_day, created_at, updated_at`

func (r *Repo) Add(ctx context.Context, entry Entry) (_ *Entry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.training.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	entry.ID = uuid.NewString()

	_, err = r.db.Exec(
		ctx,
		`INSERT INTO training_entry
				(id, user_id, date, type, distance_km, duration_min, pace_min_per_km,
				notes, weather, difficulty, mood, is_rest_day, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);`,
		entry.ID, entry.UserID, entry.Date, entry.Type, entry.Distance, entry.Duration, entry.Pace,
		nullableString(entry.Notes), nullableString(string(entry.Weather)), entry.Difficulty,
		nullableString(string(entry.Mood)), entry.IsRestDay, entry.CreatedAt, entry.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	span.SetAttributes(attribute.String("entry.id", entry.ID))

	return &entry, nil
}

func (r *Repo) Get(ctx context.Context, ownerID, id string) (_ *Entry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.training.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("entry.id", id))

	rows, err := r.db.Query(
		ctx,
		`SELECT `+entryColumns+`
			FROM training_entry
			WHERE id = $1 AND user_id = $2;`,
		id, ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	defer rows.Close()

	entries, err := r.rows2entries(rows)
	if err != nil {
		return nil, err
	}

	if len(entries) != 1 {
		return nil, ErrEntryNotFound
	}

	return &entries[0], nil
}

func (r *Repo) Update(ctx context.Context, entry *Entry) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.training.update")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("entry.id", entry.ID))

	tag, err := r.db.Exec(
		ctx,
		`UPDATE training_entry SET
				date = $1, type = $2, distance_km = $3, duration_min = $4,
				pace_min_per_km = $5, notes = $6, weather = $7, difficulty = $8,
				mood = $9, is_rest_day = $10, updated_at = $11
			WHERE id = $12 AND user_id = $13;`,
		entry.Date, entry.Type, entry.Distance, entry.Duration,
		entry.Pace, nullableString(entry.Notes), nullableString(string(entry.Weather)), entry.Difficulty,
		nullableString(string(entry.Mood)), entry.IsRestDay, entry.UpdatedAt,
		entry.ID, entry.UserID,
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	if tag.RowsAffected() == 0 {
		return ErrEntryNotFound
	}

	return nil
}

func (r *Repo) Delete(ctx context.Context, ownerID, id string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.training.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("entry.id", id))

	tag, err := r.db.Exec(
		ctx,
		`DELETE FROM training_entry WHERE id = $1 AND user_id = $2;`,
		id, ownerID,
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrEntryNotFound
	}
	return nil
}

// ListAll returns every entry of the owner matching the params, newest
// first. Used by the analyzer, which must see all matches regardless of
// pagination.
func (r *Repo) ListAll(ctx context.Context, params EntryParams) (_ []Entry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.training.listall")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	setListSpanAttributes(span, params)

	rows, err := r.db.Query(
		ctx,
		`SELECT `+entryColumns+`
			FROM training_entry
			WHERE user_id = $1
			AND ($2::text = '' OR type = $2)
			AND ($3::timestamptz IS NULL OR date >= $3)
			AND ($4::timestamptz IS NULL OR date <= $4)
			AND ($5::boolean IS FALSE OR is_rest_day = FALSE)
			ORDER BY date DESC, created_at DESC, id DESC;`,
		params.UserID, string(params.Type), params.From, params.To, params.ExcludeRestDays,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	defer rows.Close()

	return r.rows2entries(rows)
}

// List is like ListAll but returns one page plus the total match count.
func (r *Repo) List(ctx context.Context, params ListParams) (_ []Entry, total int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.training.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	setListSpanAttributes(span, params.EntryParams)
	span.SetAttributes(attribute.Int("page", params.Page))
	span.SetAttributes(attribute.Int("size", params.Size))

	if params.Page < 1 {
		return nil, -1, &ValidationError{Field: "page", Reason: "must be greater than 0"}
	}
	if params.Size < 1 {
		return nil, -1, &ValidationError{Field: "limit", Reason: "must be greater than 0"}
	}

	total, err = r.Count(ctx, params.EntryParams)
	if err != nil {
		return nil, -1, err
	}

	limit := params.Size
	offset := (params.Page - 1) * params.Size

	rows, err := r.db.Query(
		ctx,
		`SELECT `+entryColumns+`
			FROM training_entry
			WHERE user_id = $1
			AND ($2::text = '' OR type = $2)
			AND ($3::timestamptz IS NULL OR date >= $3)
			AND ($4::timestamptz IS NULL OR date <= $4)
			AND ($5::boolean IS FALSE OR is_rest_day = FALSE)
			ORDER BY date DESC, created_at DESC, id DESC
			LIMIT $6
			OFFSET $7;`,
		params.UserID, string(params.Type), params.From, params.To, params.ExcludeRestDays,
		limit, offset,
	)
	if err != nil {
		return nil, -1, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	defer rows.Close()

	entries, err := r.rows2entries(rows)
	if err != nil {
		return nil, -1, err
	}
	return entries, total, nil
}

func (r *Repo) Count(ctx context.Context, params EntryParams) (_ int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.training.count")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	row := r.db.QueryRow(
		ctx,
		`SELECT COUNT(*) FROM training_entry
			WHERE user_id = $1
			AND ($2::text = '' OR type = $2)
			AND ($3::timestamptz IS NULL OR date >= $3)
			AND ($4::timestamptz IS NULL OR date <= $4)
			AND ($5::boolean IS FALSE OR is_rest_day = FALSE);`,
		params.UserID, string(params.Type), params.From, params.To, params.ExcludeRestDays,
	)

	var count int
	if err := row.Scan(&count); err != nil {
		return -1, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	return count, nil
}

func (r *Repo) rows2entries(rows pgx.Rows) ([]Entry, error) {
	var entries []Entry
	for rows.Next() {
		var e Entry
		var notes, weather, mood *string
		if err := rows.Scan(
			&e.ID, &e.UserID, &e.Date, &e.Type, &e.Distance, &e.Duration, &e.Pace,
			&notes, &weather, &e.Difficulty, &mood, &e.IsRestDay, &e.CreatedAt, &e.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("%w: rows scan: %v", ErrStoreUnavailable, err)
		}

		if notes != nil {
			e.Notes = *notes
		}
		if weather != nil {
			e.Weather = Weather(*weather)
		}
		if mood != nil {
			e.Mood = Mood(*mood)
		}

		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: rows: %v", ErrStoreUnavailable, err)
	}

	if entries == nil {
		entries = make([]Entry, 0)
	}

	return entries, nil
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func setListSpanAttributes(span trace.Span, params EntryParams) {
	span.SetAttributes(attribute.String("user_id", params.UserID))
	span.SetAttributes(attribute.String("type", string(params.Type)))
	span.SetAttributes(attribute.Bool("exclude-rest-days", params.ExcludeRestDays))
	if params.From != nil {
		span.SetAttributes(attribute.String("from", params.From.String()))
	}
	if params.To != nil {
		span.SetAttributes(attribute.String("to", params.To.String()))
	}
}
