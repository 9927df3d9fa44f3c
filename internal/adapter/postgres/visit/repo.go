// Package visit implements the visit store using PostgreSQL.
// Inserts go through pgx.Batch; read queries are built with squirrel.
package visit

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/log0ymxm/parse-click-data/internal/adapter/postgres"
	"github.com/log0ymxm/parse-click-data/internal/domain"
	"github.com/log0ymxm/parse-click-data/pkg/ctxutil"
)

// DayCount holds visit and click totals of one day.
type DayCount struct {
	Day    string
	Visits int64
	Clicks int64
}

// Repo provides visit persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
	tx   *postgres.TxManager
	sb   squirrel.StatementBuilderType
}

// New creates a new visit repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{
		pool: pool,
		tx:   postgres.NewTxManager(pool),
		sb:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

const (
	insertVisitSQL = `INSERT INTO visits (id, run_id, day, ts, displayed_article, user_clicked, user_features)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	insertArticleSQL = `INSERT INTO visit_articles (visit_id, article_id, features)
		VALUES ($1, $2, $3)`
)

// WriteVisits stores a batch under the run ID carried by ctx.
func (r *Repo) WriteVisits(ctx context.Context, visits []domain.Visit) (int, error) {
	runID, ok := ctxutil.RunIDFromCtx(ctx)
	if !ok {
		return 0, fmt.Errorf("visit: run id missing from context: %w", domain.ErrValidation)
	}
	return r.BulkInsertVisits(ctx, runID, visits)
}

// BulkInsertVisits inserts visits and their candidate articles in one
// transaction. Returns the number of inserted visits.
func (r *Repo) BulkInsertVisits(ctx context.Context, runID uuid.UUID, visits []domain.Visit) (int, error) {
	if len(visits) == 0 {
		return 0, nil
	}

	batch := &pgx.Batch{}
	isVisit := make([]bool, 0, len(visits)*2)
	for _, v := range visits {
		id := uuid.New()
		batch.Queue(insertVisitSQL,
			id, runID, v.Day, int64(v.Timestamp), v.DisplayedArticle, int16(v.UserClicked), []float64(v.User),
		)
		isVisit = append(isVisit, true)

		for _, articleID := range slices.Sorted(maps.Keys(v.Articles)) {
			batch.Queue(insertArticleSQL, id, articleID, []float64(v.Articles[articleID]))
			isVisit = append(isVisit, false)
		}
	}

	var inserted int
	err := r.tx.RunInTx(ctx, func(ctx context.Context) error {
		results := postgres.QuerierFromCtx(ctx, r.pool).SendBatch(ctx, batch)
		defer results.Close()

		for _, visitRow := range isVisit {
			tag, err := results.Exec()
			if err != nil {
				return fmt.Errorf("batch exec: %w", err)
			}
			if visitRow {
				inserted += int(tag.RowsAffected())
			}
		}
		return nil
	})
	if err != nil {
		return 0, mapError(err, "visits of run", runID.String())
	}

	return inserted, nil
}

// CountByDay returns visit and click totals per day, ordered by day.
func (r *Repo) CountByDay(ctx context.Context) ([]DayCount, error) {
	sql, args, err := r.sb.
		Select("day", "count(*)", "count(*) FILTER (WHERE user_clicked <> 0)").
		From("visits").
		GroupBy("day").
		OrderBy("day").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build count by day: %w", err)
	}

	rows, err := postgres.QuerierFromCtx(ctx, r.pool).Query(ctx, sql, args...)
	if err != nil {
		return nil, mapError(err, "visit counts", "")
	}
	defer rows.Close()

	var counts []DayCount
	for rows.Next() {
		var c DayCount
		if err := rows.Scan(&c.Day, &c.Visits, &c.Clicks); err != nil {
			return nil, fmt.Errorf("scan day count: %w", err)
		}
		counts = append(counts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, "visit counts", "")
	}

	return counts, nil
}

// ListByDay returns up to limit visits of a day ordered by timestamp,
// with their candidate articles.
func (r *Repo) ListByDay(ctx context.Context, day string, limit int) ([]domain.Visit, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("visit: limit must be > 0: %w", domain.ErrValidation)
	}

	sql, args, err := r.sb.
		Select("id", "day", "ts", "displayed_article", "user_clicked", "user_features").
		From("visits").
		Where(squirrel.Eq{"day": day}).
		OrderBy("ts", "created_at", "id").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list by day: %w", err)
	}

	q := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, mapError(err, "visits of day", day)
	}
	defer rows.Close()

	var (
		ids    []uuid.UUID
		visits []domain.Visit
	)
	for rows.Next() {
		var (
			id      uuid.UUID
			v       domain.Visit
			ts      int64
			clicked int16
			user    []float64
		)
		if err := rows.Scan(&id, &v.Day, &ts, &v.DisplayedArticle, &clicked, &user); err != nil {
			return nil, fmt.Errorf("scan visit: %w", err)
		}
		v.Timestamp = uint32(ts)
		v.UserClicked = uint8(clicked)
		v.User = domain.DenseVector(user)
		v.Articles = make(map[string]domain.DenseVector)

		ids = append(ids, id)
		visits = append(visits, v)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, "visits of day", day)
	}
	rows.Close()

	if len(ids) == 0 {
		return visits, nil
	}

	if err := r.loadArticles(ctx, q, ids, visits); err != nil {
		return nil, err
	}
	return visits, nil
}

func (r *Repo) loadArticles(ctx context.Context, q postgres.Querier, ids []uuid.UUID, visits []domain.Visit) error {
	sql, args, err := r.sb.
		Select("visit_id", "article_id", "features").
		From("visit_articles").
		Where("visit_id = ANY(?)", ids).
		ToSql()
	if err != nil {
		return fmt.Errorf("build visit articles: %w", err)
	}

	pos := make(map[uuid.UUID]int, len(ids))
	for i, id := range ids {
		pos[id] = i
	}

	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return mapError(err, "visit articles", "")
	}
	defer rows.Close()

	for rows.Next() {
		var (
			visitID   uuid.UUID
			articleID string
			features  []float64
		)
		if err := rows.Scan(&visitID, &articleID, &features); err != nil {
			return fmt.Errorf("scan visit article: %w", err)
		}
		if i, ok := pos[visitID]; ok {
			visits[i].Articles[articleID] = domain.DenseVector(features)
		}
	}
	return mapError(rows.Err(), "visit articles", "")
}

// ClickThroughRate returns the share of visits of a day whose click flag is
// set. Returns domain.ErrNotFound if the day has no visits.
func (r *Repo) ClickThroughRate(ctx context.Context, day string) (float64, error) {
	sql, args, err := r.sb.
		Select("(count(*) FILTER (WHERE user_clicked <> 0))::float8 / NULLIF(count(*), 0)").
		From("visits").
		Where(squirrel.Eq{"day": day}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build click-through rate: %w", err)
	}

	var ctr *float64
	if err := postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, sql, args...).Scan(&ctr); err != nil {
		return 0, mapError(err, "visits of day", day)
	}
	if ctr == nil {
		return 0, fmt.Errorf("visits of day %s: %w", day, domain.ErrNotFound)
	}
	return *ctr, nil
}

// DeleteRun removes every visit stored by a run. Returns the number of deleted visits.
func (r *Repo) DeleteRun(ctx context.Context, runID uuid.UUID) (int, error) {
	sql, args, err := r.sb.
		Delete("visits").
		Where("run_id = ?", runID).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build delete run: %w", err)
	}

	tag, err := postgres.QuerierFromCtx(ctx, r.pool).Exec(ctx, sql, args...)
	if err != nil {
		return 0, mapError(err, "visits of run", runID.String())
	}
	return int(tag.RowsAffected()), nil
}

// mapError converts pgx/pgconn errors to domain errors.
// context.DeadlineExceeded and context.Canceled are NOT mapped; they pass through.
func mapError(err error, entity, key string) error {
	if err == nil {
		return nil
	}

	label := entity
	if key != "" {
		label += " " + key
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s: %w", label, err)
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", label, domain.ErrNotFound)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return fmt.Errorf("%s: %w", label, domain.ErrAlreadyExists)
		case "23503": // foreign_key_violation
			return fmt.Errorf("%s: %w", label, domain.ErrNotFound)
		case "23514": // check_violation
			return fmt.Errorf("%s: %w", label, domain.ErrValidation)
		}
	}

	return fmt.Errorf("%s: %w", label, err)
}
