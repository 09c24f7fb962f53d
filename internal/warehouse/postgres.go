package warehouse

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// PostgresStore is the pgx-backed Store. Uniqueness is enforced by the
// schema's constraints; concurrent creation races resolve through
// ON CONFLICT DO NOTHING, surfaced to callers as ErrDimensionExists.
type PostgresStore struct {
	db     *pgxpool.Pool
	logger *slog.Logger
}

// NewPostgresStore creates a store over an existing connection pool.
func NewPostgresStore(db *pgxpool.Pool, logger *slog.Logger) *PostgresStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresStore{db: db, logger: logger}
}

// Init creates all dimension and fact tables. Every statement is
// IF NOT EXISTS, so Init can run on every start.
func (s *PostgresStore) Init(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := s.db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}
	return nil
}

func (s *PostgresStore) LookupDimension(ctx context.Context, typ DimensionType, key string) (int64, bool, error) {
	query := fmt.Sprintf(`SELECT id FROM %s WHERE %s = $1`, typ, dimKeyColumn[typ])

	var id int64
	err := s.db.QueryRow(ctx, query, key).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return id, true, nil
}

func (s *PostgresStore) InsertDimension(ctx context.Context, typ DimensionType, key string, attrs Attributes) (int64, error) {
	cols := []string{dimKeyColumn[typ]}
	args := []any{key}
	for _, col := range dimAttrColumns[typ] {
		if v, ok := attrs[col]; ok && v != "" {
			cols = append(cols, col)
			args = append(args, v)
		}
	}

	placeholders := make([]string, len(args))
	for i := range args {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}

	query := fmt.Sprintf(
		`INSERT INTO %s (%s) VALUES (%s) ON CONFLICT (%s) DO NOTHING RETURNING id`,
		typ, strings.Join(cols, ", "), strings.Join(placeholders, ", "), dimKeyColumn[typ],
	)

	var id int64
	err := s.db.QueryRow(ctx, query, args...).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, ErrDimensionExists
	}
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (s *PostgresStore) RefreshDimension(ctx context.Context, typ DimensionType, id int64, attrs Attributes) error {
	sets := []string{"updated_at = now()"}
	args := []any{id}
	for _, col := range dimAttrColumns[typ] {
		if v, ok := attrs[col]; ok && v != "" {
			args = append(args, v)
			sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
		}
	}
	if len(args) == 1 {
		return nil
	}

	query := fmt.Sprintf(`UPDATE %s SET %s WHERE id = $1`, typ, strings.Join(sets, ", "))
	_, err := s.db.Exec(ctx, query, args...)
	return err
}

func (s *PostgresStore) LookupDate(ctx context.Context, day time.Time) (int64, bool, error) {
	var id int64
	err := s.db.QueryRow(ctx, `SELECT id FROM dim_date WHERE day = $1`, day).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return id, true, nil
}

const insertDateSQL = `
	INSERT INTO dim_date (day, year, quarter, month, week, day_of_month, day_of_week, day_name, is_weekend, is_quarter_end, is_year_end)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	ON CONFLICT (day) DO NOTHING
`

func (s *PostgresStore) InsertDate(ctx context.Context, row DateRow) (int64, error) {
	var id int64
	err := s.db.QueryRow(ctx, insertDateSQL+` RETURNING id`,
		row.Day, row.Year, row.Quarter, row.Month, row.Week,
		row.DayOfMonth, row.DayOfWeek, row.DayName,
		row.IsWeekend, row.IsQuarterEnd, row.IsYearEnd,
	).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, ErrDimensionExists
	}
	if err != nil {
		return 0, err
	}
	return id, nil
}

// InsertDates bulk-loads date rows with a single round trip per batch,
// skipping days that already exist.
func (s *PostgresStore) InsertDates(ctx context.Context, rows []DateRow) error {
	batch := &pgx.Batch{}
	for _, row := range rows {
		batch.Queue(insertDateSQL,
			row.Day, row.Year, row.Quarter, row.Month, row.Week,
			row.DayOfMonth, row.DayOfWeek, row.DayName,
			row.IsWeekend, row.IsQuarterEnd, row.IsYearEnd,
		)
	}

	results := s.db.SendBatch(ctx, batch)
	defer results.Close()

	for range rows {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("bulk insert dim_date: %w", err)
		}
	}
	return nil
}

func (s *PostgresStore) UpsertPriceFact(ctx context.Context, table FactTable, fact PriceFact) (LoadResult, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (subject_id, date_id, source_id, exchange_id, open, high, low, close, adj_close, volume, change_pct)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (subject_id, date_id, source_id) DO UPDATE SET
			exchange_id = EXCLUDED.exchange_id,
			open = EXCLUDED.open,
			high = EXCLUDED.high,
			low = EXCLUDED.low,
			close = EXCLUDED.close,
			adj_close = EXCLUDED.adj_close,
			volume = EXCLUDED.volume,
			change_pct = EXCLUDED.change_pct,
			updated_at = now()
		RETURNING (xmax = 0) AS inserted
	`, table)

	var inserted bool
	err := s.db.QueryRow(ctx, query,
		fact.SubjectID, fact.DateID, fact.SourceID, nullableID(fact.ExchangeID),
		fact.Open, fact.High, fact.Low, fact.Close, fact.AdjClose,
		fact.Volume, fact.ChangePct,
	).Scan(&inserted)
	if err != nil {
		return Inserted, err
	}
	if inserted {
		return Inserted, nil
	}
	return Updated, nil
}

func (s *PostgresStore) UpsertObservationFact(ctx context.Context, table FactTable, fact ObservationFact) (LoadResult, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (subject_id, date_id, source_id, value, change_pct)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (subject_id, date_id, source_id) DO UPDATE SET
			value = EXCLUDED.value,
			change_pct = EXCLUDED.change_pct,
			updated_at = now()
		RETURNING (xmax = 0) AS inserted
	`, table)

	var inserted bool
	err := s.db.QueryRow(ctx, query,
		fact.SubjectID, fact.DateID, fact.SourceID, fact.Value, fact.ChangePct,
	).Scan(&inserted)
	if err != nil {
		return Inserted, err
	}
	if inserted {
		return Inserted, nil
	}
	return Updated, nil
}

func (s *PostgresStore) UpsertFilingFact(ctx context.Context, fact FilingFact) (LoadResult, error) {
	query := `
		INSERT INTO fact_sec_filing (company_id, filing_type_id, date_id, source_id, cik, accession_number, file_url, size_bytes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (accession_number) DO UPDATE SET
			file_url = EXCLUDED.file_url,
			size_bytes = EXCLUDED.size_bytes,
			source_id = EXCLUDED.source_id,
			updated_at = now()
		RETURNING (xmax = 0) AS inserted
	`

	var inserted bool
	err := s.db.QueryRow(ctx, query,
		fact.CompanyID, fact.FilingTypeID, fact.DateID, fact.SourceID,
		fact.CIK, fact.AccessionNumber, fact.FileURL, fact.SizeBytes,
	).Scan(&inserted)
	if err != nil {
		return Inserted, err
	}
	if inserted {
		return Inserted, nil
	}
	return Updated, nil
}

func (s *PostgresStore) PriorMeasure(ctx context.Context, table FactTable, subjectID, sourceID int64, before time.Time) (decimal.Decimal, bool, error) {
	measure, ok := factMeasureColumn[table]
	if !ok {
		return decimal.Decimal{}, false, fmt.Errorf("%s has no headline measure", table)
	}

	query := fmt.Sprintf(`
		SELECT f.%s
		FROM %s f
		JOIN dim_date d ON d.id = f.date_id
		WHERE f.subject_id = $1 AND f.source_id = $2 AND d.day < $3
		ORDER BY d.day DESC
		LIMIT 1
	`, measure, table)

	var value decimal.Decimal
	err := s.db.QueryRow(ctx, query, subjectID, sourceID, before).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return decimal.Decimal{}, false, nil
	}
	if err != nil {
		return decimal.Decimal{}, false, err
	}
	return value, true, nil
}

// nullableID maps the zero id to SQL NULL for optional dimension references.
func nullableID(id int64) any {
	if id == 0 {
		return nil
	}
	return id
}
