package dataset

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"sipre-forecast/internal/model"
)

// DefaultQuery must return date, inflation, reserves, fx rate, liquidity and NPL, in that order.
const DefaultQuery = `SELECT date, inflation, reserves_usd, taux_usd_gnf, liquidite_bancaire, npl_ratio
FROM bcrg_indicators
ORDER BY date`

// SQLSource reads the dataset from a relational table.
type SQLSource struct {
	DB    *sql.DB
	Query string
}

// OpenPostgres opens and pings a PostgreSQL connection.
func OpenPostgres(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

func (s SQLSource) Name() string { return "sql" }

// Close closes the underlying database handle.
func (s SQLSource) Close() error {
	if s.DB == nil {
		return nil
	}
	return s.DB.Close()
}

func (s SQLSource) Load(ctx context.Context) (model.HistoricalSeries, error) {
	if s.DB == nil {
		return model.HistoricalSeries{}, unavailable(s.Name(), fmt.Errorf("database is nil"))
	}
	query := s.Query
	if query == "" {
		query = DefaultQuery
	}

	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return model.HistoricalSeries{}, unavailable(s.Name(), fmt.Errorf("query: %w", err))
	}
	defer rows.Close()

	var obs []model.Observation
	for rows.Next() {
		var (
			date time.Time
			o    model.Observation
		)
		if err := rows.Scan(
			&date,
			&o.InflationPct,
			&o.ReservesUSDBillion,
			&o.FXRateGNFPerUSD,
			&o.BankLiquidityPct,
			&o.NPLRatioPct,
		); err != nil {
			return model.HistoricalSeries{}, unavailable(s.Name(), fmt.Errorf("scan: %w", err))
		}
		o.Date = date.UTC()
		obs = append(obs, o)
	}
	if err := rows.Err(); err != nil {
		return model.HistoricalSeries{}, unavailable(s.Name(), err)
	}

	series, err := newSeries(obs)
	if err != nil {
		return model.HistoricalSeries{}, unavailable(s.Name(), err)
	}
	return series, nil
}
