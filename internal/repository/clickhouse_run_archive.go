package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"CoinSentry/internal/domain/models"
	domrepo "CoinSentry/internal/domain/repository"
)

// ClickHouseRunArchive appends one row per validation run for the
// dashboard's history view. Writes are best-effort; a failed insert never
// affects the run that produced it.
type ClickHouseRunArchive struct {
	db    *sql.DB
	table string
}

func NewClickHouseRunArchive(db *sql.DB, table string) domrepo.RunArchive {
	return &ClickHouseRunArchive{db: db, table: table}
}

func (a *ClickHouseRunArchive) Record(ctx context.Context, r *models.ValidationResult) error {
	alerts, err := json.Marshal(r.Alerts)
	if err != nil {
		return fmt.Errorf("archive marshal alerts: %w", err)
	}
	discs, err := json.Marshal(r.Discrepancies)
	if err != nil {
		return fmt.Errorf("archive marshal discrepancies: %w", err)
	}

	var price, volume float64
	if r.Consensus != nil {
		price = r.Consensus.ConsensusPrice
		volume = r.Consensus.ConsensusVolume
	}

	q := fmt.Sprintf(`INSERT INTO %s
		(ts, symbol, is_valid, confidence, sources_used, sources_expected, consensus_price, consensus_volume, alerts, discrepancies, elapsed_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, a.table)
	_, err = a.db.ExecContext(ctx, q,
		r.RanAt,
		r.Symbol,
		boolToUint8(r.IsValid),
		uint8(r.Confidence),
		uint8(r.Summary.SourcesUsed),
		uint8(r.Summary.SourcesExpected),
		price,
		volume,
		string(alerts),
		string(discs),
		r.ElapsedMs,
	)
	if err != nil {
		return fmt.Errorf("archive insert: %w", err)
	}
	return nil
}

func (a *ClickHouseRunArchive) Close() error {
	return nil // pool is managed by pkg/clickhouse
}

func boolToUint8(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}
