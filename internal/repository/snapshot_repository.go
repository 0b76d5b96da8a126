package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"SalesPulse/internal/domain/models"
	"SalesPulse/internal/domain/repository"
	pkgkafka "SalesPulse/pkg/kafka"
)

// Snapshot table schema, applied through the ClickHouse client at startup.
var SnapshotSchema = []string{
	`CREATE DATABASE IF NOT EXISTS salespulse`,
	`CREATE TABLE IF NOT EXISTS salespulse.forecast_snapshots (
		forecast_id  String,
		pipeline     LowCardinality(String),
		generated_at DateTime64(3),
		method       LowCardinality(String),
		step         UInt8,
		value        Float64,
		lower        Float64,
		upper        Float64,
		confidence   Float64
	) ENGINE = MergeTree()
	PARTITION BY toYYYYMM(generated_at)
	ORDER BY (pipeline, generated_at, step)
	TTL toDateTime(generated_at) + INTERVAL 180 DAY`,
}

// ClickHouseSnapshotStore implements SnapshotStore for ClickHouse.
type ClickHouseSnapshotStore struct {
	db    *sql.DB
	table string
}

// NewClickHouseSnapshotStore creates ClickHouse snapshot storage.
func NewClickHouseSnapshotStore(db *sql.DB, table string) repository.SnapshotStore {
	if table == "" {
		table = "salespulse.forecast_snapshots"
	}
	return &ClickHouseSnapshotStore{db: db, table: table}
}

func (s *ClickHouseSnapshotStore) Init(ctx context.Context) error {
	return nil // Schema init in pkg
}

func (s *ClickHouseSnapshotStore) Store(ctx context.Context, snap *models.ForecastSnapshot) error {
	q := fmt.Sprintf("INSERT INTO %s (forecast_id, pipeline, generated_at, method, step, value, lower, upper, confidence) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)", s.table)
	_, err := s.db.ExecContext(ctx, q,
		snap.ForecastID,
		snap.Pipeline,
		snap.GeneratedAt,
		snap.Method,
		snap.Step,
		snap.Value,
		snap.Lower,
		snap.Upper,
		snap.Confidence,
	)
	return err
}

func (s *ClickHouseSnapshotStore) StoreBatch(ctx context.Context, snapshots []*models.ForecastSnapshot) error {
	if len(snapshots) == 0 {
		return nil
	}
	// Multi-row VALUES insert to reduce round-trips, chunked so a large
	// backfill cannot build an unbounded statement.
	const chunkSize = 2000
	for start := 0; start < len(snapshots); start += chunkSize {
		end := start + chunkSize
		if end > len(snapshots) {
			end = len(snapshots)
		}

		values := make([]string, 0, end-start)
		args := make([]interface{}, 0, (end-start)*9)
		for _, snap := range snapshots[start:end] {
			if snap == nil || snap.Pipeline == "" || snap.ForecastID == "" {
				continue
			}
			values = append(values, "(?, ?, ?, ?, ?, ?, ?, ?, ?)")
			args = append(args,
				snap.ForecastID,
				snap.Pipeline,
				snap.GeneratedAt,
				snap.Method,
				snap.Step,
				snap.Value,
				snap.Lower,
				snap.Upper,
				snap.Confidence,
			)
		}
		if len(values) == 0 {
			continue
		}
		q := fmt.Sprintf("INSERT INTO %s (forecast_id, pipeline, generated_at, method, step, value, lower, upper, confidence) VALUES %s", s.table, strings.Join(values, ","))
		if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
			return err
		}
	}
	return nil
}

func (s *ClickHouseSnapshotStore) Query(ctx context.Context, pipeline string, from, to time.Time, limit int) ([]*models.ForecastSnapshot, error) {
	q := fmt.Sprintf("SELECT forecast_id, pipeline, generated_at, method, step, value, lower, upper, confidence FROM %s WHERE pipeline = ? AND generated_at >= ? AND generated_at <= ? ORDER BY generated_at DESC, step ASC LIMIT ?", s.table)
	rows, err := s.db.QueryContext(ctx, q, pipeline, from, to, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.ForecastSnapshot
	for rows.Next() {
		var snap models.ForecastSnapshot
		if err := rows.Scan(&snap.ForecastID, &snap.Pipeline, &snap.GeneratedAt, &snap.Method, &snap.Step, &snap.Value, &snap.Lower, &snap.Upper, &snap.Confidence); err != nil {
			return nil, err
		}
		out = append(out, &snap)
	}
	return out, rows.Err()
}

func (s *ClickHouseSnapshotStore) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *ClickHouseSnapshotStore) Close() error {
	return nil // Managed by pkg
}

// KafkaSnapshotPublisher implements Publisher for Kafka. Snapshots are
// keyed by pipeline so one pipeline's history stays on one partition.
type KafkaSnapshotPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

// NewKafkaSnapshotPublisher creates a Kafka snapshot publisher.
func NewKafkaSnapshotPublisher(producer *pkgkafka.Producer, topic string) repository.Publisher {
	return &KafkaSnapshotPublisher{producer: producer, topic: topic}
}

func (p *KafkaSnapshotPublisher) Publish(ctx context.Context, snap *models.ForecastSnapshot) error {
	return p.producer.Publish(ctx, p.topic, []byte(snap.Pipeline), snap)
}

func (p *KafkaSnapshotPublisher) PublishBatch(ctx context.Context, snapshots []*models.ForecastSnapshot) error {
	if len(snapshots) == 0 {
		return nil
	}
	msgs := make([]pkgkafka.Message, len(snapshots))
	for i, snap := range snapshots {
		msgs[i] = pkgkafka.Message{
			Key:   []byte(snap.Pipeline),
			Value: snap,
		}
	}
	return p.producer.PublishBatch(ctx, p.topic, msgs)
}

func (p *KafkaSnapshotPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}
