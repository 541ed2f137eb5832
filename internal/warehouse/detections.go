package warehouse

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/karasolutions/telegram-medical-analytics/internal/core/domain"
)

const (
	opDetectionSummary   = "detection_summary"
	opTopDetectedObjects = "top_detected_objects"
	opWarehouseTotals    = "warehouse_totals"
)

// DetectionSummary returns window-wide object detection counters.
func (db *DB) DetectionSummary(ctx context.Context, since time.Time) (*domain.DetectionSummaryRow, error) {
	sql := fmt.Sprintf(`
SELECT
    COUNT(*) AS total_detections,
    COUNT(DISTINCT class_name) AS unique_objects,
    SUM(CASE WHEN is_medical_relevant THEN 1 ELSE 0 END) AS medical_objects,
    AVG(confidence_score) AS avg_confidence,
    SUM(CASE WHEN contains_person THEN 1 ELSE 0 END) AS person_detections,
    SUM(CASE WHEN contains_medical_equipment THEN 1 ELSE 0 END) AS equipment_detections,
    SUM(CASE WHEN contains_hygiene_products THEN 1 ELSE 0 END) AS hygiene_detections
FROM %s
WHERE detection_timestamp >= $1`,
		db.detectionsTable)

	args := []any{since}

	var (
		row        domain.DetectionSummaryRow
		medical    pgtype.Int8
		confidence pgtype.Float8
		persons    pgtype.Int8
		equipment  pgtype.Int8
		hygiene    pgtype.Int8
	)

	err := db.queryRow(ctx, opDetectionSummary, sql, args,
		&row.TotalDetections,
		&row.UniqueObjects,
		&medical,
		&confidence,
		&persons,
		&equipment,
		&hygiene,
	)
	if err != nil {
		return nil, err
	}

	row.MedicalObjects = int(medical.Int64)
	row.AvgConfidence = confidence.Float64
	row.PersonDetections = int(persons.Int64)
	row.EquipmentDetections = int(equipment.Int64)
	row.HygieneDetections = int(hygiene.Int64)

	return &row, nil
}

// TopDetectedObjects returns the most frequent object classes in the window.
func (db *DB) TopDetectedObjects(ctx context.Context, since time.Time, limit int) ([]domain.DetectionClassCount, error) {
	sql := fmt.Sprintf(`
SELECT
    class_name,
    COUNT(*) AS detection_count,
    AVG(confidence_score) AS avg_confidence
FROM %s
WHERE detection_timestamp >= $1
GROUP BY class_name
ORDER BY detection_count DESC
LIMIT $2`,
		db.detectionsTable)

	args := []any{since, limit}

	rows, err := db.query(ctx, opTopDetectedObjects, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var objects []domain.DetectionClassCount

	for rows.Next() {
		var o domain.DetectionClassCount

		if err = rows.Scan(&o.ClassName, &o.Count, &o.AvgConfidence); err != nil {
			return nil, db.failQuery(opTopDetectedObjects, sql, args, err)
		}

		objects = append(objects, o)
	}

	if err = rows.Err(); err != nil {
		return nil, db.failQuery(opTopDetectedObjects, sql, args, err)
	}

	return objects, nil
}

// WarehouseTotals returns the global fact-table counters used by the health
// and stats endpoints.
func (db *DB) WarehouseTotals(ctx context.Context) (*domain.WarehouseTotals, error) {
	sql := fmt.Sprintf(`
SELECT
    (SELECT COUNT(*) FROM %s) AS total_messages,
    (SELECT COUNT(*) FROM %s) AS total_detections,
    (SELECT MAX(message_date) FROM %s) AS last_message_date,
    (SELECT MAX(detection_timestamp) FROM %s) AS last_detection_date`,
		db.messagesTable, db.detectionsTable, db.messagesTable, db.detectionsTable)

	var (
		totals        domain.WarehouseTotals
		lastMessage   pgtype.Timestamptz
		lastDetection pgtype.Timestamptz
	)

	err := db.queryRow(ctx, opWarehouseTotals, sql, nil, &totals.TotalMessages, &totals.TotalDetections, &lastMessage, &lastDetection)
	if err != nil {
		return nil, err
	}

	if lastMessage.Valid {
		totals.LastMessageDate = &lastMessage.Time
	}

	if lastDetection.Valid {
		totals.LastDetectionDate = &lastDetection.Time
	}

	return &totals, nil
}
