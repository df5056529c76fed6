package diagnostic

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type diagnosticRepoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &diagnosticRepoPG{pool: pool}
}

const diagnosticCols = `id, diagnosis_id, image_id, result, confidence_score,
	heatmap_path, doctor_name, patient_name, patient_id, date_diagnosed`

func (r *diagnosticRepoPG) scanRow(row pgx.Row) (*Diagnostic, error) {
	var d Diagnostic
	err := row.Scan(&d.ID, &d.DiagnosisID, &d.ImageID, &d.Result, &d.ConfidenceScore,
		&d.HeatmapPath, &d.DoctorName, &d.PatientName, &d.PatientID, &d.DateDiagnosed)
	return &d, err
}

func (r *diagnosticRepoPG) Create(ctx context.Context, d *Diagnostic) error {
	d.ID = uuid.New()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO diagnostic (id, diagnosis_id, image_id, result, confidence_score,
			heatmap_path, doctor_name, patient_name, patient_id, date_diagnosed)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		d.ID, d.DiagnosisID, d.ImageID, d.Result, d.ConfidenceScore,
		d.HeatmapPath, d.DoctorName, d.PatientName, d.PatientID, d.DateDiagnosed)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return nil
}

func (r *diagnosticRepoPG) List(ctx context.Context) ([]*Diagnostic, error) {
	return r.queryMany(ctx,
		`SELECT `+diagnosticCols+` FROM diagnostic ORDER BY date_diagnosed DESC`)
}

func (r *diagnosticRepoPG) ListByPatient(ctx context.Context, patientID string) ([]*Diagnostic, error) {
	return r.queryMany(ctx,
		`SELECT `+diagnosticCols+` FROM diagnostic WHERE patient_id = $1 ORDER BY date_diagnosed DESC`,
		patientID)
}

func (r *diagnosticRepoPG) queryMany(ctx context.Context, sql string, args ...interface{}) ([]*Diagnostic, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Diagnostic
	for rows.Next() {
		d, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, d)
	}
	return items, rows.Err()
}
