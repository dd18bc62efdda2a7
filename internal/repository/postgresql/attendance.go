package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/sartoria-hq/tailor-backend-go/internal/domain/attendance"
	"github.com/sartoria-hq/tailor-backend-go/internal/pkg/database"
)

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

func (r *attendanceRepository) ListByEmployeeAndRange(ctx context.Context, employeeID string, companyID string, start, end time.Time) ([]attendance.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, company_id, date, clock_in, clock_out, break_minutes, status, created_at, updated_at
		FROM attendances
		WHERE employee_id = $1 AND company_id = $2 AND date >= $3 AND date <= $4
		ORDER BY date
	`

	rows, err := q.Query(ctx, query, employeeID, companyID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance records: %w", err)
	}
	defer rows.Close()

	var records []attendance.Record
	for rows.Next() {
		var rec attendance.Record
		if err := rows.Scan(
			&rec.ID, &rec.EmployeeID, &rec.CompanyID, &rec.Date, &rec.ClockIn, &rec.ClockOut,
			&rec.BreakMinutes, &rec.Status, &rec.CreatedAt, &rec.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan attendance record: %w", err)
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}
