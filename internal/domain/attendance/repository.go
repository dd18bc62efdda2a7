package attendance

import (
	"context"
	"time"
)

type AttendanceRepository interface {
	ListByEmployeeAndRange(ctx context.Context, employeeID string, companyID string, start, end time.Time) ([]Record, error)
}
