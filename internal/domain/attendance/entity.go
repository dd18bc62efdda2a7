package attendance

import "time"

type Status string

const (
	StatusPresent  Status = "present"
	StatusAbsent   Status = "absent"
	StatusLate     Status = "late"
	StatusHalfDay  Status = "half_day"
	StatusOvertime Status = "overtime"
)

// Record is created by the clock-in/out subsystem and consumed read-only
// by the payroll calculators.
type Record struct {
	ID           string
	EmployeeID   string
	CompanyID    string
	Date         time.Time
	ClockIn      *time.Time
	ClockOut     *time.Time
	BreakMinutes int
	Status       Status
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// WorkedHours returns net hours between the clock pair minus breaks.
// Zero when either timestamp is missing or the result is not positive.
func (r Record) WorkedHours() float64 {
	if r.ClockIn == nil || r.ClockOut == nil {
		return 0
	}
	hours := r.ClockOut.Sub(*r.ClockIn).Hours() - float64(r.BreakMinutes)/60
	if hours <= 0 {
		return 0
	}
	return hours
}
