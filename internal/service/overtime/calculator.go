package overtime

import (
	"context"
	"fmt"
	"time"

	"github.com/sartoria-hq/tailor-backend-go/internal/domain/attendance"
	"github.com/sartoria-hq/tailor-backend-go/internal/domain/payroll"
	"github.com/shopspring/decimal"
)

// HolidayCalendar marks dates as public holidays. No calendar source exists
// yet, so the default keeps the holiday bucket at zero.
type HolidayCalendar interface {
	IsHoliday(date time.Time) bool
}

type NoHolidays struct{}

func (NoHolidays) IsHoliday(time.Time) bool { return false }

type Calculator struct {
	attendanceRepo attendance.AttendanceRepository
	structureRepo  payroll.SalaryStructureRepository
	holidays       HolidayCalendar
}

func NewCalculator(
	attendanceRepo attendance.AttendanceRepository,
	structureRepo payroll.SalaryStructureRepository,
	holidays HolidayCalendar,
) *Calculator {
	if holidays == nil {
		holidays = NoHolidays{}
	}
	return &Calculator{
		attendanceRepo: attendanceRepo,
		structureRepo:  structureRepo,
		holidays:       holidays,
	}
}

// Calculate derives regular/overtime/weekend/holiday hours for one employee
// over [start, end] against the salary structure in force at end. Fails
// with payroll.ErrSalaryStructureNotFound when no structure exists.
//
// Bucket rules, per day: hours up to the structure's standard hours are
// regular; the excess lands in exactly one bucket: holiday when the
// calendar says so, weekend on Saturday/Sunday, overtime otherwise.
// Records without a usable clock pair or with a non-present status
// contribute zero hours but still appear in the day breakdown.
func (c *Calculator) Calculate(ctx context.Context, employeeID string, companyID string, start, end time.Time) (payroll.OvertimeTrace, error) {
	structure, err := c.structureRepo.GetActiveByEmployeeID(ctx, employeeID, companyID, end)
	if err != nil {
		return payroll.OvertimeTrace{}, err
	}

	records, err := c.attendanceRepo.ListByEmployeeAndRange(ctx, employeeID, companyID, start, end)
	if err != nil {
		return payroll.OvertimeTrace{}, fmt.Errorf("failed to list attendance records: %w", err)
	}

	trace := payroll.OvertimeTrace{
		Days: make([]payroll.DayHours, 0, len(records)),
		Policy: payroll.OvertimePolicy{
			StandardHoursPerDay: structure.StandardHoursPerDay,
			HourlyRate:          structure.HourlyRate,
			OvertimeMultiplier:  structure.OvertimeMultiplier,
			WeekendMultiplier:   structure.WeekendMultiplier,
			HolidayMultiplier:   structure.HolidayMultiplier,
		},
	}

	for _, record := range records {
		day := payroll.DayHours{
			Date:   record.Date.Format("2006-01-02"),
			Status: string(record.Status),
		}

		if record.Status == attendance.StatusPresent {
			worked := record.WorkedHours()
			if worked > 0 {
				standard := structure.StandardHoursPerDay
				if worked <= standard {
					day.RegularHours = worked
				} else {
					day.RegularHours = standard
					excess := worked - standard
					switch {
					case c.holidays.IsHoliday(record.Date):
						day.HolidayHours = excess
					case isWeekend(record.Date):
						day.WeekendHours = excess
					default:
						day.OvertimeHours = excess
					}
				}
			}
		}

		trace.RegularHours += day.RegularHours
		trace.OvertimeHours += day.OvertimeHours
		trace.WeekendHours += day.WeekendHours
		trace.HolidayHours += day.HolidayHours
		trace.Days = append(trace.Days, day)
	}

	return trace, nil
}

// Pay converts an overtime trace into money using the policy rates it
// carries: regular*rate + overtime*rate*otMul + weekend*rate*wkdMul +
// holiday*rate*holMul.
func Pay(trace payroll.OvertimeTrace) decimal.Decimal {
	rate := trace.Policy.HourlyRate

	pay := rate.Mul(decimal.NewFromFloat(trace.RegularHours))
	pay = pay.Add(rate.Mul(trace.Policy.OvertimeMultiplier).Mul(decimal.NewFromFloat(trace.OvertimeHours)))
	pay = pay.Add(rate.Mul(trace.Policy.WeekendMultiplier).Mul(decimal.NewFromFloat(trace.WeekendHours)))
	pay = pay.Add(rate.Mul(trace.Policy.HolidayMultiplier).Mul(decimal.NewFromFloat(trace.HolidayHours)))

	return pay
}

func isWeekend(date time.Time) bool {
	wd := date.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}
