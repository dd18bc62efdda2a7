package overtime

import (
	"context"
	"testing"
	"time"

	"github.com/sartoria-hq/tailor-backend-go/internal/domain/attendance"
	"github.com/sartoria-hq/tailor-backend-go/internal/domain/payroll"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAttendanceRepo struct {
	records []attendance.Record
}

func (f *fakeAttendanceRepo) ListByEmployeeAndRange(_ context.Context, _ string, _ string, _, _ time.Time) ([]attendance.Record, error) {
	return f.records, nil
}

type fakeStructureRepo struct {
	structure payroll.SalaryStructure
	err       error
}

func (f *fakeStructureRepo) Create(_ context.Context, s payroll.SalaryStructure) (payroll.SalaryStructure, error) {
	return s, nil
}

func (f *fakeStructureRepo) GetActiveByEmployeeID(_ context.Context, _ string, _ string, _ time.Time) (payroll.SalaryStructure, error) {
	if f.err != nil {
		return payroll.SalaryStructure{}, f.err
	}
	return f.structure, nil
}

func (f *fakeStructureRepo) ListByEmployeeID(_ context.Context, _ string, _ string) ([]payroll.SalaryStructure, error) {
	return []payroll.SalaryStructure{f.structure}, nil
}

func (f *fakeStructureRepo) CloseWindow(_ context.Context, _ string, _ string, _ time.Time) error {
	return nil
}

type holidayOn struct{ date string }

func (h holidayOn) IsHoliday(d time.Time) bool { return d.Format("2006-01-02") == h.date }

func testStructure() payroll.SalaryStructure {
	return payroll.SalaryStructure{
		ID:                  "structure-1",
		EmployeeID:          "employee-1",
		CompanyID:           "company-1",
		BaseSalary:          decimal.NewFromInt(6000),
		PayPeriod:           payroll.PayPeriodMonthly,
		StandardHoursPerDay: 8,
		HourlyRate:          decimal.NewFromInt(100),
		OvertimeMultiplier:  decimal.NewFromFloat(1.5),
		WeekendMultiplier:   decimal.NewFromFloat(2.0),
		HolidayMultiplier:   decimal.NewFromFloat(2.5),
		IsActive:            true,
	}
}

func presentRecord(date string, hoursWorked float64, breakMinutes int) attendance.Record {
	day, _ := time.Parse("2006-01-02", date)
	clockIn := day.Add(9 * time.Hour)
	clockOut := clockIn.Add(time.Duration(hoursWorked*60+float64(breakMinutes)) * time.Minute)
	return attendance.Record{
		EmployeeID:   "employee-1",
		CompanyID:    "company-1",
		Date:         day,
		ClockIn:      &clockIn,
		ClockOut:     &clockOut,
		BreakMinutes: breakMinutes,
		Status:       attendance.StatusPresent,
	}
}

func TestOvertimeCalculator_Calculate_WeekdayExcess(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	// 2026-03-03 is a Tuesday; 10 worked hours split 8 regular + 2 overtime.
	attendanceRepo := &fakeAttendanceRepo{records: []attendance.Record{
		presentRecord("2026-03-03", 10, 60),
	}}
	calc := NewCalculator(attendanceRepo, &fakeStructureRepo{structure: testStructure()}, nil)

	trace, err := calc.Calculate(ctx, "employee-1", "company-1",
		mustDate("2026-03-01"), mustDate("2026-03-31"))

	require.NoError(t, err)
	assert.InDelta(t, 8.0, trace.RegularHours, 0.001)
	assert.InDelta(t, 2.0, trace.OvertimeHours, 0.001)
	assert.Zero(t, trace.WeekendHours)
	assert.Zero(t, trace.HolidayHours)
	require.Len(t, trace.Days, 1)
	assert.Equal(t, "2026-03-03", trace.Days[0].Date)
}

func TestOvertimeCalculator_Calculate_WeekendExcess(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	// 2026-03-07 is a Saturday; the excess lands in the weekend bucket.
	attendanceRepo := &fakeAttendanceRepo{records: []attendance.Record{
		presentRecord("2026-03-07", 9, 0),
	}}
	calc := NewCalculator(attendanceRepo, &fakeStructureRepo{structure: testStructure()}, nil)

	trace, err := calc.Calculate(ctx, "employee-1", "company-1",
		mustDate("2026-03-01"), mustDate("2026-03-31"))

	require.NoError(t, err)
	assert.InDelta(t, 8.0, trace.RegularHours, 0.001)
	assert.Zero(t, trace.OvertimeHours)
	assert.InDelta(t, 1.0, trace.WeekendHours, 0.001)
}

func TestOvertimeCalculator_Calculate_HolidayBeatsWeekend(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	// A Saturday that the calendar marks as a holiday goes to the holiday
	// bucket, not the weekend bucket.
	attendanceRepo := &fakeAttendanceRepo{records: []attendance.Record{
		presentRecord("2026-03-07", 10, 0),
	}}
	calc := NewCalculator(attendanceRepo, &fakeStructureRepo{structure: testStructure()}, holidayOn{date: "2026-03-07"})

	trace, err := calc.Calculate(ctx, "employee-1", "company-1",
		mustDate("2026-03-01"), mustDate("2026-03-31"))

	require.NoError(t, err)
	assert.InDelta(t, 2.0, trace.HolidayHours, 0.001)
	assert.Zero(t, trace.WeekendHours)
}

func TestOvertimeCalculator_Calculate_WithinStandardHours(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	attendanceRepo := &fakeAttendanceRepo{records: []attendance.Record{
		presentRecord("2026-03-03", 7.5, 30),
	}}
	calc := NewCalculator(attendanceRepo, &fakeStructureRepo{structure: testStructure()}, nil)

	trace, err := calc.Calculate(ctx, "employee-1", "company-1",
		mustDate("2026-03-01"), mustDate("2026-03-31"))

	require.NoError(t, err)
	assert.InDelta(t, 7.5, trace.RegularHours, 0.001)
	assert.Zero(t, trace.OvertimeHours)
}

func TestOvertimeCalculator_Calculate_MissingClockOut(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	record := presentRecord("2026-03-03", 10, 0)
	record.ClockOut = nil
	attendanceRepo := &fakeAttendanceRepo{records: []attendance.Record{record}}
	calc := NewCalculator(attendanceRepo, &fakeStructureRepo{structure: testStructure()}, nil)

	trace, err := calc.Calculate(ctx, "employee-1", "company-1",
		mustDate("2026-03-01"), mustDate("2026-03-31"))

	require.NoError(t, err)
	assert.Zero(t, trace.RegularHours)
	assert.Zero(t, trace.OvertimeHours)
	// The day still appears in the breakdown.
	require.Len(t, trace.Days, 1)
}

func TestOvertimeCalculator_Calculate_NonPresentStatusIgnored(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	record := presentRecord("2026-03-03", 10, 0)
	record.Status = attendance.StatusAbsent
	attendanceRepo := &fakeAttendanceRepo{records: []attendance.Record{record}}
	calc := NewCalculator(attendanceRepo, &fakeStructureRepo{structure: testStructure()}, nil)

	trace, err := calc.Calculate(ctx, "employee-1", "company-1",
		mustDate("2026-03-01"), mustDate("2026-03-31"))

	require.NoError(t, err)
	assert.Zero(t, trace.RegularHours)
	assert.Zero(t, trace.OvertimeHours)
}

func TestOvertimeCalculator_Calculate_NoSalaryStructure(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	calc := NewCalculator(
		&fakeAttendanceRepo{},
		&fakeStructureRepo{err: payroll.ErrSalaryStructureNotFound},
		nil,
	)

	_, err := calc.Calculate(ctx, "employee-1", "company-1",
		mustDate("2026-03-01"), mustDate("2026-03-31"))

	assert.ErrorIs(t, err, payroll.ErrSalaryStructureNotFound)
}

func TestOvertimePay_AllBuckets(t *testing.T) {
	t.Parallel()

	trace := payroll.OvertimeTrace{
		RegularHours:  160,
		OvertimeHours: 10,
		WeekendHours:  4,
		HolidayHours:  2,
		Policy: payroll.OvertimePolicy{
			HourlyRate:         decimal.NewFromInt(100),
			OvertimeMultiplier: decimal.NewFromFloat(1.5),
			WeekendMultiplier:  decimal.NewFromFloat(2.0),
			HolidayMultiplier:  decimal.NewFromFloat(2.5),
		},
	}

	// 160*100 + 10*100*1.5 + 4*100*2.0 + 2*100*2.5 = 18800
	pay := Pay(trace)
	assert.True(t, pay.Equal(decimal.NewFromInt(18800)), "got %s", pay)
}

func mustDate(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}
