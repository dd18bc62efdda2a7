package validator

import (
	"testing"
)

func TestIsEmpty(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"", true},
		{"   ", true},
		{"abc", false},
		{" abc ", false},
	}
	for _, c := range cases {
		got := IsEmpty(c.input)
		if got != c.want {
			t.Errorf("IsEmpty(%q) = %v, want %v", c.input, got, c.want)
		}
	}
}

func TestIsValidUUID(t *testing.T) {
	valid := []string{
		"0188d0f2-7b8c-7b4a-8a2b-6b8b8b8b8b8b", // valid UUIDv7
		"0188D0F2-7B8C-7B4A-8A2B-6B8B8B8B8B8B", // valid UUIDv7 (uppercase)
	}
	invalid := []string{
		"123e4567-e89b-12d3-a456-426614174000", // not v7
		"0188d0f27b8c7b4a8a2b6b8b8b8b8b8b",     // missing dashes
		"g188d0f2-7b8c-7b4a-8a2b-6b8b8b8b8b8b", // invalid hex
		"",                                     // empty
	}
	for _, uuid := range valid {
		if !IsValidUUID(uuid) {
			t.Errorf("IsValidUUID(%q) = false, want true", uuid)
		}
	}
	for _, uuid := range invalid {
		if IsValidUUID(uuid) {
			t.Errorf("IsValidUUID(%q) = true, want false", uuid)
		}
	}
}

func TestIsValidDate(t *testing.T) {
	valid := []string{"2026-01-01", "2000-12-31"}
	invalid := []string{"2026-13-01", "2026-02-30", "01-01-2026", "not-a-date", ""}
	for _, s := range valid {
		if _, ok := IsValidDate(s); !ok {
			t.Errorf("IsValidDate(%q) = false, want true", s)
		}
	}
	for _, s := range invalid {
		if _, ok := IsValidDate(s); ok {
			t.Errorf("IsValidDate(%q) = true, want false", s)
		}
	}
}

func TestIsValidPeriod(t *testing.T) {
	valid := []string{"2026-01", "2026-12", "1999-06"}
	invalid := []string{"2026-13", "2026-00", "2026-1", "2026", "2026-01-01", "March 2026", ""}
	for _, s := range valid {
		if !IsValidPeriod(s) {
			t.Errorf("IsValidPeriod(%q) = false, want true", s)
		}
	}
	for _, s := range invalid {
		if IsValidPeriod(s) {
			t.Errorf("IsValidPeriod(%q) = true, want false", s)
		}
	}
}

func TestIsInSlice(t *testing.T) {
	slice := []string{"weekly", "biweekly", "monthly"}
	if !IsInSlice("monthly", slice) {
		t.Error("IsInSlice(monthly) = false, want true")
	}
	if IsInSlice("yearly", slice) {
		t.Error("IsInSlice(yearly) = true, want false")
	}
	if IsInSlice("monthly", nil) {
		t.Error("IsInSlice on nil slice = true, want false")
	}
}

func TestValidationErrors_Error(t *testing.T) {
	errs := ValidationErrors{
		{Field: "period", Message: "must be formatted YYYY-MM"},
		{Field: "employee_id", Message: "is required"},
	}
	want := "period: must be formatted YYYY-MM; employee_id: is required"
	if errs.Error() != want {
		t.Errorf("Error() = %q, want %q", errs.Error(), want)
	}

	m := errs.ToMap()
	if m["period"] != "must be formatted YYYY-MM" || m["employee_id"] != "is required" {
		t.Errorf("ToMap() = %v", m)
	}
}
