package recurring

import (
	"testing"
	"time"
	_ "time/tzdata"

	"cloud.google.com/go/civil"
	"github.com/rs/zerolog"

	"pocket-ledger/internal/config"
	"pocket-ledger/internal/models"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func rule(dom int, start time.Time, end *time.Time) *models.RecurringTransaction {
	return &models.RecurringTransaction{
		ID: 1, Name: "Salary", DayOfMonth: dom, StartDate: start, EndDate: end, IsActive: true,
	}
}

func TestIsDue(t *testing.T) {
	jan1 := date(2024, 1, 1)
	feb1 := date(2024, 2, 1)
	jan31 := date(2024, 1, 31)

	tests := []struct {
		name   string
		rule   *models.RecurringTransaction
		day    civil.Date
		policy MonthEndPolicy
		want   bool
	}{
		{"matching day", rule(1, jan1, nil), civil.Date{Year: 2024, Month: 2, Day: 1}, PolicyExact, true},
		{"other day", rule(1, jan1, nil), civil.Date{Year: 2024, Month: 2, Day: 2}, PolicyExact, false},
		{"start day itself", rule(1, jan1, nil), civil.Date{Year: 2024, Month: 1, Day: 1}, PolicyExact, true},
		{"before start", rule(1, feb1, nil), civil.Date{Year: 2024, Month: 1, Day: 1}, PolicyExact, false},
		{"end date today", rule(1, jan1, &feb1), civil.Date{Year: 2024, Month: 2, Day: 1}, PolicyExact, true},
		{"end date yesterday", rule(1, jan1, &jan31), civil.Date{Year: 2024, Month: 2, Day: 1}, PolicyExact, false},
		{"year rollover", rule(1, date(2023, 12, 1), nil), civil.Date{Year: 2024, Month: 1, Day: 1}, PolicyExact, true},
		{"31st in april exact", rule(31, jan1, nil), civil.Date{Year: 2024, Month: 4, Day: 30}, PolicyExact, false},
		{"31st does not roll to may", rule(31, jan1, nil), civil.Date{Year: 2024, Month: 5, Day: 1}, PolicyExact, false},
		{"31st in april clamp", rule(31, jan1, nil), civil.Date{Year: 2024, Month: 4, Day: 30}, PolicyClamp, true},
		{"30th in leap february clamp", rule(30, jan1, nil), civil.Date{Year: 2024, Month: 2, Day: 29}, PolicyClamp, true},
		{"29th in leap february exact", rule(29, jan1, nil), civil.Date{Year: 2024, Month: 2, Day: 29}, PolicyExact, true},
		{"29th in 2023 february exact", rule(29, jan1, nil), civil.Date{Year: 2023, Month: 2, Day: 28}, PolicyExact, false},
		{"clamp only on last day", rule(31, jan1, nil), civil.Date{Year: 2024, Month: 4, Day: 29}, PolicyClamp, false},
		{"december last day", rule(31, jan1, nil), civil.Date{Year: 2024, Month: 12, Day: 31}, PolicyExact, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsDue(tt.rule, tt.day, tt.policy); got != tt.want {
				t.Errorf("IsDue = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsDue_Inactive(t *testing.T) {
	r := rule(1, date(2024, 1, 1), nil)
	r.IsActive = false
	if IsDue(r, civil.Date{Year: 2024, Month: 2, Day: 1}, PolicyExact) {
		t.Error("inactive rule reported due")
	}
}

func TestExecutedOn(t *testing.T) {
	day := civil.Date{Year: 2024, Month: 2, Day: 1}
	r := rule(1, date(2024, 1, 1), nil)
	if ExecutedOn(r, day, time.UTC) {
		t.Error("never executed rule reported executed")
	}

	prev := date(2024, 1, 1).Add(9 * time.Hour)
	r.LastExecuted = &prev
	if ExecutedOn(r, day, time.UTC) {
		t.Error("last month's run counted as today")
	}

	today := date(2024, 2, 1).Add(23 * time.Hour)
	r.LastExecuted = &today
	if !ExecutedOn(r, day, time.UTC) {
		t.Error("today's run not detected")
	}

	// 2024-01-31 20:00 UTC is already Feb 1 at +08:00
	late := date(2024, 1, 31).Add(20 * time.Hour)
	r.LastExecuted = &late
	if !ExecutedOn(r, day, time.FixedZone("CST", 8*3600)) {
		t.Error("run should count as Feb 1 in +08:00")
	}
	if ExecutedOn(r, day, time.UTC) {
		t.Error("run should count as Jan 31 in UTC")
	}
}

func TestPlan(t *testing.T) {
	day := civil.Date{Year: 2024, Month: 2, Day: 1}
	ran := date(2024, 2, 1).Add(time.Hour)
	rules := []models.RecurringTransaction{
		*rule(1, date(2024, 1, 1), nil),
		*rule(2, date(2024, 1, 1), nil),
		{ID: 3, DayOfMonth: 1, StartDate: date(2024, 1, 1), IsActive: true, LastExecuted: &ran},
	}
	steps := Plan(day, rules, PolicyExact, time.UTC)
	if len(steps) != 2 {
		t.Fatalf("got %d steps, want 2", len(steps))
	}
	if steps[0].Action != ActionExecute {
		t.Errorf("first step = %v, want execute", steps[0].Action)
	}
	if steps[1].Rule.ID != 3 || steps[1].Action != ActionSkip {
		t.Errorf("second step = %+v, want skip of rule 3", steps[1])
	}
}

func TestParsePolicy(t *testing.T) {
	for in, want := range map[string]MonthEndPolicy{"": PolicyExact, "exact": PolicyExact, "clamp": PolicyClamp} {
		got, err := ParsePolicy(in)
		if err != nil || got != want {
			t.Errorf("ParsePolicy(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParsePolicy("rollover"); err == nil {
		t.Error("unknown policy accepted")
	}
}

func TestDescription(t *testing.T) {
	if got := Description(&models.RecurringTransaction{Name: "Rent"}); got != "Rent (Recurring)" {
		t.Errorf("Description = %q", got)
	}
}

func TestOptionsFromConfig(t *testing.T) {
	opts, err := OptionsFromConfig(config.RecurringConfig{
		Timezone: "Asia/Shanghai", MonthEndPolicy: "clamp", NotifyFailures: true,
	}, zerolog.Nop())
	if err != nil {
		t.Fatalf("OptionsFromConfig: %v", err)
	}
	if opts.Policy != PolicyClamp || opts.Location.String() != "Asia/Shanghai" || !opts.NotifyFailures {
		t.Errorf("opts = %+v", opts)
	}
	if _, err := OptionsFromConfig(config.RecurringConfig{MonthEndPolicy: "nearest"}, zerolog.Nop()); err == nil {
		t.Error("expected error for unknown policy")
	}
	if _, err := OptionsFromConfig(config.RecurringConfig{Timezone: "Mars/Olympus"}, zerolog.Nop()); err == nil {
		t.Error("expected error for unknown timezone")
	}
}
