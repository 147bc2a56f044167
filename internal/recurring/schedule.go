// Package recurring materializes recurring rules into transactions.
//
// Planning is a pure function of the day and the rule set; Processor
// executes a plan against the store, one unit of work per rule.
package recurring

import (
	"fmt"
	"time"

	"cloud.google.com/go/civil"

	"pocket-ledger/internal/models"
)

// MonthEndPolicy decides what happens to day_of_month values a month lacks.
type MonthEndPolicy string

const (
	// PolicyExact fires only when the day matches; day 31 never fires in April.
	PolicyExact MonthEndPolicy = "exact"
	// PolicyClamp fires such rules on the month's last day instead.
	PolicyClamp MonthEndPolicy = "clamp"
)

func ParsePolicy(s string) (MonthEndPolicy, error) {
	switch MonthEndPolicy(s) {
	case "", PolicyExact:
		return PolicyExact, nil
	case PolicyClamp:
		return PolicyClamp, nil
	}
	return "", fmt.Errorf("unknown month end policy %q", s)
}

func lastDayOfMonth(d civil.Date) int {
	return civil.Date{Year: d.Year, Month: d.Month + 1, Day: 0}.In(time.UTC).Day()
}

// IsDue reports whether rule fires on day: active, day inside
// [StartDate, EndDate] inclusive, and day_of_month matching under policy.
func IsDue(rule *models.RecurringTransaction, day civil.Date, policy MonthEndPolicy) bool {
	if !rule.IsActive {
		return false
	}
	if day.Before(civil.DateOf(rule.StartDate.UTC())) {
		return false
	}
	if rule.EndDate != nil && day.After(civil.DateOf(rule.EndDate.UTC())) {
		return false
	}
	if rule.DayOfMonth == day.Day {
		return true
	}
	return policy == PolicyClamp &&
		day.Day == lastDayOfMonth(day) &&
		rule.DayOfMonth > day.Day
}

// ExecutedOn reports whether the rule already ran on day or later, reading
// last_executed in loc.
func ExecutedOn(rule *models.RecurringTransaction, day civil.Date, loc *time.Location) bool {
	if rule.LastExecuted == nil {
		return false
	}
	return !civil.DateOf(rule.LastExecuted.In(loc)).Before(day)
}

type Action int

const (
	ActionExecute Action = iota
	ActionSkip
)

type Step struct {
	Rule   models.RecurringTransaction
	Action Action
}

// Plan decides, for each rule due on day, whether to execute or skip it.
// Rules that are not due are left out.
func Plan(day civil.Date, rules []models.RecurringTransaction, policy MonthEndPolicy, loc *time.Location) []Step {
	steps := make([]Step, 0, len(rules))
	for _, r := range rules {
		if !IsDue(&r, day, policy) {
			continue
		}
		action := ActionExecute
		if ExecutedOn(&r, day, loc) {
			action = ActionSkip
		}
		steps = append(steps, Step{Rule: r, Action: action})
	}
	return steps
}

// Description is the text put on materialized transactions.
func Description(rule *models.RecurringTransaction) string {
	return rule.Name + " (Recurring)"
}
