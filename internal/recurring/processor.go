package recurring

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"pocket-ledger/internal/apperr"
	"pocket-ledger/internal/auth"
	"pocket-ledger/internal/config"
	"pocket-ledger/internal/models"
	"pocket-ledger/internal/repository"
)

// Recorder persists a transaction and its balance effect inside store.
type Recorder interface {
	Record(ctx context.Context, store repository.Store, owner auth.Owner, t *models.Transaction) error
}

type Options struct {
	Policy         MonthEndPolicy
	Location       *time.Location
	NotifyFailures bool
	Logger         zerolog.Logger
}

// OptionsFromConfig resolves the recurring section of the config.
func OptionsFromConfig(cfg config.RecurringConfig, log zerolog.Logger) (Options, error) {
	policy, err := ParsePolicy(cfg.MonthEndPolicy)
	if err != nil {
		return Options{}, err
	}
	loc, err := cfg.Location()
	if err != nil {
		return Options{}, fmt.Errorf("load timezone: %w", err)
	}
	return Options{
		Policy:         policy,
		Location:       loc,
		NotifyFailures: cfg.NotifyFailures,
		Logger:         log.With().Str("component", "recurring").Logger(),
	}, nil
}

type Failure struct {
	RuleID uint   `json:"rule_id"`
	UserID uint   `json:"user_id"`
	Error  string `json:"error"`
}

type Result struct {
	RunID     string     `json:"run_id"`
	Day       civil.Date `json:"day"`
	Processed int        `json:"processed"`
	Skipped   int        `json:"skipped"`
	Failed    int        `json:"failed"`
	NotRun    int        `json:"not_run"`
	Failures  []Failure  `json:"failures"`
}

// errClaimLost means another run marked the rule first.
var errClaimLost = errors.New("rule already executed today")

type Processor struct {
	store    repository.Store
	recorder Recorder
	opts     Options
}

func NewProcessor(store repository.Store, recorder Recorder, opts Options) *Processor {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Policy == "" {
		opts.Policy = PolicyExact
	}
	return &Processor{store: store, recorder: recorder, opts: opts}
}

// Run materializes every user's rules due on the calendar day of now.
func (p *Processor) Run(ctx context.Context, now time.Time) (Result, error) {
	return p.run(ctx, nil, now)
}

// RunFor is Run restricted to one owner's rules.
func (p *Processor) RunFor(ctx context.Context, owner auth.Owner, now time.Time) (Result, error) {
	if err := owner.Check(); err != nil {
		return Result{}, err
	}
	return p.run(ctx, &owner, now)
}

func (p *Processor) run(ctx context.Context, owner *auth.Owner, now time.Time) (Result, error) {
	day := civil.DateOf(now.In(p.opts.Location))
	res := Result{RunID: uuid.NewString(), Day: day, Failures: []Failure{}}
	log := p.opts.Logger.With().Str("run_id", res.RunID).Str("day", day.String()).Logger()

	rules, err := p.store.Recurring().FindDue(ctx, repository.DueQuery{
		Day:           day.In(time.UTC),
		ClampMonthEnd: p.opts.Policy == PolicyClamp,
		Owner:         owner,
	})
	if err != nil {
		return res, fmt.Errorf("find due rules: %w", err)
	}

	steps := Plan(day, rules, p.opts.Policy, p.opts.Location)
	// last_executed older than this instant belongs to an earlier day
	dayStart := day.In(p.opts.Location).UTC()

	for i, st := range steps {
		if err := ctx.Err(); err != nil {
			res.NotRun = len(steps) - i
			log.Warn().Err(err).Int("not_run", res.NotRun).Msg("recurring run interrupted")
			return res, err
		}
		rule := st.Rule
		if st.Action == ActionSkip {
			res.Skipped++
			continue
		}

		err := p.execute(ctx, &rule, day, dayStart, now.UTC())
		switch {
		case err == nil:
			res.Processed++
			log.Info().Uint("rule_id", rule.ID).Uint("user_id", rule.UserID).Msg("recurring transaction created")
		case errors.Is(err, errClaimLost):
			res.Skipped++
		default:
			res.Failed++
			res.Failures = append(res.Failures, Failure{RuleID: rule.ID, UserID: rule.UserID, Error: apperr.PublicMessage(err)})
			log.Error().Err(err).Uint("rule_id", rule.ID).Uint("user_id", rule.UserID).Msg("recurring rule failed")
			p.notify(ctx, &rule, day, err, log)
		}
	}

	log.Info().
		Int("processed", res.Processed).
		Int("skipped", res.Skipped).
		Int("failed", res.Failed).
		Msg("recurring run finished")
	return res, nil
}

// execute creates the transaction, applies the balance and claims the rule
// for the day, in that order and in one unit of work.
func (p *Processor) execute(ctx context.Context, rule *models.RecurringTransaction, day civil.Date, dayStart, at time.Time) error {
	owner := auth.NewOwner(rule.UserID)
	return p.store.Atomic(ctx, func(tx repository.Store) error {
		accountID, ruleID := rule.AccountID, rule.ID
		t := &models.Transaction{
			AccountID:   &accountID,
			CategoryID:  rule.CategoryID,
			RecurringID: &ruleID,
			Type:        rule.Type,
			AmountCent:  rule.AmountCent,
			Date:        day.In(time.UTC), // run day only, time of day dropped
			Description: Description(rule),
		}
		if err := p.recorder.Record(ctx, tx, owner, t); err != nil {
			return err
		}
		claimed, err := tx.Recurring().MarkExecuted(ctx, owner, rule.ID, at, dayStart)
		if err != nil {
			return err
		}
		if !claimed {
			return errClaimLost
		}
		return nil
	})
}

func (p *Processor) notify(ctx context.Context, rule *models.RecurringTransaction, day civil.Date, cause error, log zerolog.Logger) {
	if !p.opts.NotifyFailures {
		return
	}
	n := &models.Notification{
		Type:    models.NotificationRecurringFailed,
		Title:   "Recurring transaction failed",
		Message: fmt.Sprintf("%q could not be recorded on %s: %s", rule.Name, day, apperr.PublicMessage(cause)),
	}
	if err := p.store.Notifications().Create(ctx, auth.NewOwner(rule.UserID), n); err != nil {
		log.Warn().Err(err).Uint("rule_id", rule.ID).Msg("failure notification not stored")
	}
}
