// Package refresh coordinates on-demand refreshes across every process
// that shares the state directory: one execution lock for all categories,
// a per-category cooldown checked before and after taking the lock, and
// the timestamp persisted before the collector runs.
package refresh

import (
	"context"
	stderrors "errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rileyhilliard/clusterwatch/internal/collect"
	"github.com/rileyhilliard/clusterwatch/internal/cooldown"
	"github.com/rileyhilliard/clusterwatch/internal/errors"
	"github.com/rileyhilliard/clusterwatch/internal/health"
	"github.com/rileyhilliard/clusterwatch/internal/lock"
	"github.com/rileyhilliard/clusterwatch/internal/logger"
)

// Category is the refresh policy of one category.
type Category struct {
	Cooldown time.Duration

	// Summary makes a refresh parse the collector output and save the
	// host health summary.
	Summary bool
}

// TimestampStore persists the last refresh start per category. Read
// returns the zero time when no usable value exists.
type TimestampStore interface {
	Read(category string) time.Time
	Write(category string, t time.Time) error
}

// SummaryStore persists the host health summary.
type SummaryStore interface {
	Load() health.Summary
	Save(summary health.Summary) error
}

// Options configures a Coordinator. Locker, Timestamps and Collector are
// required. Summaries is required when any category records a summary.
type Options struct {
	Categories map[string]Category
	Locker     lock.Locker
	Timestamps TimestampStore
	Summaries  SummaryStore
	Collector  collect.Collector

	// Parse turns collector stdout into a summary. Defaults to health.Parse.
	Parse func(text string) health.Summary

	// Expected lists the reference hosts. Hosts missing from a parsed
	// summary are reported in Result.Unclassified.
	Expected []string

	// Now defaults to time.Now.
	Now func() time.Time

	// Location is the zone "available at" times are reported in.
	// Defaults to time.Local.
	Location *time.Location

	// Logger defaults to logger.Noop().
	Logger logger.Logger
}

// Coordinator runs refreshes. It holds no mutable state of its own; all
// coordination goes through the lock and the timestamp store.
type Coordinator struct {
	categories map[string]Category
	locker     lock.Locker
	timestamps TimestampStore
	summaries  SummaryStore
	collector  collect.Collector
	parse      func(string) health.Summary
	expected   []string
	now        func() time.Time
	loc        *time.Location
	log        logger.Logger
}

// New validates opts and builds a Coordinator.
func New(opts Options) (*Coordinator, error) {
	if opts.Locker == nil || opts.Timestamps == nil || opts.Collector == nil {
		return nil, errors.New(errors.ErrConfig,
			"Refresh coordinator is missing a lock, timestamp store or collector",
			"This is a bug. Build the coordinator through the CLI wiring.")
	}
	if len(opts.Categories) == 0 {
		return nil, errors.New(errors.ErrConfig,
			"No refresh categories configured",
			"Add at least one entry under 'categories' in .clusterwatch.yaml")
	}
	for name, cat := range opts.Categories {
		if cat.Cooldown <= 0 {
			return nil, errors.New(errors.ErrConfig,
				fmt.Sprintf("Category '%s' has no cooldown", name),
				"Set a positive duration like 5m")
		}
		if cat.Summary && opts.Summaries == nil {
			return nil, errors.New(errors.ErrConfig,
				fmt.Sprintf("Category '%s' records a summary but no summary store is set", name),
				"Configure the 'summary' path")
		}
	}

	c := &Coordinator{
		categories: make(map[string]Category, len(opts.Categories)),
		locker:     opts.Locker,
		timestamps: opts.Timestamps,
		summaries:  opts.Summaries,
		collector:  opts.Collector,
		parse:      opts.Parse,
		expected:   append([]string(nil), opts.Expected...),
		now:        opts.Now,
		loc:        opts.Location,
		log:        opts.Logger,
	}
	for name, cat := range opts.Categories {
		c.categories[name] = cat
	}
	if c.parse == nil {
		c.parse = health.Parse
	}
	if c.now == nil {
		c.now = time.Now
	}
	if c.loc == nil {
		c.loc = time.Local
	}
	if c.log == nil {
		c.log = logger.Noop()
	}
	return c, nil
}

// Categories returns the configured category names, sorted.
func (c *Coordinator) Categories() []string {
	names := make([]string, 0, len(c.categories))
	for name := range c.categories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Now returns the coordinator clock's current time.
func (c *Coordinator) Now() time.Time {
	return c.now()
}

// Status is the cooldown state of a category.
type Status struct {
	Category    string
	Cooldown    time.Duration
	Last        time.Time // zero if never refreshed
	Decision    cooldown.Decision
	AvailableAt time.Time // zero when a refresh is allowed now
}

// Status reads the category's timestamp and evaluates its cooldown.
func (c *Coordinator) Status(category string) (Status, error) {
	cat, err := c.category(category)
	if err != nil {
		return Status{}, err
	}
	last := c.timestamps.Read(category)
	st := Status{
		Category: category,
		Cooldown: cat.Cooldown,
		Last:     last,
		Decision: cooldown.Evaluate(last, cat.Cooldown, c.now()),
	}
	if !st.Decision.Allowed {
		st.AvailableAt = cooldown.AvailableAt(last, cat.Cooldown, c.loc)
	}
	return st, nil
}

// Check is the advisory pre-check run before offering a refresh. It does
// not take the lock, so an allowed answer can go stale; Run re-checks.
func (c *Coordinator) Check(category string) (cooldown.Decision, error) {
	cat, err := c.category(category)
	if err != nil {
		return cooldown.Decision{}, err
	}
	return cooldown.Evaluate(c.timestamps.Read(category), cat.Cooldown, c.now()), nil
}

// Refresh runs the pre-check and, when it allows, the attempt itself.
func (c *Coordinator) Refresh(ctx context.Context, category string) Result {
	decision, err := c.Check(category)
	if err != nil {
		return Result{Category: category, Outcome: OutcomeUnknownCategory, Err: err, Trail: []State{StateIdle}}
	}
	if !decision.Allowed {
		c.log.Info("%s: cooling down, %ds left", category, decision.Seconds())
		return Result{Category: category, Outcome: OutcomeCooldownActive, Decision: decision, Trail: []State{StateIdle}}
	}
	return c.Run(ctx, category)
}

// Run attempts a refresh whose pre-check already passed. Every failure is
// reported in the Result; the lock, once taken, is released exactly once
// on every path, including a panicking collector.
func (c *Coordinator) Run(ctx context.Context, category string) (res Result) {
	res = Result{Category: category}
	c.enter(&res, StateIdle)

	cat, err := c.category(category)
	if err != nil {
		res.Outcome = OutcomeUnknownCategory
		res.Err = err
		return res
	}

	c.enter(&res, StateLockPending)
	handle, err := c.locker.TryAcquire(category)
	if err != nil {
		if stderrors.Is(err, lock.ErrLocked) {
			c.enter(&res, StateLockDenied)
			res.Outcome = OutcomeLockDenied
			c.log.Info("%s: refresh lock is held elsewhere", category)
		} else {
			res.Outcome = OutcomeLockError
			c.log.Error("%s: taking refresh lock: %v", category, err)
		}
		res.Err = err
		c.enter(&res, StateIdle)
		return res
	}

	start := c.now()
	defer func() {
		if r := recover(); r != nil {
			res.Outcome = OutcomeCollectorFailed
			res.Err = errors.New(errors.ErrCollect,
				fmt.Sprintf("Collector for '%s' panicked: %v", category, r),
				"This is a bug. Re-run with --verbose and report it.")
			c.log.Error("%s: collector panicked: %v", category, r)
		}
		if rerr := handle.Release(); rerr != nil {
			res.ReleaseErr = rerr
			c.log.Warn("%s: releasing refresh lock: %v", category, rerr)
		}
		res.Duration = c.now().Sub(start)
		c.enter(&res, StateIdle)
		c.log.Debug("%s: finished with %s", category, res.Outcome)
	}()

	c.enter(&res, StateValidating)
	res.Decision = cooldown.Evaluate(c.timestamps.Read(category), cat.Cooldown, c.now())
	if !res.Decision.Allowed {
		c.enter(&res, StateCooldownRejected)
		res.Outcome = OutcomeCooldownRace
		c.log.Info("%s: refreshed by another viewer, %ds left", category, res.Decision.Seconds())
		return res
	}

	// The timestamp marks the attempt, not its success, so it is written
	// before the collector runs.
	stamp := c.now()
	if err := c.timestamps.Write(category, stamp); err != nil {
		res.Outcome = OutcomeStateError
		res.Err = err
		c.log.Error("%s: writing refresh timestamp: %v", category, err)
		return res
	}
	res.StartedAt = stamp

	c.enter(&res, StateExecuting)
	out, err := c.collector.Collect(ctx, category)
	res.ExitCode = out.ExitCode
	res.Stderr = string(out.Stderr)
	if err != nil {
		if stderrors.Is(err, collect.ErrCollectorUnavailable) {
			res.Outcome = OutcomeCollectorUnavailable
		} else {
			res.Outcome = OutcomeCollectorFailed
		}
		res.Err = err
		c.log.Warn("%s: collector did not run: %v", category, err)
		return res
	}
	if !out.Succeeded() && !out.HasOutput() {
		res.Outcome = OutcomeCollectorFailed
		res.Err = errors.New(errors.ErrCollect,
			fmt.Sprintf("Playbook for '%s' exited with status %d and no output", category, out.ExitCode),
			"Run the playbook by hand to see what went wrong")
		c.log.Warn("%s: collector exited %d with no output", category, out.ExitCode)
		return res
	}

	c.enter(&res, StatePersisting)
	if cat.Summary {
		summary := c.parse(string(out.Stdout)).Normalize()
		if err := c.summaries.Save(summary); err != nil {
			res.Outcome = OutcomeStateError
			res.Err = err
			c.log.Error("%s: saving health summary: %v", category, err)
			return res
		}
		res.Summary = &summary
		if len(c.expected) > 0 {
			res.Unclassified = summary.Missing(c.expected)
		}
	}

	if out.Succeeded() {
		res.Outcome = OutcomeSucceeded
		c.log.Info("%s: refresh succeeded", category)
	} else {
		res.Outcome = OutcomeDegraded
		c.log.Warn("%s: collector exited %d, saved partial results", category, out.ExitCode)
	}
	return res
}

func (c *Coordinator) enter(res *Result, s State) {
	if n := len(res.Trail); n > 0 {
		c.log.Debug("%s: %s -> %s", res.Category, res.Trail[n-1], s)
	}
	res.enter(s)
}

func (c *Coordinator) category(name string) (Category, error) {
	cat, ok := c.categories[name]
	if !ok {
		return Category{}, errors.New(errors.ErrConfig,
			fmt.Sprintf("Unknown refresh category '%s'", name),
			fmt.Sprintf("Available categories: %s", strings.Join(c.Categories(), ", ")))
	}
	return cat, nil
}

