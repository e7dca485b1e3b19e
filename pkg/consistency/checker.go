package consistency

import (
	"context"
	"fmt"
	"strings"
	"time"

	"blobaudit.dev/pkg/blobstore"
	"blobaudit.dev/pkg/datafeed"
)

type Status string

const (
	StatusConsistent   Status = "consistent"
	StatusInconsistent Status = "inconsistent"
	StatusRootMissing  Status = "root-missing"
	StatusError        Status = "error"
)

// ExtraPolicy decides what names found but not expected do to a result. The partition in each
// Outcome is the same under every policy.
type ExtraPolicy string

const (
	// ExtraFail makes any extra name an inconsistency.
	ExtraFail ExtraPolicy = "fail"
	// ExtraWarn keeps the status and adds a warning.
	ExtraWarn ExtraPolicy = "warn"
	// ExtraIgnore keeps the status and hides extras from rendered reports.
	ExtraIgnore ExtraPolicy = "ignore"
)

func ParseExtraPolicy(s string) (ExtraPolicy, error) {
	switch p := ExtraPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case ExtraFail, ExtraWarn, ExtraIgnore:
		return p, nil
	case "":
		return ExtraFail, nil
	default:
		return "", fmt.Errorf("unknown extra policy %q, expected fail, warn or ignore", s)
	}
}

// Result is the outcome of checking one Expectation.
type Result struct {
	Expectation string
	Path        string
	Status      Status
	Outcomes    []Outcome
	Warnings    []string
	Error       string
	ErrorKind   string
}

// Counts sums the outcome lists across categories.
func (r *Result) Counts() (present, missing, extra int) {
	for _, o := range r.Outcomes {
		present += len(o.Present)
		missing += len(o.Missing)
		extra += len(o.Extra)
	}

	return present, missing, extra
}

type Report struct {
	Policy    ExtraPolicy
	Generated time.Time
	Results   []Result
}

// Tally counts results per status.
func (r *Report) Tally() map[Status]int {
	t := make(map[Status]int)
	for i := range r.Results {
		t[r.Results[i].Status]++
	}

	return t
}

// OK reports whether every expectation is consistent.
func (r *Report) OK() bool {
	for i := range r.Results {
		if r.Results[i].Status != StatusConsistent {
			return false
		}
	}

	return true
}

// Inventorier reads the tables of one Datafeed folder. datafeed.Scanner implements it.
type Inventorier interface {
	Inventory(ctx context.Context, folder string) (*datafeed.Inventory, error)
}

type Logger interface {
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

type Metrics interface {
	ObserveCheck(status string)
}

type Checker struct {
	inventory Inventorier
	policy    ExtraPolicy
	logger    Logger
	metrics   Metrics
	now       func() time.Time
}

// NewChecker builds a Checker. metrics may be nil.
func NewChecker(inventory Inventorier, policy ExtraPolicy, logger Logger, metrics Metrics) *Checker {
	return &Checker{inventory: inventory, policy: policy, logger: logger, metrics: metrics, now: time.Now}
}

// Check inventories the expectation's Datafeed folder and compares every category.
func (c *Checker) Check(ctx context.Context, exp Expectation) Result {
	res := Result{Expectation: exp.Name, Path: exp.DatafeedPath()}

	inv, err := c.inventory.Inventory(ctx, res.Path)
	if err != nil {
		c.fail(&res, err)
		c.observe(res.Status)

		return res
	}

	for _, f := range inv.Failures {
		res.Warnings = append(res.Warnings, "could not read "+f.Error())
	}

	res.Status = StatusConsistent
	unreadable := inv.Unreadable()

	var errored []datafeed.Failure

	for _, cat := range Categories {
		expected := exp.Expected[cat]
		found := inv.Names(datafeed.Source(cat))

		if len(expected) == 0 && len(found) == 0 {
			continue
		}

		out := Compare(expected, found)
		out.Category = cat

		// Names missing from a source that failed to read are unknown, not absent.
		if f, ok := unreadable[datafeed.Source(cat)]; ok && len(out.Missing) > 0 {
			out.Unverified, out.Missing = out.Missing, make([]string, 0)
			errored = append(errored, f)
		}

		res.Outcomes = append(res.Outcomes, out)

		if len(out.Missing) > 0 {
			res.Status = StatusInconsistent
		}

		if len(out.Extra) > 0 {
			switch c.policy {
			case ExtraWarn:
				res.Warnings = append(res.Warnings,
					fmt.Sprintf("%d unexpected %s table(s): %s", len(out.Extra), cat, strings.Join(out.Extra, ", ")))
			case ExtraIgnore:
			default:
				res.Status = StatusInconsistent
			}
		}
	}

	if len(errored) > 0 {
		c.unreadable(&res, errored)
	}

	c.observe(res.Status)

	return res
}

// unreadable marks res as an error when a read failure leaves expected names unverified. It
// takes precedence over an inconsistency found in another category.
func (c *Checker) unreadable(res *Result, failures []datafeed.Failure) {
	msgs := make([]string, 0, len(failures))
	for _, f := range failures {
		msgs = append(msgs, "could not read "+f.Error())
	}

	res.Status = StatusError
	res.Error = strings.Join(msgs, "; ")

	if kind, ok := blobstore.KindOf(failures[0].Err); ok {
		res.ErrorKind = kind.String()
	}

	c.logger.Errorf("%s: %s", res.Expectation, res.Error)
}

func (c *Checker) fail(res *Result, err error) {
	res.Error = err.Error()

	if blobstore.IsNotFound(err) {
		res.Status = StatusRootMissing
		c.logger.Warnf("%s: datafeed folder %q does not exist", res.Expectation, res.Path)

		return
	}

	res.Status = StatusError

	if kind, ok := blobstore.KindOf(err); ok {
		res.ErrorKind = kind.String()
	}

	c.logger.Errorf("%s: checking %q failed: %v", res.Expectation, res.Path, err)
}

// CheckAll checks every expectation in order. A failure in one never stops the others.
func (c *Checker) CheckAll(ctx context.Context, exps []Expectation) *Report {
	rep := &Report{Policy: c.policy, Generated: c.now(), Results: make([]Result, 0, len(exps))}

	for _, exp := range exps {
		res := c.Check(ctx, exp)
		c.logger.Infof("%s: %s", exp.Name, res.Status)

		rep.Results = append(rep.Results, res)
	}

	return rep
}

func (c *Checker) observe(s Status) {
	if c.metrics != nil {
		c.metrics.ObserveCheck(string(s))
	}
}
