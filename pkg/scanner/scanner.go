package scanner

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/ccollicutt/outcheck/pkg/logging"
	"github.com/ccollicutt/outcheck/pkg/parser"
)

const (
	// bannerLimit bounds the number of lines echoed from the job banner.
	bannerLimit = 200
	bannerEnd   = "*********"
)

// Scanner classifies log lines into categories.
type Scanner struct {
	rules    []Rule
	chain    []Rule
	settings []SettingRule
	logger   logging.Logger
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithLogger sets the logger used for per-match debug output.
func WithLogger(l logging.Logger) Option {
	return func(s *Scanner) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithRules replaces the rule table. Exclusive rules keep their relative order.
func WithRules(rules []Rule) Option {
	return func(s *Scanner) {
		s.setRules(rules)
	}
}

// WithSettings replaces the settings table.
func WithSettings(settings []SettingRule) Option {
	return func(s *Scanner) {
		s.settings = settings
	}
}

// New creates a Scanner with the default rule and settings tables.
func New(opts ...Option) *Scanner {
	s := &Scanner{
		settings: DefaultSettings(),
		logger:   logging.Discard(),
	}
	s.setRules(DefaultRules())
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Scanner) setRules(rules []Rule) {
	s.rules = s.rules[:0]
	s.chain = s.chain[:0]
	for _, r := range rules {
		if r.Exclusive {
			s.chain = append(s.chain, r)
		} else {
			s.rules = append(s.rules, r)
		}
	}
}

// Rules returns the rule table in evaluation order.
func (s *Scanner) Rules() []Rule {
	out := make([]Rule, 0, len(s.rules)+len(s.chain))
	out = append(out, s.rules...)
	return append(out, s.chain...)
}

// scan holds the per-run state.
type scan struct {
	*Scanner
	res        *Result
	domain     *Domain
	bannerDone bool
}

// Scan classifies every line of the buffered log. It returns parser.ErrNoLines
// for an empty log. A cancelled context stops the scan between lines.
func (s *Scanner) Scan(ctx context.Context, lines []parser.LogLine) (*Result, error) {
	if len(lines) == 0 {
		return nil, parser.ErrNoLines
	}

	st := &scan{
		Scanner: s,
		res: &Result{
			Lines:      len(lines),
			Categories: NewAggregator(),
		},
	}
	buf := newBuffer(lines)

	for i := range lines {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("scan interrupted at line %d: %w", lines[i].LineNum, err)
		}
		v := View{buf: buf, idx: i}
		st.stats(v)
		st.settingsAt(v)
		st.classify(v)
	}

	st.res.Categories.Finalize()
	s.logger.WithFields(logging.Fields{
		"lines":       st.res.Lines,
		"domains":     len(st.res.Domains),
		"diagnostics": st.res.Categories.Diagnostics(),
	}).Debug("scan complete")
	return st.res, nil
}

// classify runs every non-exclusive rule, then the exclusive chain.
func (st *scan) classify(v View) {
	for i := range st.rules {
		r := &st.rules[i]
		if r.Match(v) {
			st.fire(r, v)
		}
	}
	for i := range st.chain {
		r := &st.chain[i]
		if r.Match(v) {
			st.fire(r, v)
			return
		}
	}
}

func (st *scan) fire(r *Rule, v View) {
	line := v.Line()
	fields := logging.Fields{
		"rule":     r.Name,
		"category": r.Category.Label(),
		"line":     line.LineNum,
	}

	val, ok := r.Capture(v)
	if !ok {
		st.logger.WithFields(fields).Debug("capture offset out of range")
		return
	}
	if r.Category.Kind() != KindTiming {
		val = normalizeID(val)
		if !parser.IsDigits(val) {
			st.logger.WithFields(fields).WithField("value", val).Debug("capture is not an identifier")
			return
		}
	}

	st.logger.WithFields(fields).WithField("value", val).Debug("match")
	st.res.Categories.Record(r.Category, val)

	if r.Category == TyingDebug {
		st.res.Tying = append(st.res.Tying, TyingRecord{
			Inserted: val,
			Hosts:    tyingHosts(v),
		})
	}
}

// tyingHosts collects the host nodes that follow the inserted node in a
// tying debug printout.
func tyingHosts(v View) []string {
	var hosts []string
	for k := 14; k <= 17; k++ {
		w, ok := v.Stream(k)
		if !ok {
			break
		}
		w = normalizeID(w)
		if parser.IsDigits(w) {
			hosts = append(hosts, w)
		}
	}
	return hosts
}

// stats updates the line-level counters.
func (st *scan) stats(v View) {
	content := v.Line().Content
	stats := &st.res.Stats

	if strings.Contains(content, "*** error") {
		stats.Errors++
	}
	if strings.Contains(content, "warning") && !containsWord(v.buf.raw[v.idx], "interdomain") {
		stats.Warnings++
	}
	if strings.Contains(content, " words failed") {
		stats.FailedWords = append(stats.FailedWords, strings.TrimSpace(content))
	}
	if strings.Contains(content, "continue") {
		stats.Loadcases++
	}
}

func containsWord(t parser.Tokens, w string) bool {
	for _, x := range t {
		if x == w {
			return true
		}
	}
	return false
}

// current returns the domain section receiving settings, opening the
// preamble section on first use.
func (st *scan) current() *Domain {
	if st.domain == nil {
		st.domain = &Domain{}
		st.res.Domains = append(st.res.Domains, st.domain)
	}
	return st.domain
}

func (st *scan) set(label, value string) {
	d := st.current()
	d.Settings = append(d.Settings, Setting{Label: label, Value: value})
}

// settingsAt echoes analysis parameters and run progress found at v.
func (st *scan) settingsAt(v View) {
	t := v.Tokens()

	// version: Marc 2014.0.0, Build 282796 ...
	if t.Is(0, "version:") && t.Is(1, "Marc") {
		next := 1
		if st.domain != nil {
			next = st.domain.Number + 1
		}
		st.domain = &Domain{Number: next}
		st.res.Domains = append(st.res.Domains, st.domain)
	}

	for i := range st.settings {
		r := &st.settings[i]
		if val, ok := r.match(v); ok {
			st.set(r.Label, val)
		}
	}

	switch {
	case t.Is(0, "number") && t.Is(2, "element") && t.Is(3, "groups"):
		st.elementGroups(v)
	case t.Is(0, "*") && t.Is(1, "*") && t.Is(2, "*") && t.Is(3, "*") && !st.bannerDone:
		st.banner(v)
	case t.Is(0, "solver") && t.Absent(1):
		a, ok1 := v.Ahead(2, 0)
		b, ok2 := v.Ahead(2, 1)
		if ok1 && ok2 {
			st.set("Solver", a+" "+b)
		}
	case t.Is(0, "memory") && t.Is(1, "increasing"):
		st.memory(v)
	case t.Is(0, "iteration") && t.Is(2, "projection"):
		d := st.current()
		if !d.projectionWarned {
			d.projectionWarned = true
			st.set("WARNING", "Iteration During Projection on Quadratic Segment Not Converged")
		}
	case t.Is(0, "total") && t.Is(1, "time:"):
		if w, ok := t.At(2); ok {
			st.res.TotalTime = w
		}
	// s t a r t   o f   i n c r e m e n t   12
	case t.Is(0, "s") && t.Is(1, "t") && t.Is(2, "a"):
		if w, ok := t.At(16); ok {
			st.res.Increment = w
		}
	case t.Is(0, "increment") && t.Is(3, "converged") && t.Is(8, "continued"):
		st.res.Proceeds++
	}
}

// elementGroups echoes the element groups table: the header line, the
// column line and one line per group.
func (st *scan) elementGroups(v View) {
	w, ok := v.Word(5)
	if !ok {
		return
	}
	n, err := strconv.Atoi(w)
	if err != nil || n < 0 {
		st.logger.WithField("value", w).Debug("element group count is not a number")
		return
	}
	var block []string
	for j := 0; j <= n+1; j++ {
		line, ok := v.LineAt(j)
		if !ok {
			break
		}
		block = append(block, strings.TrimSpace(line))
	}
	d := st.current()
	d.Settings = append(d.Settings, Setting{Label: "Element Groups", Value: w, Block: block})
}

// banner echoes the job-parameter block that follows the first starred
// banner line.
func (st *scan) banner(v View) {
	st.bannerDone = true
	for j := 1; j <= bannerLimit; j++ {
		line, ok := v.LineAt(j)
		if !ok || strings.Contains(line, bannerEnd) {
			return
		}
		st.res.Banner = append(st.res.Banner, strings.TrimSpace(line))
	}
}

// memory tallies "memory increasing ... by N MB" messages.
func (st *scan) memory(v View) {
	w, ok := v.Word(6)
	if !ok {
		return
	}
	mb, err := strconv.ParseFloat(w, 64)
	if err != nil {
		st.logger.WithField("value", w).Debug("memory increase is not a number")
		return
	}
	d := st.current()
	d.Memory.Increases++
	d.Memory.TotalMB += mb
}
