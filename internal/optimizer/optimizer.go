// Package optimizer rewrites a checked LineScript AST in place: constant
// folding, algebraic identities, inlining, dead-code elimination,
// for-loop unrolling and closed-form reduction, local constant
// propagation, and dead-store pruning (spec §4.4).
package optimizer

import "github.com/linescript-lang/lsc/internal/ast"

// Pass names every optimizer rule, mirroring the teacher's named
// OptimizationPass/OptimizeOption toggle pattern.
type Pass string

const (
	PassConstFold     Pass = "const-fold"
	PassAlgebraic     Pass = "algebraic"
	PassInline        Pass = "inline"
	PassDeadAfterTerm Pass = "dead-after-terminator"
	PassIfCollapse    Pass = "if-collapse"
	PassWhileFalse    Pass = "while-false"
	PassForLoop       Pass = "for-loop"
	PassConstProp     Pass = "const-prop"
	PassDeadStore     Pass = "dead-store"
)

// maxClosedFormFoldIterations bounds the compile-time accumulation loops
// in sumSquaresSeries, tryPairCoupled, tryModularLinear and
// tryAlternatingSign: a reduction whose trip count exceeds this is left
// as a plain loop rather than spending compile time on an O(N) fold.
const maxClosedFormFoldIterations = 1_000_000

// DefaultPasses is the default pass budget (spec §4.4); MaxSpeedPasses
// applies under `-O4`/`--max-speed`.
const (
	DefaultPasses  = 12
	MaxSpeedPasses = 32
)

// Config controls the optimizer's pass budget and per-pass enablement.
type Config struct {
	MaxPasses int
	disabled  map[Pass]bool
}

// Option mutates a Config, mirroring the teacher's functional-option
// idiom for toggling individual passes.
type Option func(*Config)

// WithPass enables or disables a single named pass.
func WithPass(p Pass, enabled bool) Option {
	return func(cfg *Config) {
		if cfg.disabled == nil {
			cfg.disabled = make(map[Pass]bool)
		}
		cfg.disabled[p] = !enabled
	}
}

func NewConfig(maxPasses int, opts ...Option) Config {
	cfg := Config{MaxPasses: maxPasses}
	for _, o := range opts {
		o(&cfg)
	}
	return cfg
}

func (cfg Config) enabled(p Pass) bool { return !cfg.disabled[p] }

type passEntry struct {
	id  Pass
	run func(*optimizer, *ast.Function) bool
}

// optimizer holds the mutable state threaded through a single Run call.
type optimizer struct {
	prog    *ast.Program
	cfg     Config
	passes  []passEntry
	changed bool
}

// Stats reports how many fixpoint iterations actually ran and whether
// the budget was exhausted without reaching a fixpoint.
type Stats struct {
	PassesRun int
	Converged bool
}

// Run applies every enabled pass to every function body and the
// top-level block, repeating until a full iteration makes no change or
// the pass budget is exhausted (spec §4.4).
func Run(prog *ast.Program, cfg Config) Stats {
	if cfg.MaxPasses <= 0 {
		cfg.MaxPasses = DefaultPasses
	}
	o := &optimizer{prog: prog, cfg: cfg}
	o.passes = []passEntry{
		{PassConstFold, (*optimizer).passConstFold},
		{PassAlgebraic, (*optimizer).passAlgebraic},
		{PassInline, (*optimizer).passInline},
		{PassDeadAfterTerm, (*optimizer).passDeadAfterTerminator},
		{PassIfCollapse, (*optimizer).passIfCollapse},
		{PassWhileFalse, (*optimizer).passWhileFalse},
		{PassForLoop, (*optimizer).passForLoop},
		{PassConstProp, (*optimizer).passConstProp},
		{PassDeadStore, (*optimizer).passDeadStore},
	}

	// The top-level block is optimized through the same per-function
	// machinery as a synthetic void, no-params function; its Body is
	// copied back into prog.TopLevel once Run returns.
	top := &ast.Function{Name: "__linescript_script_main", Body: o.prog.TopLevel}
	targets := append([]*ast.Function{}, o.nonExternFunctions()...)
	targets = append(targets, top)

	stats := Stats{}
	for iter := 0; iter < cfg.MaxPasses; iter++ {
		stats.PassesRun++
		anyChange := false
		for _, pass := range o.passes {
			if !cfg.enabled(pass.id) {
				continue
			}
			for _, fn := range targets {
				if pass.run(o, fn) {
					anyChange = true
				}
			}
		}
		if !anyChange {
			stats.Converged = true
			break
		}
	}

	prog.TopLevel = top.Body
	return stats
}

func (o *optimizer) nonExternFunctions() []*ast.Function {
	var fns []*ast.Function
	for _, fn := range o.prog.Functions {
		if !fn.Extern {
			fns = append(fns, fn)
		}
	}
	return fns
}
