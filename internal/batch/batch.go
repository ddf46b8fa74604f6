// Package batch runs the compiler pipeline over many independent MDSL
// sources in parallel, caching emitted output by content hash. Sources
// are independent: MDSL has no cross-file IMPORT resolution semantics
// the batch runner needs to order around, so every job can run
// concurrently.
package batch

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pacedproton/mdslc/internal/batch/cache"
	"github.com/pacedproton/mdslc/internal/compiler/codegen/cypher"
	"github.com/pacedproton/mdslc/internal/compiler/codegen/sql"
	"github.com/pacedproton/mdslc/internal/compiler/diag"
	"github.com/pacedproton/mdslc/internal/compiler/ir"
	"github.com/pacedproton/mdslc/internal/compiler/lexer"
	"github.com/pacedproton/mdslc/internal/compiler/parser"
	"github.com/pacedproton/mdslc/internal/compiler/validator"
)

// Source is one MDSL file submitted to a batch run.
type Source struct {
	Path string `json:"path"`
	Text string `json:"text"`
}

// Result is the outcome of compiling one Source.
type Result struct {
	JobID       string
	Path        string
	SQL         string
	Cypher      string
	Diagnostics []diag.Issue
	Err         error
	Cached      bool
	Duration    time.Duration
}

// Runner executes the full pipeline (lex, parse, validate, lower,
// generate) over a batch of sources.
type Runner struct {
	logger    *zap.Logger
	outputs   cache.Cache
	sqlGen    sql.Generator
	cypherGen cypher.Generator
	maxConc   int
}

// Option configures a Runner.
type Option func(*Runner)

// WithCache attaches an output cache backend.
func WithCache(c cache.Cache) Option {
	return func(r *Runner) { r.outputs = c }
}

// WithSQLGenerator overrides the default StandardGenerator SQL back end.
func WithSQLGenerator(g sql.Generator) Option {
	return func(r *Runner) { r.sqlGen = g }
}

// WithCypherGenerator overrides the default Cypher back end.
func WithCypherGenerator(g cypher.Generator) Option {
	return func(r *Runner) { r.cypherGen = g }
}

// WithConcurrency caps the number of files compiled simultaneously. 0
// means unlimited (errgroup's default).
func WithConcurrency(n int) Option {
	return func(r *Runner) { r.maxConc = n }
}

// NewRunner creates a Runner. A nil logger falls back to zap.NewNop().
func NewRunner(logger *zap.Logger, opts ...Option) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Runner{
		logger:    logger,
		outputs:   cache.NewMemoryCache(),
		sqlGen:    sql.New(),
		cypherGen: cypher.New(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// CompileAll compiles every source concurrently and returns results in
// the same order as sources. A per-file error never aborts the batch;
// it is recorded on that file's Result.
func (r *Runner) CompileAll(ctx context.Context, sources []Source) ([]*Result, error) {
	results := make([]*Result, len(sources))

	group, gctx := errgroup.WithContext(ctx)
	if r.maxConc > 0 {
		group.SetLimit(r.maxConc)
	}

	for i, src := range sources {
		i, src := i, src
		group.Go(func() error {
			results[i] = r.compileOne(gctx, src)
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

func (r *Runner) compileOne(ctx context.Context, src Source) *Result {
	jobID := uuid.NewString()
	start := time.Now()
	logger := r.logger.With(zap.String("job_id", jobID), zap.String("path", src.Path))

	result := &Result{JobID: jobID, Path: src.Path}
	defer func() { result.Duration = time.Since(start) }()

	hash := contentHash(src.Text)
	if cached, err := r.outputs.Get(ctx, hash); err == nil {
		sqlOut, cypherOut, ok := splitCachedOutput(cached)
		if ok {
			logger.Debug("batch: cache hit")
			result.SQL, result.Cypher, result.Cached = sqlOut, cypherOut, true
			return result
		}
	}

	tokens, lexErrs := lexer.Tokenize(src.Text)
	if len(lexErrs) > 0 {
		logger.Warn("batch: lex errors", zap.Int("count", len(lexErrs)))
		result.Err = lexErrs[0]
		return result
	}

	program, parseErr := parser.Parse(tokens)
	if parseErr != nil {
		logger.Warn("batch: parse error", zap.Error(parseErr))
		result.Err = parseErr
		return result
	}

	result.Diagnostics = validator.Validate(program)

	irProgram, bag, err := ir.Transform(program)
	if err != nil {
		logger.Warn("batch: transform error", zap.Error(err))
		result.Err = err
		return result
	}
	result.Diagnostics = append(result.Diagnostics, bag.Issues()...)

	sqlOut, err := r.sqlGen.Generate(irProgram)
	if err != nil {
		result.Err = err
		return result
	}
	cypherOut, err := r.cypherGen.Generate(irProgram)
	if err != nil {
		result.Err = err
		return result
	}

	result.SQL, result.Cypher = sqlOut, cypherOut
	if err := r.outputs.Set(ctx, hash, joinCachedOutput(sqlOut, cypherOut), 0); err != nil {
		logger.Warn("batch: failed to populate output cache", zap.Error(err))
	}

	logger.Debug("batch: compiled", zap.Duration("duration", time.Since(start)))
	return result
}

// outputSeparator is a delimiter that cannot appear in generated SQL or
// Cypher, since both back ends always terminate statements with ';'.
const outputSeparator = "\x00\x00"

func joinCachedOutput(sqlOut, cypherOut string) []byte {
	return []byte(sqlOut + outputSeparator + cypherOut)
}

func splitCachedOutput(blob []byte) (sqlOut, cypherOut string, ok bool) {
	s := string(blob)
	for i := 0; i+len(outputSeparator) <= len(s); i++ {
		if s[i:i+len(outputSeparator)] == outputSeparator {
			return s[:i], s[i+len(outputSeparator):], true
		}
	}
	return "", "", false
}
