package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/ppiankov/qfilter/internal/filters"
)

// Op is the edit applied to each query in a batch
type Op string

const (
	OpResolve Op = "resolve"  // Report the active result type
	OpSetType Op = "set-type" // Rewrite the query to a result type
)

// ParseOp validates an operation name
func ParseOp(name string) (Op, error) {
	switch Op(name) {
	case OpResolve, OpSetType:
		return Op(name), nil
	default:
		return "", fmt.Errorf("unknown batch operation %q (want %s or %s)", name, OpResolve, OpSetType)
	}
}

// Editor is the subset of filters.Editor a batch needs
type Editor interface {
	ResolveActiveType(q string) filters.SearchFilterType
	ApplyTypeChange(q string, newType filters.SearchFilterType) string
}

// QueryJob applies one operation to one query
type QueryJob struct {
	Index  int
	Query  string
	Op     Op
	Type   filters.SearchFilterType // Target type for OpSetType
	Editor Editor
}

// Execute executes the query job
func (j *QueryJob) Execute(ctx context.Context) Result {
	res := &QueryResult{Index: j.Index, Query: j.Query}
	if err := ctx.Err(); err != nil {
		res.Error = err
		return res
	}

	switch j.Op {
	case OpSetType:
		res.Output = j.Editor.ApplyTypeChange(j.Query, j.Type)
	default:
		res.Output = j.Query
	}
	res.Type = j.Editor.ResolveActiveType(res.Output)
	return res
}

// QueryResult represents the result of a query job
type QueryResult struct {
	Index  int                      `json:"index" yaml:"index"`
	Query  string                   `json:"query" yaml:"query"`
	Output string                   `json:"output" yaml:"output"`
	Type   filters.SearchFilterType `json:"type" yaml:"type"`
	Error  error                    `json:"-" yaml:"-"`
}

// GetError returns the error from the query result
func (r *QueryResult) GetError() error {
	return r.Error
}

// BatchProcessor processes many queries concurrently
type BatchProcessor struct {
	editor      Editor
	concurrency int
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(editor Editor, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		editor:      editor,
		concurrency: concurrency,
	}
}

// ProcessQueries applies op to every query and returns results in input order
func (b *BatchProcessor) ProcessQueries(ctx context.Context, queries []string, op Op, typ filters.SearchFilterType) []*QueryResult {
	if len(queries) == 0 {
		return []*QueryResult{}
	}

	pool := NewPool(ctx, b.concurrency)
	pool.Start()

	for i, q := range queries {
		job := &QueryJob{
			Index:  i,
			Query:  q,
			Op:     op,
			Type:   typ,
			Editor: b.editor,
		}
		if !pool.Submit(job) {
			break
		}
	}

	results := pool.Wait()

	out := make([]*QueryResult, len(queries))
	for _, result := range results {
		qr := result.(*QueryResult)
		out[qr.Index] = qr
	}
	// Jobs never queued because the context ended
	for i := range out {
		if out[i] == nil {
			err := ctx.Err()
			if err == nil {
				err = context.Canceled
			}
			out[i] = &QueryResult{Index: i, Query: queries[i], Error: err}
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out
}

// ProcessFile reads queries from a file and processes them concurrently
func (b *BatchProcessor) ProcessFile(ctx context.Context, filePath string, op Op, typ filters.SearchFilterType) ([]*QueryResult, error) {
	queries, err := ReadQueriesFromFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read queries: %w", err)
	}

	return b.ProcessQueries(ctx, queries, op, typ), nil
}

// ReadQueriesFromFile reads queries from a file (one per line). Blank lines
// and lines starting with '#' are skipped; duplicates are kept since each
// line is reported.
func ReadQueriesFromFile(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var queries []string

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		queries = append(queries, line)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return queries, nil
}
