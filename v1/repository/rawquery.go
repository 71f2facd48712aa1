package repository

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"
)

// Dangerous SQL shapes screened out of raw query templates and string
// arguments. Bound parameters are never interpolated, so this is a second
// line of defense, not the primary one.
var dangerousPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i);\s*drop\b`),
	regexp.MustCompile(`--`),
	regexp.MustCompile(`(?is)/\*.*\*/`),
	regexp.MustCompile(`(?i)\b(exec|execute)\s`),
	regexp.MustCompile(`(?i)\b(sp_|xp_)\w+`),
	regexp.MustCompile(`(?i)\bunion\s+(all\s+)?select\b`),
	regexp.MustCompile(`@@\w+`),
}

var (
	writeVerbPattern   = regexp.MustCompile(`(?i)\b(drop|alter|create|truncate|delete|insert|update)\b`)
	whereClausePattern = regexp.MustCompile(`(?i)\bwhere\b`)
	placeholderPattern = regexp.MustCompile(`@(\w+)`)
)

// screenSQL scans text against the dangerous-pattern set. The last rule
// flags DDL/DML verbs with no WHERE clause anywhere after them; RE2 has no
// lookahead, so the absence check is explicit.
func screenSQL(text string) error {
	for _, p := range dangerousPatterns {
		if p.MatchString(text) {
			return &ValidationError{
				Message: "potentially dangerous SQL detected",
				Details: []string{fmt.Sprintf("matched pattern %s", p.String())},
			}
		}
	}
	if loc := writeVerbPattern.FindStringIndex(text); loc != nil {
		if !whereClausePattern.MatchString(text[loc[1]:]) {
			return &ValidationError{
				Message: "potentially dangerous SQL detected",
				Details: []string{"unbounded write statement without a WHERE clause"},
			}
		}
	}
	return nil
}

// RawQueryOption customizes a RawQuery at registration time.
type RawQueryOption func(*rawQuerySettings)

type rawQuerySettings struct {
	timeout        time.Duration
	allowDangerous bool
}

// WithQueryTimeout bounds every execution of the query with d.
func WithQueryTimeout(d time.Duration) RawQueryOption {
	return func(s *rawQuerySettings) { s.timeout = d }
}

// AllowDangerous skips the dangerous-pattern screen on the query template.
// It does not skip call-time screening of string arguments. Reserve it for
// vetted maintenance statements.
func AllowDangerous() RawQueryOption {
	return func(s *rawQuerySettings) { s.allowDangerous = true }
}

// RawQuery is a pre-registered parameterized SQL statement. Validation
// happens once, at registration: the template is screened for dangerous
// patterns and every @name placeholder must correspond to a declared
// parameter. Executions then only bind and run.
//
// T is the row type for All and One, or the scalar type for Scalar; Exec
// ignores it.
type RawQuery[T any] struct {
	name   string
	sql    string
	params map[string]struct{}
	rawQuerySettings
}

// NewRawQuery registers a named query template with its declared parameter
// names. It fails with *ValidationError when the template matches a
// dangerous pattern (unless AllowDangerous) or uses a placeholder that is
// not a declared parameter.
//
// Example:
//
//	q, err := repository.NewRawQuery[Grade]("grades_created_after",
//	    "SELECT * FROM grades WHERE created_at > @cutoff",
//	    []string{"cutoff"})
func NewRawQuery[T any](name, query string, params []string, opts ...RawQueryOption) (*RawQuery[T], error) {
	var settings rawQuerySettings
	for _, opt := range opts {
		opt(&settings)
	}

	normalized := strings.Join(strings.Fields(query), " ")
	if normalized == "" {
		return nil, &ValidationError{Message: fmt.Sprintf("raw query %s is empty", name)}
	}

	if !settings.allowDangerous {
		if err := screenSQL(normalized); err != nil {
			return nil, err
		}
	}

	declared := make(map[string]struct{}, len(params))
	for _, p := range params {
		declared[p] = struct{}{}
	}

	var unknown []string
	for _, m := range placeholderPattern.FindAllStringSubmatch(normalized, -1) {
		if _, ok := declared[m[1]]; !ok {
			unknown = append(unknown, m[1])
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, &ValidationError{
			Message: fmt.Sprintf("raw query %s uses undeclared placeholders", name),
			Details: unknown,
		}
	}

	return &RawQuery[T]{
		name:             name,
		sql:              normalized,
		params:           declared,
		rawQuerySettings: settings,
	}, nil
}

// Name returns the registered query name.
func (q *RawQuery[T]) Name() string { return q.name }

// SQL returns the normalized query template.
func (q *RawQuery[T]) SQL() string { return q.sql }

// validateArgs checks the argument set against the declared parameters and
// re-screens every string value. Parameters are bound, never interpolated;
// screening values guards against injection smuggled through a parameter
// into a later unsafe consumer.
func (q *RawQuery[T]) validateArgs(args map[string]any) error {
	for name := range q.params {
		if _, ok := args[name]; !ok {
			return &ValidationError{Message: fmt.Sprintf("raw query %s: missing argument %q", q.name, name)}
		}
	}
	for name, value := range args {
		if _, ok := q.params[name]; !ok {
			return &ValidationError{Message: fmt.Sprintf("raw query %s: unknown argument %q", q.name, name)}
		}
		if s, ok := value.(string); ok {
			if err := screenSQL(s); err != nil {
				return &ValidationError{Message: fmt.Sprintf("raw query %s: argument %q rejected", q.name, name)}
			}
		}
	}
	return nil
}

func (q *RawQuery[T]) bindCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if q.timeout > 0 {
		return context.WithTimeout(ctx, q.timeout)
	}
	return ctx, func() {}
}

func (q *RawQuery[T]) wrapStoreErr(err error) error {
	return &DatabaseError{Message: err.Error(), Instance: q.name, Err: err}
}

// All runs the query and returns every row mapped to T.
func (q *RawQuery[T]) All(ctx context.Context, sess *GormSession, args map[string]any) ([]T, error) {
	if err := q.validateArgs(args); err != nil {
		return nil, err
	}
	ctx, cancel := q.bindCtx(ctx)
	defer cancel()

	var rows []T
	if err := sess.DB().WithContext(ctx).Raw(q.sql, toNamedArgs(args)).Scan(&rows).Error; err != nil {
		return nil, q.wrapStoreErr(err)
	}
	return rows, nil
}

// One runs the query and returns the first row, or nil when the result set
// is empty. Absence is not an error.
func (q *RawQuery[T]) One(ctx context.Context, sess *GormSession, args map[string]any) (*T, error) {
	rows, err := q.All(ctx, sess, args)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

// Scalar runs the query and scans the first column of the first row into T.
func (q *RawQuery[T]) Scalar(ctx context.Context, sess *GormSession, args map[string]any) (T, error) {
	var out T
	if err := q.validateArgs(args); err != nil {
		return out, err
	}
	ctx, cancel := q.bindCtx(ctx)
	defer cancel()

	if err := sess.DB().WithContext(ctx).Raw(q.sql, toNamedArgs(args)).Scan(&out).Error; err != nil {
		return out, q.wrapStoreErr(err)
	}
	return out, nil
}

// Exec runs the query discarding any result rows and returns the number of
// affected rows.
func (q *RawQuery[T]) Exec(ctx context.Context, sess *GormSession, args map[string]any) (int64, error) {
	if err := q.validateArgs(args); err != nil {
		return 0, err
	}
	ctx, cancel := q.bindCtx(ctx)
	defer cancel()

	res := sess.DB().WithContext(ctx).Exec(q.sql, toNamedArgs(args))
	if res.Error != nil {
		return 0, q.wrapStoreErr(res.Error)
	}
	return res.RowsAffected, nil
}

// toNamedArgs adapts the argument map to gorm's named-parameter binding.
func toNamedArgs(args map[string]any) map[string]any {
	if args == nil {
		return map[string]any{}
	}
	return args
}
