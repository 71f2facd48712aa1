package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestScreenSQLRejectsDangerousTemplates(t *testing.T) {
	cases := []string{
		"DROP TABLE users;",
		"SELECT * FROM users; DROP TABLE users",
		"SELECT * FROM users -- hidden",
		"SELECT * FROM users /* comment */ WHERE id = @id",
		"SELECT * FROM users UNION SELECT password FROM admins",
		"SELECT * FROM users UNION ALL SELECT password FROM admins",
		"SELECT @@version",
		"EXEC sp_configure",
		"DELETE FROM users",
		"TRUNCATE TABLE users",
		"INSERT INTO users (name) VALUES ('x')",
		"UPDATE users SET admin = 1",
	}
	for _, q := range cases {
		_, err := NewRawQuery[int]("bad", q, nil)
		var validation *ValidationError
		if !errors.As(err, &validation) {
			t.Errorf("expected %q to fail setup-time screening, got %v", q, err)
		}
	}
}

func TestScreenSQLAcceptsSafeTemplates(t *testing.T) {
	cases := []struct {
		sql    string
		params []string
	}{
		{"SELECT * FROM grades WHERE created_at > @cutoff", []string{"cutoff"}},
		{"SELECT COUNT(*) FROM grades", nil},
		{"DELETE FROM grades WHERE id = @id", []string{"id"}},
		{"UPDATE grades SET grade_name = @name WHERE id = @id", []string{"name", "id"}},
	}
	for _, c := range cases {
		if _, err := NewRawQuery[int]("ok", c.sql, c.params); err != nil {
			t.Errorf("expected %q to pass screening, got %v", c.sql, err)
		}
	}
}

func TestNewRawQueryRejectsUndeclaredPlaceholders(t *testing.T) {
	_, err := NewRawQuery[int]("mismatch",
		"SELECT * FROM grades WHERE id = @id AND grade_name = @name",
		[]string{"id"})

	var validation *ValidationError
	require.ErrorAs(t, err, &validation)
	require.Contains(t, validation.Error(), "name")
}

func TestNewRawQueryAllowDangerous(t *testing.T) {
	q, err := NewRawQuery[int]("maintenance", "DROP TABLE old_grades", nil, AllowDangerous())
	require.NoError(t, err)
	require.Equal(t, "DROP TABLE old_grades", q.SQL())
}

func TestNewRawQueryNormalizesWhitespace(t *testing.T) {
	q, err := NewRawQuery[int]("spaced",
		"SELECT *\n   FROM grades\n\tWHERE id = @id", []string{"id"})
	require.NoError(t, err)
	require.Equal(t, "SELECT * FROM grades WHERE id = @id", q.SQL())
}

type rqRow struct {
	ID    uint64 `gorm:"primaryKey"`
	Name  string
	Score int
}

func rawQueryDB(t *testing.T) *GormSession {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&rqRow{}))
	require.NoError(t, db.Create(&[]rqRow{
		{Name: "alpha", Score: 1},
		{Name: "beta", Score: 5},
		{Name: "gamma", Score: 9},
	}).Error)
	return NewGormSession(db)
}

func TestRawQueryAll(t *testing.T) {
	sess := rawQueryDB(t)
	q, err := NewRawQuery[rqRow]("scores_above",
		"SELECT * FROM rq_rows WHERE score > @min ORDER BY score", []string{"min"})
	require.NoError(t, err)

	rows, err := q.All(context.Background(), sess, map[string]any{"min": 1})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, "beta", rows[0].Name)
}

func TestRawQueryOne(t *testing.T) {
	sess := rawQueryDB(t)
	q, err := NewRawQuery[rqRow]("by_name",
		"SELECT * FROM rq_rows WHERE name = @name", []string{"name"})
	require.NoError(t, err)

	row, err := q.One(context.Background(), sess, map[string]any{"name": "beta"})
	require.NoError(t, err)
	require.NotNil(t, row)
	require.Equal(t, 5, row.Score)

	// Absence is nil, not an error.
	row, err = q.One(context.Background(), sess, map[string]any{"name": "missing"})
	require.NoError(t, err)
	require.Nil(t, row)
}

func TestRawQueryScalar(t *testing.T) {
	sess := rawQueryDB(t)
	q, err := NewRawQuery[int64]("count_above",
		"SELECT COUNT(*) FROM rq_rows WHERE score >= @min", []string{"min"})
	require.NoError(t, err)

	count, err := q.Scalar(context.Background(), sess, map[string]any{"min": 5})
	require.NoError(t, err)
	require.Equal(t, int64(2), count)
}

func TestRawQueryExec(t *testing.T) {
	sess := rawQueryDB(t)
	q, err := NewRawQuery[int]("bump_score",
		"UPDATE rq_rows SET score = @score WHERE name = @name", []string{"score", "name"})
	require.NoError(t, err)

	affected, err := q.Exec(context.Background(), sess, map[string]any{"score": 10, "name": "alpha"})
	require.NoError(t, err)
	require.Equal(t, int64(1), affected)
}

func TestRawQueryRejectsDangerousArgument(t *testing.T) {
	sess := rawQueryDB(t)
	q, err := NewRawQuery[rqRow]("by_name",
		"SELECT * FROM rq_rows WHERE name = @name", []string{"name"})
	require.NoError(t, err)

	// The query itself is safe; the parameter value is screened anyway.
	_, err = q.All(context.Background(), sess, map[string]any{"name": "1; DROP TABLE users"})
	var validation *ValidationError
	require.ErrorAs(t, err, &validation)
}

func TestRawQueryArgumentSetMustMatch(t *testing.T) {
	sess := rawQueryDB(t)
	q, err := NewRawQuery[rqRow]("by_name",
		"SELECT * FROM rq_rows WHERE name = @name", []string{"name"})
	require.NoError(t, err)

	var validation *ValidationError

	_, err = q.All(context.Background(), sess, map[string]any{})
	require.ErrorAs(t, err, &validation, "missing argument must fail")

	_, err = q.All(context.Background(), sess, map[string]any{"name": "alpha", "extra": 1})
	require.ErrorAs(t, err, &validation, "unknown argument must fail")
}

func TestRawQueryStoreErrorWrapped(t *testing.T) {
	sess := rawQueryDB(t)
	q, err := NewRawQuery[rqRow]("bad_table",
		"SELECT * FROM does_not_exist WHERE id = @id", []string{"id"})
	require.NoError(t, err)

	_, err = q.All(context.Background(), sess, map[string]any{"id": 1})
	var dbErr *DatabaseError
	require.ErrorAs(t, err, &dbErr)
	require.Equal(t, "bad_table", dbErr.Instance)
}
