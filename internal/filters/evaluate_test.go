package filters

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smndtrl/nocodb/internal/errs"
	"github.com/smndtrl/nocodb/internal/meta"
)

var testCtx = meta.Context{WorkspaceID: "w1", BaseID: "b1"}

// fixedNow anchors every relative date comparison in the tests.
var fixedNow = time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)

func testEvaluator(t *testing.T) *Evaluator {
	t.Helper()

	store := meta.NewMemStore()
	store.AddModel(testCtx, &meta.Model{
		ID:        "md_tasks",
		TableName: "tasks",
		Columns: []*meta.Column{
			{ID: "c_name", Title: "Name", ColumnName: "name", Type: meta.UITypeSingleLineText},
			{ID: "c_prio", Title: "Priority", ColumnName: "priority", Type: meta.UITypeNumber},
			{ID: "c_done", Title: "Done", ColumnName: "done", Type: meta.UITypeCheckbox},
			{ID: "c_tags", Title: "Tags", ColumnName: "tags", Type: meta.UITypeMultiSelect},
			{ID: "c_due", Title: "Due", ColumnName: "due", Type: meta.UITypeDate},
			{ID: "c_month", Title: "Billing Month", ColumnName: "billing_month", Type: meta.UITypeDate,
				Meta: map[string]any{"date_format": "YYYY-MM"}},
			{ID: "c_assignee", Title: "Assignee", ColumnName: "assignee", Type: meta.UITypeUser},
		},
	})

	ev := NewEvaluator(store)
	ev.Now = func() time.Time { return fixedNow }
	return ev
}

func leaf(colID string, op meta.CompareOp, value string) *meta.Filter {
	return &meta.Filter{FKColumnID: colID, Op: op, Value: value}
}

func withLogical(f *meta.Filter, op meta.LogicalOp) *meta.Filter {
	f.LogicalOp = op
	return f
}

// --- fold semantics ---

func TestEvaluateFoldMixedOperators(t *testing.T) {
	ev := testEvaluator(t)
	record := map[string]any{"Name": "alpha"}

	// (true) or (false) not (false) folds left to right: the "or" keeps the
	// accumulator true, then "not" ands in the negation of false.
	fs := []*meta.Filter{
		leaf("c_name", meta.OpEq, "alpha"),
		withLogical(leaf("c_name", meta.OpEq, "beta"), meta.LogicalOr),
		withLogical(leaf("c_name", meta.OpEq, "gamma"), meta.LogicalNot),
	}

	v, err := ev.Evaluate(context.Background(), testCtx, fs, record, meta.DialectPg)
	require.NoError(t, err)
	assert.Equal(t, VerdictTrue, v)
}

func TestEvaluateFoldFiveSiblings(t *testing.T) {
	ev := testEvaluator(t)
	record := map[string]any{"Name": "alpha", "Priority": float64(3), "Done": true}

	// false, or:true, and:false, not:true, or:true steps through
	// F -> T -> F -> F -> T: the trailing "or" recovers the accumulator
	// after the "and" and "not" pulled it down.
	fs := []*meta.Filter{
		leaf("c_name", meta.OpEq, "other"),
		withLogical(leaf("c_name", meta.OpEq, "alpha"), meta.LogicalOr),
		withLogical(leaf("c_prio", meta.OpGt, "5"), meta.LogicalAnd),
		withLogical(leaf("c_done", meta.OpChecked, ""), meta.LogicalNot),
		withLogical(leaf("c_prio", meta.OpLt, "5"), meta.LogicalOr),
	}

	v, err := ev.Evaluate(context.Background(), testCtx, fs, record, meta.DialectPg)
	require.NoError(t, err)
	assert.Equal(t, VerdictTrue, v)
}

func TestEvaluateFoldIsPositional(t *testing.T) {
	ev := testEvaluator(t)
	record := map[string]any{"Name": "alpha", "Priority": float64(3)}

	// false, or:true, and:false is ((false or true) and false), not
	// (false or (true and false)).
	fs := []*meta.Filter{
		leaf("c_name", meta.OpEq, "other"),
		withLogical(leaf("c_name", meta.OpEq, "alpha"), meta.LogicalOr),
		withLogical(leaf("c_prio", meta.OpGt, "5"), meta.LogicalAnd),
	}

	v, err := ev.Evaluate(context.Background(), testCtx, fs, record, meta.DialectPg)
	require.NoError(t, err)
	assert.Equal(t, VerdictFalse, v)
}

func TestEvaluateNestedGroup(t *testing.T) {
	ev := testEvaluator(t)
	record := map[string]any{"Name": "alpha", "Priority": float64(3)}

	group := &meta.Filter{
		IsGroup:   true,
		LogicalOp: meta.LogicalOr,
		Children: []*meta.Filter{
			leaf("c_prio", meta.OpGt, "10"),
			withLogical(leaf("c_prio", meta.OpLt, "5"), meta.LogicalOr),
		},
	}
	fs := []*meta.Filter{
		leaf("c_name", meta.OpEq, "other"),
		group,
	}

	v, err := ev.Evaluate(context.Background(), testCtx, fs, record, meta.DialectPg)
	require.NoError(t, err)
	assert.Equal(t, VerdictTrue, v)
}

func TestEvaluateEmptyListYieldsNoVerdict(t *testing.T) {
	ev := testEvaluator(t)

	v, err := ev.Evaluate(context.Background(), testCtx, nil, map[string]any{}, meta.DialectPg)
	require.NoError(t, err)
	assert.Equal(t, VerdictNone, v)
	assert.False(t, v.Bool())
}

func TestEvaluateUnknownColumn(t *testing.T) {
	ev := testEvaluator(t)

	fs := []*meta.Filter{leaf("c_missing", meta.OpEq, "x")}
	_, err := ev.Evaluate(context.Background(), testCtx, fs, map[string]any{}, meta.DialectPg)
	require.Error(t, err)
	assert.True(t, errs.IsNotFound(err))
}

func TestEvaluateColumnNameFallback(t *testing.T) {
	ev := testEvaluator(t)

	// Records keyed by physical column name still resolve.
	record := map[string]any{"name": "alpha"}
	fs := []*meta.Filter{leaf("c_name", meta.OpEq, "alpha")}

	v, err := ev.Evaluate(context.Background(), testCtx, fs, record, meta.DialectPg)
	require.NoError(t, err)
	assert.Equal(t, VerdictTrue, v)
}

// --- verdict algebra ---

func TestVerdictAlgebra(t *testing.T) {
	assert.Equal(t, VerdictFalse, andV(VerdictFalse, VerdictTrue))
	assert.Equal(t, VerdictFalse, andV(VerdictTrue, VerdictFalse))
	assert.Equal(t, VerdictNone, andV(VerdictNone, VerdictTrue))
	assert.Equal(t, VerdictTrue, andV(VerdictTrue, VerdictTrue))

	assert.Equal(t, VerdictFalse, notV(VerdictTrue))
	assert.Equal(t, VerdictTrue, notV(VerdictFalse))
	assert.Equal(t, VerdictTrue, notV(VerdictNone))
}

// --- date comparisons ---

func TestDateRelativeSubOps(t *testing.T) {
	ev := testEvaluator(t)

	tests := []struct {
		name   string
		op     meta.CompareOp
		subOp  meta.CompareSubOp
		value  string
		record string
		want   Verdict
	}{
		{"eq today", meta.OpEq, meta.SubOpToday, "", "2024-03-15", VerdictTrue},
		{"eq today mismatch", meta.OpEq, meta.SubOpToday, "", "2024-03-14", VerdictFalse},
		{"eq yesterday", meta.OpEq, meta.SubOpYesterday, "", "2024-03-14", VerdictTrue},
		{"eq tomorrow", meta.OpEq, meta.SubOpTomorrow, "", "2024-03-16", VerdictTrue},
		{"eq one week ago", meta.OpEq, meta.SubOpOneWeekAgo, "", "2024-03-08", VerdictTrue},
		{"eq one month from now", meta.OpEq, meta.SubOpOneMonthFromNow, "", "2024-04-15", VerdictTrue},
		{"eq daysAgo 10", meta.OpEq, meta.SubOpDaysAgo, "10", "2024-03-05", VerdictTrue},
		{"eq daysFromNow 3", meta.OpEq, meta.SubOpDaysFromNow, "3", "2024-03-18", VerdictTrue},
		{"eq exactDate", meta.OpEq, meta.SubOpExactDate, "2024-01-02", "2024-01-02", VerdictTrue},
		{"neq exactDate", meta.OpNeq, meta.SubOpExactDate, "2024-01-02", "2024-01-03", VerdictTrue},
		{"gt yesterday", meta.OpGt, meta.SubOpYesterday, "", "2024-03-15", VerdictTrue},
		{"lt today", meta.OpLt, meta.SubOpToday, "", "2024-03-14", VerdictTrue},
		{"gte today on boundary", meta.OpGte, meta.SubOpToday, "", "2024-03-15", VerdictTrue},
		{"lte today above boundary", meta.OpLte, meta.SubOpToday, "", "2024-03-16", VerdictFalse},
		{"time component ignored", meta.OpEq, meta.SubOpToday, "", "2024-03-15 23:59:59", VerdictTrue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := []*meta.Filter{{FKColumnID: "c_due", Op: tt.op, SubOp: tt.subOp, Value: tt.value}}
			v, err := ev.Evaluate(context.Background(), testCtx, fs, map[string]any{"Due": tt.record}, meta.DialectPg)
			require.NoError(t, err)
			assert.Equal(t, tt.want, v)
		})
	}
}

func TestDateDaysAgoWithoutValue(t *testing.T) {
	ev := testEvaluator(t)

	// A relative operator with no day count yields no verdict rather than an
	// error: the surrounding fold treats it as undecided.
	fs := []*meta.Filter{{FKColumnID: "c_due", Op: meta.OpEq, SubOp: meta.SubOpDaysAgo, Value: ""}}
	v, err := ev.Evaluate(context.Background(), testCtx, fs, map[string]any{"Due": "2024-03-05"}, meta.DialectPg)
	require.NoError(t, err)
	assert.Equal(t, VerdictNone, v)
	assert.False(t, v.Bool())
}

func TestDateUnparsableRecordValue(t *testing.T) {
	ev := testEvaluator(t)

	fs := []*meta.Filter{{FKColumnID: "c_due", Op: meta.OpEq, SubOp: meta.SubOpToday}}
	v, err := ev.Evaluate(context.Background(), testCtx, fs, map[string]any{"Due": "not-a-date"}, meta.DialectPg)
	require.NoError(t, err)
	assert.Equal(t, VerdictFalse, v)
}

func TestDateIsWithin(t *testing.T) {
	ev := testEvaluator(t)

	tests := []struct {
		name   string
		subOp  meta.CompareSubOp
		value  string
		record string
		want   Verdict
	}{
		{"pastWeek inside", meta.SubOpPastWeek, "", "2024-03-10", VerdictTrue},
		{"pastWeek before window", meta.SubOpPastWeek, "", "2024-03-01", VerdictFalse},
		{"pastWeek future record", meta.SubOpPastWeek, "", "2024-03-20", VerdictFalse},
		{"nextWeek inside", meta.SubOpNextWeek, "", "2024-03-20", VerdictTrue},
		{"nextWeek past record", meta.SubOpNextWeek, "", "2024-03-10", VerdictFalse},
		{"pastMonth boundary", meta.SubOpPastMonth, "", "2024-02-15", VerdictTrue},
		{"nextYear inside", meta.SubOpNextYear, "", "2024-12-31", VerdictTrue},
		{"pastNumberOfDays", meta.SubOpPastNumberOfDays, "3", "2024-03-13", VerdictTrue},
		{"pastNumberOfDays outside", meta.SubOpPastNumberOfDays, "3", "2024-03-11", VerdictFalse},
		{"nextNumberOfDays no value", meta.SubOpNextNumberOfDays, "", "2024-03-16", VerdictNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := []*meta.Filter{{FKColumnID: "c_due", Op: meta.OpIsWithin, SubOp: tt.subOp, Value: tt.value}}
			v, err := ev.Evaluate(context.Background(), testCtx, fs, map[string]any{"Due": tt.record}, meta.DialectMySQL)
			require.NoError(t, err)
			assert.Equal(t, tt.want, v)
		})
	}
}

func TestDateMonthFormatTruncation(t *testing.T) {
	ev := testEvaluator(t)

	// A month-only column compares at month precision: any day within the
	// same month equals an exactDate anywhere in that month.
	fs := []*meta.Filter{{FKColumnID: "c_month", Op: meta.OpEq, SubOp: meta.SubOpExactDate, Value: "2024-03-28"}}
	v, err := ev.Evaluate(context.Background(), testCtx, fs, map[string]any{"Billing Month": "2024-03-02"}, meta.DialectPg)
	require.NoError(t, err)
	assert.Equal(t, VerdictTrue, v)
}

func TestDateEmptinessRoutesToGeneric(t *testing.T) {
	ev := testEvaluator(t)

	fs := []*meta.Filter{leaf("c_due", meta.OpBlank, "")}
	v, err := ev.Evaluate(context.Background(), testCtx, fs, map[string]any{"Due": nil}, meta.DialectPg)
	require.NoError(t, err)
	assert.Equal(t, VerdictTrue, v)
}

// --- user comparisons ---

func TestUserComparisons(t *testing.T) {
	ev := testEvaluator(t)

	stored := []any{
		map[string]any{"id": "u1", "email": "a@example.com"},
		map[string]any{"id": "u2", "email": "b@example.com"},
	}

	tests := []struct {
		name  string
		op    meta.CompareOp
		value string
		rec   any
		want  Verdict
	}{
		{"anyof overlap", meta.OpAnyOf, "u2, u3", stored, VerdictTrue},
		{"anyof disjoint", meta.OpAnyOf, "u4, u5", stored, VerdictFalse},
		{"allof not subset", meta.OpAllOf, "u2, u3", stored, VerdictFalse},
		{"allof subset", meta.OpAllOf, "u1, u2", stored, VerdictTrue},
		{"nanyof disjoint", meta.OpNanyOf, "u4", stored, VerdictTrue},
		{"nallof not subset", meta.OpNallOf, "u2, u3", stored, VerdictTrue},
		{"single user object", meta.OpAnyOf, "u9", map[string]any{"id": "u9"}, VerdictTrue},
		{"id string cell", meta.OpAnyOf, "u7", "u6,u7", VerdictTrue},
		{"empty on nil", meta.OpEmpty, "", nil, VerdictTrue},
		{"notempty on list", meta.OpNotEmpty, "", stored, VerdictTrue},
		{"unsupported op is false", meta.OpGt, "u1", stored, VerdictFalse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := []*meta.Filter{leaf("c_assignee", tt.op, tt.value)}
			v, err := ev.Evaluate(context.Background(), testCtx, fs, map[string]any{"Assignee": tt.rec}, meta.DialectPg)
			require.NoError(t, err)
			assert.Equal(t, tt.want, v)
		})
	}
}

// --- generic comparisons ---

func TestGenericComparisons(t *testing.T) {
	ev := testEvaluator(t)

	tests := []struct {
		name  string
		colID string
		op    meta.CompareOp
		value string
		key   string
		rec   any
		want  Verdict
	}{
		{"eq string", "c_name", meta.OpEq, "alpha", "Name", "alpha", VerdictTrue},
		{"eq numeric coercion", "c_prio", meta.OpEq, "5", "Priority", float64(5), VerdictTrue},
		{"eq numeric string cell", "c_prio", meta.OpEq, "5", "Priority", "5.0", VerdictTrue},
		{"neq", "c_name", meta.OpNeq, "alpha", "Name", "beta", VerdictTrue},
		{"like case-insensitive", "c_name", meta.OpLike, "ALP", "Name", "some alpha", VerdictTrue},
		{"nlike", "c_name", meta.OpNlike, "zzz", "Name", "alpha", VerdictTrue},
		{"lt", "c_prio", meta.OpLt, "10", "Priority", float64(3), VerdictTrue},
		{"gte boundary", "c_prio", meta.OpGte, "3", "Priority", float64(3), VerdictTrue},
		{"gt non-numeric cell", "c_prio", meta.OpGt, "3", "Priority", "abc", VerdictFalse},
		{"checked on 1", "c_done", meta.OpChecked, "", "Done", float64(1), VerdictTrue},
		{"checked on false string", "c_done", meta.OpChecked, "", "Done", "false", VerdictFalse},
		{"notchecked on nil", "c_done", meta.OpNotChecked, "", "Done", nil, VerdictTrue},
		{"null", "c_name", meta.OpNull, "", "Name", nil, VerdictTrue},
		{"notnull", "c_name", meta.OpNotNull, "", "Name", "x", VerdictTrue},
		{"empty string", "c_name", meta.OpEmpty, "", "Name", "", VerdictTrue},
		{"anyof tag overlap", "c_tags", meta.OpAnyOf, "red, blue", "Tags", "blue,green", VerdictTrue},
		{"allof tags", "c_tags", meta.OpAllOf, "blue, green", "Tags", "blue,green,red", VerdictTrue},
		{"nallof tags", "c_tags", meta.OpNallOf, "blue, purple", "Tags", "blue,green", VerdictTrue},
		{"unknown op is false", "c_name", meta.OpIsWithin, "", "Name", "alpha", VerdictFalse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := []*meta.Filter{leaf(tt.colID, tt.op, tt.value)}
			v, err := ev.Evaluate(context.Background(), testCtx, fs, map[string]any{tt.key: tt.rec}, meta.DialectSQLite)
			require.NoError(t, err)
			assert.Equal(t, tt.want, v)
		})
	}
}
