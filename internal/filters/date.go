package filters

import (
	"strconv"
	"strings"
	"time"

	"github.com/smndtrl/nocodb/internal/meta"
)

// Dialect-specific "now" serialization formats. MySQL sources format the
// isWithin anchor without a timezone offset while every other dialect keeps
// it; the inconsistency is preserved faithfully from the reference
// behavior and is flagged as an open product question in DESIGN.md.
const (
	nowFormatMySQL   = "2006-01-02 15:04:05"
	nowFormatGeneric = "2006-01-02 15:04:05Z07:00"
)

// evalDate compares a date-family record value against the filter's
// absolute or relative comparison moment.
func (e *Evaluator) evalDate(col *meta.Column, f *meta.Filter, value any, dialect meta.DialectType) Verdict {
	now := e.Now()

	if f.Op == meta.OpIsWithin {
		return e.evalIsWithin(col, f, value, now, dialect)
	}

	cmp, ok := resolveSubOp(f.SubOp, f.Value, now)
	if !ok {
		// Relative operator without a usable value: no verdict, not an error.
		return VerdictNone
	}

	rec, ok := parseDateValue(value)
	if !ok {
		return VerdictFalse
	}

	recDay, cmpDay := truncate(col, rec), truncate(col, cmp)

	switch f.Op {
	case meta.OpEq:
		return verdictOf(recDay.Equal(cmpDay))
	case meta.OpNeq:
		return verdictOf(!recDay.Equal(cmpDay))
	case meta.OpGt:
		return verdictOf(recDay.After(cmpDay))
	case meta.OpLt:
		return verdictOf(recDay.Before(cmpDay))
	case meta.OpGte:
		return verdictOf(!recDay.Before(cmpDay))
	case meta.OpLte:
		return verdictOf(!recDay.After(cmpDay))
	default:
		return VerdictFalse
	}
}

// evalIsWithin tests range membership anchored at "now": past boundaries
// test [boundary, now], future boundaries test [now, boundary].
func (e *Evaluator) evalIsWithin(col *meta.Column, f *meta.Filter, value any, now time.Time, dialect meta.DialectType) Verdict {
	boundary, past, ok := resolveWithinSubOp(f.SubOp, f.Value, now)
	if !ok {
		return VerdictNone
	}

	rec, okRec := parseDateValue(value)
	if !okRec {
		return VerdictFalse
	}

	// The anchor is serialized and re-parsed in the dialect's format, which
	// drops the offset for MySQL sources.
	anchor := now
	layout := nowFormatGeneric
	if dialect == meta.DialectMySQL {
		layout = nowFormatMySQL
	}
	if t, err := time.ParseInLocation(layout, now.Format(layout), now.Location()); err == nil {
		anchor = t
	}

	recDay := truncate(col, rec)
	boundaryDay := truncate(col, boundary)
	anchorDay := truncate(col, anchor)

	if past {
		return verdictOf(!recDay.Before(boundaryDay) && !recDay.After(anchorDay))
	}
	return verdictOf(!recDay.Before(anchorDay) && !recDay.After(boundaryDay))
}

// resolveSubOp maps a comparison sub-operator to its absolute moment.
// Returns ok=false when the sub-op needs a value that is absent or
// malformed.
func resolveSubOp(sub meta.CompareSubOp, value string, now time.Time) (time.Time, bool) {
	switch sub {
	case meta.SubOpToday:
		return now, true
	case meta.SubOpTomorrow:
		return now.AddDate(0, 0, 1), true
	case meta.SubOpYesterday:
		return now.AddDate(0, 0, -1), true
	case meta.SubOpOneWeekAgo:
		return now.AddDate(0, 0, -7), true
	case meta.SubOpOneWeekFromNow:
		return now.AddDate(0, 0, 7), true
	case meta.SubOpOneMonthAgo:
		return now.AddDate(0, -1, 0), true
	case meta.SubOpOneMonthFromNow:
		return now.AddDate(0, 1, 0), true
	case meta.SubOpDaysAgo:
		n, ok := parseDays(value)
		if !ok {
			return time.Time{}, false
		}
		return now.AddDate(0, 0, -n), true
	case meta.SubOpDaysFromNow:
		n, ok := parseDays(value)
		if !ok {
			return time.Time{}, false
		}
		return now.AddDate(0, 0, n), true
	case meta.SubOpExactDate, "":
		t, ok := parseDateString(value)
		return t, ok
	default:
		return time.Time{}, false
	}
}

// resolveWithinSubOp maps an isWithin sub-operator to its boundary and
// direction (past=true means the boundary lies before now).
func resolveWithinSubOp(sub meta.CompareSubOp, value string, now time.Time) (boundary time.Time, past bool, ok bool) {
	switch sub {
	case meta.SubOpPastWeek:
		return now.AddDate(0, 0, -7), true, true
	case meta.SubOpPastMonth:
		return now.AddDate(0, -1, 0), true, true
	case meta.SubOpPastYear:
		return now.AddDate(-1, 0, 0), true, true
	case meta.SubOpPastNumberOfDays:
		n, okN := parseDays(value)
		if !okN {
			return time.Time{}, false, false
		}
		return now.AddDate(0, 0, -n), true, true
	case meta.SubOpNextWeek:
		return now.AddDate(0, 0, 7), false, true
	case meta.SubOpNextMonth:
		return now.AddDate(0, 1, 0), false, true
	case meta.SubOpNextYear:
		return now.AddDate(1, 0, 0), false, true
	case meta.SubOpNextNumberOfDays:
		n, okN := parseDays(value)
		if !okN {
			return time.Time{}, false, false
		}
		return now.AddDate(0, 0, n), false, true
	default:
		return time.Time{}, false, false
	}
}

func parseDays(value string) (int, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, false
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, false
	}
	return n, true
}

// truncate reduces a moment to calendar-day precision; columns configured
// with a month-only display format are further truncated to the first of
// the month before comparing.
func truncate(col *meta.Column, t time.Time) time.Time {
	y, m, d := t.Date()
	if isMonthFormat(col.DateFormat()) {
		d = 1
	}
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// isMonthFormat reports whether the column's display format has no day part.
func isMonthFormat(format string) bool {
	return format != "" && !strings.Contains(format, "DD")
}

// dateLayouts lists the accepted record value layouts, most specific first.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006-01",
}

// parseDateValue coerces an arbitrary record value into a moment.
func parseDateValue(value any) (time.Time, bool) {
	switch v := value.(type) {
	case nil:
		return time.Time{}, false
	case time.Time:
		return v, true
	case *time.Time:
		if v == nil {
			return time.Time{}, false
		}
		return *v, true
	case string:
		return parseDateString(v)
	default:
		return time.Time{}, false
	}
}

func parseDateString(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
