package filters

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/smndtrl/nocodb/internal/meta"
)

// evalGeneric compares scalar record values: text, numbers, booleans and
// multi-select lists. Coercion is deliberately loose so that "5" matches 5
// and checkbox cells stored as 0/1 compare against "true"/"false".
func evalGeneric(f *meta.Filter, value any) Verdict {
	switch f.Op {
	case meta.OpEq:
		return verdictOf(looseEqual(value, f.Value))
	case meta.OpNeq:
		return verdictOf(!looseEqual(value, f.Value))
	case meta.OpLike:
		return verdictOf(containsFold(value, f.Value))
	case meta.OpNlike:
		return verdictOf(!containsFold(value, f.Value))
	case meta.OpEmpty, meta.OpBlank:
		return verdictOf(isEmptyValue(value))
	case meta.OpNotEmpty, meta.OpNotBlank:
		return verdictOf(!isEmptyValue(value))
	case meta.OpNull:
		return verdictOf(value == nil)
	case meta.OpNotNull:
		return verdictOf(value != nil)
	case meta.OpChecked:
		return verdictOf(isTruthy(value))
	case meta.OpNotChecked:
		return verdictOf(!isTruthy(value))
	case meta.OpAnyOf:
		return verdictOf(intersects(splitIDList(stringify(value)), splitIDList(f.Value)))
	case meta.OpNanyOf:
		return verdictOf(!intersects(splitIDList(stringify(value)), splitIDList(f.Value)))
	case meta.OpAllOf:
		wanted := splitIDList(f.Value)
		return verdictOf(len(wanted) > 0 && containsAll(splitIDList(stringify(value)), wanted))
	case meta.OpNallOf:
		wanted := splitIDList(f.Value)
		return verdictOf(!(len(wanted) > 0 && containsAll(splitIDList(stringify(value)), wanted)))
	case meta.OpLt, meta.OpLte, meta.OpGt, meta.OpGte:
		return compareNumeric(f.Op, value, f.Value)
	default:
		return VerdictFalse
	}
}

// compareNumeric orders the record value against the filter literal. A side
// that cannot be read as a number makes the comparison false.
func compareNumeric(op meta.CompareOp, value any, literal string) Verdict {
	left, okL := toFloat(value)
	right, okR := toFloat(literal)
	if !okL || !okR || math.IsNaN(left) || math.IsNaN(right) {
		return VerdictFalse
	}
	switch op {
	case meta.OpLt:
		return verdictOf(left < right)
	case meta.OpLte:
		return verdictOf(left <= right)
	case meta.OpGt:
		return verdictOf(left > right)
	default:
		return verdictOf(left >= right)
	}
}

// looseEqual matches numbers numerically and everything else by
// case-sensitive string form. nil only equals an empty literal.
func looseEqual(value any, literal string) bool {
	if value == nil {
		return literal == ""
	}
	if left, ok := toFloat(value); ok {
		if right, okR := toFloat(literal); okR {
			return left == right
		}
	}
	return stringify(value) == literal
}

func containsFold(value any, literal string) bool {
	if value == nil {
		return false
	}
	return strings.Contains(strings.ToLower(stringify(value)), strings.ToLower(literal))
}

func isEmptyValue(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return v == ""
	case []any:
		return len(v) == 0
	case map[string]any:
		return len(v) == 0
	default:
		return false
	}
}

// isTruthy follows loose boolean semantics: nil, false, zero, "" and the
// strings "false"/"0" are falsy, everything else is truthy.
func isTruthy(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return v != "" && v != "false" && v != "0"
	default:
		if n, ok := toFloat(value); ok {
			return n != 0
		}
		return true
	}
}

func toFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint64:
		return float64(v), true
	case bool:
		if v {
			return 1, true
		}
		return 0, true
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

func stringify(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", v)
	}
}
