// Package filters evaluates boolean filter trees against in-memory records
// with type-aware comparators. It mirrors the semantics the row-query layer
// applies in SQL, so webhook conditions behave exactly like view filters.
package filters

import (
	"context"
	"time"

	"github.com/smndtrl/nocodb/internal/meta"
)

// Verdict is the tri-state outcome of a filter evaluation. None means "no
// verdict": it arises from an empty sibling sequence or from comparators
// that cannot produce an answer (a relative date operator with no value),
// and is distinguishable from an explicit False.
type Verdict int8

const (
	VerdictNone Verdict = iota
	VerdictFalse
	VerdictTrue
)

// Bool collapses the verdict for gate decisions: only an explicit True fires.
func (v Verdict) Bool() bool { return v == VerdictTrue }

// verdictOf lifts a bool.
func verdictOf(b bool) Verdict {
	if b {
		return VerdictTrue
	}
	return VerdictFalse
}

// andV is short-circuiting conjunction over the tri-state domain:
// False wins, None is sticky, otherwise the right operand decides.
func andV(a, b Verdict) Verdict {
	switch a {
	case VerdictFalse:
		return VerdictFalse
	case VerdictNone:
		return VerdictNone
	default:
		return b
	}
}

// notV negates; None negates to True, matching the reference semantics of
// combining an undefined result under a "not" operator.
func notV(v Verdict) Verdict {
	if v == VerdictTrue {
		return VerdictFalse
	}
	return VerdictTrue
}

// Evaluator evaluates filter trees against records. Pure and safe for
// concurrent use; Now is injectable for deterministic date tests.
type Evaluator struct {
	Store meta.Store
	Now   func() time.Time
}

// NewEvaluator returns an Evaluator over the given metadata store.
func NewEvaluator(store meta.Store) *Evaluator {
	return &Evaluator{Store: store, Now: time.Now}
}

// Evaluate folds the ordered sibling sequence left to right. Each sibling's
// boolean result is combined into the accumulator by that sibling's own
// logical operator:
//
//	or:   acc = acc || result
//	not:  acc = acc && !result
//	and (or unset): acc = (acc ?? true) && result
//
// The accumulator starts at None ("no verdict yet"). There is no
// operator-level grouping beyond explicit nested groups; precedence is
// strictly positional.
func (e *Evaluator) Evaluate(ctx context.Context, c meta.Context, fs []*meta.Filter, record map[string]any, dialect meta.DialectType) (Verdict, error) {
	acc := VerdictNone

	for _, f := range fs {
		var res Verdict
		var err error
		if f.IsGroup {
			res, err = e.Evaluate(ctx, c, f.Children, record, dialect)
		} else {
			res, err = e.evalLeaf(ctx, c, f, record, dialect)
		}
		if err != nil {
			return VerdictNone, err
		}

		switch f.LogicalOp {
		case meta.LogicalOr:
			if acc != VerdictTrue {
				acc = res
			}
		case meta.LogicalNot:
			acc = andV(acc, notV(res))
		default: // and, or unset
			if acc == VerdictNone {
				acc = VerdictTrue
			}
			acc = andV(acc, res)
		}
	}

	return acc, nil
}

// evalLeaf resolves the leaf's column and dispatches on its type family.
func (e *Evaluator) evalLeaf(ctx context.Context, c meta.Context, f *meta.Filter, record map[string]any, dialect meta.DialectType) (Verdict, error) {
	col, err := e.Store.GetColumn(ctx, c, f.FKColumnID)
	if err != nil {
		return VerdictNone, err
	}

	value, ok := record[col.Title]
	if !ok {
		value = record[col.ColumnName]
	}

	switch {
	case col.Type.IsDateFamily() && !isEmptinessOp(f.Op):
		return e.evalDate(col, f, value, dialect), nil
	case col.Type.IsUserFamily():
		return evalUser(f, value), nil
	default:
		return evalGeneric(f, value), nil
	}
}

// isEmptinessOp reports whether op only tests presence, which short-circuits
// date handling into the generic comparator.
func isEmptinessOp(op meta.CompareOp) bool {
	switch op {
	case meta.OpEmpty, meta.OpBlank, meta.OpNotEmpty, meta.OpNotBlank:
		return true
	}
	return false
}
