package hooks

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/smndtrl/nocodb/internal/meta"
)

// buildEnvelope constructs the notification payload for a hook invocation.
//
// Version v2 wraps the rows in a typed envelope; v1 ships the mutation data
// exactly as the caller passed it, with no wrapper, for consumers written
// against the original webhook format.
func buildEnvelope(hook *meta.Hook, model *meta.Model, prevRows, rows []map[string]any) any {
	if hook.Version != meta.HookV2 {
		return v1Data(hook.Operation, rows)
	}

	eventType := fmt.Sprintf("records.%s.%s", hook.Event, hook.Operation)

	data := map[string]any{
		"table_id":   model.ID,
		"table_name": model.Title,
	}

	switch hook.Operation {
	case meta.OperationBulkInsert:
		// Bulk inserts report only a count; the inserted rows are not echoed
		// back.
		data["rows_inserted"] = len(rows)
	case meta.OperationUpdate, meta.OperationBulkUpdate:
		data["previous_rows"] = prevRows
		data["rows"] = rows
	default:
		data["rows"] = rows
	}

	return map[string]any{
		"type": eventType,
		"id":   uuid.NewString(),
		"data": data,
	}
}

// v1Data flattens rows the way the legacy envelope did: single-row events
// carry the row object itself, bulk events carry the array.
func v1Data(op meta.HookOperation, rows []map[string]any) any {
	if !op.IsBulk() && len(rows) == 1 {
		return rows[0]
	}
	return rows
}

// asRows normalizes the mutation data shapes callers pass in: a single row
// map, a slice of rows, or a generic slice.
func asRows(data any) []map[string]any {
	switch v := data.(type) {
	case nil:
		return nil
	case map[string]any:
		return []map[string]any{v}
	case []map[string]any:
		return v
	case []any:
		rows := make([]map[string]any, 0, len(v))
		for _, item := range v {
			if m, ok := item.(map[string]any); ok {
				rows = append(rows, m)
			}
		}
		return rows
	default:
		return nil
	}
}
