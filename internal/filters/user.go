package filters

import (
	"strings"

	"github.com/smndtrl/nocodb/internal/meta"
)

// evalUser compares user-family record values (single user or collaborator
// lists) against the filter's comma-separated user id list. Operators
// outside the supported set yield false rather than an error so a hook
// configured against the wrong column type stays silent instead of failing
// every trigger.
func evalUser(f *meta.Filter, value any) Verdict {
	stored := extractUserIDs(value)
	wanted := splitIDList(f.Value)

	switch f.Op {
	case meta.OpAnyOf:
		return verdictOf(intersects(stored, wanted))
	case meta.OpNanyOf:
		return verdictOf(!intersects(stored, wanted))
	case meta.OpAllOf:
		return verdictOf(len(wanted) > 0 && containsAll(stored, wanted))
	case meta.OpNallOf:
		return verdictOf(!(len(wanted) > 0 && containsAll(stored, wanted)))
	case meta.OpEmpty, meta.OpBlank, meta.OpNull:
		return verdictOf(len(stored) == 0)
	case meta.OpNotEmpty, meta.OpNotBlank, meta.OpNotNull:
		return verdictOf(len(stored) > 0)
	default:
		return VerdictFalse
	}
}

// extractUserIDs flattens the shapes a user cell can take: a single user
// object, a list of user objects, or a comma-separated id string.
func extractUserIDs(value any) []string {
	switch v := value.(type) {
	case nil:
		return nil
	case string:
		return splitIDList(v)
	case map[string]any:
		if id := userID(v); id != "" {
			return []string{id}
		}
		return nil
	case []map[string]any:
		ids := make([]string, 0, len(v))
		for _, u := range v {
			if id := userID(u); id != "" {
				ids = append(ids, id)
			}
		}
		return ids
	case []any:
		var ids []string
		for _, item := range v {
			ids = append(ids, extractUserIDs(item)...)
		}
		return ids
	case meta.User:
		return idOrNil(v.ID)
	case *meta.User:
		if v == nil {
			return nil
		}
		return idOrNil(v.ID)
	default:
		return nil
	}
}

func userID(u map[string]any) string {
	if id, ok := u["id"].(string); ok {
		return id
	}
	return ""
}

func idOrNil(id string) []string {
	if id == "" {
		return nil
	}
	return []string{id}
}

func splitIDList(s string) []string {
	var ids []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			ids = append(ids, part)
		}
	}
	return ids
}

func intersects(stored, wanted []string) bool {
	for _, w := range wanted {
		for _, s := range stored {
			if s == w {
				return true
			}
		}
	}
	return false
}

func containsAll(stored, wanted []string) bool {
	for _, w := range wanted {
		found := false
		for _, s := range stored {
			if s == w {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
