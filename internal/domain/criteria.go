package domain

import "strings"

// Criteria is a field-keyed map of search constraints. A task matches only
// if every supplied constraint holds. Supported fields: title
// (case-insensitive substring), status (exact), priority (exact),
// assignee_id (exact), tags (non-empty intersection), overdue (true matches
// overdue tasks; false skips the check entirely). Unsupported keys are
// ignored.
type Criteria map[string]any

// MatchesCriteria reports whether the task satisfies every constraint.
func (t *Task) MatchesCriteria(criteria Criteria) bool {
	for key, value := range criteria {
		switch key {
		case "title":
			s, ok := value.(string)
			if !ok || !strings.Contains(strings.ToLower(t.title), strings.ToLower(s)) {
				return false
			}
		case "status":
			status, ok := criteriaStatus(value)
			if !ok || t.status != status {
				return false
			}
		case "priority":
			p, err := coercePriority(value)
			if err != nil || t.priority != p {
				return false
			}
		case "assignee_id":
			s, ok := value.(string)
			if !ok || t.assigneeID != s {
				return false
			}
		case "tags":
			tags, ok := criteriaTags(value)
			if !ok || !t.metadata.intersects(tags) {
				return false
			}
		case "overdue":
			b, ok := value.(bool)
			if !ok {
				return false
			}
			// A false value skips the check rather than inverting it.
			if b && !t.IsOverdue() {
				return false
			}
		}
	}
	return true
}

func criteriaStatus(value any) (Status, bool) {
	switch v := value.(type) {
	case Status:
		return v, true
	case string:
		return Status(v), true
	default:
		return "", false
	}
}

func criteriaTags(value any) ([]string, bool) {
	switch v := value.(type) {
	case []string:
		return v, true
	case string:
		return []string{v}, true
	default:
		return nil, false
	}
}

// intersects returns true if any of the given tags is present.
func (m *Metadata) intersects(tags []string) bool {
	for _, tag := range tags {
		if m.HasTag(tag) {
			return true
		}
	}
	return false
}
