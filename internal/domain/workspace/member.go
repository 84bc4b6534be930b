package workspace

import (
	"encoding/json"
	"strings"
)

// CanonicalMemberID reduces a member identifier to its bare form. Historical
// writers sometimes serialized member identifiers as JSON-object-shaped
// strings ({"id":"u2"} or {"memberId":"u2"}); membership math treats those
// and the bare string "u2" as the same member. This matching is scoped to
// workspace member identifiers only.
func CanonicalMemberID(value string) string {
	trimmed := strings.TrimSpace(value)
	if !strings.HasPrefix(trimmed, "{") {
		return trimmed
	}
	var legacy struct {
		ID       string `json:"id"`
		MemberID string `json:"memberId"`
	}
	if err := json.Unmarshal([]byte(trimmed), &legacy); err != nil {
		return trimmed
	}
	if id := strings.TrimSpace(legacy.ID); id != "" {
		return id
	}
	if id := strings.TrimSpace(legacy.MemberID); id != "" {
		return id
	}
	return trimmed
}

// addMember returns the member set with the canonical id appended, deduping
// both bare and legacy forms.
func addMember(members []string, memberID string) []string {
	canonical := CanonicalMemberID(memberID)
	for _, id := range members {
		if id == canonical {
			return members
		}
	}
	return append(append([]string(nil), members...), canonical)
}

// removeMember returns the member set without the canonical id.
func removeMember(members []string, memberID string) []string {
	canonical := CanonicalMemberID(memberID)
	result := make([]string, 0, len(members))
	for _, id := range members {
		if id != canonical {
			result = append(result, id)
		}
	}
	return result
}
