package normalize

import "fmt"

// RootID identifies the root document of a normalized tree.
const RootID = "root"

// Identify derives the identifier for value. Cases use their docket
// number, defendants use their last name, the root document uses the
// fixed sentinel, and everything else gets a positional id built from
// the parent's id, the field holding the value, and the value's index
// among its siblings.
//
// The function is pure: the same inputs always produce the same id.
// Positional ids shift if siblings are reordered between calls; that
// fragility is accepted and not corrected here.
func Identify(value, parent Document, key string, index int) string {
	if docket, ok := value["docket_number"].(string); ok && docket != "" {
		return docket
	}
	if lastName, ok := value["last_name"].(string); ok && lastName != "" {
		return lastName
	}
	if parent == nil || key == "" {
		return RootID
	}

	parentID, _ := parent["id"].(string)
	return fmt.Sprintf("%s%s@%d", parentID, key, index)
}
