package contrast

import "regexp"

// projectPrefix matches pipeline-generated contrast identifiers of the form
// PRJNA<digits>_<token>_<rest>; only <rest> is worth showing to a user.
var projectPrefix = regexp.MustCompile(`^PRJNA\d+_[^_]+_`)

// DisplayName strips the project/token segment from a contrast identifier.
// Identifiers that do not follow the pattern are returned unchanged.
func DisplayName(id string) string {
	return projectPrefix.ReplaceAllString(id, "")
}
