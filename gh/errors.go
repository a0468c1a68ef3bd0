package gh

import (
	"fmt"
	"strings"
)

// PreconditionError reports malformed or unresolvable caller input: a
// bad owner/repo pair, an unknown project identifier, a status name that
// is not one of the board's columns. Alternatives, when known, lists the
// valid choices.
type PreconditionError struct {
	Message      string
	Alternatives []string
}

func (e *PreconditionError) Error() string {
	if len(e.Alternatives) == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s (valid: %s)", e.Message, strings.Join(e.Alternatives, ", "))
}

// splitRepo splits "owner/name" into its parts.
func splitRepo(ownerRepo string) (string, string, error) {
	parts := strings.Split(ownerRepo, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", &PreconditionError{
			Message: fmt.Sprintf("invalid repository %q, expected the form owner/name", ownerRepo),
		}
	}
	return parts[0], parts[1], nil
}
