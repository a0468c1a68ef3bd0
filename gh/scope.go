package gh

import "github.com/rs/zerolog"

// ownerScope is one interpretation of an owner login. The upstream
// schema has no common root for organizations and users, so every
// owner-scoped query exists in two textually distinct documents built
// from the scope's root field. The root field is aliased to "owner" in
// each document so both variants decode into the same response shape.
type ownerScope struct {
	root string // GraphQL root field: "organization" or "user"
}

var (
	organizationScope = ownerScope{root: "organization"}
	userScope         = ownerScope{root: "user"}
)

func (s ownerScope) String() string { return s.root }

// resolveInOwnerScope tries attempt under the organization scope first,
// then under the user scope. attempt reports whether it found a concrete
// value (non-nil entity, or non-empty list for list attempts).
//
// Errors during the organization half never abort the sequence: a
// NOT_FOUND transport error is swallowed outright, anything else is
// logged as a warning before the user half runs. The user half's result
// and error are final. An organization list that is genuinely empty also
// falls through to the user scope - an accepted heuristic that can drop
// results when an org with zero matches shadows a same-named user.
func resolveInOwnerScope[T any](log zerolog.Logger, attempt func(ownerScope) (T, bool, error)) (T, bool, error) {
	v, found, err := attempt(organizationScope)
	if err == nil && found {
		return v, true, nil
	}
	if err != nil {
		if IsNotFound(err) {
			log.Debug().Err(err).Str("scope", organizationScope.String()).
				Msg("owner not found in scope, trying next")
		} else {
			log.Warn().Err(err).Str("scope", organizationScope.String()).
				Msg("owner-scoped lookup failed, trying next scope")
		}
	}

	return attempt(userScope)
}
