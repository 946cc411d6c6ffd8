package enhance

import (
	"errors"

	"github.com/rotisserie/eris"
)

// Pipeline-terminal failures. Per-candidate and per-provider failures are
// absorbed inside their components and never reach this taxonomy.
var (
	// ErrNoBackendConfigured means no generative backend credential is
	// present. A configuration problem: surfaced before any network call,
	// never retried.
	ErrNoBackendConfigured = eris.New("no generative backend configured")

	// ErrNoReferencesFound means search yielded zero usable candidates after
	// provider fallback and filtering.
	ErrNoReferencesFound = eris.New("no references found")

	// ErrNoReferenceContent means candidates were found but none yielded
	// enough extracted text.
	ErrNoReferenceContent = eris.New("no reference content scraped")

	// ErrGenerationFailed means every configured backend failed. The wrapped
	// cause is the last backend error.
	ErrGenerationFailed = eris.New("generation failed on all backends")
)

// IsConfigurationError reports whether err is a configuration failure that
// no retry can fix.
func IsConfigurationError(err error) bool {
	return errors.Is(err, ErrNoBackendConfigured)
}
