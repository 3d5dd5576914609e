package artifact

import (
	"fmt"
	"strings"

	"github.com/aretw0/corpus/pkg/domain"
)

// ValidateName checks that name is usable as a key by every store: non-empty,
// no path separators, no ".." and not starting with a dot.
func ValidateName(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("%w: empty", domain.ErrInvalidArtifactName)
	case strings.ContainsAny(name, `/\`):
		return fmt.Errorf("%w: %q contains a path separator", domain.ErrInvalidArtifactName, name)
	case strings.Contains(name, ".."):
		return fmt.Errorf("%w: %q contains \"..\"", domain.ErrInvalidArtifactName, name)
	case strings.HasPrefix(name, "."):
		return fmt.Errorf("%w: %q starts with a dot", domain.ErrInvalidArtifactName, name)
	case strings.ContainsFunc(name, func(r rune) bool { return r < 0x20 }):
		return fmt.Errorf("%w: %q contains control characters", domain.ErrInvalidArtifactName, name)
	}
	return nil
}
