package principal

import (
	"fmt"

	"github.com/northgate-io/northgate/internal/shared"
)

// Guard operations are synchronous checks against the already-reconstructed
// principal. They never perform I/O; every authorization fact must be
// resident in the principal before a guard runs.

// RequireAuthentication fails when no subject id is present.
func (p *Principal) RequireAuthentication() error {
	if !p.IsAuthenticated() {
		return shared.ErrAuthenticationRequired
	}
	return nil
}

// RequireRole fails when the principal is unauthenticated or lacks the role.
func (p *Principal) RequireRole(code string) error {
	if err := p.RequireAuthentication(); err != nil {
		return err
	}
	if !p.HasRole(code) {
		return fmt.Errorf("%w: role %q required", shared.ErrPermissionDenied, code)
	}
	return nil
}

// RequirePermission fails when the principal is unauthenticated or lacks the
// permission.
func (p *Principal) RequirePermission(code string) error {
	if err := p.RequireAuthentication(); err != nil {
		return err
	}
	if !p.HasPermission(code) {
		return fmt.Errorf("%w: permission %q required", shared.ErrPermissionDenied, code)
	}
	return nil
}
