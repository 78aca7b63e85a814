package nakama

import (
	"errors"

	"squirrelstash/internal/app"
	"squirrelstash/internal/domain"
	"squirrelstash/internal/ports"

	"github.com/heroiclabs/nakama-common/runtime"
)

var errNoUser = runtime.NewError("no user in context", codeUnauthenticated)

// mapError converts use-case errors into runtime errors with gRPC status codes.
// Internal failures are reported without detail.
func mapError(err error) error {
	switch {
	case errors.Is(err, app.ErrForbiddenAction):
		return runtime.NewError(err.Error(), codePermissionDenied)
	case errors.Is(err, app.ErrStaleSession), errors.Is(err, app.ErrSessionDepleted):
		return runtime.NewError(err.Error(), codeFailedPrecondition)
	case errors.Is(err, app.ErrMalformedToken),
		errors.Is(err, domain.ErrInvalidAction),
		errors.Is(err, domain.ErrNoMatchAvailable):
		return runtime.NewError(err.Error(), codeInvalidArgument)
	case errors.Is(err, ports.ErrVersionConflict):
		return runtime.NewError("action raced with another update, try again", codeAborted)
	case errors.Is(err, app.ErrLeaderboardUnavailable):
		return runtime.NewError(err.Error(), codeUnimplemented)
	default:
		return runtime.NewError("internal error", codeInternal)
	}
}
