package availability

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/nekogravitycat/court-booking-widget/internal/pkg/apperror"
)

// User-facing messages shown in the widget message region.
const (
	MsgConnection  = "Error de conexión. Inténtalo de nuevo más tarde."
	MsgLoadFailed  = "Error al cargar los turnos."
	MsgInvalidDate = "Fecha inválida."
)

var (
	// ErrNetwork marks failures to reach the booking server or to read its answer.
	ErrNetwork = errors.New("availability: network failure")
	// ErrServer marks non-200 answers from the booking server.
	ErrServer = errors.New("availability: server error")

	ErrInvalidDate = apperror.New(http.StatusBadRequest, MsgInvalidDate)
)

// Kind classifies availability errors.
type Kind string

const (
	KindNone    Kind = "ok"
	KindNetwork Kind = "network"
	KindServer  Kind = "server"
	KindInvalid Kind = "invalid"
	KindOther   Kind = "other"
)

// KindOf classifies err. A nil error is KindNone.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrNetwork):
		return KindNetwork
	case errors.Is(err, ErrServer):
		return KindServer
	case errors.Is(err, ErrInvalidDate):
		return KindInvalid
	default:
		return KindOther
	}
}

// MessageFor returns the text the widget shows for err.
func MessageFor(err error) string {
	if KindOf(err) == KindNetwork {
		return MsgConnection
	}
	return apperror.UserMessage(err, MsgLoadFailed)
}

func networkError(err error) error {
	return apperror.Wrap(fmt.Errorf("%w: %w", ErrNetwork, err), http.StatusBadGateway, MsgConnection)
}

// serverError keeps the upstream status for error codes; anything below 400 becomes 502.
func serverError(status int, message string) error {
	if message == "" {
		message = MsgLoadFailed
	}
	code := status
	if code < http.StatusBadRequest {
		code = http.StatusBadGateway
	}
	return apperror.Wrap(fmt.Errorf("%w: status %d", ErrServer, status), code, message)
}
