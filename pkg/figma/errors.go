package figma

import (
	"errors"
	"fmt"

	"github.com/hyp3rd/ewrap"
)

// UnknownErrorMessage is used when a remote error response carries no message.
const UnknownErrorMessage = "Unknown error"

var (
	// ErrRemote is matched by errors the Figma API answered with (non-2xx or an err field in the body).
	ErrRemote = ewrap.New("figma api error")

	// ErrTransport is matched by errors where no usable response was received.
	ErrTransport = ewrap.New("figma transport failure")

	// ErrNotFound is matched when a lookup succeeded but the requested node is absent from the result.
	ErrNotFound = ewrap.New("not found")

	// ErrInvalidURL is returned when a Figma URL cannot be parsed.
	ErrInvalidURL = ewrap.New("invalid Figma URL")

	// ErrEmptyToken is returned when no access token was configured.
	ErrEmptyToken = ewrap.New("access token cannot be empty")
)

// ErrorKind tags the variant of an *Error.
type ErrorKind int

const (
	// KindRemote means the service answered with an error status or an err field.
	KindRemote ErrorKind = iota + 1
	// KindTransport means the request never produced a readable response.
	KindTransport
	// KindNotFound means the response did not contain the requested node.
	KindNotFound
)

func (k ErrorKind) String() string {
	switch k {
	case KindRemote:
		return "remote"
	case KindTransport:
		return "transport"
	case KindNotFound:
		return "not found"
	default:
		return "unknown"
	}
}

func (k ErrorKind) sentinel() error {
	switch k {
	case KindRemote:
		return ErrRemote
	case KindTransport:
		return ErrTransport
	case KindNotFound:
		return ErrNotFound
	default:
		return nil
	}
}

// Error is the error returned by every client operation that fails talking to Figma.
// Status is only set for KindRemote; NodeID only for KindNotFound; Err only for KindTransport.
type Error struct {
	Kind    ErrorKind
	Status  int
	Message string
	NodeID  string
	Err     error
}

// RemoteError builds a KindRemote error. An empty message becomes UnknownErrorMessage.
func RemoteError(status int, message string) *Error {
	if message == "" {
		message = UnknownErrorMessage
	}

	return &Error{Kind: KindRemote, Status: status, Message: message}
}

// TransportError builds a KindTransport error around the underlying failure.
func TransportError(err error) *Error {
	msg := "no response received"
	if err != nil {
		msg = err.Error()
	}

	return &Error{Kind: KindTransport, Message: msg, Err: err}
}

// NotFoundError builds a KindNotFound error naming the node id.
func NotFoundError(nodeID string) *Error {
	return &Error{
		Kind:    KindNotFound,
		Message: fmt.Sprintf("no image found for node %s", nodeID),
		NodeID:  nodeID,
	}
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch e.Kind {
	case KindRemote:
		if e.Status == 0 {
			return fmt.Sprintf("figma api error: %s", e.Message)
		}
		return fmt.Sprintf("figma api error (status %d): %s", e.Status, e.Message)
	case KindTransport:
		return fmt.Sprintf("figma request failed: %s", e.Message)
	default:
		return e.Message
	}
}

// Unwrap exposes the kind sentinel and the underlying cause to errors.Is / errors.As.
func (e *Error) Unwrap() []error {
	var errs []error
	if s := e.Kind.sentinel(); s != nil {
		errs = append(errs, s)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}

	return errs
}

// AsError returns the *Error in err's chain, if any.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}

	return nil, false
}

// IsRemote reports whether err is a remote service error.
func IsRemote(err error) bool { return errors.Is(err, ErrRemote) }

// IsTransport reports whether err is a transport failure.
func IsTransport(err error) bool { return errors.Is(err, ErrTransport) }

// IsNotFound reports whether err is a not-found error.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// IgnoreStatus returns nil if err is a remote error with one of the given status codes.
func IgnoreStatus(err error, codes ...int) error {
	e, ok := AsError(err)
	if !ok || e.Kind != KindRemote {
		return err
	}

	for _, code := range codes {
		if e.Status == code {
			return nil
		}
	}

	return err
}
