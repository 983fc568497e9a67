package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorType identifies a specific failure reported by the catalog client
type ErrorType string

const (
	ErrorTypeNoUserFound       ErrorType = "no_user_found"
	ErrorTypeNoBranchFound     ErrorType = "no_branch_found"
	ErrorTypeLogin             ErrorType = "login"
	ErrorTypeNotLoggedIn       ErrorType = "not_logged_in"
	ErrorTypeHold              ErrorType = "hold"
	ErrorTypeRenew             ErrorType = "renew"
	ErrorTypeNotOnHold         ErrorType = "not_on_hold"
	ErrorTypeNotCheckedOut     ErrorType = "not_checked_out"
	ErrorTypeInvalidSearchType ErrorType = "invalid_search_type"
	ErrorTypeMissingFilterTerm ErrorType = "missing_filter_term"
	ErrorTypeMalformedPage     ErrorType = "malformed_page"
	ErrorTypeNetwork           ErrorType = "network"
	ErrorTypeHTTPStatus        ErrorType = "http_status"
	ErrorTypeUnknown           ErrorType = "unknown"
)

// Family groups error types by how a caller is expected to react to them
type Family string

const (
	FamilyNotFound           Family = "not_found"
	FamilyAuthFailure        Family = "auth_failure"
	FamilyActionDenied       Family = "action_denied"
	FamilyPreconditionFailed Family = "precondition_failed"
	FamilyInvalidInput       Family = "invalid_input"
	FamilyMalformedPage      Family = "malformed_page"
	FamilyTransport          Family = "transport"
	FamilyUnknown            Family = "unknown"
)

// Sentinels for errors.Is matching. Only the Type is compared.
var (
	ErrNoUserFound       = &Error{Type: ErrorTypeNoUserFound}
	ErrNoBranchFound     = &Error{Type: ErrorTypeNoBranchFound}
	ErrLogin             = &Error{Type: ErrorTypeLogin}
	ErrNotLoggedIn       = &Error{Type: ErrorTypeNotLoggedIn}
	ErrHold              = &Error{Type: ErrorTypeHold}
	ErrRenew             = &Error{Type: ErrorTypeRenew}
	ErrNotOnHold         = &Error{Type: ErrorTypeNotOnHold}
	ErrNotCheckedOut     = &Error{Type: ErrorTypeNotCheckedOut}
	ErrInvalidSearchType = &Error{Type: ErrorTypeInvalidSearchType}
	ErrMissingFilterTerm = &Error{Type: ErrorTypeMissingFilterTerm}
	ErrMalformedPage     = &Error{Type: ErrorTypeMalformedPage}
	ErrNetwork           = &Error{Type: ErrorTypeNetwork}
	ErrHTTPStatus        = &Error{Type: ErrorTypeHTTPStatus}
)

// Error represents a catalog client error with type information.
// Key carries the server-supplied message key when the site returned one,
// Code the HTTP status when one is relevant.
type Error struct {
	Type    ErrorType
	Message string
	Key     string
	Code    int
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = string(e.Type)
	}
	if e.Key != "" {
		msg = fmt.Sprintf("%s (%s)", msg, e.Key)
	}
	if e.Code != 0 {
		msg = fmt.Sprintf("%s [status %d]", msg, e.Code)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same type
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Type == e.Type
}

// Family returns the family the error's type belongs to
func (e *Error) Family() Family {
	return FamilyFor(e.Type)
}

// FamilyFor maps an error type to its family
func FamilyFor(t ErrorType) Family {
	switch t {
	case ErrorTypeNoUserFound, ErrorTypeNoBranchFound:
		return FamilyNotFound
	case ErrorTypeLogin, ErrorTypeNotLoggedIn:
		return FamilyAuthFailure
	case ErrorTypeHold, ErrorTypeRenew:
		return FamilyActionDenied
	case ErrorTypeNotOnHold, ErrorTypeNotCheckedOut:
		return FamilyPreconditionFailed
	case ErrorTypeInvalidSearchType, ErrorTypeMissingFilterTerm:
		return FamilyInvalidInput
	case ErrorTypeMalformedPage:
		return FamilyMalformedPage
	case ErrorTypeNetwork, ErrorTypeHTTPStatus:
		return FamilyTransport
	default:
		return FamilyUnknown
	}
}

// TypeOf returns the type of the first *Error in err's chain
func TypeOf(err error) ErrorType {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Type
	}
	return ErrorTypeUnknown
}

// FamilyOf returns the family of the first *Error in err's chain
func FamilyOf(err error) Family {
	return FamilyFor(TypeOf(err))
}

// NoUserFound reports that a user lookup matched nothing
func NoUserFound(name string) *Error {
	return &Error{Type: ErrorTypeNoUserFound, Message: fmt.Sprintf("no match found for %s", name)}
}

// NoBranchFound reports that a branch name matched no known branch.
// suggestion is appended when non-empty.
func NoBranchFound(name, suggestion string) *Error {
	msg := fmt.Sprintf("no matches found for %s", name)
	if suggestion != "" {
		msg = fmt.Sprintf("%s, did you mean %s?", msg, suggestion)
	}
	return &Error{Type: ErrorTypeNoBranchFound, Message: msg}
}

// Login reports rejected credentials
func Login(key string) *Error {
	return &Error{Type: ErrorTypeLogin, Message: "login failed", Key: key}
}

// NotLoggedIn reports that the session was rejected mid-operation
func NotLoggedIn() *Error {
	return &Error{Type: ErrorTypeNotLoggedIn, Message: "session is not logged in"}
}

// Hold reports a rejected hold request
func Hold(key string) *Error {
	return &Error{Type: ErrorTypeHold, Message: "hold was not placed", Key: key}
}

// Renew reports a rejected renewal
func Renew(key string) *Error {
	return &Error{Type: ErrorTypeRenew, Message: "renewal was rejected", Key: key}
}

// NotOnHold reports that a title is not among the account's holds
func NotOnHold(title string) *Error {
	return &Error{Type: ErrorTypeNotOnHold, Message: fmt.Sprintf("%s is not on hold", title)}
}

// NotCheckedOut reports that a title is not among the account's checkouts
func NotCheckedOut(title string) *Error {
	return &Error{Type: ErrorTypeNotCheckedOut, Message: fmt.Sprintf("%s is not checked out", title)}
}

// InvalidSearchType reports an unknown search type
func InvalidSearchType(got string, valid []string) *Error {
	return &Error{
		Type:    ErrorTypeInvalidSearchType,
		Message: fmt.Sprintf("%q is not a valid search type, valid types are %v", got, valid),
	}
}

// MissingFilterTerm reports an advanced search filter name lacking its direction or field
func MissingFilterTerm(name string) *Error {
	return &Error{
		Type:    ErrorTypeMissingFilterTerm,
		Message: fmt.Sprintf("filter %q needs exactly one of include/exclude and exactly one field", name),
	}
}

// MalformedPage reports markup that matched none of the expected extraction patterns
func MalformedPage(format string, args ...interface{}) *Error {
	return &Error{Type: ErrorTypeMalformedPage, Message: fmt.Sprintf(format, args...)}
}

// Network wraps a transport failure
func Network(err error) *Error {
	return &Error{Type: ErrorTypeNetwork, Message: "network error", Err: err}
}

// HTTPStatus reports an unexpected status code
func HTTPStatus(code int, url string) *Error {
	return &Error{Type: ErrorTypeHTTPStatus, Message: fmt.Sprintf("unexpected response from %s", url), Code: code}
}
