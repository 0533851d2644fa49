package usecase

import (
	"errors"
	"fmt"
)

// ErrorKind はhandlerがHTTPステータスに変換するための分類
type ErrorKind string

const (
	KindValidation         ErrorKind = "Validation"
	KindNotFound           ErrorKind = "NotFound"
	KindInvalidTransition  ErrorKind = "InvalidTransition"
	KindInvalidSignature   ErrorKind = "InvalidSignature"
	KindNotAuthorized      ErrorKind = "NotAuthorized"
	KindMixedSeller        ErrorKind = "MixedSeller"
	KindDuplicatePayment   ErrorKind = "DuplicatePayment"
	KindAlreadyTerminal    ErrorKind = "AlreadyTerminal"
	KindAlreadyShipped     ErrorKind = "AlreadyShipped"
	KindNoLogisticRecord   ErrorKind = "NoLogisticRecord"
	KindGatewayUnavailable ErrorKind = "GatewayUnavailable"
	KindInternal           ErrorKind = "Internal"
)

type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Message == "" {
		return string(e.Kind)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// 種類が同じならerrors.Isで一致（メッセージは見ない）
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// errors.Is用の番兵
var (
	ErrValidation         = &Error{Kind: KindValidation}
	ErrNotFound           = &Error{Kind: KindNotFound}
	ErrInvalidTransition  = &Error{Kind: KindInvalidTransition}
	ErrInvalidSignature   = &Error{Kind: KindInvalidSignature}
	ErrNotAuthorized      = &Error{Kind: KindNotAuthorized}
	ErrMixedSeller        = &Error{Kind: KindMixedSeller}
	ErrDuplicatePayment   = &Error{Kind: KindDuplicatePayment}
	ErrAlreadyTerminal    = &Error{Kind: KindAlreadyTerminal}
	ErrAlreadyShipped     = &Error{Kind: KindAlreadyShipped}
	ErrNoLogisticRecord   = &Error{Kind: KindNoLogisticRecord}
	ErrGatewayUnavailable = &Error{Kind: KindGatewayUnavailable}
	ErrInternal           = &Error{Kind: KindInternal}
)

func NewError(kind ErrorKind, message string) error {
	return &Error{Kind: kind, Message: message}
}

func newErrorf(kind ErrorKind, format string, args ...interface{}) error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// DBなどの失敗。原因は握ってログに出すが、外には"db error"だけ見せる
func internalError(message string, err error) error {
	return &Error{Kind: KindInternal, Message: message, Err: err}
}

func AsError(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}

// 分類できないエラーはInternal扱い
func KindOf(err error) ErrorKind {
	if e, ok := AsError(err); ok {
		return e.Kind
	}
	return KindInternal
}
