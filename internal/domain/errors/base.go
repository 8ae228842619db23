package errors

import "fmt"

// Messages maps a base language tag ("en", "es") to a message.
type Messages map[string]string

type AppError struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	HTTPCode int    `json:"-"`

	messages Messages
	detail   string
	cause    error
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func New(code string, httpCode int, message string) *AppError {
	return &AppError{
		Code:     code,
		Message:  message,
		HTTPCode: httpCode,
	}
}

func newAppError(code string, httpCode int, msgs Messages) *AppError {
	return &AppError{
		Code:     code,
		Message:  msgs["en"],
		HTTPCode: httpCode,
		messages: msgs,
	}
}

// Unwrap exposes the error the AppError was built from, if any.
func (e *AppError) Unwrap() error {
	return e.cause
}

// WithCause records err as the underlying error and returns e.
func (e *AppError) WithCause(err error) *AppError {
	e.cause = err
	return e
}

func (e *AppError) withDetail(detail string) *AppError {
	e.detail = detail
	e.Message = joinDetail(e.Message, detail)
	return e
}

// Localize returns a copy of e with its message in lang, falling back to
// English. The receiver is not modified.
func (e *AppError) Localize(lang string) *AppError {
	base := baseLanguage(lang)

	msg, ok := e.messages[base]
	if !ok {
		msg, ok = e.messages["en"]
	}
	if !ok {
		msg = GetMessage(e.Code, lang)
	}

	return &AppError{
		Code:     e.Code,
		Message:  joinDetail(msg, e.detail),
		HTTPCode: e.HTTPCode,
		messages: e.messages,
		detail:   e.detail,
		cause:    e.cause,
	}
}

func joinDetail(msg, detail string) string {
	if detail == "" {
		return msg
	}
	return fmt.Sprintf("%s: %s", msg, detail)
}
