package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/avdeevlv/vitrina/internal/api"
	"github.com/avdeevlv/vitrina/internal/cart"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Remote call or validation failure
	ExitCommandError = 2 // Command error (bad flags, missing files, etc.)
)

// ExitError carries a specific exit code out of a command RunE.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error. Non-ExitErrors are
// plain failures.
func GetExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format string
	Writer io.Writer
}

// Response is the standard JSON envelope for CLI output.
type Response struct {
	Status string `json:"status"`
	Data   any    `json:"data,omitempty"`
	Error  string `json:"error,omitempty"`
}

// Success emits data: the JSON envelope in json mode, the provided text
// rendering otherwise.
func (f *OutputFormatter) Success(data any, text string) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(Response{Status: "ok", Data: data})
	}
	_, err := fmt.Fprintln(f.Writer, text)
	return err
}

// Alert texts shown for remote failures. Session expiry is deliberately
// not a generic alert; the session-expiry handling asks for a re-login
// instead.
const (
	genericAlertText = "Что-то пошло не так. Попробуйте позже."
	sessionAlertText = "Сессия истекла. Войдите заново: vitrina login <token>."
)

// userMessage converts a remote-call error into the text the user sees.
// Everything remote-shaped collapses into the generic alert; only
// validation failures enumerate specifics (the missing field names).
func userMessage(err error) string {
	var vErr *cart.ValidationError
	switch {
	case errors.As(err, &vErr):
		return "Заполните поля доставки: " + strings.Join(vErr.Missing, ", ")
	case errors.Is(err, api.ErrSessionExpired):
		return sessionAlertText
	case errors.Is(err, cart.ErrEmptyCart):
		return "Корзина пуста."
	default:
		return genericAlertText
	}
}
