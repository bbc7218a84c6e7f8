// Package apperr defines the error taxonomy shared by every component.
// Transport-level failures are translated into one of these kinds at the
// boundary of each component so callers never see raw network errors.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies a caller-facing failure.
type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindForbidden
	KindTimeout
	KindInsufficientContent
	KindUpstream
	KindUnverifiedClaim
	KindDownload
	KindProbe
	KindExtractAudio
	KindUpload
	KindTranscription
)

// Error carries a kind plus a human-readable Portuguese message.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// New creates an error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap creates an error of the given kind wrapping an underlying cause.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf returns the kind of err, or KindUnknown when err is not an *Error.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindUnknown
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// Common constructors with the user-visible wording of each failure class.

func NotFound(url string) *Error {
	return New(KindNotFound, "URL não encontrada. Verifique se o endereço está correto.")
}

func Forbidden() *Error {
	return New(KindForbidden, "Acesso proibido (403). O site está bloqueando nossa requisição.")
}

func Timeout(what string) *Error {
	return New(KindTimeout, fmt.Sprintf("Tempo limite excedido: %s demorou muito para responder.", what))
}

func InsufficientContent() *Error {
	return New(KindInsufficientContent, "Não foi possível extrair conteúdo significativo desta página.")
}

func Upstream(message string, err error) *Error {
	return Wrap(KindUpstream, message, err)
}

func UnverifiedClaim(keyword string) *Error {
	return New(KindUnverifiedClaim, fmt.Sprintf(
		"Não foi possível verificar a veracidade de %q. Pode ser uma informação falsa ou boato.", keyword))
}
