package roktdomain

import (
	"fmt"
)

// AuthenticationError indica falha na troca client_credentials: status HTTP
// diferente de 2xx, resposta sem access_token ou erro de transporte
type AuthenticationError struct {
	StatusCode int
	Body       string
	Reason     string
	Cause      error
}

func (e *AuthenticationError) Error() string {
	switch {
	case e.Cause != nil:
		return fmt.Sprintf("rokt: falha de autenticação: %s: %v", e.Reason, e.Cause)
	case e.StatusCode != 0:
		return fmt.Sprintf("rokt: falha de autenticação. Status: %d, Resposta: %s", e.StatusCode, e.Body)
	default:
		return fmt.Sprintf("rokt: falha de autenticação: %s", e.Reason)
	}
}

func (e *AuthenticationError) Unwrap() error {
	return e.Cause
}

// RequestError representa uma resposta não 2xx da API de relatórios
type RequestError struct {
	Method     string
	URL        string
	StatusCode int
	Body       string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("rokt: erro na resposta da API. %s %s Status: %d, Corpo: %s", e.Method, e.URL, e.StatusCode, e.Body)
}

// MalformedResponseError indica que o payload não tem o formato esperado,
// por exemplo sem a chave data
type MalformedResponseError struct {
	Field  string
	Reason string
	Cause  error
}

func (e *MalformedResponseError) Error() string {
	msg := "rokt: resposta malformada"
	if e.Field != "" {
		msg += fmt.Sprintf(" (campo %q)", e.Field)
	}
	msg += ": " + e.Reason
	if e.Cause != nil {
		msg += fmt.Sprintf(": %v", e.Cause)
	}
	return msg
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Cause
}
