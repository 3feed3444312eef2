package ai

import (
	"errors"
	"fmt"
)

type FailKind string

const (
	// FailMissingCredential: nenhuma chave de API configurada. O scan segue
	// só com o relatório base.
	FailMissingCredential FailKind = "missing_credential"
	// FailTransport: erro de rede ou timeout falando com o serviço externo.
	FailTransport FailKind = "transport_failure"
	// FailUpstream: o serviço respondeu com status não-sucesso.
	FailUpstream FailKind = "upstream_error"
	// FailMalformedResponse: status de sucesso mas sem texto utilizável.
	FailMalformedResponse FailKind = "malformed_response"
)

// Failure é o resultado tipado de uma falha do requester. Os quatro tipos
// precisam ser distinguíveis; nenhum deles pode derrubar o pipeline.
type Failure struct {
	Kind   FailKind
	Status int // status HTTP quando Kind=upstream_error
	Err    error
}

func (f *Failure) Error() string {
	switch {
	case f.Err != nil:
		return fmt.Sprintf("ai: %s: %v", f.Kind, f.Err)
	case f.Status != 0:
		return fmt.Sprintf("ai: %s: status %d", f.Kind, f.Status)
	default:
		return fmt.Sprintf("ai: %s", f.Kind)
	}
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// AsFailure extrai a Failure tipada de um erro retornado por Generate.
func AsFailure(err error) (*Failure, bool) {
	var f *Failure
	if errors.As(err, &f) {
		return f, true
	}
	return nil, false
}
