package donation

import (
	"errors"
	"fmt"
	"strings"
)

// ProviderError is one structured error entry from the payment provider.
type ProviderError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// GatewayError wraps a non-2xx provider response for classification.
type GatewayError struct {
	StatusCode int
	Errors     []ProviderError
}

func (e *GatewayError) Error() string {
	if len(e.Errors) > 0 {
		return fmt.Sprintf("gateway error (status %d): %s", e.StatusCode, e.Errors[0].Description)
	}
	return fmt.Sprintf("gateway error (status %d)", e.StatusCode)
}

// User-facing messages for classified gateway failures.
const (
	MsgGatewayTaxID   = "CPF inválido. Confira o número informado e tente novamente."
	MsgGatewayEmail   = "E-mail inválido. Confira o endereço informado e tente novamente."
	MsgGatewayPhone   = "Telefone inválido. Confira o número informado e tente novamente."
	MsgGatewayGeneric = "Não foi possível concluir a doação. Tente novamente em instantes."
)

// Classify maps a failure from the submission pipeline to a user-facing
// message. Provider errors are matched by substring against the first
// reported description, in priority order: CPF, then email, then phone;
// anything else passes the provider's own text through. Transport and
// persistence failures get the generic fallback. Raw errors never reach the
// user.
func Classify(err error) string {
	var ge *GatewayError
	if !errors.As(err, &ge) {
		return MsgGatewayGeneric
	}
	if len(ge.Errors) == 0 {
		return MsgGatewayGeneric
	}
	desc := ge.Errors[0].Description
	lower := strings.ToLower(desc)
	switch {
	case strings.Contains(lower, "cpf"):
		return MsgGatewayTaxID
	case strings.Contains(lower, "email") || strings.Contains(lower, "e-mail"):
		return MsgGatewayEmail
	case strings.Contains(lower, "phone") || strings.Contains(lower, "telefone"):
		return MsgGatewayPhone
	case desc != "":
		return desc
	default:
		return MsgGatewayGeneric
	}
}
