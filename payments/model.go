// Package payments drives a purchase attempt from intent creation to
// content unlock. The PIX deployment confirms by polling the gateway; the
// checkout deployment confirms on redirect (see the checkout package).
package payments

import "errors"

// State is the position of one purchase attempt in the flow.
type State string

const (
	StateIdle     State = "idle"
	StateCreating State = "creating"
	StateAwaiting State = "awaiting_payment"
	StateApproved State = "approved"
	StateRejected State = "rejected"
	StateTimedOut State = "timed_out"
)

// Terminal reports whether the state accepts no further transitions.
func (s State) Terminal() bool {
	return s == StateApproved || s == StateRejected || s == StateTimedOut
}

// Gateway payment statuses as reported by the provider.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// Intent is one attempt to collect payment. Immutable once created; a retry
// always creates a new Intent with a fresh idempotency key.
type Intent struct {
	ID              string  `json:"externalId"`
	Amount          float64 `json:"amount"`
	PayerEmail      string  `json:"payerEmail"`
	PayerName       string  `json:"payerName"`
	QRCodeBase64    string  `json:"qrImageBase64,omitempty"`
	QRCodeCopyPaste string  `json:"qrCopyPasteCode,omitempty"`
	RedirectURL     string  `json:"redirectUrl,omitempty"`
	IdempotencyKey  string  `json:"-"`
	SearchParams    string  `json:"-"`
}

// Error taxonomy for gateway interaction. Validation problems are handled
// at the handler boundary and never reach the flow.
var (
	// ErrValidation: user-correctable input problem, retryable after fixing.
	ErrValidation = errors.New("dados obrigatórios ausentes")
	// ErrConfiguration: server-side credential missing. Operator problem,
	// not retryable by the end user.
	ErrConfiguration = errors.New("o gateway de pagamento não está configurado")
	// ErrUnauthorized: credential rejected by the provider. Same user-facing
	// bucket as ErrConfiguration, logged distinctly.
	ErrUnauthorized = errors.New("credenciais do gateway de pagamento recusadas")
	// ErrGateway: any other non-2xx or malformed gateway response. Retryable.
	ErrGateway = errors.New("falha ao processar pagamento")
	// ErrNetwork: transport failure. Retryable; during polling it is
	// swallowed, never surfaced.
	ErrNetwork = errors.New("falha de comunicação com o gateway")
	// ErrContentUnavailable: success-shaped response missing the payment
	// artifact (QR data or redirect URL). Treated like ErrGateway.
	ErrContentUnavailable = errors.New("falha ao gerar QR Code do PIX")
)
