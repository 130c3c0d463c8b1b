package payments

import (
	"context"
	"errors"
	"fmt"

	"fitcalc-backend/mercadopago"
)

// PixOrder is the gateway-facing creation request.
type PixOrder struct {
	Title          string
	Amount         float64
	PayerEmail     string
	PayerFirstName string
	PayerLastName  string
}

// Gateway is what the flow needs from the payment provider. The production
// implementation wraps the Mercado Pago client; tests substitute their own.
type Gateway interface {
	CreatePix(ctx context.Context, order PixOrder) (*Intent, error)
	Status(ctx context.Context, externalID string) (status, detail string, err error)
}

// MercadoPagoGateway adapts the Mercado Pago client to the flow's Gateway
// and maps provider errors onto the package taxonomy.
type MercadoPagoGateway struct {
	Client *mercadopago.Client
}

func (g *MercadoPagoGateway) CreatePix(ctx context.Context, order PixOrder) (*Intent, error) {
	pix, err := g.Client.CreatePixPayment(ctx, mercadopago.PixRequest{
		Amount:         order.Amount,
		Description:    order.Title,
		PayerEmail:     order.PayerEmail,
		PayerFirstName: order.PayerFirstName,
		PayerLastName:  order.PayerLastName,
	})
	if err != nil {
		return nil, classify(err)
	}
	return &Intent{
		ID:              pix.ID,
		Amount:          order.Amount,
		PayerEmail:      order.PayerEmail,
		PayerName:       order.PayerFirstName,
		QRCodeBase64:    pix.QRCodeBase64,
		QRCodeCopyPaste: pix.QRCodeCopyPaste,
		IdempotencyKey:  pix.IdempotencyKey,
	}, nil
}

func (g *MercadoPagoGateway) Status(ctx context.Context, externalID string) (string, string, error) {
	st, err := g.Client.GetPayment(ctx, externalID)
	if err != nil {
		return "", "", classify(err)
	}
	return st.Status, st.StatusDetail, nil
}

func classify(err error) error {
	switch {
	case errors.Is(err, mercadopago.ErrNotConfigured):
		return fmt.Errorf("%w: %v", ErrConfiguration, err)
	case errors.Is(err, mercadopago.ErrUnauthorized):
		return fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	var apiErr *mercadopago.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Code == "missing_pix_data" {
			return fmt.Errorf("%w: %v", ErrContentUnavailable, err)
		}
		return fmt.Errorf("%w: %v", ErrGateway, err)
	}
	return fmt.Errorf("%w: %v", ErrNetwork, err)
}
