// Package checkout implements the redirect confirmation mode: a hosted
// Stripe checkout session the gateway redirects back from, confirmed either
// by the success-page callback or by webhook. The PIX deployment does not
// use this package at all; the two modes are mutually exclusive per
// deployment.
package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"sync"

	stripe "github.com/stripe/stripe-go/v78"
	"github.com/stripe/stripe-go/v78/client"
	"github.com/stripe/stripe-go/v78/webhook"
)

var ErrInvalidAPIKey = errors.New("stripe_invalid_api_key")

// Service wraps checkout session creation and confirmation. If
// STRIPE_SECRET_KEY is not set the service is nil and the pix mode must be
// configured instead.
type Service struct {
	secretKey     string
	webhookSecret string
	successURL    string
	cancelURL     string
	sc            *client.API

	// onApproved is invoked exactly once per confirmed checkout with the
	// funnel session id stored in the session metadata.
	onApproved func(sessionID, checkoutID string)

	mu         sync.Mutex
	invalidKey bool // once detected, short-circuit further remote calls
	confirmed  map[string]bool
}

func (s *Service) keyInvalid() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.invalidKey
}

func (s *Service) markKeyInvalid() {
	s.mu.Lock()
	s.invalidKey = true
	s.mu.Unlock()
}

func maskKey(k string) string {
	if len(k) < 12 {
		return "****"
	}
	return k[:7] + "..." + k[len(k)-4:]
}

// NewFromEnv returns a configured service or nil when STRIPE_SECRET_KEY is
// missing.
func NewFromEnv(onApproved func(sessionID, checkoutID string)) *Service {
	key := os.Getenv("STRIPE_SECRET_KEY")
	if key == "" {
		return nil
	}
	base := os.Getenv("BASE_URL")
	if base == "" {
		base = "http://localhost:3000"
	}
	success := os.Getenv("STRIPE_SUCCESS_URL")
	if success == "" {
		success = base + "/#/payment/success?checkout_session_id={CHECKOUT_SESSION_ID}"
	}
	cancel := os.Getenv("STRIPE_CANCEL_URL")
	if cancel == "" {
		cancel = base + "/#/payment/failure"
	}
	sc := &client.API{}
	sc.Init(key, nil)
	return &Service{
		secretKey:     key,
		webhookSecret: os.Getenv("STRIPE_WEBHOOK_SECRET"),
		successURL:    success,
		cancelURL:     cancel,
		sc:            sc,
		onApproved:    onApproved,
		confirmed:     map[string]bool{},
	}
}

// CreateSession creates a one-off checkout session for the plan purchase and
// returns the hosted page URL plus the session id. The funnel session id
// rides in the metadata so confirmation can unlock the right session.
func (s *Service) CreateSession(ctx context.Context, funnelSessionID, title string, amountCents int64) (string, string, error) {
	if s == nil {
		return "", "", errors.New("checkout não configurado")
	}
	if s.keyInvalid() {
		return "", "", ErrInvalidAPIKey
	}
	params := &stripe.CheckoutSessionParams{
		SuccessURL: stripe.String(s.successURL),
		CancelURL:  stripe.String(s.cancelURL),
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:   stripe.String("brl"),
				UnitAmount: stripe.Int64(amountCents),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(title),
				},
			},
			Quantity: stripe.Int64(1),
		}},
		Metadata: map[string]string{
			"funnel_session": funnelSessionID,
		},
	}
	params.Context = ctx
	sess, err := s.sc.CheckoutSessions.New(params)
	if err != nil {
		var se *stripe.Error
		if errors.As(err, &se) && (se.HTTPStatusCode == 401 || strings.Contains(strings.ToLower(se.Msg), "invalid api key")) {
			log.Printf("[checkout] invalid api key (%s): %v", maskKey(s.secretKey), se)
			s.markKeyInvalid()
			return "", "", ErrInvalidAPIKey
		}
		log.Printf("[checkout] session create error: %v", err)
		return "", "", err
	}
	return sess.URL, sess.ID, nil
}

// Confirm queries Stripe for the checkout session; when complete, fires the
// approval side effects. Idempotent: repeated confirmations of the same
// checkout unlock once and never dispatch twice.
func (s *Service) Confirm(checkoutID string) (bool, error) {
	if s == nil {
		return false, errors.New("checkout não configurado")
	}
	if checkoutID == "" {
		return false, errors.New("checkout_session_id vazio")
	}
	sess, err := s.sc.CheckoutSessions.Get(checkoutID, nil)
	if err != nil {
		return false, err
	}
	if sess.Status != stripe.CheckoutSessionStatusComplete {
		return false, nil
	}
	funnelSession := sess.Metadata["funnel_session"]
	if funnelSession == "" {
		return false, fmt.Errorf("metadata incompleta")
	}
	s.approve(funnelSession, checkoutID)
	return true, nil
}

// HandleWebhook consumes checkout.session.completed events and performs the
// same approval path as Confirm.
func (s *Service) HandleWebhook(w http.ResponseWriter, r *http.Request) error {
	if s == nil {
		return errors.New("checkout não configurado")
	}
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		return err
	}
	sig := r.Header.Get("Stripe-Signature")
	if s.webhookSecret != "" {
		if _, err := webhook.ConstructEvent(payload, sig, s.webhookSecret); err != nil {
			return fmt.Errorf("assinatura inválida: %w", err)
		}
	}

	var event struct {
		Type string `json:"type"`
		Data struct {
			Object struct {
				ID       string            `json:"id"`
				Metadata map[string]string `json:"metadata"`
			} `json:"object"`
		} `json:"data"`
	}
	if err := json.Unmarshal(payload, &event); err != nil {
		return err
	}
	if event.Type != "checkout.session.completed" {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ignored"))
		return nil
	}
	funnelSession := event.Data.Object.Metadata["funnel_session"]
	if funnelSession == "" {
		return fmt.Errorf("metadata incompleta")
	}
	s.approve(funnelSession, event.Data.Object.ID)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
	return nil
}

func (s *Service) approve(funnelSessionID, checkoutID string) {
	s.mu.Lock()
	if s.confirmed[checkoutID] {
		s.mu.Unlock()
		return
	}
	s.confirmed[checkoutID] = true
	s.mu.Unlock()
	if s.onApproved != nil {
		s.onApproved(funnelSessionID, checkoutID)
	}
}
