// Package leads relays captured emails to the Web3Forms form endpoint.
// Lead capture must never block the purchase funnel, so Submit always
// reports success to the caller whatever the upstream outcome.
package leads

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"time"
)

const defaultEndpoint = "https://api.web3forms.com/submit"

type Service struct {
	accessKey  string
	endpoint   string
	httpClient *http.Client
}

// NewFromEnv reads WEB3FORMS_ACCESS_KEY. A missing key is allowed: the
// service then skips the upstream call and still reports success.
func NewFromEnv() *Service {
	return &Service{
		accessKey:  os.Getenv("WEB3FORMS_ACCESS_KEY"),
		endpoint:   defaultEndpoint,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// WithEndpoint points the service at a different URL. Used by tests.
func (s *Service) WithEndpoint(u string) *Service {
	s.endpoint = u
	return s
}

// Submit relays the lead. The returned error is always nil; failures are
// logged and absorbed here.
func (s *Service) Submit(ctx context.Context, userEmail, name string) error {
	if s.accessKey == "" {
		log.Printf("[leads] WEB3FORMS_ACCESS_KEY not set, skipping submission for %s", userEmail)
		return nil
	}
	if name == "" {
		name = "Não informado"
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	_ = w.WriteField("access_key", s.accessKey)
	_ = w.WriteField("email", userEmail)
	_ = w.WriteField("name", name)
	_ = w.WriteField("subject", "Novo lead - Plano 7 Dias FitCalc")
	_ = w.WriteField("message", fmt.Sprintf("O usuário %s solicitou o plano personalizado.", userEmail))
	_ = w.Close()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, &buf)
	if err != nil {
		log.Printf("[leads] building request failed: %v", err)
		return nil
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := s.httpClient.Do(req)
	if err != nil {
		log.Printf("[leads] submission failed for %s: %v", userEmail, err)
		return nil
	}
	defer resp.Body.Close()

	var out struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		log.Printf("[leads] malformed response for %s: %v", userEmail, err)
		return nil
	}
	if !out.Success {
		log.Printf("[leads] upstream rejected %s: %s", userEmail, out.Message)
	}
	return nil
}
