package payments

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"fitcalc-backend/anamnesis"
	"fitcalc-backend/leads"
	"fitcalc-backend/mercadopago"
	"fitcalc-backend/session"
)

func testRouter(t *testing.T, gw Gateway) (*gin.Engine, *Handler) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	t.Setenv("PAYMENT_POLL_INTERVAL", "10ms")
	t.Setenv("PAYMENT_POLL_TIMEOUT", "2s")

	h := NewHandler(session.NewStore(), nil, leads.NewFromEnv(), gw)
	t.Cleanup(h.StopAll)

	r := gin.New()
	h.RegisterRoutes(r)
	return r, h
}

func doJSON(r *gin.Engine, method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("X-Session-Token", token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func openSession(t *testing.T, r *gin.Engine) string {
	t.Helper()
	w := doJSON(r, http.MethodPost, "/api/submit-form", "", `{"email":"ana@example.com","name":"Ana Souza"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("submit-form: status %d body %s", w.Code, w.Body.String())
	}
	var resp struct {
		Success      bool   `json:"success"`
		SessionToken string `json:"sessionToken"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Success || resp.SessionToken == "" {
		t.Fatalf("submit-form response: %s", w.Body.String())
	}
	return resp.SessionToken
}

func anamnesisQuery() string {
	in := &anamnesis.Input{
		Name:              "Ana Souza",
		Weight:            80,
		Height:            165,
		Age:               30,
		Sex:               anamnesis.SexFemale,
		ActivityLevel:     anamnesis.ActivityModerate,
		SleepQuality:      anamnesis.SleepRegular,
		ExerciseFrequency: anamnesis.ExerciseNone,
		Goal:              anamnesis.GoalLoseWeight,
		TargetWeight:      70,
		EconomicProfile:   anamnesis.EconomicStandard,
		DietaryPreference: anamnesis.DietOmnivore,
		MainChallenge:     anamnesis.ChallengeCravings,
		SmokingStatus:     anamnesis.NonSmoker,
		AlcoholFrequency:  anamnesis.AlcoholSocially,
		HealthConditions:  []anamnesis.HealthCondition{anamnesis.CondNone},
		Medications:       []anamnesis.Medication{anamnesis.MedNone},
		TakesSupplements:  anamnesis.SupplementsNo,
	}
	return in.Values().Encode()
}

func TestSubmitFormRequiresEmail(t *testing.T) {
	r, _ := testRouter(t, &stubGateway{})
	if w := doJSON(r, http.MethodPost, "/api/submit-form", "", `{"name":"Ana"}`); w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestCreatePaymentRequiresSession(t *testing.T) {
	r, _ := testRouter(t, &stubGateway{})
	w := doJSON(r, http.MethodPost, "/api/create-payment", "", `{"price":7.9}`)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestCreatePaymentPixResponse(t *testing.T) {
	r, _ := testRouter(t, &stubGateway{status: StatusPending})
	token := openSession(t, r)

	w := doJSON(r, http.MethodPost, "/api/create-payment", token, `{"title":"Plano","price":7.9,"name":"Ana Souza"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body %s", w.Code, w.Body.String())
	}
	var resp struct {
		Success         bool   `json:"success"`
		PaymentID       string `json:"paymentId"`
		QRCodeBase64    string `json:"qrCodeBase64"`
		QRCodeCopyPaste string `json:"qrCodeCopyPaste"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Success || resp.PaymentID == "" || resp.QRCodeBase64 == "" || resp.QRCodeCopyPaste == "" {
		t.Fatalf("incomplete pix response: %s", w.Body.String())
	}
}

func TestApprovalUnlocksPlan(t *testing.T) {
	gw := &stubGateway{status: StatusPending}
	r, h := testRouter(t, gw)
	token := openSession(t, r)

	planPath := "/api/plan?" + anamnesisQuery() + "&calories=1800"
	if w := doJSON(r, http.MethodGet, planPath, token, ""); w.Code != http.StatusForbidden {
		t.Fatalf("plan before payment: status = %d, want 403", w.Code)
	}

	body := `{"price":7.9,"name":"Ana Souza","searchParamsString":"` + anamnesisQuery() + `&calories=1800"}`
	if w := doJSON(r, http.MethodPost, "/api/create-payment", token, body); w.Code != http.StatusOK {
		t.Fatalf("create-payment: %d %s", w.Code, w.Body.String())
	}
	gw.setStatus(StatusApproved)

	st, _ := h.sessions.Get(token)
	deadline := time.Now().Add(2 * time.Second)
	for !h.sessions.Unlocked(st.ID) {
		if time.Now().After(deadline) {
			t.Fatal("approval never unlocked the session")
		}
		time.Sleep(10 * time.Millisecond)
	}

	w := doJSON(r, http.MethodGet, planPath, token, "")
	if w.Code != http.StatusOK {
		t.Fatalf("plan after payment: %d %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "Dia 1") {
		t.Errorf("plan response missing meal days")
	}
}

func TestRejectionKeepsPlanLocked(t *testing.T) {
	gw := &stubGateway{status: StatusRejected}
	r, h := testRouter(t, gw)
	token := openSession(t, r)

	if w := doJSON(r, http.MethodPost, "/api/create-payment", token, `{"price":7.9}`); w.Code != http.StatusOK {
		t.Fatalf("create-payment: %d", w.Code)
	}
	st, _ := h.sessions.Get(token)
	time.Sleep(100 * time.Millisecond)
	if h.sessions.Unlocked(st.ID) {
		t.Fatal("rejected payment unlocked the session")
	}
	if w := doJSON(r, http.MethodGet, "/api/plan?"+anamnesisQuery(), token, ""); w.Code != http.StatusForbidden {
		t.Fatalf("plan after rejection: status = %d, want 403", w.Code)
	}
}

func TestCreatePaymentErrorMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
	}{
		{"unauthorized", ErrUnauthorized, http.StatusInternalServerError},
		{"configuration", ErrConfiguration, http.StatusInternalServerError},
		{"gateway", ErrGateway, http.StatusBadGateway},
		{"network", ErrNetwork, http.StatusBadGateway},
		{"content unavailable", ErrContentUnavailable, http.StatusBadGateway},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r, _ := testRouter(t, &stubGateway{createErr: tc.err})
			token := openSession(t, r)
			w := doJSON(r, http.MethodPost, "/api/create-payment", token, `{"price":7.9}`)
			if w.Code != tc.code {
				t.Fatalf("status = %d, want %d (%s)", w.Code, tc.code, w.Body.String())
			}
		})
	}
}

func TestCheckPayment(t *testing.T) {
	gw := &stubGateway{status: StatusApproved, detail: "accredited"}
	r, _ := testRouter(t, gw)

	if w := doJSON(r, http.MethodGet, "/api/check-payment", "", ""); w.Code != http.StatusBadRequest {
		t.Fatalf("missing id: status = %d, want 400", w.Code)
	}

	w := doJSON(r, http.MethodGet, "/api/check-payment?id=pay-1", "", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp struct {
		Status       string `json:"status"`
		StatusDetail string `json:"status_detail"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != "approved" || resp.StatusDetail != "accredited" {
		t.Errorf("body = %s", w.Body.String())
	}
}

func TestEstimateEndpoint(t *testing.T) {
	r, _ := testRouter(t, &stubGateway{})

	w := doJSON(r, http.MethodGet, "/api/estimate?"+anamnesisQuery(), "", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body %s", w.Code, w.Body.String())
	}
	var resp struct {
		Profile struct {
			BMR  int `json:"bmr"`
			TDEE int `json:"tdee"`
		} `json:"profile"`
		Timeframes map[string]string `json:"timeframes"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Profile.BMR == 0 || resp.Profile.TDEE == 0 {
		t.Errorf("profile not computed: %s", w.Body.String())
	}
	if len(resp.Timeframes) != 3 {
		t.Errorf("lose-weight estimate should include three timeframes: %s", w.Body.String())
	}
	// 10 kg at the flat tier rates with no exercise: ceil(10/0.3)=34 weeks,
	// ceil(10/0.4)=25, ceil(10/0.5)=20.
	want := map[string]string{"light": "~8.5 meses", "moderate": "~6.3 meses", "aggressive": "~5 meses"}
	for tier, months := range want {
		if resp.Timeframes[tier] != months {
			t.Errorf("timeframes[%s] = %q, want %q", tier, resp.Timeframes[tier], months)
		}
	}
}

func TestEstimateEndpointValidation(t *testing.T) {
	r, _ := testRouter(t, &stubGateway{})
	w := doJSON(r, http.MethodGet, "/api/estimate?name=A", "", "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	var resp struct {
		Field string `json:"field"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Field != "name" {
		t.Errorf("field = %q, want name (%s)", resp.Field, w.Body.String())
	}
}

func TestSendEmailValidatesInput(t *testing.T) {
	r, _ := testRouter(t, &stubGateway{})
	w := doJSON(r, http.MethodPost, "/api/send-email", "", `{"userName":"Ana"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestStatsRequiresToken(t *testing.T) {
	r, _ := testRouter(t, &stubGateway{})
	if w := doJSON(r, http.MethodGet, "/api/admin/stats", "", ""); w.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", w.Code)
	}
}

func TestPreferenceModeCreatesAndConfirms(t *testing.T) {
	mp := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/checkout/preferences":
			fmt.Fprint(w, `{"id":"pref-701","init_point":"https://mp.example/init/pref-701"}`)
		case r.Method == http.MethodGet && r.URL.Path == "/v1/payments/900100":
			fmt.Fprint(w, `{"status":"approved","status_detail":"accredited"}`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer mp.Close()

	r, h := testRouter(t, nil)
	h.AttachPreferences(mercadopago.New("TEST-token").WithBaseURL(mp.URL))
	token := openSession(t, r)

	planPath := "/api/plan?" + anamnesisQuery() + "&calories=1800"
	if w := doJSON(r, http.MethodGet, planPath, token, ""); w.Code != http.StatusForbidden {
		t.Fatalf("plan before payment: status = %d, want 403", w.Code)
	}

	body := `{"name":"Ana Souza","email":"ana@example.com","searchParamsString":"` + anamnesisQuery() + `&calories=1800"}`
	w := doJSON(r, http.MethodPost, "/api/payment/preference", token, body)
	if w.Code != http.StatusOK {
		t.Fatalf("create preference: status %d body %s", w.Code, w.Body.String())
	}
	var created struct {
		ExternalID  string `json:"externalId"`
		RedirectURL string `json:"redirectUrl"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.ExternalID != "pref-701" {
		t.Errorf("externalId = %q, want pref-701", created.ExternalID)
	}
	if created.RedirectURL != "https://mp.example/init/pref-701" {
		t.Errorf("redirectUrl = %q", created.RedirectURL)
	}

	w = doJSON(r, http.MethodGet, "/api/payment/confirm?payment_id=900100&preference_id=pref-701", token, "")
	if w.Code != http.StatusOK {
		t.Fatalf("confirm: status %d body %s", w.Code, w.Body.String())
	}
	var conf struct {
		Approved bool `json:"approved"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &conf); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !conf.Approved {
		t.Fatalf("confirm: approved = false, body %s", w.Body.String())
	}

	w = doJSON(r, http.MethodGet, planPath, token, "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "Dia 1") {
		t.Fatalf("plan after confirm: status %d", w.Code)
	}
}

func TestConfirmPreferenceRequiresPaymentID(t *testing.T) {
	r, h := testRouter(t, nil)
	h.AttachPreferences(mercadopago.New("TEST-token"))
	token := openSession(t, r)

	if w := doJSON(r, http.MethodGet, "/api/payment/confirm", token, ""); w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}
