package payments

import (
	"errors"
	"log"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"fitcalc-backend/anamnesis"
	"fitcalc-backend/checkout"
	"fitcalc-backend/email"
	"fitcalc-backend/estimator"
	"fitcalc-backend/leads"
	"fitcalc-backend/mealplan"
	"fitcalc-backend/mercadopago"
	"fitcalc-backend/migrations"
	"fitcalc-backend/session"
)

const (
	defaultPrice = 7.90
	defaultTitle = "FitCalc Premium - Plano Personalizado"
)

type Handler struct {
	sessions *session.Store
	repo     *Repository
	leads    *leads.Service
	gateway     Gateway             // pix mode
	checkout    *checkout.Service   // checkout mode (Stripe hosted page)
	preferences *mercadopago.Client // preference mode (Mercado Pago hosted page)

	interval time.Duration
	timeout  time.Duration
	baseURL  string

	mu    sync.Mutex
	flows map[string]*Flow // funnel session id -> active flow
}

func NewHandler(sessions *session.Store, repo *Repository, leadSvc *leads.Service, gw Gateway) *Handler {
	return &Handler{
		sessions: sessions,
		repo:     repo,
		leads:    leadSvc,
		gateway:  gw,
		interval: envDuration("PAYMENT_POLL_INTERVAL", DefaultPollInterval),
		timeout:  envDuration("PAYMENT_POLL_TIMEOUT", DefaultPollTimeout),
		baseURL:  envOr("BASE_URL", "http://localhost:3000"),
		flows:    map[string]*Flow{},
	}
}

// AttachCheckout wires the redirect-mode service. Called from main after
// construction because the checkout service needs this handler's approval
// callback.
func (h *Handler) AttachCheckout(svc *checkout.Service) {
	h.checkout = svc
}

// AttachPreferences wires the Mercado Pago hosted-page redirect mode, the
// gateway's own variant of checkout. Confirmation happens on the back-URL
// callback, verified against the gateway before unlocking.
func (h *Handler) AttachPreferences(c *mercadopago.Client) {
	h.preferences = c
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.POST("/api/submit-form", h.submitForm)
	r.GET("/api/estimate", h.estimate)
	r.POST("/api/create-payment", h.createPayment)
	r.GET("/api/check-payment", h.checkPayment)
	r.POST("/api/payment/preference", h.createPreference)
	r.GET("/api/payment/confirm", h.confirmCheckout)
	r.POST("/api/payment/webhook", h.webhook)
	r.GET("/api/plan", h.plan)
	r.POST("/api/send-email", h.sendEmail)
	r.GET("/api/admin/stats", h.stats)
}

// submitForm captures the lead and opens the funnel session. The relay is
// fire-and-forget: whatever happens upstream, the caller gets success.
func (h *Handler) submitForm(c *gin.Context) {
	var body struct {
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.Email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email is required."})
		return
	}
	_ = h.leads.Submit(c.Request.Context(), body.Email, body.Name)
	if err := migrations.RecordLead(body.Email, body.Name); err != nil {
		log.Printf("[payments] local lead record failed: %v", err)
	}
	st, token := h.sessions.Start(body.Email, body.Name)
	log.Printf("[payments] session %s opened for %s", st.ID, st.Email)
	c.JSON(http.StatusOK, gin.H{"success": true, "sessionToken": token})
}

// estimate computes the calorie profile from the anamnesis query string.
func (h *Handler) estimate(c *gin.Context) {
	in := anamnesis.FromQuery(c.Request.URL.Query())
	if err := in.Validate(); err != nil {
		var fe *anamnesis.FieldError
		if errors.As(err, &fe) {
			c.JSON(http.StatusBadRequest, gin.H{"error": fe.Message, "field": fe.Field})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	profile, err := estimator.Estimate(in)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Dados insuficientes para o cálculo."})
		return
	}
	resp := gin.H{"profile": profile, "healthTips": mealplan.HealthTips(in)}
	if in.Goal == anamnesis.GoalLoseWeight && in.TargetWeight > 0 {
		delta := in.Weight - in.TargetWeight
		// Flat weekly rates per deficit tier, as displayed on the result
		// page: 0,3 / 0,4 / 0,5 kg por semana.
		resp["timeframes"] = gin.H{
			"light":      estimator.EstimateWeeks(delta, 0.3, in.ExerciseFrequency, in.ActivityTypes),
			"moderate":   estimator.EstimateWeeks(delta, 0.4, in.ExerciseFrequency, in.ActivityTypes),
			"aggressive": estimator.EstimateWeeks(delta, 0.5, in.ExerciseFrequency, in.ActivityTypes),
		}
	}
	c.JSON(http.StatusOK, resp)
}

// createPayment starts a PIX purchase attempt for the caller's session.
func (h *Handler) createPayment(c *gin.Context) {
	st, ok := h.currentSession(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Sessão inválida. Volte e informe seu e-mail novamente."})
		return
	}
	if h.gateway == nil {
		log.Printf("[payments] create-payment called but pix gateway is not configured")
		c.JSON(http.StatusInternalServerError, gin.H{"error": ErrConfiguration.Error()})
		return
	}

	var body struct {
		Title        string  `json:"title"`
		Price        float64 `json:"price"`
		Name         string  `json:"name"`
		Email        string  `json:"email"`
		SearchParams string  `json:"searchParamsString"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Faltam detalhes obrigatórios (preço ou email)."})
		return
	}
	if body.Title == "" {
		body.Title = defaultTitle
	}
	if body.Price == 0 {
		body.Price = defaultPrice
	}
	if body.Email == "" {
		body.Email = st.Email
	}
	if body.Name == "" {
		body.Name = st.Name
	}

	flow := h.flowFor(st.ID)
	intent, err := flow.CreatePayment(c.Request.Context(), CreateRequest{
		Title:        body.Title,
		Amount:       body.Price,
		PayerEmail:   body.Email,
		PayerName:    body.Name,
		SearchParams: body.SearchParams,
	})
	if err != nil {
		h.renderPaymentError(c, err)
		return
	}

	if err := h.repo.Create(&Record{
		ExternalID:   intent.ID,
		SessionID:    st.ID,
		Mode:         "pix",
		Amount:       intent.Amount,
		PayerEmail:   intent.PayerEmail,
		PayerName:    body.Name,
		Status:       StatusPending,
		SearchParams: body.SearchParams,
	}); err != nil {
		log.Printf("[payments] persisting intent %s failed: %v", intent.ID, err)
	}

	c.JSON(http.StatusOK, gin.H{
		"success":         true,
		"paymentId":       intent.ID,
		"qrCodeBase64":    intent.QRCodeBase64,
		"qrCodeCopyPaste": intent.QRCodeCopyPaste,
	})
}

// checkPayment is the client-facing status probe, same contract as the
// original serverless endpoint. The server-side watcher drives the unlock
// independently of these calls.
func (h *Handler) checkPayment(c *gin.Context) {
	id := c.Query("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID do pagamento é obrigatório."})
		return
	}
	if h.gateway == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Configuração de pagamento ausente."})
		return
	}
	status, detail, err := h.gateway.Status(c.Request.Context(), id)
	if err != nil {
		log.Printf("[payments] check-payment %s failed: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao verificar pagamento."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": status, "status_detail": detail})
}

// createPreference opens a hosted-checkout session (redirect mode).
func (h *Handler) createPreference(c *gin.Context) {
	st, ok := h.currentSession(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Sessão inválida. Volte e informe seu e-mail novamente."})
		return
	}
	if h.checkout == nil && h.preferences == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": ErrConfiguration.Error()})
		return
	}
	var body struct {
		Name         string `json:"name"`
		Email        string `json:"email"`
		SearchParams string `json:"searchParamsString"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Nome e e-mail são obrigatórios."})
		return
	}
	if body.Email == "" {
		body.Email = st.Email
	}
	if body.Email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Nome e e-mail são obrigatórios."})
		return
	}

	if h.preferences != nil {
		pref, err := h.preferences.CreatePreference(c.Request.Context(), mercadopago.PreferenceRequest{
			Title:       defaultTitle,
			Description: "Plano alimentar de 7 dias personalizado",
			Amount:      defaultPrice,
			PayerName:   body.Name,
			PayerEmail:  body.Email,
			SuccessURL:  h.baseURL + "/#/payment/success",
			FailureURL:  h.baseURL + "/#/payment/failure",
		})
		if err != nil {
			h.renderPaymentError(c, classify(err))
			return
		}
		if err := h.repo.Create(&Record{
			ExternalID:   pref.ID,
			SessionID:    st.ID,
			Mode:         "preference",
			Amount:       defaultPrice,
			PayerEmail:   body.Email,
			PayerName:    body.Name,
			Status:       StatusPending,
			SearchParams: body.SearchParams,
		}); err != nil {
			log.Printf("[payments] persisting preference %s failed: %v", pref.ID, err)
		}
		c.JSON(http.StatusOK, gin.H{"externalId": pref.ID, "redirectUrl": pref.InitPoint})
		return
	}

	redirectURL, checkoutID, err := h.checkout.CreateSession(c.Request.Context(), st.ID, defaultTitle, int64(defaultPrice*100))
	if err != nil {
		if errors.Is(err, checkout.ErrInvalidAPIKey) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": ErrUnauthorized.Error()})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": ErrGateway.Error()})
		return
	}

	if err := h.repo.Create(&Record{
		ExternalID:   checkoutID,
		SessionID:    st.ID,
		Mode:         "checkout",
		Amount:       defaultPrice,
		PayerEmail:   body.Email,
		PayerName:    body.Name,
		Status:       StatusPending,
		SearchParams: body.SearchParams,
	}); err != nil {
		log.Printf("[payments] persisting checkout %s failed: %v", checkoutID, err)
	}

	c.JSON(http.StatusOK, gin.H{"externalId": checkoutID, "redirectUrl": redirectURL})
}

// confirmCheckout is called by the success page after the gateway redirect.
// The unlock happens synchronously here; in checkout mode the webhook is the
// belt-and-braces path for missed redirects. In preference mode the back URL
// carries payment_id/preference_id and the status is re-verified against the
// gateway before anything unlocks.
func (h *Handler) confirmCheckout(c *gin.Context) {
	if h.preferences != nil {
		h.confirmPreference(c)
		return
	}
	if h.checkout == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": ErrConfiguration.Error()})
		return
	}
	approved, err := h.checkout.Confirm(c.Query("checkout_session_id"))
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": ErrGateway.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"approved": approved})
}

func (h *Handler) confirmPreference(c *gin.Context) {
	st, ok := h.currentSession(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Sessão inválida. Volte e informe seu e-mail novamente."})
		return
	}
	paymentID := c.Query("payment_id")
	if paymentID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "payment_id é obrigatório."})
		return
	}
	status, err := h.preferences.GetPayment(c.Request.Context(), paymentID)
	if err != nil {
		h.renderPaymentError(c, classify(err))
		return
	}
	approved := status.Status == StatusApproved
	if approved {
		externalID := c.Query("preference_id")
		if externalID == "" {
			externalID = paymentID
		}
		payerEmail, payerName, params := st.Email, st.Name, ""
		if rec, err := h.repo.GetByExternalID(externalID); err != nil {
			log.Printf("[payments] loading preference %s failed: %v", externalID, err)
		} else if rec != nil {
			payerEmail, payerName, params = rec.PayerEmail, rec.PayerName, rec.SearchParams
		}
		h.approve(st.ID, externalID, payerEmail, payerName, params)
	}
	c.JSON(http.StatusOK, gin.H{"approved": approved})
}

func (h *Handler) webhook(c *gin.Context) {
	if h.checkout == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": ErrConfiguration.Error()})
		return
	}
	if err := h.checkout.HandleWebhook(c.Writer, c.Request); err != nil {
		log.Printf("[payments] webhook error: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "webhook inválido"})
	}
}

// plan serves the unlocked plan document. The anamnesis answers arrive in
// the same query-string format the pages pass around.
func (h *Handler) plan(c *gin.Context) {
	st, ok := h.currentSession(c)
	if !ok || !h.sessions.Unlocked(st.ID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Pagamento não confirmado para esta sessão."})
		return
	}
	in := anamnesis.FromQuery(c.Request.URL.Query())
	data := mealplan.Build(in, c.Query("calories"))
	html, err := mealplan.HTML(data)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Falha ao montar o plano."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": data, "html": html})
}

// sendEmail re-dispatches the plan email on demand (the success page calls
// this). A provider failure is reported but the funnel never blocks on it.
func (h *Handler) sendEmail(c *gin.Context) {
	var body struct {
		UserEmail    string `json:"userEmail"`
		UserName     string `json:"userName"`
		HTMLPlan     string `json:"htmlPlan"`
		SearchParams string `json:"searchParamsString"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.UserEmail == "" || body.UserName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Dados incompletos para envio do e-mail."})
		return
	}
	htmlPlan := body.HTMLPlan
	if htmlPlan == "" {
		q, _ := url.ParseQuery(body.SearchParams)
		in := anamnesis.FromQuery(q)
		rendered, err := mealplan.HTML(mealplan.Build(in, q.Get("calories")))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Falha ao montar o plano."})
			return
		}
		htmlPlan = rendered
	}
	res := email.SendPlan(body.UserEmail, body.UserName, htmlPlan, h.planURL(body.SearchParams))
	if !res.Success {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Falha ao enviar o e-mail."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "E-mail enviado com sucesso!", "providerMessageId": res.MessageID})
}

// stats exposes funnel conversion numbers for the operator. Requires the
// ADMIN_STATS_TOKEN env var to be set and matched.
func (h *Handler) stats(c *gin.Context) {
	want := os.Getenv("ADMIN_STATS_TOKEN")
	if want == "" || c.GetHeader("X-Admin-Token") != want {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}
	data, err := migrations.GetFunnelStats()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, data)
}

// flowFor returns the session's flow, creating it on first use with the
// approval side effects bound to that session.
func (h *Handler) flowFor(sessionID string) *Flow {
	h.mu.Lock()
	defer h.mu.Unlock()
	if f, ok := h.flows[sessionID]; ok {
		return f
	}
	f := NewFlow(h.gateway, h.interval, h.timeout, func(intent *Intent) {
		h.approve(sessionID, intent.ID, intent.PayerEmail, intent.PayerName, intent.SearchParams)
	})
	h.flows[sessionID] = f
	return f
}

// approve runs the unlock and email side effects for a confirmed payment.
// Unlock is idempotent; the email dispatch is deduplicated by payment id.
func (h *Handler) approve(sessionID, externalID, payerEmail, payerName, searchParams string) {
	h.sessions.Unlock(sessionID)
	if err := h.repo.UpdateStatus(externalID, StatusApproved); err != nil {
		log.Printf("[payments] status update for %s failed: %v", externalID, err)
	}
	first, err := h.repo.MarkEmailSent(externalID)
	if err != nil {
		log.Printf("[payments] email dedup check for %s failed: %v", externalID, err)
		return
	}
	if !first {
		return
	}
	// Email dispatch must never hold up the unlock.
	go func() {
		q, _ := url.ParseQuery(searchParams)
		in := anamnesis.FromQuery(q)
		if payerName == "" {
			payerName = in.Name
		}
		html, err := mealplan.HTML(mealplan.Build(in, q.Get("calories")))
		if err != nil {
			log.Printf("[payments] plan render for %s failed: %v", externalID, err)
			return
		}
		email.SendPlan(payerEmail, payerName, html, h.planURL(searchParams))
	}()
}

// OnCheckoutApproved is the redirect-mode approval callback, invoked by the
// checkout service from Confirm or from the webhook.
func (h *Handler) OnCheckoutApproved(sessionID, checkoutID string) {
	rec, err := h.repo.GetByExternalID(checkoutID)
	if err != nil {
		log.Printf("[payments] loading checkout %s failed: %v", checkoutID, err)
	}
	payerEmail, payerName, params := "", "", ""
	if rec != nil {
		payerEmail, payerName, params = rec.PayerEmail, rec.PayerName, rec.SearchParams
	}
	if payerEmail == "" {
		if st := h.sessions.ByID(sessionID); st != nil {
			payerEmail, payerName = st.Email, st.Name
		}
	}
	h.approve(sessionID, checkoutID, payerEmail, payerName, params)
}

// StopAll tears down every live flow. Called on shutdown.
func (h *Handler) StopAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, f := range h.flows {
		f.Stop()
	}
}

func (h *Handler) currentSession(c *gin.Context) (*session.State, bool) {
	token := c.GetHeader("X-Session-Token")
	if token == "" {
		token = c.Query("session")
	}
	return h.sessions.Get(token)
}

func (h *Handler) renderPaymentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, ErrUnauthorized):
		log.Printf("[payments] gateway credential rejected: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": ErrUnauthorized.Error()})
	case errors.Is(err, ErrConfiguration):
		log.Printf("[payments] gateway misconfigured: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": ErrConfiguration.Error()})
	case errors.Is(err, ErrContentUnavailable):
		c.JSON(http.StatusBadGateway, gin.H{"error": ErrContentUnavailable.Error()})
	case errors.Is(err, ErrNetwork):
		c.JSON(http.StatusBadGateway, gin.H{"error": ErrNetwork.Error()})
	default:
		c.JSON(http.StatusBadGateway, gin.H{"error": ErrGateway.Error()})
	}
}

func (h *Handler) planURL(searchParams string) string {
	if searchParams == "" {
		return h.baseURL + "/#/plano"
	}
	return h.baseURL + "/#/plano?" + searchParams
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	if d, err := time.ParseDuration(v); err == nil && d > 0 {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil && n > 0 {
		return time.Duration(n) * time.Second
	}
	return fallback
}
