package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"fitcalc-backend/checkout"
	"fitcalc-backend/conn"
	"fitcalc-backend/leads"
	"fitcalc-backend/mercadopago"
	"fitcalc-backend/migrations"
	"fitcalc-backend/payments"
	"fitcalc-backend/session"
)

func main() {
	_ = godotenv.Load(".env")

	var repo *payments.Repository
	if os.Getenv("DB_HOST") != "" {
		db, err := conn.NewMySQL()
		if err != nil {
			log.Fatalf("[main] mysql connection failed: %v", err)
		}
		migrations.Init(db)
		if err := migrations.Migrate(); err != nil {
			log.Fatalf("[main] migrations failed: %v", err)
		}
		repo = payments.NewRepository(db)
	} else {
		log.Printf("[main] DB_HOST not set, running without persistence")
	}

	sessions := session.NewStore()
	leadSvc := leads.NewFromEnv()

	mode := os.Getenv("PAYMENT_MODE")
	if mode == "" {
		mode = "pix"
	}

	var gateway payments.Gateway
	switch mode {
	case "pix":
		mp := mercadopago.NewFromEnv()
		if mp == nil {
			log.Fatalf("[main] PAYMENT_MODE=pix requires MERCADOPAGO_ACCESS_TOKEN")
		}
		gateway = &payments.MercadoPagoGateway{Client: mp}
	case "checkout", "preference":
		// wired below, after the handler exists
	default:
		log.Fatalf("[main] unknown PAYMENT_MODE %q (want pix, checkout or preference)", mode)
	}

	h := payments.NewHandler(sessions, repo, leadSvc, gateway)
	switch mode {
	case "checkout":
		svc := checkout.NewFromEnv(h.OnCheckoutApproved)
		if svc == nil {
			log.Fatalf("[main] PAYMENT_MODE=checkout requires STRIPE_SECRET_KEY")
		}
		h.AttachCheckout(svc)
	case "preference":
		mp := mercadopago.NewFromEnv()
		if mp == nil {
			log.Fatalf("[main] PAYMENT_MODE=preference requires MERCADOPAGO_ACCESS_TOKEN")
		}
		h.AttachPreferences(mp)
	}
	defer h.StopAll()

	r := gin.Default()
	h.RegisterRoutes(r)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("[main] listening on :%s (mode=%s)", port, mode)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("[main] server stopped: %v", err)
	}
}
