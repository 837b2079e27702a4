package httpapi

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
)

func NewRouter(payments *PaymentHandler, auth *AuthHandler, frontendOrigin string, registry *prometheus.Registry) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("payment gateway up"))
	})

	mux.HandleFunc("POST /api/pagamento/pix", payments.CreatePix)
	mux.HandleFunc("POST /api/pagamento/cartao", payments.CreateCard)
	mux.HandleFunc("POST /api/gerar-token-cartao", payments.CreateCardToken)
	mux.HandleFunc("GET /api/pagamento/methods/{bin}", payments.PaymentMethods)
	mux.HandleFunc("GET /api/pagamento/status/{paymentId}", payments.Status)
	mux.HandleFunc("POST /webhook", payments.Webhook)
	mux.HandleFunc("POST /v1/webhook", payments.Webhook)

	mux.HandleFunc("POST /api/signup", auth.SignUp)
	mux.HandleFunc("POST /api/login", auth.Login)
	mux.HandleFunc("GET /auth/google", auth.GoogleLogin)
	mux.HandleFunc("GET /auth/google/callback", auth.GoogleCallback)
	mux.HandleFunc("GET /logout", auth.Logout)
	mux.HandleFunc("GET /api/current_user", auth.CurrentUser)

	mux.Handle("GET /metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{frontendOrigin},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	})

	return c.Handler(mux)
}
