package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/phenrril/tiendaropa/internal/domain"
	"github.com/phenrril/tiendaropa/internal/usecase"
)

type Server struct {
	mux        *http.ServeMux
	products   *usecase.ProductUC
	orders     *usecase.OrderUC
	reports    *usecase.ReportUC
	uploadsDir string
}

type Options struct {
	UploadsDir     string
	CORSOrigins    []string
	RateLimitRPS   float64
	RateLimitBurst int
}

func New(p *usecase.ProductUC, o *usecase.OrderUC, rep *usecase.ReportUC, opts Options) http.Handler {
	s := &Server{products: p, orders: o, reports: rep, uploadsDir: opts.UploadsDir, mux: http.NewServeMux()}
	if s.uploadsDir == "" {
		s.uploadsDir = "uploads"
	}
	s.routes()
	return Chain(s.mux,
		RateLimit(opts.RateLimitRPS, opts.RateLimitBurst),
		CORS(opts.CORSOrigins),
		Logging,
		RequestID,
		Recovery,
	)
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.Handle("GET /uploads/", noDirListing(http.StripPrefix("/uploads/", http.FileServer(http.Dir(s.uploadsDir)))))

	s.mux.HandleFunc("POST /api/product", s.apiCreateProduct)
	s.mux.HandleFunc("GET /api/product", s.apiListProducts)
	s.mux.HandleFunc("GET /api/product/{id}", s.apiGetProduct)
	s.mux.HandleFunc("PUT /api/product/{id}", s.apiUpdateProduct)
	s.mux.HandleFunc("DELETE /api/product/{id}", s.apiDeleteProduct)
	s.mux.HandleFunc("POST /api/product/{id}/updateStock", s.apiPlaceOrder)

	s.mux.HandleFunc("GET /api/product/orders/{productId}", s.apiListOrders)
	s.mux.HandleFunc("PUT /api/product/orders/{orderId}/updatePayment", s.apiUpdatePayment)

	// Reportes
	s.mux.HandleFunc("GET /api/product/sales", s.apiSalesHistory)
	s.mux.HandleFunc("GET /api/product/sales/export", s.apiSalesExport)
	s.mux.HandleFunc("GET /api/product/dashboard", s.apiDashboard)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, 200, map[string]string{"status": "ok"})
}

func noDirListing(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/") || strings.Contains(r.URL.Path, "/.") {
			http.NotFound(w, r)
			return
		}
		h.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError traduce errores de dominio a status HTTP. subject se usa en el
// mensaje de 404 ("Product", "Order") y action en el de 500 ("creating product").
func writeError(w http.ResponseWriter, r *http.Request, err error, subject, action string) {
	var ve *domain.ValidationError
	var ie *domain.InsufficientStockError
	switch {
	case errors.As(err, &ve):
		writeJSON(w, 400, map[string]any{"message": ve.Msg, "field": ve.Field})
	case errors.As(err, &ie):
		writeJSON(w, 400, map[string]any{"message": ie.Error(), "available": ie.Available})
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, 404, map[string]any{"message": subject + " not found"})
	case errors.Is(err, domain.ErrConcurrencyConflict):
		writeJSON(w, 409, map[string]any{"message": err.Error()})
	case errors.Is(err, domain.ErrDuplicateRequest):
		writeJSON(w, 409, map[string]any{"message": "Duplicate request: this Idempotency-Key was already used"})
	default:
		log.Error().Err(err).
			Str("request_id", RequestIDFrom(r.Context())).
			Str("path", r.URL.Path).
			Msg("error " + action)
		writeJSON(w, 500, map[string]any{"message": "Error " + action, "error": err.Error()})
	}
}

func pathID(r *http.Request, name string) (uint, error) {
	raw := r.PathValue(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, domain.NewValidationError(name, "Invalid %s %q", name, raw)
	}
	return uint(id), nil
}

// decodeJSON devuelve el ValidationError de un enum si el decoder lo produjo.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	if err := dec.Decode(v); err != nil {
		var ve *domain.ValidationError
		if errors.As(err, &ve) {
			return ve
		}
		return domain.NewValidationError("body", "Invalid request body: %v", err)
	}
	return nil
}
