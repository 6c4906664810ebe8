package httpserver

import (
	"net/http"

	"github.com/phenrril/tiendaropa/internal/domain"
	"github.com/phenrril/tiendaropa/internal/usecase"
)

type placeOrderRequest struct {
	CustomerName string          `json:"customerName"`
	Size         domain.Size     `json:"size"`
	Platform     domain.Platform `json:"platform"`
	Quantity     int             `json:"quantity"`
}

func (s *Server) apiPlaceOrder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err, "Product", "updating stock")
		return
	}
	var req placeOrderRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err, "Product", "updating stock")
		return
	}
	o, err := s.orders.PlaceOrder(r.Context(), id, usecase.PlaceOrderInput{
		CustomerName:   req.CustomerName,
		Size:           req.Size,
		Platform:       req.Platform,
		Quantity:       req.Quantity,
		IdempotencyKey: r.Header.Get("Idempotency-Key"),
	})
	if err != nil {
		writeError(w, r, err, "Product", "updating stock")
		return
	}
	writeJSON(w, 200, map[string]any{"message": "Order placed successfully", "order": o})
}

func (s *Server) apiListOrders(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "productId")
	if err != nil {
		writeError(w, r, err, "Product", "fetching orders")
		return
	}
	list, err := s.orders.ListByProduct(r.Context(), id)
	if err != nil {
		writeError(w, r, err, "Product", "fetching orders")
		return
	}
	writeJSON(w, 200, list)
}

func (s *Server) apiUpdatePayment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "orderId")
	if err != nil {
		writeError(w, r, err, "Order", "updating payment status")
		return
	}
	var req struct {
		IsPaid *bool `json:"isPaid"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err, "Order", "updating payment status")
		return
	}
	if req.IsPaid == nil {
		writeError(w, r, domain.NewValidationError("isPaid", "isPaid is required"), "Order", "updating payment status")
		return
	}
	o, err := s.orders.SetPaymentStatus(r.Context(), id, *req.IsPaid)
	if err != nil {
		writeError(w, r, err, "Order", "updating payment status")
		return
	}
	writeJSON(w, 200, map[string]any{"message": "Payment status updated successfully", "isPaid": o.IsPaid})
}
