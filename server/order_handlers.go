package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jrsteele09/go-admin-session/adminapi"
	"github.com/jrsteele09/go-admin-session/orders"
	"github.com/jrsteele09/go-admin-session/token/jwt"
	"github.com/jrsteele09/go-admin-session/users"
)

func (s *Server) ListOrdersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := s.repos.Orders.List()
		if err != nil {
			s.internalError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, adminapi.OrdersResponse{Orders: list})
	}
}

func (s *Server) OrderStatsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := s.repos.Orders.List()
		if err != nil {
			s.internalError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, adminapi.StatsResponse{Stats: orders.ComputeStats(list)})
	}
}

func (s *Server) OrdersByStatusHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status, err := orders.ParseStatus(chi.URLParam(r, URLParamStatus))
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		list, err := s.repos.Orders.ListByStatus(status)
		if err != nil {
			s.internalError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, adminapi.OrdersResponse{Orders: list})
	}
}

// SetOrderStatusHandler moves an order, addressed by its order id, to a new status.
func (s *Server) SetOrderStatusHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req adminapi.StatusRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, msgInvalidBody)
			return
		}
		status, err := orders.ParseStatus(req.Status)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		order, err := s.repos.Orders.Get(chi.URLParam(r, URLParamID))
		if err != nil {
			s.repoError(w, r, err, "Order not found")
			return
		}
		if err := order.SetStatus(status); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.saveOrder(w, r, order, "Order status updated")
	}
}

// AssignDeliveryHandler attaches a delivery person to an order. The assignee
// must hold the Delivery role.
func (s *Server) AssignDeliveryHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req adminapi.AssignRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, msgInvalidBody)
			return
		}
		if req.OrderID == "" || req.DeliveryID == "" {
			writeError(w, http.StatusBadRequest, "orderId and deliveryId are required")
			return
		}

		order, err := s.repos.Orders.Get(req.OrderID)
		if err != nil {
			s.repoError(w, r, err, "Order not found")
			return
		}
		courier, err := s.repos.Users.GetByID(req.DeliveryID)
		if err != nil {
			s.repoError(w, r, err, "Delivery user not found")
			return
		}
		if courier.Role != users.RoleDelivery {
			writeError(w, http.StatusBadRequest, "User is not a delivery person")
			return
		}

		order.DeliveryID = courier.ID
		s.saveOrder(w, r, order, "Delivery assigned")
	}
}

func (s *Server) saveOrder(w http.ResponseWriter, r *http.Request, order *orders.Order, message string) {
	order.UpdatedAt = jwt.NowTimeFunc()
	if err := s.repos.Orders.Upsert(order); err != nil {
		s.internalError(w, r, err)
		return
	}
	s.logger.Info().
		Str("order_id", order.OrderID).
		Str("status", string(order.Status)).
		Str("delivery_id", order.DeliveryID).
		Msg(message)
	writeJSON(w, http.StatusOK, adminapi.OrderResponse{Message: message, Order: order})
}
