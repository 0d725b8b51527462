package server

import (
	"github.com/go-chi/chi/v5"
)

func (s *Server) initRoutes() {
	r := chi.NewRouter()
	r.Use(s.RecoverMiddleware, s.LoggingMiddleware, s.CorsMiddleware)

	r.Get(RouteHealth, s.HealthHandler())

	r.Route(RouteAPI, func(r chi.Router) {
		r.Post(RouteAuthLogin, s.LoginHandler())
		r.Post(RouteAuthRefreshToken, s.RefreshTokenHandler())

		// Bearer token routes
		r.Group(func(r chi.Router) {
			r.Use(s.RequireAuth)

			r.Post(RouteAuthLogout, s.LogoutHandler())
			r.Get(RouteUserProfile, s.ProfileHandler())

			r.Get(RouteOrders, s.ListOrdersHandler())
			r.Get(RouteOrderStats, s.OrderStatsHandler())
			r.Get(RouteOrdersByStatus, s.OrdersByStatusHandler())
			r.Put(RouteOrderAssign, s.AssignDeliveryHandler())
			r.Put(RouteOrder, s.SetOrderStatusHandler())

			r.Get(RouteProducts, s.ListProductsHandler())

			// Admin only
			r.Group(func(r chi.Router) {
				r.Use(s.RequireAdmin)

				r.Get(RouteAdminUsers, s.ListUsersHandler())
				r.Put(RouteAdminUserRole, s.SetUserRoleHandler())
				r.Delete(RouteAdminUser, s.DeleteUserHandler())
				r.Post(RouteAdminProducts, s.CreateProductHandler())
				r.Put(RouteAdminProduct, s.UpdateProductHandler())
				r.Delete(RouteAdminProduct, s.DeleteProductHandler())
			})
		})
	})

	s.router = r
}
