package server

// Route path constants
// All application routes are defined here to ensure consistency and prevent typos
const (
	RouteAPI    = "/api"
	RouteHealth = "/healthz"

	// Auth Routes, relative to RouteAPI
	RouteAuthLogin        = "/auth/login"
	RouteAuthRefreshToken = "/auth/refresh-token"
	RouteAuthLogout       = "/auth/logout"

	RouteUserProfile = "/user/profile"

	// Admin Routes
	RouteAdminUsers     = "/admin/all-users"
	RouteAdminUserRole  = "/admin/users/{id}/role"
	RouteAdminUser      = "/admin/users/{id}"
	RouteAdminProducts  = "/admin/products"
	RouteAdminProduct   = "/admin/products/{id}"
	RouteOrders         = "/orders"
	RouteOrderStats     = "/orders/stats"
	RouteOrdersByStatus = "/orders/status/{status}"
	RouteOrderAssign    = "/orders/assign"
	RouteOrder          = "/orders/{id}"
	RouteProducts       = "/products"

	URLParamID     = "id"
	URLParamStatus = "status"
)

const (
	maxRequestBody = 1 << 20

	msgInvalidCredentials = "Invalid email or password"
	msgInvalidRefresh     = "Invalid refresh token"
	msgInvalidBody        = "Invalid request body"
)
