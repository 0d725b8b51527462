package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jrsteele09/go-admin-session/adminapi"
	"github.com/jrsteele09/go-admin-session/internal/errors"
	"github.com/jrsteele09/go-admin-session/products"
	"github.com/jrsteele09/go-admin-session/token/jwt"
	"github.com/jrsteele09/go-admin-session/users"
)

func (s *Server) ListUsersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := s.repos.Users.List()
		if err != nil {
			s.internalError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}

// SetUserRoleHandler changes a user's role and answers with the updated user.
// Existing tokens keep the old role claim until they are refreshed; the stored
// role is what RequireAdmin checks.
func (s *Server) SetUserRoleHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, URLParamID)

		var req adminapi.RoleRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, msgInvalidBody)
			return
		}
		role, err := users.ParseRole(req.Role)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if self := userFromContext(r.Context()); self.ID == id && role != users.RoleAdmin {
			writeError(w, http.StatusBadRequest, "You cannot remove your own admin role")
			return
		}

		if err := s.repos.Users.SetRole(id, role); err != nil {
			s.repoError(w, r, err, "User not found")
			return
		}
		user, err := s.repos.Users.GetByID(id)
		if err != nil {
			s.repoError(w, r, err, "User not found")
			return
		}

		s.logger.Info().Str("user_id", id).Str("role", string(role)).Msg("role changed")
		writeJSON(w, http.StatusOK, user)
	}
}

// DeleteUserHandler removes a user and revokes their refresh token, so their
// dashboard session ends on its next refresh.
func (s *Server) DeleteUserHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, URLParamID)
		if self := userFromContext(r.Context()); self.ID == id {
			writeError(w, http.StatusBadRequest, "You cannot delete your own account")
			return
		}

		if err := s.repos.Users.Delete(id); err != nil {
			s.repoError(w, r, err, "User not found")
			return
		}
		if err := s.tokens.RevokeUser(id); err != nil {
			s.internalError(w, r, err)
			return
		}

		s.logger.Info().Str("user_id", id).Msg("user deleted")
		writeJSON(w, http.StatusOK, adminapi.MessageResponse{Message: "User deleted"})
	}
}

// ListProductsHandler filters by the "name" and "category" query parameters.
func (s *Server) ListProductsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		list, err := s.repos.Products.List(products.Filter{
			Name:     q.Get("name"),
			Category: q.Get("category"),
		})
		if err != nil {
			s.internalError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, adminapi.ProductsResponse{Products: list})
	}
}

func (s *Server) CreateProductHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		in, ok := decodeProductInput(w, r)
		if !ok {
			return
		}
		p := &products.Product{CreatedAt: jwt.NowTimeFunc()}
		in.Apply(p)
		if err := s.repos.Products.Upsert(p); err != nil {
			s.internalError(w, r, err)
			return
		}
		s.logger.Info().Str("product_id", p.ID).Str("name", p.Name).Msg("product created")
		writeJSON(w, http.StatusCreated, adminapi.ProductResponse{Message: "Product created", Product: p})
	}
}

// UpdateProductHandler replaces the editable fields; sales and creation time
// are kept.
func (s *Server) UpdateProductHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, URLParamID)
		in, ok := decodeProductInput(w, r)
		if !ok {
			return
		}
		p, err := s.repos.Products.Get(id)
		if err != nil {
			s.repoError(w, r, err, "Product not found")
			return
		}
		in.Apply(p)
		if err := s.repos.Products.Upsert(p); err != nil {
			s.internalError(w, r, err)
			return
		}
		s.logger.Info().Str("product_id", p.ID).Msg("product updated")
		writeJSON(w, http.StatusOK, adminapi.ProductResponse{Message: "Product updated", Product: p})
	}
}

func decodeProductInput(w http.ResponseWriter, r *http.Request) (products.Input, bool) {
	var in products.Input
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidBody)
		return in, false
	}
	if err := in.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return in, false
	}
	return in, true
}

func (s *Server) DeleteProductHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, URLParamID)
		if err := s.repos.Products.Delete(id); err != nil {
			s.repoError(w, r, err, "Product not found")
			return
		}
		s.logger.Info().Str("product_id", id).Msg("product deleted")
		writeJSON(w, http.StatusOK, adminapi.MessageResponse{Message: "Product deleted"})
	}
}

// repoError maps ErrNotFound to a 404 carrying notFound; anything else is a 500.
func (s *Server) repoError(w http.ResponseWriter, r *http.Request, err error, notFound string) {
	if errors.Is(err, errors.ErrNotFound) {
		writeError(w, http.StatusNotFound, notFound)
		return
	}
	s.internalError(w, r, err)
}
