package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"
)

type createAdminRequest struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

type setActiveRequest struct {
	Active *bool `json:"active"`
}

func (s *Server) handleListAdmins(w http.ResponseWriter, r *http.Request) {
	list, err := s.admins.ListAdmins(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleCreateAdmin(w http.ResponseWriter, r *http.Request) {
	var req createAdminRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	v, err := s.admins.ProvisionAdmin(r.Context(), req.Email, req.Password, req.ConfirmPassword)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, v)
}

func (s *Server) handleSetAdminActive(w http.ResponseWriter, r *http.Request) {
	var req setActiveRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Active == nil {
		writeError(w, http.StatusBadRequest, "Active must be a boolean")
		return
	}
	v, err := s.admins.SetActive(r.Context(), mux.Vars(r)["id"], *req.Active)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}
