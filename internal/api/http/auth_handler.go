package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"toolcrib-backend/internal/domain"
	"toolcrib-backend/internal/service"
)

type AuthHandler struct {
	authService service.AuthService
}

func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type registerRequest struct {
	Name            string `json:"name" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=8"`
	Role            string `json:"role" validate:"required,oneof=shopkeeper supervisor operator"`
	ShopName        string `json:"shop_name" validate:"required_if=Role shopkeeper"`
	CompanyName     string `json:"company_name" validate:"required_if=Role supervisor,required_if=Role operator"`
	SupervisorEmail string `json:"supervisor_email" validate:"omitempty,email"`
}

type authResponse struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		respondValidationError(w, err)
		return
	}

	user, token, err := h.authService.Register(r.Context(), service.RegisterInput{
		Name:            req.Name,
		Email:           req.Email,
		Password:        req.Password,
		Role:            domain.Role(req.Role),
		ShopName:        req.ShopName,
		CompanyName:     req.CompanyName,
		SupervisorEmail: req.SupervisorEmail,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, authResponse{Token: token, User: user})
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondValidationError(w, err)
		return
	}

	user, token, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, authResponse{Token: token, User: user})
}

func (h *AuthHandler) ListCompanies(w http.ResponseWriter, r *http.Request) {
	companies, err := h.authService.ListCompanies(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"companies": companies})
}

func (h *AuthHandler) ListSupervisors(w http.ResponseWriter, r *http.Request) {
	company := mux.Vars(r)["company"]
	supervisors, err := h.authService.ListSupervisors(r.Context(), company)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"supervisors": supervisors})
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := mustUser(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, user)
}
