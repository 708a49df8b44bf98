package handler

import (
	"net/http"

	"github.com/otp-auth-api/internal/application/auth"
	"github.com/otp-auth-api/internal/domain"
)

// UserAuthHandler serves the user registration and login endpoints.
type UserAuthHandler struct {
	svc auth.UserService
}

func NewUserAuthHandler(svc auth.UserService) *UserAuthHandler { return &UserAuthHandler{svc: svc} }

func (h *UserAuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req domain.RegisterUserRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	ch, err := h.svc.Register(r.Context(), req)
	if err != nil {
		httpError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, "verification code sent", ch)
}

func (h *UserAuthHandler) VerifyRegistration(w http.ResponseWriter, r *http.Request) {
	var req domain.VerifyRegistrationRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	sess, err := h.svc.VerifyRegistration(r.Context(), req)
	if err != nil {
		httpError(w, r, err)
		return
	}
	writeData(w, http.StatusCreated, "registration complete", sess)
}

func (h *UserAuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req domain.UserLoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	ch, err := h.svc.Login(r.Context(), req)
	if err != nil {
		httpError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, "verification code sent", ch)
}

func (h *UserAuthHandler) VerifyLogin(w http.ResponseWriter, r *http.Request) {
	var req domain.UserVerifyLoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	sess, err := h.svc.VerifyLogin(r.Context(), req)
	if err != nil {
		httpError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, "login successful", sess)
}

// SellerAuthHandler serves the seller registration and login endpoints.
type SellerAuthHandler struct {
	svc auth.SellerService
}

func NewSellerAuthHandler(svc auth.SellerService) *SellerAuthHandler {
	return &SellerAuthHandler{svc: svc}
}

func (h *SellerAuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req domain.RegisterSellerRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	ch, err := h.svc.Register(r.Context(), req)
	if err != nil {
		httpError(w, r, err)
		return
	}
	writeData(w, http.StatusCreated, "seller registered, verification code sent", ch)
}

func (h *SellerAuthHandler) VerifyRegistration(w http.ResponseWriter, r *http.Request) {
	var req domain.SellerVerifyRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	sess, err := h.svc.VerifyRegistration(r.Context(), req)
	if err != nil {
		httpError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, "email verified", sess)
}

func (h *SellerAuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req domain.SellerLoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	ch, err := h.svc.Login(r.Context(), req)
	if err != nil {
		httpError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, "verification code sent", ch)
}

func (h *SellerAuthHandler) VerifyLogin(w http.ResponseWriter, r *http.Request) {
	var req domain.SellerVerifyRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	sess, err := h.svc.VerifyLogin(r.Context(), req)
	if err != nil {
		httpError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, "login successful", sess)
}
