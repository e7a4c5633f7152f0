package handlers

import (
	"net/http"

	apierrors "github.com/pribylovaa/account-service/internal/errors"
	"github.com/pribylovaa/account-service/internal/service"
)

func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	var in RegisterRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	input, err := in.toInput()
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	u, err := h.svc.Register(r.Context(), input)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, userFromModel(u))
}

func (h *Handlers) EmailExists(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if email == "" {
		apierrors.WriteError(w, r, service.ErrInvalidArgument)
		return
	}

	ok, err := h.svc.EmailExists(r.Context(), email)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, ExistsResponse{Exists: ok})
}

func (h *Handlers) NicknameExists(w http.ResponseWriter, r *http.Request) {
	nickname := r.URL.Query().Get("nickname")
	if nickname == "" {
		apierrors.WriteError(w, r, service.ErrInvalidArgument)
		return
	}

	ok, err := h.svc.NicknameExists(r.Context(), nickname)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, ExistsResponse{Exists: ok})
}

func (h *Handlers) FindEmail(w http.ResponseWriter, r *http.Request) {
	var in FindEmailRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	email, err := h.svc.FindEmail(r.Context(), in.Name, in.Phone)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, EmailResponse{Email: email})
}

func (h *Handlers) CheckNameEmail(w http.ResponseWriter, r *http.Request) {
	var in CheckNameEmailRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	ok, err := h.svc.CheckNameEmail(r.Context(), in.Name, in.Email)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, OKResponse{Ok: ok})
}

func (h *Handlers) ChangePassword(w http.ResponseWriter, r *http.Request) {
	sub, err := subject(r)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	var in PasswordRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	if err := h.svc.ChangePassword(r.Context(), sub, in.Password); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) CheckPassword(w http.ResponseWriter, r *http.Request) {
	sub, err := subject(r)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	var in PasswordRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	ok, err := h.svc.CheckPassword(r.Context(), sub, in.Password)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, OKResponse{Ok: ok})
}

func (h *Handlers) Profile(w http.ResponseWriter, r *http.Request) {
	sub, err := subject(r)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	u, err := h.svc.Profile(r.Context(), sub)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, userFromModel(u))
}

func (h *Handlers) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	sub, err := subject(r)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	var in UpdateProfileRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	upd, err := in.toModel()
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	u, err := h.svc.UpdateProfile(r.Context(), sub, upd)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, userFromModel(u))
}

func (h *Handlers) CheckWithdraw(w http.ResponseWriter, r *http.Request) {
	sub, err := subject(r)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	var in WithdrawCheckRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	ok, err := h.svc.CheckWithdraw(r.Context(), sub, service.WithdrawCheck{
		Email:    in.Email,
		Password: in.Password,
		Name:     in.Name,
	})
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, OKResponse{Ok: ok})
}

func (h *Handlers) Withdraw(w http.ResponseWriter, r *http.Request) {
	sub, err := subject(r)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	if err := h.svc.Withdraw(r.Context(), sub); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
