package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	apierrors "github.com/pribylovaa/account-service/internal/errors"
	"github.com/pribylovaa/account-service/internal/service"
)

func (h *Handlers) Addresses(w http.ResponseWriter, r *http.Request) {
	sub, err := subject(r)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	list, err := h.svc.Addresses(r.Context(), sub)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	out := make([]AddressResponse, 0, len(list))
	for i := range list {
		out = append(out, addressFromModel(&list[i]))
	}

	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) AddAddress(w http.ResponseWriter, r *http.Request) {
	sub, err := subject(r)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	var in AddressRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	addr, err := h.svc.AddAddress(r.Context(), sub, in.toInput())
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, addressFromModel(addr))
}

func (h *Handlers) UpdateAddress(w http.ResponseWriter, r *http.Request) {
	sub, err := subject(r)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	id, err := addressID(r)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	var in AddressRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	addr, err := h.svc.UpdateAddress(r.Context(), sub, id, in.toInput())
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, addressFromModel(addr))
}

func (h *Handlers) DeleteAddress(w http.ResponseWriter, r *http.Request) {
	sub, err := subject(r)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	id, err := addressID(r)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	if err := h.svc.DeleteAddress(r.Context(), sub, id); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) DefaultAddress(w http.ResponseWriter, r *http.Request) {
	sub, err := subject(r)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	addr, err := h.svc.DefaultAddress(r.Context(), sub)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, addressFromModel(addr))
}

func addressID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, service.ErrInvalidArgument
	}
	return id, nil
}
