package handler

import (
	"net/http"

	"github.com/go-chi/render"

	"github.com/sendesk/sendesk/internal/models"
)

type importContactsRequest struct {
	Contacts            []models.CreateContactParams `json:"contacts"`
	DeduplicateByMobile bool                         `json:"deduplicate_by_mobile"`
}

// ListContacts returns the account's contacts, optionally narrowed by one
// filter dimension (search, label, location or date_range).
func (h *Handler) ListContacts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := &models.ContactFilter{
		Search:    q.Get("search"),
		Label:     q.Get("label"),
		Location:  q.Get("location"),
		DateRange: q.Get("date_range"),
	}

	contacts, err := h.store.Contacts().List(h.accountID(r), filter)
	if err != nil {
		h.internalError(w, r, "Failed to list contacts", err)
		return
	}

	render.JSON(w, r, contacts)
}

func (h *Handler) GetContact(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	contact, err := h.store.Contacts().GetByID(id)
	if err != nil {
		h.internalError(w, r, "Failed to get contact", err)
		return
	}
	if contact == nil || contact.AccountID != h.accountID(r) {
		h.sendError(w, r, http.StatusNotFound, errorCodeNotFound, "Contact not found")
		return
	}

	render.JSON(w, r, contact)
}

func (h *Handler) CreateContact(w http.ResponseWriter, r *http.Request) {
	var params models.CreateContactParams
	if !h.decode(w, r, &params) {
		return
	}

	if params.Name == "" || params.Mobile == "" {
		h.sendError(w, r, http.StatusBadRequest, errorCodeValidation, "Name and mobile are required")
		return
	}

	params.AccountID = h.accountID(r)

	contact, err := h.store.Contacts().Create(params)
	if err != nil {
		h.internalError(w, r, "Failed to create contact", err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, contact)
}

func (h *Handler) UpdateContact(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	existing, err := h.store.Contacts().GetByID(id)
	if err != nil {
		h.internalError(w, r, "Failed to get contact", err)
		return
	}
	if existing == nil || existing.AccountID != h.accountID(r) {
		h.sendError(w, r, http.StatusNotFound, errorCodeNotFound, "Contact not found")
		return
	}

	var params models.UpdateContactParams
	if !h.decode(w, r, &params) {
		return
	}

	contact, err := h.store.Contacts().Update(id, params)
	if err != nil {
		h.internalError(w, r, "Failed to update contact", err)
		return
	}
	if contact == nil {
		h.sendError(w, r, http.StatusNotFound, errorCodeNotFound, "Contact not found")
		return
	}

	render.JSON(w, r, contact)
}

func (h *Handler) DeleteContact(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	existing, err := h.store.Contacts().GetByID(id)
	if err != nil {
		h.internalError(w, r, "Failed to get contact", err)
		return
	}
	if existing == nil || existing.AccountID != h.accountID(r) {
		h.sendError(w, r, http.StatusNotFound, errorCodeNotFound, "Contact not found")
		return
	}

	deleted, err := h.store.Contacts().Delete(id)
	if err != nil {
		h.internalError(w, r, "Failed to delete contact", err)
		return
	}
	if !deleted {
		h.sendError(w, r, http.StatusNotFound, errorCodeNotFound, "Contact not found")
		return
	}

	render.NoContent(w, r)
}

// ImportContacts bulk-inserts contacts, optionally skipping records whose
// mobile number already exists for the account.
func (h *Handler) ImportContacts(w http.ResponseWriter, r *http.Request) {
	var req importContactsRequest
	if !h.decode(w, r, &req) {
		return
	}

	accountID := h.accountID(r)
	for i := range req.Contacts {
		req.Contacts[i].AccountID = accountID
	}

	result, err := h.store.Contacts().Import(req.Contacts, req.DeduplicateByMobile)
	if err != nil {
		h.internalError(w, r, "Failed to import contacts", err)
		return
	}

	render.JSON(w, r, result)
}
