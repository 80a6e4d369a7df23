package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/Varun5711/accounts/internal/logger"
	"github.com/Varun5711/accounts/internal/middleware"
	"github.com/Varun5711/accounts/internal/models/account"
	"github.com/Varun5711/accounts/internal/service"
	"github.com/Varun5711/accounts/internal/validation"
	"github.com/go-chi/chi/v5"
)

const maxBodyBytes = 1 << 20

// AccountService is the behaviour the HTTP layer needs from the service.
type AccountService interface {
	Register(ctx context.Context, req account.RegisterRequest) (*account.Profile, error)
	Login(ctx context.Context, req account.LoginRequest) (*account.LoginResponse, error)
	Get(ctx context.Context, callerID, id string) (*account.Profile, error)
	Update(ctx context.Context, callerID, id string, req account.UpdateRequest) (*account.Profile, error)
	Delete(ctx context.Context, callerID, id string) error
}

type AccountHandler struct {
	accounts AccountService
	log      *logger.Logger
}

func NewAccountHandler(accounts AccountService, log *logger.Logger) *AccountHandler {
	return &AccountHandler{
		accounts: accounts,
		log:      log,
	}
}

func (h *AccountHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req account.RegisterRequest
	if !h.decode(w, r, &req) {
		return
	}

	profile, err := h.accounts.Register(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, profile)
}

func (h *AccountHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req account.LoginRequest
	if !h.decode(w, r, &req) {
		return
	}

	resp, err := h.accounts.Login(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, resp)
}

func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request) {
	profile, err := h.accounts.Get(r.Context(), middleware.GetUserID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, profile)
}

func (h *AccountHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req account.UpdateRequest
	if !h.decode(w, r, &req) {
		return
	}

	profile, err := h.accounts.Update(r.Context(), middleware.GetUserID(r.Context()), chi.URLParam(r, "id"), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, profile)
}

func (h *AccountHandler) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.accounts.Delete(r.Context(), middleware.GetUserID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, MessageResponse{Message: "account deleted"})
}

var errTrailingData = errors.New("unexpected data after JSON object")

// decode reads a single JSON object into dst, rejecting keys dst does not
// declare and anything but whitespace after the object. An empty body
// decodes as {} so that field validation reports what is missing.
func (h *AccountHandler) decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()

	err := dec.Decode(dst)
	if errors.Is(err, io.EOF) {
		return true
	}
	if err == nil {
		extra := dec.Decode(&struct{}{})
		var maxErr *http.MaxBytesError
		switch {
		case errors.Is(extra, io.EOF):
			return true
		case errors.As(extra, &maxErr):
			err = extra
		default:
			err = errTrailingData
		}
	}

	var typeErr *json.UnmarshalTypeError
	var maxErr *http.MaxBytesError
	switch {
	case errors.As(err, &typeErr) && typeErr.Field != "":
		respondError(w, http.StatusBadRequest, validation.MustBeString(typeErr.Field).Error())
	case strings.HasPrefix(err.Error(), "json: unknown field "):
		field := strings.Trim(strings.TrimPrefix(err.Error(), "json: unknown field "), `"`)
		respondError(w, http.StatusBadRequest, validation.NotAllowed(field).Error())
	case errors.As(err, &maxErr):
		respondError(w, http.StatusRequestEntityTooLarge, "request body too large")
	default:
		respondError(w, http.StatusBadRequest, "request body must be a JSON object")
	}
	return false
}

func (h *AccountHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	if ve, ok := validation.AsError(err); ok {
		respondError(w, http.StatusBadRequest, ve.Message)
		return
	}

	switch {
	case errors.Is(err, service.ErrUnauthorized):
		respondError(w, http.StatusUnauthorized, "Invalid password.")
	case errors.Is(err, service.ErrForbidden):
		respondError(w, http.StatusForbidden, "Access denied.")
	case errors.Is(err, service.ErrNotFound):
		respondError(w, http.StatusNotFound, "User not found.")
	case errors.Is(err, service.ErrConflict):
		respondError(w, http.StatusConflict, "user email id already exists, please try logging in...")
	default:
		h.log.Error("%s %s failed: %v", r.Method, r.URL.Path, err)
		respondError(w, http.StatusServiceUnavailable, "internal server error")
	}
}
