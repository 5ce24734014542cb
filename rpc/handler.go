package rpc

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/f3rmion/fy-multisig/multisig"
	"github.com/go-chi/chi/v5"
	"github.com/pkg/errors"
)

// Service is the set of ceremony operations exposed over RPC. It is
// implemented by *multisig.Service.
type Service interface {
	CreateParticipant(ctx context.Context, name string) (string, error)
	CreateSigningCommitment(ctx context.Context, account, tx string, signers []string) (string, error)
	CreateSigningPackage(ctx context.Context, tx string, commitments []string) (string, error)
	CreateSignatureShare(ctx context.Context, account, signingPackage, tx string, signers []string) (string, error)
	AggregateSignatureShares(ctx context.Context, account, signingPackage, tx string, shares []string) (string, error)
}

// Handler serves the wallet/multisig RPC routes.
type Handler struct {
	svc Service
	log *slog.Logger
}

// NewHandler returns a handler on svc.
func NewHandler(svc Service, log *slog.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

// Routes registers every route under /wallet/multisig.
func (h *Handler) Routes(r chi.Router) {
	r.Route("/wallet/multisig", func(r chi.Router) {
		r.Post("/createParticipant", h.handleCreateParticipant)
		r.Post("/createSigningCommitment", h.handleCreateSigningCommitment)
		r.Post("/createSigningPackage", h.handleCreateSigningPackage)
		r.Post("/createSignatureShare", h.handleCreateSignatureShare)
		r.Post("/aggregateSignatureShares", h.handleAggregateSignatureShares)
	})
}

func (h *Handler) handleCreateParticipant(w http.ResponseWriter, r *http.Request) {
	var req CreateParticipantRequest
	if !h.decode(w, r, &req) {
		return
	}
	if err := req.validate(); err != nil {
		h.writeError(w, err)
		return
	}

	identity, err := h.svc.CreateParticipant(r.Context(), req.Name)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, CreateParticipantResponse{Identity: identity})
}

func (h *Handler) handleCreateSigningCommitment(w http.ResponseWriter, r *http.Request) {
	var req CreateSigningCommitmentRequest
	if !h.decode(w, r, &req) {
		return
	}
	signers, err := req.validate()
	if err != nil {
		h.writeError(w, err)
		return
	}

	commitment, err := h.svc.CreateSigningCommitment(r.Context(), req.Account, req.UnsignedTransaction, signers)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, CreateSigningCommitmentResponse{Commitment: commitment})
}

func (h *Handler) handleCreateSigningPackage(w http.ResponseWriter, r *http.Request) {
	var req CreateSigningPackageRequest
	if !h.decode(w, r, &req) {
		return
	}
	if err := req.validate(); err != nil {
		h.writeError(w, err)
		return
	}

	pkg, err := h.svc.CreateSigningPackage(r.Context(), req.UnsignedTransaction, req.Commitments)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, CreateSigningPackageResponse{SigningPackage: pkg})
}

func (h *Handler) handleCreateSignatureShare(w http.ResponseWriter, r *http.Request) {
	var req CreateSignatureShareRequest
	if !h.decode(w, r, &req) {
		return
	}
	signers, err := req.validate()
	if err != nil {
		h.writeError(w, err)
		return
	}

	share, err := h.svc.CreateSignatureShare(r.Context(), req.Account, req.SigningPackage, req.UnsignedTransaction, signers)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, CreateSignatureShareResponse{SignatureShare: share})
}

func (h *Handler) handleAggregateSignatureShares(w http.ResponseWriter, r *http.Request) {
	var req AggregateSignatureSharesRequest
	if !h.decode(w, r, &req) {
		return
	}
	if err := req.validate(); err != nil {
		h.writeError(w, err)
		return
	}

	sig, err := h.svc.AggregateSignatureShares(r.Context(), req.Account, req.SigningPackage, req.UnsignedTransaction, req.SignatureShares)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, AggregateSignatureSharesResponse{Signature: sig})
}

// decode reads a JSON body strictly: unknown fields and trailing data are
// rejected.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	err := dec.Decode(v)
	if err == nil {
		if _, tail := dec.Token(); tail != io.EOF {
			err = errors.New("trailing data after request body")
		}
	}
	if err != nil {
		h.writeError(w, errors.Wrap(errValidation, err.Error()))
		return false
	}
	return true
}

func statusFor(code multisig.Code) int {
	switch code {
	case multisig.CodeValidation:
		return http.StatusBadRequest
	case multisig.CodeDuplicateAccountName:
		return http.StatusConflict
	case multisig.CodeAccountNotFound:
		return http.StatusNotFound
	case multisig.CodeNotMultisigSigner:
		return http.StatusPreconditionFailed
	}
	return http.StatusInternalServerError
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	code := multisig.CodeOf(err)
	if errors.Is(err, errValidation) {
		code = multisig.CodeValidation
	}
	status := statusFor(code)
	if status == http.StatusInternalServerError {
		h.log.Error("RPC request failed", "err", err)
	}
	writeJSON(w, status, ErrorResponse{Code: string(code), Message: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
