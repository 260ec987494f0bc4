package transport

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	gwruntime "github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"go.uber.org/zap"

	"github.com/goodnatureofminers/otsproof-backend/internal/consensus"
	"github.com/goodnatureofminers/otsproof-backend/internal/proof/model"
	"github.com/goodnatureofminers/otsproof-backend/internal/proof/service"
)

const maxBodyBytes = 50 << 20

// ProofHandler serves the proof REST API.
type ProofHandler struct {
	proofs  ProofService
	sweeper Sweeper
	auth    *Authenticator
	logger  *zap.Logger
}

// NewProofHandler returns a ProofHandler. Write routes require a token known to auth.
func NewProofHandler(proofs ProofService, sweeper Sweeper, auth *Authenticator, logger *zap.Logger) *ProofHandler {
	return &ProofHandler{
		proofs:  proofs,
		sweeper: sweeper,
		auth:    auth,
		logger:  logger.Named("proof_handler"),
	}
}

// Register mounts the API routes on mux.
func (h *ProofHandler) Register(mux *gwruntime.ServeMux) error {
	routes := []struct {
		method  string
		pattern string
		handler gwruntime.HandlerFunc
	}{
		{http.MethodGet, "/api/proofs", h.listProofs},
		{http.MethodGet, "/api/proofs/{item_id}", h.getProof},
		{http.MethodPost, "/api/proofs", h.authenticated(h.createProof)},
		{http.MethodPut, "/api/proofs/{item_id}", h.authenticated(h.updateProof)},
		{http.MethodDelete, "/api/proofs/{item_id}", h.authenticated(h.deleteProof)},
		{http.MethodPost, "/api/reconcile-fields", h.authenticated(h.reconcileFields)},
		{http.MethodPost, "/api/sweep", h.authenticated(h.runSweep)},
	}
	for _, rt := range routes {
		if err := mux.HandlePath(rt.method, rt.pattern, rt.handler); err != nil {
			return fmt.Errorf("register %s %s: %w", rt.method, rt.pattern, err)
		}
	}
	return nil
}

type authenticatedFunc func(w http.ResponseWriter, r *http.Request, params map[string]string, packer string)

func (h *ProofHandler) authenticated(next authenticatedFunc) gwruntime.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request, params map[string]string) {
		packer, ok := h.auth.Packer(r)
		if !ok {
			h.auth.reject(w, r)
			return
		}
		next(w, r, params, packer)
	}
}

func (h *ProofHandler) listProofs(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	snap, err := h.proofs.ListProofs(r.Context())
	if err != nil {
		h.fail(w, "list proofs", err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (h *ProofHandler) getProof(w http.ResponseWriter, r *http.Request, params map[string]string) {
	p, err := h.proofs.GetProof(r.Context(), params["item_id"])
	if err != nil {
		h.fail(w, "get proof", err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *ProofHandler) createProof(w http.ResponseWriter, r *http.Request, _ map[string]string, packer string) {
	var in service.ProofInput
	if !h.decode(w, r, &in) {
		return
	}
	p, err := h.proofs.CreateOrUpdateProof(r.Context(), in, packer)
	if err != nil {
		h.fail(w, "create proof", err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (h *ProofHandler) updateProof(w http.ResponseWriter, r *http.Request, params map[string]string, _ string) {
	var patch service.ProofPatch
	if !h.decode(w, r, &patch) {
		return
	}
	p, err := h.proofs.UpdateProof(r.Context(), params["item_id"], patch)
	if err != nil {
		h.fail(w, "update proof", err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *ProofHandler) deleteProof(w http.ResponseWriter, r *http.Request, params map[string]string, _ string) {
	if err := h.proofs.DeleteProof(r.Context(), params["item_id"]); err != nil {
		h.fail(w, "delete proof", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Proof deleted"})
}

func (h *ProofHandler) reconcileFields(w http.ResponseWriter, r *http.Request, _ map[string]string, _ string) {
	var candidates []model.ExtractionCandidate
	if !h.decode(w, r, &candidates) {
		return
	}
	writeJSON(w, http.StatusOK, consensus.ReconcileFields(candidates))
}

func (h *ProofHandler) runSweep(w http.ResponseWriter, r *http.Request, _ map[string]string, packer string) {
	h.logger.Info("sweep requested", zap.String("packer", packer))
	res, err := h.sweeper.RunSweep(r.Context())
	if err != nil {
		h.fail(w, "run sweep", err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *ProofHandler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			writeError(w, http.StatusRequestEntityTooLarge, "Request body too large")
		case errors.Is(err, io.EOF):
			writeError(w, http.StatusBadRequest, "Request body is empty")
		default:
			writeError(w, http.StatusBadRequest, "Invalid JSON body")
		}
		return false
	}
	return true
}

func (h *ProofHandler) fail(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, service.ErrProofNotFound):
		writeError(w, http.StatusNotFound, "Proof not found")
	case errors.Is(err, service.ErrInvalidProof):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrConflict):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrPersistence):
		h.logger.Error(op, zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Proof store unavailable")
	default:
		h.logger.Error(op, zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
