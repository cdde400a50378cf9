package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/fastprodman/moneyd/internal/directory"
	"github.com/fastprodman/moneyd/internal/metrics"
	"github.com/fastprodman/moneyd/internal/resolver"
	"github.com/fastprodman/moneyd/internal/services/balance"
)

// Permission names accepted in a caller's permission list.
const (
	PermViewOther = "view.other"
	PermSend      = "send"
	PermSetSelf   = "set.self"
	PermSetOther  = "set.other"
)

const maxBodyBytes = 1 << 20

// Deps are the collaborators the HTTP layer needs.
type Deps struct {
	Balance   *balance.BalanceService
	Directory *directory.Directory
	Metrics   *metrics.Metrics
}

// HandlerProvider exposes the money command and account lookups over HTTP.
type HandlerProvider struct {
	svc     *balance.BalanceService
	dir     *directory.Directory
	metrics *metrics.Metrics
}

func NewHandler(deps Deps) *HandlerProvider {
	return &HandlerProvider{
		svc:     deps.Balance,
		dir:     deps.Directory,
		metrics: deps.Metrics,
	}
}

// --- Helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// decodeJSON reads a single JSON object and rejects unknown fields.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	//nolint:errcheck
	defer r.Body.Close()

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	err := dec.Decode(dst)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("empty body")
		}

		return fmt.Errorf("invalid JSON")
	}

	return nil
}

// parseAccountIDFromPath reads `{accountId}` from chi routes like:
//
//	GET /accounts/{accountId}/balance
//	PUT /players/{accountId}
func parseAccountIDFromPath(r *http.Request) (uuid.UUID, error) {
	raw := chi.URLParam(r, "accountId")
	if raw == "" {
		return uuid.Nil, fmt.Errorf("missing accountId")
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid accountId: %w", err)
	}

	return id, nil
}

type callerRequest struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Scope       string   `json:"scope"`
	Interactive bool     `json:"interactive"`
	Permissions []string `json:"permissions"`
}

type commandRequest struct {
	Caller callerRequest `json:"caller"`
	Args   []string      `json:"args"`
}

func (c callerRequest) toCaller() (resolver.Caller, error) {
	caller := resolver.Caller{Interactive: c.Interactive}

	for _, perm := range c.Permissions {
		switch strings.ToLower(strings.TrimSpace(perm)) {
		case PermViewOther:
			caller.Caps.ViewOther = true
		case PermSend:
			caller.Caps.Send = true
		case PermSetSelf:
			caller.Caps.SetSelf = true
		case PermSetOther:
			caller.Caps.SetOther = true
		default:
			return resolver.Caller{}, fmt.Errorf("unknown permission %q", perm)
		}
	}

	if !c.Interactive {
		return caller, nil
	}

	id, err := uuid.Parse(c.ID)
	if err != nil || id == uuid.Nil {
		return resolver.Caller{}, fmt.Errorf("interactive caller needs a valid id")
	}

	if strings.TrimSpace(c.Name) == "" {
		return resolver.Caller{}, fmt.Errorf("interactive caller needs a name")
	}

	caller.ID, caller.Name, caller.Scope = id, c.Name, c.Scope

	return caller, nil
}

func (h *HandlerProvider) readCommand(w http.ResponseWriter, r *http.Request) (resolver.Caller, []string, bool) {
	var req commandRequest

	err := decodeJSON(w, r, &req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())

		return resolver.Caller{}, nil, false
	}

	caller, err := req.Caller.toCaller()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())

		return resolver.Caller{}, nil, false
	}

	return caller, req.Args, true
}

// --- Handlers ---

type noticeResponse struct {
	To   string `json:"to"`
	Text string `json:"text"`
}

type commandResponse struct {
	Intent  string           `json:"intent"`
	Outcome string           `json:"outcome"`
	Replies []string         `json:"replies"`
	Notices []noticeResponse `json:"notices"`
}

// CommandHandler handles POST /commands
func (h *HandlerProvider) CommandHandler(w http.ResponseWriter, r *http.Request) {
	caller, args, ok := h.readCommand(w, r)
	if !ok {
		return
	}

	out := h.svc.Execute(caller, args)
	h.metrics.ObserveCommand(string(out.Verb()), out.Kind)

	resp := commandResponse{
		Intent:  string(out.Verb()),
		Outcome: out.Kind,
		Replies: out.Replies,
		Notices: make([]noticeResponse, 0, len(out.Notices)),
	}

	for _, n := range out.Notices {
		resp.Notices = append(resp.Notices, noticeResponse{To: n.To.String(), Text: n.Text})
	}

	writeJSON(w, http.StatusOK, resp)
}

// CompletionHandler handles POST /completions
func (h *HandlerProvider) CompletionHandler(w http.ResponseWriter, r *http.Request) {
	caller, args, ok := h.readCommand(w, r)
	if !ok {
		return
	}

	suggestions := h.svc.Complete(caller, args)
	if suggestions == nil {
		suggestions = []string{}
	}

	writeJSON(w, http.StatusOK, map[string][]string{"suggestions": suggestions})
}

// GetBalanceHandler handles GET /accounts/{accountId}/balance?scope=
func (h *HandlerProvider) GetBalanceHandler(w http.ResponseWriter, r *http.Request) {
	id, err := parseAccountIDFromPath(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid accountId in path")

		return
	}

	scope := r.URL.Query().Get("scope")
	if scope == "" {
		scope = h.dir.DefaultScope()
	}

	if !slices.Contains(h.dir.Scopes(), scope) {
		writeError(w, http.StatusNotFound, "scope not found")

		return
	}

	bal := h.svc.Balance(id, scope)

	writeJSON(w, http.StatusOK, map[string]string{
		"accountId": id.String(),
		"scope":     scope,
		"balance":   bal.StringFixed(h.svc.Places()),
		"formatted": h.svc.Format(bal),
	})
}

type playerRequest struct {
	Name   string `json:"name"`
	Online bool   `json:"online"`
}

// UpsertPlayerHandler handles PUT /players/{accountId}
func (h *HandlerProvider) UpsertPlayerHandler(w http.ResponseWriter, r *http.Request) {
	id, err := parseAccountIDFromPath(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid accountId in path")

		return
	}

	var req playerRequest

	err = decodeJSON(w, r, &req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())

		return
	}

	err = h.dir.Upsert(id, req.Name, req.Online)
	if err != nil {
		switch {
		case errors.Is(err, directory.ErrInvalidName):
			writeError(w, http.StatusBadRequest, "name required")
		case errors.Is(err, directory.ErrNameTaken):
			writeError(w, http.StatusConflict, "name already in use")
		default:
			slog.Error("upsert player", "account_id", id, "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
		}

		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
