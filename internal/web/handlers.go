package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/pixpod/pixpod/pkg/agent"
	"github.com/pixpod/pixpod/pkg/session"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// handleChat runs one conversation turn: append the user message, invoke
// the agent, and append the reply. Invocation failures become ordinary
// assistant replies; the session survives every per-message failure.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "Method not allowed"})
		return
	}

	sess, err := s.sessionFor(w, r)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid request body"})
		return
	}
	prompt := strings.TrimSpace(req.Message)
	if prompt == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Message must not be empty"})
		return
	}

	// Chat is blocked until the agent is configured and the client ready.
	agentCfg, ok := s.agentConfig.Resolve()
	if !ok {
		writeJSON(w, http.StatusConflict, errorResponse{
			Error: msgConfigMissing,
			Setup: setupInstructions,
		})
		return
	}
	switch sess.State() {
	case session.StateUninitialized:
		writeJSON(w, http.StatusConflict, errorResponse{Error: msgClientUninitialized})
		return
	case session.StateFailed:
		writeJSON(w, http.StatusConflict, errorResponse{
			Error: msgClientFailed,
			Setup: setupInstructions,
		})
		return
	}

	sess.Append(session.RoleUser, prompt)
	s.countMessage(session.RoleUser)

	invoker := agent.NewInvoker(sess.Caller(), s.logger)

	start := time.Now()
	text, err := invoker.Invoke(r.Context(), prompt, agentCfg, sess.ID())
	s.observeInvocation(err, time.Since(start))

	switch {
	case err != nil:
		text = displayMessage(err)
	case text == "":
		text = msgNoResponse
	}

	reply := sess.Append(session.RoleAssistant, text)
	s.countMessage(session.RoleAssistant)

	writeJSON(w, http.StatusOK, chatResponse{Reply: reply, Stats: sess.Stats()})
}

// handleNewSession starts a fresh conversation under a new session id.
func (s *Server) handleNewSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "Method not allowed"})
		return
	}

	sess, err := s.sessionFor(w, r)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}

	sess.Reset()
	s.writeState(w, sess)
}

// handleClearChat empties the history but keeps the session id.
func (s *Server) handleClearChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "Method not allowed"})
		return
	}

	sess, err := s.sessionFor(w, r)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}

	sess.Clear()
	s.writeState(w, sess)
}

// handleInitializeClient runs credential resolution for this session.
// It serves both the first initialize and later explicit retries.
func (s *Server) handleInitializeClient(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "Method not allowed"})
		return
	}

	sess, err := s.sessionFor(w, r)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}

	cfg, source, err := s.resolver.Resolve(r.Context())
	if err != nil {
		sess.MarkFailed()
		writeJSON(w, http.StatusOK, initializeResponse{
			ClientState: sess.State(),
			Error:       msgClientFailed,
		})
		return
	}

	sess.SetCaller(s.newCaller(cfg))
	writeJSON(w, http.StatusOK, initializeResponse{
		ClientState: sess.State(),
		Source:      source,
	})
}

// handleExport offers the conversation as a JSON download.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "Method not allowed"})
		return
	}

	cookie, err := r.Cookie(sessionCookie)
	if err != nil || cookie.Value == "" {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "No session"})
		return
	}
	sess, ok := s.store.Get(cookie.Value)
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "No session"})
		return
	}
	if len(sess.Messages()) == 0 {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "Nothing to export"})
		return
	}

	doc := sess.Export()
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Export failed"})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", sess.ExportFilename()))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// handleState reports everything the page needs to render.
func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "Method not allowed"})
		return
	}

	sess, err := s.sessionFor(w, r)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}

	s.writeState(w, sess)
}

func (s *Server) writeState(w http.ResponseWriter, sess *session.Session) {
	resp := stateResponse{
		SessionID:   sess.ID(),
		ClientState: sess.State(),
		Messages:    sess.Messages(),
		Stats:       sess.Stats(),
	}

	if cfg, ok := s.agentConfig.Resolve(); ok {
		prefix := cfg.AgentID
		if len(prefix) > 8 {
			prefix = prefix[:8]
		}
		resp.AgentConfig = agentConfigStatus{
			Present:       true,
			AgentIDPrefix: prefix,
			AgentAliasID:  cfg.AgentAliasID,
		}
	} else {
		resp.BlockedReason = msgConfigMissing
	}
	if resp.BlockedReason == "" {
		switch sess.State() {
		case session.StateUninitialized:
			resp.BlockedReason = msgClientUninitialized
		case session.StateFailed:
			resp.BlockedReason = msgClientFailed
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

// handleHealth reports liveness.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "Method not allowed"})
		return
	}

	writeJSON(w, http.StatusOK, healthResponse{
		Status:    "ok",
		Uptime:    time.Since(s.startTime).Seconds(),
		Sessions:  s.store.Len(),
		Timestamp: time.Now().UnixMilli(),
	})
}

func (s *Server) countMessage(role session.Role) {
	if s.metrics != nil {
		s.metrics.MessagesTotal.WithLabelValues(string(role)).Inc()
	}
}

func (s *Server) observeInvocation(err error, elapsed time.Duration) {
	if s.metrics == nil {
		return
	}

	status := "ok"
	if err != nil {
		status = "unknown"
		var invErr *agent.InvokeError
		if errors.As(err, &invErr) {
			status = string(invErr.Kind)
		}
	}
	s.metrics.InvocationsTotal.WithLabelValues(status).Inc()
	s.metrics.InvokeDuration.Observe(elapsed.Seconds())
}
