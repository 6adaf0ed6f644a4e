package server

import (
	"cmp"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"os"
	"slices"
	"strings"

	"github.com/coder/websocket"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"whackarcade/internal/db"
	"whackarcade/internal/gamedata"
	"whackarcade/internal/machines"
	"whackarcade/internal/players"
	"whackarcade/internal/wshub"
)

type Server struct {
	Controller *machines.Controller
	MachineCfg *machines.MachineConfig
	Registry   *prometheus.Registry
	DB         *db.DB // nil if no database configured

	logger *log.Logger
}

func NewServer(ctrl *machines.Controller, cfg *machines.MachineConfig, reg *prometheus.Registry) *Server {
	return &Server{
		Controller: ctrl,
		MachineCfg: cfg,
		Registry:   reg,
		logger:     log.New(os.Stdout, "[API] ", log.LstdFlags),
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Printf("encoding response: %v", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}

// writeMachineError maps controller errors to HTTP statuses.
func (s *Server) writeMachineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, machines.ErrMachineNotFound):
		s.writeError(w, http.StatusNotFound, "machine not found")
	case errors.Is(err, machines.ErrMachineUnpowered):
		s.writeError(w, http.StatusConflict, "machine has no power")
	case errors.Is(err, machines.ErrControllerStopped):
		s.writeError(w, http.StatusServiceUnavailable, "arcade is shutting down")
	default:
		s.logger.Printf("machine request failed: %v", err)
		s.writeError(w, http.StatusInternalServerError, "request failed")
	}
}

// playerID identifies the caller from the player_id cookie or ?player= query.
func playerID(r *http.Request) string {
	if c, err := r.Cookie("player_id"); err == nil {
		return c.Value
	}
	return r.URL.Query().Get("player")
}

type healthResponse struct {
	Status   string `json:"status"`
	Error    string `json:"error,omitempty"`
	Database string `json:"database"`
	Machines int    `json:"machines"`
	Players  int    `json:"players"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{
		Status:   "ok",
		Database: "none",
		Machines: s.Controller.Machines.Count(),
		Players:  s.Controller.Players.Count(),
	}
	if s.DB != nil {
		resp.Database = s.DB.Dialect()
		if err := s.DB.Ping(); err != nil {
			resp.Status, resp.Error = "db_error", err.Error()
			s.writeJSON(w, http.StatusServiceUnavailable, resp)
			return
		}
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListPlayers(w http.ResponseWriter, r *http.Request) {
	list := s.Controller.Players.GetList()
	slices.SortFunc(list, func(a, b players.Player) int {
		return cmp.Or(cmp.Compare(b.BestScore, a.BestScore), strings.Compare(a.Name, b.Name))
	})
	s.writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleRemovePlayer(w http.ResponseWriter, r *http.Request) {
	if !s.Controller.Players.Remove(chi.URLParam(r, "id")) {
		s.writeError(w, http.StatusNotFound, "player not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type registerRequest struct {
	Name string `json:"name"`
}

func (s *Server) handleRegisterPlayer(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		s.writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	id := uuid.New().String()
	player := s.Controller.Players.Add(id, name)

	if s.DB != nil {
		if err := s.DB.UpsertPlayer(id, name, player.Color); err != nil {
			log.Printf("[DB] UpsertPlayer error: %v\n", err)
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "player_id",
		Value:    id,
		Path:     "/",
		HttpOnly: true,
	})
	s.writeJSON(w, http.StatusCreated, player)
}

func (s *Server) handleCreateMachine(w http.ResponseWriter, r *http.Request) {
	m, err := s.Controller.CreateMachine(r.Context(), s.MachineCfg)
	if err != nil {
		s.writeMachineError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, map[string]string{"code": m.Code})
}

func (s *Server) handleListMachines(w http.ResponseWriter, r *http.Request) {
	list, err := s.Controller.List(r.Context())
	if err != nil {
		s.writeMachineError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleGetMachine(w http.ResponseWriter, r *http.Request) {
	info, err := s.Controller.Info(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		s.writeMachineError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, info)
}

func (s *Server) handleDeleteMachine(w http.ResponseWriter, r *http.Request) {
	if err := s.Controller.RemoveMachine(r.Context(), chi.URLParam(r, "code")); err != nil {
		s.writeMachineError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type actionRequest struct {
	Action string `json:"action"`
	Slot   *int   `json:"slot"`
}

type actionResponse struct {
	State *gamedata.Snapshot `json:"state"`
}

func parseAction(a string) (machines.Action, bool) {
	switch act := machines.Action(a); act {
	case machines.ActionStart, machines.ActionWhack, machines.ActionRequest:
		return act, true
	}
	return "", false
}

func (s *Server) handleAction(w http.ResponseWriter, r *http.Request) {
	var req actionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	action, ok := parseAction(req.Action)
	if !ok {
		s.writeError(w, http.StatusBadRequest, "action must be start, whack or request")
		return
	}

	snap, err := s.Controller.Act(r.Context(), chi.URLParam(r, "code"), machines.ActionMessage{
		Action: action,
		Slot:   req.Slot,
		Player: playerID(r),
	})
	if err != nil {
		s.writeMachineError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, actionResponse{State: snap})
}

type powerRequest struct {
	Powered *bool `json:"powered"`
}

func (s *Server) handlePower(w http.ResponseWriter, r *http.Request) {
	var req powerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Powered == nil {
		s.writeError(w, http.StatusBadRequest, `body must be {"powered": true|false}`)
		return
	}
	code := chi.URLParam(r, "code")
	if err := s.Controller.Power(r.Context(), code, *req.Powered); err != nil {
		s.writeMachineError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]bool{"powered": *req.Powered})
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	m, msgChan, err := s.Controller.Subscribe(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		s.writeMachineError(w, err)
		return
	}
	defer m.Broadcaster.Unsubscribe(msgChan)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	w.Write([]byte(": connected\n\n"))
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev, ok := <-msgChan:
			if !ok {
				return
			}
			if err := ev.Write(w); err != nil {
				return
			}
			flusher.Flush()
			if ev.Name == wshub.TypeClose {
				return
			}
		}
	}
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	// Refuse before the upgrade so plain HTTP clients get a status code.
	// Connect re-checks on the controller goroutine.
	info, err := s.Controller.Info(r.Context(), code)
	if err != nil {
		s.writeMachineError(w, err)
		return
	}
	if !info.Powered {
		s.writeError(w, http.StatusConflict, "machine has no power")
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{InsecureSkipVerify: true})
	if err != nil {
		log.Printf("[WSHub] Accept error: %v\n", err)
		return
	}
	defer conn.CloseNow()

	player := playerID(r)
	client := &wshub.Client{
		ID:       uuid.NewString(),
		PlayerID: player,
		Conn:     conn,
		Send:     make(chan []byte, 64),
		Binary:   r.URL.Query().Get("format") == "binary",
	}
	m, err := s.Controller.Connect(r.Context(), code, client)
	if err != nil {
		log.Printf("[WSHub] %s: refusing client: %v\n", code, err)
		conn.Close(websocket.StatusTryAgainLater, err.Error())
		return
	}
	defer m.Hub.Unregister(client.ID)
	log.Printf("[WSHub] %s: client %s connected\n", m.Code, client.ID)

	ctx := r.Context()
	go client.WritePump(ctx)

	err = client.ReadPump(ctx, func(msg wshub.ClientMessage) {
		action, ok := parseAction(msg.Action)
		if !ok {
			return
		}
		_, err := s.Controller.Act(ctx, m.Code, machines.ActionMessage{
			Action: action,
			Slot:   msg.Slot,
			Player: player,
		})
		if err != nil {
			log.Printf("[WSHub] %s: action failed: %v\n", m.Code, err)
		}
	})
	log.Printf("[WSHub] %s: client %s disconnected: %v\n", m.Code, client.ID, err)
}
