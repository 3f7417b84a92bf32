package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"grimm.is/ifctl/internal/audit"
	"grimm.is/ifctl/internal/netctl"
)

type ifStateRequest struct {
	InterfaceName string           `json:"interface_name"`
	LinkState     netctl.LinkState `json:"link_state"`
}

type ifStateResponse struct {
	LinkState netctl.LinkState `json:"link_state"`
}

// handleIfState sets an interface's administrative link state and returns
// the post-operation state.
func (s *Server) handleIfState(w http.ResponseWriter, r *http.Request) {
	var req ifStateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.InterfaceName == "" {
		WriteError(w, http.StatusBadRequest, "interface_name is required")
		return
	}

	state, err := s.controller.SetLinkState(req.InterfaceName, req.LinkState)
	if err != nil {
		if errors.Is(err, netctl.ErrBusy) {
			s.registry.RecordBusyRejection(req.InterfaceName)
		}
		s.audit(audit.Event{
			Action:    audit.ActionSetLinkState,
			Interface: req.InterfaceName,
			Details:   map[string]any{"link_state": string(req.LinkState), "error": err.Error()},
			RemoteIP:  getClientIP(r),
		})
		writeControllerError(w, err)
		return
	}

	s.registry.RecordLinkChange(req.InterfaceName, string(state))
	s.audit(audit.Event{
		Action:    audit.ActionSetLinkState,
		Interface: req.InterfaceName,
		Details:   map[string]any{"link_state": string(state)},
		Success:   true,
		RemoteIP:  getClientIP(r),
	})
	WriteJSON(w, http.StatusOK, ifStateResponse{LinkState: state})
}

type ifModeRequest struct {
	InterfaceName string      `json:"interfaceName"`
	InterfaceMode netctl.Mode `json:"interfaceMode"`
}

type ifModeResponse struct {
	InterfaceMode netctl.Mode `json:"interfaceMode"`
}

// handleIfMode switches a wireless interface's operating mode and returns
// the active mode.
func (s *Server) handleIfMode(w http.ResponseWriter, r *http.Request) {
	var req ifModeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.InterfaceName == "" {
		WriteError(w, http.StatusBadRequest, "interfaceName is required")
		return
	}

	mode, err := s.controller.SetMode(req.InterfaceName, req.InterfaceMode)
	if err != nil {
		if errors.Is(err, netctl.ErrBusy) {
			s.registry.RecordBusyRejection(req.InterfaceName)
		}
		s.audit(audit.Event{
			Action:    audit.ActionSetMode,
			Interface: req.InterfaceName,
			Details:   map[string]any{"mode": string(req.InterfaceMode.Type), "error": err.Error()},
			RemoteIP:  getClientIP(r),
		})
		writeControllerError(w, err)
		return
	}

	s.registry.RecordModeChange(req.InterfaceName, string(mode.Type))
	s.audit(audit.Event{
		Action:    audit.ActionSetMode,
		Interface: req.InterfaceName,
		Details:   map[string]any{"mode": string(mode.Type)},
		Success:   true,
		RemoteIP:  getClientIP(r),
	})
	WriteJSON(w, http.StatusOK, ifModeResponse{InterfaceMode: mode})
}

type interfacesResponse struct {
	Interfaces []netctl.InterfaceInfo `json:"interfaces"`
}

// handleInterfaces returns the full interface inventory.
func (s *Server) handleInterfaces(w http.ResponseWriter, r *http.Request) {
	infos, err := s.controller.Inventory()
	if err != nil {
		writeControllerError(w, err)
		return
	}
	if infos == nil {
		infos = []netctl.InterfaceInfo{}
	}
	WriteJSON(w, http.StatusOK, interfacesResponse{Interfaces: infos})
}

type statusResponse struct {
	Status string `json:"status"`
	Uptime string `json:"uptime"`
}

// handleStatus is a public liveness endpoint.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, statusResponse{
		Status: "online",
		Uptime: s.uptime().Truncate(time.Second).String(),
	})
}
