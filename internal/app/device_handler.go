// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/relabs-tech/motion_tracker/internal/host"
	"github.com/relabs-tech/motion_tracker/internal/motion"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for local development
	},
}

// WSResponse is sent back for every message a device posts.
type WSResponse struct {
	Type    string          `json:"type"` // readout, calibration, error
	Readout *motion.Readout `json:"readout,omitempty"`
	Message string          `json:"message,omitempty"`
}

// deviceHandler runs one tracker per websocket connection. Each message is a
// host event; the reply is the tracker readout after applying it.
type deviceHandler struct {
	opts motion.Options

	// forward, when set, receives every accepted event with its raw payload.
	forward func(ev host.Event, payload []byte)
}

func (h *deviceHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("web: websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	log.Printf("web: device connected from %s", r.RemoteAddr)

	// Reads and writes stay on this goroutine, so the session needs no lock.
	s := newSession(h.opts)

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Printf("web: websocket read error: %v", err)
			}
			break
		}

		resp := h.handle(s, payload)
		if err := conn.WriteJSON(resp); err != nil {
			log.Printf("web: websocket write error: %v", err)
			break
		}
	}

	log.Printf("web: device %s disconnected", r.RemoteAddr)
}

func (h *deviceHandler) handle(s *session, payload []byte) WSResponse {
	ev, err := s.adapter.ApplyJSON(payload)
	if err != nil {
		return WSResponse{Type: "error", Message: err.Error()}
	}

	if h.forward != nil {
		h.forward(ev, payload)
	}

	if ev.Type == host.TypeCompassNeedsCalibration {
		return WSResponse{Type: "calibration", Message: "compass needs calibration"}
	}

	r := s.readout()
	return WSResponse{Type: "readout", Readout: &r}
}
