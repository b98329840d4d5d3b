package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"render-vector/store"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins
	},
}

/*
Server represents the API server
*/
type Server struct {
	registry *store.Registry
}

/*
NewServer creates a new API server
*/
func NewServer(registry *store.Registry) *Server {
	return &Server{
		registry: registry,
	}
}

/*
Start starts the HTTP server
*/
func (s *Server) Start(addr string) error {
	http.HandleFunc("/api/vectors", s.HandleVectors)
	http.HandleFunc("/api/vectors/", s.handleVector)
	http.HandleFunc("/api/ws", s.handleWebSocket)
	return http.ListenAndServe(addr, nil)
}

/*
HandleVectors handles vector listing and creation
*/
func (s *Server) HandleVectors(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleListVectors(w, r)
	case http.MethodPost:
		s.handleCreateVector(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

/*
handleVector handles operations on a single vector
*/
func (s *Server) handleVector(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.readVector(w, r)
	case http.MethodPut:
		s.updateVector(w, r)
	case http.MethodDelete:
		s.releaseVector(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

/*
handleWebSocket handles WebSocket connections
*/
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		http.Error(w, "Failed to upgrade connection", http.StatusInternalServerError)
		return
	}
	defer conn.Close()

	// Set read deadline
	conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	// Handle WebSocket messages
	for {
		messageType, p, err := conn.ReadMessage()
		if err != nil {
			return
		}

		// Process message
		var request map[string]interface{}
		if err := json.Unmarshal(p, &request); err != nil {
			conn.WriteMessage(messageType, []byte(`{"error": "Invalid JSON"}`))
			continue
		}

		// Handle different message types
		switch request["type"] {
		case "create":
			s.handleWSCreate(conn, messageType, request)
		case "update":
			s.handleWSUpdate(conn, messageType, request)
		case "read":
			s.handleWSRead(conn, messageType, request)
		case "release":
			s.handleWSRelease(conn, messageType, request)
		default:
			conn.WriteMessage(messageType, []byte(`{"error": "Unknown message type"}`))
		}
	}
}

/*
Helper methods for HTTP handlers
*/
func (s *Server) handleListVectors(w http.ResponseWriter, _ *http.Request) {
	handles := s.registry.ListHandles()
	json.NewEncoder(w).Encode(handles)
}

/*
handleCreateVector creates a new vector and returns its handle
*/
func (s *Server) handleCreateVector(w http.ResponseWriter, r *http.Request) {
	var request struct {
		Data []float64 `json:"data"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	handle, err := s.registry.Create(request.Data)
	if err != nil {
		http.Error(w, err.Error(), statusForError(err))
		return
	}

	json.NewEncoder(w).Encode(map[string]store.Handle{"handle": handle})
}

/*
readVector returns the full contents of a vector by handle
*/
func (s *Server) readVector(w http.ResponseWriter, r *http.Request) {
	// Extract handle from URL
	handle := store.Handle(r.URL.Path[len("/api/vectors/"):])
	data, err := s.registry.Data(handle)
	if err != nil {
		http.Error(w, err.Error(), statusForError(err))
		return
	}

	json.NewEncoder(w).Encode(map[string]interface{}{
		"handle": handle,
		"data":   data,
	})
}

/*
updateVector writes a single element of a vector by handle
*/
func (s *Server) updateVector(w http.ResponseWriter, r *http.Request) {
	handle := store.Handle(r.URL.Path[len("/api/vectors/"):])
	var request struct {
		Index int     `json:"index"`
		Value float32 `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := s.registry.Update(handle, request.Index, request.Value); err != nil {
		http.Error(w, err.Error(), statusForError(err))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

/*
releaseVector releases a vector by handle
*/
func (s *Server) releaseVector(w http.ResponseWriter, r *http.Request) {
	handle := store.Handle(r.URL.Path[len("/api/vectors/"):])
	if err := s.registry.Release(handle); err != nil {
		http.Error(w, err.Error(), statusForError(err))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

/*
statusForError maps registry errors to HTTP status codes
*/
func statusForError(err error) int {
	switch {
	case errors.Is(err, store.ErrHandleNotFound):
		return http.StatusNotFound
	case errors.Is(err, store.ErrIndexOutOfRange):
		return http.StatusBadRequest
	case errors.Is(err, store.ErrRegistryFull):
		return http.StatusInsufficientStorage
	default:
		return http.StatusInternalServerError
	}
}

/*
Helper methods for WebSocket handlers
*/
func (s *Server) handleWSCreate(conn *websocket.Conn, messageType int, request map[string]interface{}) {
	// Convert interface{} to []float64
	raw, ok := request["data"].([]interface{})
	if !ok {
		conn.WriteMessage(messageType, []byte(`{"error": "Invalid data"}`))
		return
	}
	data := make([]float64, len(raw))
	for i, v := range raw {
		f, ok := v.(float64)
		if !ok {
			conn.WriteMessage(messageType, []byte(`{"error": "Invalid data"}`))
			return
		}
		data[i] = f
	}

	handle, err := s.registry.Create(data)
	if err != nil {
		conn.WriteMessage(messageType, []byte(`{"error": "`+err.Error()+`"}`))
		return
	}

	response, _ := json.Marshal(map[string]store.Handle{"handle": handle})
	conn.WriteMessage(messageType, response)
}

func (s *Server) handleWSUpdate(conn *websocket.Conn, messageType int, request map[string]interface{}) {
	handle, _ := request["handle"].(string)
	index, okIndex := request["index"].(float64)
	value, okValue := request["value"].(float64)
	if !okIndex || !okValue {
		conn.WriteMessage(messageType, []byte(`{"error": "Invalid update"}`))
		return
	}

	if err := s.registry.Update(store.Handle(handle), int(index), float32(value)); err != nil {
		conn.WriteMessage(messageType, []byte(`{"error": "`+err.Error()+`"}`))
		return
	}

	conn.WriteMessage(messageType, []byte(`{"status": "success"}`))
}

func (s *Server) handleWSRead(conn *websocket.Conn, messageType int, request map[string]interface{}) {
	handle, _ := request["handle"].(string)

	data, err := s.registry.Data(store.Handle(handle))
	if err != nil {
		conn.WriteMessage(messageType, []byte(`{"error": "`+err.Error()+`"}`))
		return
	}

	response, _ := json.Marshal(map[string]interface{}{
		"handle": handle,
		"data":   data,
	})
	conn.WriteMessage(messageType, response)
}

func (s *Server) handleWSRelease(conn *websocket.Conn, messageType int, request map[string]interface{}) {
	handle, _ := request["handle"].(string)

	if err := s.registry.Release(store.Handle(handle)); err != nil {
		conn.WriteMessage(messageType, []byte(`{"error": "`+err.Error()+`"}`))
		return
	}

	conn.WriteMessage(messageType, []byte(`{"status": "success"}`))
}
