package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"render-vector/config"
	"render-vector/store"
)

func TestAPIServer(t *testing.T) {
	// Create registry and server
	registry := store.NewRegistry(config.DefaultConfig())
	server := NewServer(registry)

	// Start server in a goroutine for the WebSocket part of the test
	go func() {
		if err := server.Start("localhost:8085"); err != nil {
			t.Errorf("Failed to start server: %v", err)
		}
	}()

	// Wait for server to start
	time.Sleep(100 * time.Millisecond)

	// Test vector creation
	reqBody := map[string]interface{}{
		"data": []float64{1.0, 2.0, 3.0},
	}
	jsonBody, _ := json.Marshal(reqBody)
	req := httptest.NewRequest("POST", "/api/vectors", bytes.NewBuffer(jsonBody))
	w := httptest.NewRecorder()
	server.HandleVectors(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var created map[string]string
	if err := json.NewDecoder(w.Body).Decode(&created); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	handle := created["handle"]
	if handle == "" {
		t.Fatal("Expected a handle in the response")
	}

	// Test handle listing
	req = httptest.NewRequest("GET", "/api/vectors", nil)
	w = httptest.NewRecorder()
	server.HandleVectors(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	var handles []string
	if err := json.NewDecoder(w.Body).Decode(&handles); err != nil {
		t.Errorf("Failed to decode response: %v", err)
	}
	if len(handles) != 1 || handles[0] != handle {
		t.Errorf("Expected [%s], got %v", handle, handles)
	}

	// Test element update
	updateBody, _ := json.Marshal(map[string]interface{}{
		"index": 1,
		"value": 5.0,
	})
	req = httptest.NewRequest("PUT", "/api/vectors/"+handle, bytes.NewBuffer(updateBody))
	w = httptest.NewRecorder()
	server.handleVector(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("Expected status 204, got %d", w.Code)
	}

	// Test read-back
	req = httptest.NewRequest("GET", "/api/vectors/"+handle, nil)
	w = httptest.NewRecorder()
	server.handleVector(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var readBack struct {
		Handle string    `json:"handle"`
		Data   []float64 `json:"data"`
	}
	if err := json.NewDecoder(w.Body).Decode(&readBack); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	expected := []float64{1.0, 5.0, 3.0}
	if len(readBack.Data) != len(expected) {
		t.Fatalf("Expected %v, got %v", expected, readBack.Data)
	}
	for i := range expected {
		if readBack.Data[i] != expected[i] {
			t.Fatalf("Expected %v, got %v", expected, readBack.Data)
		}
	}

	// Test out-of-range update
	updateBody, _ = json.Marshal(map[string]interface{}{
		"index": 10,
		"value": 5.0,
	})
	req = httptest.NewRequest("PUT", "/api/vectors/"+handle, bytes.NewBuffer(updateBody))
	w = httptest.NewRecorder()
	server.handleVector(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}

	// Test release
	req = httptest.NewRequest("DELETE", "/api/vectors/"+handle, nil)
	w = httptest.NewRecorder()
	server.handleVector(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("Expected status 204, got %d", w.Code)
	}

	// Reads on a released handle fail with 404
	req = httptest.NewRequest("GET", "/api/vectors/"+handle, nil)
	w = httptest.NewRecorder()
	server.handleVector(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}

	// Test WebSocket connection
	wsURL := "ws://localhost:8085/api/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("Failed to connect to WebSocket: %v", err)
	}
	defer conn.Close()

	// Test vector creation through WebSocket
	createMsg := map[string]interface{}{
		"type": "create",
		"data": []float64{1.0, 2.0, 3.0},
	}
	if err := conn.WriteJSON(createMsg); err != nil {
		t.Fatalf("Failed to send create message: %v", err)
	}

	var createResp map[string]interface{}
	if err := conn.ReadJSON(&createResp); err != nil {
		t.Fatalf("Failed to read create response: %v", err)
	}
	if createResp["error"] != nil {
		t.Fatalf("Received error in create response: %v", createResp["error"])
	}
	wsHandle, _ := createResp["handle"].(string)
	if wsHandle == "" {
		t.Fatal("Expected a handle in the create response")
	}

	// Test element update through WebSocket
	updateMsg := map[string]interface{}{
		"type":   "update",
		"handle": wsHandle,
		"index":  1,
		"value":  5.0,
	}
	if err := conn.WriteJSON(updateMsg); err != nil {
		t.Fatalf("Failed to send update message: %v", err)
	}

	var updateResp map[string]interface{}
	if err := conn.ReadJSON(&updateResp); err != nil {
		t.Fatalf("Failed to read update response: %v", err)
	}
	if updateResp["error"] != nil {
		t.Fatalf("Received error in update response: %v", updateResp["error"])
	}

	// Test read-back through WebSocket
	readMsg := map[string]interface{}{
		"type":   "read",
		"handle": wsHandle,
	}
	if err := conn.WriteJSON(readMsg); err != nil {
		t.Fatalf("Failed to send read message: %v", err)
	}

	var readResp struct {
		Handle string    `json:"handle"`
		Data   []float64 `json:"data"`
		Error  string    `json:"error"`
	}
	if err := conn.ReadJSON(&readResp); err != nil {
		t.Fatalf("Failed to read read response: %v", err)
	}
	if readResp.Error != "" {
		t.Fatalf("Received error in read response: %v", readResp.Error)
	}
	for i, want := range expected {
		if readResp.Data[i] != want {
			t.Fatalf("Expected %v, got %v", expected, readResp.Data)
		}
	}

	// Test release through WebSocket
	releaseMsg := map[string]interface{}{
		"type":   "release",
		"handle": wsHandle,
	}
	if err := conn.WriteJSON(releaseMsg); err != nil {
		t.Fatalf("Failed to send release message: %v", err)
	}

	var releaseResp map[string]interface{}
	if err := conn.ReadJSON(&releaseResp); err != nil {
		t.Fatalf("Failed to read release response: %v", err)
	}
	if releaseResp["error"] != nil {
		t.Fatalf("Received error in release response: %v", releaseResp["error"])
	}
}
