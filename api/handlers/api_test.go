package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

var a App

func executeRequest(req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	a.Router.ServeHTTP(rr, req)
	return rr
}

func checkResponseCode(t *testing.T, expected, actual int) {
	t.Helper()
	if expected != actual {
		t.Errorf("Expected response code %d. Got %d\n", expected, actual)
	}
}

func TestHealthCheckRoute(t *testing.T) {
	a.Router = a.New()
	req, _ := http.NewRequest("GET", "/health", nil)
	response := executeRequest(req)

	checkResponseCode(t, http.StatusOK, response.Code)

	if !strings.Contains(response.Body.String(), "alive") {
		t.Errorf("Expected 'alive' in the reponse. Got '%s'", response.Body.String())
	}
}

func TestApp_ComplaintsUnauthorized(t *testing.T) {
	a.Router = a.New()
	req, _ := http.NewRequest("GET", "/api/v1/complaints", nil)
	response := executeRequest(req)

	checkResponseCode(t, http.StatusUnauthorized, response.Code)
}

func TestApp_ComplaintsUnknownToken(t *testing.T) {
	a.Router = a.New()
	req, _ := http.NewRequest("GET", "/api/v1/complaints", nil)
	req.Header.Add("Authorization", "Bearer not-a-token")
	response := executeRequest(req)

	checkResponseCode(t, http.StatusUnauthorized, response.Code)
}

func TestApp_StatusRouteMethods(t *testing.T) {
	a.Router = a.New()
	for _, method := range []string{"PATCH", "PUT"} {
		req, _ := http.NewRequest(method, "/api/v1/complaints/5fc51f58c72ff10004dca382/status", nil)
		response := executeRequest(req)
		checkResponseCode(t, http.StatusUnauthorized, response.Code)
	}
}

func TestApp_StreamRejectsMissingTicket(t *testing.T) {
	a.Router = a.New()
	req, _ := http.NewRequest("GET", "/api/v1/ws/notifications", nil)
	response := executeRequest(req)

	checkResponseCode(t, http.StatusUnauthorized, response.Code)
}

func TestApp_RequestIDEchoed(t *testing.T) {
	a.Router = a.New()
	req, _ := http.NewRequest("GET", "/api/v1/complaints", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	response := executeRequest(req)

	if got := response.Header().Get("X-Request-ID"); got != "abc-123" {
		t.Errorf("Expected request id to be echoed. Got '%s'", got)
	}
}
