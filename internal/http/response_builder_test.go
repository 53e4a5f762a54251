package http

import (
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestJSONResponseBuilder(t *testing.T) {
	rr := httptest.NewRecorder()
	NewJSONResponse().
		Status(http.StatusCreated).
		Header("X-Custom", "value").
		JSON(map[string]int{"count": 2}).
		Write(rr)

	if rr.Code != http.StatusCreated {
		t.Errorf("status = %d, want %d", rr.Code, http.StatusCreated)
	}
	if got := rr.Header().Get("Content-Type"); got != contentTypeJSON {
		t.Errorf("Content-Type = %q", got)
	}
	if rr.Header().Get("X-Custom") != "value" {
		t.Error("custom header missing")
	}
	var body map[string]int
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil || body["count"] != 2 {
		t.Errorf("body = %s, err = %v", rr.Body.String(), err)
	}
}

func TestJSONResponseBuilderNoBody(t *testing.T) {
	rr := httptest.NewRecorder()
	NewJSONResponse().Status(http.StatusNoContent).Write(rr)
	if rr.Code != http.StatusNoContent || rr.Body.Len() != 0 {
		t.Errorf("status = %d, body = %q", rr.Code, rr.Body.String())
	}
}

func TestJSONResponseBuilderEncodeFailure(t *testing.T) {
	rr := httptest.NewRecorder()
	NewJSONResponse().JSON(math.Inf(1)).Write(rr)
	if rr.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rr.Code)
	}
}

func TestErrorResponses(t *testing.T) {
	tests := []struct {
		name     string
		builder  *JSONResponseBuilder
		wantCode int
		wantMsg  string
	}{
		{"bad request", BadRequestError("Invalid amount"), http.StatusBadRequest, "Invalid amount"},
		{"unauthorized", UnauthorizedError("Invalid credentials"), http.StatusUnauthorized, "Invalid credentials"},
		{"not found", NotFoundError("Transaction not found"), http.StatusNotFound, "Transaction not found"},
		{"server error", InternalServerError(), http.StatusInternalServerError, "Server error"},
		{"method not allowed", MethodNotAllowedError("GET, POST"), http.StatusMethodNotAllowed, "Method not allowed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			tt.builder.Write(rr)
			if rr.Code != tt.wantCode {
				t.Errorf("status = %d, want %d", rr.Code, tt.wantCode)
			}
			var body MessageBody
			if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body.Message != tt.wantMsg {
				t.Errorf("message = %q, want %q", body.Message, tt.wantMsg)
			}
		})
	}

	rr := httptest.NewRecorder()
	MethodNotAllowedError("GET, POST").Write(rr)
	if rr.Header().Get("Allow") != "GET, POST" {
		t.Errorf("Allow = %q", rr.Header().Get("Allow"))
	}
}
