package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
)

func TestWriteJSON(t *testing.T) {
	w := httptest.NewRecorder()

	if err := WriteJSON(w, http.StatusOK, map[string]string{"hello": "world"}); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}

	if w.Code != http.StatusOK {
		t.Errorf("status %d, want 200", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type %q, want application/json", ct)
	}

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["hello"] != "world" {
		t.Errorf("body %v", body)
	}
}

func TestNotFoundEnvelope(t *testing.T) {
	envelope := NotFound()

	if envelope.Status != http.StatusNotFound {
		t.Errorf("status %d, want 404", envelope.Status)
	}
	if envelope.Message != "Student or Grade was not found" {
		t.Errorf("message %q", envelope.Message)
	}
	if _, err := time.Parse(time.RFC3339, envelope.TimeStamp); err != nil {
		t.Errorf("timeStamp %q is not RFC 3339: %v", envelope.TimeStamp, err)
	}
}

func TestEnvelopeJSONShape(t *testing.T) {
	raw, err := json.Marshal(NotFound())
	if err != nil {
		t.Fatalf("marshal envelope: %v", err)
	}

	// The wire contract names the keys status, message, timeStamp.
	for _, key := range []string{`"status"`, `"message"`, `"timeStamp"`} {
		if !strings.Contains(string(raw), key) {
			t.Errorf("envelope %s missing key %s", raw, key)
		}
	}
}

func TestValidationError(t *testing.T) {
	payload := struct {
		Firstname    string `validate:"required"`
		EmailAddress string `validate:"required,email"`
	}{
		EmailAddress: "not-an-email",
	}

	err := validator.New().Struct(payload)
	if err == nil {
		t.Fatal("expected validation failures")
	}

	envelope := ValidationError(err.(validator.ValidationErrors))

	if envelope.Status != http.StatusBadRequest {
		t.Errorf("status %d, want 400", envelope.Status)
	}
	if !strings.Contains(envelope.Message, "field Firstname is required") {
		t.Errorf("message %q misses the required clause", envelope.Message)
	}
	if !strings.Contains(envelope.Message, "field EmailAddress must be a valid email address") {
		t.Errorf("message %q misses the email clause", envelope.Message)
	}
}
