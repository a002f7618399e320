package gradebook_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/JoseManuelMunozManzano/gradebook-api/internal/http/handlers/gradebook"
	"github.com/JoseManuelMunozManzano/gradebook-api/internal/service"
	"github.com/JoseManuelMunozManzano/gradebook-api/internal/storage"
	"github.com/JoseManuelMunozManzano/gradebook-api/internal/testhelpers"
	"github.com/JoseManuelMunozManzano/gradebook-api/internal/types"
	"github.com/JoseManuelMunozManzano/gradebook-api/internal/utils/response"
)

// setupScenario builds the full stack over the seeded baseline:
// router → service → transaction-backed storage. The transaction rolls
// back and the cleanup scripts run when the test finishes. The Tx is
// returned so scenarios can verify state behind the API's back.
func setupScenario(t *testing.T) (http.Handler, storage.Tx) {
	t.Helper()

	tx := testhelpers.SeededTx(t)
	router := gradebook.Router(service.New(tx))

	return router, tx
}

func doRequest(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}

	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeViews(t *testing.T, w *httptest.ResponseRecorder) []types.StudentView {
	t.Helper()

	var views []types.StudentView
	if err := json.Unmarshal(w.Body.Bytes(), &views); err != nil {
		t.Fatalf("decode student views: %v (body %q)", err, w.Body.String())
	}
	return views
}

func decodeView(t *testing.T, w *httptest.ResponseRecorder) types.StudentView {
	t.Helper()

	var view types.StudentView
	if err := json.Unmarshal(w.Body.Bytes(), &view); err != nil {
		t.Fatalf("decode student view: %v (body %q)", err, w.Body.String())
	}
	return view
}

func wantNotFoundEnvelope(t *testing.T, w *httptest.ResponseRecorder) {
	t.Helper()

	if w.Code != http.StatusNotFound {
		t.Fatalf("got status %d, want 404 (body %q)", w.Code, w.Body.String())
	}

	var envelope response.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode error envelope: %v", err)
	}
	if envelope.Status != 404 {
		t.Errorf("envelope status %d, want 404", envelope.Status)
	}
	if envelope.Message != "Student or Grade was not found" {
		t.Errorf("envelope message %q", envelope.Message)
	}
	if _, err := time.Parse(time.RFC3339, envelope.TimeStamp); err != nil {
		t.Errorf("envelope timeStamp %q is not RFC 3339: %v", envelope.TimeStamp, err)
	}
}

func wantJSONContentType(t *testing.T, w *httptest.ResponseRecorder) {
	t.Helper()

	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type %q, want application/json", ct)
	}
}

func TestGetStudentsWithTwoStudents(t *testing.T) {
	router, tx := setupScenario(t)

	// Persist a second student directly through the store.
	if _, err := tx.CreateStudent("Adri", "Acosta", "adri@gmail.com"); err != nil {
		t.Fatalf("persist second student: %v", err)
	}

	w := doRequest(t, router, http.MethodGet, "/", "")

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200", w.Code)
	}
	wantJSONContentType(t, w)

	if views := decodeViews(t, w); len(views) != 2 {
		t.Fatalf("got %d students, want 2", len(views))
	}
}

func TestCreateStudent(t *testing.T) {
	router, tx := setupScenario(t)

	body := `{"firstname":"Adri","lastname":"Acosta","emailAddress":"adri@gmail.com"}`
	w := doRequest(t, router, http.MethodPost, "/", body)

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200 (body %q)", w.Code, w.Body.String())
	}
	if views := decodeViews(t, w); len(views) != 2 {
		t.Fatalf("got %d students, want 2", len(views))
	}

	// Double-check against the backend by email.
	student, err := tx.GetStudentByEmail("adri@gmail.com")
	if err != nil {
		t.Fatalf("created student not in store: %v", err)
	}
	if student.Firstname != "Adri" || student.Lastname != "Acosta" {
		t.Errorf("stored student %+v", student)
	}
}

func TestCreateStudentEmptyBody(t *testing.T) {
	router, _ := setupScenario(t)

	w := doRequest(t, router, http.MethodPost, "/", "")

	if w.Code != http.StatusBadRequest {
		t.Fatalf("got status %d, want 400", w.Code)
	}
}

func TestCreateStudentMissingFields(t *testing.T) {
	router, _ := setupScenario(t)

	w := doRequest(t, router, http.MethodPost, "/", `{"firstname":"Adri"}`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("got status %d, want 400", w.Code)
	}

	var envelope response.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode error envelope: %v", err)
	}
	if !strings.Contains(envelope.Message, "Lastname") ||
		!strings.Contains(envelope.Message, "EmailAddress") {
		t.Errorf("validation message %q names the wrong fields", envelope.Message)
	}
}

func TestDeleteStudent(t *testing.T) {
	router, tx := setupScenario(t)

	// The seeded student exists before the delete.
	if _, err := tx.GetStudentByID(1); err != nil {
		t.Fatalf("seeded student missing: %v", err)
	}

	w := doRequest(t, router, http.MethodDelete, "/student/1", "")

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200", w.Code)
	}
	wantJSONContentType(t, w)
	if views := decodeViews(t, w); len(views) != 0 {
		t.Fatalf("got %d students after delete, want 0", len(views))
	}

	if _, err := tx.GetStudentByID(1); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("student still in store after delete: %v", err)
	}
}

func TestDeleteStudentNotFound(t *testing.T) {
	router, tx := setupScenario(t)

	if _, err := tx.GetStudentByID(0); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("student 0 unexpectedly present: %v", err)
	}

	w := doRequest(t, router, http.MethodDelete, "/student/0", "")

	wantNotFoundEnvelope(t, w)
}

func TestStudentInformation(t *testing.T) {
	router, _ := setupScenario(t)

	w := doRequest(t, router, http.MethodGet, "/studentInformation/1", "")

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200", w.Code)
	}
	wantJSONContentType(t, w)

	view := decodeView(t, w)
	if view.ID != 1 {
		t.Errorf("id %d, want 1", view.ID)
	}
	if view.Firstname != "Eric" || view.Lastname != "Roby" {
		t.Errorf("name %q %q, want Eric Roby", view.Firstname, view.Lastname)
	}
	if view.EmailAddress != "eric.roby@luv2code_school.com" {
		t.Errorf("email %q", view.EmailAddress)
	}
}

func TestStudentInformationNotFound(t *testing.T) {
	router, _ := setupScenario(t)

	w := doRequest(t, router, http.MethodGet, "/studentInformation/0", "")

	wantNotFoundEnvelope(t, w)
}

func TestStudentInformationInvalidID(t *testing.T) {
	router, _ := setupScenario(t)

	w := doRequest(t, router, http.MethodGet, "/studentInformation/abc", "")

	if w.Code != http.StatusBadRequest {
		t.Fatalf("got status %d, want 400", w.Code)
	}
}

func TestCreateValidGrade(t *testing.T) {
	router, _ := setupScenario(t)

	// Parameters travel in the query facet, not the JSON body.
	w := doRequest(t, router, http.MethodPost,
		"/grades?grade=85.00&gradeType=math&studentId=1", "")

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200 (body %q)", w.Code, w.Body.String())
	}
	wantJSONContentType(t, w)

	view := decodeView(t, w)
	if view.ID != 1 || view.Firstname != "Eric" || view.Lastname != "Roby" {
		t.Errorf("owner view %+v, want Eric Roby id 1", view)
	}
	if view.EmailAddress != "eric.roby@luv2code_school.com" {
		t.Errorf("email %q", view.EmailAddress)
	}
	if len(view.StudentGrades.MathGradeResults) != 2 {
		t.Fatalf("math grades: got %d, want 2 (seeded one plus the new one)",
			len(view.StudentGrades.MathGradeResults))
	}
}

func TestCreateGradeStudentNotFound(t *testing.T) {
	router, _ := setupScenario(t)

	w := doRequest(t, router, http.MethodPost,
		"/grades?grade=85.00&gradeType=math&studentId=0", "")

	wantNotFoundEnvelope(t, w)
}

func TestCreateGradeUnknownType(t *testing.T) {
	router, _ := setupScenario(t)

	w := doRequest(t, router, http.MethodPost,
		"/grades?grade=85.00&gradeType=literature&studentId=1", "")

	wantNotFoundEnvelope(t, w)
}

func TestCreateGradeInvalidNumber(t *testing.T) {
	router, _ := setupScenario(t)

	w := doRequest(t, router, http.MethodPost,
		"/grades?grade=abc&gradeType=math&studentId=1", "")

	if w.Code != http.StatusBadRequest {
		t.Fatalf("got status %d, want 400", w.Code)
	}
}

func TestCreateGradeOutOfRange(t *testing.T) {
	router, _ := setupScenario(t)

	w := doRequest(t, router, http.MethodPost,
		"/grades?grade=150.00&gradeType=math&studentId=1", "")

	if w.Code != http.StatusBadRequest {
		t.Fatalf("got status %d, want 400", w.Code)
	}
}

func TestDeleteValidGrade(t *testing.T) {
	router, tx := setupScenario(t)

	// The seeded math grade exists before the delete.
	if _, err := tx.GetGradeByID(1, types.Math); err != nil {
		t.Fatalf("seeded math grade missing: %v", err)
	}

	w := doRequest(t, router, http.MethodDelete, "/grades/1/math", "")

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200 (body %q)", w.Code, w.Body.String())
	}
	wantJSONContentType(t, w)

	view := decodeView(t, w)
	if view.ID != 1 || view.Firstname != "Eric" || view.Lastname != "Roby" {
		t.Errorf("owner view %+v, want Eric Roby id 1", view)
	}
	if len(view.StudentGrades.MathGradeResults) != 0 {
		t.Fatalf("math grades after delete: got %d, want 0",
			len(view.StudentGrades.MathGradeResults))
	}
}

func TestDeleteGradeWrongFamily(t *testing.T) {
	router, _ := setupScenario(t)

	// Id 2 exists in the store, but as a science grade; resolving it
	// under history must miss.
	w := doRequest(t, router, http.MethodDelete, "/grades/2/history", "")

	wantNotFoundEnvelope(t, w)
}

func TestDeleteGradeInvalidID(t *testing.T) {
	router, _ := setupScenario(t)

	w := doRequest(t, router, http.MethodDelete, "/grades/abc/math", "")

	if w.Code != http.StatusBadRequest {
		t.Fatalf("got status %d, want 400", w.Code)
	}
}

func TestDeleteStudentCascadesAllFamilies(t *testing.T) {
	router, tx := setupScenario(t)

	w := doRequest(t, router, http.MethodDelete, "/student/1", "")
	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200", w.Code)
	}

	for _, subject := range []types.GradeType{types.Math, types.Science, types.History} {
		grades, err := tx.GetGradesByStudentID(1, subject)
		if err != nil {
			t.Fatalf("GetGradesByStudentID %s: %v", subject, err)
		}
		if len(grades) != 0 {
			t.Errorf("%s grades survived the student delete: %v", subject, grades)
		}
	}
}
