// Package gradebook contains the HTTP handlers for the gradebook API.
//
// HANDLER PATTERN USED HERE — THE CLOSURE / FACTORY PATTERN:
// ────────────────────────────────────────────────────────────
// Go's router expects handler functions with the signature:
//
//	func(http.ResponseWriter, *http.Request)
//
// That signature has no room for extra parameters like the domain
// service. Each factory below accepts the service once at startup and
// returns a closure with the exact signature the router needs.
//
// Route table:
//
//	GET    /                         → list all students
//	POST   /                         → create a student (JSON body)
//	DELETE /student/{id}             → delete a student (cascades grades)
//	GET    /studentInformation/{id}  → one student with its grades
//	POST   /grades                   → create a grade (query/form params)
//	DELETE /grades/{id}/{gradeType}  → delete one grade
package gradebook

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/JoseManuelMunozManzano/gradebook-api/internal/service"
	"github.com/JoseManuelMunozManzano/gradebook-api/internal/types"
	"github.com/JoseManuelMunozManzano/gradebook-api/internal/utils/response"
	"github.com/go-playground/validator/v10"
)

// Router wires every endpoint to the given service. main and the test
// harness share this table so they always exercise the same routes.
func Router(svc service.Gradebook) *http.ServeMux {
	router := http.NewServeMux()

	// {$} pins the pattern to exactly "/"; without it the bare "/"
	// pattern would swallow every unmatched path.
	router.HandleFunc("GET /{$}", GetStudents(svc))
	router.HandleFunc("POST /{$}", CreateStudent(svc))
	router.HandleFunc("DELETE /student/{id}", DeleteStudent(svc))
	router.HandleFunc("GET /studentInformation/{id}", StudentInformation(svc))
	router.HandleFunc("POST /grades", CreateGrade(svc))
	router.HandleFunc("DELETE /grades/{id}/{gradeType}", DeleteGrade(svc))

	return router
}

// ─────────────────────────────────────────────────────────────────────────────
// GetStudents handles GET /
// Returns the composed view of every student.
//
// Success response (200 OK): JSON array of StudentView.
// ─────────────────────────────────────────────────────────────────────────────
func GetStudents(svc service.Gradebook) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("listing students")

		views, err := svc.ListStudents()
		if err != nil {
			writeServiceError(w, err)
			return
		}

		response.WriteJSON(w, http.StatusOK, views)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// CreateStudent handles POST /
// Creates a student from the JSON request body.
//
// Request body (JSON):
//
//	{ "firstname": "Adri", "lastname": "Acosta", "emailAddress": "adri@gmail.com" }
//
// Success response (200 OK): the post-insert JSON array of StudentView.
//
// Error responses:
//
//	400 Bad Request  — empty body, malformed JSON, or failed validation
//	500 Internal     — database error
//
// ─────────────────────────────────────────────────────────────────────────────
func CreateStudent(svc service.Gradebook) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("creating a student")

		var student types.Student

		err := json.NewDecoder(r.Body).Decode(&student)
		if errors.Is(err, io.EOF) {
			// io.EOF means the body was completely empty.
			response.WriteJSON(w, http.StatusBadRequest,
				response.BadRequest(errors.New("request body is empty")))
			return
		}
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.BadRequest(err))
			return
		}

		// validate:"..." tags on types.Student: required names and a
		// well-formed email address.
		if err := validator.New().Struct(student); err != nil {
			validateErrs := err.(validator.ValidationErrors)
			response.WriteJSON(w, http.StatusBadRequest,
				response.ValidationError(validateErrs))
			return
		}

		views, err := svc.CreateStudent(student.Firstname, student.Lastname, student.EmailAddress)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		slog.Info("student created", slog.String("email", student.EmailAddress))
		response.WriteJSON(w, http.StatusOK, views)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// DeleteStudent handles DELETE /student/{id}
// Removes a student and all of its grades, across every subject.
//
// Success response (200 OK): the post-delete JSON array of StudentView.
//
// Error responses:
//
//	400 Bad Request  — id is not a valid integer
//	404 Not Found    — no student with that id
//
// ─────────────────────────────────────────────────────────────────────────────
func DeleteStudent(svc service.Gradebook) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		slog.Info("deleting a student", slog.String("id", id))

		intID, err := strconv.ParseInt(id, 10, 64)
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest,
				response.BadRequest(errors.New("invalid id: must be an integer")))
			return
		}

		views, err := svc.DeleteStudent(intID)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		slog.Info("student deleted", slog.String("id", id))
		response.WriteJSON(w, http.StatusOK, views)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// StudentInformation handles GET /studentInformation/{id}
// Returns one student's attributes plus the three grade lists.
//
// Success response (200 OK):
//
//	{ "id": 1, "firstname": "Eric", "lastname": "Roby",
//	  "emailAddress": "eric.roby@luv2code_school.com",
//	  "studentGrades": { "mathGradeResults": [...], ... } }
//
// Error responses:
//
//	400 Bad Request  — id is not a valid integer
//	404 Not Found    — no student with that id
//
// ─────────────────────────────────────────────────────────────────────────────
func StudentInformation(svc service.Gradebook) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		slog.Info("getting student information", slog.String("id", id))

		intID, err := strconv.ParseInt(id, 10, 64)
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest,
				response.BadRequest(errors.New("invalid id: must be an integer")))
			return
		}

		view, err := svc.StudentInformation(intID)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		response.WriteJSON(w, http.StatusOK, view)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// CreateGrade handles POST /grades
// Records a score for a student and returns the owner's refreshed view.
//
// Binding note: the parameters arrive in the query/form facet of the
// request (grade, gradeType, studentId), NOT in a JSON body, even when
// the Content-Type says application/json. r.FormValue reads both the
// URL query and any urlencoded body, so both call styles work.
//
// Error responses:
//
//	400 Bad Request  — grade/studentId not numeric, or grade out of 0–100
//	404 Not Found    — student absent, or gradeType not math/science/history
//
// ─────────────────────────────────────────────────────────────────────────────
func CreateGrade(svc service.Gradebook) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("creating a grade",
			slog.String("gradeType", r.FormValue("gradeType")),
			slog.String("studentId", r.FormValue("studentId")),
		)

		grade, err := strconv.ParseFloat(r.FormValue("grade"), 64)
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest,
				response.BadRequest(errors.New("invalid grade: must be a number")))
			return
		}

		studentID, err := strconv.ParseInt(r.FormValue("studentId"), 10, 64)
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest,
				response.BadRequest(errors.New("invalid studentId: must be an integer")))
			return
		}

		payload := types.NewGrade{
			Grade:     grade,
			GradeType: r.FormValue("gradeType"),
			StudentID: studentID,
		}

		if err := validator.New().Struct(payload); err != nil {
			validateErrs := err.(validator.ValidationErrors)
			response.WriteJSON(w, http.StatusBadRequest,
				response.ValidationError(validateErrs))
			return
		}

		view, err := svc.CreateGrade(payload.Grade, payload.GradeType, payload.StudentID)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		slog.Info("grade created", slog.Int64("studentId", studentID))
		response.WriteJSON(w, http.StatusOK, view)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// DeleteGrade handles DELETE /grades/{id}/{gradeType}
// Removes one grade and returns the owner's refreshed view.
//
// Error responses:
//
//	400 Bad Request  — id is not a valid integer
//	404 Not Found    — gradeType unknown, grade absent in that subject,
//	                   or owning student absent
//
// ─────────────────────────────────────────────────────────────────────────────
func DeleteGrade(svc service.Gradebook) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		gradeType := r.PathValue("gradeType")
		slog.Info("deleting a grade",
			slog.String("id", id),
			slog.String("gradeType", gradeType),
		)

		intID, err := strconv.ParseInt(id, 10, 64)
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest,
				response.BadRequest(errors.New("invalid id: must be an integer")))
			return
		}

		view, err := svc.DeleteGrade(intID, gradeType)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		slog.Info("grade deleted", slog.String("id", id), slog.String("gradeType", gradeType))
		response.WriteJSON(w, http.StatusOK, view)
	}
}

// writeServiceError converts a domain error into the wire envelope:
// the uniform 404 for every not-found cause, 500 for store faults.
func writeServiceError(w http.ResponseWriter, err error) {
	if errors.Is(err, service.ErrNotFound) {
		response.WriteJSON(w, http.StatusNotFound, response.NotFound())
		return
	}

	slog.Error("service failure", slog.String("error", err.Error()))
	response.WriteJSON(w, http.StatusInternalServerError, response.Internal(err))
}
