package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/fentz26/taskkeep/internal/lifecycle"
	"github.com/fentz26/taskkeep/internal/service"
	"github.com/fentz26/taskkeep/internal/validation"
	"github.com/sirupsen/logrus"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

// errBadBody is returned by decodeObject for payloads that are not a JSON object.
var errBadBody = errors.New("request body must be a JSON object")

type envelope map[string]any

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func timestamp() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

// writeSuccess writes {success:true, message?, timestamp, ...fields}.
func writeSuccess(w http.ResponseWriter, status int, message string, fields envelope) {
	body := envelope{"success": true, "timestamp": timestamp()}
	if message != "" {
		body["message"] = message
	}
	for k, v := range fields {
		body[k] = v
	}
	writeJSON(w, status, body)
}

// writeError writes {success:false, message, timestamp, ...fields}.
func writeError(w http.ResponseWriter, status int, message string, fields envelope) {
	body := envelope{"success": false, "message": message, "timestamp": timestamp()}
	for k, v := range fields {
		body[k] = v
	}
	writeJSON(w, status, body)
}

// decodeObject reads a JSON object body. An empty body decodes to an empty map.
func decodeObject(w http.ResponseWriter, r *http.Request) (map[string]any, error) {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	var raw any
	if err := dec.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return map[string]any{}, nil
		}
		return nil, err
	}
	if dec.More() {
		return nil, errBadBody
	}
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, errBadBody
	}
	return obj, nil
}

func writeBadBody(w http.ResponseWriter, err error) {
	msg := "Invalid JSON in request body"
	if errors.Is(err, errBadBody) {
		msg = "Request body must be a JSON object"
	}
	writeError(w, http.StatusBadRequest, msg, nil)
}

// resource names the record type a handler works on, for messages.
type resource struct {
	name  string // "Task"
	id    string
	hints map[lifecycle.Operation]string
}

// handleError maps service errors onto HTTP responses.
func (s *Server) handleError(w http.ResponseWriter, r *http.Request, err error, res resource) {
	var verr *validation.Error
	var terr *lifecycle.TransitionError

	switch {
	case errors.As(err, &verr):
		writeError(w, http.StatusBadRequest, "Validation failed. Please check the errors below.", envelope{
			"errors":  verr.Fields,
			"details": verr.Details(),
		})
	case errors.Is(err, validation.ErrInvalidID):
		msg := "Invalid " + strings.ToLower(res.name) + " ID format. ID must be a valid UUID (e.g., 123e4567-e89b-12d3-a456-426614174000)"
		writeError(w, http.StatusBadRequest, "Validation failed. Please check the errors below.", envelope{
			"errors":  validation.FieldErrors{"id": msg},
			"details": []string{"id: " + msg},
		})
	case errors.Is(err, service.ErrNotFound):
		writeError(w, http.StatusNotFound, res.name+" not found with id: "+res.id, nil)
	case errors.Is(err, service.ErrDuplicate):
		msg := "User with this email already exists"
		if res.id != "" {
			msg = "Email already in use by another user"
		}
		writeError(w, http.StatusBadRequest, msg, nil)
	case errors.As(err, &terr) && errors.Is(err, lifecycle.ErrLocked):
		writeError(w, http.StatusForbidden, lockedMessage(terr.Op), envelope{"hint": res.hints[terr.Op]})
	case errors.As(err, &terr):
		writeError(w, http.StatusBadRequest, "Only completed tasks can be reopened.", envelope{"currentStatus": terr.From})
	default:
		s.log.WithFields(logrus.Fields{
			"method": r.Method,
			"path":   r.URL.Path,
		}).WithError(err).Error("request failed")
		writeError(w, http.StatusInternalServerError, "Internal server error", nil)
	}
}

func lockedMessage(op lifecycle.Operation) string {
	if op == lifecycle.OpDelete {
		return "Cannot delete a completed task. Completed tasks are archived and cannot be removed."
	}
	return "Cannot update a completed task. Completed tasks are locked and cannot be modified."
}
