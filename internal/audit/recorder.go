// Package audit records decisions taken on mutating task and user requests.
package audit

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/fentz26/taskkeep/internal/models"
	"github.com/sirupsen/logrus"
)

// Outcomes recorded on entries.
const (
	OutcomeSuccess  = "success"
	OutcomeRejected = "rejected"
)

// Actions recorded on entries.
const (
	ActionCreate = "task.create"
	ActionUpdate = "task.update"
	ActionDelete = "task.delete"
	ActionReopen = "task.reopen"

	ActionUserCreate = "user.create"
	ActionUserUpdate = "user.update"
	ActionUserDelete = "user.delete"
)

// Sink persists audit entries.
type Sink interface {
	WriteAudit(entry models.AuditEntry) (*models.AuditEntry, error)
}

// Recorder writes decision records for audit trails. A failed write is
// logged and never fails the request being audited.
type Recorder struct {
	sink Sink
	log  logrus.FieldLogger
}

// NewRecorder creates a new recorder writing to sink.
func NewRecorder(sink Sink, log logrus.FieldLogger) *Recorder {
	return &Recorder{sink: sink, log: log.WithField("component", "audit")}
}

// Record writes an entry for a state-mutating action. subjectID is the id of
// the task or user the action concerns, empty when none was assigned.
func (r *Recorder) Record(action string, inputs any, outcome, subjectID, details string) *models.AuditEntry {
	entry, err := r.sink.WriteAudit(models.AuditEntry{
		Action:     action,
		InputsHash: hashInputs(inputs),
		Outcome:    outcome,
		TaskID:     subjectID,
		Details:    details,
	})
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"action":     action,
			"subject_id": subjectID,
		}).WithError(err).Warn("failed to write audit entry")
		return nil
	}
	return entry
}

// hashInputs creates a SHA256 hash of the inputs for reproducibility.
func hashInputs(inputs any) string {
	data, err := json.Marshal(inputs)
	if err != nil {
		return "hash_error"
	}
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
