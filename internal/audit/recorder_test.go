package audit

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/fentz26/taskkeep/internal/models"
	"github.com/fentz26/taskkeep/internal/store"
	"github.com/sirupsen/logrus"
)

type failingSink struct{}

func (failingSink) WriteAudit(models.AuditEntry) (*models.AuditEntry, error) {
	return nil, errors.New("disk full")
}

func TestRecord(t *testing.T) {
	m := store.NewMemory()
	r := NewRecorder(m, logrus.New())

	inputs := map[string]any{"title": "Ship release"}
	entry := r.Record(ActionCreate, inputs, OutcomeSuccess, "t1", "")
	if entry == nil {
		t.Fatal("expected entry")
	}
	if entry.InputsHash != hashInputs(inputs) {
		t.Errorf("unexpected hash %s", entry.InputsHash)
	}
	if len(entry.InputsHash) != 64 {
		t.Errorf("expected hex sha256, got %q", entry.InputsHash)
	}

	entries, _ := m.ListAudit("t1")
	if len(entries) != 1 || entries[0].Action != ActionCreate {
		t.Errorf("unexpected entries %+v", entries)
	}
}

func TestHashInputsDeterministic(t *testing.T) {
	a := hashInputs(map[string]any{"b": 2, "a": 1})
	b := hashInputs(map[string]any{"a": 1, "b": 2})
	if a != b {
		t.Errorf("expected equal hashes for equal inputs, got %s and %s", a, b)
	}
	if hashInputs(func() {}) != "hash_error" {
		t.Error("expected hash_error for unmarshalable input")
	}
}

func TestRecordSinkFailureIsLogged(t *testing.T) {
	var buf bytes.Buffer
	log := logrus.New()
	log.SetOutput(&buf)

	r := NewRecorder(failingSink{}, log)
	if entry := r.Record(ActionDelete, nil, OutcomeSuccess, "t1", ""); entry != nil {
		t.Errorf("expected nil entry on failure, got %+v", entry)
	}
	if !strings.Contains(buf.String(), "failed to write audit entry") {
		t.Errorf("expected warning in log, got %q", buf.String())
	}
}
