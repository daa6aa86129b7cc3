package service

import (
	"time"

	"github.com/authapp/portal/internal/core/domain"
	"github.com/authapp/portal/internal/core/ports"
)

// auditor stamps and forwards audit events; a nil sink discards them.
type auditor struct {
	sink ports.AuditSink
	now  func() time.Time
}

func newAuditor(sink ports.AuditSink) auditor {
	return auditor{sink: sink, now: time.Now}
}

func (a auditor) record(ev domain.AuditEvent, err error) {
	if a.sink == nil {
		return
	}
	ev.At = a.now().UTC()
	ev.Succeeded = err == nil
	if err != nil {
		ev.Detail = err.Error()
	}
	a.sink.Record(ev)
}
