package handler

import (
	"errors"

	"github.com/authapp/portal/internal/core/domain"
)

const msgPending = "A request is already in progress"

// notifyFailure queues the notification for a failed submission: the
// Account Service's own message when it sent one, fallback otherwise.
func notifyFailure(sess *domain.BrowserSession, err error, fallback string) {
	if errors.Is(err, domain.ErrSubmissionPending) {
		sess.Notify(domain.Info(msgPending))
		return
	}
	sess.Notify(domain.Failure(domain.UserMessage(err, fallback)))
}
