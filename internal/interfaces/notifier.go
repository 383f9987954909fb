package interfaces

import (
	"context"

	"github.com/ternarybob/vigia/internal/models"
)

// AlertNotifier delivers an alert payload to the external notification
// collaborator. Delivery is best-effort: the alert event is already
// persisted and authoritative before Notify is called, and failures are
// swallowed after one attempt.
type AlertNotifier interface {
	Notify(ctx context.Context, payload *models.NotificationPayload) error
}
