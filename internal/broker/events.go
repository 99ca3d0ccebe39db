package broker

// MessageTypeConfirmationEmail is the only notification kind today.
const MessageTypeConfirmationEmail = "CONFIRMATION_EMAIL"

// NotificationMessage is the wire contract between the purchase pipeline and
// the notification worker. Ownership of the message transfers through the
// queue; nothing is persisted beyond it.
type NotificationMessage struct {
	OrderID string `json:"order_id"`
	Email   string `json:"email"`
	EventID string `json:"event_id"`
	Artist  string `json:"artist,omitempty"`
	Type    string `json:"type"`
}
