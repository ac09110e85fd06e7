package events

// Topic constants for domain events emitted by the platform.
const (
	TopicOrderPlaced         = "order.placed"
	TopicOrderStatusChanged  = "order.status_changed"
	TopicOrderPaymentUpdated = "order.payment_updated"
)

// DefaultTopics returns the canonical list of topics that support notifications.
func DefaultTopics() []string {
	return []string{
		TopicOrderPlaced,
		TopicOrderStatusChanged,
		TopicOrderPaymentUpdated,
	}
}
