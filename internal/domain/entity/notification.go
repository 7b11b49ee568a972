package entity

// NotificationPayload is built, published and discarded once per run. Text
// reports fill Description, chart reports fill Image.
type NotificationPayload struct {
	Title       string `json:"title"`
	Subject     string `json:"subject,omitempty"`
	Description string `json:"description,omitempty"`
	Image       []byte `json:"-"`
	ContentType string `json:"content_type,omitempty"`
}

// HasImage reports whether the payload carries a chart.
func (p NotificationPayload) HasImage() bool {
	return len(p.Image) > 0
}

// DeliveryResult describes an accepted publish call.
type DeliveryResult struct {
	MessageID string `json:"message_id"`
	TopicARN  string `json:"topic_arn"`
	Bytes     int    `json:"bytes"`
}

// Digest groups everything a text report was built from, for local export.
type Digest struct {
	AccountID string              `json:"account_id,omitempty"`
	Range     DateRange           `json:"range"`
	Periods   []PeriodCosts       `json:"periods"`
	Breakdown FormattedBreakdown  `json:"breakdown"`
	Budgets   []BudgetInfo        `json:"budgets,omitempty"`
	Payload   NotificationPayload `json:"payload"`
}
