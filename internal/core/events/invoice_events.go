package events

const (
	EventInvoiceSent     = "invoice.sent"
	EventInvoiceReminder = "invoice.reminder"
)

// NewInvoiceSentEvent is published when an invoice transitions to sent.
func NewInvoiceSentEvent(workspaceID, invoiceID int64, number string) BaseEvent {
	return New(EventInvoiceSent, map[string]interface{}{
		"workspace_id": workspaceID,
		"invoice_id":   invoiceID,
		"number":       number,
	})
}

// NewInvoiceReminderEvent is published by the reminder worker for an invoice that is
// due and unpaid.
func NewInvoiceReminderEvent(workspaceID, invoiceID int64, number string, dueAt string) BaseEvent {
	return New(EventInvoiceReminder, map[string]interface{}{
		"workspace_id": workspaceID,
		"invoice_id":   invoiceID,
		"number":       number,
		"due_at":       dueAt,
	})
}
