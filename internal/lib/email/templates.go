package email

// Template names an embedded template under templates/.
type Template string

const (
	TemplatePaymentNotification Template = "payment_notification"
)
