package email

// PreviewData holds sample values for rendering each template locally.
var PreviewData = map[Template]map[string]string{
	TemplatePaymentNotification: {
		"PaymentID": "3f9a2c1e-5b7d-4e8f-9a0b-1c2d3e4f5a6b",
		"SampleID":  "SMP-2024-0042",
		"Amount":    "1500.00",
		"Note":      "Paternity test, two participants",
		"CreatedBy": "user_2abcDEF",
		"CreatedAt": "Wed, 01 May 2024 10:00:00 UTC",
	},
}
