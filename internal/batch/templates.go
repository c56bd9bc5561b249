package batch

var ticketTemplates = []TicketTemplate{
	{
		Title:       "Critical security vulnerability in authentication",
		Description: "SQL injection vulnerability found in login endpoint. Allows unauthorized access to user accounts. Immediate fix required. CVE-2024-12345 reported.",
		Severity:    SeverityCritical,
	},
	{
		Title:       "Application crashes on large file upload",
		Description: "System runs out of memory when uploading files larger than 100MB. OutOfMemoryError in file processor. Affects production users.",
		Severity:    SeverityHigh,
	},
	{
		Title:       "Performance degradation during peak hours",
		Description: "API response time increases from 200ms to 5000ms during peak traffic. Database connection pool exhaustion suspected.",
		Severity:    SeverityMedium,
	},
	{
		Title:       "Minor UI alignment issue on mobile",
		Description: "Submit button slightly misaligned on mobile devices. Cosmetic issue that doesn't affect functionality.",
		Severity:    SeverityLow,
	},
	{
		Title:       "Data corruption in export functionality",
		Description: "CSV export produces corrupted files with missing columns. Data loss risk for users. Regression from recent deployment.",
		Severity:    SeverityCritical,
	},
	{
		Title:       "Typo in help documentation",
		Description: "Found spelling mistake in help section. Says 'Copywrite' instead of 'Copyright'. Low priority fix.",
		Severity:    SeverityLow,
	},
	{
		Title:       "Neeed more help",
		Description: "Irgendwie geht hier gar nichts, weiss echt nicht mehr weiter",
		Severity:    SeverityHigh,
	},
}

// Templates returns a copy of the fixed ticket templates, in cycling order.
func Templates() []TicketTemplate {
	out := make([]TicketTemplate, len(ticketTemplates))
	copy(out, ticketTemplates)
	return out
}
