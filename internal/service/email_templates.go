package service

import (
	"fmt"
	"strings"

	"github.com/templui/datanexus/internal/model"
)

func inquiryNotificationEmailTemplate(inquiry *model.Inquiry, appName string) (string, string) {
	subject := fmt.Sprintf("New %s inquiry from %s %s", inquiry.AudienceType, inquiry.FirstName, inquiry.LastName)

	var details strings.Builder
	fmt.Fprintf(&details, "Name: %s %s\n", inquiry.FirstName, inquiry.LastName)
	fmt.Fprintf(&details, "Email: %s\n", inquiry.Email)
	if inquiry.Phone != "" {
		fmt.Fprintf(&details, "Phone: %s\n", inquiry.Phone)
	}
	fmt.Fprintf(&details, "Audience: %s\n", inquiry.AudienceType)
	if inquiry.CompanyName != "" {
		fmt.Fprintf(&details, "Company: %s\n", inquiry.CompanyName)
	}
	if inquiry.StudentID != "" {
		fmt.Fprintf(&details, "Student ID: %s\n", inquiry.StudentID)
	}
	if inquiry.CurrentCompany != "" {
		fmt.Fprintf(&details, "Current company: %s\n", inquiry.CurrentCompany)
	}
	if inquiry.UpcomingEventID != "" {
		fmt.Fprintf(&details, "Event: %s\n", inquiry.UpcomingEventID)
	}

	body := fmt.Sprintf(`A new event inquiry was submitted on %s.

%s
Notes:
%s

Best,
The %s Team`, inquiry.SubmittedAt.UTC().Format(model.TimeFormat), details.String(), inquiry.Notes, appName)

	return subject, body
}
