package model

import (
	"strconv"
	"time"
)

const (
	AudienceEmployer = "employer"
	AudienceAlumni   = "alumni"
)

// TimeFormat renders timestamps the way the dashboards expect them
// (RFC 3339, millisecond precision, UTC).
const TimeFormat = "2006-01-02T15:04:05.000Z07:00"

// InquiryColumns is the header of the inquiries file, in order.
var InquiryColumns = []string{
	"submittedAt",
	"firstName",
	"lastName",
	"email",
	"phone",
	"audienceType",
	"companyName",
	"studentId",
	"currentCompany",
	"relationshipInterest",
	"applicationsSubmitted",
	"upcomingEventId",
	"notes",
}

type Inquiry struct {
	SubmittedAt           time.Time
	FirstName             string
	LastName              string
	Email                 string
	Phone                 string
	AudienceType          string
	CompanyName           string
	StudentID             string
	CurrentCompany        string
	RelationshipInterest  bool
	ApplicationsSubmitted int
	UpcomingEventID       string
	Notes                 string
}

// Row flattens the inquiry into its stored form.
func (i *Inquiry) Row() Row {
	interest := "No"
	if i.RelationshipInterest {
		interest = "Yes"
	}

	return Row{
		"submittedAt":           i.SubmittedAt.UTC().Format(TimeFormat),
		"firstName":             i.FirstName,
		"lastName":              i.LastName,
		"email":                 i.Email,
		"phone":                 i.Phone,
		"audienceType":          i.AudienceType,
		"companyName":           i.CompanyName,
		"studentId":             i.StudentID,
		"currentCompany":        i.CurrentCompany,
		"relationshipInterest":  interest,
		"applicationsSubmitted": strconv.Itoa(i.ApplicationsSubmitted),
		"upcomingEventId":       i.UpcomingEventID,
		"notes":                 i.Notes,
	}
}
