package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/templui/datanexus/internal/apperr"
	"github.com/templui/datanexus/internal/flatfile"
	"github.com/templui/datanexus/internal/model"
	"github.com/templui/datanexus/internal/validation"
)

// InquiryRequest is the public event form payload. RelationshipInterest
// and ApplicationsSubmitted accept any JSON value.
type InquiryRequest struct {
	FirstName             string `json:"firstName" validate:"required"`
	LastName              string `json:"lastName" validate:"required"`
	Email                 string `json:"email" validate:"required"`
	Phone                 string `json:"phone"`
	AudienceType          string `json:"audienceType" validate:"required"`
	CompanyName           string `json:"companyName"`
	StudentID             string `json:"studentId"`
	CurrentCompany        string `json:"currentCompany"`
	RelationshipInterest  any    `json:"relationshipInterest"`
	ApplicationsSubmitted any    `json:"applicationsSubmitted"`
	UpcomingEventID       string `json:"upcomingEventId"`
	Notes                 string `json:"notes"`
}

type InquiryService struct {
	store        flatfile.Store
	path         string
	emailService *EmailService
	notifyEmail  string
	now          func() time.Time
}

func NewInquiryService(store flatfile.Store, path string, emailService *EmailService, notifyEmail string) *InquiryService {
	return &InquiryService{
		store:        store,
		path:         path,
		emailService: emailService,
		notifyEmail:  notifyEmail,
		now:          time.Now,
	}
}

// Submit appends one inquiry to the inquiries file.
func (s *InquiryService) Submit(ctx context.Context, req *InquiryRequest) (*model.Inquiry, error) {
	err := validation.Struct(req)
	if err != nil {
		return nil, apperr.Validation("firstName, lastName, email and audienceType are required.")
	}

	inquiry := &model.Inquiry{
		SubmittedAt:           s.now().UTC(),
		FirstName:             req.FirstName,
		LastName:              req.LastName,
		Email:                 req.Email,
		Phone:                 req.Phone,
		AudienceType:          req.AudienceType,
		RelationshipInterest:  truthy(req.RelationshipInterest),
		ApplicationsSubmitted: toInt(req.ApplicationsSubmitted),
		UpcomingEventID:       req.UpcomingEventID,
		Notes:                 req.Notes,
	}

	// audience-specific fields are kept only for their audience
	switch req.AudienceType {
	case model.AudienceEmployer:
		inquiry.CompanyName = req.CompanyName
	case model.AudienceAlumni:
		inquiry.StudentID = req.StudentID
		inquiry.CurrentCompany = req.CurrentCompany
	}

	err = flatfile.Append(s.store, s.path, model.InquiryColumns, inquiry.Row())
	if err != nil {
		return nil, fmt.Errorf("failed to store inquiry: %w", err)
	}

	slog.Info("inquiry stored", "audience", inquiry.AudienceType)

	if s.notifyEmail != "" && s.emailService != nil {
		err = s.emailService.SendInquiryNotification(ctx, s.notifyEmail, inquiry)
		if err != nil {
			slog.Warn("failed to send inquiry notification", "error", err)
		}
	}

	return inquiry, nil
}

// truthy follows the loose truthiness of form payloads: false, 0, "",
// null and NaN are false, everything else is true.
func truthy(v any) bool {
	switch value := v.(type) {
	case nil:
		return false
	case bool:
		return value
	case string:
		return value != ""
	case float64:
		return value != 0 && !math.IsNaN(value)
	case json.Number:
		f, err := value.Float64()
		return err == nil && f != 0
	default:
		return true
	}
}

// toInt converts a count to an integer. Values that are not numeric
// become 0; fractions are truncated.
func toInt(v any) int {
	var f float64
	switch value := v.(type) {
	case bool:
		if value {
			return 1
		}
		return 0
	case float64:
		f = value
	case json.Number:
		parsed, err := value.Float64()
		if err != nil {
			return 0
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return 0
		}
		f = parsed
	default:
		return 0
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return int(f)
}
