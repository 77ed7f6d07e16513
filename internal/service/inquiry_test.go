package service

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/templui/datanexus/internal/apperr"
	"github.com/templui/datanexus/internal/flatfile"
	"github.com/templui/datanexus/internal/model"
)

func newInquiryService(t *testing.T) (*InquiryService, flatfile.Store, string) {
	t.Helper()
	store := flatfile.NewFileStore()
	path := filepath.Join(t.TempDir(), "data", "event_inquiries.csv")
	svc := NewInquiryService(store, path, NewEmailService("", "noreply@example.com", "DataNexus", true), "events@example.com")
	svc.now = func() time.Time { return time.Date(2024, 5, 1, 9, 30, 0, 123000000, time.UTC) }
	return svc, store, path
}

func TestSubmitEmployerInquiry(t *testing.T) {
	svc, store, path := newInquiryService(t)

	_, err := svc.Submit(context.Background(), &InquiryRequest{
		FirstName:      "Alex",
		LastName:       "Morgan",
		Email:          "alex@acme.test",
		AudienceType:   "employer",
		CompanyName:    "Acme",
		StudentID:      "123",
		CurrentCompany: "Other",
	})
	require.NoError(t, err)

	table, err := store.Load(path)
	require.NoError(t, err)
	assert.Equal(t, model.InquiryColumns, table.Columns)
	require.Len(t, table.Rows, 1)

	row := table.Rows[0]
	assert.Equal(t, "2024-05-01T09:30:00.123Z", row["submittedAt"])
	assert.Equal(t, "Acme", row["companyName"])
	assert.Equal(t, "", row["studentId"])
	assert.Equal(t, "", row["currentCompany"])
	assert.Equal(t, "No", row["relationshipInterest"])
	assert.Equal(t, "0", row["applicationsSubmitted"])
}

func TestSubmitAlumniInquiry(t *testing.T) {
	svc, store, path := newInquiryService(t)

	var req InquiryRequest
	require.NoError(t, json.Unmarshal([]byte(`{
		"firstName": "Sam", "lastName": "Rivera", "email": "sam@example.com",
		"audienceType": "alumni", "companyName": "Ignored", "studentId": "S-9",
		"currentCompany": "Globex", "relationshipInterest": "yes",
		"applicationsSubmitted": "3", "notes": "Looking forward, really"
	}`), &req))

	for i := 0; i < 2; i++ {
		_, err := svc.Submit(context.Background(), &req)
		require.NoError(t, err)
	}

	table, err := store.Load(path)
	require.NoError(t, err)
	require.Len(t, table.Rows, 2)

	row := table.Rows[1]
	assert.Equal(t, "", row["companyName"])
	assert.Equal(t, "S-9", row["studentId"])
	assert.Equal(t, "Globex", row["currentCompany"])
	assert.Equal(t, "Yes", row["relationshipInterest"])
	assert.Equal(t, "3", row["applicationsSubmitted"])
	assert.Equal(t, "Looking forward, really", row["notes"])
}

func TestSubmitRequiresFields(t *testing.T) {
	svc, store, path := newInquiryService(t)

	_, err := svc.Submit(context.Background(), &InquiryRequest{FirstName: "Alex", LastName: "Morgan", AudienceType: "employer"})
	assert.ErrorIs(t, err, apperr.ErrValidation)
	assert.Equal(t, "firstName, lastName, email and audienceType are required.", err.Error())
	assert.False(t, store.Exists(path))
}

func TestTruthyAndToInt(t *testing.T) {
	assert.False(t, truthy(nil))
	assert.False(t, truthy(false))
	assert.False(t, truthy(""))
	assert.False(t, truthy(float64(0)))
	assert.True(t, truthy("no"))
	assert.True(t, truthy(true))
	assert.True(t, truthy(float64(2)))
	assert.True(t, truthy(map[string]any{}))

	assert.Equal(t, 0, toInt(nil))
	assert.Equal(t, 0, toInt("many"))
	assert.Equal(t, 0, toInt(""))
	assert.Equal(t, 4, toInt(" 4 "))
	assert.Equal(t, 2, toInt(float64(2.9)))
	assert.Equal(t, 7, toInt(json.Number("7")))
	assert.Equal(t, 1, toInt(true))
}
