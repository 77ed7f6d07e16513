package service

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/templui/datanexus/internal/catalog"
	"github.com/templui/datanexus/internal/model"
)

var fixtureTables = map[string]string{
	"Dim_Students.csv": `student_key,first_name,last_name,program_name,graduation_year
S1,Ada,Lovelace,MS Data Analytics,2021
S2,Grace,Hopper,MS Data Analytics,2022
S3,Alan,Turing,BS Computer Science,2020
S4,Katherine,Johnson,MS Information Systems,2023
`,
	"dim_employers.csv": `employer_key,employer_name,sector,hq_city,hq_state
E1,McKinsey & Company,Consulting,San Francisco,California
E2,Amazon,Technology,Seattle,Washington
E3,Initech,Technology,Austin,Texas
`,
	"dim_contact.csv": `contact_key,employer_key,contact_name
C1,E1,Pat Lee
`,
	"dim_event.csv": `event_key,event_name
EV1,Career Fair
`,
	"dim_date.csv": `date_key,full_date
20240101,2024-01-01
`,
	"fact_alumni_engagement.csv": `fact_id,student_key,employer_key,job_role,engagement_score
F1,S1,E1,Full Stack Developer,3
F2,S3,E1,Full Stack Engineer,1
F3,S2,E2,Data Engineer,4
F4,S3,E2,Cloud Engineer,2
F5,S2,E2,Analyst,1
F6,S4,E3,Analyst,n/a
`,
}

// newFixtureCatalog writes the dashboard tables into a temp data root.
func newFixtureCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()

	root := t.TempDir()
	for name, content := range fixtureTables {
		err := os.WriteFile(filepath.Join(root, name), []byte(content), 0644)
		require.NoError(t, err)
	}

	c := catalog.Default(root)
	require.NoError(t, c.EnsureImageDirs())
	return c
}

type memoryAuditRepository struct {
	mu      sync.Mutex
	entries []*model.AuditEntry
}

func (r *memoryAuditRepository) Create(entry *model.AuditEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entry)
	return nil
}

func (r *memoryAuditRepository) Recent(limit int) ([]*model.AuditEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*model.AuditEntry, 0, len(r.entries))
	for i := len(r.entries) - 1; i >= 0; i-- {
		out = append(out, r.entries[i])
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *memoryAuditRepository) actions() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []string
	for _, e := range r.entries {
		out = append(out, e.Action+":"+e.Target+":"+e.Key)
	}
	return out
}

type memoryStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newMemoryStorage() *memoryStorage {
	return &memoryStorage{objects: make(map[string][]byte)}
}

func (s *memoryStorage) Save(_ context.Context, key string, r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = data
	return nil
}

func (s *memoryStorage) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	return nil
}
