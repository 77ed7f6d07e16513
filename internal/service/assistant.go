package service

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/templui/datanexus/internal/apperr"
	"github.com/templui/datanexus/internal/catalog"
	"github.com/templui/datanexus/internal/flatfile"
	"github.com/templui/datanexus/internal/model"
	"github.com/templui/datanexus/internal/validation"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	assistantFallback = "I'm still learning that query. Try asking about alumni counts, employer trends, or predictive outlook data—or email insights@datanexus.ai for a detailed report."

	adminSampleSize = 5
	guestSampleSize = 3
)

var assistantRoles = map[string]bool{
	model.RoleAdmin:        true,
	model.AudienceAlumni:   true,
	model.AudienceEmployer: true,
}

type AssistantRequest struct {
	Question string `json:"question" validate:"required"`
	Role     string `json:"role" validate:"required"`
}

// assistantRule answers a question when match accepts its lower-cased text.
type assistantRule struct {
	name    string
	match   func(question string) bool
	respond func(s *AssistantService, role string) (string, error)
}

var assistantRules = []assistantRule{
	{
		name: "role_location_employer",
		match: func(q string) bool {
			return strings.Contains(q, "full stack") && strings.Contains(q, "california") && strings.Contains(q, "mckinsey")
		},
		respond: func(s *AssistantService, role string) (string, error) {
			return s.roleLocationEmployer("Full Stack", "California", "McKinsey", role)
		},
	},
	{
		name: "program_stats",
		match: func(q string) bool {
			return strings.Contains(q, "data analytics") && strings.Contains(q, "alumni")
		},
		respond: func(s *AssistantService, role string) (string, error) {
			return s.programStats("Data Analytics", role)
		},
	},
	{
		name: "employer_pattern",
		match: func(q string) bool {
			return strings.Contains(q, "predict") && strings.Contains(q, "amazon")
		},
		respond: func(s *AssistantService, role string) (string, error) {
			return s.employerPattern(role)
		},
	},
}

// AssistantService answers a fixed set of questions from the dashboard
// tables. Tables are read fresh for every query.
type AssistantService struct {
	catalog *catalog.Catalog
	store   flatfile.Store
}

func NewAssistantService(catalog *catalog.Catalog, store flatfile.Store) *AssistantService {
	return &AssistantService{
		catalog: catalog,
		store:   store,
	}
}

func (s *AssistantService) Query(req *AssistantRequest) (string, error) {
	err := validation.Struct(req)
	if err != nil {
		return "", apperr.Validation("Question and role are required.")
	}
	if !assistantRoles[req.Role] {
		return "", apperr.Forbidden("Role not permitted for assistant access.")
	}

	question := strings.ToLower(req.Question)
	for _, rule := range assistantRules {
		if rule.match(question) {
			message, err := rule.respond(s, req.Role)
			if err != nil {
				return "", fmt.Errorf("assistant rule %s: %w", rule.name, err)
			}
			return message, nil
		}
	}
	return assistantFallback, nil
}

// table loads a catalog table with surrounding quotes stripped from every
// header and cell.
func (s *AssistantService) table(id string) ([]model.Row, error) {
	descriptor, ok := s.catalog.Table(id)
	if !ok {
		return nil, fmt.Errorf("assistant table %s not found", id)
	}
	if !s.store.Exists(descriptor.Path) {
		return nil, fmt.Errorf("assistant table %s: source file %s does not exist", id, descriptor.Path)
	}

	data, err := s.store.Load(descriptor.Path)
	if err != nil {
		return nil, err
	}

	rows := make([]model.Row, 0, len(data.Rows))
	for _, row := range data.Rows {
		clean := make(model.Row, len(row))
		for k, v := range row {
			clean[stripQuotes(k)] = stripQuotes(v)
		}
		rows = append(rows, clean)
	}
	return rows, nil
}

func (s *AssistantService) tables(ids ...string) ([][]model.Row, error) {
	out := make([][]model.Row, 0, len(ids))
	for _, id := range ids {
		rows, err := s.table(id)
		if err != nil {
			return nil, err
		}
		out = append(out, rows)
	}
	return out, nil
}

func (s *AssistantService) programStats(program, role string) (string, error) {
	loaded, err := s.tables("students", "alumniEngagement")
	if err != nil {
		return "", err
	}
	students, engagements := loaded[0], loaded[1]

	term := strings.ToLower(program)
	var matched []model.Row
	matchedKeys := make(map[string]bool)
	for _, student := range students {
		if strings.Contains(strings.ToLower(student["program_name"]), term) {
			matched = append(matched, student)
			matchedKeys[student["student_key"]] = true
		}
	}

	engaged := make(map[string]bool)
	for _, row := range engagements {
		key := row["student_key"]
		if matchedKeys[key] && score(row["engagement_score"]) > 0 {
			engaged[key] = true
		}
	}

	if len(matched) == 0 {
		return fmt.Sprintf("I couldn't find alumni records for %s. Try another program or check the latest roster upload.", program), nil
	}

	base := fmt.Sprintf("We track %d alumni in %s with %d showing active engagement recently.",
		len(matched), titleCase(program), len(engaged))

	if role != model.RoleAdmin {
		return base + "\nAsk an administrator for named lists if you need direct outreach.", nil
	}

	sample := make([]string, 0, adminSampleSize)
	for _, student := range matched[:min(adminSampleSize, len(matched))] {
		sample = append(sample, fmt.Sprintf("%s %s (%s)", student["first_name"], student["last_name"], student["graduation_year"]))
	}
	return fmt.Sprintf("%s\nSample alumni: %s.", base, strings.Join(sample, ", ")), nil
}

func (s *AssistantService) roleLocationEmployer(job, location, employer, role string) (string, error) {
	loaded, err := s.tables("alumniEngagement", "students", "employers")
	if err != nil {
		return "", err
	}
	engagements, students, employers := loaded[0], loaded[1], loaded[2]

	employersByKey := indexBy(employers, "employer_key")
	studentsByKey := indexBy(students, "student_key")

	jobLower := strings.ToLower(job)
	locationLower := strings.ToLower(location)
	employerLower := strings.ToLower(employer)

	var entries []model.Row
	matches := 0
	for _, engagement := range engagements {
		emp, ok := employersByKey[engagement["employer_key"]]
		if !ok {
			continue
		}
		if !strings.Contains(strings.ToLower(engagement["job_role"]), jobLower) ||
			!strings.Contains(strings.ToLower(emp["employer_name"]), employerLower) {
			continue
		}
		if !strings.Contains(strings.ToLower(emp["hq_state"]), locationLower) &&
			!strings.Contains(strings.ToLower(emp["hq_city"]), locationLower) {
			continue
		}

		matches++
		if student, ok := studentsByKey[engagement["student_key"]]; ok {
			entries = append(entries, student)
		}
	}

	if matches == 0 {
		return fmt.Sprintf("No alumni matched %s at %s in %s. Try broadening the role or location filters.", job, employer, location), nil
	}

	if role != model.RoleAdmin {
		return fmt.Sprintf("Found %d alumni matching %s at %s in %s. Contact an administrator for individual details.",
			len(entries), job, employer, location), nil
	}

	lines := make([]string, 0, adminSampleSize)
	for _, student := range entries[:min(adminSampleSize, len(entries))] {
		lines = append(lines, fmt.Sprintf("%s %s (%s, %s)",
			student["first_name"], student["last_name"], student["graduation_year"], student["program_name"]))
	}
	return fmt.Sprintf("Found %d alumni in %s at %s.\n• %s",
		len(entries), titleCase(location), employer, strings.Join(lines, "\n• ")), nil
}

func (s *AssistantService) employerPattern(role string) (string, error) {
	loaded, err := s.tables("employers", "alumniEngagement", "students")
	if err != nil {
		return "", err
	}
	employers, engagements, students := loaded[0], loaded[1], loaded[2]

	studentsByKey := indexBy(students, "student_key")

	// Amazon itself when present, otherwise the technology sector
	targets := make(map[string]bool)
	for _, emp := range employers {
		if strings.Contains(strings.ToLower(emp["employer_name"]), "amazon") {
			targets[emp["employer_key"]] = true
		}
	}
	if len(targets) == 0 {
		for _, emp := range employers {
			if strings.Contains(strings.ToLower(emp["sector"]), "technology") {
				targets[emp["employer_key"]] = true
			}
		}
	}

	scores := make(map[string]float64)
	var order []string
	for _, engagement := range engagements {
		key := engagement["student_key"]
		if !targets[engagement["employer_key"]] {
			continue
		}
		if _, seen := scores[key]; !seen {
			order = append(order, key)
		}
		scores[key] += score(engagement["engagement_score"])
	}

	if len(order) == 0 {
		return "No matching hiring pattern found for Amazon. Train the model with the latest employer engagement data or upload Amazon-specific cohorts.", nil
	}

	sort.SliceStable(order, func(i, j int) bool {
		return scores[order[i]] > scores[order[j]]
	})

	limit := guestSampleSize
	if role == model.RoleAdmin {
		limit = adminSampleSize
	}

	var lines []string
	for _, key := range order[:min(limit, len(order))] {
		student, ok := studentsByKey[key]
		if !ok {
			continue
		}
		confidence := math.Min(0.95, 0.7+scores[key]/20)
		lines = append(lines, fmt.Sprintf("%s %s – %s (%s) • %.0f%% alignment",
			student["first_name"], student["last_name"], student["program_name"], student["graduation_year"],
			math.Round(confidence*100)))
	}

	if len(lines) == 0 {
		return "No students matched the Amazon hiring pattern. Encourage cloud-focused cohorts to boost alignment.", nil
	}

	return fmt.Sprintf("Based on recent tech-sector hires, these students align with Amazon's pattern:\n%s\n\nRecommendation: invite them to the Amazon interview prep track and emphasize AWS/data engineering skills.",
		strings.Join(lines, "\n")), nil
}

// indexBy maps each row by the value of column. Later rows win.
func indexBy(rows []model.Row, column string) map[string]model.Row {
	out := make(map[string]model.Row, len(rows))
	for _, row := range rows {
		out[row[column]] = row
	}
	return out
}

// score parses an engagement score. Blank or unparsable values count as 0.
func score(value string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || math.IsNaN(f) {
		return 0
	}
	return f
}

// titleCase upper-cases the first letter of each word and leaves the rest.
// A Caser keeps state, so one is built per call.
func titleCase(text string) string {
	return cases.Title(language.English, cases.NoLower).String(text)
}

func stripQuotes(value string) string {
	value = strings.TrimSpace(value)
	value = strings.TrimPrefix(value, `"`)
	return strings.TrimSuffix(value, `"`)
}
