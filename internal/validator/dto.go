package validator

import (
	"strings"

	"github.com/folio-hub/portfolio-service/internal/models"
)

// RegisterRequest represents the registration form
type RegisterRequest struct {
	Username        string `form:"username" validate:"required,username"`
	Password        string `form:"password" validate:"required,min=6,bcryptlen"`
	ConfirmPassword string `form:"confirm_password" validate:"required,eqfield=Password"`
}

func (r *RegisterRequest) Normalize() {
	r.Username = strings.TrimSpace(r.Username)
}

// LoginRequest represents the login form
type LoginRequest struct {
	Username string `form:"username" validate:"required,max=64"`
	Password string `form:"password" validate:"required,max=128"`
}

func (r *LoginRequest) Normalize() {
	r.Username = strings.TrimSpace(r.Username)
}

// ProfileForm is the portfolio form shared by the user and admin editors.
// Experience and language rows arrive as parallel field arrays, one value per row.
type ProfileForm struct {
	FullName  string `form:"full_name" validate:"max=150"`
	BirthDate string `form:"birth_date" validate:"omitempty,datetime=2006-01-02"`
	Email     string `form:"email" validate:"omitempty,email,max=255"`
	Phone     string `form:"phone" validate:"max=50"`
	City      string `form:"city" validate:"max=100"`
	About     string `form:"about" validate:"max=5000"`

	Skills            string `form:"skills" validate:"max=2000"`
	JobPosition       string `form:"job_position" validate:"max=150"`
	SalaryExpectation string `form:"salary_expectation" validate:"max=100"`
	Education         string `form:"education" validate:"max=5000"`
	Courses           string `form:"courses" validate:"max=5000"`
	Certificates      string `form:"certificates" validate:"max=5000"`

	LinkedInURL string `form:"linkedin_url" validate:"omitempty,http_url,max=500"`
	GitHubURL   string `form:"github_url" validate:"omitempty,http_url,max=500"`
	Telegram    string `form:"telegram" validate:"max=100"`
	WebsiteURL  string `form:"website_url" validate:"omitempty,http_url,max=500"`

	ExperienceCompany          []string `form:"experience_company"`
	ExperiencePosition         []string `form:"experience_position"`
	ExperienceStartDate        []string `form:"experience_start_date"`
	ExperienceEndDate          []string `form:"experience_end_date"`
	ExperienceResponsibilities []string `form:"experience_responsibilities"`

	LanguageName  []string `form:"language_name"`
	LanguageLevel []string `form:"language_level"`
}

// ExperienceRow is one experience entry as submitted
type ExperienceRow struct {
	Company          string `form:"company" validate:"max=150"`
	Position         string `form:"position" validate:"max=150"`
	StartDate        string `form:"start_date" validate:"max=20"`
	EndDate          string `form:"end_date" validate:"max=20"`
	Responsibilities string `form:"responsibilities" validate:"max=5000"`
}

func (r ExperienceRow) empty() bool {
	return r.Company == "" && r.Position == "" && r.StartDate == "" && r.EndDate == "" && r.Responsibilities == ""
}

// LanguageRow is one language entry as submitted
type LanguageRow struct {
	Language string `form:"language" validate:"max=100"`
	Level    string `form:"level" validate:"max=50"`
}

// Normalize trims every scalar field.
func (f *ProfileForm) Normalize() {
	for _, s := range []*string{
		&f.FullName, &f.BirthDate, &f.Email, &f.Phone, &f.City, &f.About,
		&f.Skills, &f.JobPosition, &f.SalaryExpectation, &f.Education, &f.Courses, &f.Certificates,
		&f.LinkedInURL, &f.GitHubURL, &f.Telegram, &f.WebsiteURL,
	} {
		*s = strings.TrimSpace(*s)
	}
}

// ExperienceRows zips the parallel arrays and drops rows with every cell empty.
func (f *ProfileForm) ExperienceRows() []ExperienceRow {
	n := maxLen(f.ExperienceCompany, f.ExperiencePosition, f.ExperienceStartDate, f.ExperienceEndDate, f.ExperienceResponsibilities)
	rows := make([]ExperienceRow, 0, n)
	for i := 0; i < n; i++ {
		row := ExperienceRow{
			Company:          cell(f.ExperienceCompany, i),
			Position:         cell(f.ExperiencePosition, i),
			StartDate:        cell(f.ExperienceStartDate, i),
			EndDate:          cell(f.ExperienceEndDate, i),
			Responsibilities: cell(f.ExperienceResponsibilities, i),
		}
		if row.empty() {
			continue
		}
		rows = append(rows, row)
	}
	return rows
}

// LanguageRows zips the parallel arrays and drops rows with both cells empty.
func (f *ProfileForm) LanguageRows() []LanguageRow {
	n := maxLen(f.LanguageName, f.LanguageLevel)
	rows := make([]LanguageRow, 0, n)
	for i := 0; i < n; i++ {
		row := LanguageRow{Language: cell(f.LanguageName, i), Level: cell(f.LanguageLevel, i)}
		if row.Language == "" && row.Level == "" {
			continue
		}
		rows = append(rows, row)
	}
	return rows
}

// ToProfile builds the profile content for userID. Review state and photo are
// left for the caller to set.
func (f *ProfileForm) ToProfile(userID uint) *models.UserProfile {
	p := &models.UserProfile{
		UserID:            userID,
		FullName:          f.FullName,
		BirthDate:         f.BirthDate,
		Email:             f.Email,
		Phone:             f.Phone,
		City:              f.City,
		About:             f.About,
		Skills:            f.Skills,
		JobPosition:       f.JobPosition,
		SalaryExpectation: f.SalaryExpectation,
		Education:         f.Education,
		Courses:           f.Courses,
		Certificates:      f.Certificates,
		LinkedInURL:       f.LinkedInURL,
		GitHubURL:         f.GitHubURL,
		Telegram:          f.Telegram,
		WebsiteURL:        f.WebsiteURL,
	}

	for _, row := range f.ExperienceRows() {
		p.Experience = append(p.Experience, models.ExperienceEntry{
			Company:          row.Company,
			Position:         row.Position,
			StartDate:        row.StartDate,
			EndDate:          row.EndDate,
			Responsibilities: row.Responsibilities,
		})
	}
	for _, row := range f.LanguageRows() {
		p.Languages = append(p.Languages, models.LanguageEntry{Language: row.Language, Level: row.Level})
	}

	return p
}

// ProfileFormFrom prefills a form from a stored profile. A nil profile gives an empty form.
func ProfileFormFrom(p *models.UserProfile) *ProfileForm {
	if p == nil {
		return &ProfileForm{}
	}

	f := &ProfileForm{
		FullName:          p.FullName,
		BirthDate:         p.BirthDate,
		Email:             p.Email,
		Phone:             p.Phone,
		City:              p.City,
		About:             p.About,
		Skills:            p.Skills,
		JobPosition:       p.JobPosition,
		SalaryExpectation: p.SalaryExpectation,
		Education:         p.Education,
		Courses:           p.Courses,
		Certificates:      p.Certificates,
		LinkedInURL:       p.LinkedInURL,
		GitHubURL:         p.GitHubURL,
		Telegram:          p.Telegram,
		WebsiteURL:        p.WebsiteURL,
	}

	for _, e := range p.Experience {
		f.ExperienceCompany = append(f.ExperienceCompany, e.Company)
		f.ExperiencePosition = append(f.ExperiencePosition, e.Position)
		f.ExperienceStartDate = append(f.ExperienceStartDate, e.StartDate)
		f.ExperienceEndDate = append(f.ExperienceEndDate, e.EndDate)
		f.ExperienceResponsibilities = append(f.ExperienceResponsibilities, e.Responsibilities)
	}
	for _, l := range p.Languages {
		f.LanguageName = append(f.LanguageName, l.Language)
		f.LanguageLevel = append(f.LanguageLevel, l.Level)
	}

	return f
}

func maxLen(cols ...[]string) int {
	n := 0
	for _, c := range cols {
		if len(c) > n {
			n = len(c)
		}
	}
	return n
}

func cell(col []string, i int) string {
	if i < len(col) {
		return strings.TrimSpace(col[i])
	}
	return ""
}
