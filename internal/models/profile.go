package models

import (
	"time"

	"gorm.io/datatypes"
)

type ProfileStatus string

const (
	ProfileStatusNone      ProfileStatus = "none"
	ProfileStatusPending   ProfileStatus = "pending"
	ProfileStatusPublished ProfileStatus = "published"
)

// ExperienceEntry is one position in a work history.
type ExperienceEntry struct {
	Company          string `json:"company"`
	Position         string `json:"position"`
	StartDate        string `json:"start_date"`
	EndDate          string `json:"end_date"`
	Responsibilities string `json:"responsibilities"`
}

// LanguageEntry is a spoken language and the proficiency level in it.
type LanguageEntry struct {
	Language string `json:"language"`
	Level    string `json:"level"`
}

type UserProfile struct {
	ID     uint `json:"id" gorm:"primaryKey"`
	UserID uint `json:"user_id" gorm:"not null;uniqueIndex"`

	// Personal
	FullName  string `json:"full_name" gorm:"size:150"`
	BirthDate string `json:"birth_date" gorm:"size:10"`
	Email     string `json:"email" gorm:"size:255"`
	Phone     string `json:"phone" gorm:"size:50"`
	City      string `json:"city" gorm:"size:100"`
	About     string `json:"about" gorm:"type:text"`

	// Professional
	Skills            string `json:"skills" gorm:"type:text"`
	JobPosition       string `json:"job_position" gorm:"size:150"`
	SalaryExpectation string `json:"salary_expectation" gorm:"size:100"`
	Education         string `json:"education" gorm:"type:text"`
	Courses           string `json:"courses" gorm:"type:text"`
	Certificates      string `json:"certificates" gorm:"type:text"`

	// Social links
	LinkedInURL string `json:"linkedin_url" gorm:"column:linkedin_url;size:500"`
	GitHubURL   string `json:"github_url" gorm:"column:github_url;size:500"`
	Telegram    string `json:"telegram" gorm:"size:100"`
	WebsiteURL  string `json:"website_url" gorm:"size:500"`

	// Photo holds a data URI of the normalized JPEG.
	Photo string `json:"-" gorm:"type:text"`

	Experience datatypes.JSONSlice[ExperienceEntry] `json:"experience"`
	Languages  datatypes.JSONSlice[LanguageEntry]   `json:"languages"`

	// Review state
	IsCompleted bool       `json:"is_completed" gorm:"not null;index"`
	CompletedAt *time.Time `json:"completed_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (UserProfile) TableName() string {
	return "user_profiles"
}

// Status reports where a (possibly absent) profile is in the review lifecycle.
func (p *UserProfile) Status() ProfileStatus {
	switch {
	case p == nil:
		return ProfileStatusNone
	case p.IsCompleted:
		return ProfileStatusPublished
	default:
		return ProfileStatusPending
	}
}

// IsPublished reports whether the owner may view the portfolio and resume.
func (p *UserProfile) IsPublished() bool {
	return p.Status() == ProfileStatusPublished
}

// ProfileColumns lists the columns overwritten when a profile is saved.
var ProfileColumns = []string{
	"full_name", "birth_date", "email", "phone", "city", "about",
	"skills", "job_position", "salary_expectation", "education", "courses", "certificates",
	"linkedin_url", "github_url", "telegram", "website_url",
	"photo", "experience", "languages",
	"is_completed", "completed_at", "updated_at",
}
