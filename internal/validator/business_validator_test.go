package validator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/folio-hub/portfolio-service/internal/models"
)

func fields(errs ValidationErrors) []string {
	out := make([]string, 0, len(errs))
	for _, e := range errs {
		out = append(out, e.Field)
	}
	return out
}

func TestValidateRegister(t *testing.T) {
	bv := NewBusinessValidator()

	tests := []struct {
		name       string
		req        RegisterRequest
		wantFields []string
	}{
		{
			name: "valid",
			req:  RegisterRequest{Username: "alice", Password: "secret1", ConfirmPassword: "secret1"},
		},
		{
			name: "trims username",
			req:  RegisterRequest{Username: "  bob.smith ", Password: "secret1", ConfirmPassword: "secret1"},
		},
		{
			name:       "short password",
			req:        RegisterRequest{Username: "alice", Password: "abc", ConfirmPassword: "abc"},
			wantFields: []string{"password"},
		},
		{
			name: "password at the byte limit",
			req:  RegisterRequest{Username: "alice", Password: strings.Repeat("a", 72), ConfirmPassword: strings.Repeat("a", 72)},
		},
		{
			name:       "password over the byte limit",
			req:        RegisterRequest{Username: "alice", Password: strings.Repeat("a", 80), ConfirmPassword: strings.Repeat("a", 80)},
			wantFields: []string{"password"},
		},
		{
			name:       "multibyte password over the byte limit",
			req:        RegisterRequest{Username: "alice", Password: strings.Repeat("é", 40), ConfirmPassword: strings.Repeat("é", 40)},
			wantFields: []string{"password"},
		},
		{
			name:       "mismatch",
			req:        RegisterRequest{Username: "alice", Password: "secret1", ConfirmPassword: "secret2"},
			wantFields: []string{"confirm_password"},
		},
		{
			name:       "short username",
			req:        RegisterRequest{Username: "al", Password: "secret1", ConfirmPassword: "secret1"},
			wantFields: []string{"username"},
		},
		{
			name:       "bad characters",
			req:        RegisterRequest{Username: "al ice!", Password: "secret1", ConfirmPassword: "secret1"},
			wantFields: []string{"username"},
		},
		{
			name:       "empty",
			req:        RegisterRequest{},
			wantFields: []string{"username", "password", "confirm_password"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			errs := bv.ValidateRegister(&req)
			if len(tt.wantFields) == 0 {
				assert.Empty(t, errs)
				return
			}
			assert.ElementsMatch(t, tt.wantFields, fields(errs))
		})
	}
}

func TestValidateRegister_Messages(t *testing.T) {
	bv := NewBusinessValidator()

	errs := bv.ValidateRegister(&RegisterRequest{Username: "alice", Password: "secret1", ConfirmPassword: "nope12"})
	require.Len(t, errs, 1)
	assert.Equal(t, "Confirm password must match password", errs[0].Text())
	assert.Equal(t, "validation failed: confirm_password must match password", errs.Error())

	errs = bv.ValidateRegister(&RegisterRequest{Username: "alice", Password: "abc", ConfirmPassword: "abc"})
	require.Len(t, errs, 1)
	assert.Equal(t, []string{"Password must be at least 6 characters"}, errs.Messages())

	long := strings.Repeat("a", 80)
	errs = bv.ValidateRegister(&RegisterRequest{Username: "alice", Password: long, ConfirmPassword: long})
	require.Len(t, errs, 1)
	assert.Equal(t, []string{"Password must be at most 72 bytes"}, errs.Messages())
}

func TestValidateLogin(t *testing.T) {
	bv := NewBusinessValidator()

	req := LoginRequest{Username: " alice ", Password: "secret1"}
	assert.Empty(t, bv.ValidateLogin(&req))
	assert.Equal(t, "alice", req.Username)

	assert.ElementsMatch(t, []string{"username", "password"}, fields(bv.ValidateLogin(&LoginRequest{})))
}

func TestValidateProfile(t *testing.T) {
	bv := NewBusinessValidator()

	tests := []struct {
		name       string
		form       ProfileForm
		wantFields []string
	}{
		{
			name: "empty form is valid",
			form: ProfileForm{},
		},
		{
			name: "full valid form",
			form: ProfileForm{
				FullName:                   "Alice A",
				BirthDate:                  "1990-04-01",
				Email:                      "alice@example.com",
				LinkedInURL:                "https://linkedin.com/in/alice",
				ExperienceCompany:          []string{"Acme", ""},
				ExperiencePosition:         []string{"Engineer", ""},
				ExperienceStartDate:        []string{"2020-01", ""},
				ExperienceEndDate:          []string{"", ""},
				ExperienceResponsibilities: []string{"APIs", ""},
				LanguageName:               []string{"English"},
				LanguageLevel:              []string{"C1"},
			},
		},
		{
			name:       "bad email and date",
			form:       ProfileForm{Email: "not-an-email", BirthDate: "01/04/1990"},
			wantFields: []string{"email", "birth_date"},
		},
		{
			name:       "bad url",
			form:       ProfileForm{GitHubURL: "github dot com"},
			wantFields: []string{"github_url"},
		},
		{
			name: "experience row without company or position",
			form: ProfileForm{
				ExperienceCompany:   []string{""},
				ExperiencePosition:  []string{""},
				ExperienceStartDate: []string{"2020-01"},
			},
			wantFields: []string{"experience[0].company"},
		},
		{
			name:       "language level without language",
			form:       ProfileForm{LanguageName: []string{""}, LanguageLevel: []string{"B2"}},
			wantFields: []string{"languages[0].language"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := tt.form
			errs := bv.ValidateProfile(&form)
			if len(tt.wantFields) == 0 {
				assert.Empty(t, errs)
				return
			}
			assert.ElementsMatch(t, tt.wantFields, fields(errs))
		})
	}
}

func TestProfileForm_ToProfileRoundTrip(t *testing.T) {
	form := ProfileForm{
		FullName:                   " Alice A ",
		JobPosition:                "Engineer",
		ExperienceCompany:          []string{"Acme", "", "Initech"},
		ExperiencePosition:         []string{"Engineer", "", ""},
		ExperienceStartDate:        []string{"2020-01", "", ""},
		ExperienceEndDate:          []string{"2022-06"},
		ExperienceResponsibilities: []string{"Build, run; deploy", "", "Support"},
		LanguageName:               []string{"English", "", "German"},
		LanguageLevel:              []string{"C1", "", ""},
	}
	form.Normalize()

	p := form.ToProfile(42)
	assert.Equal(t, uint(42), p.UserID)
	assert.Equal(t, "Alice A", p.FullName)
	assert.False(t, p.IsCompleted)

	require.Len(t, p.Experience, 2)
	assert.Equal(t, models.ExperienceEntry{
		Company: "Acme", Position: "Engineer", StartDate: "2020-01", EndDate: "2022-06", Responsibilities: "Build, run; deploy",
	}, p.Experience[0])
	assert.Equal(t, "Initech", p.Experience[1].Company)
	assert.Equal(t, "Support", p.Experience[1].Responsibilities)

	require.Len(t, p.Languages, 2)
	assert.Equal(t, models.LanguageEntry{Language: "German"}, p.Languages[1])

	back := ProfileFormFrom(p)
	assert.Equal(t, p.Experience, back.ToProfile(42).Experience)
	assert.Equal(t, p.Languages, back.ToProfile(42).Languages)
	assert.Equal(t, "Engineer", back.JobPosition)

	assert.Equal(t, &ProfileForm{}, ProfileFormFrom(nil))
}
