package validation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpupo63/portfolio-api/errs"
)

type samplePayload struct {
	Name     string   `json:"name" validate:"required,min=2,max=100,alphaspace"`
	Email    string   `json:"email" validate:"required,email"`
	Repo     string   `json:"github" validate:"required,githuburl"`
	Link     *string  `json:"demo" validate:"omitempty,httpurl"`
	Started  string   `json:"startDate" validate:"required,isodate"`
	Skills   []string `json:"skills" validate:"required,min=1,dive,min=2,max=50"`
	Category string   `json:"category" validate:"omitempty,oneof=iot web other"`
}

func validSample() samplePayload {
	demo := "https://demo.example.com"
	return samplePayload{
		Name:     "Jane Doe",
		Email:    "jane@example.com",
		Repo:     "https://github.com/jane/portfolio",
		Link:     &demo,
		Started:  "2024-01-15",
		Skills:   []string{"Go", "SQL"},
		Category: "web",
	}
}

func TestGetValidatorSingleton(t *testing.T) {
	assert.Same(t, GetValidator(), GetValidator())
}

func TestValidateStructValid(t *testing.T) {
	p := validSample()
	assert.NoError(t, ValidateStruct(&p))
}

func TestValidateStructReportsEveryField(t *testing.T) {
	badDemo := "ftp://demo"
	p := samplePayload{
		Name:     "J4ne",
		Email:    "not-an-email",
		Repo:     "https://gitlab.com/jane/portfolio",
		Link:     &badDemo,
		Started:  "15/01/2024",
		Skills:   []string{"Go", "x"},
		Category: "desktop",
	}

	err := ValidateStruct(&p)
	require.Error(t, err)
	assert.True(t, errs.IsValidationError(err))

	apiErr, ok := err.(*errs.ApiErr)
	require.True(t, ok)

	fields := map[string]string{}
	for _, f := range apiErr.Fields {
		fields[f.Field] = f.Message
	}
	assert.Equal(t, "name can only contain letters and spaces", fields["name"])
	assert.Equal(t, "email must be a valid email address", fields["email"])
	assert.Equal(t, "github must be a valid GitHub URL", fields["github"])
	assert.Equal(t, "demo must be a valid http(s) URL", fields["demo"])
	assert.Equal(t, "startDate must be a valid ISO 8601 date", fields["startDate"])
	assert.Equal(t, "skills[1] must be at least 2 characters", fields["skills[1]"])
	assert.Equal(t, "category must be one of: iot, web, other", fields["category"])
	assert.Len(t, apiErr.Fields, 7)
}

func TestValidateStructEmptyList(t *testing.T) {
	p := validSample()
	p.Skills = []string{}

	err := ValidateStruct(&p)
	require.Error(t, err)
	apiErr := err.(*errs.ApiErr)
	require.Len(t, apiErr.Fields, 1)
	assert.Equal(t, "skills must contain at least 1 item(s)", apiErr.Fields[0].Message)
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2024-01-15", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)},
		{"2024-01-15T10:30:00Z", time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)},
		{"2024-01-15T10:30:00+02:00", time.Date(2024, 1, 15, 8, 30, 0, 0, time.UTC)},
		{" 2024-01 ", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		got, err := ParseDate(tt.in)
		require.NoError(t, err, tt.in)
		assert.True(t, tt.want.Equal(got), tt.in)
	}

	_, err := ParseDate("yesterday")
	assert.Error(t, err)
}

func TestTrimHelpers(t *testing.T) {
	assert.Equal(t, []string{"Go", "SQL"}, TrimSlice([]string{" Go", "SQL "}))

	blank := "   "
	assert.Nil(t, TrimPtr(&blank))
	assert.Nil(t, TrimPtr(nil))

	v := " https://x.test "
	assert.Equal(t, "https://x.test", *TrimPtr(&v))
}
