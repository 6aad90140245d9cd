package validation_test

import (
	"testing"

	domainerrors "github.com/junkjournalapp/junkjournal-server/internal/errors"
	"github.com/junkjournalapp/junkjournal-server/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type createJournalRequest struct {
	Title       string `json:"title" validate:"required,min=1,max=120"`
	ThemeFamily string `json:"theme_family" validate:"required,max=60"`
	PageSize    string `json:"page_size" validate:"required,oneof=A5 A6 TN Letter"`
}

func TestValidate_Passes(t *testing.T) {
	v := validation.New()

	err := v.Validate(createJournalRequest{
		Title:       "Summer Trip",
		ThemeFamily: "travel",
		PageSize:    "A5",
	})
	assert.NoError(t, err)
}

func TestValidate_MissingFields(t *testing.T) {
	v := validation.New()

	err := v.Validate(createJournalRequest{})
	require.Error(t, err)

	var domainErr *domainerrors.Error
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domainerrors.CodeValidation, domainErr.Code)

	details, ok := domainErr.Details.(map[string]string)
	require.True(t, ok)
	assert.Equal(t, "is required", details["title"])
	assert.Equal(t, "is required", details["page_size"])
}

func TestValidate_UsesJSONFieldNames(t *testing.T) {
	v := validation.New()

	err := v.Validate(createJournalRequest{Title: "x", ThemeFamily: "y", PageSize: "B4"})
	require.Error(t, err)

	var domainErr *domainerrors.Error
	require.ErrorAs(t, err, &domainErr)

	details, ok := domainErr.Details.(map[string]string)
	require.True(t, ok)
	assert.Contains(t, details["page_size"], "must be one of")
	assert.NotContains(t, details, "PageSize")
}

func TestValidate_MaxLength(t *testing.T) {
	v := validation.New()

	long := make([]byte, 130)
	for i := range long {
		long[i] = 'a'
	}

	err := v.Validate(createJournalRequest{
		Title:       string(long),
		ThemeFamily: "travel",
		PageSize:    "A5",
	})
	require.Error(t, err)

	var domainErr *domainerrors.Error
	require.ErrorAs(t, err, &domainErr)
	details := domainErr.Details.(map[string]string)
	assert.Equal(t, "must not exceed 120 characters", details["title"])
}
