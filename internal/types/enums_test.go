package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategoryValid(t *testing.T) {
	for _, c := range Categories() {
		assert.True(t, c.Valid(), "category %q", c)
	}
	assert.False(t, Category("refactoring").Valid())
	assert.False(t, Category("").Valid())
}

func TestSignificanceValid(t *testing.T) {
	for _, s := range []Significance{SignificanceHigh, SignificanceMedium, SignificanceLow} {
		assert.True(t, s.Valid(), "significance %q", s)
	}
	assert.False(t, Significance("critical").Valid())
}

func TestCandidateStatusTerminal(t *testing.T) {
	assert.False(t, CandidatePending.Terminal())
	assert.True(t, CandidateAccepted.Terminal())
	assert.True(t, CandidateRejected.Terminal())
	assert.True(t, CandidateEdited.Terminal())
}

func TestResumeFormat(t *testing.T) {
	tests := []struct {
		format ResumeFormat
		valid  bool
		label  string
	}{
		{FormatReverseChronological, true, "逆編年体"},
		{FormatChronological, true, "編年体"},
		{FormatCareerBased, true, "キャリア"},
		{ResumeFormat("functional"), false, ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.valid, tt.format.Valid(), "format %q", tt.format)
		if tt.valid {
			assert.Equal(t, tt.label, tt.format.Label())
		}
	}
}
