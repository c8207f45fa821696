package server

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ktanaka/careerlog/internal/types"
)

func TestGenerateDocumentRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		req     generateDocumentRequest
		wantErr string
	}{
		{
			name: "valid",
			req: generateDocumentRequest{
				Format:         types.FormatReverseChronological,
				AchievementIDs: []uuid.UUID{uuid.New()},
			},
		},
		{
			name:    "unknown format",
			req:     generateDocumentRequest{Format: "functional", AchievementIDs: []uuid.UUID{uuid.New()}},
			wantErr: "format",
		},
		{
			name:    "no achievements selected",
			req:     generateDocumentRequest{Format: types.FormatChronological},
			wantErr: "achievement_ids",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.Equal(t, http.StatusBadRequest, HTTPStatus(err))
		})
	}
}
