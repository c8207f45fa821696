package server

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveCollectRepos(t *testing.T) {
	tests := []struct {
		name      string
		cfg       *githubConfig
		err       error
		wantToken string
		wantRepos []string
		wantErr   bool
	}{
		{
			name:      "configured connection",
			cfg:       &githubConfig{Token: "ghp_x", Repos: []string{"acme/api"}},
			wantToken: "ghp_x",
			wantRepos: []string{"acme/api"},
		},
		{
			name: "connection with no repos selected",
			cfg:  &githubConfig{Token: "ghp_x"},
			// Collection still runs; the day is digested from notes alone.
			wantToken: "ghp_x",
		},
		{
			name: "missing connection is not an error",
			err:  &ErrNotFound{Resource: "GitHub connection"},
		},
		{
			name: "wrapped missing connection",
			err:  fmt.Errorf("load: %w", &ErrNotFound{Resource: "GitHub connection"}),
		},
		{
			name:    "decrypt failure propagates",
			err:     fmt.Errorf("failed to decrypt connection config: boom"),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, repos, err := resolveCollectRepos(tt.cfg, tt.err)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantToken, token)
			assert.Equal(t, tt.wantRepos, repos)
		})
	}
}
