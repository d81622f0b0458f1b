package main

import (
	"bytes"
	"testing"

	"clubhub-backend/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListCommand(t *testing.T) {
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetArgs([]string{"list"})

	require.NoError(t, root.Execute())
	assert.Equal(t, "remind-join-requests\nremind-pending-approvals\nsend-unread-digests\n", out.String())
}

func TestRunCommand_RejectsUnknownJob(t *testing.T) {
	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"run", "rebuild-everything"})

	assert.Error(t, root.Execute())
}

func TestRunCommand_RefusesMemoryStore(t *testing.T) {
	t.Setenv("CLUBHUB_JWT_SECRET", "cronjob-test-secret-0123456789abcdefgh")
	t.Chdir(t.TempDir())

	for _, args := range [][]string{
		{"run", "remind-pending-approvals", "--config", ""},
		{"all", "--config", ""},
		{"schedule", "--config", ""},
	} {
		t.Run(args[0], func(t *testing.T) {
			root := newRootCmd()
			root.SetOut(&bytes.Buffer{})
			root.SetErr(&bytes.Buffer{})
			root.SetArgs(args)

			err := root.Execute()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "shared postgres store")
		})
	}
}

func TestRequireSharedStore(t *testing.T) {
	tests := []struct {
		storeType string
		wantErr   bool
	}{
		{"", true},
		{"memory", true},
		{"postgres", false},
	}
	for _, tt := range tests {
		t.Run("type="+tt.storeType, func(t *testing.T) {
			cfg := &config.Config{Store: config.StoreConfig{Type: tt.storeType}}
			err := requireSharedStore(cfg)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
