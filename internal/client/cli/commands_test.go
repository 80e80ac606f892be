package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"duet/internal/client/models"
)

func taskList(ids ...string) []models.Task {
	tasks := make([]models.Task, len(ids))
	for i, id := range ids {
		tasks[i] = models.Task{ID: id, Title: "task " + id}
	}
	return tasks
}

func TestMatchTask(t *testing.T) {
	tasks := taskList(
		"a1b2c3d4-0000-4000-8000-000000000001",
		"a1f9e8d7-0000-4000-8000-000000000002",
		"b2000000-0000-4000-8000-000000000003",
	)

	tests := []struct {
		name    string
		ref     string
		wantID  string
		wantErr error
	}{
		{name: "exact id", ref: "b2000000-0000-4000-8000-000000000003", wantID: "b2000000-0000-4000-8000-000000000003"},
		{name: "unique prefix", ref: "a1b2", wantID: "a1b2c3d4-0000-4000-8000-000000000001"},
		{name: "prefix is case insensitive", ref: "A1F9", wantID: "a1f9e8d7-0000-4000-8000-000000000002"},
		{name: "ambiguous prefix", ref: "a1", wantErr: errAmbiguousTask},
		{name: "no match", ref: "zzz", wantErr: errNoSuchTask},
		{name: "empty ref", ref: "  ", wantErr: errNoSuchTask},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := matchTask(tasks, tt.ref)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, got.ID)
		})
	}
}

func TestShortID(t *testing.T) {
	assert.Equal(t, "a1b2c3d4", shortID("a1b2c3d4-0000-4000-8000-000000000001"))
	assert.Equal(t, "abc", shortID("abc"))
}

func TestPartnerHeading(t *testing.T) {
	name := "Ben"
	members := []models.UserBrief{
		{ID: "u1", Name: &name},
		{ID: "u2"},
	}

	assert.Equal(t, "Ben", partnerHeading(members, "u2"))
	assert.Equal(t, "Partner", partnerHeading(members[:1], "u1"))
	assert.Equal(t, "Partner", partnerHeading(nil, "u1"))
}
