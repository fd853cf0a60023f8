package gitsafety

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		argv []string
		want Intent
		ok   bool
	}{
		{
			name: "commit with message",
			argv: []string{"git", "commit", "-m", "fix parser"},
			want: Intent{Kind: IntentCommit, Message: "fix parser"},
			ok:   true,
		},
		{
			name: "commit with long message flag",
			argv: []string{"git", "commit", "--message=fix parser"},
			want: Intent{Kind: IntentCommit, Message: "fix parser"},
			ok:   true,
		},
		{
			name: "commit with inline short message",
			argv: []string{"git", "commit", "-mfix"},
			want: Intent{Kind: IntentCommit, Message: "fix"},
			ok:   true,
		},
		{
			name: "push with remote and branch",
			argv: []string{"git", "push", "origin", "main"},
			want: Intent{Kind: IntentPush, Remote: "origin", Branch: "main"},
			ok:   true,
		},
		{
			name: "forced push",
			argv: []string{"git", "push", "-f", "origin", "main"},
			want: Intent{Kind: IntentPush, Remote: "origin", Branch: "main", Forced: true},
			ok:   true,
		},
		{
			name: "branch create",
			argv: []string{"git", "branch", "feature/x"},
			want: Intent{Kind: IntentBranchCreate, Branch: "feature/x"},
			ok:   true,
		},
		{
			name: "checkout -b",
			argv: []string{"git", "checkout", "-b", "feature/x"},
			want: Intent{Kind: IntentBranchCreate, Branch: "feature/x"},
			ok:   true,
		},
		{
			name: "switch --create",
			argv: []string{"git", "switch", "--create=feature/x"},
			want: Intent{Kind: IntentBranchCreate, Branch: "feature/x"},
			ok:   true,
		},
		{"branch list has no intent", []string{"git", "branch", "--list"}, Intent{}, false},
		{"branch delete has no intent", []string{"git", "branch", "-d", "x"}, Intent{}, false},
		{"plain checkout has no intent", []string{"git", "checkout", "main"}, Intent{}, false},
		{"status has no intent", []string{"git", "status"}, Intent{}, false},
		{"not git", []string{"npm", "publish"}, Intent{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Classify(tt.argv)
			require.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIntentKindString(t *testing.T) {
	assert.Equal(t, "commit", IntentCommit.String())
	assert.Equal(t, "push", IntentPush.String())
	assert.Equal(t, "branch-create", IntentBranchCreate.String())
	assert.Equal(t, "none", IntentNone.String())
}
