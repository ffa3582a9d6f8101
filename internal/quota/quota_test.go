package quota

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/wolfeidau/notable/internal/models"
)

func TestNoteLimit(t *testing.T) {
	require.Equal(t, 3, NoteLimit(models.PlanFree))
	require.Equal(t, Unlimited, NoteLimit(models.PlanPro))
}

func TestCanCreateNote(t *testing.T) {
	tests := []struct {
		name  string
		plan  models.Plan
		count int
		want  bool
	}{
		{"free under limit", models.PlanFree, 0, true},
		{"free at last slot", models.PlanFree, 2, true},
		{"free at limit", models.PlanFree, 3, false},
		{"free over limit", models.PlanFree, 4, false},
		{"pro at free limit", models.PlanPro, 3, true},
		{"pro large count", models.PlanPro, 10000, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, CanCreateNote(tt.plan, tt.count))
		})
	}
}
