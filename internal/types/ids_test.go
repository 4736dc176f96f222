package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTaskID_IsDraft(t *testing.T) {
	tests := []struct {
		name string
		id   TaskID
		want bool
	}{
		{"empty", "", true},
		{"zero literal", "0", true},
		{"whitespace", "  ", true},
		{"draft prefix", "draft-4f1c", true},
		{"server id", "t-123", false},
		{"numeric server id", "42", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.id.IsDraft())
		})
	}
}

func TestSectionID_IsZero(t *testing.T) {
	assert.True(t, SectionID("").IsZero())
	assert.True(t, SectionID(" ").IsZero())
	assert.False(t, SectionID("s1").IsZero())
}
