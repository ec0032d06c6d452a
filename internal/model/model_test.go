package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	t.Run("Should accept known roles case-insensitively", func(t *testing.T) {
		r, err := ParseRole(" Instructor ")
		require.NoError(t, err)
		assert.Equal(t, RoleInstructor, r)
	})
	t.Run("Should reject unknown roles", func(t *testing.T) {
		_, err := ParseRole("superuser")
		assert.ErrorIs(t, err, ErrInvalidRole)
		assert.False(t, Role("owner").Valid())
	})
}

func TestClone(t *testing.T) {
	t.Run("Should not share lessons with the original course", func(t *testing.T) {
		c := Course{ID: 1, Lessons: []string{"intro"}}
		cp := c.Clone()
		cp.Lessons[0] = "changed"
		assert.Equal(t, "intro", c.Lessons[0])
	})
	t.Run("Should not share the course reference with the original video", func(t *testing.T) {
		id := uint64(3)
		v := Video{ID: 1, CourseID: &id}
		cp := v.Clone()
		*cp.CourseID = 9
		assert.Equal(t, uint64(3), *v.CourseID)
	})
	t.Run("Should not share participants or submissions", func(t *testing.T) {
		h := Hackathon{Participants: []Identity{"a"}, Submissions: []Submission{{Content: "x"}}}
		cp := h.Clone()
		cp.Participants = append(cp.Participants[:0], "b")
		cp.Submissions[0].Content = "y"
		assert.True(t, h.HasParticipant("a"))
		assert.False(t, h.HasParticipant("b"))
		assert.Equal(t, "x", h.Submissions[0].Content)
	})
}
