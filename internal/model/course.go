package model

// Course is a titled sequence of lessons taught by one instructor.
//
// Fields:
//  ID          – allocated by the registry, never reused.
//  Title       – course title.
//  Description – free text.
//  Instructor  – identity of the owner; only they or an admin may change it.
//  Lessons     – lesson titles in teaching order.
type Course struct {
	ID          uint64   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Instructor  Identity `json:"instructor"`
	Lessons     []string `json:"lessons"`
}

// Clone returns a deep copy of c.
func (c Course) Clone() Course {
	out := c
	if c.Lessons != nil {
		out.Lessons = append([]string(nil), c.Lessons...)
	}
	return out
}
