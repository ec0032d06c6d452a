package model

// Video holds descriptive metadata for an uploaded video.  The asset itself
// lives elsewhere; URL points at it.
//
// Fields:
//  ID          – allocated by the registry.
//  Title       – video title.
//  URL         – location of the asset.
//  Uploader    – identity of the owner.
//  CourseID    – optional weak reference to a course.  The course may have
//                been deleted since; readers treat that as "unavailable".
//  Description – free text.
type Video struct {
	ID          uint64   `json:"id"`
	Title       string   `json:"title"`
	URL         string   `json:"url"`
	Uploader    Identity `json:"uploader"`
	CourseID    *uint64  `json:"course_id,omitempty"`
	Description string   `json:"description"`
}

// Clone returns a deep copy of v.
func (v Video) Clone() Video {
	out := v
	if v.CourseID != nil {
		id := *v.CourseID
		out.CourseID = &id
	}
	return out
}
