package model

// Kind names an entity collection whose keys are allocated numbers.
type Kind string

const (
	KindCourse    Kind = "course"
	KindVideo     Kind = "video"
	KindHackathon Kind = "hackathon"
)

// Kinds lists every ID-allocated kind.
var Kinds = []Kind{KindCourse, KindVideo, KindHackathon}
