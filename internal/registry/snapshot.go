package registry

import (
	"github.com/iliyamo/learning-hub/internal/model"
	"github.com/iliyamo/learning-hub/internal/snapshot"
)

// Snapshot enumerates every store and the allocator counters.
func (s *Service) Snapshot() snapshot.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return snapshot.State{
		TakenAt:    s.now().UTC(),
		Users:      s.users.List(),
		Courses:    s.courses.List(),
		Videos:     s.videos.List(),
		Hackathons: s.hackathons.List(),
		Counters:   s.ids.Counters(),
	}
}

// Restore replaces the content of every store with st.  Counters are raised
// past the highest restored ID of each kind, so an older snapshot can never
// cause an ID to be issued twice.
func (s *Service) Restore(st snapshot.State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users.Replace(st.Users, func(u model.User) model.Identity { return u.Identity })
	s.courses.Replace(st.Courses, func(c model.Course) uint64 { return c.ID })
	s.videos.Replace(st.Videos, func(v model.Video) uint64 { return v.ID })
	s.hackathons.Replace(st.Hackathons, func(h model.Hackathon) uint64 { return h.ID })

	counters := make(map[model.Kind]uint64, len(model.Kinds))
	for k, v := range st.Counters {
		counters[k] = v
	}
	raise := func(kind model.Kind, id uint64) {
		if id+1 > counters[kind] {
			counters[kind] = id + 1
		}
	}
	for _, c := range st.Courses {
		raise(model.KindCourse, c.ID)
	}
	for _, v := range st.Videos {
		raise(model.KindVideo, v.ID)
	}
	for _, h := range st.Hackathons {
		raise(model.KindHackathon, h.ID)
	}
	s.ids.Restore(counters)
}
