package registry

import (
	"context"
	"fmt"

	"github.com/iliyamo/learning-hub/internal/model"
	"github.com/iliyamo/learning-hub/internal/queue"
)

// VideoInput carries the mutable fields of a video.
type VideoInput struct {
	Title       string
	URL         string
	CourseID    *uint64
	Description string
}

// UploadVideo stores metadata for a new video uploaded by caller.  A course
// reference, when given, must name an existing course.
func (s *Service) UploadVideo(ctx context.Context, caller model.Identity, in VideoInput) (model.Video, error) {
	s.mu.Lock()
	v, err := s.uploadVideo(caller, in)
	s.mu.Unlock()
	s.finish(ctx, "upload_video", err, queue.NewEvent("video", queue.ActionCreated, idString(v.ID), caller))
	return v, err
}

func (s *Service) uploadVideo(caller model.Identity, in VideoInput) (model.Video, error) {
	if err := s.checkCourseRef(in.CourseID); err != nil {
		return model.Video{}, err
	}
	v := model.Video{
		ID:          s.ids.Next(model.KindVideo),
		Title:       in.Title,
		URL:         in.URL,
		Uploader:    caller,
		CourseID:    copyRef(in.CourseID),
		Description: in.Description,
	}
	s.videos.Insert(v.ID, v)
	return v, nil
}

func (s *Service) checkCourseRef(ref *uint64) error {
	if ref == nil {
		return nil
	}
	if _, ok := s.courses.Get(*ref); !ok {
		return fmt.Errorf("course %d: %w", *ref, ErrInvalidReference)
	}
	return nil
}

func copyRef(ref *uint64) *uint64 {
	if ref == nil {
		return nil
	}
	id := *ref
	return &id
}

// GetVideo looks up a video by id.
func (s *Service) GetVideo(_ context.Context, id uint64) (model.Video, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.videos.Get(id)
}

// VideoCourse resolves v's course reference.  It returns false when v has no
// reference or the course has since been deleted.
func (s *Service) VideoCourse(_ context.Context, v model.Video) (model.Course, bool) {
	if v.CourseID == nil {
		return model.Course{}, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.courses.Get(*v.CourseID)
}

// VideoPatch names the fields a partial update changes.  Nil fields keep
// their stored value; a nil CourseID keeps the current reference.
type VideoPatch struct {
	Title       *string
	URL         *string
	CourseID    *uint64
	Description *string
}

// UpdateVideo overwrites the mutable fields of video id.
func (s *Service) UpdateVideo(ctx context.Context, caller model.Identity, id uint64, in VideoInput) (model.Video, error) {
	s.mu.Lock()
	v, err := s.modifyVideo(caller, id, func(v *model.Video) {
		v.Title = in.Title
		v.URL = in.URL
		v.CourseID = copyRef(in.CourseID)
		v.Description = in.Description
	})
	s.mu.Unlock()
	s.finish(ctx, "update_video", err, queue.NewEvent("video", queue.ActionUpdated, idString(id), caller))
	return v, err
}

// PatchVideo applies p to video id under a single lock.
func (s *Service) PatchVideo(ctx context.Context, caller model.Identity, id uint64, p VideoPatch) (model.Video, error) {
	s.mu.Lock()
	v, err := s.modifyVideo(caller, id, func(v *model.Video) {
		if p.Title != nil {
			v.Title = *p.Title
		}
		if p.URL != nil {
			v.URL = *p.URL
		}
		if p.CourseID != nil {
			v.CourseID = copyRef(p.CourseID)
		}
		if p.Description != nil {
			v.Description = *p.Description
		}
	})
	s.mu.Unlock()
	s.finish(ctx, "patch_video", err, queue.NewEvent("video", queue.ActionUpdated, idString(id), caller))
	return v, err
}

// modifyVideo runs apply on a copy of video id after the existence and
// ownership checks.  A reference left dangling by a course delete may be
// kept; only a changed reference must name an existing course.  Caller
// holds s.mu.
func (s *Service) modifyVideo(caller model.Identity, id uint64, apply func(*model.Video)) (model.Video, error) {
	v, ok := s.videos.Get(id)
	if !ok {
		return model.Video{}, fmt.Errorf("video %d: %w", id, ErrNotFound)
	}
	if !s.canModify(caller, v.Uploader) {
		return model.Video{}, fmt.Errorf("video %d: %w", id, ErrUnauthorized)
	}
	next := v.Clone()
	apply(&next)
	if !sameRef(next.CourseID, v.CourseID) {
		if err := s.checkCourseRef(next.CourseID); err != nil {
			return model.Video{}, err
		}
	}
	s.videos.Insert(id, next)
	return next, nil
}

func sameRef(a, b *uint64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// DeleteVideo removes video id.
func (s *Service) DeleteVideo(ctx context.Context, caller model.Identity, id uint64) error {
	s.mu.Lock()
	err := s.deleteVideo(caller, id)
	s.mu.Unlock()
	s.finish(ctx, "delete_video", err, queue.NewEvent("video", queue.ActionDeleted, idString(id), caller))
	return err
}

func (s *Service) deleteVideo(caller model.Identity, id uint64) error {
	v, ok := s.videos.Get(id)
	if !ok {
		return fmt.Errorf("video %d: %w", id, ErrNotFound)
	}
	if !s.canModify(caller, v.Uploader) {
		return fmt.Errorf("video %d: %w", id, ErrUnauthorized)
	}
	s.videos.Remove(id)
	return nil
}

// ListVideos returns every video.
func (s *Service) ListVideos(_ context.Context) []model.Video {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.videos.List()
}
