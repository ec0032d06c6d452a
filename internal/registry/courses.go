package registry

import (
	"context"
	"fmt"

	"github.com/iliyamo/learning-hub/internal/model"
	"github.com/iliyamo/learning-hub/internal/queue"
)

// CourseInput carries the mutable fields of a course.
type CourseInput struct {
	Title       string
	Description string
	Lessons     []string
}

// CreateCourse stores a new course taught by caller.  Unless the service was
// built with WithOpenCourseCreation, caller must be a registered instructor
// or admin.
func (s *Service) CreateCourse(ctx context.Context, caller model.Identity, in CourseInput) (model.Course, error) {
	s.mu.Lock()
	c, err := s.createCourse(caller, in)
	s.mu.Unlock()
	s.finish(ctx, "create_course", err, queue.NewEvent("course", queue.ActionCreated, idString(c.ID), caller))
	return c, err
}

func (s *Service) createCourse(caller model.Identity, in CourseInput) (model.Course, error) {
	if !s.openCourseCreation && !s.canTeach(caller) {
		return model.Course{}, fmt.Errorf("create course: %w", ErrUnauthorized)
	}
	c := model.Course{
		ID:          s.ids.Next(model.KindCourse),
		Title:       in.Title,
		Description: in.Description,
		Instructor:  caller,
		Lessons:     append([]string(nil), in.Lessons...),
	}
	s.courses.Insert(c.ID, c)
	return c, nil
}

// canTeach reports whether id is a registered instructor or admin.
func (s *Service) canTeach(id model.Identity) bool {
	u, ok := s.users.Get(id)
	if !ok {
		return false
	}
	switch u.Role {
	case model.RoleInstructor, model.RoleAdmin:
		return true
	case model.RoleStudent:
		return false
	default:
		return false
	}
}

// GetCourse looks up a course by id.
func (s *Service) GetCourse(_ context.Context, id uint64) (model.Course, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.courses.Get(id)
}

// CoursePatch names the fields a partial update changes.  Nil fields keep
// their stored value.
type CoursePatch struct {
	Title       *string
	Description *string
	Lessons     *[]string
}

// UpdateCourse overwrites the mutable fields of course id.
func (s *Service) UpdateCourse(ctx context.Context, caller model.Identity, id uint64, in CourseInput) (model.Course, error) {
	s.mu.Lock()
	c, err := s.modifyCourse(caller, id, func(c *model.Course) {
		c.Title = in.Title
		c.Description = in.Description
		c.Lessons = append([]string(nil), in.Lessons...)
	})
	s.mu.Unlock()
	s.finish(ctx, "update_course", err, queue.NewEvent("course", queue.ActionUpdated, idString(id), caller))
	return c, err
}

// PatchCourse applies p to course id.  The read and the write happen under
// one lock, so concurrent patches to different fields both survive.
func (s *Service) PatchCourse(ctx context.Context, caller model.Identity, id uint64, p CoursePatch) (model.Course, error) {
	s.mu.Lock()
	c, err := s.modifyCourse(caller, id, func(c *model.Course) {
		if p.Title != nil {
			c.Title = *p.Title
		}
		if p.Description != nil {
			c.Description = *p.Description
		}
		if p.Lessons != nil {
			c.Lessons = append([]string(nil), (*p.Lessons)...)
		}
	})
	s.mu.Unlock()
	s.finish(ctx, "patch_course", err, queue.NewEvent("course", queue.ActionUpdated, idString(id), caller))
	return c, err
}

// modifyCourse runs apply on a copy of course id after the existence and
// ownership checks, then stores it.  Caller holds s.mu.
func (s *Service) modifyCourse(caller model.Identity, id uint64, apply func(*model.Course)) (model.Course, error) {
	c, ok := s.courses.Get(id)
	if !ok {
		return model.Course{}, fmt.Errorf("course %d: %w", id, ErrNotFound)
	}
	if !s.canModify(caller, c.Instructor) {
		return model.Course{}, fmt.Errorf("course %d: %w", id, ErrUnauthorized)
	}
	apply(&c)
	s.courses.Insert(id, c)
	return c, nil
}

// DeleteCourse removes course id.  Videos that reference it are left alone.
func (s *Service) DeleteCourse(ctx context.Context, caller model.Identity, id uint64) error {
	s.mu.Lock()
	err := s.deleteCourse(caller, id)
	s.mu.Unlock()
	s.finish(ctx, "delete_course", err, queue.NewEvent("course", queue.ActionDeleted, idString(id), caller))
	return err
}

func (s *Service) deleteCourse(caller model.Identity, id uint64) error {
	c, ok := s.courses.Get(id)
	if !ok {
		return fmt.Errorf("course %d: %w", id, ErrNotFound)
	}
	if !s.canModify(caller, c.Instructor) {
		return fmt.Errorf("course %d: %w", id, ErrUnauthorized)
	}
	s.courses.Remove(id)
	return nil
}

// ListCourses returns every course.
func (s *Service) ListCourses(_ context.Context) []model.Course {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.courses.List()
}
