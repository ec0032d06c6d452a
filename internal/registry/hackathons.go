package registry

import (
	"context"
	"fmt"

	"github.com/iliyamo/learning-hub/internal/metrics"
	"github.com/iliyamo/learning-hub/internal/model"
	"github.com/iliyamo/learning-hub/internal/queue"
)

// HackathonInput carries the mutable fields of a hackathon.
type HackathonInput struct {
	Title       string
	Description string
	StartDate   string
	EndDate     string
}

// CreateHackathon stores a new hackathon created by caller.
func (s *Service) CreateHackathon(ctx context.Context, caller model.Identity, in HackathonInput) (model.Hackathon, error) {
	s.mu.Lock()
	h := model.Hackathon{
		ID:           s.ids.Next(model.KindHackathon),
		Title:        in.Title,
		Description:  in.Description,
		StartDate:    in.StartDate,
		EndDate:      in.EndDate,
		Creator:      caller,
		Participants: []model.Identity{},
		Submissions:  []model.Submission{},
	}
	s.hackathons.Insert(h.ID, h)
	s.mu.Unlock()
	s.finish(ctx, "create_hackathon", nil, queue.NewEvent("hackathon", queue.ActionCreated, idString(h.ID), caller))
	return h, nil
}

// GetHackathon looks up a hackathon by id.
func (s *Service) GetHackathon(_ context.Context, id uint64) (model.Hackathon, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hackathons.Get(id)
}

// HackathonPatch names the fields a partial update changes.  Nil fields
// keep their stored value.
type HackathonPatch struct {
	Title       *string
	Description *string
	StartDate   *string
	EndDate     *string
}

// UpdateHackathon overwrites title, description and dates of hackathon id.
// Participants and submissions are kept.
func (s *Service) UpdateHackathon(ctx context.Context, caller model.Identity, id uint64, in HackathonInput) (model.Hackathon, error) {
	s.mu.Lock()
	h, err := s.modifyHackathon(caller, id, func(h *model.Hackathon) {
		h.Title = in.Title
		h.Description = in.Description
		h.StartDate = in.StartDate
		h.EndDate = in.EndDate
	})
	s.mu.Unlock()
	s.finish(ctx, "update_hackathon", err, queue.NewEvent("hackathon", queue.ActionUpdated, idString(id), caller))
	return h, err
}

// PatchHackathon applies p to hackathon id under a single lock.
func (s *Service) PatchHackathon(ctx context.Context, caller model.Identity, id uint64, p HackathonPatch) (model.Hackathon, error) {
	s.mu.Lock()
	h, err := s.modifyHackathon(caller, id, func(h *model.Hackathon) {
		if p.Title != nil {
			h.Title = *p.Title
		}
		if p.Description != nil {
			h.Description = *p.Description
		}
		if p.StartDate != nil {
			h.StartDate = *p.StartDate
		}
		if p.EndDate != nil {
			h.EndDate = *p.EndDate
		}
	})
	s.mu.Unlock()
	s.finish(ctx, "patch_hackathon", err, queue.NewEvent("hackathon", queue.ActionUpdated, idString(id), caller))
	return h, err
}

// modifyHackathon runs apply on a copy of hackathon id after the existence
// and ownership checks.  Caller holds s.mu.
func (s *Service) modifyHackathon(caller model.Identity, id uint64, apply func(*model.Hackathon)) (model.Hackathon, error) {
	h, ok := s.hackathons.Get(id)
	if !ok {
		return model.Hackathon{}, fmt.Errorf("hackathon %d: %w", id, ErrNotFound)
	}
	if !s.canModify(caller, h.Creator) {
		return model.Hackathon{}, fmt.Errorf("hackathon %d: %w", id, ErrUnauthorized)
	}
	apply(&h)
	s.hackathons.Insert(id, h)
	return h, nil
}

// DeleteHackathon removes hackathon id.
func (s *Service) DeleteHackathon(ctx context.Context, caller model.Identity, id uint64) error {
	s.mu.Lock()
	err := s.deleteHackathon(caller, id)
	s.mu.Unlock()
	s.finish(ctx, "delete_hackathon", err, queue.NewEvent("hackathon", queue.ActionDeleted, idString(id), caller))
	return err
}

func (s *Service) deleteHackathon(caller model.Identity, id uint64) error {
	h, ok := s.hackathons.Get(id)
	if !ok {
		return fmt.Errorf("hackathon %d: %w", id, ErrNotFound)
	}
	if !s.canModify(caller, h.Creator) {
		return fmt.Errorf("hackathon %d: %w", id, ErrUnauthorized)
	}
	s.hackathons.Remove(id)
	return nil
}

// ListHackathons returns every hackathon.
func (s *Service) ListHackathons(_ context.Context) []model.Hackathon {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hackathons.List()
}

// RegisterHackathon adds caller to the participants of hackathon id.
// Registering twice is a no-op and publishes no second event.
func (s *Service) RegisterHackathon(ctx context.Context, caller model.Identity, id uint64) (model.Hackathon, error) {
	s.mu.Lock()
	h, joined, err := s.registerHackathon(caller, id)
	s.mu.Unlock()
	if err == nil && !joined {
		metrics.Observe("register_hackathon", "unchanged")
		return h, nil
	}
	s.finish(ctx, "register_hackathon", err, queue.NewEvent("hackathon", queue.ActionRegistered, idString(id), caller))
	return h, err
}

func (s *Service) registerHackathon(caller model.Identity, id uint64) (model.Hackathon, bool, error) {
	h, ok := s.hackathons.Get(id)
	if !ok {
		return model.Hackathon{}, false, fmt.Errorf("hackathon %d: %w", id, ErrNotFound)
	}
	if h.HasParticipant(caller) {
		return h, false, nil
	}
	h.Participants = append(h.Participants, caller)
	s.hackathons.Insert(id, h)
	return h, true, nil
}

// SubmitHackathon appends content to the submissions of hackathon id.  Only
// registered participants may submit; repeated submissions are all kept, in
// call order.
func (s *Service) SubmitHackathon(ctx context.Context, caller model.Identity, id uint64, content string) (model.Hackathon, error) {
	s.mu.Lock()
	h, err := s.submitHackathon(caller, id, content)
	s.mu.Unlock()
	s.finish(ctx, "submit_hackathon", err, queue.NewEvent("hackathon", queue.ActionSubmitted, idString(id), caller))
	return h, err
}

func (s *Service) submitHackathon(caller model.Identity, id uint64, content string) (model.Hackathon, error) {
	h, ok := s.hackathons.Get(id)
	if !ok {
		return model.Hackathon{}, fmt.Errorf("hackathon %d: %w", id, ErrNotFound)
	}
	if !h.HasParticipant(caller) {
		return model.Hackathon{}, fmt.Errorf("hackathon %d: %w", id, ErrNotRegistered)
	}
	h.Submissions = append(h.Submissions, model.Submission{
		Participant: caller,
		Content:     content,
		SubmittedAt: s.now().UTC(),
	})
	s.hackathons.Insert(id, h)
	return h, nil
}
