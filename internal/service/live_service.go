package service

import (
	"context"
	"fmt"
	"log"

	"liveform/internal/cache"
	"liveform/internal/model"
	"liveform/internal/repository"
)

// LiveService builds the poll-able feed of currently running sessions across
// all courses.
type LiveService struct {
	courseRepo repository.CourseRepo
	feed       cache.FeedCache
}

// NewLiveService creates a new live service. The feed cache may be nil.
func NewLiveService(courseRepo repository.CourseRepo, feed cache.FeedCache) *LiveService {
	return &LiveService{
		courseRepo: courseRepo,
		feed:       feed,
	}
}

// ListLive scans every course and returns each STARTED form exactly once, in
// course-scan order, as its redacted projection. The feed is public, so
// collected answers never appear here; owners read results through the form
// endpoints.
func (s *LiveService) ListLive(ctx context.Context) ([]model.LiveForm, error) {
	if s.feed != nil {
		cached, ok, err := s.feed.Get(ctx)
		if err != nil {
			log.Printf("live feed cache read failed: %v", err)
		} else if ok {
			return cached, nil
		}
	}

	courses, err := s.courseRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}

	feed := []model.LiveForm{}
	for _, course := range courses {
		for i := range course.FeedbackForms {
			if course.FeedbackForms[i].Status != model.FormStarted {
				continue
			}
			view := course.FeedbackForms[i].CopyWithoutResults()
			feed = append(feed, model.LiveForm{
				Kind:     model.LiveKindFeedback,
				CourseID: course.ID,
				Feedback: &view,
			})
		}
		for i := range course.QuizForms {
			if course.QuizForms[i].Status != model.FormStarted {
				continue
			}
			view := course.QuizForms[i].CopyWithoutResults()
			feed = append(feed, model.LiveForm{
				Kind:     model.LiveKindQuiz,
				CourseID: course.ID,
				Quiz:     &view,
			})
		}
	}

	if s.feed != nil {
		if err := s.feed.Set(ctx, feed); err != nil {
			log.Printf("live feed cache write failed: %v", err)
		}
	}
	return feed, nil
}
