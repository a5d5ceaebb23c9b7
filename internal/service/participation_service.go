package service

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"liveform/internal/model"
	"liveform/internal/repository"
)

// ParticipationService covers the participant side of a running session:
// registration, answers and the redacted form views.
//
// Alias uniqueness is checked against the course snapshot loaded for this
// request. Saves replace the whole document without a version check, so two
// participants racing for the same alias on separately loaded copies can both
// succeed; the later save wins.
type ParticipationService struct {
	courseRepo repository.CourseRepo
}

// NewParticipationService creates a new participation service.
func NewParticipationService(courseRepo repository.CourseRepo) *ParticipationService {
	return &ParticipationService{courseRepo: courseRepo}
}

// Join registers the user in a running form under the chosen alias.
func (s *ParticipationService) Join(ctx context.Context, userID, courseID, formID, alias string) error {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return model.NewValidationError("userId", "invalid identifier")
	}

	course, form, err := s.loadForm(ctx, courseID, formID)
	if err != nil {
		return err
	}

	if err := form.AddParticipant(uid, alias); err != nil {
		return err
	}
	return s.courseRepo.Update(ctx, course)
}

// SubmitAnswer records the user's answer to one question of a running form.
// Resubmitting replaces the user's earlier answer to the same question.
func (s *ParticipationService) SubmitAnswer(ctx context.Context, userID, courseID, formID, questionID string, values []string) error {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return model.NewValidationError("userId", "invalid identifier")
	}
	qid, err := primitive.ObjectIDFromHex(questionID)
	if err != nil {
		return model.NewValidationError("questionId", "invalid identifier")
	}

	cid, err := primitive.ObjectIDFromHex(courseID)
	if err != nil {
		return model.NewValidationError("courseId", "invalid identifier")
	}
	fid, err := primitive.ObjectIDFromHex(formID)
	if err != nil {
		return model.NewValidationError("formId", "invalid identifier")
	}

	course, err := s.courseRepo.GetByID(ctx, cid)
	if err != nil {
		return fmt.Errorf("failed to load course: %w", err)
	}
	if course == nil {
		return model.NewNotFoundError("course")
	}

	if quiz := course.QuizFormByID(fid); quiz != nil {
		if err := quiz.SubmitAnswer(uid, qid, values); err != nil {
			return err
		}
	} else if feedback := course.FeedbackFormByID(fid); feedback != nil {
		if err := feedback.SubmitAnswer(uid, qid, values); err != nil {
			return err
		}
	} else {
		return model.NewNotFoundError("form")
	}

	return s.courseRepo.Update(ctx, course)
}

// GetFeedbackForm materializes a view of a feedback form. With results the
// caller must own the course and receives every collected answer; without,
// the answers are stripped. Question contents are resolved either way.
func (s *ParticipationService) GetFeedbackForm(ctx context.Context, userID, courseID, formID string, results bool) (*model.FeedbackForm, error) {
	course, form, err := s.loadFeedbackForm(ctx, courseID, formID)
	if err != nil {
		return nil, err
	}

	if results {
		if err := s.requireOwner(course, userID); err != nil {
			return nil, err
		}
		view := form.CopyWithQuestionContents(course)
		return &view, nil
	}
	view := form.CopyWithoutResultsButWithQuestionContents(course)
	return &view, nil
}

// GetQuizForm is the quiz counterpart of GetFeedbackForm.
func (s *ParticipationService) GetQuizForm(ctx context.Context, userID, courseID, formID string, results bool) (*model.QuizForm, error) {
	course, form, err := s.loadQuizForm(ctx, courseID, formID)
	if err != nil {
		return nil, err
	}

	if results {
		if err := s.requireOwner(course, userID); err != nil {
			return nil, err
		}
		view := form.CopyWithQuestionContents(course)
		return &view, nil
	}
	view := form.CopyWithoutResultsButWithQuestionContents(course)
	return &view, nil
}

// FindByConnectCode resolves a connect code to the running form it belongs
// to, in its redacted projection, so a participant can locate the session.
func (s *ParticipationService) FindByConnectCode(ctx context.Context, code int) (*model.LiveForm, error) {
	courses, err := s.courseRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}

	for _, course := range courses {
		for i := range course.FeedbackForms {
			form := &course.FeedbackForms[i]
			if form.ConnectCode == code && form.Status == model.FormStarted {
				view := form.CopyWithoutResultsButWithQuestionContents(course)
				return &model.LiveForm{Kind: model.LiveKindFeedback, CourseID: course.ID, Feedback: &view}, nil
			}
		}
		for i := range course.QuizForms {
			form := &course.QuizForms[i]
			if form.ConnectCode == code && form.Status == model.FormStarted {
				view := form.CopyWithoutResultsButWithQuestionContents(course)
				return &model.LiveForm{Kind: model.LiveKindQuiz, CourseID: course.ID, Quiz: &view}, nil
			}
		}
	}
	return nil, model.NewNotFoundError("form")
}

func (s *ParticipationService) requireOwner(course *model.Course, userID string) error {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return model.NewValidationError("userId", "invalid identifier")
	}
	if !course.IsOwner(uid) {
		return model.ErrNotOwner
	}
	return nil
}

func (s *ParticipationService) loadCourse(ctx context.Context, courseID string) (*model.Course, error) {
	cid, err := primitive.ObjectIDFromHex(courseID)
	if err != nil {
		return nil, model.NewValidationError("courseId", "invalid identifier")
	}
	course, err := s.courseRepo.GetByID(ctx, cid)
	if err != nil {
		return nil, fmt.Errorf("failed to load course: %w", err)
	}
	if course == nil {
		return nil, model.NewNotFoundError("course")
	}
	return course, nil
}

// loadForm finds a form of either kind and returns the shared form shape.
func (s *ParticipationService) loadForm(ctx context.Context, courseID, formID string) (*model.Course, *model.Form, error) {
	course, err := s.loadCourse(ctx, courseID)
	if err != nil {
		return nil, nil, err
	}
	fid, err := primitive.ObjectIDFromHex(formID)
	if err != nil {
		return nil, nil, model.NewValidationError("formId", "invalid identifier")
	}
	if feedback := course.FeedbackFormByID(fid); feedback != nil {
		return course, &feedback.Form, nil
	}
	if quiz := course.QuizFormByID(fid); quiz != nil {
		return course, &quiz.Form, nil
	}
	return nil, nil, model.NewNotFoundError("form")
}

func (s *ParticipationService) loadFeedbackForm(ctx context.Context, courseID, formID string) (*model.Course, *model.FeedbackForm, error) {
	course, err := s.loadCourse(ctx, courseID)
	if err != nil {
		return nil, nil, err
	}
	fid, err := primitive.ObjectIDFromHex(formID)
	if err != nil {
		return nil, nil, model.NewValidationError("formId", "invalid identifier")
	}
	form := course.FeedbackFormByID(fid)
	if form == nil {
		return nil, nil, model.NewNotFoundError("form")
	}
	return course, form, nil
}

func (s *ParticipationService) loadQuizForm(ctx context.Context, courseID, formID string) (*model.Course, *model.QuizForm, error) {
	course, err := s.loadCourse(ctx, courseID)
	if err != nil {
		return nil, nil, err
	}
	fid, err := primitive.ObjectIDFromHex(formID)
	if err != nil {
		return nil, nil, model.NewValidationError("formId", "invalid identifier")
	}
	form := course.QuizFormByID(fid)
	if form == nil {
		return nil, nil, model.NewNotFoundError("form")
	}
	return course, form, nil
}
