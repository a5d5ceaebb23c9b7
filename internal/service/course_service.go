package service

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"liveform/internal/model"
	"liveform/internal/repository"
)

// CourseService handles course creation, lookup and bulk import.
type CourseService struct {
	courseRepo repository.CourseRepo
	forms      *FormService
}

// NewCourseService creates a new course service.
func NewCourseService(courseRepo repository.CourseRepo, forms *FormService) *CourseService {
	return &CourseService{
		courseRepo: courseRepo,
		forms:      forms,
	}
}

// CreateCourse creates a course owned by the calling user, including any
// nested form definitions.
func (s *CourseService) CreateCourse(ctx context.Context, userID string, def model.CourseDefinition) (*model.Course, error) {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, model.NewValidationError("userId", "invalid identifier")
	}
	if err := validateStruct(def); err != nil {
		return nil, err
	}

	course := model.NewCourse(def.Name, def.Description, def.Key)
	course.AddOwner(uid)

	codes, err := s.applyForms(ctx, course, def)
	if err != nil {
		return nil, err
	}

	if err := s.courseRepo.Create(ctx, course); err != nil {
		s.forms.releaseCodes(ctx, codes)
		return nil, fmt.Errorf("failed to save course: %w", err)
	}
	return course, nil
}

// ImportCourses creates or updates one course per definition, matched by
// course key. Updates merge: metadata is replaced, forms are matched by key
// and merged additively, unmatched existing forms are kept.
func (s *CourseService) ImportCourses(ctx context.Context, userID string, defs []model.CourseDefinition) ([]*model.Course, error) {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, model.NewValidationError("userId", "invalid identifier")
	}

	courses := make([]*model.Course, 0, len(defs))
	for _, def := range defs {
		if err := validateStruct(def); err != nil {
			return nil, err
		}

		existing, err := s.courseRepo.GetByKey(ctx, def.Key)
		if err != nil {
			return nil, fmt.Errorf("failed to load course: %w", err)
		}

		if existing == nil {
			course, err := s.CreateCourse(ctx, userID, def)
			if err != nil {
				return nil, err
			}
			courses = append(courses, course)
			continue
		}

		if !existing.IsOwner(uid) {
			return nil, model.ErrNotOwner
		}
		existing.Name = def.Name
		existing.Description = def.Description
		codes, err := s.applyForms(ctx, existing, def)
		if err != nil {
			return nil, err
		}
		if err := s.courseRepo.Update(ctx, existing); err != nil {
			s.forms.releaseCodes(ctx, codes)
			return nil, fmt.Errorf("failed to save course: %w", err)
		}
		courses = append(courses, existing)
	}
	return courses, nil
}

// applyForms folds the definition's nested forms into the course, creating
// forms for unknown keys and merging into existing ones. It returns the connect
// codes reserved for newly built forms so callers can release them when a later
// step fails; a failed build releases the batch itself.
func (s *CourseService) applyForms(ctx context.Context, course *model.Course, def model.CourseDefinition) ([]int, error) {
	var codes []int
	for _, formDef := range def.FeedbackForms {
		if existing := course.FeedbackFormByKey(formDef.Key); existing != nil && formDef.Key != "" {
			if err := mergeFeedbackForm(course, existing, formDef); err != nil {
				s.forms.releaseCodes(ctx, codes)
				return nil, err
			}
			continue
		}
		form, err := s.forms.buildFeedbackForm(ctx, course, formDef)
		if err != nil {
			s.forms.releaseCodes(ctx, codes)
			return nil, err
		}
		course.AddFeedbackForm(*form)
		codes = append(codes, form.ConnectCode)
	}
	for _, formDef := range def.QuizForms {
		if existing := course.QuizFormByKey(formDef.Key); existing != nil && formDef.Key != "" {
			if err := mergeQuizForm(course, existing, formDef); err != nil {
				s.forms.releaseCodes(ctx, codes)
				return nil, err
			}
			continue
		}
		form, err := s.forms.buildQuizForm(ctx, course, formDef)
		if err != nil {
			s.forms.releaseCodes(ctx, codes)
			return nil, err
		}
		course.AddQuizForm(*form)
		codes = append(codes, form.ConnectCode)
	}
	return codes, nil
}

func mergeFeedbackForm(course *model.Course, form *model.FeedbackForm, def model.FormDefinition) error {
	if err := validateStruct(def); err != nil {
		return err
	}
	form.Name = def.Name
	form.Description = def.Description
	for _, qDef := range def.Questions {
		questionID, err := findOrCreateFeedbackQuestion(course, qDef)
		if err != nil {
			return err
		}
		if !form.HasQuestion(questionID) {
			form.Questions = append(form.Questions, model.NewQuestionWrapper(questionID))
		}
	}
	return nil
}

func mergeQuizForm(course *model.Course, form *model.QuizForm, def model.FormDefinition) error {
	if err := validateStruct(def); err != nil {
		return err
	}
	form.Name = def.Name
	form.Description = def.Description
	for _, qDef := range def.Questions {
		questionID, err := findOrCreateQuizQuestion(course, qDef)
		if err != nil {
			return err
		}
		if !form.HasQuestion(questionID) {
			form.Questions = append(form.Questions, model.NewQuestionWrapper(questionID))
		}
	}
	return nil
}

// GetCourse returns one course by id.
func (s *CourseService) GetCourse(ctx context.Context, courseID string) (*model.Course, error) {
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

// ListCourses returns the courses owned by the user.
func (s *CourseService) ListCourses(ctx context.Context, userID string) ([]*model.Course, error) {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, model.NewValidationError("userId", "invalid identifier")
	}
	return s.courseRepo.ListByOwner(ctx, uid)
}
