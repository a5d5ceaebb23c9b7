package service

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"log"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"liveform/internal/cache"
	"liveform/internal/model"
	"liveform/internal/repository"
)

// FormService creates, edits and runs the forms of a course. All mutations
// load the course document, transform it in memory and replace it as a whole.
type FormService struct {
	courseRepo repository.CourseRepo
	codes      cache.CodeCache
}

// NewFormService creates a new form service.
func NewFormService(courseRepo repository.CourseRepo, codes cache.CodeCache) *FormService {
	return &FormService{
		courseRepo: courseRepo,
		codes:      codes,
	}
}

// CreateFeedbackForm validates the definition, resolves its questions against
// the course's feedback bank and appends a new NOT_STARTED form. The whole
// course is persisted afterward; a failed entry aborts without persisting.
func (s *FormService) CreateFeedbackForm(ctx context.Context, userID, courseID string, def model.FormDefinition) (*model.FeedbackForm, error) {
	course, _, err := s.ownedCourse(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}

	form, err := s.buildFeedbackForm(ctx, course, def)
	if err != nil {
		return nil, err
	}

	course.AddFeedbackForm(*form)
	if err := s.courseRepo.Update(ctx, course); err != nil {
		s.releaseCode(ctx, form.ConnectCode)
		return nil, fmt.Errorf("failed to save course: %w", err)
	}
	return form, nil
}

// CreateQuizForm is the quiz counterpart of CreateFeedbackForm.
func (s *FormService) CreateQuizForm(ctx context.Context, userID, courseID string, def model.FormDefinition) (*model.QuizForm, error) {
	course, _, err := s.ownedCourse(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}

	form, err := s.buildQuizForm(ctx, course, def)
	if err != nil {
		return nil, err
	}

	course.AddQuizForm(*form)
	if err := s.courseRepo.Update(ctx, course); err != nil {
		s.releaseCode(ctx, form.ConnectCode)
		return nil, fmt.Errorf("failed to save course: %w", err)
	}
	return form, nil
}

// UpdateFeedbackForm edits the form carrying the given key, or creates it when
// the key is unknown. Resubmission is an edit: name and description are
// replaced, submitted questions are merged in additively, wrappers for
// questions missing from the resubmission are kept.
func (s *FormService) UpdateFeedbackForm(ctx context.Context, userID, courseID, formKey string, def model.FormDefinition) (*model.FeedbackForm, error) {
	course, _, err := s.ownedCourse(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}

	form := course.FeedbackFormByKey(formKey)
	if form == nil {
		def.Key = formKey
		created, err := s.buildFeedbackForm(ctx, course, def)
		if err != nil {
			return nil, err
		}
		course.AddFeedbackForm(*created)
		if err := s.courseRepo.Update(ctx, course); err != nil {
			s.releaseCode(ctx, created.ConnectCode)
			return nil, fmt.Errorf("failed to save course: %w", err)
		}
		return created, nil
	}

	if err := validateStruct(def); err != nil {
		return nil, err
	}
	form.Name = def.Name
	form.Description = def.Description
	for _, qDef := range def.Questions {
		questionID, err := findOrCreateFeedbackQuestion(course, qDef)
		if err != nil {
			return nil, err
		}
		if !form.HasQuestion(questionID) {
			form.Questions = append(form.Questions, model.NewQuestionWrapper(questionID))
		}
	}

	if err := s.courseRepo.Update(ctx, course); err != nil {
		return nil, fmt.Errorf("failed to save course: %w", err)
	}
	return form, nil
}

// UpdateQuizForm is the quiz counterpart of UpdateFeedbackForm.
func (s *FormService) UpdateQuizForm(ctx context.Context, userID, courseID, formKey string, def model.FormDefinition) (*model.QuizForm, error) {
	course, _, err := s.ownedCourse(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}

	form := course.QuizFormByKey(formKey)
	if form == nil {
		def.Key = formKey
		created, err := s.buildQuizForm(ctx, course, def)
		if err != nil {
			return nil, err
		}
		course.AddQuizForm(*created)
		if err := s.courseRepo.Update(ctx, course); err != nil {
			s.releaseCode(ctx, created.ConnectCode)
			return nil, fmt.Errorf("failed to save course: %w", err)
		}
		return created, nil
	}

	if err := validateStruct(def); err != nil {
		return nil, err
	}
	form.Name = def.Name
	form.Description = def.Description
	for _, qDef := range def.Questions {
		questionID, err := findOrCreateQuizQuestion(course, qDef)
		if err != nil {
			return nil, err
		}
		if !form.HasQuestion(questionID) {
			form.Questions = append(form.Questions, model.NewQuestionWrapper(questionID))
		}
	}

	if err := s.courseRepo.Update(ctx, course); err != nil {
		return nil, fmt.Errorf("failed to save course: %w", err)
	}
	return form, nil
}

// StartForm transitions a form to STARTED, making it eligible for
// registration and answers.
func (s *FormService) StartForm(ctx context.Context, userID, courseID, formID string) error {
	return s.transition(ctx, userID, courseID, formID, func(f *model.Form) error {
		return f.Start()
	})
}

// FinishForm transitions a form to FINISHED and releases its connect-code
// reservation for reuse by future sessions.
func (s *FormService) FinishForm(ctx context.Context, userID, courseID, formID string) error {
	var code int
	err := s.transition(ctx, userID, courseID, formID, func(f *model.Form) error {
		if err := f.Finish(); err != nil {
			return err
		}
		code = f.ConnectCode
		return nil
	})
	if err != nil {
		return err
	}
	if s.codes != nil {
		if err := s.codes.Release(ctx, code); err != nil {
			return fmt.Errorf("failed to release connect code: %w", err)
		}
	}
	return nil
}

func (s *FormService) transition(ctx context.Context, userID, courseID, formID string, fn func(*model.Form) error) error {
	course, _, err := s.ownedCourse(ctx, userID, courseID)
	if err != nil {
		return err
	}

	fid, err := primitive.ObjectIDFromHex(formID)
	if err != nil {
		return model.NewValidationError("formId", "invalid identifier")
	}

	var form *model.Form
	if feedback := course.FeedbackFormByID(fid); feedback != nil {
		form = &feedback.Form
	} else if quiz := course.QuizFormByID(fid); quiz != nil {
		form = &quiz.Form
	} else {
		return model.NewNotFoundError("form")
	}

	if err := fn(form); err != nil {
		return err
	}
	return s.courseRepo.Update(ctx, course)
}

func (s *FormService) buildFeedbackForm(ctx context.Context, course *model.Course, def model.FormDefinition) (*model.FeedbackForm, error) {
	if err := validateStruct(def); err != nil {
		return nil, err
	}

	questionIDs := make([]primitive.ObjectID, 0, len(def.Questions))
	for _, qDef := range def.Questions {
		questionID, err := findOrCreateFeedbackQuestion(course, qDef)
		if err != nil {
			return nil, err
		}
		questionIDs = append(questionIDs, questionID)
	}

	code, err := s.allocateConnectCode(ctx, course)
	if err != nil {
		return nil, err
	}

	form := model.NewFeedbackForm(course.ID, def.Name, def.Description, wrap(questionIDs), code)
	form.Key = formKey(def.Key)
	return &form, nil
}

func (s *FormService) buildQuizForm(ctx context.Context, course *model.Course, def model.FormDefinition) (*model.QuizForm, error) {
	if err := validateStruct(def); err != nil {
		return nil, err
	}

	questionIDs := make([]primitive.ObjectID, 0, len(def.Questions))
	for _, qDef := range def.Questions {
		questionID, err := findOrCreateQuizQuestion(course, qDef)
		if err != nil {
			return nil, err
		}
		questionIDs = append(questionIDs, questionID)
	}

	code, err := s.allocateConnectCode(ctx, course)
	if err != nil {
		return nil, err
	}

	form := model.NewQuizForm(course.ID, def.Name, def.Description, wrap(questionIDs), code)
	form.Key = formKey(def.Key)
	return &form, nil
}

// wrap builds one wrapper per submitted question entry, preserving submission
// order. Entries that resolved to the same bank question share its identifier.
func wrap(questionIDs []primitive.ObjectID) []model.QuestionWrapper {
	wrappers := make([]model.QuestionWrapper, 0, len(questionIDs))
	for _, id := range questionIDs {
		wrappers = append(wrappers, model.NewQuestionWrapper(id))
	}
	return wrappers
}

func formKey(key string) string {
	if key != "" {
		return key
	}
	return primitive.NewObjectID().Hex()
}

// allocateConnectCode draws a 6-digit code until it is free among the course's
// running forms and, when Redis is available, reserved across instances.
// The code stays with the form for its whole life.
func (s *FormService) allocateConnectCode(ctx context.Context, course *model.Course) (int, error) {
	for attempts := 0; attempts < 10; attempts++ {
		var buf [4]byte
		if _, err := rand.Read(buf[:]); err != nil {
			return 0, err
		}
		code := 100000 + int(binary.BigEndian.Uint32(buf[:])%900000)

		if course.ConnectCodeInUse(code) {
			continue
		}
		if s.codes != nil {
			reserved, err := s.codes.Reserve(ctx, code)
			if err != nil {
				return 0, fmt.Errorf("failed to reserve connect code: %w", err)
			}
			if !reserved {
				continue
			}
		}
		return code, nil
	}
	return 0, fmt.Errorf("failed to allocate a unique connect code")
}

// releaseCode frees the reservation of a form that was never persisted.
// Best effort: a failed release only delays reuse until manual cleanup.
func (s *FormService) releaseCode(ctx context.Context, code int) {
	if s.codes == nil {
		return
	}
	if err := s.codes.Release(ctx, code); err != nil {
		log.Printf("failed to release connect code %06d: %v", code, err)
	}
}

// releaseCodes frees the reservations of a batch of unpersisted forms.
func (s *FormService) releaseCodes(ctx context.Context, codes []int) {
	for _, code := range codes {
		s.releaseCode(ctx, code)
	}
}

// ownedCourse loads the course and checks ownership. Nothing is mutated or
// persisted when the caller is not an owner.
func (s *FormService) ownedCourse(ctx context.Context, userID, courseID string) (*model.Course, primitive.ObjectID, error) {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, primitive.NilObjectID, model.NewValidationError("userId", "invalid identifier")
	}
	cid, err := primitive.ObjectIDFromHex(courseID)
	if err != nil {
		return nil, primitive.NilObjectID, model.NewValidationError("courseId", "invalid identifier")
	}

	course, err := s.courseRepo.GetByID(ctx, cid)
	if err != nil {
		return nil, primitive.NilObjectID, fmt.Errorf("failed to load course: %w", err)
	}
	if course == nil {
		return nil, primitive.NilObjectID, model.NewNotFoundError("course")
	}
	if !course.IsOwner(uid) {
		return nil, primitive.NilObjectID, model.ErrNotOwner
	}
	return course, uid, nil
}
