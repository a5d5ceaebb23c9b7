package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"liveform/internal/cache"
	"liveform/internal/model"
	"liveform/internal/repository"
)

type FormServiceSuite struct {
	suite.Suite
	ctx     context.Context
	repo    *repository.InMemoryCourseRepo
	codes   *cache.InMemoryCodeCache
	service *FormService
	ownerID string
	course  *model.Course
}

func TestFormServiceSuite(t *testing.T) {
	suite.Run(t, new(FormServiceSuite))
}

func (s *FormServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.repo = repository.NewInMemoryCourseRepo()
	s.codes = cache.NewInMemoryCodeCache()
	s.service = NewFormService(s.repo, s.codes)

	ownerID := primitive.NewObjectID()
	s.ownerID = ownerID.Hex()
	s.course = model.NewCourse("Algorithms101", "intro to algorithms", "algo-101")
	s.course.AddOwner(ownerID)
	s.Require().NoError(s.repo.Create(s.ctx, s.course))
}

func (s *FormServiceSuite) courseID() string {
	return s.course.ID.Hex()
}

func (s *FormServiceSuite) reload() *model.Course {
	course, err := s.repo.GetByID(s.ctx, s.course.ID)
	s.Require().NoError(err)
	s.Require().NotNil(course)
	return course
}

func feedbackDef(questions ...model.QuestionDefinition) model.FormDefinition {
	return model.FormDefinition{
		Name:        "Weekly Feedback",
		Description: "how was the week",
		Questions:   questions,
	}
}

func sliderQuestion(name string) model.QuestionDefinition {
	return model.QuestionDefinition{
		Name:        name,
		Description: "rate it",
		Type:        string(model.FeedbackSlider),
	}
}

func (s *FormServiceSuite) TestCreateFeedbackForm() {
	form, err := s.service.CreateFeedbackForm(s.ctx, s.ownerID, s.courseID(), feedbackDef(sliderQuestion("Pace")))
	s.Require().NoError(err)

	s.Equal(model.FormNotStarted, form.Status)
	s.Len(form.Questions, 1)
	s.Empty(form.Participants)
	s.NotEmpty(form.Key)
	s.GreaterOrEqual(form.ConnectCode, 100000)
	s.LessOrEqual(form.ConnectCode, 999999)

	course := s.reload()
	s.Len(course.FeedbackForms, 1)
	s.Len(course.FeedbackQuestions, 1)
	s.Equal(course.FeedbackQuestions[0].ID, course.FeedbackForms[0].Questions[0].QuestionID)
}

func (s *FormServiceSuite) TestQuestionReuseByIdentity() {
	_, err := s.service.CreateFeedbackForm(s.ctx, s.ownerID, s.courseID(), feedbackDef(sliderQuestion("Pace")))
	s.Require().NoError(err)

	// same (name, description) in a second form reuses the bank entry even
	// though type and options differ
	reused := model.QuestionDefinition{
		Name:        "Pace",
		Description: "rate it",
		Type:        string(model.FeedbackStars),
	}
	second, err := s.service.CreateFeedbackForm(s.ctx, s.ownerID, s.courseID(), feedbackDef(reused))
	s.Require().NoError(err)

	course := s.reload()
	s.Len(course.FeedbackQuestions, 1)
	s.Equal(course.FeedbackQuestions[0].ID, second.Questions[0].QuestionID)
	s.Equal(model.FeedbackSlider, course.FeedbackQuestions[0].Type)
}

func (s *FormServiceSuite) TestDuplicateEntriesShareOneBankEntry() {
	def := feedbackDef(sliderQuestion("Pace"), sliderQuestion("Pace"))
	form, err := s.service.CreateFeedbackForm(s.ctx, s.ownerID, s.courseID(), def)
	s.Require().NoError(err)

	s.Len(form.Questions, 2)
	s.Equal(form.Questions[0].QuestionID, form.Questions[1].QuestionID)
	s.Len(s.reload().FeedbackQuestions, 1)
}

func (s *FormServiceSuite) TestChoiceOptionMinimum() {
	choice := model.QuestionDefinition{
		Name:        "Format",
		Description: "preferred format",
		Type:        string(model.FeedbackSingleChoice),
		Options:     []string{"online"},
	}
	_, err := s.service.CreateFeedbackForm(s.ctx, s.ownerID, s.courseID(), feedbackDef(choice))
	var validationErr *model.ValidationError
	s.Require().ErrorAs(err, &validationErr)
	s.Equal("options", validationErr.Field)

	choice.Options = []string{"online", "in person"}
	_, err = s.service.CreateFeedbackForm(s.ctx, s.ownerID, s.courseID(), feedbackDef(choice))
	s.NoError(err)
}

func (s *FormServiceSuite) TestCreateValidation() {
	var validationErr *model.ValidationError

	def := feedbackDef(sliderQuestion("Pace"))
	def.Name = ""
	_, err := s.service.CreateFeedbackForm(s.ctx, s.ownerID, s.courseID(), def)
	s.Require().ErrorAs(err, &validationErr)
	s.Equal("name", validationErr.Field)

	def = feedbackDef()
	_, err = s.service.CreateFeedbackForm(s.ctx, s.ownerID, s.courseID(), def)
	s.Require().ErrorAs(err, &validationErr)
	s.Equal("questions", validationErr.Field)

	bad := sliderQuestion("Pace")
	bad.Type = "GAUGE"
	_, err = s.service.CreateFeedbackForm(s.ctx, s.ownerID, s.courseID(), feedbackDef(bad))
	s.Require().ErrorAs(err, &validationErr)
	s.Equal("type", validationErr.Field)
}

func (s *FormServiceSuite) TestNonOwnerCannotMutate() {
	stranger := primitive.NewObjectID().Hex()
	_, err := s.service.CreateFeedbackForm(s.ctx, stranger, s.courseID(), feedbackDef(sliderQuestion("Pace")))
	s.Require().ErrorIs(err, model.ErrNotOwner)

	// rejected before any mutation: bank and form list untouched
	course := s.reload()
	s.Empty(course.FeedbackForms)
	s.Empty(course.FeedbackQuestions)
}

func (s *FormServiceSuite) TestFailedQuestionAbortsWholeCreation() {
	bad := model.QuestionDefinition{
		Name:        "Format",
		Description: "preferred format",
		Type:        string(model.FeedbackSingleChoice),
		Options:     []string{"only one"},
	}
	_, err := s.service.CreateFeedbackForm(s.ctx, s.ownerID, s.courseID(), feedbackDef(sliderQuestion("Pace"), bad))
	s.Require().Error(err)

	// nothing persisted, not even the valid first question
	course := s.reload()
	s.Empty(course.FeedbackForms)
	s.Empty(course.FeedbackQuestions)
}

func (s *FormServiceSuite) TestUpdateMergesAdditively() {
	created, err := s.service.CreateFeedbackForm(s.ctx, s.ownerID, s.courseID(),
		feedbackDef(sliderQuestion("Pace"), sliderQuestion("Clarity")))
	s.Require().NoError(err)

	update := model.FormDefinition{
		Name:        "Weekly Feedback v2",
		Description: "updated",
		Questions:   []model.QuestionDefinition{sliderQuestion("Workload")},
	}
	updated, err := s.service.UpdateFeedbackForm(s.ctx, s.ownerID, s.courseID(), created.Key, update)
	s.Require().NoError(err)

	// name and description replaced, old wrappers kept, new one appended
	s.Equal("Weekly Feedback v2", updated.Name)
	s.Len(updated.Questions, 3)
	s.Equal(created.ID, updated.ID)
	s.Equal(created.ConnectCode, updated.ConnectCode)

	course := s.reload()
	s.Len(course.FeedbackQuestions, 3)
}

func (s *FormServiceSuite) TestUpdateUnknownKeyCreates() {
	form, err := s.service.UpdateFeedbackForm(s.ctx, s.ownerID, s.courseID(), "fresh-key",
		feedbackDef(sliderQuestion("Pace")))
	s.Require().NoError(err)
	s.Equal("fresh-key", form.Key)
	s.Len(s.reload().FeedbackForms, 1)
}

func (s *FormServiceSuite) TestQuizFormCreation() {
	def := model.FormDefinition{
		Name:        "Midterm",
		Description: "midterm quiz",
		Questions: []model.QuestionDefinition{{
			Name:              "Q1",
			Description:       "pick the best",
			Type:              string(model.QuizSingleChoice),
			Options:           []string{"A", "B"},
			HasCorrectAnswers: true,
			CorrectAnswers:    []string{"A"},
		}},
	}
	form, err := s.service.CreateQuizForm(s.ctx, s.ownerID, s.courseID(), def)
	s.Require().NoError(err)
	s.Equal(model.FormNotStarted, form.Status)
	s.Zero(form.AttemptCount)
	s.False(form.ShowCorrectAnswers)

	course := s.reload()
	s.Require().Len(course.QuizQuestions, 1)
	s.True(course.QuizQuestions[0].HasCorrectAnswers)
	s.Equal([]string{"A"}, course.QuizQuestions[0].CorrectAnswers)
}

func (s *FormServiceSuite) TestStartAndFinish() {
	form, err := s.service.CreateFeedbackForm(s.ctx, s.ownerID, s.courseID(), feedbackDef(sliderQuestion("Pace")))
	s.Require().NoError(err)
	formID := form.ID.Hex()

	s.Require().NoError(s.service.StartForm(s.ctx, s.ownerID, s.courseID(), formID))
	s.Equal(model.FormStarted, s.reload().FeedbackForms[0].Status)

	var stateErr *model.InvalidStateError
	s.Require().ErrorAs(s.service.StartForm(s.ctx, s.ownerID, s.courseID(), formID), &stateErr)

	s.Require().NoError(s.service.FinishForm(s.ctx, s.ownerID, s.courseID(), formID))
	s.Equal(model.FormFinished, s.reload().FeedbackForms[0].Status)

	// the finished form keeps its connect code but the reservation is freed
	s.Equal(form.ConnectCode, s.reload().FeedbackForms[0].ConnectCode)
	reserved, err := s.codes.Reserve(s.ctx, form.ConnectCode)
	s.Require().NoError(err)
	s.True(reserved)
}

func (s *FormServiceSuite) TestConnectCodesReserved() {
	first, err := s.service.CreateFeedbackForm(s.ctx, s.ownerID, s.courseID(), feedbackDef(sliderQuestion("Pace")))
	s.Require().NoError(err)
	second, err := s.service.CreateFeedbackForm(s.ctx, s.ownerID, s.courseID(), feedbackDef(sliderQuestion("Clarity")))
	s.Require().NoError(err)

	s.NotEqual(first.ConnectCode, second.ConnectCode)

	reserved, err := s.codes.Reserve(s.ctx, first.ConnectCode)
	s.Require().NoError(err)
	s.False(reserved, "code should still be reserved while the form lives")
}

// failingUpdateRepo makes every save fail while recording the rejected
// document, so tests can inspect what the service tried to persist.
type failingUpdateRepo struct {
	*repository.InMemoryCourseRepo
	lastUpdate *model.Course
}

func (r *failingUpdateRepo) Update(ctx context.Context, course *model.Course) error {
	r.lastUpdate = course
	return errors.New("replace failed")
}

func (s *FormServiceSuite) TestFailedSaveReleasesConnectCode() {
	repo := &failingUpdateRepo{InMemoryCourseRepo: s.repo}
	service := NewFormService(repo, s.codes)

	_, err := service.CreateFeedbackForm(s.ctx, s.ownerID, s.courseID(), feedbackDef(sliderQuestion("Pace")))
	s.Require().Error(err)

	// the code reserved for the unsaved form is free again
	s.Require().NotNil(repo.lastUpdate)
	s.Require().Len(repo.lastUpdate.FeedbackForms, 1)
	code := repo.lastUpdate.FeedbackForms[0].ConnectCode
	reserved, reserveErr := s.codes.Reserve(s.ctx, code)
	s.Require().NoError(reserveErr)
	s.True(reserved)
}

func (s *FormServiceSuite) TestStartUnknownForm() {
	var notFoundErr *model.NotFoundError
	err := s.service.StartForm(s.ctx, s.ownerID, s.courseID(), primitive.NewObjectID().Hex())
	s.Require().ErrorAs(err, &notFoundErr)
	s.Equal("form", notFoundErr.Resource)
}
