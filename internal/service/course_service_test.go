package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"liveform/internal/cache"
	"liveform/internal/model"
	"liveform/internal/repository"
)

type CourseServiceSuite struct {
	suite.Suite
	ctx     context.Context
	repo    *repository.InMemoryCourseRepo
	service *CourseService
	ownerID string
}

func TestCourseServiceSuite(t *testing.T) {
	suite.Run(t, new(CourseServiceSuite))
}

func (s *CourseServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.repo = repository.NewInMemoryCourseRepo()
	s.service = NewCourseService(s.repo, NewFormService(s.repo, cache.NewInMemoryCodeCache()))
	s.ownerID = primitive.NewObjectID().Hex()
}

func courseDef(key string) model.CourseDefinition {
	return model.CourseDefinition{
		Name:        "Algorithms101",
		Description: "intro to algorithms",
		Key:         key,
	}
}

func (s *CourseServiceSuite) TestCreateCourse() {
	course, err := s.service.CreateCourse(s.ctx, s.ownerID, courseDef("algo-101"))
	s.Require().NoError(err)

	s.Equal("Algorithms101", course.Name)
	s.Equal("algo-101", course.Key)
	s.Require().Len(course.Owners, 1)
	s.Equal(s.ownerID, course.Owners[0].Hex())

	stored, err := s.repo.GetByKey(s.ctx, "algo-101")
	s.Require().NoError(err)
	s.Require().NotNil(stored)
	s.Equal(course.ID, stored.ID)
}

func (s *CourseServiceSuite) TestCreateCourseWithNestedForms() {
	def := courseDef("algo-101")
	def.FeedbackForms = []model.FormDefinition{{
		Name:        "Weekly",
		Description: "weekly feedback",
		Key:         "weekly",
		Questions: []model.QuestionDefinition{{
			Name: "Pace", Description: "rate it", Type: string(model.FeedbackSlider),
		}},
	}}
	def.QuizForms = []model.FormDefinition{{
		Name:        "Midterm",
		Description: "midterm quiz",
		Key:         "midterm",
		Questions: []model.QuestionDefinition{{
			Name: "Q1", Description: "pick one", Type: string(model.QuizSingleChoice),
			Options: []string{"A", "B"}, HasCorrectAnswers: true, CorrectAnswers: []string{"A"},
		}},
	}}

	course, err := s.service.CreateCourse(s.ctx, s.ownerID, def)
	s.Require().NoError(err)
	s.Require().Len(course.FeedbackForms, 1)
	s.Require().Len(course.QuizForms, 1)
	s.Equal("weekly", course.FeedbackForms[0].Key)
	s.Equal(model.FormNotStarted, course.FeedbackForms[0].Status)
	s.Len(course.FeedbackQuestions, 1)
	s.Len(course.QuizQuestions, 1)
}

func (s *CourseServiceSuite) TestCreateCourseValidation() {
	var validationErr *model.ValidationError
	def := courseDef("")
	_, err := s.service.CreateCourse(s.ctx, s.ownerID, def)
	s.Require().ErrorAs(err, &validationErr)
	s.Equal("key", validationErr.Field)
}

func (s *CourseServiceSuite) TestImportCreatesUnknownKeys() {
	courses, err := s.service.ImportCourses(s.ctx, s.ownerID, []model.CourseDefinition{
		courseDef("algo-101"),
		{Name: "Databases", Description: "db course", Key: "db-201"},
	})
	s.Require().NoError(err)
	s.Require().Len(courses, 2)

	all, err := s.repo.ListAll(s.ctx)
	s.Require().NoError(err)
	s.Len(all, 2)
}

func (s *CourseServiceSuite) TestImportMergesExisting() {
	def := courseDef("algo-101")
	def.FeedbackForms = []model.FormDefinition{{
		Name:        "Weekly",
		Description: "weekly feedback",
		Key:         "weekly",
		Questions: []model.QuestionDefinition{{
			Name: "Pace", Description: "rate it", Type: string(model.FeedbackSlider),
		}},
	}}
	created, err := s.service.CreateCourse(s.ctx, s.ownerID, def)
	s.Require().NoError(err)
	originalFormID := created.FeedbackForms[0].ID

	// reimport with changed metadata and one extra question on the same form
	update := def
	update.Name = "Algorithms102"
	update.FeedbackForms = []model.FormDefinition{{
		Name:        "Weekly v2",
		Description: "updated",
		Key:         "weekly",
		Questions: []model.QuestionDefinition{
			{Name: "Pace", Description: "rate it", Type: string(model.FeedbackSlider)},
			{Name: "Clarity", Description: "rate it", Type: string(model.FeedbackSlider)},
		},
	}}
	courses, err := s.service.ImportCourses(s.ctx, s.ownerID, []model.CourseDefinition{update})
	s.Require().NoError(err)
	s.Require().Len(courses, 1)

	merged := courses[0]
	s.Equal(created.ID, merged.ID)
	s.Equal("Algorithms102", merged.Name)
	s.Require().Len(merged.FeedbackForms, 1)
	s.Equal(originalFormID, merged.FeedbackForms[0].ID)
	s.Equal("Weekly v2", merged.FeedbackForms[0].Name)
	s.Len(merged.FeedbackForms[0].Questions, 2)
	s.Len(merged.FeedbackQuestions, 2)
}

func (s *CourseServiceSuite) TestImportRejectsForeignCourse() {
	_, err := s.service.CreateCourse(s.ctx, s.ownerID, courseDef("algo-101"))
	s.Require().NoError(err)

	stranger := primitive.NewObjectID().Hex()
	_, err = s.service.ImportCourses(s.ctx, stranger, []model.CourseDefinition{courseDef("algo-101")})
	s.Require().ErrorIs(err, model.ErrNotOwner)
}

func (s *CourseServiceSuite) TestListCoursesByOwner() {
	_, err := s.service.CreateCourse(s.ctx, s.ownerID, courseDef("algo-101"))
	s.Require().NoError(err)
	other := primitive.NewObjectID().Hex()
	_, err = s.service.CreateCourse(s.ctx, other, courseDef("db-201"))
	s.Require().NoError(err)

	mine, err := s.service.ListCourses(s.ctx, s.ownerID)
	s.Require().NoError(err)
	s.Require().Len(mine, 1)
	s.Equal("algo-101", mine[0].Key)
}

func (s *CourseServiceSuite) TestGetCourseNotFound() {
	var notFoundErr *model.NotFoundError
	_, err := s.service.GetCourse(s.ctx, primitive.NewObjectID().Hex())
	s.Require().ErrorAs(err, &notFoundErr)
	s.Equal("course", notFoundErr.Resource)
}
