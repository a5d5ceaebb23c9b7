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

type ParticipationSuite struct {
	suite.Suite
	ctx     context.Context
	repo    *repository.InMemoryCourseRepo
	forms   *FormService
	service *ParticipationService

	ownerID  string
	courseID string
	quizID   string
	q1       primitive.ObjectID
	q2       primitive.ObjectID
}

func TestParticipationSuite(t *testing.T) {
	suite.Run(t, new(ParticipationSuite))
}

// SetupTest builds the scenario course: one owner, one quiz form with two
// single-choice questions whose correct answer is "A".
func (s *ParticipationSuite) SetupTest() {
	s.ctx = context.Background()
	s.repo = repository.NewInMemoryCourseRepo()
	s.forms = NewFormService(s.repo, cache.NewInMemoryCodeCache())
	s.service = NewParticipationService(s.repo)

	owner := primitive.NewObjectID()
	s.ownerID = owner.Hex()
	course := model.NewCourse("Algorithms101", "intro to algorithms", "algo-101")
	course.AddOwner(owner)
	s.Require().NoError(s.repo.Create(s.ctx, course))
	s.courseID = course.ID.Hex()

	quizQuestion := func(name string) model.QuestionDefinition {
		return model.QuestionDefinition{
			Name:              name,
			Description:       "choose well",
			Type:              string(model.QuizSingleChoice),
			Options:           []string{"A", "B"},
			HasCorrectAnswers: true,
			CorrectAnswers:    []string{"A"},
		}
	}
	quiz, err := s.forms.CreateQuizForm(s.ctx, s.ownerID, s.courseID, model.FormDefinition{
		Name:        "Midterm",
		Description: "midterm quiz",
		Questions:   []model.QuestionDefinition{quizQuestion("Q1"), quizQuestion("Q2")},
	})
	s.Require().NoError(err)
	s.quizID = quiz.ID.Hex()
	s.q1 = quiz.Questions[0].QuestionID
	s.q2 = quiz.Questions[1].QuestionID

	s.Require().NoError(s.forms.StartForm(s.ctx, s.ownerID, s.courseID, s.quizID))
}

func (s *ParticipationSuite) join(alias string) string {
	userID := primitive.NewObjectID().Hex()
	s.Require().NoError(s.service.Join(s.ctx, userID, s.courseID, s.quizID, alias))
	return userID
}

func (s *ParticipationSuite) TestJoinAliasConflict() {
	s.join("alice")

	other := primitive.NewObjectID().Hex()
	err := s.service.Join(s.ctx, other, s.courseID, s.quizID, "alice")
	s.Require().ErrorIs(err, model.ErrAliasTaken)
}

func (s *ParticipationSuite) TestJoinBeforeStartRejected() {
	quiz, err := s.forms.CreateQuizForm(s.ctx, s.ownerID, s.courseID, model.FormDefinition{
		Name:        "Final",
		Description: "final quiz",
		Questions: []model.QuestionDefinition{{
			Name:        "Q",
			Description: "d",
			Type:        string(model.QuizFulltext),
		}},
	})
	s.Require().NoError(err)

	var stateErr *model.InvalidStateError
	err = s.service.Join(s.ctx, primitive.NewObjectID().Hex(), s.courseID, quiz.ID.Hex(), "alice")
	s.Require().ErrorAs(err, &stateErr)
}

func (s *ParticipationSuite) TestScenarioTwoParticipants() {
	alice := s.join("alice")
	bob := s.join("bob")

	s.Require().NoError(s.service.SubmitAnswer(s.ctx, alice, s.courseID, s.quizID, s.q1.Hex(), []string{"A"}))
	s.Require().NoError(s.service.SubmitAnswer(s.ctx, bob, s.courseID, s.quizID, s.q1.Hex(), []string{"A"}))

	// owner view: both answers visible, correct answer marked
	ownerView, err := s.service.GetQuizForm(s.ctx, s.ownerID, s.courseID, s.quizID, true)
	s.Require().NoError(err)
	first := ownerView.Questions[0]
	s.Require().Len(first.Results, 2)
	s.Equal([]string{"A"}, first.Results[0].Values)
	s.Equal([]string{"A"}, first.Results[1].Values)
	s.Require().NotNil(first.QuestionContent)
	s.Equal([]string{"A"}, first.QuestionContent.CorrectAnswers)

	// participant view: same question text, no answers attached
	participantView, err := s.service.GetQuizForm(s.ctx, alice, s.courseID, s.quizID, false)
	s.Require().NoError(err)
	s.Equal(first.QuestionContent.Name, participantView.Questions[0].QuestionContent.Name)
	s.Empty(participantView.Questions[0].Results)
}

func (s *ParticipationSuite) TestResultsViewRequiresOwner() {
	alice := s.join("alice")
	_, err := s.service.GetQuizForm(s.ctx, alice, s.courseID, s.quizID, true)
	s.Require().ErrorIs(err, model.ErrNotOwner)
}

func (s *ParticipationSuite) TestSubmitAnswerUnknownParticipant() {
	var notFoundErr *model.NotFoundError
	err := s.service.SubmitAnswer(s.ctx, primitive.NewObjectID().Hex(), s.courseID, s.quizID, s.q1.Hex(), []string{"A"})
	s.Require().ErrorAs(err, &notFoundErr)
	s.Equal("participant", notFoundErr.Resource)
}

func (s *ParticipationSuite) TestAttemptCounterPersists() {
	alice := s.join("alice")
	s.Require().NoError(s.service.SubmitAnswer(s.ctx, alice, s.courseID, s.quizID, s.q1.Hex(), []string{"B"}))
	s.Require().NoError(s.service.SubmitAnswer(s.ctx, alice, s.courseID, s.quizID, s.q2.Hex(), []string{"A"}))

	view, err := s.service.GetQuizForm(s.ctx, s.ownerID, s.courseID, s.quizID, true)
	s.Require().NoError(err)
	s.Equal(2, view.AttemptCount)
}

func (s *ParticipationSuite) TestFindByConnectCode() {
	course, err := s.repo.GetByID(s.ctx, mustObjectID(s.courseID))
	s.Require().NoError(err)
	code := course.QuizForms[0].ConnectCode

	live, err := s.service.FindByConnectCode(s.ctx, code)
	s.Require().NoError(err)
	s.Equal(model.LiveKindQuiz, live.Kind)
	s.Require().NotNil(live.Quiz)
	s.Equal(s.quizID, live.Quiz.ID.Hex())
	s.Empty(live.Quiz.Questions[0].Results)

	var notFoundErr *model.NotFoundError
	_, err = s.service.FindByConnectCode(s.ctx, 1)
	s.Require().ErrorAs(err, &notFoundErr)
}

// TestAliasRaceOnSeparateSnapshots documents the lost-update window: alias
// uniqueness is checked against the snapshot each request loaded, and saves
// replace the whole document, so two registrations racing on separate copies
// both pass the check and the later save wins.
func (s *ParticipationSuite) TestAliasRaceOnSeparateSnapshots() {
	courseID := mustObjectID(s.courseID)
	formID := mustObjectID(s.quizID)

	copy1, err := s.repo.GetByID(s.ctx, courseID)
	s.Require().NoError(err)
	copy2, err := s.repo.GetByID(s.ctx, courseID)
	s.Require().NoError(err)

	p1 := primitive.NewObjectID()
	p2 := primitive.NewObjectID()
	s.Require().NoError(copy1.QuizFormByID(formID).AddParticipant(p1, "X"))
	s.Require().NoError(copy2.QuizFormByID(formID).AddParticipant(p2, "X"))

	s.Require().NoError(s.repo.Update(s.ctx, copy1))
	s.Require().NoError(s.repo.Update(s.ctx, copy2))

	// the second save silently replaced the first registration
	final, err := s.repo.GetByID(s.ctx, courseID)
	s.Require().NoError(err)
	participants := final.QuizFormByID(formID).Participants
	s.Require().Len(participants, 1)
	s.Equal(p2, participants[0].UserID)
}

func mustObjectID(hex string) primitive.ObjectID {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		panic(err)
	}
	return id
}
