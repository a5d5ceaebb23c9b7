package service

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"liveform/internal/model"
)

var validate = validator.New()

// validateStruct runs tag validation and converts the first failure into a
// field-named ValidationError.
func validateStruct(v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		field := strings.ToLower(fe.Field()[:1]) + fe.Field()[1:]
		if fe.Tag() == "min" {
			return model.NewValidationError(field, "must have at least "+fe.Param()+" entries")
		}
		return model.NewValidationError(field, "must not be empty")
	}
	return model.NewValidationError("request", "malformed input")
}

// findOrCreateFeedbackQuestion resolves a submitted question entry against the
// course's feedback question bank. Two submissions with the same name and
// description are the same logical question: the existing entry is reused as-is
// and any type or option differences in the new submission are ignored.
func findOrCreateFeedbackQuestion(course *model.Course, def model.QuestionDefinition) (primitive.ObjectID, error) {
	if def.Name == "" {
		return primitive.NilObjectID, model.NewValidationError("name", "must not be empty")
	}
	if def.Description == "" {
		return primitive.NilObjectID, model.NewValidationError("description", "must not be empty")
	}

	qType := model.FeedbackQuestionType(def.Type)
	if !qType.Valid() {
		return primitive.NilObjectID, model.NewValidationError("type", "unrecognized feedback question type")
	}
	if qType.NeedsOptions() && len(def.Options) < 2 {
		return primitive.NilObjectID, model.NewValidationError("options", "choice questions need at least two options")
	}

	if existing := course.FeedbackQuestionByIdentity(def.Name, def.Description); existing != nil {
		return existing.ID, nil
	}

	question := model.NewFeedbackQuestion(def.Name, def.Description, qType, def.Options)
	question.Key = def.Key
	course.AddFeedbackQuestion(question)
	return question.ID, nil
}

// findOrCreateQuizQuestion is the quiz-bank counterpart of
// findOrCreateFeedbackQuestion.
func findOrCreateQuizQuestion(course *model.Course, def model.QuestionDefinition) (primitive.ObjectID, error) {
	if def.Name == "" {
		return primitive.NilObjectID, model.NewValidationError("name", "must not be empty")
	}
	if def.Description == "" {
		return primitive.NilObjectID, model.NewValidationError("description", "must not be empty")
	}

	qType := model.QuizQuestionType(def.Type)
	if !qType.Valid() {
		return primitive.NilObjectID, model.NewValidationError("type", "unrecognized quiz question type")
	}
	if qType.NeedsOptions() && len(def.Options) < 2 {
		return primitive.NilObjectID, model.NewValidationError("options", "choice questions need at least two options")
	}

	if existing := course.QuizQuestionByIdentity(def.Name, def.Description); existing != nil {
		return existing.ID, nil
	}

	question := model.NewQuizQuestion(def.Name, def.Description, qType, def.Options, def.HasCorrectAnswers, def.CorrectAnswers)
	question.Key = def.Key
	course.AddQuizQuestion(question)
	return question.ID, nil
}
