package model

import "go.mongodb.org/mongo-driver/bson/primitive"

// Course is the aggregate root and sole unit of persistence: it owns the
// question banks and all forms drawing from them. Every wrapper inside the
// course's forms references a question present in one of the banks.
type Course struct {
	ID          primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	Name        string               `json:"name" bson:"name"`
	Description string               `json:"description" bson:"description"`
	Key         string               `json:"key" bson:"key"`
	Owners      []primitive.ObjectID `json:"owners" bson:"owners"`

	FeedbackForms     []FeedbackForm     `json:"feedbackForms" bson:"feedbackForms"`
	FeedbackQuestions []FeedbackQuestion `json:"feedbackQuestions" bson:"feedbackQuestions"`

	QuizForms     []QuizForm     `json:"quizForms" bson:"quizForms"`
	QuizQuestions []QuizQuestion `json:"quizQuestions" bson:"quizQuestions"`
}

// NewCourse creates an empty course.
func NewCourse(name, description, key string) *Course {
	return &Course{
		ID:                primitive.NewObjectID(),
		Name:              name,
		Description:       description,
		Key:               key,
		Owners:            []primitive.ObjectID{},
		FeedbackForms:     []FeedbackForm{},
		FeedbackQuestions: []FeedbackQuestion{},
		QuizForms:         []QuizForm{},
		QuizQuestions:     []QuizQuestion{},
	}
}

// AddOwner registers a user as course owner.
func (c *Course) AddOwner(userID primitive.ObjectID) {
	if c.IsOwner(userID) {
		return
	}
	c.Owners = append(c.Owners, userID)
}

// IsOwner reports whether userID owns the course.
func (c *Course) IsOwner(userID primitive.ObjectID) bool {
	for _, owner := range c.Owners {
		if owner == userID {
			return true
		}
	}
	return false
}

// feedback forms

func (c *Course) FeedbackFormByID(formID primitive.ObjectID) *FeedbackForm {
	for i := range c.FeedbackForms {
		if c.FeedbackForms[i].ID == formID {
			return &c.FeedbackForms[i]
		}
	}
	return nil
}

func (c *Course) FeedbackFormByKey(key string) *FeedbackForm {
	for i := range c.FeedbackForms {
		if c.FeedbackForms[i].Key == key {
			return &c.FeedbackForms[i]
		}
	}
	return nil
}

func (c *Course) AddFeedbackForm(form FeedbackForm) {
	c.FeedbackForms = append(c.FeedbackForms, form)
}

// feedback question bank

func (c *Course) FeedbackQuestionByID(questionID primitive.ObjectID) *FeedbackQuestion {
	for i := range c.FeedbackQuestions {
		if c.FeedbackQuestions[i].ID == questionID {
			return &c.FeedbackQuestions[i]
		}
	}
	return nil
}

// FeedbackQuestionByIdentity finds a bank entry by the (name, description)
// identity key.
func (c *Course) FeedbackQuestionByIdentity(name, description string) *FeedbackQuestion {
	for i := range c.FeedbackQuestions {
		if c.FeedbackQuestions[i].Name == name && c.FeedbackQuestions[i].Description == description {
			return &c.FeedbackQuestions[i]
		}
	}
	return nil
}

func (c *Course) AddFeedbackQuestion(question FeedbackQuestion) {
	c.FeedbackQuestions = append(c.FeedbackQuestions, question)
}

// quiz forms

func (c *Course) QuizFormByID(formID primitive.ObjectID) *QuizForm {
	for i := range c.QuizForms {
		if c.QuizForms[i].ID == formID {
			return &c.QuizForms[i]
		}
	}
	return nil
}

func (c *Course) QuizFormByKey(key string) *QuizForm {
	for i := range c.QuizForms {
		if c.QuizForms[i].Key == key {
			return &c.QuizForms[i]
		}
	}
	return nil
}

func (c *Course) AddQuizForm(form QuizForm) {
	c.QuizForms = append(c.QuizForms, form)
}

// quiz question bank

func (c *Course) QuizQuestionByID(questionID primitive.ObjectID) *QuizQuestion {
	for i := range c.QuizQuestions {
		if c.QuizQuestions[i].ID == questionID {
			return &c.QuizQuestions[i]
		}
	}
	return nil
}

// QuizQuestionByIdentity finds a bank entry by the (name, description)
// identity key.
func (c *Course) QuizQuestionByIdentity(name, description string) *QuizQuestion {
	for i := range c.QuizQuestions {
		if c.QuizQuestions[i].Name == name && c.QuizQuestions[i].Description == description {
			return &c.QuizQuestions[i]
		}
	}
	return nil
}

func (c *Course) AddQuizQuestion(question QuizQuestion) {
	c.QuizQuestions = append(c.QuizQuestions, question)
}

// ConnectCodeInUse reports whether a currently running form of this course
// already holds the code.
func (c *Course) ConnectCodeInUse(code int) bool {
	for i := range c.FeedbackForms {
		if c.FeedbackForms[i].ConnectCode == code && c.FeedbackForms[i].Status == FormStarted {
			return true
		}
	}
	for i := range c.QuizForms {
		if c.QuizForms[i].ConnectCode == code && c.QuizForms[i].Status == FormStarted {
			return true
		}
	}
	return false
}
