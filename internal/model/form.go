package model

import "go.mongodb.org/mongo-driver/bson/primitive"

// FormStatus is the lifecycle state of a form session
type FormStatus string

const (
	FormNotStarted FormStatus = "NOT_STARTED"
	FormStarted    FormStatus = "STARTED"
	FormFinished   FormStatus = "FINISHED"
)

// Valid reports whether s is a recognized form status.
func (s FormStatus) Valid() bool {
	switch s {
	case FormNotStarted, FormStarted, FormFinished:
		return true
	}
	return false
}

// Participant is one registered session member and the alias they picked.
type Participant struct {
	UserID primitive.ObjectID `json:"userId" bson:"userId"`
	Alias  string             `json:"alias" bson:"alias"`
}

// Form is the shape shared by feedback and quiz forms: an ordered question set,
// a session lifecycle, a stable connect code and a participant registry.
type Form struct {
	ID           primitive.ObjectID `json:"id" bson:"id"`
	CourseID     primitive.ObjectID `json:"courseId" bson:"courseId"`
	Name         string             `json:"name" bson:"name"`
	Description  string             `json:"description" bson:"description"`
	Key          string             `json:"key" bson:"key"`
	ConnectCode  int                `json:"connectCode" bson:"connectCode"`
	Status       FormStatus         `json:"status" bson:"status"`
	Questions    []QuestionWrapper  `json:"questions" bson:"questions"`
	Participants []Participant      `json:"participants" bson:"participants"`
}

// NewForm creates a form in NOT_STARTED state with an empty registry.
func NewForm(courseID primitive.ObjectID, name, description string, questions []QuestionWrapper, connectCode int) Form {
	return Form{
		ID:           primitive.NewObjectID(),
		CourseID:     courseID,
		Name:         name,
		Description:  description,
		ConnectCode:  connectCode,
		Status:       FormNotStarted,
		Questions:    questions,
		Participants: []Participant{},
	}
}

// ParticipantByUserID returns the registered participant for userID, or nil.
func (f *Form) ParticipantByUserID(userID primitive.ObjectID) *Participant {
	for i := range f.Participants {
		if f.Participants[i].UserID == userID {
			return &f.Participants[i]
		}
	}
	return nil
}

// QuestionByID returns the wrapper referencing questionID, or nil.
func (f *Form) QuestionByID(questionID primitive.ObjectID) *QuestionWrapper {
	for i := range f.Questions {
		if f.Questions[i].QuestionID == questionID {
			return &f.Questions[i]
		}
	}
	return nil
}

// HasQuestion reports whether a wrapper referencing questionID exists.
func (f *Form) HasQuestion(questionID primitive.ObjectID) bool {
	return f.QuestionByID(questionID) != nil
}

// AddParticipant registers userID under the given alias. Re-registration by the
// same user replaces their alias. An alias held by a different participant is
// rejected with ErrAliasTaken and the registry is left unchanged. Only STARTED
// forms accept registrations.
func (f *Form) AddParticipant(userID primitive.ObjectID, alias string) error {
	if f.Status != FormStarted {
		return &InvalidStateError{Op: "join", Status: f.Status}
	}
	if alias == "" {
		return NewValidationError("alias", "must not be empty")
	}
	for i := range f.Participants {
		if f.Participants[i].Alias == alias && f.Participants[i].UserID != userID {
			return ErrAliasTaken
		}
	}
	for i := range f.Participants {
		if f.Participants[i].UserID == userID {
			f.Participants[i].Alias = alias
			return nil
		}
	}
	f.Participants = append(f.Participants, Participant{UserID: userID, Alias: alias})
	return nil
}

// SubmitAnswer records a participant's answer for one question, overwriting any
// prior answer by the same participant for that question. Only STARTED forms
// accept answers.
func (f *Form) SubmitAnswer(userID, questionID primitive.ObjectID, values []string) error {
	if f.Status != FormStarted {
		return &InvalidStateError{Op: "submit answer", Status: f.Status}
	}
	if f.ParticipantByUserID(userID) == nil {
		return NewNotFoundError("participant")
	}
	wrapper := f.QuestionByID(questionID)
	if wrapper == nil {
		return NewNotFoundError("question")
	}
	wrapper.SetResult(userID, values)
	return nil
}

// Start transitions NOT_STARTED -> STARTED.
func (f *Form) Start() error {
	if f.Status != FormNotStarted {
		return &InvalidStateError{Op: "start", Status: f.Status}
	}
	f.Status = FormStarted
	return nil
}

// Finish transitions STARTED -> FINISHED. FINISHED is terminal.
func (f *Form) Finish() error {
	if f.Status != FormStarted {
		return &InvalidStateError{Op: "finish", Status: f.Status}
	}
	f.Status = FormFinished
	return nil
}

// clone deep-copies the form.
func (f Form) clone() Form {
	questions := make([]QuestionWrapper, len(f.Questions))
	for i, w := range f.Questions {
		questions[i] = w.clone()
	}
	participants := make([]Participant, len(f.Participants))
	copy(participants, f.Participants)
	c := f
	c.Questions = questions
	c.Participants = participants
	return c
}

// cloneWithoutResults deep-copies the form and clears every wrapper's collected
// answers.
func (f Form) cloneWithoutResults() Form {
	c := f.clone()
	for i := range c.Questions {
		c.Questions[i].Results = []Result{}
	}
	return c
}
