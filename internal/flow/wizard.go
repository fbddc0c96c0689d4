package flow

import (
	"errors"
	"strings"

	"github.com/quizhub/quiz-web/internal/models"
)

// WizardStep is the advanced quiz creation step, 1-based to match the
// step indicator shown to teachers.
type WizardStep int

const (
	StepCategory  WizardStep = 1
	StepQuestions WizardStep = 2
	StepDetails   WizardStep = 3
)

var (
	ErrNoCategory         = errors.New("choose a category first")
	ErrNoSelection        = errors.New("select at least one question")
	ErrNotSelecting       = errors.New("the selection can no longer be changed")
	ErrTitleRequired      = errors.New("quiz title is required")
	ErrWizardNotAtDetails = errors.New("finish the earlier steps first")
)

// Wizard is the three-step advanced quiz builder. Selections survive
// backward navigation and category changes; only Reset clears them. It is
// JSON-serializable so it can ride in the session store between requests.
type Wizard struct {
	Step      WizardStep        `json:"step"`
	Category  string            `json:"category"`
	Available []models.Question `json:"available"`
	Selected  []models.Question `json:"selected"`
	Title     string            `json:"title"`
}

// NewWizard returns a wizard at the category step.
func NewWizard() *Wizard {
	return &Wizard{Step: StepCategory}
}

// ChooseCategory installs the questions fetched for a category and
// advances to the selection step. Prior selections are kept so a teacher
// can mix questions from several categories.
func (w *Wizard) ChooseCategory(category string, questions []models.Question) error {
	if strings.TrimSpace(category) == "" {
		return ErrNoCategory
	}
	w.Category = category
	w.Available = questions
	w.Step = StepQuestions
	return nil
}

// Toggle adds the question to the selection, or removes it when already
// selected. Toggling twice restores the previous selection, and new
// picks keep their insertion order. The selection can only change while
// the wizard is at the selection step.
func (w *Wizard) Toggle(q models.Question) error {
	if w.Step != StepQuestions {
		return ErrNotSelecting
	}
	for i, sel := range w.Selected {
		if sel.ID == q.ID {
			w.Selected = append(w.Selected[:i], w.Selected[i+1:]...)
			return nil
		}
	}
	w.Selected = append(w.Selected, q)
	return nil
}

// IsSelected reports whether a question is part of the current selection.
func (w *Wizard) IsSelected(id int) bool {
	for _, sel := range w.Selected {
		if sel.ID == id {
			return true
		}
	}
	return false
}

// Next advances from the selection step to the details step. It requires
// at least one selected question.
func (w *Wizard) Next() error {
	if w.Step != StepQuestions {
		return ErrNoCategory
	}
	if len(w.Selected) == 0 {
		return ErrNoSelection
	}
	w.Step = StepDetails
	return nil
}

// Back moves one step backward without clearing any collected state.
func (w *Wizard) Back() {
	switch w.Step {
	case StepDetails:
		w.Step = StepQuestions
	case StepQuestions:
		w.Step = StepCategory
	}
}

// Reset clears everything. Used by explicit cancel only.
func (w *Wizard) Reset() {
	*w = Wizard{Step: StepCategory}
}

// Request builds the creation payload from the selection. The question
// count is derived from the selection so the gateway never pads the quiz
// with random questions.
func (w *Wizard) Request(title string) (models.QuizCreateRequest, error) {
	if w.Step != StepDetails {
		return models.QuizCreateRequest{}, ErrWizardNotAtDetails
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return models.QuizCreateRequest{}, ErrTitleRequired
	}
	if len(w.Selected) == 0 {
		return models.QuizCreateRequest{}, ErrNoSelection
	}

	w.Title = title
	ids := make([]int, 0, len(w.Selected))
	for _, q := range w.Selected {
		ids = append(ids, q.ID)
	}
	return models.QuizCreateRequest{
		CategoryName: w.Category,
		NumQuestions: len(w.Selected),
		Title:        title,
		QuestionIDs:  ids,
	}, nil
}

// DifficultyBreakdown counts selected questions per difficulty level,
// shown on the details step.
func (w *Wizard) DifficultyBreakdown() map[string]int {
	counts := make(map[string]int)
	for _, q := range w.Selected {
		counts[q.Difficulty]++
	}
	return counts
}
