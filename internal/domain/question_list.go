package domain

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Question list validation errors
var (
	ErrQuestionListNameEmpty   = validationError("question list name cannot be empty")
	ErrQuestionListNameTooLong = validationError("question list name must be at most 200 characters long")
	ErrQuestionListCreatorNil  = validationError("question list creator cannot be empty")
	ErrQuestionListEmpty       = validationError("no questions found in the provided text")
	ErrQuestionTextEmpty       = validationError("question text cannot be empty")
	ErrQuestionOrderInvalid    = validationError("question order index must start at 1")
)

const maxQuestionListNameLength = 200

// QuestionList is an admin-curated, ordered set of questions users can
// study from. Lists are soft deleted by clearing IsActive.
type QuestionList struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	CategoryID  *uuid.UUID `json:"category_id,omitempty"`
	CreatedBy   uuid.UUID  `json:"created_by"`
	IsActive    bool       `json:"is_active"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// QuestionListSummary is a list together with its question count.
type QuestionListSummary struct {
	QuestionList
	QuestionsCount int `json:"questions_count"`
}

// PresetQuestion is one entry of a question list.
type PresetQuestion struct {
	ID             uuid.UUID `json:"id"`
	QuestionListID uuid.UUID `json:"question_list_id"`
	QuestionText   string    `json:"question_text"`
	OrderIndex     int       `json:"order_index"`
	CreatedAt      time.Time `json:"created_at"`
}

// NewQuestionList creates an active question list.
func NewQuestionList(name, description string, categoryID *uuid.UUID, createdBy uuid.UUID) (*QuestionList, error) {
	now := time.Now().UTC()
	l := &QuestionList{
		ID:          uuid.New(),
		Name:        strings.TrimSpace(name),
		Description: strings.TrimSpace(description),
		CategoryID:  categoryID,
		CreatedBy:   createdBy,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := l.Validate(); err != nil {
		return nil, err
	}
	return l, nil
}

// Validate checks if the QuestionList has valid data.
func (l *QuestionList) Validate() error {
	if l.ID == uuid.Nil {
		return ErrInvalidID
	}
	if l.Name == "" {
		return ErrQuestionListNameEmpty
	}
	if len([]rune(l.Name)) > maxQuestionListNameLength {
		return ErrQuestionListNameTooLong
	}
	if l.CreatedBy == uuid.Nil {
		return ErrQuestionListCreatorNil
	}
	return nil
}

// Validate checks if the PresetQuestion has valid data.
func (q *PresetQuestion) Validate() error {
	if q.ID == uuid.Nil || q.QuestionListID == uuid.Nil {
		return ErrInvalidID
	}
	if strings.TrimSpace(q.QuestionText) == "" {
		return ErrQuestionTextEmpty
	}
	if q.OrderIndex < 1 {
		return ErrQuestionOrderInvalid
	}
	return nil
}

// BuildPresetQuestions turns question texts into ordered questions of list,
// numbering them from 1.
func BuildPresetQuestions(listID uuid.UUID, texts []string) ([]PresetQuestion, error) {
	if len(texts) == 0 {
		return nil, ErrQuestionListEmpty
	}
	now := time.Now().UTC()
	out := make([]PresetQuestion, 0, len(texts))
	for i, text := range texts {
		q := PresetQuestion{
			ID:             uuid.New(),
			QuestionListID: listID,
			QuestionText:   text,
			OrderIndex:     i + 1,
			CreatedAt:      now,
		}
		if err := q.Validate(); err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, nil
}

var (
	leadingNumbering = regexp.MustCompile(`^\d+[\.\)\-\s]+`)
	trailingDash     = regexp.MustCompile(`\s*-\s*$`)
)

// ParseQuestionsText splits free text into questions, one per line. Leading
// numbering such as "1.", "2)" or "3 -" and a trailing dash are removed and
// blank lines are skipped.
func ParseQuestionsText(text string) []string {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	questions := make([]string, 0, len(lines))
	for _, line := range lines {
		if q := CleanQuestionLine(line); q != "" {
			questions = append(questions, q)
		}
	}
	return questions
}

// CleanQuestionLine applies the numbering and trailing dash cleanup to a
// single line.
func CleanQuestionLine(line string) string {
	line = strings.TrimSpace(line)
	if line == "" {
		return ""
	}
	line = leadingNumbering.ReplaceAllString(line, "")
	line = trailingDash.ReplaceAllString(line, "")
	return strings.TrimSpace(line)
}
