package spreadsheet

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/phrazzld/medcards-api/internal/domain"
	"github.com/phrazzld/medcards-api/internal/redact"
	"github.com/phrazzld/medcards-api/internal/service"
	"github.com/xuri/excelize/v2"
)

// DefaultMaxRows bounds the number of rows read from one workbook.
const DefaultMaxRows = 5000

// Reader extracts questions from the first column of the first sheet.
type Reader struct {
	maxRows int
	logger  *slog.Logger
}

var _ service.QuestionReader = (*Reader)(nil)

// NewReader creates a Reader. maxRows <= 0 selects DefaultMaxRows.
func NewReader(maxRows int, logger *slog.Logger) *Reader {
	if maxRows <= 0 {
		maxRows = DefaultMaxRows
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Reader{
		maxRows: maxRows,
		logger:  logger.With(slog.String("component", "spreadsheet_reader")),
	}
}

// ReadQuestions returns the cleaned, non-blank cells of column A in the
// first sheet, in row order. Unreadable workbooks and row counts above the
// limit are validation errors.
func (r *Reader) ReadQuestions(src io.Reader) ([]string, error) {
	f, err := excelize.OpenReader(src)
	if err != nil {
		return nil, fmt.Errorf("%w: file is not a valid xlsx workbook", domain.ErrValidation)
	}
	defer func() {
		if err := f.Close(); err != nil {
			r.logger.Warn("failed to close workbook", redact.Attr(err))
		}
	}()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: workbook has no sheets", domain.ErrValidation)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: cannot read sheet %q", domain.ErrValidation, sheets[0])
	}
	if len(rows) > r.maxRows {
		return nil, fmt.Errorf("%w: workbook has %d rows, at most %d allowed",
			domain.ErrValidation, len(rows), r.maxRows)
	}

	questions := make([]string, 0, len(rows))
	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		if q := domain.CleanQuestionLine(row[0]); q != "" {
			questions = append(questions, q)
		}
	}

	r.logger.Debug("read questions from workbook",
		slog.String("sheet", sheets[0]),
		slog.Int("rows", len(rows)),
		slog.Int("questions", len(questions)))
	return questions, nil
}
