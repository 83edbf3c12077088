// Package spreadsheet reads question lists from .xlsx workbooks using
// excelize. It implements service.QuestionReader.
package spreadsheet
