// Package export writes knowledge base views to spreadsheet files for
// editors who review the handbook structure offline.
package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"engsite/internal/knowledge"
)

// HandbookSheet is the name of the sheet holding the handbook index.
const HandbookSheet = "Handbook"

var handbookHeader = []any{"Topic", "Depth", "Lesson", "Position", "URL"}

// Handbook builds a workbook with one row per lesson, in chain order, and
// one row for every topic without lessons. Topic titles are indented by depth.
func Handbook(page *knowledge.HandbookPage) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), HandbookSheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("name handbook sheet: %w", err)
	}

	rows := [][]any{handbookHeader}
	for _, topic := range page.Topics {
		title := strings.Repeat("  ", topic.Depth) + topic.Title
		if len(topic.Lessons) == 0 {
			rows = append(rows, []any{title, topic.Depth, "", "", ""})
			continue
		}
		for i, l := range topic.Lessons {
			rows = append(rows, []any{title, topic.Depth, l.Title, i + 1, knowledge.Handbook.ItemURL("", l.Slug)})
		}
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			f.Close()
			return nil, err
		}
		if err := f.SetSheetRow(HandbookSheet, cell, &row); err != nil {
			f.Close()
			return nil, fmt.Errorf("write handbook row %d: %w", i+1, err)
		}
	}
	if err := f.SetColWidth(HandbookSheet, "A", "A", 40); err != nil {
		f.Close()
		return nil, fmt.Errorf("size topic column: %w", err)
	}
	if err := f.SetColWidth(HandbookSheet, "C", "C", 40); err != nil {
		f.Close()
		return nil, fmt.Errorf("size lesson column: %w", err)
	}
	return f, nil
}

// WriteHandbook streams the handbook workbook to w.
func WriteHandbook(w io.Writer, page *knowledge.HandbookPage) error {
	f, err := Handbook(page)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write handbook workbook: %w", err)
	}
	return nil
}
