// Package export renders a plan's task schedule as a spreadsheet.
package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"kisaan/entities"
	"kisaan/pkg/progress"
)

const (
	SheetName   = "Schedule"
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	dateLayout  = "2006-01-02"
)

var columns = []string{
	"#", "Title", "Scheduled date", "Status", "Priority",
	"Duration (min)", "Cost", "Supplies", "Instructions", "Completed at",
}

// Schedule builds the workbook: plan title on row 1, column headers on
// row 2, one row per task, then a totals row.
func Schedule(plan *entities.ActionPlan, tasks []entities.Task) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		f.Close()
		return nil, err
	}

	if err := f.SetCellValue(SheetName, "A1", plan.Title); err != nil {
		f.Close()
		return nil, err
	}
	if err := f.SetSheetRow(SheetName, "A2", &columns); err != nil {
		f.Close()
		return nil, err
	}
	if style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err == nil {
		_ = f.SetCellStyle(SheetName, "A1", "A1", style)
		_ = f.SetCellStyle(SheetName, "A2", "J2", style)
	}

	for i, t := range tasks {
		completed := ""
		if t.CompletedAt != nil {
			completed = t.CompletedAt.UTC().Format(time.RFC3339)
		}
		row := []any{
			i + 1,
			t.Title,
			t.ScheduledDate.Format(dateLayout),
			string(t.Status),
			string(t.Priority),
			t.EstimatedDuration,
			t.Cost,
			strings.Join(t.Supplies, ", "),
			t.Instructions,
			completed,
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+3)
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			f.Close()
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
	}

	sum := progress.Aggregate(tasks)
	costs := progress.Costs(tasks)
	totals := []any{"Total", fmt.Sprintf("%.0f%% complete", sum.Percent), "", "", "", "", costs.Total}
	cell, _ := excelize.CoordinatesToCellName(1, len(tasks)+3)
	if err := f.SetSheetRow(SheetName, cell, &totals); err != nil {
		f.Close()
		return nil, err
	}
	_ = f.SetColWidth(SheetName, "B", "B", 32)
	_ = f.SetColWidth(SheetName, "H", "I", 40)
	return f, nil
}

// WriteSchedule streams the workbook to w.
func WriteSchedule(w io.Writer, plan *entities.ActionPlan, tasks []entities.Task) error {
	f, err := Schedule(plan, tasks)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.WriteTo(w)
	return err
}

// FileName is the download name for a plan export.
func FileName(plan *entities.ActionPlan) string {
	return "plan-" + plan.ID + ".xlsx"
}
