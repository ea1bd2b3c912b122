package Controllers

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
)

// ExportRepairs streams the full ledger as an Excel workbook so the operator
// can keep offline records or hand them to an accountant.
func (rc *RepairController) ExportRepairs(c *fiber.Ctx) error {
	repairs, err := rc.Service.List()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load repair requests.",
		})
	}

	f := excelize.NewFile()
	sheetName := "Repairs"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to build export.",
		})
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headers := []string{
		"ID", "Name", "Contact", "Device", "Issue", "Method",
		"Quote", "Status", "Photo", "Submitted At",
	}
	for i, header := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, header)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6E6FA"},
			Pattern: 1,
		},
	})
	if err == nil {
		f.SetRowStyle(sheetName, 1, 1, headerStyle)
	}

	for rowIndex, repair := range repairs {
		row := rowIndex + 2

		quote := ""
		if repair.Quote != nil {
			quote = fmt.Sprintf("%.2f", *repair.Quote)
		}
		status := "Pending"
		if repair.Status != nil {
			status = *repair.Status
		}
		photo := ""
		if repair.Photo != nil {
			photo = *repair.Photo
		}

		values := []interface{}{
			repair.ID,
			repair.Name,
			repair.Contact,
			repair.Device,
			repair.Issue,
			repair.Method,
			quote,
			status,
			photo,
			repair.SubmittedAt,
		}
		for i, value := range values {
			cell := fmt.Sprintf("%c%d", 'A'+i, row)
			f.SetCellValue(sheetName, cell, value)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to build export.",
		})
	}

	filename := fmt.Sprintf("repairs-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	return c.Send(buf.Bytes())
}
