// Package report renders exportable views of the data set.
package report

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"

	"github.com/wperaltaarriaga/songs-api/internal/core/domain"
)

// Column layout for the users table, in page units (mm).
var userColumns = []struct {
	title string
	width float64
}{
	{"Name", 55},
	{"Email", 75},
	{"Age", 15},
	{"Role", 30},
}

// UsersPDF renders the registered-users report: a title, a bold header row
// and one row per user. Password hashes are not part of the domain view
// serialized here.
func UsersPDF(users []*domain.User) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 12, "Registered Users Report", "", 1, "C", false, 0, "")
	pdf.Ln(4)

	if len(users) == 0 {
		pdf.SetFont("Helvetica", "", 12)
		pdf.CellFormat(0, 8, "No registered users.", "", 1, "L", false, 0, "")
	} else {
		pdf.SetFont("Helvetica", "B", 11)
		for _, col := range userColumns {
			pdf.CellFormat(col.width, 8, col.title, "B", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)

		pdf.SetFont("Helvetica", "", 10)
		for _, u := range users {
			pdf.CellFormat(userColumns[0].width, 7, u.Name, "", 0, "L", false, 0, "")
			pdf.CellFormat(userColumns[1].width, 7, u.Email, "", 0, "L", false, 0, "")
			pdf.CellFormat(userColumns[2].width, 7, fmt.Sprintf("%d", u.Age), "", 0, "L", false, 0, "")
			pdf.CellFormat(userColumns[3].width, 7, u.Role, "", 0, "L", false, 0, "")
			pdf.Ln(-1)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render users pdf: %w", err)
	}
	return buf.Bytes(), nil
}
