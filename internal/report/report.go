// Package report renders equipment lists as XLSX workbooks.
package report

import (
	"fmt"
	"io"
	"time"

	"github.com/foxerka/enterprise-assets/internal/domain"
	"github.com/foxerka/enterprise-assets/internal/status"
	"github.com/xuri/excelize/v2"
)

// ContentType is the MIME type of the generated workbooks
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const dateLayout = "2006-01-02"

var equipmentHeaders = []interface{}{
	"ID", "Asset", "Serial number", "Workshop", "Status", "Master",
	"Manufacturer", "Installed", "Warranty", "Next maintenance", "Maintenance", "Work hours %",
}

var maintenanceHeaders = []interface{}{
	"Priority", "ID", "Asset", "Workshop", "Status", "Master",
	"Last maintenance", "Next maintenance", "Days left", "Maintenance",
}

// Equipment writes one row per equipment unit with its derived statuses.
// Associations (Asset, Workshop, Status, AssignedMaster.User) should be preloaded.
func Equipment(w io.Writer, items []domain.Equipment, now time.Time) error {
	rows := make([][]interface{}, 0, len(items))
	for i := range items {
		e := &items[i]
		warranty := status.Warranty(e.InstallationDate, e.WarrantyPeriodMonths, now)
		maintenance := status.Maintenance(e.NextMaintenanceDate, now)
		rows = append(rows, []interface{}{
			e.ID, assetName(e), assetSerial(e), workshopName(e), statusName(e), masterName(e),
			e.Manufacturer, formatDate(e.InstallationDate), warranty.Label,
			formatDate(e.NextMaintenanceDate), maintenance.Label,
			status.WorkHoursPercent(e.CurrentWorkHours, e.MaxWorkHours),
		})
	}
	return write(w, "Equipment", equipmentHeaders, rows, map[string]float64{"B": 30, "D": 20, "F": 25, "I": 22, "K": 22})
}

// Maintenance writes the maintenance schedule: units ordered by maintenance
// priority with faulty equipment first. items is sorted in place.
func Maintenance(w io.Writer, items []domain.Equipment, now time.Time) error {
	status.SortByMaintenancePriority(items, now)

	rows := make([][]interface{}, 0, len(items))
	for i := range items {
		e := &items[i]
		d := status.Maintenance(e.NextMaintenanceDate, now)
		var daysLeft interface{}
		if d.DaysLeft != nil {
			daysLeft = *d.DaysLeft
		}
		rows = append(rows, []interface{}{
			status.MaintenancePriority(e, now), e.ID, assetName(e), workshopName(e), statusName(e), masterName(e),
			formatDate(e.LastMaintenanceDate), formatDate(e.NextMaintenanceDate), daysLeft, d.Label,
		})
	}
	return write(w, "Maintenance", maintenanceHeaders, rows, map[string]float64{"C": 30, "D": 20, "F": 25, "J": 22})
}

func write(w io.Writer, sheet string, headers []interface{}, rows [][]interface{}, widths map[string]float64) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}
	if err := f.SetSheetRow(sheet, "A1", &headers); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	lastHeader, _ := excelize.CoordinatesToCellName(len(headers), 1)
	if err := f.SetCellStyle(sheet, "A1", lastHeader, style); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}

	for i := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheet, cell, &rows[i]); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	for col, width := range widths {
		if err := f.SetColWidth(sheet, col, col, width); err != nil {
			return fmt.Errorf("failed to set column width: %w", err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(dateLayout)
}

func assetName(e *domain.Equipment) string {
	if e.Asset == nil {
		return ""
	}
	return e.Asset.Name
}

func assetSerial(e *domain.Equipment) string {
	if e.Asset == nil {
		return ""
	}
	return e.Asset.SerialNumber
}

func workshopName(e *domain.Equipment) string {
	if e.Workshop == nil {
		return ""
	}
	return e.Workshop.Name
}

func statusName(e *domain.Equipment) string {
	if e.Status == nil {
		return ""
	}
	return e.Status.Name
}

func masterName(e *domain.Equipment) string {
	if e.AssignedMaster == nil {
		return ""
	}
	return e.AssignedMaster.DisplayName()
}
