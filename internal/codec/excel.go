package codec

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

const sheetName = "DynoTest"

// ToExcel renders a decompressed buffer as an xlsx workbook: one data
// sheet with a torque/power chart, one summary sheet.
func ToExcel(buf *Buffer) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, err
	}

	headers := []string{
		"Time (ms)", "Speed (km/h)", "Roller (RPM)", "Engine (RPM)",
		"Torque (Nm)", "Power (HP)", "Temperature (°C)", "Odometer (km)",
	}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, header)
	}

	for rowIdx, s := range buf.Samples {
		rowNum := rowIdx + 2
		values := []interface{}{
			s.TimeMs, s.SpeedKmh, s.RollerRPM, s.EngineRPM,
			s.Torque, s.HorsePower, s.TempC, s.Odo,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, rowNum)
			f.SetCellValue(sheetName, cell, v)
		}
	}

	for i := 1; i <= len(headers); i++ {
		colName, _ := excelize.ColumnNumberToName(i)
		f.SetColWidth(sheetName, colName, colName, 16)
	}

	if len(buf.Samples) > 1 {
		addPowerChart(f, len(buf.Samples))
	}
	addSummarySheet(f, buf)

	f.SetActiveSheet(index)

	out, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

func addPowerChart(f *excelize.File, rows int) {
	last := fmt.Sprintf("%d", rows+1)
	chart := &excelize.Chart{
		Type: excelize.Line,
		Series: []excelize.ChartSeries{
			{
				Name:       "Torque (Nm)",
				Categories: sheetName + "!$A$2:$A$" + last,
				Values:     sheetName + "!$E$2:$E$" + last,
			},
			{
				Name:       "Power (HP)",
				Categories: sheetName + "!$A$2:$A$" + last,
				Values:     sheetName + "!$F$2:$F$" + last,
			},
		},
		Title: []excelize.RichTextRun{
			{Text: "Torque and Power Over Time"},
		},
		XAxis: excelize.ChartAxis{MajorGridLines: true},
		YAxis: excelize.ChartAxis{MajorGridLines: true},
		Dimension: excelize.ChartDimension{
			Width:  600,
			Height: 400,
		},
	}
	f.AddChart(sheetName, "J2", chart)
}

func addSummarySheet(f *excelize.File, buf *Buffer) {
	f.NewSheet("Summary")

	maxTorque, maxPower, maxTemp := 0.0, 0.0, 0.0
	for _, s := range buf.Samples {
		if s.Torque > maxTorque {
			maxTorque = s.Torque
		}
		if s.HorsePower > maxPower {
			maxPower = s.HorsePower
		}
		if s.TempC > maxTemp {
			maxTemp = s.TempC
		}
	}

	rows := [][2]interface{}{
		{"Samples", buf.Len()},
		{"Max Torque (Nm)", maxTorque},
		{"Max Power (HP)", maxPower},
		{"Max Temperature (°C)", maxTemp},
	}
	for i, kv := range rows {
		f.SetCellValue("Summary", fmt.Sprintf("A%d", i+1), kv[0])
		f.SetCellValue("Summary", fmt.Sprintf("B%d", i+1), kv[1])
	}
}
