package ingest

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"github.com/hyperjump/kondate/internal/models"
	"github.com/xuri/excelize/v2"
)

type columns struct {
	category, item, serving, calories int
}

// headerColumns maps a header row to column positions, or returns false
// when no item column is present.
func headerColumns(row []string) (columns, bool) {
	cols := columns{category: -1, item: -1, serving: -1, calories: -1}
	for i, cell := range row {
		switch strings.ToLower(strings.Trim(strings.TrimSpace(cell), `"`)) {
		case "category", "meal", "meal type":
			cols.category = i
		case "item", "name", "food":
			cols.item = i
		case "serving size", "serving", "portion":
			cols.serving = i
		case "calories", "kcal", "energy (kcal)":
			cols.calories = i
		}
	}
	return cols, cols.item >= 0
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.Trim(strings.TrimSpace(row[i]), `"`)
}

// parseTable converts rows with a header row into food inputs. Rows before
// the header and rows with an empty item are skipped. Calories that do not
// parse are stored as unknown (0).
func parseTable(rows [][]string) ([]*models.FoodInput, error) {
	start := -1
	var cols columns
	for i, row := range rows {
		if c, ok := headerColumns(row); ok {
			cols, start = c, i
			break
		}
	}
	if start < 0 {
		return nil, ErrNoHeader
	}

	var foods []*models.FoodInput
	for _, row := range rows[start+1:] {
		name := cell(row, cols.item)
		if name == "" {
			continue
		}
		calories, _ := strconv.Atoi(cell(row, cols.calories))
		if calories < 0 {
			calories = 0
		}
		foods = append(foods, &models.FoodInput{
			Name:        name,
			Category:    models.NormalizeCategory(cell(row, cols.category)),
			ServingSize: cell(row, cols.serving),
			Calories:    calories,
		})
	}
	return foods, nil
}

func readCSV(content []byte) ([][]string, error) {
	r := csv.NewReader(bytes.NewReader(content))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse CSV: %w", err)
	}
	return rows, nil
}

// parseExcel parses every sheet that carries a food table header.
func parseExcel(content []byte) ([]*models.FoodInput, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("open Excel: %w", err)
	}
	defer f.Close()

	var foods []*models.FoodInput
	found := false
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("get rows for sheet %q: %w", sheet, err)
		}
		items, err := parseTable(rows)
		if err == ErrNoHeader {
			continue
		}
		if err != nil {
			return nil, err
		}
		found = true
		foods = append(foods, items...)
	}
	if !found {
		return nil, ErrNoHeader
	}
	return foods, nil
}
