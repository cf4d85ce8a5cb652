package heatmap

import (
	"encoding/csv"
	"fmt"
	"image"
	"os"
	"strconv"
)

// LoadCSV reads a heatmap from a CSV file where each row is one grid row of
// float values. All rows must have the same number of columns.
func LoadCSV(path string) (*Grid, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open heatmap file: %v", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse heatmap CSV: %v", err)
	}
	if len(records) == 0 || len(records[0]) == 0 {
		return nil, fmt.Errorf("heatmap CSV is empty")
	}

	height := len(records)
	width := len(records[0])
	grid := NewGrid(width, height)

	for y, row := range records {
		if len(row) != width {
			return nil, fmt.Errorf("inconsistent row length at row %d: expected %d, got %d", y, width, len(row))
		}
		for x, cell := range row {
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid value at row %d column %d: %v", y, x, err)
			}
			grid.Data[y*width+x] = v
		}
	}

	return grid, nil
}

// FromGrayImage converts a decoded grayscale image into a heatmap grid with
// values scaled to the 0-1 range.
func FromGrayImage(img image.Image) *Grid {
	gray := GrayFromImage(img)
	for i, v := range gray.Data {
		gray.Data[i] = v / 255.0
	}
	return gray
}
