package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/timecard/timecard-backend/internal/timecard/domain"
)

// dataset is a local export of employees and their records.
type dataset struct {
	Employees []domain.Employee `json:"employees"`
	Records   []domain.Record   `json:"records"`
}

func loadDataset(path string) (*dataset, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var ds dataset
	if err := json.Unmarshal(raw, &ds); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &ds, nil
}

func (ds *dataset) employeeName(id string) string {
	for _, e := range ds.Employees {
		if e.ID == id {
			return e.Name
		}
	}
	return id
}
