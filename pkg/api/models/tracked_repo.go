package models

import (
	"encoding/json"

	"github.com/jinzhu/gorm"
	"github.com/pkg/errors"
)

//go:generate goqueryset -in tracked_repo.go

// FileCoverage is one file's line coverage in percents, relative to the repo root.
type FileCoverage struct {
	FilePath      string  `json:"filePath"`
	LinesCoverage float64 `json:"linesCoverage"`
}

//gen:qs
type TrackedRepo struct {
	gorm.Model

	URL string `gorm:"column:url;unique_index"` // normalized clone URL, e.g. https://github.com/owner/name

	// LastCoverageReport holds the most recent scan snapshot as a JSON array
	// of FileCoverage. It's empty until the first successful scan and is
	// always replaced as a whole: readers never see a partially written report.
	LastCoverageReport json.RawMessage
}

func (TrackedRepo) TableName() string {
	return "tracked_repos"
}

func (r TrackedRepo) ParseCoverageReport() ([]FileCoverage, error) {
	if len(r.LastCoverageReport) == 0 {
		return nil, nil
	}

	var report []FileCoverage
	if err := json.Unmarshal(r.LastCoverageReport, &report); err != nil {
		return nil, errors.Wrapf(err, "invalid coverage report for repo %d", r.ID)
	}

	return report, nil
}

func MarshalCoverageReport(report []FileCoverage) (json.RawMessage, error) {
	if report == nil {
		report = []FileCoverage{}
	}

	data, err := json.Marshal(report)
	if err != nil {
		return nil, errors.Wrap(err, "can't marshal coverage report")
	}

	return data, nil
}
