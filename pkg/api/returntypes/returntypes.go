package returntypes

import (
	"time"

	"github.com/covergen/covergen-api/pkg/api/models"
)

type Error struct {
	Message string `json:"message,omitempty"`
}

type RepoInfo struct {
	ID                 uint                  `json:"id"`
	RepositoryURL      string                `json:"repositoryUrl"`
	LastCoverageReport []models.FileCoverage `json:"lastCoverageReport,omitempty"`
	CreatedAt          time.Time             `json:"createdAt"`
	UpdatedAt          time.Time             `json:"updatedAt"`
}

type ScanQueuedResponse struct {
	RepoID uint `json:"repoId"`
	Queued bool `json:"queued"`
}

type JobInfo struct {
	ID             string    `json:"id"`
	RepositoryURL  string    `json:"repositoryUrl"`
	FilePath       string    `json:"filePath"`
	TargetCoverage float64   `json:"targetCoverage"`
	Status         string    `json:"status"`
	PRLink         string    `json:"prLink,omitempty"`
	ErrorMessage   string    `json:"errorMessage,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

type HealthResponse struct {
	Status string `json:"status"`
}
