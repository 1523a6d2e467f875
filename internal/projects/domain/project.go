package domain

import "time"

// Project is a portfolio entry. TagIDs and TagNames are filled by the
// repository joins.
type Project struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	URL         string    `json:"url"`
	Version     *string   `json:"version,omitempty"`
	TagIDs      []int64   `json:"tagIds"`
	TagNames    []string  `json:"tagNames,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Tag is a label attachable to projects.
type Tag struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Work is a scheduled task, optionally attached to a project.
type Work struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	StartDate   time.Time  `json:"startDate"`
	DueDate     time.Time  `json:"dueDate"`
	ProjectID   *int64     `json:"projectId,omitempty"`
	ProjectName string     `json:"projectName,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}
