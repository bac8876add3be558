// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package project holds the project model and an in-memory store for it.
package project

import (
	"time"

	"github.com/google/uuid"
)

// Project is a single tracked project.
type Project struct {
	ID       int64     `json:"id"`
	Key      uuid.UUID `json:"key"`
	Name     string    `json:"name"`
	Archived bool      `json:"archived"`
	Created  time.Time `json:"created"`
}

// Activity is what happened on a project during one calendar day.
type Activity struct {
	ProjectID int64  `json:"project_id"`
	Day       string `json:"day"`
	Events    int    `json:"events"`
}
