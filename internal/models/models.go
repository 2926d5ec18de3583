// Package models defines the records persisted by the lectern data store.
package models

import "time"

// ReadingStats is the process-wide reading metrics snapshot. TodayMinutes
// and SessionsToday reset on the first load after the calendar date
// changes; TotalMinutes only ever grows.
type ReadingStats struct {
	TodayMinutes    float64    `json:"today_minutes"`
	TotalMinutes    float64    `json:"total_minutes"`
	Streak          int        `json:"streak"`
	WeeklyData      [7]float64 `json:"weekly_data"`
	LastSessionDate string     `json:"last_session_date"`
	SessionsToday   int        `json:"sessions_today"`
	DailyGoal       int        `json:"daily_goal"`
	Week            string     `json:"week,omitempty"`
}

// Highlight marks a text selection on a page.
type Highlight struct {
	ID          string    `json:"id"`
	PageNumber  int       `json:"page_number"`
	Text        string    `json:"text"`
	StartOffset int       `json:"start_offset"`
	EndOffset   int       `json:"end_offset"`
	Color       string    `json:"color"`
	CreatedAt   time.Time `json:"created_at"`
}

// Bookmark marks a page. The library keeps at most one per page.
type Bookmark struct {
	ID         string    `json:"id"`
	PageNumber int       `json:"page_number"`
	Title      string    `json:"title"`
	CreatedAt  time.Time `json:"created_at"`
}

// Note is a free-form annotation, optionally attached to a highlight.
type Note struct {
	ID          string    `json:"id"`
	PageNumber  int       `json:"page_number"`
	HighlightID string    `json:"highlight_id,omitempty"`
	Text        string    `json:"text"`
	Tag         string    `json:"tag,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// HistoryEntry records a page visit.
type HistoryEntry struct {
	PageNumber int       `json:"page_number"`
	Timestamp  time.Time `json:"timestamp"`
}

// Document is a PDF record in the library. The file bytes themselves are
// never persisted, only the path they were added from. PageCount is a
// synthesized placeholder since lectern does not parse PDFs.
type Document struct {
	ID                 string         `json:"id"`
	Name               string         `json:"name"`
	Path               string         `json:"path"`
	PageCount          int            `json:"page_count"`
	TotalTime          float64        `json:"total_time"`
	LastOpened         time.Time      `json:"last_opened"`
	Progress           float64        `json:"progress"`
	CurrentPage        int            `json:"current_page"`
	LastScrollPosition float64        `json:"last_scroll_position"`
	Highlights         []Highlight    `json:"highlights"`
	Bookmarks          []Bookmark     `json:"bookmarks"`
	Notes              []Note         `json:"notes"`
	History            []HistoryEntry `json:"history"`
	FolderID           string         `json:"folder_id,omitempty"`
}

// Folder groups documents. Deleting a folder never deletes its documents;
// they are reassigned to no folder.
type Folder struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	IsExpanded bool      `json:"is_expanded"`
	CreatedAt  time.Time `json:"created_at"`
}
