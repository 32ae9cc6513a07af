package models

import "time"

// Widget is a free-form dashboard widget descriptor, e.g. {"type":"health"}.
type Widget map[string]any

type WidgetLayout struct {
	UserID    int64
	Widgets   []Widget
	UpdatedAt time.Time
}

// DefaultWidgets is the layout a new account starts with.
func DefaultWidgets() []Widget {
	return []Widget{{"type": "health"}}
}
