package service

import (
	"fmt"
	"time"
)

// Seed creates sample records through the services so they pass the same
// rules as any request.
func Seed(tasks *Tasks, users *Users, now time.Time) error {
	samples := []map[string]any{
		{
			"title":       "Complete project documentation",
			"description": "Write comprehensive documentation for the API",
			"status":      "in-progress",
			"priority":    "high",
			"dueDate":     now.AddDate(0, 0, 3).UTC().Format(time.RFC3339),
		},
		{
			"title":       "Review pull requests",
			"description": "Review and merge pending pull requests",
			"status":      "pending",
			"priority":    "medium",
		},
	}
	for _, raw := range samples {
		if _, err := tasks.Create(raw); err != nil {
			return fmt.Errorf("seed task %q: %w", raw["title"], err)
		}
	}

	_, err := users.Create(map[string]any{
		"name":     "John Doe",
		"email":    "john@example.com",
		"password": "Password123",
		"role":     "customer",
		"phone":    "+1234567890",
	})
	if err != nil {
		return fmt.Errorf("seed user: %w", err)
	}
	return nil
}
