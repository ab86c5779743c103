package domain

import (
	"strings"
	"time"

	"github.com/fintrackhq/fintrack/internal/shared/apperr"
)

const maxNameLen = 255

// Category is a global expense/income label shared by all owners. Names
// are unique across the system.
type Category struct {
	ID          int64
	Name        string
	Description string
	Icon        string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewCategory validates and normalizes a category.
func NewCategory(name, description, icon string) (*Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.New(apperr.KindInvalidName, "category name must not be empty")
	}
	if len(name) > maxNameLen {
		return nil, apperr.Newf(apperr.KindInvalidName, "category name longer than %d characters", maxNameLen)
	}

	return &Category{
		Name:        name,
		Description: strings.TrimSpace(description),
		Icon:        strings.TrimSpace(icon),
	}, nil
}
