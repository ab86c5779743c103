package domain

import (
	"strings"
	"time"

	"github.com/fintrackhq/fintrack/internal/shared/apperr"
)

const maxNameLen = 255

// Group is an owner-scoped bundle of transactions, for things like trips
// or projects. Deleting a group detaches its transactions instead of
// deleting them.
type Group struct {
	ID          int64
	OwnerID     int64
	Name        string
	Description string
	CreatedAt   time.Time
}

// NewGroup validates and normalizes a group.
func NewGroup(ownerID int64, name, description string) (*Group, error) {
	var errs apperr.ValidationErrors

	if ownerID <= 0 {
		errs = append(errs, apperr.New(apperr.KindInvalidOwnerID, "owner id must be positive"))
	}

	name = strings.TrimSpace(name)
	if name == "" {
		errs = append(errs, apperr.New(apperr.KindInvalidName, "group name must not be empty"))
	} else if len(name) > maxNameLen {
		errs = append(errs, apperr.Newf(apperr.KindInvalidName, "group name longer than %d characters", maxNameLen))
	}

	if err := errs.OrNil(); err != nil {
		return nil, err
	}

	return &Group{
		OwnerID:     ownerID,
		Name:        name,
		Description: strings.TrimSpace(description),
	}, nil
}
