package desktop

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"webtop/internal/config"
	"webtop/internal/domain"
	models "webtop/internal/domain/models/desktop"
	desktopRepo "webtop/internal/domain/repositories/desktop"
)

// coordinateRule bounds client supplied x/y values
var coordinateRule = validation.Min(0)

// titleRules apply to icon, resource and folder display names
func titleRules(max int) []validation.Rule {
	return []validation.Rule{
		validation.Required,
		validation.By(notBlank),
		validation.RuneLength(1, max),
	}
}

func notBlank(value interface{}) error {
	if s, ok := value.(string); ok && strings.TrimSpace(s) == "" {
		return errors.New("cannot be blank")
	}
	return nil
}

// newValidationError converts an ozzo validation result into a domain error
func newValidationError(err error) error {
	return &domain.ValidationError{Message: err.Error()}
}

// ParseParentID interprets a client supplied parent reference.
// nil, "", "root", "null" and "undefined" mean the root desktop.
func ParseParentID(raw *string) (*int64, error) {
	if raw == nil {
		return nil, nil
	}
	return ParseFolderRef(*raw)
}

// ParseFolderRef parses a folder id, treating root aliases as nil
func ParseFolderRef(raw string) (*int64, error) {
	s := strings.TrimSpace(raw)
	switch s {
	case "", "root", "null", "undefined":
		return nil, nil
	}

	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return nil, &domain.ValidationError{Message: fmt.Sprintf("invalid folder id %q", raw)}
	}
	return &id, nil
}

// placementOrDefault returns the requested coordinates, falling back to the
// default position for each missing axis
func placementOrDefault(x, y *int) (int, int) {
	px, py := config.DefaultX, config.DefaultY
	if x != nil {
		px = *x
	}
	if y != nil {
		py = *y
	}
	return px, py
}

func validatePlacement(x, y *int) error {
	return validation.Errors{
		"x": validation.Validate(x, coordinateRule),
		"y": validation.Validate(y, coordinateRule),
	}.Filter()
}

// loadOwnedIcon fetches an icon and checks that ownerID owns it
func loadOwnedIcon(ctx context.Context, icons desktopRepo.IconRepository, ownerID string, iconID int64) (*models.Icon, error) {
	icon, err := icons.GetByID(ctx, iconID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, &domain.NotFoundError{Message: fmt.Sprintf("icon %d not found", iconID)}
		}
		return nil, err
	}
	if icon.OwnerID != ownerID {
		return nil, &domain.ForbiddenError{Message: fmt.Sprintf("icon %d belongs to another user", iconID)}
	}
	return icon, nil
}
