package runtime

import (
	"strings"

	"github.com/manav03panchal/jobtrack/internal/model"
)

// ResolveID expands an id or a unique id prefix, as printed by list output,
// to the full id of one of items. notFound is returned when nothing matches.
func ResolveID[T model.Entity[T]](items []T, prefix string, notFound error) (string, error) {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return "", notFound
	}

	match := ""
	for _, item := range items {
		id := item.GetID()
		if id == prefix {
			return id, nil
		}
		if strings.HasPrefix(id, prefix) {
			if match != "" {
				return "", ErrAmbiguousID
			}
			match = id
		}
	}
	if match == "" {
		return "", notFound
	}
	return match, nil
}

// ResolveItemID does the same for the action items of one event.
func ResolveItemID(items []model.ActionItem, prefix string) (string, error) {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return "", ErrActionItemGone
	}

	match := ""
	for _, item := range items {
		if item.ID == prefix {
			return item.ID, nil
		}
		if strings.HasPrefix(item.ID, prefix) {
			if match != "" {
				return "", ErrAmbiguousID
			}
			match = item.ID
		}
	}
	if match == "" {
		return "", ErrActionItemGone
	}
	return match, nil
}
