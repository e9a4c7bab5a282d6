package repository

import (
	"fmt"

	"outblog-shopify-app/internal/domain"
)

func persistenceError(action string, err error) error {
	return domain.WrapError(domain.KindPersistenceError, "", fmt.Errorf("failed to %s: %w", action, err))
}

func postNotFound(postID string) error {
	return domain.NewError(domain.KindNotFound, "store", fmt.Sprintf("blog post %s not found", postID))
}
