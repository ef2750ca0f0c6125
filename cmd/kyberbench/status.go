package main

import (
	"context"
	"errors"

	"kyberbench/internal/dataset"
	"kyberbench/internal/storage"
)

func statusOf(err error) storage.RunStatus {
	switch {
	case err == nil:
		return storage.StatusCompleted
	case errors.Is(err, dataset.ErrCancelled), errors.Is(err, context.Canceled):
		return storage.StatusCancelled
	default:
		return storage.StatusFailed
	}
}
