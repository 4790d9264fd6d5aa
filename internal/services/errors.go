package services

import (
	apierrors "gradesync/internal/errors"
)

// errNotLoaded is returned by queries before the first successful refresh
func errNotLoaded() error {
	return apierrors.NewUnavailableError("gradebook data has not been loaded yet")
}

func errSubjectNotFound(subject string) error {
	return apierrors.NewNotFoundError("subject").WithContext("subject", subject)
}

func errHomeworkNotFound(week int, day, subject string) error {
	return apierrors.NewNotFoundError("homework").
		WithContext("week", week).
		WithContext("day", day).
		WithContext("subject", subject)
}
