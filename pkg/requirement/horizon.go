package requirement

import (
	"github.com/limaJavier/courseplanner/pkg/apperrors"
	"github.com/samber/lo"
)

// ValidateCapacity reports whether a capacity pattern can ever make progress
func ValidateCapacity(capacity []int) error {
	if len(capacity) == 0 {
		return apperrors.New(apperrors.ErrInvalidCapacity, "capacity pattern is empty")
	}
	if lo.SomeBy(capacity, func(load int) bool { return load < 0 }) {
		return apperrors.New(apperrors.ErrInvalidCapacity, "capacity pattern %v has a negative load", capacity).
			WithDetails(map[string]any{"capacity": capacity})
	}
	if !lo.SomeBy(capacity, func(load int) bool { return load > 0 }) {
		return apperrors.New(apperrors.ErrInvalidCapacity, "capacity pattern %v has no positive load", capacity).
			WithDetails(map[string]any{"capacity": capacity})
	}
	return nil
}

// MinimumTerms counts how many terms of the repeating capacity pattern are needed to hold total courses
func MinimumTerms(total int, capacity []int) (int, error) {
	if total <= 0 {
		return 0, nil
	}
	if err := ValidateCapacity(capacity); err != nil {
		return 0, err
	}

	terms, sum := 0, 0
	for sum < total {
		sum += capacity[terms%len(capacity)]
		terms++
	}
	return terms, nil
}

func CheckHorizon(total int, capacity []int, requested int) error {
	minimum, err := MinimumTerms(total, capacity)
	if err != nil {
		return err
	}
	if requested < minimum {
		return apperrors.New(apperrors.ErrInsufficientHorizon, "%d courses need at least %d terms, %d requested", total, minimum, requested).
			WithDetails(map[string]any{"minimum": minimum, "requested": requested})
	}
	return nil
}
