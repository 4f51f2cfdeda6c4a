package cache

import (
	"context"
	"fmt"
	"log/slog"
)

// SafeInvalidatePattern safely invalidates cache pattern with logging
func SafeInvalidatePattern(ctx context.Context, helper *CacheHelper, pattern string) {
	if err := helper.InvalidatePattern(ctx, pattern); err != nil {
		slog.ErrorContext(ctx, "Failed to invalidate cache pattern",
			"error", err,
			"pattern", pattern)
	}
}

// SafeDelete safely deletes cache keys with logging
func SafeDelete(ctx context.Context, helper *CacheHelper, keys ...string) {
	if err := helper.Delete(ctx, keys...); err != nil {
		slog.ErrorContext(ctx, "Failed to delete cache keys",
			"error", err,
			"keys", keys)
	}
}

// InvalidateConferenceCache invalidates all conference-related caches
func InvalidateConferenceCache(ctx context.Context, cm *CacheManager, conferenceID string) {
	SafeDelete(ctx, cm.Conference,
		fmt.Sprintf("id:%s", conferenceID),
		fmt.Sprintf("details:%s", conferenceID))
	SafeInvalidatePattern(ctx, cm.Conference, "list:*")
	SafeInvalidatePattern(ctx, cm.Role, fmt.Sprintf("conference:%s:*", conferenceID))
}

// InvalidateRoleCache invalidates role lookups for a user within a conference
func InvalidateRoleCache(ctx context.Context, cm *CacheManager, conferenceID, userID string) {
	SafeInvalidatePattern(ctx, cm.Role, fmt.Sprintf("conference:%s:*", conferenceID))
	SafeInvalidatePattern(ctx, cm.Role, fmt.Sprintf("user:%s:*", userID))
}

// InvalidateSubmissionCache invalidates submission-related caches
func InvalidateSubmissionCache(ctx context.Context, cm *CacheManager, submissionID, conferenceID string) {
	SafeDelete(ctx, cm.Submission,
		fmt.Sprintf("id:%s", submissionID),
		fmt.Sprintf("details:%s", submissionID))
	SafeInvalidatePattern(ctx, cm.Submission, fmt.Sprintf("conference:%s:*", conferenceID))
}
