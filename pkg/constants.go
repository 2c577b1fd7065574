package shared

const (
	ProjectID = "runboard-project" // Can be overridden by env var in main if needed

	// Default bucket holding per-activity FIT files. Objects are keyed
	// {userID}/fitFiles/{activityID}.fit; older layouts still exist, see
	// pkg/locator.
	ActivityBucket = "runboard-activity-files"

	CollectionUsers      = "users"
	CollectionActivities = "activities"
)
