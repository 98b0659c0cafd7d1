package models

// ReviewQueueItem is one row of the admin review queue: a non-admin user and
// the state of their profile, if any.
type ReviewQueueItem struct {
	UserID      uint    `json:"user_id"`
	Username    string  `json:"username"`
	ProfileID   *uint   `json:"profile_id"`
	FullName    *string `json:"full_name"`
	JobPosition *string `json:"job_position"`
	IsCompleted *bool   `json:"is_completed"`
}

func (r ReviewQueueItem) HasProfile() bool {
	return r.ProfileID != nil
}

func (r ReviewQueueItem) Status() ProfileStatus {
	switch {
	case r.ProfileID == nil:
		return ProfileStatusNone
	case r.IsCompleted != nil && *r.IsCompleted:
		return ProfileStatusPublished
	default:
		return ProfileStatusPending
	}
}

func (r ReviewQueueItem) DisplayName() string {
	if r.FullName != nil && *r.FullName != "" {
		return *r.FullName
	}
	return r.Username
}
