package settings

// Settings are per-user UI and notification preferences.
type Settings struct {
	UserID               int64  `json:"userId"`
	Language             string `json:"language"`
	Theme                string `json:"theme"`
	NotificationsEnabled bool   `json:"notificationsEnabled"`
	ReminderMinutes      int    `json:"reminderMinutes"`
	Timezone             string `json:"timezone"`
	DateFormat           string `json:"dateFormat"`
	TimeFormat           string `json:"timeFormat"`
}

// Defaults returns the settings a user has before saving anything.
func Defaults(userID int64) *Settings {
	return &Settings{
		UserID:               userID,
		Language:             "ar",
		Theme:                "light",
		NotificationsEnabled: true,
		ReminderMinutes:      30,
		Timezone:             "Asia/Riyadh",
		DateFormat:           "DD/MM/YYYY",
		TimeFormat:           "24h",
	}
}

// Patch carries a partial update. Nil fields keep their stored (or default)
// value.
type Patch struct {
	Language             *string `json:"language"`
	Theme                *string `json:"theme"`
	NotificationsEnabled *bool   `json:"notificationsEnabled"`
	ReminderMinutes      *int    `json:"reminderMinutes"`
	Timezone             *string `json:"timezone"`
	DateFormat           *string `json:"dateFormat"`
	TimeFormat           *string `json:"timeFormat"`
}
