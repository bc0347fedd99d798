package deadlines

import (
	"dueboard/lib/deadline"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// SettingsPatch is a partial settings update: nil fields are left alone.
type SettingsPatch struct {
	NotificationsEnabled *bool    `json:"notificationsEnabled"`
	NotificationHours    *float64 `json:"notificationHours"`
}

// Validate clamps nothing silently: a notification window outside
// [1 hour, 30 days] is rejected outright.
func (p SettingsPatch) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.NotificationHours,
			validation.Min(1.0),
			validation.Max(720.0),
		),
	)
}

func (p SettingsPatch) applyTo(s *deadline.Settings) {
	if p.NotificationsEnabled != nil {
		s.NotificationsEnabled = *p.NotificationsEnabled
	}
	if p.NotificationHours != nil {
		s.NotificationHours = *p.NotificationHours
	}
}
