package userprofile

import (
	"fmt"
)

// AvatarStyles are the DiceBear styles the account screen offers. The
// avatar image itself is derived, not stored: style + user id seed.
var AvatarStyles = []string{
	"adventurer",
	"big-ears",
	"micah",
	"personas",
	"lorelei",
	"miniavs",
	"thumbs",
	"shapes",
}

// AllowedRadii are the radius picker choices, in km.
var AllowedRadii = []float64{1, 5, 10, 15, 20, 30}

// AvatarURL renders the DiceBear PNG URL for a style and user seed.
func AvatarURL(style string, userID uint) string {
	return fmt.Sprintf("https://api.dicebear.com/7.x/%s/png?seed=%d", style, userID)
}

// Stats summarizes a user's activity for the account screen.
type Stats struct {
	Hosting  int `json:"hosting"`
	Past     int `json:"past"`
	Attended int `json:"attended"`
}

// Profile is the account-screen view of a user.
type Profile struct {
	ID          uint    `json:"id"`
	Name        string  `json:"name"`
	Email       string  `json:"email,omitempty"`
	AvatarStyle string  `json:"avatar_style"`
	AvatarURL   string  `json:"avatar_url"`
	EventRadius float64 `json:"event_radius,omitempty"`
	Stats       *Stats  `json:"stats,omitempty"`
}

// ============================
// 🟡 Update Profile Request
//
// All fields optional; only the ones present are changed.
type UpdateProfileRequest struct {
	Name        *string  `json:"name"`
	AvatarStyle *string  `json:"avatar_style"`
	EventRadius *float64 `json:"event_radius"`
}
