package models

// ProfileSettings holds per-profile preferences used by the forecast
type ProfileSettings struct {
	ProfileID          int64  `json:"profile_id"`
	BusinessDaysConfig string `json:"business_days_config"` // "mon-fri" or "mon-sat"
}

// DigestRecipient is a profile that receives the monthly forecast email
type DigestRecipient struct {
	ProfileID   int64  `json:"profile_id"`
	ProfileName string `json:"profile_name"`
	Username    string `json:"username"`
	Email       string `json:"email"`
}
