package model

import "time"

// -------------------- USER MODEL --------------------

// User is one roster entry. LoginPropensity is the daily probability that
// the user logs in at all; values outside [0,1] are taken as-is.
type User struct {
	UserID          string
	LoginPropensity float64
	IPAddress       string
	UserAgent       string
}

// -------------------- LOGIN EVENT MODEL --------------------

type LoginEvent struct {
	Timestamp time.Time
	UserID    string
	IPAddress string
	UserAgent string
	Success   bool
}

// LoginEventColumns is the output column order.
var LoginEventColumns = []string{"timestamp", "user_id", "ip_address", "user_agent", "success"}

// RosterColumns are the columns a roster must carry.
var RosterColumns = []string{"user_id", "login_propensity", "ip_address", "user_agent"}
