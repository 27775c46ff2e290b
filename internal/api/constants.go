package api

// SessionCookieName is the cookie that carries the session token.
const SessionCookieName = "spinlist_session"

// API limits and constants.
const (
	// MaxUploadSize is the maximum allowed size for image uploads (10 MB).
	MaxUploadSize = 10 << 20
)

// CacheOneWeek is the Cache-Control value for served profile images.
const CacheOneWeek = "public, max-age=604800"
