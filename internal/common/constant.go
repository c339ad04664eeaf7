package common

// SessionCookieName is the cookie that carries the session token for
// browser clients.
const SessionCookieName = "byton_session"

// MinPasswordLength is the shortest password accepted when provisioning an
// admin or rotating a password.
const MinPasswordLength = 6
