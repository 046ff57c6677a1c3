package common

// SessionCookieName is the cookie that carries the signed session token
// between the browser and the server.
const SessionCookieName = "funrun.session-token"

// BearerPrefix prefixes a session token sent in the Authorization header.
const BearerPrefix = "Bearer "
