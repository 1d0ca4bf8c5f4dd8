package http

import "net/http"

// userIDHeader carries the authenticated user id, injected upstream after
// session validation. An empty value means the request is anonymous; read
// endpoints then serve empty results and mutations are rejected by the
// service layer.
const userIDHeader = "X-User-ID"

func userID(r *http.Request) string {
	return r.Header.Get(userIDHeader)
}
