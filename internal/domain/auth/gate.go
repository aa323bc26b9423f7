package auth

import "fmt"

// MsgLoginRequired is shown when an anonymous visitor hits a protected page.
const MsgLoginRequired = "Please log in to access this page."

// Decision is the outcome of Authorize. When Allowed is false the caller
// queues Flash and redirects to RedirectTo.
type Decision struct {
	Allowed    bool
	RedirectTo string
	Flash      Flash
}

// Authorize decides whether sess may access a page restricted to required.
// An empty required role only demands a logged-in user.
func Authorize(sess *Session, required Role) Decision {
	if sess == nil || sess.UserID == "" {
		return Decision{RedirectTo: "/", Flash: Info(MsgLoginRequired)}
	}
	if required == "" || sess.Role == required {
		return Decision{Allowed: true}
	}
	return Decision{
		RedirectTo: sess.Role.DashboardPath(),
		Flash:      Warning(fmt.Sprintf("Access denied. This page is for %ss only.", required)),
	}
}
