package transport

import "net/http"

// Authenticator decorates an outgoing request with credentials.
type Authenticator interface {
	Apply(req *http.Request)
}

// NoAuth leaves requests untouched. MovieLens and IMDb are public.
type NoAuth struct{}

func (*NoAuth) Apply(*http.Request) {}

// BasicAuth sends a username and API key, the scheme the Kaggle download
// endpoint expects.
type BasicAuth struct {
	Username string
	Password string
}

func (a *BasicAuth) Apply(req *http.Request) {
	req.SetBasicAuth(a.Username, a.Password)
}

// Anonymous reports whether a carries no credentials.
func (a *BasicAuth) Anonymous() bool {
	return a == nil || a.Username == "" || a.Password == ""
}
