package foursquare

import "errors"

// Sentinel kinds for Foursquare errors.
var (
	ErrNoToken       = errors.New("no access token")
	ErrNoCredentials = errors.New("client id, secret and redirect uri are required")
	ErrRejected      = errors.New("request rejected by foursquare")
)
