package server

// Route path constants
const (
	RouteHome     = "/{$}"
	RouteSignIn   = "/signin"
	RouteRegister = "/register"
	RouteLogout   = "/logout"
)
