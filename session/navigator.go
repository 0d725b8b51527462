package session

// Navigator moves the application to another location, e.g. the login route
// after the session has ended.
type Navigator interface {
	Redirect(location string)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(location string)

func (f NavigatorFunc) Redirect(location string) {
	f(location)
}

type noopNavigator struct{}

func (noopNavigator) Redirect(string) {}
