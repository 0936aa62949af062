package domain

// User is an account row in User Manager. SharedUsers is the number of
// simultaneous sessions the account may hold; zero means unlimited and is
// omitted on the wire. Attributes carries the raw comma-joined RADIUS
// attribute blob as stored on the router.
type User struct {
	Name        string
	Password    string
	Group       string
	Disabled    bool
	SharedUsers int
	Attributes  string
}
