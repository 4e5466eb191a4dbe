package domain

import "fmt"

// AccessLevel qualifies what a user may do within a project.
type AccessLevel string

const (
	AccessNone  AccessLevel = ""
	AccessView  AccessLevel = "View"
	AccessEdit  AccessLevel = "Edit"
	AccessAdmin AccessLevel = "Admin"
)

// ParseAccessLevel rejects anything outside the closed View/Edit/Admin set.
func ParseAccessLevel(s string) (AccessLevel, error) {
	switch AccessLevel(s) {
	case AccessView, AccessEdit, AccessAdmin:
		return AccessLevel(s), nil
	default:
		return AccessNone, ValidationError{Message: fmt.Sprintf("invalid access level: %q", s)}
	}
}

func (l AccessLevel) rank() int {
	switch l {
	case AccessAdmin:
		return 3
	case AccessEdit:
		return 2
	case AccessView:
		return 1
	default:
		return 0
	}
}

// AtLeast reports whether l grants at least the rights of min (Admin > Edit > View).
func (l AccessLevel) AtLeast(min AccessLevel) bool {
	return l.rank() >= min.rank()
}

func (l AccessLevel) String() string {
	if l == AccessNone {
		return "None"
	}
	return string(l)
}
