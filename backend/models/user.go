package models

// User is the authenticated principal supplied by the external auth
// service through its access token: identity plus the IDs of the courses
// the user owns. It is never persisted here.
type User struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      string `json:"role"` // user, admin
	CourseIDs []uint `json:"courses"`
}

func (u User) OwnsCourse(courseID uint) bool {
	for _, id := range u.CourseIDs {
		if id == courseID {
			return true
		}
	}
	return false
}
