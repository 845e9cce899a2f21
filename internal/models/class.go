package models

// ClassNames is the closed list of grade levels offered by the school.
var ClassNames = []string{"Class 7", "Class 8", "Class 9", "Class 10", "Class 11", "Class 12"}

// Class is a grade level.
type Class struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

// Section is a lettered division of a class.
type Section struct {
	ID      int64  `db:"id" json:"id"`
	Name    string `db:"name" json:"name"`
	ClassID int64  `db:"class_id" json:"class_id"`
}

// Group is a stream within a senior class.
type Group struct {
	ID      int64  `db:"id" json:"id"`
	Name    string `db:"name" json:"name"`
	ClassID int64  `db:"class_id" json:"class_id"`
}

// ClassDetail aggregates a class with its sections and groups.
type ClassDetail struct {
	Class
	Sections []Section `json:"sections"`
	Groups   []Group   `json:"groups"`
}

// Option is an id/name pair used by form lookups.
type Option struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}
