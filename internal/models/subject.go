package models

// Subject is a taught subject within a class.
type Subject struct {
	ID      int64  `db:"id" json:"id"`
	Name    string `db:"name" json:"name"`
	ClassID int64  `db:"class_id" json:"class_id"`
}

// SubjectDetail includes the owning class name.
type SubjectDetail struct {
	Subject
	ClassName string `db:"class_name" json:"class_name"`
}
