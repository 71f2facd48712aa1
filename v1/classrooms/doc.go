// Package classrooms holds the domain model and services for academic
// grade and section records.
//
// Grades ("1°", "2°", ...) and sections ("A", "B", ...) are flat lookup
// tables with a unique name each. The services enforce name uniqueness
// before writing and translate storage outcomes into domain errors, so
// callers only deal with ConflictError, NotFoundError, and friends.
package classrooms
