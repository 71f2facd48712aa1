package classrooms

import (
	"time"

	"github.com/classtrack/classrooms/v1/repository"
)

// Grade is an academic grade level, e.g. "1°" or "2°". Names are unique.
type Grade struct {
	ID        uint64    `gorm:"primaryKey" json:"id"`
	GradeName string    `gorm:"column:grade_name;uniqueIndex;not null" json:"grade_name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Grade) TableName() string { return "grades" }

func (g Grade) PrimaryKey() uint64 { return g.ID }

// GradeFields lists the queryable columns of the grades table.
var GradeFields = repository.NewFieldSet("Grade",
	"id", "grade_name", "created_at", "updated_at")
