package classrooms

import (
	"time"

	"github.com/classtrack/classrooms/v1/repository"
)

// Section is a class section within a grade, e.g. "A" or "B". Names are
// unique.
type Section struct {
	ID          uint64    `gorm:"primaryKey" json:"id"`
	SectionName string    `gorm:"column:section_name;uniqueIndex;not null" json:"section_name"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Section) TableName() string { return "sections" }

func (s Section) PrimaryKey() uint64 { return s.ID }

// SectionFields lists the queryable columns of the sections table.
var SectionFields = repository.NewFieldSet("Section",
	"id", "section_name", "created_at", "updated_at")
