package models

import "fmt"

// Employee is the sole persisted entity. ID is assigned by the database on
// insert and never changes afterwards. Optional columns are nil when unset
// and serialize as JSON null.
type Employee struct {
	ID        int64   `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	FirstName string  `gorm:"column:first_name;not null" json:"firstName"`
	LastName  *string `gorm:"column:last_name" json:"lastName"`
	Email     string  `gorm:"column:email;not null;uniqueIndex:idx_employees_email" json:"email"`
	Phone     *string `gorm:"column:phone" json:"phone"`
	Address   *string `gorm:"column:address" json:"address"`
}

// TableName pins the table name independent of GORM's naming strategy.
func (Employee) TableName() string {
	return "employees"
}

// DetailsUpdate carries the fields a full update may touch. A nil field
// leaves the stored value unchanged.
type DetailsUpdate struct {
	LastName *string
	Phone    *string
	Address  *string
}

// Apply overwrites the non-nil fields of u onto e.
func (u DetailsUpdate) Apply(e *Employee) {
	if u.LastName != nil {
		e.LastName = u.LastName
	}
	if u.Phone != nil {
		e.Phone = u.Phone
	}
	if u.Address != nil {
		e.Address = u.Address
	}
}

// Mechanism selects how a search predicate is expressed against the store.
type Mechanism string

const (
	// MechanismSpec composes reusable predicate fragments.
	MechanismSpec Mechanism = "spec"
	// MechanismTemplate resolves a query string with named parameters.
	MechanismTemplate Mechanism = "hql"
	// MechanismNative runs literal dialect SQL.
	MechanismNative Mechanism = "native"
)

// Mechanisms lists every supported mechanism in route order.
var Mechanisms = []Mechanism{MechanismSpec, MechanismTemplate, MechanismNative}

// ParseMechanism validates a mechanism path segment.
func ParseMechanism(s string) (Mechanism, error) {
	m := Mechanism(s)
	for _, known := range Mechanisms {
		if m == known {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown search mechanism %q", s)
}

func (m Mechanism) String() string {
	return string(m)
}
