package testcase

// Role is the part a step plays in a case.
type Role int

const (
	RoleGiven Role = iota
	RoleWhen
	RoleThen
	RoleThenThrow
	RoleCleanup
)

func (r Role) String() string {
	switch r {
	case RoleGiven:
		return "Given"
	case RoleWhen:
		return "When"
	case RoleThen:
		return "Then"
	case RoleThenThrow:
		return "ThenThrow"
	case RoleCleanup:
		return "Cleanup"
	default:
		return "Unknown"
	}
}

// StepFunc is the body of a step. It receives the case instance built for
// the current run.
type StepFunc func(instance any) error

// Method describes one registered step. It is immutable once registered.
type Method struct {
	name        string
	description string
	role        Role
	order       int
	owner       string
	body        StepFunc
}

func (m *Method) Name() string {
	return m.name
}

func (m *Method) Description() string {
	return m.description
}

func (m *Method) Role() Role {
	return m.role
}

// Order is the execution key of Given and Then steps; it is zero for the
// other roles.
func (m *Method) Order() int {
	return m.order
}

// Owner is the name of the case that registered the step.
func (m *Method) Owner() string {
	return m.owner
}

// Invoke calls the step body with the case instance.
func (m *Method) Invoke(instance any) error {
	return m.body(instance)
}

func (m *Method) String() string {
	return "@" + m.role.String() + " " + m.owner + "." + m.name
}
