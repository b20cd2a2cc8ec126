package user

import "strings"

type Department string

const (
	DepartmentCSE   Department = "CSE"
	DepartmentAIDS  Department = "AI & DS"
	DepartmentAIML  Department = "AI & ML"
	DepartmentCyber Department = "CYBER"
	DepartmentMech  Department = "MECH"
	DepartmentECE   Department = "ECE"
)

var Departments = []Department{
	DepartmentCSE, DepartmentAIDS, DepartmentAIML, DepartmentCyber, DepartmentMech, DepartmentECE,
}

func ParseDepartment(raw string) (Department, bool) {
	raw = strings.TrimSpace(raw)
	for _, d := range Departments {
		if strings.EqualFold(string(d), raw) {
			return d, true
		}
	}
	return "", false
}

// Academic ranges.
const (
	MinYear     = 1
	MaxYear     = 4
	MinSemester = 1
	MaxSemester = 8
)
