package domain

// Subject steers the prompt toward the conventions of a field of study.
type Subject string

const (
	SubjectGeneral         Subject = "General"
	SubjectBiology         Subject = "Biology"
	SubjectHistory         Subject = "History"
	SubjectComputerScience Subject = "Computer Science"
	SubjectMathematics     Subject = "Mathematics"
	SubjectChemistry       Subject = "Chemistry"
	SubjectPhysics         Subject = "Physics"
	SubjectLiterature      Subject = "Literature"
)

// Subjects lists the selectable subjects in display order.
var Subjects = []Subject{
	SubjectGeneral,
	SubjectBiology,
	SubjectHistory,
	SubjectComputerScience,
	SubjectMathematics,
	SubjectChemistry,
	SubjectPhysics,
	SubjectLiterature,
}

// NormalizeSubject returns the Subject matching label, or SubjectGeneral for
// anything unrecognized.
func NormalizeSubject(label string) Subject {
	for _, s := range Subjects {
		if string(s) == label {
			return s
		}
	}
	return SubjectGeneral
}
