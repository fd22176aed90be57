package leave

// The seven leave types the team recognizes.
const (
	TypeAnnual    = "annual"
	TypeHalfDayAM = "half_day_am"
	TypeHalfDayPM = "half_day_pm"
	TypeSick      = "sick"
	TypeTraining  = "training"
	TypeMaternity = "maternity"
	TypePaternity = "paternity"
)

type LeaveTypeConfig struct {
	Value       string `json:"value"`
	Label       string `json:"label"`
	Description string `json:"description"`
}

// LeaveTypes is the metadata clients render for the type picker.
var LeaveTypes = []LeaveTypeConfig{
	{Value: TypeAnnual, Label: "Annual Leave", Description: "Regular vacation days"},
	{Value: TypeHalfDayAM, Label: "Half Day (Morning)", Description: "Morning off (AM)"},
	{Value: TypeHalfDayPM, Label: "Half Day (Afternoon)", Description: "Afternoon off (PM)"},
	{Value: TypeSick, Label: "Sick Leave", Description: "When you're not feeling well"},
	{Value: TypeTraining, Label: "Training Leave", Description: "Learning and development"},
	{Value: TypeMaternity, Label: "Maternity Leave", Description: "New mother care"},
	{Value: TypePaternity, Label: "Paternity Leave", Description: "New father care"},
}

func IsValidLeaveType(v string) bool {
	for _, t := range LeaveTypes {
		if t.Value == v {
			return true
		}
	}
	return false
}
