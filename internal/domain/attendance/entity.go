package attendance

import "time"

type Status string

const (
	StatusPresent Status = "PRESENT"
	StatusAbsent  Status = "ABSENT"
	StatusLate    Status = "LATE"
	StatusHalfDay Status = "HALF_DAY"
	StatusLeave   Status = "LEAVE"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPresent, StatusAbsent, StatusLate, StatusHalfDay, StatusLeave:
		return true
	}
	return false
}

// Attendance is one employee's record for one calendar day.
// Date is a date-only value at UTC midnight.
type Attendance struct {
	ID         string
	EmployeeID string
	Date       time.Time
	CheckIn    *time.Time
	CheckOut   *time.Time
	Status     Status
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// WorkedDuration is zero unless both check-in and check-out are set and ordered.
func (a Attendance) WorkedDuration() time.Duration {
	if a.CheckIn == nil || a.CheckOut == nil {
		return 0
	}
	d := a.CheckOut.Sub(*a.CheckIn)
	if d < 0 {
		return 0
	}
	return d
}

// EmployeeAttendance is an attendance row joined with the owner's display data.
type EmployeeAttendance struct {
	Attendance
	EmployeeCode string
	FirstName    string
	LastName     string
	JobTitle     *string
	Department   *string
	ProfilePic   *string
}

func (e EmployeeAttendance) Name() string {
	switch {
	case e.FirstName == "" && e.LastName == "":
		return "Unknown"
	case e.LastName == "":
		return e.FirstName
	}
	return e.FirstName + " " + e.LastName
}

// LateThreshold is the local wall-clock time after which a check-in is late.
// Seconds are ignored, so 10:00:59 is on time for a 10:00 threshold.
type LateThreshold struct {
	Hour     int
	Minute   int
	Location *time.Location
}

func (l LateThreshold) IsLate(checkIn time.Time) bool {
	loc := l.Location
	if loc == nil {
		loc = time.UTC
	}
	local := checkIn.In(loc)
	return local.Hour()*60+local.Minute() > l.Hour*60+l.Minute
}
