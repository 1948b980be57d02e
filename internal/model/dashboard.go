package model

// Dashboard is the personnel landing payload.
type Dashboard struct {
	TodayAppointments    []*AppointmentWithPatient `json:"todayAppointments"`
	UpcomingAppointments []*AppointmentWithPatient `json:"upcomingAppointments"`
	TotalPatients        int                       `json:"totalPatients"`
}

// AppointmentStats are the aggregate counters behind the analytics payload.
type AppointmentStats struct {
	Total         int `db:"total" json:"totalAppointments"`
	Completed     int `db:"completed" json:"completedAppointments"`
	Upcoming      int `db:"upcoming" json:"upcomingAppointments"`
	TotalPatients int `db:"patients" json:"totalPatients"`
}

// MonthlyCount is one bucket of the trailing-six-months histogram. Months
// with no appointments are absent, not zero.
type MonthlyCount struct {
	Year  int `db:"year" json:"year"`
	Month int `db:"month" json:"month"`
	Count int `db:"count" json:"count"`
}

type Analytics struct {
	AppointmentStats
	MonthlyAppointments []MonthlyCount `json:"monthlyAppointments"`
}

// PatientDetail combines everything the patient page needs in one payload.
type PatientDetail struct {
	Patient         *User            `json:"patient"`
	PregnancyRecord *PregnancyRecord `json:"pregnancyRecord"`
	Appointments    []*Appointment   `json:"appointments"`
}
