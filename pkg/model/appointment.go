package model

// RecordType values for appointments. Only doctor visits trigger slot
// locking and check-in notifications on token issuance.
const (
	RecordTypeDoctor = "doctor"
	RecordTypeLab    = "lab"
)

// Appointment is the view of an appointment resolved from the
// appointment directory. The directory owns the record; this service
// only reads the fields it needs to route and notify.
type Appointment struct {
	PatientID     string `json:"patientId"`
	AppointmentID string `json:"appointmentId"`
	DoctorID      string `json:"doctorId"`
	DateISO       string `json:"dateISO"`
	TimeSlot      string `json:"timeSlot"`
	RecordType    string `json:"recordType"`
	ContactPhone  string `json:"contactPhone"`
	ContactName   string `json:"contactName"`
	DoctorName    string `json:"doctorName"`
	ClinicName    string `json:"clinicName"`
}
