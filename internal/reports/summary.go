package reports

import (
	"sort"
	"strings"
	"time"

	"github.com/eashaop2023/admineashaop/internal/appointments"
	"github.com/eashaop2023/admineashaop/internal/models"
)

const (
	RangeAll   = "all"
	RangeToday = "today"
	RangeWeek  = "week"
	RangeMonth = "month"

	topDoctorsLimit = 5
	recentLimit     = 5
	unknownDoctor   = "Unknown"
)

var monthNames = [12]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

type Totals struct {
	Patients       int64 `json:"totalPatients"`
	Doctors        int64 `json:"totalDoctors"`
	PendingDoctors int64 `json:"pendingDoctors"`
}

type StatusCount struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

type MonthPoint struct {
	Name         string  `json:"name"`
	Revenue      float64 `json:"revenue"`
	Appointments int     `json:"appointments"`
}

type DoctorPerformance struct {
	Name         string `json:"name"`
	Appointments int    `json:"appointments"`
}

type DashboardSummary struct {
	Totals
	Year               int                 `json:"year"`
	TotalAppointments  int                 `json:"totalAppointments"`
	TotalRevenue       float64             `json:"totalRevenue"`
	Outstanding        float64             `json:"outstanding"`
	Refunded           float64             `json:"refunded"`
	StatusData         []StatusCount       `json:"statusData"`
	ChartData          []MonthPoint        `json:"chartData"`
	DoctorPerformance  []DoctorPerformance `json:"doctorPerformance"`
	RecentAppointments []appointments.View `json:"recentAppointments"`
}

type BillingTotals struct {
	Paid     float64 `json:"totalPaid"`
	Pending  float64 `json:"totalPending"`
	Refunded float64 `json:"totalRefunded"`
}

type BillingRow struct {
	appointments.View
	Bucket string `json:"bucket"`
}

type BillingSummary struct {
	Summary      BillingTotals `json:"summary"`
	Count        int           `json:"count"`
	Transactions []BillingRow  `json:"transactions"`
}

type BillingFilter struct {
	Status string
	Range  string
	Query  string
}

// Bucket maps an appointment status to its billing bucket.
func Bucket(status string) string {
	switch status {
	case models.AppointmentStatusBooked:
		return "paid"
	case models.AppointmentStatusPending:
		return "pending"
	case models.AppointmentStatusCancelled:
		return "refunded"
	default:
		return status
	}
}

// Dashboard aggregates the appointment list into the admin dashboard figures.
// Monthly points cover year in loc; everything else covers all appointments.
func Dashboard(items []appointments.View, totals Totals, year int, loc *time.Location) DashboardSummary {
	summary := DashboardSummary{
		Totals:            totals,
		Year:              year,
		TotalAppointments: len(items),
		ChartData:         make([]MonthPoint, len(monthNames)),
	}
	for i, name := range monthNames {
		summary.ChartData[i].Name = name
	}

	counts := map[string]int{}
	perDoctor := map[string]int{}
	for _, a := range items {
		counts[a.Status]++
		switch a.Status {
		case models.AppointmentStatusBooked:
			summary.TotalRevenue += a.Amount
			name := a.DoctorName()
			if name == "" {
				name = unknownDoctor
			}
			perDoctor[name]++
		case models.AppointmentStatusPending:
			summary.Outstanding += a.Amount
		case models.AppointmentStatusCancelled:
			summary.Refunded += a.Amount
		}

		date := a.Date.In(loc)
		if date.Year() != year {
			continue
		}
		point := &summary.ChartData[date.Month()-1]
		point.Appointments++
		if a.Status == models.AppointmentStatusBooked {
			point.Revenue += a.Amount
		}
	}

	summary.StatusData = []StatusCount{
		{Name: "Booked", Value: counts[models.AppointmentStatusBooked]},
		{Name: "Pending", Value: counts[models.AppointmentStatusPending]},
		{Name: "Cancelled", Value: counts[models.AppointmentStatusCancelled]},
		{Name: "Completed", Value: counts[models.AppointmentStatusCompleted]},
	}

	summary.DoctorPerformance = make([]DoctorPerformance, 0, len(perDoctor))
	for name, n := range perDoctor {
		summary.DoctorPerformance = append(summary.DoctorPerformance, DoctorPerformance{Name: name, Appointments: n})
	}
	sort.Slice(summary.DoctorPerformance, func(i, j int) bool {
		a, b := summary.DoctorPerformance[i], summary.DoctorPerformance[j]
		if a.Appointments != b.Appointments {
			return a.Appointments > b.Appointments
		}
		return a.Name < b.Name
	})
	if len(summary.DoctorPerformance) > topDoctorsLimit {
		summary.DoctorPerformance = summary.DoctorPerformance[:topDoctorsLimit]
	}

	recent := make([]appointments.View, len(items))
	copy(recent, items)
	sort.SliceStable(recent, func(i, j int) bool { return recent[i].Date.After(recent[j].Date) })
	if len(recent) > recentLimit {
		recent = recent[:recentLimit]
	}
	summary.RecentAppointments = recent

	return summary
}

// Billing filters the appointments for the billing table. The bucket totals
// always cover every appointment, regardless of the filter.
func Billing(items []appointments.View, filter BillingFilter, now time.Time, loc *time.Location) BillingSummary {
	out := BillingSummary{Transactions: make([]BillingRow, 0)}
	query := strings.ToLower(strings.TrimSpace(filter.Query))
	now = now.In(loc)

	for _, a := range items {
		switch a.Status {
		case models.AppointmentStatusBooked:
			out.Summary.Paid += a.Amount
		case models.AppointmentStatusPending:
			out.Summary.Pending += a.Amount
		case models.AppointmentStatusCancelled:
			out.Summary.Refunded += a.Amount
		}

		if filter.Status != "" && filter.Status != RangeAll && a.Status != filter.Status {
			continue
		}
		if !inRange(a.Date.In(loc), filter.Range, now) {
			continue
		}
		if query != "" && !matches(a, query) {
			continue
		}
		out.Transactions = append(out.Transactions, BillingRow{View: a, Bucket: Bucket(a.Status)})
	}
	out.Count = len(out.Transactions)
	return out
}

func inRange(date time.Time, window string, now time.Time) bool {
	switch window {
	case RangeToday:
		y1, m1, d1 := date.Date()
		y2, m2, d2 := now.Date()
		return y1 == y2 && m1 == m2 && d1 == d2
	case RangeWeek:
		return !date.Before(now.AddDate(0, 0, -7))
	case RangeMonth:
		return !date.Before(now.AddDate(0, -1, 0))
	default:
		return true
	}
}

func matches(a appointments.View, query string) bool {
	fields := make([]string, 0, 4)
	if a.User != nil {
		fields = append(fields, a.User.FullName, a.User.Email)
	}
	if a.Doctor != nil {
		fields = append(fields, a.Doctor.Name, a.Doctor.Speciality)
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), query) {
			return true
		}
	}
	return false
}

func ValidRange(window string) bool {
	switch window {
	case "", RangeAll, RangeToday, RangeWeek, RangeMonth:
		return true
	}
	return false
}

func ValidStatus(status string) bool {
	if status == "" || status == RangeAll {
		return true
	}
	for _, s := range models.AppointmentStatuses {
		if s == status {
			return true
		}
	}
	return false
}
