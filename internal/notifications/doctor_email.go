package notifications

import (
	"bytes"
	"html/template"
	"net/url"

	"github.com/eashaop2023/admineashaop/internal/models"
)

const (
	setupLinkSubject   = "Set up your Doctor Portal password"
	credentialsSubject = "Your Doctor Portal Login Credentials"
)

const doctorSetupLinkTemplate = `<!DOCTYPE html>
<html>
<body>
  <p>Hello Dr. {{.Name}},</p>
  <p>Your profile has been verified and approved.</p>
  <p>Your username is <strong>{{.Username}}</strong>. Use the link below to choose your password:</p>
  <p><a href="{{.Link}}">Set your password</a></p>
  <p>This link expires in {{.ValidDays}} days and can be used once.</p>
</body>
</html>`

const doctorCredentialsTemplate = `<!DOCTYPE html>
<html>
<body>
  <p>Hello Dr. {{.Name}},</p>
  <p>Your profile has been verified and approved.</p>
  <ul>
    <li>Username: {{.Username}}</li>
    <li>Password: {{.Password}}</li>
  </ul>
  <p>Please log in and change your password.</p>
</body>
</html>`

var (
	doctorSetupLinkTmpl   = template.Must(template.New("doctor_setup_link").Parse(doctorSetupLinkTemplate))
	doctorCredentialsTmpl = template.Must(template.New("doctor_credentials").Parse(doctorCredentialsTemplate))
)

type Enqueuer interface {
	Enqueue(msg Message) bool
}

// DoctorMailer renders onboarding mail for doctors and queues it for delivery.
type DoctorMailer struct {
	queue     Enqueuer
	baseURL   string
	validDays int
}

func NewDoctorMailer(queue Enqueuer, frontendBaseURL string, validDays int) *DoctorMailer {
	return &DoctorMailer{queue: queue, baseURL: frontendBaseURL, validDays: validDays}
}

func SetupLink(baseURL, token string) string {
	return baseURL + "/doctor/setup-password?token=" + url.QueryEscape(token)
}

func (m *DoctorMailer) SendSetupLink(doctor models.Doctor, token string) (bool, error) {
	html, err := render(doctorSetupLinkTmpl, map[string]interface{}{
		"Name":      doctor.Name,
		"Username":  doctor.LoginUsername(),
		"Link":      SetupLink(m.baseURL, token),
		"ValidDays": m.validDays,
	})
	if err != nil {
		return false, err
	}
	return m.queue.Enqueue(Message{To: doctor.Email, ToName: doctor.Name, Subject: setupLinkSubject, HTML: html}), nil
}

func (m *DoctorMailer) SendCredentials(doctor models.Doctor, username, password string) (bool, error) {
	html, err := render(doctorCredentialsTmpl, map[string]interface{}{
		"Name":     doctor.Name,
		"Username": username,
		"Password": password,
	})
	if err != nil {
		return false, err
	}
	return m.queue.Enqueue(Message{To: doctor.Email, ToName: doctor.Name, Subject: credentialsSubject, HTML: html}), nil
}

func render(tmpl *template.Template, data interface{}) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
