package mail

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"
)

const contactNotifyTpl = `<div style="font-family:Arial,sans-serif;max-width:600px;margin:0 auto">
  <div style="background:linear-gradient(135deg,#96bf48 0%,#5c8a2e 100%);padding:20px;text-align:center">
    <h1 style="color:#fff;margin:0">New Contact Form Submission</h1>
  </div>
  <div style="padding:30px;background:#f9f9f9">
    <h2 style="color:#333">Contact Details</h2>
    <table style="width:100%;border-collapse:collapse">
      <tr><td style="padding:10px;font-weight:bold;width:100px">Name:</td><td style="padding:10px">{{.Name}}</td></tr>
      <tr><td style="padding:10px;font-weight:bold">Email:</td><td style="padding:10px"><a href="mailto:{{.Email}}">{{.Email}}</a></td></tr>
      <tr><td style="padding:10px;font-weight:bold">Subject:</td><td style="padding:10px">{{.Subject}}</td></tr>
    </table>
    <h2 style="color:#333;margin-top:30px">Message</h2>
    <div style="background:#fff;padding:20px;border-radius:5px;border-left:4px solid #96bf48">
      {{range $i, $line := lines .Message}}{{if $i}}<br>{{end}}{{$line}}{{end}}
    </div>
    <p style="margin-top:30px;color:#666;font-size:12px">
      Received: {{.ReceivedAt.Format "Jan 2, 2006 15:04:05 MST"}}<br>
      IP Address: {{.IP}}
    </p>
  </div>
  <div style="background:#333;padding:20px;text-align:center;color:#fff;font-size:12px">
    <p>This email was sent from your portfolio contact form</p>
  </div>
</div>`

const contactReplyTpl = `<div style="font-family:Arial,sans-serif;max-width:600px;margin:0 auto">
  <div style="background:linear-gradient(135deg,#96bf48 0%,#5c8a2e 100%);padding:20px;text-align:center">
    <h1 style="color:#fff;margin:0">Thank You!</h1>
  </div>
  <div style="padding:30px;background:#f9f9f9">
    <p style="font-size:16px;color:#333">Hi {{.Name}},</p>
    <p style="font-size:14px;color:#666;line-height:1.6">
      Thank you for reaching out! I've received your message and will get back to you as soon as possible,
      typically within 24-48 hours.
    </p>
    <div style="background:#fff;padding:20px;border-radius:5px;margin:20px 0;border-left:4px solid #96bf48">
      <h3 style="margin-top:0;color:#333">Your Message:</h3>
      <p style="color:#666"><strong>Subject:</strong> {{.Subject}}</p>
      <p style="color:#666">{{range $i, $line := lines .Message}}{{if $i}}<br>{{end}}{{$line}}{{end}}</p>
    </div>
    <p style="font-size:14px;color:#666;line-height:1.6">
      In the meantime, feel free to check out my portfolio or connect with me on social media.
    </p>
    {{if .SiteURL}}
    <div style="text-align:center;margin:30px 0">
      <a href="{{.SiteURL}}" style="background:#96bf48;color:#fff;padding:12px 30px;text-decoration:none;border-radius:5px;display:inline-block">Visit My Portfolio</a>
    </div>
    {{end}}
  </div>
  <div style="background:#333;padding:20px;text-align:center;color:#fff;font-size:12px">
    <p style="margin:5px 0">{{.OwnerName}}</p>
    <p style="margin:5px 0">{{.SiteURL}}</p>
  </div>
</div>`

var contactTemplates = template.Must(template.New("contact").Funcs(template.FuncMap{
	"lines": func(s string) []string { return strings.Split(s, "\n") },
}).Parse(`{{define "notify"}}` + contactNotifyTpl + `{{end}}{{define "reply"}}` + contactReplyTpl + `{{end}}`))

// ContactData is a stored contact submission as seen by the email templates.
type ContactData struct {
	Name       string
	Email      string
	Subject    string
	Message    string
	IP         string
	ReceivedAt time.Time
	OwnerName  string
	SiteURL    string
}

func renderContact(name string, data ContactData) (string, error) {
	var buf bytes.Buffer
	if err := contactTemplates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// SendContactNotify tells the site owner about a new submission. Replies go to the sender.
func (s *Sender) SendContactNotify(to string, data ContactData) error {
	html, err := renderContact("notify", data)
	if err != nil {
		return err
	}
	return s.Send(Message{
		FromName: "Portfolio Contact Form",
		To:       []string{to},
		ReplyTo:  data.Email,
		Subject:  fmt.Sprintf("New Contact Form Submission: %s", data.Subject),
		HTML:     html,
	})
}

// SendContactAutoReply acknowledges a submission to its sender.
func (s *Sender) SendContactAutoReply(data ContactData) error {
	html, err := renderContact("reply", data)
	if err != nil {
		return err
	}
	return s.Send(Message{
		FromName: data.OwnerName,
		To:       []string{data.Email},
		Subject:  fmt.Sprintf("Thank you for contacting me - %s", data.Subject),
		HTML:     html,
	})
}
