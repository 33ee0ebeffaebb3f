package notify

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"
)

type rendered struct {
	Subject string
	Text    string
	HTML    string
	SMS     string
}

type templateSet struct {
	subject *texttemplate.Template
	text    *texttemplate.Template
	html    *htmltemplate.Template
	sms     *texttemplate.Template
}

type templateData struct {
	Venue   string
	Booking BookingFields
}

var templates = map[Kind]templateSet{
	KindAdminNewBooking: {
		subject: texttemplate.Must(texttemplate.New("admin_subject").Parse("New Booking Request - {{.Booking.CustomerName}}")),
		text: texttemplate.Must(texttemplate.New("admin_text").Parse(
			`A new booking request was submitted.

Customer: {{.Booking.CustomerName}} <{{.Booking.CustomerEmail}}>, {{.Booking.CustomerPhone}}
Function: {{.Booking.FunctionType}}
Date: {{.Booking.EventDate}} {{.Booking.StartTime}}-{{.Booking.EndTime}}
{{if .Booking.AdditionalNotes}}Notes: {{.Booking.AdditionalNotes}}
{{end}}Reference: {{.Booking.ID}}
`)),
		html: htmltemplate.Must(htmltemplate.New("admin_html").Parse(
			`<h2>New booking request</h2>
<p><strong>{{.Booking.CustomerName}}</strong> ({{.Booking.CustomerEmail}}, {{.Booking.CustomerPhone}})</p>
<ul>
<li>Function: {{.Booking.FunctionType}}</li>
<li>Date: {{.Booking.EventDate}}</li>
<li>Time: {{.Booking.StartTime}} - {{.Booking.EndTime}}</li>
</ul>
{{if .Booking.AdditionalNotes}}<p>Notes: {{.Booking.AdditionalNotes}}</p>{{end}}
<p>Reference: {{.Booking.ID}}</p>
`)),
	},
	KindCustomerAccepted: {
		subject: texttemplate.Must(texttemplate.New("accepted_subject").Parse("Booking Confirmed - {{.Venue}}")),
		text: texttemplate.Must(texttemplate.New("accepted_text").Parse(
			`Dear {{.Booking.CustomerName}},

Your booking for {{.Booking.FunctionType}} on {{.Booking.EventDate}} from {{.Booking.StartTime}} to {{.Booking.EndTime}} is confirmed.
{{if .Booking.AdminNote}}
Note from the venue: {{.Booking.AdminNote}}
{{end}}
{{.Venue}}
`)),
		html: htmltemplate.Must(htmltemplate.New("accepted_html").Parse(
			`<p>Dear {{.Booking.CustomerName}},</p>
<p>Your booking for <strong>{{.Booking.FunctionType}}</strong> on {{.Booking.EventDate}} from {{.Booking.StartTime}} to {{.Booking.EndTime}} is confirmed.</p>
{{if .Booking.AdminNote}}<p>Note from the venue: {{.Booking.AdminNote}}</p>{{end}}
<p>{{.Venue}}</p>
`)),
		sms: texttemplate.Must(texttemplate.New("accepted_sms").Parse(
			`{{.Venue}}: your booking on {{.Booking.EventDate}} {{.Booking.StartTime}}-{{.Booking.EndTime}} is confirmed.`)),
	},
	KindCustomerRejected: {
		subject: texttemplate.Must(texttemplate.New("rejected_subject").Parse("Booking Update - {{.Venue}}")),
		text: texttemplate.Must(texttemplate.New("rejected_text").Parse(
			`Dear {{.Booking.CustomerName}},

Unfortunately we cannot accommodate your booking for {{.Booking.FunctionType}} on {{.Booking.EventDate}} from {{.Booking.StartTime}} to {{.Booking.EndTime}}.
{{if .Booking.AdminNote}}
Note from the venue: {{.Booking.AdminNote}}
{{end}}
{{.Venue}}
`)),
		html: htmltemplate.Must(htmltemplate.New("rejected_html").Parse(
			`<p>Dear {{.Booking.CustomerName}},</p>
<p>Unfortunately we cannot accommodate your booking for <strong>{{.Booking.FunctionType}}</strong> on {{.Booking.EventDate}} from {{.Booking.StartTime}} to {{.Booking.EndTime}}.</p>
{{if .Booking.AdminNote}}<p>Note from the venue: {{.Booking.AdminNote}}</p>{{end}}
<p>{{.Venue}}</p>
`)),
		sms: texttemplate.Must(texttemplate.New("rejected_sms").Parse(
			`{{.Venue}}: we could not accept your booking on {{.Booking.EventDate}}. Please check your email for details.`)),
	},
}

func render(venue string, msg Message) (rendered, error) {
	set, ok := templates[msg.Kind]
	if !ok {
		return rendered{}, fmt.Errorf("no template for %q", msg.Kind)
	}

	data := templateData{Venue: venue, Booking: msg.Booking}
	var out rendered
	var buf bytes.Buffer

	if err := set.subject.Execute(&buf, data); err != nil {
		return rendered{}, fmt.Errorf("render subject: %w", err)
	}
	out.Subject = buf.String()

	buf.Reset()
	if err := set.text.Execute(&buf, data); err != nil {
		return rendered{}, fmt.Errorf("render text body: %w", err)
	}
	out.Text = buf.String()

	buf.Reset()
	if err := set.html.Execute(&buf, data); err != nil {
		return rendered{}, fmt.Errorf("render html body: %w", err)
	}
	out.HTML = buf.String()

	if set.sms != nil {
		buf.Reset()
		if err := set.sms.Execute(&buf, data); err != nil {
			return rendered{}, fmt.Errorf("render sms body: %w", err)
		}
		out.SMS = buf.String()
	}

	return out, nil
}
