package mail

import (
	"bytes"
	"fmt"
	"text/template"
)

// Kind selects the notification template
type Kind int

const (
	// Registration is sent to users created by an administrator
	Registration Kind = iota
	// SubadminRegistration is sent to the leader account created for a new group
	SubadminRegistration
	// PasswordChanged is sent after a password reset
	PasswordChanged
)

// Data is the input of every template
type Data struct {
	Product  string
	UserName string
	Password string
	Group    string
}

type notification struct {
	subject *template.Template
	body    *template.Template
}

var notifications = map[Kind]notification{
	Registration: {
		subject: template.Must(template.New("subject").Parse(`Registration at {{.Product}}`)),
		body: template.Must(template.New("body").Parse(`Dear {{.UserName}},

an account has been created for you at {{.Product}}.
Your password is

{{.Password}}

`)),
	},
	SubadminRegistration: {
		subject: template.Must(template.New("subject").Parse(`Registration at {{.Product}}`)),
		body: template.Must(template.New("body").Parse(`Dear {{.UserName}},

you have been registered as administrator of group {{.Group}} at {{.Product}}.
Your password is

{{.Password}}

`)),
	},
	PasswordChanged: {
		subject: template.Must(template.New("subject").Parse(`Password change at {{.Product}}`)),
		body: template.Must(template.New("body").Parse(`Dear {{.UserName}},

your {{.Product}} password has been changed. The new password is

{{.Password}}

`)),
	},
}

// Render builds the message of kind for recipient to
func Render(kind Kind, to string, data Data) (Message, error) {
	n, ok := notifications[kind]
	if !ok {
		return Message{}, fmt.Errorf("unknown notification kind %d", kind)
	}
	var subject, body bytes.Buffer
	if err := n.subject.Execute(&subject, data); err != nil {
		return Message{}, err
	}
	if err := n.body.Execute(&body, data); err != nil {
		return Message{}, err
	}
	return Message{To: to, Subject: subject.String(), Body: body.String()}, nil
}
