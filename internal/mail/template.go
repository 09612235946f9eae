package mail

import (
	"bytes"
	"fmt"
	"text/template"
)

// CredentialsData fills the new-account / password-reset notification body.
type CredentialsData struct {
	Firstname   string
	Sitename    string
	Username    string
	NewPassword string
	LoginURL    string
	Signoff     string
}

const newAccountSubject = "New test student account"

const newAccountBody = `Hi {{.Firstname}},

Your new test student account at '{{.Sitename}}' has been created,
and you have been issued with a new temporary password.

Your current login information is:
   username: {{.Username}}
   password: {{.NewPassword}}

Please login to '{{.Sitename}}' to test the new account:
   {{.LoginURL}}

In most mail programs, this should appear as a blue link
which you can just click on.  If that doesn't work,
then cut and paste the address into the address
line at the top of your web browser window.

Cheers from the '{{.Sitename}}' administrator,
{{.Signoff}}`

var newAccountTemplate = template.Must(template.New("newaccount").Parse(newAccountBody))

// CredentialsSubject returns the site-prefixed notification subject.
func CredentialsSubject(sitename string) string {
	return fmt.Sprintf("%s: %s", sitename, newAccountSubject)
}

// RenderCredentials renders the notification body.
func RenderCredentials(data CredentialsData) (string, error) {
	var buf bytes.Buffer
	if err := newAccountTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
