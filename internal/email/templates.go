package email

import (
	"fmt"
	"html/template"
	"strings"
)

// Link formats follow the frontend's query-parameter routing: the page
// reads verify_token / reset_token and drives the matching flow.
const (
	verificationSubject = "Verify your OMNISNT account"
	resetSubject        = "Reset your OMNISNT password"
)

var verificationTemplate = template.Must(template.New("verification").Parse(`
<html>
  <body>
    <p>Hi{{if .Name}} {{.Name}}{{end}},</p>
    <p>Welcome to OMNISNT AI Assistant. Click the link below to verify your
    email address. The link expires in {{.TTL}}.</p>
    <p><a href="{{.Link}}">Verify my account</a></p>
    <p>If you did not create an account, ignore this email.</p>
  </body>
</html>`))

var resetTemplate = template.Must(template.New("reset").Parse(`
<html>
  <body>
    <p>Hi,</p>
    <p>A password reset was requested for your OMNISNT account. Click the
    link below to choose a new password. The link expires in {{.TTL}}.</p>
    <p><a href="{{.Link}}">Reset my password</a></p>
    <p>If you did not request this, ignore this email and your password
    will stay unchanged.</p>
  </body>
</html>`))

type linkData struct {
	Name string
	Link string
	TTL  string
}

func renderVerification(baseURL, token, name, ttl string) (string, error) {
	return render(verificationTemplate, linkData{
		Name: name,
		Link: fmt.Sprintf("%s/?verify_token=%s", strings.TrimRight(baseURL, "/"), token),
		TTL:  ttl,
	})
}

func renderReset(baseURL, token, ttl string) (string, error) {
	return render(resetTemplate, linkData{
		Link: fmt.Sprintf("%s/?reset_token=%s", strings.TrimRight(baseURL, "/"), token),
		TTL:  ttl,
	})
}

func render(tpl *template.Template, data linkData) (string, error) {
	var buf strings.Builder
	if err := tpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render email template: %w", err)
	}
	return buf.String(), nil
}
