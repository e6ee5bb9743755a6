package mailer

import (
	"html/template"
	"log"
	"strings"
	"time"
)

// DisclosedAsset is one entry of a disclosure email: the asset name, its
// plaintext access instructions, and the permission level granted to the
// recipient contact.
type DisclosedAsset struct {
	Name         string `json:"name"`
	Instructions string `json:"instructions"`
	Level        string `json:"level"`
}

const wrapperTmpl = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>Asset Index</title>
</head>
<body style="background-color: #D6D0C7; font-family: 'Helvetica Neue', Helvetica, Arial, sans-serif; margin: 0; padding: 40px 0;">
  <div style="max-width: 600px; margin: 0 auto; background-color: #FFFFFF; border-radius: 24px; overflow: hidden;">
    <div style="padding: 40px; background-color: #1A110D; text-align: center;">
      <h1 style="color: #D6D0C7; font-size: 24px; font-weight: 800; margin: 0; text-transform: uppercase;">Asset Index</h1>
    </div>
    <div style="padding: 40px;">
      {{template "content" .}}
    </div>
    <div style="padding: 32px 40px; background-color: #F7F6F4; text-align: center;">
      <p style="color: #9C928D; font-size: 12px; line-height: 1.5; margin: 0;">
        &copy; {{.Year}} Asset Index Protocol. All rights reserved.<br>
        Secure documentation and digital legacy management.
      </p>
    </div>
  </div>
</body>
</html>`

const warningContent = `{{define "content"}}
<h1 style="color: #1A110D; font-size: 28px; font-weight: 700; margin: 0 0 20px 0;">Action Required: <br/>Security Verification</h1>
<p style="color: #3A2A22; font-size: 16px; line-height: 1.6; margin: 0 0 24px 0;">Hello {{.UserName}},</p>
<p style="color: #3A2A22; font-size: 16px; line-height: 1.6; margin: 0 0 24px 0;">This is an automated security protocol from Asset Index. We noticed you haven't checked in recently according to your security schedule.</p>
<p style="color: #3A2A22; font-size: 16px; line-height: 1.6; margin: 0 0 24px 0;">Please confirm your status to ensure your asset disclosure remains secure and inactive.</p>
<div style="text-align: center; margin: 32px 0;">
  <a href="{{.CheckInURL}}" style="background-color: #1A110D; color: #D6D0C7; padding: 16px 32px; border-radius: 12px; text-decoration: none; font-weight: 700; font-size: 14px; display: inline-block; text-transform: uppercase;">Validate Activity</a>
</div>
<p style="color: #3A2A22; font-size: 16px; line-height: 1.6; margin: 0 0 24px 0;">If you do not check in within your specified grace period, your designated legacy protocol will be initialized.</p>
{{end}}`

const disclosureContent = `{{define "content"}}
<h1 style="color: #1A110D; font-size: 28px; font-weight: 700; margin: 0 0 20px 0;">Legacy Protocol Initialized</h1>
<p style="color: #3A2A22; font-size: 16px; line-height: 1.6; margin: 0 0 24px 0;">You are receiving this communication because you have been designated as a trusted contact by <strong>{{.OwnerName}}</strong>.</p>
<p style="color: #3A2A22; font-size: 16px; line-height: 1.6; margin: 0 0 24px 0;">Due to extended inactivity, the following asset access protocols have been released to you as instructed:</p>
<ul style="background-color: #F7F6F4; border-radius: 16px; padding: 24px; list-style: none;">
  {{range .Assets}}<li style="margin-bottom: 16px; border-bottom: 1px solid #E8E5E0; padding-bottom: 16px;">
    <span style="font-weight: 700; color: #1A110D; display: block;">{{.Name}}</span>
    <p style="font-size: 13px; color: #3A2A22; margin: 4px 0 8px 0;">Permission: <strong>{{.Level}}</strong></p>
    <p style="font-size: 14px; color: #6B5D55; margin: 0;">{{.Instructions}}</p>
  </li>{{end}}
</ul>
<p style="color: #3A2A22; font-size: 16px; line-height: 1.6; margin: 0 0 24px 0;">Please treat this information with extreme confidentiality. These instructions are provided as part of a pre-defined legacy plan.</p>
{{end}}`

var (
	warningTmpl    = template.Must(template.Must(template.New("warning").Parse(wrapperTmpl)).Parse(warningContent))
	disclosureTmpl = template.Must(template.Must(template.New("disclosure").Parse(wrapperTmpl)).Parse(disclosureContent))
)

// RenderWarning produces the missed-check-in warning sent to the user's own
// address. checkInURL points at the frontend check-in page.
func RenderWarning(userName, checkInURL string) (subject, body string) {
	var b strings.Builder
	err := warningTmpl.Execute(&b, struct {
		UserName   string
		CheckInURL string
		Year       int
	}{userName, checkInURL, time.Now().Year()})
	if err != nil {
		// Templates are compile-time constants; execution can only fail on a
		// broken edit. Fall back to a minimal plain body rather than send nothing.
		log.Printf("warning template failed: %v", err)
		return "Action Required: Check in to Asset Index",
			"<p>Please check in to confirm you are active.</p>"
	}
	return "Action Required: Check in to Asset Index", b.String()
}

// RenderDisclosure produces the disclosure email for one contact, listing the
// assets assigned to them. Callers must not send this when assets is empty.
func RenderDisclosure(ownerName string, assets []DisclosedAsset) (subject, body string) {
	var b strings.Builder
	err := disclosureTmpl.Execute(&b, struct {
		OwnerName string
		Assets    []DisclosedAsset
		Year      int
	}{ownerName, assets, time.Now().Year()})
	if err != nil {
		log.Printf("disclosure template failed: %v", err)
		return "Important Security Alert - Asset Index",
			"<p>" + template.HTMLEscapeString(ownerName) + " has not checked in. Assets have been released.</p>"
	}
	return "Important Security Alert - Asset Index", b.String()
}
