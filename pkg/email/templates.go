package email

const mailTemplates = `
{{define "layout_head"}}<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background: #111827; color: white; padding: 20px; text-align: center; }
        .content { padding: 20px; background: #f9f9f9; }
        .field { margin-bottom: 15px; }
        .label { font-weight: bold; color: #555; }
        .message-box { background: white; padding: 15px; border-left: 4px solid #111827; margin-top: 10px; white-space: pre-wrap; }
        .footer { text-align: center; padding: 20px; color: #888; font-size: 12px; }
    </style>
</head>
<body>
<div class="container">{{end}}

{{define "layout_foot"}}</div>
</body>
</html>{{end}}

{{define "notification"}}{{template "layout_head"}}
    <div class="header"><h1>New Contact Form Submission</h1></div>
    <div class="content">
        <div class="field"><div class="label">From:</div><div>{{.SenderName}} ({{.SenderEmail}})</div></div>
        <div class="field"><div class="label">Subject:</div><div>{{.Subject}}</div></div>
        <div class="field"><div class="label">Received:</div><div>{{.ReceivedAt}}</div></div>
        <div class="field"><div class="label">Message:</div><div class="message-box">{{.Message}}</div></div>
    </div>
    <div class="footer"><p>Reply directly to this email to answer {{.SenderEmail}}.</p></div>
{{template "layout_foot"}}{{end}}

{{define "acknowledgement"}}{{template "layout_head"}}
    <div class="header"><h1>Thanks for getting in touch</h1></div>
    <div class="content">
        <p>Hi {{.Name}},</p>
        <p>Your message "{{.Subject}}" has been received. I will get back to you as soon as possible.</p>
    </div>
    <div class="footer"><p>{{.SiteURL}}</p></div>
{{template "layout_foot"}}{{end}}

{{define "reply"}}{{template "layout_head"}}
    <div class="content">
        <p>Hi {{.Name}},</p>
        <div class="message-box">{{.Body}}</div>
        <div class="field">
            <div class="label">Your original message ({{.OriginalSubject}}):</div>
            <div class="message-box">{{.OriginalMessage}}</div>
        </div>
    </div>
{{template "layout_foot"}}{{end}}
`
