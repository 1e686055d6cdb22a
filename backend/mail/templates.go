package mail

import (
	"bytes"
	"html/template"
)

// QuestionReplyData fills the mail sent to a question's author when
// someone else replies.
type QuestionReplyData struct {
	Name         string
	ContentTitle string
}

var questionReplyTemplate = template.Must(template.New("question-reply").Parse(`<!DOCTYPE html>
<html>
  <body style="font-family: sans-serif;">
    <h2>Question Reply</h2>
    <p>Hello {{.Name}},</p>
    <p>Your question on <strong>{{.ContentTitle}}</strong> has a new reply.</p>
    <p>Open the course to read it.</p>
  </body>
</html>
`))

func RenderQuestionReply(data QuestionReplyData) (string, error) {
	var buf bytes.Buffer
	if err := questionReplyTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
