package email

import (
	"fmt"

	"sainiksetu/internal/models"
)

func generateFiledText(user *models.User, g *models.Grievance) string {
	return fmt.Sprintf(`Hello %s,

Your grievance has been received and assigned reference %s.

Title:    %s
Priority: %s
Status:   %s

You can follow its progress from the grievances page of the portal.

Sainik Setu
`, user.Username, g.Reference, g.Title, g.Priority, g.Status)
}

func generateFiledHTML(user *models.User, g *models.Grievance) string {
	return fmt.Sprintf(`<html>
<body>
<p>Hello %s,</p>
<p>Your grievance has been received and assigned reference <strong>%s</strong>.</p>
<table>
<tr><td>Title</td><td>%s</td></tr>
<tr><td>Priority</td><td>%s</td></tr>
<tr><td>Status</td><td>%s</td></tr>
</table>
<p>You can follow its progress from the grievances page of the portal.</p>
<p>Sainik Setu</p>
</body>
</html>`, user.Username, g.Reference, g.Title, g.Priority, g.Status)
}

func generateStatusText(user *models.User, g *models.Grievance) string {
	return fmt.Sprintf(`Hello %s,

The status of your grievance %s ("%s") changed to: %s.

Sainik Setu
`, user.Username, g.Reference, g.Title, g.Status)
}

func generateStatusHTML(user *models.User, g *models.Grievance) string {
	return fmt.Sprintf(`<html>
<body>
<p>Hello %s,</p>
<p>The status of your grievance <strong>%s</strong> (&quot;%s&quot;) changed to: <strong>%s</strong>.</p>
<p>Sainik Setu</p>
</body>
</html>`, user.Username, g.Reference, g.Title, g.Status)
}
