package email

import (
	"fmt"
	"html"

	"fridgeshare/internal/models"
)

func invitationHTML(inviter *models.User, fridge *models.Fridge, link string) string {
	return fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Join %[2]s on Fridgeshare</title>
    <style>
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
            line-height: 1.6;
            color: #333;
            max-width: 600px;
            margin: 0 auto;
            padding: 20px;
            background-color: #f8f9fa;
        }
        .container {
            background-color: white;
            padding: 40px;
            border-radius: 12px;
        }
        .cta-button {
            display: inline-block;
            background-color: #2d5e3e;
            color: white;
            padding: 12px 24px;
            text-decoration: none;
            border-radius: 6px;
        }
        .footer {
            font-size: 13px;
            color: #888;
            margin-top: 30px;
        }
    </style>
</head>
<body>
    <div class="container">
        <p><strong>%[1]s</strong> invited you to share the fridge <strong>%[2]s</strong>.</p>
        <p>Once you join you can see its shopping list, add products and use its recipes.</p>
        <p><a class="cta-button" href="%[3]s">Join %[2]s</a></p>
        <p class="footer">The link works once. If you did not expect this invitation you can ignore it.<br>%[3]s</p>
    </div>
</body>
</html>
`, html.EscapeString(inviter.Username), html.EscapeString(fridge.Name), html.EscapeString(link))
}

func invitationText(inviter *models.User, fridge *models.Fridge, link string) string {
	return fmt.Sprintf(`%s invited you to share the fridge "%s".

Once you join you can see its shopping list, add products and use its recipes.

Join here: %s

The link works once. If you did not expect this invitation you can ignore it.
`, inviter.Username, fridge.Name, link)
}
