package libs

import (
	"context"
	"fmt"
	"html"

	"shop-api/config"
	"shop-api/models"

	"gopkg.in/gomail.v2"
)

type Mailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewMailer(cfg *config.Config) (*Mailer, error) {
	if !cfg.MailEnabled() {
		return nil, fmt.Errorf("SMTP configuration missing")
	}

	from := cfg.SMTPFrom
	if from == "" {
		from = cfg.SMTPUser
	}
	return &Mailer{
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass),
		from:   from,
	}, nil
}

// OrderPlaced sends the order confirmation to the buyer.
func (m *Mailer) OrderPlaced(ctx context.Context, user models.User, order models.Order) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", user.Email)
	msg.SetHeader("Subject", fmt.Sprintf("Order Confirmation #%d", order.ID))
	msg.SetBody("text/html", orderConfirmationBody(user, order))

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

func orderConfirmationBody(user models.User, order models.Order) string {
	rows := ""
	for _, it := range order.Items {
		rows += fmt.Sprintf(
			`<tr><td>#%d</td><td style="text-align:right">%d</td><td style="text-align:right">%s</td></tr>`,
			it.ProductID, it.Quantity, it.UnitPrice.StringFixed(2),
		)
	}

	return fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <style>
        body { font-family: Arial, sans-serif; background-color: #f4f4f4; padding: 20px; }
        .container { max-width: 600px; margin: 0 auto; background-color: white; padding: 30px; border-radius: 10px; }
        .order-box { background-color: #fff7ed; padding: 20px; margin: 20px 0; border-radius: 8px; }
        table { width: 100%%; border-collapse: collapse; }
        .footer { text-align: center; margin-top: 30px; color: #666; font-size: 12px; }
    </style>
</head>
<body>
    <div class="container">
        <h2 style="color: #333;">Order Confirmation</h2>
        <p>Hello %s, thank you for your order!</p>

        <div class="order-box">
            <p><strong>Order Number:</strong> %d</p>
            <table>
                <tr><th style="text-align:left">Product</th><th style="text-align:right">Qty</th><th style="text-align:right">Unit price</th></tr>
                %s
            </table>
            <p><strong>Total Amount:</strong> %s</p>
            <p><strong>Status:</strong> %s</p>
        </div>

        <div class="footer">
            <p>This is an automated email. Please do not reply.</p>
        </div>
    </div>
</body>
</html>
`, html.EscapeString(user.Username), order.ID, rows, order.TotalPrice.StringFixed(2), order.Status)
}
