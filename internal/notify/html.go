package notify

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cartercar/booking-service/internal/booking"
)

// The HTML bodies mirror the styling of the business's existing
// notification emails: priority-colored banner, bordered detail table,
// dark footer.

const (
	brandColor     = "#ff6b00"
	emergencyColor = "#ff0000"
	errorColor     = "#d9534f"
)

func priorityColor(req *booking.Request) string {
	if req.IsEmergency {
		return emergencyColor
	}
	return brandColor
}

func detailRow(shade, label, value string) string {
	return fmt.Sprintf(`<tr style="background: %s;">
  <td style="padding: 10px; border: 1px solid #ddd; font-weight: bold;">%s</td>
  <td style="padding: 10px; border: 1px solid #ddd;">%s</td>
</tr>`, shade, label, value)
}

// calendarEventLink deep-links the business email to the created event.
func calendarEventLink(eventID string) string {
	return "https://calendar.google.com/calendar/event?eid=" + base64.StdEncoding.EncodeToString([]byte(eventID))
}

func businessEmailHTML(req *booking.Request, bookingID, eventID string) string {
	color := priorityColor(req)
	urgencyLabel := "📋 New Booking Request"
	if req.IsEmergency {
		urgencyLabel = "🚨 EMERGENCY REQUEST"
	}

	var rows strings.Builder
	rows.WriteString(detailRow("white", "Booking ID", bookingID))
	rows.WriteString(detailRow("#fafafa", "Customer Name", req.Name))
	rows.WriteString(detailRow("white", "Phone", fmt.Sprintf(`<a href="tel:%s">%s</a>`, req.Phone, req.Phone)))
	rows.WriteString(detailRow("#fafafa", "Email", req.Email))
	rows.WriteString(detailRow("white", "Vehicle", req.Vehicle))
	rows.WriteString(detailRow("#fafafa", "Service Type", strings.ToUpper(req.Service)))
	rows.WriteString(detailRow("white", "Location", req.Location))
	rows.WriteString(detailRow("#fafafa", "Preferred Date & Time", req.PreferredDate+" - "+req.PreferredTime))
	if eventID != "" {
		rows.WriteString(detailRow("#ccffcc", "Calendar Event",
			fmt.Sprintf(`<a href="%s" style="color: #00aa00;">✓ Added to Calendar</a>`, calendarEventLink(eventID))))
	}
	if req.IsFleet {
		rows.WriteString(`<tr style="background: #ccffcc;"><td style="padding: 10px; border: 1px solid #ddd; font-weight: bold;" colspan="2">🚛 FLEET SERVICES REQUEST</td></tr>`)
	}

	details := req.Details
	if details == "" {
		details = "No additional details provided"
	}

	banner := `<div style="background: ` + brandColor + `; color: white; padding: 15px; margin-top: 20px; text-align: center;">📞 Call within 1 hour for optimal conversion</div>`
	if req.IsEmergency {
		banner = `<div style="background: ` + emergencyColor + `; color: white; padding: 15px; margin-top: 20px; text-align: center; font-weight: bold; font-size: 18px;">⚡ RESPOND IMMEDIATELY - EMERGENCY SERVICE ⚡</div>`
	}

	return fmt.Sprintf(`<html>
  <body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
    <div style="background: %s; color: white; padding: 20px; text-align: center;">
      <h1 style="margin: 0;">%s</h1>
      <p style="margin: 10px 0 0 0; font-size: 18px;">Lead Score: %d/100</p>
    </div>

    <div style="padding: 20px; background: #f5f5f5;">
      <h2 style="color: %s;">Booking Details</h2>
      <table style="width: 100%%; border-collapse: collapse;">%s</table>

      <h3 style="color: %s; margin-top: 20px;">Customer Notes:</h3>
      <div style="background: white; padding: 15px; border-left: 4px solid %s;">%s</div>

      %s

      <div style="margin-top: 20px; text-align: center;">
        <a href="tel:%s" style="display: inline-block; background: %s; color: white; padding: 15px 30px; text-decoration: none; border-radius: 5px; font-weight: bold;">📞 CALL %s</a>
      </div>
    </div>

    <div style="background: #333; color: white; padding: 15px; text-align: center; font-size: 12px;">
      <p>Carter Car Mobile Mechanic - Automated Booking System</p>
      <p>Timestamp: %s</p>
    </div>
  </body>
</html>`,
		color, urgencyLabel, req.LeadScore,
		color, rows.String(),
		color, color, details,
		banner,
		req.Phone, color, req.Phone,
		req.Timestamp,
	)
}

func customerEmailHTML(req *booking.Request) string {
	emergencyBanner := ""
	if req.IsEmergency {
		emergencyBanner = `<div style="background: #ff0000; color: white; padding: 15px; margin: 20px 0; text-align: center; font-weight: bold; border-radius: 5px;">🚨 EMERGENCY REQUEST - We'll contact you within 30 minutes! 🚨</div>`
	}
	responseWindow := "within 1 hour"
	if req.IsEmergency {
		responseWindow = "within 30 minutes"
	}

	var rows strings.Builder
	rows.WriteString(detailRow("white", "Vehicle:", req.Vehicle))
	rows.WriteString(detailRow("#fafafa", "Service Type:", req.Service))
	rows.WriteString(detailRow("white", "Location:", req.Location))
	rows.WriteString(detailRow("#fafafa", "Preferred Date & Time:", req.PreferredDate+" - "+req.PreferredTime))

	return fmt.Sprintf(`<html>
  <body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
    <div style="background: linear-gradient(135deg, #ff6b00, #ff4500); color: white; padding: 30px; text-align: center;">
      <h1 style="margin: 0; font-size: 32px;">🔧 Carter Car Mobile Mechanic</h1>
      <p style="margin: 10px 0 0 0; font-size: 18px;">Your Appointment Request is Confirmed!</p>
    </div>

    <div style="padding: 30px; background: #f5f5f5;">
      <h2 style="color: #ff6b00;">Hi %s,</h2>
      <p style="font-size: 16px;">Thank you for choosing Carter Car Mobile Mechanic! We've received your appointment request and will contact you shortly to confirm the details.</p>

      %s

      <h3 style="color: #ff6b00;">Your Request Details:</h3>
      <table style="width: 100%%; border-collapse: collapse; margin: 20px 0;">%s</table>

      <div style="background: linear-gradient(135deg, rgba(0, 255, 0, 0.1), rgba(255, 107, 0, 0.1)); border: 2px solid #ff6b00; border-radius: 10px; padding: 20px; margin: 20px 0;">
        <h3 style="color: #ff6b00; margin: 0 0 10px 0;">💳 About Your $45 Service Fee</h3>
        <p style="margin: 0; font-size: 18px; color: #00aa00; font-weight: bold;">✓ 100%% Credited Toward Your Repair Bill</p>
        <p style="margin: 10px 0 0 0; color: #333;">The $45 service call fee reserves your appointment and covers our mobile service. <strong>The entire amount is credited to your total repair cost</strong> - you're only paying for parts and labor!</p>
      </div>

      <h3 style="color: #ff6b00;">What Happens Next?</h3>
      <ol style="font-size: 16px; line-height: 1.8;">
        <li><strong>Confirmation Call:</strong> We'll call you at <strong>%s</strong> %s to confirm your appointment</li>
        <li><strong>Schedule Finalized:</strong> We'll lock in the best time that works for you</li>
        <li><strong>We Come to You:</strong> Our certified mechanic arrives at your location with all necessary tools</li>
        <li><strong>Expert Service:</strong> Quality repair work completed on-site</li>
      </ol>

      <div style="background: #ff6b00; color: white; padding: 20px; text-align: center; border-radius: 5px; margin: 30px 0;">
        <h3 style="margin: 0 0 10px 0;">Need Immediate Assistance?</h3>
        <p style="margin: 0; font-size: 24px; font-weight: bold;">
          <a href="tel:3176431578" style="color: white; text-decoration: none;">📞 (317) 643-1578</a>
        </p>
        <p style="margin: 10px 0 0 0; font-size: 14px;">Call or text us anytime</p>
      </div>
    </div>

    <div style="background: #333; color: white; padding: 20px; text-align: center; font-size: 12px;">
      <p style="margin: 0;"><strong>Carter Car Mobile Mechanic</strong></p>
      <p style="margin: 5px 0 0 0;">Professional Mobile Auto Repair - Indianapolis & Surrounding Areas</p>
    </div>
  </body>
</html>`,
		req.Name, emergencyBanner, rows.String(), req.Phone, responseWindow,
	)
}

func errorReportHTML(req *booking.Request, report booking.Report) string {
	payload, err := json.MarshalIndent(req, "", "  ")
	if err != nil {
		payload = []byte("unavailable")
	}

	var failures strings.Builder
	for _, f := range report {
		failures.WriteString(fmt.Sprintf(`<div style="margin-bottom: 20px; border: 1px solid #ddd; padding: 10px;">
  <h3 style="color: %s;">Step: %s</h3>
  <p><strong>Error:</strong> %s</p>
</div>`, errorColor, f.Step, f.Reason))
	}

	return fmt.Sprintf(`<html>
  <body style="font-family: Arial, sans-serif; color: #333;">
    <div style="background: %s; color: white; padding: 20px;">
      <h1>Booking Processing Error</h1>
    </div>
    <div style="padding: 20px;">
      <p>A booking request from <strong>%s</strong> was processed, but one or more steps failed.</p>
      <p><strong>Customer Data:</strong></p>
      <pre style="background: #f5f5f5; padding: 10px; border-radius: 5px;">%s</pre>
      <hr>
      <h2>Failed Steps:</h2>
      %s
    </div>
    <div style="background: #333; color: white; padding: 15px; text-align: center; font-size: 12px;">
      <p>This is an automated error report. Please check the service logs and configuration.</p>
    </div>
  </body>
</html>`,
		errorColor, req.Name, payload, failures.String(),
	)
}
