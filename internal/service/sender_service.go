package service

import (
	"bytes"
	"fmt"
	"html/template"
	"log"
	"parkhaus/internal/entities"
	"time"
)

const reservationEmailTemplate = `<html>
<body>
  <p>Hello,</p>
  <p>Your parking reservation <strong>{{.ID}}</strong> is {{.Status}}.</p>
  <ul>
    <li>From: {{.StartFormatted}}</li>
    <li>Until: {{.EndFormatted}}</li>
  </ul>
  <p>Thank you for choosing Parkhaus.</p>
</body>
</html>`

type reservationEmailData struct {
	ID             string
	Status         string
	StartFormatted string
	EndFormatted   string
}

// SenderService sends reservation notifications. Sends are fire-and-forget:
// a failed email or SMS never fails the reservation operation itself.
type SenderService struct {
	tmpl *template.Template
}

func NewSenderService() *SenderService {
	return &SenderService{
		tmpl: template.Must(template.New("reservation_email").Parse(reservationEmailTemplate)),
	}
}

func (s *SenderService) SendReservationEmail(toEmail string, reservation entities.ReservationResponse, status string) {
	data := reservationEmailData{
		ID:             reservation.ID,
		Status:         status,
		StartFormatted: reservation.StartTime.UTC().Format("02 Jan 2006 15:04 MST"),
		EndFormatted:   reservation.EndTime.UTC().Format("02 Jan 2006 15:04 MST"),
	}

	subject := fmt.Sprintf("Your Parkhaus reservation is %s - %s", status, reservation.ID)
	plainTextBody := fmt.Sprintf(
		"Hello,\n\nYour parking reservation %s is %s.\n\n"+
			"From: %s\nUntil: %s\n\n"+
			"Thank you for choosing Parkhaus.",
		reservation.ID, status, data.StartFormatted, data.EndFormatted,
	)

	var htmlBody bytes.Buffer
	if err := s.tmpl.Execute(&htmlBody, data); err != nil {
		log.Printf("Error rendering reservation email for %s: %v", reservation.ID, err)
	}

	go func() {
		if err := SendEmailWithSendGrid(toEmail, "", subject, plainTextBody, htmlBody.String()); err != nil {
			log.Printf("Failed to send email for reservation %s: %v", reservation.ID, err)
		}
	}()
}

func (s *SenderService) SendReservationSMS(toPhone string, reservation entities.ReservationResponse, status string) {
	message := fmt.Sprintf("Parkhaus: reservation %s is %s. From %s.\nMore details in your email.",
		reservation.ID, status, reservation.StartTime.UTC().Format("02/01 15:04"))

	go func() {
		if err := SendSMS(toPhone, message); err != nil {
			log.Printf("Failed to send SMS for reservation %s at %s: %v",
				reservation.ID, time.Now().UTC().Format(time.RFC3339), err)
		}
	}()
}
