package services

import (
	"fmt"
	"log"
	"strings"

	"playlight-backend/utils"

	"github.com/gofiber/fiber/v2"
)

// ContactService forwards contact-form submissions to the notification inbox.
type ContactService struct {
	Mailer            utils.Mailer
	NotificationEmail string
}

func NewContactService(mailer utils.Mailer, notificationEmail string) *ContactService {
	return &ContactService{Mailer: mailer, NotificationEmail: notificationEmail}
}

// SubmitForm handles POST /contact/submit.
func (s *ContactService) SubmitForm(c *fiber.Ctx) error {
	var body struct {
		Email   string `json:"email"`
		Website string `json:"website"`
		Message string `json:"message"`
	}
	if err := c.BodyParser(&body); err != nil || body.Email == "" || body.Website == "" || body.Message == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Email, website, and message are required fields."})
	}

	if !strings.Contains(body.Email, "@") || !strings.Contains(body.Email, ".") {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Please provide a valid email address."})
	}

	text := fmt.Sprintf("Contact Form Submission:\n\nFrom: %s\nWebsite: %s\n\nMessage:\n%s\n",
		body.Email, body.Website, body.Message)

	subject := fmt.Sprintf("Playlight Form Submission (%s)", body.Website)
	if err := s.Mailer.Send(s.NotificationEmail, subject, text); err != nil {
		log.Printf("❌ [CONTACT] failed to send form mail: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to submit form. Please try again later."})
	}

	return c.JSON(fiber.Map{"message": "Form submitted successfully!"})
}
