package services

import (
	"fmt"
	"net/smtp"
	"os"
	"strings"
	"time"

	"github.com/kdteam/kd-restaurant/models"
	"github.com/kdteam/kd-restaurant/utils"
)

// BookingNotifier sends customer-facing booking emails. Delivery is best
// effort: failures are logged and never propagated into the calling
// transaction.
type BookingNotifier struct{}

func NewBookingNotifier() *BookingNotifier {
	return &BookingNotifier{}
}

// SendTableAssignment notifies the customer which table and branch serve
// their reservation.
func (n *BookingNotifier) SendTableAssignment(booking *models.Booking, table *models.Table, branch *models.Branch) {
	to := recipientOf(booking)
	if to == "" {
		return
	}

	branchName := "KD Restaurant"
	if branch != nil {
		branchName = branch.BranchName
	}
	subject := "KD Restaurant - Xác nhận xếp bàn"
	body := fmt.Sprintf(
		"Xin chào,\r\n\r\n"+
			"Đặt bàn của quý khách ngày %s (%s) đã được xếp vào bàn %s tại %s.\r\n"+
			"Hẹn gặp quý khách!\r\n",
		booking.BookingDate.Format("02/01/2006"), strings.TrimSpace(booking.TimeSlot), table.TableName, branchName,
	)
	n.send(to, subject, body)
}

// SendBookingCancelled confirms a cancellation and echoes the reason back.
func (n *BookingNotifier) SendBookingCancelled(booking *models.Booking, reason string) {
	to := recipientOf(booking)
	if to == "" {
		return
	}

	subject := "KD Restaurant - Đặt bàn đã huỷ"
	body := fmt.Sprintf(
		"Xin chào,\r\n\r\n"+
			"Đặt bàn của quý khách ngày %s (%s) đã được huỷ.\r\nLý do: %s\r\n\r\n"+
			"Mong được phục vụ quý khách lần sau.\r\n",
		booking.BookingDate.Format("02/01/2006"), strings.TrimSpace(booking.TimeSlot), reason,
	)
	n.send(to, subject, body)
}

func recipientOf(booking *models.Booking) string {
	if booking == nil {
		return ""
	}
	if booking.Email != "" {
		return booking.Email
	}
	if booking.Customer != nil {
		return booking.Customer.Email
	}
	return ""
}

func (n *BookingNotifier) send(to, subject, body string) {
	smtpHost := os.Getenv("SMTP_HOST")
	smtpPort := os.Getenv("SMTP_PORT")
	smtpUser := os.Getenv("SMTP_USERNAME")
	smtpPass := os.Getenv("SMTP_PASSWORD")

	if smtpHost == "" || smtpPort == "" || smtpUser == "" || smtpPass == "" {
		utils.InfoLogger.Infof("[MOCK EMAIL] to:%s subject:%s", to, subject)
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("From: %s\r\n", smtpUser))
	sb.WriteString(fmt.Sprintf("To: %s\r\n", to))
	sb.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	sb.WriteString(fmt.Sprintf("Date: %s\r\n", time.Now().Format(time.RFC1123Z)))
	sb.WriteString("MIME-Version: 1.0\r\n")
	sb.WriteString("Content-Type: text/plain; charset=utf-8\r\n\r\n")
	sb.WriteString(body)

	addr := fmt.Sprintf("%s:%s", smtpHost, smtpPort)
	auth := smtp.PlainAuth("", smtpUser, smtpPass, smtpHost)
	if err := smtp.SendMail(addr, auth, smtpUser, []string{to}, []byte(sb.String())); err != nil {
		utils.ErrorLogger.Errorf("failed to send email to %s: %v", to, err)
		return
	}
	utils.InfoLogger.Infof("email sent to %s", to)
}
