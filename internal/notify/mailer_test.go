package notify

import (
	"net/smtp"
	"strings"
	"testing"
	"time"
)

func TestSendBuildsMessage(t *testing.T) {
	var gotAddr, gotFrom string
	var gotTo []string
	var gotMsg []byte

	m := NewMailer("smtp.example.com:587", "vios@example.com", "vios@example.com", "secret")
	m.send = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotFrom, gotTo, gotMsg = addr, from, to, msg
		return nil
	}

	err := m.Send(Message{
		To:      []string{"ops@example.com"},
		CC:      []string{"lab@example.com"},
		BCC:     []string{"audit@example.com"},
		Subject: "BIOS apply failed",
		Body:    "details follow",
	})
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if gotAddr != "smtp.example.com:587" || gotFrom != "vios@example.com" {
		t.Fatalf("wrong relay or sender: %q %q", gotAddr, gotFrom)
	}
	if len(gotTo) != 3 {
		t.Fatalf("envelope must include to, cc and bcc: %v", gotTo)
	}

	text := string(gotMsg)
	if !strings.Contains(text, "Subject: BIOS apply failed\r\n") {
		t.Fatalf("subject header missing:\n%s", text)
	}
	if !strings.Contains(text, "To: ops@example.com\r\n") {
		t.Fatalf("to header missing:\n%s", text)
	}
	if !strings.Contains(text, "Cc: lab@example.com\r\n") {
		t.Fatalf("cc header missing:\n%s", text)
	}
	if strings.Contains(text, "audit@example.com") {
		t.Fatalf("bcc recipient must not appear in headers:\n%s", text)
	}
	if !strings.HasSuffix(text, "\r\ndetails follow\r\n") {
		t.Fatalf("body missing:\n%s", text)
	}
}

func TestSendNoRecipients(t *testing.T) {
	m := NewMailer("smtp.example.com:587", "a@b", "a@b", "pw")
	if err := m.Send(Message{Subject: "s", Body: "b"}); err == nil {
		t.Fatal("empty recipient list must error")
	}
}

func TestSendBadAddress(t *testing.T) {
	m := NewMailer("no-port-here", "a@b", "a@b", "pw")
	m.send = func(string, smtp.Auth, string, []string, []byte) error { return nil }
	if err := m.Send(Message{To: []string{"x@y"}, Subject: "s", Body: "b"}); err == nil {
		t.Fatal("address without port must error")
	}
}

func TestBuildMessageDate(t *testing.T) {
	at := time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)
	msg := string(buildMessage("a@b", Message{To: []string{"c@d"}, Subject: "s", Body: "body"}, at))
	if !strings.Contains(msg, "Date: Wed, 01 May 2024 09:30:00 +0000\r\n") {
		t.Fatalf("date header wrong:\n%s", msg)
	}
}
