package service

import (
	"errors"
	"strings"
	"testing"
)

func TestContact(t *testing.T) {
	sender := &fakeSender{}
	svc := NewNotifyService(sender, "club@example.com", testLogger())

	in := ContactInput{
		FirstName:   "Jana",
		LastName:    "Nováková",
		Email:       "jana@example.com",
		Phone:       "+420123456789",
		Description: "Chtěla bych přihlásit dceru na trénink.",
	}
	if err := svc.Contact(in); err != nil {
		t.Fatalf("Contact вернул ошибку: %v", err)
	}

	if len(sender.sent) != 1 {
		t.Fatalf("отправлено %d писем, ожидается 1", len(sender.sent))
	}
	msg := sender.sent[0]
	if msg.To != "club@example.com" {
		t.Errorf("To = %q", msg.To)
	}
	if msg.Cc != "jana@example.com" {
		t.Errorf("Cc = %q, ожидается копия отправителю", msg.Cc)
	}
	if !strings.Contains(msg.Subject, "Jana Nováková") {
		t.Errorf("Subject = %q, не содержит имени", msg.Subject)
	}
	if !strings.Contains(msg.Text, in.Description) {
		t.Error("текст письма не содержит сообщение")
	}
	if !strings.Contains(msg.Text, in.Phone) {
		t.Error("текст письма не содержит телефон")
	}
}

func TestContact_NoEmailNoCc(t *testing.T) {
	sender := &fakeSender{}
	svc := NewNotifyService(sender, "club@example.com", testLogger())

	in := ContactInput{FirstName: "Petr", Description: "Dotaz"}
	if err := svc.Contact(in); err != nil {
		t.Fatalf("Contact: %v", err)
	}
	if sender.sent[0].Cc != "" {
		t.Errorf("Cc = %q, ожидается пустое без адреса отправителя", sender.sent[0].Cc)
	}
}

func TestContact_Validation(t *testing.T) {
	sender := &fakeSender{}
	svc := NewNotifyService(sender, "club@example.com", testLogger())

	if err := svc.Contact(ContactInput{Description: "bez jména"}); !errors.Is(err, ErrValidation) {
		t.Errorf("без имени: err = %v, ожидается ErrValidation", err)
	}
	if err := svc.Contact(ContactInput{FirstName: "Jana"}); !errors.Is(err, ErrValidation) {
		t.Errorf("без описания: err = %v, ожидается ErrValidation", err)
	}
	if len(sender.sent) != 0 {
		t.Error("письма отправлены несмотря на отказ валидации")
	}
}

func TestContact_SMTPDown(t *testing.T) {
	svc := NewNotifyService(&fakeSender{fail: true}, "club@example.com", testLogger())

	err := svc.Contact(ContactInput{FirstName: "Jana", Description: "Dotaz"})
	if !errors.Is(err, ErrMailUnavailable) {
		t.Errorf("err = %v, ожидается ErrMailUnavailable", err)
	}
}

func TestNewsletter(t *testing.T) {
	sender := &fakeSender{}
	svc := NewNotifyService(sender, "club@example.com", testLogger())

	if err := svc.Newsletter("fanousek@example.com"); err != nil {
		t.Fatalf("Newsletter вернул ошибку: %v", err)
	}

	if len(sender.sent) != 2 {
		t.Fatalf("отправлено %d писем, ожидается 2 (админу и подписчику)", len(sender.sent))
	}
	if sender.sent[0].To != "club@example.com" {
		t.Errorf("первое письмо To = %q, ожидается адрес администрации", sender.sent[0].To)
	}
	if sender.sent[1].To != "fanousek@example.com" {
		t.Errorf("второе письмо To = %q, ожидается подписчик", sender.sent[1].To)
	}
	if !strings.Contains(sender.sent[0].Text, "fanousek@example.com") {
		t.Error("письмо администрации не содержит адрес подписчика")
	}
}

func TestNewsletter_InvalidEmail(t *testing.T) {
	sender := &fakeSender{}
	svc := NewNotifyService(sender, "club@example.com", testLogger())

	for _, email := range []string{"", "bez-zavinace"} {
		if err := svc.Newsletter(email); !errors.Is(err, ErrValidation) {
			t.Errorf("email %q: err = %v, ожидается ErrValidation", email, err)
		}
	}
	if len(sender.sent) != 0 {
		t.Error("письма отправлены несмотря на отказ валидации")
	}
}
