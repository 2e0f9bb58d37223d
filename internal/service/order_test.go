package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/darmiel/ordergate/internal/core"
)

type mailerFunc func(ctx context.Context, msg *core.MailMessage) error

func (f mailerFunc) Send(ctx context.Context, msg *core.MailMessage) error {
	return f(ctx, msg)
}

func TestOrderService_BuildMessage(t *testing.T) {
	svc := NewOrderService(nil, "Shop <shop@example.com>", "shop@example.com", 0)

	t.Run("All Fields Empty", func(t *testing.T) {
		msg, err := svc.BuildMessage(core.OrderDetails{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		// every label renders with an empty substitution, nothing errors
		labels := []string{
			"Email: ", "Nome: ", "Instagram: ", "Produto: ", "Curso: ",
			"Modelo: ", "Estampa de Fundo: ", "Cor: ", "Personagem: ",
			"Cabelo do Personagem: ", "Curso no Porta Jaleco: ",
			"Universidade no Porta Jaleco: ", "CEP: ", "Endereço: ",
			"Cidade: ", "Bairro: ", "UF: ", "Telefone: ",
		}
		for _, label := range labels {
			if !strings.Contains(msg.HTML, label) {
				t.Errorf("body missing label %q", label)
			}
		}

		if msg.Subject != OrderSubject {
			t.Errorf("subject = %q, want %q", msg.Subject, OrderSubject)
		}
		// the operator copy is always included, even with an empty dest
		wantTo := []string{"", "shop@example.com"}
		if diff := cmp.Diff(wantTo, msg.To); diff != "" {
			t.Errorf("recipients mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("Fields Substituted", func(t *testing.T) {
		msg, err := svc.BuildMessage(core.OrderDetails{
			Dest:   "a@b.com",
			Name:   "Jane",
			Street: "Main St",
			Number: "42",
			City:   "Floripa",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		for _, want := range []string{
			"Nome: Jane",
			"Endereço: Main St, 42",
			"Cidade: Floripa",
		} {
			if !strings.Contains(msg.HTML, want) {
				t.Errorf("body missing %q", want)
			}
		}
		if msg.From != "Shop <shop@example.com>" {
			t.Errorf("from = %q", msg.From)
		}
	})
}

func TestOrderService_Confirm(t *testing.T) {
	t.Run("Adapter Error Passes Through", func(t *testing.T) {
		wantErr := errors.New("SMTP timeout")
		svc := NewOrderService(mailerFunc(func(_ context.Context, _ *core.MailMessage) error {
			return wantErr
		}), "Shop <shop@example.com>", "shop@example.com", 0)

		err := svc.Confirm(context.Background(), core.OrderDetails{Dest: "a@b.com"})
		if !errors.Is(err, wantErr) {
			t.Errorf("err = %v, want %v", err, wantErr)
		}
	})

	t.Run("Success", func(t *testing.T) {
		var sent *core.MailMessage
		svc := NewOrderService(mailerFunc(func(_ context.Context, msg *core.MailMessage) error {
			sent = msg
			return nil
		}), "Shop <shop@example.com>", "shop@example.com", 0)

		if err := svc.Confirm(context.Background(), core.OrderDetails{Dest: "a@b.com"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if sent == nil {
			t.Fatal("mailer was not invoked")
		}
		if diff := cmp.Diff([]string{"a@b.com", "shop@example.com"}, sent.To); diff != "" {
			t.Errorf("recipients mismatch (-want +got):\n%s", diff)
		}
	})
}
