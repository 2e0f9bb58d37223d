package service

import (
	"context"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/darmiel/ordergate/internal/core"
)

// OrderSubject is the fixed subject line of every confirmation mail.
const OrderSubject = "Confirmação de Pedido"

// confirmationTemplate renders the order confirmation body. Every field is
// optional and simply renders empty when missing.
var confirmationTemplate = template.Must(template.New("order-confirmation").Parse(
	`<h1> Muito Obrigada!</h1>
<p> Verificamos que você realizou um pedido, em breve entraremos em contato por Whatsapp/Instagram.</p>
<p> Email: {{.Email}}</p>
<p> Nome: {{.Name}}</p>
<p> Instagram: {{.Instagram}}</p>
<p> Produto: {{.Product}}</p>
<p> Curso: {{.Course}}</p>
<p> Modelo: {{.Model}}</p>
<p> Estampa de Fundo: {{.Background}}</p>
<p> Cor: {{.Color}}</p>
<p> Personagem: {{.Doll}}</p>
<p> Cabelo do Personagem: {{.DollHair}}</p>
<p> Curso no Porta Jaleco: {{.CourseOnPJ}}</p>
<p> Universidade no Porta Jaleco: {{.University}}</p>
<p> CEP: {{.ZipCode}}</p>
<p> Endereço: {{.Street}}, {{.Number}}</p>
<p> Cidade: {{.City}}</p>
<p> Bairro: {{.Neighbourhood}}</p>
<p> UF: {{.State}}</p>
<p> Telefone: {{.Phone}}</p>`))

// OrderService builds and dispatches order confirmation mails.
// The mailer is injected once at startup and shared by all requests.
type OrderService struct {
	mailer   core.Mailer
	from     string
	operator string
	timeout  time.Duration
}

func NewOrderService(mailer core.Mailer, from, operator string, timeout time.Duration) *OrderService {
	return &OrderService{
		mailer:   mailer,
		from:     from,
		operator: operator,
		timeout:  timeout,
	}
}

// BuildMessage renders the confirmation mail for the given order.
// Recipients are the caller-supplied destination plus the operator copy,
// both always included.
func (s *OrderService) BuildMessage(details core.OrderDetails) (*core.MailMessage, error) {
	var body strings.Builder
	if err := confirmationTemplate.Execute(&body, details); err != nil {
		return nil, fmt.Errorf("rendering confirmation mail: %w", err)
	}

	return &core.MailMessage{
		From:    s.from,
		To:      []string{details.Dest, s.operator},
		Subject: OrderSubject,
		HTML:    body.String(),
	}, nil
}

// Confirm renders the confirmation mail and submits it synchronously.
// Fire and forget: no retry, no queuing; the caller maps the outcome to the
// HTTP response.
func (s *OrderService) Confirm(ctx context.Context, details core.OrderDetails) error {
	msg, err := s.BuildMessage(details)
	if err != nil {
		return err
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	if err := s.mailer.Send(ctx, msg); err != nil {
		return err
	}

	log.Ctx(ctx).Info().
		Str("dest", details.Dest).
		Msg("order confirmation sent")
	return nil
}
