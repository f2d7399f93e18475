package stripe

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Dhoini/course-platform/internal/domain"
	"github.com/Dhoini/course-platform/pkg/logger"

	"github.com/stripe/stripe-go/v78"
	"github.com/stripe/stripe-go/v78/client"
)

// DefaultCurrency валюта платформы
const DefaultCurrency = "rub"

// Product проекция продукта Stripe
type Product struct {
	ID          string
	Name        string
	Description string
}

// Price проекция цены Stripe. Amount в минорных единицах (копейках).
type Price struct {
	ID        string
	ProductID string
	Amount    int64
	Currency  string
}

// CheckoutSession проекция сессии оплаты Stripe
type CheckoutSession struct {
	ID            string
	URL           string
	PaymentStatus string
	AmountTotal   int64
	Currency      string
}

// SessionStatus проекция статуса сессии оплаты
type SessionStatus struct {
	ID            string `json:"id"`
	PaymentStatus string `json:"payment_status"`
	Status        string `json:"status"`
	AmountTotal   int64  `json:"amount_total"`
	Currency      string `json:"currency"`
	CustomerEmail string `json:"customer_email,omitempty"`
}

// Client определяет операции платежного шлюза, которые нужны платформе.
// Реализация никогда не отдает наружу типы Stripe SDK и не ретраит запросы.
type Client interface {
	// CreateProduct создает продукт. Пустое описание заменяется на "Курс: {name}".
	CreateProduct(ctx context.Context, name, description string) (Product, error)

	// CreatePrice создает разовую (нерекуррентную) цену для продукта.
	// Сумма в мажорных единицах конвертируется в минорные умножением на 100
	// с усечением: для сумм с более чем двумя знаками после запятой
	// конвертация необратима.
	CreatePrice(ctx context.Context, productID string, amount float64, currency string) (Price, error)

	// CreateCheckoutSession создает сессию оплаты: одна позиция,
	// количество 1, только карта, разовый платеж.
	CreateCheckoutSession(ctx context.Context, priceID, successURL, cancelURL string, metadata map[string]string) (CheckoutSession, error)

	// GetSessionStatus возвращает живой статус сессии оплаты.
	GetSessionStatus(ctx context.Context, sessionID string) (SessionStatus, error)
}

// stripeClient реализует интерфейс Client поверх stripe-go.
// API-ключ передается в конструктор явно: никакого глобального состояния.
type stripeClient struct {
	client  *client.API
	timeout time.Duration
	log     *logger.Logger
}

// NewClient создает новый клиент Stripe с явным таймаутом на запрос
func NewClient(apiKey string, timeout time.Duration, log *logger.Logger) Client {
	sc := &client.API{}
	sc.Init(apiKey, nil)
	return &stripeClient{
		client:  sc,
		timeout: timeout,
		log:     log,
	}
}

// MinorUnits конвертирует сумму из мажорных единиц в минорные (x100).
// Дробная часть копеек усекается: 999.995 -> 99999.
func MinorUnits(amount float64) int64 {
	return int64(amount * 100)
}

// CreateProduct создает продукт в Stripe
func (sc *stripeClient) CreateProduct(ctx context.Context, name, description string) (Product, error) {
	ctx, cancel := context.WithTimeout(ctx, sc.timeout)
	defer cancel()

	if description == "" {
		description = fmt.Sprintf("Курс: %s", name)
	}

	params := &stripe.ProductParams{
		Name:        stripe.String(name),
		Description: stripe.String(description),
	}
	params.Context = ctx

	product, err := sc.client.Products.New(params)
	if err != nil {
		return Product{}, sc.translateError("CreateProduct", err)
	}

	sc.log.Infow("Stripe product created", "productID", product.ID, "name", name)
	return Product{
		ID:          product.ID,
		Name:        product.Name,
		Description: product.Description,
	}, nil
}

// CreatePrice создает разовую цену для продукта в Stripe
func (sc *stripeClient) CreatePrice(ctx context.Context, productID string, amount float64, currency string) (Price, error) {
	ctx, cancel := context.WithTimeout(ctx, sc.timeout)
	defer cancel()

	if currency == "" {
		currency = DefaultCurrency
	}

	params := &stripe.PriceParams{
		Product:    stripe.String(productID),
		UnitAmount: stripe.Int64(MinorUnits(amount)),
		Currency:   stripe.String(currency),
	}
	params.Context = ctx

	price, err := sc.client.Prices.New(params)
	if err != nil {
		return Price{}, sc.translateError("CreatePrice", err)
	}

	sc.log.Infow("Stripe price created", "priceID", price.ID, "productID", productID, "unitAmount", price.UnitAmount)
	return Price{
		ID:        price.ID,
		ProductID: productID,
		Amount:    price.UnitAmount,
		Currency:  string(price.Currency),
	}, nil
}

// CreateCheckoutSession создает сессию оплаты в Stripe
func (sc *stripeClient) CreateCheckoutSession(ctx context.Context, priceID, successURL, cancelURL string, metadata map[string]string) (CheckoutSession, error) {
	ctx, cancel := context.WithTimeout(ctx, sc.timeout)
	defer cancel()

	params := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(priceID),
				Quantity: stripe.Int64(1),
			},
		},
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(successURL),
		CancelURL:  stripe.String(cancelURL),
	}
	params.Context = ctx
	for k, v := range metadata {
		params.AddMetadata(k, v)
	}

	session, err := sc.client.CheckoutSessions.New(params)
	if err != nil {
		return CheckoutSession{}, sc.translateError("CreateCheckoutSession", err)
	}

	sc.log.Infow("Stripe checkout session created", "sessionID", session.ID)
	return CheckoutSession{
		ID:            session.ID,
		URL:           session.URL,
		PaymentStatus: string(session.PaymentStatus),
		AmountTotal:   session.AmountTotal,
		Currency:      string(session.Currency),
	}, nil
}

// GetSessionStatus возвращает статус сессии оплаты из Stripe
func (sc *stripeClient) GetSessionStatus(ctx context.Context, sessionID string) (SessionStatus, error) {
	ctx, cancel := context.WithTimeout(ctx, sc.timeout)
	defer cancel()

	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx

	session, err := sc.client.CheckoutSessions.Get(sessionID, params)
	if err != nil {
		return SessionStatus{}, sc.translateError("GetSessionStatus", err)
	}

	status := SessionStatus{
		ID:            session.ID,
		PaymentStatus: string(session.PaymentStatus),
		Status:        string(session.Status),
		AmountTotal:   session.AmountTotal,
		Currency:      string(session.Currency),
	}
	if session.CustomerDetails != nil {
		status.CustomerEmail = session.CustomerDetails.Email
	}

	return status, nil
}

// translateError переводит ошибку Stripe в доменную ошибку внешнего
// сервиса с сообщением провайдера
func (sc *stripeClient) translateError(operation string, err error) error {
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) {
		sc.log.Errorw("Stripe API error",
			"operation", operation,
			"type", string(stripeErr.Type),
			"code", string(stripeErr.Code),
			"message", stripeErr.Msg,
			"request_id", stripeErr.RequestID,
		)
		return domain.NewExternalServiceError("stripe", stripeErr.Msg, err)
	}

	sc.log.Errorw("Non-Stripe error during Stripe operation", "operation", operation, "error", err)
	return domain.NewExternalServiceError("stripe", "request failed", err)
}
