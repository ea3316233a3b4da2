package models

// PaymentCard is a credit-card secret owned by exactly one user. Only the
// card number is encrypted at rest; cvv and expiration are stored in clear.
type PaymentCard struct {
	ID         int64
	UserID     int64
	Firstname  string
	Lastname   string
	CardNumber string
	CVV        string
	Expiration string
	Website    string
}

// Last4 returns the masked display form of the card number, the only part
// list views should render.
func (c PaymentCard) Last4() string {
	if len(c.CardNumber) <= 4 {
		return c.CardNumber
	}
	return c.CardNumber[len(c.CardNumber)-4:]
}

// NewPaymentCardRequest carries the validated input for inserting a card.
type NewPaymentCardRequest struct {
	Firstname  string
	Lastname   string
	CardNumber string
	CVV        string
	Expiration string
	Website    string
}
