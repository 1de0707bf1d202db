package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusPaid      Status = "paid"
	StatusRejected  Status = "rejected"
	StatusFulfilled Status = "fulfilled"
)

// Order is a funded-challenge purchase. PaymentProof holds the raw uploaded
// receipt image and never leaves the store through list endpoints.
type Order struct {
	ID            int64
	Username      string
	Email         string
	ChallengeType string
	AccountSize   string
	Platform      string
	PaymentMethod string
	TxID          string
	PaymentProof  []byte
	Status        Status
	CreatedAt     time.Time
}

const publicIDPrefix = "FDH"

// PublicID is the customer-facing order reference.
func (o Order) PublicID() string {
	return fmt.Sprintf("%s%d", publicIDPrefix, o.ID)
}

// ParsePublicID recovers the numeric id from an FDH reference. It accepts a
// bare numeric id too, matching what older clients send.
func ParsePublicID(s string) (int64, error) {
	trimmed := strings.TrimPrefix(s, publicIDPrefix)
	id, err := strconv.ParseInt(trimmed, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid order id %q", s)
	}
	return id, nil
}

func ValidStatus(s string) bool {
	switch Status(s) {
	case StatusPending, StatusPaid, StatusRejected, StatusFulfilled:
		return true
	}
	return false
}
