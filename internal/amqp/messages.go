package amqp

import (
	"encoding/json"
	"errors"
	"time"
)

// Op names the mutation that produced a change event.
type Op string

const (
	OpCreate Op = "create"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

var ErrInvalidMessage = errors.New("invalid transaction changed message")

// TransactionChangedMessage announces that a user's transaction snapshot changed.
// It carries identifiers only; consumers reload the snapshot from the store.
type TransactionChangedMessage struct {
	UserID        string    `json:"user_id"`
	TransactionID string    `json:"transaction_id"`
	Op            Op        `json:"op"`
	Timestamp     time.Time `json:"timestamp"`
}

func NewTransactionChangedMessage(userID, transactionID string, op Op) *TransactionChangedMessage {
	return &TransactionChangedMessage{
		UserID:        userID,
		TransactionID: transactionID,
		Op:            op,
		Timestamp:     time.Now().UTC(),
	}
}

func (m *TransactionChangedMessage) Validate() error {
	if m.UserID == "" {
		return ErrInvalidMessage
	}
	switch m.Op {
	case OpCreate, OpUpdate, OpDelete:
		return nil
	default:
		return ErrInvalidMessage
	}
}

func (m *TransactionChangedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// TransactionChangedMessageFromJSON decodes and validates a message body.
func TransactionChangedMessageFromJSON(data []byte) (*TransactionChangedMessage, error) {
	var msg TransactionChangedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if err := msg.Validate(); err != nil {
		return nil, err
	}
	return &msg, nil
}
