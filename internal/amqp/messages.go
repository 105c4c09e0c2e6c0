package amqp

import (
	"encoding/json"
	"time"
)

// TransactionEventMessage announces a recorded transaction. It carries
// only identifiers; the worker fetches the full row from the database
// so stale payloads cannot overwrite newer data.
type TransactionEventMessage struct {
	TransactionID string    `json:"transaction_id"`
	UserID        string    `json:"user_id"`
	Timestamp     time.Time `json:"timestamp"`
}

func NewTransactionEventMessage(transactionID, userID string) *TransactionEventMessage {
	return &TransactionEventMessage{
		TransactionID: transactionID,
		UserID:        userID,
		Timestamp:     time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *TransactionEventMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// FromJSON creates a message from JSON bytes
func TransactionEventMessageFromJSON(data []byte) (*TransactionEventMessage, error) {
	var msg TransactionEventMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
