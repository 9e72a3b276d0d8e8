package model

// AllModels returns every model subject to schema migration. New tables only
// need to be added here.
func AllModels() []interface{} {
	return []interface{}{
		&User{},
		&Transaction{},
		&PaymentRequest{},
		&Reaction{},
		&OutboxMessage{},
	}
}
