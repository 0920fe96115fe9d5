//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"chat-hub/domain"
	"context"
	"reflect"
)

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

// Worker doesn't protect itself
// Can be silly, focused
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// This is used for logging and supervision purposes during worker initialization
// or lifecycle events, avoiding the need for manual naming in the Worker interface.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

// Connection is the only capability the registry needs from a transport session.
// SendText must not block for long; Close must be safe to call more than once.
type Connection interface {
	SendText(payload []byte) error
	Close()
}

type IRegistry interface {
	Admit(userID string, conn Connection) domain.ConnectionID
	Remove(connectionID domain.ConnectionID, userID string)
	SendTo(userID string, payload []byte)
	IsOnline(userID string) bool
	OnlineCount() int
}

type IBroadcaster interface {
	FanOut(ctx context.Context, message domain.Message, chat domain.Chat)
}

// UserDirectory is the read side of the account store used by chat validation and naming.
type UserDirectory interface {
	CountExisting(ids []string) (int, error)
	DisplayName(userID string) (string, error)
}

// Censor rewrites forbidden words of a message content.
type Censor interface {
	Censor(original string) (string, []string)
}
